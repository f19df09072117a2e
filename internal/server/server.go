// Package server exposes the processing element over HTTP: a dot-product
// evaluation endpoint and a health probe.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/example/go-pe-sim/internal/config"
	"github.com/example/go-pe-sim/internal/fp32"
	"github.com/example/go-pe-sim/internal/pe"
)

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// Evaluator computes one packed dot-product result from two operand buses.
type Evaluator func(a, b fp32.Bus) uint32

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	maxBodyBytes int
	logger       *slog.Logger
}

func defaultOptions() options {
	return options{
		maxBodyBytes: 4096,
		logger:       slog.Default(),
	}
}

// Option configures the HTTP handler.
type Option func(*options)

// WithMaxBodyBytes sets the maximum allowed request body size for POST /dot.
func WithMaxBodyBytes(n int) Option {
	return func(o *options) { o.maxBodyBytes = n }
}

// WithLogger sets the slog.Logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ---------------------------------------------------------------------------
// handler
// ---------------------------------------------------------------------------

// handler holds the dependencies needed to serve HTTP requests.
type handler struct {
	eval Evaluator
	opts options
	log  *slog.Logger
}

// NewHandler returns an http.Handler that serves /health and POST /dot.
func NewHandler(eval Evaluator, optFns ...Option) http.Handler {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &handler{
		eval: eval,
		opts: opts,
		log:  opts.logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/dot", h.handleDot)
	return mux
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildVersion(),
	})
}

// dotRequest carries one operation's operands: either float lane values or
// raw 0x-prefixed bit patterns, five per bus.
type dotRequest struct {
	A     []float32 `json:"a"`
	B     []float32 `json:"b"`
	ABits []string  `json:"a_bits"`
	BBits []string  `json:"b_bits"`
}

type dotResponse struct {
	Result float32 `json:"result"`
	Bits   string  `json:"bits"`
}

func (h *handler) handleDot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if r.Body == nil {
		writeError(w, http.StatusBadRequest, "request body is required")
		return
	}
	body := http.MaxBytesReader(w, r.Body, int64(h.opts.maxBodyBytes))

	var req dotRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("body exceeds maximum size of %d bytes", h.opts.maxBodyBytes))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	a, err := busFromRequest(req.A, req.ABits, "a")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b, err := busFromRequest(req.B, req.BBits, "b")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	bits := h.eval(a, b)
	durationUS := time.Since(start).Microseconds()

	h.log.InfoContext(r.Context(), "dot evaluated",
		slog.String("a", a.String()),
		slog.String("b", b.String()),
		slog.String("result", fmt.Sprintf("%#08x", bits)),
		slog.Int64("duration_us", durationUS),
	)

	writeJSON(w, http.StatusOK, dotResponse{
		Result: math.Float32frombits(bits),
		Bits:   fmt.Sprintf("0x%08x", bits),
	})
}

// busFromRequest builds a bus from either the float lane values or the raw
// bit patterns; exactly one of the two must carry five lanes.
func busFromRequest(vals []float32, bits []string, field string) (fp32.Bus, error) {
	switch {
	case len(bits) > 0:
		if len(bits) != fp32.Lanes {
			return fp32.Bus{}, fmt.Errorf("field %s_bits: want %d lanes, got %d", field, fp32.Lanes, len(bits))
		}
		var bus fp32.Bus
		for i, s := range bits {
			v, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"), 16, 32)
			if err != nil {
				return fp32.Bus{}, fmt.Errorf("field %s_bits lane %d: %q is not a 32-bit hex value", field, i, s)
			}
			bus[i] = uint32(v)
		}
		return bus, nil
	case len(vals) > 0:
		if len(vals) != fp32.Lanes {
			return fp32.Bus{}, fmt.Errorf("field %s: want %d lanes, got %d", field, fp32.Lanes, len(vals))
		}
		var lanes [fp32.Lanes]float32
		copy(lanes[:], vals)
		return fp32.PackBus(lanes), nil
	default:
		return fp32.Bus{}, fmt.Errorf("field %s is required (floats or %s_bits)", field, field)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ---------------------------------------------------------------------------
// Server
// ---------------------------------------------------------------------------

// Server wires the HTTP handler into a net/http.Server with graceful shutdown.
type Server struct {
	cfg             config.Config
	shutdownTimeout time.Duration
}

func New(cfg config.Config) *Server {
	return &Server{
		cfg:             cfg,
		shutdownTimeout: 30 * time.Second,
	}
}

// WithShutdownTimeout overrides the graceful-shutdown drain period.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	s.shutdownTimeout = d
	return s
}

func (s *Server) Start(ctx context.Context) error {
	h := NewHandler(pe.Run, WithMaxBodyBytes(s.cfg.Server.MaxBodyBytes))

	httpServer := &http.Server{
		Addr:              s.cfg.Server.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("http listen: %w", err)
	}
}

// ProbeHTTP checks a running server's health endpoint.
func ProbeHTTP(addr string) error {
	resp, err := http.Get("http://" + addr + "/health") //nolint:noctx
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status: %s", resp.Status)
	}
	return nil
}
