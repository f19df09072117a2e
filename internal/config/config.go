package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	LogLevel string       `mapstructure:"log_level"`
	Server   ServerConfig `mapstructure:"server"`
	Verify   VerifyConfig `mapstructure:"verify"`
	Bench    BenchConfig  `mapstructure:"bench"`
}

type ServerConfig struct {
	ListenAddr      string `mapstructure:"listen_addr"`
	MaxBodyBytes    int    `mapstructure:"max_body_bytes"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

type VerifyConfig struct {
	Seed    int64  `mapstructure:"seed"`
	Count   int    `mapstructure:"count"`
	Profile string `mapstructure:"profile"`
}

type BenchConfig struct {
	Runs int `mapstructure:"runs"`
	Ops  int `mapstructure:"ops"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Server: ServerConfig{
			ListenAddr:      ":8080",
			MaxBodyBytes:    4096,
			ShutdownTimeout: 30,
		},
		Verify: VerifyConfig{
			Seed:    1,
			Count:   1000,
			Profile: "normal",
		},
		Bench: BenchConfig{
			Runs: 5,
			Ops:  100000,
		},
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
	fs.String("server-listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.Int("server-max-body-bytes", defaults.Server.MaxBodyBytes, "Maximum request body size in bytes")
	fs.Int("server-shutdown-timeout", defaults.Server.ShutdownTimeout, "Graceful shutdown drain period in seconds")
	fs.Int64("verify-seed", defaults.Verify.Seed, "Random seed for verification sweeps")
	fs.Int("verify-count", defaults.Verify.Count, "Number of operand pairs per verification sweep")
	fs.String("verify-profile", defaults.Verify.Profile, "Operand profile (normal|small|large|mixed)")
	fs.Int("bench-runs", defaults.Bench.Runs, "Number of bench runs")
	fs.Int("bench-ops", defaults.Bench.Ops, "Operations per bench run")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := v.BindPFlags(opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}
	registerAliases(v)

	v.SetEnvPrefix("PESIM")
	replacer := strings.NewReplacer("-", "_", ".", "_", "__", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("pesim")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.max_body_bytes", c.Server.MaxBodyBytes)
	v.SetDefault("server.shutdown_timeout", c.Server.ShutdownTimeout)
	v.SetDefault("verify.seed", c.Verify.Seed)
	v.SetDefault("verify.count", c.Verify.Count)
	v.SetDefault("verify.profile", c.Verify.Profile)
	v.SetDefault("bench.runs", c.Bench.Runs)
	v.SetDefault("bench.ops", c.Bench.Ops)
}

func registerAliases(v *viper.Viper) {
	v.RegisterAlias("log_level", "log-level")
	v.RegisterAlias("server.listen_addr", "server-listen-addr")
	v.RegisterAlias("server.max_body_bytes", "server-max-body-bytes")
	v.RegisterAlias("server.shutdown_timeout", "server-shutdown-timeout")
	v.RegisterAlias("verify.seed", "verify-seed")
	v.RegisterAlias("verify.count", "verify-count")
	v.RegisterAlias("verify.profile", "verify-profile")
	v.RegisterAlias("bench.runs", "bench-runs")
	v.RegisterAlias("bench.ops", "bench-ops")
}
