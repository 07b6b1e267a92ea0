// Package config loads axiom settings from defaults, a config file,
// AXIOM_* environment variables and command line flags, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Tokenizer TokenizerConfig `mapstructure:"tokenizer"`
	Encode    EncodeConfig    `mapstructure:"encode"`
	Server    ServerConfig    `mapstructure:"server"`
	LogLevel  string          `mapstructure:"log_level"`
	LogFormat string          `mapstructure:"log_format"`
}

type TokenizerConfig struct {
	MergesPath string `mapstructure:"merges_path"`
	VocabSize  int    `mapstructure:"vocab_size"`
	Counter    string `mapstructure:"counter"`
	LogEvery   int    `mapstructure:"log_every"`
}

type EncodeConfig struct {
	Workers  int `mapstructure:"workers"`
	MinBatch int `mapstructure:"min_batch"`
}

type ServerConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
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
		Tokenizer: TokenizerConfig{
			MergesPath: "axiom.merges",
			VocabSize:  30000,
			Counter:    "scan",
			LogEvery:   100,
		},
		Encode: EncodeConfig{
			Workers:  0,
			MinBatch: 16,
		},
		Server: ServerConfig{
			ListenAddr: ":8080",
		},
		LogLevel:  "info",
		LogFormat: "text",
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("tokenizer-merges-path", defaults.Tokenizer.MergesPath, "Path to the merge table")
	fs.Int("tokenizer-vocab-size", defaults.Tokenizer.VocabSize, "Target vocabulary size for training")
	fs.String("tokenizer-counter", defaults.Tokenizer.Counter, "Pair counting strategy (scan|ordered)")
	fs.Int("tokenizer-log-every", defaults.Tokenizer.LogEvery, "Log training progress every N merges (0 disables)")
	fs.Int("encode-workers", defaults.Encode.Workers, "Batch encoding workers (0 = number of CPUs)")
	fs.Int("encode-min-batch", defaults.Encode.MinBatch, "Smallest batch encoded in parallel")
	fs.String("server-listen-addr", defaults.Server.ListenAddr, "HTTP listen address")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
	fs.String("log-format", defaults.LogFormat, "Log format (text|json)")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := bindFlags(v, opts.Cmd.Flags()); err != nil {
			return Config{}, err
		}
	}

	v.SetEnvPrefix("AXIOM")
	replacer := strings.NewReplacer("-", "_", ".", "_", "__", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("axiom")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects settings the tokenizer cannot run with.
func (c Config) Validate() error {
	if c.Tokenizer.VocabSize < 256 {
		return fmt.Errorf("tokenizer.vocab_size must be at least 256, got %d", c.Tokenizer.VocabSize)
	}
	switch c.Tokenizer.Counter {
	case "", "scan", "ordered":
	default:
		return fmt.Errorf("invalid tokenizer.counter %q (expected scan|ordered)", c.Tokenizer.Counter)
	}
	if c.Tokenizer.LogEvery < 0 {
		return fmt.Errorf("tokenizer.log_every must not be negative")
	}
	if c.Encode.Workers < 0 {
		return fmt.Errorf("encode.workers must not be negative")
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q (expected text|json)", c.LogFormat)
	}
	return nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("tokenizer.merges_path", c.Tokenizer.MergesPath)
	v.SetDefault("tokenizer.vocab_size", c.Tokenizer.VocabSize)
	v.SetDefault("tokenizer.counter", c.Tokenizer.Counter)
	v.SetDefault("tokenizer.log_every", c.Tokenizer.LogEvery)
	v.SetDefault("encode.workers", c.Encode.Workers)
	v.SetDefault("encode.min_batch", c.Encode.MinBatch)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("log_format", c.LogFormat)
}

// flagKeys maps config keys to the flag names RegisterFlags uses.
var flagKeys = map[string]string{
	"tokenizer.merges_path": "tokenizer-merges-path",
	"tokenizer.vocab_size":  "tokenizer-vocab-size",
	"tokenizer.counter":     "tokenizer-counter",
	"tokenizer.log_every":   "tokenizer-log-every",
	"encode.workers":        "encode-workers",
	"encode.min_batch":      "encode-min-batch",
	"server.listen_addr":    "server-listen-addr",
	"log_level":             "log-level",
	"log_format":            "log-format",
}

// bindFlags binds each known flag to its nested key, so config files keep
// working for keys whose flag was left unset.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for key, name := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}
