// Package config loads wickedprint settings from flags, environment
// variables, an optional config file and an optional .env file.
//
// Precedence, highest first: flags bound with BindFlags, WICKED_* environment
// variables, the config file, the .env file, defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys understood by Load.
const (
	KeyLogLevel      = "log-level"
	KeyLogFile       = "log-file"
	KeyMaxQueue      = "max-queue"
	KeyPrintInterval = "print-interval"
	KeyInteractive   = "interactive"
	KeyTestMode      = "test-mode"
)

const envPrefix = "WICKED"

// Config holds the resolved settings.
type Config struct {
	LogLevel      string
	LogFile       string
	MaxQueue      int // 0 = unbounded
	PrintInterval time.Duration
	Interactive   bool
	TestMode      bool
}

// Options tells Load where to look.
type Options struct {
	ConfigFile string // optional; yaml, toml or json by extension
	DotEnvFile string // optional; missing file is not an error
	Flags      *pflag.FlagSet
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyLogLevel, "")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyMaxQueue, 0)
	v.SetDefault(KeyPrintInterval, 15*time.Millisecond)
	v.SetDefault(KeyInteractive, false)
	v.SetDefault(KeyTestMode, false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load resolves a Config using v (see New).
func Load(v *viper.Viper, opts Options) (*Config, error) {
	if opts.DotEnvFile != "" {
		if err := loadDotEnv(v, opts.DotEnvFile); err != nil {
			return nil, err
		}
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", opts.ConfigFile, err)
		}
	}

	if opts.Flags != nil {
		if err := BindFlags(v, opts.Flags); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		LogLevel:      v.GetString(KeyLogLevel),
		LogFile:       v.GetString(KeyLogFile),
		MaxQueue:      v.GetInt(KeyMaxQueue),
		PrintInterval: v.GetDuration(KeyPrintInterval),
		Interactive:   v.GetBool(KeyInteractive),
		TestMode:      v.GetBool(KeyTestMode),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the printer cannot use.
func (c *Config) Validate() error {
	if c.MaxQueue < 0 {
		return fmt.Errorf("%s must be positive or 0 for unbounded, got %d", KeyMaxQueue, c.MaxQueue)
	}
	if c.PrintInterval < 0 {
		return fmt.Errorf("%s must be non-negative, got %s", KeyPrintInterval, c.PrintInterval)
	}
	return nil
}

// BindFlags binds every known key that has a flag of the same name in fs.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, key := range []string{KeyLogLevel, KeyLogFile, KeyMaxQueue, KeyPrintInterval, KeyInteractive, KeyTestMode} {
		flag := fs.Lookup(key)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("error binding %s flag: %w", key, err)
		}
	}
	return nil
}

// loadDotEnv reads WICKED_* entries from a .env file as defaults, so real
// environment variables and flags still win.
func loadDotEnv(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read .env file %s: %w", path, err)
	}

	envMap, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return fmt.Errorf("failed to parse .env file %s: %w", path, err)
	}

	for key, value := range envMap {
		name, ok := strings.CutPrefix(key, envPrefix+"_")
		if !ok {
			continue
		}
		v.SetDefault(strings.ReplaceAll(strings.ToLower(name), "_", "-"), value)
	}
	return nil
}
