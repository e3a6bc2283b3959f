package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dshills/qcgen/internal/profile"
	"github.com/dshills/qcgen/internal/qc"
	"github.com/dshills/qcgen/internal/rules"
)

// EnvPrefix prefixes every environment override, e.g. QCGEN_GENERATION_TARGET.
const EnvPrefix = "QCGEN"

// Config holds the application configuration.
type Config struct {
	Generation GenerationConfig `mapstructure:"generation" yaml:"generation"`
	Rules      RulesConfig      `mapstructure:"rules" yaml:"rules"`
	Logger     LoggerConfig     `mapstructure:"logger" yaml:"logger"`
	Relay      RelayConfig      `mapstructure:"relay" yaml:"relay"`
}

// GenerationConfig are the default control parameters. CVPercent is in
// percent, the unit users enter.
type GenerationConfig struct {
	Target       float64 `mapstructure:"target" yaml:"target"`
	CVPercent    float64 `mapstructure:"cv_percent" yaml:"cv_percent"`
	Bias         float64 `mapstructure:"bias" yaml:"bias"`
	DriftRate    float64 `mapstructure:"drift_rate" yaml:"drift_rate"`
	Count        int     `mapstructure:"count" yaml:"count"`
	Distribution string  `mapstructure:"distribution" yaml:"distribution"`
	Seed         uint64  `mapstructure:"seed" yaml:"seed"` // 0 picks a random seed
	Constrained  bool    `mapstructure:"constrained" yaml:"constrained"`
	MaxAttempts  int     `mapstructure:"max_attempts" yaml:"max_attempts"`
}

// RulesConfig selects a profile and optional per-rule overrides.
type RulesConfig struct {
	Profile string          `mapstructure:"profile" yaml:"profile"`
	Enabled map[string]bool `mapstructure:"enabled" yaml:"enabled"`
}

// LoggerConfig configures the zap logger.
type LoggerConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// RelayConfig paces the text relay.
type RelayConfig struct {
	StartDelay time.Duration `mapstructure:"start_delay" yaml:"start_delay"`
	Delay      time.Duration `mapstructure:"delay" yaml:"delay"`
}

// SetDefaults initializes default values for every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("generation.target", 100.0)
	v.SetDefault("generation.cv_percent", 2.0)
	v.SetDefault("generation.bias", 0.0)
	v.SetDefault("generation.drift_rate", 0.0)
	v.SetDefault("generation.count", 31)
	v.SetDefault("generation.distribution", string(qc.Normal))
	v.SetDefault("generation.seed", 0)
	v.SetDefault("generation.constrained", false)
	v.SetDefault("generation.max_attempts", 10000)

	v.SetDefault("rules.profile", "westgard")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", false)

	v.SetDefault("relay.start_delay", "500ms")
	v.SetDefault("relay.delay", "50ms")
}

// Load reads configuration from path (or ./qcgen.yaml when path is empty and
// the file exists), QCGEN_* environment variables and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("qcgen")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return NewConfigFromViper(v)
}

// NewConfigFromViper unmarshals and validates v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewDefaultConfig returns the configuration with only defaults applied.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// Validate checks values that cannot be checked later by the core.
func (c *Config) Validate() error {
	if _, err := qc.ParseDistribution(c.Generation.Distribution); err != nil {
		return fmt.Errorf("generation.distribution: %w", err)
	}
	if c.Generation.MaxAttempts <= 0 {
		return fmt.Errorf("generation.max_attempts must be > 0, got %d", c.Generation.MaxAttempts)
	}
	if _, err := c.RuleConfig(); err != nil {
		return err
	}
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logger.format must be console or json, got %q", c.Logger.Format)
	}
	if c.Relay.StartDelay < 0 || c.Relay.Delay < 0 {
		return fmt.Errorf("relay delays must not be negative")
	}
	return nil
}

// Params converts the generation section to core parameters.
func (c *Config) Params() (qc.Params, error) {
	dist, err := qc.ParseDistribution(c.Generation.Distribution)
	if err != nil {
		return qc.Params{}, err
	}
	return qc.Params{
		Target:       c.Generation.Target,
		CV:           qc.CVFromPercent(c.Generation.CVPercent),
		Bias:         c.Generation.Bias,
		DriftRate:    c.Generation.DriftRate,
		Count:        c.Generation.Count,
		Distribution: dist,
	}, nil
}

// RuleConfig starts from the configured profile and applies the per-rule
// overrides. Override keys match rule names case-insensitively.
func (c *Config) RuleConfig() (rules.Config, error) {
	prof, err := profile.Get(c.Rules.Profile)
	if err != nil {
		return nil, fmt.Errorf("rules.profile: %w", err)
	}
	cfg := prof.Config()
	for key, enabled := range c.Rules.Enabled {
		name, err := rules.ParseName(key)
		if err != nil {
			return nil, fmt.Errorf("rules.enabled: %w", err)
		}
		cfg[name] = enabled
	}
	return cfg, nil
}
