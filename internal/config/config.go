package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Warning report formats.
const (
	WarningsText = "text"
	WarningsJSON = "json"
	WarningsYAML = "yaml"
	WarningsNone = "none"
)

// Config holds conversion settings.
type Config struct {
	Indent   string `yaml:"indent"    mapstructure:"indent"`
	Warnings string `yaml:"warnings"  mapstructure:"warnings"`
	Strict   bool   `yaml:"strict"    mapstructure:"strict"`
	Preserve bool   `yaml:"preserve"  mapstructure:"preserve"`
	Workers  int    `yaml:"workers"   mapstructure:"workers"`
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
}

// Default returns the settings used when neither the config file nor the
// environment sets a value.
func Default() Config {
	return Config{
		Indent:   "  ",
		Warnings: WarningsText,
		Workers:  4,
		LogLevel: "warn",
	}
}

// DefaultPath returns the default config file path (~/.adfmd.yaml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".adfmd.yaml"
	}
	return filepath.Join(home, ".adfmd.yaml")
}

// Load reads config from the YAML file and applies env var overrides.
// configPath may be empty to use the default path.
func Load(configPath string) (Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = DefaultPath()
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	def := Default()
	v.SetDefault("indent", def.Indent)
	v.SetDefault("warnings", def.Warnings)
	v.SetDefault("strict", def.Strict)
	v.SetDefault("preserve", def.Preserve)
	v.SetDefault("workers", def.Workers)
	v.SetDefault("log_level", def.LogLevel)

	// Env var overrides
	v.BindEnv("indent", "ADFMD_INDENT")
	v.BindEnv("warnings", "ADFMD_WARNINGS")
	v.BindEnv("strict", "ADFMD_STRICT")
	v.BindEnv("preserve", "ADFMD_PRESERVE")
	v.BindEnv("workers", "ADFMD_WORKERS")
	v.BindEnv("log_level", "ADFMD_LOG_LEVEL")

	// Read the config file (ignore "not found" errors so env vars still work)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Validate checks that every field holds a usable value.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Warnings, validation.Required,
			validation.In(WarningsText, WarningsJSON, WarningsYAML, WarningsNone)),
		validation.Field(&c.Workers, validation.Required, validation.Min(1)),
		validation.Field(&c.LogLevel, validation.Required, validation.By(logLevel)),
	)
}

func logLevel(value interface{}) error {
	s, _ := value.(string)
	if _, err := logrus.ParseLevel(s); err != nil {
		return errors.New("must be a valid log level")
	}
	return nil
}

// Level returns the parsed log level, falling back to warn.
func (c Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.WarnLevel
	}
	return level
}

// Save writes the config to the given path (or default path if empty).
func Save(cfg Config, configPath string) error {
	if configPath == "" {
		configPath = DefaultPath()
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
