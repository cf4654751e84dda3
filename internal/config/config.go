package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/goliatone/go-formbind/pkg/binding"
)

// EnvPrefix prefixes environment overrides, e.g. FORMBIND_BINDING_ROW_TAG.
const EnvPrefix = "FORMBIND"

// Config holds CLI configuration.
type Config struct {
	Binding BindingConfig `mapstructure:"binding"`
	Log     LogConfig     `mapstructure:"log"`
	Storage StorageConfig `mapstructure:"storage"`
}

// BindingConfig mirrors the binder options.
type BindingConfig struct {
	RowTag           string           `mapstructure:"row_tag"`
	PreserveNewlines bool             `mapstructure:"preserve_newlines"`
	Attributes       AttributesConfig `mapstructure:"attributes"`
}

// AttributesConfig overrides markup attribute names.
type AttributesConfig struct {
	DisplayName   string `mapstructure:"display_name"`
	RowIndex      string `mapstructure:"row_index"`
	CheckOffValue string `mapstructure:"check_off_value"`
	FormatType    string `mapstructure:"format_type"`
	RadioName     string `mapstructure:"radio_name"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StorageConfig holds the session store settings. An empty path keeps
// values in memory.
type StorageConfig struct {
	Path     string `mapstructure:"path"`
	Location string `mapstructure:"location"`
	Session  string `mapstructure:"session"`
}

// Load reads defaults, then the config file, then FORMBIND_* environment
// variables. path wins over FORMBIND_CONFIG; without either,
// $HOME/.config/formbind/config.{yaml,json,toml} is used when present.
func Load(path string) (Config, error) {
	v := viper.New()

	attrs := binding.DefaultAttributes()
	v.SetDefault("binding.row_tag", binding.DefaultRowTag)
	v.SetDefault("binding.preserve_newlines", false)
	v.SetDefault("binding.attributes.display_name", attrs.DisplayName)
	v.SetDefault("binding.attributes.row_index", attrs.RowIndex)
	v.SetDefault("binding.attributes.check_off_value", attrs.CheckOffValue)
	v.SetDefault("binding.attributes.format_type", attrs.FormatType)
	v.SetDefault("binding.attributes.radio_name", attrs.RadioName)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("storage.path", "")
	v.SetDefault("storage.location", "/")
	v.SetDefault("storage.session", "")

	explicit := strings.TrimSpace(path)
	if explicit == "" {
		explicit = strings.TrimSpace(os.Getenv(EnvPrefix + "_CONFIG"))
	}
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "formbind"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	return c, nil
}

// BinderOptions converts the binding section into binder options.
func (c Config) BinderOptions(logger *slog.Logger) []binding.Option {
	return []binding.Option{
		binding.WithLogger(logger),
		binding.WithRowTag(c.Binding.RowTag),
		binding.WithPreserveNewlines(c.Binding.PreserveNewlines),
		binding.WithAttributes(binding.Attributes{
			DisplayName:   c.Binding.Attributes.DisplayName,
			RowIndex:      c.Binding.Attributes.RowIndex,
			CheckOffValue: c.Binding.Attributes.CheckOffValue,
			FormatType:    c.Binding.Attributes.FormatType,
			RadioName:     c.Binding.Attributes.RadioName,
		}),
	}
}
