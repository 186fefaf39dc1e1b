package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var configLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

// Config represents the complete configuration structure
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Media    MediaConfig    `yaml:"media"`
	Feed     FeedConfig     `yaml:"feed"`
	Editor   EditorConfig   `yaml:"editor"`
	Theme    ThemeConfig    `yaml:"theme"`
	Features FeaturesConfig `yaml:"features"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type LoggingConfig struct {
	Level string `yaml:"level" default:"info"`
}

type SiteConfig struct {
	Name        string `yaml:"name" default:"MessHall"`
	Description string `yaml:"description" default:"Share what you cook"`
	// BaseURL is the public origin used when building share links.
	BaseURL string `yaml:"base_url" default:"http://localhost:8080"`
}

type ServerConfig struct {
	Host string `yaml:"host" default:"0.0.0.0"`
	Port string `yaml:"port" default:"8080"`
}

type DatabaseConfig struct {
	// Driver selects the storage backend: sqlite or postgres.
	Driver string `yaml:"driver" default:"sqlite"`
	Path   string `yaml:"path" default:"./messhall.db"`
	// DSN is only read for postgres. The MESSHALL_DATABASE_DSN env var
	// takes precedence so credentials stay out of config files.
	DSN string `yaml:"dsn" default:""`
}

type MediaConfig struct {
	// Provider selects the object store: fs or s3.
	Provider string `yaml:"provider" default:"fs"`
	Dir      string `yaml:"dir" default:"./media"`
	Bucket   string `yaml:"bucket" default:""`
	// PublicBaseURL is joined with object keys to build public URLs.
	PublicBaseURL string `yaml:"public_base_url" default:"http://localhost:8080/media"`
	MaxUploadMB   int    `yaml:"max_upload_mb" default:"10"`
}

type FeedConfig struct {
	PageSize int `yaml:"page_size" default:"20"`
	// SponsoredEvery interleaves one sponsored slot after every N
	// recipes. Zero disables interleaving.
	SponsoredEvery int `yaml:"sponsored_every" default:"8"`
}

type EditorConfig struct {
	// DebounceMS is the quiet period after the last edit before a save
	// fires.
	DebounceMS int `yaml:"debounce_ms" default:"1000"`
	// SavedDisplayMS is how long the saved state shows before reverting
	// to idle.
	SavedDisplayMS    int `yaml:"saved_display_ms" default:"1500"`
	SessionTTLMinutes int `yaml:"session_ttl_minutes" default:"30"`
}

type ThemeConfig struct {
	Default            string       `yaml:"default" default:"dark"`
	SyntaxHighlighting SyntaxConfig `yaml:"syntax_highlighting"`
}

type SyntaxConfig struct {
	DefaultDark  string `yaml:"default_dark" default:"gruvbox"`
	DefaultLight string `yaml:"default_light" default:"catppuccin-latte"`
}

type FeaturesConfig struct {
	Authentication AuthConfig  `yaml:"authentication"`
	Comments       FeatureFlag `yaml:"comments"`
	Notifications  FeatureFlag `yaml:"notifications"`
	Sponsored      FeatureFlag `yaml:"sponsored"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled" default:"true"`
	// Type selects the provider: clerk or token.
	Type string `yaml:"type" default:"clerk"`
}

type FeatureFlag struct {
	Enabled bool `yaml:"enabled" default:"true"`
}

var AppConfig *Config

func LoadConfig(path string) error {
	config := &Config{}

	// Apply default values first
	applyDefaults(config)

	// Try to read and parse the config file
	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, just use defaults
		configLogger.Info().Str("path", path).Msg("Config file not found, using defaults")
		AppConfig = config
		return nil
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	AppConfig = config
	return nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	return validation.Errors{
		"server.port":        validation.Validate(c.Server.Port, validation.Required, validation.By(validPort)),
		"database.driver":    validation.Validate(c.Database.Driver, validation.Required, validation.In("sqlite", "postgres")),
		"media.provider":     validation.Validate(c.Media.Provider, validation.Required, validation.In("fs", "s3")),
		// Required comes first on the ints: the threshold rules skip
		// zero values, so zero needs its own rejection.
		"media.max_upload_mb": validation.Validate(c.Media.MaxUploadMB, validation.Required, validation.Min(1), validation.Max(100)),
		"feed.page_size":      validation.Validate(c.Feed.PageSize, validation.Required, validation.Min(1), validation.Max(100)),
		"feed.sponsored_every": validation.Validate(c.Feed.SponsoredEvery, validation.Min(0), validation.Max(50)),
		"editor.debounce_ms":  validation.Validate(c.Editor.DebounceMS, validation.Required, validation.Min(100), validation.Max(10000)),
		"editor.saved_display_ms": validation.Validate(c.Editor.SavedDisplayMS, validation.Required, validation.Min(100), validation.Max(10000)),
		"features.authentication.type": validation.Validate(c.Features.Authentication.Type, validation.In("clerk", "token")),
	}.Filter()
}

func validPort(value interface{}) error {
	s, _ := value.(string)
	port, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("must be numeric")
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("must be between 1 and 65535")
	}
	return nil
}

func ApplyDefaults(config interface{}) {
	applyDefaults(config)
}

func applyDefaults(config interface{}) {
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.IsValid() || !field.CanSet() {
			continue
		}

		// Recursively apply defaults to nested structs
		if field.Kind() == reflect.Struct {
			applyDefaults(field.Addr().Interface())
			continue
		}

		defaultValue := fieldType.Tag.Get("default")
		if defaultValue == "" {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(defaultValue)
		case reflect.Bool:
			if val, err := strconv.ParseBool(defaultValue); err == nil {
				field.SetBool(val)
			}
		case reflect.Int:
			if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
				field.SetInt(val)
			}
		case reflect.Float64:
			if val, err := strconv.ParseFloat(defaultValue, 64); err == nil {
				field.SetFloat(val)
			}
		case reflect.Slice:
			if field.Len() == 0 && field.Type().Elem().Kind() == reflect.String {
				parts := strings.Split(defaultValue, ",")
				slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
				for j, part := range parts {
					slice.Index(j).SetString(strings.TrimSpace(part))
				}
				field.Set(slice)
			}
		default:
			configLogger.Warn().
				Str("field_name", fieldType.Name).
				Str("field_type", field.Kind().String()).
				Msg("Unsupported field type for default value")
		}
	}
}
