package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var configLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	configLogger = l
}

// Config represents the complete configuration structure
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Server  ServerConfig  `yaml:"server"`
	Theme   ThemeConfig   `yaml:"theme"`
	Admin   AdminConfig   `yaml:"admin"`
	Catalog CatalogConfig `yaml:"catalog"`
	Uploads UploadsConfig `yaml:"uploads"`
	Drafts  DraftsConfig  `yaml:"drafts"`
	Logging LoggingConfig `yaml:"logging"`
}

type LoggingConfig struct {
	Level string `yaml:"level" default:"info"`
}

type SiteConfig struct {
	Name              string `yaml:"name" default:"Second Chance"`
	Tagline           string `yaml:"tagline" default:"for you"`
	Description       string `yaml:"description" default:"Finde Schmuck, gebrauchte Möbel, Geräte und mehr, günstig & lokal!"`
	SearchPlaceholder string `yaml:"search_placeholder" default:"Was suchst du? z.B. Waschmaschine, Sofa..."`
}

type ServerConfig struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            string        `yaml:"port" default:"12600"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	Compression     bool          `yaml:"compression" default:"true"`
}

type ThemeConfig struct {
	Default        string `yaml:"default" default:"light-theme"`
	AllowSwitching bool   `yaml:"allow_switching" default:"true"`
}

// AdminConfig controls the query-parameter gate in front of the upload form.
// The secret is visible to anyone who reads a gated URL; it is not an access control.
type AdminConfig struct {
	Param  string `yaml:"param" default:"admin"`
	Secret string `yaml:"secret" default:"1234"`
}

type CatalogConfig struct {
	// Source is either "memory" (built-in or seed file) or "sqlite".
	Source       string `yaml:"source" default:"memory"`
	SeedFile     string `yaml:"seed_file" default:""`
	DatabasePath string `yaml:"database_path" default:"./catalog.db"`
}

type UploadsConfig struct {
	MaxFiles     int      `yaml:"max_files" default:"10"`
	MaxFileBytes int      `yaml:"max_file_bytes" default:"5242880"`
	MaxBodyBytes int      `yaml:"max_body_bytes" default:"33554432"`
	ContentTypes []string `yaml:"content_types" default:"image/jpeg,image/png,image/webp,image/gif"`
}

type DraftsConfig struct {
	IdleTTL       time.Duration `yaml:"idle_ttl" default:"30m"`
	SweepInterval time.Duration `yaml:"sweep_interval" default:"1m"`
}

var AppConfig *Config

// Default returns a Config with every default applied.
func Default() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

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
		return err
	}

	AppConfig = config
	return nil
}

// ApplyEnv overrides selected values from the environment.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := getenv(EnvAdminSecret); v != "" {
		c.Admin.Secret = v
	}
	if v := getenv(EnvPort); v != "" {
		c.Server.Port = v
	}
}

func (c *Config) Validate() error {
	switch c.Catalog.Source {
	case CatalogSourceMemory, CatalogSourceSQLite:
	default:
		return fmt.Errorf("unsupported catalog source %q", c.Catalog.Source)
	}
	if c.Admin.Param == "" {
		return fmt.Errorf("admin.param must not be empty")
	}
	if c.Uploads.MaxFiles <= 0 {
		return fmt.Errorf("uploads.max_files must be positive, got %d", c.Uploads.MaxFiles)
	}
	if c.Uploads.MaxFileBytes <= 0 {
		return fmt.Errorf("uploads.max_file_bytes must be positive, got %d", c.Uploads.MaxFileBytes)
	}
	if c.Uploads.MaxBodyBytes <= 0 {
		return fmt.Errorf("uploads.max_body_bytes must be positive, got %d", c.Uploads.MaxBodyBytes)
	}
	// The sweep interval drives a time.Ticker, which panics on zero.
	if c.Drafts.SweepInterval <= 0 {
		return fmt.Errorf("drafts.sweep_interval must be positive, got %s", c.Drafts.SweepInterval)
	}
	if c.Drafts.IdleTTL <= 0 {
		return fmt.Errorf("drafts.idle_ttl must be positive, got %s", c.Drafts.IdleTTL)
	}
	return nil
}

var durationType = reflect.TypeOf(time.Duration(0))

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
		case reflect.Int64:
			if field.Type() == durationType {
				if val, err := time.ParseDuration(defaultValue); err == nil {
					field.SetInt(int64(val))
				}
			} else if val, err := strconv.ParseInt(defaultValue, 10, 64); err == nil {
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
