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
	Content ContentConfig `yaml:"content"`
	Remote  RemoteConfig  `yaml:"remote"`
	Storage StorageConfig `yaml:"storage"`
	Assets  AssetsConfig  `yaml:"assets"`
	Theme   ThemeConfig   `yaml:"theme"`
	Admin   AdminConfig   `yaml:"admin"`
	Logging LoggingConfig `yaml:"logging"`
}

type LoggingConfig struct {
	Level string `yaml:"level" default:"info"`
}

type SiteConfig struct {
	Name string `yaml:"name" default:"Portfolio"`
}

type ServerConfig struct {
	Host string `yaml:"host" default:"0.0.0.0"`
	Port string `yaml:"port" default:"12600"`
}

// ContentConfig points at the checkout holding the published data/*.json files.
type ContentConfig struct {
	Root     string        `yaml:"root" default:"."`
	Watch    bool          `yaml:"watch" default:"true"`
	CacheTTL time.Duration `yaml:"cache_ttl" default:"10m"`
	// Markdown is the dialect imported card bodies are written in: mmark or commonmark.
	Markdown string `yaml:"markdown" default:"mmark"`
}

// RemoteConfig describes the repository hosting API the dashboard commits to.
type RemoteConfig struct {
	APIURL  string        `yaml:"api_url" default:"https://api.github.com"`
	Owner   string        `yaml:"owner" default:""`
	Repo    string        `yaml:"repo" default:""`
	Timeout time.Duration `yaml:"timeout" default:"15s"`
}

type StorageConfig struct {
	Database    string `yaml:"database" default:"./folio.db"`
	Compression string `yaml:"compression" default:"zstd"`
}

type AssetsConfig struct {
	Backend   string `yaml:"backend" default:"fs"`
	Dir       string `yaml:"dir" default:"assets/uploads"`
	URLPrefix string `yaml:"url_prefix" default:"/assets/uploads/"`
	MaxBytes  int    `yaml:"max_bytes" default:"5242880"`
	Bucket    string `yaml:"bucket" default:""`
	Endpoint  string `yaml:"endpoint" default:""`
	Region    string `yaml:"region" default:"auto"`
}

type ThemeConfig struct {
	SyntaxHighlighting string `yaml:"syntax_highlighting" default:"gruvbox"`
}

type AdminConfig struct {
	Enabled    bool          `yaml:"enabled" default:"true"`
	SessionTTL time.Duration `yaml:"session_ttl" default:"24h"`
}

var AppConfig *Config

func LoadConfig(path string) error {
	config := &Config{}

	// Apply default values first
	applyDefaults(config)

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

	AppConfig = config
	return nil
}

// Default returns a config with every default applied. Used by tests and tools
// that run without a config file.
func Default() *Config {
	c := &Config{}
	applyDefaults(c)
	return c
}

func ApplyDefaults(config interface{}) {
	applyDefaults(config)
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

		if field.Type() == durationType {
			if d, err := time.ParseDuration(defaultValue); err == nil {
				field.SetInt(int64(d))
			}
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(defaultValue)
		case reflect.Bool:
			if val, err := strconv.ParseBool(defaultValue); err == nil {
				field.SetBool(val)
			}
		case reflect.Int, reflect.Int64:
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
