package config

import (
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSetLogger(t *testing.T) {
	logger := zerolog.New(os.Stdout).Level(zerolog.InfoLevel)
	SetLogger(logger)

	// This test mainly ensures the function doesn't panic
}

func TestApplyDefaults(t *testing.T) {
	t.Run("Config struct defaults", func(t *testing.T) {
		config := &Config{}
		applyDefaults(config)

		if config.Site.Name != "Portfolio" {
			t.Errorf("Expected site name 'Portfolio', got %q", config.Site.Name)
		}
		if config.Server.Host != "0.0.0.0" {
			t.Errorf("Expected host '0.0.0.0', got %q", config.Server.Host)
		}
		if config.Server.Port != "12600" {
			t.Errorf("Expected port '12600', got %q", config.Server.Port)
		}
		if config.Content.Root != "." {
			t.Errorf("Expected content root '.', got %q", config.Content.Root)
		}
		if !config.Content.Watch {
			t.Error("Expected content watching to be enabled by default")
		}
		if config.Content.CacheTTL != 10*time.Minute {
			t.Errorf("Expected cache TTL 10m, got %v", config.Content.CacheTTL)
		}
		if config.Content.Markdown != "mmark" {
			t.Errorf("Expected markdown 'mmark', got %q", config.Content.Markdown)
		}
		if config.Remote.APIURL != "https://api.github.com" {
			t.Errorf("Expected GitHub API URL, got %q", config.Remote.APIURL)
		}
		if config.Remote.Timeout != 15*time.Second {
			t.Errorf("Expected remote timeout 15s, got %v", config.Remote.Timeout)
		}
		if config.Storage.Compression != "zstd" {
			t.Errorf("Expected zstd compression, got %q", config.Storage.Compression)
		}
		if config.Assets.MaxBytes != 5*1024*1024 {
			t.Errorf("Expected 5 MB upload limit, got %d", config.Assets.MaxBytes)
		}
		if config.Assets.Backend != "fs" {
			t.Errorf("Expected fs assets backend, got %q", config.Assets.Backend)
		}
		if !config.Admin.Enabled {
			t.Error("Expected admin dashboard to be enabled by default")
		}
		if config.Admin.SessionTTL != 24*time.Hour {
			t.Errorf("Expected admin session TTL 24h, got %v", config.Admin.SessionTTL)
		}
		if config.Logging.Level != "info" {
			t.Errorf("Expected log level 'info', got %q", config.Logging.Level)
		}
	})

	t.Run("Custom struct with various types", func(t *testing.T) {
		type TestStruct struct {
			StringField   string        `default:"test-string"`
			BoolField     bool          `default:"true"`
			IntField      int           `default:"42"`
			Float64Field  float64       `default:"3.14"`
			SliceField    []string      `default:"a,b,c"`
			DurationField time.Duration `default:"90s"`
			NoDefault     string
		}

		test := &TestStruct{}
		applyDefaults(test)

		if test.StringField != "test-string" {
			t.Errorf("Expected string field 'test-string', got %q", test.StringField)
		}
		if !test.BoolField {
			t.Error("Expected bool field to be true")
		}
		if test.IntField != 42 {
			t.Errorf("Expected int field 42, got %d", test.IntField)
		}
		if test.Float64Field != 3.14 {
			t.Errorf("Expected float64 field 3.14, got %f", test.Float64Field)
		}
		if !reflect.DeepEqual(test.SliceField, []string{"a", "b", "c"}) {
			t.Errorf("Expected slice [a b c], got %v", test.SliceField)
		}
		if test.DurationField != 90*time.Second {
			t.Errorf("Expected duration 90s, got %v", test.DurationField)
		}
		if test.NoDefault != "" {
			t.Errorf("Expected no default field to be empty, got %q", test.NoDefault)
		}
	})

	t.Run("Invalid default values", func(t *testing.T) {
		type InvalidStruct struct {
			BadBool     bool          `default:"not-a-bool"`
			BadInt      int           `default:"not-an-int"`
			BadDuration time.Duration `default:"soon"`
		}

		test := &InvalidStruct{}
		applyDefaults(test)

		if test.BadBool {
			t.Error("Expected invalid bool default to remain false")
		}
		if test.BadInt != 0 {
			t.Errorf("Expected invalid int default to remain 0, got %d", test.BadInt)
		}
		if test.BadDuration != 0 {
			t.Errorf("Expected invalid duration default to remain 0, got %v", test.BadDuration)
		}
	})

	t.Run("Non-struct input", func(t *testing.T) {
		stringVar := "test"
		applyDefaults(&stringVar)
		applyDefaults(stringVar)
		applyDefaults(42)
		applyDefaults(nil)
	})
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tempFile, err := os.CreateTemp(t.TempDir(), "test-config-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	if _, err := tempFile.WriteString(content); err != nil {
		t.Fatalf("Failed to write config content: %v", err)
	}
	tempFile.Close()
	return tempFile.Name()
}

func TestLoadConfig(t *testing.T) {
	SetLogger(zerolog.New(os.Stdout).Level(zerolog.ErrorLevel))

	t.Run("Load non-existent config file", func(t *testing.T) {
		originalAppConfig := AppConfig
		defer func() { AppConfig = originalAppConfig }()

		if err := LoadConfig("non-existent-config.yaml"); err != nil {
			t.Errorf("Expected no error for non-existent config file, got %v", err)
		}
		if AppConfig == nil {
			t.Fatal("Expected AppConfig to be set with defaults")
		}
		if AppConfig.Site.Name != "Portfolio" {
			t.Errorf("Expected default site name, got %q", AppConfig.Site.Name)
		}
	})

	t.Run("Load valid config file", func(t *testing.T) {
		originalAppConfig := AppConfig
		defer func() { AppConfig = originalAppConfig }()

		path := writeTempConfig(t, `
site:
  name: "Jane Doe"
server:
  port: "8080"
remote:
  owner: "jane"
  repo: "jane.github.io"
  timeout: 5s
content:
  cache_ttl: 1m
assets:
  backend: s3
  bucket: portfolio-images
`)
		if err := LoadConfig(path); err != nil {
			t.Fatalf("Expected no error loading valid config, got %v", err)
		}

		if AppConfig.Site.Name != "Jane Doe" {
			t.Errorf("Expected site name 'Jane Doe', got %q", AppConfig.Site.Name)
		}
		if AppConfig.Server.Port != "8080" {
			t.Errorf("Expected port '8080', got %q", AppConfig.Server.Port)
		}
		if AppConfig.Remote.Owner != "jane" || AppConfig.Remote.Repo != "jane.github.io" {
			t.Errorf("Unexpected remote %+v", AppConfig.Remote)
		}
		if AppConfig.Remote.Timeout != 5*time.Second {
			t.Errorf("Expected timeout 5s, got %v", AppConfig.Remote.Timeout)
		}
		if AppConfig.Content.CacheTTL != time.Minute {
			t.Errorf("Expected cache TTL 1m, got %v", AppConfig.Content.CacheTTL)
		}
		if AppConfig.Assets.Backend != "s3" || AppConfig.Assets.Bucket != "portfolio-images" {
			t.Errorf("Unexpected assets %+v", AppConfig.Assets)
		}

		// Defaults still apply to unspecified fields
		if AppConfig.Remote.APIURL != "https://api.github.com" {
			t.Errorf("Expected default API URL, got %q", AppConfig.Remote.APIURL)
		}
		if AppConfig.Assets.MaxBytes != 5242880 {
			t.Errorf("Expected default upload limit, got %d", AppConfig.Assets.MaxBytes)
		}
	})

	t.Run("Load invalid YAML file", func(t *testing.T) {
		originalAppConfig := AppConfig
		defer func() { AppConfig = originalAppConfig }()

		path := writeTempConfig(t, `
site:
  name: "Test"
  invalid yaml syntax [
`)
		err := LoadConfig(path)
		if err == nil {
			t.Fatal("Expected error loading invalid config file")
		}
		if !strings.Contains(err.Error(), "failed to parse config file") {
			t.Errorf("Expected parse error, got %v", err)
		}
	})
}

func TestDefault(t *testing.T) {
	a, b := Default(), Default()
	if a == b {
		t.Fatal("Expected Default to return a fresh config each call")
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("Expected two default configs to be equal")
	}
}

func TestConstants(t *testing.T) {
	matches := RegexCallout.FindStringSubmatch("// &lt;&lt;1&gt;&gt;")
	if len(matches) != 2 || matches[1] != "1" {
		t.Errorf("Expected callout regex to match '1', got %v", matches)
	}

	if SessionKey != "portfolio_gh_auth" {
		t.Errorf("Unexpected session key %q", SessionKey)
	}
}
