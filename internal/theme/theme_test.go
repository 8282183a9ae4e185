package theme

import (
	"slices"
	"strings"
	"testing"

	"github.com/debemdeboas/folio/internal/config"
)

func TestGenerateSyntaxCSS(t *testing.T) {
	testCases := []struct {
		name  string
		theme string
	}{
		{"Valid Theme - Monokai", "monokai"},
		{"Valid Theme - Github", "github"},
		{"Valid Theme - Gruvbox", "gruvbox"},
		{"Non-existent Theme - Fallback", "nonexistent-theme-12345"},
		{"Empty Theme Name", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			css1 := GenerateSyntaxCSS(tc.theme)
			if !strings.Contains(string(css1), ".chroma") {
				t.Errorf("Expected CSS to contain '.chroma' class")
			}

			cachedCSS, found := syntaxCSS.Get(tc.theme)
			if !found || cachedCSS != css1 {
				t.Errorf("Expected generated CSS to be cached")
			}

			if css2 := GenerateSyntaxCSS(tc.theme); css1 != css2 {
				t.Errorf("Expected second call to return identical CSS from cache")
			}
		})
	}
}

func TestGetSyntaxThemes(t *testing.T) {
	themes := GetSyntaxThemes()
	if !slices.IsSorted(themes) {
		t.Error("Expected themes to be sorted")
	}
	for _, want := range []string{"github", "monokai", "gruvbox"} {
		if !slices.Contains(themes, want) {
			t.Errorf("Expected common theme %s to be available", want)
		}
	}
}

func TestSyntaxTheme(t *testing.T) {
	original := config.AppConfig
	defer func() { config.AppConfig = original }()

	testCases := []struct {
		name       string
		configured string
		nilConfig  bool
		expected   string
	}{
		{"No config loaded", "", true, "gruvbox"},
		{"Empty setting", "", false, "gruvbox"},
		{"Known style", "monokai", false, "monokai"},
		{"Unknown style", "no-such-style", false, "gruvbox"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.nilConfig {
				config.AppConfig = nil
			} else {
				config.AppConfig = config.Default()
				config.AppConfig.Theme.SyntaxHighlighting = tc.configured
			}
			if got := SyntaxTheme(); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func BenchmarkGenerateSyntaxCSS(b *testing.B) {
	GenerateSyntaxCSS("monokai")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		GenerateSyntaxCSS("monokai")
	}
}
