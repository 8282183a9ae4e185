package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCache_BasicOperations(t *testing.T) {
	cache := NewCache[string, string]()

	t.Run("Set and Get", func(t *testing.T) {
		cache.Set("test-key", "test-value")
		got, exists := cache.Get("test-key")
		if !exists || got != "test-value" {
			t.Errorf("Expected test-value, got %q (exists=%v)", got, exists)
		}
	})

	t.Run("Get non-existent key", func(t *testing.T) {
		if _, exists := cache.Get("non-existent"); exists {
			t.Error("Expected key to not exist")
		}
	})

	t.Run("Overwrite existing key", func(t *testing.T) {
		cache.Set("overwrite-key", "value1")
		cache.Set("overwrite-key", "value2")
		if got, _ := cache.Get("overwrite-key"); got != "value2" {
			t.Errorf("Expected value2, got %q", got)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		cache.Set("gone", "x")
		cache.Delete("gone")
		cache.Delete("never-there")
		if _, exists := cache.Get("gone"); exists {
			t.Error("Expected key to be deleted")
		}
	})

	t.Run("Clear", func(t *testing.T) {
		cache.Clear()
		if cache.Len() != 0 {
			t.Errorf("Expected empty cache, got %d entries", cache.Len())
		}
	})
}

func TestTTLCache(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewTTLCache[string, string](10 * time.Minute)
	cache.now = func() time.Time { return now }

	cache.Set("config", "v1")

	testCases := []struct {
		name    string
		advance time.Duration
		fresh   bool
	}{
		{"Just set", 0, true},
		{"Before expiry", 9*time.Minute + 59*time.Second, true},
		{"At expiry", time.Second, false},
		{"Long after", time.Hour, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			now = now.Add(tc.advance)
			_, ok := cache.Get("config")
			if ok != tc.fresh {
				t.Errorf("Expected fresh=%v, got %v", tc.fresh, ok)
			}
		})
	}

	cache.Set("config", "v2")
	if v, ok := cache.Get("config"); !ok || v != "v2" {
		t.Error("Expected a new Set to refresh the entry")
	}
}

func TestCache_Concurrency(t *testing.T) {
	cache := NewTTLCache[int, int](time.Minute)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cache.Set(i*100+j, j)
				cache.Get(i*100 + j)
				if j%10 == 0 {
					cache.Delete(i*100 + j)
				}
			}
		}(i)
	}
	wg.Wait()

	if cache.Len() != 50*90 {
		t.Errorf("Expected %d entries, got %d", 50*90, cache.Len())
	}
}

func TestRenderedBodyAndStaticCaches(t *testing.T) {
	SetRenderedBody("mmark:monokai:hash123", []byte("<h1>Test</h1>"))
	if html, ok := GetRenderedBody("mmark:monokai:hash123"); !ok || string(html) != "<h1>Test</h1>" {
		t.Errorf("Unexpected rendered body %q", html)
	}
	if _, ok := GetRenderedBody("mmark:github:hash123"); ok {
		t.Error("Expected a miss for another theme")
	}

	SetStaticHash("/static/site.css", "abc")
	if h, ok := GetStaticHash("/static/site.css"); !ok || h != "abc" {
		t.Errorf("Unexpected static hash %q", h)
	}
}

func BenchmarkCache_Get(b *testing.B) {
	cache := NewCache[string, string]()
	for i := 0; i < 1000; i++ {
		cache.Set(fmt.Sprintf("key-%d", i), "value")
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Get(fmt.Sprintf("key-%d", i%1000))
	}
}
