package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheBase_XDGSet(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/custom/cache")
	got := cacheBase()
	want := filepath.Join("/custom/cache", "noogle")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCacheBase_HomeDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	got := cacheBase()
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home dir")
	}
	want := filepath.Join(home, ".cache", "noogle")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCacheBase_TmpFallback(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HOME", "")
	got := cacheBase()
	if !strings.Contains(got, "noogle") {
		t.Errorf("expected noogle in path, got %q", got)
	}
}

func TestDecode_Defaults(t *testing.T) {
	t.Parallel()
	cfg, err := decode(map[string]interface{}{})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Source.BaseURL != DefaultSourceBaseURL {
		t.Errorf("base url = %q", cfg.Source.BaseURL)
	}
	if cfg.Site.Workers != 1 {
		t.Errorf("workers = %d, want 1", cfg.Site.Workers)
	}
}

func TestDecode_SourceRoot(t *testing.T) {
	t.Parallel()

	t.Run("string_prefix", func(t *testing.T) {
		cfg, err := decode(map[string]interface{}{
			"source": map[string]interface{}{"root": "/nix/store/abc-source"},
		})
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Source.Root.Prefix != "/nix/store/abc-source" {
			t.Errorf("prefix = %q", cfg.Source.Root.Prefix)
		}
	})

	t.Run("table", func(t *testing.T) {
		cfg, err := decode(map[string]interface{}{
			"source": map[string]interface{}{
				"base_url": "https://x/y/",
				"root":     map[string]interface{}{"strip_components": 3},
			},
		})
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Source.Root.StripComponents != 3 {
			t.Errorf("strip = %d", cfg.Source.Root.StripComponents)
		}
		if cfg.Source.BaseURL != "https://x/y" {
			t.Errorf("trailing slash not trimmed: %q", cfg.Source.BaseURL)
		}
	})

	t.Run("negative_strip", func(t *testing.T) {
		_, err := decode(map[string]interface{}{
			"source": map[string]interface{}{
				"root": map[string]interface{}{"strip_components": -1},
			},
		})
		if err == nil {
			t.Fatal("expected error")
		}
	})
}
