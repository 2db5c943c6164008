package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jcdickinson/noogle/internal/config"
	"github.com/jcdickinson/noogle/internal/docs"
)

const testCorpus = `[{"meta": {"title": "lib.id", "path": ["lib", "id"]}}]`

func TestSplitPath(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"lib.strings.concat", "lib.strings.concat"},
		{"/f/lib/strings/concat", "lib.strings.concat"},
		{"lib/strings/concat/", "lib.strings.concat"},
		{"noogle://builtins.map", "builtins.map"},
	}
	for _, tt := range tests {
		if got := splitPath(tt.in); got != tt.want {
			t.Errorf("splitPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadCorpus(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))

	cfg := &config.Config{Data: config.DataConfig{Path: filepath.Join(dir, "data.json")}}

	if _, _, _, err := loadCorpus(cfg); err == nil {
		t.Fatal("expected error without corpus or cache")
	}

	if err := docs.SaveCorpusCache([]byte(testCorpus), config.CorpusCachePath()); err != nil {
		t.Fatal(err)
	}
	corpus, data, source, err := loadCorpus(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if source != config.CorpusCachePath() || string(data) != testCorpus || corpus.Len() != 1 {
		t.Errorf("fallback: source=%s len=%d", source, corpus.Len())
	}

	if err := os.WriteFile(cfg.Data.Path, []byte(testCorpus), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, source, err := loadCorpus(cfg); err != nil || source != cfg.Data.Path {
		t.Errorf("data.path: source=%s err=%v", source, err)
	}
}

func TestVariantFor(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{Site: config.SiteConfig{Theme: "Light"}}
	if v, err := variantFor(cfg); err != nil || v != "light" {
		t.Errorf("variantFor = %q, %v", v, err)
	}
	cfg.Site.Theme = "sepia"
	if _, err := variantFor(cfg); err == nil {
		t.Error("expected error for unknown theme")
	}
}
