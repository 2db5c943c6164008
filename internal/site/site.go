// Package site writes the static build: one page per corpus path plus the
// shared stylesheets and the not-found page.
package site

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/jcdickinson/noogle/internal/docs"
	"github.com/jcdickinson/noogle/internal/page"
	"github.com/jcdickinson/noogle/internal/theme"
	"golang.org/x/sync/errgroup"
)

// Stats summarises a build.
type Stats struct {
	Pages   int
	Skipped int
}

type Builder struct {
	renderer *page.Renderer
	outDir   string
	theme    theme.Variant
	workers  int
}

func NewBuilder(renderer *page.Renderer, outDir string, variant theme.Variant, workers int) *Builder {
	if workers <= 0 {
		workers = 1
	}
	return &Builder{renderer: renderer, outDir: outDir, theme: variant, workers: workers}
}

// Build renders every static path into the output directory.
func (b *Builder) Build(ctx context.Context) (Stats, error) {
	var stats Stats

	if err := os.MkdirAll(b.outDir, 0755); err != nil {
		return stats, fmt.Errorf("creating output directory: %w", err)
	}
	if err := b.writeAssets(); err != nil {
		return stats, err
	}

	var pages, skipped atomic.Int64
	seen := make(map[string]bool)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for _, path := range b.renderer.Corpus().StaticParams() {
		file, ok := PagePath(b.outDir, path)
		if !ok {
			slog.Warn("skipping unsafe path", "path", docs.JoinPath(path))
			skipped.Add(1)
			continue
		}
		// Paths that join to the same key still get one page per URL; each
		// renders the first entry with that key.
		if seen[file] {
			continue
		}
		seen[file] = true

		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := b.writePage(file, path); err != nil {
				return err
			}
			pages.Add(1)
			return nil
		})
	}

	err := g.Wait()
	stats.Pages = int(pages.Load())
	stats.Skipped = int(skipped.Load())
	if err != nil {
		return stats, err
	}
	return stats, ctx.Err()
}

func (b *Builder) writePage(file string, path []string) error {
	var buf bytes.Buffer
	if _, err := b.renderer.Render(&buf, path); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return fmt.Errorf("creating page directory: %w", err)
	}
	if err := os.WriteFile(file, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", file, err)
	}
	return nil
}

func (b *Builder) writeAssets() error {
	css, err := theme.CSS(b.theme)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(b.outDir, "theme.css"), []byte(css), 0644); err != nil {
		return fmt.Errorf("writing theme.css: %w", err)
	}
	if err := os.WriteFile(filepath.Join(b.outDir, "page.css"), []byte(page.Stylesheet), 0644); err != nil {
		return fmt.Errorf("writing page.css: %w", err)
	}

	var buf bytes.Buffer
	if err := b.renderer.Write(&buf, page.Missing()); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(b.outDir, "404.html"), buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing 404.html: %w", err)
	}
	return nil
}

// PagePath maps a path to <outDir>/f/<seg>/.../index.html. Segments that
// would escape the f/ tree are rejected.
func PagePath(outDir string, path []string) (string, bool) {
	if len(path) == 0 {
		return "", false
	}
	parts := []string{outDir, "f"}
	for _, seg := range path {
		if seg == "" || seg == "." || seg == ".." || strings.ContainsAny(seg, `/\`) {
			return "", false
		}
		parts = append(parts, seg)
	}
	return filepath.Join(append(parts, "index.html")...), true
}
