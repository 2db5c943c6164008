package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jcdickinson/noogle/internal/cas"
	"github.com/jcdickinson/noogle/internal/config"
	"github.com/jcdickinson/noogle/internal/page"
	"github.com/jcdickinson/noogle/internal/site"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render every function page into a static site",
	Example: `  noogle build
  noogle build --out public --theme light`,
	Run: runBuild,
}

var (
	buildOut     string
	buildTheme   string
	buildWorkers int
	buildNoCache bool
)

func init() {
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "", "output directory (default site.out_dir)")
	buildCmd.Flags().StringVar(&buildTheme, "theme", "", "preferred theme variant (default site.theme)")
	buildCmd.Flags().IntVarP(&buildWorkers, "workers", "j", 0, "parallel page renders (default site.workers)")
	buildCmd.Flags().BoolVar(&buildNoCache, "no-cache", false, "do not use the rendered body cache")
}

func runBuild(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if buildOut != "" {
		cfg.Site.OutDir = buildOut
	}
	if buildTheme != "" {
		cfg.Site.Theme = buildTheme
	}
	if buildWorkers > 0 {
		cfg.Site.Workers = buildWorkers
	}

	variant, err := variantFor(cfg)
	if err != nil {
		log.Fatalf("invalid theme: %v", err)
	}

	corpus, _, _, err := loadCorpus(cfg)
	if err != nil {
		log.Fatalf("failed to load corpus: %v", err)
	}

	var cache *cas.Store
	if !buildNoCache {
		cache = cas.New(config.CASDir())
	}

	renderer := page.NewRenderer(corpus, linkerFor(cfg), variant, cache)
	builder := site.NewBuilder(renderer, cfg.Site.OutDir, variant, cfg.Site.Workers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := builder.Build(ctx)
	if err != nil {
		log.Fatalf("build failed: %v", err)
	}
	slog.Info("built site", "out", cfg.Site.OutDir, "pages", stats.Pages, "skipped", stats.Skipped)
	fmt.Printf("%d pages written to %s\n", stats.Pages, cfg.Site.OutDir)
}
