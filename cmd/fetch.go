package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/jcdickinson/noogle/internal/config"
	"github.com/jcdickinson/noogle/internal/docs"
	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [url]",
	Short: "Download the corpus into the cache",
	Long: `Download data.json (plain or zstd compressed) from data.url or the given URL.
The corpus is stored compressed and used whenever data.path does not exist.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runFetch,
}

func runFetch(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	url := cfg.Data.URL
	if len(args) == 1 {
		url = args[0]
	}
	if url == "" {
		log.Fatalf("no corpus URL: pass one or set data.url")
	}

	data, err := docs.FetchCorpus(context.Background(), url)
	if err != nil {
		log.Fatalf("fetch failed: %v", err)
	}
	corpus, err := docs.Parse(data)
	if err != nil {
		log.Fatalf("downloaded corpus is invalid: %v", err)
	}

	path := config.CorpusCachePath()
	if err := docs.SaveCorpusCache(data, path); err != nil {
		log.Fatalf("failed to save corpus: %v", err)
	}
	slog.Info("fetched corpus", "url", url, "entries", corpus.Len(), "path", path)
	fmt.Printf("%d entries saved to %s\n", corpus.Len(), path)
}
