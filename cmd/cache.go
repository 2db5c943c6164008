package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jcdickinson/noogle/internal/cas"
	"github.com/jcdickinson/noogle/internal/config"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local caches",
}

var clearCacheCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove rendered pages, the fetched corpus and the search index",
	Run:   runClearCache,
}

var clearKeepCorpus bool

func init() {
	clearCacheCmd.Flags().BoolVar(&clearKeepCorpus, "keep-corpus", false, "keep the corpus downloaded by `noogle fetch`")
	cacheCmd.AddCommand(clearCacheCmd)
	cacheCmd.AddCommand(&cobra.Command{
		Use:   "dir",
		Short: "Print the cache locations",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cas:    %s\nindex:  %s\ncorpus: %s\n", config.CASDir(), config.DBPath(), config.CorpusCachePath())
		},
	})
}

func runClearCache(cmd *cobra.Command, args []string) {
	if err := cas.New(config.CASDir()).Clear(); err != nil {
		slog.Error("failed to clear render cache", "error", err)
		os.Exit(1)
	}

	paths := []string{config.DBPath(), config.DBPath() + ".wal"}
	if !clearKeepCorpus {
		paths = append(paths, config.CorpusCachePath())
	}
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			slog.Error("failed to remove cache file", "path", p, "error", err)
			os.Exit(1)
		}
	}
	fmt.Println("cache cleared")
}
