package cmd

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/jcdickinson/noogle/internal/config"
	"github.com/jcdickinson/noogle/internal/docs"
	"github.com/jcdickinson/noogle/internal/theme"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var debug bool

var rootCmd = &cobra.Command{
	Use:   "noogle",
	Short: "Render and serve Nix function documentation",
	Long: `Noogle renders the reference pages of Nix library functions and builtins
from a data.json corpus, as a static site, an HTTP server or an MCP server.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if debug {
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("command failed: %v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(pathsCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(cacheCmd)
}

// loadCorpus reads the configured corpus. A missing data.path falls back to
// the corpus downloaded by `noogle fetch`. The raw JSON is returned for the
// search index and the source for status output.
func loadCorpus(cfg *config.Config) (*docs.Corpus, []byte, string, error) {
	path := cfg.Data.Path
	if _, err := os.Stat(path); err != nil {
		cached := config.CorpusCachePath()
		if !docs.HasCorpusCache(cached) {
			return nil, nil, "", fmt.Errorf("corpus %s not found; run `noogle fetch` or set data.path", path)
		}
		slog.Debug("using fetched corpus", "path", cached, "missing", path)
		path = cached
	}

	data, err := docs.ReadCorpus(path)
	if err != nil {
		return nil, nil, "", err
	}
	corpus, err := docs.Parse(data)
	if err != nil {
		return nil, nil, "", fmt.Errorf("parsing %s: %w", path, err)
	}
	slog.Debug("loaded corpus", "path", path, "entries", corpus.Len())
	return corpus, data, path, nil
}

func linkerFor(cfg *config.Config) docs.SourceLinker {
	return docs.SourceLinker{
		BaseURL:         cfg.Source.BaseURL,
		RootPrefix:      cfg.Source.Root.Prefix,
		StripComponents: cfg.Source.Root.StripComponents,
	}
}

func variantFor(cfg *config.Config) (theme.Variant, error) {
	v := theme.Variant(strings.ToLower(cfg.Site.Theme))
	if _, err := theme.Resolve(v); err != nil {
		return "", err
	}
	return v, nil
}

// splitPath accepts either a dotted key or a slash separated URL path.
func splitPath(arg string) string {
	arg = strings.TrimPrefix(arg, "noogle://")
	arg = strings.TrimPrefix(arg, "/f/")
	if strings.Contains(arg, "/") {
		return docs.JoinPath(strings.Split(strings.Trim(arg, "/"), "/"))
	}
	return arg
}
