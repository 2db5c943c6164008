package cmd

import (
	"fmt"
	"log"

	"github.com/jcdickinson/noogle/internal/config"
	"github.com/jcdickinson/noogle/internal/docs"
	"github.com/spf13/cobra"
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "List the path of every page a build generates",
	Run:   runPaths,
}

var pathsURLs bool

func init() {
	pathsCmd.Flags().BoolVar(&pathsURLs, "urls", false, "print page URLs instead of dotted paths")
}

func runPaths(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	corpus, _, _, err := loadCorpus(cfg)
	if err != nil {
		log.Fatalf("failed to load corpus: %v", err)
	}

	for _, p := range corpus.StaticParams() {
		if pathsURLs {
			fmt.Println(docs.Href(p))
		} else {
			fmt.Println(docs.JoinPath(p))
		}
	}
}
