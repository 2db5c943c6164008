package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jcdickinson/noogle/internal/config"
	"github.com/jcdickinson/noogle/internal/db"
	"github.com/jcdickinson/noogle/internal/rpc"
	"github.com/jcdickinson/noogle/internal/search"
	"github.com/jcdickinson/noogle/internal/server"
	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the search index from the corpus",
	Run:   runIndex,
}

var indexForce bool

func init() {
	indexCmd.Flags().BoolVar(&indexForce, "force", false, "reindex even if the corpus is unchanged")
}

func runIndex(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	corpus, data, _, err := loadCorpus(cfg)
	if err != nil {
		log.Fatalf("failed to load corpus: %v", err)
	}

	database, err := db.New(config.DBPath())
	if err != nil {
		log.Fatalf("failed to open index: %v", err)
	}
	defer database.Close()

	if indexForce {
		data = nil
	}
	n, err := search.NewSearcher(database).Index(corpus, data)
	if err != nil {
		log.Fatalf("indexing failed: %v", err)
	}
	fmt.Printf("%d entries indexed\n", n)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search functions by name and type",
	Example: `  noogle search concat
  noogle search --from string --to list
  noogle search --to attrset --limit 5 map`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSearch,
}

var (
	searchFrom   string
	searchTo     string
	searchLimit  int
	searchRemote string
)

func init() {
	searchCmd.Flags().StringVar(&searchFrom, "from", "", "argument type tag")
	searchCmd.Flags().StringVar(&searchTo, "to", "", "return type tag")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "max results")
	searchCmd.Flags().StringVar(&searchRemote, "remote", "", "ask a running `noogle serve` at this URL")
}

func runSearch(cmd *cobra.Command, args []string) {
	req := rpc.SearchRequest{From: searchFrom, To: searchTo, Limit: searchLimit}
	if len(args) == 1 {
		req.Query = args[0]
	}
	if req.Query == "" && req.From == "" && req.To == "" {
		log.Fatalf("give a query, --from or --to")
	}

	var results []rpc.SearchResult
	if searchRemote != "" {
		resp, err := server.NewClient(searchRemote).Search(context.Background(), req)
		if err != nil {
			log.Fatalf("search failed: %v", err)
		}
		results = resp.Results
	} else {
		database, err := db.New(config.DBPath())
		if err != nil {
			log.Fatalf("failed to open index: %v", err)
		}
		defer database.Close()
		if n, err := database.CountEntries(); err == nil && n == 0 {
			log.Fatalf("search index is empty; run `noogle index` first")
		}
		results, err = search.NewSearcher(database).Search(req)
		if err != nil {
			log.Fatalf("search failed: %v", err)
		}
	}

	if len(results) == 0 {
		fmt.Println("no results")
		return
	}
	for i, r := range results {
		fmt.Printf("%d. %s :: %s -> %s\n", i+1, r.Path, strings.Join(r.From, " -> "), strings.Join(r.To, " -> "))
		if r.Snippet != "" {
			fmt.Printf("   %s\n", r.Snippet)
		}
	}
}
