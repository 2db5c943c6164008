package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jcdickinson/noogle/internal/cas"
	"github.com/jcdickinson/noogle/internal/config"
	"github.com/jcdickinson/noogle/internal/page"
	"github.com/jcdickinson/noogle/internal/server"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Print the documentation of one function",
	Example: `  noogle get lib.strings.concatStrings
  noogle get /f/lib/strings/concatStrings --html
  noogle get builtins.map --remote http://localhost:3000`,
	Args: cobra.ExactArgs(1),
	Run:  runGet,
}

var (
	getHTML   bool
	getRemote string
)

func init() {
	getCmd.Flags().BoolVar(&getHTML, "html", false, "print the rendered HTML page")
	getCmd.Flags().StringVar(&getRemote, "remote", "", "ask a running `noogle serve` at this URL")
}

func runGet(cmd *cobra.Command, args []string) {
	key := splitPath(args[0])

	if getRemote != "" {
		if getHTML {
			log.Fatalf("--html is not supported with --remote")
		}
		doc, err := server.NewClient(getRemote).GetDoc(context.Background(), key)
		if err != nil {
			log.Fatalf("get doc failed: %v", err)
		}
		fmt.Print(doc.Markdown)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	variant, err := variantFor(cfg)
	if err != nil {
		log.Fatalf("invalid theme: %v", err)
	}
	corpus, _, _, err := loadCorpus(cfg)
	if err != nil {
		log.Fatalf("failed to load corpus: %v", err)
	}

	renderer := page.NewRenderer(corpus, linkerFor(cfg), variant, cas.New(config.CASDir()))
	p := renderer.PageByKey(key)
	if !p.Found {
		fmt.Fprintf(os.Stderr, "no function found under %s\n", key)
		os.Exit(1)
	}

	if getHTML {
		if err := renderer.Write(os.Stdout, p); err != nil {
			log.Fatalf("render failed: %v", err)
		}
		return
	}
	fmt.Print(p.Content)
}
