package cmd

import (
	"context"
	"log"

	"github.com/jcdickinson/noogle/internal/config"
	"github.com/jcdickinson/noogle/internal/mcp"
	"github.com/jcdickinson/noogle/internal/server"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run as an MCP server over stdio",
	Long: `Expose get_doc and search_docs to MCP clients. With --remote the tools
forward to a running ` + "`noogle serve`" + `; otherwise the corpus is loaded in-process.`,
	Run: runMCP,
}

var mcpRemote string

func init() {
	mcpCmd.Flags().StringVar(&mcpRemote, "remote", "", "forward to a running `noogle serve` at this URL")
}

func runMCP(cmd *cobra.Command, args []string) {
	var backend server.Backend
	if mcpRemote != "" {
		client := server.NewClient(mcpRemote)
		if !client.IsAvailable(context.Background()) {
			log.Fatalf("no server answering at %s", mcpRemote)
		}
		backend = client
	} else {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		lib, closeLib, err := openLibrary(cfg, true)
		if err != nil {
			log.Fatalf("failed to open library: %v", err)
		}
		defer closeLib()
		backend = lib
	}

	if err := mcp.NewServer(backend, version).Run(); err != nil {
		log.Fatalf("mcp server failed: %v", err)
	}
}
