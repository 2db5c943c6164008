package mcp

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	md "github.com/jcdickinson/noogle/internal/markdown"
	"github.com/jcdickinson/noogle/internal/rpc"
	"github.com/jcdickinson/noogle/internal/server"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

//go:embed instructions.md
var instructions string

const uriScheme = "noogle://"

type Server struct {
	mcpServer *mcpserver.MCPServer
	backend   server.Backend
}

// NewServer exposes backend as MCP tools and resources. backend is either an
// in-process library or a client of a running `noogle serve`.
func NewServer(backend server.Backend, version string) *Server {
	s := &Server{backend: backend}

	mcpServer := mcpserver.NewMCPServer(
		"noogle",
		version,
		mcpserver.WithInstructions(instructions),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(true, false),
	)

	s.registerTools(mcpServer)
	s.registerResources(mcpServer)

	s.mcpServer = mcpServer
	return s
}

func (s *Server) registerTools(mcpServer *mcpserver.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("get_doc",
			mcp.WithDescription("Get the Markdown documentation of a Nix function by its dotted path, e.g. \"lib.strings.concatStrings\"."),
			mcp.WithString("path",
				mcp.Description("Dotted attribute path of the function"),
				mcp.Required(),
			),
		),
		s.handleGetDoc,
	)

	mcpServer.AddTool(
		mcp.NewTool("search_docs",
			mcp.WithDescription("Search Nix functions by name and coarse type. Returns paths that can be passed to get_doc or read as noogle:// resources."),
			mcp.WithString("query",
				mcp.Description("Substring of the function path, title or alias"),
			),
			mcp.WithString("from",
				mcp.Description("Only functions taking an argument of this type tag"),
			),
			mcp.WithString("to",
				mcp.Description("Only functions returning this type tag"),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of results (default 20)"),
			),
		),
		s.handleSearchDocs,
	)
}

func (s *Server) registerResources(mcpServer *mcpserver.MCPServer) {
	mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			uriScheme+"{path}",
			"Nix function documentation",
			mcp.WithTemplateDescription("Read the documentation of a Nix function. Search results name these paths."),
			mcp.WithTemplateMIMEType("text/markdown"),
		),
		s.handleReadResource,
	)
}

func (s *Server) handleGetDoc(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, _ := req.GetArguments()["path"].(string)
	if path == "" {
		return mcp.NewToolResultError("missing required parameter: path"), nil
	}

	doc, err := s.backend.GetDoc(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get doc: %v", err)), nil
	}
	text, err := formatDoc(doc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to format doc: %v", err)), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleSearchDocs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	var searchReq rpc.SearchRequest
	searchReq.Query, _ = args["query"].(string)
	searchReq.From, _ = args["from"].(string)
	searchReq.To, _ = args["to"].(string)
	if limit, ok := args["limit"].(float64); ok {
		searchReq.Limit = int(limit)
	}
	if searchReq.Query == "" && searchReq.From == "" && searchReq.To == "" {
		return mcp.NewToolResultError("at least one of query, from or to is required"), nil
	}

	resp, err := s.backend.Search(ctx, searchReq)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	resultJSON, _ := json.MarshalIndent(resp.Results, "", "  ")
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (s *Server) handleReadResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	path := strings.TrimPrefix(uri, uriScheme)
	if path == "" || path == uri {
		return nil, fmt.Errorf("invalid resource URI: %s", uri)
	}

	doc, err := s.backend.GetDoc(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("getting doc: %w", err)
	}

	text, err := formatDoc(doc)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/markdown",
			Text:     text,
		},
	}, nil
}

// docFrontMatter is the metadata block at the top of every returned doc.
type docFrontMatter struct {
	Path    string   `yaml:"path"`
	URL     string   `yaml:"url"`
	From    []string `yaml:"from"`
	To      []string `yaml:"to"`
	Primop  bool     `yaml:"primop,omitempty"`
	Aliases []string `yaml:"aliases,omitempty"`
	Source  string   `yaml:"source,omitempty"`
}

// formatDoc renders a doc as a standalone Markdown document with a YAML
// front-matter header.
func formatDoc(doc *rpc.DocResponse) (string, error) {
	fm := docFrontMatter{
		Path:    strings.Join(doc.Path, "."),
		URL:     doc.URL,
		From:    doc.Signature.Args,
		To:      doc.Signature.Returns,
		Primop:  doc.Primop,
		Aliases: doc.Aliases,
		Source:  doc.EditURL,
	}
	if fm.Source == "" {
		fm.Source = doc.RawURL
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", doc.Title)
	if doc.Markdown == "" {
		b.WriteString("No documentation found yet.\n")
	} else {
		b.WriteString(doc.Markdown)
		if !strings.HasSuffix(doc.Markdown, "\n") {
			b.WriteString("\n")
		}
	}
	return md.AddFrontMatter(b.String(), fm)
}

func (s *Server) Run() error {
	return mcpserver.ServeStdio(s.mcpServer)
}
