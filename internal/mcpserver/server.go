// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the paper catalog to LLM clients over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/exhyte/internal/paperservice"
)

const formatURI = "exhyte://paper-format"

// Server wraps the MCP server with the paper tools.
type Server struct {
	mcp *server.MCPServer
	svc *paperservice.Service
}

// New creates a new MCP server with all paper tools registered.
func New(svc *paperservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Exhyte",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_papers",
		mcp.WithDescription("List papers, optionally filtered by topic and keyword and sorted by title or date."),
		mcp.WithString("topic", mcp.Description("Comma separated topics; a paper matches if it has any of them. Empty for all papers.")),
		mcp.WithString("keyword", mcp.Description("Case-insensitive text that must occur somewhere in the paper record")),
		mcp.WithString("sort", mcp.Description("title (default) or date (newest first)")),
	), s.listPapers)

	s.mcp.AddTool(mcp.NewTool("read_paper",
		mcp.WithDescription("Read the full JSON record of a paper."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Paper id (file name without .json)")),
	), s.readPaper)

	s.mcp.AddTool(mcp.NewTool("list_topics",
		mcp.WithDescription("List every topic with the number of papers tagged with it."),
	), s.listTopics)

	s.mcp.AddTool(mcp.NewTool("search_papers",
		mcp.WithDescription("Ranked full-text search over titles, authors, topics and record text."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchPapers)

	s.mcp.AddTool(mcp.NewTool("survey_bundle",
		mcp.WithDescription("Concatenate the selected papers, newest first, in the form used for survey generation."),
		mcp.WithString("ids", mcp.Required(), mcp.Description("Comma separated paper ids")),
	), s.surveyBundle)

	s.mcp.AddTool(mcp.NewTool("get_paper_format",
		mcp.WithDescription("Returns the JSON keys the catalog recognises and how they are interpreted."),
	), s.getPaperFormat)

	s.mcp.AddResource(
		mcp.NewResource(formatURI, "Paper Format",
			mcp.WithResourceDescription("JSON keys recognised in paper files."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readPaperFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func (s *Server) listPapers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.svc.List(ctx, paperservice.ListQuery{
		Topics:  splitList(req.GetString("topic", "")),
		Keyword: req.GetString("keyword", ""),
		Sort:    req.GetString("sort", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res.Items), nil
}

func (s *Server) readPaper(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	raw, _, err := s.svc.Raw(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}

func (s *Server) listTopics(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Topics(ctx)), nil
}

func (s *Server) searchPapers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(results), nil
}

func (s *Server) surveyBundle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := req.RequireString("ids")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	text, err := s.svc.SurveyBundle(ctx, splitList(ids))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) getPaperFormat(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(PaperFormatContract), nil
}

func (s *Server) readPaperFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      formatURI,
			MIMEType: "text/markdown",
			Text:     PaperFormatContract,
		},
	}, nil
}
