package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer wraps the MCP server and application dependencies
type MCPServer struct {
	app       *App
	mcpServer *server.MCPServer
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(app *App) *MCPServer {
	mcpServer := server.NewMCPServer(
		"podseek-server",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s := &MCPServer{
		app:       app,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools
func (s *MCPServer) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("search_transcripts",
		mcp.WithDescription("Full-text search over the podcast transcript index. Returns ranked matches with a highlighted snippet, the episode title, its URL and publish date."),
		mcp.WithString("query",
			mcp.Description("Search terms to match against transcript text and episode titles"),
			mcp.Required(),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (default 5)"),
		),
	), s.handleSearchTranscripts)

	s.mcpServer.AddTool(mcp.NewTool("ask_podcast",
		mcp.WithDescription("Answer a free-form question about the podcast using transcript fragments and the episode catalog as context. Requires an OpenAI API key to be configured."),
		mcp.WithString("question",
			mcp.Description("The question to answer"),
			mcp.Required(),
		),
	), s.handleAskPodcast)

	s.mcpServer.AddTool(mcp.NewTool("list_episodes",
		mcp.WithDescription("List all known podcast episodes with ID, title and publish date, newest first as returned by the platform."),
	), s.handleListEpisodes)

	s.mcpServer.AddTool(mcp.NewTool("sync_transcripts",
		mcp.WithDescription("Run one transcript synchronization cycle: refresh the episode catalog, download missing transcripts and update the search index. May take several minutes for large backlogs."),
	), s.handleSyncTranscripts)
}

// handleSearchTranscripts implements the search_transcripts tool
func (s *MCPServer) handleSearchTranscripts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query parameter is required and must be a string"), nil
	}

	limit := s.app.Config.SearchLimit
	if raw, ok := request.GetArguments()["limit"]; ok {
		if n, ok := raw.(float64); ok && int(n) > 0 {
			limit = int(n)
		}
	}

	MCPLogInfo("search_transcripts query=%q limit=%d", query, limit)
	results := s.app.Index.Search(ctx, query, limit)
	if len(results) == 0 {
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent("No matches found.")},
		}, nil
	}

	var buf strings.Builder
	for i, res := range results {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, res.Title)
		if res.Published != "" {
			fmt.Fprintf(&buf, "   Published: %s\n", res.Published)
		}
		if res.URL != "" {
			fmt.Fprintf(&buf, "   URL: %s\n", res.URL)
		}
		fmt.Fprintf(&buf, "   ...%s...\n", res.Snippet)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(buf.String())},
	}, nil
}

// handleAskPodcast implements the ask_podcast tool
func (s *MCPServer) handleAskPodcast(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question parameter is required and must be a string"), nil
	}

	MCPLogInfo("ask_podcast question=%q", question)
	answer := s.app.RAG.Answer(ctx, question)

	var buf strings.Builder
	buf.WriteString(answer.Text)
	if len(answer.Sources) > 0 {
		buf.WriteString("\n\nSources:\n")
		for _, src := range answer.Sources {
			fmt.Fprintf(&buf, "- %s", src.Title)
			if src.URL != "" {
				fmt.Fprintf(&buf, " (%s)", src.URL)
			}
			buf.WriteString("\n")
		}
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(buf.String())},
	}, nil
}

// handleListEpisodes implements the list_episodes tool
func (s *MCPServer) handleListEpisodes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	videos := s.app.Catalog.Load()
	if len(videos) == 0 {
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent("No episodes recorded yet. Run sync_transcripts first.")},
		}, nil
	}

	var buf strings.Builder
	for _, v := range videos {
		published := v.Published
		if published == "" {
			published = "N/A"
		}
		fmt.Fprintf(&buf, "- ID: %s | Title: %s | Published: %s\n", v.ID, v.Title, published)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(buf.String())},
	}, nil
}

// handleSyncTranscripts implements the sync_transcripts tool
func (s *MCPServer) handleSyncTranscripts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	MCPLogInfo("sync_transcripts started")
	run, err := s.app.Syncer.Run(ctx)
	if err != nil {
		MCPLogError("sync_transcripts failed: %v", err)
		switch {
		case errors.Is(err, ErrSyncInProgress):
			return mcp.NewToolResultError("another sync is already running, try again later"), nil
		case errors.Is(err, ErrEmptyListing):
			return mcp.NewToolResultError("the platform returned no videos, previous state was kept"), nil
		default:
			return mcp.NewToolResultErrorFromErr("sync failed", err), nil
		}
	}

	summary := fmt.Sprintf("Sync complete: %d videos total, %d new, %d transcripts missing, %d downloaded.",
		run.TotalVideos, run.NewVideosFound, run.MissingTranscripts, run.TranscriptsDownloaded)
	MCPLogInfo("sync_transcripts finished: %s", summary)

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(summary)},
	}, nil
}

// Start starts the MCP server using the specified transport
func (s *MCPServer) Start(ctx context.Context, transport string, port int) error {
	if transport == "http" {
		httpServer := server.NewStreamableHTTPServer(s.mcpServer)
		addr := fmt.Sprintf(":%d", port)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return httpServer.Start(addr)
	}

	// Default to stdio transport
	return server.ServeStdio(s.mcpServer)
}

// GetServer returns the underlying MCP server for advanced configuration
func (s *MCPServer) GetServer() *server.MCPServer {
	return s.mcpServer
}
