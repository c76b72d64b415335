package internal

import (
	"context"
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
		"ytchat-server",
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
	// ask_video tool
	s.mcpServer.AddTool(mcp.NewTool("ask_video",
		mcp.WithDescription("Ask a question about a YouTube video, grounded in its transcript. The first call for a video fetches and stores the transcript and generates a summary; the conversation is persisted, so follow-up questions keep their context. Omit the question to get the summary."),
		mcp.WithString("url",
			mcp.Description("YouTube video URL or ID"),
			mcp.Required(),
		),
		mcp.WithString("question",
			mcp.Description("Question about the video content (optional - omit for a summary)"),
		),
	), s.handleAskVideo)

	// get_video_transcript tool
	s.mcpServer.AddTool(mcp.NewTool("get_video_transcript",
		mcp.WithDescription("Get the transcript of a YouTube video. Fetches captions on first use and returns the stored transcript afterwards. Fails if the video has no captions."),
		mcp.WithString("url",
			mcp.Description("YouTube video URL or ID"),
			mcp.Required(),
		),
	), s.handleGetTranscript)

	// list_videos tool
	s.mcpServer.AddTool(mcp.NewTool("list_videos",
		mcp.WithDescription("List videos in the local library with their titles, newest first."),
	), s.handleListVideos)
}

// handleAskVideo implements the ask_video tool
func (s *MCPServer) handleAskVideo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url parameter is required and must be a string"), nil
	}
	question := request.GetString("question", "")

	MCPLogInfo("ask_video url=%s question=%q", url, question)

	videoID, err := s.app.Chat().OpenOrCreateVideo(ctx, url)
	if err != nil {
		MCPLogError("ask_video open failed: %v", err)
		return mcp.NewToolResultErrorFromErr("opening video", err), nil
	}

	if question == "" {
		// The summary is the assistant half of the seeded exchange.
		_, turns, err := s.app.Chat().ConversationView(ctx, videoID)
		if err != nil {
			MCPLogError("ask_video summary failed: %v", err)
			return mcp.NewToolResultErrorFromErr("generating summary", err), nil
		}
		for _, turn := range turns {
			if turn.Role == RoleAssistant {
				return &mcp.CallToolResult{
					Content: []mcp.Content{mcp.NewTextContent(turn.Content)},
				}, nil
			}
		}
		return mcp.NewToolResultError("no summary available"), nil
	}

	// Make sure the conversation is seeded before the question is asked.
	if _, _, err := s.app.Chat().ConversationView(ctx, videoID); err != nil {
		MCPLogError("ask_video seed failed: %v", err)
		return mcp.NewToolResultErrorFromErr("opening conversation", err), nil
	}

	reply, _, err := s.app.Chat().SubmitUtterance(ctx, videoID, question)
	if err != nil {
		MCPLogError("ask_video completion failed: %v", err)
		return mcp.NewToolResultErrorFromErr("answering question", err), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(reply)},
	}, nil
}

// handleGetTranscript implements the get_video_transcript tool
func (s *MCPServer) handleGetTranscript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("url parameter is required and must be a string"), nil
	}

	videoID, err := s.app.Chat().OpenOrCreateVideo(ctx, url)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("no captions available for this video", err), nil
	}

	transcript, err := s.app.Chat().Transcript(videoID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("reading transcript", err), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(transcript)},
	}, nil
}

// handleListVideos implements the list_videos tool
func (s *MCPServer) handleListVideos(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := s.app.Chat().Library()
	if err != nil {
		return mcp.NewToolResultErrorFromErr("listing videos", err), nil
	}

	if len(entries) == 0 {
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent("The library is empty.")},
		}, nil
	}

	var buf strings.Builder
	for _, entry := range entries {
		buf.WriteString(fmt.Sprintf("%s (%s)\n", entry.Title, entry.YouTubeID))
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(buf.String())},
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
