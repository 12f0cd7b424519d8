package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer exposes the downloader over the Model Context Protocol
type MCPServer struct {
	controller *Controller
	mcpServer  *server.MCPServer
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(controller *Controller, version string) *MCPServer {
	mcpServer := server.NewMCPServer(
		appName+"-server",
		version,
		server.WithToolCapabilities(true),
	)

	s := &MCPServer{
		controller: controller,
		mcpServer:  mcpServer,
	}

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools
func (s *MCPServer) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("download_video_subtitle",
		mcp.WithDescription("Download subtitles from a single YouTube video and return the transcript text."),
		mcp.WithString("video_url",
			mcp.Description("YouTube video URL (e.g., https://www.youtube.com/watch?v=abc123)"),
			mcp.Required(),
		),
		mcp.WithString("channel_name",
			mcp.Description("Optional channel name for organizing output files"),
		),
	), s.handleDownloadVideo)

	s.mcpServer.AddTool(mcp.NewTool("download_channel_subtitles",
		mcp.WithDescription("Download subtitles from multiple videos on a YouTube channel."),
		mcp.WithString("channel_name",
			mcp.Description("YouTube channel handle (with or without @, e.g., 'DanKoeTalks' or '@DanKoeTalks')"),
			mcp.Required(),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of videos to process (default: 10)"),
		),
		mcp.WithBoolean("full",
			mcp.Description("Force full re-download ignoring previously processed videos"),
		),
	), s.handleDownloadChannel)
}

// handleDownloadVideo implements the download_video_subtitle tool
func (s *MCPServer) handleDownloadVideo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	videoURL, err := request.RequireString("video_url")
	if err != nil {
		return mcp.NewToolResultError("video_url parameter is required and must be a string"), nil
	}
	channelName := request.GetString("channel_name", "")

	MCPLogInfo("download_video_subtitle url=%s channel=%q", videoURL, channelName)

	result, err := s.controller.DownloadVideo(ctx, videoURL, VideoOptions{
		ChannelName: channelName,
	})
	if err != nil {
		MCPLogError("download_video_subtitle failed: %v", err)
		return mcp.NewToolResultErrorFromErr("download error", err), nil
	}

	response := map[string]any{
		"status":   string(result.Status),
		"video_id": result.VideoID,
		"title":    result.Title,
	}
	if result.Status == StatusSuccess {
		transcript, err := os.ReadFile(result.TranscriptPath)
		if err != nil {
			return mcp.NewToolResultErrorFromErr("reading transcript", err), nil
		}
		response["url"] = result.URL
		response["upload_date"] = result.UploadDate
		response["channel"] = result.Channel
		response["languages"] = result.Languages
		response["transcript_path"] = result.TranscriptPath
		response["transcript"] = string(transcript)
	} else {
		message := result.Message
		if message == "" {
			message = "No subtitles available"
		}
		response["message"] = message
	}

	return jsonToolResult(response)
}

// handleDownloadChannel implements the download_channel_subtitles tool
func (s *MCPServer) handleDownloadChannel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	channelName, err := request.RequireString("channel_name")
	if err != nil {
		return mcp.NewToolResultError("channel_name parameter is required and must be a string"), nil
	}
	limit := request.GetInt("limit", 10)
	full := request.GetBool("full", false)

	MCPLogInfo("download_channel_subtitles channel=%s limit=%d full=%t", channelName, limit, full)

	batch, err := s.controller.DownloadChannel(ctx, channelName, ChannelOptions{
		Limit: limit,
		Full:  full,
	})
	if err != nil {
		MCPLogError("download_channel_subtitles failed: %v", err)
		return mcp.NewToolResultErrorFromErr("download error", err), nil
	}

	success, failed := batch.Counts()
	videos := make([]map[string]any, 0, len(batch.Results))
	for _, result := range batch.Results {
		video := map[string]any{
			"video_id": result.VideoID,
			"title":    result.Title,
			"url":      result.URL,
			"status":   string(result.Status),
		}
		if result.TranscriptPath != "" {
			video["transcript_path"] = result.TranscriptPath
		}
		if result.Message != "" {
			video["message"] = result.Message
		}
		videos = append(videos, video)
	}

	return jsonToolResult(map[string]any{
		"status":          "success",
		"channel":         batch.ChannelSlug,
		"output_dir":      batch.OutputDir,
		"total_processed": len(batch.Results),
		"successful":      success,
		"failed":          failed,
		"videos":          videos,
	})
}

func jsonToolResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultErrorFromErr("encoding response", err), nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(data))},
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
