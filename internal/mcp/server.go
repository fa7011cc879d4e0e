// Package mcp exposes the clip history to agents over the Model Context
// Protocol.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer creates a new MCP server for clipstash.
func NewServer(b Backend, version string) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "clipstash", Version: version},
		&mcp.ServerOptions{Logger: slog.New(log.Default())},
	)

	handlers := NewHandlers(b)

	mcp.AddTool(server, newTool("search_clips", "Search the clipboard history, newest first unless a fuzzy pattern ranks the results"),
		func(ctx context.Context, req *mcp.CallToolRequest, input SearchClipsInput) (*mcp.CallToolResult, SearchClipsOutput, error) {
			log.Info("Tool call: search_clips", "contains", input.Contains, "regex", input.Regex, "fuzzy", input.Fuzzy, "labels", input.Labels)
			return handlers.SearchClipsHandler(ctx, req, input)
		})

	mcp.AddTool(server, newTool("get_clip", "Read the full content and labels of one clip"),
		func(ctx context.Context, req *mcp.CallToolRequest, input ClipInput) (*mcp.CallToolResult, GetClipOutput, error) {
			log.Info("Tool call: get_clip", "id", input.ID)
			return handlers.GetClipHandler(ctx, req, input)
		})

	mcp.AddTool(server, newTool("list_labels", "List every label, including pinned and favourite"),
		func(ctx context.Context, req *mcp.CallToolRequest, input ListLabelsInput) (*mcp.CallToolResult, ListLabelsOutput, error) {
			log.Info("Tool call: list_labels")
			return handlers.ListLabelsHandler(ctx, req, input)
		})

	mcp.AddTool(server, newTool("switch_pinned", "Pin a clip, or unpin it when already pinned"),
		func(ctx context.Context, req *mcp.CallToolRequest, input ClipInput) (*mcp.CallToolResult, SwitchPinnedOutput, error) {
			log.Info("Tool call: switch_pinned", "id", input.ID)
			return handlers.SwitchPinnedHandler(ctx, req, input)
		})

	mcp.AddTool(server, newTool("change_label", "Add a label to a clip or remove it"),
		func(ctx context.Context, req *mcp.CallToolRequest, input ChangeLabelInput) (*mcp.CallToolResult, DoneOutput, error) {
			log.Info("Tool call: change_label", "id", input.ID, "label", input.Label, "add", input.Add)
			return handlers.ChangeLabelHandler(ctx, req, input)
		})

	mcp.AddTool(server, newTool("copy_clip", "Put a stored clip back on the clipboard"),
		func(ctx context.Context, req *mcp.CallToolRequest, input ClipInput) (*mcp.CallToolResult, DoneOutput, error) {
			log.Info("Tool call: copy_clip", "id", input.ID)
			return handlers.CopyClipHandler(ctx, req, input)
		})

	return server
}

// RunStdio runs the server using the stdio transport.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP runs the server using the streamable HTTP transport.
func RunHTTP(ctx context.Context, server *mcp.Server, addr string) error {
	f := func(r *http.Request) *mcp.Server { return server }
	handler := mcp.NewStreamableHTTPHandler(f, nil)

	s := &http.Server{Addr: addr, Handler: handler}

	go func() {
		<-ctx.Done()
		_ = s.Shutdown(context.Background())
	}()

	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newTool(n, d string) *mcp.Tool {
	return &mcp.Tool{Name: n, Description: d}
}
