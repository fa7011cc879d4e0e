package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/stormlightlabs/clipstash/internal/clip"
)

// Backend is what the tools operate on.
type Backend interface {
	SearchClips(ctx context.Context, cs []clip.Constraint) ([]clip.Clip, error)
	Clip(ctx context.Context, id int64) (clip.Clip, error)
	Labels(ctx context.Context) ([]string, error)
	SwitchPinned(ctx context.Context, id int64) (bool, error)
	ChangeLabel(ctx context.Context, id int64, label string, add bool) error
	CopyClipToClipboard(ctx context.Context, id int64) error
}

type Handlers struct {
	backend Backend
}

func NewHandlers(b Backend) *Handlers {
	return &Handlers{backend: b}
}

func (h *Handlers) SearchClipsHandler(ctx context.Context, req *mcp.CallToolRequest, input SearchClipsInput) (*mcp.CallToolResult, SearchClipsOutput, error) {
	clips, err := h.backend.SearchClips(ctx, input.Constraints())
	if err != nil {
		return nil, SearchClipsOutput{}, err
	}

	out := SearchClipsOutput{Clips: make([]ClipSummary, len(clips)), Total: len(clips)}
	for i, c := range clips {
		out.Clips[i] = NewClipSummary(c)
	}
	return nil, out, nil
}

func (h *Handlers) GetClipHandler(ctx context.Context, req *mcp.CallToolRequest, input ClipInput) (*mcp.CallToolResult, GetClipOutput, error) {
	c, err := h.backend.Clip(ctx, input.ID)
	if err != nil {
		return nil, GetClipOutput{}, err
	}
	out, err := NewGetClipOutput(c)
	return nil, out, err
}

func (h *Handlers) ListLabelsHandler(ctx context.Context, req *mcp.CallToolRequest, input ListLabelsInput) (*mcp.CallToolResult, ListLabelsOutput, error) {
	labels, err := h.backend.Labels(ctx)
	if err != nil {
		return nil, ListLabelsOutput{}, err
	}
	return nil, ListLabelsOutput{Labels: labels}, nil
}

func (h *Handlers) SwitchPinnedHandler(ctx context.Context, req *mcp.CallToolRequest, input ClipInput) (*mcp.CallToolResult, SwitchPinnedOutput, error) {
	pinned, err := h.backend.SwitchPinned(ctx, input.ID)
	if err != nil {
		return nil, SwitchPinnedOutput{}, err
	}
	return nil, SwitchPinnedOutput{ID: input.ID, Pinned: pinned}, nil
}

func (h *Handlers) ChangeLabelHandler(ctx context.Context, req *mcp.CallToolRequest, input ChangeLabelInput) (*mcp.CallToolResult, DoneOutput, error) {
	if err := h.backend.ChangeLabel(ctx, input.ID, input.Label, input.Add); err != nil {
		return nil, DoneOutput{}, err
	}
	return nil, DoneOutput{ID: input.ID, OK: true}, nil
}

func (h *Handlers) CopyClipHandler(ctx context.Context, req *mcp.CallToolRequest, input ClipInput) (*mcp.CallToolResult, DoneOutput, error) {
	if err := h.backend.CopyClipToClipboard(ctx, input.ID); err != nil {
		return nil, DoneOutput{}, err
	}
	return nil, DoneOutput{ID: input.ID, OK: true}, nil
}
