package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mrjoshuak/summabrowse/types"
)

// Actions understood by Handle
const (
	ActionPing            = "ping"
	ActionGetSelection    = "getSelection"
	ActionGetPageContent  = "getPageContent"
	ActionGetPageStats    = "getPageStats"
	ActionHighlightText   = "highlightText"
	ActionClearHighlights = "clearHighlights"
)

// Request is a message sent to a page.
type Request struct {
	Action   string `json:"action"`
	Text     string `json:"text,omitempty"`
	Selector string `json:"selector,omitempty"`
}

// PingResponse answers ping.
type PingResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ContentResponse answers getPageContent.
type ContentResponse struct {
	Text      string `json:"text"`
	HTML      string `json:"html"`
	WordCount int    `json:"wordCount"`
	Title     string `json:"title"`
	URL       string `json:"url"`
}

// AckResponse answers actions that only mutate the page.
type AckResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse reports a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handle dispatches req and returns one of the response types above. Failures
// are reported as ErrorResponse values, never as panics.
func (p *Page) Handle(ctx context.Context, req Request) (resp any) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Interface("panic", r).Str("action", req.Action).Msg("page message handler failed")
			resp = ErrorResponse{Error: fmt.Sprint(r)}
		}
	}()

	if err := ctx.Err(); err != nil {
		return ErrorResponse{Error: err.Error()}
	}

	switch req.Action {
	case ActionPing:
		return PingResponse{Status: "active", Version: types.Version}

	case ActionGetSelection:
		sel, err := p.Selection(req.Selector)
		if err != nil {
			return ErrorResponse{Error: err.Error()}
		}
		return sel

	case ActionGetPageContent:
		content := p.Content()
		return ContentResponse{
			Text:      content.Text,
			HTML:      content.HTML,
			WordCount: content.WordCount,
			Title:     p.Metadata().Title,
			URL:       p.url,
		}

	case ActionGetPageStats:
		return p.Statistics()

	case ActionHighlightText:
		p.Highlight(req.Text)
		return AckResponse{Success: true}

	case ActionClearHighlights:
		p.ClearHighlights()
		return AckResponse{Success: true}

	default:
		return ErrorResponse{Error: "unknown action: " + req.Action}
	}
}

// HandleJSON decodes a JSON request, dispatches it and encodes the response.
func (p *Page) HandleJSON(ctx context.Context, raw []byte) []byte {
	var req Request
	var resp any
	if err := json.Unmarshal(raw, &req); err != nil {
		resp = ErrorResponse{Error: fmt.Sprintf("invalid request: %v", err)}
	} else {
		resp = p.Handle(ctx, req)
	}

	out, err := json.Marshal(resp)
	if err != nil {
		out, _ = json.Marshal(ErrorResponse{Error: err.Error()})
	}
	return out
}
