package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/quip/internal/config"
	"github.com/hpungsan/quip/internal/engine"
	"github.com/hpungsan/quip/internal/errors"
	"github.com/hpungsan/quip/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db     *sql.DB
	eng    *engine.Engine
	cfg    *config.Config
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, eng *engine.Engine, cfg *config.Config, logger *slog.Logger) *Handlers {
	return &Handlers{db: db, eng: eng, cfg: cfg, logger: logger}
}

// Request types for each tool

// CheckRequest represents the arguments for phrase_check.
type CheckRequest struct {
	Buffer      string `json:"buffer"`
	WindowTitle string `json:"window_title,omitempty"`
	Record      *bool  `json:"record,omitempty"`
}

// SelectRequest represents the arguments for phrase_select.
type SelectRequest struct {
	Path   string `json:"path"`
	Buffer string `json:"buffer,omitempty"`
	Record *bool  `json:"record,omitempty"`
}

// HotkeyRequest represents the arguments for phrase_hotkey.
type HotkeyRequest struct {
	Key         string   `json:"key"`
	Modifiers   []string `json:"modifiers,omitempty"`
	WindowTitle string   `json:"window_title,omitempty"`
	Buffer      string   `json:"buffer,omitempty"`
	Record      *bool    `json:"record,omitempty"`
}

// PathRequest represents the arguments for phrase_tree and phrase_show.
type PathRequest struct {
	Path string `json:"path,omitempty"`
}

// StatsRequest represents the arguments for phrase_stats.
type StatsRequest struct {
	Path  string `json:"path,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// HistoryRequest represents the arguments for history_list.
type HistoryRequest struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// PurgeRequest represents the arguments for history_purge.
type PurgeRequest struct {
	OlderThanDays int `json:"older_than_days,omitempty"`
}

// Handler implementations

// HandleCheck handles the phrase_check tool call.
func (h *Handlers) HandleCheck(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CheckRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Check(ctx, h.db, h.eng, ops.CheckInput{
		Buffer:      input.Buffer,
		WindowTitle: input.WindowTitle,
		Record:      recordOrDefault(input.Record),
	})
	if err != nil {
		return h.fail("phrase_check", err), nil
	}

	return successResult(result)
}

// HandleSelect handles the phrase_select tool call.
func (h *Handlers) HandleSelect(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SelectRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Select(ctx, h.db, h.eng, ops.SelectInput{
		Path:   input.Path,
		Buffer: input.Buffer,
		Record: recordOrDefault(input.Record),
	})
	if err != nil {
		return h.fail("phrase_select", err), nil
	}

	return successResult(result)
}

// HandleHotkey handles the phrase_hotkey tool call.
func (h *Handlers) HandleHotkey(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HotkeyRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Hotkey(ctx, h.db, h.eng, ops.HotkeyInput{
		Modifiers:   input.Modifiers,
		Key:         input.Key,
		WindowTitle: input.WindowTitle,
		Buffer:      input.Buffer,
		Record:      recordOrDefault(input.Record),
	})
	if err != nil {
		return h.fail("phrase_hotkey", err), nil
	}

	return successResult(result)
}

// HandleTree handles the phrase_tree tool call.
func (h *Handlers) HandleTree(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PathRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Tree(h.eng, ops.TreeInput{Path: input.Path})
	if err != nil {
		return h.fail("phrase_tree", err), nil
	}

	return successResult(result)
}

// HandleShow handles the phrase_show tool call.
func (h *Handlers) HandleShow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PathRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if strings.TrimSpace(input.Path) == "" {
		return errorResult(errors.NewInvalidRequest("path is required")), nil
	}

	result, err := ops.Phrase(h.eng, ops.PhraseInput{Path: input.Path})
	if err != nil {
		return h.fail("phrase_show", err), nil
	}

	return successResult(result)
}

// HandleStats handles the phrase_stats tool call.
func (h *Handlers) HandleStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[StatsRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Stats(h.eng, ops.StatsInput{Path: input.Path, Limit: input.Limit})
	if err != nil {
		return h.fail("phrase_stats", err), nil
	}

	return successResult(result)
}

// HandleHistory handles the history_list tool call.
func (h *Handlers) HandleHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HistoryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	limit := input.Limit
	if limit <= 0 && h.cfg != nil {
		limit = h.cfg.HistoryLimit
	}

	result, err := ops.History(ctx, h.db, ops.HistoryInput{Limit: limit, Offset: input.Offset})
	if err != nil {
		return h.fail("history_list", err), nil
	}

	return successResult(result)
}

// HandlePurge handles the history_purge tool call.
func (h *Handlers) HandlePurge(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PurgeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Purge(ctx, h.db, ops.PurgeInput{OlderThanDays: input.OlderThanDays})
	if err != nil {
		return h.fail("history_purge", err), nil
	}

	return successResult(result)
}

func recordOrDefault(record *bool) bool {
	return record == nil || *record
}

// fail logs internal errors with their cause before the cause is stripped
// from the client payload.
func (h *Handlers) fail(tool string, err error) *mcp.CallToolResult {
	if h.logger != nil && errors.Is(err, errors.ErrInternal) {
		qErr, _ := errors.As(err)
		h.logger.Error("tool failed", "tool", tool, "details", qErr.Details)
	}
	return errorResult(err)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if qErr, ok := errors.As(err); ok {
		message := qErr.Message
		// Keep wrapper context such as "reload library: ".
		if wrapped := err.Error(); wrapped != qErr.Error() {
			message = strings.TrimSuffix(wrapped, qErr.Error()) + qErr.Message
		}
		errorObj := map[string]any{
			"code":    qErr.Code,
			"message": message,
			"status":  qErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if qErr.Code != errors.ErrInternal && qErr.Details != nil {
			errorObj["details"] = qErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
