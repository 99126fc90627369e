package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/quip/internal/engine"
	"github.com/hpungsan/quip/internal/errors"
	"github.com/hpungsan/quip/internal/history"
)

// HotkeyInput contains parameters for the Hotkey operation.
type HotkeyInput struct {
	Modifiers   []string
	Key         string // required
	WindowTitle string
	Buffer      string
	Record      bool
}

// Hotkey expands the first node bound to the pressed chord.
func Hotkey(ctx context.Context, database *sql.DB, eng *engine.Engine, input HotkeyInput) (*ExpandOutput, error) {
	key := strings.TrimSpace(input.Key)
	if key == "" {
		return nil, errors.NewInvalidRequest("key is required")
	}

	out := &ExpandOutput{}
	commit := expandCommit(ctx, database, out, input.Buffer, input.WindowTitle, history.TriggerHotkey, input.Record)
	_, ok, err := eng.FireHotkey(input.Modifiers, key, input.WindowTitle, input.Buffer, commit)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.NewNoMatch("no phrase or folder is bound to this hotkey")
	}
	return out, nil
}
