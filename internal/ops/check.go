package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/quip/internal/engine"
	"github.com/hpungsan/quip/internal/errors"
	"github.com/hpungsan/quip/internal/history"
	"github.com/hpungsan/quip/internal/phrase"
)

// CheckInput contains parameters for the Check operation.
type CheckInput struct {
	Buffer      string // required: the text typed so far
	WindowTitle string
	Record      bool // write the result to history
}

// Check runs the typed buffer against the tree and expands the first node
// that triggers.
func Check(ctx context.Context, database *sql.DB, eng *engine.Engine, input CheckInput) (*ExpandOutput, error) {
	if input.Buffer == "" {
		return nil, errors.NewInvalidRequest("buffer is required")
	}

	out := &ExpandOutput{}
	commit := expandCommit(ctx, database, out, input.Buffer, input.WindowTitle, history.TriggerInput, input.Record)
	_, ok, err := eng.Fire(input.Buffer, input.WindowTitle, commit)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.NewNoMatch("no phrase or folder triggers for this input")
	}
	return out, nil
}

// Preview reports which node the buffer would trigger without expanding it.
// Usage counts and history are left untouched, so Expansion is always nil.
func Preview(eng *engine.Engine, buffer, windowTitle string) (*ExpandOutput, error) {
	if buffer == "" {
		return nil, errors.NewInvalidRequest("buffer is required")
	}

	m, ok := eng.Match(buffer, windowTitle)
	if !ok {
		return nil, errors.NewNoMatch("no phrase or folder triggers for this input")
	}

	out := &ExpandOutput{
		Path:       m.Path,
		Kind:       m.Node.Kind(),
		Backspaces: eng.BackspaceCount(m.Node, buffer),
	}
	if f, isFolder := m.Node.(*phrase.Folder); isFolder {
		items, err := folderItems(eng, f, m.Path)
		if err != nil {
			return nil, err
		}
		out.Menu = items
	}
	return out, nil
}
