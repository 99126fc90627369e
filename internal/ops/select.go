package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/hpungsan/quip/internal/engine"
	"github.com/hpungsan/quip/internal/errors"
	"github.com/hpungsan/quip/internal/history"
)

// SelectInput contains parameters for the Select operation.
type SelectInput struct {
	Path   string // required: slash path of the node from the root
	Buffer string // text typed before the selection, for backspaces
	Record bool
}

// Select expands a node picked by hand, typically from a folder menu.
// Picking a folder returns its menu.
func Select(ctx context.Context, database *sql.DB, eng *engine.Engine, input SelectInput) (*ExpandOutput, error) {
	path := strings.TrimSpace(input.Path)
	if path == "" || path == "/" {
		return nil, errors.NewInvalidRequest("path must name a folder or phrase below the root")
	}

	out := &ExpandOutput{}
	commit := expandCommit(ctx, database, out, input.Buffer, "", history.TriggerManual, input.Record)
	if _, err := eng.FirePath(path, input.Buffer, commit); err != nil {
		return nil, err
	}
	return out, nil
}
