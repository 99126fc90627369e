package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/quip/internal/db"
	"github.com/hpungsan/quip/internal/engine"
	"github.com/hpungsan/quip/internal/errors"
	"github.com/hpungsan/quip/internal/library"
	"github.com/hpungsan/quip/internal/phrase"
)

// InstallOutput summarizes a newly published tree.
type InstallOutput struct {
	Title   string `json:"title"`
	Folders int    `json:"folders"`
	Phrases int    `json:"phrases"`
	Usage   int    `json:"usage"`
}

// Install publishes root on eng with usage counts replayed from history.
// A nil database installs the tree with zero usage.
func Install(ctx context.Context, database *sql.DB, eng *engine.Engine, root *phrase.Folder) (*InstallOutput, error) {
	if root == nil {
		return nil, errors.NewInvalidRequest("library root is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	var load func() (map[string]int, error)
	if database != nil {
		load = func() (map[string]int, error) { return db.UsageByPath(database) }
	}
	if _, err := eng.SwapFrom(root, load); err != nil {
		return nil, err
	}

	folders, phrases := library.Summary(root)
	out := &InstallOutput{Title: root.Title, Folders: folders, Phrases: phrases}
	_ = eng.View(func(r *phrase.Folder) error {
		out.Usage = r.UsageCount()
		return nil
	})
	return out, nil
}
