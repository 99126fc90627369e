package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/quip/internal/db"
	"github.com/hpungsan/quip/internal/engine"
	"github.com/hpungsan/quip/internal/errors"
	"github.com/hpungsan/quip/internal/history"
	"github.com/hpungsan/quip/internal/phrase"
)

// Pagination limits
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
	DefaultStatsLimit   = 20
	MaxStatsLimit       = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// Item describes one child of a folder, as a menu entry or tree row.
type Item struct {
	Index          int         `json:"index"`
	Kind           phrase.Kind `json:"kind"`
	Name           string      `json:"name"`
	Abbreviation   string      `json:"abbreviation,omitempty"`
	Hotkey         string      `json:"hotkey,omitempty"`
	Path           string      `json:"path"`
	Usage          int         `json:"usage"`
	ShowInTrayMenu bool        `json:"show_in_tray_menu,omitempty"`
	HasChildren    bool        `json:"has_children,omitempty"`
}

// ExpandOutput is what Check, Select and Hotkey return. A phrase yields an
// expansion; a folder yields a menu of its children plus the number of
// characters to erase before showing it.
type ExpandOutput struct {
	Path       string            `json:"path"`
	Kind       phrase.Kind       `json:"kind"`
	Expansion  *phrase.Expansion `json:"expansion,omitempty"`
	Prompt     bool              `json:"prompt,omitempty"`
	Backspaces int               `json:"backspaces"`
	Menu       []Item            `json:"menu,omitempty"`
	RecordID   string            `json:"record_id,omitempty"`
}

// expandCommit returns the engine.Commit that fills out from a fired node
// and, when record is set and a database is available, writes it to
// history. It runs under the engine lock, so the history row and the usage
// bump are seen together by any later reload.
func expandCommit(ctx context.Context, database *sql.DB, out *ExpandOutput, buffer, windowTitle string, trigger history.Trigger, record bool) engine.Commit {
	return func(f engine.Fired) error {
		out.Path = f.Path
		out.Kind = f.Node.Kind()
		out.Backspaces = f.Backspaces
		out.Expansion = f.Expansion

		var inserted string
		switch n := f.Node.(type) {
		case *phrase.Phrase:
			out.Prompt = n.Prompt
			inserted = f.Expansion.String
		case *phrase.Folder:
			items, err := listItems(n, f.Path)
			if err != nil {
				return err
			}
			out.Menu = items
		default:
			return errors.NewInternal(nil)
		}

		if !record || database == nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return errors.NewInternal(err)
		}

		id, err := generateULID()
		if err != nil {
			return errors.NewInternal(err)
		}
		r := &history.Record{
			ID:          id,
			NodePath:    f.Path,
			NodeKind:    string(f.Node.Kind()),
			Trigger:     trigger,
			BufferTail:  history.Tail(buffer, history.TailLength),
			WindowTitle: windowTitle,
			Backspaces:  out.Backspaces,
			Chars:       history.CountChars(inserted),
			CreatedAt:   time.Now().Unix(),
		}
		if out.Expansion != nil {
			r.Lefts = out.Expansion.Lefts
		}
		if err := db.InsertExpansion(database, r); err != nil {
			return err
		}
		out.RecordID = id
		return nil
	}
}

// folderItems lists f's children in combined order: folders, then phrases.
func folderItems(eng *engine.Engine, f *phrase.Folder, folderPath string) ([]Item, error) {
	var items []Item
	err := eng.View(func(*phrase.Folder) error {
		var err error
		items, err = listItems(f, folderPath)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// listItems is folderItems for callers already holding the engine lock.
func listItems(f *phrase.Folder, folderPath string) ([]Item, error) {
	items := make([]Item, 0, f.ChildCount())
	child, ok := f.FirstChild()
	for ok {
		index, err := f.ChildIndex(child)
		if err != nil {
			return nil, err
		}
		items = append(items, newItem(index, child, folderPath))

		child, ok, err = f.NextChild(child)
		if err != nil {
			return nil, err
		}
	}
	return items, nil
}

func newItem(index int, n phrase.Node, folderPath string) Item {
	tuple := n.DisplayTuple()
	item := Item{
		Index:        index,
		Kind:         tuple.Kind,
		Name:         tuple.Name,
		Abbreviation: tuple.Abbreviation,
		Path:         joinPath(folderPath, tuple.Name),
		Usage:        n.UsageCount(),
	}
	switch c := n.(type) {
	case *phrase.Folder:
		item.ShowInTrayMenu = c.ShowInTrayMenu
		item.HasChildren = c.HasChildren()
		if c.Hotkey.IsSet() {
			item.Hotkey = c.Hotkey.String()
		}
	case *phrase.Phrase:
		item.ShowInTrayMenu = c.ShowInTrayMenu
		if c.Hotkey.IsSet() {
			item.Hotkey = c.Hotkey.String()
		}
	}
	return item
}

func joinPath(folderPath, name string) string {
	if folderPath == "/" || folderPath == "" {
		return "/" + name
	}
	return folderPath + "/" + name
}

func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
