package ops

import (
	"slices"

	"github.com/hpungsan/quip/internal/engine"
	"github.com/hpungsan/quip/internal/errors"
	"github.com/hpungsan/quip/internal/phrase"
)

// StatsInput contains parameters for the Stats operation.
type StatsInput struct {
	Path  string // default: "/"
	Limit int    // default: 20, max: 100
}

// PhraseUsage is one row of a usage ranking.
type PhraseUsage struct {
	Path         string `json:"path"`
	Description  string `json:"description"`
	Abbreviation string `json:"abbreviation,omitempty"`
	Usage        int    `json:"usage"`
}

// StatsOutput ranks the phrases below a folder by use.
type StatsOutput struct {
	Path  string        `json:"path"`
	Usage int           `json:"usage"`
	Total int           `json:"total"`
	Items []PhraseUsage `json:"items"`
}

// Stats returns the phrases below Path, most used first. Ties go to the
// name that sorts first.
func Stats(eng *engine.Engine, input StatsInput) (*StatsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultStatsLimit
	}
	if limit > MaxStatsLimit {
		limit = MaxStatsLimit
	}

	n, err := eng.Resolve(input.Path)
	if err != nil {
		return nil, err
	}
	f, ok := n.(*phrase.Folder)
	if !ok {
		return nil, errors.NewInvalidRequest("path names a phrase, not a folder").WithDetail("path", input.Path)
	}

	out := &StatsOutput{Path: engine.Path(f), Items: []PhraseUsage{}}
	err = eng.View(func(*phrase.Folder) error {
		var phrases []*phrase.Phrase
		f.Walk(func(n phrase.Node) bool {
			if p, ok := n.(*phrase.Phrase); ok {
				phrases = append(phrases, p)
			}
			return true
		})

		// CompareUsage orders least used first; the ranking wants the reverse.
		phrase.SortByUsage(phrases)
		slices.Reverse(phrases)

		out.Usage = f.UsageCount()
		out.Total = len(phrases)
		for _, p := range phrases[:min(limit, len(phrases))] {
			out.Items = append(out.Items, PhraseUsage{
				Path:         engine.Path(p),
				Description:  p.Description,
				Abbreviation: p.Abbreviation.Text,
				Usage:        p.UsageCount(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
