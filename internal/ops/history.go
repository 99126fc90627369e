package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/quip/internal/db"
	"github.com/hpungsan/quip/internal/history"
)

// HistoryInput contains parameters for the History operation.
type HistoryInput struct {
	Limit  int // default: 50, max: 500
	Offset int // default: 0
}

// HistoryOutput contains the result of the History operation.
type HistoryOutput struct {
	Items      []history.Record `json:"items"`
	Pagination Pagination       `json:"pagination"`
	Sort       string           `json:"sort"`
}

// History pages through recorded expansions, newest first.
func History(ctx context.Context, database *sql.DB, input HistoryInput) (*HistoryOutput, error) {
	// Apply limit defaults and bounds
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	// Ensure offset is non-negative
	offset := max(input.Offset, 0)

	records, total, err := db.ListExpansions(database, limit, offset)
	if err != nil {
		return nil, err
	}

	// Ensure we return an empty array rather than nil
	if records == nil {
		records = []history.Record{}
	}

	return &HistoryOutput{
		Items: records,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(records) < total,
			Total:   total,
		},
		Sort: "created_at_desc",
	}, nil
}
