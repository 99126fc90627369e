package ops

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hpungsan/quip/internal/db"
	"github.com/hpungsan/quip/internal/errors"
)

// PurgeInput contains parameters for the Purge operation.
type PurgeInput struct {
	// OlderThanDays keeps records newer than N days. Zero purges everything.
	OlderThanDays int
}

// PurgeOutput contains the result of the Purge operation.
type PurgeOutput struct {
	Purged  int    `json:"purged"`
	Message string `json:"message"`
}

// Purge permanently deletes history records.
func Purge(ctx context.Context, database *sql.DB, input PurgeInput) (*PurgeOutput, error) {
	if input.OlderThanDays < 0 {
		return nil, errors.NewInvalidRequest("older_than_days must be non-negative")
	}

	// +1 so records written in the current second go too.
	cutoff := time.Now().Unix() + 1
	if input.OlderThanDays > 0 {
		cutoff = time.Now().AddDate(0, 0, -input.OlderThanDays).Unix()
	}

	count, err := db.PurgeExpansions(database, cutoff)
	if err != nil {
		return nil, err
	}

	return &PurgeOutput{
		Purged:  int(count),
		Message: formatPurgeMessage(int(count), input.OlderThanDays),
	}, nil
}

// formatPurgeMessage creates a human-readable message for the purge result.
func formatPurgeMessage(count, olderThanDays int) string {
	if count == 0 {
		return "No history records to purge"
	}

	recordWord := "record"
	if count > 1 {
		recordWord = "records"
	}

	msg := fmt.Sprintf("Permanently deleted %d history %s", count, recordWord)
	if olderThanDays > 0 {
		msg += fmt.Sprintf(" (older than %d days)", olderThanDays)
	}
	return msg
}
