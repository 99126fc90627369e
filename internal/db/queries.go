package db

import (
	"database/sql"
	"strings"

	"github.com/hpungsan/quip/internal/errors"
	"github.com/hpungsan/quip/internal/history"
)

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
var ErrUniqueConstraint = &errors.QuipError{
	Code:    "UNIQUE_CONSTRAINT",
	Status:  409,
	Message: "unique constraint violation",
}

// InsertExpansion stores one history record.
func InsertExpansion(db *sql.DB, r *history.Record) error {
	query := `
		INSERT INTO expansions (
			id, node_path, node_kind, trigger_kind, buffer_tail, window_title,
			backspaces, lefts, chars, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		r.ID, r.NodePath, r.NodeKind, string(r.Trigger),
		toNullString(r.BufferTail), toNullString(r.WindowTitle),
		r.Backspaces, r.Lefts, r.Chars, r.CreatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}
	return nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// ListExpansions returns records newest first, plus the total record count.
func ListExpansions(db *sql.DB, limit, offset int) ([]history.Record, int, error) {
	var total int
	if err := db.QueryRow("SELECT COUNT(*) FROM expansions").Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `
		SELECT id, node_path, node_kind, trigger_kind, buffer_tail, window_title,
			backspaces, lefts, chars, created_at
		FROM expansions
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`
	rows, err := db.Query(query, limit, offset)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	records := make([]history.Record, 0, limit)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		records = append(records, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	return records, total, nil
}

// UsageByPath counts phrase expansions per node path. Folder menu records
// are not usage: a folder's usage is the sum of what was picked below it.
func UsageByPath(db *sql.DB) (map[string]int, error) {
	rows, err := db.Query(`
		SELECT node_path, COUNT(*)
		FROM expansions
		WHERE node_kind = 'phrase'
		GROUP BY node_path
	`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	usage := make(map[string]int)
	for rows.Next() {
		var (
			path  string
			count int
		)
		if err := rows.Scan(&path, &count); err != nil {
			return nil, errors.NewInternal(err)
		}
		usage[path] = count
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return usage, nil
}

// PurgeExpansions deletes records created before the given Unix timestamp
// and returns how many were removed.
func PurgeExpansions(db *sql.DB, before int64) (int64, error) {
	result, err := db.Exec("DELETE FROM expansions WHERE created_at < ?", before)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

// scanRecord scans the current row into a Record.
func scanRecord(rows *sql.Rows) (*history.Record, error) {
	var (
		r           history.Record
		trigger     string
		bufferTail  sql.NullString
		windowTitle sql.NullString
	)

	err := rows.Scan(
		&r.ID, &r.NodePath, &r.NodeKind, &trigger, &bufferTail, &windowTitle,
		&r.Backspaces, &r.Lefts, &r.Chars, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Trigger = history.Trigger(trigger)
	r.BufferTail = bufferTail.String
	r.WindowTitle = windowTitle.String
	return &r, nil
}

// toNullString maps "" to NULL.
func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
