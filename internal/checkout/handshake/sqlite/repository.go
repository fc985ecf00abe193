// Package sqlite is the SQLite-backed attempt log. WAL mode lets the HTTP
// handlers read attempts while a checkout is being written.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"

	"github.com/jcmexdev/membership-checkout/internal/checkout/core/domain/entity"
	"github.com/jcmexdev/membership-checkout/internal/checkout/handshake"
)

var _ handshake.Repository = (*Repository)(nil)

// Append-only: one row per transition. The newest row per order_number is
// the current state.
const schema = `
CREATE TABLE IF NOT EXISTS checkout_attempts (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    order_number  TEXT    NOT NULL,
    state         TEXT    NOT NULL,
    md_order      TEXT    NOT NULL DEFAULT '',
    form_url      TEXT    NOT NULL DEFAULT '',
    amount        INTEGER NOT NULL DEFAULT 0,
    detail        TEXT,
    trace_id      TEXT    NOT NULL DEFAULT '',
    span_id       TEXT    NOT NULL DEFAULT '',
    updated_at    TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_checkout_attempts_order ON checkout_attempts(order_number, updated_at);
CREATE INDEX IF NOT EXISTS idx_checkout_attempts_md_order ON checkout_attempts(md_order);
CREATE INDEX IF NOT EXISTS idx_checkout_attempts_trace_id ON checkout_attempts(trace_id);
`

type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}
	// Single writer.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// dsn builds a file: URI. The path is escaped so '?' and '#' in a file
// name cannot end up in the query string.
func dsn(path string) string {
	escaped := (&url.URL{Path: path}).EscapedPath()
	return "file:" + escaped + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Save(ctx context.Context, entry *handshake.Attempt) error {
	const q = `
		INSERT INTO checkout_attempts
			(order_number, state, md_order, form_url, amount, detail, trace_id, span_id, updated_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.OrderNumber,
		string(entry.State),
		entry.MdOrder,
		entry.FormURL,
		entry.Amount,
		nullableString(entry.Detail),
		entry.TraceID,
		entry.SpanID,
		formatTime(entry.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save attempt %q: %w", entry.OrderNumber, err)
	}
	return nil
}

func (r *Repository) GetLatest(ctx context.Context, orderNumber string) (*handshake.Attempt, error) {
	const q = `
		SELECT order_number, state, md_order, form_url, amount, COALESCE(detail, ''),
		       trace_id, span_id, updated_at
		FROM   checkout_attempts
		WHERE  order_number = ?
		ORDER  BY id DESC
		LIMIT  1`

	var (
		entry     handshake.Attempt
		updatedAt string
	)
	err := r.db.QueryRowContext(ctx, q, orderNumber).Scan(
		&entry.OrderNumber,
		&entry.State,
		&entry.MdOrder,
		&entry.FormURL,
		&entry.Amount,
		&entry.Detail,
		&entry.TraceID,
		&entry.SpanID,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: attempt %q", entity.ErrNotFound, orderNumber)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get latest attempt %q: %w", orderNumber, err)
	}

	entry.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// nullableString stores NULL rather than an empty detail.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
