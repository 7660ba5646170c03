package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	intdb "flightsurety/internal/db"
	"flightsurety/internal/domain"
	"flightsurety/internal/domain/models"
)

const journalTable = "ledger_events"

// JournalRepository appends engine events to MySQL. It is an audit trail
// only; the engine never reads its state back from it.
type JournalRepository struct {
	DB *sql.DB
}

// EnsureSchema creates ledger_events when it is missing.
func (r JournalRepository) EnsureSchema(ctx context.Context) error {
	if intdb.HasTable(ctx, r.DB, journalTable) {
		return nil
	}
	_, err := r.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+journalTable+` (
			id          CHAR(36)     NOT NULL PRIMARY KEY,
			sequence    BIGINT       NOT NULL,
			kind        VARCHAR(64)  NOT NULL,
			principal   VARCHAR(128) NULL,
			payload     JSON         NULL,
			occurred_at DATETIME(6)  NOT NULL,
			KEY idx_ledger_events_kind (kind),
			KEY idx_ledger_events_occurred (occurred_at)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
	`)
	if err != nil {
		return fmt.Errorf("create %s: %w", journalTable, err)
	}
	return nil
}

// Append stores events in one transaction.
func (r JournalRepository) Append(ctx context.Context, events []models.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, ev := range events {
		payload, err := json.Marshal(ev.Payload)
		if err != nil {
			return fmt.Errorf("encode payload of %s: %w", ev.Kind, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO `+journalTable+` (id, sequence, kind, principal, payload, occurred_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, ev.ID, ev.Sequence, ev.Kind, intdb.NullIfEmpty(ev.Principal.String()), string(payload), ev.OccurredAt); err != nil {
			return fmt.Errorf("insert event %s: %w", ev.ID, err)
		}
	}
	return tx.Commit()
}

// Publish lets the journal act as an event sink.
func (r JournalRepository) Publish(ctx context.Context, events []models.Event) error {
	return r.Append(ctx, events)
}

// JournalFilter narrows List. Zero values mean no restriction.
type JournalFilter struct {
	Kind      string
	Principal domain.Principal
	Limit     int
}

// List returns the newest events first.
func (r JournalRepository) List(ctx context.Context, f JournalFilter) ([]models.Event, error) {
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	where := []string{}
	args := []any{}
	if kind := strings.TrimSpace(f.Kind); kind != "" {
		where = append(where, "kind = ?")
		args = append(args, kind)
	}
	if !f.Principal.IsZero() {
		where = append(where, "principal = ?")
		args = append(args, f.Principal.String())
	}
	query := `SELECT id, sequence, kind, COALESCE(principal, ''), payload, occurred_at FROM ` + journalTable
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY occurred_at DESC, sequence DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Event{}
	for rows.Next() {
		var (
			ev        models.Event
			principal string
			payload   sql.NullString
			occurred  time.Time
		)
		if err := rows.Scan(&ev.ID, &ev.Sequence, &ev.Kind, &principal, &payload, &occurred); err != nil {
			return nil, err
		}
		ev.Principal = domain.Principal(principal)
		ev.OccurredAt = occurred
		if payload.Valid && payload.String != "" {
			if err := json.Unmarshal([]byte(payload.String), &ev.Payload); err != nil {
				return nil, fmt.Errorf("decode payload of %s: %w", ev.ID, err)
			}
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
