package postgres

import (
	"context"
	"database/sql"

	"sydney-events/internal/domain/leads"
)

type LeadsRepo struct {
	db *sql.DB
}

func NewLeadsRepo(db *sql.DB) *LeadsRepo {
	return &LeadsRepo{db: db}
}

func (r *LeadsRepo) Create(ctx context.Context, l leads.Lead) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO leads (id, email, consent, event_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, l.ID, l.Email, l.Consent, nullIfEmpty(l.EventID), l.CreatedAt)
	return err
}

func (r *LeadsRepo) List(ctx context.Context, limit int) ([]leads.Lead, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, consent, event_id, created_at
		FROM leads
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]leads.Lead, 0)
	for rows.Next() {
		var l leads.Lead
		var eventID sql.NullString
		if err := rows.Scan(&l.ID, &l.Email, &l.Consent, &eventID, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.EventID = eventID.String
		out = append(out, l)
	}

	return out, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
