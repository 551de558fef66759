package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"sydney-events/internal/domain/catalog"
)

const eventColumns = `
	id, title, venue, address, city, description,
	start_date, end_date, next_occurrence,
	tags, image_url,
	source, source_url,
	status, last_seen_at, created_at, updated_at,
	imported_at, imported_by, import_notes
`

type CatalogRepo struct {
	db *sql.DB
}

func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func (r *CatalogRepo) GetByID(ctx context.Context, id string) (catalog.Event, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE id = $1
	`, id)
	return scanEvent(row)
}

func (r *CatalogRepo) GetBySourceURL(ctx context.Context, sourceURL string) (catalog.Event, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE source_url = $1
	`, sourceURL)
	return scanEvent(row)
}

func (r *CatalogRepo) Insert(ctx context.Context, e catalog.Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events (
			id, title, venue, address, city, description,
			start_date, end_date, next_occurrence,
			tags, image_url,
			source, source_url,
			status, last_seen_at, created_at, updated_at,
			imported_at, imported_by, import_notes
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
	`,
		e.ID, e.Title, e.Venue, e.Address, e.City, e.Description,
		e.StartDate, e.EndDate, e.NextOccurrence,
		tagsToText(e.Tags), e.ImageURL,
		e.Source, e.SourceURL,
		string(e.Status), e.LastSeenAt, e.CreatedAt, e.UpdatedAt,
		e.ImportedAt, e.ImportedBy, e.ImportNotes,
	)
	return err
}

// Update pisa los campos mutables. La identidad (source_url) y los datos de
// creación no se tocan; el unique index sobre source_url respalda la
// deduplicación aunque dos writers se crucen.
func (r *CatalogRepo) Update(ctx context.Context, e catalog.Event) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE events SET
			title = $2, venue = $3, address = $4, city = $5, description = $6,
			start_date = $7, end_date = $8, next_occurrence = $9,
			tags = $10, image_url = $11,
			status = $12, last_seen_at = $13, updated_at = $14
		WHERE id = $1
	`,
		e.ID, e.Title, e.Venue, e.Address, e.City, e.Description,
		e.StartDate, e.EndDate, e.NextOccurrence,
		tagsToText(e.Tags), e.ImageURL,
		string(e.Status), e.LastSeenAt, e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (r *CatalogRepo) List(ctx context.Context, filter catalog.ListFilter) ([]catalog.Event, error) {
	sb := strings.Builder{}
	sb.WriteString(`SELECT ` + eventColumns + ` FROM events WHERE 1=1`)

	args := []any{}
	argN := 1

	if filter.Status != "" {
		sb.WriteString(fmt.Sprintf(" AND status = $%d", argN))
		args = append(args, string(filter.Status))
		argN++
	}
	if filter.Source != "" {
		sb.WriteString(fmt.Sprintf(" AND source = $%d", argN))
		args = append(args, filter.Source)
		argN++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	if limit > 500 {
		limit = 500
	}

	// Contrato de lectura: siempre por start_date ascendente.
	sb.WriteString(" ORDER BY start_date ASC")
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	return out, rows.Err()
}

func (r *CatalogRepo) Import(ctx context.Context, id, by, notes string, now time.Time) error {
	// Condicional sobre status: importar dos veces no pisa imported_at.
	res, err := r.db.ExecContext(ctx, `
		UPDATE events SET
			status = 'imported',
			imported_at = $2,
			imported_by = $3,
			import_notes = $4,
			updated_at = $2
		WHERE id = $1 AND status <> 'imported'
	`, id, now, by, notes)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected() // 0 filas = ya estaba imported; no es error
	return nil
}

func (r *CatalogRepo) MarkInactiveMissing(ctx context.Context, source string, seen []string, now time.Time) (int64, error) {
	if seen == nil {
		seen = []string{}
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE events SET status = 'inactive', updated_at = $2
		WHERE source = $1
		  AND status <> 'inactive'
		  AND (NOT (source_url = ANY($3)) OR end_date < $2)
	`, source, now, seen)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *CatalogRepo) MarkInactiveExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE events SET status = 'inactive', updated_at = $1
		WHERE status <> 'inactive'
		  AND start_date < $1
		  AND end_date < $1
		  AND (next_occurrence IS NULL OR next_occurrence < $1)
	`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (catalog.Event, error) {
	var e catalog.Event
	var status, tags string
	var next, importedAt sql.NullTime
	var importedBy, importNotes sql.NullString

	if err := row.Scan(
		&e.ID, &e.Title, &e.Venue, &e.Address, &e.City, &e.Description,
		&e.StartDate, &e.EndDate, &next,
		&tags, &e.ImageURL,
		&e.Source, &e.SourceURL,
		&status, &e.LastSeenAt, &e.CreatedAt, &e.UpdatedAt,
		&importedAt, &importedBy, &importNotes,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return catalog.Event{}, catalog.ErrNotFound
		}
		return catalog.Event{}, err
	}

	e.Status = catalog.Status(status)
	e.Tags = textToTags(tags)
	if next.Valid {
		t := next.Time
		e.NextOccurrence = &t
	}
	if importedAt.Valid {
		t := importedAt.Time
		e.ImportedAt = &t
	}
	e.ImportedBy = importedBy.String
	e.ImportNotes = importNotes.String

	return e, nil
}

// tags van como texto separado por "|": suficiente para display y evita
// depender del codec de arrays en el driver.
func tagsToText(tags []string) string {
	return strings.Join(tags, "|")
}

func textToTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "|")
}
