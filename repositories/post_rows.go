package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"blog-catalog/db"
	"blog-catalog/models"
)

// ErrNotFound is returned when a row lookup matches nothing.
var ErrNotFound = errors.New("post row not found")

const rowColumns = `id, title, summary, excerpt, category, tags, r2_image_url, notion_url,
	notion_last_edited_at, mins_read, created_at`

// PostRowRepository reads the posts table through database/sql.
// Queries use $N placeholders, which both pgx and sqlite3 accept.
type PostRowRepository struct {
	db    *sql.DB
	table string
}

func NewPostRowRepository(sqlDB *sql.DB, table string) (*PostRowRepository, error) {
	if !db.ValidIdentifier(table) {
		return nil, fmt.Errorf("repositories: invalid table name %q", table)
	}
	return &PostRowRepository{db: sqlDB, table: table}, nil
}

func (r *PostRowRepository) Kind() models.SourceKind { return models.SourceSQL }

// FetchRecords returns every row, newest first.
func (r *PostRowRepository) FetchRecords(ctx context.Context) ([]models.RawRecord, error) {
	const op = "repositories.PostRowRepository.FetchRecords"

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY created_at DESC`, rowColumns, r.table)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, models.ErrUpstreamUnavailable, err)
	}
	defer rows.Close()

	var out []models.RawRecord
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %v", op, models.ErrUpstreamUnavailable, err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, models.ErrUpstreamUnavailable, err)
	}
	return out, nil
}

// FetchContent returns the content column for id. NULL content is "".
func (r *PostRowRepository) FetchContent(ctx context.Context, id string) (string, error) {
	const op = "repositories.PostRowRepository.FetchContent"

	var content sql.NullString
	query := fmt.Sprintf(`SELECT content FROM %s WHERE id = $1`, r.table)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&content)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return "", fmt.Errorf("%s: %w", op, ErrNotFound)
	case err != nil:
		return "", fmt.Errorf("%s: %w: %v", op, models.ErrUpstreamUnavailable, err)
	}
	return content.String, nil
}

func scanRow(rows *sql.Rows) (*models.RawTableRow, error) {
	var id string
	var title, summary, excerpt, category, tags, image, notion sql.NullString
	var lastEdited, created sql.NullTime
	var mins sql.NullInt64
	if err := rows.Scan(&id, &title, &summary, &excerpt, &category, &tags, &image, &notion,
		&lastEdited, &mins, &created); err != nil {
		return nil, err
	}

	row := &models.RawTableRow{
		ID:                 id,
		Title:              nullString(title),
		Summary:            nullString(summary),
		Excerpt:            nullString(excerpt),
		Category:           nullString(category),
		Tags:               nullString(tags),
		R2ImageURL:         nullString(image),
		NotionURL:          nullString(notion),
		NotionLastEditedAt: nullTime(lastEdited),
		CreatedAt:          nullTime(created),
	}
	if mins.Valid {
		m := int(mins.Int64)
		row.MinsRead = &m
	}
	return row, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func nullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	return &nt.Time
}
