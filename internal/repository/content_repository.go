package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/soundvest/soundvest-api/internal/model"
)

// ContentRepo provides access to the 'content_sections' table. Rows are
// keyed by section name; the data column holds the serialized JSON document
// produced by the sanitizer. Only the handler's validated+sanitized write
// path reaches Upsert.
type ContentRepo struct{ DB *sql.DB }

func NewContentRepo(db *sql.DB) *ContentRepo { return &ContentRepo{DB: db} }

// ListAll returns every stored section ordered by key.
func (r *ContentRepo) ListAll(ctx context.Context) ([]model.ContentSection, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT section_key,data,updated_at FROM content_sections ORDER BY section_key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ContentSection
	for rows.Next() {
		var s model.ContentSection
		if err := rows.Scan(&s.SectionKey, &s.Data, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Get fetches a single section by key.
func (r *ContentRepo) Get(ctx context.Context, key string) (model.ContentSection, error) {
	var s model.ContentSection
	err := r.DB.QueryRowContext(ctx,
		"SELECT section_key,data,updated_at FROM content_sections WHERE section_key=? LIMIT 1",
		key).Scan(&s.SectionKey, &s.Data, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ContentSection{}, ErrNotFound
	}
	return s, err
}

// Upsert inserts the section or replaces its document in place. A single
// conflict-resolved statement keeps concurrent writers to the same key
// last-committed-wins rather than interleaved.
func (r *ContentRepo) Upsert(ctx context.Context, key, data string) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO content_sections (section_key, data) VALUES (?,?)
		 ON CONFLICT(section_key) DO UPDATE SET data = excluded.data`,
		key, data)
	return err
}

// Delete removes a section by key.
func (r *ContentRepo) Delete(ctx context.Context, key string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM content_sections WHERE section_key=?", key)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
