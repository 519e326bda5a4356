package repository

import (
	"context"
	"database/sql"

	"github.com/nivaan/health-booking-admin/internal/model"
)

// MediaRepo is the database side of file storage: one row per stored file,
// keyed by the UUID the storage package generated.
type MediaRepo struct{ db *sql.DB }

func NewMediaRepo(db *sql.DB) *MediaRepo { return &MediaRepo{db: db} }

// Add records a stored file.
func (r *MediaRepo) Add(ctx context.Context, m *model.Media) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO media (id, collection, original_name, stored_path, mime, size)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.Collection, m.OriginalName, m.StoredPath, m.Mime, m.Size)
	return err
}

// GetByID returns one media row or sql.ErrNoRows.
func (r *MediaRepo) GetByID(ctx context.Context, id string) (*model.Media, error) {
	var m model.Media
	err := r.db.QueryRowContext(ctx,
		`SELECT id, collection, original_name, stored_path, mime, size, created_at
		 FROM media WHERE id = ?`, id).
		Scan(&m.ID, &m.Collection, &m.OriginalName, &m.StoredPath, &m.Mime, &m.Size, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Delete removes a media row.  Missing rows are not an error.
func (r *MediaRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM media WHERE id = ?`, id)
	return err
}

// StoredPaths maps a list of media IDs to their stored paths, preserving
// order and skipping IDs that no longer resolve.  Paths are relative to
// the media root; callers that hand them to clients resolve them through
// storage.Store.URL first.
func (r *MediaRepo) StoredPaths(ctx context.Context, ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		m, err := r.GetByID(ctx, id)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, m.StoredPath)
	}
	return out, nil
}
