package repository

import (
	"context"
	"database/sql"
)

// SourceRepo handles sources.
type SourceRepo struct {
	db *sql.DB
}

func NewSourceRepo(db *sql.DB) *SourceRepo {
	return &SourceRepo{db: db}
}

func (r *SourceRepo) Upsert(ctx context.Context, s Source) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO sources(id, name, sort_order)
	VALUES (?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 sort_order=excluded.sort_order;
	`, s.ID, s.Name, s.SortOrder)
	return err
}

func (r *SourceRepo) List(ctx context.Context) ([]Source, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, sort_order FROM sources ORDER BY sort_order, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Source
	for rows.Next() {
		var s Source
		if err := rows.Scan(&s.ID, &s.Name, &s.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ByName returns sql.ErrNoRows when no source has that name.
func (r *SourceRepo) ByName(ctx context.Context, name string) (Source, error) {
	var s Source
	err := r.db.QueryRowContext(ctx, `SELECT id, name, sort_order FROM sources WHERE name = ?`, name).
		Scan(&s.ID, &s.Name, &s.SortOrder)
	return s, err
}
