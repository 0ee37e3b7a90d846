package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrPosition is returned by Move for a position outside the source.
var ErrPosition = errors.New("item position out of range")

// ItemRepo handles items. Positions are indexes into a source's items
// ordered by sort_order.
type ItemRepo struct {
	db *sql.DB
}

func NewItemRepo(db *sql.DB) *ItemRepo { return &ItemRepo{db: db} }

const itemColumns = `id, source_id, title, done, sort_order, created_at, updated_at`

func scanItem(s interface{ Scan(...any) error }) (Item, error) {
	var it Item
	err := s.Scan(&it.ID, &it.SourceID, &it.Title, &it.Done, &it.SortOrder, &it.CreatedAt, &it.UpdatedAt)
	return it, err
}

// Insert appends an item to the end of its source.
func (r *ItemRepo) Insert(ctx context.Context, sourceID, title string) (Item, error) {
	res, err := r.db.ExecContext(ctx, `
	INSERT INTO items(source_id, title, done, sort_order, created_at, updated_at)
	VALUES(?, ?, 0,
	 (SELECT COALESCE(MAX(sort_order) + 1, 0) FROM items WHERE source_id = ?),
	 CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`, sourceID, title, sourceID)
	if err != nil {
		return Item{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Item{}, err
	}
	return r.Get(ctx, id)
}

func (r *ItemRepo) Get(ctx context.Context, id int64) (Item, error) {
	return scanItem(r.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id))
}

func (r *ItemRepo) List(ctx context.Context, sourceID string) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM items WHERE source_id = ? ORDER BY sort_order, id`, sourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Move relocates the item at position from to position to and renumbers the
// source's sort order, in one transaction.
func (r *ItemRepo) Move(ctx context.Context, sourceID string, from, to int) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		ids, err := orderedIDs(ctx, tx, sourceID)
		if err != nil {
			return err
		}
		if from < 0 || from >= len(ids) || to < 0 || to >= len(ids) {
			return fmt.Errorf("move %d -> %d in %d items: %w", from, to, len(ids), ErrPosition)
		}
		moved := ids[from]
		if from < to {
			copy(ids[from:to], ids[from+1:to+1])
		} else {
			copy(ids[to+1:from+1], ids[to:from])
		}
		ids[to] = moved
		return renumber(ctx, tx, ids)
	})
}

// Swap exchanges the places of the items at positions a and b of a source;
// every other item keeps its place.
func (r *ItemRepo) Swap(ctx context.Context, sourceID string, a, b int) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		ids, err := orderedIDs(ctx, tx, sourceID)
		if err != nil {
			return err
		}
		if a < 0 || a >= len(ids) || b < 0 || b >= len(ids) {
			return fmt.Errorf("swap %d <-> %d in %d items: %w", a, b, len(ids), ErrPosition)
		}
		ids[a], ids[b] = ids[b], ids[a]
		return renumber(ctx, tx, ids)
	})
}

func orderedIDs(ctx context.Context, tx *sql.Tx, sourceID string) ([]int64, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM items WHERE source_id = ? ORDER BY sort_order, id`, sourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// renumber writes sort_order 0..n-1 in the order of ids.
func renumber(ctx context.Context, tx *sql.Tx, ids []int64) error {
	stmt, err := tx.PrepareContext(ctx, `UPDATE items SET sort_order = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, id := range ids {
		if _, err := stmt.ExecContext(ctx, i, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *ItemRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	return err
}

func (r *ItemRepo) SetDone(ctx context.Context, id int64, done bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE items SET done = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, done, id)
	return err
}
