package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// TableRepo provides CRUD over the restaurant's tables.
type TableRepo struct{ DB *sql.DB }

func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{DB: db} }

// Create inserts a table and populates its generated ID.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
	if err := t.Validate(); err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO tables (name, seats) VALUES (?,?)", t.Name, t.Seats)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// Update changes a table's name and capacity. Existing reservations are
// not re-validated when capacity shrinks; the policy applies to new
// writes only.
func (r *TableRepo) Update(ctx context.Context, t *model.Table) error {
	if err := t.Validate(); err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE tables SET name=?, seats=? WHERE id=?", t.Name, t.Seats, t.ID)
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

// GetTable fetches a single table.
func (r *TableRepo) GetTable(ctx context.Context, id uint64) (*model.Table, error) {
	var t model.Table
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,seats,created_at,updated_at FROM tables WHERE id=? LIMIT 1",
		id).Scan(&t.ID, &t.Name, &t.Seats, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTables returns every table ordered by capacity, smallest first.
func (r *TableRepo) ListTables(ctx context.Context) ([]model.Table, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,name,seats,created_at,updated_at FROM tables ORDER BY seats, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Table, 0)
	for rows.Next() {
		var t model.Table
		if err := rows.Scan(&t.ID, &t.Name, &t.Seats, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SearchNames returns distinct table names containing the term,
// case-insensitively. Used by the autocomplete endpoint.
func (r *TableRepo) SearchNames(ctx context.Context, term string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT DISTINCT name FROM tables WHERE LOWER(name) LIKE ? ORDER BY name",
		"%"+strings.ToLower(term)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	names := make([]string, 0)
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
