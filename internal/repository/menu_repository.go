package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// MenuRepo provides read access to the menu catalog plus the
// administrative write paths.
type MenuRepo struct{ DB *sql.DB }

func NewMenuRepo(db *sql.DB) *MenuRepo { return &MenuRepo{DB: db} }

const menuCols = "id,name,price,ingredients,image_url,category_id,created_at,updated_at"

func scanMenuItem(sc interface{ Scan(...any) error }) (model.MenuItem, error) {
	var (
		m   model.MenuItem
		img sql.NullString
	)
	err := sc.Scan(&m.ID, &m.Name, &m.Price, &m.Ingredients, &img, &m.CategoryID, &m.CreatedAt, &m.UpdatedAt)
	if img.Valid {
		u := img.String
		m.ImageURL = &u
	}
	return m, err
}

// List returns the full menu, optionally narrowed to one category.
func (r *MenuRepo) List(ctx context.Context, categoryID uint64) ([]model.MenuItem, error) {
	q := "SELECT " + menuCols + " FROM menu_items"
	args := []any{}
	if categoryID != 0 {
		q += " WHERE category_id=?"
		args = append(args, categoryID)
	}
	q += " ORDER BY name"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.MenuItem, 0)
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetItem fetches one menu item.
func (r *MenuRepo) GetItem(ctx context.Context, id uint64) (*model.MenuItem, error) {
	m, err := scanMenuItem(r.DB.QueryRowContext(ctx,
		"SELECT "+menuCols+" FROM menu_items WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Search matches item names case-insensitively by substring. An empty
// query returns an empty result, matching the storefront behavior.
func (r *MenuRepo) Search(ctx context.Context, query string) ([]model.MenuItem, error) {
	if strings.TrimSpace(query) == "" {
		return []model.MenuItem{}, nil
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+menuCols+" FROM menu_items WHERE LOWER(name) LIKE ? ORDER BY name",
		"%"+strings.ToLower(query)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.MenuItem, 0)
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Categories lists all menu categories.
func (r *MenuRepo) Categories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id,name FROM categories ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Create inserts a menu item, rounding the price to two decimals first.
func (r *MenuRepo) Create(ctx context.Context, m *model.MenuItem) error {
	m.Price = model.RoundPrice(m.Price)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO menu_items (name, price, ingredients, image_url, category_id) VALUES (?,?,?,?,?)",
		m.Name, m.Price, m.Ingredients, m.ImageURL, m.CategoryID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// Update rewrites a menu item, rounding the price like Create.
func (r *MenuRepo) Update(ctx context.Context, m *model.MenuItem) error {
	m.Price = model.RoundPrice(m.Price)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE menu_items SET name=?, price=?, ingredients=?, image_url=?, category_id=? WHERE id=?",
		m.Name, m.Price, m.Ingredients, m.ImageURL, m.CategoryID, m.ID)
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
