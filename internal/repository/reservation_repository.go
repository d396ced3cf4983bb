package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// ReservationFilter narrows and paginates an owner's reservation list.
// TableName matches as a case-insensitive substring; StartDate, when
// non-nil, matches the calendar date of the reservation start.
type ReservationFilter struct {
	TableName string
	StartDate *time.Time
	Page      int
	PageSize  int
}

// ReservationRepo provides persistence for reservations. Writes that
// must not race (create, update) run inside a transaction that locks
// the table row first, so two concurrent requests for the same table
// serialize and cannot both pass the overlap check.
type ReservationRepo struct{ DB *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

const reservationCols = "id,user_id,table_id,party_size,reservation_start,reservation_end,note,created_at,updated_at"

func scanReservation(sc interface{ Scan(...any) error }) (model.Reservation, error) {
	var (
		res  model.Reservation
		note sql.NullString
	)
	err := sc.Scan(&res.ID, &res.UserID, &res.TableID, &res.PartySize,
		&res.Start, &res.End, &note, &res.CreatedAt, &res.UpdatedAt)
	if note.Valid {
		n := note.String
		res.Note = &n
	}
	return res, err
}

// lockTableTx takes a row-level lock on the table record, serializing
// concurrent reservation writes for the same table. Returns ErrNotFound
// when the table does not exist.
func lockTableTx(ctx context.Context, tx *sql.Tx, tableID uint64) error {
	var id uint64
	err := tx.QueryRowContext(ctx, "SELECT id FROM tables WHERE id=? FOR UPDATE", tableID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func existingForTableTx(ctx context.Context, tx *sql.Tx, tableID uint64) ([]model.Reservation, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT "+reservationCols+" FROM reservations WHERE table_id=?", tableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Reserve persists a new reservation. It locks the table row, loads the
// table's current reservations, and hands them to decide; only when
// decide returns nil is the row inserted and the transaction committed.
// Keeping the decision inside the lock is what upholds the no-overlap
// invariant under concurrency.
func (r *ReservationRepo) Reserve(ctx context.Context, res *model.Reservation, decide func(existing []model.Reservation) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := lockTableTx(ctx, tx, res.TableID); err != nil {
		return err
	}
	existing, err := existingForTableTx(ctx, tx, res.TableID)
	if err != nil {
		return err
	}
	if err := decide(existing); err != nil {
		return err
	}
	ins, err := tx.ExecContext(ctx,
		"INSERT INTO reservations (user_id, table_id, party_size, reservation_start, reservation_end, note) VALUES (?,?,?,?,?,?)",
		res.UserID, res.TableID, res.PartySize, res.Start, res.End, res.Note)
	if err != nil {
		return err
	}
	id, err := ins.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Read the row back so timestamps reflect what the database stored.
	stored, err := scanReservation(tx.QueryRowContext(ctx,
		"SELECT "+reservationCols+" FROM reservations WHERE id=?", res.ID))
	if err != nil {
		return err
	}
	*res = stored
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Amend rewrites an existing reservation under the same table lock and
// decide gate as Reserve. The caller is responsible for passing the
// reservation's own ID to the policy so it is excluded from the overlap
// check. Nothing is persisted when decide rejects.
func (r *ReservationRepo) Amend(ctx context.Context, res *model.Reservation, decide func(existing []model.Reservation) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := lockTableTx(ctx, tx, res.TableID); err != nil {
		return err
	}
	existing, err := existingForTableTx(ctx, tx, res.TableID)
	if err != nil {
		return err
	}
	if err := decide(existing); err != nil {
		return err
	}
	upd, err := tx.ExecContext(ctx,
		"UPDATE reservations SET table_id=?, party_size=?, reservation_start=?, reservation_end=?, note=? WHERE id=?",
		res.TableID, res.PartySize, res.Start, res.End, res.Note, res.ID)
	if err != nil {
		return err
	}
	if n, err := upd.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		// Row may match its previous values; confirm existence instead
		// of trusting the affected count.
		var id uint64
		if err := tx.QueryRowContext(ctx, "SELECT id FROM reservations WHERE id=?", res.ID).Scan(&id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID fetches a single reservation without ownership filtering; the
// service layer enforces ownership.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := scanReservation(r.DB.QueryRowContext(ctx,
		"SELECT "+reservationCols+" FROM reservations WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Delete removes a reservation together with its order and order lines.
// Deleting an already-deleted reservation returns ErrNotFound.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx,
		"DELETE ol FROM order_lines ol JOIN orders o ON o.id = ol.order_id WHERE o.reservation_id=?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM orders WHERE reservation_id=?", id); err != nil {
		return err
	}
	del, err := tx.ExecContext(ctx, "DELETE FROM reservations WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := del.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// ListByOwner returns the caller's reservations joined with table names
// and order lines, newest start first. Order lines are loaded in a
// second query covering the whole page.
func (r *ReservationRepo) ListByOwner(ctx context.Context, ownerID uint64, f ReservationFilter) ([]model.ReservationDetail, error) {
	where := []string{"r.user_id = ?"}
	args := []any{ownerID}
	if f.TableName != "" {
		where = append(where, "LOWER(t.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.TableName)+"%")
	}
	if f.StartDate != nil {
		where = append(where, "DATE(r.reservation_start) = DATE(?)")
		args = append(args, *f.StartDate)
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	size := f.PageSize
	if size < 1 || size > 100 {
		size = 10
	}
	args = append(args, size, (page-1)*size)

	q := `SELECT r.id, r.table_id, t.name, r.party_size, r.reservation_start, r.reservation_end, r.note
	      FROM reservations r
	      JOIN tables t ON t.id = r.table_id
	      WHERE ` + strings.Join(where, " AND ") + `
	      ORDER BY r.reservation_start DESC
	      LIMIT ? OFFSET ?`
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]model.ReservationDetail, 0)
	index := make(map[uint64]int)
	ids := make([]any, 0)
	for rows.Next() {
		var (
			d    model.ReservationDetail
			note sql.NullString
		)
		if err := rows.Scan(&d.ID, &d.TableID, &d.TableName, &d.PartySize, &d.Start, &d.End, &note); err != nil {
			return nil, err
		}
		if note.Valid {
			n := note.String
			d.Note = &n
		}
		index[d.ID] = len(details)
		details = append(details, d)
		ids = append(ids, d.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	lineQ := `SELECT o.reservation_id, ol.id, ol.order_id, ol.menu_item_id, m.name, ol.quantity
	          FROM order_lines ol
	          JOIN orders o ON o.id = ol.order_id
	          JOIN menu_items m ON m.id = ol.menu_item_id
	          WHERE o.reservation_id IN (` + placeholders + `)
	          ORDER BY o.reservation_id, ol.id`
	lrows, err := r.DB.QueryContext(ctx, lineQ, ids...)
	if err != nil {
		return nil, err
	}
	defer lrows.Close()
	for lrows.Next() {
		var (
			rid  uint64
			line model.OrderLine
		)
		if err := lrows.Scan(&rid, &line.ID, &line.OrderID, &line.MenuItemID, &line.MenuItemName, &line.Quantity); err != nil {
			return nil, err
		}
		if i, ok := index[rid]; ok {
			details[i].Order = append(details[i].Order, line)
		}
	}
	return details, lrows.Err()
}

// ListAll returns every reservation, newest start first. Administrative
// read path; no ownership filtering.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]model.Reservation, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+reservationCols+" FROM reservations ORDER BY reservation_start DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// OverlapCandidates returns every reservation for one table. The
// in-process overlap predicate, not SQL, decides what actually
// conflicts; this query only scopes the rows to a table.
func (r *ReservationRepo) OverlapCandidates(ctx context.Context, tableID uint64) ([]model.Reservation, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+reservationCols+" FROM reservations WHERE table_id=?", tableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// ListInWindow returns reservations whose window intersects
// [start, end). SQL applies the same half-open comparison the policy
// package uses, as a coarse prefilter for the all-tables availability
// view.
func (r *ReservationRepo) ListInWindow(ctx context.Context, start, end time.Time) ([]model.Reservation, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+reservationCols+" FROM reservations WHERE reservation_start < ? AND reservation_end > ?",
		end, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
