package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// MemoryStore is an in-memory implementation of the reservation, table,
// order, menu and cart store contracts. A single mutex stands in for
// the per-table row lock the SQL store takes, which gives the same
// serialization guarantee for concurrent writes. Used by the service
// tests and handy for local development without MySQL.
type MemoryStore struct {
	mu           sync.Mutex
	nextID       uint64
	tables       map[uint64]*model.Table
	reservations map[uint64]*model.Reservation
	orders       map[uint64]uint64 // reservationID -> orderID
	lines        map[uint64][]model.OrderLine
	menu         map[uint64]*model.MenuItem
	carts        map[uint64][]model.CartItem // userID -> items
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tables:       make(map[uint64]*model.Table),
		reservations: make(map[uint64]*model.Reservation),
		orders:       make(map[uint64]uint64),
		lines:        make(map[uint64][]model.OrderLine),
		menu:         make(map[uint64]*model.MenuItem),
		carts:        make(map[uint64][]model.CartItem),
	}
}

func (s *MemoryStore) id() uint64 {
	s.nextID++
	return s.nextID
}

// AddTable seeds a table and returns it with an assigned ID.
func (s *MemoryStore) AddTable(t model.Table) *model.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == 0 {
		t.ID = s.id()
	}
	cp := t
	s.tables[cp.ID] = &cp
	return &cp
}

// AddMenuItem seeds a menu item and returns it with an assigned ID.
func (s *MemoryStore) AddMenuItem(m model.MenuItem) *model.MenuItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == 0 {
		m.ID = s.id()
	}
	m.Price = model.RoundPrice(m.Price)
	cp := m
	s.menu[cp.ID] = &cp
	return &cp
}

func (s *MemoryStore) GetTable(ctx context.Context, id uint64) (*model.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *MemoryStore) ListTables(ctx context.Context) ([]model.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Table, 0, len(s.tables))
	for _, t := range s.tables {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Seats != out[j].Seats {
			return out[i].Seats < out[j].Seats
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) existingForTable(tableID uint64) []model.Reservation {
	out := make([]model.Reservation, 0)
	for _, r := range s.reservations {
		if r.TableID == tableID {
			out = append(out, *r)
		}
	}
	return out
}

// Reserve mirrors the SQL store: lock, load the table's reservations,
// let decide rule, and persist only on acceptance.
func (s *MemoryStore) Reserve(ctx context.Context, res *model.Reservation, decide func(existing []model.Reservation) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[res.TableID]; !ok {
		return ErrNotFound
	}
	if err := decide(s.existingForTable(res.TableID)); err != nil {
		return err
	}
	res.ID = s.id()
	res.CreatedAt = time.Now().UTC()
	res.UpdatedAt = res.CreatedAt
	cp := *res
	s.reservations[cp.ID] = &cp
	return nil
}

func (s *MemoryStore) Amend(ctx context.Context, res *model.Reservation, decide func(existing []model.Reservation) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[res.TableID]; !ok {
		return ErrNotFound
	}
	stored, ok := s.reservations[res.ID]
	if !ok {
		return ErrNotFound
	}
	if err := decide(s.existingForTable(res.TableID)); err != nil {
		return err
	}
	res.CreatedAt = stored.CreatedAt
	res.UpdatedAt = time.Now().UTC()
	cp := *res
	s.reservations[cp.ID] = &cp
	return nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reservations[id]; !ok {
		return ErrNotFound
	}
	delete(s.reservations, id)
	if orderID, ok := s.orders[id]; ok {
		delete(s.lines, orderID)
		delete(s.orders, id)
	}
	return nil
}

func (s *MemoryStore) ListByOwner(ctx context.Context, ownerID uint64, f ReservationFilter) ([]model.ReservationDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matched := make([]model.ReservationDetail, 0)
	for _, r := range s.reservations {
		if r.UserID != ownerID {
			continue
		}
		table := s.tables[r.TableID]
		if f.TableName != "" && !strings.Contains(strings.ToLower(table.Name), strings.ToLower(f.TableName)) {
			continue
		}
		if f.StartDate != nil {
			y1, m1, d1 := r.Start.Date()
			y2, m2, d2 := f.StartDate.Date()
			if y1 != y2 || m1 != m2 || d1 != d2 {
				continue
			}
		}
		d := model.ReservationDetail{
			ID:        r.ID,
			TableID:   r.TableID,
			TableName: table.Name,
			PartySize: r.PartySize,
			Start:     r.Start,
			End:       r.End,
			Note:      r.Note,
		}
		if orderID, ok := s.orders[r.ID]; ok {
			d.Order = append(d.Order, s.lines[orderID]...)
		}
		matched = append(matched, d)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Start.After(matched[j].Start) })
	page, size := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}
	lo := (page - 1) * size
	if lo >= len(matched) {
		return []model.ReservationDetail{}, nil
	}
	hi := lo + size
	if hi > len(matched) {
		hi = len(matched)
	}
	return matched[lo:hi], nil
}

func (s *MemoryStore) OverlapCandidates(ctx context.Context, tableID uint64) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[tableID]; !ok {
		return nil, ErrNotFound
	}
	return s.existingForTable(tableID), nil
}

func (s *MemoryStore) ListInWindow(ctx context.Context, start, end time.Time) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Reservation, 0)
	for _, r := range s.reservations {
		if r.Start.Before(end) && start.Before(r.End) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *MemoryStore) GetItem(ctx context.Context, id uint64) (*model.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.menu[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *m
	return &cp, nil
}

// AddLine matches the SQL upsert: a repeat attachment of the same menu
// item increments the existing line.
func (s *MemoryStore) AddLine(ctx context.Context, reservationID, menuItemID uint64, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLineLocked(reservationID, menuItemID, qty)
}

func (s *MemoryStore) addLineLocked(reservationID, menuItemID uint64, qty int) error {
	if _, ok := s.reservations[reservationID]; !ok {
		return ErrNotFound
	}
	orderID, ok := s.orders[reservationID]
	if !ok {
		orderID = s.id()
		s.orders[reservationID] = orderID
	}
	for i := range s.lines[orderID] {
		if s.lines[orderID][i].MenuItemID == menuItemID {
			s.lines[orderID][i].Quantity += qty
			return nil
		}
	}
	name := ""
	if m, ok := s.menu[menuItemID]; ok {
		name = m.Name
	}
	s.lines[orderID] = append(s.lines[orderID], model.OrderLine{
		ID:           s.id(),
		OrderID:      orderID,
		MenuItemID:   menuItemID,
		MenuItemName: name,
		Quantity:     qty,
	})
	return nil
}

func (s *MemoryStore) AddLines(ctx context.Context, reservationID uint64, lines []model.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range lines {
		if err := s.addLineLocked(reservationID, l.MenuItemID, l.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (s *MemoryStore) LinesByReservation(ctx context.Context, reservationID uint64) ([]model.OrderLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orderID, ok := s.orders[reservationID]
	if !ok {
		return []model.OrderLine{}, nil
	}
	out := make([]model.OrderLine, len(s.lines[orderID]))
	copy(out, s.lines[orderID])
	return out, nil
}

func (s *MemoryStore) CartAdd(ctx context.Context, userID, menuItemID uint64, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.carts[userID]
	for i := range items {
		if items[i].MenuItemID == menuItemID {
			items[i].Quantity += qty
			return nil
		}
	}
	name := ""
	if m, ok := s.menu[menuItemID]; ok {
		name = m.Name
	}
	s.carts[userID] = append(items, model.CartItem{
		ID:           s.id(),
		UserID:       userID,
		MenuItemID:   menuItemID,
		MenuItemName: name,
		Quantity:     qty,
	})
	return nil
}

func (s *MemoryStore) ListByUser(ctx context.Context, userID uint64) ([]model.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.CartItem, len(s.carts[userID]))
	copy(out, s.carts[userID])
	return out, nil
}

func (s *MemoryStore) Clear(ctx context.Context, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}
