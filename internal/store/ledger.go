package store

import (
	"sort"

	"ms-booths/internal/apperr"
	"ms-booths/internal/models"
	"ms-booths/internal/order"
)

// NextID is one past the highest reservation id, or 1 for an empty ledger.
func (s *Store) NextID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maxResvID + 1
}

// PlaceOrder validates and prices req against the current catalog and appends
// the resulting reservation. Lookup, pricing, id assignment and append happen
// under one write lock: either the reservation is fully recorded or nothing is.
func (s *Store) PlaceOrder(req models.OrderRequest) (models.Reservation, error) {
	customer, err := order.ValidateRequest(req)
	if err != nil {
		return models.Reservation{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	booth, ok := s.boothByID[customer.BoothID]
	if !ok {
		return models.Reservation{}, apperr.NotFoundf("booth %s not found", customer.BoothID)
	}

	priced, err := order.Validate(*booth, s.menusForBoothLocked(booth.ID), req.Items)
	if err != nil {
		return models.Reservation{}, err
	}
	return s.appendLocked(customer, priced), nil
}

// CreateReservation appends an already priced reservation.
func (s *Store) CreateReservation(boothID, studentNo, studentName, phone string, items []models.LineItem, total int64) (models.Reservation, error) {
	customer, err := order.ValidateCustomer(boothID, studentNo, studentName, phone)
	if err != nil {
		return models.Reservation{}, err
	}
	if len(items) == 0 {
		return models.Reservation{}, apperr.Invalidf("no valid order items")
	}
	for _, it := range items {
		if it.Qty <= 0 {
			return models.Reservation{}, apperr.Invalidf("quantity for %s must be positive", it.MenuID)
		}
	}
	if total < 0 {
		return models.Reservation{}, apperr.Invalidf("total must be 0 or greater")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(customer, order.Priced{Total: total, Items: items}), nil
}

func (s *Store) appendLocked(c order.Customer, p order.Priced) models.Reservation {
	s.maxResvID++
	r := &models.Reservation{
		ID:          s.maxResvID,
		BoothID:     c.BoothID,
		StudentNo:   c.StudentNo,
		StudentName: c.StudentName,
		Phone:       c.Phone,
		Items:       append([]models.LineItem(nil), p.Items...),
		Total:       p.Total,
		Status:      models.StatusConfirmed,
		CreatedAt:   s.timestamp(),
	}
	s.ledger = append(s.ledger, r)
	s.resvByID[r.ID] = r
	return r.Clone()
}

// ListReservations returns a booth's reservations, most recent first.
// Reservations created at the same instant keep their insertion order.
func (s *Store) ListReservations(boothID string) []models.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Reservation, 0)
	for _, r := range s.ledger {
		if r.BoothID == boothID {
			out = append(out, r.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *Store) GetReservation(id int64) (models.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.resvByID[id]
	if !ok {
		return models.Reservation{}, apperr.NotFoundf("reservation %d not found", id)
	}
	return r.Clone(), nil
}

// SetReservationStatus moves a reservation to status. Every transition is
// allowed, including back to CONFIRMED. Entering DONE or CANCELLED stamps the
// matching timestamp, also when the reservation already had that status.
func (s *Store) SetReservationStatus(id int64, status string, authorize Authorizer) (models.StatusChange, error) {
	st, ok := models.ParseStatus(status)
	if !ok {
		return models.StatusChange{}, apperr.Invalidf("status must be one of CONFIRMED, DONE, CANCELLED")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, found := s.resvByID[id]
	if !found {
		return models.StatusChange{}, apperr.NotFoundf("reservation %d not found", id)
	}
	if authorize != nil {
		if err := authorize(r.BoothID); err != nil {
			return models.StatusChange{}, err
		}
	}

	previous := r.Status
	r.Status = st
	now := s.timestamp()
	switch st {
	case models.StatusDone:
		r.DoneAt = &now
	case models.StatusCancelled:
		r.CancelledAt = &now
	}
	return models.StatusChange{Reservation: r.Clone(), Previous: previous}, nil
}

// MarkPickedUp moves a CONFIRMED reservation to DONE. Unlike
// SetReservationStatus it refuses reservations that are already DONE or
// CANCELLED, so a pickup code can be redeemed only once.
func (s *Store) MarkPickedUp(id int64, authorize Authorizer) (models.StatusChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, found := s.resvByID[id]
	if !found {
		return models.StatusChange{}, apperr.NotFoundf("reservation %d not found", id)
	}
	if authorize != nil {
		if err := authorize(r.BoothID); err != nil {
			return models.StatusChange{}, err
		}
	}
	if r.Status != models.StatusConfirmed {
		return models.StatusChange{}, apperr.Conflictf("reservation %d is already %s", id, r.Status)
	}

	now := s.timestamp()
	r.Status = models.StatusDone
	r.DoneAt = &now
	return models.StatusChange{Reservation: r.Clone(), Previous: models.StatusConfirmed}, nil
}

// Summary aggregates a booth's ledger. Revenue counts CONFIRMED and DONE
// reservations; cancelled ones are excluded.
func (s *Store) Summary(boothID string) (models.BoothSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.boothByID[boothID]; !ok {
		return models.BoothSummary{}, apperr.NotFoundf("booth %s not found", boothID)
	}

	sum := models.BoothSummary{
		BoothID: boothID,
		ByStatus: map[models.ReservationStatus]int{
			models.StatusConfirmed: 0,
			models.StatusDone:      0,
			models.StatusCancelled: 0,
		},
		QuantityByMenu: make(map[string]int),
	}
	for _, r := range s.ledger {
		if r.BoothID != boothID {
			continue
		}
		sum.Reservations++
		sum.ByStatus[r.Status]++
		if sum.LastReservation == nil || r.CreatedAt.After(*sum.LastReservation) {
			t := r.CreatedAt
			sum.LastReservation = &t
		}
		if r.Status == models.StatusCancelled {
			continue
		}
		sum.Revenue += r.Total
		for _, it := range r.Items {
			sum.QuantityByMenu[it.MenuID] += it.Qty
		}
	}
	return sum, nil
}
