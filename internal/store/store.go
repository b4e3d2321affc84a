package store

import (
	"sync"
	"time"

	"ms-booths/internal/models"
)

// Authorizer decides whether the caller may act on boothID. It is invoked by
// mutating methods after the target has been resolved, while the store lock is
// held, so it must not call back into the Store.
type Authorizer = func(boothID string) error

// Store is the single in-memory authority for booths, menu items and
// reservations. One RWMutex guards all three collections; every
// read-modify-write sequence runs under the write lock.
type Store struct {
	mu sync.RWMutex

	booths     []*models.Booth
	boothByID  map[string]*models.Booth
	boothByKey map[string]string
	menus      []*models.MenuItem
	menuByID   map[string]*models.MenuItem
	ledger     []*models.Reservation
	resvByID   map[int64]*models.Reservation
	maxResvID  int64

	now func() time.Time
}

type Option func(*Store)

// WithClock overrides the time source used for reservation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{
		boothByID:  make(map[string]*models.Booth),
		boothByKey: make(map[string]string),
		menuByID:   make(map[string]*models.MenuItem),
		resvByID:   make(map[int64]*models.Reservation),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

// Snapshot is a consistent copy of the whole store.
type Snapshot struct {
	Booths       []models.Booth
	Menus        []models.MenuItem
	Reservations []models.Reservation
	TakenAt      time.Time
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Booths:       make([]models.Booth, 0, len(s.booths)),
		Menus:        make([]models.MenuItem, 0, len(s.menus)),
		Reservations: make([]models.Reservation, 0, len(s.ledger)),
		TakenAt:      s.timestamp(),
	}
	for _, b := range s.booths {
		snap.Booths = append(snap.Booths, *b)
	}
	for _, m := range s.menus {
		snap.Menus = append(snap.Menus, cloneMenu(*m))
	}
	for _, r := range s.ledger {
		snap.Reservations = append(snap.Reservations, r.Clone())
	}
	return snap
}
