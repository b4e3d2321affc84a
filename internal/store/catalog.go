package store

import (
	"strings"

	"ms-booths/internal/apperr"
	"ms-booths/internal/models"
)

const DefaultClosedReason = "Paused due to high order volume."

// CreateBooth registers a new booth, open and without a closed reason.
func (s *Store) CreateBooth(req models.CreateBoothRequest) (models.Booth, error) {
	b := models.Booth{
		ID:          strings.TrimSpace(req.ID),
		Name:        strings.TrimSpace(req.Name),
		AdminKey:    strings.TrimSpace(req.AdminKey),
		Description: strings.TrimSpace(req.Description),
		Capacity:    int(req.Capacity),
		ImageURL:    strings.TrimSpace(req.ImageURL),
		IsOpen:      true,
	}
	if b.ID == "" || b.Name == "" || b.AdminKey == "" {
		return models.Booth{}, apperr.Invalidf("booth id, name and adminKey are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.boothByID[b.ID]; exists {
		return models.Booth{}, apperr.Conflictf("booth %s already exists", b.ID)
	}
	if _, taken := s.boothByKey[b.AdminKey]; taken {
		return models.Booth{}, apperr.Conflictf("adminKey is already in use by another booth")
	}

	stored := b
	s.booths = append(s.booths, &stored)
	s.boothByID[b.ID] = &stored
	s.boothByKey[b.AdminKey] = b.ID
	return b, nil
}

// SetBoothStatus opens or closes a booth. Closing without a reason stores
// DefaultClosedReason; opening always clears the reason.
func (s *Store) SetBoothStatus(boothID string, isOpen bool, reason string, authorize Authorizer) (models.Booth, error) {
	boothID = strings.TrimSpace(boothID)

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.boothByID[boothID]
	if !ok {
		return models.Booth{}, apperr.NotFoundf("booth %s not found", boothID)
	}
	if authorize != nil {
		if err := authorize(boothID); err != nil {
			return models.Booth{}, err
		}
	}

	b.IsOpen = isOpen
	if isOpen {
		b.ClosedReason = ""
	} else {
		b.ClosedReason = strings.TrimSpace(reason)
		if b.ClosedReason == "" {
			b.ClosedReason = DefaultClosedReason
		}
	}
	return *b, nil
}

// CreateMenuItem adds an item to a booth's menu. Options are stored as given
// (never nil) and are not used for pricing.
func (s *Store) CreateMenuItem(req models.CreateMenuRequest, authorize Authorizer) (models.MenuItem, error) {
	m := models.MenuItem{
		ID:       strings.TrimSpace(req.ID),
		BoothID:  strings.TrimSpace(req.BoothID),
		Name:     strings.TrimSpace(req.Name),
		Price:    req.Price,
		ImageURL: strings.TrimSpace(req.ImageURL),
		MaxQty:   int(req.MaxQty),
		Options:  make([]models.MenuOption, 0, len(req.Options)),
	}
	if m.ID == "" || m.BoothID == "" || m.Name == "" {
		return models.MenuItem{}, apperr.Invalidf("id, boothId and name are required")
	}
	if m.Price < 0 {
		return models.MenuItem{}, apperr.Invalidf("price must be 0 or greater")
	}
	if m.MaxQty < 0 {
		return models.MenuItem{}, apperr.Invalidf("maxQty must be 0 or greater")
	}
	for i, opt := range req.Options {
		opt.Code = strings.TrimSpace(opt.Code)
		opt.Label = strings.TrimSpace(opt.Label)
		if opt.Code == "" {
			return models.MenuItem{}, apperr.Invalidf("options[%d]: code is required", i)
		}
		m.Options = append(m.Options, opt)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.boothByID[m.BoothID]; !ok {
		return models.MenuItem{}, apperr.NotFoundf("booth %s not found", m.BoothID)
	}
	if authorize != nil {
		if err := authorize(m.BoothID); err != nil {
			return models.MenuItem{}, err
		}
	}
	if _, exists := s.menuByID[m.ID]; exists {
		return models.MenuItem{}, apperr.Conflictf("menu %s already exists", m.ID)
	}

	stored := m
	s.menus = append(s.menus, &stored)
	s.menuByID[m.ID] = &stored
	return cloneMenu(m), nil
}

func (s *Store) ListBooths() []models.PublicBooth {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.PublicBooth, 0, len(s.booths))
	for _, b := range s.booths {
		out = append(out, b.Public())
	}
	return out
}

// GetBooth returns the full booth record, credential included. Handlers serving
// non-administrative callers must use PublicBooth instead.
func (s *Store) GetBooth(boothID string) (models.Booth, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.boothByID[boothID]
	if !ok {
		return models.Booth{}, apperr.NotFoundf("booth %s not found", boothID)
	}
	return *b, nil
}

func (s *Store) PublicBooth(boothID string) (models.PublicBooth, error) {
	b, err := s.GetBooth(boothID)
	if err != nil {
		return models.PublicBooth{}, err
	}
	return b.Public(), nil
}

// ListMenuItems returns a booth's menu in creation order, failing with
// NotFound for an unknown booth.
func (s *Store) ListMenuItems(boothID string) ([]models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.boothByID[boothID]; !ok {
		return nil, apperr.NotFoundf("booth %s not found", boothID)
	}
	return s.menusForBoothLocked(boothID), nil
}

// MenuItemsByBooth is the administrative listing; an unknown booth simply has
// no items.
func (s *Store) MenuItemsByBooth(boothID string) []models.MenuItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.menusForBoothLocked(boothID)
}

func (s *Store) GetMenuItem(menuID string) (models.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.menuByID[menuID]
	if !ok {
		return models.MenuItem{}, apperr.NotFoundf("menu %s not found", menuID)
	}
	return cloneMenu(*m), nil
}

// BoothIDByCredential resolves a booth admin key to its booth.
func (s *Store) BoothIDByCredential(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.boothByKey[key]
	return id, ok
}

func (s *Store) menusForBoothLocked(boothID string) []models.MenuItem {
	out := make([]models.MenuItem, 0)
	for _, m := range s.menus {
		if m.BoothID == boothID {
			out = append(out, cloneMenu(*m))
		}
	}
	return out
}

func cloneMenu(m models.MenuItem) models.MenuItem {
	c := m
	c.Options = append(make([]models.MenuOption, 0, len(m.Options)), m.Options...)
	return c
}
