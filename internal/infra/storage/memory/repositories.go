package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domainmarket "tahtam/internal/domain/market"
	domainrental "tahtam/internal/domain/rental"
)

// RentalRepository is an in-memory implementation of the rental port. Lines
// are handed out as copies so aborted commands never leak partial mutations
// into the store.
type RentalRepository struct {
	mu    sync.RWMutex
	items map[domainrental.LineID]*storedLine
	seq   int
}

type storedLine struct {
	line domainrental.Line
	seq  int
}

func NewRentalRepository() *RentalRepository {
	return &RentalRepository{items: make(map[domainrental.LineID]*storedLine)}
}

func (r *RentalRepository) ByID(ctx context.Context, id domainrental.LineID) (*domainrental.Line, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, domainrental.ErrLineNotFound
	}
	line := item.line
	return &line, nil
}

func (r *RentalRepository) ByGroup(ctx context.Context, id domainrental.GroupID) ([]*domainrental.Line, error) {
	if id == "" {
		return nil, domainrental.ErrGroupNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*storedLine
	for _, item := range r.items {
		if item.line.GroupID == id {
			matched = append(matched, item)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq < matched[j].seq })
	lines := make([]*domainrental.Line, 0, len(matched))
	for _, item := range matched {
		line := item.line
		lines = append(lines, &line)
	}
	return lines, nil
}

func (r *RentalRepository) ExistingDates(ctx context.Context, stallID domainmarket.StallID, dateKeys []string) ([]string, error) {
	wanted := make(map[string]bool, len(dateKeys))
	for _, k := range dateKeys {
		wanted[k] = true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]bool)
	var taken []string
	for _, item := range r.items {
		if item.line.StallID != stallID {
			continue
		}
		if wanted[item.line.DateString] && !seen[item.line.DateString] {
			seen[item.line.DateString] = true
			taken = append(taken, item.line.DateString)
		}
	}
	sort.Strings(taken)
	return taken, nil
}

func (r *RentalRepository) InsertAll(ctx context.Context, lines []*domainrental.Line) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range lines {
		r.seq++
		r.items[l.ID] = &storedLine{line: *l, seq: r.seq}
	}
	return nil
}

func (r *RentalRepository) UpdatePayments(ctx context.Context, lines []*domainrental.Line) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range lines {
		item, ok := r.items[l.ID]
		if !ok {
			return domainrental.ErrLineNotFound
		}
		item.line.PaidAmount = l.PaidAmount
		item.line.IsPaid = l.IsPaid
	}
	return nil
}

func (r *RentalRepository) Delete(ctx context.Context, id domainrental.LineID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainrental.ErrLineNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *RentalRepository) DeleteByGroup(ctx context.Context, id domainrental.GroupID) (int, error) {
	if id == "" {
		return 0, domainrental.ErrGroupNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	deleted := 0
	for key, item := range r.items {
		if item.line.GroupID == id {
			delete(r.items, key)
			deleted++
		}
	}
	return deleted, nil
}

func (r *RentalRepository) DeleteByStall(ctx context.Context, stallID domainmarket.StallID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	deleted := 0
	for key, item := range r.items {
		if item.line.StallID == stallID {
			delete(r.items, key)
			deleted++
		}
	}
	return deleted, nil
}

func (r *RentalRepository) ListForViewer(ctx context.Context, userID string, role domainrental.Role) ([]*domainrental.Line, error) {
	return r.listFiltered(func(l *domainrental.Line) bool {
		return viewerMatches(l, userID, role)
	}, func(a, b *storedLine) bool {
		if !a.line.CreatedAt.Equal(b.line.CreatedAt) {
			return a.line.CreatedAt.After(b.line.CreatedAt)
		}
		return a.seq < b.seq
	}, role)
}

func (r *RentalRepository) ListByMarketAndDate(ctx context.Context, marketID domainmarket.MarketplaceID, dateKey string) ([]*domainrental.Line, error) {
	return r.listFiltered(func(l *domainrental.Line) bool {
		return l.MarketplaceID == marketID && l.DateString == dateKey
	}, func(a, b *storedLine) bool {
		return a.line.StallNumber < b.line.StallNumber
	}, domainrental.RoleAdmin)
}

func (r *RentalRepository) ListForViewerSince(ctx context.Context, userID string, role domainrental.Role, since time.Time) ([]*domainrental.Line, error) {
	return r.listFiltered(func(l *domainrental.Line) bool {
		return viewerMatches(l, userID, role) && !l.Date.Before(since)
	}, func(a, b *storedLine) bool {
		return a.line.Date.Before(b.line.Date)
	}, role)
}

func (r *RentalRepository) listFiltered(match func(*domainrental.Line) bool, less func(a, b *storedLine) bool, role domainrental.Role) ([]*domainrental.Line, error) {
	if !roleKnown(role) {
		return nil, domainrental.ErrUnknownRole
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []*storedLine
	for _, item := range r.items {
		if match(&item.line) {
			matched = append(matched, item)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return less(matched[i], matched[j]) })
	lines := make([]*domainrental.Line, 0, len(matched))
	for _, item := range matched {
		line := item.line
		lines = append(lines, &line)
	}
	return lines, nil
}

func viewerMatches(l *domainrental.Line, userID string, role domainrental.Role) bool {
	switch role {
	case domainrental.RoleAdmin:
		return true
	case domainrental.RoleTenant:
		return l.TenantID == userID
	case domainrental.RoleOwner:
		return l.OwnerID == userID
	case domainrental.RoleManager:
		return l.ManagerID == userID
	}
	return false
}

func roleKnown(role domainrental.Role) bool {
	switch role {
	case domainrental.RoleAdmin, domainrental.RoleTenant, domainrental.RoleOwner, domainrental.RoleManager:
		return true
	}
	return false
}

// StallRepository is an in-memory stall store.
type StallRepository struct {
	mu    sync.RWMutex
	items map[domainmarket.StallID]*domainmarket.Stall
}

func NewStallRepository() *StallRepository {
	return &StallRepository{items: make(map[domainmarket.StallID]*domainmarket.Stall)}
}

func (r *StallRepository) ByID(ctx context.Context, id domainmarket.StallID) (*domainmarket.Stall, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.items[id]
	if !ok {
		return nil, domainmarket.ErrStallNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *StallRepository) Save(ctx context.Context, s *domainmarket.Stall) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *s
	r.items[s.ID] = &copied
	return nil
}

func (r *StallRepository) Delete(ctx context.Context, id domainmarket.StallID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainmarket.ErrStallNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *StallRepository) ListByMarketplace(ctx context.Context, marketID domainmarket.MarketplaceID, ownerID string) ([]*domainmarket.Stall, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var stalls []*domainmarket.Stall
	for _, s := range r.items {
		if s.MarketplaceID != marketID {
			continue
		}
		if ownerID != "" && s.OwnerID != ownerID {
			continue
		}
		copied := *s
		stalls = append(stalls, &copied)
	}
	sort.Slice(stalls, func(i, j int) bool { return stalls[i].StallNumber < stalls[j].StallNumber })
	return stalls, nil
}

func (r *StallRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domainmarket.Stall, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var stalls []*domainmarket.Stall
	for _, s := range r.items {
		if s.OwnerID == ownerID {
			copied := *s
			stalls = append(stalls, &copied)
		}
	}
	sort.Slice(stalls, func(i, j int) bool { return stalls[i].StallNumber < stalls[j].StallNumber })
	return stalls, nil
}

// MarketplaceRepository is an in-memory marketplace store.
type MarketplaceRepository struct {
	mu    sync.RWMutex
	items map[domainmarket.MarketplaceID]*domainmarket.Marketplace
}

func NewMarketplaceRepository() *MarketplaceRepository {
	return &MarketplaceRepository{items: make(map[domainmarket.MarketplaceID]*domainmarket.Marketplace)}
}

func (r *MarketplaceRepository) ByID(ctx context.Context, id domainmarket.MarketplaceID) (*domainmarket.Marketplace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.items[id]
	if !ok {
		return nil, domainmarket.ErrMarketplaceNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *MarketplaceRepository) Save(ctx context.Context, m *domainmarket.Marketplace) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *m
	r.items[m.ID] = &copied
	return nil
}

func (r *MarketplaceRepository) Delete(ctx context.Context, id domainmarket.MarketplaceID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return domainmarket.ErrMarketplaceNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *MarketplaceRepository) List(ctx context.Context) ([]*domainmarket.Marketplace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]*domainmarket.Marketplace, 0, len(r.items))
	for _, m := range r.items {
		copied := *m
		items = append(items, &copied)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

var (
	_ domainrental.Repository            = (*RentalRepository)(nil)
	_ domainmarket.StallRepository       = (*StallRepository)(nil)
	_ domainmarket.MarketplaceRepository = (*MarketplaceRepository)(nil)
)
