package prospect

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ignite/prospect-desk/internal/domain"
	"github.com/ignite/prospect-desk/internal/identity"
)

// memRepo is an in-memory repository for testing.
type memRepo struct {
	mu        sync.Mutex
	rows      map[string]*domain.Prospect
	notes     map[string][]string // prospect id -> note ids
	sources   map[string]bool
	batches   int
	failBatch error
	// raceWinner is inserted just before the next Insert, simulating a
	// concurrent writer that took the same identity.
	raceWinner *domain.Prospect
}

func newMemRepo(sources ...string) *memRepo {
	m := &memRepo{
		rows:    make(map[string]*domain.Prospect),
		notes:   make(map[string][]string),
		sources: make(map[string]bool),
	}
	for _, s := range sources {
		m.sources[s] = true
	}
	return m
}

func (m *memRepo) seed(p domain.Prospect) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := identity.KeysFor(p.ContactName, p.Email, p.Website)
	p.NormalizedEmail, p.NormalizedDomain, p.NormalizedContactName = k.Email, k.Domain, k.Name
	if p.Status == "" {
		p.Status = domain.StatusUncontacted
	}
	m.rows[p.ID] = &p
}

func (m *memRepo) find(match func(*domain.Prospect) bool) *identity.Existing {
	for _, p := range m.rows {
		if match(p) {
			return &identity.Existing{ID: p.ID, Suppressed: p.SuppressedAt != nil}
		}
	}
	return nil
}

func eq(a *string, b string) bool { return a != nil && *a == b }

func (m *memRepo) ByEmail(_ context.Context, email string) (*identity.Existing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.find(func(p *domain.Prospect) bool { return eq(p.NormalizedEmail, email) }), nil
}

func (m *memRepo) ByDomainName(_ context.Context, d, n string) (*identity.Existing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.find(func(p *domain.Prospect) bool {
		return eq(p.NormalizedDomain, d) && eq(p.NormalizedContactName, n)
	}), nil
}

func (m *memRepo) Get(_ context.Context, id string) (*domain.Prospect, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memRepo) List(_ context.Context, f ListFilter) ([]domain.Prospect, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Prospect
	for _, p := range m.rows {
		if (p.ArchivedAt != nil) != f.Archived || (p.SuppressedAt != nil) != f.Suppressed {
			continue
		}
		if f.Status != "" && string(p.Status) != f.Status {
			continue
		}
		if f.SourceID != "" && (p.SourceID == nil || *p.SourceID != f.SourceID) {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.CompanyName+" "+p.ContactName+" "+p.Email), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRepo) IdentitySnapshot(_ context.Context) ([]identity.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := make([]identity.Row, 0, len(m.rows))
	for _, p := range m.rows {
		rows = append(rows, identity.Row{
			ID:                    p.ID,
			NormalizedEmail:       p.NormalizedEmail,
			NormalizedDomain:      p.NormalizedDomain,
			NormalizedContactName: p.NormalizedContactName,
			Suppressed:            p.SuppressedAt != nil,
		})
	}
	return rows, nil
}

func (m *memRepo) Insert(_ context.Context, p *domain.Prospect) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if w := m.raceWinner; w != nil {
		m.raceWinner = nil
		m.rows[w.ID] = w
		return ErrIdentityConflict
	}
	cp := *p
	m.rows[p.ID] = &cp
	return nil
}

func (m *memRepo) InsertBatch(_ context.Context, ps []domain.Prospect) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failBatch != nil {
		return m.failBatch
	}
	m.batches++
	for i := range ps {
		cp := ps[i]
		m.rows[cp.ID] = &cp
	}
	return nil
}

func (m *memRepo) Update(_ context.Context, id string, u UpdateFields) (*domain.Prospect, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.OwnerName != nil {
		p.OwnerName = *u.OwnerName
	}
	if u.Tags != nil {
		p.Tags = *u.Tags
	}
	if u.TouchContacted {
		now := time.Now()
		p.LastContactedAt = &now
	}
	cp := *p
	return &cp, nil
}

func (m *memRepo) setFlag(id string, field func(*domain.Prospect) **time.Time, on bool) (*domain.Prospect, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	ts := field(p)
	switch {
	case on && *ts == nil:
		now := time.Now()
		*ts = &now
	case !on:
		*ts = nil
	}
	cp := *p
	return &cp, nil
}

func (m *memRepo) SetArchived(_ context.Context, id string, archived bool) (*domain.Prospect, error) {
	return m.setFlag(id, func(p *domain.Prospect) **time.Time { return &p.ArchivedAt }, archived)
}

func (m *memRepo) SetSuppressed(_ context.Context, id string, suppressed bool) (*domain.Prospect, error) {
	return m.setFlag(id, func(p *domain.Prospect) **time.Time { return &p.SuppressedAt }, suppressed)
}

func (m *memRepo) DeleteArchived(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok || p.ArchivedAt == nil {
		return ErrNotFound
	}
	delete(m.rows, id)
	delete(m.notes, id)
	return nil
}

func (m *memRepo) SourceExists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sources[id], nil
}

func (m *memRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

var errBoom = errors.New("boom")
