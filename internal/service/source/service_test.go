package source

import (
	"context"
	"sync"
	"testing"

	"github.com/ignite/prospect-desk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu   sync.Mutex
	rows map[string]domain.Source
}

func newMemRepo() *memRepo { return &memRepo{rows: map[string]domain.Source{}} }

func (m *memRepo) Get(_ context.Context, id string) (*domain.Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *memRepo) List(_ context.Context) ([]domain.Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Source{}
	for _, s := range m.rows {
		out = append(out, s)
	}
	return out, nil
}

func (m *memRepo) Create(_ context.Context, s *domain.Source) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[s.ID] = *s
	return nil
}

func (m *memRepo) Update(_ context.Context, id string, u UpdateFields) (*domain.Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	if u.Name != nil {
		s.Name = *u.Name
	}
	if u.Description != nil {
		s.Description = *u.Description
	}
	if u.ICPIndustry != nil {
		s.ICP.Industry = *u.ICPIndustry
	}
	m.rows[id] = s
	return &s, nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func strPtr(s string) *string { return &s }

func TestCreate_TrimsAndRequiresName(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Name: "   "})
	assert.ErrorIs(t, err, ErrNameRequired)

	src, err := svc.Create(ctx, CreateInput{
		Name: "  SaaS founders ",
		ICP:  domain.ICP{Industry: " software ", RoleFocus: "founder"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, src.ID)
	assert.Equal(t, "SaaS founders", src.Name)
	assert.Equal(t, "software", src.ICP.Industry)
	assert.Equal(t, src.CreatedAt, src.UpdatedAt)
}

func TestUpdate(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	src, err := svc.Create(ctx, CreateInput{Name: "List A"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, src.ID, UpdateFields{})
	assert.ErrorIs(t, err, ErrEmptyUpdate)

	_, err = svc.Update(ctx, src.ID, UpdateFields{Name: strPtr(" ")})
	assert.ErrorIs(t, err, ErrNameRequired)

	got, err := svc.Update(ctx, src.ID, UpdateFields{Name: strPtr(" List B "), ICPIndustry: strPtr("fintech")})
	require.NoError(t, err)
	assert.Equal(t, "List B", got.Name)
	assert.Equal(t, "fintech", got.ICP.Industry)

	_, err = svc.Update(ctx, "missing", UpdateFields{Description: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	src, err := svc.Create(ctx, CreateInput{Name: "List A"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, src.ID))

	_, err = svc.Get(ctx, src.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, src.ID), ErrNotFound)
}
