package source

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignite/prospect-desk/internal/domain"
)

// Service implements source business logic.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a source service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// CreateInput holds the fields for creating a source.
type CreateInput struct {
	Name        string
	Description string
	ICP         domain.ICP
}

// Get returns a single source.
func (s *Service) Get(ctx context.Context, id string) (*domain.Source, error) {
	return s.repo.Get(ctx, id)
}

// List returns all sources.
func (s *Service) List(ctx context.Context) ([]domain.Source, error) {
	return s.repo.List(ctx)
}

// Create validates and persists a new source.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Source, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	now := s.now().UTC()
	src := &domain.Source{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		ICP: domain.ICP{
			Industry:    strings.TrimSpace(in.ICP.Industry),
			CompanySize: strings.TrimSpace(in.ICP.CompanySize),
			RoleFocus:   strings.TrimSpace(in.ICP.RoleFocus),
			MainAngle:   strings.TrimSpace(in.ICP.MainAngle),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, src); err != nil {
		return nil, err
	}
	return src, nil
}

// Update modifies a source. A name, when given, may not be blank.
func (s *Service) Update(ctx context.Context, id string, u UpdateFields) (*domain.Source, error) {
	if u.empty() {
		return nil, ErrEmptyUpdate
	}
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		u.Name = &name
	}
	return s.repo.Update(ctx, id, u)
}

// Delete removes a source.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
