package note

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignite/prospect-desk/internal/domain"
)

// Service implements note business logic.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a note service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns the notes of a prospect.
func (s *Service) List(ctx context.Context, prospectID string) ([]domain.ProspectNote, error) {
	if err := s.requireProspect(ctx, prospectID); err != nil {
		return nil, err
	}
	return s.repo.ListByProspect(ctx, prospectID)
}

// Create adds a note to a prospect.
func (s *Service) Create(ctx context.Context, prospectID, author, body string) (*domain.ProspectNote, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyBody
	}
	if err := s.requireProspect(ctx, prospectID); err != nil {
		return nil, err
	}
	n := &domain.ProspectNote{
		ID:         uuid.New().String(),
		ProspectID: prospectID,
		Author:     strings.TrimSpace(author),
		Body:       body,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Delete removes a note.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) requireProspect(ctx context.Context, id string) error {
	ok, err := s.repo.ProspectExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrProspectNotFound
	}
	return nil
}
