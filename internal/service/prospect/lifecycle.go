package prospect

import (
	"context"

	"github.com/ignite/prospect-desk/internal/domain"
	"github.com/ignite/prospect-desk/internal/pkg/logger"
)

// Archive soft-hides a prospect. Archived prospects drop out of default
// lists and become eligible for deletion.
func (s *Service) Archive(ctx context.Context, id string) (*domain.Prospect, error) {
	return s.repo.SetArchived(ctx, id, true)
}

// Restore clears the archive flag.
func (s *Service) Restore(ctx context.Context, id string) (*domain.Prospect, error) {
	return s.repo.SetArchived(ctx, id, false)
}

// Suppress marks a prospect as opted out. Suppressed prospects keep
// blocking re-import of their identity and are excluded from enrichment.
func (s *Service) Suppress(ctx context.Context, id string) (*domain.Prospect, error) {
	p, err := s.repo.SetSuppressed(ctx, id, true)
	if err != nil {
		return nil, err
	}
	logger.Info("prospect suppressed", "id", id, "email", p.Email)
	return p, nil
}

// Unsuppress clears the opt-out flag.
func (s *Service) Unsuppress(ctx context.Context, id string) (*domain.Prospect, error) {
	return s.repo.SetSuppressed(ctx, id, false)
}

// Delete hard-deletes an archived prospect together with its notes.
// Deleting a prospect that is not archived fails with ErrNotArchived.
func (s *Service) Delete(ctx context.Context, id string) error {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !p.IsArchived() {
		return ErrNotArchived
	}
	if err := s.repo.DeleteArchived(ctx, id); err != nil {
		return err
	}
	logger.Info("prospect deleted", "id", id)
	return nil
}
