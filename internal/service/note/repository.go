package note

import (
	"context"

	"github.com/ignite/prospect-desk/internal/domain"
)

// Repository defines the data access contract for notes.
type Repository interface {
	// ListByProspect returns the notes of one prospect, newest first.
	ListByProspect(ctx context.Context, prospectID string) ([]domain.ProspectNote, error)

	// Create inserts a note.
	Create(ctx context.Context, n *domain.ProspectNote) error

	// Delete removes a note. Returns ErrNotFound if it doesn't exist.
	Delete(ctx context.Context, id string) error

	// ProspectExists reports whether a prospect id is known.
	ProspectExists(ctx context.Context, prospectID string) (bool, error)
}
