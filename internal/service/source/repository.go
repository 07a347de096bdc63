package source

import (
	"context"

	"github.com/ignite/prospect-desk/internal/domain"
)

// Repository defines the data access contract for sources.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Get returns a single source. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*domain.Source, error)

	// List returns every source ordered by name.
	List(ctx context.Context) ([]domain.Source, error)

	// Create inserts a new source.
	Create(ctx context.Context, s *domain.Source) error

	// Update applies non-nil fields and returns the updated row.
	Update(ctx context.Context, id string, u UpdateFields) (*domain.Source, error)

	// Delete removes a source. Prospects keep existing with a null source.
	Delete(ctx context.Context, id string) error
}

// UpdateFields holds the mutable fields of a source.
// Nil fields are not applied.
type UpdateFields struct {
	Name           *string
	Description    *string
	ICPIndustry    *string
	ICPCompanySize *string
	ICPRoleFocus   *string
	ICPMainAngle   *string
}

func (u UpdateFields) empty() bool {
	return u.Name == nil && u.Description == nil && u.ICPIndustry == nil &&
		u.ICPCompanySize == nil && u.ICPRoleFocus == nil && u.ICPMainAngle == nil
}
