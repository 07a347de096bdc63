package prospect

import (
	"context"

	"github.com/ignite/prospect-desk/internal/domain"
	"github.com/ignite/prospect-desk/internal/identity"
)

// Repository defines the data access contract for prospects.
// Implementations must be safe for concurrent use.
type Repository interface {
	// ByEmail and ByDomainName answer single-row existence lookups across
	// all prospects, archived and suppressed included.
	identity.Lookup

	// Get returns one prospect. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*domain.Prospect, error)

	// List returns prospects matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) ([]domain.Prospect, error)

	// IdentitySnapshot returns the identity columns of every prospect.
	IdentitySnapshot(ctx context.Context) ([]identity.Row, error)

	// Insert stores one prospect. Returns ErrIdentityConflict when a unique
	// identity index rejects the row.
	Insert(ctx context.Context, p *domain.Prospect) error

	// InsertBatch stores all rows in one statement, or none of them.
	InsertBatch(ctx context.Context, ps []domain.Prospect) error

	// Update applies non-nil fields and returns the updated row.
	Update(ctx context.Context, id string, u UpdateFields) (*domain.Prospect, error)

	// SetArchived stamps or clears archived_at and returns the updated row.
	// An already archived row keeps its original timestamp.
	SetArchived(ctx context.Context, id string, archived bool) (*domain.Prospect, error)

	// SetSuppressed stamps or clears suppressed_at and returns the updated
	// row. An already suppressed row keeps its original timestamp.
	SetSuppressed(ctx context.Context, id string, suppressed bool) (*domain.Prospect, error)

	// DeleteArchived removes an archived prospect and its notes. Returns
	// ErrNotFound if no archived row has that id.
	DeleteArchived(ctx context.Context, id string) error

	// SourceExists reports whether a source id is known.
	SourceExists(ctx context.Context, sourceID string) (bool, error)
}

// ListFilter controls filtering for prospect lists.
//
// Archived and Suppressed select one side of each lifecycle flag: false
// (the default) keeps only rows without the timestamp, true keeps only rows
// with it.
type ListFilter struct {
	Status     string
	SourceID   string
	OwnerName  string
	Search     string
	Archived   bool
	Suppressed bool
	Limit      int
	Offset     int
}

// UpdateFields holds the mutable workflow fields of a prospect.
// Nil fields are not applied.
type UpdateFields struct {
	Status    *domain.ProspectStatus
	OwnerName *string
	Tags      *string

	// TouchContacted stamps last_contacted_at.
	TouchContacted bool
}
