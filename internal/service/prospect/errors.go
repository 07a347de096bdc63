package prospect

import "errors"

// Sentinel errors for the prospect service layer.
var (
	ErrNotFound         = errors.New("prospect not found")
	ErrSourceNotFound   = errors.New("source not found")
	ErrDuplicate        = errors.New("prospect already exists")
	ErrNoIdentifier     = errors.New("companyName, contactName or email is required")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrNoValidProspects = errors.New("no valid prospects")
	ErrNotArchived      = errors.New("prospect must be archived before it can be deleted")
	ErrEmptyUpdate      = errors.New("no fields to update")
	ErrImportBusy       = errors.New("another import is in progress")

	// ErrIdentityConflict is returned by repositories when a unique identity
	// index rejects an insert.
	ErrIdentityConflict = errors.New("identity key already taken")
)

// DuplicateError carries the id of the prospect a candidate collided with.
type DuplicateError struct {
	ExistingID string
}

func (e *DuplicateError) Error() string {
	return ErrDuplicate.Error() + ": " + e.ExistingID
}

// Is makes errors.Is(err, ErrDuplicate) match.
func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }
