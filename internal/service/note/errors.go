package note

import "errors"

// Sentinel errors for the note service layer.
var (
	ErrNotFound         = errors.New("note not found")
	ErrProspectNotFound = errors.New("prospect not found")
	ErrEmptyBody        = errors.New("body is required")
)
