package source

import "errors"

// Sentinel errors for the source service layer.
var (
	ErrNotFound     = errors.New("source not found")
	ErrNameRequired = errors.New("name is required")
	ErrEmptyUpdate  = errors.New("no fields to update")
)
