package enrichment

import "errors"

// Sentinel errors for the enrichment service layer.
var (
	ErrInvalidHost = errors.New("invalid host")
	ErrSuppressed  = errors.New("prospect is suppressed")
)
