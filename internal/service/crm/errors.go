package crm

import "errors"

// Sentinel errors for the crm service layer.
var (
	ErrNotConfigured = errors.New("lead desk is not configured")
	ErrSuppressed    = errors.New("suppressed prospects cannot be pushed")
	ErrUpstream      = errors.New("lead desk request failed")
)
