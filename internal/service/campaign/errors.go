package campaign

import "errors"

// Sentinel errors for the campaign service layer.
var (
	ErrNotFound         = errors.New("campaign not found")
	ErrPostNotFound     = errors.New("post not found")
	ErrSourceNotFound   = errors.New("source not found")
	ErrNameRequired     = errors.New("name is required")
	ErrPostFields       = errors.New("platform and content are required")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidSchedule  = errors.New("endsAt must not be before startsAt")
	ErrScheduleRequired = errors.New("scheduledAt is required for scheduled posts")
	ErrEmptyUpdate      = errors.New("no fields to update")
	ErrNoDrafts         = errors.New("suggester returned no drafts")
)
