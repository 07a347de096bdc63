package domain

import "time"

// DomainProfileStatus is the outcome of the last fetch for a host.
type DomainProfileStatus string

const (
	ProfileOK      DomainProfileStatus = "ok"
	ProfileError   DomainProfileStatus = "error"
	ProfileInvalid DomainProfileStatus = "invalid"
)

// DomainProfile caches a plain-text excerpt of a company website. It is
// only used as enrichment context and never takes part in identity matching.
type DomainProfile struct {
	Host        string              `json:"host" db:"host"`
	Excerpt     string              `json:"excerpt" db:"excerpt"`
	Status      DomainProfileStatus `json:"status" db:"status"`
	FetchedAt   time.Time           `json:"fetchedAt" db:"fetched_at"`
	ErrorDetail string              `json:"errorDetail,omitempty" db:"error_detail"`
}

// FitTier buckets a fit score for display.
type FitTier string

const (
	FitStrong   FitTier = "strong"
	FitModerate FitTier = "moderate"
	FitWeak     FitTier = "weak"
)

// TierFor maps a 0-100 score onto a tier.
func TierFor(score int) FitTier {
	switch {
	case score >= 70:
		return FitStrong
	case score >= 40:
		return FitModerate
	default:
		return FitWeak
	}
}

// FitScore is how well a prospect matches its source's ICP.
type FitScore struct {
	ProspectID string   `json:"prospectId"`
	Score      int      `json:"score"`
	Tier       FitTier  `json:"tier"`
	Reasons    []string `json:"reasons"`
	Method     string   `json:"method"` // "ai" or "heuristic"
}
