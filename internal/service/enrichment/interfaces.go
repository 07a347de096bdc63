package enrichment

import (
	"context"

	"github.com/ignite/prospect-desk/internal/domain"
	"github.com/ignite/prospect-desk/internal/service/prospect"
)

// ProfileStore persists domain profiles keyed by bare host.
type ProfileStore interface {
	// GetProfile returns the cached profile, or nil without error on a miss.
	GetProfile(ctx context.Context, host string) (*domain.DomainProfile, error)

	// SaveProfile inserts or replaces the profile for p.Host.
	SaveProfile(ctx context.Context, p *domain.DomainProfile) error
}

// Fetcher retrieves a plain-text excerpt of a company website. It returns
// ErrInvalidHost (possibly wrapped) when the host can never be fetched.
type Fetcher interface {
	Fetch(ctx context.Context, host string) (string, error)
}

// FitInput is everything a FitScorer may look at.
type FitInput struct {
	Prospect domain.Prospect
	Source   *domain.Source
	Profile  *domain.DomainProfile
}

// FitScorer rates how well a prospect matches its source's ICP.
type FitScorer interface {
	Score(ctx context.Context, in FitInput) (domain.FitScore, error)
}

// Prospects is the read side of the prospect service used here.
type Prospects interface {
	Get(ctx context.Context, id string) (*domain.Prospect, error)
	List(ctx context.Context, f prospect.ListFilter) ([]domain.Prospect, error)
}

// Sources resolves a source by id.
type Sources interface {
	Get(ctx context.Context, id string) (*domain.Source, error)
}
