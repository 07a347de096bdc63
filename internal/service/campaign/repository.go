package campaign

import (
	"context"
	"time"

	"github.com/ignite/prospect-desk/internal/domain"
)

// Repository defines the data access contract for campaigns and their
// posts. Implementations must be safe for concurrent use.
type Repository interface {
	// Get returns a single campaign. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*domain.Campaign, error)

	// List returns campaigns matching the given filter, ordered by created_at DESC.
	List(ctx context.Context, filter ListFilter) ([]domain.Campaign, error)

	// Create inserts a new campaign. Returns ErrSourceNotFound when the
	// source reference is dangling.
	Create(ctx context.Context, c *domain.Campaign) error

	// Update applies non-nil fields and returns the updated row.
	Update(ctx context.Context, id string, u UpdateFields) (*domain.Campaign, error)

	// Delete removes a campaign and its posts.
	Delete(ctx context.Context, id string) error

	// ListPosts returns the posts of a campaign, oldest first.
	ListPosts(ctx context.Context, campaignID string) ([]domain.SocialPost, error)

	// GetPost returns one post. Returns ErrPostNotFound if it doesn't exist.
	GetPost(ctx context.Context, id string) (*domain.SocialPost, error)

	// CreatePost inserts a post.
	CreatePost(ctx context.Context, p *domain.SocialPost) error

	// UpdatePost applies non-nil fields and returns the updated row.
	UpdatePost(ctx context.Context, id string, u PostUpdate) (*domain.SocialPost, error)

	// DeletePost removes a post.
	DeletePost(ctx context.Context, id string) error
}

// ListFilter controls filtering for campaign lists.
type ListFilter struct {
	Status   string
	SourceID string
	Limit    int
	Offset   int
}

// UpdateFields holds the mutable fields for a campaign update.
// Nil fields are not applied.
type UpdateFields struct {
	Name        *string
	Objective   *string
	Audience    *string
	Channel     *string
	Tone        *string
	Description *string
	Status      *domain.CampaignStatus
	StartsAt    *time.Time
	EndsAt      *time.Time
}

func (u UpdateFields) empty() bool {
	return u.Name == nil && u.Objective == nil && u.Audience == nil && u.Channel == nil &&
		u.Tone == nil && u.Description == nil && u.Status == nil && u.StartsAt == nil && u.EndsAt == nil
}

// PostUpdate holds the mutable fields of a social post.
type PostUpdate struct {
	Platform    *string
	Content     *string
	Status      *domain.PostStatus
	ScheduledAt *time.Time

	// PublishedAt is set by the service when a post moves to published.
	PublishedAt *time.Time
}

func (u PostUpdate) empty() bool {
	return u.Platform == nil && u.Content == nil && u.Status == nil && u.ScheduledAt == nil
}
