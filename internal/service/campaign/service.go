package campaign

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignite/prospect-desk/internal/domain"
)

// Service implements campaign business logic. All public methods are safe
// for concurrent use if the underlying repository is concurrency-safe.
type Service struct {
	repo      Repository
	suggester Suggester
	fallback  Suggester
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithSuggester sets the primary post suggester.
func WithSuggester(sg Suggester) Option {
	return func(s *Service) { s.suggester = sg }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a campaign service. fallback must never fail for a
// well-formed brief.
func NewService(repo Repository, fallback Suggester, opts ...Option) *Service {
	s := &Service{repo: repo, fallback: fallback, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CreateInput holds the fields for creating a new campaign.
type CreateInput struct {
	SourceID    string
	Name        string
	Objective   string
	Audience    string
	Channel     string
	Tone        string
	Description string
	Status      string
	StartsAt    *time.Time
	EndsAt      *time.Time
}

// PostInput holds the fields for creating a social post.
type PostInput struct {
	Platform    string
	Content     string
	Status      string
	ScheduledAt *time.Time
}

// Get returns a single campaign.
func (s *Service) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	return s.repo.Get(ctx, id)
}

// List returns campaigns matching the filter.
func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.Campaign, error) {
	return s.repo.List(ctx, f)
}

// Create validates and persists a new campaign, in draft status unless
// another is given.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Campaign, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	status := domain.CampaignDraft
	if v := strings.TrimSpace(in.Status); v != "" {
		status = domain.CampaignStatus(strings.ToLower(v))
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
	}
	if in.StartsAt != nil && in.EndsAt != nil && in.EndsAt.Before(*in.StartsAt) {
		return nil, ErrInvalidSchedule
	}

	now := s.now().UTC()
	c := &domain.Campaign{
		ID:          uuid.New().String(),
		Name:        name,
		Objective:   strings.TrimSpace(in.Objective),
		Audience:    strings.TrimSpace(in.Audience),
		Channel:     strings.TrimSpace(in.Channel),
		Tone:        strings.TrimSpace(in.Tone),
		Description: strings.TrimSpace(in.Description),
		Status:      status,
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if v := strings.TrimSpace(in.SourceID); v != "" {
		c.SourceID = &v
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Update modifies mutable campaign fields.
func (s *Service) Update(ctx context.Context, id string, u UpdateFields) (*domain.Campaign, error) {
	if u.empty() {
		return nil, ErrEmptyUpdate
	}
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return nil, ErrNameRequired
	}
	if u.Status != nil && !u.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if u.StartsAt != nil || u.EndsAt != nil {
		cur, err := s.repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		start, end := cur.StartsAt, cur.EndsAt
		if u.StartsAt != nil {
			start = u.StartsAt
		}
		if u.EndsAt != nil {
			end = u.EndsAt
		}
		if start != nil && end != nil && end.Before(*start) {
			return nil, ErrInvalidSchedule
		}
	}
	return s.repo.Update(ctx, id, u)
}

// Delete removes a campaign and its posts.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// ListPosts returns the posts of a campaign.
func (s *Service) ListPosts(ctx context.Context, campaignID string) ([]domain.SocialPost, error) {
	if _, err := s.repo.Get(ctx, campaignID); err != nil {
		return nil, err
	}
	return s.repo.ListPosts(ctx, campaignID)
}

// CreatePost validates and stores a post under a campaign.
func (s *Service) CreatePost(ctx context.Context, campaignID string, in PostInput) (*domain.SocialPost, error) {
	platform := strings.TrimSpace(in.Platform)
	content := strings.TrimSpace(in.Content)
	if platform == "" || content == "" {
		return nil, ErrPostFields
	}
	status := domain.PostStatusDraft
	if v := strings.TrimSpace(in.Status); v != "" {
		status = domain.PostStatus(strings.ToLower(v))
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
	}
	if status == domain.PostScheduled && in.ScheduledAt == nil {
		return nil, ErrScheduleRequired
	}
	if _, err := s.repo.Get(ctx, campaignID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p := &domain.SocialPost{
		ID:          uuid.New().String(),
		CampaignID:  campaignID,
		Platform:    strings.ToLower(platform),
		Content:     content,
		Status:      status,
		ScheduledAt: in.ScheduledAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if status == domain.PostPublished {
		p.PublishedAt = &now
	}
	if err := s.repo.CreatePost(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePost modifies a post. Moving a post to published stamps
// PublishedAt; a scheduled post must carry a schedule time.
func (s *Service) UpdatePost(ctx context.Context, id string, u PostUpdate) (*domain.SocialPost, error) {
	if u.empty() {
		return nil, ErrEmptyUpdate
	}
	if (u.Platform != nil && strings.TrimSpace(*u.Platform) == "") ||
		(u.Content != nil && strings.TrimSpace(*u.Content) == "") {
		return nil, ErrPostFields
	}
	if u.Status != nil {
		if !u.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		cur, err := s.repo.GetPost(ctx, id)
		if err != nil {
			return nil, err
		}
		if *u.Status == domain.PostScheduled && u.ScheduledAt == nil && cur.ScheduledAt == nil {
			return nil, ErrScheduleRequired
		}
		if *u.Status == domain.PostPublished && cur.PublishedAt == nil {
			now := s.now().UTC()
			u.PublishedAt = &now
		}
	}
	return s.repo.UpdatePost(ctx, id, u)
}

// DeletePost removes a post.
func (s *Service) DeletePost(ctx context.Context, id string) error {
	return s.repo.DeletePost(ctx, id)
}
