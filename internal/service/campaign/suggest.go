package campaign

import (
	"context"

	"github.com/ignite/prospect-desk/internal/domain"
	"github.com/ignite/prospect-desk/internal/pkg/logger"
)

// Brief is the descriptive part of a campaign handed to a Suggester.
type Brief struct {
	Name        string
	Objective   string
	Audience    string
	Channel     string
	Tone        string
	Description string
}

// BriefOf extracts the brief of a campaign.
func BriefOf(c *domain.Campaign) Brief {
	return Brief{
		Name:        c.Name,
		Objective:   c.Objective,
		Audience:    c.Audience,
		Channel:     c.Channel,
		Tone:        c.Tone,
		Description: c.Description,
	}
}

// Suggester produces social post drafts for a campaign brief.
type Suggester interface {
	SuggestPosts(ctx context.Context, b Brief) ([]domain.PostDraft, error)
}

// Suggestion sources reported next to the drafts.
const (
	SuggestedByAI       = "ai"
	SuggestedByFallback = "fallback"
)

// SuggestPosts returns drafts for a campaign and which producer made them.
// Any failure of the primary suggester degrades to the fallback drafter.
func (s *Service) SuggestPosts(ctx context.Context, campaignID string) ([]domain.PostDraft, string, error) {
	c, err := s.repo.Get(ctx, campaignID)
	if err != nil {
		return nil, "", err
	}
	b := BriefOf(c)

	if s.suggester != nil {
		drafts, err := s.suggester.SuggestPosts(ctx, b)
		if err == nil && len(drafts) == 0 {
			err = ErrNoDrafts
		}
		if err == nil {
			return drafts, SuggestedByAI, nil
		}
		logger.Warn("post suggester failed, using fallback", "campaign_id", campaignID, "error", err)
	}

	drafts, err := s.fallback.SuggestPosts(ctx, b)
	if err != nil {
		return nil, "", err
	}
	return drafts, SuggestedByFallback, nil
}
