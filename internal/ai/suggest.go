package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ignite/prospect-desk/internal/domain"
	"github.com/ignite/prospect-desk/internal/service/campaign"
)

// DraftCount is how many drafts a suggestion returns.
const DraftCount = 3

const suggestSystem = "You are a B2B social media copywriter. Always respond with valid JSON."

// PostSuggester asks an LLM for social post drafts.
type PostSuggester struct {
	c Completer
}

// NewPostSuggester creates a campaign.Suggester on top of c.
func NewPostSuggester(c Completer) *PostSuggester { return &PostSuggester{c: c} }

// SuggestPosts implements campaign.Suggester.
func (s *PostSuggester) SuggestPosts(ctx context.Context, b campaign.Brief) ([]domain.PostDraft, error) {
	completion, err := s.c.Complete(ctx, suggestSystem, buildSuggestPrompt(b))
	if err != nil {
		return nil, err
	}
	return parseDrafts(completion)
}

func buildSuggestPrompt(b campaign.Brief) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write %d social media posts for this campaign.\n\n", DraftCount)
	field := func(label, v string) {
		if v = strings.TrimSpace(v); v != "" {
			fmt.Fprintf(&sb, "%s: %s\n", label, v)
		}
	}
	field("Campaign", b.Name)
	field("Objective", b.Objective)
	field("Audience", b.Audience)
	field("Channel", b.Channel)
	field("Tone", b.Tone)
	field("Description", b.Description)
	sb.WriteString(`
Respond with a JSON array only, one object per post:
[
  {"platform": "linkedin", "hook": "one-line opener", "content": "full post text", "hashtags": ["#example"]}
]`)
	return sb.String()
}

func parseDrafts(completion string) ([]domain.PostDraft, error) {
	raw, err := extractJSON(completion, '[', ']')
	if err != nil {
		return nil, err
	}
	var drafts []domain.PostDraft
	if err := json.Unmarshal([]byte(raw), &drafts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	out := make([]domain.PostDraft, 0, len(drafts))
	for _, d := range drafts {
		d.Platform = strings.ToLower(strings.TrimSpace(d.Platform))
		d.Content = strings.TrimSpace(d.Content)
		d.Hook = strings.TrimSpace(d.Hook)
		if d.Platform == "" || d.Content == "" {
			continue
		}
		if d.Hashtags == nil {
			d.Hashtags = []string{}
		}
		out = append(out, d)
		if len(out) == DraftCount {
			break
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no usable drafts", ErrMalformed)
	}
	return out, nil
}
