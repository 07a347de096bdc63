package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ignite/prospect-desk/internal/domain"
	"github.com/ignite/prospect-desk/internal/service/enrichment"
)

const scoreSystem = "You qualify B2B sales leads against an ideal customer profile. Always respond with valid JSON."

// maxExcerptPrompt bounds how much website text goes into a prompt.
const maxExcerptPrompt = 1500

// FitScorer asks an LLM to rate a prospect against its source's ICP.
type FitScorer struct {
	c Completer
}

// NewFitScorer creates an enrichment.FitScorer on top of c.
func NewFitScorer(c Completer) *FitScorer { return &FitScorer{c: c} }

// Score implements enrichment.FitScorer.
func (s *FitScorer) Score(ctx context.Context, in enrichment.FitInput) (domain.FitScore, error) {
	completion, err := s.c.Complete(ctx, scoreSystem, buildScorePrompt(in))
	if err != nil {
		return domain.FitScore{}, err
	}

	raw, err := extractJSON(completion, '{', '}')
	if err != nil {
		return domain.FitScore{}, err
	}
	var parsed struct {
		Score   *int     `json:"score"`
		Reasons []string `json:"reasons"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return domain.FitScore{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if parsed.Score == nil {
		return domain.FitScore{}, fmt.Errorf("%w: missing score", ErrMalformed)
	}

	score := max(0, min(*parsed.Score, 100))
	return domain.FitScore{
		ProspectID: in.Prospect.ID,
		Score:      score,
		Tier:       domain.TierFor(score),
		Reasons:    parsed.Reasons,
		Method:     enrichment.MethodAI,
	}, nil
}

func buildScorePrompt(in enrichment.FitInput) string {
	var sb strings.Builder
	sb.WriteString("Rate from 0 to 100 how well this prospect fits the ideal customer profile.\n\n")

	if in.Source != nil {
		icp := in.Source.ICP
		fmt.Fprintf(&sb, "ICP (%s):\n- industry: %s\n- company size: %s\n- role focus: %s\n- main angle: %s\n\n",
			in.Source.Name, icp.Industry, icp.CompanySize, icp.RoleFocus, icp.MainAngle)
	} else {
		sb.WriteString("ICP: none given, judge general B2B readiness.\n\n")
	}

	p := in.Prospect
	fmt.Fprintf(&sb, "Prospect:\n- company: %s\n- role: %s\n- tags: %s\n- status: %s\n",
		p.CompanyName, p.Role, p.Tags, p.Status)
	if p.NormalizedDomain != nil {
		fmt.Fprintf(&sb, "- domain: %s\n", *p.NormalizedDomain)
	}
	if in.Profile != nil && in.Profile.Status == domain.ProfileOK && in.Profile.Excerpt != "" {
		excerpt := []rune(in.Profile.Excerpt)
		if len(excerpt) > maxExcerptPrompt {
			excerpt = excerpt[:maxExcerptPrompt]
		}
		fmt.Fprintf(&sb, "\nWebsite excerpt:\n%s\n", string(excerpt))
	}

	sb.WriteString(`
Respond with JSON only: {"score": 0-100, "reasons": ["short reason", "..."]}`)
	return sb.String()
}
