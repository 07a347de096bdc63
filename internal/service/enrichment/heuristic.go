package enrichment

import (
	"context"
	"strings"
	"unicode"

	"github.com/ignite/prospect-desk/internal/domain"
)

// MethodHeuristic and MethodAI label how a FitScore was produced.
const (
	MethodHeuristic = "heuristic"
	MethodAI        = "ai"
)

// HeuristicScorer scores by keyword overlap between the ICP and what we
// know about the prospect. It never fails.
type HeuristicScorer struct{}

// Score implements FitScorer.
func (HeuristicScorer) Score(_ context.Context, in FitInput) (domain.FitScore, error) {
	p := in.Prospect
	score := 20
	var reasons []string

	if p.Email != "" {
		score += 15
		reasons = append(reasons, "has a direct email")
	}
	if p.ContactName != "" {
		score += 5
		reasons = append(reasons, "named contact")
	}
	if p.NormalizedDomain != nil {
		score += 5
		reasons = append(reasons, "company website known")
	}

	if in.Source != nil {
		icp := in.Source.ICP
		if overlaps(icp.RoleFocus, p.Role) {
			score += 20
			reasons = append(reasons, "role matches ICP role focus")
		}

		haystack := strings.Join([]string{p.CompanyName, p.Tags}, " ")
		if in.Profile != nil && in.Profile.Status == domain.ProfileOK {
			haystack += " " + in.Profile.Excerpt
		}
		if overlaps(icp.Industry, haystack) {
			score += 20
			reasons = append(reasons, "industry keywords found")
		}
		if overlaps(icp.MainAngle, haystack) {
			score += 10
			reasons = append(reasons, "website mentions the main angle")
		}
	}

	switch p.Status {
	case domain.StatusQualified:
		score += 10
		reasons = append(reasons, "already qualified")
	case domain.StatusBadFit:
		score = min(score, 10)
		reasons = append(reasons, "marked bad fit")
	}

	score = max(0, min(score, 100))
	return domain.FitScore{
		ProspectID: p.ID,
		Score:      score,
		Tier:       domain.TierFor(score),
		Reasons:    reasons,
		Method:     MethodHeuristic,
	}, nil
}

// overlaps reports whether any keyword of at least three letters in want
// appears as a word in have.
func overlaps(want, have string) bool {
	words := keywords(have)
	if len(words) == 0 {
		return false
	}
	for w := range keywords(want) {
		if _, ok := words[w]; ok {
			return true
		}
	}
	return false
}

func keywords(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, f := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len(f) >= 3 {
			out[f] = struct{}{}
		}
	}
	return out
}
