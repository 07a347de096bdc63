package ai

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/ignite/prospect-desk/internal/domain"
	"github.com/ignite/prospect-desk/internal/service/campaign"
	"github.com/osteele/liquid"
)

type draftTemplate struct {
	platform string
	hook     string
	content  string
}

// Drafts rendered when no LLM answer is available. Bindings: name,
// objective, audience, tone, description.
var defaultDraftTemplates = []draftTemplate{
	{
		platform: "linkedin",
		hook:     "{{ name }}: {{ objective | default: 'what we are working on' }}",
		content: "We are launching {{ name }}." +
			"{% if audience != '' %} Built for {{ audience }}.{% endif %}" +
			"{% if description != '' %} {{ description }}{% endif %}" +
			" Reply or send a message if this is on your roadmap.",
	},
	{
		platform: "x",
		hook:     "{{ objective | default: name }}",
		content: "{{ name }}{% if audience != '' %} for {{ audience }}{% endif %}. " +
			"{{ objective | default: 'More soon.' }}",
	},
	{
		platform: "linkedin",
		hook:     "A question for {{ audience | default: 'our network' }}",
		content: "What is the hardest part of {{ objective | default: 'your current process' | downcase }}? " +
			"We are collecting answers while we build {{ name }}.",
	},
}

// TemplateDrafter renders fixed liquid templates from a campaign brief.
// It is the campaign suggestion fallback and never calls out.
type TemplateDrafter struct {
	templates []compiledDraft
}

type compiledDraft struct {
	platform string
	hook     *liquid.Template
	content  *liquid.Template
}

// NewTemplateDrafter compiles the built-in draft templates.
func NewTemplateDrafter() (*TemplateDrafter, error) {
	engine := liquid.NewEngine()
	d := &TemplateDrafter{}
	for i, t := range defaultDraftTemplates {
		hook, err := engine.ParseString(t.hook)
		if err != nil {
			return nil, fmt.Errorf("parse draft %d hook: %w", i, err)
		}
		content, err := engine.ParseString(t.content)
		if err != nil {
			return nil, fmt.Errorf("parse draft %d content: %w", i, err)
		}
		d.templates = append(d.templates, compiledDraft{platform: t.platform, hook: hook, content: content})
	}
	return d, nil
}

// SuggestPosts implements campaign.Suggester.
func (d *TemplateDrafter) SuggestPosts(_ context.Context, b campaign.Brief) ([]domain.PostDraft, error) {
	bindings := map[string]interface{}{
		"name":        strings.TrimSpace(b.Name),
		"objective":   strings.TrimSpace(b.Objective),
		"audience":    strings.TrimSpace(b.Audience),
		"tone":        strings.TrimSpace(b.Tone),
		"description": strings.TrimSpace(b.Description),
	}
	tags := hashtags(b.Name, b.Channel)

	out := make([]domain.PostDraft, 0, len(d.templates))
	for _, t := range d.templates {
		hook, err := t.hook.RenderString(bindings)
		if err != nil {
			return nil, fmt.Errorf("render hook: %w", err)
		}
		content, err := t.content.RenderString(bindings)
		if err != nil {
			return nil, fmt.Errorf("render content: %w", err)
		}
		out = append(out, domain.PostDraft{
			Platform: t.platform,
			Hook:     strings.TrimSpace(hook),
			Content:  strings.Join(strings.Fields(content), " "),
			Hashtags: tags,
		})
	}
	return out, nil
}

// hashtags builds CamelCase tags from each non-empty phrase.
func hashtags(phrases ...string) []string {
	out := []string{}
	for _, p := range phrases {
		var sb strings.Builder
		for _, w := range strings.FieldsFunc(p, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}) {
			r := []rune(strings.ToLower(w))
			r[0] = unicode.ToUpper(r[0])
			sb.WriteString(string(r))
		}
		if sb.Len() > 0 {
			out = append(out, "#"+sb.String())
		}
	}
	return out
}
