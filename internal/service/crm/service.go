package crm

import (
	"context"
	"errors"
	"strings"

	"github.com/ignite/prospect-desk/internal/domain"
	"github.com/ignite/prospect-desk/internal/pkg/logger"
	"github.com/ignite/prospect-desk/internal/service/source"
)

// Lead is the normalized payload sent to Lead Desk.
type Lead struct {
	ExternalID  string   `json:"externalId"`
	CompanyName string   `json:"companyName,omitempty"`
	ContactName string   `json:"contactName,omitempty"`
	Role        string   `json:"role,omitempty"`
	Email       string   `json:"email,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Website     string   `json:"website,omitempty"`
	Domain      string   `json:"domain,omitempty"`
	Owner       string   `json:"owner,omitempty"`
	Status      string   `json:"status"`
	Source      string   `json:"source,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Pusher delivers a lead and returns the id Lead Desk assigned to it.
type Pusher interface {
	PushLead(ctx context.Context, lead Lead) (string, error)
}

// Prospects resolves a prospect by id.
type Prospects interface {
	Get(ctx context.Context, id string) (*domain.Prospect, error)
}

// Sources resolves a source by id.
type Sources interface {
	Get(ctx context.Context, id string) (*domain.Source, error)
}

// Service pushes prospects to Lead Desk.
type Service struct {
	prospects Prospects
	sources   Sources
	pusher    Pusher
}

// NewService creates a crm service. A nil pusher makes every Push return
// ErrNotConfigured.
func NewService(prospects Prospects, sources Sources, pusher Pusher) *Service {
	return &Service{prospects: prospects, sources: sources, pusher: pusher}
}

// Push sends one prospect and returns the remote lead id.
func (s *Service) Push(ctx context.Context, prospectID string) (string, error) {
	p, err := s.prospects.Get(ctx, prospectID)
	if err != nil {
		return "", err
	}
	if p.IsSuppressed() {
		return "", ErrSuppressed
	}
	if s.pusher == nil {
		return "", ErrNotConfigured
	}

	lead := LeadFrom(p)
	if p.SourceID != nil {
		src, err := s.sources.Get(ctx, *p.SourceID)
		switch {
		case err == nil:
			lead.Source = src.Name
		case !errors.Is(err, source.ErrNotFound):
			return "", err
		}
	}

	id, err := s.pusher.PushLead(ctx, lead)
	if err != nil {
		logger.Error("lead desk push failed", "prospect_id", p.ID, "error", err)
		return "", err
	}
	logger.Info("prospect pushed to lead desk", "prospect_id", p.ID, "lead_id", id)
	return id, nil
}

// LeadFrom maps a prospect onto the Lead Desk payload. The email is sent
// in normalized form.
func LeadFrom(p *domain.Prospect) Lead {
	l := Lead{
		ExternalID:  p.ID,
		CompanyName: p.CompanyName,
		ContactName: p.ContactName,
		Role:        p.Role,
		Email:       p.Email,
		Phone:       p.Phone,
		Website:     p.Website,
		Owner:       p.OwnerName,
		Status:      string(p.Status),
	}
	if p.NormalizedEmail != nil {
		l.Email = *p.NormalizedEmail
	}
	if p.NormalizedDomain != nil {
		l.Domain = *p.NormalizedDomain
	}
	for _, t := range strings.Split(p.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			l.Tags = append(l.Tags, t)
		}
	}
	return l
}
