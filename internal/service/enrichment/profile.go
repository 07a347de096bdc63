package enrichment

import (
	"context"
	"errors"
	"strings"

	"github.com/ignite/prospect-desk/internal/domain"
	"github.com/ignite/prospect-desk/internal/identity"
	"github.com/ignite/prospect-desk/internal/pkg/logger"
)

// maxExcerpt bounds the stored excerpt in runes.
const maxExcerpt = 4000

// Profile returns the domain profile for host, reading through the cache.
//
// A cached ok profile is served until ProfileTTL passes; a cached error or
// invalid profile until RetryAfter passes. Anything else triggers a fetch
// whose result, good or bad, is written back.
func (s *Service) Profile(ctx context.Context, host string) (*domain.DomainProfile, error) {
	h := normalizeHost(host)
	if h == "" {
		return nil, ErrInvalidHost
	}

	cached, err := s.store.GetProfile(ctx, h)
	if err != nil {
		return nil, err
	}
	if cached != nil && s.fresh(cached) {
		return cached, nil
	}

	p := &domain.DomainProfile{Host: h, FetchedAt: s.now().UTC(), Status: domain.ProfileOK}
	excerpt, err := s.fetcher.Fetch(ctx, h)
	switch {
	case errors.Is(err, ErrInvalidHost):
		p.Status = domain.ProfileInvalid
		p.ErrorDetail = err.Error()
	case err != nil:
		p.Status = domain.ProfileError
		p.ErrorDetail = err.Error()
		logger.Warn("domain fetch failed", "host", h, "error", err)
	default:
		p.Excerpt = truncate(excerpt, maxExcerpt)
	}

	if err := s.store.SaveProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) fresh(p *domain.DomainProfile) bool {
	ttl := s.cfg.ProfileTTL
	if p.Status != domain.ProfileOK {
		ttl = s.cfg.RetryAfter
	}
	return s.now().Sub(p.FetchedAt) < ttl
}

// normalizeHost accepts a bare host or a URL and returns the lowercase
// host without a leading www., or "" when nothing usable remains. Hosts
// that are not public DNS names are refused so the fetcher never reaches
// into private networks.
func normalizeHost(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.ContainsAny(raw, " \t@") {
		return ""
	}
	d := identity.ExtractDomain(raw, "")
	if d == nil || !identity.IsPublicHost(*d) {
		return ""
	}
	return *d
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n])
}
