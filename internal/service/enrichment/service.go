package enrichment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ignite/prospect-desk/internal/domain"
	"github.com/ignite/prospect-desk/internal/pkg/logger"
	"github.com/ignite/prospect-desk/internal/service/prospect"
	"github.com/ignite/prospect-desk/internal/service/source"
	"github.com/panjf2000/ants/v2"
)

// Config tunes caching and fan-out.
type Config struct {
	ProfileTTL time.Duration
	RetryAfter time.Duration
	Workers    int
}

// DefaultConfig returns the settings used when a field is zero.
func DefaultConfig() Config {
	return Config{
		ProfileTTL: 7 * 24 * time.Hour,
		RetryAfter: time.Hour,
		Workers:    4,
	}
}

// Service implements domain profile caching and fit scoring.
type Service struct {
	store     ProfileStore
	fetcher   Fetcher
	prospects Prospects
	sources   Sources
	scorer    FitScorer
	fallback  FitScorer
	cfg       Config
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithScorer sets the primary fit scorer. The heuristic is used when it
// is unset or fails.
func WithScorer(sc FitScorer) Option {
	return func(s *Service) { s.scorer = sc }
}

// WithConfig overrides the non-zero fields of the default config.
func WithConfig(c Config) Option {
	return func(s *Service) {
		if c.ProfileTTL > 0 {
			s.cfg.ProfileTTL = c.ProfileTTL
		}
		if c.RetryAfter > 0 {
			s.cfg.RetryAfter = c.RetryAfter
		}
		if c.Workers > 0 {
			s.cfg.Workers = c.Workers
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires the enrichment service.
func NewService(store ProfileStore, fetcher Fetcher, prospects Prospects, sources Sources, opts ...Option) *Service {
	s := &Service{
		store:     store,
		fetcher:   fetcher,
		prospects: prospects,
		sources:   sources,
		fallback:  HeuristicScorer{},
		cfg:       DefaultConfig(),
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ScoreProspect rates one prospect. Suppressed prospects are never sent
// to a scorer.
func (s *Service) ScoreProspect(ctx context.Context, id string) (domain.FitScore, error) {
	p, err := s.prospects.Get(ctx, id)
	if err != nil {
		return domain.FitScore{}, err
	}
	if p.IsSuppressed() {
		return domain.FitScore{}, ErrSuppressed
	}

	var src *domain.Source
	if p.SourceID != nil {
		src, err = s.sources.Get(ctx, *p.SourceID)
		if err != nil && !errors.Is(err, source.ErrNotFound) {
			return domain.FitScore{}, err
		}
	}
	return s.score(ctx, *p, src), nil
}

// ScoreSource rates every visible prospect of a source, best first.
// Archived and suppressed prospects are skipped.
func (s *Service) ScoreSource(ctx context.Context, sourceID string) ([]domain.FitScore, error) {
	src, err := s.sources.Get(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	var all []domain.Prospect
	const page = 500
	for offset := 0; ; offset += page {
		batch, err := s.prospects.List(ctx, prospect.ListFilter{SourceID: sourceID, Limit: page, Offset: offset})
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < page {
			break
		}
	}

	scores := make([]domain.FitScore, len(all))
	if len(all) == 0 {
		return scores, nil
	}

	pool, err := ants.NewPool(s.cfg.Workers, ants.WithPanicHandler(func(v interface{}) {
		logger.Error("panic in fit scoring worker", "panic", v)
	}))
	if err != nil {
		return nil, fmt.Errorf("create scoring pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range all {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			scores[i] = s.score(ctx, all[i], src)
		})
		if err != nil {
			wg.Done()
			return nil, fmt.Errorf("submit scoring task: %w", err)
		}
	}
	wg.Wait()

	sort.SliceStable(scores, func(a, b int) bool { return scores[a].Score > scores[b].Score })
	return scores, nil
}

// score never fails: profile errors drop the excerpt and scorer errors
// fall back to the heuristic.
func (s *Service) score(ctx context.Context, p domain.Prospect, src *domain.Source) domain.FitScore {
	in := FitInput{Prospect: p, Source: src}
	if p.NormalizedDomain != nil {
		prof, err := s.Profile(ctx, *p.NormalizedDomain)
		if err != nil {
			logger.Warn("domain profile unavailable", "host", *p.NormalizedDomain, "error", err)
		} else {
			in.Profile = prof
		}
	}

	if s.scorer != nil {
		fs, err := s.scorer.Score(ctx, in)
		if err == nil {
			fs.ProspectID = p.ID
			fs.Tier = domain.TierFor(fs.Score)
			return fs
		}
		logger.Warn("fit scorer failed, using heuristic", "prospect_id", p.ID, "error", err)
	}
	fs, _ := s.fallback.Score(ctx, in)
	return fs
}
