package prospect

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignite/prospect-desk/internal/domain"
	"github.com/ignite/prospect-desk/internal/identity"
	"github.com/ignite/prospect-desk/internal/pkg/distlock"
	"github.com/ignite/prospect-desk/internal/pkg/logger"
)

// Service implements prospect business logic. All public methods are safe
// for concurrent use if the underlying repository is concurrency-safe.
type Service struct {
	repo     Repository
	lock     distlock.Factory
	lockWait time.Duration
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithIdentityLock serializes every resolve-then-insert sequence behind a
// distributed lock. Callers that cannot take the lock within wait get
// ErrImportBusy.
func WithIdentityLock(f distlock.Factory, wait time.Duration) Option {
	return func(s *Service) {
		s.lock = f
		s.lockWait = wait
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a prospect service backed by the given repository.
func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CreateInput holds the caller-supplied fields of a new prospect. All
// fields are optional strings; Status and Origin fall back to defaults.
type CreateInput struct {
	SourceID    string
	CompanyName string
	ContactName string
	Role        string
	Email       string
	Phone       string
	Website     string
	Tags        string
	OwnerName   string
	Origin      string
	Status      string
}

// UpdateInput holds the fields accepted by Update. Nil fields are ignored.
type UpdateInput struct {
	Status    *string
	OwnerName *string
	Tags      *string
}

// Get returns a single prospect.
func (s *Service) Get(ctx context.Context, id string) (*domain.Prospect, error) {
	return s.repo.Get(ctx, id)
}

// List returns prospects matching the filter.
func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.Prospect, error) {
	return s.repo.List(ctx, f)
}

// Create admits one candidate. Any existing prospect carrying the same
// identity key blocks the insert, whether it is archived, suppressed, or
// neither; the error is a *DuplicateError naming that prospect.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Prospect, error) {
	if !identity.HasIdentifier(in.CompanyName, in.ContactName, in.Email) {
		return nil, ErrNoIdentifier
	}
	status, err := parseStatus(in.Status)
	if err != nil {
		return nil, err
	}
	if in.SourceID != "" {
		if err := s.requireSource(ctx, in.SourceID); err != nil {
			return nil, err
		}
	}

	keys := identity.KeysFor(in.ContactName, in.Email, in.Website)
	p := s.build(in, keys, status, domain.OriginManual)

	err = s.withIdentityLock(ctx, func() error {
		res, err := identity.Resolve(ctx, s.repo, keys)
		if err != nil {
			return fmt.Errorf("resolve identity: %w", err)
		}
		if res.Duplicate() {
			return &DuplicateError{ExistingID: res.ExistingID}
		}
		if err := s.repo.Insert(ctx, p); err != nil {
			if errors.Is(err, ErrIdentityConflict) {
				return s.lostRace(ctx, keys)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("prospect created", "id", p.ID, "email", p.Email, "origin", p.Origin)
	return p, nil
}

// lostRace runs after a unique index rejected an insert that the resolver
// had admitted, and looks up the row that won.
func (s *Service) lostRace(ctx context.Context, keys identity.Keys) error {
	res, err := identity.Resolve(ctx, s.repo, keys)
	if err != nil {
		return fmt.Errorf("resolve identity after conflict: %w", err)
	}
	return &DuplicateError{ExistingID: res.ExistingID}
}

// Update changes workflow fields. Moving to "contacted" also stamps
// lastContactedAt.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.Prospect, error) {
	if in.Status == nil && in.OwnerName == nil && in.Tags == nil {
		return nil, ErrEmptyUpdate
	}
	var u UpdateFields
	if in.Status != nil {
		st := domain.ProspectStatus(strings.TrimSpace(*in.Status))
		if !st.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *in.Status)
		}
		u.Status = &st
		u.TouchContacted = st == domain.StatusContacted
	}
	if in.OwnerName != nil {
		v := strings.TrimSpace(*in.OwnerName)
		u.OwnerName = &v
	}
	if in.Tags != nil {
		v := strings.TrimSpace(*in.Tags)
		u.Tags = &v
	}
	return s.repo.Update(ctx, id, u)
}

func (s *Service) requireSource(ctx context.Context, sourceID string) error {
	ok, err := s.repo.SourceExists(ctx, sourceID)
	if err != nil {
		return fmt.Errorf("check source: %w", err)
	}
	if !ok {
		return ErrSourceNotFound
	}
	return nil
}

func (s *Service) build(in CreateInput, keys identity.Keys, status domain.ProspectStatus, defaultOrigin string) *domain.Prospect {
	now := s.now().UTC()
	origin := strings.TrimSpace(in.Origin)
	if origin == "" {
		origin = defaultOrigin
	}
	p := &domain.Prospect{
		ID:                    uuid.New().String(),
		CompanyName:           strings.TrimSpace(in.CompanyName),
		ContactName:           strings.TrimSpace(in.ContactName),
		Role:                  strings.TrimSpace(in.Role),
		Email:                 strings.TrimSpace(in.Email),
		Phone:                 strings.TrimSpace(in.Phone),
		Website:               strings.TrimSpace(in.Website),
		Tags:                  strings.TrimSpace(in.Tags),
		OwnerName:             strings.TrimSpace(in.OwnerName),
		NormalizedEmail:       keys.Email,
		NormalizedDomain:      keys.Domain,
		NormalizedContactName: keys.Name,
		Origin:                origin,
		Status:                status,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if in.SourceID != "" {
		sid := in.SourceID
		p.SourceID = &sid
	}
	return p
}

// withIdentityLock runs fn while holding the identity lock, when one is
// configured.
func (s *Service) withIdentityLock(ctx context.Context, fn func() error) error {
	if s.lock == nil {
		return fn()
	}
	l := s.lock()
	if err := distlock.Wait(ctx, l, s.lockWait, 0); err != nil {
		if errors.Is(err, distlock.ErrTimeout) {
			return ErrImportBusy
		}
		return fmt.Errorf("acquire identity lock: %w", err)
	}
	defer func() {
		if err := l.Release(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("identity lock release failed", "error", err)
		}
	}()
	return fn()
}

func parseStatus(raw string) (domain.ProspectStatus, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return domain.StatusUncontacted, nil
	}
	st := domain.ProspectStatus(v)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return st, nil
}
