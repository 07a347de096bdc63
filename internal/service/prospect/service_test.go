package prospect

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ignite/prospect-desk/internal/domain"
	"github.com/ignite/prospect-desk/internal/pkg/distlock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestCreate_Defaults(t *testing.T) {
	repo := newMemRepo("src-1")
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(repo, WithClock(func() time.Time { return fixed }))

	p, err := svc.Create(context.Background(), CreateInput{
		SourceID:    "src-1",
		CompanyName: "Acme",
		ContactName: "  Jane   Doe ",
		Email:       " Jane@Acme.com ",
		Website:     "www.acme.com",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, domain.OriginManual, p.Origin)
	assert.Equal(t, domain.StatusUncontacted, p.Status)
	assert.Equal(t, "jane@acme.com", *p.NormalizedEmail)
	assert.Equal(t, "acme.com", *p.NormalizedDomain)
	assert.Equal(t, "jane doe", *p.NormalizedContactName)
	assert.Equal(t, fixed, p.CreatedAt)
	assert.Nil(t, p.ArchivedAt)
	assert.Nil(t, p.SuppressedAt)
	assert.Nil(t, p.LastContactedAt)
	require.NotNil(t, p.SourceID)
	assert.Equal(t, "src-1", *p.SourceID)
	assert.Equal(t, 1, repo.count())
}

func TestCreate_KeepsCallerOrigin(t *testing.T) {
	svc := NewService(newMemRepo())
	p, err := svc.Create(context.Background(), CreateInput{CompanyName: "Acme", Origin: "event", Status: "qualified"})
	require.NoError(t, err)
	assert.Equal(t, "event", p.Origin)
	assert.Equal(t, domain.StatusQualified, p.Status)
}

func TestCreate_DuplicateEmailIgnoresCaseAndPadding(t *testing.T) {
	repo := newMemRepo()
	repo.seed(domain.Prospect{ID: "existing", Email: "a@b.com"})
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CreateInput{Email: "A@B.com "})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicate)

	var dup *DuplicateError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "existing", dup.ExistingID)
	assert.Equal(t, 1, repo.count())
}

func TestCreate_BlockedBySuppressedOrArchivedMatch(t *testing.T) {
	now := time.Now()
	repo := newMemRepo()
	repo.seed(domain.Prospect{ID: "supp", Email: "gone@x.io", SuppressedAt: &now})
	repo.seed(domain.Prospect{ID: "arch", ContactName: "Jane Doe", Website: "acme.com", ArchivedAt: &now})
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CreateInput{Email: "gone@x.io"})
	var dup *DuplicateError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "supp", dup.ExistingID)

	_, err = svc.Create(context.Background(), CreateInput{ContactName: "jane doe", Website: "https://www.acme.com"})
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "arch", dup.ExistingID)
}

func TestCreate_UniqueEmailWinsOverDomainNameCollision(t *testing.T) {
	repo := newMemRepo()
	repo.seed(domain.Prospect{ID: "jane-1", ContactName: "Jane Doe", Email: "jane@acme.com", Website: "acme.com"})
	svc := NewService(repo)

	p, err := svc.Create(context.Background(), CreateInput{
		ContactName: "Jane Doe", Email: "jane.doe@acme.com", Website: "acme.com",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "jane-1", p.ID)
	assert.Equal(t, 2, repo.count())
}

func TestCreate_FallbackWithoutEmail(t *testing.T) {
	repo := newMemRepo()
	repo.seed(domain.Prospect{ID: "jane-1", ContactName: "Jane Doe", Website: "acme.com"})
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CreateInput{ContactName: "JANE DOE", Website: "http://acme.com/team"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newMemRepo("src-1"))
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Website: "acme.com", Phone: "555"})
	assert.ErrorIs(t, err, ErrNoIdentifier)

	_, err = svc.Create(ctx, CreateInput{CompanyName: "Acme", Status: "hot"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.Create(ctx, CreateInput{CompanyName: "Acme", SourceID: "missing"})
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestCreate_LostRaceReportsWinner(t *testing.T) {
	repo := newMemRepo()
	winner := domain.Prospect{ID: "winner", Email: "race@acme.com"}
	email := "race@acme.com"
	winner.NormalizedEmail = &email
	repo.raceWinner = &winner
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CreateInput{Email: "race@acme.com"})
	var dup *DuplicateError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "winner", dup.ExistingID)
}

func TestUpdate(t *testing.T) {
	repo := newMemRepo()
	repo.seed(domain.Prospect{ID: "p1", CompanyName: "Acme"})
	svc := NewService(repo)
	ctx := context.Background()

	p, err := svc.Update(ctx, "p1", UpdateInput{Status: strp("qualified"), OwnerName: strp(" sam ")})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusQualified, p.Status)
	assert.Equal(t, "sam", p.OwnerName)
	assert.Nil(t, p.LastContactedAt)

	p, err = svc.Update(ctx, "p1", UpdateInput{Status: strp("contacted")})
	require.NoError(t, err)
	assert.NotNil(t, p.LastContactedAt)

	// Any status may follow any other.
	p, err = svc.Update(ctx, "p1", UpdateInput{Status: strp("uncontacted")})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUncontacted, p.Status)

	_, err = svc.Update(ctx, "p1", UpdateInput{Status: strp("done")})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.Update(ctx, "p1", UpdateInput{})
	assert.ErrorIs(t, err, ErrEmptyUpdate)

	_, err = svc.Update(ctx, "nope", UpdateInput{Tags: strp("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func newLockFactory(t *testing.T) (*redis.Client, distlock.Factory) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb, distlock.NewFactory(rdb, nil, "prospect-identity", time.Minute)
}

func TestCreate_WithIdentityLock(t *testing.T) {
	rdb, factory := newLockFactory(t)
	svc := NewService(newMemRepo(), WithIdentityLock(factory, 50*time.Millisecond))
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{CompanyName: "Acme"})
	require.NoError(t, err, "lock is released after each call")
	_, err = svc.Create(ctx, CreateInput{CompanyName: "Globex"})
	require.NoError(t, err)

	holder := distlock.NewRedisLock(rdb, "prospect-identity", time.Minute)
	ok, err := holder.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = svc.Create(ctx, CreateInput{CompanyName: "Initech"})
	assert.ErrorIs(t, err, ErrImportBusy)
}
