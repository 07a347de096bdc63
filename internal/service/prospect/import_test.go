package prospect

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/ignite/prospect-desk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkImport_SuppressedFallbackMatch(t *testing.T) {
	now := time.Now()
	repo := newMemRepo("src-1")
	repo.seed(domain.Prospect{ID: "jane", ContactName: "jane doe", Website: "acme.com", SuppressedAt: &now})
	svc := NewService(repo)

	_, report, err := svc.BulkImport(context.Background(), "src-1", []CreateInput{
		{CompanyName: "Acme", ContactName: "Jane   Doe", Website: "https://www.ACME.com"},
	})
	assert.ErrorIs(t, err, ErrNoValidProspects)
	assert.Equal(t, 1, report.SkippedSuppressed)
	assert.Equal(t, 0, report.SkippedDuplicateFallback)
	assert.Equal(t, 1, repo.count())
}

func TestBulkImport_SuppressedEmailMatch(t *testing.T) {
	now := time.Now()
	repo := newMemRepo("src-1")
	repo.seed(domain.Prospect{ID: "gone", Email: "gone@x.io", SuppressedAt: &now})
	svc := NewService(repo)

	_, report, err := svc.BulkImport(context.Background(), "src-1", []CreateInput{
		{Email: "GONE@x.io"},
		{Email: "fresh@x.io"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.SkippedSuppressed)
	assert.Equal(t, 0, report.SkippedDuplicateEmail)
	assert.Equal(t, 1, report.Inserted)
}

func TestBulkImport_IntraBatchDuplicateEmail(t *testing.T) {
	repo := newMemRepo("src-1")
	svc := NewService(repo)

	inserted, report, err := svc.BulkImport(context.Background(), "src-1", []CreateInput{
		{CompanyName: "First", Email: "same@acme.com"},
		{CompanyName: "Second", Email: " SAME@acme.com"},
	})
	require.NoError(t, err)
	require.Len(t, inserted, 1)
	assert.Equal(t, "First", inserted[0].CompanyName)
	assert.Equal(t, 1, report.SkippedDuplicateEmail)
	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, 1, repo.batches)
}

func TestBulkImport_IntraBatchDuplicateFallback(t *testing.T) {
	svc := NewService(newMemRepo("src-1"))

	inserted, report, err := svc.BulkImport(context.Background(), "src-1", []CreateInput{
		{ContactName: "Jane Doe", Email: "jane@acme.com", Website: "acme.com"},
		{ContactName: "jane  doe", Website: "www.acme.com"},
		{ContactName: "Jane Doe", Email: "jane.doe@acme.com", Website: "acme.com"},
	})
	require.NoError(t, err)
	assert.Len(t, inserted, 2, "a unique email is admitted despite the domain+name collision")
	assert.Equal(t, 1, report.SkippedDuplicateFallback)
}

func TestBulkImport_AllInvalid(t *testing.T) {
	repo := newMemRepo("src-1")
	svc := NewService(repo)

	inserted, report, err := svc.BulkImport(context.Background(), "src-1", []CreateInput{
		{CompanyName: "", ContactName: "", Email: ""},
	})
	assert.ErrorIs(t, err, ErrNoValidProspects)
	assert.Nil(t, inserted)
	assert.Equal(t, 1, report.Received)
	assert.Equal(t, 0, report.Valid)
	assert.Equal(t, 1, report.SkippedInvalid)
	assert.Equal(t, 0, repo.batches, "no empty insert")
}

func TestBulkImport_Empty(t *testing.T) {
	svc := NewService(newMemRepo("src-1"))
	_, report, err := svc.BulkImport(context.Background(), "src-1", nil)
	assert.ErrorIs(t, err, ErrNoValidProspects)
	assert.Equal(t, 0, report.Received)
}

func TestBulkImport_UnknownSource(t *testing.T) {
	svc := NewService(newMemRepo())
	_, _, err := svc.BulkImport(context.Background(), "nope", []CreateInput{{CompanyName: "Acme"}})
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestBulkImport_ReportAndDefaults(t *testing.T) {
	repo := newMemRepo("src-1")
	repo.seed(domain.Prospect{ID: "old", Email: "old@acme.com"})
	repo.seed(domain.Prospect{ID: "pair", ContactName: "Bob Ray", Website: "globex.com"})
	svc := NewService(repo)

	inserted, report, err := svc.BulkImport(context.Background(), "src-1", []CreateInput{
		{CompanyName: "Acme", Email: "new@acme.com"},                        // admitted
		{CompanyName: "Acme", Email: "Old@Acme.com"},                        // duplicate-email
		{ContactName: "bob  ray", Website: "https://globex.com"},            // duplicate-fallback
		{Website: "initech.com", Phone: "555-0100"},                         // invalid
		{CompanyName: "Initech", Status: "hot"},                             // other
		{CompanyName: "Umbrella", Origin: "conference", Status: "qualified"}, // admitted
	})
	require.NoError(t, err)

	assert.Equal(t, ImportReport{
		Received:                 6,
		Valid:                    5,
		Inserted:                 2,
		SkippedInvalid:           1,
		SkippedDuplicateEmail:    1,
		SkippedDuplicateFallback: 1,
		SkippedOther:             1,
	}, report)
	assert.Equal(t, 4, report.Skipped())
	assert.Equal(t, 2, report.Counts()[OutcomeAdmitted])

	require.Len(t, inserted, 2)
	assert.Equal(t, domain.OriginPurchased, inserted[0].Origin)
	assert.Equal(t, domain.StatusUncontacted, inserted[0].Status)
	assert.Equal(t, "src-1", *inserted[0].SourceID)
	assert.Equal(t, "conference", inserted[1].Origin)
	assert.Equal(t, domain.StatusQualified, inserted[1].Status)
	assert.NotEqual(t, inserted[0].ID, inserted[1].ID)
}

func TestBulkImport_ArchivedRowsStillBlock(t *testing.T) {
	now := time.Now()
	repo := newMemRepo("src-1")
	repo.seed(domain.Prospect{ID: "arch", Email: "a@b.com", ArchivedAt: &now})
	svc := NewService(repo)

	_, report, err := svc.BulkImport(context.Background(), "src-1", []CreateInput{{Email: "a@b.com"}})
	assert.ErrorIs(t, err, ErrNoValidProspects)
	assert.Equal(t, 1, report.SkippedDuplicateEmail)
}

func TestBulkImport_BatchConflictIsDuplicate(t *testing.T) {
	repo := newMemRepo("src-1")
	repo.failBatch = fmt.Errorf("insert: %w", ErrIdentityConflict)
	svc := NewService(repo)

	_, report, err := svc.BulkImport(context.Background(), "src-1", []CreateInput{{Email: "x@y.com"}})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Equal(t, 0, report.Inserted)
}

func TestBulkImport_StorageFailure(t *testing.T) {
	repo := newMemRepo("src-1")
	repo.failBatch = errBoom
	svc := NewService(repo)

	_, report, err := svc.BulkImport(context.Background(), "src-1", []CreateInput{
		{Email: "x@y.com"},
		{Email: "z@y.com"},
	})
	assert.ErrorIs(t, err, errBoom)
	assert.NotErrorIs(t, err, ErrDuplicate)

	// Rows that passed resolution but were never stored are not admitted.
	assert.Equal(t, 0, report.Inserted)
	assert.Equal(t, 0, report.Counts()[OutcomeAdmitted])
	assert.Empty(t, repo.rows)
}

func TestBulkImport_LargeGeneratedBatch(t *testing.T) {
	faker := gofakeit.New(42)
	repo := newMemRepo("src-1")
	svc := NewService(repo)

	var rows []CreateInput
	for i := 0; i < 200; i++ {
		rows = append(rows, CreateInput{
			CompanyName: faker.Company(),
			ContactName: faker.Name(),
			Email:       fmt.Sprintf("lead%d@%s", i, faker.DomainName()),
			Website:     faker.URL(),
		})
	}
	// Every row again, with noise in case and padding.
	for _, r := range rows[:50] {
		rows = append(rows, CreateInput{CompanyName: r.CompanyName, Email: "  " + r.Email + " "})
	}

	inserted, report, err := svc.BulkImport(context.Background(), "src-1", rows)
	require.NoError(t, err)
	assert.Len(t, inserted, 200)
	assert.Equal(t, 50, report.SkippedDuplicateEmail)
	assert.Equal(t, 200, repo.count())

	// A second run of the same payload admits nothing.
	_, report, err = svc.BulkImport(context.Background(), "src-1", rows)
	assert.ErrorIs(t, err, ErrNoValidProspects)
	assert.Equal(t, 250, report.SkippedDuplicateEmail)
}
