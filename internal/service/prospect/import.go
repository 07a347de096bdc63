package prospect

import (
	"context"
	"errors"
	"fmt"

	"github.com/ignite/prospect-desk/internal/domain"
	"github.com/ignite/prospect-desk/internal/identity"
	"github.com/ignite/prospect-desk/internal/pkg/logger"
)

// Outcome is the per-row verdict of a bulk import.
type Outcome string

const (
	OutcomeAdmitted          Outcome = "admitted"
	OutcomeInvalid           Outcome = "invalid"
	OutcomeDuplicateEmail    Outcome = "duplicate-email"
	OutcomeDuplicateFallback Outcome = "duplicate-fallback"
	OutcomeSuppressed        Outcome = "suppressed"
	OutcomeOther             Outcome = "other"
)

// ImportReport counts what happened to each row of a bulk import.
type ImportReport struct {
	Received int
	// Valid counts rows that carried at least one usable identifier.
	Valid    int
	Inserted int

	SkippedInvalid           int
	SkippedDuplicateEmail    int
	SkippedDuplicateFallback int
	SkippedSuppressed        int
	SkippedOther             int
}

// Skipped returns the number of rows that were not admitted.
func (r ImportReport) Skipped() int {
	return r.SkippedInvalid + r.SkippedDuplicateEmail + r.SkippedDuplicateFallback +
		r.SkippedSuppressed + r.SkippedOther
}

// Counts returns the row count per outcome. Admitted counts only rows that
// were stored, so a failed insert reports none.
func (r ImportReport) Counts() map[Outcome]int {
	return map[Outcome]int{
		OutcomeAdmitted:          r.Inserted,
		OutcomeInvalid:           r.SkippedInvalid,
		OutcomeDuplicateEmail:    r.SkippedDuplicateEmail,
		OutcomeDuplicateFallback: r.SkippedDuplicateFallback,
		OutcomeSuppressed:        r.SkippedSuppressed,
		OutcomeOther:             r.SkippedOther,
	}
}

func (r *ImportReport) record(o Outcome) {
	switch o {
	case OutcomeInvalid:
		r.SkippedInvalid++
	case OutcomeDuplicateEmail:
		r.SkippedDuplicateEmail++
	case OutcomeDuplicateFallback:
		r.SkippedDuplicateFallback++
	case OutcomeSuppressed:
		r.SkippedSuppressed++
	case OutcomeOther:
		r.SkippedOther++
	}
}

// BulkImport admits many candidates into one source.
//
// The identity columns of every stored prospect are loaded once. Rows are
// then resolved in input order against that snapshot and against the rows
// already admitted from this payload, so two rows of one payload never both
// get in. A row whose match is a suppressed prospect is counted as
// suppressed rather than duplicate. All admitted rows are written in a
// single batch; when none are admitted the call fails with
// ErrNoValidProspects and the report is still returned.
func (s *Service) BulkImport(ctx context.Context, sourceID string, rows []CreateInput) ([]domain.Prospect, ImportReport, error) {
	report := ImportReport{Received: len(rows)}
	if err := s.requireSource(ctx, sourceID); err != nil {
		return nil, report, err
	}

	var admitted []domain.Prospect
	err := s.withIdentityLock(ctx, func() error {
		snap, err := s.repo.IdentitySnapshot(ctx)
		if err != nil {
			return fmt.Errorf("load identity snapshot: %w", err)
		}
		existing := identity.IndexRows(snap)
		seen := identity.NewIndex()

		for _, in := range rows {
			in.SourceID = sourceID
			outcome, keys, err := s.classify(ctx, in, existing, seen)
			if err != nil {
				return err
			}
			report.record(outcome)
			if outcome != OutcomeAdmitted {
				continue
			}
			// classify already validated the status.
			status, _ := parseStatus(in.Status)
			p := s.build(in, keys, status, domain.OriginPurchased)
			seen.Add(p.ID, keys, false)
			admitted = append(admitted, *p)
		}
		report.Valid = report.Received - report.SkippedInvalid

		if len(admitted) == 0 {
			return ErrNoValidProspects
		}
		if err := s.repo.InsertBatch(ctx, admitted); err != nil {
			if errors.Is(err, ErrIdentityConflict) {
				return fmt.Errorf("%w: %w", ErrDuplicate, err)
			}
			return fmt.Errorf("insert batch: %w", err)
		}
		report.Inserted = len(admitted)
		return nil
	})

	logger.Info("bulk import finished",
		"source_id", sourceID,
		"received", report.Received,
		"inserted", report.Inserted,
		"skipped_invalid", report.SkippedInvalid,
		"skipped_duplicate_email", report.SkippedDuplicateEmail,
		"skipped_duplicate_fallback", report.SkippedDuplicateFallback,
		"skipped_suppressed", report.SkippedSuppressed,
		"skipped_other", report.SkippedOther,
	)
	if err != nil {
		return nil, report, err
	}
	return admitted, report, nil
}

func (s *Service) classify(ctx context.Context, in CreateInput, existing, seen *identity.Index) (Outcome, identity.Keys, error) {
	if !identity.HasIdentifier(in.CompanyName, in.ContactName, in.Email) {
		return OutcomeInvalid, identity.Keys{}, nil
	}
	keys := identity.KeysFor(in.ContactName, in.Email, in.Website)

	res, err := identity.Resolve(ctx, existing, keys)
	if err != nil {
		return "", keys, err
	}
	if !res.Duplicate() {
		if res, err = identity.Resolve(ctx, seen, keys); err != nil {
			return "", keys, err
		}
	}
	switch {
	case res.Suppressed:
		return OutcomeSuppressed, keys, nil
	case res.Rule == identity.EmailRule:
		return OutcomeDuplicateEmail, keys, nil
	case res.Rule == identity.FallbackRule:
		return OutcomeDuplicateFallback, keys, nil
	}

	if _, err := parseStatus(in.Status); err != nil {
		return OutcomeOther, keys, nil
	}
	return OutcomeAdmitted, keys, nil
}
