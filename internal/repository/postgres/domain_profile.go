package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ignite/prospect-desk/internal/domain"
)

// DomainProfileRepo implements enrichment.ProfileStore against PostgreSQL.
type DomainProfileRepo struct{ db *sql.DB }

// NewDomainProfileRepo creates a Postgres-backed domain profile cache.
func NewDomainProfileRepo(db *sql.DB) *DomainProfileRepo { return &DomainProfileRepo{db: db} }

func (r *DomainProfileRepo) GetProfile(ctx context.Context, host string) (*domain.DomainProfile, error) {
	p := &domain.DomainProfile{}
	err := r.db.QueryRowContext(ctx, `
		SELECT host, excerpt, status, fetched_at, COALESCE(error_detail, '')
		FROM domain_profiles WHERE host = $1`, host,
	).Scan(&p.Host, &p.Excerpt, &p.Status, &p.FetchedAt, &p.ErrorDetail)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get domain profile: %w", err)
	}
	return p, nil
}

func (r *DomainProfileRepo) SaveProfile(ctx context.Context, p *domain.DomainProfile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO domain_profiles (host, excerpt, status, fetched_at, error_detail)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		ON CONFLICT (host) DO UPDATE SET
			excerpt = EXCLUDED.excerpt,
			status = EXCLUDED.status,
			fetched_at = EXCLUDED.fetched_at,
			error_detail = EXCLUDED.error_detail`,
		p.Host, p.Excerpt, string(p.Status), p.FetchedAt, p.ErrorDetail)
	if err != nil {
		return fmt.Errorf("save domain profile: %w", err)
	}
	return nil
}
