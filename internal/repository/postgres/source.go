package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ignite/prospect-desk/internal/domain"
	"github.com/ignite/prospect-desk/internal/service/source"
)

const sourceColumns = `id, name, description, icp_industry, icp_company_size, icp_role_focus, icp_main_angle,
		created_at, updated_at`

// SourceRepo implements source.Repository against PostgreSQL.
type SourceRepo struct{ db *sql.DB }

// NewSourceRepo creates a Postgres-backed source repository.
func NewSourceRepo(db *sql.DB) *SourceRepo { return &SourceRepo{db: db} }

func scanSource(sc rowScanner) (*domain.Source, error) {
	s := &domain.Source{}
	err := sc.Scan(&s.ID, &s.Name, &s.Description,
		&s.ICP.Industry, &s.ICP.CompanySize, &s.ICP.RoleFocus, &s.ICP.MainAngle,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SourceRepo) Get(ctx context.Context, id string) (*domain.Source, error) {
	s, err := scanSource(r.db.QueryRowContext(ctx,
		`SELECT `+sourceColumns+` FROM sources WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, source.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}
	return s, nil
}

func (r *SourceRepo) List(ctx context.Context) ([]domain.Source, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+sourceColumns+` FROM sources ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	out := []domain.Source{}
	for rows.Next() {
		s, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func (r *SourceRepo) Create(ctx context.Context, s *domain.Source) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sources (`+sourceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.Name, s.Description,
		s.ICP.Industry, s.ICP.CompanySize, s.ICP.RoleFocus, s.ICP.MainAngle,
		s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert source: %w", err)
	}
	return nil
}

func (r *SourceRepo) Update(ctx context.Context, id string, u source.UpdateFields) (*domain.Source, error) {
	sets := []string{}
	args := []interface{}{}
	idx := 1
	add := func(col string, val *string) {
		if val == nil {
			return
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, *val)
		idx++
	}
	add("name", u.Name)
	add("description", u.Description)
	add("icp_industry", u.ICPIndustry)
	add("icp_company_size", u.ICPCompanySize)
	add("icp_role_focus", u.ICPRoleFocus)
	add("icp_main_angle", u.ICPMainAngle)
	sets = append(sets, "updated_at = NOW()")

	q := fmt.Sprintf(`UPDATE sources SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), idx, sourceColumns)
	args = append(args, id)

	s, err := scanSource(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, source.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update source: %w", err)
	}
	return s, nil
}

// Delete removes a source; the prospects.source_id foreign key is
// ON DELETE SET NULL.
func (r *SourceRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sources WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete source: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return source.ErrNotFound
	}
	return nil
}
