package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ignite/prospect-desk/internal/domain"
	"github.com/ignite/prospect-desk/internal/identity"
	"github.com/ignite/prospect-desk/internal/service/prospect"
)

const prospectColumns = `id, source_id, company_name, contact_name, role, email, phone, website, tags, owner_name,
		normalized_email, normalized_domain, normalized_contact_name, origin, status,
		created_at, updated_at, last_contacted_at, archived_at, suppressed_at`

// prospectInsertCols is the number of placeholders one inserted row uses.
const prospectInsertCols = 17

// insertChunk bounds rows per INSERT statement to stay under the 65535
// bind parameter limit.
const insertChunk = 500

// ProspectRepo implements prospect.Repository against PostgreSQL.
type ProspectRepo struct{ db *sql.DB }

// NewProspectRepo creates a Postgres-backed prospect repository.
func NewProspectRepo(db *sql.DB) *ProspectRepo { return &ProspectRepo{db: db} }

func scanProspect(sc rowScanner) (*domain.Prospect, error) {
	p := &domain.Prospect{}
	err := sc.Scan(
		&p.ID, &p.SourceID, &p.CompanyName, &p.ContactName, &p.Role, &p.Email, &p.Phone,
		&p.Website, &p.Tags, &p.OwnerName,
		&p.NormalizedEmail, &p.NormalizedDomain, &p.NormalizedContactName, &p.Origin, &p.Status,
		&p.CreatedAt, &p.UpdatedAt, &p.LastContactedAt, &p.ArchivedAt, &p.SuppressedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProspectRepo) Get(ctx context.Context, id string) (*domain.Prospect, error) {
	p, err := scanProspect(r.db.QueryRowContext(ctx,
		`SELECT `+prospectColumns+` FROM prospects WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, prospect.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get prospect: %w", err)
	}
	return p, nil
}

func (r *ProspectRepo) List(ctx context.Context, f prospect.ListFilter) ([]domain.Prospect, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}

	conds := []string{}
	if f.Archived {
		conds = append(conds, "archived_at IS NOT NULL")
	} else {
		conds = append(conds, "archived_at IS NULL")
	}
	if f.Suppressed {
		conds = append(conds, "suppressed_at IS NOT NULL")
	} else {
		conds = append(conds, "suppressed_at IS NULL")
	}

	args := []interface{}{}
	idx := 1
	add := func(cond string, val interface{}) {
		conds = append(conds, fmt.Sprintf(cond, idx))
		args = append(args, val)
		idx++
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.SourceID != "" {
		add("source_id = $%d", f.SourceID)
	}
	if f.OwnerName != "" {
		add("LOWER(owner_name) = LOWER($%d)", f.OwnerName)
	}
	if f.Search != "" {
		n := idx
		conds = append(conds, fmt.Sprintf(
			"(company_name ILIKE $%d OR contact_name ILIKE $%d OR email ILIKE $%d)", n, n, n))
		args = append(args, "%"+escapeLike(f.Search)+"%")
		idx++
	}

	q := fmt.Sprintf(`SELECT %s FROM prospects WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		prospectColumns, strings.Join(conds, " AND "), idx, idx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list prospects: %w", err)
	}
	defer rows.Close()

	out := []domain.Prospect{}
	for rows.Next() {
		p, err := scanProspect(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prospect: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *ProspectRepo) lookup(ctx context.Context, q string, args ...interface{}) (*identity.Existing, error) {
	var e identity.Existing
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&e.ID, &e.Suppressed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup prospect identity: %w", err)
	}
	return &e, nil
}

func (r *ProspectRepo) ByEmail(ctx context.Context, email string) (*identity.Existing, error) {
	return r.lookup(ctx, `
		SELECT id, suppressed_at IS NOT NULL FROM prospects
		WHERE normalized_email = $1
		ORDER BY created_at LIMIT 1`, email)
}

func (r *ProspectRepo) ByDomainName(ctx context.Context, domainName, name string) (*identity.Existing, error) {
	return r.lookup(ctx, `
		SELECT id, suppressed_at IS NOT NULL FROM prospects
		WHERE normalized_domain = $1 AND normalized_contact_name = $2
		ORDER BY created_at LIMIT 1`, domainName, name)
}

func (r *ProspectRepo) IdentitySnapshot(ctx context.Context) ([]identity.Row, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, normalized_email, normalized_domain, normalized_contact_name,
		       suppressed_at IS NOT NULL
		FROM prospects`)
	if err != nil {
		return nil, fmt.Errorf("load identity snapshot: %w", err)
	}
	defer rows.Close()

	var out []identity.Row
	for rows.Next() {
		var row identity.Row
		if err := rows.Scan(&row.ID, &row.NormalizedEmail, &row.NormalizedDomain,
			&row.NormalizedContactName, &row.Suppressed); err != nil {
			return nil, fmt.Errorf("scan identity row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func insertArgs(p *domain.Prospect) []interface{} {
	return []interface{}{
		p.ID, p.SourceID, p.CompanyName, p.ContactName, p.Role, p.Email, p.Phone,
		p.Website, p.Tags, p.OwnerName,
		p.NormalizedEmail, p.NormalizedDomain, p.NormalizedContactName,
		p.Origin, string(p.Status), p.CreatedAt, p.UpdatedAt,
	}
}

func insertSQL(n int) string {
	var sb strings.Builder
	sb.WriteString(`INSERT INTO prospects
		(id, source_id, company_name, contact_name, role, email, phone, website, tags, owner_name,
		 normalized_email, normalized_domain, normalized_contact_name, origin, status,
		 created_at, updated_at)
		VALUES `)
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for c := 0; c < prospectInsertCols; c++ {
			if c > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", i*prospectInsertCols+c+1)
		}
		sb.WriteString(")")
	}
	return sb.String()
}

func (r *ProspectRepo) Insert(ctx context.Context, p *domain.Prospect) error {
	_, err := r.db.ExecContext(ctx, insertSQL(1), insertArgs(p)...)
	if isUniqueViolation(err) {
		return fmt.Errorf("insert prospect: %w", prospect.ErrIdentityConflict)
	}
	if err != nil {
		return fmt.Errorf("insert prospect: %w", err)
	}
	return nil
}

// InsertBatch writes every row inside one transaction, in multi-row
// statements of up to insertChunk rows.
func (r *ProspectRepo) InsertBatch(ctx context.Context, ps []domain.Prospect) error {
	if len(ps) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch insert: %w", err)
	}
	defer tx.Rollback()

	for start := 0; start < len(ps); start += insertChunk {
		end := start + insertChunk
		if end > len(ps) {
			end = len(ps)
		}
		chunk := ps[start:end]
		args := make([]interface{}, 0, len(chunk)*prospectInsertCols)
		for i := range chunk {
			args = append(args, insertArgs(&chunk[i])...)
		}
		if _, err := tx.ExecContext(ctx, insertSQL(len(chunk)), args...); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("batch insert prospects: %w", prospect.ErrIdentityConflict)
			}
			return fmt.Errorf("batch insert prospects: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch insert: %w", err)
	}
	return nil
}

func (r *ProspectRepo) Update(ctx context.Context, id string, u prospect.UpdateFields) (*domain.Prospect, error) {
	sets := []string{}
	args := []interface{}{}
	idx := 1
	add := func(col string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if u.Status != nil {
		add("status", string(*u.Status))
	}
	if u.OwnerName != nil {
		add("owner_name", *u.OwnerName)
	}
	if u.Tags != nil {
		add("tags", *u.Tags)
	}
	if u.TouchContacted {
		sets = append(sets, "last_contacted_at = NOW()")
	}
	sets = append(sets, "updated_at = NOW()")

	q := fmt.Sprintf(`UPDATE prospects SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), idx, prospectColumns)
	args = append(args, id)

	p, err := scanProspect(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, prospect.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update prospect: %w", err)
	}
	return p, nil
}

func (r *ProspectRepo) setTimestamp(ctx context.Context, id, column string, on bool) (*domain.Prospect, error) {
	expr := "NULL"
	if on {
		expr = fmt.Sprintf("COALESCE(%s, NOW())", column)
	}
	q := fmt.Sprintf(`UPDATE prospects SET %s = %s, updated_at = NOW() WHERE id = $1 RETURNING %s`,
		column, expr, prospectColumns)

	p, err := scanProspect(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, prospect.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("set %s: %w", column, err)
	}
	return p, nil
}

func (r *ProspectRepo) SetArchived(ctx context.Context, id string, archived bool) (*domain.Prospect, error) {
	return r.setTimestamp(ctx, id, "archived_at", archived)
}

func (r *ProspectRepo) SetSuppressed(ctx context.Context, id string, suppressed bool) (*domain.Prospect, error) {
	return r.setTimestamp(ctx, id, "suppressed_at", suppressed)
}

// DeleteArchived removes the notes and then the prospect in one
// transaction. The notes foreign key also cascades; deleting them first
// keeps the statement order explicit.
func (r *ProspectRepo) DeleteArchived(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete prospect: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM prospect_notes WHERE prospect_id = $1`, id); err != nil {
		return fmt.Errorf("delete prospect notes: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM prospects WHERE id = $1 AND archived_at IS NOT NULL`, id)
	if err != nil {
		return fmt.Errorf("delete prospect: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return prospect.ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete prospect: %w", err)
	}
	return nil
}

func (r *ProspectRepo) SourceExists(ctx context.Context, sourceID string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM sources WHERE id = $1)`, sourceID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check source: %w", err)
	}
	return ok, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern using the
// default backslash escape.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
