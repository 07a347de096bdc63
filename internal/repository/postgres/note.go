package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ignite/prospect-desk/internal/domain"
	"github.com/ignite/prospect-desk/internal/service/note"
)

// NoteRepo implements note.Repository against PostgreSQL.
type NoteRepo struct{ db *sql.DB }

// NewNoteRepo creates a Postgres-backed note repository.
func NewNoteRepo(db *sql.DB) *NoteRepo { return &NoteRepo{db: db} }

func (r *NoteRepo) ListByProspect(ctx context.Context, prospectID string) ([]domain.ProspectNote, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, prospect_id, author, body, created_at
		FROM prospect_notes
		WHERE prospect_id = $1
		ORDER BY created_at DESC`, prospectID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	out := []domain.ProspectNote{}
	for rows.Next() {
		var n domain.ProspectNote
		if err := rows.Scan(&n.ID, &n.ProspectID, &n.Author, &n.Body, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *NoteRepo) Create(ctx context.Context, n *domain.ProspectNote) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO prospect_notes (id, prospect_id, author, body, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		n.ID, n.ProspectID, n.Author, n.Body, n.CreatedAt)
	if isForeignKeyViolation(err) {
		return note.ErrProspectNotFound
	}
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

func (r *NoteRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM prospect_notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return note.ErrNotFound
	}
	return nil
}

func (r *NoteRepo) ProspectExists(ctx context.Context, prospectID string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM prospects WHERE id = $1)`, prospectID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check prospect: %w", err)
	}
	return ok, nil
}
