package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ignite/prospect-desk/internal/domain"
	"github.com/ignite/prospect-desk/internal/service/campaign"
)

const campaignColumns = `id, source_id, name, objective, audience, channel, tone, description, status,
		starts_at, ends_at, created_at, updated_at`

const postColumns = `id, campaign_id, platform, content, status, scheduled_at, published_at,
		created_at, updated_at`

// CampaignRepo implements campaign.Repository against PostgreSQL.
type CampaignRepo struct{ db *sql.DB }

// NewCampaignRepo creates a Postgres-backed campaign repository.
func NewCampaignRepo(db *sql.DB) *CampaignRepo { return &CampaignRepo{db: db} }

func scanCampaign(sc rowScanner) (*domain.Campaign, error) {
	c := &domain.Campaign{}
	err := sc.Scan(&c.ID, &c.SourceID, &c.Name, &c.Objective, &c.Audience, &c.Channel, &c.Tone,
		&c.Description, &c.Status, &c.StartsAt, &c.EndsAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func scanPost(sc rowScanner) (*domain.SocialPost, error) {
	p := &domain.SocialPost{}
	err := sc.Scan(&p.ID, &p.CampaignID, &p.Platform, &p.Content, &p.Status,
		&p.ScheduledAt, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *CampaignRepo) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	c, err := scanCampaign(r.db.QueryRowContext(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, campaign.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get campaign: %w", err)
	}
	return c, nil
}

func (r *CampaignRepo) List(ctx context.Context, f campaign.ListFilter) ([]domain.Campaign, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	q := `SELECT ` + campaignColumns + ` FROM campaigns WHERE 1=1`
	args := []interface{}{}
	idx := 1
	if f.Status != "" {
		q += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, f.Status)
		idx++
	}
	if f.SourceID != "" {
		q += fmt.Sprintf(" AND source_id = $%d", idx)
		args = append(args, f.SourceID)
		idx++
	}
	q += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	out := []domain.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *CampaignRepo) Create(ctx context.Context, c *domain.Campaign) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO campaigns (`+campaignColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		c.ID, c.SourceID, c.Name, c.Objective, c.Audience, c.Channel, c.Tone,
		c.Description, string(c.Status), c.StartsAt, c.EndsAt, c.CreatedAt, c.UpdatedAt)
	if isForeignKeyViolation(err) {
		return campaign.ErrSourceNotFound
	}
	if err != nil {
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

func (r *CampaignRepo) Update(ctx context.Context, id string, u campaign.UpdateFields) (*domain.Campaign, error) {
	sets := []string{}
	args := []interface{}{}
	idx := 1
	add := func(col string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.Objective != nil {
		add("objective", *u.Objective)
	}
	if u.Audience != nil {
		add("audience", *u.Audience)
	}
	if u.Channel != nil {
		add("channel", *u.Channel)
	}
	if u.Tone != nil {
		add("tone", *u.Tone)
	}
	if u.Description != nil {
		add("description", *u.Description)
	}
	if u.Status != nil {
		add("status", string(*u.Status))
	}
	if u.StartsAt != nil {
		add("starts_at", *u.StartsAt)
	}
	if u.EndsAt != nil {
		add("ends_at", *u.EndsAt)
	}
	sets = append(sets, "updated_at = NOW()")

	q := fmt.Sprintf("UPDATE campaigns SET %s WHERE id = $%d RETURNING %s",
		joinComma(sets), idx, campaignColumns)
	args = append(args, id)

	c, err := scanCampaign(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, campaign.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update campaign: %w", err)
	}
	return c, nil
}

// Delete removes a campaign; social_posts cascade.
func (r *CampaignRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return campaign.ErrNotFound
	}
	return nil
}

func (r *CampaignRepo) ListPosts(ctx context.Context, campaignID string) ([]domain.SocialPost, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM social_posts
		WHERE campaign_id = $1
		ORDER BY created_at`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	out := []domain.SocialPost{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *CampaignRepo) GetPost(ctx context.Context, id string) (*domain.SocialPost, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM social_posts WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, campaign.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

func (r *CampaignRepo) CreatePost(ctx context.Context, p *domain.SocialPost) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO social_posts (`+postColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.CampaignID, p.Platform, p.Content, string(p.Status),
		p.ScheduledAt, p.PublishedAt, p.CreatedAt, p.UpdatedAt)
	if isForeignKeyViolation(err) {
		return campaign.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *CampaignRepo) UpdatePost(ctx context.Context, id string, u campaign.PostUpdate) (*domain.SocialPost, error) {
	sets := []string{}
	args := []interface{}{}
	idx := 1
	add := func(col string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if u.Platform != nil {
		add("platform", *u.Platform)
	}
	if u.Content != nil {
		add("content", *u.Content)
	}
	if u.Status != nil {
		add("status", string(*u.Status))
	}
	if u.ScheduledAt != nil {
		add("scheduled_at", *u.ScheduledAt)
	}
	if u.PublishedAt != nil {
		add("published_at", *u.PublishedAt)
	}
	sets = append(sets, "updated_at = NOW()")

	q := fmt.Sprintf("UPDATE social_posts SET %s WHERE id = $%d RETURNING %s",
		joinComma(sets), idx, postColumns)
	args = append(args, id)

	p, err := scanPost(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, campaign.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return p, nil
}

func (r *CampaignRepo) DeletePost(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM social_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return campaign.ErrPostNotFound
	}
	return nil
}

func joinComma(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
