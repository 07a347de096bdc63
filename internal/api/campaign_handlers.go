package api

import (
	"net/http"
	"time"

	"github.com/ignite/prospect-desk/internal/domain"
	"github.com/ignite/prospect-desk/internal/pkg/httputil"
	"github.com/ignite/prospect-desk/internal/service/campaign"
)

type createCampaignRequest struct {
	SourceID    string     `json:"sourceId" validate:"omitempty,uuid"`
	Name        string     `json:"name" validate:"required,max=200"`
	Objective   string     `json:"objective" validate:"max=2000"`
	Audience    string     `json:"audience" validate:"max=2000"`
	Channel     string     `json:"channel" validate:"max=100"`
	Tone        string     `json:"tone" validate:"max=100"`
	Description string     `json:"description" validate:"max=5000"`
	Status      string     `json:"status" validate:"omitempty,oneof=draft active paused completed"`
	StartsAt    *time.Time `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt"`
}

type updateCampaignRequest struct {
	Name        *string    `json:"name" validate:"omitempty,max=200"`
	Objective   *string    `json:"objective" validate:"omitempty,max=2000"`
	Audience    *string    `json:"audience" validate:"omitempty,max=2000"`
	Channel     *string    `json:"channel" validate:"omitempty,max=100"`
	Tone        *string    `json:"tone" validate:"omitempty,max=100"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	Status      *string    `json:"status" validate:"omitempty,oneof=draft active paused completed"`
	StartsAt    *time.Time `json:"startsAt"`
	EndsAt      *time.Time `json:"endsAt"`
}

type createPostRequest struct {
	Platform    string     `json:"platform" validate:"required,max=50"`
	Content     string     `json:"content" validate:"required,max=10000"`
	Status      string     `json:"status" validate:"omitempty,oneof=draft scheduled published"`
	ScheduledAt *time.Time `json:"scheduledAt"`
}

type updatePostRequest struct {
	Platform    *string    `json:"platform" validate:"omitempty,max=50"`
	Content     *string    `json:"content" validate:"omitempty,max=10000"`
	Status      *string    `json:"status" validate:"omitempty,oneof=draft scheduled published"`
	ScheduledAt *time.Time `json:"scheduledAt"`
}

type suggestionsResponse struct {
	Drafts []domain.PostDraft `json:"drafts"`
	Source string             `json:"source"`
}

// ListCampaigns handles GET /campaigns
func (h *Handlers) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	sourceID, ok := queryID(w, r, "sourceId")
	if !ok {
		return
	}
	limit, offset := pagination(r, 50, 500)
	rows, err := h.campaigns.List(r.Context(), campaign.ListFilter{
		Status:   r.URL.Query().Get("status"),
		SourceID: sourceID,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if rows == nil {
		rows = []domain.Campaign{}
	}
	httputil.OK(w, rows)
}

// GetCampaign handles GET /campaigns/{id}
func (h *Handlers) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "campaign")
	if !ok {
		return
	}
	c, err := h.campaigns.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, c)
}

// CreateCampaign handles POST /campaigns
func (h *Handlers) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.campaigns.Create(r.Context(), campaign.CreateInput{
		SourceID:    req.SourceID,
		Name:        req.Name,
		Objective:   req.Objective,
		Audience:    req.Audience,
		Channel:     req.Channel,
		Tone:        req.Tone,
		Description: req.Description,
		Status:      req.Status,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.Created(w, c)
}

// UpdateCampaign handles PATCH /campaigns/{id}
func (h *Handlers) UpdateCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "campaign")
	if !ok {
		return
	}
	var req updateCampaignRequest
	if !decode(w, r, &req) {
		return
	}
	u := campaign.UpdateFields{
		Name:        req.Name,
		Objective:   req.Objective,
		Audience:    req.Audience,
		Channel:     req.Channel,
		Tone:        req.Tone,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	}
	if req.Status != nil {
		st := domain.CampaignStatus(*req.Status)
		u.Status = &st
	}
	c, err := h.campaigns.Update(r.Context(), id, u)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, c)
}

// DeleteCampaign handles DELETE /campaigns/{id}
func (h *Handlers) DeleteCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "campaign")
	if !ok {
		return
	}
	if err := h.campaigns.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, map[string]bool{"success": true})
}

// ListPosts handles GET /campaigns/{id}/posts
func (h *Handlers) ListPosts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "campaign")
	if !ok {
		return
	}
	posts, err := h.campaigns.ListPosts(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if posts == nil {
		posts = []domain.SocialPost{}
	}
	httputil.OK(w, posts)
}

// CreatePost handles POST /campaigns/{id}/posts
func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "campaign")
	if !ok {
		return
	}
	var req createPostRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.campaigns.CreatePost(r.Context(), id, campaign.PostInput{
		Platform:    req.Platform,
		Content:     req.Content,
		Status:      req.Status,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.Created(w, p)
}

// UpdatePost handles PATCH /posts/{id}
func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "post")
	if !ok {
		return
	}
	var req updatePostRequest
	if !decode(w, r, &req) {
		return
	}
	u := campaign.PostUpdate{
		Platform:    req.Platform,
		Content:     req.Content,
		ScheduledAt: req.ScheduledAt,
	}
	if req.Status != nil {
		st := domain.PostStatus(*req.Status)
		u.Status = &st
	}
	p, err := h.campaigns.UpdatePost(r.Context(), id, u)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, p)
}

// DeletePost handles DELETE /posts/{id}
func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "post")
	if !ok {
		return
	}
	if err := h.campaigns.DeletePost(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, map[string]bool{"success": true})
}

// SuggestPosts handles POST /campaigns/{id}/posts/suggestions. Drafts are
// returned, not saved.
func (h *Handlers) SuggestPosts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "campaign")
	if !ok {
		return
	}
	drafts, src, err := h.campaigns.SuggestPosts(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, suggestionsResponse{Drafts: drafts, Source: src})
}
