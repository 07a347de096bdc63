package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ignite/prospect-desk/internal/domain"
	"github.com/ignite/prospect-desk/internal/pkg/httputil"
	"github.com/ignite/prospect-desk/internal/service/prospect"
)

// prospectFields are the caller-supplied columns of a prospect. Every
// field is optional; the service decides what is admissible.
type prospectFields struct {
	CompanyName string `json:"companyName" validate:"max=500"`
	ContactName string `json:"contactName" validate:"max=500"`
	Role        string `json:"role" validate:"max=500"`
	Email       string `json:"email" validate:"max=320"`
	Phone       string `json:"phone" validate:"max=100"`
	Website     string `json:"website" validate:"max=2048"`
	Tags        string `json:"tags" validate:"max=2000"`
	OwnerName   string `json:"ownerName" validate:"max=200"`
	Origin      string `json:"origin" validate:"max=100"`
	Status      string `json:"status"`
}

func (f prospectFields) input(sourceID string) prospect.CreateInput {
	return prospect.CreateInput{
		SourceID:    sourceID,
		CompanyName: f.CompanyName,
		ContactName: f.ContactName,
		Role:        f.Role,
		Email:       f.Email,
		Phone:       f.Phone,
		Website:     f.Website,
		Tags:        f.Tags,
		OwnerName:   f.OwnerName,
		Origin:      f.Origin,
		Status:      f.Status,
	}
}

type createProspectRequest struct {
	SourceID string `json:"sourceId" validate:"omitempty,uuid"`
	prospectFields
}

// bulkImportRequest rows are not validated here; malformed rows are counted
// and skipped by the import.
type bulkImportRequest struct {
	Prospects []prospectFields `json:"prospects"`
}

type updateProspectRequest struct {
	Status    *string `json:"status"`
	OwnerName *string `json:"ownerName" validate:"omitempty,max=200"`
	Tags      *string `json:"tags" validate:"omitempty,max=2000"`
}

// ListProspects handles GET /prospects
func (h *Handlers) ListProspects(w http.ResponseWriter, r *http.Request) {
	sourceID, ok := queryID(w, r, "sourceId")
	if !ok {
		return
	}
	q := r.URL.Query()
	limit, offset := pagination(r, 100, 1000)
	rows, err := h.prospects.List(r.Context(), prospect.ListFilter{
		Status:     q.Get("status"),
		SourceID:   sourceID,
		OwnerName:  q.Get("ownerName"),
		Search:     q.Get("search"),
		Archived:   queryFlag(r, "archived"),
		Suppressed: queryFlag(r, "suppressed"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if rows == nil {
		rows = []domain.Prospect{}
	}
	httputil.OK(w, rows)
}

// GetProspect handles GET /prospects/{id}
func (h *Handlers) GetProspect(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "prospect")
	if !ok {
		return
	}
	p, err := h.prospects.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, p)
}

// CreateProspect handles POST /prospects
func (h *Handlers) CreateProspect(w http.ResponseWriter, r *http.Request) {
	var req createProspectRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.prospects.Create(r.Context(), req.input(req.SourceID))
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.Created(w, p)
}

// BulkImportProspects handles POST /sources/{id}/prospects/bulk
func (h *Handlers) BulkImportProspects(w http.ResponseWriter, r *http.Request) {
	sourceID, ok := pathID(w, r, "source")
	if !ok {
		return
	}
	var req bulkImportRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if h.maxImportRows > 0 && len(req.Prospects) > h.maxImportRows {
		httputil.BadRequest(w, fmt.Sprintf("too many prospects: %d (max %d)", len(req.Prospects), h.maxImportRows))
		return
	}

	rows := make([]prospect.CreateInput, len(req.Prospects))
	for i, f := range req.Prospects {
		rows[i] = f.input(sourceID)
	}

	inserted, report, err := h.prospects.BulkImport(r.Context(), sourceID, rows)
	writeImportHeaders(w, report)
	recordImport(report)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.Created(w, inserted)
}

func writeImportHeaders(w http.ResponseWriter, rep prospect.ImportReport) {
	hdr := w.Header()
	hdr.Set("X-Import-Received", strconv.Itoa(rep.Received))
	hdr.Set("X-Import-Valid", strconv.Itoa(rep.Valid))
	hdr.Set("X-Import-Inserted", strconv.Itoa(rep.Inserted))
	hdr.Set("X-Import-Skipped-Invalid", strconv.Itoa(rep.SkippedInvalid))
	hdr.Set("X-Import-Skipped-Duplicate-Email", strconv.Itoa(rep.SkippedDuplicateEmail))
	hdr.Set("X-Import-Skipped-Duplicate-Fallback", strconv.Itoa(rep.SkippedDuplicateFallback))
	hdr.Set("X-Import-Skipped-Suppressed", strconv.Itoa(rep.SkippedSuppressed))
	hdr.Set("X-Import-Skipped-Other", strconv.Itoa(rep.SkippedOther))
}

// UpdateProspect handles PATCH /prospects/{id}
func (h *Handlers) UpdateProspect(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "prospect")
	if !ok {
		return
	}
	var req updateProspectRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.prospects.Update(r.Context(), id, prospect.UpdateInput{
		Status:    req.Status,
		OwnerName: req.OwnerName,
		Tags:      req.Tags,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, p)
}

// DeleteProspect handles DELETE /prospects/{id}
func (h *Handlers) DeleteProspect(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "prospect")
	if !ok {
		return
	}
	if err := h.prospects.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, map[string]bool{"success": true})
}

// ArchiveProspect handles PATCH /prospects/{id}/archive
func (h *Handlers) ArchiveProspect(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.prospects.Archive)
}

// RestoreProspect handles PATCH /prospects/{id}/restore
func (h *Handlers) RestoreProspect(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.prospects.Restore)
}

// SuppressProspect handles PATCH /prospects/{id}/suppress
func (h *Handlers) SuppressProspect(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.prospects.Suppress)
}

// UnsuppressProspect handles PATCH /prospects/{id}/unsuppress
func (h *Handlers) UnsuppressProspect(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, h.prospects.Unsuppress)
}

func (h *Handlers) lifecycle(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id string) (*domain.Prospect, error)) {
	id, ok := pathID(w, r, "prospect")
	if !ok {
		return
	}
	p, err := op(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, p)
}
