package api

import (
	"net/http"

	"github.com/ignite/prospect-desk/internal/domain"
	"github.com/ignite/prospect-desk/internal/pkg/httputil"
	"github.com/ignite/prospect-desk/internal/service/source"
)

type icpRequest struct {
	Industry    string `json:"industry" validate:"max=500"`
	CompanySize string `json:"companySize" validate:"max=100"`
	RoleFocus   string `json:"roleFocus" validate:"max=500"`
	MainAngle   string `json:"mainAngle" validate:"max=2000"`
}

type createSourceRequest struct {
	Name        string     `json:"name" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=5000"`
	ICP         icpRequest `json:"icp"`
}

type updateSourceRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	ICP         *struct {
		Industry    *string `json:"industry"`
		CompanySize *string `json:"companySize"`
		RoleFocus   *string `json:"roleFocus"`
		MainAngle   *string `json:"mainAngle"`
	} `json:"icp"`
}

// ListSources handles GET /sources
func (h *Handlers) ListSources(w http.ResponseWriter, r *http.Request) {
	rows, err := h.sources.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if rows == nil {
		rows = []domain.Source{}
	}
	httputil.OK(w, rows)
}

// GetSource handles GET /sources/{id}
func (h *Handlers) GetSource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "source")
	if !ok {
		return
	}
	s, err := h.sources.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, s)
}

// CreateSource handles POST /sources
func (h *Handlers) CreateSource(w http.ResponseWriter, r *http.Request) {
	var req createSourceRequest
	if !decode(w, r, &req) {
		return
	}
	s, err := h.sources.Create(r.Context(), source.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		ICP: domain.ICP{
			Industry:    req.ICP.Industry,
			CompanySize: req.ICP.CompanySize,
			RoleFocus:   req.ICP.RoleFocus,
			MainAngle:   req.ICP.MainAngle,
		},
	})
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.Created(w, s)
}

// UpdateSource handles PATCH /sources/{id}
func (h *Handlers) UpdateSource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "source")
	if !ok {
		return
	}
	var req updateSourceRequest
	if !decode(w, r, &req) {
		return
	}
	u := source.UpdateFields{Name: req.Name, Description: req.Description}
	if req.ICP != nil {
		u.ICPIndustry = req.ICP.Industry
		u.ICPCompanySize = req.ICP.CompanySize
		u.ICPRoleFocus = req.ICP.RoleFocus
		u.ICPMainAngle = req.ICP.MainAngle
	}
	s, err := h.sources.Update(r.Context(), id, u)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, s)
}

// DeleteSource handles DELETE /sources/{id}. Prospects of the source are
// kept with their source cleared.
func (h *Handlers) DeleteSource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "source")
	if !ok {
		return
	}
	if err := h.sources.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, map[string]bool{"success": true})
}
