package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ignite/prospect-desk/internal/export"
	"github.com/ignite/prospect-desk/internal/pkg/httputil"
)

// GetDomainProfile handles GET /domains/{host}
func (h *Handlers) GetDomainProfile(w http.ResponseWriter, r *http.Request) {
	prof, err := h.enrichment.Profile(r.Context(), chi.URLParam(r, "host"))
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, prof)
}

// ScoreProspect handles GET /prospects/{id}/fit
func (h *Handlers) ScoreProspect(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "prospect")
	if !ok {
		return
	}
	score, err := h.enrichment.ScoreProspect(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, score)
}

// ScoreSource handles POST /sources/{id}/score
func (h *Handlers) ScoreSource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "source")
	if !ok {
		return
	}
	scores, err := h.enrichment.ScoreSource(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, map[string]interface{}{"sourceId": id, "scores": scores})
}

// PushProspect handles POST /prospects/{id}/push
func (h *Handlers) PushProspect(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "prospect")
	if !ok {
		return
	}
	leadID, err := h.crm.Push(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, map[string]string{"leadId": leadID})
}

// ExportSource handles POST /sources/{id}/export
func (h *Handlers) ExportSource(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "source")
	if !ok {
		return
	}
	if h.exporter == nil {
		writeError(w, export.ErrNotConfigured)
		return
	}
	res, err := h.exporter.ExportSource(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, res)
}
