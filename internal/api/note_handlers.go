package api

import (
	"net/http"

	"github.com/ignite/prospect-desk/internal/domain"
	"github.com/ignite/prospect-desk/internal/pkg/httputil"
)

type createNoteRequest struct {
	Author string `json:"author" validate:"max=200"`
	Body   string `json:"body" validate:"required,max=10000"`
}

// ListNotes handles GET /prospects/{id}/notes
func (h *Handlers) ListNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "prospect")
	if !ok {
		return
	}
	notes, err := h.notes.List(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if notes == nil {
		notes = []domain.ProspectNote{}
	}
	httputil.OK(w, notes)
}

// CreateNote handles POST /prospects/{id}/notes
func (h *Handlers) CreateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "prospect")
	if !ok {
		return
	}
	var req createNoteRequest
	if !decode(w, r, &req) {
		return
	}
	n, err := h.notes.Create(r.Context(), id, req.Author, req.Body)
	if err != nil {
		writeError(w, err)
		return
	}
	httputil.Created(w, n)
}

// DeleteNote handles DELETE /notes/{id}
func (h *Handlers) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "note")
	if !ok {
		return
	}
	if err := h.notes.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	httputil.OK(w, map[string]bool{"success": true})
}
