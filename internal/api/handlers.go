// Package api is the HTTP surface of the prospect desk.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ignite/prospect-desk/internal/domain"
	"github.com/ignite/prospect-desk/internal/export"
	"github.com/ignite/prospect-desk/internal/pkg/httputil"
	"github.com/ignite/prospect-desk/internal/pkg/validate"
	"github.com/ignite/prospect-desk/internal/service/campaign"
	"github.com/ignite/prospect-desk/internal/service/crm"
	"github.com/ignite/prospect-desk/internal/service/enrichment"
	"github.com/ignite/prospect-desk/internal/service/note"
	"github.com/ignite/prospect-desk/internal/service/prospect"
	"github.com/ignite/prospect-desk/internal/service/source"
)

// ProspectService is the prospect workflow used by the handlers.
type ProspectService interface {
	Get(ctx context.Context, id string) (*domain.Prospect, error)
	List(ctx context.Context, f prospect.ListFilter) ([]domain.Prospect, error)
	Create(ctx context.Context, in prospect.CreateInput) (*domain.Prospect, error)
	BulkImport(ctx context.Context, sourceID string, rows []prospect.CreateInput) ([]domain.Prospect, prospect.ImportReport, error)
	Update(ctx context.Context, id string, in prospect.UpdateInput) (*domain.Prospect, error)
	Archive(ctx context.Context, id string) (*domain.Prospect, error)
	Restore(ctx context.Context, id string) (*domain.Prospect, error)
	Suppress(ctx context.Context, id string) (*domain.Prospect, error)
	Unsuppress(ctx context.Context, id string) (*domain.Prospect, error)
	Delete(ctx context.Context, id string) error
}

// SourceService manages sources.
type SourceService interface {
	Get(ctx context.Context, id string) (*domain.Source, error)
	List(ctx context.Context) ([]domain.Source, error)
	Create(ctx context.Context, in source.CreateInput) (*domain.Source, error)
	Update(ctx context.Context, id string, u source.UpdateFields) (*domain.Source, error)
	Delete(ctx context.Context, id string) error
}

// NoteService manages prospect notes.
type NoteService interface {
	List(ctx context.Context, prospectID string) ([]domain.ProspectNote, error)
	Create(ctx context.Context, prospectID, author, body string) (*domain.ProspectNote, error)
	Delete(ctx context.Context, id string) error
}

// CampaignService manages campaigns and their social posts.
type CampaignService interface {
	Get(ctx context.Context, id string) (*domain.Campaign, error)
	List(ctx context.Context, f campaign.ListFilter) ([]domain.Campaign, error)
	Create(ctx context.Context, in campaign.CreateInput) (*domain.Campaign, error)
	Update(ctx context.Context, id string, u campaign.UpdateFields) (*domain.Campaign, error)
	Delete(ctx context.Context, id string) error
	ListPosts(ctx context.Context, campaignID string) ([]domain.SocialPost, error)
	CreatePost(ctx context.Context, campaignID string, in campaign.PostInput) (*domain.SocialPost, error)
	UpdatePost(ctx context.Context, id string, u campaign.PostUpdate) (*domain.SocialPost, error)
	DeletePost(ctx context.Context, id string) error
	SuggestPosts(ctx context.Context, campaignID string) ([]domain.PostDraft, string, error)
}

// EnrichmentService serves domain profiles and fit scores.
type EnrichmentService interface {
	Profile(ctx context.Context, host string) (*domain.DomainProfile, error)
	ScoreProspect(ctx context.Context, id string) (domain.FitScore, error)
	ScoreSource(ctx context.Context, sourceID string) ([]domain.FitScore, error)
}

// CRMService pushes prospects to Lead Desk.
type CRMService interface {
	Push(ctx context.Context, prospectID string) (string, error)
}

// Exporter writes source exports to object storage.
type Exporter interface {
	ExportSource(ctx context.Context, sourceID string) (*export.Result, error)
}

// Handlers contains all HTTP handlers.
type Handlers struct {
	prospects  ProspectService
	sources    SourceService
	notes      NoteService
	campaigns  CampaignService
	enrichment EnrichmentService
	crm        CRMService
	exporter   Exporter

	maxImportRows int
}

// Deps groups the services the handlers call. Exporter may be nil.
type Deps struct {
	Prospects     ProspectService
	Sources       SourceService
	Notes         NoteService
	Campaigns     CampaignService
	Enrichment    EnrichmentService
	CRM           CRMService
	Exporter      Exporter
	MaxImportRows int
}

// NewHandlers creates a new Handlers instance
func NewHandlers(d Deps) *Handlers {
	return &Handlers{
		prospects:     d.Prospects,
		sources:       d.Sources,
		notes:         d.Notes,
		campaigns:     d.Campaigns,
		enrichment:    d.Enrichment,
		crm:           d.CRM,
		exporter:      d.Exporter,
		maxImportRows: d.MaxImportRows,
	}
}

// pathID reads a UUID path parameter. A malformed id cannot name a stored
// row, so it is answered with 404.
func pathID(w http.ResponseWriter, r *http.Request, what string) (string, bool) {
	raw := chi.URLParam(r, "id")
	if _, err := uuid.Parse(raw); err != nil {
		httputil.NotFound(w, what+" not found")
		return "", false
	}
	return raw, true
}

// queryID reads an optional UUID query parameter, writing a 400 when it is
// present but malformed.
func queryID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return "", true
	}
	if _, err := uuid.Parse(raw); err != nil {
		httputil.BadRequest(w, name+" must be a UUID")
		return "", false
	}
	return raw, true
}

// decode parses and validates a JSON body, writing a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !httputil.Decode(w, r, dst) {
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, err)
		return false
	}
	return true
}

// queryFlag reads a boolean query parameter; "1" and "true" are true.
func queryFlag(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

// pagination reads limit and offset with a default and a cap.
func pagination(r *http.Request, defaultLimit, maxLimit int) (limit, offset int) {
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

type duplicateResponse struct {
	Error      string `json:"error"`
	ExistingID string `json:"existingId"`
}

var (
	notFoundErrors = []error{
		prospect.ErrNotFound, prospect.ErrSourceNotFound,
		source.ErrNotFound,
		note.ErrNotFound, note.ErrProspectNotFound,
		campaign.ErrNotFound, campaign.ErrPostNotFound, campaign.ErrSourceNotFound,
	}
	badRequestErrors = []error{
		prospect.ErrNoIdentifier, prospect.ErrInvalidStatus, prospect.ErrNoValidProspects,
		prospect.ErrNotArchived, prospect.ErrEmptyUpdate,
		source.ErrNameRequired, source.ErrEmptyUpdate,
		note.ErrEmptyBody,
		campaign.ErrNameRequired, campaign.ErrPostFields, campaign.ErrInvalidStatus,
		campaign.ErrInvalidSchedule, campaign.ErrScheduleRequired, campaign.ErrEmptyUpdate,
		enrichment.ErrInvalidHost, enrichment.ErrSuppressed,
		crm.ErrSuppressed,
	}
	unavailableErrors = []error{
		prospect.ErrImportBusy, crm.ErrNotConfigured, export.ErrNotConfigured,
	}
)

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// writeError maps service errors onto HTTP responses. Anything unmapped is
// logged and answered with a generic 500.
func writeError(w http.ResponseWriter, err error) {
	var dup *prospect.DuplicateError
	var verr validate.Errors
	switch {
	case errors.As(err, &dup):
		httputil.JSON(w, http.StatusConflict, duplicateResponse{Error: "DUPLICATE", ExistingID: dup.ExistingID})
	case errors.Is(err, prospect.ErrDuplicate):
		// A concurrent writer took an identity mid-batch; nothing was inserted.
		httputil.ErrorWithCode(w, http.StatusConflict, "identity taken by a concurrent write, retry the import", "DUPLICATE", nil)
	case errors.As(err, &verr):
		httputil.ErrorWithCode(w, http.StatusBadRequest, "validation failed", "VALIDATION", verr)
	case isAny(err, notFoundErrors):
		httputil.NotFound(w, err.Error())
	case isAny(err, badRequestErrors):
		httputil.BadRequest(w, err.Error())
	case isAny(err, unavailableErrors):
		httputil.ServiceUnavailable(w, err.Error())
	case errors.Is(err, crm.ErrUpstream):
		httputil.BadGateway(w, err)
	default:
		httputil.InternalError(w, err)
	}
}
