package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	variantscmd "github.com/goliatone/go-blog/internal/commands/variants"
	"github.com/goliatone/go-blog/internal/inflow"
	"github.com/goliatone/go-blog/internal/locale"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/resolver"
	"github.com/goliatone/go-blog/internal/variants"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// GroupPreviewer resolves a group without the published filter.
type GroupPreviewer interface {
	PreviewGroup(ctx context.Context, groupID string, requested locale.Locale) (*resolver.Resolution, error)
}

// StatsReader exposes recorded inflow counts.
type StatsReader interface {
	ViewCount(ctx context.Context, variantID uuid.UUID) (int, error)
	Sources(ctx context.Context, variantID uuid.UUID) (map[inflow.Source]int, error)
}

// AdminAPI registers authoring endpoints for variants.
type AdminAPI struct {
	basePath string
	variants variants.Service
	preview  GroupPreviewer
	stats    StatsReader
	commands *variantscmd.HandlerSet
	logger   interfaces.Logger
}

// AdminOption mutates the AdminAPI configuration.
type AdminOption func(*AdminAPI)

// NewAdminAPI constructs an AdminAPI instance.
func NewAdminAPI(opts ...AdminOption) *AdminAPI {
	api := &AdminAPI{
		basePath: "/admin/api",
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base API path (defaults to "/admin/api").
func WithBasePath(path string) AdminOption {
	return func(api *AdminAPI) {
		if api == nil {
			return
		}
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

func WithVariantService(service variants.Service) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.variants = service
		}
	}
}

func WithGroupPreviewer(preview GroupPreviewer) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.preview = preview
		}
	}
}

func WithStatsReader(stats StatsReader) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.stats = stats
		}
	}
}

// WithCommandHandlers routes status, schedule and short-code mutations
// through the command handlers instead of calling the service directly.
func WithCommandHandlers(set *variantscmd.HandlerSet) AdminOption {
	return func(api *AdminAPI) {
		if api != nil {
			api.commands = set
		}
	}
}

func WithAdminLogger(logger interfaces.Logger) AdminOption {
	return func(api *AdminAPI) {
		if api != nil && logger != nil {
			api.logger = logger
		}
	}
}

// Register attaches the admin endpoints to the provided mux.
func (api *AdminAPI) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: admin api is nil")
	}

	base := joinPath(api.basePath, "")
	root := joinPath(base, "variants")
	mux.HandleFunc("GET "+root, api.handleVariantList)
	mux.HandleFunc("POST "+root, api.handleVariantCreate)
	mux.HandleFunc("POST "+root+"/publish-due", api.handlePublishDue)
	mux.HandleFunc("GET "+root+"/{id}", api.handleVariantGet)
	mux.HandleFunc("PUT "+root+"/{id}", api.handleVariantUpdate)
	mux.HandleFunc("DELETE "+root+"/{id}", api.handleVariantDelete)
	mux.HandleFunc("POST "+root+"/{id}/translations", api.handleTranslationCreate)
	mux.HandleFunc("PUT "+root+"/{id}/status", api.handleStatus)
	mux.HandleFunc("PUT "+root+"/{id}/schedule", api.handleSchedule)
	mux.HandleFunc("POST "+root+"/{id}/short-code", api.handleShortCode)
	mux.HandleFunc("GET "+root+"/{id}/stats", api.handleStats)
	mux.HandleFunc("GET "+joinPath(base, "groups")+"/{group}", api.handleGroupPreview)
	return nil
}

type variantCreatePayload struct {
	Kind      string     `json:"kind,omitempty"`
	Locale    string     `json:"locale"`
	Slug      string     `json:"slug,omitempty"`
	Title     string     `json:"title"`
	Summary   string     `json:"summary,omitempty"`
	Body      string     `json:"body,omitempty"`
	Status    string     `json:"status,omitempty"`
	PublishAt *time.Time `json:"publish_at,omitempty"`
}

type variantUpdatePayload struct {
	Slug    *string `json:"slug,omitempty"`
	Title   *string `json:"title,omitempty"`
	Summary *string `json:"summary,omitempty"`
	Body    *string `json:"body,omitempty"`
}

type statusPayload struct {
	Status string `json:"status"`
}

type schedulePayload struct {
	PublishAt time.Time `json:"publish_at"`
}

type previewResponse struct {
	Variant         *variants.Variant   `json:"variant"`
	Group           []*variants.Variant `json:"group"`
	Path            string              `json:"path"`
	RequestedLocale string              `json:"requested_locale"`
	CanonicalURL    string              `json:"canonical_url"`
	Alternates      map[string]string   `json:"alternates,omitempty"`
}

type statsResponse struct {
	VariantID string         `json:"variant_id"`
	Views     int            `json:"views"`
	Sources   map[string]int `json:"sources"`
}

func (api *AdminAPI) available(w http.ResponseWriter) bool {
	if api == nil || api.variants == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return false
	}
	return true
}

func (api *AdminAPI) handleVariantList(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	kind, ok := variants.Kind(""), true
	if raw := strings.TrimSpace(r.URL.Query().Get("kind")); raw != "" {
		kind, ok = variants.ParseKind(raw)
		if !ok {
			writeError(w, variants.ErrKindInvalid)
			return
		}
	}
	list, err := api.variants.List(r.Context(), kind)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (api *AdminAPI) handleVariantCreate(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	var payload variantCreatePayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, err.Error())
		return
	}
	kind, ok := variants.ParseKind(payload.Kind)
	if !ok {
		writeError(w, variants.ErrKindInvalid)
		return
	}
	created, err := api.variants.Create(r.Context(), variants.CreateVariantRequest{
		Kind:      kind,
		Locale:    locale.Locale(strings.ToLower(strings.TrimSpace(payload.Locale))),
		Slug:      payload.Slug,
		Title:     payload.Title,
		Summary:   payload.Summary,
		Body:      payload.Body,
		Status:    variants.Status(strings.TrimSpace(payload.Status)),
		PublishAt: payload.PublishAt,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (api *AdminAPI) handleTranslationCreate(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	sourceID, err := parseUUID(r.PathValue("id"))
	if err != nil {
		badRequest(w, "invalid variant id")
		return
	}
	var payload variantCreatePayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, err.Error())
		return
	}
	created, err := api.variants.AddTranslation(r.Context(), variants.AddTranslationRequest{
		SourceID:  sourceID,
		Locale:    locale.Locale(strings.ToLower(strings.TrimSpace(payload.Locale))),
		Slug:      payload.Slug,
		Title:     payload.Title,
		Summary:   payload.Summary,
		Body:      payload.Body,
		Status:    variants.Status(strings.TrimSpace(payload.Status)),
		PublishAt: payload.PublishAt,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (api *AdminAPI) handleVariantGet(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		badRequest(w, "invalid variant id")
		return
	}
	record, err := api.variants.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (api *AdminAPI) handleVariantUpdate(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		badRequest(w, "invalid variant id")
		return
	}
	var payload variantUpdatePayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, err.Error())
		return
	}
	updated, err := api.variants.Update(r.Context(), variants.UpdateVariantRequest{
		ID:      id,
		Slug:    payload.Slug,
		Title:   payload.Title,
		Summary: payload.Summary,
		Body:    payload.Body,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (api *AdminAPI) handleVariantDelete(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		badRequest(w, "invalid variant id")
		return
	}
	if err := api.variants.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (api *AdminAPI) handleStatus(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		badRequest(w, "invalid variant id")
		return
	}
	var payload statusPayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, err.Error())
		return
	}
	status := variants.Status(strings.ToLower(strings.TrimSpace(payload.Status)))
	if api.commands != nil && api.commands.SetStatus != nil {
		err = api.commands.SetStatus.Execute(r.Context(), variantscmd.SetStatusCommand{VariantID: id, Status: status})
		api.respondWithVariant(w, r, id, err)
		return
	}
	updated, err := api.variants.SetStatus(r.Context(), id, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (api *AdminAPI) handleSchedule(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		badRequest(w, "invalid variant id")
		return
	}
	var payload schedulePayload
	if err := decodeJSON(r, &payload); err != nil {
		badRequest(w, err.Error())
		return
	}
	if api.commands != nil && api.commands.Schedule != nil {
		err = api.commands.Schedule.Execute(r.Context(), variantscmd.ScheduleVariantCommand{VariantID: id, PublishAt: payload.PublishAt})
		api.respondWithVariant(w, r, id, err)
		return
	}
	updated, err := api.variants.Schedule(r.Context(), id, payload.PublishAt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (api *AdminAPI) handleShortCode(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		badRequest(w, "invalid variant id")
		return
	}
	if api.commands != nil && api.commands.AssignShortCode != nil {
		err = api.commands.AssignShortCode.Execute(r.Context(), variantscmd.AssignShortCodeCommand{VariantID: id})
		api.respondWithVariant(w, r, id, err)
		return
	}
	updated, err := api.variants.AssignShortCode(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (api *AdminAPI) handlePublishDue(w http.ResponseWriter, r *http.Request) {
	if !api.available(w) {
		return
	}
	published, err := api.variants.PublishDue(r.Context(), time.Time{})
	if err != nil {
		writeError(w, err)
		return
	}
	api.logger.Info("http.admin.publish_due", "published_count", len(published))
	writeJSON(w, http.StatusOK, map[string]any{"published": published})
}

func (api *AdminAPI) handleStats(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.stats == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	id, err := parseUUID(r.PathValue("id"))
	if err != nil {
		badRequest(w, "invalid variant id")
		return
	}
	views, err := api.stats.ViewCount(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	sources, err := api.stats.Sources(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	out := statsResponse{VariantID: id.String(), Views: views, Sources: make(map[string]int, len(sources))}
	for source, count := range sources {
		out.Sources[string(source)] = count
	}
	writeJSON(w, http.StatusOK, out)
}

func (api *AdminAPI) handleGroupPreview(w http.ResponseWriter, r *http.Request) {
	if api == nil || api.preview == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}
	requested := locale.Default
	if raw := strings.TrimSpace(r.URL.Query().Get("locale")); raw != "" {
		loc, ok := locale.Parse(raw)
		if !ok {
			writeError(w, variants.ErrLocaleInvalid)
			return
		}
		requested = loc
	}
	resolution, err := api.preview.PreviewGroup(r.Context(), r.PathValue("group"), requested)
	if err != nil {
		if resolver.IsLookupFailure(err) {
			api.logger.Error("http.admin.preview_failed", "group_id", r.PathValue("group"), "error", err)
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, previewResponse{
		Variant:         resolution.Variant,
		Group:           resolution.Group,
		Path:            resolution.Path,
		RequestedLocale: resolution.RequestedLocale.String(),
		CanonicalURL:    resolution.Metadata.Canonical,
		Alternates:      resolution.Metadata.Alternates,
	})
}

func (api *AdminAPI) respondWithVariant(w http.ResponseWriter, r *http.Request, id uuid.UUID, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	record, err := api.variants.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}
