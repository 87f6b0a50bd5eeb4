package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"mercator-hq/switchyard/pkg/config"
	"mercator-hq/switchyard/pkg/journal"
	"mercator-hq/switchyard/pkg/models"
	"mercator-hq/switchyard/pkg/routing"
	"mercator-hq/switchyard/pkg/telemetry/logging"
)

type handlers struct {
	service    *routing.Service
	catalog    CatalogStatus
	journal    journal.Storage
	queryLimit config.QueryConfig
	maxBody    int64
	logger     *slog.Logger
}

// decode reads a JSON body into v and validates it. It writes the error
// response itself and reports whether the handler should continue.
func (h *handlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, errTypeTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		case errors.Is(err, io.EOF):
			writeError(w, http.StatusBadRequest, errTypeInvalidRequest, "request body is empty")
		default:
			writeError(w, http.StatusBadRequest, errTypeInvalidRequest, "invalid JSON: "+err.Error())
		}
		return false
	}

	if err := validateRequest(v); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			writeValidationError(w, verr)
		} else {
			writeError(w, http.StatusBadRequest, errTypeInvalidRequest, err.Error())
		}
		return false
	}
	return true
}

// route handles POST /v1/route.
func (h *handlers) route(w http.ResponseWriter, r *http.Request) {
	var req RouteRequest
	if !h.decode(w, r, &req) {
		return
	}

	requestID := logging.GetRequestID(r.Context())
	d := h.service.Route(r.Context(), requestID, req.Query, req.Preference, toFileMeta(req.Files))

	writeJSON(w, http.StatusOK, RouteResponse{
		RequestID: requestID,
		Decision:  d,
		Summary:   d.Summary(),
	})
}

// analyze handles POST /v1/analyze.
func (h *handlers) analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !h.decode(w, r, &req) {
		return
	}

	analysis := h.service.Analyze(r.Context(), req.Query, toFileMeta(req.Files))
	writeJSON(w, http.StatusOK, analysis)
}

// ModelsResponse is the body of GET /v1/models.
type ModelsResponse struct {
	DefaultModel string                   `json:"default_model"`
	Models       []models.ModelDescriptor `json:"models"`
}

func (h *handlers) listModels(w http.ResponseWriter, r *http.Request) {
	router := h.service.Router()
	writeJSON(w, http.StatusOK, ModelsResponse{
		DefaultModel: router.Options().DefaultModel,
		Models:       router.ListModels(),
	})
}

func (h *handlers) getModel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, ok := h.service.Router().Registry().Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, errTypeNotFound, fmt.Sprintf("model %q not found", id))
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// RulesResponse is the body of GET /v1/rules. Rules are in evaluation order.
type RulesResponse struct {
	VisionOverride bool           `json:"vision_override"`
	Rules          []routing.Rule `json:"rules"`
}

func (h *handlers) listRules(w http.ResponseWriter, r *http.Request) {
	router := h.service.Router()
	writeJSON(w, http.StatusOK, RulesResponse{
		VisionOverride: router.RuleSet().VisionOverride(),
		Rules:          router.ListRules(),
	})
}

// StatsResponse is the body of GET /v1/stats.
type StatsResponse struct {
	Routing *routing.RoutingStats `json:"routing"`
	Catalog any                   `json:"catalog,omitempty"`
}

func (h *handlers) stats(w http.ResponseWriter, r *http.Request) {
	resp := StatsResponse{Routing: h.service.Stats().Snapshot()}
	if h.catalog != nil {
		resp.Catalog = h.catalog.Status()
	}
	writeJSON(w, http.StatusOK, resp)
}

// DecisionsResponse is the body of GET /v1/decisions.
type DecisionsResponse struct {
	Records []*journal.Record `json:"records"`
	Total   int64             `json:"total"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}

func (h *handlers) listDecisions(w http.ResponseWriter, r *http.Request) {
	q, ok := h.journalQuery(w, r)
	if !ok {
		return
	}

	records, err := h.journal.Query(r.Context(), q)
	if err != nil {
		h.journalError(w, r, err)
		return
	}
	total, err := h.journal.Count(r.Context(), q)
	if err != nil {
		h.journalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, DecisionsResponse{
		Records: records,
		Total:   total,
		Limit:   q.Limit,
		Offset:  q.Offset,
	})
}

func (h *handlers) summarizeDecisions(w http.ResponseWriter, r *http.Request) {
	q, ok := h.journalQuery(w, r)
	if !ok {
		return
	}

	summary, err := h.journal.Summarize(r.Context(), q)
	if err != nil {
		h.journalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// journalQuery parses and validates journal query parameters.
func (h *handlers) journalQuery(w http.ResponseWriter, r *http.Request) (*journal.Query, bool) {
	if h.journal == nil {
		writeError(w, http.StatusNotFound, errTypeDisabled, "decision journal is not enabled")
		return nil, false
	}

	q, err := ParseJournalQuery(r.URL.Query())
	if err == nil {
		journal.ApplyQueryDefaults(q, h.queryLimit)
		err = journal.ValidateQuery(q, h.queryLimit)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, errTypeInvalidRequest, err.Error())
		return nil, false
	}
	return q, true
}

func (h *handlers) journalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "journal query failed", "error", err)
	writeError(w, http.StatusInternalServerError, errTypeInternal, "journal query failed")
}

// ParseJournalQuery builds a journal query from URL parameters: model,
// provider, branch, rule_id, request_id, start and end (RFC 3339), limit,
// offset and sort (asc|desc).
func ParseJournalQuery(v url.Values) (*journal.Query, error) {
	q := &journal.Query{
		Model:     v.Get("model"),
		Provider:  v.Get("provider"),
		Branch:    v.Get("branch"),
		RuleID:    v.Get("rule_id"),
		RequestID: v.Get("request_id"),
		SortOrder: v.Get("sort"),
	}

	for _, p := range []struct {
		name string
		dst  **time.Time
	}{
		{"start", &q.StartTime},
		{"end", &q.EndTime},
	} {
		if s := v.Get(p.name); s != "" {
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				return nil, &journal.QueryError{Field: p.name, Reason: "must be an RFC 3339 timestamp"}
			}
			*p.dst = &t
		}
	}

	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"limit", &q.Limit},
		{"offset", &q.Offset},
	} {
		if s := v.Get(p.name); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				return nil, &journal.QueryError{Field: p.name, Reason: "must be an integer"}
			}
			*p.dst = n
		}
	}

	return q, nil
}
