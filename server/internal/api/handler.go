package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/linecalc/linecalc/pkg/compute"
	"github.com/linecalc/linecalc/server/internal/alerts"
	"github.com/linecalc/linecalc/server/internal/store"
)

// maxBodyBytes bounds request bodies; a CSV of 100k values fits comfortably.
const maxBodyBytes = 4 << 20

// Handler is the HTTP handler for all /api/v1/* endpoints.
type Handler struct {
	svc    *Service
	alerts *alerts.Engine
	mux    *http.ServeMux
}

// New creates a Handler wired to svc and registers all routes.
// eng may be nil, in which case /api/v1/alerts returns an empty list.
func New(svc *Service, eng *alerts.Engine) http.Handler {
	h := &Handler{svc: svc, alerts: eng, mux: http.NewServeMux()}

	h.mux.HandleFunc("/api/v1/health", h.health)
	h.mux.HandleFunc("/api/v1/reliability", h.reliability)
	h.mux.HandleFunc("/api/v1/reliability/default", h.reliabilityDefault)
	h.mux.HandleFunc("/api/v1/eoq", h.eoq)
	h.mux.HandleFunc("/api/v1/stats", h.stats)
	h.mux.HandleFunc("/api/v1/simulate", h.simulate)
	h.mux.HandleFunc("/api/v1/results", h.listResults)
	h.mux.HandleFunc("/api/v1/results/", h.getResult) // subtree, extracts {id}
	h.mux.HandleFunc("/api/v1/alerts", h.listAlerts)
	h.mux.HandleFunc("/api/v1/config/risk", h.riskConfig)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// health returns GET /api/v1/health.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	jsonResp(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"results": h.svc.Store().Count(),
	})
}

// reliability handles POST /api/v1/reliability.
func (h *Handler) reliability(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req ReliabilityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.svc.Reliability(req)
	respond(w, resp, err)
}

// reliabilityDefault handles GET /api/v1/reliability/default. The result is
// not stored.
func (h *Handler) reliabilityDefault(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	resp, err := h.svc.DefaultLine()
	respond(w, resp, err)
}

// eoq handles POST /api/v1/eoq.
func (h *Handler) eoq(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req EOQRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.svc.EOQ(req)
	respond(w, resp, err)
}

// stats handles POST /api/v1/stats. A text/csv body is read with ReadColumn;
// the column and bins come from the query string.
func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct != "text/csv" {
		var req StatsRequest
		if !decodeBody(w, r, &req) {
			return
		}
		resp, err := h.svc.Stats(req)
		respond(w, resp, err)
		return
	}

	q := r.URL.Query()
	bins := 0
	if v := q.Get("bins"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errResp(w, &compute.ValidationError{Field: "bins", Reason: "must be an integer"})
			return
		}
		bins = n
	}
	if bins < 0 || bins > 100 {
		errResp(w, &compute.ValidationError{Field: "bins", Value: float64(bins), Reason: "must be between 1 and 100 when set"})
		return
	}
	resp, err := h.svc.StatsCSV(http.MaxBytesReader(w, r.Body, maxBodyBytes), q.Get("column"), bins)
	respond(w, resp, err)
}

// simulate handles POST /api/v1/simulate.
func (h *Handler) simulate(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	var req SimulateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.svc.Simulate(req)
	respond(w, resp, err)
}

// listResults returns GET /api/v1/results[?kind=eoq]: live results, newest first.
func (h *Handler) listResults(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	entries := h.svc.Store().List(r.URL.Query().Get("kind"))
	out := make([]ResultResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toResultResponse(e))
	}
	jsonResp(w, http.StatusOK, out)
}

// getResult returns GET /api/v1/results/{id}.
func (h *Handler) getResult(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/results/")
	if id == "" {
		h.listResults(w, r)
		return
	}
	e, ok := h.svc.Store().Get(id)
	if !ok {
		jsonResp(w, http.StatusNotFound, errorResponse{Error: "result not found", Kind: "not_found"})
		return
	}
	jsonResp(w, http.StatusOK, toResultResponse(e))
}

// listAlerts returns GET /api/v1/alerts: firing and recently resolved alerts.
func (h *Handler) listAlerts(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	if h.alerts == nil {
		jsonResp(w, http.StatusOK, []*alerts.Alert{})
		return
	}
	jsonResp(w, http.StatusOK, h.alerts.Active())
}

// riskConfig returns GET /api/v1/config/risk: the active thresholds.
func (h *Handler) riskConfig(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	set := h.svc.Settings()
	jsonResp(w, http.StatusOK, RiskConfigResponse{RiskThresholds: set.Thresholds, Line: set.Line.Name})
}

// --- helpers ----------------------------------------------------------------

func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	jsonResp(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed", Kind: "method"})
	return false
}

// decodeBody reads a JSON request body into v. On failure it writes a 400
// and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		errResp(w, &compute.ValidationError{Field: "body", Reason: err.Error()})
		return false
	}
	if err := decodeStrict(data, v); err != nil {
		errResp(w, err)
		return false
	}
	return true
}

// respond writes v as a 200, or maps err to its status code.
func respond(w http.ResponseWriter, v any, err error) {
	if err != nil {
		errResp(w, err)
		return
	}
	jsonResp(w, http.StatusOK, v)
}

// statusFor maps a calculation error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, compute.ErrValidation), errors.Is(err, compute.ErrParse):
		return http.StatusBadRequest
	case errors.Is(err, compute.ErrDomain):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func errResp(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		slog.Error("api: calculation failed", "error", err)
	}
	jsonResp(w, code, errorResponse{Error: err.Error(), Kind: compute.Kind(err)})
}

func jsonResp(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// toResultResponse maps a store.Entry to its JSON representation.
func toResultResponse(e *store.Entry) ResultResponse {
	return ResultResponse{
		ID:        e.Result.ID,
		Kind:      e.Result.Kind,
		Input:     e.Result.Input,
		Output:    e.Result.Output,
		UpdatedAt: e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
