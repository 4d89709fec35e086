package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/linecalc/linecalc/pkg/compute"
	"github.com/linecalc/linecalc/pkg/input"
	"github.com/linecalc/linecalc/pkg/metrics"
	"github.com/linecalc/linecalc/pkg/types"
	"github.com/linecalc/linecalc/server/internal/alerts"
	"github.com/linecalc/linecalc/server/internal/config"
	"github.com/linecalc/linecalc/server/internal/store"
)

// Settings is the hot-reloadable part of the configuration the service uses.
type Settings struct {
	Thresholds compute.RiskThresholds
	Line       config.LineConfig
}

// Service runs calculations on behalf of the HTTP API and the WebSocket hub.
// Every successful result is assigned an ID, stored and counted. The
// configured line is also published as gauges and evaluated by the alert
// engine.
//
// Service is safe for concurrent use.
type Service struct {
	store    *store.Store
	alerts   *alerts.Engine
	metrics  *metrics.Recorder
	settings atomic.Pointer[Settings]
}

// NewService creates a Service. alerts and rec may be nil.
func NewService(st *store.Store, eng *alerts.Engine, rec *metrics.Recorder, cfg *config.Config) *Service {
	s := &Service{store: st, alerts: eng, metrics: rec}
	s.Apply(cfg)
	return s
}

// Apply swaps in the risk thresholds and default line of cfg. Renaming the
// line drops the gauges and alert state kept under the old name.
func (s *Service) Apply(cfg *config.Config) {
	prev := s.settings.Swap(&Settings{Thresholds: cfg.Risk, Line: cfg.Line})
	if prev == nil || lineName(prev.Line.Name) == lineName(cfg.Line.Name) {
		return
	}
	old := lineName(prev.Line.Name)
	if s.metrics != nil {
		s.metrics.DeleteLine(old)
	}
	if s.alerts != nil {
		s.alerts.Forget(old)
	}
}

// Settings returns the active settings.
func (s *Service) Settings() Settings { return *s.settings.Load() }

// Store returns the results store.
func (s *Service) Store() *store.Store { return s.store }

// Reliability computes the series reliability of req.Components, or of the
// configured default line when req.Components is empty, and stores the result.
// Ad-hoc lines are not monitored: only DefaultLine feeds gauges and alerts.
func (s *Service) Reliability(req ReliabilityRequest) (*ReliabilityResponse, error) {
	resp, err := s.evaluate(req)
	if err != nil {
		return nil, err
	}
	s.store.Put(store.Result{ID: resp.ID, Kind: store.KindReliability, Input: req, Output: resp})
	return resp, nil
}

// DefaultLine computes the reliability of the configured line without
// storing it. Gauges and alert rules are updated, so polling this keeps the
// monitored line current.
func (s *Service) DefaultLine() (*ReliabilityResponse, error) {
	resp, err := s.evaluate(ReliabilityRequest{})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.SetLine(resp.Line, resp.ReliabilityResult)
	}
	if s.alerts != nil {
		s.alerts.Evaluate(resp.Line, resp.ReliabilityResult)
	}
	return resp, nil
}

// Recent returns up to limit live results, newest first. limit <= 0 means all.
func (s *Service) Recent(limit int) []ResultResponse {
	entries := s.store.List("")
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]ResultResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toResultResponse(e))
	}
	return out
}

func (s *Service) evaluate(req ReliabilityRequest) (*ReliabilityResponse, error) {
	start := time.Now()
	resp, err := s.reliability(req)
	s.observe(store.KindReliability, start, err)
	return resp, err
}

// lineName labels results whose line has no name.
func lineName(name string) string {
	if name == "" {
		return "custom"
	}
	return name
}

func (s *Service) reliability(req ReliabilityRequest) (*ReliabilityResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	set := s.Settings()
	line, unit, comps := req.Line, req.Unit, req.Components
	if len(comps) == 0 {
		comps, unit = set.Line.Components, set.Line.Unit
		if line == "" {
			line = set.Line.Name
		}
	}
	line = lineName(line)

	decimal, err := input.Components(comps, unit)
	if err != nil {
		return nil, err
	}
	res, err := compute.Reliability(decimal, set.Thresholds)
	if err != nil {
		return nil, err
	}
	return &ReliabilityResponse{
		ID:                resultID(req.ID),
		Line:              line,
		ReliabilityResult: res,
		Advice:            computeAdvice(res),
	}, nil
}

// EOQ computes the economic order quantity and, when requested, the cost curve.
func (s *Service) EOQ(req EOQRequest) (*EOQResponse, error) {
	start := time.Now()
	resp, err := s.eoq(req)
	s.observe(store.KindEOQ, start, err)
	if err != nil {
		return nil, err
	}
	s.store.Put(store.Result{ID: resp.ID, Kind: store.KindEOQ, Input: req, Output: resp})
	return resp, nil
}

func (s *Service) eoq(req EOQRequest) (*EOQResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	p := req.policy()
	res, err := compute.EOQ(p)
	if err != nil {
		return nil, err
	}
	resp := &EOQResponse{ID: resultID(req.ID), EOQResult: res}
	if req.CurvePoints > 0 {
		if resp.Curve, err = compute.CostCurve(p, req.CurvePoints); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// Stats summarises req.Values, or the comma-separated req.Data when Values
// is empty.
func (s *Service) Stats(req StatsRequest) (*StatsResponse, error) {
	start := time.Now()
	resp, err := s.stats(req)
	s.observe(store.KindStats, start, err)
	if err != nil {
		return nil, err
	}
	s.store.Put(store.Result{ID: resp.ID, Kind: store.KindStats, Input: req, Output: resp})
	return resp, nil
}

// StatsCSV summarises one column of a CSV document. An empty column selects
// the first numeric column.
func (s *Service) StatsCSV(r io.Reader, column string, bins int) (*StatsResponse, error) {
	values, err := input.ReadColumn(r, column)
	if err != nil {
		s.observe(store.KindStats, time.Now(), err)
		return nil, err
	}
	return s.Stats(StatsRequest{Values: values, Bins: bins})
}

func (s *Service) stats(req StatsRequest) (*StatsResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	values := req.Values
	if len(values) == 0 {
		var err error
		if values, err = input.ParseList(req.Data); err != nil {
			return nil, err
		}
	}
	sum, err := compute.Summarize(values)
	if err != nil {
		return nil, err
	}
	resp := &StatsResponse{ID: resultID(req.ID), Summary: sum}
	if req.Bins > 0 {
		if resp.Histogram, err = compute.Histogram(values, req.Bins); err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// Simulate runs the exponential Monte-Carlo demo.
func (s *Service) Simulate(req SimulateRequest) (*SimulateResponse, error) {
	start := time.Now()
	resp, err := s.simulate(req)
	s.observe(store.KindSimulate, start, err)
	if err != nil {
		return nil, err
	}
	s.store.Put(store.Result{ID: resp.ID, Kind: store.KindSimulate, Input: req, Output: resp})
	return resp, nil
}

func (s *Service) simulate(req SimulateRequest) (*SimulateResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	sim, err := compute.SimulateExponential(req.Rate, req.N, req.Seed)
	if err != nil {
		return nil, err
	}
	return &SimulateResponse{ID: resultID(req.ID), Simulation: sim}, nil
}

// Compute decodes raw as the request type for kind and runs it. It backs the
// WebSocket hub, where clients send {"kind": ..., "input": {...}} frames.
func (s *Service) Compute(kind string, raw json.RawMessage) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = json.RawMessage("{}")
	}
	switch kind {
	case store.KindReliability:
		var req ReliabilityRequest
		if err := decodeStrict(raw, &req); err != nil {
			return nil, err
		}
		return s.Reliability(req)
	case store.KindEOQ:
		var req EOQRequest
		if err := decodeStrict(raw, &req); err != nil {
			return nil, err
		}
		return s.EOQ(req)
	case store.KindStats:
		var req StatsRequest
		if err := decodeStrict(raw, &req); err != nil {
			return nil, err
		}
		return s.Stats(req)
	case store.KindSimulate:
		var req SimulateRequest
		if err := decodeStrict(raw, &req); err != nil {
			return nil, err
		}
		return s.Simulate(req)
	default:
		return nil, &compute.ValidationError{Field: "kind", Reason: fmt.Sprintf("unknown kind %q: want reliability|eoq|stats|simulate", kind)}
	}
}

func (s *Service) observe(kind string, start time.Time, err error) {
	if s.metrics != nil {
		s.metrics.Observe(kind, time.Since(start), err)
	}
	if err != nil {
		slog.Debug("api: calculation rejected", "kind", kind, "error_kind", compute.Kind(err), "error", err)
	}
}

func (r EOQRequest) policy() types.OrderPolicy {
	return types.OrderPolicy{AnnualDemand: r.AnnualDemand, OrderCost: r.OrderCost, HoldingCost: r.HoldingCost}
}

// decodeStrict decodes a JSON object into v, rejecting unknown fields.
// Malformed JSON is reported as a ValidationError so it maps to 400.
func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &compute.ValidationError{Field: "body", Reason: "invalid JSON: " + err.Error()}
	}
	return nil
}

func resultID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}
