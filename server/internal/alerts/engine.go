package alerts

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/linecalc/linecalc/pkg/compute"
	"github.com/linecalc/linecalc/server/internal/config"
)

const (
	defaultCooldown   = 15 * time.Minute
	maxHistoryLen     = 200
	recentWindowHours = 1
)

// Alert represents a single alert event produced by the rule engine.
type Alert struct {
	ID         string     `json:"id"`
	RuleName   string     `json:"rule_name"`
	Line       string     `json:"line"`
	Severity   string     `json:"severity"`
	Condition  string     `json:"condition"`
	Message    string     `json:"message"`
	Value      float64    `json:"value"`
	Weakest    string     `json:"weakest"`
	FiredAt    time.Time  `json:"fired_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	State      string     `json:"state"` // "firing" | "resolved"
}

// Engine evaluates alert rules against reliability results and delivers
// webhook notifications when rules fire or resolve.
//
// Engine is safe for concurrent use.
type Engine struct {
	mu       sync.Mutex
	rules    []config.AlertRule
	webhooks []config.WebhookConfig
	active   map[alertKey]*Alert
	lastFire map[alertKey]time.Time // for cooldown; pruned once it expires
	history  []*Alert               // recently resolved alerts
	client   *http.Client
	now      func() time.Time
	inflight sync.WaitGroup
}

// alertKey identifies one rule evaluated against one line.
type alertKey struct {
	rule, line string
}

// New creates an Engine from the alert configuration.
// An Engine with empty rules is valid; Evaluate becomes a no-op.
func New(cfg config.AlertsConfig) *Engine {
	return &Engine{
		rules:    cfg.Rules,
		webhooks: cfg.Webhooks,
		active:   make(map[alertKey]*Alert),
		lastFire: make(map[alertKey]time.Time),
		client:   &http.Client{Timeout: 10 * time.Second},
		now:      time.Now,
	}
}

// Reconfigure swaps the rule set and webhook targets. Active alerts for rules
// that no longer exist are dropped.
func (e *Engine) Reconfigure(cfg config.AlertsConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules = cfg.Rules
	e.webhooks = cfg.Webhooks
	for key := range e.active {
		if !slices.ContainsFunc(cfg.Rules, func(r config.AlertRule) bool { return r.Name == key.rule }) {
			delete(e.active, key)
		}
	}
	e.pruneLocked(e.now())
}

// Forget drops all alert state held for line: firing alerts and cooldowns.
// Resolved history is kept.
func (e *Engine) Forget(line string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for key := range e.active {
		if key.line == line {
			delete(e.active, key)
		}
	}
	for key := range e.lastFire {
		if key.line == line {
			delete(e.lastFire, key)
		}
	}
}

// pruneLocked removes cooldown entries that no longer suppress anything.
// Keys whose alert is still firing are kept. e.mu must be held.
func (e *Engine) pruneLocked(now time.Time) {
	for key, at := range e.lastFire {
		if _, firing := e.active[key]; firing {
			continue
		}
		i := slices.IndexFunc(e.rules, func(r config.AlertRule) bool { return r.Name == key.rule })
		if i < 0 || now.Sub(at) > cooldownOf(e.rules[i]) {
			delete(e.lastFire, key)
		}
	}
}

func cooldownOf(rule config.AlertRule) time.Duration {
	if rule.Cooldown <= 0 {
		return defaultCooldown
	}
	return rule.Cooldown
}

// Evaluate tests all configured rules against the result computed for line.
// Alerts that fire are stored and webhook delivery is triggered asynchronously.
// Alerts that were firing but whose condition is now false are resolved.
func (e *Engine) Evaluate(line string, res compute.ReliabilityResult) {
	e.mu.Lock()
	rules := e.rules
	e.pruneLocked(e.now())
	e.mu.Unlock()
	if len(rules) == 0 {
		return
	}

	for _, rule := range rules {
		key := alertKey{rule: rule.Name, line: line}
		fires, value := evalCondition(rule.Condition, res)

		e.mu.Lock()
		now := e.now()

		if fires {
			if _, firing := e.active[key]; !firing && now.Sub(e.lastFire[key]) > cooldownOf(rule) {
				sev := rule.Severity
				if sev == "" {
					sev = "warning"
				}
				a := &Alert{
					ID:        uuid.NewString(),
					RuleName:  rule.Name,
					Line:      line,
					Severity:  sev,
					Condition: rule.Condition,
					Value:     value,
					Weakest:   res.Weakest.Name,
					Message: fmt.Sprintf("[%s] %s fired on %s: %s (value %.2f), weakest link %s",
						sev, rule.Name, line, rule.Condition, value, res.Weakest.Name),
					FiredAt: now,
					State:   "firing",
				}
				e.active[key] = a
				e.lastFire[key] = now
				alertCopy := *a
				e.mu.Unlock()

				slog.Warn("alert fired",
					"rule", rule.Name,
					"line", line,
					"value", value,
					"severity", sev,
				)
				e.dispatch(&alertCopy)
			} else {
				e.mu.Unlock()
			}
		} else {
			if a, ok := e.active[key]; ok && a.State == "firing" {
				resolved := now
				a.State = "resolved"
				a.ResolvedAt = &resolved
				delete(e.active, key)

				e.history = append(e.history, a)
				if len(e.history) > maxHistoryLen {
					e.history = e.history[len(e.history)-maxHistoryLen:]
				}
				alertCopy := *a
				e.mu.Unlock()

				slog.Info("alert resolved",
					"rule", rule.Name,
					"line", line,
				)
				e.dispatch(&alertCopy)
			} else {
				e.mu.Unlock()
			}
		}
	}
}

// Active returns copies of all currently firing alerts plus any alerts
// resolved within the past hour, newest first.
func (e *Engine) Active() []*Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	cutoff := e.now().Add(-recentWindowHours * time.Hour)
	out := make([]*Alert, 0, len(e.active))

	for _, a := range e.active {
		cp := *a
		out = append(out, &cp)
	}
	for _, a := range e.history {
		if a.ResolvedAt != nil && a.ResolvedAt.After(cutoff) {
			cp := *a
			out = append(out, &cp)
		}
	}
	slices.SortFunc(out, func(a, b *Alert) int { return b.FiredAt.Compare(a.FiredAt) })
	return out
}

// Wait blocks until all in-flight webhook deliveries have finished.
func (e *Engine) Wait() {
	e.inflight.Wait()
}

func (e *Engine) dispatch(a *Alert) {
	e.inflight.Add(1)
	go func() {
		defer e.inflight.Done()
		e.deliver(a)
	}()
}
