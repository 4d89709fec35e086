package alerts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// deliver sends webhook notifications for a to all configured targets.
// Errors are logged but do not affect the caller.
func (e *Engine) deliver(a *Alert) {
	e.mu.Lock()
	webhooks := e.webhooks
	e.mu.Unlock()

	for _, wh := range webhooks {
		url := wh.URL()
		if url == "" {
			continue
		}

		var payload any
		switch wh.Type {
		case "slack":
			payload = slackPayload(a)
		case "teams":
			payload = teamsPayload(a)
		case "http":
			payload = httpPayload(a)
		default:
			slog.Warn("alerts: unknown webhook type, skipping", "type", wh.Type)
			continue
		}

		if err := e.post(url, payload); err != nil {
			slog.Error("alerts: webhook delivery failed",
				"type", wh.Type,
				"rule", a.RuleName,
				"line", a.Line,
				"err", err,
			)
			continue
		}
		slog.Debug("alerts: webhook delivered",
			"type", wh.Type,
			"rule", a.RuleName,
			"line", a.Line,
			"state", a.State,
		)
	}
}

// --- Slack ---

type slackMessage struct {
	Text   string       `json:"text"` // fallback for notifications
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type   string      `json:"type"`
	Text   *slackText  `json:"text,omitempty"`
	Fields []slackText `json:"fields,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func slackPayload(a *Alert) slackMessage {
	md := func(s string) slackText { return slackText{Type: "mrkdwn", Text: s} }
	head := md(fmt.Sprintf("*%s %s*\n%s", stateTag(a), a.Line, a.Message))
	fields := []slackText{
		md("*Line*\n" + a.Line),
		md("*Rule*\n" + a.RuleName + " (`" + a.Condition + "`)"),
		md(fmt.Sprintf("*Value*\n%.2f%%", a.Value)),
		md("*Weakest station*\n" + a.Weakest),
	}
	return slackMessage{
		Text: fmt.Sprintf("%s %s: %s", stateTag(a), a.Line, a.RuleName),
		Blocks: []slackBlock{
			{Type: "section", Text: &head},
			{Type: "section", Fields: fields},
		},
	}
}

// --- Teams ---

type teamsCard struct {
	Type       string         `json:"@type"`
	Context    string         `json:"@context"`
	ThemeColor string         `json:"themeColor"`
	Summary    string         `json:"summary"`
	Title      string         `json:"title"`
	Sections   []teamsSection `json:"sections"`
}

type teamsSection struct {
	ActivityTitle string      `json:"activityTitle"`
	Text          string      `json:"text,omitempty"`
	Facts         []teamsFact `json:"facts"`
}

type teamsFact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func teamsPayload(a *Alert) teamsCard {
	facts := []teamsFact{
		{Name: "Line", Value: a.Line},
		{Name: "Rule", Value: a.RuleName},
		{Name: "Condition", Value: a.Condition},
		{Name: "Value", Value: fmt.Sprintf("%.2f%%", a.Value)},
		{Name: "Weakest station", Value: a.Weakest},
		{Name: "Fired at", Value: a.FiredAt.Format(time.RFC3339)},
	}
	if a.ResolvedAt != nil {
		facts = append(facts, teamsFact{Name: "Resolved at", Value: a.ResolvedAt.Format(time.RFC3339)})
	}
	return teamsCard{
		Type:       "MessageCard",
		Context:    "http://schema.org/extensions",
		ThemeColor: stateColor(a),
		Summary:    a.Line + ": " + a.RuleName,
		Title:      fmt.Sprintf("%s %s reliability", stateTag(a), a.Line),
		Sections: []teamsSection{{
			ActivityTitle: a.RuleName + " " + a.State,
			Text:          a.Message,
			Facts:         facts,
		}},
	}
}

// --- generic HTTP ---

// lineEvent is the body posted to "http" webhooks.
type lineEvent struct {
	Event          string     `json:"event"` // line.alert.firing | line.alert.resolved
	Line           string     `json:"line"`
	Rule           string     `json:"rule"`
	Condition      string     `json:"condition"`
	Severity       string     `json:"severity"`
	Value          float64    `json:"value"`
	WeakestStation string     `json:"weakest_station"`
	FiredAt        time.Time  `json:"fired_at"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	Alert          *Alert     `json:"alert"`
}

func httpPayload(a *Alert) lineEvent {
	return lineEvent{
		Event:          "line.alert." + a.State,
		Line:           a.Line,
		Rule:           a.RuleName,
		Condition:      a.Condition,
		Severity:       a.Severity,
		Value:          a.Value,
		WeakestStation: a.Weakest,
		FiredAt:        a.FiredAt,
		ResolvedAt:     a.ResolvedAt,
		Alert:          a,
	}
}

func (e *Engine) post(url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}

// stateTag is the bracketed prefix shown in chat notifications.
func stateTag(a *Alert) string {
	if a.State == "resolved" {
		return "[RESOLVED]"
	}
	switch a.Severity {
	case "critical":
		return "[CRITICAL]"
	case "warning":
		return "[WARNING]"
	default:
		return "[INFO]"
	}
}

func stateColor(a *Alert) string {
	if a.State == "resolved" {
		return "2EB67D"
	}
	switch a.Severity {
	case "critical":
		return "FF4F6A"
	case "warning":
		return "FFAB40"
	default:
		return "00D4FF"
	}
}
