package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/linecalc/linecalc/pkg/compute"
	"github.com/linecalc/linecalc/pkg/input"
	"github.com/linecalc/linecalc/pkg/types"
)

// AlertsConfig holds alerting rules and webhook delivery targets.
type AlertsConfig struct {
	Rules    []AlertRule     `yaml:"rules"`
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// AlertRule defines one threshold-based alert condition.
type AlertRule struct {
	// Name is the human-readable alert identifier, used as the deduplication key.
	Name string `yaml:"name"`

	// Condition is a simple expression: "failure_pct > 10",
	// "reliability_pct < 90", "weakest_pct < 95", "risk == high".
	Condition string `yaml:"condition"`

	// Severity is one of: critical | warning | info.
	Severity string `yaml:"severity"`

	// Cooldown suppresses re-fires for this duration after an alert fires.
	// Defaults to 15 minutes if zero.
	Cooldown time.Duration `yaml:"cooldown"`
}

// WebhookConfig defines one webhook delivery target.
type WebhookConfig struct {
	// Type is one of: teams | slack | http.
	Type string `yaml:"type"`

	// URLEnv is the name of the environment variable that holds the webhook URL.
	URLEnv string `yaml:"url_env"`
}

// URL returns the webhook URL resolved from the environment.
func (w WebhookConfig) URL() string {
	if w.URLEnv == "" {
		return ""
	}
	return os.Getenv(w.URLEnv)
}

// Default values for the server configuration.
const (
	DefaultHTTPPort       = 8080
	DefaultResultTTL      = 10 * time.Minute
	DefaultStreamInterval = 5 * time.Second
	DefaultLineName       = "Nusantara Motor"
)

// Config is the full configuration parsed from config.yaml.
type Config struct {
	Server ServerConfig           `yaml:"server"`
	Risk   compute.RiskThresholds `yaml:"risk"`
	Line   LineConfig             `yaml:"line"`
	Alerts AlertsConfig           `yaml:"alerts"`
}

// ServerConfig holds the listener and transport settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API, metrics and WebSocket hub listen on (default 8080).
	HTTPPort int `yaml:"http_port"`

	// Auth configures how the server authenticates REST and WebSocket clients.
	Auth AuthConfig `yaml:"auth"`

	// Results controls in-memory retention of recent calculation results.
	Results ResultsConfig `yaml:"results"`

	// Stream controls the WebSocket broadcast cadence.
	Stream StreamConfig `yaml:"stream"`
}

// AuthConfig controls client authentication.
type AuthConfig struct {
	// Mode is one of: apikey | none.
	Mode string `yaml:"mode"`

	// KeyEnv is the name of the environment variable that holds the expected API key.
	// Used when Mode == "apikey".
	KeyEnv string `yaml:"key_env"`

	// Header is the HTTP header name to read the key from.
	// Defaults to "X-Api-Key" if empty.
	Header string `yaml:"header"`
}

// Key returns the expected API key resolved from the environment.
func (a AuthConfig) Key() string {
	if a.KeyEnv == "" {
		return ""
	}
	return os.Getenv(a.KeyEnv)
}

// EffectiveHeader returns the configured header name, or the default "X-Api-Key".
func (a AuthConfig) EffectiveHeader() string {
	if a.Header != "" {
		return a.Header
	}
	return "X-Api-Key"
}

// ResultsConfig controls in-memory result retention.
type ResultsConfig struct {
	// TTL is how long a computed result stays retrievable by ID. Default: 10m.
	TTL time.Duration `yaml:"ttl"`
}

// StreamConfig controls the WebSocket hub.
type StreamConfig struct {
	// Interval is how often recent results are pushed to every client. Default: 5s.
	Interval time.Duration `yaml:"interval"`
}

// LineConfig describes the production line used when a request omits its
// own component list.
type LineConfig struct {
	Name       string            `yaml:"name"`
	Unit       types.Unit        `yaml:"unit"`
	Components []types.Component `yaml:"components"`
}

// Load reads and parses the config file at path.
// Missing fields are filled with sensible defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("server config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("server config: parse yaml: %w", err)
	}
	if len(cfg.Line.Components) == 0 {
		cfg.Line.Components = types.DefaultLine()
		cfg.Line.Unit = types.UnitDecimal
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := defaults()
	cfg.Line.Components = types.DefaultLine()
	return cfg
}

// defaults returns a Config pre-populated with default values.
func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
			Results:  ResultsConfig{TTL: DefaultResultTTL},
			Stream:   StreamConfig{Interval: DefaultStreamInterval},
		},
		Risk: compute.DefaultThresholds(),
		Line: LineConfig{Name: DefaultLineName, Unit: types.UnitDecimal},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	switch cfg.Server.Auth.Mode {
	case "apikey", "none", "":
	default:
		return fmt.Errorf("server.auth.mode %q unknown: want apikey|none", cfg.Server.Auth.Mode)
	}
	if cfg.Server.Results.TTL <= 0 {
		return fmt.Errorf("server.results.ttl must be positive")
	}
	if cfg.Server.Stream.Interval <= 0 {
		return fmt.Errorf("server.stream.interval must be positive")
	}
	if err := cfg.Risk.Validate(); err != nil {
		return fmt.Errorf("risk: %w", err)
	}
	switch cfg.Line.Unit {
	case types.UnitDecimal, types.UnitPercent, "":
	default:
		return fmt.Errorf("line.unit %q unknown: want decimal|percent", cfg.Line.Unit)
	}
	for i, c := range cfg.Line.Components {
		if strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("line.components[%d]: name is required", i)
		}
	}
	if _, err := input.Components(cfg.Line.Components, cfg.Line.Unit); err != nil {
		return fmt.Errorf("line: %w", err)
	}
	for i, r := range cfg.Alerts.Rules {
		if r.Name == "" {
			return fmt.Errorf("alerts.rules[%d]: name is required", i)
		}
		if err := checkCondition(r.Condition); err != nil {
			return fmt.Errorf("alerts.rules[%d] %q: condition %q: %w", i, r.Name, r.Condition, err)
		}
		switch r.Severity {
		case "critical", "warning", "info", "":
		default:
			return fmt.Errorf("alerts.rules[%d] %q: unknown severity %q", i, r.Name, r.Severity)
		}
	}
	for i, w := range cfg.Alerts.Webhooks {
		switch w.Type {
		case "slack", "teams", "http":
		default:
			return fmt.Errorf("alerts.webhooks[%d]: unknown type %q", i, w.Type)
		}
	}
	return nil
}

var (
	numericFields = []string{"failure_pct", "reliability_pct", "weakest_pct"}
	numericOps    = []string{">", ">=", "<", "<=", "==", "!="}
	riskOps       = []string{"==", "!="}
	riskTiers     = []string{compute.RiskLow, compute.RiskMedium, compute.RiskHigh}
)

// checkCondition accepts the "field op value" forms the alert engine can
// evaluate: a percent field against a number, or risk against a tier.
func checkCondition(cond string) error {
	parts := strings.Fields(cond)
	if len(parts) != 3 {
		return fmt.Errorf("must be \"field op value\"")
	}
	field, op, rhs := parts[0], parts[1], parts[2]
	if field == "risk" {
		if !slices.Contains(riskOps, op) {
			return fmt.Errorf("risk supports == and !=, not %q", op)
		}
		if !slices.Contains(riskTiers, rhs) {
			return fmt.Errorf("unknown risk tier %q: want low|medium|high", rhs)
		}
		return nil
	}
	if !slices.Contains(numericFields, field) {
		return fmt.Errorf("unknown field %q: want failure_pct|reliability_pct|weakest_pct|risk", field)
	}
	if !slices.Contains(numericOps, op) {
		return fmt.Errorf("unknown operator %q", op)
	}
	if _, err := strconv.ParseFloat(rhs, 64); err != nil {
		return fmt.Errorf("%q is not a number", rhs)
	}
	return nil
}
