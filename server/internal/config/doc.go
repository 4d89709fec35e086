// Package config loads and watches the server configuration (config.yaml).
//
// Top-level sections:
//   - server: http_port (default 8080), auth{mode, key_env, header},
//     results.ttl (default 10m), stream.interval (default 5s)
//   - risk: low_threshold / high_threshold failure-probability breakpoints
//     (defaults 0.05 / 0.10), validated as 0 ≤ low ≤ high ≤ 1
//   - line: name, unit (decimal|percent) and the default component list;
//     the four-stage Stamping/Welding/Painting/Assembly line when absent
//   - alerts: rules{name, condition, severity, cooldown} and
//     webhooks{type, url_env}
//
// Secrets are never stored in the file: AuthConfig.Key() and
// WebhookConfig.URL() resolve them from the named environment variables.
//
// Load(path) applies defaults before unmarshalling, then validates.
// Watch(ctx, path, onChange) uses fsnotify to reload on write and keeps the
// previous config when the new file does not validate.
package config
