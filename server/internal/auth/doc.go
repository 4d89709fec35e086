// Package auth provides HTTP authentication middleware for linecalc-server.
//
// APIKey(mode, header, key) returns middleware that checks each request for
// a matching API key header. When mode is not "apikey" or key is empty, all
// requests pass through unchanged.
//
// The expected key is read from the environment variable named in the
// server config (server.auth.key_env) and never stored in the config file.
package auth
