package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/linecalc/linecalc/pkg/metrics"
	"github.com/linecalc/linecalc/server/internal/alerts"
	"github.com/linecalc/linecalc/server/internal/api"
	"github.com/linecalc/linecalc/server/internal/auth"
	"github.com/linecalc/linecalc/server/internal/config"
	"github.com/linecalc/linecalc/server/internal/store"
	"github.com/linecalc/linecalc/server/internal/ws"
)

func main() {
	configPath := flag.String("config", "", "path to config file; empty uses built-in defaults")
	uiDir := flag.String("ui-dir", "", "serve static UI files from this directory (e.g. ui/dist); leave empty to disable")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("linecalc-server starting", "config", *configPath)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			slog.Error("failed to load config", "err", err)
			os.Exit(1)
		}
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"auth_mode", cfg.Server.Auth.Mode,
		"results_ttl", cfg.Server.Results.TTL,
		"line", cfg.Line.Name,
		"components", len(cfg.Line.Components),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Result store with background TTL eviction.
	st := store.New(cfg.Server.Results.TTL)
	go st.Run(ctx)

	// Alerts engine: evaluates rules on every reliability result.
	alertEngine := alerts.New(cfg.Alerts)

	rec := metrics.NewRecorder()
	svc := api.NewService(st, alertEngine, rec, cfg)

	// Hot reload: thresholds, default line and alert rules apply immediately;
	// listener and auth settings need a restart.
	if *configPath != "" {
		go func() {
			err := config.Watch(ctx, *configPath, func(next *config.Config) {
				svc.Apply(next)
				alertEngine.Reconfigure(next.Alerts)
				if next.Server.HTTPPort != cfg.Server.HTTPPort || next.Server.Auth != cfg.Server.Auth {
					slog.Warn("config: server.http_port and server.auth changes take effect after restart")
				}
			})
			if err != nil {
				slog.Error("config watcher stopped", "err", err)
			}
		}()
	}

	// WebSocket hub: broadcasts the configured line and recent results.
	hub := ws.New(svc, cfg.Server.Stream.Interval)
	go hub.Run(ctx)

	requireKey := auth.APIKey(
		cfg.Server.Auth.Mode,
		cfg.Server.Auth.EffectiveHeader(),
		cfg.Server.Auth.Key(),
	)
	if cfg.Server.Auth.Mode == "apikey" && cfg.Server.Auth.Key() == "" {
		slog.Warn("auth mode is apikey but the key env var is empty; requests are not authenticated",
			"key_env", cfg.Server.Auth.KeyEnv)
	}

	// Combined HTTP server: REST API, WebSocket hub and metrics on HTTPPort.
	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", requireKey(api.New(svc, alertEngine)))
	httpMux.Handle("/ws/stream", requireKey(hub))
	httpMux.Handle("/metrics", rec.Handler())

	// Optional: serve a pre-built UI from a local directory.
	// The "/" catch-all serves index.html for any unknown path (SPA routing).
	if *uiDir != "" {
		fs := http.FileServer(http.Dir(*uiDir))
		httpMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			path := *uiDir + r.URL.Path
			if _, err := os.Stat(path); os.IsNotExist(err) {
				http.ServeFile(w, r, *uiDir+"/index.html")
				return
			}
			fs.ServeHTTP(w, r)
		})
		slog.Info("serving UI static files", "dir", *uiDir)
	}

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           httpMux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server stopped", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("linecalc-server shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	httpSrv.Shutdown(shutdownCtx) //nolint:errcheck
	alertEngine.Wait()
}
