// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	authfeature "github.com/dalemusser/gatherhub/internal/app/features/auth"
	errorsfeature "github.com/dalemusser/gatherhub/internal/app/features/errors"
	eventsfeature "github.com/dalemusser/gatherhub/internal/app/features/events"
	healthfeature "github.com/dalemusser/gatherhub/internal/app/features/health"
	streamfeature "github.com/dalemusser/gatherhub/internal/app/features/stream"
	eventstore "github.com/dalemusser/gatherhub/internal/app/store/events"
	"github.com/dalemusser/gatherhub/internal/app/system/auth"
	"github.com/dalemusser/gatherhub/internal/app/system/broadcast"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// GatherHub mounts the JSON API under /api, the websocket change stream
// under /ws, and a health endpoint for load balancers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// One hub per process; every mutation handler publishes into it and
	// every websocket connection subscribes to it.
	hub := broadcast.NewHub(logger)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	store := eventstore.New(deps.GatherHubMongoDatabase)
	if appCfg.DefaultEventImage != "" {
		store.SetDefaultImage(appCfg.DefaultEventImage)
	}

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.GatherHubMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	authHandler := authfeature.NewHandler(deps.GatherHubMongoDatabase, sessionMgr, errLog, logger)
	r.Mount("/api/auth", authfeature.Routes(authHandler))

	// Event catalog, rosters, and the attendee directory
	eventsHandler := eventsfeature.NewHandler(deps.GatherHubMongoDatabase, store, hub, errLog, logger)
	r.Mount("/api/events", eventsfeature.Routes(eventsHandler, sessionMgr))

	// Real-time change stream
	streamHandler := streamfeature.NewHandler(hub, logger)
	r.Mount("/ws", streamfeature.Routes(streamHandler, sessionMgr))

	return r, nil
}
