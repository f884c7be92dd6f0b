package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cbodonnell/breedadventure/pkg/api/handlers"
	"github.com/cbodonnell/breedadventure/pkg/api/middleware"
	"github.com/cbodonnell/breedadventure/pkg/log"
	"github.com/cbodonnell/breedadventure/pkg/messages"
	"github.com/cbodonnell/breedadventure/pkg/repositories"
	"github.com/gorilla/mux"
)

type APIServer struct {
	server *http.Server
	tls    *TLSConfig
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type NewAPIServerOptions struct {
	Port  int
	TLS   *TLSConfig
	Games handlers.Games
	// History may be nil, in which case the history routes are not served.
	History repositories.HistoryRepository
	// Feed may be nil, in which case the websocket route is not served.
	Feed          handlers.Feed
	AllowedOrigin string
}

// NewAPIServer creates a new http.Server for handling API requests
func NewAPIServer(opts NewAPIServerOptions) *APIServer {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", opts.Port),
		Handler: NewRouter(opts),
	}
	return &APIServer{
		server: server,
		tls:    opts.TLS,
	}
}

// NewRouter returns the API routes.
func NewRouter(opts NewAPIServerOptions) *mux.Router {
	r := mux.NewRouter()
	r.Use(
		middleware.NewTracingMiddleware(),
		middleware.NewLoggingMiddleware(),
		middleware.NewCORSMiddleware(opts.AllowedOrigin),
	)

	r.HandleFunc("/sessions", handlers.HandleListSessions(opts.Games)).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/sessions", handlers.HandleCreateSession(opts.Games)).Methods(http.MethodPost)

	session := r.PathPrefix("/sessions/{sessionID}").Subrouter()
	session.HandleFunc("", handlers.HandleGetSession(opts.Games)).Methods(http.MethodGet, http.MethodOptions)
	session.HandleFunc("", handlers.HandleDeleteSession(opts.Games)).Methods(http.MethodDelete)

	commands := map[string]messages.CommandAction{
		"/initialize":      messages.CommandInitialize,
		"/start":           messages.CommandStart,
		"/select":          messages.CommandSelect,
		"/powerups/{kind}": messages.CommandPowerUp,
		"/pause":           messages.CommandPause,
		"/resume":          messages.CommandResume,
		"/reset":           messages.CommandReset,
		"/end":             messages.CommandEnd,
		"/recover/{kind}":  messages.CommandRecover,
	}
	for path, action := range commands {
		session.HandleFunc(path, handlers.HandleCommand(opts.Games, action)).Methods(http.MethodPost, http.MethodOptions)
	}
	if opts.Feed != nil {
		session.HandleFunc("/feed", handlers.HandleFeed(opts.Games, opts.Feed)).Methods(http.MethodGet)
	}

	r.HandleFunc("/highscore", handlers.HandleGetHighScore(opts.Games)).Methods(http.MethodGet, http.MethodOptions)
	if opts.History != nil {
		r.HandleFunc("/history", handlers.HandleListHistory(opts.History)).Methods(http.MethodGet, http.MethodOptions)
		r.HandleFunc("/history/{sessionID}", handlers.HandleGetHistory(opts.History)).Methods(http.MethodGet, http.MethodOptions)
	}
	return r
}

// Start starts the APIServer
func (s *APIServer) Start() {
	var listenAndServe func() error
	if s.tls != nil {
		log.Info("API server listening on %s with TLS", s.server.Addr)
		listenAndServe = func() error {
			return s.server.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
		}
	} else {
		log.Info("API server listening on %s", s.server.Addr)
		listenAndServe = s.server.ListenAndServe
	}
	if err := listenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			log.Info("API server closed")
			return
		}
		log.Error("API server error: %v", err)
	}
}

// Stop stops the APIServer
func (s *APIServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
