package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/cbodonnell/cardquest/pkg/api/handlers"
	"github.com/cbodonnell/cardquest/pkg/api/middleware"
	authproviders "github.com/cbodonnell/cardquest/pkg/auth/providers"
	"github.com/cbodonnell/cardquest/pkg/clients"
	"github.com/cbodonnell/cardquest/pkg/log"
	"github.com/cbodonnell/cardquest/pkg/messages"
	"github.com/cbodonnell/cardquest/pkg/queue"
	"github.com/cbodonnell/cardquest/pkg/state"
	"github.com/cbodonnell/cardquest/pkg/version"
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

// TLSConfigFromEnv reads CARDQUEST_API_TLS_CERT_FILE and CARDQUEST_API_TLS_KEY_FILE.
// It returns nil unless both are set.
func TLSConfigFromEnv() *TLSConfig {
	certFile := os.Getenv("CARDQUEST_API_TLS_CERT_FILE")
	keyFile := os.Getenv("CARDQUEST_API_TLS_KEY_FILE")
	if certFile == "" || keyFile == "" {
		return nil
	}
	return &TLSConfig{
		CertFile: certFile,
		KeyFile:  keyFile,
	}
}

type NewAPIServerOptions struct {
	Port               int
	TLS                *TLSConfig
	AuthProvider       authproviders.AuthProvider
	ClientMessageQueue queue.Queue
	StateManager       state.StateManager
	ClientManager      *clients.ClientManager
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

// NewRouter builds the API routes. Every route except /version requires a
// bearer token.
func NewRouter(opts NewAPIServerOptions) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.CORS)

	r.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"version": version.Get()})
	}).Methods(http.MethodGet)

	authed := r.NewRoute().Subrouter()
	authed.Use(middleware.NewAuthMiddleware(opts.AuthProvider))

	enqueue := func(messageType string, payloadFunc handlers.PayloadFunc) http.HandlerFunc {
		return handlers.HandleEnqueue(opts.ClientMessageQueue, messageType, payloadFunc)
	}

	authed.HandleFunc("/levels", handlers.HandleGetLevels(opts.StateManager)).Methods(http.MethodGet, http.MethodOptions)
	authed.HandleFunc("/levels/current/complete", enqueue(messages.MessageTypeClientComplete, handlers.CompleteLevelPayload)).Methods(http.MethodPost, http.MethodOptions)
	authed.HandleFunc("/levels/{name}/select", enqueue(messages.MessageTypeClientSelectLevel, handlers.SelectLevelPayload)).Methods(http.MethodPost, http.MethodOptions)

	authed.HandleFunc("/game/start", enqueue(messages.MessageTypeClientStartGame, nil)).Methods(http.MethodPost, http.MethodOptions)
	authed.HandleFunc("/game/repeat", enqueue(messages.MessageTypeClientRepeatLevel, nil)).Methods(http.MethodPost, http.MethodOptions)
	authed.HandleFunc("/game/advance", enqueue(messages.MessageTypeClientAdvance, nil)).Methods(http.MethodPost, http.MethodOptions)

	authed.HandleFunc("/match", handlers.HandleGetMatch(opts.StateManager)).Methods(http.MethodGet, http.MethodOptions)
	authed.HandleFunc("/match", enqueue(messages.MessageTypeClientNewMatch, nil)).Methods(http.MethodPost)
	authed.HandleFunc("/match/cards/{id:[0-9]+}/reveal", enqueue(messages.MessageTypeClientReveal, handlers.RevealPayload)).Methods(http.MethodPost, http.MethodOptions)
	authed.HandleFunc("/match/stop", enqueue(messages.MessageTypeClientStopMatch, nil)).Methods(http.MethodPost, http.MethodOptions)
	authed.HandleFunc("/match/resume", enqueue(messages.MessageTypeClientResumeMatch, nil)).Methods(http.MethodPost, http.MethodOptions)

	authed.HandleFunc("/events", handlers.HandleEvents(opts.ClientMessageQueue, opts.ClientManager, opts.StateManager)).Methods(http.MethodGet)

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
