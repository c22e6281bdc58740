package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/chriserin/team/internal/broadcast"
	"github.com/chriserin/team/internal/store"
)

// Server exposes the team parser and the stored team over HTTP, and pushes
// saved teams to websocket clients.
type Server struct {
	server *http.Server
	router *mux.Router
	hub    *Hub
	logger *slog.Logger
}

func New(addr string, teams *store.TeamStore, pub broadcast.Publisher, logger *slog.Logger) *Server {
	if pub == nil {
		pub = broadcast.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	hub := NewHub(logger)
	go hub.Run()

	// websocket clients are pushed before the external publisher
	handler := &Handler{teams: teams, pub: broadcast.Multi{hub, pub}, hub: hub, logger: logger}

	router := mux.NewRouter()
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggingMiddleware(logger))
	router.Use(CORSMiddleware)

	router.HandleFunc("/health", handler.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/parse-team", handler.ParseTeam).Methods(http.MethodPost, http.MethodOptions)
	router.HandleFunc("/team", handler.GetTeam).Methods(http.MethodGet)
	router.HandleFunc("/team", handler.SaveTeam).Methods(http.MethodPut, http.MethodOptions)
	router.HandleFunc("/ws", handler.ServeWS).Methods(http.MethodGet)

	return &Server{
		router: router,
		hub:    hub,
		logger: logger,
		server: &http.Server{
			Addr:    addr,
			Handler: router,
		},
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving HTTP until Shutdown.
func (s *Server) Start() error {
	s.logger.Info("listening", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown stops the listener and disconnects websocket clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Stop()
	return s.server.Shutdown(ctx)
}
