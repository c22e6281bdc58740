package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/chriserin/team/internal/broadcast"
	"github.com/chriserin/team/internal/parser"
	"github.com/chriserin/team/internal/store"
)

const maxBodyBytes = 1 << 20

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Overlays are served from the streaming platform's origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Handler struct {
	teams  *store.TeamStore
	pub    broadcast.Publisher
	hub    *Hub
	logger *slog.Logger
}

type teamRequest struct {
	Team *string `json:"team"`
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "team",
		"clients": h.hub.ClientCount(),
	})
}

// ParseTeam parses {"team": "<export text>"} and returns the parse result.
func (h *Handler) ParseTeam(w http.ResponseWriter, r *http.Request) {
	text, ok := decodeTeamRequest(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, parser.Parse(text))
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	team, err := h.teams.Current(r.Context())
	var de *parser.DecodeError
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "No saved team", nil)
		return
	case errors.As(err, &de):
		respondError(w, http.StatusInternalServerError, "Saved team is invalid", err)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Failed to load team", err)
		return
	}
	respondJSON(w, http.StatusOK, team)
}

// SaveTeam parses the submitted text, stores the resulting team and pushes
// it to live viewers.
func (h *Handler) SaveTeam(w http.ResponseWriter, r *http.Request) {
	text, ok := decodeTeamRequest(w, r)
	if !ok {
		return
	}

	res := parser.Parse(text)
	if len(res.Team) == 0 {
		respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  store.ErrEmptyTeam.Error(),
			"status": http.StatusUnprocessableEntity,
			"errors": res.Messages(),
		})
		return
	}

	data, err := h.teams.Save(r.Context(), res.Team)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save team", err)
		return
	}

	if err := h.pub.Publish(r.Context(), data); err != nil {
		h.logger.Warn("broadcast failed", "err", err)
	}

	respondJSON(w, http.StatusOK, res)
}

// ServeWS upgrades to a websocket that receives the current team on connect
// and every team saved afterwards.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	client := &Client{hub: h.hub, conn: conn, send: make(chan []byte, 256)}

	if team, err := h.teams.Current(r.Context()); err == nil {
		if data, err := parser.EncodeTeam(team); err == nil {
			client.send <- data
		}
	}

	select {
	case h.hub.register <- client:
	case <-h.hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func decodeTeamRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req teamRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return "", false
	}
	if req.Team == nil {
		respondError(w, http.StatusBadRequest, "Missing team", nil)
		return "", false
	}
	return *req.Team, true
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]any{
		"error":  message,
		"status": status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}
