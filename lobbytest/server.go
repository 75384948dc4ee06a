package lobbytest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/lmoreno/duolobby/transport/realtime"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Test/demo server, accept everything.
		return true
	},
}

// Room is a lobby room as the fake server tracks it.
type Room struct {
	GameID    string
	State     string
	Players   map[string]bool
	CreatedAt time.Time
}

// Server is the in-process lobby server.
type Server struct {
	router  *mux.Router
	gameURL string
	log     *logrus.Entry

	mu    sync.Mutex
	rooms map[string]*Room
	conns map[string]map[*websocket.Conn]string
}

// NewServer creates a fake lobby server. gameURL is the format for the
// redirect target, with one %s verb for the room code.
func NewServer(gameURL string) *Server {
	if gameURL == "" {
		gameURL = "/game.html?id=%s"
	}

	s := &Server{
		router:  mux.NewRouter(),
		gameURL: gameURL,
		log:     logrus.WithField("component", "lobbytest"),
		rooms:   make(map[string]*Room),
		conns:   make(map[string]map[*websocket.Conn]string),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/create-room", s.handleCreateRoom).Methods("POST")
	api.HandleFunc("/join-room", s.handleJoinRoom).Methods("POST")
	api.HandleFunc("/delete-room", s.handleDeleteRoom).Methods("POST")

	s.router.HandleFunc("/healthcheck", s.handleHealthcheck).Methods("GET")
	s.router.HandleFunc("/ws", s.handleWS)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Room returns a snapshot of a room, or nil when it does not exist.
func (s *Server) Room(gameID string) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[gameID]
	if !ok {
		return nil
	}

	players := make(map[string]bool, len(room.Players))
	for p := range room.Players {
		players[p] = true
	}
	return &Room{
		GameID:    room.GameID,
		State:     room.State,
		Players:   players,
		CreatedAt: room.CreatedAt,
	}
}

// RoomCount returns the number of rooms currently tracked.
func (s *Server) RoomCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// Reap removes open rooms older than maxAge and reports how many were
// removed. It models the server-side TTL collection the client's best-effort
// cleanup relies on.
func (s *Server) Reap(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for id, room := range s.rooms {
		if room.State == "open" && room.CreatedAt.Before(cutoff) {
			delete(s.rooms, id)
			removed++
		}
	}

	return removed
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// REST handlers

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID    string `json:"game_id"`
		GameState string `json:"game_state"`
		PlayerID  string `json:"player_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GameID == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rooms[req.GameID]; exists {
		respondJSON(w, http.StatusConflict, map[string]interface{}{
			"success": false,
			"message": "Room already exists",
		})
		return
	}

	state := req.GameState
	if state == "" {
		state = "open"
	}

	s.rooms[req.GameID] = &Room{
		GameID:    req.GameID,
		State:     state,
		Players:   map[string]bool{req.PlayerID: true},
		CreatedAt: time.Now(),
	}

	s.log.WithField("game_id", req.GameID).Debug("Room created")
	respondJSON(w, http.StatusOK, map[string]string{"message": "Room created successfully"})
}

func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID   string `json:"game_id"`
		PlayerID string `json:"player_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	room, exists := s.rooms[req.GameID]
	switch {
	case !exists:
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"message": "Room not found",
		})
	case room.State != "open":
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"message": "Game already in progress",
		})
	case len(room.Players) >= 2:
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"message": "Room is full",
		})
	default:
		room.Players[req.PlayerID] = true
		s.log.WithFields(logrus.Fields{
			"game_id":   req.GameID,
			"player_id": req.PlayerID,
		}).Debug("Player joined room")
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Joined the room successfully",
		})
	}
}

func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID string `json:"game_id"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	if req.GameID == "" {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"message": "No room specified",
		})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rooms[req.GameID]; !exists {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"message": "Room not found",
		})
		return
	}

	delete(s.rooms, req.GameID)
	s.log.WithField("game_id", req.GameID).Debug("Room deleted")
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Room deleted successfully",
	})
}

func (s *Server) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// Channel handling

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Error("WebSocket upgrade failed")
		return
	}

	go s.readLoop(conn)
}

func (s *Server) readLoop(conn *websocket.Conn) {
	defer func() {
		s.unregister(conn)
		conn.Close()
	}()

	for {
		var env realtime.Envelope
		if err := conn.ReadJSON(&env); err != nil {
			return
		}

		if env.Event != realtime.EventJoinGame {
			continue
		}

		var join realtime.JoinGame
		if err := json.Unmarshal(env.Data, &join); err != nil {
			s.log.WithError(err).Warn("Malformed join_game event")
			continue
		}

		s.registerAndMaybeStart(conn, join)
	}
}

// registerAndMaybeStart associates a connection with its room. Once both
// roles have announced themselves the room flips to in_progress and every
// connection gets the redirect push.
func (s *Server) registerAndMaybeStart(conn *websocket.Conn, join realtime.JoinGame) {
	s.mu.Lock()

	if s.conns[join.GameID] == nil {
		s.conns[join.GameID] = make(map[*websocket.Conn]string)
	}
	s.conns[join.GameID][conn] = join.PlayerID

	roles := make(map[string]bool)
	for _, playerID := range s.conns[join.GameID] {
		roles[playerID] = true
	}

	room := s.rooms[join.GameID]
	ready := room != nil && room.State == "open" && roles["player_1"] && roles["player_2"]
	if ready {
		room.State = "in_progress"
	}

	targets := make([]*websocket.Conn, 0, len(s.conns[join.GameID]))
	for c := range s.conns[join.GameID] {
		targets = append(targets, c)
	}
	s.mu.Unlock()

	if !ready {
		return
	}

	payload, _ := json.Marshal(realtime.Redirect{
		URL: fmt.Sprintf(s.gameURL, join.GameID),
	})
	env := realtime.Envelope{Event: realtime.EventRedirect, Data: payload}

	for _, c := range targets {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteJSON(env); err != nil {
			s.log.WithError(err).Warn("Failed to push redirect")
		}
	}

	s.log.WithField("game_id", join.GameID).Debug("Match ready, redirect pushed")
}

func (s *Server) unregister(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for gameID, conns := range s.conns {
		if _, ok := conns[conn]; ok {
			delete(conns, conn)
			if len(conns) == 0 {
				delete(s.conns, gameID)
			}
		}
	}
}
