// Package server exposes the table over websockets. It speaks a small JSON
// protocol of {type, data, timestamp} envelopes and forwards the human's
// actions to the session manager.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lox/holdem-table/internal/game"
	"github.com/lox/holdem-table/internal/session"
	"github.com/lox/holdem-table/internal/statistics"
)

// Server represents the WebSocket server
type Server struct {
	manager     *session.Manager
	upgrader    websocket.Upgrader
	logger      *log.Logger
	unsubscribe func()

	mu          sync.RWMutex
	connections map[string]*Connection
	httpServer  *http.Server
	closed      bool
}

// NewServer creates a server for the manager's table and subscribes to its
// events
func NewServer(manager *session.Manager, logger *log.Logger) *Server {
	s := &Server{
		manager: manager,
		upgrader: websocket.Upgrader{
			// The browser client may be served from anywhere
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:      logger.WithPrefix("server"),
		connections: make(map[string]*Connection),
	}
	s.unsubscribe = manager.EventBus().Subscribe(s)
	return s
}

// Handler returns the HTTP routes: /ws, /health and /stats
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/stats", s.handleStats)
	return mux
}

// Start serves on addr until Shutdown. It returns nil after a clean
// shutdown.
func (s *Server) Start(addr string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.httpServer = &http.Server{Addr: addr, Handler: s.Handler()}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Starting WebSocket server", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and closes the open ones
func (s *Server) Shutdown(ctx context.Context) error {
	s.unsubscribe()

	s.mu.Lock()
	s.closed = true
	srv := s.httpServer
	conns := make([]*Connection, 0, len(s.connections))
	for _, c := range s.connections {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		_ = c.Close() // Ignore close errors during shutdown
	}
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	conn := NewConnection(uuid.NewString(), ws, s.logger, s.handleAction)
	conn.Start()

	// Hold the lock while attaching so that no engine event reaches the
	// client ahead of its catch-up state
	s.mu.Lock()
	s.connections[conn.ID()] = conn
	att, err := s.manager.Connect(conn.ID())
	if err == nil {
		s.catchUp(conn, att)
	}
	total := len(s.connections)
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("Failed to attach connection", "error", err)
		conn.sendError("unavailable", err.Error())
		_ = conn.Close()
	} else {
		s.logger.Info("Client connected", "conn", conn.ID(), "created", att.Created, "total", total)
	}

	go func() {
		<-conn.Done()
		s.manager.Disconnect(conn.ID())
		s.mu.Lock()
		delete(s.connections, conn.ID())
		s.mu.Unlock()
		s.logger.Info("Client disconnected", "conn", conn.ID())
	}()
}

// catchUp sends the latest state and any open prompt to a new connection
func (s *Server) catchUp(conn *Connection, att session.Attachment) {
	if att.State != nil {
		s.send(conn, MessageTypeGameStateUpdate, GameStateFromSnapshot(*att.State, session.HumanSeat))
	}
	if att.Pending != nil {
		s.logger.Info("Re-sending turn prompt", "conn", conn.ID())
		s.send(conn, MessageTypeYourTurn, YourTurnFromRequest(*att.Pending))
	}
}

func (s *Server) handleAction(connID string, data PlayerActionData) {
	if !s.manager.Submit(connID, data.Decision()) {
		s.logger.Debug("Dropped player action", "conn", connID, "action", data.Action)
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // Ignore write errors for health check
}

// StatsResponse is the body of GET /stats
type StatsResponse struct {
	statistics.Summary
	GameOver bool `json:"gameOver"`
}

// handleStats reports the human's results for the current game
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	sum, ok := s.manager.Stats()
	if !ok {
		http.Error(w, "no game in progress", http.StatusNotFound)
		return
	}
	resp := StatsResponse{Summary: sum, GameOver: s.manager.Finished()}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("Failed to write stats", "error", err)
	}
}

// OnEvent forwards engine events to clients. Only the connection that
// controls the human seat sees its hole cards and turn prompts.
func (s *Server) OnEvent(event game.GameEvent) {
	controller := s.manager.ConnID()

	s.mu.RLock()
	defer s.mu.RUnlock()

	switch e := event.(type) {
	case game.StateEvent:
		for id, conn := range s.connections {
			viewer := -1
			if id == controller {
				viewer = session.HumanSeat
			}
			s.send(conn, MessageTypeGameStateUpdate, GameStateFromSnapshot(e.Snapshot, viewer))
		}

	case game.ActionNeededEvent:
		if e.Request.Seat != session.HumanSeat {
			return
		}
		if conn, ok := s.connections[controller]; ok {
			s.send(conn, MessageTypeYourTurn, YourTurnFromRequest(e.Request))
		}

	case game.LogEvent:
		s.broadcast(MessageTypeLogMessage, e.Message)

	case game.TimerEvent:
		s.broadcast(MessageTypeTimerUpdate, TimerData{Countdown: e.Countdown})
	}
}

// broadcast sends to every connection. Caller holds s.mu.
func (s *Server) broadcast(messageType MessageType, data any) {
	msg, err := NewMessage(messageType, data)
	if err != nil {
		s.logger.Error("Failed to create message", "type", messageType, "error", err)
		return
	}
	for _, conn := range s.connections {
		if err := conn.SendMessage(msg); err != nil {
			s.logger.Debug("Failed to send message", "conn", conn.ID(), "error", err)
		}
	}
}

func (s *Server) send(conn *Connection, messageType MessageType, data any) {
	if err := conn.Send(messageType, data); err != nil {
		s.logger.Debug("Failed to send message", "conn", conn.ID(), "type", messageType, "error", err)
	}
}
