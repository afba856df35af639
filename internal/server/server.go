// Package server exposes the latest frame result over HTTP and streams
// per-frame updates to websocket clients. It ships plain data; drawing is
// the renderer's concern.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"parkwatch/internal/monitor"
)

// Server holds the most recent result and a set of websocket subscribers.
// It implements monitor.Sink.
type Server struct {
	mu      sync.RWMutex
	latest  *monitor.Result
	clients map[*websocket.Conn]bool

	upgrader websocket.Upgrader
}

// New creates an empty server.
func New() *Server {
	return &Server{
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Emit stores the result and pushes it to every connected client.
// Clients that fail to accept the write are dropped.
func (s *Server) Emit(res *monitor.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest = res
	for conn := range s.clients {
		if err := conn.WriteJSON(res); err != nil {
			log.Printf("server: dropping websocket client: %v", err)
			conn.Close()
			delete(s.clients, conn)
		}
	}
	return nil
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWS)
	return r
}

// ListenAndServe blocks serving the routes on addr.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if latest == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err := json.NewEncoder(w).Encode(latest); err != nil {
		log.Printf("server: encode status: %v", err)
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	latest := s.latest
	s.mu.Unlock()

	// Send the current state immediately so new clients don't wait for
	// the next frame.
	if latest != nil {
		if err := conn.WriteJSON(latest); err != nil {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
		}
	}
}
