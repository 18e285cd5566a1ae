// Package server exposes the simulation engine over HTTP: a small REST
// surface plus the per-run WebSocket at /ws/simulation.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/cachesim/cachesim/sim"
)

// Server owns the listener and every running simulation session.
type Server struct {
	addr     string
	router   *mux.Router
	listener net.Listener
	httpSrv  *http.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Server that will listen on addr once started.
func New(addr string) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		addr:   addr,
		router: mux.NewRouter(),
		ctx:    ctx,
		cancel: cancel,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/policies", s.handlePolicies).Methods(http.MethodGet)

	s.router.HandleFunc("/ws/simulation", s.handleSimulation)
}

// Handler returns the middleware-wrapped root handler.
func (s *Server) Handler() http.Handler {
	return corsMiddleware(loggingMiddleware(s.router))
}

// Start begins listening and serving in the background.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	s.listener = listener
	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			logrus.Errorf("server: %v", err)
		}
	}()

	logrus.Infof("listening on %s", listener.Addr())
	return nil
}

// Addr returns the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Stop ends all sessions and shuts the server down, waiting for
// handlers up to the context deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.cancel()
	var err error
	if s.httpSrv != nil {
		err = s.httpSrv.Shutdown(ctx)
	}
	s.wg.Wait()
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePolicies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"policies": sim.PolicyNames()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Warnf("writing response: %v", err)
	}
}
