// Package remote exposes the countdown over HTTP: a JSON control API and a
// websocket feed of engine events.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"revealtimer/internal/core/countdown"
	"revealtimer/internal/core/model"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

// ErrUnknownAction is returned for control actions the server does not know.
var ErrUnknownAction = errors.New("unknown action")

// Controller is the set of countdown operations exposed remotely.
type Controller interface {
	Snapshot() countdown.Snapshot
	Configure(minutes int)
	Start()
	Pause()
	Resume()
	Reset()
	ToggleSound()
	ToggleFullscreen()
}

// Server serves the remote API.
type Server struct {
	controller Controller
	hub        *Hub
	router     *mux.Router
	handler    http.Handler
}

type configureRequest struct {
	Minutes int `json:"minutes"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewServer creates a server for controller.
func NewServer(controller Controller, hub *Hub) *Server {
	server := &Server{controller: controller, hub: hub}
	server.router = server.newRouter()
	server.handler = cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	}).Handler(server.router)
	return server
}

// Handler returns the HTTP handler with CORS applied.
func (server *Server) Handler() http.Handler {
	return server.handler
}

// ListenAndServe serves on addr until ctx ends.
func (server *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return server.Serve(ctx, listener)
}

// Serve serves on listener until ctx ends.
func (server *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           server.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("remote server shutdown")
		}
	}()

	log.Info().Str("addr", listener.Addr().String()).Msg("remote control listening")
	if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve remote api: %w", err)
	}
	return nil
}

func (server *Server) newRouter() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/health", server.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/api/state", server.handleState).Methods(http.MethodGet)
	router.HandleFunc("/api/control/{action}", server.handleControl).Methods(http.MethodPost)
	router.HandleFunc("/api/configure", server.handleConfigure).Methods(http.MethodPost)
	router.HandleFunc("/ws", server.handleWebsocket).Methods(http.MethodGet)
	return router
}

func (server *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprintln(w, "OK")
}

func (server *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, server.controller.Snapshot())
}

func (server *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	action := mux.Vars(r)["action"]
	if err := apply(server.controller, action); err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, server.controller.Snapshot())
}

func (server *Server) handleConfigure(w http.ResponseWriter, r *http.Request) {
	var request configureRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid body"})
		return
	}
	if server.controller.Snapshot().Status != model.StatusIdle {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "countdown must be reset before changing its length"})
		return
	}
	server.controller.Configure(request.Minutes)
	writeJSON(w, http.StatusOK, server.controller.Snapshot())
}

func (server *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	if err := server.hub.Upgrade(w, r); err != nil {
		log.Debug().Err(err).Msg("websocket upgrade failed")
	}
}

func apply(controller Controller, action string) error {
	switch action {
	case "start":
		controller.Start()
	case "pause":
		controller.Pause()
	case "resume":
		controller.Resume()
	case "reset":
		controller.Reset()
	case "sound":
		controller.ToggleSound()
	case "fullscreen":
		controller.ToggleFullscreen()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(value); err != nil {
		log.Debug().Err(err).Msg("write response")
	}
}
