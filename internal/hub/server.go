package hub

import (
	"context"
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/pitstop/sync/internal/upload"
	"github.com/pitstop/sync/logging"
)

// Server exposes the hub over HTTP: the websocket endpoint, the upload
// endpoint and a health check.
type Server struct {
	hub      *Hub
	uploads  *upload.Store
	logger   *logrus.Entry
	server   *http.Server
	upgrader websocket.Upgrader
}

// NewServer wires a Server around the hub. uploads may be nil, in which
// case the upload routes are not registered.
func NewServer(h *Hub, uploads *upload.Store) *Server {
	return &Server{
		hub:     h,
		uploads: uploads,
		logger:  logging.NewLogger("server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The admin SPA is served from its own origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Path == "/ws" {
				// httpsnoop's wrapper hides http.Hijacker, which the
				// websocket upgrade needs.
				handler.ServeHTTP(writer, request)
				return
			}
			m := httpsnoop.CaptureMetrics(handler, writer, request)
			s.logger.WithFields(logrus.Fields{
				"method":   request.Method,
				"url":      request.URL.String(),
				"status":   m.Code,
				"duration": m.Duration,
			}).Info("handled")
		})
	})

	r.Methods(http.MethodGet).Path("/healthz").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Methods(http.MethodGet).Path("/ws").HandlerFunc(s.handleWS)
	if s.uploads != nil {
		r.Methods(http.MethodPost).Path("/uploads").HandlerFunc(s.uploads.Handler)
		r.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.uploads.Dir()))))
	}
	return r
}

// handleWS upgrades the connection and registers a new session. The
// session stays alive until the peer goes away; there is no resume
// protocol, a reconnecting client starts from a fresh initial_state.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Error("Failed to upgrade connection")
		return
	}
	sess := newSession(s.hub, conn)
	select {
	case s.hub.register <- sess:
	case <-s.hub.done:
		_ = conn.Close()
		return
	}
	go sess.writePump()
	go sess.readPump()
}

// ListenAndServe blocks serving the router on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.WithField("addr", addr).Info("Listening")
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
