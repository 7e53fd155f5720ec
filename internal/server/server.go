package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jpalmerr/userboard"
)

const (
	// sseWriteTimeout is the maximum time allowed for a single SSE write.
	// Must be <= shutdown timeout so a stuck client cannot hold shutdown.
	sseWriteTimeout = 5 * time.Second

	// shutdownTimeout bounds graceful shutdown of in-flight requests.
	shutdownTimeout = 5 * time.Second

	// maxBodyBytes limits the size of a POST /api/users body.
	maxBodyBytes = 1 << 20

	defaultTitle     = "Userboard"
	titlePlaceholder = "{{.Title}}"
)

// Store is the part of the userboard store the server reads and writes.
type Store interface {
	GetState() []userboard.UserRecord
	Dispatch(action userboard.Action)
}

// Feed delivers state snapshots to streaming clients.
type Feed interface {
	Subscribe() <-chan []userboard.UserRecord
	Unsubscribe(ch <-chan []userboard.UserRecord)
}

// Server handles HTTP requests for the user list page and API.
type Server struct {
	store      Store
	feed       Feed
	port       int
	httpServer *http.Server
	assets     fs.FS
	title      string
	logger     *slog.Logger
}

// NewServer creates a new HTTP [Server].
//
// assets may be nil, in which case "/" is not served. The server is not
// started until [Server.Start] is called.
func NewServer(st Store, feed Feed, port int, assets fs.FS, title string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:  st,
		feed:   feed,
		port:   port,
		assets: assets,
		title:  title,
		logger: logger,
	}
}

// Handler returns the router serving all routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	if s.assets != nil {
		r.Get("/", s.handleDashboard)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/users", s.handleListUsers)
		r.Post("/users", s.handleAddUser)
		r.Delete("/users", s.handleRemoveAllUsers)
		r.Get("/sse", s.handleSSE)
	})

	return r
}

// Start begins serving HTTP requests in a background goroutine.
//
// Start binds the port synchronously and returns an error if that fails.
// The server runs until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind to port %d: %w", s.port, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		// request contexts derive from ctx so SSE handlers exit on shutdown
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return nil
}

// handleDashboard serves the user list page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if s.assets == nil {
		http.Error(w, "Dashboard not found", http.StatusInternalServerError)
		return
	}

	content, err := fs.ReadFile(s.assets, "assets/index.html")
	if err != nil {
		http.Error(w, "Dashboard not found", http.StatusInternalServerError)
		return
	}

	title := s.title
	if title == "" {
		title = defaultTitle
	}
	rendered := strings.ReplaceAll(string(content), titlePlaceholder, html.EscapeString(title))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(rendered)); err != nil {
		s.logger.Error("failed to write dashboard response", "error", err)
	}
}

// handleListUsers returns the current state as JSON.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")

	if err := json.NewEncoder(w).Encode(s.store.GetState()); err != nil {
		s.logger.Error("failed to encode users response", "error", err)
	}
}

// addUserRequest is the body of POST /api/users.
type addUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// handleAddUser dispatches AddUser for the record in the request body.
func (s *Server) handleAddUser(w http.ResponseWriter, r *http.Request) {
	var req addUserRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	s.store.Dispatch(userboard.AddUser{Record: userboard.UserRecord{
		Username: req.Username,
		Email:    req.Email,
	}})
	w.WriteHeader(http.StatusNoContent)
}

// handleRemoveAllUsers dispatches RemoveAllUsers.
func (s *Server) handleRemoveAllUsers(w http.ResponseWriter, r *http.Request) {
	s.store.Dispatch(userboard.RemoveAllUsers{})
	w.WriteHeader(http.StatusNoContent)
}

// handleSSE streams the user list via Server-Sent Events.
//
// The current state is sent first, then one event per state change. Each
// event carries the complete list, so a client that missed events is
// corrected by the next one.
func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	if _, ok := w.(http.Flusher); !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	rc := http.NewResponseController(w)
	deadlinesSupported := true

	writeAndFlush := func(users []userboard.UserRecord) error {
		data, err := json.Marshal(users)
		if err != nil {
			return err
		}

		if deadlinesSupported {
			if err := rc.SetWriteDeadline(time.Now().Add(sseWriteTimeout)); err != nil {
				s.logger.Warn("sse write deadlines not supported", "error", err)
				deadlinesSupported = false
			}
		}

		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}
		return rc.Flush()
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// subscribe before reading state so no transition is lost in between
	ch := s.feed.Subscribe()
	defer s.feed.Unsubscribe(ch)

	if err := writeAndFlush(s.store.GetState()); err != nil {
		return
	}

	for {
		select {
		case users, ok := <-ch:
			if !ok {
				return
			}
			if err := writeAndFlush(users); err != nil {
				return
			}

		case <-r.Context().Done():
			// fires on client disconnect and on server shutdown
			return
		}
	}
}
