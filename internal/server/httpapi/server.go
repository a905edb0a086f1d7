// Package httpapi exposes the account and task services as a JSON API routed
// with gorilla/mux. Every route except register and login requires a bearer
// session token.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/smarttask/internal/logging"
	"github.com/dmitrijs2005/smarttask/internal/services"
	"github.com/gorilla/mux"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
	maxBodyBytes      = 1 << 20
)

type HTTPServer struct {
	address   string
	accounts  *services.AccountService
	tasks     *services.TaskService
	logger    logging.Logger
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewHTTPServer(address string, l logging.Logger, as *services.AccountService, ts *services.TaskService, secretKey string, tokenTTL time.Duration) *HTTPServer {
	return &HTTPServer{
		address:   address,
		accounts:  as,
		tasks:     ts,
		logger:    l.With("module", "http_server"),
		jwtSecret: []byte(secretKey),
		tokenTTL:  tokenTTL,
	}
}

// Router builds the route table.
func (s *HTTPServer) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestIDMiddleware, s.logMiddleware)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "route not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
	})

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/register", s.register).Methods(http.MethodPost)
	api.HandleFunc("/login", s.login).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(s.authMiddleware)

	authed.HandleFunc("/profile", s.getProfile).Methods(http.MethodGet)
	authed.HandleFunc("/profile", s.updateProfile).Methods(http.MethodPut)
	authed.HandleFunc("/profile/password", s.changePassword).Methods(http.MethodPost)
	authed.HandleFunc("/profile/deactivate", s.deactivate).Methods(http.MethodPost)

	authed.HandleFunc("/tasks", s.listTasks).Methods(http.MethodGet)
	authed.HandleFunc("/tasks", s.createTask).Methods(http.MethodPost)
	authed.HandleFunc("/tasks/{id:[0-9]+}", s.getTask).Methods(http.MethodGet)
	authed.HandleFunc("/tasks/{id:[0-9]+}", s.updateTask).Methods(http.MethodPut)
	authed.HandleFunc("/tasks/{id:[0-9]+}", s.deleteTask).Methods(http.MethodDelete)
	authed.HandleFunc("/tasks/{id:[0-9]+}/complete", s.completeTask).Methods(http.MethodPost)
	authed.HandleFunc("/tasks/{id:[0-9]+}/pending", s.pendingTask).Methods(http.MethodPost)
	authed.HandleFunc("/tasks/{id:[0-9]+}/toggle", s.toggleTask).Methods(http.MethodPost)
	authed.HandleFunc("/stats", s.stats).Methods(http.MethodGet)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
