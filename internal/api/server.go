// Package api exposes a small management surface: worker status for
// dashboards and user CRUD backed by the database.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/easyslot/easyslot/internal/entities"
	"github.com/easyslot/easyslot/internal/logger"
	"github.com/easyslot/easyslot/internal/repositories"
	"github.com/easyslot/easyslot/internal/state"
)

type Server struct {
	router *mux.Router
	server *http.Server
	store  *state.Store
	users  *repositories.Users
}

func NewServer(addr string, store *state.Store, users *repositories.Users) *Server {
	s := &Server{
		router: mux.NewRouter(),
		store:  store,
		users:  users,
	}
	s.routes()

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/api/status", s.handleStatusAll).Methods(http.MethodGet)
	s.router.HandleFunc("/api/status/{email}", s.handleStatusOne).Methods(http.MethodGet)
	s.router.HandleFunc("/api/users", s.handleUsersList).Methods(http.MethodGet)
	s.router.HandleFunc("/api/users", s.handleUserCreate).Methods(http.MethodPost)
	s.router.HandleFunc("/api/users/{email}", s.handleUserGet).Methods(http.MethodGet)
	s.router.HandleFunc("/api/users/{email}", s.handleUserUpdate).Methods(http.MethodPut)
	s.router.HandleFunc("/api/users/{email}", s.handleUserDelete).Methods(http.MethodDelete)
}

// Handler exposes the router, used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() {
	go func() {
		log.Infof("api server listening on %v", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeApi).
				Errorf("api server stopped: %v", err)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatusAll(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.All())
}

func (s *Server) handleStatusOne(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]
	writeJSON(w, http.StatusOK, s.store.Get(email))
}

func (s *Server) handleUsersList(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.GetAll(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleUserGet(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]
	user, err := s.users.GetByEmail(r.Context(), email)
	if errors.Is(err, repositories.ErrUserNotFound) {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUserCreate(w http.ResponseWriter, r *http.Request) {
	var user entities.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.Wrap(err, "invalid request body"))
		return
	}
	if user.Email == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("email is required"))
		return
	}

	if err := s.users.Add(r.Context(), user); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleUserUpdate(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	var user entities.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.Wrap(err, "invalid request body"))
		return
	}
	user.Email = email

	err := s.users.Update(r.Context(), user)
	if errors.Is(err, repositories.ErrUserNotFound) {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleUserDelete(w http.ResponseWriter, r *http.Request) {
	email := mux.Vars(r)["email"]

	err := s.users.Remove(r.Context(), email)
	if errors.Is(err, repositories.ErrUserNotFound) {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeApi).Errorf("api error: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Errorf("failed to encode api response: %v", err)
	}
}
