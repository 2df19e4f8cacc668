package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"adopthub/internal/middleware"
	"adopthub/internal/platform/logger"
	"adopthub/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/gorilla/sessions"
)

// RegisterRoutes monta /auth/*. El store puede ser nil (modo dev): los
// endpoints responden igual pero no persiste sesión; el caller se inyecta
// por headers X-Debug-* en ese modo.
func RegisterRoutes(r chi.Router, svc *Service, store sessions.Store, log logger.Logger) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/register", registerHandler(svc, store, log))

		// Frena fuerza bruta sobre login; el resto no lo necesita.
		ar.With(httprate.LimitByIP(10, time.Minute)).
			Post("/login", loginHandler(svc, store, log))
		ar.Post("/logout", logoutHandler(store))
		ar.Get("/me", meHandler())
	})
}

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func registerHandler(svc *Service, store sessions.Store, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		u, err := svc.Register(r.Context(), RegisterInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Role:     req.Role,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrWeakPassword):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, ErrEmailTaken):
				writeError(w, http.StatusConflict, err.Error())
			default:
				log.Error("register failed", map[string]any{"err": err.Error()})
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		// Auto-login después de registrarse.
		if err := saveSession(w, r, store, u.Caller()); err != nil {
			log.Error("session save failed", map[string]any{"err": err.Error()})
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]userResponse{"user": toUserResponse(u)})
	}
}

func loginHandler(svc *Service, store sessions.Store, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}

		u, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, ErrInvalidCredentials):
				writeError(w, http.StatusUnauthorized, err.Error())
			default:
				log.Error("login failed", map[string]any{"err": err.Error()})
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		if err := saveSession(w, r, store, u.Caller()); err != nil {
			log.Error("session save failed", map[string]any{"err": err.Error()})
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, map[string]userResponse{"user": toUserResponse(u)})
	}
}

func logoutHandler(store sessions.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store != nil {
			session, _ := store.Get(r, middleware.SessionName)
			session.Options.MaxAge = -1
			_ = session.Save(r, w)
		}

		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := middleware.GetCaller(r.Context())
		if !ok {
			writeJSON(w, http.StatusOK, map[string]any{"user": nil})
			return
		}

		writeJSON(w, http.StatusOK, map[string]userResponse{"user": {
			ID:    caller.ID,
			Name:  caller.Name,
			Email: caller.Email,
			Role:  string(caller.Role),
		}})
	}
}

func saveSession(w http.ResponseWriter, r *http.Request, store sessions.Store, c auth.Caller) error {
	if store == nil {
		return nil
	}

	session, _ := store.Get(r, middleware.SessionName)
	session.Values["user_id"] = c.ID
	session.Values["name"] = c.Name
	session.Values["email"] = c.Email
	session.Values["role"] = string(c.Role)
	return session.Save(r, w)
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  string(u.Role),
	}
}

// Duplicado a propósito por módulo; ver nota en animals/handler.go.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
