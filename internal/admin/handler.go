package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/bcelik/personal-hub-backend/internal/auth"
	"github.com/bcelik/personal-hub-backend/internal/instrumentation"
	"github.com/bcelik/personal-hub-backend/pkg"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginPageResponse struct {
	LoggedIn bool `json:"loggedIn"`
}

type sessionService interface {
	Authenticate(ctx context.Context, w http.ResponseWriter, email, password string) (*auth.Session, error)
	EndSession(w http.ResponseWriter)
	CurrentSession(r *http.Request) *auth.Session
}

type Handler struct {
	authService sessionService
	instr       *instrumentation.Instrumentation
}

func NewHandler(authService sessionService, instr *instrumentation.Instrumentation) *Handler {
	return &Handler{
		authService: authService,
		instr:       instr,
	}
}

// SetupRoutes attaches the admin routes. The login route gets the rate
// limiting middleware, the dashboard is shielded by the route guard
// installed on the parent router.
func (handler *Handler) SetupRoutes(router *mux.Router, rateLimit func(next http.Handler) http.Handler) {
	loginRouter := router.PathPrefix("/admin/login").Subrouter()
	loginRouter.HandleFunc("", handler.handleLogin).Methods("POST", "OPTIONS").Name("login")
	loginRouter.Use(rateLimit)

	router.HandleFunc("/admin/logout", handler.handleLogout).Methods("GET", "OPTIONS").Name("logout")
	router.HandleFunc("/admin", handler.handleLoginPage).Methods("GET").Name("login-page")
	router.HandleFunc("/admin/dashboard", handler.handleDashboard).Methods("GET").Name("dashboard")
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var loginReq loginRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
			log.Errorf("login, unmarshal json params: %s", err)
			http.Error(w, "login failed", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("login failed, parse form error: %s", err)
			http.Error(w, "parse form error", http.StatusInternalServerError)
			return
		}
		loginReq = loginRequest{
			Email:    r.Form.Get("email"),
			Password: r.Form.Get("password"),
		}
	}

	session, err := handler.authService.Authenticate(r.Context(), w, loginReq.Email, loginReq.Password)
	if err != nil {
		handler.countLogin(loginOutcome(err))
		switch {
		case errors.Is(err, auth.ErrMissingCredentials):
			http.Error(w, "error, missing credentials", http.StatusBadRequest)
		case errors.Is(err, auth.ErrInvalidCredentials):
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
		case errors.Is(err, auth.ErrDirectoryMisconfigured):
			http.Error(w, "admin account misconfigured", http.StatusInternalServerError)
		case errors.Is(err, auth.ErrDirectoryUnavailable):
			http.Error(w, "admin directory unavailable", http.StatusServiceUnavailable)
		default:
			log.Errorf("login failed: %s", err)
			http.Error(w, "login failed", http.StatusInternalServerError)
		}
		return
	}

	handler.countLogin("success")
	log.Tracef("admin [%s] logged in", session.Email)

	sessionJson, err := json.Marshal(session)
	if err != nil {
		log.Errorf("marshal session error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, sessionJson)
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	handler.authService.EndSession(w)
	pkg.WriteTextResponseOK(w, "logged-out")
}

// handleLoginPage answers GET /admin. Authenticated visitors never get
// here, the route guard bounces them to the dashboard beforehand.
func (handler *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	resp, err := json.Marshal(loginPageResponse{
		LoggedIn: handler.authService.CurrentSession(r) != nil,
	})
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resp)
}

func (handler *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	session := handler.authService.CurrentSession(r)
	if session == nil {
		// the route guard redirects before this can happen, unless the
		// handler is wired without it
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	sessionJson, err := json.Marshal(session)
	if err != nil {
		log.Errorf("marshal session error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, sessionJson)
}

func (handler *Handler) countLogin(outcome string) {
	handler.instr.CounterLogins.With(prometheus.Labels{"outcome": outcome}).Inc()
}

func loginOutcome(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingCredentials), errors.Is(err, auth.ErrInvalidCredentials):
		return "invalid"
	default:
		return "error"
	}
}
