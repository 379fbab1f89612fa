package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"

	"github.com/bcelik/personal-hub-backend/internal/telemetry/tracing"
)

var (
	ErrMissingCredentials = errors.New("email or password missing")
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrDirectoryMisconfigured: the admin record exists but its stored
	// password is absent or empty. Surfaced separately so the operator can
	// fix the record, at the cost of a minor information leak.
	ErrDirectoryMisconfigured = errors.New("admin record misconfigured")
	ErrDirectoryUnavailable   = errors.New("admin directory unavailable")
)

// Service issues and validates admin sessions. The session lives entirely
// in an HTTP-only cookie, there is no server-side session state.
type Service struct {
	directory         directoryRepo
	cookieName        string
	defaultAuthorName string
	secureCookies     bool
	// injectable clock for expiry tests
	NowFunc func() time.Time
}

type NewServiceParams struct {
	Directory         directoryRepo
	CookieName        string
	DefaultAuthorName string
	SecureCookies     bool
}

func NewService(params NewServiceParams) *Service {
	return &Service{
		directory:         params.Directory,
		cookieName:        params.CookieName,
		defaultAuthorName: params.DefaultAuthorName,
		secureCookies:     params.SecureCookies,
		NowFunc:           time.Now,
	}
}

// Authenticate checks the submitted credentials against the administrator
// directory and, on success, starts a session by setting the auth cookie
// on the response. Both credentials are trimmed before use. Unknown email
// and wrong password both come back as ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, w http.ResponseWriter, email, password string) (*Session, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "authService.authenticate")
	defer span.End()

	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		span.SetStatus(codes.Error, "missing-credentials")
		return nil, ErrMissingCredentials
	}

	admin, err := s.directory.FindByEmail(ctx, email)
	if errors.Is(err, ErrAdminNotFound) {
		log.Tracef("failed login attempt, no admin for email: %s", email)
		span.SetStatus(codes.Error, "admin-not-found")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		log.Errorf("admin directory lookup for %s: %s", email, err)
		span.SetStatus(codes.Error, "directory-lookup-failed")
		span.RecordError(err)
		return nil, ErrDirectoryUnavailable
	}

	// reject a bad record before comparing, an empty stored password
	// must never authenticate an empty submitted one
	if admin.Password == "" {
		log.Errorf("admin record for %s has no password set", email)
		span.SetStatus(codes.Error, "admin-record-misconfigured")
		return nil, ErrDirectoryMisconfigured
	}

	if subtle.ConstantTimeCompare([]byte(admin.Password), []byte(password)) != 1 {
		log.Tracef("failed login attempt, wrong password for email: %s", email)
		span.SetStatus(codes.Error, "wrong-password")
		return nil, ErrInvalidCredentials
	}

	name := admin.DisplayName
	if name == "" {
		name = s.defaultAuthorName
	}

	session := &Session{
		Email:           admin.Email,
		Name:            name,
		IsAuthenticated: true,
		LoginTimestamp:  s.now().UnixMilli(),
	}

	if err := s.setSessionCookie(w, session); err != nil {
		return nil, err
	}

	span.SetStatus(codes.Ok, "ok")
	return session, nil
}

// EndSession deletes the session cookie. Idempotent, calling it without
// an active session is a no-op.
func (s *Service) EndSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// CurrentSession reads the session from the request cookie. A missing,
// unparseable, expired or not-authenticated cookie all read as nil,
// the caller never sees the difference. The stale cookie is left in
// place, it simply reads as absent until the browser drops it.
func (s *Service) CurrentSession(r *http.Request) *Session {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		return nil
	}

	session, err := DecodeSession(cookie.Value)
	if err != nil {
		log.Tracef("unparseable session cookie: %s", err)
		return nil
	}

	if !session.IsAuthenticated {
		return nil
	}
	if session.Expired(s.now()) {
		return nil
	}

	return session
}

func (s *Service) IsLoggedIn(r *http.Request) bool {
	return s.CurrentSession(r) != nil
}

func (s *Service) setSessionCookie(w http.ResponseWriter, session *Session) error {
	value, err := session.Encode()
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(SessionLifetime.Seconds()),
	})
	return nil
}

func (s *Service) now() time.Time {
	if s.NowFunc != nil {
		return s.NowFunc()
	}
	return time.Now()
}
