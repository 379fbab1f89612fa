package middleware

import (
	"net/http"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"

	"github.com/bcelik/personal-hub-backend/internal/auth"
	"github.com/bcelik/personal-hub-backend/internal/telemetry/tracing"
)

const (
	LoginPath     = "/admin"
	DashboardPath = "/admin/dashboard"
)

type sessionReader interface {
	CurrentSession(r *http.Request) *auth.Session
}

// AdminRouteGuard decides, per request, whether the admin area is
// reachable. The outcome is recomputed from the cookie on every request,
// nothing is kept between requests. Why a session is invalid (missing,
// expired, malformed) is deliberately not distinguished here.
type AdminRouteGuard struct {
	sessions sessionReader
}

func NewAdminRouteGuard(sessions sessionReader) *AdminRouteGuard {
	return &AdminRouteGuard{
		sessions: sessions,
	}
}

func (g *AdminRouteGuard) Check() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, span := tracing.GlobalTracer.Start(r.Context(), "middleware.routeGuard")
			defer span.End()

			// CORS preflights carry no cookies, answer them before any
			// session check or the browser never gets to the real request
			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PUT, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			path := r.URL.Path
			loggedIn := g.sessions.CurrentSession(r) != nil

			switch {
			case pathIsDashboard(path):
				if !loggedIn {
					log.Tracef("[route guard] unauthenticated => %s", path)
					// best effort: remember where the admin wanted to go
					http.Redirect(w, r, LoginPath+"?from="+url.QueryEscape(path), http.StatusFound)
					span.SetStatus(codes.Ok, "redirect-to-login")
					return
				}
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
			case path == LoginPath:
				if loggedIn {
					http.Redirect(w, r, DashboardPath, http.StatusFound)
					span.SetStatus(codes.Ok, "redirect-to-dashboard")
					return
				}
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
			default:
				// guard does not apply
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
			}
		})
	}
}

func pathIsDashboard(path string) bool {
	return path == DashboardPath || strings.HasPrefix(path, DashboardPath+"/")
}
