package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcelik/personal-hub-backend/internal/auth"
	"github.com/bcelik/personal-hub-backend/internal/config"
	"github.com/bcelik/personal-hub-backend/internal/cv"
	"github.com/bcelik/personal-hub-backend/internal/instrumentation"
)

const testCookieName = "personal-hub-auth"

// newTestServer builds a Server with just enough wiring to exercise the
// router and its middleware chain. No db, redis or network involved, the
// requests below never reach a repo.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	cvStore, err := cv.NewStore(t.TempDir())
	require.NoError(t, err)

	return &Server{
		config: &config.Config{
			AuthCookieName:              testCookieName,
			LoginRateLimitAllowedPerMin: 15,
		},
		cvStore:     cvStore,
		redisClient: redis.NewClient(&redis.Options{Addr: "localhost:6379"}),
		authService: auth.NewService(auth.NewServiceParams{
			CookieName:        testCookieName,
			DefaultAuthorName: "Barkin Celiker",
		}),
		instr: instrumentation.NewTestInstrumentation(),
	}
}

func sessionCookie(t *testing.T) *http.Cookie {
	t.Helper()
	session := &auth.Session{
		Email:           "b@x.com",
		Name:            "Barkin Celiker",
		IsAuthenticated: true,
		LoginTimestamp:  time.Now().UnixMilli(),
	}
	value, err := session.Encode()
	require.NoError(t, err)
	return &http.Cookie{Name: testCookieName, Value: value}
}

// the guard has to cover every dashboard sub-path, registered or not:
// unregistered ones fall through to the catch-all route, and router
// middleware only runs on matched routes
func TestRouter_guardCoversUnregisteredDashboardPaths(t *testing.T) {
	router := newTestServer(t).routerSetup()

	// no cookie: bounced to the login path, not a plain 404
	req, err := http.NewRequest("GET", "/admin/dashboard/settings", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/admin?from=%2Fadmin%2Fdashboard%2Fsettings", rr.Header().Get("Location"))

	// with a live session the guard lets it through, and only then
	// does the catch-all answer 404
	req, err = http.NewRequest("GET", "/admin/dashboard/settings", nil)
	require.NoError(t, err)
	req.AddCookie(sessionCookie(t))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)

	// deep unregistered public paths still plain-404
	req, err = http.NewRequest("GET", "/no/such/path/here", nil)
	require.NoError(t, err)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_preflightOnGuardedMutationRoute(t *testing.T) {
	router := newTestServer(t).routerSetup()

	req, err := http.NewRequest("OPTIONS", "/admin/dashboard/projects", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:8080")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Location"))
	assert.Equal(t, "http://localhost:8080", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_loginPathRedirectsAuthenticated(t *testing.T) {
	router := newTestServer(t).routerSetup()

	req, err := http.NewRequest("GET", "/admin", nil)
	require.NoError(t, err)
	req.AddCookie(sessionCookie(t))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/admin/dashboard", rr.Header().Get("Location"))
}
