package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const (
	testCookieName  = "personal-hub-auth"
	testDefaultName = "Barkin Celiker"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestService(admins ...*Admin) (*Service, *directoryRepoMock) {
	directory := newDirectoryRepoMock(admins...)
	service := NewService(NewServiceParams{
		Directory:         directory,
		CookieName:        testCookieName,
		DefaultAuthorName: testDefaultName,
	})
	return service, directory
}

// requestWithRecordedCookies copies the cookies a handler set on the
// recorder into a fresh request, like a browser would on the next visit.
func requestWithRecordedCookies(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req, err := http.NewRequest("GET", "/admin/dashboard", nil)
	require.NoError(t, err)
	for _, cookie := range rec.Result().Cookies() {
		if cookie.MaxAge > 0 {
			req.AddCookie(cookie)
		}
	}
	return req
}

func TestService_Authenticate_success(t *testing.T) {
	service, _ := newTestService(&Admin{
		Email:       "a@x.com",
		Password:    "secret",
		DisplayName: "Ada",
	})

	rec := httptest.NewRecorder()
	session, err := service.Authenticate(context.Background(), rec, "a@x.com", "secret")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "a@x.com", session.Email)
	assert.Equal(t, "Ada", session.Name)
	assert.True(t, session.IsAuthenticated)
	assert.InDelta(t, time.Now().UnixMilli(), session.LoginTimestamp, 2000)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, testCookieName, cookie.Name)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, int(SessionLifetime.Seconds()), cookie.MaxAge)
	assert.False(t, cookie.Secure) // secure only in production

	// the freshly set cookie reads back as the same session
	current := service.CurrentSession(requestWithRecordedCookies(t, rec))
	require.NotNil(t, current)
	assert.Equal(t, session.Email, current.Email)
	assert.True(t, current.IsAuthenticated)
}

func TestService_Authenticate_trimsCredentials(t *testing.T) {
	service, _ := newTestService(&Admin{Email: "a@x.com", Password: "secret"})

	rec := httptest.NewRecorder()
	session, err := service.Authenticate(context.Background(), rec, "  a@x.com ", " secret  ")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "a@x.com", session.Email)

	// no display name on the record, fall back to the configured author name
	assert.Equal(t, testDefaultName, session.Name)
}

func TestService_Authenticate_failures(t *testing.T) {
	testCases := []struct {
		name        string
		email       string
		password    string
		expectedErr error
	}{
		{
			name:        "empty email",
			email:       "",
			password:    "secret",
			expectedErr: ErrMissingCredentials,
		},
		{
			name:        "whitespace only password",
			email:       "a@x.com",
			password:    "   ",
			expectedErr: ErrMissingCredentials,
		},
		{
			name:        "unknown email",
			email:       "nobody@x.com",
			password:    "secret",
			expectedErr: ErrInvalidCredentials,
		},
		{
			name:        "wrong password",
			email:       "a@x.com",
			password:    "wrong",
			expectedErr: ErrInvalidCredentials,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			service, _ := newTestService(&Admin{Email: "a@x.com", Password: "secret"})

			rec := httptest.NewRecorder()
			session, err := service.Authenticate(context.Background(), rec, tc.email, tc.password)
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.Nil(t, session)

			// failures never set a cookie
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestService_Authenticate_misconfiguredRecord(t *testing.T) {
	service, _ := newTestService(&Admin{Email: "b@x.com", Password: ""})

	// empty stored password is rejected before comparison,
	// even when the submitted password is empty too
	rec := httptest.NewRecorder()
	session, err := service.Authenticate(context.Background(), rec, "b@x.com", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
	assert.Nil(t, session)

	rec = httptest.NewRecorder()
	session, err = service.Authenticate(context.Background(), rec, "b@x.com", "whatever")
	assert.ErrorIs(t, err, ErrDirectoryMisconfigured)
	assert.Nil(t, session)
}

func TestService_Authenticate_directoryUnavailable(t *testing.T) {
	service, directory := newTestService(&Admin{Email: "a@x.com", Password: "secret"})
	directory.FailErr = errors.New("connection refused")

	rec := httptest.NewRecorder()
	session, err := service.Authenticate(context.Background(), rec, "a@x.com", "secret")
	assert.ErrorIs(t, err, ErrDirectoryUnavailable)
	assert.Nil(t, session)
}

func TestService_CurrentSession(t *testing.T) {
	service, _ := newTestService(&Admin{Email: "a@x.com", Password: "secret"})

	// no cookie at all
	req, err := http.NewRequest("GET", "/admin/dashboard", nil)
	require.NoError(t, err)
	assert.Nil(t, service.CurrentSession(req))
	assert.False(t, service.IsLoggedIn(req))

	// unparseable cookie reads as absent
	req, err = http.NewRequest("GET", "/admin/dashboard", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: "garbage"})
	assert.Nil(t, service.CurrentSession(req))

	// a session with isAuthenticated false reads as absent
	loggedOut := &Session{
		Email:          "a@x.com",
		LoginTimestamp: time.Now().UnixMilli(),
	}
	value, err := loggedOut.Encode()
	require.NoError(t, err)
	req, err = http.NewRequest("GET", "/admin/dashboard", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: value})
	assert.Nil(t, service.CurrentSession(req))
}

func TestService_CurrentSession_expiry(t *testing.T) {
	service, _ := newTestService(&Admin{Email: "a@x.com", Password: "secret"})

	now := time.Now()
	service.NowFunc = func() time.Time { return now }

	rec := httptest.NewRecorder()
	_, err := service.Authenticate(context.Background(), rec, "a@x.com", "secret")
	require.NoError(t, err)
	req := requestWithRecordedCookies(t, rec)

	// still valid just before the lifetime boundary
	service.NowFunc = func() time.Time { return now.Add(SessionLifetime - time.Second) }
	assert.NotNil(t, service.CurrentSession(req))

	// expired exactly at the boundary, strict comparison
	service.NowFunc = func() time.Time { return now.Add(SessionLifetime) }
	assert.Nil(t, service.CurrentSession(req))

	service.NowFunc = func() time.Time { return now.Add(SessionLifetime + time.Hour) }
	assert.Nil(t, service.CurrentSession(req))
}

func TestService_EndSession_idempotent(t *testing.T) {
	service, _ := newTestService(&Admin{Email: "a@x.com", Password: "secret"})

	rec := httptest.NewRecorder()
	service.EndSession(rec)
	service.EndSession(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	for _, cookie := range cookies {
		assert.Equal(t, testCookieName, cookie.Name)
		assert.Empty(t, cookie.Value)
		assert.Equal(t, -1, cookie.MaxAge)
	}

	// a request carrying only the cleared cookie reads as logged out
	req, err := http.NewRequest("GET", "/admin/dashboard", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: ""})
	assert.Nil(t, service.CurrentSession(req))
}
