package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcelik/personal-hub-backend/internal/middleware"
)

func TestCors(t *testing.T) {
	testCases := []struct {
		name               string
		path               string
		origin             string
		userAgent          string
		expectedStatusCode int
	}{
		{
			name:               "AllowedOrigin",
			path:               "/projects",
			origin:             "http://localhost:8080",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "NoOrigin",
			path:               "/projects",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "CurlClient",
			path:               "/blog/all",
			origin:             "https://evil.example.com",
			userAgent:          "curl/8.4.0",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "CvLinkFromAnywhere",
			path:               "/cv",
			origin:             "https://evil.example.com",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "DisallowedOrigin",
			path:               "/projects",
			origin:             "https://evil.example.com",
			userAgent:          "Mozilla/5.0",
			expectedStatusCode: http.StatusForbidden,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest("GET", tc.path, nil)
			require.NoError(t, err)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			if tc.userAgent != "" {
				req.Header.Set("User-Agent", tc.userAgent)
			}
			rr := httptest.NewRecorder()

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			middleware.Cors()(handler).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
			if tc.expectedStatusCode == http.StatusOK && tc.origin != "" && tc.name != "DisallowedOrigin" {
				assert.Equal(t, tc.origin, rr.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}
