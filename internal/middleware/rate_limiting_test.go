package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redis_rate/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcelik/personal-hub-backend/internal/middleware"
)

type stubRateLimiter struct {
	allowed    int
	retryAfter time.Duration
	err        error
}

func (s *stubRateLimiter) Allow(_ context.Context, _ string, _ redis_rate.Limit) (*redis_rate.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &redis_rate.Result{
		Allowed:    s.allowed,
		RetryAfter: s.retryAfter,
	}, nil
}

func TestRateLimit(t *testing.T) {
	testCases := []struct {
		name               string
		limiter            *stubRateLimiter
		expectedStatusCode int
	}{
		{
			name:               "Allowed",
			limiter:            &stubRateLimiter{allowed: 1},
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "Limited",
			limiter:            &stubRateLimiter{allowed: 0, retryAfter: 30 * time.Second},
			expectedStatusCode: http.StatusTooEarly,
		},
		{
			name:               "LimiterError",
			limiter:            &stubRateLimiter{err: assert.AnError},
			expectedStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest("POST", "/admin/login", nil)
			require.NoError(t, err)
			rr := httptest.NewRecorder()

			middleware.RateLimit(tc.limiter, "login", 10)(okHandler()).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
		})
	}
}
