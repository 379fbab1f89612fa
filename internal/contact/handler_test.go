package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcelik/personal-hub-backend/internal/instrumentation"
)

func setupTestHandler(t *testing.T) (*repoMock, *mux.Router) {
	t.Helper()
	repo := newRepoMock()
	router := mux.NewRouter()
	NewHandler(repo, instrumentation.NewTestInstrumentation()).SetupRoutes(router)
	return repo, router
}

func TestHandler_handleNewMessage(t *testing.T) {
	repo, router := setupTestHandler(t)

	reqBody, err := json.Marshal(newMessageRequest{
		Name:    gofakeit.Name(),
		Email:   gofakeit.Email(),
		Message: "hi, love the site",
	})
	require.NoError(t, err)

	req, err := http.NewRequest("POST", "/contact", bytes.NewReader(reqBody))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "added:1", rr.Body.String())
	require.Len(t, repo.Messages, 1)
	assert.False(t, repo.Messages[1].ReceivedAt.IsZero())
}

func TestHandler_handleNewMessage_invalid(t *testing.T) {
	testCases := []struct {
		name string
		body newMessageRequest
	}{
		{
			name: "EmailEmpty",
			body: newMessageRequest{Name: "visitor", Message: "hello"},
		},
		{
			name: "MessageEmpty",
			body: newMessageRequest{Name: "visitor", Email: "v@example.com"},
		},
		{
			name: "MessageOnlyWhitespace",
			body: newMessageRequest{Email: "v@example.com", Message: "   "},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo, router := setupTestHandler(t)

			reqBody, err := json.Marshal(tc.body)
			require.NoError(t, err)
			req, err := http.NewRequest("POST", "/contact", bytes.NewReader(reqBody))
			require.NoError(t, err)
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Empty(t, repo.Messages)
		})
	}
}

func TestHandler_handleAll(t *testing.T) {
	repo, router := setupTestHandler(t)

	require.NoError(t, repo.Add(context.Background(), &Message{Email: "a@example.com", Message: "first"}))
	require.NoError(t, repo.Add(context.Background(), &Message{Email: "b@example.com", Message: "second"}))

	req, err := http.NewRequest("GET", "/admin/dashboard/messages", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var messages []*Message
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &messages))
	assert.Len(t, messages, 2)
}

func TestHandler_handleDeleteMessage(t *testing.T) {
	repo, router := setupTestHandler(t)

	message := &Message{Email: "a@example.com", Message: "first"}
	require.NoError(t, repo.Add(context.Background(), message))

	req, err := http.NewRequest("DELETE", fmt.Sprintf("/admin/dashboard/messages/%d", message.ID), nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, repo.Messages)

	rr = httptest.NewRecorder()
	req, err = http.NewRequest("DELETE", fmt.Sprintf("/admin/dashboard/messages/%d", message.ID), nil)
	require.NoError(t, err)
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
