package auth

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// SessionLifetime is how long an admin session cookie stays valid after login.
const SessionLifetime = 24 * time.Hour

// Session is the whole session state: the server keeps no session store,
// the browser carries this record in the auth cookie.
type Session struct {
	Email           string `json:"email"`
	Name            string `json:"name"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	LoginTimestamp  int64  `json:"loginTimestamp"` // epoch millis
}

// Expired reports whether the session age reached the lifetime.
// The boundary itself counts as expired.
func (s *Session) Expired(now time.Time) bool {
	return now.UnixMilli()-s.LoginTimestamp >= SessionLifetime.Milliseconds()
}

// Encode serializes the session for the cookie value: JSON wrapped in
// base64url, since raw JSON contains characters not allowed in cookies.
func (s *Session) Encode() (string, error) {
	sessionJson, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}
	return base64.URLEncoding.EncodeToString(sessionJson), nil
}

func DecodeSession(value string) (*Session, error) {
	sessionJson, err := base64.URLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode session value: %w", err)
	}

	var session Session
	if err := json.Unmarshal(sessionJson, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	return &session, nil
}
