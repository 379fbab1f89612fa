package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_EncodeDecodeRoundTrip(t *testing.T) {
	now := time.Now()
	session := &Session{
		Email:           "a@x.com",
		Name:            "Barkin Celiker",
		IsAuthenticated: true,
		LoginTimestamp:  now.UnixMilli(),
	}

	encoded, err := session.Encode()
	require.NoError(t, err)
	require.NotEmpty(t, encoded)

	decoded, err := DecodeSession(encoded)
	require.NoError(t, err)
	assert.Equal(t, session.Email, decoded.Email)
	assert.Equal(t, session.Name, decoded.Name)
	assert.True(t, decoded.IsAuthenticated)
	assert.Equal(t, session.LoginTimestamp, decoded.LoginTimestamp)
	assert.False(t, decoded.Expired(now))
}

func TestDecodeSession_garbage(t *testing.T) {
	for name, value := range map[string]string{
		"empty":           "",
		"not-base64":      "%%%not-base64%%%",
		"not-json":        "bm90IGpzb24=", // base64("not json")
		"json-not-object": "WzEsMiwzXQ==", // base64("[1,2,3]")
	} {
		t.Run(name, func(t *testing.T) {
			session, err := DecodeSession(value)
			assert.Error(t, err)
			assert.Nil(t, session)
		})
	}
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()

	freshSession := &Session{LoginTimestamp: now.UnixMilli()}
	assert.False(t, freshSession.Expired(now))

	almostExpired := &Session{
		LoginTimestamp: now.Add(-SessionLifetime + time.Millisecond).UnixMilli(),
	}
	assert.False(t, almostExpired.Expired(now))

	// the exact lifetime boundary already counts as expired
	boundarySession := &Session{
		LoginTimestamp: now.Add(-SessionLifetime).UnixMilli(),
	}
	assert.True(t, boundarySession.Expired(now))

	oldSession := &Session{
		LoginTimestamp: now.Add(-2 * SessionLifetime).UnixMilli(),
	}
	assert.True(t, oldSession.Expired(now))
}
