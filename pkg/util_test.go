package pkg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesToString(t *testing.T) {
	assert.Equal(t, "", BytesToString(nil))
	assert.Equal(t, "personal hub", BytesToString([]byte("personal hub")))
}

func TestGenerateRandomString(t *testing.T) {
	s1, err := GenerateRandomString(25)
	require.NoError(t, err)
	s2, err := GenerateRandomString(25)
	require.NoError(t, err)

	assert.NotEmpty(t, s1)
	assert.NotEmpty(t, s2)
	assert.NotEqual(t, s1, s2)
}

func TestPathExists(t *testing.T) {
	tempDir := t.TempDir()

	exists, err := PathExists(tempDir, true)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = PathExists(filepath.Join(tempDir, "nope"), true)
	require.NoError(t, err)
	assert.False(t, exists)

	filePath := filepath.Join(tempDir, "cv.pdf")
	require.NoError(t, os.WriteFile(filePath, []byte("cv"), 0o644))

	exists, err = PathExists(filePath, false)
	require.NoError(t, err)
	assert.True(t, exists)

	// a file is not a dir
	exists, err = PathExists(filePath, true)
	require.NoError(t, err)
	assert.False(t, exists)
}
