package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_WritesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "drive.log")
	log, err := NewLogger(Config{Level: "info", File: file, Production: true})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("visible")
	_ = log.Sync()

	b, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), `"msg":"visible"`))
	assert.False(t, strings.Contains(string(b), "hidden"))
}

func TestNewLogger_BadLevel(t *testing.T) {
	_, err := NewLogger(Config{Level: "loud"})
	assert.Error(t, err)
}
