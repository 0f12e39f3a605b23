package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "newsdesk.log")

	l, err := New(Config{Level: "debug", Encoding: "json", OutputPath: path})
	require.NoError(t, err)
	l.Info("scene shown", zap.String("scene", "START"))
	_ = l.Sync()

	b, err := os.ReadFile(path) //nolint:gosec // test-owned temp file
	require.NoError(t, err)
	line := string(b)
	assert.Contains(t, line, `"level":"INFO"`)
	assert.Contains(t, line, `"scene":"START"`)
	assert.Contains(t, line, `"timestamp"`)
}

func TestNew_FallsBackOnBadLevelAndEncoding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fallback.log")

	l, err := New(Config{Level: "loud", Encoding: "xml", OutputPath: path})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.DebugLevel))
	assert.True(t, l.Core().Enabled(zap.InfoLevel))

	l.Info("hello")
	_ = l.Sync()
	b, err := os.ReadFile(path) //nolint:gosec // test-owned temp file
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(string(b)), "{"), "expected json output, got %q", b)
}

func TestNew_BadOutputPath(t *testing.T) {
	_, err := New(Config{OutputPath: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	assert.Error(t, err)
}
