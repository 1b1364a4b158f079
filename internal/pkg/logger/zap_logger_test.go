package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedLogger_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.log")
	l := NewIsolatedLogger(path)

	l.Debug("WS", "dropped below info", nil)
	l.Info("WS", "client registered", map[string]interface{}{"session_id": "abc"})
	l.Error("WS", "write failed", map[string]interface{}{"error": "broken pipe"})
	_ = l.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "client registered", entry["message"])
	assert.Equal(t, "WS", entry["module"])
	assert.Equal(t, "abc", entry["details"].(map[string]interface{})["session_id"])

	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	assert.Equal(t, "broken pipe", entry["error_ref"])
}

func TestNopLogger(t *testing.T) {
	var l ILogger = NewNopLogger()
	assert.NotPanics(t, func() {
		l.Info("TEST", "nothing", nil)
		l.Error("TEST", "nothing", map[string]interface{}{"error": "x"})
	})
}
