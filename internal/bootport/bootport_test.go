package bootport_test

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowform/internal/bootport"
)

// listenAnyPort grabs an ephemeral port so tests exercise a genuinely
// occupied socket.
func listenAnyPort(t *testing.T) (net.Listener, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	_, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return ln, port
}

func TestIsPortFree(t *testing.T) {
	ln, port := listenAnyPort(t)

	assert.False(t, bootport.IsPortFree("127.0.0.1", port))

	ln.Close()
	assert.True(t, bootport.IsPortFree("127.0.0.1", port))
}

func TestPreferredPort(t *testing.T) {
	dir := t.TempDir()

	write := func(name string, v any) string {
		t.Helper()
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, raw, 0o644))
		return path
	}

	t.Run("top-level key", func(t *testing.T) {
		path := write("top.json", map[string]any{bootport.AppID: 5412})
		assert.Equal(t, 5412, bootport.PreferredPort(path))
	})

	t.Run("nested under apps", func(t *testing.T) {
		path := write("nested.json", map[string]any{
			"apps": map[string]any{bootport.AppID: 5413},
		})
		assert.Equal(t, 5413, bootport.PreferredPort(path))
	})

	t.Run("top-level wins over nested", func(t *testing.T) {
		path := write("both.json", map[string]any{
			bootport.AppID: 5414,
			"apps":         map[string]any{bootport.AppID: 5415},
		})
		assert.Equal(t, 5414, bootport.PreferredPort(path))
	})

	t.Run("out-of-range port rejected", func(t *testing.T) {
		path := write("bad.json", map[string]any{bootport.AppID: 70000})
		assert.Equal(t, 0, bootport.PreferredPort(path))
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Equal(t, 0, bootport.PreferredPort(filepath.Join(dir, "absent.json")))
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(dir, "malformed.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
		assert.Equal(t, 0, bootport.PreferredPort(path))
	})
}

func TestResolvePortSkipsBusyPreference(t *testing.T) {
	_, busy := listenAnyPort(t)

	raw, err := json.Marshal(map[string]any{bootport.AppID: busy})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "PORTS.json")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	port, err := bootport.ResolvePort(path, "127.0.0.1")
	require.NoError(t, err)
	assert.NotEqual(t, busy, port)
	assert.GreaterOrEqual(t, port, bootport.PortRangeStart)
	assert.LessOrEqual(t, port, bootport.PortRangeEnd)
}

func TestWriteActivePorts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ACTIVE_PORTS.json")
	require.NoError(t, bootport.WriteActivePorts(path, 5421))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry struct {
		App       string `json:"app"`
		Port      int    `json:"port"`
		UpdatedAt int64  `json:"updated_at"`
	}
	require.NoError(t, json.Unmarshal(raw, &entry))

	assert.Equal(t, bootport.AppID, entry.App)
	assert.Equal(t, 5421, entry.Port)
	assert.InDelta(t, time.Now().Unix(), entry.UpdatedAt, 5)
}

func TestWaitForPort(t *testing.T) {
	_, port := listenAnyPort(t)
	assert.NoError(t, bootport.WaitForPort("127.0.0.1", port, time.Second))
}

func TestWaitForPortTimeout(t *testing.T) {
	ln, port := listenAnyPort(t)
	ln.Close()

	err := bootport.WaitForPort("127.0.0.1", port, 300*time.Millisecond)
	assert.Error(t, err)
}
