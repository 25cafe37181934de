// Package bootport resolves the service listen port and coordinates it with
// sibling apps through PORTS.json and ACTIVE_PORTS.json files.
package bootport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

const (
	// AppID identifies this service in the shared port registry files.
	AppID = "FlowForm-app"

	// PortRangeStart and PortRangeEnd bound the scan for a free port.
	PortRangeStart = 5400
	PortRangeEnd   = 5499

	dialTimeout  = 250 * time.Millisecond
	pollInterval = 250 * time.Millisecond
)

// ErrNoFreePort reports that the whole range is occupied.
var ErrNoFreePort = fmt.Errorf("no free port found in range %d-%d", PortRangeStart, PortRangeEnd)

// IsPortFree reports whether nothing is listening on host:port. A failed
// dial means free.
func IsPortFree(host string, port int) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, strconv.Itoa(port)), dialTimeout)
	if err != nil {
		return true
	}
	conn.Close()
	return false
}

// PreferredPort reads the registry at path and returns the port registered
// for this app, either as a top-level key or under "apps". Returns 0 when
// the file is missing, malformed, or holds no valid entry.
func PreferredPort(path string) int {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(raw, &data); err != nil {
		return 0
	}

	candidates := []json.RawMessage{data[AppID]}
	if appsRaw, ok := data["apps"]; ok {
		var apps map[string]json.RawMessage
		if err := json.Unmarshal(appsRaw, &apps); err == nil {
			candidates = append(candidates, apps[AppID])
		}
	}

	for _, c := range candidates {
		if c == nil {
			continue
		}
		var port int
		if err := json.Unmarshal(c, &port); err != nil {
			continue
		}
		if port >= 1 && port <= 65535 {
			return port
		}
	}
	return 0
}

// ResolvePort picks the listen port: the registered preference when free,
// otherwise the first free port in the range.
func ResolvePort(portsFile, host string) (int, error) {
	if preferred := PreferredPort(portsFile); preferred != 0 && IsPortFree(host, preferred) {
		return preferred, nil
	}
	for port := PortRangeStart; port <= PortRangeEnd; port++ {
		if IsPortFree(host, port) {
			return port, nil
		}
	}
	return 0, ErrNoFreePort
}

type activeEntry struct {
	App       string `json:"app"`
	Port      int    `json:"port"`
	UpdatedAt int64  `json:"updated_at"`
}

// WriteActivePorts records the chosen port for sibling apps to discover.
func WriteActivePorts(path string, port int) error {
	payload, err := json.MarshalIndent(activeEntry{
		App:       AppID,
		Port:      port,
		UpdatedAt: time.Now().Unix(),
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

// WaitForPort blocks until something is listening on host:port or the
// timeout elapses.
func WaitForPort(host string, port int, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !IsPortFree(host, port) {
			return nil
		}
		time.Sleep(pollInterval)
	}
	return errors.New("timed out waiting for port " + strconv.Itoa(port))
}
