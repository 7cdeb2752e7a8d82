//go:build integration

package clamd

import (
	"bytes"
	"context"
	"net"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Integration tests run against a real daemon, addressed by CLAMD_ADDR
// (default localhost:3310):
//
//	go test -tags=integration ./...

func integrationClient(t *testing.T) *Client {
	t.Helper()
	addr := os.Getenv("CLAMD_ADDR")
	if addr == "" {
		addr = "localhost:3310"
	}
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err, "CLAMD_ADDR must be host:port")
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err, "CLAMD_ADDR must be host:port")

	client, err := NewClient(host, port, WithTimeout(60*time.Second))
	require.NoError(t, err)
	return client
}

func TestIntegrationPing(t *testing.T) {
	client := integrationClient(t)
	require.NoError(t, client.Ping(context.Background()))
}

func TestIntegrationVersion(t *testing.T) {
	client := integrationClient(t)

	info, err := client.Version(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, info.Version)
	t.Logf("Version: %s, DB: %d (%s)", info.Version, info.Database, info.DatabaseDate)
}

func TestIntegrationStats(t *testing.T) {
	client := integrationClient(t)

	st, err := client.Stats(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, st.State)
	t.Logf("Stats: pools=%s state=%s queue=%s", st.Pools, st.State, st.Queue)
}

func TestIntegrationScanCleanBytes(t *testing.T) {
	client := integrationClient(t)

	result, err := client.ScanBytes(context.Background(), []byte("This is a clean test file with no malicious content."))
	require.NoError(t, err)
	require.True(t, result.IsClean(), "got status %q (%s)", result.Status, result.Raw)
}

func TestIntegrationScanEicar(t *testing.T) {
	client := integrationClient(t)

	result, err := client.ScanBytes(context.Background(), EICAR)
	require.NoError(t, err)
	require.True(t, result.IsInfected(), "got status %q (%s)", result.Status, result.Raw)
	require.NotEmpty(t, result.Signature)
	t.Logf("EICAR detected as %s", result.Signature)
}

func TestIntegrationScanStreamLarge(t *testing.T) {
	client := integrationClient(t)

	// Multi-chunk payload; stays below typical StreamMaxLength settings.
	payload := bytes.Repeat([]byte("0123456789abcdef"), 64*1024)
	result, err := client.ScanStream(context.Background(), bytes.NewReader(payload))
	require.NoError(t, err)
	require.True(t, result.IsClean(), "got status %q (%s)", result.Status, result.Raw)
}
