package clamd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultDialTimeout = 10 * time.Second
)

// Client is a client for the ClamAV daemon wire protocol over TCP.
//
// Each operation dials its own connection, performs one command exchange,
// and closes the connection before returning. The protocol is strictly
// request/response with no multiplexing, so concurrent operations from
// multiple goroutines are safe only because they never share a connection.
type Client struct {
	addr        string
	timeout     time.Duration
	dialTimeout time.Duration
	chunkSize   int
	dialer      *net.Dialer
}

// NewClient creates a client for the daemon listening at host:port.
func NewClient(host string, port int, opts ...ClientOption) (*Client, error) {
	if host == "" {
		return nil, NewValidationError("host must not be empty", nil)
	}
	if port < 1 || port > 65535 {
		return nil, NewValidationError(fmt.Sprintf("port must be in [1, 65535]: %d", port), nil)
	}

	c := &Client{
		addr:        net.JoinHostPort(host, strconv.Itoa(port)),
		timeout:     defaultTimeout,
		dialTimeout: defaultDialTimeout,
		chunkSize:   defaultChunkSize,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.dialer == nil {
		c.dialer = &net.Dialer{Timeout: c.dialTimeout}
	}

	return c, nil
}

// Addr returns the daemon address this client dials.
func (c *Client) Addr() string {
	return c.addr
}

// Ping checks daemon liveness. It returns nil when the daemon answers
// PONG, a parse error on any other reply, and a connection/IO error when
// the daemon is unreachable.
func (c *Client) Ping(ctx context.Context) error {
	line, err := c.textCommand(ctx, cmdPing)
	if err != nil {
		return err
	}
	if line != "PONG" {
		return NewParseError(fmt.Sprintf("unexpected reply to PING: %q", line), nil)
	}
	return nil
}

// Version returns the daemon version and virus definition database info.
func (c *Client) Version(ctx context.Context) (*VersionInfo, error) {
	line, err := c.textCommand(ctx, cmdVersion)
	if err != nil {
		return nil, err
	}
	return parseVersion(line)
}

// Stats returns daemon runtime statistics.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	raw, err := c.roundTrip(ctx, cmdStats)
	if err != nil {
		return nil, err
	}
	return parseStats(string(raw)), nil
}

// Reload instructs the daemon to reload its virus definition databases.
func (c *Client) Reload(ctx context.Context) error {
	line, err := c.textCommand(ctx, cmdReload)
	if err != nil {
		return err
	}
	if line != "RELOADING" {
		return NewParseError(fmt.Sprintf("unexpected reply to RELOAD: %q", line), nil)
	}
	return nil
}

// Shutdown asks the daemon to terminate cleanly. The daemon sends no
// reply; every later operation on any client fails until the daemon is
// restarted.
func (c *Client) Shutdown(ctx context.Context) error {
	_, err := c.roundTrip(ctx, cmdShutdown)
	return err
}

// ScanPath asks the daemon to scan path (a file or directory visible on
// the daemon's filesystem) and returns one result per scanned unit, in
// daemon reporting order. With recursive set, CONTSCAN is used so the
// daemon descends into directories and keeps scanning after a hit;
// otherwise SCAN stops at the first hit.
func (c *Client) ScanPath(ctx context.Context, path string, recursive bool) ([]*ScanResult, error) {
	keyword := "SCAN"
	if recursive {
		keyword = "CONTSCAN"
	}
	cmd, err := newPathCommand(keyword, path)
	if err != nil {
		return nil, err
	}
	return c.scanCommand(ctx, cmd)
}

// MultiScanPath is like a recursive ScanPath but lets the daemon scan
// with multiple threads. The daemon may interleave results from its
// workers, so ordering is daemon-defined.
func (c *Client) MultiScanPath(ctx context.Context, path string) ([]*ScanResult, error) {
	cmd, err := newPathCommand("MULTISCAN", path)
	if err != nil {
		return nil, err
	}
	return c.scanCommand(ctx, cmd)
}

// ScanStream streams src to the daemon with the INSTREAM command and
// returns the single scan result. src is read sequentially to EOF; the
// daemon forcibly closes the connection if the stream exceeds its
// configured maximum size, which surfaces here as an IO error.
func (c *Client) ScanStream(ctx context.Context, src io.Reader) (*ScanResult, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if err := conn.send(cmdInstream.encode()); err != nil {
		return nil, c.ctxErr(ctx, err)
	}
	if err := streamChunks(conn, src, c.chunkSize); err != nil {
		return nil, c.ctxErr(ctx, err)
	}

	raw, err := conn.receive()
	if err != nil {
		return nil, c.ctxErr(ctx, err)
	}

	results, err := parseScanReply(raw, cmdInstream.terminator())
	if err != nil {
		return nil, err
	}
	if len(results) != 1 {
		return nil, NewParseError(fmt.Sprintf("expected a single INSTREAM reply line, got %d", len(results)), nil)
	}
	return results[0], nil
}

// ScanBytes scans an in-memory byte slice via INSTREAM.
func (c *Client) ScanBytes(ctx context.Context, data []byte) (*ScanResult, error) {
	return c.ScanStream(ctx, bytes.NewReader(data))
}

// ScanFilePath reads a local file and streams it to the daemon via
// INSTREAM. Unlike ScanPath, the file must be readable by this process,
// not by the daemon.
func (c *Client) ScanFilePath(ctx context.Context, path string) (*ScanResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewValidationError(fmt.Sprintf("failed to open file: %s", path), err)
	}
	defer f.Close()

	return c.ScanStream(ctx, f)
}

// scanCommand runs one path-scan exchange and parses the multi-line reply.
func (c *Client) scanCommand(ctx context.Context, cmd command) ([]*ScanResult, error) {
	raw, err := c.roundTrip(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return parseScanReply(raw, cmd.terminator())
}

// textCommand runs one exchange and returns the first reply line.
func (c *Client) textCommand(ctx context.Context, cmd command) (string, error) {
	raw, err := c.roundTrip(ctx, cmd)
	if err != nil {
		return "", err
	}
	lines := splitReply(raw, cmd.terminator())
	if len(lines) == 0 {
		return "", NewParseError("empty reply from clamd", nil)
	}
	return lines[0], nil
}

// roundTrip performs one command exchange on a fresh connection. The
// connection is closed on every exit path, and context cancellation
// closes it early to abort in-flight reads and writes.
func (c *Client) roundTrip(ctx context.Context, cmd command) ([]byte, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if err := conn.send(cmd.encode()); err != nil {
		return nil, c.ctxErr(ctx, err)
	}
	raw, err := conn.receive()
	if err != nil {
		return nil, c.ctxErr(ctx, err)
	}
	return raw, nil
}

// ctxErr reports context cancellation as a timeout error; a canceled
// context closes the connection, which would otherwise masquerade as a
// generic IO failure.
func (c *Client) ctxErr(ctx context.Context, err error) error {
	switch ctx.Err() {
	case context.Canceled:
		return NewTimeoutError("operation canceled", err)
	case context.DeadlineExceeded:
		return NewTimeoutError("operation timed out", err)
	default:
		return err
	}
}
