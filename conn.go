package clamd

import (
	"context"
	"errors"
	"io"
	"net"
	"time"
)

// daemonConn wraps one TCP connection to the daemon. A connection carries
// exactly one command exchange and is closed when the operation returns;
// it is not safe for concurrent use.
type daemonConn struct {
	net.Conn
	timeout time.Duration
}

// dial opens a fresh connection for one operation. The context governs the
// dial itself; callers additionally arrange for cancellation to close the
// returned connection so in-flight reads and writes abort.
func (c *Client) dial(ctx context.Context) (*daemonConn, error) {
	nc, err := c.dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewTimeoutError("connect to clamd canceled", err)
		}
		return nil, classifyDialError(err)
	}
	return &daemonConn{Conn: nc, timeout: c.timeout}, nil
}

// send writes p in full, bounded by the connection's write deadline.
func (c *daemonConn) send(p []byte) error {
	if c.timeout > 0 {
		if err := c.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
			return NewIOError("failed to set write deadline", err)
		}
	}
	if _, err := c.Write(p); err != nil {
		return classifyIOError("write to clamd failed", err)
	}
	return nil
}

// receive reads the daemon's full reply. The daemon closes its side after
// answering a one-shot command, so reading to EOF yields exactly one
// response cycle; the read deadline keeps a stalled daemon from hanging
// the caller.
func (c *daemonConn) receive() ([]byte, error) {
	if c.timeout > 0 {
		if err := c.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return nil, NewIOError("failed to set read deadline", err)
		}
	}
	raw, err := io.ReadAll(c)
	if err != nil {
		return nil, classifyIOError("read from clamd failed", err)
	}
	return raw, nil
}

// classifyDialError maps connection establishment failures to client error
// types.
func classifyDialError(err error) error {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return NewTimeoutError("connect to clamd timed out", err)
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return NewConnectionError("DNS resolution failed", err)
	}
	return NewConnectionError("connect to clamd failed", err)
}

// classifyIOError maps send/receive failures on an established connection
// to client error types.
func classifyIOError(msg string, err error) error {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return NewTimeoutError(msg+": deadline exceeded", err)
	}
	return NewIOError(msg, err)
}
