package clamd

import (
	"net"
	"time"
)

// ClientOption configures the client.
type ClientOption func(*Client)

// WithTimeout sets the read/write deadline applied to each socket
// operation. Directory scans can take arbitrarily long server-side, so
// size this for the slowest scan you expect.
// Non-positive durations are ignored (no-op).
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithDialTimeout sets the timeout for establishing the TCP connection.
// Non-positive durations are ignored (no-op).
func WithDialTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.dialTimeout = d
		}
	}
}

// WithChunkSize sets the maximum payload bytes per streamed chunk.
// Values below 1 are ignored (no-op).
func WithChunkSize(n int) ClientOption {
	return func(c *Client) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// WithDialer sets a custom *net.Dialer, overriding WithDialTimeout.
// This allows full control over local address, keep-alive, etc.
func WithDialer(d *net.Dialer) ClientOption {
	return func(c *Client) {
		c.dialer = d
	}
}
