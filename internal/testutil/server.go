// Package testutil provides a stub clamd daemon for the clamd client tests.
package testutil

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// Exchange records one command exchange as observed by the stub daemon.
type Exchange struct {
	// Command is the decoded command line, e.g. "SCAN /tmp/x" or
	// "zINSTREAM".
	Command string
	// NullFramed reports whether the command arrived NUL-terminated
	// rather than newline-terminated.
	NullFramed bool
	// Chunks holds the INSTREAM payload chunks in arrival order, without
	// the zero-length terminator.
	Chunks [][]byte
}

// Payload reassembles the streamed chunks.
func (e Exchange) Payload() []byte {
	var p []byte
	for _, c := range e.Chunks {
		p = append(p, c...)
	}
	return p
}

// ReplyFunc produces the raw reply bytes for one exchange. It runs on the
// stub's connection goroutine, so it may sleep to simulate a slow daemon.
type ReplyFunc func(ex Exchange) []byte

// Daemon is a stub clamd listening on a loopback TCP port. Like the real
// daemon it serves one command per connection and closes its side after
// replying.
type Daemon struct {
	ln     net.Listener
	reply  ReplyFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	exs    []Exchange
	closed int
}

// NewDaemon starts a stub daemon. It is shut down via t.Cleanup.
func NewDaemon(t *testing.T, reply ReplyFunc) *Daemon {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	d := &Daemon{ln: ln, reply: reply}
	go d.serve()
	t.Cleanup(d.Close)
	return d
}

// Host returns the daemon's listen host.
func (d *Daemon) Host() string {
	host, _, _ := net.SplitHostPort(d.ln.Addr().String())
	return host
}

// Port returns the daemon's listen port.
func (d *Daemon) Port() int {
	_, portStr, _ := net.SplitHostPort(d.ln.Addr().String())
	port, _ := strconv.Atoi(portStr)
	return port
}

// Close stops the listener and waits for in-flight connections.
func (d *Daemon) Close() {
	d.ln.Close()
	d.wg.Wait()
}

// Exchanges returns a snapshot of the recorded exchanges in arrival order.
func (d *Daemon) Exchanges() []Exchange {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Exchange(nil), d.exs...)
}

// ClosedConns reports how many client connections have been observed
// closed after their exchange completed.
func (d *Daemon) ClosedConns() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *Daemon) serve() {
	for {
		conn, err := d.ln.Accept()
		if err != nil {
			return
		}
		d.wg.Add(1)
		go d.handle(conn)
	}
}

func (d *Daemon) handle(conn net.Conn) {
	defer d.wg.Done()
	defer conn.Close()
	defer func() {
		d.mu.Lock()
		d.closed++
		d.mu.Unlock()
	}()

	conn.SetDeadline(time.Now().Add(10 * time.Second))
	br := bufio.NewReader(conn)

	ex, err := readExchange(br)
	if err != nil {
		return
	}

	d.mu.Lock()
	d.exs = append(d.exs, ex)
	d.mu.Unlock()

	if _, err := conn.Write(d.reply(ex)); err != nil {
		return
	}

	// Half-close like the real daemon: the reply ends in EOF, but the
	// read side stays open so client-side connection cleanup is observed.
	if tc, ok := conn.(*net.TCPConn); ok {
		tc.CloseWrite()
	}
	io.Copy(io.Discard, br)
}

func readExchange(br *bufio.Reader) (Exchange, error) {
	var ex Exchange
	var cmd []byte
	for {
		b, err := br.ReadByte()
		if err != nil {
			return ex, err
		}
		if b == '\n' || b == 0 {
			ex.NullFramed = b == 0
			break
		}
		cmd = append(cmd, b)
	}
	ex.Command = string(cmd)

	if strings.TrimPrefix(ex.Command, "z") == "INSTREAM" {
		chunks, err := readChunks(br)
		ex.Chunks = chunks
		if err != nil {
			return ex, err
		}
	}
	return ex, nil
}

func readChunks(br *bufio.Reader) ([][]byte, error) {
	var chunks [][]byte
	var prefix [4]byte
	for {
		if _, err := io.ReadFull(br, prefix[:]); err != nil {
			return chunks, err
		}
		n := binary.BigEndian.Uint32(prefix[:])
		if n == 0 {
			return chunks, nil
		}
		chunk := make([]byte, n)
		if _, err := io.ReadFull(br, chunk); err != nil {
			return chunks, err
		}
		chunks = append(chunks, chunk)
	}
}

// OKReply renders a clean scan reply line in the given framing.
func OKReply(path string, nullFramed bool) []byte {
	return replyLine(fmt.Sprintf("%s: OK", path), nullFramed)
}

// FoundReply renders an infected scan reply line in the given framing.
func FoundReply(path, signature string, nullFramed bool) []byte {
	return replyLine(fmt.Sprintf("%s: %s FOUND", path, signature), nullFramed)
}

// ErrorReply renders a daemon-side scan error reply line in the given
// framing.
func ErrorReply(path, message string, nullFramed bool) []byte {
	return replyLine(fmt.Sprintf("%s: %s ERROR", path, message), nullFramed)
}

// Static returns a ReplyFunc that answers every exchange with the same
// bytes.
func Static(reply []byte) ReplyFunc {
	return func(Exchange) []byte { return reply }
}

func replyLine(line string, nullFramed bool) []byte {
	term := byte('\n')
	if nullFramed {
		term = 0
	}
	return append([]byte(line), term)
}
