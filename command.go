package clamd

import (
	"fmt"
	"strings"
)

// framing is the terminator convention a command uses on the wire. The
// daemon replies in the same framing it was addressed in, so the encoder
// and the reply splitter both read this attribute from the command.
type framing byte

const (
	framingNewline framing = '\n'
	framingNull    framing = 0
)

// command is one logical daemon command, immutable once constructed.
type command struct {
	keyword string
	arg     string
	framing framing
}

var (
	cmdPing     = command{keyword: "PING", framing: framingNewline}
	cmdVersion  = command{keyword: "VERSION", framing: framingNewline}
	cmdReload   = command{keyword: "RELOAD", framing: framingNewline}
	cmdShutdown = command{keyword: "SHUTDOWN", framing: framingNewline}
	cmdStats    = command{keyword: "STATS", framing: framingNewline}

	// INSTREAM carries a binary payload, so it uses the daemon's
	// z-prefixed NUL-terminated convention. Mixing this up with newline
	// framing desyncs the daemon.
	cmdInstream = command{keyword: "zINSTREAM", framing: framingNull}
)

// newPathCommand constructs a path-carrying scan command (SCAN, CONTSCAN,
// MULTISCAN). The protocol is NUL/newline framed, so paths containing
// either byte cannot be represented and are rejected here; encode never
// fails.
func newPathCommand(keyword, path string) (command, error) {
	if path == "" {
		return command{}, NewValidationError("scan path must not be empty", nil)
	}
	if strings.ContainsAny(path, "\x00\n") {
		return command{}, NewValidationError(
			fmt.Sprintf("scan path must not contain NUL or newline bytes: %q", path), nil)
	}
	return command{keyword: keyword, arg: path, framing: framingNewline}, nil
}

// encode serializes the command into the exact byte sequence the daemon
// expects: keyword, a single space and the argument if any, then the
// command's terminator.
func (c command) encode() []byte {
	n := len(c.keyword) + 1
	if c.arg != "" {
		n += len(c.arg) + 1
	}
	buf := make([]byte, 0, n)
	buf = append(buf, c.keyword...)
	if c.arg != "" {
		buf = append(buf, ' ')
		buf = append(buf, c.arg...)
	}
	return append(buf, byte(c.framing))
}

// terminator is the byte delimiting reply lines for this command.
func (c command) terminator() byte {
	return byte(c.framing)
}
