package clamd

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

// streamRecording is what the fake daemon side of the pipe observed.
type streamRecording struct {
	chunks     [][]byte
	terminated bool
}

// recordStream consumes length-prefixed chunks from r until the zero-length
// terminator or stream end.
func recordStream(r io.Reader) <-chan streamRecording {
	out := make(chan streamRecording, 1)
	go func() {
		var rec streamRecording
		var prefix [4]byte
		for {
			if _, err := io.ReadFull(r, prefix[:]); err != nil {
				out <- rec
				return
			}
			n := binary.BigEndian.Uint32(prefix[:])
			if n == 0 {
				rec.terminated = true
				out <- rec
				return
			}
			chunk := make([]byte, n)
			if _, err := io.ReadFull(r, chunk); err != nil {
				out <- rec
				return
			}
			rec.chunks = append(rec.chunks, chunk)
		}
	}()
	return out
}

func TestStreamChunksZeroLengthSource(t *testing.T) {
	local, remote := net.Pipe()
	recorded := recordStream(remote)

	conn := &daemonConn{Conn: local}
	err := streamChunks(conn, bytes.NewReader(nil), 4096)
	require.NoError(t, err)
	local.Close()

	rec := <-recorded
	require.True(t, rec.terminated, "terminator must be sent even for an empty source")
	require.Empty(t, rec.chunks, "no payload chunks expected for an empty source")
}

func TestStreamChunksBoundedChunks(t *testing.T) {
	tests := []struct {
		name       string
		size       int
		chunkSize  int
		wantChunks int
	}{
		{"smaller than one chunk", 100, 4096, 1},
		{"exact multiple", 8192, 4096, 2},
		{"remainder chunk", 10000, 4096, 3},
		{"tiny chunks", 10, 3, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := require.New(t)
			payload := make([]byte, tt.size)
			for i := range payload {
				payload[i] = byte(i)
			}

			local, remote := net.Pipe()
			recorded := recordStream(remote)

			conn := &daemonConn{Conn: local}
			r.NoError(streamChunks(conn, bytes.NewReader(payload), tt.chunkSize))
			local.Close()

			rec := <-recorded
			r.True(rec.terminated)
			r.Len(rec.chunks, tt.wantChunks)
			for _, chunk := range rec.chunks {
				r.LessOrEqual(len(chunk), tt.chunkSize)
			}
			r.Equal(payload, bytes.Join(rec.chunks, nil))
		})
	}
}

func TestStreamChunksSourceError(t *testing.T) {
	local, remote := net.Pipe()
	recorded := recordStream(remote)

	src := io.MultiReader(
		bytes.NewReader(make([]byte, 4096)),
		&failingReader{err: errors.New("disk read failed")},
	)

	conn := &daemonConn{Conn: local}
	err := streamChunks(conn, src, 4096)
	require.Error(t, err)
	require.True(t, IsIOError(err))
	local.Close()

	rec := <-recorded
	require.False(t, rec.terminated, "aborted stream must not send the terminator")
	require.Len(t, rec.chunks, 1)
}

func TestStreamChunksWriteError(t *testing.T) {
	local, remote := net.Pipe()
	remote.Close()

	conn := &daemonConn{Conn: local}
	err := streamChunks(conn, bytes.NewReader(make([]byte, 100)), 4096)
	require.Error(t, err)
	require.True(t, IsIOError(err))
}

type failingReader struct {
	err error
}

func (f *failingReader) Read([]byte) (int, error) {
	return 0, f.err
}
