package clamd

import (
	"encoding/binary"
	"io"
)

// defaultChunkSize bounds how much of the scan source is buffered per
// chunk on the wire.
const defaultChunkSize = 4096

// streamChunks sends the INSTREAM payload: each chunk is a 4-byte
// big-endian length prefix followed by that many payload bytes, and a
// zero-valued prefix marks end of stream. A zero-length source sends only
// the terminator. The protocol has no resumption, so any source or
// transport error aborts the whole stream.
func streamChunks(conn *daemonConn, src io.Reader, chunkSize int) error {
	buf := make([]byte, chunkSize)
	var prefix [4]byte
	for {
		n, err := src.Read(buf)
		if n > 0 {
			binary.BigEndian.PutUint32(prefix[:], uint32(n))
			if werr := conn.send(prefix[:]); werr != nil {
				return werr
			}
			if werr := conn.send(buf[:n]); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return NewIOError("read scan source failed", err)
		}
	}
	binary.BigEndian.PutUint32(prefix[:], 0)
	return conn.send(prefix[:])
}
