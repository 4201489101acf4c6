package stream

import (
	"io"
	"net/http"
)

// relayChunkSize bounds how much remote data sits in memory per copy
// iteration; the source object may be hundreds of megabytes and is never
// buffered whole.
const relayChunkSize = 64 * 1024

// WriteError marks a failure on the client side of the relay (peer closed
// the connection, e.g. the viewer seeked away). There is nobody left to
// report it to.
type WriteError struct{ Err error }

func (e *WriteError) Error() string { return "relay write: " + e.Err.Error() }
func (e *WriteError) Unwrap() error { return e.Err }

// ReadError marks a failure on the backend side of the relay.
type ReadError struct{ Err error }

func (e *ReadError) Error() string { return "relay read: " + e.Err.Error() }
func (e *ReadError) Unwrap() error { return e.Err }

// Relay copies src to dst in fixed-size chunks and reports how many bytes
// reached the client. It is called after response headers are committed.
//
// The copy stops on the first failed write, so a disconnected client never
// causes further pulls from the backend. Each chunk is flushed immediately
// when dst supports it, keeping playback latency bounded by one chunk.
// The relay never restarts or rewinds; a seek shows up as a new request.
func Relay(dst io.Writer, src io.Reader) (int64, error) {
	flusher, _ := dst.(http.Flusher)
	buf := make([]byte, relayChunkSize)
	var written int64

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			wn, writeErr := dst.Write(buf[:n])
			written += int64(wn)
			if writeErr != nil {
				return written, &WriteError{Err: writeErr}
			}
			if wn < n {
				return written, &WriteError{Err: io.ErrShortWrite}
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if readErr == io.EOF {
			return written, nil
		}
		if readErr != nil {
			return written, &ReadError{Err: readErr}
		}
	}
}
