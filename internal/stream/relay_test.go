package stream

import (
	"bytes"
	"crypto/rand"
	"errors"
	"io"
	"testing"
)

// failingWriter accepts n bytes then fails every write.
type failingWriter struct {
	remaining int
	wrote     bytes.Buffer
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.remaining <= 0 {
		return 0, errors.New("broken pipe")
	}
	n := len(p)
	if n > w.remaining {
		n = w.remaining
	}
	w.wrote.Write(p[:n])
	w.remaining -= n
	if n < len(p) {
		return n, errors.New("broken pipe")
	}
	return n, nil
}

// failingReader serves its payload then fails instead of returning EOF.
type failingReader struct {
	payload *bytes.Reader
}

func (r *failingReader) Read(p []byte) (int, error) {
	n, err := r.payload.Read(p)
	if err == io.EOF {
		return n, errors.New("connection reset")
	}
	return n, err
}

// flushCountingWriter records how often the relay flushed.
type flushCountingWriter struct {
	bytes.Buffer
	flushes int
}

func (w *flushCountingWriter) Flush() { w.flushes++ }

func TestRelayCopiesEverything(t *testing.T) {
	t.Parallel()

	payload := make([]byte, 3*relayChunkSize+17)
	if _, err := rand.Read(payload); err != nil {
		t.Fatal(err)
	}

	var dst bytes.Buffer
	n, err := Relay(&dst, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Relay() error = %v", err)
	}
	if n != int64(len(payload)) {
		t.Fatalf("Relay() n = %d, want %d", n, len(payload))
	}
	if !bytes.Equal(dst.Bytes(), payload) {
		t.Fatalf("relayed bytes differ from payload")
	}
}

func TestRelayStopsOnWriteFailure(t *testing.T) {
	t.Parallel()

	payload := make([]byte, 4*relayChunkSize)
	dst := &failingWriter{remaining: relayChunkSize + 100}

	n, err := Relay(dst, bytes.NewReader(payload))
	if err == nil {
		t.Fatal("Relay() should fail when the client goes away")
	}
	var we *WriteError
	if !errors.As(err, &we) {
		t.Fatalf("Relay() error = %T, want *WriteError", err)
	}
	if n != int64(dst.wrote.Len()) {
		t.Fatalf("Relay() n = %d, want %d bytes actually written", n, dst.wrote.Len())
	}
	if n >= int64(len(payload)) {
		t.Fatalf("relay should have stopped early, copied %d of %d", n, len(payload))
	}
}

func TestRelayReportsReadFailure(t *testing.T) {
	t.Parallel()

	payload := make([]byte, relayChunkSize/2)
	src := &failingReader{payload: bytes.NewReader(payload)}

	var dst bytes.Buffer
	n, err := Relay(&dst, src)
	var re *ReadError
	if !errors.As(err, &re) {
		t.Fatalf("Relay() error = %T (%v), want *ReadError", err, err)
	}
	if n != int64(len(payload)) {
		t.Fatalf("Relay() n = %d, want %d bytes delivered before the failure", n, len(payload))
	}
}

func TestRelayFlushesPerChunk(t *testing.T) {
	t.Parallel()

	payload := make([]byte, 3*relayChunkSize)
	dst := &flushCountingWriter{}

	if _, err := Relay(dst, bytes.NewReader(payload)); err != nil {
		t.Fatalf("Relay() error = %v", err)
	}
	if dst.flushes < 3 {
		t.Fatalf("flushes = %d, want at least one per chunk", dst.flushes)
	}
}
