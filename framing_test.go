package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func testStream(t *testing.T) ([]byte, []ClientMessage) {
	t.Helper()
	msgs := []ClientMessage{
		JoinMessage("Goose", PlaneHowdyCowboy, ColorYellow),
		InputMessage(ClientInput{XInput: 0.5, YInput: -1, Shooting: true}),
		InputMessage(ClientInput{ActivatingPowerup: true}),
	}
	var stream []byte
	for _, m := range msgs {
		frame, err := EncodeFrame(m)
		require.NoError(t, err)
		stream = append(stream, frame...)
	}
	return stream, msgs
}

func collect(t *testing.T, r *FrameReader[ClientMessage]) []ClientMessage {
	t.Helper()
	var out []ClientMessage
	for msg, err := range r.All() {
		require.NoError(t, err)
		out = append(out, msg)
	}
	return out
}

func TestFrameReaderAllAtOnce(t *testing.T) {
	stream, want := testStream(t)
	r := NewFrameReader[ClientMessage]()
	r.Feed(stream)
	assert.Equal(t, want, collect(t, r))
	assert.Zero(t, r.Buffered())
}

func TestFrameReaderByteByByte(t *testing.T) {
	stream, want := testStream(t)
	r := NewFrameReader[ClientMessage]()
	var got []ClientMessage
	for _, b := range stream {
		r.Feed([]byte{b})
		got = append(got, collect(t, r)...)
	}
	assert.Equal(t, want, got)
}

func TestFrameReaderArbitrarySplits(t *testing.T) {
	stream, want := testStream(t)
	for _, size := range []int{2, 3, 7, 13} {
		r := NewFrameReader[ClientMessage]()
		var got []ClientMessage
		for chunk := range slicesChunk(stream, size) {
			r.Feed(chunk)
			got = append(got, collect(t, r)...)
		}
		assert.Equal(t, want, got, "chunk size %d", size)
	}
}

func slicesChunk(b []byte, n int) func(func([]byte) bool) {
	return func(yield func([]byte) bool) {
		for len(b) > 0 {
			k := min(n, len(b))
			if !yield(b[:k]) {
				return
			}
			b = b[k:]
		}
	}
}

func TestFrameReaderIncomplete(t *testing.T) {
	stream, _ := testStream(t)
	r := NewFrameReader[ClientMessage]()
	r.Feed(stream[:1])
	_, ok, err := r.Next()
	assert.False(t, ok)
	assert.NoError(t, err)

	first := int(binary.BigEndian.Uint16(stream)) + 2
	r.Feed(stream[1 : first-1])
	_, ok, err = r.Next()
	assert.False(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, first-1, r.Buffered(), "incomplete frame must stay buffered")

	r.Feed(stream[first-1 : first])
	msg, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, MsgJoin, msg.Type)
}

func TestFrameReaderDecodeError(t *testing.T) {
	garbage, err := Frame([]byte{0xc1}) // never-used msgpack byte
	require.NoError(t, err)
	good, err := EncodeFrame(InputMessage(ClientInput{Shooting: true}))
	require.NoError(t, err)

	r := NewFrameReader[ClientMessage]()
	r.Feed(append(garbage, good...))

	var errs []error
	for _, err := range r.All() {
		errs = append(errs, err)
	}
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], ErrProtocolViolation))

	msg, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok, "the bad frame is consumed, the next one survives")
	assert.True(t, msg.Input.Shooting)
}

func TestFrameReaderUnknownType(t *testing.T) {
	payload, err := msgpack.Marshal(map[string]any{"t": "teleport"})
	require.NoError(t, err)
	frame, err := Frame(payload)
	require.NoError(t, err)

	r := NewFrameReader[ClientMessage]()
	r.Feed(frame)
	_, _, err = r.Next()
	assert.ErrorIs(t, err, ErrProtocolViolation)
}

func TestFrameTooLarge(t *testing.T) {
	_, err := Frame(make([]byte, MaxFrameSize+1))
	assert.ErrorIs(t, err, ErrFrameTooLarge)

	frame, err := Frame(make([]byte, MaxFrameSize))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xff}, frame[:2])
}

func TestFrameEmptyPayload(t *testing.T) {
	frame, err := Frame(nil)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0}, frame)
}

// shortWriter accepts at most n bytes per call
type shortWriter struct {
	buf bytes.Buffer
	n   int
}

func (w *shortWriter) Write(p []byte) (int, error) {
	if len(p) > w.n {
		p = p[:w.n]
	}
	return w.buf.Write(p)
}

func TestWriteFrameHandlesShortWrites(t *testing.T) {
	frame, err := EncodeFrame(AssignIDMessage(42))
	require.NoError(t, err)
	w := &shortWriter{n: 3}
	require.NoError(t, WriteFrame(w, frame))
	assert.Equal(t, frame, w.buf.Bytes())

	r := NewFrameReader[ServerMessage]()
	r.Feed(w.buf.Bytes())
	msg, ok, err := r.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(42), msg.ID)
}
