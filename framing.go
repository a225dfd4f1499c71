package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"

	"github.com/vmihailenco/msgpack/v5"
)

// MaxFrameSize is the largest payload a u16 length prefix can describe
const MaxFrameSize = math.MaxUint16

var (
	ErrFrameTooLarge     = errors.New("frame payload exceeds 65535 bytes")
	ErrProtocolViolation = errors.New("protocol violation")
)

// FrameReader reassembles u16 big-endian length-prefixed msgpack frames
// from a byte stream that arrives in arbitrary chunks.
type FrameReader[T any] struct {
	buf []byte
}

func NewFrameReader[T any]() *FrameReader[T] {
	return &FrameReader[T]{}
}

// Feed appends freshly read bytes
func (r *FrameReader[T]) Feed(p []byte) {
	r.buf = append(r.buf, p...)
}

// Buffered is the number of bytes waiting for a complete frame
func (r *FrameReader[T]) Buffered() int { return len(r.buf) }

// Next decodes the next complete frame. ok is false when the buffer holds
// no complete frame yet; the buffer is then left untouched. A frame that
// fails to decode is consumed and reported as ErrProtocolViolation.
func (r *FrameReader[T]) Next() (msg T, ok bool, err error) {
	if len(r.buf) < 2 {
		return msg, false, nil
	}
	n := int(binary.BigEndian.Uint16(r.buf))
	if len(r.buf) < 2+n {
		return msg, false, nil
	}
	payload := r.buf[2 : 2+n]
	err = msgpack.Unmarshal(payload, &msg)
	r.buf = append(r.buf[:0], r.buf[2+n:]...)
	if err != nil {
		var zero T
		return zero, false, fmt.Errorf("%w: %v", ErrProtocolViolation, err)
	}
	return msg, true, nil
}

// All yields every complete frame currently buffered. Iteration stops at
// the first incomplete frame or after yielding a decode error, and can be
// resumed with a later call once more bytes are fed.
func (r *FrameReader[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			msg, ok, err := r.Next()
			if err != nil {
				yield(msg, err)
				return
			}
			if !ok || !yield(msg, nil) {
				return
			}
		}
	}
}

// EncodeFrame marshals v and prepends the length prefix
func EncodeFrame(v any) ([]byte, error) {
	payload, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return Frame(payload)
}

// Frame prepends the length prefix to an encoded payload
func Frame(payload []byte) ([]byte, error) {
	if len(payload) > MaxFrameSize {
		return nil, ErrFrameTooLarge
	}
	frame := make([]byte, 2+len(payload))
	binary.BigEndian.PutUint16(frame, uint16(len(payload)))
	copy(frame[2:], payload)
	return frame, nil
}

// WriteFrame writes a whole frame, retrying transient errors
func WriteFrame(w io.Writer, frame []byte) error {
	for len(frame) > 0 {
		n, err := w.Write(frame)
		frame = frame[n:]
		if err != nil {
			if classifyNetError(err) == errTransient {
				continue
			}
			return err
		}
	}
	return nil
}
