package main

import (
	"errors"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"syscall"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

const (
	readChunkSize = 4096
	chunkBufSize  = 64
	maxNameLen    = 16
	defaultName   = "Pilot"
)

// errClass buckets I/O errors by how the tick loop reacts to them
type errClass int

const (
	errNone       errClass = iota
	errTransient           // retry
	errPeerClosed          // drop the connection
	errProtocol            // drop the connection, peer sent garbage
	errFatal               // stop the server
)

func (c errClass) String() string {
	switch c {
	case errNone:
		return "none"
	case errTransient:
		return "transient"
	case errPeerClosed:
		return "peer closed"
	case errProtocol:
		return "protocol violation"
	}
	return "fatal"
}

func classifyNetError(err error) errClass {
	switch {
	case err == nil:
		return errNone
	case errors.Is(err, ErrProtocolViolation):
		return errProtocol
	case errors.Is(err, syscall.EAGAIN), errors.Is(err, syscall.EINTR):
		return errTransient
	case errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, io.ErrClosedPipe),
		errors.Is(err, net.ErrClosed),
		errors.Is(err, os.ErrDeadlineExceeded),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EPIPE),
		errors.Is(err, syscall.ECONNABORTED),
		errors.Is(err, syscall.ETIMEDOUT),
		errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ENETUNREACH):
		return errPeerClosed
	}
	return errFatal
}

// Conn is one client TCP connection. A read pump goroutine moves bytes
// into a channel; everything else is touched only by the tick loop.
type Conn struct {
	id           uint64
	conn         net.Conn
	reader       *FrameReader[ClientMessage]
	chunks       chan []byte
	readErr      chan error
	done         chan struct{}
	closeOnce    sync.Once
	writeTimeout time.Duration
	log          zerolog.Logger

	input   ClientInput
	dropped bool
	reason  string
}

func NewConn(id uint64, c net.Conn, writeTimeout time.Duration, log zerolog.Logger) *Conn {
	return &Conn{
		id:           id,
		conn:         c,
		reader:       NewFrameReader[ClientMessage](),
		chunks:       make(chan []byte, chunkBufSize),
		readErr:      make(chan error, 1),
		done:         make(chan struct{}),
		writeTimeout: writeTimeout,
		log:          log.With().Uint64("id", id).Str("addr", c.RemoteAddr().String()).Logger(),
	}
}

func (c *Conn) ID() uint64 { return c.id }

// ReadPump reads until the connection fails, then reports the error once
func (c *Conn) ReadPump() {
	buf := make([]byte, readChunkSize)
	for {
		n, err := c.conn.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case c.chunks <- chunk:
			case <-c.done:
				return
			}
		}
		if err != nil {
			if classifyNetError(err) == errTransient {
				continue
			}
			c.readErr <- err
			return
		}
	}
}

// Fetch moves whatever the read pump has delivered into the frame buffer
// without blocking. It returns the pump's terminal error, if any, only
// after every byte read before it has been buffered.
func (c *Conn) Fetch() error {
	var err error
	select {
	case err = <-c.readErr:
	default:
	}
	for {
		select {
		case chunk := <-c.chunks:
			c.reader.Feed(chunk)
		default:
			return err
		}
	}
}

// Send writes a complete frame within the write timeout
func (c *Conn) Send(frame []byte) error {
	if c.writeTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return err
		}
	}
	return WriteFrame(c.conn, frame)
}

// Drop marks the connection for removal at the end of the tick
func (c *Conn) Drop(reason string) {
	if c.dropped {
		return
	}
	c.dropped = true
	c.reason = reason
}

func (c *Conn) Dropped() bool { return c.dropped }

func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

// sanitizeName trims and caps a requested display name
func sanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if len(name) > maxNameLen {
		cut := maxNameLen
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = strings.TrimSpace(name[:cut])
	}
	if name == "" {
		return defaultName
	}
	return name
}
