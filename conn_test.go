package main

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyNetError(t *testing.T) {
	cases := []struct {
		err  error
		want errClass
	}{
		{nil, errNone},
		{syscall.EAGAIN, errTransient},
		{fmt.Errorf("read: %w", syscall.EINTR), errTransient},
		{io.EOF, errPeerClosed},
		{net.ErrClosed, errPeerClosed},
		{os.ErrDeadlineExceeded, errPeerClosed},
		{&net.OpError{Op: "read", Err: syscall.ECONNRESET}, errPeerClosed},
		{syscall.EPIPE, errPeerClosed},
		{&net.OpError{Op: "read", Err: os.NewSyscallError("read", syscall.ETIMEDOUT)}, errPeerClosed},
		{syscall.EHOSTUNREACH, errPeerClosed},
		{fmt.Errorf("write: %w", syscall.ENETUNREACH), errPeerClosed},
		{fmt.Errorf("%w: bad", ErrProtocolViolation), errProtocol},
		{errors.New("disk on fire"), errFatal},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, classifyNetError(c.err), "%v", c.err)
	}
}

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"":                       defaultName,
		"   ":                    defaultName,
		"  Viper  ":              "Viper",
		"Jester\n\x00":           "Jester",
		"ABCDEFGHIJKLMNOPQRSTUV": "ABCDEFGHIJKLMNOP",
		"ÄÄÄÄÄÄÄÄÄ":              "ÄÄÄÄÄÄÄÄ",
	}
	for in, want := range cases {
		got := sanitizeName(in)
		assert.Equal(t, want, got, "sanitizeName(%q)", in)
		assert.LessOrEqual(t, len(got), maxNameLen)
	}
}

func TestConnFetchDeliversBytesBeforeError(t *testing.T) {
	client, server := net.Pipe()
	c := NewConn(1, server, 0, NewLogger(io.Discard, "error", true))
	go c.ReadPump()

	frame, err := EncodeFrame(JoinMessage("Hollywood", PlaneElPolloRomero, ColorGreen))
	assert.NoError(t, err)
	go func() {
		client.Write(frame)
		client.Close()
	}()

	var fetchErr error
	for fetchErr == nil {
		fetchErr = c.Fetch()
	}
	assert.Equal(t, errPeerClosed, classifyNetError(fetchErr))
	msg, ok, err := c.reader.Next()
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Hollywood", msg.Join.Name)
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}
