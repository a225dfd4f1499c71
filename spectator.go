package main

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufSize    = 16
)

// Spectator is a read-only websocket viewer of the world
type Spectator struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	addr    string
	subject string
}

func NewSpectator(hub *Hub, conn *websocket.Conn, addr, subject string) *Spectator {
	return &Spectator{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, sendBufSize),
		addr:    addr,
		subject: subject,
	}
}

// ReadPump only services control frames; anything a spectator sends is
// discarded. It returns when the connection fails.
func (s *Spectator) ReadPump() {
	defer func() {
		s.hub.Unregister(s)
		s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.hub.log.Debug().Err(err).Str("addr", s.addr).Msg("spectator read")
			}
			return
		}
	}
}

// WritePump writes queued payloads as binary messages and keeps the
// connection alive with pings
func (s *Spectator) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case message, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.BinaryMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendBinary queues a payload, dropping it if the spectator is behind
func (s *Spectator) SendBinary(data []byte) {
	defer func() { recover() }() // send may already be closed
	select {
	case s.send <- data:
	default:
	}
}
