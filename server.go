package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	DefaultTickInterval = 10 * time.Millisecond
	acceptBufSize       = 16
)

var ErrServerClosed = errors.New("server closed")

// Broadcaster receives the encoded state payload once per tick
type Broadcaster interface {
	Broadcast(payload []byte)
}

// Recorder receives match events for persistence
type Recorder interface {
	Track(evt MatchEvent)
}

type nopRecorder struct{}

func (nopRecorder) Track(MatchEvent) {}

// ServerOptions configures a Server. Zero values fall back to defaults.
type ServerOptions struct {
	TickInterval time.Duration
	WriteTimeout time.Duration
	MaxConns     int
	Spectators   Broadcaster
	Recorder     Recorder
}

// Server runs the fixed-timestep tick loop. It is the only goroutine that
// touches the Game or the connection list.
type Server struct {
	ln    net.Listener
	game  *Game
	opts  ServerOptions
	log   zerolog.Logger
	noisy zerolog.Logger

	conns     []*Conn
	nextID    uint64
	accepted  chan net.Conn
	acceptErr chan error
	done      chan struct{}
	closeOnce sync.Once
}

// NewServer starts accepting on ln. Connections are picked up by Tick.
func NewServer(ln net.Listener, game *Game, opts ServerOptions, log zerolog.Logger) *Server {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	s := &Server{
		ln:        ln,
		game:      game,
		opts:      opts,
		log:       log.With().Str("component", "server").Logger(),
		accepted:  make(chan net.Conn, acceptBufSize),
		acceptErr: make(chan error, 1),
		done:      make(chan struct{}),
	}
	s.noisy = sampled(s.log)
	go s.acceptLoop()
	return s
}

func (s *Server) Addr() net.Addr { return s.ln.Addr() }

func (s *Server) Game() *Game { return s.game }

func (s *Server) ConnCount() int { return len(s.conns) }

func (s *Server) acceptLoop() {
	for {
		c, err := s.ln.Accept()
		if err != nil {
			if classifyNetError(err) == errTransient {
				continue
			}
			s.acceptErr <- err
			return
		}
		select {
		case s.accepted <- c:
		case <-s.done:
			c.Close()
			return
		}
	}
}

// Run ticks until ctx is cancelled or a fatal error occurs
func (s *Server) Run(ctx context.Context) error {
	defer s.Close()
	ticker := time.NewTicker(s.opts.TickInterval)
	defer ticker.Stop()

	s.log.Info().
		Str("addr", s.ln.Addr().String()).
		Dur("tick", s.opts.TickInterval).
		Msg("listening")

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("shutting down")
			return nil
		case <-ticker.C:
			if err := s.Tick(s.opts.TickInterval); err != nil {
				return err
			}
		}
	}
}

// Close stops accepting and closes every connection
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.ln.Close()
		for _, c := range s.conns {
			c.Close()
		}
		s.conns = nil
	})
	return err
}

// Tick runs one full server step with a base time step of base
func (s *Server) Tick(base time.Duration) error {
	if err := s.acceptPending(); err != nil {
		return err
	}
	dt := s.game.TimeStep(base.Seconds())
	if err := s.readInputs(); err != nil {
		return err
	}

	var sounds []SoundEvent
	for _, c := range s.conns {
		if c.Dropped() {
			continue
		}
		sounds = append(sounds, s.game.ApplyInput(c.id, c.input, dt)...)
	}

	ev := s.game.Update(dt)
	if err := s.publish(sounds, ev); err != nil {
		return err
	}
	s.record(ev)
	s.prune()
	return nil
}

func (s *Server) acceptPending() error {
	select {
	case err := <-s.acceptErr:
		if errors.Is(err, net.ErrClosed) {
			return ErrServerClosed
		}
		return fmt.Errorf("accept: %w", err)
	default:
	}

	for {
		select {
		case nc := <-s.accepted:
			s.addConn(nc)
		default:
			return nil
		}
	}
}

func (s *Server) addConn(nc net.Conn) {
	if s.opts.MaxConns > 0 && len(s.conns) >= s.opts.MaxConns {
		s.noisy.Warn().Str("addr", nc.RemoteAddr().String()).Int("max", s.opts.MaxConns).Msg("connection limit reached, rejecting")
		nc.Close()
		return
	}
	s.nextID++
	c := NewConn(s.nextID, nc, s.opts.WriteTimeout, s.log)
	s.conns = append(s.conns, c)
	go c.ReadPump()

	c.log.Info().Msg("client connected")
	s.opts.Recorder.Track(MatchEvent{Type: EvtConnect, PlayerID: c.id})

	frame, err := EncodeFrame(AssignIDMessage(c.id))
	if err != nil {
		c.log.Error().Err(err).Msg("encode id")
		c.Drop("encode failure")
		return
	}
	if err := c.Send(frame); err != nil {
		c.Drop("write failed: " + err.Error())
	}
}

func (s *Server) readInputs() error {
	for _, c := range s.conns {
		if c.Dropped() {
			continue
		}
		readErr := c.Fetch()
		for msg, err := range c.reader.All() {
			if err != nil {
				c.log.Warn().Err(err).Msg("dropping client")
				c.Drop("protocol violation")
				break
			}
			s.handleMessage(c, msg)
		}
		if c.Dropped() {
			continue
		}
		switch classifyNetError(readErr) {
		case errNone, errTransient:
		case errPeerClosed:
			c.Drop("disconnected")
		case errProtocol:
			c.Drop("protocol violation")
		default:
			return fmt.Errorf("read from client %d: %w", c.id, readErr)
		}
	}
	return nil
}

func (s *Server) handleMessage(c *Conn, msg ClientMessage) {
	switch msg.Type {
	case MsgInput:
		c.input = *msg.Input
	case MsgJoin:
		if s.game.Player(c.id) != nil {
			return
		}
		name := sanitizeName(msg.Join.Name)
		p := s.game.AddPlayer(c.id, name, msg.Join.Plane, msg.Join.Color)
		c.input = ClientInput{}
		c.log.Info().Str("name", p.Name).Stringer("plane", p.Plane).Msg("player joined")
		s.opts.Recorder.Track(MatchEvent{Type: EvtJoin, PlayerID: c.id, PlayerName: p.Name})
	}
}

// publish sends the state, then every event of the tick, to all clients
func (s *Server) publish(sounds []SoundEvent, ev TickEvents) error {
	payload, err := msgpack.Marshal(StateMessage(s.game.Snapshot()))
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if frame, err := Frame(payload); err != nil {
		s.noisy.Error().Err(err).Int("bytes", len(payload)).Msg("state not sent")
	} else if err := s.broadcast(frame); err != nil {
		return err
	}
	if s.opts.Spectators != nil {
		s.opts.Spectators.Broadcast(payload)
	}

	msgs := make([]ServerMessage, 0, len(sounds)+len(ev.Pickups)+len(ev.Hits)+len(ev.LaserFires)+len(ev.Deaths))
	for _, snd := range sounds {
		msgs = append(msgs, SoundMessage(snd.Effect, snd.Position))
	}
	for _, pu := range ev.Pickups {
		msgs = append(msgs, SoundMessage(SoundPowerup, pu.Position))
	}
	for _, id := range ev.Hits {
		msgs = append(msgs, HitMessage(id))
	}
	for _, pos := range ev.LaserFires {
		msgs = append(msgs, SoundMessage(SoundLaserFire, pos))
	}
	for _, d := range ev.Deaths {
		msgs = append(msgs, SoundMessage(SoundExplosion, d.Position))
	}
	for _, m := range msgs {
		frame, err := EncodeFrame(m)
		if err != nil {
			return err
		}
		if err := s.broadcast(frame); err != nil {
			return err
		}
	}

	if len(ev.Deaths) == 0 {
		return nil
	}
	died, err := EncodeFrame(DiedMessage())
	if err != nil {
		return err
	}
	for _, d := range ev.Deaths {
		c := s.conn(d.PlayerID)
		if c == nil {
			continue
		}
		c.input = ClientInput{}
		if err := s.send(c, died); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) broadcast(frame []byte) error {
	for _, c := range s.conns {
		if err := s.send(c, frame); err != nil {
			return err
		}
	}
	return nil
}

// send writes to one client. Only fatal errors are returned; anything the
// client caused drops it instead.
func (s *Server) send(c *Conn, frame []byte) error {
	if c.Dropped() {
		return nil
	}
	err := c.Send(frame)
	switch classifyNetError(err) {
	case errNone:
		return nil
	case errPeerClosed, errTransient, errProtocol:
		c.Drop("write failed")
		return nil
	}
	return fmt.Errorf("write to client %d: %w", c.id, err)
}

func (s *Server) conn(id uint64) *Conn {
	for _, c := range s.conns {
		if c.id == id {
			return c
		}
	}
	return nil
}

func (s *Server) record(ev TickEvents) {
	for _, k := range ev.Kills {
		s.log.Info().
			Str("killer", k.KillerName).
			Str("victim", k.VictimName).
			Str("weapon", k.Weapon).
			Msg("kill")
		if k.KillerID != 0 {
			s.opts.Recorder.Track(MatchEvent{
				Type: EvtKill, PlayerID: k.KillerID, PlayerName: k.KillerName,
				OtherName: k.VictimName, Weapon: k.Weapon,
			})
		}
		s.opts.Recorder.Track(MatchEvent{
			Type: EvtDeath, PlayerID: k.VictimID, PlayerName: k.VictimName,
			OtherName: k.KillerName, Weapon: k.Weapon,
		})
	}
}

// prune closes dropped connections and removes their players
func (s *Server) prune() {
	kept := s.conns[:0]
	for _, c := range s.conns {
		if !c.Dropped() {
			kept = append(kept, c)
			continue
		}
		c.Close()
		s.game.RemovePlayer(c.id)
		c.log.Info().Str("reason", c.reason).Msg("client dropped")
		s.opts.Recorder.Track(MatchEvent{Type: EvtDisconnect, PlayerID: c.id})
	}
	for i := len(kept); i < len(s.conns); i++ {
		s.conns[i] = nil
	}
	s.conns = kept
}
