package main

import (
	"fmt"
	"math"

	"github.com/vmihailenco/msgpack/v5"
)

// Client -> Server message types
const (
	MsgInput = "input"
	MsgJoin  = "join"
)

// Server -> Client message types
const (
	MsgAssignID = "id"
	MsgState    = "state"
	MsgSound    = "sound"
	MsgHit      = "hit"
	MsgDied     = "died"
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T string      `msgpack:"t"`
	D interface{} `msgpack:"d,omitempty"`
}

// InEnvelope is used for incoming messages; RawMessage defers decoding the
// payload until the type is known
type InEnvelope struct {
	T string             `msgpack:"t"`
	D msgpack.RawMessage `msgpack:"d,omitempty"`
}

// SoundEffect names a sound the client should play
type SoundEffect uint8

const (
	SoundPowerup SoundEffect = iota
	SoundExplosion
	SoundGun
	SoundLaserCharge
	SoundLaserFire
)

func (s SoundEffect) String() string {
	switch s {
	case SoundPowerup:
		return "powerup"
	case SoundExplosion:
		return "explosion"
	case SoundGun:
		return "gun"
	case SoundLaserCharge:
		return "laser_charge"
	case SoundLaserFire:
		return "laser_fire"
	}
	return fmt.Sprintf("sound(%d)", uint8(s))
}

// ClientInput is the latest control state of a client
type ClientInput struct {
	XInput            float32 `msgpack:"x_input"`
	YInput            float32 `msgpack:"y_input"`
	Shooting          bool    `msgpack:"shooting"`
	ActivatingPowerup bool    `msgpack:"activating_powerup"`
}

// JoinGame asks for a player to be spawned for the connection
type JoinGame struct {
	Name  string    `msgpack:"name"`
	Plane PlaneType `msgpack:"plane"`
	Color Color     `msgpack:"color"`
}

// ClientMessage is the union of everything a client can send. Exactly one
// payload field matching Type is set.
type ClientMessage struct {
	Type  string
	Input *ClientInput
	Join  *JoinGame
}

func InputMessage(in ClientInput) ClientMessage {
	return ClientMessage{Type: MsgInput, Input: &in}
}

func JoinMessage(name string, plane PlaneType, color Color) ClientMessage {
	return ClientMessage{Type: MsgJoin, Join: &JoinGame{Name: name, Plane: plane, Color: color}}
}

func (m ClientMessage) EncodeMsgpack(enc *msgpack.Encoder) error {
	env := Envelope{T: m.Type}
	switch m.Type {
	case MsgInput:
		env.D = m.Input
	case MsgJoin:
		env.D = m.Join
	default:
		return fmt.Errorf("unknown client message %q", m.Type)
	}
	return enc.Encode(env)
}

func (m *ClientMessage) DecodeMsgpack(dec *msgpack.Decoder) error {
	var env InEnvelope
	if err := dec.Decode(&env); err != nil {
		return err
	}
	*m = ClientMessage{Type: env.T}
	switch env.T {
	case MsgInput:
		m.Input = new(ClientInput)
		return msgpack.Unmarshal(env.D, m.Input)
	case MsgJoin:
		m.Join = new(JoinGame)
		return msgpack.Unmarshal(env.D, m.Join)
	}
	return fmt.Errorf("unknown client message %q", env.T)
}

// PlaySound carries a sound effect and where it happened
type PlaySound struct {
	Effect   SoundEffect `msgpack:"e"`
	Position Vec2        `msgpack:"p"`
}

// ServerMessage is the union of everything the server sends
type ServerMessage struct {
	Type  string
	ID    uint64 // AssignId and PlayerHit
	State *GameState
	Sound *PlaySound
}

func AssignIDMessage(id uint64) ServerMessage {
	return ServerMessage{Type: MsgAssignID, ID: id}
}

func StateMessage(s GameState) ServerMessage {
	return ServerMessage{Type: MsgState, State: &s}
}

func SoundMessage(effect SoundEffect, pos Vec2) ServerMessage {
	return ServerMessage{Type: MsgSound, Sound: &PlaySound{Effect: effect, Position: pos}}
}

func HitMessage(id uint64) ServerMessage {
	return ServerMessage{Type: MsgHit, ID: id}
}

func DiedMessage() ServerMessage {
	return ServerMessage{Type: MsgDied}
}

func (m ServerMessage) EncodeMsgpack(enc *msgpack.Encoder) error {
	env := Envelope{T: m.Type}
	switch m.Type {
	case MsgAssignID, MsgHit:
		env.D = m.ID
	case MsgState:
		env.D = m.State
	case MsgSound:
		env.D = m.Sound
	case MsgDied:
	default:
		return fmt.Errorf("unknown server message %q", m.Type)
	}
	return enc.Encode(env)
}

func (m *ServerMessage) DecodeMsgpack(dec *msgpack.Decoder) error {
	var env InEnvelope
	if err := dec.Decode(&env); err != nil {
		return err
	}
	*m = ServerMessage{Type: env.T}
	switch env.T {
	case MsgAssignID, MsgHit:
		return msgpack.Unmarshal(env.D, &m.ID)
	case MsgState:
		m.State = new(GameState)
		return msgpack.Unmarshal(env.D, m.State)
	case MsgSound:
		m.Sound = new(PlaySound)
		return msgpack.Unmarshal(env.D, m.Sound)
	case MsgDied:
		return nil
	}
	return fmt.Errorf("unknown server message %q", env.T)
}

// PowerupState is an applied powerup; TimeLeft is -1 for persistent ones
type PowerupState struct {
	Kind     PowerUpKind `msgpack:"k"`
	TimeLeft float64     `msgpack:"t"`
}

// PlayerState is broadcast per player each tick
type PlayerState struct {
	ID              uint64         `msgpack:"id"`
	Name            string         `msgpack:"n"`
	Position        Vec2           `msgpack:"p"`
	Rotation        float64        `msgpack:"r"`
	Speed           float64        `msgpack:"v"`
	Health          int            `msgpack:"hp"`
	MaxHealth       int            `msgpack:"mhp"`
	Plane           PlaneType      `msgpack:"pl"`
	Color           Color          `msgpack:"c"`
	Invisible       bool           `msgpack:"inv,omitempty"`
	Powerups        []PowerupState `msgpack:"pw"`
	Available       *PowerUpKind   `msgpack:"av,omitempty"`
	LaserChargeProg float64        `msgpack:"lc"` // -1 when not charging
}

// ProjectileState is broadcast per projectile
type ProjectileState struct {
	ID       uint64         `msgpack:"id"`
	Kind     ProjectileKind `msgpack:"k"`
	Owner    uint64         `msgpack:"o"`
	Position Vec2           `msgpack:"p"`
	Angle    float64        `msgpack:"r"`
}

// PowerUpState is an unclaimed powerup in the world
type PowerUpState struct {
	Kind     PowerUpKind `msgpack:"k"`
	Position Vec2        `msgpack:"p"`
}

// LaserState is broadcast per beam
type LaserState struct {
	Position Vec2    `msgpack:"p"`
	Angle    float64 `msgpack:"r"`
	Owner    uint64  `msgpack:"o"`
	Active   bool    `msgpack:"a"`
	Decay    float64 `msgpack:"d"`
}

// HurricaneState is the visible part of the hurricane
type HurricaneState struct {
	Position Vec2            `msgpack:"p"`
	Rotation float64         `msgpack:"r"`
	Size     float64         `msgpack:"s"`
	Status   HurricaneStatus `msgpack:"st"`
}

// GameState is the full world snapshot
type GameState struct {
	Tick        uint64            `msgpack:"tick"`
	Players     []PlayerState     `msgpack:"p"`
	Projectiles []ProjectileState `msgpack:"pr"`
	Powerups    []PowerUpState    `msgpack:"pu"`
	Lasers      []LaserState      `msgpack:"l"`
	KillFeed    []string          `msgpack:"kf"`
	Hurricane   *HurricaneState   `msgpack:"h,omitempty"`
	DebugLines  []DebugLine       `msgpack:"dbg,omitempty"`
}

// Player finds a player in the snapshot
func (s *GameState) Player(id uint64) (PlayerState, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerState{}, false
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
