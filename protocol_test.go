package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestServerMessageRoundTrip(t *testing.T) {
	kind := PowerupLaser
	state := GameState{
		Tick: 7,
		Players: []PlayerState{{
			ID: 3, Name: "Iceman", Position: V(1, 2), Health: 100, MaxHealth: 165,
			Powerups: []PowerupState{{Kind: PowerupGun, TimeLeft: -1}}, Available: &kind,
			LaserChargeProg: -1,
		}},
		Projectiles: []ProjectileState{{ID: 9, Kind: ProjectileMissile, Owner: 3, Position: V(5, 6)}},
		Powerups:    []PowerUpState{{Kind: PowerupHealth, Position: V(7, 8)}},
		Lasers:      []LaserState{{Position: V(1, 1), Angle: 0.5, Owner: 3, Active: true}},
		KillFeed:    []string{"Iceman has joined the game."},
		Hurricane:   &HurricaneState{Position: V(10, 10), Size: 500, Status: HurricaneSustaining},
	}
	msgs := []ServerMessage{
		AssignIDMessage(12),
		StateMessage(state),
		SoundMessage(SoundLaserFire, V(3, 4)),
		HitMessage(5),
		DiedMessage(),
	}
	for _, m := range msgs {
		t.Run(m.Type, func(t *testing.T) {
			b, err := msgpack.Marshal(m)
			require.NoError(t, err)
			var got ServerMessage
			require.NoError(t, msgpack.Unmarshal(b, &got))
			assert.Equal(t, m, got)
		})
	}
}

func TestClientMessageDecode(t *testing.T) {
	b, err := msgpack.Marshal(map[string]any{
		"t": MsgInput,
		"d": map[string]any{"x_input": float32(0.25), "y_input": float32(1), "shooting": true},
	})
	require.NoError(t, err)
	var got ClientMessage
	require.NoError(t, msgpack.Unmarshal(b, &got))
	require.NotNil(t, got.Input)
	assert.Equal(t, ClientInput{XInput: 0.25, YInput: 1, Shooting: true}, *got.Input)
	assert.Nil(t, got.Join)
}

func TestMessageUnknownType(t *testing.T) {
	_, err := msgpack.Marshal(ClientMessage{Type: "warp"})
	assert.Error(t, err)
	_, err = msgpack.Marshal(ServerMessage{Type: "warp"})
	assert.Error(t, err)

	b, err := msgpack.Marshal(map[string]any{"t": "warp"})
	require.NoError(t, err)
	var sm ServerMessage
	assert.Error(t, msgpack.Unmarshal(b, &sm))
}

func TestSoundEffectNames(t *testing.T) {
	assert.Equal(t, "laser_charge", SoundLaserCharge.String())
	assert.Equal(t, "sound(99)", SoundEffect(99).String())
}
