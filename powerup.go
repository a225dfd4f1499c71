package main

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// PowerUpKind identifies a powerup
type PowerUpKind uint8

const (
	PowerupAfterburner PowerUpKind = iota
	PowerupLaser
	PowerupHealth
	PowerupInvincibility
	PowerupGun
	PowerupMissile
	PowerupSlowTime
	PowerupInvisible
	numPowerupKinds
)

type powerupDef struct {
	name        string
	duration    float64 // 0 means persistent
	weapon      bool
	instant     bool
	triggerable bool
	likelihood  int
}

var powerupDefs = [numPowerupKinds]powerupDef{
	PowerupAfterburner:   {name: "afterburner", duration: 5, triggerable: true, likelihood: 70},
	PowerupLaser:         {name: "laser", weapon: true, likelihood: 60},
	PowerupHealth:        {name: "health", instant: true, likelihood: 40},
	PowerupInvincibility: {name: "invincibility", duration: 7, triggerable: true, likelihood: 30},
	PowerupGun:           {name: "gun", weapon: true, likelihood: 70},
	PowerupMissile:       {name: "missile", weapon: true, likelihood: 60},
	PowerupSlowTime:      {name: "slowtime", duration: 1.5, triggerable: true, likelihood: 10},
	PowerupInvisible:     {name: "invisible", duration: 7, triggerable: true, likelihood: 60},
}

// AllPowerupKinds lists every kind in declaration order
func AllPowerupKinds() []PowerUpKind {
	kinds := make([]PowerUpKind, numPowerupKinds)
	for i := range kinds {
		kinds[i] = PowerUpKind(i)
	}
	return kinds
}

func (k PowerUpKind) String() string {
	if k >= numPowerupKinds {
		return fmt.Sprintf("powerup(%d)", uint8(k))
	}
	return powerupDefs[k].name
}

// ParsePowerupKind is the inverse of String
func ParsePowerupKind(s string) (PowerUpKind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, d := range powerupDefs {
		if d.name == s {
			return PowerUpKind(i), true
		}
	}
	return 0, false
}

func (k PowerUpKind) IsWeapon() bool { return k < numPowerupKinds && powerupDefs[k].weapon }
func (k PowerUpKind) IsInstant() bool { return k < numPowerupKinds && powerupDefs[k].instant }
func (k PowerUpKind) IsTriggerable() bool { return k < numPowerupKinds && powerupDefs[k].triggerable }
func (k PowerUpKind) Likelihood() int {
	if k >= numPowerupKinds {
		return 0
	}
	return powerupDefs[k].likelihood
}

// StartingDuration returns the active time of a freshly applied powerup;
// ok is false for persistent kinds.
func (k PowerUpKind) StartingDuration() (float64, bool) {
	if k >= numPowerupKinds || powerupDefs[k].duration == 0 {
		return 0, false
	}
	return powerupDefs[k].duration, true
}

// PowerUp is an unclaimed pickup lying in the world
type PowerUp struct {
	Kind     PowerUpKind
	Position Vec2
}

// AppliedPowerup is a powerup in effect on a player
type AppliedPowerup struct {
	Kind         PowerUpKind
	DurationLeft *float64 // nil persists until replaced
}

func NewAppliedPowerup(kind PowerUpKind) AppliedPowerup {
	ap := AppliedPowerup{Kind: kind}
	if d, ok := kind.StartingDuration(); ok {
		ap.DurationLeft = &d
	}
	return ap
}

// PowerupTable samples kinds proportionally to integer weights
type PowerupTable struct {
	kinds      []PowerUpKind
	cumulative []int
	total      int
}

// NewPowerupTable builds the table from the default likelihoods,
// overridden by any entries in weights. Kinds with weight <= 0 never spawn.
func NewPowerupTable(weights map[PowerUpKind]int) *PowerupTable {
	t := &PowerupTable{}
	for _, k := range AllPowerupKinds() {
		w := k.Likelihood()
		if o, ok := weights[k]; ok {
			w = o
		}
		if w <= 0 {
			continue
		}
		t.total += w
		t.kinds = append(t.kinds, k)
		t.cumulative = append(t.cumulative, t.total)
	}
	return t
}

// Total is the sum of all weights
func (t *PowerupTable) Total() int { return t.total }

// Pick draws one kind. An empty table always yields Gun.
func (t *PowerupTable) Pick(rng *rand.Rand) PowerUpKind {
	if t.total == 0 {
		return PowerupGun
	}
	return t.lookup(rng.IntN(t.total))
}

// lookup maps a draw in [0, total) onto its kind
func (t *PowerupTable) lookup(n int) PowerUpKind {
	for i, c := range t.cumulative {
		if n < c {
			return t.kinds[i]
		}
	}
	return t.kinds[len(t.kinds)-1]
}
