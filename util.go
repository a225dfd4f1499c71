package main

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	mrand "math/rand/v2"
)

// GenerateID returns a random non-zero u64
func GenerateID() uint64 {
	var b [8]byte
	for {
		_, _ = rand.Read(b[:])
		if id := binary.BigEndian.Uint64(b[:]); id != 0 {
			return id
		}
	}
}

// NewRand returns a PCG source seeded from crypto/rand
func NewRand() *mrand.Rand {
	return mrand.New(mrand.NewPCG(GenerateID(), GenerateID()))
}

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClampInput restricts a stick axis to [-1, 1]; NaN becomes 0
func ClampInput(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return Clamp(v, -1, 1)
}

// NormalizeAngle wraps angle to [-PI, PI]
func NormalizeAngle(a float64) float64 {
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0
	}
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
