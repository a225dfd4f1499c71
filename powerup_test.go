package main

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestPowerupTableDistribution(t *testing.T) {
	table := NewPowerupTable(nil)
	if table.Total() != 400 {
		t.Fatalf("expected default total 400, got %d", table.Total())
	}
	rng := rand.New(rand.NewPCG(11, 12))
	const draws = 200000
	counts := make(map[PowerUpKind]int)
	for i := 0; i < draws; i++ {
		counts[table.Pick(rng)]++
	}
	for _, k := range AllPowerupKinds() {
		want := float64(k.Likelihood()) / float64(table.Total())
		got := float64(counts[k]) / draws
		if math.Abs(got-want) > 0.01 {
			t.Errorf("%v: frequency %.4f, want %.4f", k, got, want)
		}
	}
}

func TestPowerupTableLookupBoundaries(t *testing.T) {
	table := NewPowerupTable(nil)
	// afterburner owns [0, 70), laser [70, 130)
	if table.lookup(0) != PowerupAfterburner || table.lookup(69) != PowerupAfterburner {
		t.Error("afterburner bounds wrong")
	}
	if table.lookup(70) != PowerupLaser {
		t.Error("laser should start at 70")
	}
	if table.lookup(399) != PowerupInvisible {
		t.Error("last draw should be invisible")
	}
}

func TestPowerupTableOverrides(t *testing.T) {
	table := NewPowerupTable(map[PowerUpKind]int{PowerupSlowTime: 0, PowerupHealth: 100})
	if table.Total() != 400-10+60 {
		t.Errorf("unexpected total %d", table.Total())
	}
	rng := rand.New(rand.NewPCG(1, 1))
	for i := 0; i < 5000; i++ {
		if table.Pick(rng) == PowerupSlowTime {
			t.Fatal("zero weight kind was drawn")
		}
	}
}

func TestPowerupTableEmptyYieldsGun(t *testing.T) {
	weights := make(map[PowerUpKind]int)
	for _, k := range AllPowerupKinds() {
		weights[k] = 0
	}
	table := NewPowerupTable(weights)
	if table.Total() != 0 {
		t.Fatalf("expected empty table, got %d", table.Total())
	}
	if got := table.Pick(rand.New(rand.NewPCG(1, 2))); got != PowerupGun {
		t.Errorf("expected gun, got %v", got)
	}
}

func TestPowerupKindNames(t *testing.T) {
	for _, k := range AllPowerupKinds() {
		got, ok := ParsePowerupKind(k.String())
		if !ok || got != k {
			t.Errorf("ParsePowerupKind(%q) = %v %v", k.String(), got, ok)
		}
	}
	if k, ok := ParsePowerupKind(" SlowTime "); !ok || k != PowerupSlowTime {
		t.Error("parsing should ignore case and spaces")
	}
	if _, ok := ParsePowerupKind("shield"); ok {
		t.Error("unknown name parsed")
	}
	if PowerUpKind(200).String() != "powerup(200)" {
		t.Error("unexpected name for an unknown kind")
	}
}

func TestPowerupKindFlags(t *testing.T) {
	weapons := 0
	for _, k := range AllPowerupKinds() {
		if k.IsWeapon() {
			weapons++
			if _, timed := k.StartingDuration(); timed {
				t.Errorf("weapon %v should be persistent", k)
			}
		}
	}
	if weapons != 3 {
		t.Errorf("expected 3 weapons, got %d", weapons)
	}
	if d, ok := PowerupSlowTime.StartingDuration(); !ok || d != 1.5 {
		t.Errorf("slowtime duration %v %v", d, ok)
	}
	if !PowerupHealth.IsInstant() || PowerupHealth.IsTriggerable() {
		t.Error("health is instant and not triggerable")
	}
}
