package main

import (
	"math"
	"testing"
)

func TestLaserDirectionFollowsHeading(t *testing.T) {
	// rotation pi/2 flies toward +x
	l := NewLaserBeam(V(100, 100), math.Pi/2, LaserDamage, 1, "a")
	d := l.Direction()
	if math.Abs(d.X-1) > 1e-9 || math.Abs(d.Y) > 1e-9 {
		t.Errorf("expected +x direction, got %v", d)
	}
}

func TestLaserHitsAlongBeam(t *testing.T) {
	l := NewLaserBeam(V(100, 100), math.Pi/2, LaserDamage, 1, "a")
	if !l.Hits(V(250, 110)) {
		t.Error("point beside the beam should be hit")
	}
	if l.Hits(V(250, 140)) {
		t.Error("point 40 units off the beam should be missed")
	}
	if l.Hits(V(50, 100)) {
		t.Error("point behind the shooter should be missed")
	}
	if l.Hits(V(100+LaserRange+PlaneSize+LaserRangeExtra+5, 100)) {
		t.Error("point past the beam end should be missed")
	}
}

func TestLaserWrapsAroundWorld(t *testing.T) {
	l := NewLaserBeam(V(2950, 100), math.Pi/2, LaserDamage, 1, "a")
	if !l.Hits(V(100, 100)) {
		t.Error("beam should reach across the world edge")
	}
}

func TestLaserTimeline(t *testing.T) {
	l := NewLaserBeam(V(0, 0), 0, LaserDamage, 1, "a")
	if !l.IsDealingDamage() || l.DecayProgress() != 0 {
		t.Fatal("fresh beam should be active")
	}
	l.Update(LaserActiveTime + 0.001)
	if l.IsDealingDamage() {
		t.Error("beam should stop dealing damage after its active time")
	}
	if l.Hits(V(0, -50)) {
		t.Error("inactive beam must not hit")
	}
	l.Update(LaserDecayTime / 2)
	if p := l.DecayProgress(); p <= 0 || p >= 1 {
		t.Errorf("expected partial decay, got %v", p)
	}
	if l.ShouldBeRemoved() {
		t.Error("removed too early")
	}
	l.Update(LaserDecayTime)
	if !l.ShouldBeRemoved() || l.DecayProgress() != 1 {
		t.Error("beam should be removed after decay")
	}
}
