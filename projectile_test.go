package main

import (
	"math"
	"testing"
)

func bearingError(m *Missile, target Vec2) float64 {
	return math.Abs(NormalizeAngle(ClosestVectorTo(m.Position, target).Angle() - m.Angle))
}

func TestBulletArming(t *testing.T) {
	victim := NewPlayer(2, "victim", V(500, 500), PlaneSukaBlyat, ColorRed)
	proj := NewBullet(V(500, 500), V(0, 0), 10, 1, "shooter")

	if proj.IsArmed() || proj.Hits(victim) {
		t.Fatal("fresh bullet must not hit even at zero distance")
	}
	proj.Bullet.Lifetime = BulletArmTime - 0.001
	if proj.Hits(victim) {
		t.Error("bullet hit before arm time")
	}
	proj.Bullet.Lifetime = BulletArmTime + 0.001
	if !proj.Hits(victim) {
		t.Error("armed bullet at zero distance should hit")
	}
}

func TestBulletHitRadius(t *testing.T) {
	victim := NewPlayer(2, "victim", V(500, 500), PlaneSukaBlyat, ColorRed)
	near := NewBullet(V(500+PlaneSize*BulletRadius-0.5, 500), V(0, 0), 10, 1, "s")
	far := NewBullet(V(500+PlaneSize*BulletRadius+0.5, 500), V(0, 0), 10, 1, "s")
	near.Bullet.Lifetime, far.Bullet.Lifetime = 1, 1
	if !near.Hits(victim) {
		t.Error("bullet just inside the hit radius should hit")
	}
	if far.Hits(victim) {
		t.Error("bullet just outside the hit radius should miss")
	}
}

func TestBulletCanHitOwnerOnceArmed(t *testing.T) {
	owner := NewPlayer(1, "owner", V(500, 500), PlaneSukaBlyat, ColorRed)
	proj := NewBullet(V(500, 500), V(0, 0), 10, owner.ID, owner.Name)
	proj.Bullet.Lifetime = 1
	if !proj.Hits(owner) {
		t.Error("armed bullet should hit its own shooter")
	}
}

func TestBulletTravelAndWrap(t *testing.T) {
	proj := NewBullet(V(2990, 10), V(600, 0), 10, 1, "s")
	proj.Update(nil, nil, nil, 0.1)
	if pos := proj.Position(); math.Abs(pos.X-50) > 1e-9 || pos.Y != 10 {
		t.Errorf("expected wrap to (50,10), got %v", pos)
	}
	if proj.IsDone() {
		t.Fatal("bullet done too early")
	}
	for i := 0; i < 20; i++ {
		proj.Update(nil, nil, nil, 0.1)
	}
	if !proj.IsDone() {
		t.Errorf("bullet should expire after %v units, traveled %v", BulletMaxTravel, proj.Bullet.TraveledDistance)
	}
}

func TestBulletDriftsWithWind(t *testing.T) {
	h := NewHurricane(V(1000, 1000), Vec2{})
	h.size = 1
	h.status = HurricaneSustaining
	h.sustainLeft = HurricaneSustainTime

	proj := NewBullet(V(1200, 1000), V(0, 0), 10, 1, "s")
	proj.Update(nil, h, nil, 0.1)
	if proj.Bullet.Velocity.IsZero() {
		t.Error("wind should change bullet velocity")
	}
}

func TestMissileConvergesOnTarget(t *testing.T) {
	cases := []struct {
		dist, bearing float64
	}{
		{1500, 0.4},
		{1400, -0.6},
		{1200, 0.8},
	}
	for _, c := range cases {
		start := V(500, 500)
		targetPos := start.Add(FromAngle(c.bearing, c.dist))
		target := NewPlayer(2, "target", targetPos, PlaneSukaBlyat, ColorRed)
		players := []*Player{target}

		proj := NewMissile(start, 0, 10, 1, "shooter")
		m := proj.Missile
		prev := bearingError(m, target.Position)
		for i := 0; i < 60; i++ {
			proj.Update(players, nil, nil, 0.01)
			cur := bearingError(m, target.Position)
			if cur > prev+1e-12 {
				t.Fatalf("dist %v bearing %v: error grew from %v to %v at tick %d", c.dist, c.bearing, prev, cur, i)
			}
			prev = cur
		}
		if m.Target != target.ID {
			t.Errorf("expected lock on %d, got %d", target.ID, m.Target)
		}
		if prev >= math.Abs(c.bearing)*0.75 {
			t.Errorf("dist %v bearing %v: error only fell to %v", c.dist, c.bearing, prev)
		}
	}
}

func TestMissileIgnoresOwnerAndDead(t *testing.T) {
	owner := NewPlayer(1, "owner", V(510, 500), PlaneSukaBlyat, ColorRed)
	dead := NewPlayer(3, "dead", V(520, 500), PlaneSukaBlyat, ColorRed)
	dead.Health = 0
	far := NewPlayer(2, "far", V(900, 500), PlaneSukaBlyat, ColorRed)

	proj := NewMissile(V(500, 500), 0, 10, owner.ID, owner.Name)
	proj.Update([]*Player{owner, dead, far}, nil, nil, 0.01)
	if proj.Missile.Target != far.ID {
		t.Errorf("expected lock on far player, got %d", proj.Missile.Target)
	}

	proj.Missile.Position = owner.Position
	if proj.Hits(owner) {
		t.Error("missile must never hit its owner")
	}
}

func TestMissileSpeedAndLifetime(t *testing.T) {
	proj := NewMissile(V(0, 0), 0, 10, 1, "s")
	for i := 0; i < 100; i++ {
		proj.Update(nil, nil, nil, 0.05)
		if proj.Missile.Speed > MissileMaxSpeed {
			t.Fatalf("speed %v over cap", proj.Missile.Speed)
		}
	}
	if proj.Missile.Speed != MissileMaxSpeed {
		t.Errorf("expected capped speed, got %v", proj.Missile.Speed)
	}
	if !proj.IsDone() {
		t.Error("missile should be done after its lifetime")
	}
}

func TestMissileDrawsDebugLine(t *testing.T) {
	target := NewPlayer(2, "t", V(800, 500), PlaneSukaBlyat, ColorRed)
	sink := NewDebugSink()
	proj := NewMissile(V(500, 500), 0, 10, 1, "s")
	proj.Update([]*Player{target}, nil, sink, 0.01)
	lines := sink.Drain()
	if len(lines) != 1 {
		t.Fatalf("expected one debug line, got %d", len(lines))
	}
	if len(sink.Drain()) != 0 {
		t.Error("drain should reset the sink")
	}
}
