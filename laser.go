package main

import "math"

// LaserBeam is a fired beam. Lifetime counts down from LaserActiveTime:
// positive deals damage, down to -LaserDecayTime it only lingers visually.
type LaserBeam struct {
	Position  Vec2
	Angle     float64 // the firer's rotation
	Damage    int
	Lifetime  float64
	Owner     uint64
	OwnerName string
}

func NewLaserBeam(pos Vec2, angle float64, damage int, owner uint64, ownerName string) *LaserBeam {
	return &LaserBeam{
		Position:  pos,
		Angle:     angle,
		Damage:    damage,
		Lifetime:  LaserActiveTime,
		Owner:     owner,
		OwnerName: ownerName,
	}
}

func (l *LaserBeam) Update(dt float64) {
	l.Lifetime -= dt
}

func (l *LaserBeam) IsDealingDamage() bool { return l.Lifetime > 0 }

func (l *LaserBeam) ShouldBeRemoved() bool { return l.Lifetime < -LaserDecayTime }

// DecayProgress runs from 0 when damage stops to 1 at removal
func (l *LaserBeam) DecayProgress() float64 {
	if l.Lifetime >= 0 {
		return 0
	}
	return Clamp(l.Lifetime/-LaserDecayTime, 0, 1)
}

// Direction is the unit vector the beam extends along
func (l *LaserBeam) Direction() Vec2 {
	return FromAngle(l.Angle+math.Pi/2, 1).Scale(-1)
}

// Hits reports whether a player at pos is inside the active beam. The beam
// is sampled at LaserSamples points out to LaserRange.
func (l *LaserBeam) Hits(pos Vec2) bool {
	if !l.IsDealingDamage() {
		return false
	}
	return l.MinDistance(pos) < PlaneSize+LaserRangeExtra
}

// MinDistance is the toroidal distance from pos to the closest beam sample
func (l *LaserBeam) MinDistance(pos Vec2) float64 {
	dir := l.Direction()
	lowest := math.Inf(1)
	for step := 0; step < LaserSamples; step++ {
		sample := l.Position.Add(dir.Scale(float64(step) / LaserSamples * LaserRange))
		if d := ToroidalDistance(sample, pos); d < lowest {
			lowest = d
		}
	}
	return lowest
}

// ToState converts to protocol state
func (l *LaserBeam) ToState() LaserState {
	return LaserState{
		Position: l.Position,
		Angle:    round3(l.Angle),
		Owner:    l.Owner,
		Active:   l.IsDealingDamage(),
		Decay:    round3(l.DecayProgress()),
	}
}
