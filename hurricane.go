package main

// HurricaneStatus is the lifecycle phase of a hurricane
type HurricaneStatus uint8

const (
	HurricaneGrowing HurricaneStatus = iota
	HurricaneSustaining
	HurricaneShrinking
	HurricaneDead
)

func (s HurricaneStatus) String() string {
	switch s {
	case HurricaneGrowing:
		return "growing"
	case HurricaneSustaining:
		return "sustaining"
	case HurricaneShrinking:
		return "shrinking"
	default:
		return "dead"
	}
}

// Hurricane is a drifting wind field that grows, holds and shrinks away
type Hurricane struct {
	Position    Vec2
	Velocity    Vec2
	Rotation    float64
	size        float64 // 0..1 of HurricaneMaxSize
	status      HurricaneStatus
	sustainLeft float64
}

func NewHurricane(pos, vel Vec2) *Hurricane {
	return &Hurricane{Position: WrapAround(pos), Velocity: vel, status: HurricaneGrowing}
}

func (h *Hurricane) Update(dt float64) {
	h.Position = WrapAround(h.Position.Add(h.Velocity.Scale(dt)))
	h.Rotation += HurricaneRotationSpeed * dt
	switch h.status {
	case HurricaneGrowing:
		h.size += HurricaneGrowSpeed * dt
		if h.size >= 1 {
			h.size = 1
			h.status = HurricaneSustaining
			h.sustainLeft = HurricaneSustainTime
		}
	case HurricaneSustaining:
		h.sustainLeft -= dt
		if h.sustainLeft <= 0 {
			h.status = HurricaneShrinking
		}
	case HurricaneShrinking:
		h.size -= HurricaneGrowSpeed * dt
		if h.size <= 0 {
			h.size = 0
			h.status = HurricaneDead
		}
	}
}

func (h *Hurricane) Status() HurricaneStatus { return h.status }

// Size is the current diameter in world units
func (h *Hurricane) Size() float64 { return h.size * HurricaneMaxSize }

// Fraction is the current size in [0, 1]
func (h *Hurricane) Fraction() float64 { return h.size }

func (h *Hurricane) IsDead() bool { return h.status == HurricaneDead }

// WindAt returns the wind force at pos. A nil hurricane blows nothing.
func (h *Hurricane) WindAt(pos Vec2) Vec2 {
	if h == nil {
		return Vec2{}
	}
	centerToPoint := ClosestVectorTo(h.Position, pos)
	dist := centerToPoint.Len()
	radius := h.Size() / 2
	if dist < HurricaneEyeSize || dist >= radius {
		return Vec2{}
	}
	tangent := centerToPoint.Perp().Scale(1 / dist)
	return tangent.Scale(HurricaneMaxWindspeed * (radius - dist) / (HurricaneMaxSize / 2))
}

// ToState converts to protocol state
func (h *Hurricane) ToState() *HurricaneState {
	if h == nil {
		return nil
	}
	return &HurricaneState{
		Position: h.Position,
		Rotation: round3(h.Rotation),
		Size:     round1(h.Size()),
		Status:   h.status,
	}
}
