package main

import "math"

// ProjectileKind tags the variant held by a Projectile
type ProjectileKind uint8

const (
	ProjectileBullet ProjectileKind = iota
	ProjectileMissile
)

func (k ProjectileKind) String() string {
	if k == ProjectileMissile {
		return "Missile"
	}
	return "Gun"
}

// Bullet flies straight, drifting with the wind
type Bullet struct {
	ID               uint64
	Position         Vec2
	Velocity         Vec2
	TraveledDistance float64
	Damage           int
	Lifetime         float64
	Owner            uint64
	OwnerName        string
}

// Missile steers toward the nearest player other than its owner
type Missile struct {
	ID              uint64
	Position        Vec2
	Angle           float64
	AngularVelocity float64
	Speed           float64
	Damage          int
	Lifetime        float64
	Owner           uint64
	OwnerName       string
	Target          uint64 // 0 when nothing is locked
}

// Projectile is a closed union over Bullet and Missile; exactly the field
// matching Kind is set.
type Projectile struct {
	Kind    ProjectileKind
	Bullet  *Bullet
	Missile *Missile
}

func NewBullet(pos, vel Vec2, damage int, owner uint64, ownerName string) *Projectile {
	return &Projectile{Kind: ProjectileBullet, Bullet: &Bullet{
		ID:        GenerateID(),
		Position:  WrapAround(pos),
		Velocity:  vel,
		Damage:    damage,
		Owner:     owner,
		OwnerName: ownerName,
	}}
}

func NewMissile(pos Vec2, angle float64, damage int, owner uint64, ownerName string) *Projectile {
	return &Projectile{Kind: ProjectileMissile, Missile: &Missile{
		ID:        GenerateID(),
		Position:  WrapAround(pos),
		Angle:     angle,
		Speed:     MissileStartSpeed,
		Damage:    damage,
		Owner:     owner,
		OwnerName: ownerName,
	}}
}

// Update moves the projectile one tick. hurricane may be nil and debug
// may be nil.
func (p *Projectile) Update(players []*Player, hurricane *Hurricane, debug *DebugSink, dt float64) {
	switch p.Kind {
	case ProjectileBullet:
		p.Bullet.update(hurricane, dt)
	case ProjectileMissile:
		p.Missile.update(players, debug, dt)
	}
}

func (b *Bullet) update(hurricane *Hurricane, dt float64) {
	b.Velocity = b.Velocity.Add(hurricane.WindAt(b.Position).Scale(dt))
	b.Position = WrapAround(b.Position.Add(b.Velocity.Scale(dt)))
	b.TraveledDistance += b.Velocity.Len() * dt
	b.Lifetime += dt
}

func (m *Missile) update(players []*Player, debug *DebugSink, dt float64) {
	target := m.lockTarget(players)
	if target != nil {
		m.Target = target.ID
		toTarget := ClosestVectorTo(m.Position, target.Position)
		bearingError := NormalizeAngle(toTarget.Angle() - m.Angle)
		m.AngularVelocity = (m.AngularVelocity + MissileGain*bearingError*dt) * MissileAngularFade
		debug.Line(m.Position, m.Position.Add(toTarget), [4]uint8{255, 0, 0, 255})
	} else {
		m.Target = 0
		m.AngularVelocity *= MissileAngularFade
	}
	m.Angle = NormalizeAngle(m.Angle + m.AngularVelocity*dt)
	m.Speed = math.Min(m.Speed+MissileAcceleration*dt, MissileMaxSpeed)
	m.Position = WrapAround(m.Position.Add(FromAngle(m.Angle, m.Speed*dt)))
	m.Lifetime += dt
}

// lockTarget picks the closest living player other than the owner, by
// distance only
func (m *Missile) lockTarget(players []*Player) *Player {
	var best *Player
	bestDist := math.Inf(1)
	for _, pl := range players {
		if pl.ID == m.Owner || pl.HasDied() {
			continue
		}
		if d := ToroidalDistance(m.Position, pl.Position); d < bestDist {
			best, bestDist = pl, d
		}
	}
	return best
}

// IsArmed reports whether the projectile may register hits yet
func (p *Projectile) IsArmed() bool {
	switch p.Kind {
	case ProjectileBullet:
		return p.Bullet.Lifetime > BulletArmTime
	default:
		return true
	}
}

// IsDone reports whether the projectile has expired
func (p *Projectile) IsDone() bool {
	switch p.Kind {
	case ProjectileBullet:
		return p.Bullet.TraveledDistance > BulletMaxTravel
	default:
		return p.Missile.Lifetime > MissileLifetime
	}
}

// CanHit reports whether pl is a valid victim right now. Bullets can hit
// their own shooter once armed; missiles never do.
func (p *Projectile) CanHit(pl *Player) bool {
	if !p.IsArmed() {
		return false
	}
	if p.Kind == ProjectileMissile && pl.ID == p.Owner() {
		return false
	}
	return true
}

// Hits tests the projectile against a player on the torus. The projectile
// counts as a point inside a PlaneSize*BulletRadius circle around the ship.
func (p *Projectile) Hits(pl *Player) bool {
	return p.CanHit(pl) && CheckCollision(p.Position(), 0, pl.Position, PlaneSize*BulletRadius)
}

func (p *Projectile) ID() uint64 {
	if p.Kind == ProjectileMissile {
		return p.Missile.ID
	}
	return p.Bullet.ID
}

func (p *Projectile) Owner() uint64 {
	if p.Kind == ProjectileMissile {
		return p.Missile.Owner
	}
	return p.Bullet.Owner
}

func (p *Projectile) OwnerName() string {
	if p.Kind == ProjectileMissile {
		return p.Missile.OwnerName
	}
	return p.Bullet.OwnerName
}

func (p *Projectile) Position() Vec2 {
	if p.Kind == ProjectileMissile {
		return p.Missile.Position
	}
	return p.Bullet.Position
}

func (p *Projectile) Damage() int {
	if p.Kind == ProjectileMissile {
		return p.Missile.Damage
	}
	return p.Bullet.Damage
}

// ToState converts to protocol state
func (p *Projectile) ToState() ProjectileState {
	s := ProjectileState{ID: p.ID(), Kind: p.Kind, Owner: p.Owner(), Position: p.Position()}
	switch p.Kind {
	case ProjectileBullet:
		s.Angle = round3(p.Bullet.Velocity.Angle())
	case ProjectileMissile:
		s.Angle = round3(p.Missile.Angle)
	}
	return s
}
