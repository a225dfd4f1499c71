package main

import "math"

// Player is one pilot in the world
type Player struct {
	ID                  uint64
	Name                string
	Position            Vec2
	Rotation            float64 // 0 faces up the screen
	AngularVelocity     float64
	Speed               float64
	Health              int
	Cooldown            float64
	LaserChargeTime     *float64
	LaseringThisFrame   bool
	WindEffectVelocity  Vec2
	Powerups            []AppliedPowerup
	AvailablePowerup    *PowerUpKind
	Plane               PlaneType
	Color               Color
	TimeToNextCollision float64
}

// NewPlayer creates a player with full health and the default gun
func NewPlayer(id uint64, name string, pos Vec2, plane PlaneType, color Color) *Player {
	if !plane.Valid() {
		plane = PlaneSukaBlyat
	}
	if !color.Valid() {
		color = ColorRed
	}
	return &Player{
		ID:                  id,
		Name:                name,
		Position:            WrapAround(pos),
		Health:              plane.Def().MaxHealth,
		Powerups:            []AppliedPowerup{NewAppliedPowerup(PowerupGun)},
		Plane:               plane,
		Color:               color,
		TimeToNextCollision: CollisionGracePeriod,
	}
}

// Update advances the player one tick. wind is the hazard force at the
// player's position and may be zero.
func (p *Player) Update(xInput, yInput float64, wind Vec2, dt float64) {
	xInput, yInput = ClampInput(xInput), ClampInput(yInput)
	p.updateLaserCharge(dt)
	p.updateVelocityAndPosition(yInput, wind, dt)
	p.updateRotation(xInput, dt)
	p.AgePowerups(dt)
}

func (p *Player) updateLaserCharge(dt float64) {
	p.Cooldown = math.Max(p.Cooldown-dt, 0)
	p.LaseringThisFrame = false
	if p.LaserChargeTime == nil {
		return
	}
	left := *p.LaserChargeTime - dt
	if left < 0 {
		p.LaseringThisFrame = true
		p.LaserChargeTime = nil
		return
	}
	p.LaserChargeTime = &left
}

func (p *Player) updateVelocityAndPosition(yInput float64, wind Vec2, dt float64) {
	velocity := p.FinalVelocity()
	p.WindEffectVelocity = p.WindEffectVelocity.Add(wind.Scale(dt / PlaneMass)).Scale(HurricaneWindDecay)
	p.Position = WrapAround(p.Position.Add(velocity.Add(p.WindEffectVelocity).Scale(dt)))

	p.Speed += yInput * p.Plane.Def().Acceleration * dt
	p.clampSpeed()
}

func (p *Player) updateRotation(xInput, dt float64) {
	agility := p.Plane.Def().Agility
	p.AngularVelocity += xInput * agility / 10 * dt
	p.AngularVelocity *= AngularFade
	p.AngularVelocity = Clamp(p.AngularVelocity, -agility, agility)
	p.Rotation = NormalizeAngle(p.Rotation + p.AngularVelocity*dt)
}

func (p *Player) clampSpeed() {
	if math.IsNaN(p.Speed) {
		p.Speed = MinSpeed
	}
	p.Speed = Clamp(p.Speed, MinSpeed, p.Plane.Def().MaxSpeed)
}

// Heading is the direction of flight in world angle terms
func (p *Player) Heading() float64 {
	return p.Rotation - math.Pi/2
}

// FinalVelocity is the velocity from the engine alone, afterburner included
func (p *Player) FinalVelocity() Vec2 {
	p.clampSpeed()
	v := FromAngle(p.Heading(), p.Speed*p.Plane.Def().Speed)
	if p.HasPowerup(PowerupAfterburner) {
		v = v.Scale(PowerupSpeedBoost)
	}
	return v
}

// HasPowerup reports whether kind is currently applied
func (p *Player) HasPowerup(kind PowerUpKind) bool {
	for _, ap := range p.Powerups {
		if ap.Kind == kind {
			return true
		}
	}
	return false
}

func (p *Player) IsInvincible() bool { return p.HasPowerup(PowerupInvincibility) }
func (p *Player) IsInvisible() bool { return p.HasPowerup(PowerupInvisible) }
func (p *Player) HasSlowTime() bool { return p.HasPowerup(PowerupSlowTime) }

// Weapon returns the equipped weapon kind, if any
func (p *Player) Weapon() (PowerUpKind, bool) {
	for _, ap := range p.Powerups {
		if ap.Kind.IsWeapon() {
			return ap.Kind, true
		}
	}
	return 0, false
}

// Shoot fires the equipped weapon. It returns the spawned projectile, if
// any, and whether a laser charge started.
func (p *Player) Shoot() (*Projectile, bool) {
	if p.IsInvincible() {
		return nil, false
	}
	if p.HasPowerup(PowerupLaser) {
		if p.LaserChargeTime == nil {
			t := LaserFireTime
			p.LaserChargeTime = &t
			return nil, true
		}
		return nil, false
	}
	p.LaserChargeTime = nil

	if p.Cooldown > 0 {
		return nil, false
	}
	dir := p.Heading()
	muzzle := WrapAround(p.Position.Add(FromAngle(dir, BulletStart)))
	damage := int(math.Round(BulletDamage * p.Plane.Def().Firepower))

	switch {
	case p.HasPowerup(PowerupGun):
		p.Cooldown = PlayerCooldown
		vel := FromAngle(dir, BulletVelocity).Add(p.FinalVelocity())
		return NewBullet(muzzle, vel, damage, p.ID, p.Name), false
	case p.HasPowerup(PowerupMissile):
		p.Cooldown = PlayerCooldown
		return NewMissile(muzzle, dir, damage, p.ID, p.Name), false
	}
	return nil, false
}

// MaybeLaser returns the beam fired this tick, if the charge completed
func (p *Player) MaybeLaser() *LaserBeam {
	if !p.LaseringThisFrame {
		return nil
	}
	return NewLaserBeam(p.Position, p.Rotation, LaserDamage, p.ID, p.Name)
}

// LaserChargeProgress is in [0, 1] while charging
func (p *Player) LaserChargeProgress() (float64, bool) {
	if p.LaserChargeTime == nil {
		return 0, false
	}
	return Clamp(1-*p.LaserChargeTime/LaserFireTime, 0, 1), true
}

// DamagePlayer subtracts amount reduced by the plane's resilience
func (p *Player) DamagePlayer(amount int) {
	if amount <= 0 || p.IsInvincible() {
		return
	}
	taken := int(math.Round(float64(amount) * (1 - p.Plane.Def().Resilience)))
	p.Health -= taken
	if p.Health < 0 {
		p.Health = 0
	}
}

func (p *Player) HealPlayer(hp int) {
	if hp <= 0 {
		return
	}
	p.Health += hp
	if limit := p.MaxHealth(); p.Health > limit {
		p.Health = limit
	}
}

func (p *Player) MaxHealth() int { return p.Plane.Def().MaxHealth }

func (p *Player) HasDied() bool { return p.Health <= 0 }

// ApplyPowerup puts kind into effect. Weapons replace any other weapon,
// other kinds replace themselves. Health heals and is not stored.
func (p *Player) ApplyPowerup(kind PowerUpKind) {
	kept := p.Powerups[:0]
	for _, ap := range p.Powerups {
		if kind.IsWeapon() && ap.Kind.IsWeapon() {
			continue
		}
		if ap.Kind == kind {
			continue
		}
		kept = append(kept, ap)
	}
	p.Powerups = kept

	if kind == PowerupHealth {
		p.HealPlayer(PowerupHealthBoost)
	}
	if !kind.IsInstant() {
		p.Powerups = append(p.Powerups, NewAppliedPowerup(kind))
	}
	if !p.HasPowerup(PowerupLaser) {
		p.LaserChargeTime = nil
	}
}

// AddPowerup handles a pickup. Triggerable kinds wait in the available
// slot, replacing whatever was there.
func (p *Player) AddPowerup(kind PowerUpKind) {
	if kind.IsTriggerable() {
		k := kind
		p.AvailablePowerup = &k
		return
	}
	p.ApplyPowerup(kind)
}

// TriggerPowerup applies the pending powerup, if any
func (p *Player) TriggerPowerup() (PowerUpKind, bool) {
	if p.AvailablePowerup == nil {
		return 0, false
	}
	kind := *p.AvailablePowerup
	p.AvailablePowerup = nil
	p.ApplyPowerup(kind)
	return kind, true
}

// AgePowerups counts down timed powerups and drops expired ones
func (p *Player) AgePowerups(dt float64) {
	kept := p.Powerups[:0]
	for _, ap := range p.Powerups {
		if ap.DurationLeft != nil {
			left := *ap.DurationLeft - dt
			if left <= 0 {
				continue
			}
			ap.DurationLeft = &left
		}
		kept = append(kept, ap)
	}
	p.Powerups = kept
}

func (p *Player) UpdateCollisionTimer(dt float64) {
	p.TimeToNextCollision = math.Max(p.TimeToNextCollision-dt, 0)
}

// ToState converts to protocol state
func (p *Player) ToState() PlayerState {
	s := PlayerState{
		ID:              p.ID,
		Name:            p.Name,
		Position:        p.Position,
		Rotation:        round3(p.Rotation),
		Speed:           round1(p.Speed),
		Health:          p.Health,
		MaxHealth:       p.MaxHealth(),
		Plane:           p.Plane,
		Color:           p.Color,
		Invisible:       p.IsInvisible(),
		Powerups:        make([]PowerupState, 0, len(p.Powerups)),
		LaserChargeProg: -1,
	}
	for _, ap := range p.Powerups {
		ps := PowerupState{Kind: ap.Kind, TimeLeft: -1}
		if ap.DurationLeft != nil {
			ps.TimeLeft = round1(*ap.DurationLeft)
		}
		s.Powerups = append(s.Powerups, ps)
	}
	if p.AvailablePowerup != nil {
		k := *p.AvailablePowerup
		s.Available = &k
	}
	if prog, ok := p.LaserChargeProgress(); ok {
		s.LaserChargeProg = round3(prog)
	}
	return s
}
