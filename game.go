package main

import (
	"fmt"
	"math/rand/v2"
)

// GameConfig tunes the world
type GameConfig struct {
	PowerupAmount        int
	HurricaneProbability float64 // spawn chance per second while none exists
	PowerupWeights       map[PowerUpKind]int
	DebugLines           bool
}

func DefaultGameConfig() GameConfig {
	return GameConfig{
		PowerupAmount:        PowerupAmount,
		HurricaneProbability: HurricaneProbability,
	}
}

// PickupEvent records a powerup collected this tick
type PickupEvent struct {
	PlayerID uint64
	Position Vec2
	Kind     PowerUpKind
}

// KillEvent records a player brought to zero health. KillerID is 0 for
// self-inflicted kills.
type KillEvent struct {
	KillerID   uint64
	KillerName string
	VictimID   uint64
	VictimName string
	Weapon     string
}

// DeathEvent records a player removed from the world this tick
type DeathEvent struct {
	PlayerID uint64
	Position Vec2
}

// SoundEvent is a sound the clients should play
type SoundEvent struct {
	Effect   SoundEffect
	Position Vec2
}

// TickEvents is everything notable that happened during one Update
type TickEvents struct {
	Hits       []uint64
	Pickups    []PickupEvent
	LaserFires []Vec2
	Kills      []KillEvent
	Deaths     []DeathEvent
}

// Game owns the whole world. It is not safe for concurrent use; the tick
// loop is its only caller.
type Game struct {
	cfg         GameConfig
	rng         *rand.Rand
	debug       *DebugSink
	table       *PowerupTable
	players     []*Player
	projectiles []*Projectile
	powerups    []PowerUp
	lasers      []*LaserBeam
	killfeed    KillFeed
	hurricane   *Hurricane
	tick        uint64

	grid     SpatialGrid
	queryBuf []int
}

// NewGame creates an empty world. debug may be nil.
func NewGame(cfg GameConfig, rng *rand.Rand, debug *DebugSink) *Game {
	if rng == nil {
		rng = NewRand()
	}
	if cfg.PowerupAmount < 0 {
		cfg.PowerupAmount = 0
	}
	return &Game{
		cfg:   cfg,
		rng:   rng,
		debug: debug,
		table: NewPowerupTable(cfg.PowerupWeights),
	}
}

// AddPlayer spawns a player at a random position and announces it
func (g *Game) AddPlayer(id uint64, name string, plane PlaneType, color Color) *Player {
	pos := V(g.rng.Float64()*WorldSize, g.rng.Float64()*WorldSize)
	p := NewPlayer(id, name, pos, plane, color)
	g.players = append(g.players, p)
	g.killfeed.Add(name + " has joined the game.")
	return p
}

// RemovePlayer drops a player, returning false if it was not present
func (g *Game) RemovePlayer(id uint64) bool {
	for i, p := range g.players {
		if p.ID == id {
			g.players = append(g.players[:i], g.players[i+1:]...)
			return true
		}
	}
	return false
}

// Player returns the player with id, or nil
func (g *Game) Player(id uint64) *Player {
	for _, p := range g.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (g *Game) Players() []*Player { return g.players }

func (g *Game) PlayerCount() int { return len(g.players) }

func (g *Game) Projectiles() []*Projectile { return g.projectiles }

func (g *Game) Powerups() []PowerUp { return g.powerups }

func (g *Game) Lasers() []*LaserBeam { return g.lasers }

func (g *Game) KillFeed() *KillFeed { return &g.killfeed }

func (g *Game) Hurricane() *Hurricane { return g.hurricane }

// SetHurricane replaces the current hurricane
func (g *Game) SetHurricane(h *Hurricane) { g.hurricane = h }

func (g *Game) AddProjectile(p *Projectile) { g.projectiles = append(g.projectiles, p) }

func (g *Game) Tick() uint64 { return g.tick }

// TimeStep scales the base step down while anyone holds SlowTime
func (g *Game) TimeStep(base float64) float64 {
	for _, p := range g.players {
		if p.HasSlowTime() {
			return base / SlowTimeFactor
		}
	}
	return base
}

// ApplyInput moves one player and handles its shooting and powerup
// activation, returning the sounds it caused.
func (g *Game) ApplyInput(id uint64, in ClientInput, dt float64) []SoundEvent {
	p := g.Player(id)
	if p == nil || p.HasDied() {
		return nil
	}
	p.Update(float64(in.XInput), float64(in.YInput), g.hurricane.WindAt(p.Position), dt)
	if in.ActivatingPowerup {
		p.TriggerPowerup()
	}
	if !in.Shooting {
		return nil
	}
	var sounds []SoundEvent
	proj, charging := p.Shoot()
	if proj != nil {
		g.projectiles = append(g.projectiles, proj)
		sounds = append(sounds, SoundEvent{Effect: SoundGun, Position: p.Position})
	}
	if charging {
		sounds = append(sounds, SoundEvent{Effect: SoundLaserCharge, Position: p.Position})
	}
	return sounds
}

// Update runs one simulation step
func (g *Game) Update(dt float64) TickEvents {
	var ev TickEvents
	g.tick++
	g.maybeSpawnHurricane(dt)
	g.updateHurricane(dt)
	g.rebuildPlayerGrid()
	ev.Pickups = g.handlePowerups()
	g.handleProjectiles(dt, &ev)
	g.handleLasers(dt, &ev)
	g.handlePlayerCollisions(dt, &ev)
	g.killfeed.Update(dt)
	ev.Deaths = g.removeDead()
	return ev
}

func (g *Game) maybeSpawnHurricane(dt float64) {
	if g.hurricane != nil {
		return
	}
	if g.rng.Float64() >= g.cfg.HurricaneProbability*dt {
		return
	}
	vel := V(g.rng.Float64()*HurricaneMoveSpeed, g.rng.Float64()*HurricaneMoveSpeed)
	pos := V(g.rng.Float64()*WorldSize, g.rng.Float64()*WorldSize)
	g.hurricane = NewHurricane(pos, vel)
}

func (g *Game) updateHurricane(dt float64) {
	if g.hurricane == nil {
		return
	}
	g.hurricane.Update(dt)
	if g.hurricane.IsDead() {
		g.hurricane = nil
	}
}

// handlePowerups resolves pickups and tops the population back up
func (g *Game) handlePowerups() []PickupEvent {
	var pickups []PickupEvent
	for _, p := range g.players {
		if p.HasDied() {
			continue
		}
		kept := g.powerups[:0]
		for _, pu := range g.powerups {
			if PickupInRange(p, pu) {
				p.AddPowerup(pu.Kind)
				pickups = append(pickups, PickupEvent{PlayerID: p.ID, Position: p.Position, Kind: pu.Kind})
				continue
			}
			kept = append(kept, pu)
		}
		g.powerups = kept
	}

	for len(g.powerups) < g.cfg.PowerupAmount {
		g.powerups = append(g.powerups, PowerUp{
			Kind:     g.table.Pick(g.rng),
			Position: V(g.rng.Float64()*WorldSize, g.rng.Float64()*WorldSize),
		})
	}
	return pickups
}

func (g *Game) handleProjectiles(dt float64, ev *TickEvents) {
	kept := g.projectiles[:0]
	for _, proj := range g.projectiles {
		proj.Update(g.players, g.hurricane, g.debug, dt)
		if !proj.IsDone() {
			kept = append(kept, proj)
		}
	}
	g.projectiles = kept

	kept = g.projectiles[:0]
	for _, proj := range g.projectiles {
		victim := g.projectileVictim(proj)
		if victim == nil {
			kept = append(kept, proj)
			continue
		}
		victim.DamagePlayer(proj.Damage())
		ev.Hits = append(ev.Hits, victim.ID)
		if victim.HasDied() {
			g.recordProjectileKill(proj, victim, ev)
		}
	}
	g.projectiles = kept
}

// projectileVictim returns the first living player, in join order, that
// proj hits
func (g *Game) projectileVictim(proj *Projectile) *Player {
	best := -1
	for _, i := range g.nearbyPlayers(proj.Position(), BulletRadius) {
		if best >= 0 && i > best {
			continue
		}
		if p := g.players[i]; !p.HasDied() && proj.Hits(p) {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	return g.players[best]
}

func (g *Game) recordProjectileKill(proj *Projectile, victim *Player, ev *TickEvents) {
	weapon := proj.Kind.String()
	kill := KillEvent{VictimID: victim.ID, VictimName: victim.Name, Weapon: weapon}
	if proj.Owner() == victim.ID {
		g.killfeed.Add(fmt.Sprintf("%s killed themselves using a %s.", victim.Name, weapon))
	} else {
		kill.KillerID = proj.Owner()
		kill.KillerName = proj.OwnerName()
		g.killfeed.Add(fmt.Sprintf("%s killed %s using a %s.", proj.OwnerName(), victim.Name, weapon))
	}
	ev.Kills = append(ev.Kills, kill)
}

func (g *Game) handleLasers(dt float64, ev *TickEvents) {
	for _, p := range g.players {
		if p.HasDied() {
			continue
		}
		if beam := p.MaybeLaser(); beam != nil {
			g.lasers = append(g.lasers, beam)
			ev.LaserFires = append(ev.LaserFires, p.Position)
		}
	}

	kept := g.lasers[:0]
	for _, l := range g.lasers {
		if !l.ShouldBeRemoved() {
			kept = append(kept, l)
		}
	}
	g.lasers = kept

	for _, l := range g.lasers {
		l.Update(dt)
		if !l.IsDealingDamage() {
			continue
		}
		for _, p := range g.players {
			if p.ID == l.Owner || p.HasDied() || !l.Hits(p.Position) {
				continue
			}
			p.DamagePlayer(l.Damage)
			ev.Hits = append(ev.Hits, p.ID)
			if p.HasDied() {
				g.killfeed.Add(fmt.Sprintf("%s killed %s using a Laser.", l.OwnerName, p.Name))
				ev.Kills = append(ev.Kills, KillEvent{
					KillerID: l.Owner, KillerName: l.OwnerName,
					VictimID: p.ID, VictimName: p.Name, Weapon: "Laser",
				})
			}
		}
	}
}

// handlePlayerCollisions damages players touching another ship once their
// grace timer has run out. The earliest-joined ship touching a player is
// credited.
func (g *Game) handlePlayerCollisions(dt float64, ev *TickEvents) {
	other := make(map[uint64]*Player)
	for i, a := range g.players {
		if a.HasDied() {
			continue
		}
		first := -1
		for _, j := range g.nearbyPlayers(a.Position, PlaneSize) {
			if j == i || (first >= 0 && j > first) {
				continue
			}
			if b := g.players[j]; !b.HasDied() && PlayersCollide(a, b) {
				first = j
			}
		}
		if first >= 0 {
			other[a.ID] = g.players[first]
		}
	}

	for _, p := range g.players {
		p.UpdateCollisionTimer(dt)
		attacker, ok := other[p.ID]
		if !ok || p.TimeToNextCollision > 0 {
			continue
		}
		p.DamagePlayer(CollisionDamage)
		p.TimeToNextCollision = CollisionGracePeriod
		ev.Hits = append(ev.Hits, p.ID)
		if p.HasDied() {
			g.killfeed.Add(fmt.Sprintf("%s killed %s by collision.", attacker.Name, p.Name))
			ev.Kills = append(ev.Kills, KillEvent{
				KillerID: attacker.ID, KillerName: attacker.Name,
				VictimID: p.ID, VictimName: p.Name, Weapon: "collision",
			})
		}
	}
}

func (g *Game) removeDead() []DeathEvent {
	var deaths []DeathEvent
	kept := g.players[:0]
	for _, p := range g.players {
		if p.HasDied() {
			deaths = append(deaths, DeathEvent{PlayerID: p.ID, Position: p.Position})
			continue
		}
		kept = append(kept, p)
	}
	g.players = kept
	return deaths
}

// Snapshot builds the state sent to every client this tick
func (g *Game) Snapshot() GameState {
	s := GameState{
		Tick:        g.tick,
		Players:     make([]PlayerState, 0, len(g.players)),
		Projectiles: make([]ProjectileState, 0, len(g.projectiles)),
		Powerups:    make([]PowerUpState, 0, len(g.powerups)),
		Lasers:      make([]LaserState, 0, len(g.lasers)),
		KillFeed:    g.killfeed.Messages(),
		Hurricane:   g.hurricane.ToState(),
		DebugLines:  g.debug.Drain(),
	}
	for _, p := range g.players {
		s.Players = append(s.Players, p.ToState())
	}
	for _, proj := range g.projectiles {
		s.Projectiles = append(s.Projectiles, proj.ToState())
	}
	for _, pu := range g.powerups {
		s.Powerups = append(s.Powerups, PowerUpState{Kind: pu.Kind, Position: pu.Position})
	}
	for _, l := range g.lasers {
		s.Lasers = append(s.Lasers, l.ToState())
	}
	return s
}
