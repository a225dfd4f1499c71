package main

// CheckCollision checks if two circles overlap on the torus
func CheckCollision(a Vec2, ra float64, b Vec2, rb float64) bool {
	d := ClosestVectorTo(a, b)
	radSum := ra + rb
	return d.Dot(d) < radSum*radSum
}

// PlayersCollide checks the ship-to-ship contact radius
func PlayersCollide(a, b *Player) bool {
	return CheckCollision(a.Position, PlaneSize, b.Position, PlaneSize)
}

// PickupInRange checks whether a player can collect a powerup
func PickupInRange(p *Player, pu PowerUp) bool {
	return CheckCollision(p.Position, PlaneSize, pu.Position, PowerupRadius)
}
