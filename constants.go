package main

const (
	WorldSize = 3000.0

	PlaneSize     = 20.0
	BulletRadius  = 1.0 // scales PlaneSize into the bullet hit radius
	PowerupRadius = 20.0
	PlaneMass     = 2.0

	MaxSpeed            = 400.0
	MinSpeed            = 50.0
	DefaultAcceleration = 200.0
	DefaultHealth       = 150
	DefaultAgility      = 100.0
	AngularFade         = 0.9
)

// Weapons
const (
	BulletVelocity  = 600.0
	BulletDamage    = 10
	BulletMaxTravel = WorldSize * 0.3
	BulletStart     = 30.0 // spawn distance ahead of the nose
	PlayerCooldown  = 0.2
	BulletArmTime   = 0.03

	LaserFireTime   = 0.8 // charge time before the beam fires
	LaserActiveTime = 0.02
	LaserDecayTime  = 0.3
	LaserRange      = 300.0
	LaserRangeExtra = 10.0
	LaserDamage     = 40
	LaserSamples    = 100

	MissileGain         = 40.0
	MissileAngularFade  = 0.8
	MissileStartSpeed   = 300.0
	MissileAcceleration = 400.0
	MissileMaxSpeed     = 700.0
	MissileLifetime     = 4.0
)

// Powerups and collisions
const (
	PowerupAmount        = 10
	PowerupHealthBoost   = 40
	PowerupSpeedBoost    = 1.8
	CollisionDamage      = 40
	CollisionGracePeriod = 1.0
	SlowTimeFactor       = 3.0
)

// Hurricane
const (
	HurricaneProbability   = 0.01 // per second
	HurricaneGrowSpeed     = 0.125
	HurricaneSustainTime   = 20.0
	HurricaneMaxSize       = 1000.0
	HurricaneEyeSize       = 50.0
	HurricaneMaxWindspeed  = 800.0
	HurricaneRotationSpeed = 1.0
	HurricaneMoveSpeed     = 20.0
	HurricaneWindDecay     = 0.98
)

const (
	KillfeedDuration = 5.0
	KillfeedVisible  = 4
)
