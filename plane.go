package main

// PlaneType identifies the airframe a player flies
type PlaneType uint8

const (
	PlaneSukaBlyat         PlaneType = 0
	PlaneHowdyCowboy       PlaneType = 1
	PlaneElPolloRomero     PlaneType = 2
	PlaneAchtungBlitzKrieg PlaneType = 3
)

// PlaneDef holds the flight and combat stats for a plane type
type PlaneDef struct {
	Name         string
	Speed        float64 // multiplier on the speed scalar
	MaxSpeed     float64
	Agility      float64
	Firepower    float64 // multiplier on BulletDamage
	Acceleration float64
	MaxHealth    int
	Resilience   float64 // fraction of incoming damage absorbed
}

var PlaneDefs = [4]PlaneDef{
	// Suka Blyat: nimble glass cannon
	{
		Name: "Suka Blyat", Speed: 1.05, MaxSpeed: MaxSpeed * 0.9,
		Agility: DefaultAgility * 5, Firepower: 5, Acceleration: DefaultAcceleration * 1.1,
		MaxHealth: int(DefaultHealth * 1.1), Resilience: 0.1,
	},
	// Howdy Cowboy: slow but tough
	{
		Name: "Howdy Cowboy", Speed: 1.0, MaxSpeed: MaxSpeed * 0.8,
		Agility: DefaultAgility * 4, Firepower: 3, Acceleration: DefaultAcceleration * 1.5,
		MaxHealth: int(DefaultHealth * 1.3), Resilience: 0.3,
	},
	{
		Name: "El Pollo Romero", Speed: 1.1, MaxSpeed: MaxSpeed,
		Agility: DefaultAgility * 5, Firepower: 3, Acceleration: DefaultAcceleration * 1.2,
		MaxHealth: int(DefaultHealth * 1.2), Resilience: 0.2,
	},
	{
		Name: "Achtung Blitzkrieg", Speed: 1.0, MaxSpeed: MaxSpeed * 0.8,
		Agility: DefaultAgility * 4, Firepower: 4, Acceleration: DefaultAcceleration * 1.3,
		MaxHealth: int(DefaultHealth * 1.2), Resilience: 0.1,
	},
}

// Valid reports whether t names a known plane
func (t PlaneType) Valid() bool {
	return int(t) < len(PlaneDefs)
}

// Def returns the stats for t, falling back to the first plane
func (t PlaneType) Def() PlaneDef {
	if !t.Valid() {
		return PlaneDefs[PlaneSukaBlyat]
	}
	return PlaneDefs[t]
}

func (t PlaneType) String() string { return t.Def().Name }

// Color is the livery a player picked
type Color uint8

const (
	ColorRed    Color = 0
	ColorGreen  Color = 1
	ColorBlue   Color = 2
	ColorYellow Color = 3
	ColorPurple Color = 4
)

var colorRGBA = [5][4]uint8{
	{255, 0, 0, 255},
	{0, 255, 0, 255},
	{0, 0, 255, 255},
	{255, 255, 0, 255},
	{255, 0, 255, 255},
}

func (c Color) Valid() bool {
	return int(c) < len(colorRGBA)
}

// RGBA returns the display color, Red for unknown values
func (c Color) RGBA() [4]uint8 {
	if !c.Valid() {
		return colorRGBA[ColorRed]
	}
	return colorRGBA[c]
}
