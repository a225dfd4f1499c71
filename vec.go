package main

import "math"

// Vec2 is a point or displacement in world units
type Vec2 struct {
	X float64 `msgpack:"x" json:"x"`
	Y float64 `msgpack:"y" json:"y"`
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }
func (v Vec2) Angle() float64 { return math.Atan2(v.Y, v.X) }
func (v Vec2) Perp() Vec2 { return Vec2{-v.Y, v.X} }
func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Normalize returns the unit vector, or zero for a zero vector
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// FromAngle returns a vector of the given length pointing along angle
func FromAngle(angle, length float64) Vec2 {
	return Vec2{math.Cos(angle) * length, math.Sin(angle) * length}
}

// Modulo is the euclidean remainder, always in [0, div)
func Modulo(x, div float64) float64 {
	m := math.Mod(math.Mod(x, div)+div, div)
	if m >= div {
		// -tiny + div rounds up to div
		return 0
	}
	return m
}

// WrapAround reduces both axes of p into [0, WorldSize)
func WrapAround(p Vec2) Vec2 {
	return Vec2{Modulo(p.X, WorldSize), Modulo(p.Y, WorldSize)}
}

// ClosestVectorTo returns the shortest displacement from a to b on the torus,
// checking every neighbouring tile image of b.
func ClosestVectorTo(a, b Vec2) Vec2 {
	d := b.Sub(a)
	best := d
	bestLen := math.Inf(1)
	for ox := -1.0; ox <= 1; ox++ {
		for oy := -1.0; oy <= 1; oy++ {
			c := Vec2{d.X + ox*WorldSize, d.Y + oy*WorldSize}
			if l := c.X*c.X + c.Y*c.Y; l < bestLen {
				best = c
				bestLen = l
			}
		}
	}
	return best
}

// ToroidalDistance is the length of ClosestVectorTo
func ToroidalDistance(a, b Vec2) float64 {
	return ClosestVectorTo(a, b).Len()
}
