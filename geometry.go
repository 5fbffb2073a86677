package main

import (
	"math"
	"math/rand"
)

// Point is a position in arena coordinates
type Point struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// Translate moves the point in place
func (p *Point) Translate(dx, dy float64) {
	p.X += dx
	p.Y += dy
}

// Add returns p offset by (dx, dy)
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Distance returns the euclidean distance between two points
func Distance(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect is an axis-aligned bounding box anchored at its top-left corner
type Rect struct {
	Min  Point
	Size float64
}

// Max returns the bottom-right corner
func (r Rect) Max() Point {
	return r.Min.Add(r.Size, r.Size)
}

// Center returns the middle of the box
func (r Rect) Center() Point {
	return r.Min.Add(r.Size/2, r.Size/2)
}

// Overlaps reports whether two boxes share any area. Touching edges do not count.
func (r Rect) Overlaps(o Rect) bool {
	rMax, oMax := r.Max(), o.Max()
	return r.Min.X < oMax.X && o.Min.X < rMax.X &&
		r.Min.Y < oMax.Y && o.Min.Y < rMax.Y
}

// IntersectsCircle reports whether a circle reaches the box, using the closest
// point of the box to the circle center.
func (r Rect) IntersectsCircle(center Point, radius float64) bool {
	if radius <= 0 {
		return false
	}
	rMax := r.Max()
	closest := Point{
		X: Clamp(center.X, r.Min.X, rMax.X),
		Y: Clamp(center.Y, r.Min.Y, rMax.Y),
	}
	return Distance(center, closest) <= radius
}

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// normalizeDegrees wraps an angle to [0, 360)
func normalizeDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

func degToRad(a float64) float64 {
	return a * math.Pi / 180
}

// randomPoint returns a whole-pixel point with X in [0, maxX] and Y in [0, maxY]
func randomPoint(rng *rand.Rand, maxX, maxY float64) Point {
	return Point{
		X: math.Floor(rng.Float64() * maxX),
		Y: math.Floor(rng.Float64() * maxY),
	}
}

// round1 rounds to one decimal for snapshots
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
