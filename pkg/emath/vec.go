package emath

// Vectors on the unit sphere, used to turn env map positions into light directions

import(
	"fmt"
	"math"

	"golang.org/x/image/math/f64"  // Will be "image/math/f64" at some point
	"gonum.org/v1/gonum/spatial/r3"
)

// Use a local type so we can hang methods off it
type Vec3 f64.Vec3

func (v Vec3)r3() r3.Vec { return r3.Vec{X:v[0], Y:v[1], Z:v[2]} }
func fromR3(v r3.Vec) Vec3 { return Vec3{v.X, v.Y, v.Z} }

func (v Vec3)Dot(u Vec3) float64 { return r3.Dot(v.r3(), u.r3()) }
func (v Vec3)Norm() float64      { return r3.Norm(v.r3()) }

// Unit returns the vector scaled to length 1. The zero vector is returned as-is.
func (v Vec3)Unit() Vec3 {
	if v.Norm() == 0 {
		return v
	}
	return fromR3(r3.Unit(v.r3()))
}

func (v Vec3)String() string {
	return fmt.Sprintf("[%12.10f, %12.10f, %12.10f]", v[0], v[1], v[2])
}

// AngleDeg is the great-circle distance between two directions, in degrees.
func AngleDeg(a, b Vec3) float64 {
	d := Clamp(a.Unit().Dot(b.Unit()), -1.0, 1.0) // acos is NaN just outside [-1,1]
	return math.Min(180.0, math.Acos(d) * 180.0 / math.Pi)
}
