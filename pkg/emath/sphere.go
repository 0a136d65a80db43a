package emath

import "math"

// Horizon is the normalized y coordinate of the equator in an equirectangular map.
// Anything at or below it is in the lower hemisphere.
const Horizon = 0.5

// Direction maps a normalized equirectangular position (x right, y down from the top
// row) onto a unit direction. The top row lands on the vertical pole (Y = -1 with
// these formulas, the axis convention of the viewers that consume the JSON), and
// y=0.5 is the horizon.
//
// https://www.shadertoy.com/view/4dsGD2 and http://graphicscodex.com [sphry]
func Direction(x, y float64) Vec3 {
	phi   := (x * 2.0 * math.Pi) - math.Pi * 0.5
	theta := (1.0 - y) * math.Pi

	d := Vec3{
		math.Sin(theta) * math.Cos(phi),
		math.Cos(theta),
		math.Sin(theta) * math.Sin(phi),
	}
	return d.Unit()
}

// AboveHorizon reports whether a light at normalized height y is kept at output.
func AboveHorizon(y float64) bool { return y < Horizon }
