package vehicle

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Pose is a world-frame placement of one unit: the centre of its (rear) axle and
// its world heading.
type Pose struct {
	Axle    r2.Vec
	Hitch   r2.Vec // pivot the unit hangs from; equals Axle for the car
	Heading float64
}

// Dir is the unit vector pointing along the heading.
func (p Pose) Dir() r2.Vec {
	return r2.Vec{X: math.Cos(p.Heading), Y: math.Sin(p.Heading)}
}

// ToWorld maps a point given in the unit's frame (origin at the axle, +X forward)
// into world coordinates.
func (p Pose) ToWorld(local r2.Vec) r2.Vec {
	c, s := math.Cos(p.Heading), math.Sin(p.Heading)
	return r2.Add(p.Axle, r2.Vec{X: c*local.X - s*local.Y, Y: s*local.X + c*local.Y})
}

// WorldPoses composes the relative trailer headings outward from the car.
// The first element is the car; element i+1 is trailer i, hitched at the axle of
// the unit ahead with its own axle one wheelbase behind the hitch.
func WorldPoses(car CarState, chain []TrailerState) []Pose {
	poses := make([]Pose, 0, len(chain)+1)
	axle := r2.Vec{X: car.X, Y: car.Y}
	heading := car.Theta
	poses = append(poses, Pose{Axle: axle, Hitch: axle, Heading: heading})
	for _, t := range chain {
		heading += t.Theta
		hitch := axle
		dir := r2.Vec{X: math.Cos(heading), Y: math.Sin(heading)}
		axle = r2.Sub(hitch, r2.Scale(t.Geometry.Wheelbase, dir))
		poses = append(poses, Pose{Axle: axle, Hitch: hitch, Heading: heading})
	}
	return poses
}

// WorldHeadings returns only the headings of WorldPoses.
func WorldHeadings(car CarState, chain []TrailerState) []float64 {
	out := make([]float64, 0, len(chain)+1)
	h := car.Theta
	out = append(out, h)
	for _, t := range chain {
		h += t.Theta
		out = append(out, h)
	}
	return out
}
