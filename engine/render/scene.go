package render

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/1siamBot/towsim/engine/core"
	"github.com/1siamBot/towsim/engine/geometry"
	"github.com/1siamBot/towsim/engine/vehicle"
)

// Quad is a closed outline of four world points
type Quad [4]r2.Vec

// UnitShapes is the outline of one unit (car or trailer) in world coordinates
type UnitShapes struct {
	Body   Quad
	Wheels []Quad
	Axle   r2.Vec
	TowBar [2]r2.Vec // hitch to axle, zero length for the car
}

// Scene is everything drawn for one frame, in world coordinates
type Scene struct {
	Units []UnitShapes

	// Turning circle of the car's rear axle, or a straight guide line
	Straight   bool
	TurnCentre r2.Vec
	TurnRadius float64
	GuideLine  [2]r2.Vec
}

// guideHalfLength is how far the straight guide line extends each way, in world units
const guideHalfLength = 1000

// box returns the rectangle spanning x in [x0, x0+length] and y in [-width/2, width/2]
// of a unit frame, mapped to world coordinates
func box(p vehicle.Pose, x0, length, width float64) Quad {
	return Quad{
		p.ToWorld(r2.Vec{X: x0, Y: -width / 2}),
		p.ToWorld(r2.Vec{X: x0 + length, Y: -width / 2}),
		p.ToWorld(r2.Vec{X: x0 + length, Y: width / 2}),
		p.ToWorld(r2.Vec{X: x0, Y: width / 2}),
	}
}

// wheel returns a wheel outline centred at local (cx, cy), steered by angle
func wheel(p vehicle.Pose, g vehicle.Geometry, cx, cy, angle float64) Quad {
	centre := p.ToWorld(r2.Vec{X: cx, Y: cy})
	wp := vehicle.Pose{Axle: centre, Heading: p.Heading + angle}
	return box(wp, -g.WheelDiameter/2, g.WheelDiameter, g.WheelWidth)
}

// body places the box so the overhang beyond the axles is split evenly
func body(p vehicle.Pose, g vehicle.Geometry) Quad {
	return box(p, -(g.BoxLength-g.Wheelbase)/2, g.BoxLength, g.BoxWidth)
}

// BuildScene lays out the car, its steered front wheels, the trailer chain and
// the turning circle from a snapshot and its derived steering
func BuildScene(snap vehicle.Snapshot, st core.Steering) Scene {
	poses := vehicle.WorldPoses(snap.Car, snap.Trailers)
	g := snap.Geometry
	car := poses[0]

	var scene Scene
	scene.Units = append(scene.Units, UnitShapes{
		Body: body(car, g),
		Wheels: []Quad{
			wheel(car, g, 0, g.Gauge/2, 0),
			wheel(car, g, 0, -g.Gauge/2, 0),
			wheel(car, g, g.Wheelbase, g.Gauge/2, st.Left),
			wheel(car, g, g.Wheelbase, -g.Gauge/2, st.Right),
		},
		Axle:   car.Axle,
		TowBar: [2]r2.Vec{car.Axle, car.Axle},
	})

	for i, tr := range snap.Trailers {
		p := poses[i+1]
		tg := tr.Geometry
		scene.Units = append(scene.Units, UnitShapes{
			Body: body(p, tg),
			Wheels: []Quad{
				wheel(p, tg, 0, tg.Gauge/2, 0),
				wheel(p, tg, 0, -tg.Gauge/2, 0),
			},
			Axle:   p.Axle,
			TowBar: [2]r2.Vec{p.Hitch, p.Axle},
		})
	}

	if cx, cy, ok := geometry.TurnCentre(g.Wheelbase, snap.Car.Steer); ok && !st.Radius.Straight {
		scene.TurnCentre = car.ToWorld(r2.Vec{X: cx, Y: cy})
		scene.TurnRadius = st.Radius.Value
	} else {
		scene.Straight = true
		scene.GuideLine = [2]r2.Vec{
			car.ToWorld(r2.Vec{X: -guideHalfLength}),
			car.ToWorld(r2.Vec{X: guideHalfLength}),
		}
	}
	return scene
}
