// Package geometry computes Ackermann steering quantities for a car-like vehicle:
// turning radius and the individual steer angles of the two front wheels.
//
// All angles are radians. A positive steer angle turns the vehicle toward +Y in its
// own frame (counter-clockwise seen from above, +Y up).
package geometry

import (
	"fmt"
	"math"
)

// Radius is a turning radius. Straight marks straight-line motion, where the
// radius is unbounded; Value is meaningless in that case.
type Radius struct {
	Value    float64 `json:"value"`
	Straight bool    `json:"straight"`
}

// StraightLine is the radius returned for a zero steer angle.
var StraightLine = Radius{Straight: true}

func (r Radius) String() string {
	if r.Straight {
		return "straight"
	}
	return fmt.Sprintf("%.3f", r.Value)
}

// GeometryError reports a physically invalid steering configuration.
type GeometryError struct {
	Wheelbase float64
	Gauge     float64
	Radius    float64 // zero when the failure is not radius related
	Reason    string
}

func (e *GeometryError) Error() string {
	if e.Radius != 0 {
		return fmt.Sprintf("geometry: %s (wheelbase=%g gauge=%g radius=%g)", e.Reason, e.Wheelbase, e.Gauge, e.Radius)
	}
	return fmt.Sprintf("geometry: %s (wheelbase=%g gauge=%g)", e.Reason, e.Wheelbase, e.Gauge)
}

// sign returns 1, -1 or 0. Negative zero yields 0.
func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// TurningRadius returns the radius of the circle traced by the rear axle centre
// for wheelbase l and steer angle phi.
func TurningRadius(l, phi float64) Radius {
	if phi == 0 {
		return StraightLine
	}
	return Radius{Value: l / math.Tan(math.Abs(phi))}
}

// AckermannWheelAngles returns the inner and outer front wheel steer angles that
// make both wheel axes meet the extended rear axle at the same point.
// Both angles carry the sign of phi.
func AckermannWheelAngles(l, g, phi float64) (inner, outer float64, err error) {
	if err := checkDimensions(l, g); err != nil {
		return 0, 0, err
	}
	r := TurningRadius(l, phi)
	if r.Straight {
		return 0, 0, nil
	}
	if r.Value <= g/2 {
		return 0, 0, &GeometryError{
			Wheelbase: l,
			Gauge:     g,
			Radius:    r.Value,
			Reason:    "turning radius not larger than half the gauge",
		}
	}
	s := sign(phi)
	outer = s * math.Atan(l/(r.Value+g/2))
	inner = s * math.Atan(l/(r.Value-g/2))
	return inner, outer, nil
}

// FrontWheelAngles returns the steer angles of the left (+Y side) and right front
// wheels. The left wheel is the inner one when phi > 0.
func FrontWheelAngles(l, g, phi float64) (left, right float64, err error) {
	inner, outer, err := AckermannWheelAngles(l, g, phi)
	if err != nil {
		return 0, 0, err
	}
	if phi > 0 {
		return inner, outer, nil
	}
	return outer, inner, nil
}

// TurnCentre returns the instantaneous centre of rotation in the vehicle frame
// (origin at the rear axle centre, +X forward). ok is false when driving straight.
func TurnCentre(l, phi float64) (x, y float64, ok bool) {
	r := TurningRadius(l, phi)
	if r.Straight {
		return 0, 0, false
	}
	return 0, sign(phi) * r.Value, true
}

// MinTurningRadius is the tightest radius reachable with steer angles up to maxSteer.
func MinTurningRadius(l, maxSteer float64) Radius {
	return TurningRadius(l, maxSteer)
}

// CheckSteeringLimits verifies that every steer angle in [-maxSteer, maxSteer]
// produces a valid Ackermann configuration.
func CheckSteeringLimits(l, g, maxSteer float64) error {
	if err := checkDimensions(l, g); err != nil {
		return err
	}
	if maxSteer < 0 || maxSteer >= math.Pi/2 || math.IsNaN(maxSteer) {
		return &GeometryError{Wheelbase: l, Gauge: g, Reason: fmt.Sprintf("steer limit %g outside [0, pi/2)", maxSteer)}
	}
	_, _, err := AckermannWheelAngles(l, g, maxSteer)
	return err
}

func checkDimensions(l, g float64) error {
	if !(l > 0) || math.IsInf(l, 0) {
		return &GeometryError{Wheelbase: l, Gauge: g, Reason: "wheelbase must be positive"}
	}
	if !(g > 0) || math.IsInf(g, 0) {
		return &GeometryError{Wheelbase: l, Gauge: g, Reason: "gauge must be positive"}
	}
	return nil
}
