// Package vehicle holds the state model of a towing car and its trailer chain.
package vehicle

import (
	"fmt"
	"math"
)

// MaxSteer is the steer angle limit in radians (0.4 pi, safely below pi/2 so tan stays finite).
const MaxSteer = 0.4 * math.Pi

// ---- Geometry ----

// Geometry describes a unit's fixed dimensions. Only Wheelbase and Gauge take
// part in the kinematics; the rest is passed through for rendering.
type Geometry struct {
	Wheelbase     float64 `json:"wheelbase"` // rear axle to front axle (car) or hitch to axle (trailer)
	Gauge         float64 `json:"gauge"`     // axle width
	BoxLength     float64 `json:"box_length"`
	BoxWidth      float64 `json:"box_width"`
	WheelWidth    float64 `json:"wheel_width"`
	WheelDiameter float64 `json:"wheel_diameter"`
}

// DefaultCarGeometry matches the dimensions of the reference car.
func DefaultCarGeometry() Geometry {
	return Geometry{
		Wheelbase:     3,
		Gauge:         1.5,
		BoxLength:     4,
		BoxWidth:      2,
		WheelWidth:    0.25,
		WheelDiameter: 0.75,
	}
}

// DefaultTrailerGeometry is a single-axle trailer sized to the default car.
func DefaultTrailerGeometry() Geometry {
	return Geometry{
		Wheelbase:     3,
		Gauge:         1.5,
		BoxLength:     3,
		BoxWidth:      1.8,
		WheelWidth:    0.25,
		WheelDiameter: 0.75,
	}
}

// Validate checks that the kinematic dimensions are positive and finite.
func (g Geometry) Validate() error {
	if !(g.Wheelbase > 0) || math.IsInf(g.Wheelbase, 0) {
		return fmt.Errorf("wheelbase must be positive and finite, got %g", g.Wheelbase)
	}
	if !(g.Gauge > 0) || math.IsInf(g.Gauge, 0) {
		return fmt.Errorf("gauge must be positive and finite, got %g", g.Gauge)
	}
	return nil
}

// ---- Dynamic state ----

// CarState is the mutable pose and control state of the towing car.
type CarState struct {
	X     float64 `json:"x"`     // centre of the rear axle
	Y     float64 `json:"y"`     //
	Theta float64 `json:"theta"` // heading, radians from +X
	Speed float64 `json:"speed"` // signed, + forward, units/s
	Steer float64 `json:"steer"` // phi, radians, clamped to [-MaxSteer, MaxSteer]
}

// TrailerState is one towed unit. Theta is its heading relative to the unit
// ahead of it (the car for index 0), positive counter-clockwise.
type TrailerState struct {
	Geometry Geometry `json:"geometry"`
	Theta    float64  `json:"theta"`
}

// Snapshot is a read-only copy of the simulation state for rendering.
type Snapshot struct {
	Geometry Geometry       `json:"geometry"`
	Car      CarState       `json:"car"`
	Trailers []TrailerState `json:"trailers"`
}

// NewSnapshot copies the chain so later mutation of the source is not visible.
func NewSnapshot(geom Geometry, car CarState, chain []TrailerState) Snapshot {
	trailers := make([]TrailerState, len(chain))
	copy(trailers, chain)
	return Snapshot{Geometry: geom, Car: car, Trailers: trailers}
}
