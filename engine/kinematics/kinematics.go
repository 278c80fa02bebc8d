// Package kinematics advances a car and its trailer chain by one time step using
// the bicycle model with forward Euler integration.
//
// Distances are in the caller's length unit, speeds in units/s, angles in radians
// and time in seconds.
package kinematics

import (
	"errors"
	"math"

	"github.com/1siamBot/towsim/engine/vehicle"
)

// ErrInvalidTimestep is returned by CheckTimestep for negative or non-finite steps.
var ErrInvalidTimestep = errors.New("kinematics: invalid timestep")

// CheckTimestep accepts finite dt >= 0.
func CheckTimestep(dt float64) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return ErrInvalidTimestep
	}
	return nil
}

// StepCar advances the car pose over dt using its current Speed and Steer.
// It returns the heading increment applied.
func StepCar(car *vehicle.CarState, geom vehicle.Geometry, dt float64) float64 {
	ds := dt * car.Speed
	car.X += ds * math.Cos(car.Theta)
	car.Y += ds * math.Sin(car.Theta)
	dtheta := ds / geom.Wheelbase * math.Tan(car.Steer)
	car.Theta += dtheta
	return dtheta
}

// StepChain updates the relative headings of the trailers after the car turned
// by dtheta. Trailers are processed nearest first; each one sees the hitch speed
// projected through the pre-update angles of the trailers ahead of it, and its
// relative increment is its world rate minus the world rate of the unit ahead.
func StepChain(chain []vehicle.TrailerState, speed, dt, dtheta float64) {
	cumulative := dtheta
	product := 1.0
	for i := range chain {
		t := &chain[i]
		prev := t.Theta
		raw := dt * speed / t.Geometry.Wheelbase * product * math.Sin(-prev)
		inc := raw - cumulative
		cumulative += inc
		t.Theta += inc
		product *= math.Cos(-prev)
	}
}

// Step advances the car and then the chain by dt. A zero dt leaves everything unchanged.
func Step(car *vehicle.CarState, geom vehicle.Geometry, chain []vehicle.TrailerState, dt float64) {
	if dt == 0 {
		return
	}
	dtheta := StepCar(car, geom, dt)
	StepChain(chain, car.Speed, dt, dtheta)
}
