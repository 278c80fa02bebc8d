// Package control maps discrete driver commands onto speed and steer angle.
package control

import (
	"fmt"
	"math"

	"github.com/1siamBot/towsim/engine/vehicle"
)

// Steer is the steering command held during a tick.
type Steer uint8

const (
	SteerNone Steer = iota
	SteerLeft
	SteerRight
)

func (s Steer) String() string {
	switch s {
	case SteerLeft:
		return "left"
	case SteerRight:
		return "right"
	}
	return "none"
}

// Throttle is the drive command held during a tick.
type Throttle uint8

const (
	ThrottleNone Throttle = iota
	ThrottleForward
	ThrottleReverse
)

func (t Throttle) String() string {
	switch t {
	case ThrottleForward:
		return "forward"
	case ThrottleReverse:
		return "reverse"
	}
	return "none"
}

// Command is the input for one tick.
type Command struct {
	Steer    Steer
	Throttle Throttle
}

// Limits bounds the control response.
type Limits struct {
	SteerRate float64 // rad/s
	MaxSpeed  float64 // units/s
	MaxSteer  float64 // rad
}

// DefaultLimits steers at 1 rad/s and drives at 2.5 units/s.
func DefaultLimits() Limits {
	return Limits{
		SteerRate: 1,
		MaxSpeed:  2.5,
		MaxSteer:  vehicle.MaxSteer,
	}
}

// Validate rejects negative or non-finite rates and a steer limit outside
// [0, vehicle.MaxSteer]. A tighter steer limit than the vehicle's is allowed.
func (l Limits) Validate() error {
	if !(l.SteerRate >= 0) || math.IsInf(l.SteerRate, 0) {
		return fmt.Errorf("steer rate must be non-negative, got %g", l.SteerRate)
	}
	if !(l.MaxSpeed >= 0) || math.IsInf(l.MaxSpeed, 0) {
		return fmt.Errorf("max speed must be non-negative, got %g", l.MaxSpeed)
	}
	if !(l.MaxSteer >= 0) || l.MaxSteer > vehicle.MaxSteer {
		return fmt.Errorf("max steer %g outside [0, %g]", l.MaxSteer, vehicle.MaxSteer)
	}
	return nil
}

// Clamp limits phi to [-limit, limit].
func Clamp(phi, limit float64) float64 {
	return math.Max(-limit, math.Min(phi, limit))
}

// Apply integrates the steer angle over dt and sets the speed from the throttle.
// Speed is not smoothed: it jumps straight to +-MaxSpeed or 0.
func Apply(phi float64, cmd Command, dt float64, lim Limits) (newPhi, speed float64) {
	switch cmd.Steer {
	case SteerLeft:
		phi += dt * lim.SteerRate
	case SteerRight:
		phi -= dt * lim.SteerRate
	}
	newPhi = Clamp(phi, lim.MaxSteer)

	switch cmd.Throttle {
	case ThrottleForward:
		speed = lim.MaxSpeed
	case ThrottleReverse:
		speed = -lim.MaxSpeed
	}
	return newPhi, speed
}
