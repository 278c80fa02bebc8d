package core

import (
	"fmt"

	"github.com/1siamBot/towsim/engine/control"
	"github.com/1siamBot/towsim/engine/geometry"
	"github.com/1siamBot/towsim/engine/kinematics"
	"github.com/1siamBot/towsim/engine/vehicle"
)

// Sim owns the car, its trailer chain and the tick bookkeeping.
// It is not safe for concurrent use; callers serialize Tick and reads.
type Sim struct {
	// Events receives simulation events when set. The host dispatches them.
	Events *EventBus

	geom   vehicle.Geometry
	car    vehicle.CarState
	chain  []vehicle.TrailerState
	limits control.Limits

	started bool
	last    float64
	ticks   uint64
}

// Steering holds the derived steering quantities for the current steer angle.
type Steering struct {
	Radius geometry.Radius `json:"radius"`
	Inner  float64         `json:"inner"`
	Outer  float64         `json:"outer"`
	Left   float64         `json:"left"` // left (+Y) front wheel
	Right  float64         `json:"right"`
}

// NewSim creates a simulation for a car with the given geometry and initial pose.
// The steer angle of initial is clamped to the limits.
func NewSim(geom vehicle.Geometry, initial vehicle.CarState, limits control.Limits) (*Sim, error) {
	if err := geom.Validate(); err != nil {
		return nil, fmt.Errorf("car geometry: %w", err)
	}
	if err := limits.Validate(); err != nil {
		return nil, fmt.Errorf("control limits: %w", err)
	}
	if err := geometry.CheckSteeringLimits(geom.Wheelbase, geom.Gauge, limits.MaxSteer); err != nil {
		return nil, err
	}
	initial.Steer = control.Clamp(initial.Steer, limits.MaxSteer)
	return &Sim{
		geom:   geom,
		car:    initial,
		limits: limits,
	}, nil
}

// Tick advances the simulation to timestamp now (seconds) under cmd.
// The first tick, a repeated timestamp and a negative or non-finite step only
// record now and leave the state untouched. It reports whether the state advanced.
func (s *Sim) Tick(now float64, cmd control.Command) bool {
	first := !s.started
	prev := s.last
	dt := now - prev
	s.started = true
	s.last = now

	if first || now == prev {
		s.emit(EvtTickSkipped, now, SkippedTick{DT: dt, First: first})
		return false
	}
	if err := kinematics.CheckTimestep(dt); err != nil {
		s.emit(EvtTickSkipped, now, SkippedTick{DT: dt, Err: err})
		return false
	}

	s.car.Steer, s.car.Speed = control.Apply(s.car.Steer, cmd, dt, s.limits)
	kinematics.Step(&s.car, s.geom, s.chain, dt)
	s.ticks++
	s.emit(EvtTickAdvanced, now, nil)
	return true
}

// ResetTimebase forgets the last timestamp so the next Tick only seeds it.
// Hosts call it after a pause to avoid integrating over the paused interval.
func (s *Sim) ResetTimebase() {
	s.started = false
	s.last = 0
}

// AppendTrailer hitches a new trailer at the end of the chain with zero relative angle.
func (s *Sim) AppendTrailer(geom vehicle.Geometry) error {
	if err := geom.Validate(); err != nil {
		return fmt.Errorf("trailer geometry: %w", err)
	}
	s.chain = append(s.chain, vehicle.TrailerState{Geometry: geom})
	s.emit(EvtTrailerHitched, s.last, TrailerHitched{Index: len(s.chain) - 1})
	return nil
}

// CurrentState returns a copy of the car and chain.
func (s *Sim) CurrentState() vehicle.Snapshot {
	return vehicle.NewSnapshot(s.geom, s.car, s.chain)
}

// Steering recomputes the turning radius and wheel angles from the current steer angle.
func (s *Sim) Steering() (Steering, error) {
	return SteeringFor(s.geom, s.car.Steer)
}

// SteeringFor computes Steering for an arbitrary geometry and steer angle.
func SteeringFor(geom vehicle.Geometry, phi float64) (Steering, error) {
	inner, outer, err := geometry.AckermannWheelAngles(geom.Wheelbase, geom.Gauge, phi)
	if err != nil {
		return Steering{}, err
	}
	left, right, err := geometry.FrontWheelAngles(geom.Wheelbase, geom.Gauge, phi)
	if err != nil {
		return Steering{}, err
	}
	return Steering{
		Radius: geometry.TurningRadius(geom.Wheelbase, phi),
		Inner:  inner,
		Outer:  outer,
		Left:   left,
		Right:  right,
	}, nil
}

// TickCount returns the number of ticks that advanced the state.
func (s *Sim) TickCount() uint64 {
	return s.ticks
}

// Limits returns the control limits.
func (s *Sim) Limits() control.Limits {
	return s.limits
}

// LastTimestamp returns the most recent timestamp passed to Tick and whether one exists.
func (s *Sim) LastTimestamp() (float64, bool) {
	return s.last, s.started
}

func (s *Sim) emit(t EventType, now float64, payload interface{}) {
	if s.Events == nil {
		return
	}
	s.Events.Emit(Event{Type: t, Tick: s.ticks, Time: now, Payload: payload})
}
