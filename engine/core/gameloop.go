package core

import (
	"math"
	"time"

	"github.com/1siamBot/towsim/engine/control"
	"github.com/1siamBot/towsim/engine/timeutil"
)

// LoopState represents the run state of the loop
type LoopState uint8

const (
	StatePaused LoopState = iota
	StateRunning
)

// maxFrameTime caps a single frame's elapsed time to avoid a spiral of death
const maxFrameTime = 0.25

// Loop feeds timestamps from a clock into a Sim, once per host frame.
//
// With TickRate == 0 every Update ticks the sim with the clock reading, like an
// animation-frame callback. With TickRate > 0 it runs fixed steps of 1/TickRate
// seconds out of an accumulator and feeds the sim synthetic timestamps.
type Loop struct {
	Sim      *Sim
	Clock    timeutil.Clock
	State    LoopState
	TickRate float64 // fixed ticks per second, 0 for variable step

	// OnTick, when set, sees every tick just before it reaches the sim.
	OnTick func(LoopTick)

	start       time.Time
	lastTime    time.Time
	accumulator float64
	simTime     float64
	reseed      bool
}

// LoopTick describes one call into Sim.Tick. Reseed marks the first tick after
// the timebase was reset by Play.
type LoopTick struct {
	Time   float64
	Cmd    control.Command
	Reseed bool
}

// NewLoop creates a paused loop
func NewLoop(sim *Sim, clock timeutil.Clock, tickRate float64) *Loop {
	now := clock.Now()
	return &Loop{
		Sim:      sim,
		Clock:    clock,
		TickRate: tickRate,
		start:    now,
		lastTime: now,
	}
}

// Update should be called every render frame with the command held this frame.
// Returns the interpolation alpha for smooth rendering (always 1 for variable step).
func (l *Loop) Update(cmd control.Command) float64 {
	elapsed := l.Clock.Since(l.lastTime)
	l.lastTime = l.lastTime.Add(elapsed)
	frameTime := elapsed.Seconds()

	if l.State != StateRunning {
		return 0
	}

	if l.TickRate <= 0 {
		l.tick(l.lastTime.Sub(l.start).Seconds(), cmd)
		return 1
	}

	// A clock stepped backwards adds no time to the accumulator.
	frameTime = math.Max(0, math.Min(frameTime, maxFrameTime))

	dt := 1.0 / l.TickRate
	l.accumulator += frameTime

	for l.accumulator >= dt {
		l.simTime += dt
		l.tick(l.simTime, cmd)
		l.accumulator -= dt
	}

	return l.accumulator / dt
}

func (l *Loop) tick(now float64, cmd control.Command) {
	if l.OnTick != nil {
		l.OnTick(LoopTick{Time: now, Cmd: cmd, Reseed: l.reseed})
	}
	l.reseed = false
	l.Sim.Tick(now, cmd)
}

// Play starts or resumes the loop. The sim's timebase is reseeded so the paused
// interval is not integrated.
func (l *Loop) Play() {
	if l.State == StateRunning {
		return
	}
	l.State = StateRunning
	l.lastTime = l.Clock.Now()
	l.accumulator = 0
	l.Sim.ResetTimebase()
	l.reseed = true
	if l.TickRate > 0 {
		l.tick(l.simTime, control.Command{})
	}
}

// Pause pauses the loop
func (l *Loop) Pause() {
	l.State = StatePaused
}

// Toggle switches between running and paused
func (l *Loop) Toggle() {
	if l.State == StateRunning {
		l.Pause()
		return
	}
	l.Play()
}

// SimTime returns the last synthetic timestamp of a fixed-step loop
func (l *Loop) SimTime() float64 {
	return l.simTime
}
