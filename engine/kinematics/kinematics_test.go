package kinematics

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1siamBot/towsim/engine/vehicle"
)

func carGeom() vehicle.Geometry {
	return vehicle.Geometry{Wheelbase: 3, Gauge: 1.5}
}

func TestCheckTimestep(t *testing.T) {
	assert.NoError(t, CheckTimestep(0))
	assert.NoError(t, CheckTimestep(0.016))
	for _, dt := range []float64{-0.001, math.NaN(), math.Inf(1), math.Inf(-1)} {
		assert.ErrorIs(t, CheckTimestep(dt), ErrInvalidTimestep, "dt=%g", dt)
	}
}

func TestStepStraightScenario(t *testing.T) {
	car := vehicle.CarState{Speed: 1}
	Step(&car, carGeom(), nil, 1)
	assert.InDelta(t, 1.0, car.X, 1e-12)
	assert.InDelta(t, 0.0, car.Y, 1e-12)
	assert.Zero(t, car.Theta)
}

func TestStepTurningScenario(t *testing.T) {
	car := vehicle.CarState{Speed: 1, Steer: math.Atan(3.0 / 3.0)}
	Step(&car, carGeom(), nil, 1)
	assert.InDelta(t, 1.0/3.0, car.Theta, 1e-12)
	assert.InDelta(t, 1.0, car.X, 1e-12, "position uses the pre-update heading")
}

func TestStraightLineInvariance(t *testing.T) {
	for _, theta := range []float64{0, 0.3, math.Pi / 2, -2.5} {
		for _, dt := range []float64{0, 0.001, 0.5, 3} {
			car := vehicle.CarState{X: 4, Y: -2, Theta: theta, Speed: -2.5}
			Step(&car, carGeom(), nil, dt)
			assert.Equal(t, theta, car.Theta)
			assert.InDelta(t, 4+dt*-2.5*math.Cos(theta), car.X, 1e-12)
			assert.InDelta(t, -2+dt*-2.5*math.Sin(theta), car.Y, 1e-12)
		}
	}
}

func TestZeroDtIsNoop(t *testing.T) {
	car := vehicle.CarState{X: 1, Y: 2, Theta: 0.3, Speed: 2.5, Steer: 0.8}
	chain := []vehicle.TrailerState{{Geometry: carGeom(), Theta: 0.4}}
	wantCar := car
	wantChain := append([]vehicle.TrailerState(nil), chain...)

	Step(&car, carGeom(), chain, 0)
	assert.Empty(t, cmp.Diff(wantCar, car))
	assert.Empty(t, cmp.Diff(wantChain, chain))
}

func TestZeroLengthChainMatchesCarOnly(t *testing.T) {
	a := vehicle.CarState{X: 1, Y: 1, Theta: 0.2, Speed: 2.5, Steer: -0.6}
	b := a
	Step(&a, carGeom(), nil, 0.05)
	Step(&b, carGeom(), []vehicle.TrailerState{}, 0.05)
	c := vehicle.CarState{X: 1, Y: 1, Theta: 0.2, Speed: 2.5, Steer: -0.6}
	StepCar(&c, carGeom(), 0.05)
	assert.Empty(t, cmp.Diff(a, b))
	assert.Empty(t, cmp.Diff(a, c))
}

func TestSingleTrailerPropagation(t *testing.T) {
	car := vehicle.CarState{Speed: 1, Steer: math.Pi / 4}
	chain := []vehicle.TrailerState{{Geometry: vehicle.Geometry{Wheelbase: 3, Gauge: 1.5}}}
	Step(&car, carGeom(), chain, 1)

	dtheta := 1.0 / 3.0 * math.Tan(math.Pi/4)
	// raw = dt*s/L0 * 1 * sin(-0) = 0, so the trailer lags the car by the full car increment.
	want := 0.0 - dtheta
	require.NotZero(t, chain[0].Theta)
	assert.InDelta(t, want, chain[0].Theta, 1e-12)
}

func TestChainPropagationOrder(t *testing.T) {
	const (
		dt = 0.1
		s  = 1.5
	)
	car := vehicle.CarState{Speed: s, Steer: 0.3}
	chain := []vehicle.TrailerState{
		{Geometry: vehicle.Geometry{Wheelbase: 2, Gauge: 1}, Theta: 0.2},
		{Geometry: vehicle.Geometry{Wheelbase: 4, Gauge: 1}, Theta: -0.1},
		{Geometry: vehicle.Geometry{Wheelbase: 1, Gauge: 1}, Theta: 0.05},
	}
	Step(&car, carGeom(), chain, dt)

	cum := dt * s / 3 * math.Tan(0.3)
	raw0 := dt * s / 2 * 1 * math.Sin(-0.2)
	inc0 := raw0 - cum
	cum += inc0
	raw1 := dt * s / 4 * math.Cos(-0.2) * math.Sin(0.1)
	inc1 := raw1 - cum
	cum += inc1
	raw2 := dt * s / 1 * math.Cos(-0.2) * math.Cos(0.1) * math.Sin(-0.05)
	inc2 := raw2 - cum

	assert.InDelta(t, 0.2+inc0, chain[0].Theta, 1e-12)
	assert.InDelta(t, -0.1+inc1, chain[1].Theta, 1e-12)
	assert.InDelta(t, 0.05+inc2, chain[2].Theta, 1e-12)
}

func TestTrailerStraightensBehindStraightCar(t *testing.T) {
	car := vehicle.CarState{Speed: 2.5}
	chain := []vehicle.TrailerState{{Geometry: vehicle.DefaultTrailerGeometry(), Theta: 0.5}}
	for i := 0; i < 2000; i++ {
		Step(&car, carGeom(), chain, 0.01)
	}
	assert.InDelta(t, 0, chain[0].Theta, 1e-3)
	assert.Zero(t, car.Theta)
}
