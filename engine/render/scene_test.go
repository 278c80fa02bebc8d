package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/1siamBot/towsim/engine/core"
	"github.com/1siamBot/towsim/engine/vehicle"
)

func steering(t *testing.T, snap vehicle.Snapshot) core.Steering {
	t.Helper()
	st, err := core.SteeringFor(snap.Geometry, snap.Car.Steer)
	require.NoError(t, err)
	return st
}

func assertVec(t *testing.T, want, got r2.Vec) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9)
	assert.InDelta(t, want.Y, got.Y, 1e-9)
}

func TestBuildSceneStraightCar(t *testing.T) {
	snap := vehicle.NewSnapshot(vehicle.DefaultCarGeometry(), vehicle.CarState{}, nil)
	scene := BuildScene(snap, steering(t, snap))

	require.Len(t, scene.Units, 1)
	assert.True(t, scene.Straight)
	assertVec(t, r2.Vec{X: -guideHalfLength}, scene.GuideLine[0])
	assertVec(t, r2.Vec{X: guideHalfLength}, scene.GuideLine[1])

	// Box 4 long around a 3 wheelbase overhangs half a unit at each end.
	car := scene.Units[0]
	assertVec(t, r2.Vec{X: -0.5, Y: -1}, car.Body[0])
	assertVec(t, r2.Vec{X: 3.5, Y: 1}, car.Body[2])
	require.Len(t, car.Wheels, 4)
}

func TestBuildSceneTurnCircle(t *testing.T) {
	car := vehicle.CarState{Theta: math.Pi / 2, Steer: math.Atan(1)}
	snap := vehicle.NewSnapshot(vehicle.DefaultCarGeometry(), car, nil)
	scene := BuildScene(snap, steering(t, snap))

	require.False(t, scene.Straight)
	assert.InDelta(t, 3.0, scene.TurnRadius, 1e-9)
	// Facing +Y and turning left puts the centre on -X.
	assertVec(t, r2.Vec{X: -3}, scene.TurnCentre)
}

func TestBuildSceneFrontWheelsSteered(t *testing.T) {
	car := vehicle.CarState{Steer: 0.5}
	snap := vehicle.NewSnapshot(vehicle.DefaultCarGeometry(), car, nil)
	st := steering(t, snap)
	scene := BuildScene(snap, st)

	left := scene.Units[0].Wheels[2]
	edge := r2.Sub(left[1], left[0])
	assert.InDelta(t, st.Left, math.Atan2(edge.Y, edge.X), 1e-9)
	right := scene.Units[0].Wheels[3]
	edge = r2.Sub(right[1], right[0])
	assert.InDelta(t, st.Right, math.Atan2(edge.Y, edge.X), 1e-9)
}

func TestBuildSceneTrailers(t *testing.T) {
	g := vehicle.DefaultTrailerGeometry()
	chain := []vehicle.TrailerState{{Geometry: g}, {Geometry: g, Theta: math.Pi / 2}}
	snap := vehicle.NewSnapshot(vehicle.DefaultCarGeometry(), vehicle.CarState{}, chain)
	scene := BuildScene(snap, steering(t, snap))

	require.Len(t, scene.Units, 3)
	first := scene.Units[1]
	assertVec(t, r2.Vec{}, first.TowBar[0])
	assertVec(t, r2.Vec{X: -3}, first.TowBar[1])
	assert.Len(t, first.Wheels, 2)

	second := scene.Units[2]
	assertVec(t, r2.Vec{X: -3}, second.TowBar[0])
	assertVec(t, r2.Vec{X: -3, Y: -3}, second.Axle)
}
