package replay

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1siamBot/towsim/engine/control"
	"github.com/1siamBot/towsim/engine/core"
	"github.com/1siamBot/towsim/engine/timeutil"
	"github.com/1siamBot/towsim/engine/vehicle"
)

func newSim(t *testing.T) *core.Sim {
	t.Helper()
	s, err := core.NewSim(vehicle.DefaultCarGeometry(), vehicle.CarState{}, control.DefaultLimits())
	require.NoError(t, err)
	return s
}

func TestFrameDecodeTruncated(t *testing.T) {
	g := vehicle.DefaultTrailerGeometry()
	fr := Frame{Time: 1.25, Cmd: control.Command{Steer: control.SteerRight}, Hitches: []vehicle.Geometry{g, g}}
	var buf bytes.Buffer
	require.NoError(t, fr.Encode(&buf))

	data := buf.Bytes()
	var got Frame
	assert.ErrorIs(t, got.Decode(bytes.NewReader(data[:5])), io.ErrUnexpectedEOF)
	// Header is 12 bytes; cut inside the first and the second hitch record.
	assert.ErrorIs(t, got.Decode(bytes.NewReader(data[:14])), io.ErrUnexpectedEOF)
	assert.ErrorIs(t, got.Decode(bytes.NewReader(data[:12+48+8])), io.ErrUnexpectedEOF)

	require.NoError(t, got.Decode(bytes.NewReader(data)))
	assert.Empty(t, cmp.Diff(fr, got))
	assert.ErrorIs(t, got.Decode(bytes.NewReader(nil)), io.EOF)

	_, err := Read(bytes.NewReader(data[:len(data)-3]))
	assert.Error(t, err)
}

func TestFrameDecodeRejectsUnknownCommand(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&Frame{Time: 1}).Encode(&buf))
	data := buf.Bytes()
	data[8] = 9 // steer byte follows the float64 time
	var fr Frame
	assert.Error(t, fr.Decode(bytes.NewReader(data)))
}

func TestRecordedSessionReplaysExactly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.replay")
	rec, err := NewRecorder(path)
	require.NoError(t, err)

	clock := timeutil.NewMockClock(time.Unix(0, 0))
	live := newSim(t)
	loop := core.NewLoop(live, clock, 0)
	loop.OnTick = func(lt core.LoopTick) { require.NoError(t, rec.RecordTick(lt)) }
	loop.Play()

	cmds := []control.Command{
		{Throttle: control.ThrottleForward},
		{Steer: control.SteerLeft, Throttle: control.ThrottleForward},
		{Steer: control.SteerLeft, Throttle: control.ThrottleForward},
		{Throttle: control.ThrottleReverse},
		{Steer: control.SteerRight},
	}
	for i := 0; i < 60; i++ {
		if i == 10 || i == 30 {
			g := vehicle.DefaultTrailerGeometry()
			require.NoError(t, live.AppendTrailer(g))
			rec.Hitched(g)
		}
		if i == 40 {
			loop.Pause()
			clock.Advance(5 * time.Second)
			loop.Play()
		}
		loop.Update(cmds[i%len(cmds)])
		clock.Advance(16 * time.Millisecond)
	}
	require.NoError(t, rec.Close())

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded.Frames, 60)
	assert.Empty(t, cmp.Diff(rec.Frames, loaded.Frames))

	replayed := newSim(t)
	var ticks int
	require.NoError(t, Run(replayed, loaded.Frames, func(Frame, vehicle.Snapshot) { ticks++ }))
	assert.Equal(t, 60, ticks)
	assert.Len(t, replayed.CurrentState().Trailers, 2)
	assert.Empty(t, cmp.Diff(live.CurrentState(), replayed.CurrentState()))
	assert.Equal(t, live.TickCount(), replayed.TickCount())
}

func TestRunRejectsBadHitch(t *testing.T) {
	frames := []Frame{{Time: 0}, {Time: 1, Hitches: []vehicle.Geometry{{}}}}
	err := Run(newSim(t), frames, nil)
	assert.Error(t, err)
}

func TestFrameEncodeRejectsTooManyHitches(t *testing.T) {
	fr := Frame{Hitches: make([]vehicle.Geometry, maxHitches+1)}
	assert.Error(t, fr.Encode(io.Discard))
}

func TestHitchesBetweenTicksAllReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hitches.replay")
	rec, err := NewRecorder(path)
	require.NoError(t, err)

	live := newSim(t)
	short := vehicle.DefaultTrailerGeometry()
	short.Wheelbase = 1.5
	geoms := []vehicle.Geometry{vehicle.DefaultTrailerGeometry(), short, vehicle.DefaultTrailerGeometry()}
	for _, g := range geoms {
		require.NoError(t, live.AppendTrailer(g))
		rec.Hitched(g)
	}

	fwdLeft := control.Command{Steer: control.SteerLeft, Throttle: control.ThrottleForward}
	for i := 0; i < 20; i++ {
		lt := core.LoopTick{Time: float64(i) * 0.05, Cmd: fwdLeft, Reseed: i == 0}
		if lt.Reseed {
			live.ResetTimebase()
		}
		require.NoError(t, rec.RecordTick(lt))
		live.Tick(lt.Time, lt.Cmd)
	}
	require.NoError(t, rec.Close())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(geoms, loaded.Frames[0].Hitches))
	for _, fr := range loaded.Frames[1:] {
		assert.Empty(t, fr.Hitches)
	}

	replayed := newSim(t)
	require.NoError(t, Run(replayed, loaded.Frames, nil))
	require.Len(t, replayed.CurrentState().Trailers, 3)
	assert.Empty(t, cmp.Diff(live.CurrentState(), replayed.CurrentState()))
}
