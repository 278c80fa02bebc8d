package replay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/1siamBot/towsim/engine/core"
	"github.com/1siamBot/towsim/engine/vehicle"
)

// Replay records and plays back simulation input frames
type Replay struct {
	Frames  []Frame
	file    *os.File
	writer  *bufio.Writer
	hitches []vehicle.Geometry // appended since the last recorded tick
}

// NewRecorder creates a replay file for recording
func NewRecorder(path string) (*Replay, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &Replay{
		file:   f,
		writer: bufio.NewWriter(f),
	}, nil
}

// Record writes a frame to the replay file
func (r *Replay) Record(fr Frame) error {
	r.Frames = append(r.Frames, fr)
	if r.writer == nil {
		return nil
	}
	return fr.Encode(r.writer)
}

// Hitched notes a trailer appended outside a tick. Pending trailers ride, in
// hitch order, on the next recorded frame.
func (r *Replay) Hitched(g vehicle.Geometry) {
	r.hitches = append(r.hitches, g)
}

// RecordTick records a loop tick together with any pending hitches. Use it as core.Loop.OnTick.
func (r *Replay) RecordTick(lt core.LoopTick) error {
	fr := Frame{Time: lt.Time, Cmd: lt.Cmd, Reseed: lt.Reseed, Hitches: r.hitches}
	r.hitches = nil
	return r.Record(fr)
}

// Close flushes and closes the replay file
func (r *Replay) Close() error {
	var err error
	if r.writer != nil {
		err = r.writer.Flush()
	}
	if r.file != nil {
		if cerr := r.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Load loads a replay file
func Load(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read decodes frames until EOF
func Read(rd io.Reader) (*Replay, error) {
	replay := &Replay{}
	reader := bufio.NewReader(rd)
	for {
		var fr Frame
		if err := fr.Decode(reader); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("frame %d: %w", len(replay.Frames), err)
		}
		replay.Frames = append(replay.Frames, fr)
	}
	return replay, nil
}

// Run feeds every frame into sim in order, calling observe after each tick.
func Run(sim *core.Sim, frames []Frame, observe func(Frame, vehicle.Snapshot)) error {
	for i, fr := range frames {
		for _, g := range fr.Hitches {
			if err := sim.AppendTrailer(g); err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
		}
		if fr.Reseed {
			sim.ResetTimebase()
		}
		sim.Tick(fr.Time, fr.Cmd)
		if observe != nil {
			observe(fr, sim.CurrentState())
		}
	}
	return nil
}
