// Package replay records the inputs fed to a simulation and plays them back.
// A replay file is a plain sequence of little-endian binary frames.
package replay

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/1siamBot/towsim/engine/control"
	"github.com/1siamBot/towsim/engine/vehicle"
)

const flagReseed uint8 = 1

// maxHitches is the most trailers one frame can carry; the count is a single byte.
const maxHitches = 255

// Frame is one Sim.Tick call. Hitches are appended to the chain, in order, before the tick.
type Frame struct {
	Time    float64
	Cmd     control.Command
	Reseed  bool // reset the timebase before this tick
	Hitches []vehicle.Geometry
}

type frameHeader struct {
	Time     float64
	Steer    uint8
	Throttle uint8
	Flags    uint8
	Hitches  uint8
}

// Encode writes a frame to binary
func (f *Frame) Encode(w io.Writer) error {
	if len(f.Hitches) > maxHitches {
		return fmt.Errorf("replay: %d hitches in one frame, at most %d", len(f.Hitches), maxHitches)
	}
	var flags uint8
	if f.Reseed {
		flags |= flagReseed
	}
	head := frameHeader{f.Time, uint8(f.Cmd.Steer), uint8(f.Cmd.Throttle), flags, uint8(len(f.Hitches))}
	if err := binary.Write(w, binary.LittleEndian, head); err != nil {
		return err
	}
	for _, g := range f.Hitches {
		dims := [6]float64{g.Wheelbase, g.Gauge, g.BoxLength, g.BoxWidth, g.WheelWidth, g.WheelDiameter}
		if err := binary.Write(w, binary.LittleEndian, dims); err != nil {
			return err
		}
	}
	return nil
}

// Decode reads a frame from binary. It returns io.EOF only at a clean frame boundary.
func (f *Frame) Decode(r io.Reader) error {
	var head frameHeader
	if err := binary.Read(r, binary.LittleEndian, &head); err != nil {
		return err
	}
	if head.Steer > uint8(control.SteerRight) || head.Throttle > uint8(control.ThrottleReverse) {
		return fmt.Errorf("replay: invalid command steer=%d throttle=%d", head.Steer, head.Throttle)
	}
	*f = Frame{
		Time:   head.Time,
		Cmd:    control.Command{Steer: control.Steer(head.Steer), Throttle: control.Throttle(head.Throttle)},
		Reseed: head.Flags&flagReseed != 0,
	}
	for i := 0; i < int(head.Hitches); i++ {
		var dims [6]float64
		if err := binary.Read(r, binary.LittleEndian, &dims); err != nil {
			if err == io.EOF {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		f.Hitches = append(f.Hitches, vehicle.Geometry{
			Wheelbase:     dims[0],
			Gauge:         dims[1],
			BoxLength:     dims[2],
			BoxWidth:      dims[3],
			WheelWidth:    dims[4],
			WheelDiameter: dims[5],
		})
	}
	return nil
}
