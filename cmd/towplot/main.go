// towplot replays a recorded towsim session headlessly, charts the path of
// every unit and prints the final state as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/1siamBot/towsim/engine/config"
	"github.com/1siamBot/towsim/engine/core"
	"github.com/1siamBot/towsim/engine/plot"
	"github.com/1siamBot/towsim/engine/replay"
	"github.com/1siamBot/towsim/engine/vehicle"
)

type summary struct {
	Frames   int              `json:"frames"`
	Ticks    uint64           `json:"ticks"`
	Final    vehicle.Snapshot `json:"final"`
	Steering *core.Steering   `json:"steering,omitempty"`
	SteerErr string           `json:"steering_error,omitempty"`
}

func run(cfgPath, replayPath, pngPath string, sizeIn float64) (*summary, error) {
	cfg := config.DefaultConfig()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			return nil, err
		}
	}

	rec, err := replay.Load(replayPath)
	if err != nil {
		return nil, err
	}

	sim, err := core.NewSim(cfg.GetCar(), cfg.GetInitialState(), cfg.GetLimits())
	if err != nil {
		return nil, fmt.Errorf("creating simulation: %w", err)
	}

	// Initial trailers are part of the recording, all riding on its first frame.
	traj := &plot.Trajectory{}
	if err := replay.Run(sim, rec.Frames, func(fr replay.Frame, snap vehicle.Snapshot) {
		traj.Add(fr.Time, snap)
	}); err != nil {
		return nil, fmt.Errorf("replaying %s: %w", replayPath, err)
	}

	if pngPath != "" {
		if err := traj.SavePNG(pngPath, "towsim trajectory", sizeIn); err != nil {
			return nil, err
		}
		log.Printf("wrote %s (%d samples)", pngPath, traj.Len())
	}

	out := &summary{
		Frames: len(rec.Frames),
		Ticks:  sim.TickCount(),
		Final:  sim.CurrentState(),
	}
	if st, err := sim.Steering(); err != nil {
		out.SteerErr = err.Error()
	} else {
		out.Steering = &st
	}
	return out, nil
}

func main() {
	cfgPath := flag.String("config", "", "path to the JSON config the session was recorded with")
	replayPath := flag.String("replay", "", "replay file written by towsim -record")
	pngPath := flag.String("png", "trajectory.png", "output chart, empty to skip")
	sizeIn := flag.Float64("size", 8, "chart size in inches")
	flag.Parse()

	if *replayPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	out, err := run(*cfgPath, *replayPath, *pngPath, *sizeIn)
	if err != nil {
		log.Fatal(err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatal(err)
	}
}
