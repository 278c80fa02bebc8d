package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/1siamBot/towsim/engine/config"
	"github.com/1siamBot/towsim/engine/core"
	"github.com/1siamBot/towsim/engine/input"
	"github.com/1siamBot/towsim/engine/render"
	"github.com/1siamBot/towsim/engine/replay"
	"github.com/1siamBot/towsim/engine/timeutil"
	"github.com/1siamBot/towsim/engine/vehicle"
)

const (
	ScreenWidth  = 1280
	ScreenHeight = 720
)

// Game implements ebiten.Game interface
type Game struct {
	cfg      *config.Config
	sim      *core.Sim
	loop     *core.Loop
	input    *input.InputState
	renderer *render.Renderer
	eventBus *core.EventBus
	recorder *replay.Replay

	// last steering error, shown in the HUD instead of wheel angles
	steerErr error
}

func NewGame(cfg *config.Config, recordPath string) (*Game, error) {
	sim, err := core.NewSim(cfg.GetCar(), cfg.GetInitialState(), cfg.GetLimits())
	if err != nil {
		return nil, fmt.Errorf("creating simulation: %w", err)
	}

	g := &Game{
		cfg:      cfg,
		sim:      sim,
		loop:     core.NewLoop(sim, timeutil.RealClock{}, cfg.GetTickRate()),
		input:    input.NewInputState(),
		renderer: render.NewRenderer(ScreenWidth, ScreenHeight, cfg.GetPixelsPerUnit()),
		eventBus: core.NewEventBus(),
	}
	sim.Events = g.eventBus
	g.renderer.Camera.Follow = true

	g.eventBus.OnTrailerHitched(func(e core.Event, p core.TrailerHitched) {
		log.Printf("trailer %d hitched at t=%.3f", p.Index, e.Time)
	})
	g.eventBus.OnTickSkipped(false, func(e core.Event, p core.SkippedTick) {
		if p.Err != nil {
			log.Printf("tick skipped at t=%v: %v (dt=%v)", e.Time, p.Err, p.DT)
		}
	})

	if recordPath != "" {
		g.recorder, err = replay.NewRecorder(recordPath)
		if err != nil {
			return nil, fmt.Errorf("creating recorder: %w", err)
		}
		g.loop.OnTick = func(lt core.LoopTick) {
			if err := g.recorder.RecordTick(lt); err != nil {
				log.Printf("recording tick: %v", err)
			}
		}
	}

	for i := 0; i < cfg.GetInitialTrailers(); i++ {
		if err := g.hitch(); err != nil {
			return nil, err
		}
	}

	g.loop.Play()
	return g, nil
}

func (g *Game) hitch() error {
	tg := g.cfg.GetTrailer()
	if err := g.sim.AppendTrailer(tg); err != nil {
		return fmt.Errorf("hitching trailer: %w", err)
	}
	if g.recorder != nil {
		g.recorder.Hitched(tg)
	}
	return nil
}

func (g *Game) Update() error {
	g.input.Update()

	if g.input.QuitPressed {
		return ebiten.Termination
	}
	if g.input.PausePressed {
		g.loop.Toggle()
	}
	if g.input.HitchPressed {
		if err := g.hitch(); err != nil {
			log.Print(err)
		}
	}

	// Zoom with scroll wheel
	if _, scrollY := ebiten.Wheel(); scrollY != 0 {
		mx, my := ebiten.CursorPosition()
		g.renderer.Camera.ZoomAt(scrollY*0.1, float64(mx), float64(my))
	}

	// Simulation tick
	g.loop.Update(g.input.Command())
	g.eventBus.Dispatch()

	if g.renderer.Camera.Follow {
		car := g.sim.CurrentState().Car
		g.renderer.Camera.CenterOn(car.X, car.Y)
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	snap := g.sim.CurrentState()
	st, err := g.sim.Steering()
	g.steerErr = err

	g.renderer.Draw(screen, render.BuildScene(snap, st))
	g.drawHUD(screen, snap, st)
}

func (g *Game) drawHUD(screen *ebiten.Image, snap vehicle.Snapshot, st core.Steering) {
	car := snap.Car
	wheels := fmt.Sprintf("L %.1f° R %.1f°", deg(st.Left), deg(st.Right))
	if g.steerErr != nil {
		wheels = g.steerErr.Error()
	}
	state := "running"
	if g.loop.State == core.StatePaused {
		state = "paused"
	}

	info := fmt.Sprintf(
		"towsim | FPS: %.0f | Ticks: %d | %s\n"+
			"x %.2f  y %.2f  heading %.1f°  speed %.2f\n"+
			"steer %.1f°  radius %s  wheels %s\n"+
			"trailers: %d\n"+
			"[Arrows/WASD] Drive  [T] Hitch  [P] Pause  [Scroll] Zoom  [Esc] Quit",
		ebiten.ActualFPS(), g.sim.TickCount(), state,
		car.X, car.Y, deg(car.Theta), car.Speed,
		deg(car.Steer), st.Radius, wheels,
		len(snap.Trailers),
	)
	g.renderer.DrawHUD(screen, info)
}

func deg(rad float64) float64 {
	return rad * 180 / math.Pi
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

// Close flushes the replay file, if any
func (g *Game) Close() error {
	g.eventBus.Reset()
	if g.recorder == nil {
		return nil
	}
	return g.recorder.Close()
}

func main() {
	configPath := flag.String("config", "", "path to a JSON config file")
	recordPath := flag.String("record", "", "record inputs to this replay file")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatal(err)
		}
	}

	ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
	ebiten.SetWindowTitle("towsim")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(true)

	game, err := NewGame(cfg, *recordPath)
	if err != nil {
		log.Fatal(err)
	}

	runErr := ebiten.RunGame(game)
	if err := game.Close(); err != nil {
		log.Printf("closing replay: %v", err)
	}
	if runErr != nil && !errors.Is(runErr, ebiten.Termination) {
		log.Fatal(runErr)
	}
}
