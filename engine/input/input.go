package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/1siamBot/towsim/engine/control"
)

// Keys held this frame, after merging arrow keys with their WASD aliases
type Keys struct {
	Left, Right, Up, Down bool
}

// Command maps held keys to a driver command. Opposite steer keys cancel;
// forward wins over reverse.
func (k Keys) Command() control.Command {
	var cmd control.Command
	switch {
	case k.Left && !k.Right:
		cmd.Steer = control.SteerLeft
	case k.Right && !k.Left:
		cmd.Steer = control.SteerRight
	}
	switch {
	case k.Up:
		cmd.Throttle = control.ThrottleForward
	case k.Down:
		cmd.Throttle = control.ThrottleReverse
	}
	return cmd
}

// Any reports whether any driving key is held
func (k Keys) Any() bool {
	return k.Left || k.Right || k.Up || k.Down
}

// InputState tracks keyboard state per frame
type InputState struct {
	Keys Keys

	// Edge-triggered actions
	HitchPressed bool
	PausePressed bool
	QuitPressed  bool

	// Keyboard
	KeysPressed map[ebiten.Key]bool
}

func NewInputState() *InputState {
	return &InputState{
		KeysPressed: make(map[ebiten.Key]bool),
	}
}

var watchedKeys = []ebiten.Key{
	ebiten.KeyW, ebiten.KeyA, ebiten.KeyS, ebiten.KeyD,
	ebiten.KeyUp, ebiten.KeyDown, ebiten.KeyLeft, ebiten.KeyRight,
}

// Update should be called every frame
func (s *InputState) Update() {
	for _, k := range watchedKeys {
		s.KeysPressed[k] = ebiten.IsKeyPressed(k)
	}
	s.Keys = Keys{
		Left:  s.KeysPressed[ebiten.KeyLeft] || s.KeysPressed[ebiten.KeyA],
		Right: s.KeysPressed[ebiten.KeyRight] || s.KeysPressed[ebiten.KeyD],
		Up:    s.KeysPressed[ebiten.KeyUp] || s.KeysPressed[ebiten.KeyW],
		Down:  s.KeysPressed[ebiten.KeyDown] || s.KeysPressed[ebiten.KeyS],
	}

	s.HitchPressed = inpututil.IsKeyJustPressed(ebiten.KeyT)
	s.PausePressed = inpututil.IsKeyJustPressed(ebiten.KeyP) || inpututil.IsKeyJustPressed(ebiten.KeySpace)
	s.QuitPressed = inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}

// Command returns the driver command for this frame
func (s *InputState) Command() control.Command {
	return s.Keys.Command()
}
