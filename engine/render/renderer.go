package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	colorBackground = color.RGBA{20, 20, 30, 255}
	colorGrid       = color.RGBA{50, 50, 65, 255}
	colorAxis       = color.RGBA{80, 80, 100, 255}
	colorBody       = color.RGBA{230, 230, 240, 255}
	colorTrailer    = color.RGBA{160, 200, 255, 255}
	colorWheel      = color.RGBA{255, 255, 255, 255}
	colorTurn       = color.RGBA{255, 60, 60, 200}
	colorHUD        = color.RGBA{220, 220, 220, 255}
)

// Renderer draws a Scene with ebiten vector primitives
type Renderer struct {
	Camera   *Camera
	ShowGrid bool
	hudFace  text.Face
}

// NewRenderer creates a renderer whose camera shows scale pixels per world unit
func NewRenderer(screenW, screenH int, scale float64) *Renderer {
	return &Renderer{
		Camera:   NewCamera(screenW, screenH, scale),
		ShowGrid: true,
		hudFace:  text.NewGoXFace(basicfont.Face7x13),
	}
}

func (r *Renderer) toScreen(p r2.Vec) (float32, float32) {
	x, y := r.Camera.WorldToScreen(p.X, p.Y)
	return float32(x), float32(y)
}

func (r *Renderer) line(dst *ebiten.Image, a, b r2.Vec, width float32, clr color.Color) {
	x0, y0 := r.toScreen(a)
	x1, y1 := r.toScreen(b)
	vector.StrokeLine(dst, x0, y0, x1, y1, width, clr, true)
}

func (r *Renderer) quad(dst *ebiten.Image, q Quad, width float32, clr color.Color) {
	for i := range q {
		r.line(dst, q[i], q[(i+1)%len(q)], width, clr)
	}
}

// Draw renders the scene: grid, turning guide, then units from the back of the chain forward
func (r *Renderer) Draw(screen *ebiten.Image, scene Scene) {
	screen.Fill(colorBackground)
	if r.ShowGrid {
		r.DrawGrid(screen)
	}

	if scene.Straight {
		r.line(screen, scene.GuideLine[0], scene.GuideLine[1], 1, colorTurn)
	} else {
		cx, cy := r.toScreen(scene.TurnCentre)
		radius := float32(scene.TurnRadius * r.Camera.PixelsPerUnit())
		vector.StrokeCircle(screen, cx, cy, radius, 1, colorTurn, true)
	}

	for i := len(scene.Units) - 1; i >= 0; i-- {
		u := scene.Units[i]
		clr := colorTrailer
		if i == 0 {
			clr = colorBody
		}
		r.quad(screen, u.Body, 1.5, clr)
		for _, w := range u.Wheels {
			r.quad(screen, w, 1, colorWheel)
		}
		if u.TowBar[0] != u.TowBar[1] {
			r.line(screen, u.TowBar[0], u.TowBar[1], 1.5, clr)
		}
		ax, ay := r.toScreen(u.Axle)
		vector.DrawFilledCircle(screen, ax, ay, 2, clr, true)
	}
}

// DrawGrid draws a one-unit grid over the visible area, with the axes highlighted
func (r *Renderer) DrawGrid(screen *ebiten.Image) {
	minX, minY, maxX, maxY := r.Camera.VisibleRange()
	step := 1.0
	// Keep at least 8 pixels between lines when zoomed out.
	for step*r.Camera.PixelsPerUnit() < 8 {
		step *= 5
	}
	for x := math.Floor(minX/step) * step; x <= maxX; x += step {
		clr := colorGrid
		if x == 0 {
			clr = colorAxis
		}
		r.line(screen, r2.Vec{X: x, Y: minY}, r2.Vec{X: x, Y: maxY}, 1, clr)
	}
	for y := math.Floor(minY/step) * step; y <= maxY; y += step {
		clr := colorGrid
		if y == 0 {
			clr = colorAxis
		}
		r.line(screen, r2.Vec{X: minX, Y: y}, r2.Vec{X: maxX, Y: y}, 1, clr)
	}
}

// DrawHUD prints multi-line status text in the top-left corner
func (r *Renderer) DrawHUD(screen *ebiten.Image, msg string) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(8, 8)
	op.ColorScale.ScaleWithColor(colorHUD)
	op.LineSpacing = 16
	text.Draw(screen, msg, r.hudFace, op)
}
