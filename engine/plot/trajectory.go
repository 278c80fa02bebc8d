// Package plot turns recorded simulation runs into trajectory charts.
package plot

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/1siamBot/towsim/engine/vehicle"
)

// Trajectory accumulates the axle path of every unit over a run. Trailers
// hitched later start their path at the sample where they first appear.
type Trajectory struct {
	Paths []plotter.XYs // index 0 is the car
	Times []float64
}

// Add records the world axle positions of a snapshot taken at time t
func (tr *Trajectory) Add(t float64, snap vehicle.Snapshot) {
	poses := vehicle.WorldPoses(snap.Car, snap.Trailers)
	for len(tr.Paths) < len(poses) {
		tr.Paths = append(tr.Paths, nil)
	}
	for i, p := range poses {
		tr.Paths[i] = append(tr.Paths[i], plotter.XY{X: p.Axle.X, Y: p.Axle.Y})
	}
	tr.Times = append(tr.Times, t)
}

// Len returns the number of samples
func (tr *Trajectory) Len() int {
	return len(tr.Times)
}

var palette = []color.RGBA{
	{200, 30, 30, 255},
	{30, 90, 200, 255},
	{30, 150, 60, 255},
	{200, 120, 0, 255},
	{130, 40, 170, 255},
}

// Plot builds an equal-aspect XY chart of every unit's path
func (tr *Trajectory) Plot(title string) (*plot.Plot, error) {
	if tr.Len() == 0 {
		return nil, fmt.Errorf("trajectory is empty")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid())

	for i, path := range tr.Paths {
		if len(path) == 0 {
			continue
		}
		line, err := plotter.NewLine(path)
		if err != nil {
			return nil, fmt.Errorf("unit %d: %w", i, err)
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = palette[i%len(palette)]
		if i > 0 {
			line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		}
		p.Add(line)
		name := "car"
		if i > 0 {
			name = fmt.Sprintf("trailer %d", i-1)
		}
		p.Legend.Add(name, line)
	}
	equalAspect(p)
	return p, nil
}

// equalAspect widens the shorter axis so one unit is the same length on both
func equalAspect(p *plot.Plot) {
	dx := p.X.Max - p.X.Min
	dy := p.Y.Max - p.Y.Min
	if dx > dy {
		mid := (p.Y.Max + p.Y.Min) / 2
		p.Y.Min, p.Y.Max = mid-dx/2, mid+dx/2
	} else {
		mid := (p.X.Max + p.X.Min) / 2
		p.X.Min, p.X.Max = mid-dy/2, mid+dy/2
	}
}

// WritePNG renders the chart as a square PNG of sizeIn inches
func (tr *Trajectory) WritePNG(w io.Writer, title string, sizeIn float64) error {
	p, err := tr.Plot(title)
	if err != nil {
		return err
	}
	size := vg.Length(sizeIn) * vg.Inch
	wt, err := p.WriterTo(size, size, "png")
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return nil
}

// SavePNG writes the chart to filename, creating its directory
func (tr *Trajectory) SavePNG(filename, title string, sizeIn float64) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	if err := tr.WritePNG(f, title, sizeIn); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
