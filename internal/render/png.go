package render

import (
	"fmt"
	"io"
	"os"

	"github.com/gogpu/gg"

	"sca-tree/internal/core"
	"sca-tree/pkg/sca"
)

// Options control a headless render.
type Options struct {
	Width  int
	Height int
	// Camera Yaw and Pitch are used; Target and Zoom are fitted to the
	// snapshot unless Fixed is set.
	Camera Camera
	Fixed  bool
	Margin float64

	// Power and Scale taper the branches, see BranchRadius.
	Power float64
	Scale float64

	Attractors bool
	KillRadius bool
}

// DefaultOptions renders an 800x800 view with attractors.
func DefaultOptions() Options {
	return Options{
		Width:      800,
		Height:     800,
		Camera:     Camera{Pitch: 0.15},
		Margin:     24,
		Power:      0.5,
		Scale:      0.01,
		Attractors: true,
	}
}

// Draw paints snap into a new gg context.
func Draw(snap core.Snapshot, opts Options) (*gg.Context, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("render: image size must be positive, got %dx%d", opts.Width, opts.Height)
	}
	cam := opts.Camera
	cam.Width, cam.Height = opts.Width, opts.Height
	if !opts.Fixed {
		cam = cam.FitSnapshot(snap, opts.Margin)
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.ClearWithColor(gg.FromColor(Background))

	if opts.Attractors {
		dot := 2.0
		for _, a := range snap.Attractors {
			x, y, _ := cam.Project(a.Pos)
			dc.SetColor(StateColor(a.State))
			dc.DrawCircle(x, y, dot)
			if err := dc.Fill(); err != nil {
				return nil, err
			}
		}
	}
	if opts.KillRadius && snap.KillRadius > 0 {
		dc.SetColor(KillRing)
		dc.SetLineWidth(1)
		r := snap.KillRadius * cam.Zoom
		for _, a := range snap.Attractors {
			if a.State == sca.Active {
				x, y, _ := cam.Project(a.Pos)
				dc.DrawCircle(x, y, r)
				if err := dc.Stroke(); err != nil {
					return nil, err
				}
			}
		}
	}

	dc.SetLineCap(gg.LineCapRound)
	maxGen := snap.Stats.MaxGeneration
	for _, s := range Segments(snap.Nodes, cam, opts.Power, opts.Scale, 1) {
		dc.SetColor(generationTint(snap.Nodes[s.Node].Generation, maxGen))
		dc.SetLineWidth(s.Width)
		dc.DrawLine(s.X0, s.Y0, s.X1, s.Y1)
		if err := dc.Stroke(); err != nil {
			return nil, err
		}
	}
	return dc, nil
}

// EncodePNG renders snap as PNG to w.
func EncodePNG(w io.Writer, snap core.Snapshot, opts Options) error {
	dc, err := Draw(snap, opts)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.EncodePNG(w)
}

// SavePNG renders snap to a PNG file.
func SavePNG(path string, snap core.Snapshot, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodePNG(f, snap, opts); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	return f.Close()
}
