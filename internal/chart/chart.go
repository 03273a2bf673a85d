// Package chart renders strike sweeps as a grid of price-vs-strike plots.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"

	apperrors "barrier-pricer/internal/errors"
	"barrier-pricer/internal/models"
)

// Suptitle is the figure heading drawn above the grid.
const Suptitle = "Barrier Option Prices on different Strike levels"

const titleSpace = 28 // points reserved above the grid

// Options controls the figure layout.
type Options struct {
	Width   vg.Length
	Height  vg.Length
	Columns int
	Title   string
}

// DefaultOptions returns a landscape letter-sized 2-column figure.
func DefaultOptions() Options {
	return Options{
		Width:   11 * vg.Inch,
		Height:  8.5 * vg.Inch,
		Columns: 2,
		Title:   Suptitle,
	}
}

// PanelPlot builds the price-vs-strike plot of one panel.
func PanelPlot(panel models.SweepPanel, idx int) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = panel.Title
	p.X.Label.Text = "K"
	p.Y.Label.Text = panel.Option.Label() + " Price"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(panel.Points))
	for i, pt := range panel.Points {
		pts[i].X = pt.Strike
		pts[i].Y = pt.Price
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("panel %q: %w", panel.Title, err)
	}
	line.Color = plotutil.Color(idx)
	line.Width = vg.Points(1.5)
	p.Add(line)

	return p, nil
}

// Render draws every panel of run on a grid and writes it to w in the given
// format ("png", "jpg" or "svg").
func Render(w io.Writer, run *models.SweepRun, format string, opts Options) error {
	if len(run.Panels) == 0 {
		return apperrors.NewValidationError("panels", 0, "nothing to render")
	}
	if opts.Columns <= 0 {
		opts.Columns = 2
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return apperrors.NewValidationError("size", fmt.Sprintf("%vx%v", opts.Width, opts.Height), "must be positive")
	}

	var (
		canvas vg.CanvasWriterTo
		err    error
	)
	switch strings.ToLower(format) {
	case "png":
		canvas = vgimg.PngCanvas{Canvas: vgimg.New(opts.Width, opts.Height)}
	case "jpg", "jpeg":
		canvas = vgimg.JpegCanvas{Canvas: vgimg.New(opts.Width, opts.Height)}
	case "svg":
		canvas = vgsvg.New(opts.Width, opts.Height)
	default:
		return fmt.Errorf("unsupported chart format %q (want png, jpg or svg)", format)
	}

	if err = drawGrid(draw.New(canvas), run.Panels, opts); err != nil {
		return err
	}
	if _, err = canvas.WriteTo(w); err != nil {
		return fmt.Errorf("writing chart: %w", err)
	}
	return nil
}

func drawGrid(dc draw.Canvas, panels []models.SweepPanel, opts Options) error {
	rows := (len(panels) + opts.Columns - 1) / opts.Columns
	tiles := draw.Tiles{
		Rows:      rows,
		Cols:      opts.Columns,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Points(titleSpace),
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 4,
	}

	for i, panel := range panels {
		p, err := PanelPlot(panel, i)
		if err != nil {
			return err
		}
		p.Draw(tiles.At(dc, i%opts.Columns, i/opts.Columns))
	}

	if opts.Title != "" {
		sty := text.Style{
			Color:   color.Black,
			Font:    font.From(plot.DefaultFont, 16),
			XAlign:  text.XCenter,
			YAlign:  text.YTop,
			Handler: plot.DefaultTextHandler,
		}
		dc.FillText(sty, vg.Point{X: dc.Center().X, Y: dc.Max.Y - vg.Points(6)}, opts.Title)
	}
	return nil
}

// Save renders run to path, choosing the format from the file extension.
func Save(path string, run *models.SweepRun, opts Options) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		return fmt.Errorf("chart path %q has no extension", path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating chart directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart file: %w", err)
	}
	if err := Render(f, run, format, opts); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
