package chart

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barrier-pricer/internal/models"
)

func sampleRun() *models.SweepRun {
	panel := func(title string, opt models.OptionType, bt models.BarrierType, barrier float64) models.SweepPanel {
		p := models.SweepPanel{Title: title, Option: opt, BarrierType: bt, Barrier: barrier}
		for k := 75.0; k <= 125; k += 5 {
			price := (k - 70) / 5
			if opt == models.OptionTypeCall {
				price = (130 - k) / 5
			}
			p.Points = append(p.Points, models.SweepPoint{Strike: k, Price: price})
		}
		return p
	}
	return &models.SweepRun{Panels: []models.SweepPanel{
		panel("Put Option - down and in barrier (barrier = 90)", models.OptionTypePut, models.BarrierTypeIn, 90),
		panel("Put Option - down and out barrier (barrier = 90)", models.OptionTypePut, models.BarrierTypeOut, 90),
		panel("Call Option - up and in barrier (barrier = 110)", models.OptionTypeCall, models.BarrierTypeIn, 110),
		panel("Call Option - up and out barrier (barrier = 110)", models.OptionTypeCall, models.BarrierTypeOut, 110),
	}}
}

func TestPanelPlotLabels(t *testing.T) {
	run := sampleRun()

	p, err := PanelPlot(run.Panels[0], 0)
	require.NoError(t, err)
	assert.Equal(t, "K", p.X.Label.Text)
	assert.Equal(t, "Put Price", p.Y.Label.Text)
	assert.Equal(t, run.Panels[0].Title, p.Title.Text)

	p, err = PanelPlot(run.Panels[3], 3)
	require.NoError(t, err)
	assert.Equal(t, "Call Price", p.Y.Label.Text)
}

func TestRenderPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleRun(), "png", DefaultOptions()))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")), "expected PNG signature")
}

func TestRenderSVGContainsTitles(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleRun(), "svg", DefaultOptions()))

	out := buf.String()
	assert.True(t, strings.Contains(out, "<svg"))
}

func TestRenderRejects(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Render(&buf, sampleRun(), "bmp", DefaultOptions()))
	assert.Error(t, Render(&buf, &models.SweepRun{}, "png", DefaultOptions()))

	opts := DefaultOptions()
	opts.Width = 0
	assert.Error(t, Render(&buf, sampleRun(), "png", opts))
}

func TestSaveByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "prices.png")

	require.NoError(t, Save(path, sampleRun(), DefaultOptions()))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	bad := filepath.Join(dir, "prices.gif")
	assert.Error(t, Save(bad, sampleRun(), DefaultOptions()))
	_, err = os.Stat(bad)
	assert.True(t, os.IsNotExist(err), "failed render should not leave a file behind")

	assert.Error(t, Save(filepath.Join(dir, "noext"), sampleRun(), DefaultOptions()))
}
