package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barrier-pricer/internal/config"
	apperrors "barrier-pricer/internal/errors"
	"barrier-pricer/internal/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Dir = t.TempDir()
	cfg.Store.Path = filepath.Join(cfg.Dir, "runs.db")
	cfg.Logging.File = false
	cfg.Simulation.Trials = 300
	cfg.Simulation.Steps = 50
	return cfg
}

func execute(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(cfg, zerolog.Nop())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionJSON(t *testing.T) {
	out, err := execute(t, testConfig(t), "version", "--json")
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, Version, got["version"])
}

func TestConfigCommands(t *testing.T) {
	cfg := testConfig(t)

	out, err := execute(t, cfg, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, cfg.Dir, strings.TrimSpace(out))

	out, err = execute(t, cfg, "config", "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")

	out, err = execute(t, cfg, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Put barrier:  90")

	cfg.Simulation.Trials = 0
	_, err = execute(t, cfg, "config", "validate")
	assert.ErrorIs(t, err, apperrors.ErrConfigInvalid)
}

func TestPriceJSONIsReproducibleWithSeed(t *testing.T) {
	cfg := testConfig(t)
	args := []string{"price", "--json", "--option", "put", "--barrier-type", "out",
		"--strike", "100", "--barrier", "90", "--seed", "11"}

	out1, err := execute(t, cfg, args...)
	require.NoError(t, err)
	out2, err := execute(t, cfg, args...)
	require.NoError(t, err)

	var r1, r2 priceReport
	require.NoError(t, json.Unmarshal([]byte(out1), &r1))
	require.NoError(t, json.Unmarshal([]byte(out2), &r2))

	assert.Equal(t, r1.Result.Price, r2.Result.Price)
	assert.Equal(t, uint64(11), r1.Result.Seed)
	assert.Equal(t, models.BarrierDown, r1.Result.Direction)
	assert.Equal(t, "down-and-out put", r1.Description)
	assert.Equal(t, 300, r1.Result.Trials)
	assert.GreaterOrEqual(t, r1.Result.Price, 0.0)
}

func TestPriceFlagOverrides(t *testing.T) {
	out, err := execute(t, testConfig(t), "price", "--json", "--option", "call", "--barrier-type", "in",
		"--strike", "40", "--barrier", "60", "--spot", "50", "--trials", "10", "--steps", "5", "--seed", "1")
	require.NoError(t, err)

	var r priceReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, 50.0, r.Market.Spot)
	assert.Equal(t, 10, r.Result.Trials)
	assert.Equal(t, 5, r.Result.Steps)
	assert.Equal(t, models.BarrierUp, r.Result.Direction)
}

func TestPriceTextOutput(t *testing.T) {
	out, err := execute(t, testConfig(t), "price", "--option", "call", "--barrier-type", "out",
		"--strike", "100", "--barrier", "110", "--seed", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "up-and-out call")
	assert.Contains(t, out, "95% CI:")
	assert.Contains(t, out, "Seed:        5")
}

func TestPriceRejectsBadInput(t *testing.T) {
	cfg := testConfig(t)

	_, err := execute(t, cfg, "price", "--option", "straddle", "--barrier-type", "out", "--strike", "100", "--barrier", "90")
	assert.ErrorIs(t, err, apperrors.ErrUnknownOptionType)

	_, err = execute(t, cfg, "price", "--option", "put", "--barrier-type", "sideways", "--strike", "100", "--barrier", "90")
	assert.ErrorIs(t, err, apperrors.ErrUnknownBarrierType)

	_, err = execute(t, cfg, "price", "--option", "put", "--barrier-type", "out", "--strike", "100", "--barrier", "90", "--trials", "0")
	assert.ErrorIs(t, err, apperrors.ErrInvalidParameter)

	_, err = execute(t, cfg, "price", "--option", "put")
	assert.Error(t, err, "required flags missing")
}

func TestSweepJSON(t *testing.T) {
	out, err := execute(t, testConfig(t), "sweep", "--json", "--from", "90", "--to", "110", "--step", "10", "--seed", "3")
	require.NoError(t, err)

	var run models.SweepRun
	require.NoError(t, json.Unmarshal([]byte(out), &run))
	require.Len(t, run.Panels, 4)
	assert.Equal(t, uint64(3), run.Seed)
	for _, p := range run.Panels {
		assert.Len(t, p.Points, 3)
	}
	assert.Equal(t, "Call Option - up and out barrier (barrier = 110)", run.Panels[3].Title)
}

func TestSweepTablesAndExports(t *testing.T) {
	cfg := testConfig(t)
	csvPath := filepath.Join(cfg.Dir, "prices.csv")
	chartPath := filepath.Join(cfg.Dir, "prices.svg")

	out, err := execute(t, cfg, "sweep", "--from", "95", "--to", "105", "--step", "5",
		"--seed", "9", "--csv", csvPath, "--chart", chartPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Put Option - down and in barrier (barrier = 90)")
	assert.Contains(t, out, "Put Price")
	assert.Contains(t, out, "Call Price")

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, "panel,option,barrier_type,barrier,strike,price,std_err", lines[0])
	assert.Len(t, lines, 1+4*3)

	info, err := os.Stat(chartPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestSweepYAML(t *testing.T) {
	out, err := execute(t, testConfig(t), "sweep", "--yaml", "--from", "100", "--to", "100", "--step", "1", "--seed", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "panels:")
	assert.Contains(t, out, "strike: 100")
}

func TestSweepRejectsBadGrid(t *testing.T) {
	_, err := execute(t, testConfig(t), "sweep", "--from", "120", "--to", "80")
	assert.ErrorIs(t, err, apperrors.ErrInvalidParameter)
}

func TestSaveAndBrowseRuns(t *testing.T) {
	cfg := testConfig(t)

	out, err := execute(t, cfg, "runs", "list", "--json")
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(out))

	out, err = execute(t, cfg, "sweep", "--json", "--save", "--from", "95", "--to", "105", "--step", "5", "--seed", "4")
	require.NoError(t, err)
	var run models.SweepRun
	require.NoError(t, json.Unmarshal([]byte(out), &run))

	out, err = execute(t, cfg, "runs", "list", "--json")
	require.NoError(t, err)
	var runs []models.RunSummary
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, 12, runs[0].Points)

	out, err = execute(t, cfg, "runs", "list")
	require.NoError(t, err)
	assert.Contains(t, out, ShortID(run.ID))

	out, err = execute(t, cfg, "runs", "show", run.ID, "--json")
	require.NoError(t, err)
	var loaded models.SweepRun
	require.NoError(t, json.Unmarshal([]byte(out), &loaded))
	assert.Equal(t, run.Panels, loaded.Panels)

	_, err = execute(t, cfg, "runs", "show", "no-such-run")
	assert.ErrorIs(t, err, apperrors.ErrDataNotFound)
}

func TestLoadsConfigFromFlagWhenNotInjected(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"),
		[]byte("[logging]\nfile = false\nlevel = \"error\"\n"), 0644))

	root := NewRootCmd(nil, zerolog.Nop())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"config", "path", "--config", dir})
	require.NoError(t, root.Execute())
	assert.Equal(t, dir, strings.TrimSpace(out.String()))
}

func TestCommandLoggerReachesPricer(t *testing.T) {
	var logs bytes.Buffer
	root := NewRootCmd(testConfig(t), zerolog.New(&logs).Level(zerolog.InfoLevel))
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"price", "--debug", "--option", "put", "--barrier-type", "in",
		"--strike", "100", "--barrier", "90", "--seed", "1", "--trials", "10"})
	require.NoError(t, root.Execute())

	assert.Contains(t, logs.String(), `"operation":"price"`)
	assert.Contains(t, logs.String(), "Barrier option priced")
}

func TestSweepSaveWarnsWhenUnseeded(t *testing.T) {
	cfg := testConfig(t)

	out, err := execute(t, cfg, "sweep", "--save", "--from", "100", "--to", "100", "--step", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Run was unseeded")

	out, err = execute(t, cfg, "sweep", "--save", "--from", "100", "--to", "100", "--step", "1", "--seed", "8")
	require.NoError(t, err)
	assert.NotContains(t, out, "Run was unseeded")
}
