package pricing

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"

	"barrier-pricer/internal/models"
)

// fixedNormals replays a fixed sequence of draws.
type fixedNormals struct {
	z []float64
	i int
}

func (f *fixedNormals) NormFloat64() float64 {
	v := f.z[f.i%len(f.z)]
	f.i++
	return v
}

func TestSimulatePathShape(t *testing.T) {
	m := models.Market{Spot: 100, Rate: 0.05, Dividend: 0.01, Volatility: 0.3}
	path := SimulatePath(rand.New(rand.NewSource(1)), m, 1, 365, nil)

	if len(path) != 366 {
		t.Fatalf("len(path) = %d, want 366", len(path))
	}
	if path[0] != 100 {
		t.Errorf("path[0] = %v, want exactly the spot", path[0])
	}
	for i, s := range path {
		if !(s > 0) || math.IsInf(s, 0) {
			t.Fatalf("path[%d] = %v, want finite positive", i, s)
		}
	}
}

func TestSimulatePathZeroVolatilityIsDeterministicDrift(t *testing.T) {
	m := models.Market{Spot: 100, Rate: 0.05, Dividend: 0.01}
	path := SimulatePath(&fixedNormals{z: []float64{3, -3}}, m, 2, 4, nil)

	for i, s := range path {
		want := 100 * math.Exp(0.04*0.5*float64(i))
		if math.Abs(s-want) > 1e-9 {
			t.Errorf("path[%d] = %v, want %v", i, s, want)
		}
	}
}

func TestSimulatePathAppliesShock(t *testing.T) {
	m := models.Market{Spot: 50, Rate: 0.02, Dividend: 0, Volatility: 0.4}
	z := []float64{1.5, -0.5, 0.25}
	path := SimulatePath(&fixedNormals{z: z}, m, 0.75, 3, nil)

	dt := 0.25
	drift := (0.02 - 0.5*0.16) * dt
	want := 50.0
	for i, zi := range z {
		want *= math.Exp(drift + 0.4*math.Sqrt(dt)*zi)
		if math.Abs(path[i+1]-want) > 1e-9 {
			t.Errorf("path[%d] = %v, want %v", i+1, path[i+1], want)
		}
	}
}

func TestSimulatePathReusesBuffer(t *testing.T) {
	buf := make([]float64, 0, 64)
	m := models.Market{Spot: 100, Volatility: 0.2}
	path := SimulatePath(rand.New(rand.NewSource(2)), m, 1, 10, buf)

	if &path[0] != &buf[:1][0] {
		t.Error("expected the destination buffer to be reused")
	}
	if len(path) != 11 {
		t.Errorf("len(path) = %d, want 11", len(path))
	}
}

func TestTrialSeedSpreadsIndices(t *testing.T) {
	seen := make(map[uint64]bool)
	for i := 0; i < 1000; i++ {
		s := trialSeed(42, i)
		if seen[s] {
			t.Fatalf("duplicate trial seed at %d", i)
		}
		seen[s] = true
	}
	if trialSeed(1, 0) == trialSeed(2, 0) {
		t.Error("different call seeds should give different trial seeds")
	}
}
