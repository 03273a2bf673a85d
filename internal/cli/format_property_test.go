package cli

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// For any finite price, FormatPrice should:
// 1. Have exactly PricePlaces decimal places
// 2. Preserve the numeric value to within half a unit of the last place
func TestProperty_PriceFormatting(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("FormatPrice pads to a fixed number of places", prop.ForAll(
		func(price float64) bool {
			formatted := FormatPrice(price)

			parts := strings.Split(formatted, ".")
			if len(parts) != 2 || len(parts[1]) != PricePlaces {
				t.Logf("Expected %d decimal places for %f, got %s", PricePlaces, price, formatted)
				return false
			}

			parsed, err := strconv.ParseFloat(formatted, 64)
			if err != nil {
				t.Logf("Failed to parse %s: %v", formatted, err)
				return false
			}
			if math.Abs(parsed-price) > 0.5e-4+1e-9*math.Abs(price) {
				t.Logf("Value drift for %f: %s", price, formatted)
				return false
			}
			return true
		},
		gen.Float64Range(-1e6, 1e6),
	))

	properties.Property("FormatStrike round-trips", prop.ForAll(
		func(whole int, quarter int) bool {
			strike := float64(whole) + float64(quarter)*0.25
			parsed, err := strconv.ParseFloat(FormatStrike(strike), 64)
			return err == nil && parsed == strike
		},
		gen.IntRange(1, 100000),
		gen.IntRange(0, 3),
	))

	properties.TestingRun(t)
}

func TestFormatHelpers(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{FormatPrice(1.23456), "1.2346"},
		{FormatPrice(0), "0.0000"},
		{FormatPrice(-0.00005), "-0.0001"},
		{FormatStrike(100), "100"},
		{FormatStrike(97.5), "97.5"},
		{FormatPercent(0.95), "95%"},
		{FormatPercent(0.995), "99.5%"},
		{FormatInterval(1, 2.5), "[1.0000, 2.5000]"},
		{ShortID("3f2a9c1e-0000-4000-8000-000000000000"), "3f2a9c1e"},
		{ShortID("abc"), "abc"},
		{TruncateString("abcdefgh", 5), "ab..."},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}
