package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Barrier Pricer Configuration

[market]
# Initial spot price of the underlying
spot = 100.0
# Continuously compounded risk-free rate
rate = 0.05
# Continuous dividend yield
dividend = 0.01
# Annualised volatility
volatility = 0.3
# Time to expiry in years
horizon = 1.0

[simulation]
# Time steps per simulated path
steps = 365
# Independent paths per price
trials = 200
# Goroutines used for trials (1 = single goroutine, 0 = one per CPU)
workers = 1
# Random seed; 0 draws a fresh seed on every run
seed = 0
# Two-sided confidence level of the reported interval
confidence = 0.95

[sweep]
# Strike grid, inclusive of both ends
strike_from = 75.0
strike_to = 125.0
strike_step = 5.0
# Barrier of the put panels (down barrier when below spot)
put_barrier = 90.0
# Barrier of the call panels (up barrier when above spot)
call_barrier = 110.0

[output]
# Chart written by 'barrier sweep --plot' (.png, .jpg or .svg)
chart_path = "barrier_prices.png"
chart_width = 11.0
chart_height = 8.5
# Enable colored terminal output
color = true

[logging]
# Log level: debug, info, warn, error
level = "info"
# Also write a rotating log file
file = true
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(configPath); err == nil {
		return nil // File exists
	}

	if err := os.WriteFile(configPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("failed to write config template: %w", err)
	}

	return nil
}
