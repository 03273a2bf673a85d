package models

import "time"

// SweepPoint is one priced strike of a sweep panel.
type SweepPoint struct {
	Strike float64 `json:"strike" yaml:"strike" csv:"strike"`
	Price  float64 `json:"price" yaml:"price" csv:"price"`
	StdErr float64 `json:"std_err" yaml:"std_err" csv:"std_err"`
}

// SweepPanel is the price curve of one option/barrier configuration.
type SweepPanel struct {
	Title       string           `json:"title" yaml:"title"`
	Option      OptionType       `json:"option" yaml:"option"`
	BarrierType BarrierType      `json:"barrier_type" yaml:"barrier_type"`
	Barrier     float64          `json:"barrier" yaml:"barrier"`
	Direction   BarrierDirection `json:"direction" yaml:"direction"`
	Points      []SweepPoint     `json:"points" yaml:"points"`
}

// SweepRun is a complete strike sweep across all panels.
type SweepRun struct {
	ID         string        `json:"id" yaml:"id"`
	CreatedAt  time.Time     `json:"created_at" yaml:"created_at"`
	Market     Market        `json:"market" yaml:"market"`
	Horizon    float64       `json:"horizon" yaml:"horizon"`
	Simulation Simulation    `json:"simulation" yaml:"simulation"`
	Seed       uint64        `json:"seed" yaml:"seed"`
	Panels     []SweepPanel  `json:"panels" yaml:"panels"`
	Elapsed    time.Duration `json:"elapsed" yaml:"elapsed"`
}

// SweepRow flattens a panel point for tabular export.
type SweepRow struct {
	Panel       string  `csv:"panel"`
	Option      string  `csv:"option"`
	BarrierType string  `csv:"barrier_type"`
	Barrier     float64 `csv:"barrier"`
	Strike      float64 `csv:"strike"`
	Price       float64 `csv:"price"`
	StdErr      float64 `csv:"std_err"`
}

// Rows flattens every panel of the run into export rows.
func (r *SweepRun) Rows() []*SweepRow {
	var rows []*SweepRow
	for _, p := range r.Panels {
		for _, pt := range p.Points {
			rows = append(rows, &SweepRow{
				Panel:       p.Title,
				Option:      string(p.Option),
				BarrierType: string(p.BarrierType),
				Barrier:     p.Barrier,
				Strike:      pt.Strike,
				Price:       pt.Price,
				StdErr:      pt.StdErr,
			})
		}
	}
	return rows
}

// RunSummary is a journal listing entry.
type RunSummary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Spot      float64   `json:"spot"`
	Trials    int       `json:"trials"`
	Steps     int       `json:"steps"`
	Panels    int       `json:"panels"`
	Points    int       `json:"points"`
}
