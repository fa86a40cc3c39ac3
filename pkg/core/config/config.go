// Package config defines the immutable policy configuration for the analysis
// engine: scenario adjustment offsets, valuation model constants, scoring
// weight tables, and rating bands. Engines receive a Config at construction
// so alternate weighting schemes can be exercised side by side in tests.
package config

import (
	"fmt"
	"math"
)

// Triple holds one policy value per scenario.
type Triple struct {
	Bear float64 `json:"bear" yaml:"bear"`
	Base float64 `json:"base" yaml:"base"`
	Bull float64 `json:"bull" yaml:"bull"`
}

// ScenarioConfig drives the deterministic bear/base/bull rule table.
// Offsets are applied to the metric-derived base case; all rates are
// fractions (0.05 = 5%).
type ScenarioConfig struct {
	// Substituted when the metric-derived input is not determinable.
	// Substitutions are recorded on the produced assumptions.
	DefaultGrowth   float64 `json:"default_growth" yaml:"default_growth"`
	DefaultDiscount float64 `json:"default_discount" yaml:"default_discount"`

	// Base discount rate = DiscountBase + DiscountSlope × debt/assets.
	// More leverage (weaker balance sheet) means a higher required return.
	DiscountBase  float64 `json:"discount_base" yaml:"discount_base"`
	DiscountSlope float64 `json:"discount_slope" yaml:"discount_slope"`

	// Clamps for the metric-derived base case.
	BaseGrowthMin float64 `json:"base_growth_min" yaml:"base_growth_min"`
	BaseGrowthMax float64 `json:"base_growth_max" yaml:"base_growth_max"`

	// Hard bounds applied after scenario offsets.
	GrowthMin   float64 `json:"growth_min" yaml:"growth_min"`
	GrowthMax   float64 `json:"growth_max" yaml:"growth_max"`
	DiscountMin float64 `json:"discount_min" yaml:"discount_min"`
	DiscountMax float64 `json:"discount_max" yaml:"discount_max"`

	// Fixed offsets from the base case. Bear must be more conservative
	// (lower growth, higher discount) and bull the opposite.
	BearGrowthOffset   float64 `json:"bear_growth_offset" yaml:"bear_growth_offset"`
	BullGrowthOffset   float64 `json:"bull_growth_offset" yaml:"bull_growth_offset"`
	BearDiscountOffset float64 `json:"bear_discount_offset" yaml:"bear_discount_offset"`
	BullDiscountOffset float64 `json:"bull_discount_offset" yaml:"bull_discount_offset"`

	TerminalGrowth Triple `json:"terminal_growth" yaml:"terminal_growth"`
	ExitMultiple   Triple `json:"exit_multiple" yaml:"exit_multiple"`
}

// ValuationConfig holds model constants shared by the three valuation models.
type ValuationConfig struct {
	HorizonYears int `json:"horizon_years" yaml:"horizon_years"`

	// Periods averaged for normalized free cash flow.
	FCFLookback int `json:"fcf_lookback" yaml:"fcf_lookback"`

	// Fraction of average capital expenditure treated as maintenance capex
	// in the owner-earnings approximation.
	MaintenanceCapexRatio float64 `json:"maintenance_capex_ratio" yaml:"maintenance_capex_ratio"`
}

// DimensionWeights assigns fixed weights to the metrics feeding one scoring
// dimension. Weights for metrics present in the MetricSet must sum to 1;
// not-determinable metrics drop out and the rest renormalize at score time.
type DimensionWeights map[string]float64

// ScoringConfig holds the weight table per dimension.
type ScoringConfig struct {
	Quality           DimensionWeights `json:"quality" yaml:"quality"`
	Growth            DimensionWeights `json:"growth" yaml:"growth"`
	FinancialStrength DimensionWeights `json:"financial_strength" yaml:"financial_strength"`
	Stability         DimensionWeights `json:"stability" yaml:"stability"`
}

// RatingConfig blends the value signal with the four sub-scores and maps the
// composite onto category bands.
type RatingConfig struct {
	ValueWeight             float64 `json:"value_weight" yaml:"value_weight"`
	QualityWeight           float64 `json:"quality_weight" yaml:"quality_weight"`
	GrowthWeight            float64 `json:"growth_weight" yaml:"growth_weight"`
	FinancialStrengthWeight float64 `json:"financial_strength_weight" yaml:"financial_strength_weight"`
	StabilityWeight         float64 `json:"stability_weight" yaml:"stability_weight"`

	// Upper bounds (exclusive) of the first four bands; the fifth runs to 100.
	// Strictly increasing, inside (0, 100).
	Bands [4]float64 `json:"bands" yaml:"bands"`
}

// Config is the full policy set. Treat as immutable once constructed.
type Config struct {
	Scenario  ScenarioConfig  `json:"scenario" yaml:"scenario"`
	Valuation ValuationConfig `json:"valuation" yaml:"valuation"`
	Scoring   ScoringConfig   `json:"scoring" yaml:"scoring"`
	Rating    RatingConfig    `json:"rating" yaml:"rating"`
}

// Default returns the documented policy constants. Magnitudes follow the
// original analyst policy; the shape invariants are enforced by Validate.
func Default() Config {
	return Config{
		Scenario: ScenarioConfig{
			DefaultGrowth:   0.02,
			DefaultDiscount: 0.10,
			DiscountBase:    0.08,
			DiscountSlope:   0.04,
			BaseGrowthMin:   0.02,
			BaseGrowthMax:   0.10,
			GrowthMin:       0.00,
			GrowthMax:       0.12,
			DiscountMin:     0.07,
			DiscountMax:     0.13,

			BearGrowthOffset:   -0.01,
			BullGrowthOffset:   0.02,
			BearDiscountOffset: 0.01,
			BullDiscountOffset: -0.01,

			TerminalGrowth: Triple{Bear: 0.015, Base: 0.02, Bull: 0.03},
			ExitMultiple:   Triple{Bear: 12, Base: 15, Bull: 18},
		},
		Valuation: ValuationConfig{
			HorizonYears:          5,
			FCFLookback:           5,
			MaintenanceCapexRatio: 0.7,
		},
		Scoring: ScoringConfig{
			Quality: DimensionWeights{
				"operating_margin_avg": 0.40,
				"net_margin_avg":       0.30,
				"return_on_equity":     0.30,
			},
			Growth: DimensionWeights{
				"revenue_cagr":    0.50,
				"fcf_cagr":        0.30,
				"net_income_cagr": 0.20,
			},
			FinancialStrength: DimensionWeights{
				"debt_to_equity": 0.40,
				"current_ratio":  0.30,
				"quick_ratio":    0.30,
			},
			Stability: DimensionWeights{
				"net_income_volatility":       0.30,
				"fcf_volatility":              0.20,
				"operating_margin_volatility": 0.20,
				"price_volatility":            0.30,
			},
		},
		Rating: RatingConfig{
			ValueWeight:             0.35,
			QualityWeight:           0.20,
			GrowthWeight:            0.15,
			FinancialStrengthWeight: 0.15,
			StabilityWeight:         0.15,
			Bands:                   [4]float64{20, 40, 60, 80},
		},
	}
}

// Validate enforces the structural invariants the engines rely on.
func (c Config) Validate() error {
	s := c.Scenario
	if s.BearGrowthOffset > 0 || s.BullGrowthOffset < 0 {
		return fmt.Errorf("scenario growth offsets must bracket the base case (bear %.4f, bull %.4f)",
			s.BearGrowthOffset, s.BullGrowthOffset)
	}
	if s.BearDiscountOffset < 0 || s.BullDiscountOffset > 0 {
		return fmt.Errorf("scenario discount offsets must bracket the base case (bear %.4f, bull %.4f)",
			s.BearDiscountOffset, s.BullDiscountOffset)
	}
	if !(s.TerminalGrowth.Bear <= s.TerminalGrowth.Base && s.TerminalGrowth.Base <= s.TerminalGrowth.Bull) {
		return fmt.Errorf("terminal growth must be ordered bear <= base <= bull")
	}
	if !(s.ExitMultiple.Bear <= s.ExitMultiple.Base && s.ExitMultiple.Base <= s.ExitMultiple.Bull) {
		return fmt.Errorf("exit multiples must be ordered bear <= base <= bull")
	}
	if s.GrowthMin > s.GrowthMax || s.DiscountMin > s.DiscountMax {
		return fmt.Errorf("scenario clamp bounds inverted")
	}

	if c.Valuation.HorizonYears < 1 {
		return fmt.Errorf("valuation horizon must be at least 1 year, got %d", c.Valuation.HorizonYears)
	}
	if c.Valuation.FCFLookback < 1 {
		return fmt.Errorf("fcf lookback must be at least 1 period, got %d", c.Valuation.FCFLookback)
	}
	if r := c.Valuation.MaintenanceCapexRatio; r < 0 || r > 1 {
		return fmt.Errorf("maintenance capex ratio must be within [0,1], got %f", r)
	}

	for name, w := range map[string]DimensionWeights{
		"quality":            c.Scoring.Quality,
		"growth":             c.Scoring.Growth,
		"financial_strength": c.Scoring.FinancialStrength,
		"stability":          c.Scoring.Stability,
	} {
		if err := validateWeights(name, w); err != nil {
			return err
		}
	}

	r := c.Rating
	ratingSum := r.ValueWeight + r.QualityWeight + r.GrowthWeight + r.FinancialStrengthWeight + r.StabilityWeight
	if math.Abs(ratingSum-1.0) > 1e-9 {
		return fmt.Errorf("rating weights must sum to 1, got %f", ratingSum)
	}
	prev := 0.0
	for i, b := range r.Bands {
		if b <= prev || b >= 100 {
			return fmt.Errorf("rating bands must be strictly increasing within (0,100), band %d = %f", i, b)
		}
		prev = b
	}
	return nil
}

func validateWeights(dimension string, w DimensionWeights) error {
	if len(w) == 0 {
		return fmt.Errorf("scoring dimension %q has no metric weights", dimension)
	}
	var sum float64
	for metric, weight := range w {
		if weight < 0 {
			return fmt.Errorf("scoring dimension %q: negative weight for %q", dimension, metric)
		}
		sum += weight
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("scoring dimension %q: weights must sum to 1, got %f", dimension, sum)
	}
	return nil
}
