// Package scenario turns a base-case MetricSet into the bear/base/bull
// assumption triple through a fixed, deterministic rule table.
package scenario

import (
	"github.com/Sly3ye/Stock-Analyst/pkg/core/config"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/metrics"
	"github.com/Sly3ye/Stock-Analyst/pkg/models"
)

// Tag names one scenario.
type Tag string

const (
	Bear Tag = "bear"
	Base Tag = "base"
	Bull Tag = "bull"
)

// Tags is the fixed iteration order for scenario work.
var Tags = [3]Tag{Bear, Base, Bull}

// Assumptions is the input bundle for one scenario's valuation run.
// All rates are fractions.
type Assumptions struct {
	Scenario       Tag     `json:"scenario"`
	GrowthRate     float64 `json:"growth_rate"`
	DiscountRate   float64 `json:"discount_rate"`
	TerminalGrowth float64 `json:"terminal_growth"`
	ExitMultiple   float64 `json:"exit_multiple"`

	// Assumed lists inputs that were substituted with a policy default
	// because the metric-derived value was not determinable. It keeps an
	// assumed rate distinguishable from a measured one downstream.
	Assumed []string `json:"assumed,omitempty"`
}

// Set is the full triple, produced in one shot so the offsets stay coherent.
type Set struct {
	Bear Assumptions `json:"bear"`
	Base Assumptions `json:"base"`
	Bull Assumptions `json:"bull"`
}

// Get returns the assumptions for a tag.
func (s Set) Get(tag Tag) Assumptions {
	switch tag {
	case Bear:
		return s.Bear
	case Bull:
		return s.Bull
	}
	return s.Base
}

// Builder applies the policy rule table.
type Builder struct {
	cfg config.ScenarioConfig
}

// NewBuilder creates a scenario builder with the given policy.
func NewBuilder(cfg config.Config) *Builder {
	return &Builder{cfg: cfg.Scenario}
}

// Build derives all three scenarios from the base-case metrics. Growth comes
// from the revenue and FCF CAGRs; the discount rate scales with balance-sheet
// leverage (weaker balance sheet, higher required return). Missing inputs
// fall back to conservative policy defaults, and every substitution is
// recorded on the produced assumptions.
func (b *Builder) Build(m *metrics.MetricSet) Set {
	c := b.cfg
	var assumed []string

	growth, ok := models.MeanOf(m.RevenueCAGR, m.FCFCAGR).Get()
	if !ok {
		growth = c.DefaultGrowth
		assumed = append(assumed, "growth_rate")
	}
	growth = clamp(growth, c.BaseGrowthMin, c.BaseGrowthMax)

	var discount float64
	if leverage, ok := m.DebtToAssets.Get(); ok {
		discount = c.DiscountBase + c.DiscountSlope*leverage
	} else {
		discount = c.DefaultDiscount
		assumed = append(assumed, "discount_rate")
	}
	discount = clamp(discount, c.DiscountMin, c.DiscountMax)

	return Set{
		Bear: Assumptions{
			Scenario:       Bear,
			GrowthRate:     clamp(growth+c.BearGrowthOffset, c.GrowthMin, c.GrowthMax),
			DiscountRate:   clamp(discount+c.BearDiscountOffset, c.DiscountMin, c.DiscountMax),
			TerminalGrowth: c.TerminalGrowth.Bear,
			ExitMultiple:   c.ExitMultiple.Bear,
			Assumed:        assumed,
		},
		Base: Assumptions{
			Scenario:       Base,
			GrowthRate:     growth,
			DiscountRate:   discount,
			TerminalGrowth: c.TerminalGrowth.Base,
			ExitMultiple:   c.ExitMultiple.Base,
			Assumed:        assumed,
		},
		Bull: Assumptions{
			Scenario:       Bull,
			GrowthRate:     clamp(growth+c.BullGrowthOffset, c.GrowthMin, c.GrowthMax),
			DiscountRate:   clamp(discount+c.BullDiscountOffset, c.DiscountMin, c.DiscountMax),
			TerminalGrowth: c.TerminalGrowth.Bull,
			ExitMultiple:   c.ExitMultiple.Bull,
			Assumed:        assumed,
		},
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
