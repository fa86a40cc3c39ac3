package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sly3ye/Stock-Analyst/pkg/core/config"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/metrics"
	"github.com/Sly3ye/Stock-Analyst/pkg/models"
)

func TestBuildFromMetrics(t *testing.T) {
	b := NewBuilder(config.Default())
	m := &metrics.MetricSet{
		RevenueCAGR:  models.Of(0.08),
		FCFCAGR:      models.Of(0.04),
		DebtToAssets: models.Of(0.5),
	}

	set := b.Build(m)

	// Base growth = mean(0.08, 0.04); base discount = 0.08 + 0.04*0.5.
	assert.InDelta(t, 0.06, set.Base.GrowthRate, 1e-9)
	assert.InDelta(t, 0.10, set.Base.DiscountRate, 1e-9)
	assert.Empty(t, set.Base.Assumed)

	assert.InDelta(t, 0.05, set.Bear.GrowthRate, 1e-9)
	assert.InDelta(t, 0.11, set.Bear.DiscountRate, 1e-9)
	assert.InDelta(t, 0.08, set.Bull.GrowthRate, 1e-9)
	assert.InDelta(t, 0.09, set.Bull.DiscountRate, 1e-9)
}

func TestBuildOrderingInvariant(t *testing.T) {
	b := NewBuilder(config.Default())
	cases := []*metrics.MetricSet{
		{RevenueCAGR: models.Of(0.08), FCFCAGR: models.Of(0.04), DebtToAssets: models.Of(0.5)},
		{RevenueCAGR: models.Of(0.30), DebtToAssets: models.Of(1.2)}, // clamped high
		{RevenueCAGR: models.Of(-0.10), FCFCAGR: models.Of(-0.05)},  // clamped low, assumed discount
		{},                                                          // everything assumed
	}

	for _, m := range cases {
		set := b.Build(m)
		assert.LessOrEqual(t, set.Bear.GrowthRate, set.Base.GrowthRate)
		assert.LessOrEqual(t, set.Base.GrowthRate, set.Bull.GrowthRate)
		assert.GreaterOrEqual(t, set.Bear.DiscountRate, set.Base.DiscountRate)
		assert.LessOrEqual(t, set.Bull.DiscountRate, set.Base.DiscountRate)
		assert.LessOrEqual(t, set.Bear.TerminalGrowth, set.Bull.TerminalGrowth)
		assert.LessOrEqual(t, set.Bear.ExitMultiple, set.Bull.ExitMultiple)
	}
}

func TestBuildRecordsSubstitutions(t *testing.T) {
	b := NewBuilder(config.Default())
	set := b.Build(&metrics.MetricSet{})

	// No CAGR and no leverage: both inputs fall back to policy defaults,
	// and every scenario carries the substitution record.
	require.ElementsMatch(t, []string{"growth_rate", "discount_rate"}, set.Base.Assumed)
	assert.Equal(t, set.Base.Assumed, set.Bear.Assumed)
	assert.Equal(t, set.Base.Assumed, set.Bull.Assumed)

	assert.InDelta(t, 0.02, set.Base.GrowthRate, 1e-9)
	assert.InDelta(t, 0.10, set.Base.DiscountRate, 1e-9)
}

func TestBuildClampsExtremes(t *testing.T) {
	cfg := config.Default()
	b := NewBuilder(cfg)

	set := b.Build(&metrics.MetricSet{
		RevenueCAGR:  models.Of(0.60),
		FCFCAGR:      models.Of(0.50),
		DebtToAssets: models.Of(3.0),
	})

	assert.InDelta(t, cfg.Scenario.BaseGrowthMax, set.Base.GrowthRate, 1e-9)
	assert.InDelta(t, cfg.Scenario.DiscountMax, set.Base.DiscountRate, 1e-9)
	// Offsets cannot push past the hard bounds.
	assert.LessOrEqual(t, set.Bull.GrowthRate, cfg.Scenario.GrowthMax)
	assert.GreaterOrEqual(t, set.Bear.DiscountRate, cfg.Scenario.DiscountMin)
	assert.LessOrEqual(t, set.Bear.DiscountRate, cfg.Scenario.DiscountMax)
}

func TestSetGet(t *testing.T) {
	set := Set{
		Bear: Assumptions{Scenario: Bear, GrowthRate: 0.01},
		Base: Assumptions{Scenario: Base, GrowthRate: 0.02},
		Bull: Assumptions{Scenario: Bull, GrowthRate: 0.03},
	}
	for _, tag := range Tags {
		assert.Equal(t, tag, set.Get(tag).Scenario)
	}
}
