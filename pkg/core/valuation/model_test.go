package valuation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sly3ye/Stock-Analyst/pkg/core/config"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/metrics"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/scenario"
	"github.com/Sly3ye/Stock-Analyst/pkg/models"
)

func baseAssumptions() scenario.Assumptions {
	return scenario.Assumptions{
		Scenario:       scenario.Base,
		GrowthRate:     0.05,
		DiscountRate:   0.09,
		TerminalGrowth: 0.02,
		ExitMultiple:   15,
	}
}

func richMetrics() *metrics.MetricSet {
	return &metrics.MetricSet{
		NormalizedFCF:     models.Of(1200),
		LatestNetIncome:   models.Of(1500),
		DepreciationAmort: models.Of(300),
		AvgCapEx:          models.Of(400),
		NetDebt:           models.Of(500),
		SharesOutstanding: models.Of(100),
		EarningsPerShare:  models.Of(15),
	}
}

func TestDCFEvaluate(t *testing.T) {
	m := richMetrics()
	a := baseAssumptions()
	res := NewDCFModel(config.Default()).Evaluate(m, a, m.SharesOutstanding)

	// Recompute: 5 years of FCF growing at 5%, discounted at 9%, plus a
	// Gordon terminal at 2% capitalized off year 5 and discounted back.
	flow := 1200.0
	pvForecast := 0.0
	for year := 1; year <= 5; year++ {
		flow *= 1.05
		pvForecast += flow / math.Pow(1.09, float64(year))
	}
	terminal := flow * 1.02 / (0.09 - 0.02)
	equity := pvForecast + terminal/math.Pow(1.09, 5) - 500

	got, ok := res.PerShare.Get()
	require.True(t, ok)
	assert.InDelta(t, equity/100, got, 1e-9)
	assert.Equal(t, ModelDCF, res.Model)
	assert.Equal(t, scenario.Base, res.Scenario)
}

func TestDCFDivergentTerminal(t *testing.T) {
	m := richMetrics()
	a := baseAssumptions()
	a.DiscountRate = 0.05
	a.TerminalGrowth = 0.06

	res := NewDCFModel(config.Default()).Evaluate(m, a, m.SharesOutstanding)
	assert.False(t, res.PerShare.Valid())
	assert.Contains(t, res.Notes, "discount rate must exceed terminal growth")
}

func TestDCFMissingNetDebtFallsBackToEnterprise(t *testing.T) {
	m := richMetrics()
	m.NetDebt = models.NotDeterminable()

	res := NewDCFModel(config.Default()).Evaluate(m, baseAssumptions(), m.SharesOutstanding)
	require.True(t, res.PerShare.Valid())
	assert.Contains(t, res.Notes, "net debt unavailable, equity value taken as enterprise value")
}

func TestOwnerEarningsEvaluate(t *testing.T) {
	m := richMetrics()
	res := NewOwnerEarningsModel(config.Default()).Evaluate(m, baseAssumptions(), m.SharesOutstanding)

	// Owner earnings = 1500 + 300 - 0.7*400 = 1520, projected and
	// discounted like the DCF but without a net-debt adjustment.
	flow := 1520.0
	pvForecast := 0.0
	for year := 1; year <= 5; year++ {
		flow *= 1.05
		pvForecast += flow / math.Pow(1.09, float64(year))
	}
	terminal := flow * 1.02 / (0.09 - 0.02)
	equity := pvForecast + terminal/math.Pow(1.09, 5)

	got, ok := res.PerShare.Get()
	require.True(t, ok)
	assert.InDelta(t, equity/100, got, 1e-9)
}

func TestOwnerEarningsCapexFallback(t *testing.T) {
	m := richMetrics()
	m.AvgCapEx = models.NotDeterminable()

	res := NewOwnerEarningsModel(config.Default()).Evaluate(m, baseAssumptions(), m.SharesOutstanding)
	require.True(t, res.PerShare.Valid())
	assert.Contains(t, res.Notes, "maintenance capex approximated by depreciation")
}

func TestOwnerEarningsNonPositive(t *testing.T) {
	m := richMetrics()
	m.LatestNetIncome = models.Of(-600)
	m.DepreciationAmort = models.Of(100)

	res := NewOwnerEarningsModel(config.Default()).Evaluate(m, baseAssumptions(), m.SharesOutstanding)
	assert.False(t, res.PerShare.Valid())
	assert.Contains(t, res.Notes, "owner earnings non-positive for latest period")
}

func TestMultiplesEvaluate(t *testing.T) {
	m := richMetrics()
	res := NewMultiplesModel(config.Default()).Evaluate(m, baseAssumptions(), m.SharesOutstanding)

	got, ok := res.PerShare.Get()
	require.True(t, ok)
	assert.InDelta(t, 15*15*1.05/1.09, got, 1e-9)
}

func TestMultiplesNegativeEarnings(t *testing.T) {
	m := richMetrics()
	m.EarningsPerShare = models.Of(-2)

	res := NewMultiplesModel(config.Default()).Evaluate(m, baseAssumptions(), m.SharesOutstanding)
	assert.False(t, res.PerShare.Valid())
	assert.Contains(t, res.Notes, "earnings per share non-positive")
}

func TestModelsRequireShares(t *testing.T) {
	m := richMetrics()
	m.SharesOutstanding = models.NotDeterminable()
	cfg := config.Default()

	for _, model := range []Model{NewDCFModel(cfg), NewOwnerEarningsModel(cfg), NewMultiplesModel(cfg)} {
		res := model.Evaluate(m, baseAssumptions(), m.SharesOutstanding)
		assert.False(t, res.PerShare.Valid(), model.Name())
	}
}

func TestDriverRunAllOrderAndMonotonicity(t *testing.T) {
	cfg := config.Default()
	m := richMetrics()
	set := scenario.Set{
		Bear: scenario.Assumptions{Scenario: scenario.Bear, GrowthRate: 0.03, DiscountRate: 0.11, TerminalGrowth: 0.015, ExitMultiple: 12},
		Base: scenario.Assumptions{Scenario: scenario.Base, GrowthRate: 0.05, DiscountRate: 0.09, TerminalGrowth: 0.02, ExitMultiple: 15},
		Bull: scenario.Assumptions{Scenario: scenario.Bull, GrowthRate: 0.07, DiscountRate: 0.08, TerminalGrowth: 0.03, ExitMultiple: 18},
	}

	results := NewDriver(cfg).RunAll(m, set)
	require.Len(t, results, 9)

	// Model-major, scenario-minor, always the same order.
	order := []struct {
		model string
		tag   scenario.Tag
	}{
		{ModelDCF, scenario.Bear}, {ModelDCF, scenario.Base}, {ModelDCF, scenario.Bull},
		{ModelOwnerEarnings, scenario.Bear}, {ModelOwnerEarnings, scenario.Base}, {ModelOwnerEarnings, scenario.Bull},
		{ModelMultiples, scenario.Bear}, {ModelMultiples, scenario.Base}, {ModelMultiples, scenario.Bull},
	}
	for i, want := range order {
		assert.Equal(t, want.model, results[i].Model)
		assert.Equal(t, want.tag, results[i].Scenario)
	}

	// Estimates are ordered bear < base < bull for every model.
	for i := 0; i < 9; i += 3 {
		bear, ok := results[i].PerShare.Get()
		require.True(t, ok)
		base, ok := results[i+1].PerShare.Get()
		require.True(t, ok)
		bull, ok := results[i+2].PerShare.Get()
		require.True(t, ok)
		assert.Greater(t, base, bear, results[i].Model)
		assert.Greater(t, bull, base, results[i].Model)
	}
}

func TestResultsEchoAssumedDefaults(t *testing.T) {
	m := richMetrics()
	a := baseAssumptions()
	a.Assumed = []string{"growth_rate"}

	res := NewDCFModel(config.Default()).Evaluate(m, a, m.SharesOutstanding)
	assert.Contains(t, res.Notes, "assumed default growth_rate")
}
