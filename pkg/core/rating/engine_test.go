package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sly3ye/Stock-Analyst/pkg/core/config"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/scenario"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/scoring"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/valuation"
	"github.com/Sly3ye/Stock-Analyst/pkg/models"
)

func baseValuations(dcf, oe, mult models.Value) []valuation.Result {
	return []valuation.Result{
		{Model: valuation.ModelDCF, Scenario: scenario.Base, PerShare: dcf},
		{Model: valuation.ModelOwnerEarnings, Scenario: scenario.Base, PerShare: oe},
		{Model: valuation.ModelMultiples, Scenario: scenario.Base, PerShare: mult},
		// Bear and bull runs are present but never feed the fair value.
		{Model: valuation.ModelDCF, Scenario: scenario.Bear, PerShare: models.Of(1)},
		{Model: valuation.ModelDCF, Scenario: scenario.Bull, PerShare: models.Of(999)},
	}
}

func allSubScores(v float64) []scoring.SubScore {
	subs := make([]scoring.SubScore, 0, len(scoring.Dimensions))
	for _, dim := range scoring.Dimensions {
		subs = append(subs, scoring.SubScore{Dimension: dim, Value: models.Of(v)})
	}
	return subs
}

func TestRateBlendsValueAndDimensions(t *testing.T) {
	e := NewEngine(config.Default())
	vals := baseValuations(models.Of(100), models.Of(110), models.Of(120))

	r, err := e.Rate(vals, allSubScores(50), models.Of(100))
	require.NoError(t, err)

	fv, _ := r.FairValue.Get()
	assert.InDelta(t, 110, fv, 1e-9)
	upside, _ := r.Upside.Get()
	assert.InDelta(t, 0.10, upside, 1e-9)

	// Value score 60 at weight 0.35, four dimensions at 50 carrying 0.65.
	composite, ok := r.Composite.Get()
	require.True(t, ok)
	assert.InDelta(t, 0.35*60+0.65*50, composite, 1e-9)
	assert.Equal(t, Hold, r.Category)

	var weightSum float64
	for _, c := range r.Components {
		weightSum += c.Weight
	}
	assert.InDelta(t, 1.0, weightSum, 1e-9)
}

func TestRateFailsWithoutBaseValuation(t *testing.T) {
	e := NewEngine(config.Default())
	vals := []valuation.Result{
		{Model: valuation.ModelDCF, Scenario: scenario.Base, PerShare: models.NotDeterminable(), Notes: []string{"normalized free cash flow not determinable"}},
		{Model: valuation.ModelOwnerEarnings, Scenario: scenario.Base, PerShare: models.NotDeterminable(), Notes: []string{"owner earnings non-positive for latest period"}},
		{Model: valuation.ModelMultiples, Scenario: scenario.Base, PerShare: models.NotDeterminable(), Notes: []string{"earnings per share non-positive"}},
	}

	_, err := e.Rate(vals, allSubScores(50), models.Of(100))
	var unavailable *ValuationUnavailableError
	require.ErrorAs(t, err, &unavailable)
	require.Len(t, unavailable.Failures, 3)
	assert.Equal(t, valuation.ModelOwnerEarnings, unavailable.Failures[1].Model)
	assert.Contains(t, err.Error(), "owner earnings non-positive")
}

func TestRatePartialBaseFailuresStillRate(t *testing.T) {
	e := NewEngine(config.Default())
	vals := baseValuations(models.Of(100), models.NotDeterminable(), models.Of(120))

	r, err := e.Rate(vals, allSubScores(50), models.Of(100))
	require.NoError(t, err)
	fv, _ := r.FairValue.Get()
	assert.InDelta(t, 110, fv, 1e-9)
	require.Len(t, r.Excluded, 1)
	assert.Contains(t, r.Excluded[0], valuation.ModelOwnerEarnings)
}

func TestRateMissingPriceDropsValueComponent(t *testing.T) {
	e := NewEngine(config.Default())
	vals := baseValuations(models.Of(100), models.Of(110), models.Of(120))

	r, err := e.Rate(vals, allSubScores(70), models.NotDeterminable())
	require.NoError(t, err)

	assert.False(t, r.Upside.Valid())
	composite, ok := r.Composite.Get()
	require.True(t, ok)
	assert.InDelta(t, 70, composite, 1e-9)
	assert.Contains(t, r.Excluded, "value: current price unavailable")

	// The value component stays listed with zero weight.
	require.Equal(t, ComponentValue, r.Components[0].Name)
	assert.Equal(t, 0.0, r.Components[0].Weight)
}

func TestRateExtremeUpsideClamps(t *testing.T) {
	e := NewEngine(config.Default())
	vals := baseValuations(models.Of(100), models.Of(110), models.Of(120))

	r, err := e.Rate(vals, allSubScores(90), models.Of(25))
	require.NoError(t, err)

	// Upside of 340% clamps the value score at 100.
	score, _ := r.Components[0].Score.Get()
	assert.InDelta(t, 100, score, 1e-9)
	composite, _ := r.Composite.Get()
	assert.InDelta(t, 0.35*100+0.65*90, composite, 1e-9)
	assert.Equal(t, StrongBuy, r.Category)
}

func TestCategorizeBands(t *testing.T) {
	e := NewEngine(config.Default())
	cases := []struct {
		composite float64
		want      Category
	}{
		{0, StrongSell}, {19.9, StrongSell},
		{20, Sell}, {39.9, Sell},
		{40, Hold}, {59.9, Hold},
		{60, Buy}, {79.9, Buy},
		{80, StrongBuy}, {100, StrongBuy},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, e.categorize(c.composite), "composite %.1f", c.composite)
	}
}
