package valuation

import (
	"github.com/Sly3ye/Stock-Analyst/pkg/core/config"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/metrics"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/scenario"
	"github.com/Sly3ye/Stock-Analyst/pkg/models"
)

// MultiplesModel applies the scenario's fair earnings multiple to next year's
// projected earnings per share and discounts the result back one period.
// Requires positive trailing earnings; a multiple on a loss is meaningless.
type MultiplesModel struct{}

// NewMultiplesModel creates the model. Stateless; everything it needs rides
// on the scenario assumptions.
func NewMultiplesModel(config.Config) *MultiplesModel {
	return &MultiplesModel{}
}

// Name implements Model.
func (mm *MultiplesModel) Name() string { return ModelMultiples }

// Evaluate implements Model.
func (mm *MultiplesModel) Evaluate(m *metrics.MetricSet, a scenario.Assumptions, shares models.Value) Result {
	if _, ok := shares.Get(); !ok {
		return notDeterminable(ModelMultiples, a, "shares outstanding unavailable")
	}
	eps, ok := m.EarningsPerShare.Get()
	if !ok {
		return notDeterminable(ModelMultiples, a, "earnings per share not determinable")
	}
	if eps <= 0 {
		return notDeterminable(ModelMultiples, a, "earnings per share non-positive")
	}

	projected := eps * (1 + a.GrowthRate)
	perShare := a.ExitMultiple * projected / (1 + a.DiscountRate)

	return Result{
		Model:    ModelMultiples,
		Scenario: a.Scenario,
		PerShare: models.Of(perShare),
		Figures: []Figure{
			{Name: "earnings_per_share", Value: eps},
			{Name: "projected_eps", Value: projected},
			{Name: "exit_multiple", Value: a.ExitMultiple},
		},
		Notes: assumedNotes(a),
	}
}
