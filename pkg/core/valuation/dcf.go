package valuation

import (
	"github.com/Sly3ye/Stock-Analyst/pkg/core/config"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/metrics"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/scenario"
	"github.com/Sly3ye/Stock-Analyst/pkg/models"
)

// DCFModel projects normalized free cash flow over a fixed horizon at the
// scenario growth rate, discounts at the scenario rate, and adds a Gordon
// growth terminal value. Enterprise value less net debt, per share.
type DCFModel struct {
	horizon int
}

// NewDCFModel creates the model with the configured projection horizon.
func NewDCFModel(cfg config.Config) *DCFModel {
	return &DCFModel{horizon: cfg.Valuation.HorizonYears}
}

// Name implements Model.
func (d *DCFModel) Name() string { return ModelDCF }

// Evaluate implements Model.
func (d *DCFModel) Evaluate(m *metrics.MetricSet, a scenario.Assumptions, shares models.Value) Result {
	fcf0, ok := m.NormalizedFCF.Get()
	if !ok {
		return notDeterminable(ModelDCF, a, "normalized free cash flow not determinable")
	}
	// A terminal growth at or above the discount rate makes the Gordon
	// capitalization divergent; refuse rather than emit a negative value.
	if a.DiscountRate <= a.TerminalGrowth {
		return notDeterminable(ModelDCF, a, "discount rate must exceed terminal growth")
	}
	sh, ok := shares.Get()
	if !ok {
		return notDeterminable(ModelDCF, a, "shares outstanding unavailable")
	}

	pvForecast, finalFlow := projectAndDiscount(fcf0, a.GrowthRate, a.DiscountRate, d.horizon)
	terminal := gordonTerminal(finalFlow, a.DiscountRate, a.TerminalGrowth)
	pvTerminal := presentValue(terminal, a.DiscountRate, d.horizon)
	enterprise := pvForecast + pvTerminal

	notes := assumedNotes(a)
	netDebt := 0.0
	if nd, ok := m.NetDebt.Get(); ok {
		netDebt = nd
	} else {
		notes = append(notes, "net debt unavailable, equity value taken as enterprise value")
	}
	equity := enterprise - netDebt

	return Result{
		Model:    ModelDCF,
		Scenario: a.Scenario,
		PerShare: models.Of(equity / sh),
		Figures: []Figure{
			{Name: "normalized_fcf", Value: fcf0},
			{Name: "pv_forecast", Value: pvForecast},
			{Name: "terminal_value", Value: terminal},
			{Name: "pv_terminal", Value: pvTerminal},
			{Name: "enterprise_value", Value: enterprise},
			{Name: "net_debt", Value: netDebt},
			{Name: "equity_value", Value: equity},
		},
		Notes: notes,
	}
}
