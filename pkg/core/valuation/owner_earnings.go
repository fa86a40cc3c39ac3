package valuation

import (
	"github.com/Sly3ye/Stock-Analyst/pkg/core/config"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/metrics"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/scenario"
	"github.com/Sly3ye/Stock-Analyst/pkg/models"
)

// OwnerEarningsModel values the equity from owner earnings: net income plus
// depreciation and amortization, less an approximation of maintenance capex.
// Owner earnings flow to equity holders directly, so there is no net-debt
// adjustment; projection and discounting mirror the DCF model.
type OwnerEarningsModel struct {
	horizon         int
	maintCapexRatio float64
}

// NewOwnerEarningsModel creates the model with the configured horizon and
// maintenance-capex heuristic.
func NewOwnerEarningsModel(cfg config.Config) *OwnerEarningsModel {
	return &OwnerEarningsModel{
		horizon:         cfg.Valuation.HorizonYears,
		maintCapexRatio: cfg.Valuation.MaintenanceCapexRatio,
	}
}

// Name implements Model.
func (o *OwnerEarningsModel) Name() string { return ModelOwnerEarnings }

// Evaluate implements Model.
func (o *OwnerEarningsModel) Evaluate(m *metrics.MetricSet, a scenario.Assumptions, shares models.Value) Result {
	ni, ok := m.LatestNetIncome.Get()
	if !ok {
		return notDeterminable(ModelOwnerEarnings, a, "net income not disclosed for latest period")
	}
	da, ok := m.DepreciationAmort.Get()
	if !ok {
		return notDeterminable(ModelOwnerEarnings, a, "depreciation and amortization not disclosed")
	}
	if a.DiscountRate <= a.TerminalGrowth {
		return notDeterminable(ModelOwnerEarnings, a, "discount rate must exceed terminal growth")
	}
	sh, ok := shares.Get()
	if !ok {
		return notDeterminable(ModelOwnerEarnings, a, "shares outstanding unavailable")
	}

	notes := assumedNotes(a)
	var maintCapex float64
	if capex, ok := m.AvgCapEx.Get(); ok {
		maintCapex = o.maintCapexRatio * capex
	} else {
		// Without disclosed capex, assume the asset base is maintained at
		// the rate it depreciates.
		maintCapex = da
		notes = append(notes, "maintenance capex approximated by depreciation")
	}

	oe := ni + da - maintCapex
	if oe <= 0 {
		return notDeterminable(ModelOwnerEarnings, a, "owner earnings non-positive for latest period")
	}

	pvForecast, finalFlow := projectAndDiscount(oe, a.GrowthRate, a.DiscountRate, o.horizon)
	terminal := gordonTerminal(finalFlow, a.DiscountRate, a.TerminalGrowth)
	pvTerminal := presentValue(terminal, a.DiscountRate, o.horizon)
	equity := pvForecast + pvTerminal

	return Result{
		Model:    ModelOwnerEarnings,
		Scenario: a.Scenario,
		PerShare: models.Of(equity / sh),
		Figures: []Figure{
			{Name: "owner_earnings", Value: oe},
			{Name: "maintenance_capex", Value: maintCapex},
			{Name: "pv_forecast", Value: pvForecast},
			{Name: "terminal_value", Value: terminal},
			{Name: "pv_terminal", Value: pvTerminal},
			{Name: "equity_value", Value: equity},
		},
		Notes: notes,
	}
}
