// Package valuation implements the three independent per-share valuation
// strategies (DCF, owner earnings, multiples) behind a single Model
// capability, plus the driver that runs every model under every scenario.
package valuation

import (
	"math"

	"github.com/Sly3ye/Stock-Analyst/pkg/core/config"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/metrics"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/scenario"
	"github.com/Sly3ye/Stock-Analyst/pkg/models"
)

// Model names, also the fixed driver iteration order.
const (
	ModelDCF           = "dcf"
	ModelOwnerEarnings = "owner_earnings"
	ModelMultiples     = "multiples"
)

// Figure is one intermediate value kept for explanation.
type Figure struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Result is the outcome of one (model, scenario) evaluation. PerShare is
// not determinable when inputs are insufficient; Notes explain why, and list
// any assumption substitutions that flowed into the number.
type Result struct {
	Model    string       `json:"model"`
	Scenario scenario.Tag `json:"scenario"`
	PerShare models.Value `json:"per_share"`
	Figures  []Figure     `json:"figures,omitempty"`
	Notes    []string     `json:"notes,omitempty"`
}

// Model is a single valuation strategy: a pure function from metrics and
// scenario assumptions to a per-share estimate.
type Model interface {
	Name() string
	Evaluate(m *metrics.MetricSet, a scenario.Assumptions, shares models.Value) Result
}

// Driver runs every model under every scenario in a fixed order so the nine
// results are bit-reproducible for identical inputs.
type Driver struct {
	models []Model
}

// NewDriver wires the three standard models.
func NewDriver(cfg config.Config) *Driver {
	return &Driver{models: []Model{
		NewDCFModel(cfg),
		NewOwnerEarningsModel(cfg),
		NewMultiplesModel(cfg),
	}}
}

// RunAll evaluates all (model, scenario) pairs. A failed pair is recorded as
// a not-determinable Result; it never blocks the others.
func (d *Driver) RunAll(m *metrics.MetricSet, set scenario.Set) []Result {
	shares := m.SharesOutstanding
	results := make([]Result, 0, len(d.models)*len(scenario.Tags))
	for _, model := range d.models {
		for _, tag := range scenario.Tags {
			results = append(results, model.Evaluate(m, set.Get(tag), shares))
		}
	}
	return results
}

// notDeterminable builds the standard failure Result for a model run.
func notDeterminable(model string, a scenario.Assumptions, reason string) Result {
	return Result{
		Model:    model,
		Scenario: a.Scenario,
		PerShare: models.NotDeterminable(),
		Notes:    append(assumedNotes(a), reason),
	}
}

// assumedNotes echoes scenario-level default substitutions into the result
// trail so an assumed rate stays distinguishable from a measured one.
func assumedNotes(a scenario.Assumptions) []string {
	var notes []string
	for _, name := range a.Assumed {
		notes = append(notes, "assumed default "+name)
	}
	return notes
}

// presentValue discounts a single end-of-period cash flow.
func presentValue(cashFlow, rate float64, period int) float64 {
	return cashFlow / math.Pow(1+rate, float64(period))
}

// projectAndDiscount compounds a base flow at the growth rate over the
// horizon, discounting each year, and returns the PV sum plus the final-year
// flow for terminal valuation.
func projectAndDiscount(base, growth, discount float64, horizon int) (pvSum, finalFlow float64) {
	flow := base
	for t := 1; t <= horizon; t++ {
		flow *= 1 + growth
		pvSum += presentValue(flow, discount, t)
	}
	return pvSum, flow
}

// gordonTerminal capitalizes the year-after-horizon flow. Callers must have
// verified discount > growth.
func gordonTerminal(finalFlow, discount, terminalGrowth float64) float64 {
	return finalFlow * (1 + terminalGrowth) / (discount - terminalGrowth)
}
