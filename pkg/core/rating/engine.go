// Package rating blends the valuation signal with the four scoring dimensions
// into a single 0–100 composite and a discrete recommendation category.
package rating

import (
	"fmt"
	"strings"

	"github.com/Sly3ye/Stock-Analyst/pkg/core/config"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/scenario"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/scoring"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/valuation"
	"github.com/Sly3ye/Stock-Analyst/pkg/models"
)

// Category is the discrete recommendation, ordered worst to best.
type Category string

const (
	StrongSell Category = "strong_sell"
	Sell       Category = "sell"
	Hold       Category = "hold"
	Buy        Category = "buy"
	StrongBuy  Category = "strong_buy"
)

// ComponentValue names the valuation-derived component in the blend.
const ComponentValue = "value"

// Component is one input to the composite. Weight is the renormalized weight
// actually applied; a not-determinable Score carries weight zero.
type Component struct {
	Name   string       `json:"name"`
	Score  models.Value `json:"score"`
	Weight float64      `json:"weight"`
}

// Rating is the blended verdict for one ticker.
type Rating struct {
	Composite    models.Value `json:"composite"`
	Category     Category     `json:"category"`
	FairValue    models.Value `json:"fair_value"`
	CurrentPrice models.Value `json:"current_price"`
	Upside       models.Value `json:"upside"`
	Components   []Component  `json:"components"`

	// Excluded lists components that carried no weight, with the reason.
	Excluded []string `json:"excluded,omitempty"`
}

// FailedValuation records one (model, scenario) pair that produced no
// estimate, with the reason the model gave.
type FailedValuation struct {
	Model    string       `json:"model"`
	Scenario scenario.Tag `json:"scenario"`
	Reason   string       `json:"reason"`
}

// ValuationUnavailableError reports that no base-scenario model produced a
// per-share estimate, so no fair value exists to rate against.
type ValuationUnavailableError struct {
	Failures []FailedValuation
}

func (e *ValuationUnavailableError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s/%s: %s", f.Model, f.Scenario, f.Reason))
	}
	return "no base-scenario valuation available: " + strings.Join(parts, "; ")
}

// Engine blends scores per the configured weights and bands.
type Engine struct {
	cfg config.RatingConfig
}

// NewEngine creates a rating engine with the given blend policy.
func NewEngine(cfg config.Config) *Engine {
	return &Engine{cfg: cfg.Rating}
}

// Rate produces the composite rating. Fair value is the mean of the
// base-scenario estimates across models; if every base-scenario model failed
// there is nothing to anchor the value signal on and Rate returns a
// ValuationUnavailableError. A missing current price only drops the value
// component, with the remaining dimensions renormalized.
func (e *Engine) Rate(valuations []valuation.Result, subs []scoring.SubScore, currentPrice models.Value) (Rating, error) {
	fairValue, failures := baseFairValue(valuations)
	if !fairValue.Valid() {
		return Rating{}, &ValuationUnavailableError{Failures: failures}
	}

	r := Rating{
		FairValue:    fairValue,
		CurrentPrice: currentPrice,
		Upside:       models.NotDeterminable(),
	}
	// Base models that produced nothing still show up in the verdict trail.
	for _, f := range failures {
		r.Excluded = append(r.Excluded, fmt.Sprintf("%s/%s: %s", f.Model, f.Scenario, f.Reason))
	}

	valueScore := models.NotDeterminable()
	if price, ok := currentPrice.Get(); ok && price > 0 {
		fv, _ := fairValue.Get()
		upside := fv/price - 1
		r.Upside = models.Of(upside)
		// 0% upside is a neutral 50; every full point of upside or downside
		// moves the score by 100, clamped at the extremes.
		valueScore = models.Of(clamp(50+upside*100, 0, 100))
	} else {
		r.Excluded = append(r.Excluded, "value: current price unavailable")
	}

	components := []Component{
		{Name: ComponentValue, Score: valueScore, Weight: e.cfg.ValueWeight},
	}
	for _, sub := range subs {
		w := e.dimensionWeight(sub.Dimension)
		if !sub.Value.Valid() {
			r.Excluded = append(r.Excluded, sub.Dimension+": no scoreable metric")
		}
		components = append(components, Component{Name: sub.Dimension, Score: sub.Value, Weight: w})
	}

	var weightSum, blended float64
	for i := range components {
		if !components[i].Score.Valid() {
			components[i].Weight = 0
			continue
		}
		weightSum += components[i].Weight
	}
	if weightSum > 0 {
		for i := range components {
			score, ok := components[i].Score.Get()
			if !ok {
				continue
			}
			components[i].Weight /= weightSum
			blended += components[i].Weight * score
		}
		r.Composite = models.Of(blended)
		r.Category = e.categorize(blended)
	} else {
		r.Composite = models.NotDeterminable()
		r.Category = Hold
	}
	r.Components = components
	return r, nil
}

func (e *Engine) dimensionWeight(dimension string) float64 {
	switch dimension {
	case scoring.DimensionQuality:
		return e.cfg.QualityWeight
	case scoring.DimensionGrowth:
		return e.cfg.GrowthWeight
	case scoring.DimensionFinancialStrength:
		return e.cfg.FinancialStrengthWeight
	case scoring.DimensionStability:
		return e.cfg.StabilityWeight
	}
	return 0
}

func (e *Engine) categorize(composite float64) Category {
	categories := [5]Category{StrongSell, Sell, Hold, Buy, StrongBuy}
	for i, upper := range e.cfg.Bands {
		if composite < upper {
			return categories[i]
		}
	}
	return StrongBuy
}

// baseFairValue averages the determinable base-scenario estimates and
// collects the failures for error reporting.
func baseFairValue(valuations []valuation.Result) (models.Value, []FailedValuation) {
	var sum float64
	var n int
	var failures []FailedValuation
	for _, v := range valuations {
		if v.Scenario != scenario.Base {
			continue
		}
		if est, ok := v.PerShare.Get(); ok {
			sum += est
			n++
			continue
		}
		reason := "no estimate"
		if len(v.Notes) > 0 {
			reason = v.Notes[len(v.Notes)-1]
		}
		failures = append(failures, FailedValuation{Model: v.Model, Scenario: v.Scenario, Reason: reason})
	}
	if n == 0 {
		return models.NotDeterminable(), failures
	}
	return models.Of(sum / float64(n)), failures
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
