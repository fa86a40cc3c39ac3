// Package analysis is the orchestrator: it runs metrics derivation, scenario
// construction, the valuation models, scoring, and rating in a fixed order and
// assembles the Report. All stages are pure; given the same snapshots, prices,
// and configuration the produced Report is byte-identical.
package analysis

import (
	"errors"
	"fmt"

	"github.com/Sly3ye/Stock-Analyst/pkg/core/config"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/metrics"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/rating"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/scenario"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/scoring"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/valuation"
	"github.com/Sly3ye/Stock-Analyst/pkg/models"
)

// Engine wires the full pipeline behind a single Analyze call.
type Engine struct {
	metrics    *metrics.Engine
	scenarios  *scenario.Builder
	valuations *valuation.Driver
	scores     *scoring.Aggregator
	ratings    *rating.Engine
}

// NewEngine constructs the pipeline from one validated configuration.
func NewEngine(cfg config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("analysis config: %w", err)
	}
	return &Engine{
		metrics:    metrics.NewEngine(cfg),
		scenarios:  scenario.NewBuilder(cfg),
		valuations: valuation.NewDriver(cfg),
		scores:     scoring.NewAggregator(cfg),
		ratings:    rating.NewEngine(cfg),
	}, nil
}

// Analyze runs the pipeline for one ticker. It fails only on invalid input;
// sparse data degrades into not-determinable fields and a possibly absent
// rating, never into an error.
func (e *Engine) Analyze(ticker string, snapshots []models.StatementSnapshot, prices models.PriceHistory) (*Report, error) {
	m, err := e.metrics.Compute(snapshots, prices)
	if err != nil {
		return nil, err
	}
	m.Ticker = ticker

	set := e.scenarios.Build(m)
	valuations := e.valuations.RunAll(m, set)
	subs := e.scores.Score(m)
	price := prices.LatestClose()

	report := &Report{
		Ticker:       ticker,
		CurrentPrice: price,
		Metrics:      m,
		Scenarios:    set,
		Valuations:   valuations,
		Summaries:    summarize(valuations),
		SubScores:    subs,
	}

	r, err := e.ratings.Rate(valuations, subs, price)
	if err != nil {
		var unavailable *rating.ValuationUnavailableError
		if !errors.As(err, &unavailable) {
			return nil, err
		}
		report.RatingError = unavailable.Error()
		return report, nil
	}
	report.Rating = &r
	return report, nil
}

// summarize collapses the model runs into one line per scenario, in the fixed
// scenario order.
func summarize(valuations []valuation.Result) []ScenarioSummary {
	out := make([]ScenarioSummary, 0, len(scenario.Tags))
	for _, tag := range scenario.Tags {
		var estimates []models.Value
		var total, produced int
		for _, v := range valuations {
			if v.Scenario != tag {
				continue
			}
			total++
			if v.PerShare.Valid() {
				produced++
				estimates = append(estimates, v.PerShare)
			}
		}
		summary := ScenarioSummary{
			Scenario:  tag,
			FairValue: models.MeanOf(estimates...),
		}
		if total > 0 {
			summary.Confidence = float64(produced) / float64(total)
		}
		out = append(out, summary)
	}
	return out
}
