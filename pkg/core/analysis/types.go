package analysis

import (
	"github.com/Sly3ye/Stock-Analyst/pkg/core/metrics"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/rating"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/scenario"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/scoring"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/valuation"
	"github.com/Sly3ye/Stock-Analyst/pkg/models"
)

// ScenarioSummary condenses one scenario's model estimates: the mean fair
// value across models that produced one, and the fraction that did.
type ScenarioSummary struct {
	Scenario  scenario.Tag `json:"scenario"`
	FairValue models.Value `json:"fair_value"`

	// Confidence is the fraction of models that produced an estimate for
	// this scenario, in [0,1]. A fair value backed by one model out of
	// three carries less conviction than a unanimous one.
	Confidence float64 `json:"confidence"`
}

// Report is the complete output for one ticker: derived metrics, the scenario
// assumptions, all nine model runs, the per-scenario summaries, the four
// dimension scores, and the blended rating. It carries no timestamps or run
// identifiers, so identical inputs serialize to identical bytes.
type Report struct {
	Ticker       string              `json:"ticker"`
	CurrentPrice models.Value        `json:"current_price"`
	Metrics      *metrics.MetricSet  `json:"metrics"`
	Scenarios    scenario.Set        `json:"scenarios"`
	Valuations   []valuation.Result  `json:"valuations"`
	Summaries    []ScenarioSummary   `json:"summaries"`
	SubScores    []scoring.SubScore  `json:"sub_scores"`
	Rating       *rating.Rating      `json:"rating,omitempty"`

	// RatingError explains a missing Rating (every base-scenario model
	// failed). The rest of the report is still usable.
	RatingError string `json:"rating_error,omitempty"`
}
