// Package scoring maps derived fundamentals onto 0–100 dimension scores:
// quality, growth, financial strength, and stability. Each dimension is a
// weighted blend of range-scored metrics; metrics without data drop out and
// the remaining weights renormalize, so a sparse filing still scores on what
// it does disclose.
package scoring

import (
	"sort"

	"github.com/Sly3ye/Stock-Analyst/pkg/core/config"
	"github.com/Sly3ye/Stock-Analyst/pkg/core/metrics"
	"github.com/Sly3ye/Stock-Analyst/pkg/models"
)

// Dimension names, also the fixed output order.
const (
	DimensionQuality           = "quality"
	DimensionGrowth            = "growth"
	DimensionFinancialStrength = "financial_strength"
	DimensionStability         = "stability"
)

// Dimensions is the fixed iteration order for scoring work.
var Dimensions = [4]string{
	DimensionQuality,
	DimensionGrowth,
	DimensionFinancialStrength,
	DimensionStability,
}

// Contribution records how one metric entered a dimension score. Weight is
// the renormalized weight actually applied, not the configured one.
type Contribution struct {
	Metric string  `json:"metric"`
	Raw    float64 `json:"raw"`
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
}

// SubScore is one dimension's result. Value is not determinable when every
// input metric was; Excluded lists the metrics that dropped out.
type SubScore struct {
	Dimension     string         `json:"dimension"`
	Value         models.Value   `json:"value"`
	Contributions []Contribution `json:"contributions,omitempty"`
	Excluded      []string       `json:"excluded,omitempty"`
}

// scoreband maps a raw metric onto [0,100] linearly between low and high,
// clamped outside. For penalty metrics (leverage, volatility) the raw value
// is negated first so that lower is better still scores higher.
type scoreband struct {
	low, high float64
	negate    bool
}

// Banding per metric. Ranges are calibrated so a typical healthy large-cap
// lands in the 50–80 region on each.
var bands = map[string]scoreband{
	metrics.MetricOperatingMarginAvg: {low: 0.05, high: 0.30},
	metrics.MetricNetMarginAvg:       {low: 0.03, high: 0.20},
	metrics.MetricReturnOnEquity:     {low: 0.00, high: 0.25},

	metrics.MetricRevenueCAGR:   {low: 0.00, high: 0.15},
	metrics.MetricFCFCAGR:       {low: 0.00, high: 0.15},
	metrics.MetricNetIncomeCAGR: {low: 0.00, high: 0.15},

	metrics.MetricDebtToEquity: {low: -2.5, high: 0, negate: true},
	metrics.MetricCurrentRatio: {low: 1.0, high: 3.0},
	metrics.MetricQuickRatio:   {low: 0.7, high: 2.0},

	metrics.MetricNetIncomeVolatility:       {low: -1.0, high: 0, negate: true},
	metrics.MetricFCFVolatility:             {low: -1.0, high: 0, negate: true},
	metrics.MetricOperatingMarginVolatility: {low: -0.15, high: 0, negate: true},
	metrics.MetricPriceVolatility:           {low: -0.60, high: -0.15, negate: true},
}

// Aggregator computes the four dimension scores from a MetricSet.
type Aggregator struct {
	cfg config.ScoringConfig
}

// NewAggregator creates an aggregator with the given weight tables.
func NewAggregator(cfg config.Config) *Aggregator {
	return &Aggregator{cfg: cfg.Scoring}
}

// Score computes every dimension in fixed order. It never fails: a dimension
// with no scoreable metric comes back not determinable rather than zero.
func (a *Aggregator) Score(m *metrics.MetricSet) []SubScore {
	out := make([]SubScore, 0, len(Dimensions))
	for _, dim := range Dimensions {
		out = append(out, a.scoreDimension(dim, a.weights(dim), m))
	}
	return out
}

func (a *Aggregator) weights(dimension string) config.DimensionWeights {
	switch dimension {
	case DimensionQuality:
		return a.cfg.Quality
	case DimensionGrowth:
		return a.cfg.Growth
	case DimensionFinancialStrength:
		return a.cfg.FinancialStrength
	case DimensionStability:
		return a.cfg.Stability
	}
	return nil
}

func (a *Aggregator) scoreDimension(dimension string, weights config.DimensionWeights, m *metrics.MetricSet) SubScore {
	// Map iteration order is random; sort so contributions and the blended
	// score are reproducible run to run.
	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	sort.Strings(names)

	sub := SubScore{Dimension: dimension}
	var weightSum float64
	for _, name := range names {
		raw, ok := m.Get(name).Get()
		if !ok {
			sub.Excluded = append(sub.Excluded, name)
			continue
		}
		sub.Contributions = append(sub.Contributions, Contribution{
			Metric: name,
			Raw:    raw,
			Score:  scoreMetric(name, raw),
			Weight: weights[name],
		})
		weightSum += weights[name]
	}
	if weightSum == 0 {
		sub.Value = models.NotDeterminable()
		return sub
	}

	var blended float64
	for i := range sub.Contributions {
		sub.Contributions[i].Weight /= weightSum
		blended += sub.Contributions[i].Weight * sub.Contributions[i].Score
	}
	sub.Value = models.Of(blended)
	return sub
}

// scoreMetric maps one raw metric onto [0,100]. A metric without a configured
// band scores the neutral midpoint; that keeps an experimental weight table
// from silently zeroing a dimension.
func scoreMetric(name string, raw float64) float64 {
	band, ok := bands[name]
	if !ok {
		return 50
	}
	if band.negate {
		raw = -raw
	}
	return scoreRange(raw, band.low, band.high)
}

// scoreRange maps value linearly from [low, high] onto [0, 100], clamped.
func scoreRange(value, low, high float64) float64 {
	if value <= low {
		return 0
	}
	if value >= high {
		return 100
	}
	return 100 * (value - low) / (high - low)
}
