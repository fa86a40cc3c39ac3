package metrics

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/Sly3ye/Stock-Analyst/pkg/core/config"
	"github.com/Sly3ye/Stock-Analyst/pkg/models"
)

// tradingDaysPerYear annualizes daily return volatility.
const tradingDaysPerYear = 252

// growthWindow is the target number of annual periods for endpoint CAGR.
const growthWindow = 3

// Engine computes a MetricSet from snapshots and prices. Pure: it never
// mutates its inputs and reads no external state.
type Engine struct {
	cfg config.Config
}

// NewEngine creates a metrics engine with the given policy.
func NewEngine(cfg config.Config) *Engine {
	return &Engine{cfg: cfg}
}

// observation is one dated value of a statement series.
type observation struct {
	date  float64 // years since the first snapshot, for CAGR spans
	value float64
}

// Compute derives the full metric set. Snapshots are validated at this
// boundary; malformed input is rejected before any derivation runs.
func (e *Engine) Compute(snapshots []models.StatementSnapshot, prices models.PriceHistory) (*MetricSet, error) {
	if len(snapshots) == 0 {
		return nil, fmt.Errorf("%w: at least one snapshot is required", models.ErrInvalidInput)
	}
	for i := range snapshots {
		if err := snapshots[i].Validate(); err != nil {
			return nil, err
		}
	}
	if err := prices.Validate(); err != nil {
		return nil, err
	}

	// Work on an ordered copy; the caller's slice is left untouched.
	ordered := make([]models.StatementSnapshot, len(snapshots))
	copy(ordered, snapshots)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].PeriodEnd.Before(ordered[j].PeriodEnd)
	})

	latest := &ordered[len(ordered)-1]
	lookback := e.cfg.Valuation.FCFLookback

	m := &MetricSet{
		Ticker:       latest.Ticker,
		Periods:      len(ordered),
		LatestPeriod: latest.PeriodEnd,
	}

	// Margins, latest period
	m.GrossMargin = ratio(latest.GrossProfit, latest.Revenue)
	m.OperatingMargin = ratio(latest.OperatingIncome, latest.Revenue)
	m.NetMargin = ratio(latest.NetIncome, latest.Revenue)

	fcfLatest := latest.FreeCashFlow()
	m.FCFMargin = valueRatio(fcfLatest, deref(latest.Revenue))
	m.FCFToNetIncome = fcfToNetIncome(fcfLatest, latest.NetIncome)

	// Trailing margin averages and margin volatility
	opMargins := marginSeries(ordered, func(s *models.StatementSnapshot) models.Value {
		return ratio(s.OperatingIncome, s.Revenue)
	})
	netMargins := marginSeries(ordered, func(s *models.StatementSnapshot) models.Value {
		return ratio(s.NetIncome, s.Revenue)
	})
	m.AvgOperatingMargin = trailingMean(opMargins, lookback, 3)
	m.AvgNetMargin = trailingMean(netMargins, lookback, 3)
	m.OperatingMarginVolatility = trailingStdDev(opMargins, lookback, 3)

	// Returns
	m.ReturnOnEquity = returnOnEquity(ordered)
	m.ReturnOnInvestedCapital = returnOnInvestedCapital(latest)

	// Growth
	revSeries := series(ordered, func(s *models.StatementSnapshot) *float64 { return s.Revenue })
	niSeries := series(ordered, func(s *models.StatementSnapshot) *float64 { return s.NetIncome })
	fcfSeries := fcfObservations(ordered)
	m.RevenueCAGR = endpointCAGR(revSeries, growthWindow)
	m.NetIncomeCAGR = endpointCAGR(niSeries, growthWindow)
	m.FCFCAGR = endpointCAGR(fcfSeries, growthWindow)
	m.RevenueGrowthYoY = latestGrowth(revSeries)

	// Leverage & liquidity from the latest balance sheet
	m.DebtToEquity = positiveDenomRatio(latest.TotalDebt, latest.TotalEquity)
	m.DebtToAssets = positiveDenomRatio(latest.TotalDebt, latest.TotalAssets)
	m.NetDebt = netDebt(latest)
	m.CurrentRatio = positiveDenomRatio(latest.CurrentAssets, latest.CurrentLiabilities)
	m.QuickRatio = quickRatio(latest)

	// Cash flow & valuation inputs
	m.NormalizedFCF = trailingMean(toValues(fcfSeries), lookback, 1)
	m.LatestNetIncome = deref(latest.NetIncome)
	m.LatestRevenue = deref(latest.Revenue)
	m.DepreciationAmort = deref(latest.DepreciationAmort)
	m.AvgCapEx = avgAbsCapEx(ordered, lookback)
	m.SharesOutstanding = positiveOnly(deref(latest.SharesOutstanding))

	// Per-share
	m.EarningsPerShare = valueRatio(deref(latest.NetIncome), m.SharesOutstanding)
	m.BookValuePerShare = valueRatio(positiveOnly(deref(latest.TotalEquity)), m.SharesOutstanding)
	m.FCFPerShare = valueRatio(fcfLatest, m.SharesOutstanding)

	// Stability signals
	m.NetIncomeVolatility = variationCoefficient(toValues(niSeries), lookback)
	m.FCFVolatility = variationCoefficient(toValues(fcfSeries), lookback)
	m.PriceVolatility = annualizedVolatility(prices)
	m.MaxDrawdown = maxDrawdown(prices)

	return m, nil
}

// ratio divides two disclosed line items; not determinable when either side
// is missing or the denominator is zero.
func ratio(num, den *float64) models.Value {
	if num == nil || den == nil || *den == 0 {
		return models.NotDeterminable()
	}
	return models.Of(*num / *den)
}

// positiveDenomRatio additionally requires a strictly positive denominator,
// for ratios that are meaningless against a zero-or-negative base.
func positiveDenomRatio(num, den *float64) models.Value {
	if num == nil || den == nil || *den <= 0 {
		return models.NotDeterminable()
	}
	return models.Of(*num / *den)
}

func valueRatio(num models.Value, den models.Value) models.Value {
	n, ok := num.Get()
	if !ok {
		return models.NotDeterminable()
	}
	d, ok := den.Get()
	if !ok || d == 0 {
		return models.NotDeterminable()
	}
	return models.Of(n / d)
}

func deref(p *float64) models.Value {
	if p == nil {
		return models.NotDeterminable()
	}
	return models.Of(*p)
}

func positiveOnly(v models.Value) models.Value {
	if f, ok := v.Get(); ok && f > 0 {
		return v
	}
	return models.NotDeterminable()
}

func fcfToNetIncome(fcf models.Value, netIncome *float64) models.Value {
	f, ok := fcf.Get()
	if !ok || netIncome == nil || math.Abs(*netIncome) < 1e-6 {
		return models.NotDeterminable()
	}
	return models.Of(f / *netIncome)
}

// returnOnEquity uses the average of the latest and prior equity when both
// are disclosed; not determinable when the average is non-positive.
func returnOnEquity(ordered []models.StatementSnapshot) models.Value {
	latest := &ordered[len(ordered)-1]
	if latest.NetIncome == nil || latest.TotalEquity == nil {
		return models.NotDeterminable()
	}
	avgEquity := *latest.TotalEquity
	if len(ordered) > 1 {
		if prior := ordered[len(ordered)-2].TotalEquity; prior != nil {
			avgEquity = (avgEquity + *prior) / 2
		}
	}
	if avgEquity <= 0 {
		return models.NotDeterminable()
	}
	return models.Of(*latest.NetIncome / avgEquity)
}

func returnOnInvestedCapital(latest *models.StatementSnapshot) models.Value {
	if latest.OperatingIncome == nil || latest.TotalEquity == nil || latest.TotalDebt == nil {
		return models.NotDeterminable()
	}
	invested := *latest.TotalEquity + *latest.TotalDebt
	if invested <= 0 {
		return models.NotDeterminable()
	}
	return models.Of(*latest.OperatingIncome / invested)
}

func netDebt(latest *models.StatementSnapshot) models.Value {
	if latest.TotalDebt == nil || latest.Cash == nil {
		return models.NotDeterminable()
	}
	return models.Of(*latest.TotalDebt - *latest.Cash)
}

func quickRatio(latest *models.StatementSnapshot) models.Value {
	if latest.Cash == nil || latest.Receivables == nil ||
		latest.CurrentLiabilities == nil || *latest.CurrentLiabilities <= 0 {
		return models.NotDeterminable()
	}
	return models.Of((*latest.Cash + *latest.Receivables) / *latest.CurrentLiabilities)
}

// series extracts the dated observations for one line item, skipping
// undisclosed periods. Dates are converted to fractional years from the
// first snapshot so CAGR spans survive irregular reporting gaps.
func series(ordered []models.StatementSnapshot, pick func(*models.StatementSnapshot) *float64) []observation {
	origin := ordered[0].PeriodEnd
	var out []observation
	for i := range ordered {
		if p := pick(&ordered[i]); p != nil {
			years := ordered[i].PeriodEnd.Sub(origin).Hours() / 24 / 365.25
			out = append(out, observation{date: years, value: *p})
		}
	}
	return out
}

func fcfObservations(ordered []models.StatementSnapshot) []observation {
	origin := ordered[0].PeriodEnd
	var out []observation
	for i := range ordered {
		if f, ok := ordered[i].FreeCashFlow().Get(); ok {
			years := ordered[i].PeriodEnd.Sub(origin).Hours() / 24 / 365.25
			out = append(out, observation{date: years, value: f})
		}
	}
	return out
}

func toValues(obs []observation) []models.Value {
	out := make([]models.Value, len(obs))
	for i, o := range obs {
		out[i] = models.Of(o.value)
	}
	return out
}

// endpointCAGR computes compound annual growth between the present value
// `window` observations back and the most recent one. Gaps are skipped, never
// interpolated; the elapsed calendar span between the two endpoints sets the
// annualization, so a gap widens the span rather than inflating the rate.
func endpointCAGR(obs []observation, window int) models.Value {
	if len(obs) < 2 {
		return models.NotDeterminable()
	}
	startIdx := len(obs) - 1 - window
	if startIdx < 0 {
		startIdx = 0
	}
	start, end := obs[startIdx], obs[len(obs)-1]
	if start.value <= 0 || end.value <= 0 {
		return models.NotDeterminable()
	}
	span := end.date - start.date
	if span < 0.5 {
		return models.NotDeterminable()
	}
	return models.Of(math.Pow(end.value/start.value, 1/span) - 1)
}

// latestGrowth is the plain period-over-period change between the two most
// recent disclosed values.
func latestGrowth(obs []observation) models.Value {
	if len(obs) < 2 {
		return models.NotDeterminable()
	}
	prev := obs[len(obs)-2].value
	if prev == 0 {
		return models.NotDeterminable()
	}
	cur := obs[len(obs)-1].value
	return models.Of((cur - prev) / math.Abs(prev))
}

// trailingMean averages the last `lookback` determinable values; not
// determinable below `minCount` observations.
func trailingMean(values []models.Value, lookback, minCount int) models.Value {
	window := tail(values, lookback)
	if len(window) < minCount {
		return models.NotDeterminable()
	}
	return models.Of(stat.Mean(window, nil))
}

func trailingStdDev(values []models.Value, lookback, minCount int) models.Value {
	window := tail(values, lookback)
	if len(window) < minCount {
		return models.NotDeterminable()
	}
	return models.Of(stat.StdDev(window, nil))
}

// variationCoefficient is stddev over mean magnitude of the trailing window,
// the stability measure used for earnings and cash flow series. Requires at
// least three observations.
func variationCoefficient(values []models.Value, lookback int) models.Value {
	window := tail(values, lookback)
	if len(window) < 3 {
		return models.NotDeterminable()
	}
	mean, std := stat.MeanStdDev(window, nil)
	return models.Of(std / (math.Abs(mean) + 1e-6))
}

func tail(values []models.Value, lookback int) []float64 {
	var clean []float64
	for _, v := range values {
		if f, ok := v.Get(); ok {
			clean = append(clean, f)
		}
	}
	if len(clean) > lookback {
		clean = clean[len(clean)-lookback:]
	}
	return clean
}

func avgAbsCapEx(ordered []models.StatementSnapshot, lookback int) models.Value {
	var vals []models.Value
	for i := range ordered {
		if ordered[i].CapEx != nil {
			vals = append(vals, models.Of(math.Abs(*ordered[i].CapEx)))
		}
	}
	return trailingMean(vals, lookback, 1)
}

// annualizedVolatility is the sample standard deviation of daily returns
// scaled by sqrt(252).
func annualizedVolatility(prices models.PriceHistory) models.Value {
	returns := dailyReturns(prices)
	if len(returns) < 2 {
		return models.NotDeterminable()
	}
	return models.Of(stat.StdDev(returns, nil) * math.Sqrt(tradingDaysPerYear))
}

// maxDrawdown is the deepest peak-to-trough loss over the full history,
// expressed as a negative fraction.
func maxDrawdown(prices models.PriceHistory) models.Value {
	if len(prices.Points) == 0 {
		return models.NotDeterminable()
	}
	peak := prices.Points[0].Close
	if peak <= 0 {
		return models.NotDeterminable()
	}
	worst := 0.0
	for _, pt := range prices.Points {
		if pt.Close > peak {
			peak = pt.Close
		}
		if peak > 0 {
			dd := (pt.Close - peak) / peak
			if dd < worst {
				worst = dd
			}
		}
	}
	return models.Of(worst)
}

func dailyReturns(prices models.PriceHistory) []float64 {
	var out []float64
	for i := 1; i < len(prices.Points); i++ {
		prev := prices.Points[i-1].Close
		if prev <= 0 {
			continue
		}
		out = append(out, prices.Points[i].Close/prev-1)
	}
	return out
}

func marginSeries(ordered []models.StatementSnapshot, pick func(*models.StatementSnapshot) models.Value) []models.Value {
	out := make([]models.Value, 0, len(ordered))
	for i := range ordered {
		out = append(out, pick(&ordered[i]))
	}
	return out
}
