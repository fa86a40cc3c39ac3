// Package metrics derives the fundamental ratio set from a sequence of
// cleaned statement snapshots plus price history. Every derived quantity is
// either a finite number or explicitly not determinable; nothing here
// substitutes zero for missing data.
package metrics

import (
	"time"

	"github.com/Sly3ye/Stock-Analyst/pkg/models"
)

// Metric names used by the scoring weight tables. Keys here must match the
// keys in config.ScoringConfig.
const (
	MetricOperatingMarginAvg = "operating_margin_avg"
	MetricNetMarginAvg       = "net_margin_avg"
	MetricReturnOnEquity     = "return_on_equity"

	MetricRevenueCAGR   = "revenue_cagr"
	MetricFCFCAGR       = "fcf_cagr"
	MetricNetIncomeCAGR = "net_income_cagr"

	MetricDebtToEquity = "debt_to_equity"
	MetricCurrentRatio = "current_ratio"
	MetricQuickRatio   = "quick_ratio"

	MetricNetIncomeVolatility       = "net_income_volatility"
	MetricFCFVolatility             = "fcf_volatility"
	MetricOperatingMarginVolatility = "operating_margin_volatility"
	MetricPriceVolatility           = "price_volatility"
)

// MetricSet is the derived fundamentals for one analysis run. Percentage-like
// values are fractions (0.15, not 15). It is computed fresh per run and never
// persisted as authoritative state.
type MetricSet struct {
	Ticker       string    `json:"ticker"`
	Periods      int       `json:"periods"`
	LatestPeriod time.Time `json:"latest_period"`

	// Margins (latest period)
	GrossMargin     models.Value `json:"gross_margin"`
	OperatingMargin models.Value `json:"operating_margin"`
	NetMargin       models.Value `json:"net_margin"`
	FCFMargin       models.Value `json:"fcf_margin"`
	FCFToNetIncome  models.Value `json:"fcf_to_net_income"`

	// Trailing averages used by the quality dimension
	AvgOperatingMargin models.Value `json:"operating_margin_avg"`
	AvgNetMargin       models.Value `json:"net_margin_avg"`

	// Returns
	ReturnOnEquity          models.Value `json:"return_on_equity"`
	ReturnOnInvestedCapital models.Value `json:"return_on_invested_capital"`

	// Growth (fractions per year, endpoint CAGR over the trailing window)
	RevenueCAGR      models.Value `json:"revenue_cagr"`
	NetIncomeCAGR    models.Value `json:"net_income_cagr"`
	FCFCAGR          models.Value `json:"fcf_cagr"`
	RevenueGrowthYoY models.Value `json:"revenue_growth_yoy"`

	// Leverage & liquidity (latest balance sheet)
	DebtToEquity models.Value `json:"debt_to_equity"`
	DebtToAssets models.Value `json:"debt_to_assets"`
	NetDebt      models.Value `json:"net_debt"`
	CurrentRatio models.Value `json:"current_ratio"`
	QuickRatio   models.Value `json:"quick_ratio"`

	// Cash flow & valuation inputs
	NormalizedFCF     models.Value `json:"normalized_fcf"`
	LatestNetIncome   models.Value `json:"latest_net_income"`
	LatestRevenue     models.Value `json:"latest_revenue"`
	DepreciationAmort models.Value `json:"depreciation_amort"`
	AvgCapEx          models.Value `json:"avg_capex"`
	SharesOutstanding models.Value `json:"shares_outstanding"`

	// Per-share
	EarningsPerShare  models.Value `json:"earnings_per_share"`
	BookValuePerShare models.Value `json:"book_value_per_share"`
	FCFPerShare       models.Value `json:"fcf_per_share"`

	// Stability signals
	NetIncomeVolatility       models.Value `json:"net_income_volatility"`
	FCFVolatility             models.Value `json:"fcf_volatility"`
	OperatingMarginVolatility models.Value `json:"operating_margin_volatility"`
	PriceVolatility           models.Value `json:"price_volatility"`
	MaxDrawdown               models.Value `json:"max_drawdown"`
}

// Get resolves a named metric for the scoring weight tables.
// Unknown names resolve to NotDeterminable.
func (m *MetricSet) Get(name string) models.Value {
	switch name {
	case MetricOperatingMarginAvg:
		return m.AvgOperatingMargin
	case MetricNetMarginAvg:
		return m.AvgNetMargin
	case MetricReturnOnEquity:
		return m.ReturnOnEquity
	case MetricRevenueCAGR:
		return m.RevenueCAGR
	case MetricFCFCAGR:
		return m.FCFCAGR
	case MetricNetIncomeCAGR:
		return m.NetIncomeCAGR
	case MetricDebtToEquity:
		return m.DebtToEquity
	case MetricCurrentRatio:
		return m.CurrentRatio
	case MetricQuickRatio:
		return m.QuickRatio
	case MetricNetIncomeVolatility:
		return m.NetIncomeVolatility
	case MetricFCFVolatility:
		return m.FCFVolatility
	case MetricOperatingMarginVolatility:
		return m.OperatingMarginVolatility
	case MetricPriceVolatility:
		return m.PriceVolatility
	}
	return models.NotDeterminable()
}
