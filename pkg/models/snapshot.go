package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidInput marks malformed snapshot or price data rejected at the
// engine boundary before any derived computation runs.
var ErrInvalidInput = errors.New("invalid input")

// StatementSnapshot holds one reporting period's cleaned line items across
// the three statements. Fields are pointers because absence means
// "not disclosed", not zero — the cleaner upstream is responsible for
// null-explicit data, this package only carries it.
type StatementSnapshot struct {
	Ticker    string    `json:"ticker"`
	PeriodEnd time.Time `json:"period_end"`

	// Income statement
	Revenue         *float64 `json:"revenue"`
	GrossProfit     *float64 `json:"gross_profit"`
	OperatingIncome *float64 `json:"operating_income"`
	NetIncome       *float64 `json:"net_income"`

	// Balance sheet
	TotalAssets        *float64 `json:"total_assets"`
	TotalEquity        *float64 `json:"total_equity"`
	TotalDebt          *float64 `json:"total_debt"`
	Cash               *float64 `json:"cash"`
	CurrentAssets      *float64 `json:"current_assets"`
	CurrentLiabilities *float64 `json:"current_liabilities"`
	Receivables        *float64 `json:"receivables"`

	// Cash flow statement
	OperatingCashFlow *float64 `json:"operating_cash_flow"`
	CapEx             *float64 `json:"capital_expenditure"`
	DepreciationAmort *float64 `json:"depreciation_amort"`

	SharesOutstanding *float64 `json:"shares_outstanding"`
}

// Validate rejects snapshots that no cleaner should ever emit.
func (s *StatementSnapshot) Validate() error {
	if s.PeriodEnd.IsZero() {
		return fmt.Errorf("%w: snapshot missing period end date", ErrInvalidInput)
	}
	if s.SharesOutstanding != nil && *s.SharesOutstanding < 0 {
		return fmt.Errorf("%w: negative shares outstanding (%f) at %s",
			ErrInvalidInput, *s.SharesOutstanding, s.PeriodEnd.Format("2006-01-02"))
	}
	return nil
}

// FreeCashFlow derives FCF for the period when both components are disclosed.
// CapEx may be reported either as a negative outflow or an absolute amount;
// the magnitude is subtracted either way.
func (s *StatementSnapshot) FreeCashFlow() Value {
	if s.OperatingCashFlow == nil || s.CapEx == nil {
		return NotDeterminable()
	}
	capex := *s.CapEx
	if capex < 0 {
		capex = -capex
	}
	return Of(*s.OperatingCashFlow - capex)
}

// PricePoint is one day's closing price.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceHistory is an ordered (oldest first) series of closes for one company.
type PriceHistory struct {
	Ticker string       `json:"ticker"`
	Points []PricePoint `json:"points"`
}

// LatestClose returns the most recent close, or NotDeterminable for an
// empty or non-positive series tail.
func (p PriceHistory) LatestClose() Value {
	if len(p.Points) == 0 {
		return NotDeterminable()
	}
	last := p.Points[len(p.Points)-1].Close
	if last <= 0 {
		return NotDeterminable()
	}
	return Of(last)
}

// Validate checks ordering and positivity of the series.
func (p PriceHistory) Validate() error {
	for i, pt := range p.Points {
		if pt.Close < 0 {
			return fmt.Errorf("%w: negative close %f at %s",
				ErrInvalidInput, pt.Close, pt.Date.Format("2006-01-02"))
		}
		if i > 0 && pt.Date.Before(p.Points[i-1].Date) {
			return fmt.Errorf("%w: price history not in ascending date order at %s",
				ErrInvalidInput, pt.Date.Format("2006-01-02"))
		}
	}
	return nil
}
