// Package valuation prices the target on a standalone basis: intrinsic value
// by DCF, market value by trading and transaction comparables, and the
// football field that lays the ranges side by side against the offer.
package valuation

import (
	"merger_model/pkg/core/company"
	"merger_model/pkg/core/finerr"
)

// DCFAssumptions drives the standalone cash flow projection. Growth and
// margin schedules shorter than the horizon hold their last value.
type DCFAssumptions struct {
	ProjectionYears     int       `json:"projection_years" yaml:"projection_years"`
	RevenueGrowthRates  []float64 `json:"revenue_growth_rates" yaml:"revenue_growth_rates"`
	EBITDAMargins       []float64 `json:"ebitda_margins" yaml:"ebitda_margins"`
	CapexPercentRevenue float64   `json:"capex_percent_revenue" yaml:"capex_percent_revenue"`
	DAPercentRevenue    float64   `json:"da_percent_revenue" yaml:"da_percent_revenue"`
	NWCPercentRevenue   float64   `json:"nwc_percent_revenue" yaml:"nwc_percent_revenue"`
	TaxRate             float64   `json:"tax_rate" yaml:"tax_rate"`
	TerminalGrowthRate  float64   `json:"terminal_growth_rate" yaml:"terminal_growth_rate"`
	WACC                float64   `json:"wacc" yaml:"wacc"`
}

// DefaultDCFAssumptions returns the standard fading-growth assumption set.
func DefaultDCFAssumptions() DCFAssumptions {
	return DCFAssumptions{
		ProjectionYears:     5,
		RevenueGrowthRates:  []float64{0.10, 0.08, 0.06, 0.05, 0.04},
		EBITDAMargins:       []float64{0.20, 0.21, 0.22, 0.22, 0.22},
		CapexPercentRevenue: 0.04,
		DAPercentRevenue:    0.03,
		NWCPercentRevenue:   0.10,
		TaxRate:             0.21,
		TerminalGrowthRate:  0.025,
		WACC:                0.09,
	}
}

// DCFYear is one projected year of unlevered free cash flow.
type DCFYear struct {
	Year    int     `json:"year"`
	Revenue float64 `json:"revenue"`
	EBITDA  float64 `json:"ebitda"`
	EBIT    float64 `json:"ebit"`
	NOPAT   float64 `json:"nopat"`
	FCF     float64 `json:"fcf"`
	PVFCF   float64 `json:"pv_fcf"`
}

// DCFResult holds the valuation outputs.
type DCFResult struct {
	Projections        []DCFYear `json:"projections"`
	TerminalValue      float64   `json:"terminal_value"`
	PVTerminal         float64   `json:"pv_terminal"`
	EnterpriseValue    float64   `json:"enterprise_value"`
	EquityValue        float64   `json:"equity_value"`
	ImpliedSharePrice  float64   `json:"implied_share_price"`
	WACC               float64   `json:"wacc"`
	TerminalGrowthRate float64   `json:"terminal_growth_rate"`
}

// scheduleAt returns the schedule value for a 0-indexed year, holding the
// last value past the end.
func scheduleAt(schedule []float64, year int) float64 {
	if year >= len(schedule) {
		return schedule[len(schedule)-1]
	}
	return schedule[year]
}

// CalculateDCF performs a standard two-stage DCF on the target's standalone
// financials and derives the implied share price.
func CalculateDCF(target company.Company, a DCFAssumptions) (DCFResult, error) {
	if a.ProjectionYears < 1 {
		return DCFResult{}, finerr.Validationf("projection_years", "must be at least 1, got %d", a.ProjectionYears)
	}
	if len(a.RevenueGrowthRates) == 0 || len(a.EBITDAMargins) == 0 {
		return DCFResult{}, finerr.Validationf("dcf_assumptions", "growth and margin schedules must be non-empty")
	}
	if a.WACC <= a.TerminalGrowthRate {
		return DCFResult{}, finerr.Computationf("dcf", "wacc %v must exceed terminal growth %v", a.WACC, a.TerminalGrowthRate)
	}
	if target.MarketData.SharesOutstanding <= 0 {
		return DCFResult{}, finerr.Computationf("dcf", "share count %v makes per-share value undefined", target.MarketData.SharesOutstanding)
	}

	// 1. Project unlevered free cash flows
	years := make([]DCFYear, 0, a.ProjectionYears)
	prevRevenue := target.IncomeStatement.Revenue
	pvFCF := 0.0
	discount := 1.0

	for y := 0; y < a.ProjectionYears; y++ {
		revenue := prevRevenue * (1 + scheduleAt(a.RevenueGrowthRates, y))
		ebitda := revenue * scheduleAt(a.EBITDAMargins, y)
		da := revenue * a.DAPercentRevenue
		ebit := ebitda - da
		nopat := ebit * (1 - a.TaxRate)
		capex := revenue * a.CapexPercentRevenue
		deltaNWC := (revenue - prevRevenue) * a.NWCPercentRevenue
		fcf := nopat + da - capex - deltaNWC

		discount /= 1 + a.WACC
		pv := fcf * discount
		pvFCF += pv

		years = append(years, DCFYear{
			Year:    y + 1,
			Revenue: revenue,
			EBITDA:  ebitda,
			EBIT:    ebit,
			NOPAT:   nopat,
			FCF:     fcf,
			PVFCF:   pv,
		})
		prevRevenue = revenue
	}

	// 2. Terminal value (Gordon growth), discounted at the final year factor
	terminalFCF := years[len(years)-1].FCF * (1 + a.TerminalGrowthRate)
	tv := terminalFCF / (a.WACC - a.TerminalGrowthRate)
	pvTerminal := tv * discount

	// 3. Enterprise to equity to per-share
	ev := pvFCF + pvTerminal
	equity := ev - target.BalanceSheet.NetDebt()
	sharePrice := equity / target.MarketData.SharesOutstanding

	return DCFResult{
		Projections:        years,
		TerminalValue:      tv,
		PVTerminal:         pvTerminal,
		EnterpriseValue:    ev,
		EquityValue:        equity,
		ImpliedSharePrice:  sharePrice,
		WACC:               a.WACC,
		TerminalGrowthRate: a.TerminalGrowthRate,
	}, nil
}
