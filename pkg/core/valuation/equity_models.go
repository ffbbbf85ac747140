package valuation

import (
	"math"

	"merger_model/pkg/core/company"
	"merger_model/pkg/core/finerr"
)

// EquityModelInput holds the parameters shared by the equity-side models
// (DDM, residual income, FCFE). These discount directly at the cost of
// equity rather than bridging from enterprise value through net debt.
type EquityModelInput struct {
	CostOfEquity      float64 `json:"cost_of_equity" yaml:"cost_of_equity"`
	TerminalGrowth    float64 `json:"terminal_growth" yaml:"terminal_growth"`
	SharesOutstanding float64 `json:"shares_outstanding" yaml:"shares_outstanding"`
	CurrentBookValue  float64 `json:"current_book_value" yaml:"current_book_value"` // opening book equity, RIM only
}

// EquityValuationResult holds one equity model's outputs.
type EquityValuationResult struct {
	ModelName     string  `json:"model_name"`
	EquityValue   float64 `json:"equity_value"`
	SharePrice    float64 `json:"share_price"`
	PVStream      float64 `json:"pv_stream"`
	PVTerminal    float64 `json:"pv_terminal"`
	TerminalValue float64 `json:"terminal_value"`
}

// EquityModelInputFor derives the shared inputs from a company snapshot and
// CAPM parameters.
func EquityModelInputFor(target company.Company, w WACCInput) EquityModelInput {
	w.Beta = target.MarketData.Beta
	return EquityModelInput{
		CostOfEquity:      CalculateWACC(w).CostOfEquity,
		TerminalGrowth:    0.025,
		SharesOutstanding: target.MarketData.SharesOutstanding,
		CurrentBookValue:  target.BalanceSheet.TotalEquity,
	}
}

// dividendPayout approximates the share of earnings paid out when deriving
// a dividend stream from projected earnings.
const dividendPayout = 0.40

// EquityModelsFromDCF derives levered earnings, dividend, and FCFE streams
// from the unlevered DCF projection and runs the three equity-side models.
// Interest is charged on current net debt held flat across the projection;
// models whose inputs are degenerate are skipped rather than failing the set.
func EquityModelsFromDCF(target company.Company, a DCFAssumptions, dcf DCFResult) []EquityValuationResult {
	if len(dcf.Projections) == 0 {
		return nil
	}
	in := EquityModelInputFor(target, DefaultWACCInput())
	in.TerminalGrowth = a.TerminalGrowthRate

	afterTaxInterest := target.BalanceSheet.NetDebt() * DefaultWACCInput().PreTaxCostOfDebt * (1 - a.TaxRate)
	ni := make([]float64, len(dcf.Projections))
	div := make([]float64, len(dcf.Projections))
	fcfe := make([]float64, len(dcf.Projections))
	for i, p := range dcf.Projections {
		ni[i] = p.NOPAT - afterTaxInterest
		div[i] = ni[i] * dividendPayout
		fcfe[i] = p.FCF - afterTaxInterest
	}

	var out []EquityValuationResult
	if r, err := CalculateDDM(div, in); err == nil {
		out = append(out, r)
	}
	if r, err := CalculateResidualIncome(ni, div, in); err == nil {
		out = append(out, r)
	}
	if r, err := CalculateFCFE(fcfe, in); err == nil {
		out = append(out, r)
	}
	return out
}

func (in EquityModelInput) validate() error {
	if in.SharesOutstanding <= 0 {
		return finerr.Computationf("equity_model", "share count %v makes per-share value undefined", in.SharesOutstanding)
	}
	if in.CostOfEquity <= in.TerminalGrowth {
		return finerr.Computationf("equity_model", "cost of equity %v must exceed terminal growth %v", in.CostOfEquity, in.TerminalGrowth)
	}
	return nil
}

// discountStream returns the PV of the stream plus the PV of a Gordon
// terminal value grown off its last element.
func discountStream(stream []float64, in EquityModelInput) (pvStream, terminal, pvTerminal float64) {
	for i, v := range stream {
		pvStream += v / math.Pow(1+in.CostOfEquity, float64(i+1))
	}
	last := stream[len(stream)-1]
	terminal = last * (1 + in.TerminalGrowth) / (in.CostOfEquity - in.TerminalGrowth)
	pvTerminal = terminal / math.Pow(1+in.CostOfEquity, float64(len(stream)))
	return pvStream, terminal, pvTerminal
}

// CalculateDDM values the equity as the present value of the dividend
// stream plus a Gordon terminal dividend.
func CalculateDDM(dividends []float64, in EquityModelInput) (EquityValuationResult, error) {
	if err := in.validate(); err != nil {
		return EquityValuationResult{}, err
	}
	if len(dividends) == 0 {
		return EquityValuationResult{}, finerr.Validationf("dividends", "stream must be non-empty")
	}

	pvStream, terminal, pvTerminal := discountStream(dividends, in)
	equity := pvStream + pvTerminal
	return EquityValuationResult{
		ModelName:     "Dividend Discount Model",
		EquityValue:   equity,
		SharePrice:    equity / in.SharesOutstanding,
		PVStream:      pvStream,
		PVTerminal:    pvTerminal,
		TerminalValue: terminal,
	}, nil
}

// CalculateResidualIncome values the equity as opening book value plus the
// present value of earnings in excess of the equity charge. Book value rolls
// forward by retained earnings each year.
func CalculateResidualIncome(netIncome, dividends []float64, in EquityModelInput) (EquityValuationResult, error) {
	if err := in.validate(); err != nil {
		return EquityValuationResult{}, err
	}
	if len(netIncome) == 0 || len(netIncome) != len(dividends) {
		return EquityValuationResult{}, finerr.Validationf("residual_income", "net income and dividend streams must be non-empty and equal length")
	}

	residuals := make([]float64, len(netIncome))
	book := in.CurrentBookValue
	for i, ni := range netIncome {
		residuals[i] = ni - book*in.CostOfEquity
		book += ni - dividends[i]
	}

	pvStream, terminal, pvTerminal := discountStream(residuals, in)
	equity := in.CurrentBookValue + pvStream + pvTerminal
	return EquityValuationResult{
		ModelName:     "Residual Income",
		EquityValue:   equity,
		SharePrice:    equity / in.SharesOutstanding,
		PVStream:      pvStream,
		PVTerminal:    pvTerminal,
		TerminalValue: terminal,
	}, nil
}

// CalculateFCFE values the equity as the present value of free cash flow to
// equity holders: operating cash flow less capex plus net borrowing.
func CalculateFCFE(fcfe []float64, in EquityModelInput) (EquityValuationResult, error) {
	if err := in.validate(); err != nil {
		return EquityValuationResult{}, err
	}
	if len(fcfe) == 0 {
		return EquityValuationResult{}, finerr.Validationf("fcfe", "stream must be non-empty")
	}

	pvStream, terminal, pvTerminal := discountStream(fcfe, in)
	equity := pvStream + pvTerminal
	return EquityValuationResult{
		ModelName:     "Free Cash Flow to Equity",
		EquityValue:   equity,
		SharePrice:    equity / in.SharesOutstanding,
		PVStream:      pvStream,
		PVTerminal:    pvTerminal,
		TerminalValue: terminal,
	}, nil
}
