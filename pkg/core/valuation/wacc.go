package valuation

// WACCInput parameters for the cost of capital. Weights are supplied
// directly as the target capital structure.
type WACCInput struct {
	Beta              float64
	RiskFreeRate      float64
	MarketRiskPremium float64
	PreTaxCostOfDebt  float64
	TaxRate           float64
	DebtWeight        float64 // fraction of the capital structure
}

// DefaultWACCInput returns standard market parameters; Beta is filled from
// the target by the caller.
func DefaultWACCInput() WACCInput {
	return WACCInput{
		RiskFreeRate:      0.04,
		MarketRiskPremium: 0.055,
		PreTaxCostOfDebt:  0.05,
		TaxRate:           0.21,
		DebtWeight:        0.30,
	}
}

// WACCResult holds the calculated rates.
type WACCResult struct {
	CostOfEquity float64 `json:"cost_of_equity"`
	CostOfDebt   float64 `json:"cost_of_debt"` // after-tax
	WACC         float64 `json:"wacc"`
	WeightDebt   float64 `json:"weight_debt"`
	WeightEquity float64 `json:"weight_equity"`
}

// CalculateWACC computes the weighted average cost of capital using CAPM for
// the equity leg.
func CalculateWACC(input WACCInput) WACCResult {
	we := 1 - input.DebtWeight

	// 1. Cost of Equity (CAPM)
	// Ke = Rf + Beta * ERP
	ke := input.RiskFreeRate + input.Beta*input.MarketRiskPremium

	// 2. Cost of Debt (after-tax)
	kd := input.PreTaxCostOfDebt * (1 - input.TaxRate)

	// 3. WACC
	wacc := ke*we + kd*input.DebtWeight

	return WACCResult{
		CostOfEquity: ke,
		CostOfDebt:   kd,
		WACC:         wacc,
		WeightDebt:   input.DebtWeight,
		WeightEquity: we,
	}
}
