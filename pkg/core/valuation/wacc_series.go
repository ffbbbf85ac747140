package valuation

// DeleveragingWACCSeries computes a per-year WACC as the capital structure
// shifts, one entry per element of debtByYear. Equity value is held constant
// between years; a non-positive denominator falls back to the base debt
// weight for that year.
func DeleveragingWACCSeries(base WACCInput, debtByYear []float64, equityValue float64) []WACCResult {
	out := make([]WACCResult, len(debtByYear))
	for i, debt := range debtByYear {
		input := base
		if total := debt + equityValue; total > 0 && debt >= 0 {
			input.DebtWeight = debt / total
		}
		out[i] = CalculateWACC(input)
	}
	return out
}
