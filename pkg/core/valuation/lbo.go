package valuation

import (
	"math"

	"merger_model/pkg/core/company"
	"merger_model/pkg/core/finerr"
)

// LBOAssumptions drives the ability-to-pay analysis: what a financial
// sponsor could offer for the target and still clear its return hurdle.
type LBOAssumptions struct {
	EntryLeverage    float64 `json:"entry_leverage" yaml:"entry_leverage"` // debt / EBITDA at close
	InterestRate     float64 `json:"interest_rate" yaml:"interest_rate"`
	TaxRate          float64 `json:"tax_rate" yaml:"tax_rate"`
	ExitMultiple     float64 `json:"exit_multiple" yaml:"exit_multiple"` // EV / EBITDA at exit
	HoldingPeriod    int     `json:"holding_period" yaml:"holding_period"`
	EBITDAGrowthRate float64 `json:"ebitda_growth_rate" yaml:"ebitda_growth_rate"`
	CapexPercentage  float64 `json:"capex_percentage" yaml:"capex_percentage"` // of EBITDA
	NWCPercentage    float64 `json:"nwc_percentage" yaml:"nwc_percentage"`     // of EBITDA growth
	TargetIRR        float64 `json:"target_irr" yaml:"target_irr"`
}

// DefaultLBOAssumptions returns conventional sponsor parameters.
func DefaultLBOAssumptions() LBOAssumptions {
	return LBOAssumptions{
		EntryLeverage:    5.0,
		InterestRate:     0.08,
		TaxRate:          0.21,
		ExitMultiple:     10.0,
		HoldingPeriod:    5,
		EBITDAGrowthRate: 0.05,
		CapexPercentage:  0.15,
		NWCPercentage:    0.10,
		TargetIRR:        0.20,
	}
}

// LBOResult holds the ability-to-pay outputs.
type LBOResult struct {
	MaxEnterpriseValue   float64 `json:"max_enterprise_value"`
	ImpliedEntryMultiple float64 `json:"implied_entry_multiple"`
	ImpliedSharePrice    float64 `json:"implied_share_price"`
	EquityCheck          float64 `json:"equity_check"`
	DebtRaised           float64 `json:"debt_raised"`
	ExitEquityValue      float64 `json:"exit_equity_value"`
	ExitDebt             float64 `json:"exit_debt"`
}

// CalculateAbilityToPay solves backwards from the sponsor's required return:
// debt sized off entry EBITDA sweeps down over the hold, the exit multiple
// sets the exit equity, and discounting that equity at the hurdle rate gives
// the maximum entry check the sponsor can write.
func CalculateAbilityToPay(target company.Company, a LBOAssumptions) (LBOResult, error) {
	ebitda0 := target.IncomeStatement.EBITDA
	if ebitda0 <= 0 {
		return LBOResult{}, finerr.Computationf("lbo", "entry EBITDA %v cannot support leverage", ebitda0)
	}
	if a.HoldingPeriod < 1 {
		return LBOResult{}, finerr.Validationf("holding_period", "must be at least 1 year, got %d", a.HoldingPeriod)
	}
	if target.MarketData.SharesOutstanding <= 0 {
		return LBOResult{}, finerr.Computationf("lbo", "share count %v makes per-share value undefined", target.MarketData.SharesOutstanding)
	}

	// Step 1: size the debt off entry EBITDA.
	initialDebt := ebitda0 * a.EntryLeverage
	debt := initialDebt

	// Step 2: sweep the hold period. Capex runs off EBITDA, working capital
	// absorbs a share of EBITDA growth, and every spare dollar repays debt.
	// A cash deficit draws back up instead.
	ebitda := ebitda0
	for y := 0; y < a.HoldingPeriod; y++ {
		prev := ebitda
		ebitda *= 1 + a.EBITDAGrowthRate

		interest := debt * a.InterestRate
		taxes := math.Max(0, (ebitda-interest)*a.TaxRate)
		capex := ebitda * a.CapexPercentage
		nwc := (ebitda - prev) * a.NWCPercentage

		fcf := ebitda - interest - taxes - capex - nwc
		debt = math.Max(0, debt-fcf)
	}

	// Step 3: exit at the multiple, clear remaining debt.
	exitEV := ebitda * a.ExitMultiple
	exitEquity := exitEV - debt

	// Step 4: discount the exit equity at the hurdle to size the entry check.
	equityCheck := exitEquity / math.Pow(1+a.TargetIRR, float64(a.HoldingPeriod))
	maxEV := equityCheck + initialDebt
	maxEquity := maxEV - target.BalanceSheet.NetDebt()

	return LBOResult{
		MaxEnterpriseValue:   maxEV,
		ImpliedEntryMultiple: maxEV / ebitda0,
		ImpliedSharePrice:    maxEquity / target.MarketData.SharesOutstanding,
		EquityCheck:          equityCheck,
		DebtRaised:           initialDebt,
		ExitEquityValue:      exitEquity,
		ExitDebt:             debt,
	}, nil
}
