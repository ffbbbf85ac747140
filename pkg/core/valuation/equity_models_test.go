package valuation

import (
	"math"
	"testing"

	"merger_model/pkg/core/company"
)

func TestCalculateDDM(t *testing.T) {
	in := EquityModelInput{CostOfEquity: 0.10, TerminalGrowth: 0.025, SharesOutstanding: 10}
	r, err := CalculateDDM([]float64{10, 10}, in)
	if err != nil {
		t.Fatalf("CalculateDDM: %v", err)
	}

	pv := 10/1.1 + 10/1.21
	terminal := 10 * 1.025 / 0.075
	equity := pv + terminal/1.21
	if math.Abs(r.EquityValue-equity) > 1e-9 {
		t.Errorf("equity value = %v, want %v", r.EquityValue, equity)
	}
	if math.Abs(r.SharePrice-equity/10) > 1e-9 {
		t.Errorf("share price = %v, want %v", r.SharePrice, equity/10)
	}

	if _, err := CalculateDDM(nil, in); err == nil {
		t.Error("expected error for empty dividend stream")
	}
	bad := in
	bad.CostOfEquity = 0.02
	if _, err := CalculateDDM([]float64{10}, bad); err == nil {
		t.Error("expected error when cost of equity does not exceed terminal growth")
	}
}

func TestResidualIncomeEarningJustTheCharge(t *testing.T) {
	// Earnings exactly equal to the equity charge create no residual value:
	// the equity is worth its book.
	in := EquityModelInput{CostOfEquity: 0.10, TerminalGrowth: 0.025, SharesOutstanding: 10, CurrentBookValue: 100}
	r, err := CalculateResidualIncome([]float64{10}, []float64{10}, in)
	if err != nil {
		t.Fatalf("CalculateResidualIncome: %v", err)
	}
	if math.Abs(r.EquityValue-100) > 1e-9 {
		t.Errorf("equity value = %v, want book value 100", r.EquityValue)
	}

	// Earning above the charge is worth more than book.
	rich, err := CalculateResidualIncome([]float64{15}, []float64{15}, in)
	if err != nil {
		t.Fatalf("CalculateResidualIncome: %v", err)
	}
	if rich.EquityValue <= 100 {
		t.Errorf("excess earner valued at %v, want above book", rich.EquityValue)
	}

	if _, err := CalculateResidualIncome([]float64{10}, []float64{10, 10}, in); err == nil {
		t.Error("expected error for mismatched stream lengths")
	}
}

func TestCalculateFCFE(t *testing.T) {
	in := EquityModelInput{CostOfEquity: 0.10, TerminalGrowth: 0.025, SharesOutstanding: 10}
	r, err := CalculateFCFE([]float64{21.5}, in)
	if err != nil {
		t.Fatalf("CalculateFCFE: %v", err)
	}
	pv := 21.5 / 1.1
	terminal := 21.5 * 1.025 / 0.075
	want := pv + terminal/1.1
	if math.Abs(r.EquityValue-want) > 1e-9 {
		t.Errorf("equity value = %v, want %v", r.EquityValue, want)
	}
}

func TestEquityModelInputFor(t *testing.T) {
	in := EquityModelInputFor(valTarget(), DefaultWACCInput())
	// CAPM at the target's 1.2 beta.
	if math.Abs(in.CostOfEquity-0.106) > 1e-9 {
		t.Errorf("cost of equity = %v, want 0.106", in.CostOfEquity)
	}
	if in.SharesOutstanding != 100 {
		t.Errorf("shares = %v, want 100", in.SharesOutstanding)
	}
}

func TestEquityModelsFromDCF(t *testing.T) {
	target := valTarget()
	a := DefaultDCFAssumptions()
	dcf, err := CalculateDCF(target, a)
	if err != nil {
		t.Fatalf("CalculateDCF: %v", err)
	}

	models := EquityModelsFromDCF(target, a, dcf)
	if len(models) != 3 {
		t.Fatalf("got %d models, want 3", len(models))
	}
	wantNames := []string{"Dividend Discount Model", "Residual Income", "Free Cash Flow to Equity"}
	for i, m := range models {
		if m.ModelName != wantNames[i] {
			t.Errorf("model %d = %q, want %q", i, m.ModelName, wantNames[i])
		}
		if m.SharePrice <= 0 {
			t.Errorf("%s implied price = %v, want positive", m.ModelName, m.SharePrice)
		}
	}

	if got := EquityModelsFromDCF(target, a, DCFResult{}); got != nil {
		t.Errorf("expected nil for an empty projection, got %d models", len(got))
	}
}

func lboTarget() company.Company {
	return company.Company{
		Name: "Sponsor Target", Role: company.RoleTarget,
		IncomeStatement: company.IncomeStatement{Revenue: 500, EBITDA: 100, NetIncome: 40},
		BalanceSheet:    company.BalanceSheet{LongTermDebt: 50},
		MarketData:      company.MarketData{SharePrice: 50, SharesOutstanding: 10},
	}
}

func TestCalculateAbilityToPay(t *testing.T) {
	a := LBOAssumptions{
		EntryLeverage:    4.0,
		InterestRate:     0.05,
		TaxRate:          0.25,
		ExitMultiple:     8.0,
		HoldingPeriod:    1,
		EBITDAGrowthRate: 0,
		CapexPercentage:  0.10,
		NWCPercentage:    0.10,
		TargetIRR:        0.25,
	}
	r, err := CalculateAbilityToPay(lboTarget(), a)
	if err != nil {
		t.Fatalf("CalculateAbilityToPay: %v", err)
	}

	// Debt 400 at 5%: FCF = 100 - 20 - 20 - 10 = 50, exit debt 350.
	if math.Abs(r.ExitDebt-350) > 1e-9 {
		t.Errorf("exit debt = %v, want 350", r.ExitDebt)
	}
	// Exit EV 800 less debt = 450, discounted one year at 25% = 360.
	if math.Abs(r.EquityCheck-360) > 1e-9 {
		t.Errorf("equity check = %v, want 360", r.EquityCheck)
	}
	if math.Abs(r.MaxEnterpriseValue-760) > 1e-9 {
		t.Errorf("max EV = %v, want 760", r.MaxEnterpriseValue)
	}
	if math.Abs(r.ImpliedEntryMultiple-7.6) > 1e-9 {
		t.Errorf("entry multiple = %v, want 7.6", r.ImpliedEntryMultiple)
	}
	// Equity bridges 50 of net debt over 10 shares.
	if math.Abs(r.ImpliedSharePrice-71) > 1e-9 {
		t.Errorf("implied price = %v, want 71", r.ImpliedSharePrice)
	}
}

func TestAbilityToPayFallsWithHurdle(t *testing.T) {
	a := DefaultLBOAssumptions()
	low, err := CalculateAbilityToPay(lboTarget(), a)
	if err != nil {
		t.Fatalf("CalculateAbilityToPay: %v", err)
	}
	a.TargetIRR = 0.30
	high, err := CalculateAbilityToPay(lboTarget(), a)
	if err != nil {
		t.Fatalf("CalculateAbilityToPay: %v", err)
	}
	if high.MaxEnterpriseValue >= low.MaxEnterpriseValue {
		t.Errorf("a higher hurdle should lower the price: %v vs %v",
			high.MaxEnterpriseValue, low.MaxEnterpriseValue)
	}

	broke := lboTarget()
	broke.IncomeStatement.EBITDA = 0
	if _, err := CalculateAbilityToPay(broke, a); err == nil {
		t.Error("expected error for non-positive entry EBITDA")
	}
}

func TestDeleveragingWACCSeries(t *testing.T) {
	base := DefaultWACCInput()
	base.Beta = 1.0

	series := DeleveragingWACCSeries(base, []float64{100, 50, 0}, 100)
	if len(series) != 3 {
		t.Fatalf("got %d entries, want 3", len(series))
	}
	// Debt is the cheaper leg, so WACC rises as the structure deleverages.
	for i := 1; i < len(series); i++ {
		if series[i].WACC <= series[i-1].WACC {
			t.Errorf("WACC did not rise at year %d: %v then %v", i+1, series[i-1].WACC, series[i].WACC)
		}
	}
	// Fully delevered, WACC collapses to the cost of equity.
	last := series[2]
	if math.Abs(last.WACC-last.CostOfEquity) > 1e-9 {
		t.Errorf("unlevered WACC = %v, want cost of equity %v", last.WACC, last.CostOfEquity)
	}
	if last.WeightDebt != 0 {
		t.Errorf("unlevered debt weight = %v, want 0", last.WeightDebt)
	}
}
