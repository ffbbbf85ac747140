package valuation

import (
	"math"
	"testing"

	"merger_model/pkg/core/company"
)

func valTarget() company.Company {
	return company.Company{
		Name: "Target Co", Ticker: "TGT", Role: company.RoleTarget,
		IncomeStatement: company.IncomeStatement{Revenue: 1_000, EBITDA: 200, NetIncome: 100},
		BalanceSheet:    company.BalanceSheet{CashAndEquivalents: 100, LongTermDebt: 200},
		MarketData:      company.MarketData{SharePrice: 10, SharesOutstanding: 100, Beta: 1.2},
	}
}

func TestStats(t *testing.T) {
	s := Stats([]float64{4, 2, 8, 6})
	if s.Min != 2 || s.Max != 8 {
		t.Errorf("min/max = %v/%v, want 2/8", s.Min, s.Max)
	}
	// Even count averages the middle pair.
	if math.Abs(s.Median-5) > 1e-9 {
		t.Errorf("median = %v, want 5", s.Median)
	}
	if math.Abs(s.Mean-5) > 1e-9 {
		t.Errorf("mean = %v, want 5", s.Mean)
	}

	odd := Stats([]float64{3, 1, 2})
	if odd.Median != 2 {
		t.Errorf("odd median = %v, want 2", odd.Median)
	}

	if empty := Stats(nil); empty != (MultipleStats{}) {
		t.Errorf("empty stats = %+v, want zero record", empty)
	}
}

func TestCalculateWACC(t *testing.T) {
	input := DefaultWACCInput()
	input.Beta = 1.2
	r := CalculateWACC(input)

	// Ke = 0.04 + 1.2 * 0.055 = 0.106
	if math.Abs(r.CostOfEquity-0.106) > 1e-9 {
		t.Errorf("cost of equity = %v, want 0.106", r.CostOfEquity)
	}
	// Kd = 0.05 * 0.79 = 0.0395
	if math.Abs(r.CostOfDebt-0.0395) > 1e-9 {
		t.Errorf("after-tax cost of debt = %v, want 0.0395", r.CostOfDebt)
	}
	// 0.106 * 0.70 + 0.0395 * 0.30 = 0.08605
	if math.Abs(r.WACC-0.08605) > 1e-9 {
		t.Errorf("WACC = %v, want 0.08605", r.WACC)
	}
	if math.Abs(r.WeightEquity+r.WeightDebt-1) > 1e-9 {
		t.Errorf("weights sum to %v, want 1", r.WeightEquity+r.WeightDebt)
	}
}

func TestDCFSingleYear(t *testing.T) {
	a := DCFAssumptions{
		ProjectionYears:     1,
		RevenueGrowthRates:  []float64{0.10},
		EBITDAMargins:       []float64{0.20},
		CapexPercentRevenue: 0.04,
		DAPercentRevenue:    0.03,
		NWCPercentRevenue:   0.10,
		TaxRate:             0.21,
		TerminalGrowthRate:  0.025,
		WACC:                0.09,
	}
	r, err := CalculateDCF(valTarget(), a)
	if err != nil {
		t.Fatalf("CalculateDCF: %v", err)
	}

	// Revenue 1100, EBITDA 220, D&A 33, NOPAT 187 * 0.79, capex 44, NWC 10.
	fcf := 187*0.79 + 33 - 44 - 10
	y := r.Projections[0]
	if math.Abs(y.FCF-fcf) > 1e-9 {
		t.Errorf("FCF = %v, want %v", y.FCF, fcf)
	}
	pvFCF := fcf / 1.09
	if math.Abs(y.PVFCF-pvFCF) > 1e-9 {
		t.Errorf("PV of FCF = %v, want %v", y.PVFCF, pvFCF)
	}
	tv := fcf * 1.025 / (0.09 - 0.025)
	if math.Abs(r.TerminalValue-tv) > 1e-6 {
		t.Errorf("terminal value = %v, want %v", r.TerminalValue, tv)
	}
	ev := pvFCF + tv/1.09
	if math.Abs(r.EnterpriseValue-ev) > 1e-6 {
		t.Errorf("EV = %v, want %v", r.EnterpriseValue, ev)
	}
	// Equity bridges through 100 of net debt over 100 shares.
	if math.Abs(r.ImpliedSharePrice-(ev-100)/100) > 1e-6 {
		t.Errorf("implied price = %v, want %v", r.ImpliedSharePrice, (ev-100)/100)
	}
}

func TestDCFSchedulesHoldLastValue(t *testing.T) {
	a := DefaultDCFAssumptions()
	a.ProjectionYears = 8
	r, err := CalculateDCF(valTarget(), a)
	if err != nil {
		t.Fatalf("CalculateDCF: %v", err)
	}
	if len(r.Projections) != 8 {
		t.Fatalf("got %d years, want 8", len(r.Projections))
	}
	// Past the schedule the final 4% growth and 22% margin persist.
	y7, y8 := r.Projections[6], r.Projections[7]
	if math.Abs(y8.Revenue/y7.Revenue-1.04) > 1e-9 {
		t.Errorf("year 8 growth = %v, want 1.04", y8.Revenue/y7.Revenue)
	}
	if math.Abs(y8.EBITDA/y8.Revenue-0.22) > 1e-9 {
		t.Errorf("year 8 margin = %v, want 0.22", y8.EBITDA/y8.Revenue)
	}
}

func TestDCFValidation(t *testing.T) {
	a := DefaultDCFAssumptions()
	a.WACC = 0.02 // below terminal growth
	if _, err := CalculateDCF(valTarget(), a); err == nil {
		t.Error("expected error when WACC does not exceed terminal growth")
	}

	noShares := valTarget()
	noShares.MarketData.SharesOutstanding = 0
	if _, err := CalculateDCF(noShares, DefaultDCFAssumptions()); err == nil {
		t.Error("expected error for zero share count")
	}

	bad := DefaultDCFAssumptions()
	bad.ProjectionYears = 0
	if _, err := CalculateDCF(valTarget(), bad); err == nil {
		t.Error("expected error for zero projection years")
	}
}

func testTradingComps() []TradingComp {
	return []TradingComp{
		{Name: "Comp A", EnterpriseValue: 800, Revenue: 400, EBITDA: 100, MarketCap: 600, NetIncome: 50, SharesOutstanding: 10},
		{Name: "Comp B", EnterpriseValue: 1_000, Revenue: 400, EBITDA: 100, MarketCap: 750, NetIncome: 50, SharesOutstanding: 10},
	}
}

func TestCalculateTradingComps(t *testing.T) {
	r, err := CalculateTradingComps(valTarget(), testTradingComps())
	if err != nil {
		t.Fatalf("CalculateTradingComps: %v", err)
	}

	if math.Abs(r.EVEBITDA.Min-8) > 1e-9 || math.Abs(r.EVEBITDA.Max-10) > 1e-9 {
		t.Errorf("EV/EBITDA range = [%v, %v], want [8, 10]", r.EVEBITDA.Min, r.EVEBITDA.Max)
	}
	// Median 9x on 200 of EBITDA is 1800 of EV, less 100 net debt, over 100
	// shares.
	if math.Abs(r.PriceEBITDA.Mid-17) > 1e-9 {
		t.Errorf("mid EBITDA price = %v, want 17", r.PriceEBITDA.Mid)
	}
	// P/E 12x and 15x on EPS of 1.00.
	if math.Abs(r.PriceEarnings.Mid-13.5) > 1e-9 {
		t.Errorf("mid P/E price = %v, want 13.5", r.PriceEarnings.Mid)
	}
}

func TestTradingCompsDropUndefinedMultiples(t *testing.T) {
	comps := append(testTradingComps(), TradingComp{Name: "Pre-revenue"})
	r, err := CalculateTradingComps(valTarget(), comps)
	if err != nil {
		t.Fatalf("CalculateTradingComps: %v", err)
	}
	if math.Abs(r.EVEBITDA.Median-9) > 1e-9 {
		t.Errorf("median with undefined comp = %v, want 9 unchanged", r.EVEBITDA.Median)
	}

	if _, err := CalculateTradingComps(valTarget(), nil); err == nil {
		t.Error("expected error for empty comp set")
	}
}

func testTransactionComps() []TransactionComp {
	return []TransactionComp{
		{TargetName: "Deal A", EnterpriseValue: 800, Revenue: 400, EBITDA: 100, ControlPremium: 0.20},
		{TargetName: "Deal B", EnterpriseValue: 1_000, Revenue: 400, EBITDA: 100, ControlPremium: 0.40},
		{TargetName: "Deal C", EnterpriseValue: 900, Revenue: 400, EBITDA: 100, ControlPremium: 0.30},
	}
}

func TestCalculateTransactionComps(t *testing.T) {
	r, err := CalculateTransactionComps(valTarget(), testTransactionComps())
	if err != nil {
		t.Fatalf("CalculateTransactionComps: %v", err)
	}

	if math.Abs(r.ControlPremium.Median-0.30) > 1e-9 {
		t.Errorf("median premium = %v, want 0.30", r.ControlPremium.Median)
	}
	// A $10 price at 20/30/40 percent premiums.
	if math.Abs(r.PriceFromPremium.Low-12) > 1e-9 ||
		math.Abs(r.PriceFromPremium.Mid-13) > 1e-9 ||
		math.Abs(r.PriceFromPremium.High-14) > 1e-9 {
		t.Errorf("premium price range = %+v, want 12/13/14", r.PriceFromPremium)
	}
	// Median 9x on 200 of EBITDA.
	if math.Abs(r.EVFromEBITDA.Mid-1_800) > 1e-9 {
		t.Errorf("mid implied EV = %v, want 1800", r.EVFromEBITDA.Mid)
	}
}

func Test52WeekRange(t *testing.T) {
	r, err := Calculate52WeekRange(valTarget(), 16, 8)
	if err != nil {
		t.Fatalf("Calculate52WeekRange: %v", err)
	}
	if math.Abs(r.PositionInRange-0.25) > 1e-9 {
		t.Errorf("position in range = %v, want 0.25", r.PositionInRange)
	}
	if math.Abs(r.PremiumToLow-0.25) > 1e-9 {
		t.Errorf("premium to low = %v, want 0.25", r.PremiumToLow)
	}

	if _, err := Calculate52WeekRange(valTarget(), 8, 16); err == nil {
		t.Error("expected error for inverted range")
	}
}

func TestSummarizeAndFootballField(t *testing.T) {
	s, err := Summarize(valTarget(), DefaultDCFAssumptions(), testTradingComps(), testTransactionComps(), 14)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.TargetName != "Target Co" || s.TargetTicker != "TGT" {
		t.Errorf("target identity = %q/%q", s.TargetName, s.TargetTicker)
	}

	field := s.FootballField
	if len(field.Bars) != 4 {
		t.Fatalf("got %d bars, want 4", len(field.Bars))
	}
	dcfBar := field.Bars[0]
	if math.Abs(dcfBar.Range.Low-s.DCF.ImpliedSharePrice*0.85) > 1e-9 ||
		math.Abs(dcfBar.Range.High-s.DCF.ImpliedSharePrice*1.15) > 1e-9 {
		t.Errorf("DCF bar %+v does not spread 15%% around %v", dcfBar.Range, s.DCF.ImpliedSharePrice)
	}

	if s.LBO == nil {
		t.Fatal("expected an LBO ability-to-pay result")
	}
	lboBar := field.Bars[3]
	if lboBar.Methodology != "LBO Ability-to-Pay" {
		t.Errorf("bar 3 methodology = %q", lboBar.Methodology)
	}
	if math.Abs(lboBar.Range.Mid-s.LBO.ImpliedSharePrice) > 1e-9 {
		t.Errorf("LBO bar mid = %v, want %v", lboBar.Range.Mid, s.LBO.ImpliedSharePrice)
	}
	// Flexing the hurdle up lowers the check, down raises it.
	if !(lboBar.Range.Low < lboBar.Range.Mid && lboBar.Range.Mid < lboBar.Range.High) {
		t.Errorf("LBO bar %+v is not ordered around the hurdle", lboBar.Range)
	}

	if len(s.EquityModels) != 3 {
		t.Fatalf("got %d equity models, want 3", len(s.EquityModels))
	}
	for _, m := range s.EquityModels {
		if m.SharePrice <= 0 {
			t.Errorf("%s implied price = %v, want positive", m.ModelName, m.SharePrice)
		}
	}
	if math.Abs(field.ImpliedPremium-0.40) > 1e-9 {
		t.Errorf("implied premium = %v, want 0.40", field.ImpliedPremium)
	}

	// No offer, no premium comparison.
	noOffer, err := Summarize(valTarget(), DefaultDCFAssumptions(), testTradingComps(), testTransactionComps(), 0)
	if err != nil {
		t.Fatalf("Summarize without offer: %v", err)
	}
	if noOffer.FootballField.OfferPrice != 0 || noOffer.FootballField.ImpliedPremium != 0 {
		t.Error("zero offer should omit the premium comparison")
	}
}
