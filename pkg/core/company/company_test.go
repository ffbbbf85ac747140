package company

import (
	"math"
	"testing"
)

func testCompany() Company {
	return Company{
		Name:   "Sample Co",
		Ticker: "SMP",
		Role:   RoleTarget,
		IncomeStatement: IncomeStatement{
			Revenue:   10_000,
			EBITDA:    2_000,
			NetIncome: 1_000,
		},
		BalanceSheet: BalanceSheet{
			CashAndEquivalents:      1_200,
			TotalCurrentAssets:      3_000,
			ShortTermDebt:           300,
			TotalCurrentLiabilities: 1_500,
			LongTermDebt:            2_000,
		},
		MarketData: MarketData{
			SharePrice:        58,
			SharesOutstanding: 200,
		},
	}
}

func TestBalanceSheetDerivations(t *testing.T) {
	b := testCompany().BalanceSheet
	if got := b.TotalDebt(); math.Abs(got-2_300) > 1e-9 {
		t.Errorf("total debt = %v, want 2300", got)
	}
	if got := b.NetDebt(); math.Abs(got-1_100) > 1e-9 {
		t.Errorf("net debt = %v, want 1100", got)
	}
	if got := b.NetWorkingCapital(); math.Abs(got-1_500) > 1e-9 {
		t.Errorf("NWC = %v, want 1500", got)
	}
}

func TestMarketDerivations(t *testing.T) {
	c := testCompany()
	if got := c.MarketData.MarketCap(); math.Abs(got-11_600) > 1e-9 {
		t.Errorf("market cap = %v, want 11600", got)
	}
	// EV = cap + net debt + other non-current liabilities (0 here)
	if got := c.EnterpriseValue(); math.Abs(got-12_700) > 1e-9 {
		t.Errorf("EV = %v, want 12700", got)
	}

	eps, err := c.EPS()
	if err != nil {
		t.Fatalf("EPS: %v", err)
	}
	if math.Abs(eps-5) > 1e-9 {
		t.Errorf("EPS = %v, want 5", eps)
	}
	if got := c.PERatio(); math.Abs(got-11.6) > 1e-9 {
		t.Errorf("P/E = %v, want 11.6", got)
	}
	if got := c.EVEBITDA(); math.Abs(got-6.35) > 1e-9 {
		t.Errorf("EV/EBITDA = %v, want 6.35", got)
	}
}

func TestDegenerateRatios(t *testing.T) {
	c := testCompany()
	c.IncomeStatement.NetIncome = -100
	if got := c.PERatio(); !math.IsInf(got, 1) {
		t.Errorf("P/E on losses = %v, want +Inf", got)
	}
	c.IncomeStatement.EBITDA = 0
	if got := c.EVEBITDA(); !math.IsInf(got, 1) {
		t.Errorf("EV/EBITDA on zero EBITDA = %v, want +Inf", got)
	}
}

func TestEPSUndefined(t *testing.T) {
	c := testCompany()
	c.MarketData.SharesOutstanding = 0
	if _, err := c.EPS(); err == nil {
		t.Error("expected error for zero share count")
	}
	if err := c.Validate(); err == nil {
		t.Error("expected validation error for zero share count")
	}
}

func TestIncomeStatementFromBasicInputs(t *testing.T) {
	is := IncomeStatementFromBasicInputs(10_000, 0.45, 0.25, 0.04, 150, 20, 0.21)

	if math.Abs(is.GrossProfit-4_500) > 1e-9 {
		t.Errorf("gross profit = %v, want 4500", is.GrossProfit)
	}
	if math.Abs(is.EBITDA-2_000) > 1e-9 {
		t.Errorf("EBITDA = %v, want 2000", is.EBITDA)
	}
	// Pretax: 2000 - 400 - 150 + 20 = 1470; tax 21% = 308.70
	if math.Abs(is.PretaxIncome-1_470) > 1e-9 {
		t.Errorf("pretax = %v, want 1470", is.PretaxIncome)
	}
	if math.Abs(is.NetIncome-1_161.3) > 1e-6 {
		t.Errorf("net income = %v, want 1161.3", is.NetIncome)
	}

	// Pre-tax losses pay no tax.
	loss := IncomeStatementFromBasicInputs(100, 0.10, 0.50, 0.02, 50, 0, 0.21)
	if loss.TaxExpense != 0 {
		t.Errorf("tax on a loss = %v, want 0", loss.TaxExpense)
	}
}
