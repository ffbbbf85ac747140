package deal

import (
	"math"
	"testing"
)

func intPtr(n int) *int { return &n }

// sampleStructure mirrors the standard 60/40 demonstration deal.
func sampleStructure() Structure {
	return Structure{
		OfferPricePerShare:      75.0,
		TargetSharesOutstanding: 200_000_000,
		TargetOptionsDilution:   0.02,
		TargetCurrentPrice:      58.00,
		CashPercentage:          0.60,
		AcquirerCashUsed:        3_000_000_000,
		Tranches: []Tranche{
			{Name: "Term Loan B", Kind: TermLoanB, Principal: 8_000_000_000, InterestRate: 0.055, MaturityYears: 7, AmortizationYears: intPtr(7), OriginationFee: 0.02},
			{Name: "Senior Notes", Kind: SeniorNotes, Principal: 5_000_000_000, InterestRate: 0.045, MaturityYears: 10, OriginationFee: 0.015},
		},
		Costs: TransactionCosts{
			AdvisoryFees:         150_000_000,
			LegalFees:            50_000_000,
			AccountingFees:       25_000_000,
			RegulatoryFilingFees: 10_000_000,
			OtherFees:            15_000_000,
		},
		RefinanceTargetDebt:   true,
		TargetDebtToRefinance: 2_300_000_000,
		TaxRate:               0.21,
	}
}

func TestEquityPurchasePrice(t *testing.T) {
	s := sampleStructure()

	// 200M shares * 1.02 dilution = 204M diluted, at $75 = $15.3B
	diluted := s.DilutedTargetShares()
	if math.Abs(diluted-204_000_000) > 1 {
		t.Errorf("diluted shares = %v, want 204M", diluted)
	}
	price := s.EquityPurchasePrice()
	if math.Abs(price-15_300_000_000) > 1 {
		t.Errorf("equity purchase price = %v, want 15.3B", price)
	}
}

func TestControlPremium(t *testing.T) {
	s := sampleStructure()
	want := 75.0/58.0 - 1
	if math.Abs(s.ControlPremium()-want) > 1e-9 {
		t.Errorf("control premium = %v, want %v", s.ControlPremium(), want)
	}

	s.TargetCurrentPrice = 0
	if s.ControlPremium() != 0 {
		t.Errorf("control premium with no current price = %v, want 0", s.ControlPremium())
	}
}

func TestConsiderationSplit(t *testing.T) {
	s := sampleStructure()
	cash := s.CashConsideration()
	stock := s.StockConsiderationValue()
	if math.Abs(cash-0.60*15_300_000_000) > 1 {
		t.Errorf("cash consideration = %v", cash)
	}
	if math.Abs(cash+stock-s.EquityPurchasePrice()) > 1 {
		t.Errorf("cash %v + stock %v != purchase price %v", cash, stock, s.EquityPurchasePrice())
	}
}

func TestDebtFinancingTotals(t *testing.T) {
	s := sampleStructure()
	if got := s.TotalDebtFinancing(); math.Abs(got-13_000_000_000) > 1 {
		t.Errorf("total debt = %v, want 13B", got)
	}
	// Fees: 8B*2% + 5B*1.5% = 160M + 75M = 235M
	if got := s.TotalDebtCosts(); math.Abs(got-235_000_000) > 1 {
		t.Errorf("debt costs = %v, want 235M", got)
	}
	// Interest at face: 8B*5.5% + 5B*4.5% = 440M + 225M = 665M
	if got := s.AnnualInterestExpense(); math.Abs(got-665_000_000) > 1 {
		t.Errorf("annual interest = %v, want 665M", got)
	}
	// Amortization: only the term loan, 8B/7
	if got := s.AnnualAmortization(); math.Abs(got-8_000_000_000/7.0) > 1 {
		t.Errorf("annual amortization = %v", got)
	}
}

func TestSourcesUsesReconciliation(t *testing.T) {
	s := sampleStructure()

	_, sources := s.SourcesOfFunds()
	_, uses := s.UsesOfFunds()

	// Sources: 3B cash + 13B debt - 235M fees = 15.765B
	if math.Abs(sources-15_765_000_000) > 1 {
		t.Errorf("sources total = %v, want 15.765B", sources)
	}
	// Uses: 15.3B purchase + 2.3B refi + 250M costs = 17.85B
	if math.Abs(uses-17_850_000_000) > 1 {
		t.Errorf("uses total = %v, want 17.85B", uses)
	}

	balanced, diff := s.ValidateSourcesUses()
	if balanced {
		t.Error("expected imbalance before sizing the financing plug")
	}
	if math.Abs(diff-(sources-uses)) > 1e-6 {
		t.Errorf("difference = %v, want %v", diff, sources-uses)
	}

	// Size the cash plug to close the gap and re-check.
	s.AcquirerCashUsed += uses - sources
	balanced, diff = s.ValidateSourcesUses()
	if !balanced {
		t.Errorf("expected balance after sizing, diff = %v", diff)
	}
}

func TestSourcesUsesSummary(t *testing.T) {
	s := sampleStructure()
	_, sources := s.SourcesOfFunds()
	_, uses := s.UsesOfFunds()
	s.AcquirerCashUsed += uses - sources

	su := s.SourcesUsesSummary()
	if len(su.Sources) == 0 || len(su.Uses) == 0 {
		t.Fatal("summary is missing line items")
	}
	if !su.IsBalanced {
		t.Errorf("expected balance, diff = %v", su.Difference)
	}
	if math.Abs(su.SourcesTotal-su.UsesTotal) >= SourcesUsesTolerance {
		t.Errorf("totals differ: %v vs %v", su.SourcesTotal, su.UsesTotal)
	}

	var lineSum float64
	for _, l := range su.Uses {
		lineSum += l.Amount
	}
	if math.Abs(lineSum-su.UsesTotal) > 1 {
		t.Errorf("use lines sum to %v, total reports %v", lineSum, su.UsesTotal)
	}
}

func TestStructureValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Structure)
	}{
		{"zero offer price", func(s *Structure) { s.OfferPricePerShare = 0 }},
		{"zero target shares", func(s *Structure) { s.TargetSharesOutstanding = 0 }},
		{"negative dilution", func(s *Structure) { s.TargetOptionsDilution = -0.01 }},
		{"cash percentage above one", func(s *Structure) { s.CashPercentage = 1.5 }},
		{"tax rate at one", func(s *Structure) { s.TaxRate = 1.0 }},
		{"tranche zero principal", func(s *Structure) { s.Tranches[0].Principal = 0 }},
		{"amortization past maturity", func(s *Structure) { s.Tranches[0].AmortizationYears = intPtr(8) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := sampleStructure()
			tc.mutate(&s)
			if err := s.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	s := sampleStructure()
	if err := s.Validate(); err != nil {
		t.Errorf("sample structure should validate, got %v", err)
	}
}

func TestCloneIsolation(t *testing.T) {
	s := sampleStructure()
	c := s.Clone()

	c.Tranches[0].Principal = 1
	*c.Tranches[0].AmortizationYears = 99
	if s.Tranches[0].Principal != 8_000_000_000 {
		t.Error("clone shares tranche slice with original")
	}
	if *s.Tranches[0].AmortizationYears != 7 {
		t.Error("clone shares amortization pointer with original")
	}
}

// ----------------------------------------------------------------------------
// Debt schedule
// ----------------------------------------------------------------------------

func TestScheduleAmortizingTranche(t *testing.T) {
	tranches := []Tranche{
		{Name: "TLA", Kind: TermLoanA, Principal: 700, InterestRate: 0.05, MaturityYears: 7, AmortizationYears: intPtr(7)},
	}
	s, err := NewSchedule(tranches)
	if err != nil {
		t.Fatalf("NewSchedule: %v", err)
	}

	rec, err := s.Advance(0)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if math.Abs(rec.Interest-35) > 1e-9 {
		t.Errorf("year 1 interest = %v, want 35", rec.Interest)
	}
	if math.Abs(rec.MandatoryAmortization-100) > 1e-9 {
		t.Errorf("year 1 amortization = %v, want 100", rec.MandatoryAmortization)
	}
	if math.Abs(rec.ClosingBalance-600) > 1e-9 {
		t.Errorf("year 1 closing = %v, want 600", rec.ClosingBalance)
	}

	// Interest in year 2 accrues on the reduced balance.
	rec, _ = s.Advance(0)
	if math.Abs(rec.Interest-30) > 1e-9 {
		t.Errorf("year 2 interest = %v, want 30", rec.Interest)
	}
}

func TestScheduleBulletRepaysAtMaturity(t *testing.T) {
	tranches := []Tranche{
		{Name: "Notes", Kind: SeniorNotes, Principal: 1000, InterestRate: 0.04, MaturityYears: 3},
	}
	s, _ := NewSchedule(tranches)

	years, err := s.Project(3, 0)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if years[0].ClosingBalance != 1000 || years[1].ClosingBalance != 1000 {
		t.Error("bullet balance should hold until maturity")
	}
	if years[2].MandatoryAmortization != 1000 || years[2].ClosingBalance != 0 {
		t.Errorf("bullet should repay in full at maturity, got amort %v closing %v",
			years[2].MandatoryAmortization, years[2].ClosingBalance)
	}
}

func TestSchedulePaydownPriority(t *testing.T) {
	tranches := []Tranche{
		{Name: "Cheap", Kind: SeniorNotes, Principal: 1000, InterestRate: 0.04, MaturityYears: 10},
		{Name: "Expensive", Kind: TermLoanB, Principal: 1000, InterestRate: 0.08, MaturityYears: 10},
	}
	s, _ := NewSchedule(tranches)

	rec, err := s.Advance(300)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}

	// The sweep should hit the 8% tranche first.
	for _, tb := range rec.TrancheBalances {
		switch tb.Name {
		case "Expensive":
			if math.Abs(tb.Balance-700) > 1e-9 {
				t.Errorf("expensive tranche balance = %v, want 700", tb.Balance)
			}
		case "Cheap":
			if math.Abs(tb.Balance-1000) > 1e-9 {
				t.Errorf("cheap tranche balance = %v, want 1000", tb.Balance)
			}
		}
	}

	// A sweep larger than the expensive tranche spills into the cheap one.
	rec, _ = s.Advance(900)
	total := rec.ClosingBalance
	if math.Abs(total-800) > 1e-9 {
		t.Errorf("closing after spillover = %v, want 800", total)
	}
}

func TestScheduleNegativePaydownRejected(t *testing.T) {
	s, _ := NewSchedule([]Tranche{
		{Name: "N", Kind: SeniorNotes, Principal: 100, InterestRate: 0.05, MaturityYears: 5},
	})
	if _, err := s.Advance(-1); err == nil {
		t.Error("expected error for negative paydown")
	}
}

func TestScheduleOverpaymentRetiresStack(t *testing.T) {
	s, _ := NewSchedule([]Tranche{
		{Name: "N", Kind: SeniorNotes, Principal: 100, InterestRate: 0.05, MaturityYears: 5},
	})
	rec, _ := s.Advance(1_000_000)
	if rec.ClosingBalance != 0 {
		t.Errorf("closing = %v, want 0", rec.ClosingBalance)
	}
	if math.Abs(rec.OptionalPaydown-100) > 1e-9 {
		t.Errorf("optional paydown = %v, want capped at 100", rec.OptionalPaydown)
	}
}
