package scenario

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestSampleIsInternallyConsistent(t *testing.T) {
	sc := Sample()

	if err := sc.Acquirer.Validate(); err != nil {
		t.Errorf("sample acquirer: %v", err)
	}
	if err := sc.Target.Validate(); err != nil {
		t.Errorf("sample target: %v", err)
	}
	if err := sc.Deal.Validate(); err != nil {
		t.Errorf("sample deal: %v", err)
	}
	if sc.Synergies == nil {
		t.Fatal("sample carries no synergy program")
	}

	// $75 on 204M diluted shares.
	if got := sc.Deal.EquityPurchasePrice(); math.Abs(got-15_300_000_000) > 1 {
		t.Errorf("sample purchase price = %v, want 15.3B", got)
	}
	if got := sc.Deal.TotalDebtFinancing(); math.Abs(got-13_000_000_000) > 1 {
		t.Errorf("sample debt financing = %v, want 13B", got)
	}
	if len(sc.TradingComps) == 0 || len(sc.TransactionComps) == 0 {
		t.Error("sample comparables are empty")
	}
}

func TestBuildAppliesDefaults(t *testing.T) {
	cfg := Config{
		ModelName: "Minimal",
		Acquirer:  SampleAcquirer(),
		Target:    SampleTarget(),
		Deal: DealConfig{
			OfferPricePerShare:      75,
			TargetSharesOutstanding: 200_000_000,
			CashPercentage:          1.0,
			TaxRate:                 0.21,
		},
	}
	sc, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if sc.Assumptions.ProjectionYears != 5 {
		t.Errorf("default projection years = %d, want 5", sc.Assumptions.ProjectionYears)
	}
	// CAPM off the target's 1.3 beta: ke = 0.04 + 1.3*0.055 = 0.1115,
	// kd = 0.05*0.79 = 0.0395, WACC = 0.1115*0.7 + 0.0395*0.3 = 0.0899.
	if math.Abs(sc.DCF.WACC-0.0899) > 1e-9 {
		t.Errorf("derived WACC = %v, want 0.0899", sc.DCF.WACC)
	}
	if sc.Synergies != nil {
		t.Error("expected no synergy program without a synergies block")
	}
}

func TestBuildRejectsBadDeal(t *testing.T) {
	cfg := Config{
		Acquirer: SampleAcquirer(),
		Target:   SampleTarget(),
		Deal: DealConfig{
			OfferPricePerShare:      -1,
			TargetSharesOutstanding: 200_000_000,
			TaxRate:                 0.21,
		},
	}
	if _, err := Build(cfg); err == nil {
		t.Error("expected error for a negative offer price")
	}
}

const scenarioYAML = `
model_name: File Deal
acquirer:
  name: Acquirer Co
  ticker: ACQ
  role: acquirer
  income_statement:
    revenue: 4000
    ebitda: 800
    net_income: 400
  market_data:
    share_price: 100
    shares_outstanding: 100
target:
  name: Target Co
  ticker: TGT
  role: target
  income_statement:
    revenue: 500
    ebitda: 100
    net_income: 25
  balance_sheet:
    total_equity: 500
  market_data:
    share_price: 20
    shares_outstanding: 40
deal:
  offer_price_per_share: 25
  target_shares_outstanding: 40
  target_current_price: 20
  cash_percentage: 0.6
  tranches:
    - name: Term Loan
      kind: term_loan_b
      principal: 400
      interest_rate: 0.055
      maturity_years: 7
      amortization_years: 7
    - name: Notes
      kind: senior_notes
      principal: 200
      interest_rate: 0.045
      maturity_years: 10
  tax_rate: 0.21
synergies:
  projection_years: 5
  tax_rate: 0.21
  cost_synergies:
    - name: Overhead
      kind: cost
      category: corporate_overhead
      total_annual_value: 30
      phase_in_schedule: [0.5, 1.0]
  revenue_synergies:
    - name: Cross-sell
      kind: revenue
      category: cross_selling
      total_annual_value: 40
      phase_in_schedule: [0.25, 0.75, 1.0]
      incremental_margin: 0.40
  integration_costs:
    - description: Systems cutover
      amount: 10
      year_incurred: 1
      tax_deductible: true
`

func TestLoadScenarioFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deal.yaml")
	if err := os.WriteFile(path, []byte(scenarioYAML), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	sc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if sc.ModelName != "File Deal" {
		t.Errorf("model name = %q", sc.ModelName)
	}
	if len(sc.Deal.Tranches) != 2 {
		t.Fatalf("got %d tranches, want 2", len(sc.Deal.Tranches))
	}
	// The term loan amortizes, the notes are a bullet.
	if sc.Deal.Tranches[0].AmortizationYears == nil || *sc.Deal.Tranches[0].AmortizationYears != 7 {
		t.Error("term loan lost its amortization schedule")
	}
	if sc.Deal.Tranches[1].AmortizationYears != nil {
		t.Error("bullet notes grew an amortization schedule")
	}

	items := sc.Synergies.Items()
	if len(items) != 2 {
		t.Fatalf("got %d synergy items, want 2", len(items))
	}
	var margin float64
	for _, it := range items {
		if it.Name == "Cross-sell" {
			margin = it.IncrementalMargin
		}
	}
	if math.Abs(margin-0.40) > 1e-9 {
		t.Errorf("cross-sell margin = %v, want the configured 0.40", margin)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
}
