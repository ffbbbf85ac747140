// Package deal models the transaction structure: offer terms, consideration
// mix, debt and equity financing, transaction costs, and the sources & uses
// reconciliation. A Structure is configured once per scenario and treated as
// an immutable input by every downstream engine; sensitivity sweeps work on
// clones, never on the shared base.
package deal

import (
	"math"

	"merger_model/pkg/core/finerr"
)

// DebtKind is the closed set of debt instrument types.
type DebtKind string

const (
	TermLoanA       DebtKind = "term_loan_a"
	TermLoanB       DebtKind = "term_loan_b"
	SeniorNotes     DebtKind = "senior_notes"
	HighYieldBonds  DebtKind = "high_yield_bonds"
	RevolvingCredit DebtKind = "revolving_credit"
	BridgeLoan      DebtKind = "bridge_loan"
)

// Tranche is one debt financing tranche. A nil AmortizationYears means bullet
// repayment: the principal stays constant until maturity and repays in full.
type Tranche struct {
	Name              string
	Kind              DebtKind
	Principal         float64
	InterestRate      float64
	MaturityYears     int
	AmortizationYears *int
	OriginationFee    float64 // fraction of principal, paid upfront
}

// Validate checks the tranche terms. Called by Structure.Validate and by the
// scenario loader before a tranche enters a schedule.
func (t Tranche) Validate() error {
	if t.Principal <= 0 {
		return finerr.Validationf("tranche "+t.Name, "principal must be positive, got %v", t.Principal)
	}
	if t.InterestRate < 0 {
		return finerr.Validationf("tranche "+t.Name, "interest rate must not be negative, got %v", t.InterestRate)
	}
	if t.MaturityYears < 1 {
		return finerr.Validationf("tranche "+t.Name, "maturity must be at least 1 year, got %d", t.MaturityYears)
	}
	if t.AmortizationYears != nil {
		if *t.AmortizationYears < 1 || *t.AmortizationYears > t.MaturityYears {
			return finerr.Validationf("tranche "+t.Name, "amortization term %d must be within 1..%d", *t.AmortizationYears, t.MaturityYears)
		}
	}
	if t.OriginationFee < 0 || t.OriginationFee >= 1 {
		return finerr.Validationf("tranche "+t.Name, "origination fee %v must be in [0, 1)", t.OriginationFee)
	}
	return nil
}

// AnnualInterest returns the interest expense on the face amount. Interest on
// the outstanding balance as it amortizes is the Schedule's job.
func (t Tranche) AnnualInterest() float64 {
	return t.Principal * t.InterestRate
}

// MandatoryAmortization returns the scheduled linear principal repayment per
// year, zero for bullet tranches.
func (t Tranche) MandatoryAmortization() float64 {
	if t.AmortizationYears == nil {
		return 0
	}
	return t.Principal / float64(*t.AmortizationYears)
}

// OriginationCost returns the upfront fee paid on the tranche.
func (t Tranche) OriginationCost() float64 {
	return t.Principal * t.OriginationFee
}

// EquityFinancing describes a new share issuance that funds part of the deal.
type EquityFinancing struct {
	NewSharesIssued     float64
	IssuePrice          float64
	IssuanceCostPercent float64
}

// GrossProceeds returns shares times issue price.
func (e EquityFinancing) GrossProceeds() float64 {
	return e.NewSharesIssued * e.IssuePrice
}

// IssuanceCosts returns the underwriting cost on the raise.
func (e EquityFinancing) IssuanceCosts() float64 {
	return e.GrossProceeds() * e.IssuanceCostPercent
}

// NetProceeds returns proceeds after issuance costs.
func (e EquityFinancing) NetProceeds() float64 {
	return e.GrossProceeds() - e.IssuanceCosts()
}

// TransactionCosts enumerates the advisory-side cost line items.
type TransactionCosts struct {
	AdvisoryFees         float64
	LegalFees            float64
	AccountingFees       float64
	RegulatoryFilingFees float64
	OtherFees            float64
}

// Total sums all transaction cost line items.
func (c TransactionCosts) Total() float64 {
	return c.AdvisoryFees + c.LegalFees + c.AccountingFees + c.RegulatoryFilingFees + c.OtherFees
}

// Structure is the complete deal description. Fields are set once and read
// everywhere; Clone produces the copy a sensitivity cell may modify.
type Structure struct {
	// Offer
	OfferPricePerShare      float64
	TargetSharesOutstanding float64
	TargetOptionsDilution   float64 // fraction of extra shares from options/RSUs
	TargetCurrentPrice      float64

	// Consideration mix
	CashPercentage float64 // remainder is stock consideration

	// Financing
	AcquirerCashUsed float64
	Tranches         []Tranche
	Equity           *EquityFinancing

	// Costs
	Costs TransactionCosts

	// Target debt treatment
	RefinanceTargetDebt   bool
	TargetDebtToRefinance float64

	// Tax
	TaxRate float64
}

// Validate fails fast on malformed configuration. Sources-vs-uses imbalance
// is intentionally not checked here; see ValidateSourcesUses.
func (s Structure) Validate() error {
	if s.OfferPricePerShare <= 0 {
		return finerr.Validationf("offer_price_per_share", "must be positive, got %v", s.OfferPricePerShare)
	}
	if s.TargetSharesOutstanding <= 0 {
		return finerr.Validationf("target_shares_outstanding", "must be positive, got %v", s.TargetSharesOutstanding)
	}
	if s.TargetOptionsDilution < 0 {
		return finerr.Validationf("target_options_dilution", "must not be negative, got %v", s.TargetOptionsDilution)
	}
	if s.CashPercentage < 0 || s.CashPercentage > 1 {
		return finerr.Validationf("cash_percentage", "must be in [0, 1], got %v", s.CashPercentage)
	}
	if s.AcquirerCashUsed < 0 {
		return finerr.Validationf("acquirer_cash_used", "must not be negative, got %v", s.AcquirerCashUsed)
	}
	if s.TargetDebtToRefinance < 0 {
		return finerr.Validationf("target_debt_to_refinance", "must not be negative, got %v", s.TargetDebtToRefinance)
	}
	if s.TaxRate < 0 || s.TaxRate >= 1 {
		return finerr.Validationf("tax_rate", "must be in [0, 1), got %v", s.TaxRate)
	}
	for _, t := range s.Tranches {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns an independent deep copy of the structure.
func (s Structure) Clone() Structure {
	out := s
	out.Tranches = make([]Tranche, len(s.Tranches))
	for i, t := range s.Tranches {
		out.Tranches[i] = t
		if t.AmortizationYears != nil {
			years := *t.AmortizationYears
			out.Tranches[i].AmortizationYears = &years
		}
	}
	if s.Equity != nil {
		eq := *s.Equity
		out.Equity = &eq
	}
	return out
}

// DilutedTargetShares returns target shares inflated by option dilution.
func (s Structure) DilutedTargetShares() float64 {
	return s.TargetSharesOutstanding * (1 + s.TargetOptionsDilution)
}

// EquityPurchasePrice returns offer price times diluted share count.
func (s Structure) EquityPurchasePrice() float64 {
	return s.OfferPricePerShare * s.DilutedTargetShares()
}

// ControlPremium returns the offer premium over the target's current price,
// zero when no current price is known.
func (s Structure) ControlPremium() float64 {
	if s.TargetCurrentPrice <= 0 {
		return 0
	}
	return s.OfferPricePerShare/s.TargetCurrentPrice - 1
}

// ImpliedEV returns equity purchase price plus refinanced target debt.
func (s Structure) ImpliedEV() float64 {
	return s.EquityPurchasePrice() + s.TargetDebtToRefinance
}

// CashConsideration returns the cash portion paid to target shareholders.
func (s Structure) CashConsideration() float64 {
	return s.EquityPurchasePrice() * s.CashPercentage
}

// StockConsiderationValue returns the stock portion of the consideration.
func (s Structure) StockConsiderationValue() float64 {
	return s.EquityPurchasePrice() * (1 - s.CashPercentage)
}

// TotalDebtFinancing returns the gross face amount of new debt raised.
func (s Structure) TotalDebtFinancing() float64 {
	total := 0.0
	for _, t := range s.Tranches {
		total += t.Principal
	}
	return total
}

// TotalDebtCosts returns the sum of origination fees across tranches.
func (s Structure) TotalDebtCosts() float64 {
	total := 0.0
	for _, t := range s.Tranches {
		total += t.OriginationCost()
	}
	return total
}

// NetDebtProceeds returns new debt net of origination fees, the amount that
// is actually available to fund the purchase.
func (s Structure) NetDebtProceeds() float64 {
	return s.TotalDebtFinancing() - s.TotalDebtCosts()
}

// TotalEquityFinancing returns net proceeds of any new share issuance.
func (s Structure) TotalEquityFinancing() float64 {
	if s.Equity == nil {
		return 0
	}
	return s.Equity.NetProceeds()
}

// TotalTransactionCosts returns debt origination fees, advisory-side costs,
// and equity issuance costs together.
func (s Structure) TotalTransactionCosts() float64 {
	total := s.TotalDebtCosts() + s.Costs.Total()
	if s.Equity != nil {
		total += s.Equity.IssuanceCosts()
	}
	return total
}

// AnnualInterestExpense returns day-one interest on the new debt at face.
func (s Structure) AnnualInterestExpense() float64 {
	total := 0.0
	for _, t := range s.Tranches {
		total += t.AnnualInterest()
	}
	return total
}

// AnnualAmortization returns the total scheduled principal repayment per year
// across amortizing tranches.
func (s Structure) AnnualAmortization() float64 {
	total := 0.0
	for _, t := range s.Tranches {
		total += t.MandatoryAmortization()
	}
	return total
}

// FundsLine is one labelled row of a sources or uses table.
type FundsLine struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// SourcesOfFunds returns the ordered sources rows and their total. Debt
// tranches enter net of origination fees; the fees therefore do not reappear
// on the uses side.
func (s Structure) SourcesOfFunds() ([]FundsLine, float64) {
	lines := []FundsLine{
		{Label: "acquirer_cash", Amount: s.AcquirerCashUsed},
	}
	for _, t := range s.Tranches {
		lines = append(lines, FundsLine{
			Label:  "debt_" + t.Name,
			Amount: t.Principal - t.OriginationCost(),
		})
	}
	if s.Equity != nil {
		lines = append(lines, FundsLine{Label: "equity_issuance", Amount: s.Equity.NetProceeds()})
	}
	total := 0.0
	for _, l := range lines {
		total += l.Amount
	}
	return lines, total
}

// UsesOfFunds returns the ordered uses rows and their total.
func (s Structure) UsesOfFunds() ([]FundsLine, float64) {
	lines := []FundsLine{
		{Label: "equity_purchase_price", Amount: s.EquityPurchasePrice()},
	}
	if s.RefinanceTargetDebt && s.TargetDebtToRefinance > 0 {
		lines = append(lines, FundsLine{Label: "refinance_target_debt", Amount: s.TargetDebtToRefinance})
	}
	if c := s.Costs.Total(); c > 0 {
		lines = append(lines,
			FundsLine{Label: "advisory_fees", Amount: s.Costs.AdvisoryFees},
			FundsLine{Label: "legal_fees", Amount: s.Costs.LegalFees},
			FundsLine{Label: "other_transaction_costs", Amount: s.Costs.AccountingFees + s.Costs.RegulatoryFilingFees + s.Costs.OtherFees},
		)
	}
	total := 0.0
	for _, l := range lines {
		total += l.Amount
	}
	return lines, total
}

// SourcesUsesTolerance is the absolute dollar tolerance within which sources
// and uses are considered balanced.
const SourcesUsesTolerance = 1.0

// ValidateSourcesUses reports whether sources cover uses and the signed
// difference (sources minus uses). Imbalance is a reportable condition for
// the caller to act on, never an error: draft scenarios legitimately run
// unbalanced before the financing plug is sized.
func (s Structure) ValidateSourcesUses() (bool, float64) {
	_, sources := s.SourcesOfFunds()
	_, uses := s.UsesOfFunds()
	diff := sources - uses
	return math.Abs(diff) < SourcesUsesTolerance, diff
}

// SourcesUses pairs the funding sources against the uses of funds with the
// balance check. It reports as its own top-level record; an imbalance is a
// finding, not an error.
type SourcesUses struct {
	Sources      []FundsLine `json:"sources"`
	SourcesTotal float64     `json:"sources_total"`
	Uses         []FundsLine `json:"uses"`
	UsesTotal    float64     `json:"uses_total"`
	IsBalanced   bool        `json:"is_balanced"`
	Difference   float64     `json:"difference"`
}

// SourcesUsesSummary assembles the sources and uses record.
func (s Structure) SourcesUsesSummary() SourcesUses {
	sources, sourcesTotal := s.SourcesOfFunds()
	uses, usesTotal := s.UsesOfFunds()
	balanced, diff := s.ValidateSourcesUses()

	return SourcesUses{
		Sources:      sources,
		SourcesTotal: sourcesTotal,
		Uses:         uses,
		UsesTotal:    usesTotal,
		IsBalanced:   balanced,
		Difference:   diff,
	}
}

// FinancingSummary is the reportable overview of the deal's financing.
type FinancingSummary struct {
	OfferPricePerShare    float64 `json:"offer_price_per_share"`
	EquityPurchasePrice   float64 `json:"equity_purchase_price"`
	ControlPremium        float64 `json:"control_premium"`
	ImpliedEV             float64 `json:"implied_ev"`
	CashPercentage        float64 `json:"cash_percentage"`
	StockPercentage       float64 `json:"stock_percentage"`
	AnnualInterestExpense float64 `json:"annual_interest_expense"`
	TotalTransactionCosts float64 `json:"total_transaction_costs"`
}

// Summary assembles the financing summary record.
func (s Structure) Summary() FinancingSummary {
	return FinancingSummary{
		OfferPricePerShare:    s.OfferPricePerShare,
		EquityPurchasePrice:   s.EquityPurchasePrice(),
		ControlPremium:        s.ControlPremium(),
		ImpliedEV:             s.ImpliedEV(),
		CashPercentage:        s.CashPercentage,
		StockPercentage:       1 - s.CashPercentage,
		AnnualInterestExpense: s.AnnualInterestExpense(),
		TotalTransactionCosts: s.TotalTransactionCosts(),
	}
}
