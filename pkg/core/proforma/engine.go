// Package proforma builds the combined post-close view of the transaction:
// the opening balance sheet with purchase accounting applied, and the
// multi-year projection of the combined income statement, free cash flow, and
// debt trajectory. The projection is fully deterministic: the same inputs
// always yield the same output, year by year.
package proforma

import (
	"math"

	"merger_model/pkg/core/company"
	"merger_model/pkg/core/deal"
	"merger_model/pkg/core/finerr"
	"merger_model/pkg/core/synergy"
)

// Engine combines two company snapshots, a deal structure, and a synergy
// analysis into a pro forma projection. Inputs are read, never mutated.
type Engine struct {
	Acquirer    company.Company
	Target      company.Company
	Deal        deal.Structure
	Synergies   *synergy.Analysis
	Assumptions Assumptions
}

// NewEngine validates the inputs and returns a configured engine.
func NewEngine(acquirer, target company.Company, d deal.Structure, syn *synergy.Analysis, a Assumptions) (*Engine, error) {
	if err := acquirer.Validate(); err != nil {
		return nil, err
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if a.ProjectionYears < 1 {
		return nil, finerr.Validationf("projection_years", "must be at least 1, got %d", a.ProjectionYears)
	}
	if a.TaxRate < 0 || a.TaxRate >= 1 {
		return nil, finerr.Validationf("tax_rate", "must be in [0, 1), got %v", a.TaxRate)
	}
	if a.DebtPaydownPercentFCF < 0 || a.DebtPaydownPercentFCF > 1 {
		return nil, finerr.Validationf("debt_paydown_percent_fcf", "must be in [0, 1], got %v", a.DebtPaydownPercentFCF)
	}
	if a.IntangibleUsefulLife < 1 {
		return nil, finerr.Validationf("intangible_useful_life", "must be at least 1 year, got %d", a.IntangibleUsefulLife)
	}
	return &Engine{
		Acquirer:    acquirer,
		Target:      target,
		Deal:        d,
		Synergies:   syn,
		Assumptions: a,
	}, nil
}

// NewIntangibles returns the portion of the control premium allocated to
// identifiable intangible assets at close. A zero-or-negative premium
// allocates nothing.
func (e *Engine) NewIntangibles() float64 {
	premium := e.Deal.EquityPurchasePrice() - e.Target.BalanceSheet.TotalEquity
	return e.Assumptions.IntangiblePremiumShare * math.Max(0, premium)
}

// BalanceSheetAtClose applies purchase accounting to the combined opening
// balance sheet.
//
// The goodwill plug is equity purchase price over the target's book equity
// less the portion of the premium written up to identifiable intangibles. A
// negative plug means the price paid is below the fair value acquired; the
// record then carries goodwill at zero, flags the bargain purchase, and
// reports the gain explicitly rather than hiding it inside a negative asset.
func (e *Engine) BalanceSheetAtClose() BalanceSheetAtClose {
	acq := e.Acquirer.BalanceSheet
	tgt := e.Target.BalanceSheet
	d := e.Deal

	// Step 1: purchase accounting adjustments.
	purchasePrice := d.EquityPurchasePrice()
	newIntangibles := e.NewIntangibles()
	plug := purchasePrice - tgt.TotalEquity - newIntangibles

	newGoodwill := plug
	bargain := false
	gain := 0.0
	if plug < 0 {
		newGoodwill = 0
		bargain = true
		gain = -plug
	}

	// Step 2: combine assets. Acquirer cash used and transaction costs leave
	// the combined balance at close.
	cash := acq.CashAndEquivalents + tgt.CashAndEquivalents - d.AcquirerCashUsed - d.Costs.Total()
	bs := BalanceSheetAtClose{
		CashAndEquivalents:     cash,
		AccountsReceivable:     acq.AccountsReceivable + tgt.AccountsReceivable,
		Inventory:              acq.Inventory + tgt.Inventory,
		OtherCurrentAssets:     acq.OtherCurrentAssets + tgt.OtherCurrentAssets,
		PropertyPlantEquipment: acq.PropertyPlantEquipment + tgt.PropertyPlantEquipment,
		Goodwill:               acq.Goodwill + tgt.Goodwill + newGoodwill,
		NewGoodwill:            newGoodwill,
		IntangibleAssets:       acq.IntangibleAssets + tgt.IntangibleAssets + newIntangibles,
		NewIntangibles:         newIntangibles,
		OtherNonCurrentAssets:  acq.OtherNonCurrentAssets + tgt.OtherNonCurrentAssets,
	}
	bs.TotalCurrentAssets = bs.CashAndEquivalents + bs.AccountsReceivable + bs.Inventory + bs.OtherCurrentAssets
	bs.TotalAssets = bs.TotalCurrentAssets + bs.PropertyPlantEquipment + bs.Goodwill + bs.IntangibleAssets + bs.OtherNonCurrentAssets

	// Step 3: combine liabilities. Refinanced target debt is retired; the new
	// acquisition debt stacks on top at face.
	targetLTD := tgt.LongTermDebt
	targetSTD := tgt.ShortTermDebt
	if d.RefinanceTargetDebt {
		retired := d.TargetDebtToRefinance
		fromSTD := math.Min(retired, targetSTD)
		targetSTD -= fromSTD
		targetLTD = math.Max(0, targetLTD-(retired-fromSTD))
	}
	newDebt := d.TotalDebtFinancing()
	bs.AccountsPayable = acq.AccountsPayable + tgt.AccountsPayable
	bs.ShortTermDebt = acq.ShortTermDebt + targetSTD
	bs.OtherCurrentLiabilities = acq.OtherCurrentLiabilities + tgt.OtherCurrentLiabilities
	bs.TotalCurrentLiabilities = bs.AccountsPayable + bs.ShortTermDebt + bs.OtherCurrentLiabilities
	bs.LongTermDebt = acq.LongTermDebt + targetLTD + newDebt
	bs.NewDebtRaised = newDebt
	bs.OtherNonCurrentLiabilities = acq.OtherNonCurrentLiabilities + tgt.OtherNonCurrentLiabilities
	bs.TotalLiabilities = bs.TotalCurrentLiabilities + bs.LongTermDebt + bs.OtherNonCurrentLiabilities

	// Step 4: equity. Target equity is eliminated; stock consideration and
	// any new issuance are added to the acquirer's base, transaction costs
	// reduce it, a bargain purchase gain increases it.
	stockConsideration := d.StockConsiderationValue()
	equity := acq.TotalEquity + stockConsideration - d.Costs.Total() + gain
	if d.Equity != nil {
		equity += d.Equity.NetProceeds()
	}
	bs.TotalEquity = equity
	bs.StockConsideration = stockConsideration
	bs.BargainPurchase = bargain
	bs.BargainPurchaseGain = gain
	bs.TotalLiabilitiesEquity = bs.TotalLiabilities + bs.TotalEquity

	bs.BalanceCheckDifference = bs.TotalAssets - bs.TotalLiabilitiesEquity
	bs.Balanced = math.Abs(bs.BalanceCheckDifference) < deal.SourcesUsesTolerance
	return bs
}

// existingDebt returns the pre-deal debt that survives the close: all
// acquirer debt plus whatever target debt was not refinanced.
func (e *Engine) existingDebt() float64 {
	surviving := e.Acquirer.BalanceSheet.TotalDebt() + e.Target.BalanceSheet.TotalDebt()
	if e.Deal.RefinanceTargetDebt {
		surviving -= math.Min(e.Deal.TargetDebtToRefinance, e.Target.BalanceSheet.TotalDebt())
	}
	return surviving
}

// existingInterest returns the annual interest on surviving pre-deal debt,
// taken from each side's income statement. Refinanced target debt drops its
// interest along with its principal.
func (e *Engine) existingInterest() float64 {
	interest := e.Acquirer.IncomeStatement.InterestExpense
	if !e.Deal.RefinanceTargetDebt {
		interest += e.Target.IncomeStatement.InterestExpense
	}
	return interest
}

// FullProjection runs the year-by-year combined projection.
//
// Each year the income statement is built from compound revenue growth and
// constant margins plus that year's synergy contribution, the new debt's
// interest is charged on the opening balance of the acquisition schedule, and
// a fixed fraction of free cash flow sweeps the schedule down for the next
// year. The recursion through the schedule makes each year's interest depend
// on every prior year's paydown.
func (e *Engine) FullProjection() (Projection, error) {
	a := e.Assumptions

	sched, err := deal.NewSchedule(e.Deal.Tranches)
	if err != nil {
		return Projection{}, err
	}

	bsClose := e.BalanceSheetAtClose()
	newIntangibles := e.NewIntangibles()
	existingDebt := e.existingDebt()
	existingInterest := e.existingInterest()
	baseInterestIncome := e.Acquirer.IncomeStatement.InterestIncome + e.Target.IncomeStatement.InterestIncome
	foregoneIncome := e.Deal.AcquirerCashUsed * a.ForegoneCashYield

	acqRev0 := e.Acquirer.IncomeStatement.Revenue
	tgtRev0 := e.Target.IncomeStatement.Revenue
	prevRevenue := acqRev0 + tgtRev0

	years := make([]Year, 0, a.ProjectionYears)
	for y := 1; y <= a.ProjectionYears; y++ {
		// Step 1: revenue and EBITDA build.
		acqRev := acqRev0 * math.Pow(1+a.AcquirerRevenueGrowth, float64(y))
		tgtRev := tgtRev0 * math.Pow(1+a.TargetRevenueGrowth, float64(y))
		synRev := 0.0
		synEBITDA := 0.0
		integration := 0.0
		if e.Synergies != nil {
			synRev = e.Synergies.RevenueImpact(y)
			synEBITDA = e.Synergies.EBITDAImpact(y)
			integration = e.Synergies.IntegrationCosts(y)
		}
		revenue := acqRev + tgtRev + synRev
		acqEBITDA := acqRev * a.AcquirerEBITDAMargin
		tgtEBITDA := tgtRev * a.TargetEBITDAMargin
		ebitda := acqEBITDA + tgtEBITDA + synEBITDA

		// Step 2: down the income statement. New intangibles amortize on a
		// straight line over their useful life.
		da := revenue * a.DAPercentRevenue
		intangAmort := 0.0
		if y <= a.IntangibleUsefulLife {
			intangAmort = newIntangibles / float64(a.IntangibleUsefulLife)
		}
		ebit := ebitda - da - intangAmort

		newDebtInterest := sched.InterestOnOpening()
		interest := existingInterest + newDebtInterest
		interestIncome := math.Max(0, baseInterestIncome-foregoneIncome)

		pretax := ebit - interest + interestIncome - integration
		tax := math.Max(0, pretax*a.TaxRate)
		netIncome := pretax - tax

		// Step 3: free cash flow.
		nwcChange := (revenue - prevRevenue) * a.NWCPercentRevenue
		ocf := netIncome + da + intangAmort - nwcChange
		capex := revenue * a.CapexPercentRevenue
		fcf := ocf - capex

		// Step 4: sweep the acquisition debt with a fraction of FCF. The
		// scheduled amortization happens regardless of cash generation.
		budget := math.Max(0, fcf*a.DebtPaydownPercentFCF)
		schedYear, err := sched.Advance(budget)
		if err != nil {
			return Projection{}, err
		}

		openingDebt := existingDebt + schedYear.OpeningBalance
		endingDebt := existingDebt + schedYear.ClosingBalance

		// Step 5: credit metrics on ending debt.
		leverage := math.Inf(1)
		if ebitda > 0 {
			leverage = endingDebt / ebitda
		}
		coverage := math.Inf(1)
		if interest > 0 {
			coverage = ebitda / interest
		}

		years = append(years, Year{
			Year:                     y,
			AcquirerRevenue:          acqRev,
			TargetRevenue:            tgtRev,
			SynergyRevenue:           synRev,
			Revenue:                  revenue,
			AcquirerEBITDA:           acqEBITDA,
			TargetEBITDA:             tgtEBITDA,
			SynergyEBITDA:            synEBITDA,
			EBITDA:                   ebitda,
			DepreciationAmortization: da,
			IntangibleAmortization:   intangAmort,
			EBIT:                     ebit,
			InterestExpense:          interest,
			InterestIncome:           interestIncome,
			IntegrationCosts:         integration,
			PretaxIncome:             pretax,
			TaxExpense:               tax,
			NetIncome:                netIncome,
			NWCChange:                nwcChange,
			OperatingCashFlow:        ocf,
			Capex:                    capex,
			FreeCashFlow:             fcf,
			OpeningDebt:              openingDebt,
			MandatoryAmortization:    schedYear.MandatoryAmortization,
			DebtPaydown:              schedYear.OptionalPaydown,
			EndingDebt:               endingDebt,
			LeverageRatio:            leverage,
			InterestCoverage:         coverage,
		})
		prevRevenue = revenue
	}

	return Projection{
		BalanceSheetAtClose: bsClose,
		Years:               years,
		Assumptions:         a,
	}, nil
}

// CreditProfile extracts the credit view from a finished projection.
func CreditProfile(p Projection) []CreditMetrics {
	out := make([]CreditMetrics, 0, len(p.Years))
	for _, y := range p.Years {
		out = append(out, CreditMetrics{
			Year:             y.Year,
			TotalDebt:        y.EndingDebt,
			EBITDA:           y.EBITDA,
			InterestExpense:  y.InterestExpense,
			LeverageRatio:    y.LeverageRatio,
			InterestCoverage: y.InterestCoverage,
		})
	}
	return out
}
