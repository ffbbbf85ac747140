// Package eps answers the headline deal question: is the transaction
// accretive or dilutive to the acquirer's earnings per share, by how much,
// and what would it take to break even.
//
// The engine runs a simplified per-year income bridge: standalone earnings
// grown at each company's rate, synergies layered on after tax, financing
// drag charged on the face amount of new debt. Interest on the amortizing
// balance is the pro forma engine's concern; keeping face-value interest here
// makes the accretion math closed-form and the breakeven exact.
package eps

import (
	"math"

	"merger_model/pkg/core/company"
	"merger_model/pkg/core/deal"
	"merger_model/pkg/core/finerr"
	"merger_model/pkg/core/synergy"
)

// Classification labels the accretion outcome of one year.
type Classification string

const (
	Accretive Classification = "accretive"
	Dilutive  Classification = "dilutive"
	Neutral   Classification = "neutral"
)

// DefaultNeutralBand is the half-width of the neutral zone around zero EPS
// change, as a fraction.
const DefaultNeutralBand = 0.005

// DefaultIntangiblePremiumShare is the fraction of the control premium
// assumed written up to amortizable intangibles.
const DefaultIntangiblePremiumShare = 0.30

// DefaultIntangibleUsefulLife is the straight-line amortization period for
// new intangibles, in years.
const DefaultIntangibleUsefulLife = 10

// Engine holds the inputs of the accretion/dilution analysis. Inputs are
// read, never mutated; breakeven searches clone the deal first.
type Engine struct {
	Acquirer  company.Company
	Target    company.Company
	Deal      deal.Structure
	Synergies *synergy.Analysis

	// NeutralBand widens the neutral classification around zero.
	NeutralBand float64
	// ForegoneCashYield is the pre-tax yield lost on acquirer cash deployed
	// into the purchase.
	ForegoneCashYield float64
	// IntangiblePremiumShare and IntangibleUsefulLife drive the intangible
	// amortization drag when the per-run options enable it.
	IntangiblePremiumShare float64
	IntangibleUsefulLife   int
}

// NewEngine validates the inputs and applies defaults for zero-valued
// tuning fields.
func NewEngine(acquirer, target company.Company, d deal.Structure, syn *synergy.Analysis) (*Engine, error) {
	if err := acquirer.Validate(); err != nil {
		return nil, err
	}
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		Acquirer:               acquirer,
		Target:                 target,
		Deal:                   d,
		Synergies:              syn,
		NeutralBand:            DefaultNeutralBand,
		ForegoneCashYield:      0.02,
		IntangiblePremiumShare: DefaultIntangiblePremiumShare,
		IntangibleUsefulLife:   DefaultIntangibleUsefulLife,
	}, nil
}

// Options selects what the per-year bridge includes.
type Options struct {
	// IncludeSynergies layers the synergy program's net income impact and its
	// after-tax integration costs into the bridge.
	IncludeSynergies bool
	// IncludeIntangibleAmortization charges straight-line amortization on the
	// intangibles written up at close.
	IncludeIntangibleAmortization bool
	// SynergyOverride, when set, replaces the entire synergy program with a
	// single pre-tax EBITDA-level value for the year. Integration costs are
	// excluded under an override; the value stands alone.
	SynergyOverride *float64
}

// Result is one year of the accretion/dilution bridge.
type Result struct {
	Year int `json:"year"`

	StandaloneEPS float64 `json:"standalone_eps"`
	ProFormaEPS   float64 `json:"pro_forma_eps"`

	EPSChange        float64        `json:"eps_change"`
	EPSChangePercent float64        `json:"eps_change_percent"`
	Classification   Classification `json:"classification"`

	AcquirerNetIncome      float64 `json:"acquirer_net_income"`
	TargetNetIncome        float64 `json:"target_net_income"`
	SynergyNetIncome       float64 `json:"synergy_net_income"`
	FinancingDragAfterTax  float64 `json:"financing_drag_after_tax"`
	IntangibleAmortization float64 `json:"intangible_amortization_after_tax"`
	IntegrationCosts       float64 `json:"integration_costs_after_tax"`
	ProFormaNetIncome      float64 `json:"pro_forma_net_income"`

	StandaloneShares float64 `json:"standalone_shares"`
	SharesIssued     float64 `json:"shares_issued"`
	ProFormaShares   float64 `json:"pro_forma_shares"`
}

// SharesIssued returns the new acquirer shares issued as stock consideration,
// valued at the acquirer's current price. An all-cash deal issues none.
func (e *Engine) SharesIssued() (float64, error) {
	stock := e.Deal.StockConsiderationValue()
	if stock == 0 {
		return 0, nil
	}
	price := e.Acquirer.MarketData.SharePrice
	if price <= 0 {
		return 0, finerr.Computationf("shares_issued", "acquirer share price %v cannot value stock consideration", price)
	}
	return stock / price, nil
}

// grownNetIncome compounds a company's net income at its growth rate.
func grownNetIncome(c company.Company, year int) float64 {
	return c.IncomeStatement.NetIncome * math.Pow(1+c.RevenueGrowthRate, float64(year))
}

// newIntangibles returns the premium written up to amortizable intangibles.
func (e *Engine) newIntangibles() float64 {
	premium := e.Deal.EquityPurchasePrice() - e.Target.BalanceSheet.TotalEquity
	return e.IntangiblePremiumShare * math.Max(0, premium)
}

// afterTaxFinancingDrag returns the annual after-tax cost of funding the
// deal: interest on new debt at face plus the yield lost on cash deployed.
func (e *Engine) afterTaxFinancingDrag() float64 {
	pretax := e.Deal.AnnualInterestExpense() + e.Deal.AcquirerCashUsed*e.ForegoneCashYield
	return pretax * (1 - e.Deal.TaxRate)
}

// synergyNetIncome returns the after-tax synergy contribution for the year
// under the given options, and the after-tax integration costs alongside.
func (e *Engine) synergyNetIncome(year int, opts Options) (contribution, integration float64) {
	if opts.SynergyOverride != nil {
		return *opts.SynergyOverride * (1 - e.Deal.TaxRate), 0
	}
	if !opts.IncludeSynergies || e.Synergies == nil {
		return 0, 0
	}
	return e.Synergies.NetIncomeImpact(year), e.Synergies.AfterTaxIntegrationCosts(year)
}

// RunAnalysis builds the accretion/dilution bridge for one projection year.
func (e *Engine) RunAnalysis(year int, opts Options) (Result, error) {
	if year < 1 {
		return Result{}, finerr.Validationf("year", "must be at least 1, got %d", year)
	}

	// Step 1: standalone acquirer EPS.
	standaloneShares := e.Acquirer.MarketData.SharesOutstanding
	if standaloneShares <= 0 {
		return Result{}, finerr.Computationf("eps_analysis", "acquirer share count %v makes EPS undefined", standaloneShares)
	}
	acqNI := grownNetIncome(e.Acquirer, year)
	standaloneEPS := acqNI / standaloneShares

	// Step 2: the pro forma income bridge.
	tgtNI := grownNetIncome(e.Target, year)
	synNI, integration := e.synergyNetIncome(year, opts)
	drag := e.afterTaxFinancingDrag()

	intangAmort := 0.0
	if opts.IncludeIntangibleAmortization && year <= e.IntangibleUsefulLife {
		intangAmort = e.newIntangibles() / float64(e.IntangibleUsefulLife) * (1 - e.Deal.TaxRate)
	}

	proFormaNI := acqNI + tgtNI + synNI - drag - intangAmort - integration

	// Step 3: the share count bridge.
	issued, err := e.SharesIssued()
	if err != nil {
		return Result{}, err
	}
	proFormaShares := standaloneShares + issued
	if e.Deal.Equity != nil {
		proFormaShares += e.Deal.Equity.NewSharesIssued
	}
	proFormaEPS := proFormaNI / proFormaShares

	// Step 4: classify.
	change := proFormaEPS - standaloneEPS
	changePct := 0.0
	if standaloneEPS != 0 {
		changePct = change / standaloneEPS
	}

	return Result{
		Year:                   year,
		StandaloneEPS:          standaloneEPS,
		ProFormaEPS:            proFormaEPS,
		EPSChange:              change,
		EPSChangePercent:       changePct,
		Classification:         e.classify(changePct),
		AcquirerNetIncome:      acqNI,
		TargetNetIncome:        tgtNI,
		SynergyNetIncome:       synNI,
		FinancingDragAfterTax:  drag,
		IntangibleAmortization: intangAmort,
		IntegrationCosts:       integration,
		ProFormaNetIncome:      proFormaNI,
		StandaloneShares:       standaloneShares,
		SharesIssued:           issued,
		ProFormaShares:         proFormaShares,
	}, nil
}

func (e *Engine) classify(changePct float64) Classification {
	band := e.NeutralBand
	if band < 0 {
		band = 0
	}
	switch {
	case changePct > band:
		return Accretive
	case changePct < -band:
		return Dilutive
	default:
		return Neutral
	}
}

// MultiYearAnalysis runs the bridge for years 1..n.
func (e *Engine) MultiYearAnalysis(years int, opts Options) ([]Result, error) {
	if years < 1 {
		return nil, finerr.Validationf("years", "must be at least 1, got %d", years)
	}
	out := make([]Result, 0, years)
	for y := 1; y <= years; y++ {
		r, err := e.RunAnalysis(y, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// BreakevenSynergies returns the pre-tax annual synergy value that makes the
// year exactly EPS-neutral. The value is signed: a deal that is already
// accretive without synergies yields a negative breakeven, meaning it could
// absorb that much synergy shortfall before turning dilutive. Feeding the
// result back through RunAnalysis as a SynergyOverride reproduces a zero EPS
// change.
func (e *Engine) BreakevenSynergies(year int) (float64, error) {
	base, err := e.RunAnalysis(year, Options{IncludeSynergies: false, IncludeIntangibleAmortization: true})
	if err != nil {
		return 0, err
	}
	if base.ProFormaShares <= 0 {
		return 0, finerr.Computationf("breakeven_synergies", "pro forma share count %v makes breakeven undefined", base.ProFormaShares)
	}
	requiredNI := base.StandaloneEPS * base.ProFormaShares
	gap := requiredNI - base.ProFormaNetIncome
	return gap / (1 - e.Deal.TaxRate), nil
}

// breakevenPriceIterations and breakevenPriceTolerance bound the bisection
// in BreakevenPrice.
const (
	breakevenPriceIterations = 50
	breakevenPriceTolerance  = 0.01
)

// BreakevenPrice searches for the maximum offer price per share at which the
// year stays EPS-neutral, holding the consideration mix and financing ratios
// fixed. The search bisects on a cloned deal; the engine's own deal is never
// touched. Returns a computation error when even a zero offer is dilutive or
// the bracket cannot be established.
func (e *Engine) BreakevenPrice(year int, opts Options) (float64, error) {
	evalAt := func(price float64) (float64, error) {
		d := e.Deal.Clone()
		scale := price / e.Deal.OfferPricePerShare
		d.OfferPricePerShare = price
		d.AcquirerCashUsed *= scale
		for i := range d.Tranches {
			d.Tranches[i].Principal *= scale
		}
		if d.Equity != nil {
			d.Equity.NewSharesIssued *= scale
		}
		probe := *e
		probe.Deal = d
		r, err := probe.RunAnalysis(year, opts)
		if err != nil {
			return 0, err
		}
		return r.EPSChangePercent, nil
	}

	lo := 0.01
	hi := e.Deal.OfferPricePerShare * 3

	loChange, err := evalAt(lo)
	if err != nil {
		return 0, err
	}
	hiChange, err := evalAt(hi)
	if err != nil {
		return 0, err
	}
	if loChange < 0 {
		return 0, finerr.Computationf("breakeven_price", "dilutive even at a near-zero offer")
	}
	if hiChange > 0 {
		return 0, finerr.Computationf("breakeven_price", "still accretive at %.2f, no breakeven inside the bracket", hi)
	}

	for i := 0; i < breakevenPriceIterations && hi-lo > breakevenPriceTolerance; i++ {
		mid := (lo + hi) / 2
		change, err := evalAt(mid)
		if err != nil {
			return 0, err
		}
		if change >= 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, nil
}

// Contribution compares each side's share of combined revenue, EBITDA, and
// earnings with the target shareholders' pro forma ownership.
type Contribution struct {
	AcquirerRevenueShare   float64 `json:"acquirer_revenue_share"`
	TargetRevenueShare     float64 `json:"target_revenue_share"`
	AcquirerEBITDAShare    float64 `json:"acquirer_ebitda_share"`
	TargetEBITDAShare      float64 `json:"target_ebitda_share"`
	AcquirerNetIncomeShare float64 `json:"acquirer_net_income_share"`
	TargetNetIncomeShare   float64 `json:"target_net_income_share"`
	TargetOwnership        float64 `json:"target_ownership"`
	OwnershipVsContributed float64 `json:"ownership_vs_contributed"`
}

// contributionShares splits a metric between the two sides. A non-positive
// combined value leaves both shares zero.
func contributionShares(acq, tgt float64) (float64, float64) {
	combined := acq + tgt
	if combined <= 0 {
		return 0, 0
	}
	return acq / combined, tgt / combined
}

// ContributionAnalysis reports relative earnings contribution against the
// ownership the stock consideration hands to target shareholders. A positive
// OwnershipVsContributed means target holders receive more of the combined
// company than their earnings bring in.
func (e *Engine) ContributionAnalysis() (Contribution, error) {
	acqNI := e.Acquirer.IncomeStatement.NetIncome
	tgtNI := e.Target.IncomeStatement.NetIncome
	combined := acqNI + tgtNI
	if combined <= 0 {
		return Contribution{}, finerr.Computationf("contribution", "combined net income %v makes shares of earnings undefined", combined)
	}

	issued, err := e.SharesIssued()
	if err != nil {
		return Contribution{}, err
	}
	proFormaShares := e.Acquirer.MarketData.SharesOutstanding + issued
	ownership := 0.0
	if proFormaShares > 0 {
		ownership = issued / proFormaShares
	}

	acqRev, tgtRev := contributionShares(e.Acquirer.IncomeStatement.Revenue, e.Target.IncomeStatement.Revenue)
	acqEBITDA, tgtEBITDA := contributionShares(e.Acquirer.IncomeStatement.EBITDA, e.Target.IncomeStatement.EBITDA)

	tgtShare := tgtNI / combined
	return Contribution{
		AcquirerRevenueShare:   acqRev,
		TargetRevenueShare:     tgtRev,
		AcquirerEBITDAShare:    acqEBITDA,
		TargetEBITDAShare:      tgtEBITDA,
		AcquirerNetIncomeShare: acqNI / combined,
		TargetNetIncomeShare:   tgtShare,
		TargetOwnership:        ownership,
		OwnershipVsContributed: ownership - tgtShare,
	}, nil
}
