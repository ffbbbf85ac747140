// Package model is the facade over the individual engines: it owns one
// complete scenario and runs the full analysis through deal structuring,
// synergies, pro forma, EPS, valuation, and the sensitivity suite.
package model

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"merger_model/pkg/core/deal"
	"merger_model/pkg/core/eps"
	"merger_model/pkg/core/proforma"
	"merger_model/pkg/core/scenario"
	"merger_model/pkg/core/sensitivity"
	"merger_model/pkg/core/synergy"
	"merger_model/pkg/core/valuation"
)

// Model wraps a scenario with run bookkeeping.
type Model struct {
	RunID     string
	CreatedAt time.Time

	Scenario *scenario.Scenario

	// SynergyDiscountRate capitalizes the synergy program's NPV.
	SynergyDiscountRate float64
	// SensitivityWorkers bounds the sweep pool; zero uses the default.
	SensitivityWorkers int
}

// New builds a model around a validated scenario.
func New(sc *scenario.Scenario) *Model {
	return &Model{
		RunID:               uuid.New().String(),
		CreatedAt:           time.Now().UTC(),
		Scenario:            sc,
		SynergyDiscountRate: 0.09,
	}
}

// FullAnalysis is the complete output record of one run.
type FullAnalysis struct {
	RunID     string    `json:"run_id"`
	ModelName string    `json:"model_name"`
	CreatedAt time.Time `json:"created_at"`

	Financing          deal.FinancingSummary    `json:"financing"`
	SourcesUses        deal.SourcesUses         `json:"sources_uses"`
	Synergies          *synergy.Summary         `json:"synergies,omitempty"`
	ProForma           proforma.Projection      `json:"pro_forma"`
	Credit             []proforma.CreditMetrics `json:"credit_profile"`
	EPS                []eps.Result             `json:"eps_by_year"`
	Contribution       eps.Contribution         `json:"contribution"`
	BreakevenSynergies float64                  `json:"breakeven_synergies"`
	Valuation          valuation.Summary        `json:"valuation"`
	WACCByYear         []valuation.WACCResult   `json:"wacc_by_year"`
	Sensitivity        sensitivity.Suite        `json:"sensitivity"`

	ExecutiveSummary string `json:"executive_summary"`
}

// Run executes every engine against the scenario and assembles the record.
func (m *Model) Run() (*FullAnalysis, error) {
	sc := m.Scenario
	log.Printf("run %s: analyzing %s", m.RunID, sc.ModelName)

	// Deal structuring
	financing := sc.Deal.Summary()
	sourcesUses := sc.Deal.SourcesUsesSummary()

	// Synergies
	var synSummary *synergy.Summary
	if sc.Synergies != nil {
		s, err := sc.Synergies.Summarize(m.SynergyDiscountRate)
		if err != nil {
			return nil, fmt.Errorf("synergy summary: %w", err)
		}
		synSummary = &s
	}

	// Pro forma projection
	pfEngine, err := proforma.NewEngine(sc.Acquirer, sc.Target, sc.Deal, sc.Synergies, sc.Assumptions)
	if err != nil {
		return nil, fmt.Errorf("pro forma engine: %w", err)
	}
	projection, err := pfEngine.FullProjection()
	if err != nil {
		return nil, fmt.Errorf("pro forma projection: %w", err)
	}

	// EPS accretion/dilution
	epsEngine, err := eps.NewEngine(sc.Acquirer, sc.Target, sc.Deal, sc.Synergies)
	if err != nil {
		return nil, fmt.Errorf("eps engine: %w", err)
	}
	opts := eps.Options{IncludeSynergies: true, IncludeIntangibleAmortization: true}
	epsByYear, err := epsEngine.MultiYearAnalysis(sc.Assumptions.ProjectionYears, opts)
	if err != nil {
		return nil, fmt.Errorf("eps analysis: %w", err)
	}
	contribution, err := epsEngine.ContributionAnalysis()
	if err != nil {
		return nil, fmt.Errorf("contribution analysis: %w", err)
	}
	breakeven, err := epsEngine.BreakevenSynergies(1)
	if err != nil {
		return nil, fmt.Errorf("breakeven synergies: %w", err)
	}

	// Standalone valuation of the target
	valSummary, err := valuation.Summarize(sc.Target, sc.DCF, sc.TradingComps, sc.TransactionComps, sc.Deal.OfferPricePerShare)
	if err != nil {
		return nil, fmt.Errorf("valuation: %w", err)
	}

	// Cost of capital as the combined entity delevers
	credit := proforma.CreditProfile(projection)
	debtByYear := make([]float64, len(credit))
	for i, c := range credit {
		debtByYear[i] = c.TotalDebt
	}
	waccInput := valuation.DefaultWACCInput()
	waccInput.Beta = sc.Acquirer.MarketData.Beta
	combinedEquity := sc.Acquirer.MarketData.MarketCap() + sc.Deal.StockConsiderationValue()
	waccByYear := valuation.DeleveragingWACCSeries(waccInput, debtByYear, combinedEquity)

	// Sensitivity suite
	base := sensitivity.Scenario{
		Acquirer:    sc.Acquirer,
		Target:      sc.Target,
		Deal:        sc.Deal,
		Synergies:   sc.Synergies,
		Assumptions: sc.Assumptions,
		DCF:         sc.DCF,
	}
	suite, err := sensitivity.RunSuite(base, 1, m.SensitivityWorkers)
	if err != nil {
		return nil, fmt.Errorf("sensitivity suite: %w", err)
	}

	analysis := &FullAnalysis{
		RunID:              m.RunID,
		ModelName:          sc.ModelName,
		CreatedAt:          m.CreatedAt,
		Financing:          financing,
		SourcesUses:        sourcesUses,
		Synergies:          synSummary,
		ProForma:           projection,
		Credit:             credit,
		EPS:                epsByYear,
		Contribution:       contribution,
		BreakevenSynergies: breakeven,
		Valuation:          valSummary,
		WACCByYear:         waccByYear,
		Sensitivity:        suite,
	}
	analysis.ExecutiveSummary = buildExecutiveSummary(sc, analysis)
	log.Printf("run %s: complete, year-1 EPS change %.2f%%", m.RunID, epsByYear[0].EPSChangePercent*100)
	return analysis, nil
}

// buildExecutiveSummary renders the headline numbers as a short plain-text
// narrative.
func buildExecutiveSummary(sc *scenario.Scenario, a *FullAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", sc.ModelName)
	fmt.Fprintf(&b, "Offer: $%.2f per share (%.1f%% premium), equity purchase price $%.1fB, implied EV $%.1fB.\n",
		a.Financing.OfferPricePerShare,
		a.Financing.ControlPremium*100,
		a.Financing.EquityPurchasePrice/1e9,
		a.Financing.ImpliedEV/1e9,
	)
	fmt.Fprintf(&b, "Consideration: %.0f%% cash / %.0f%% stock. Sources %.1fB vs uses %.1fB (balanced: %v).\n",
		a.Financing.CashPercentage*100,
		a.Financing.StockPercentage*100,
		a.SourcesUses.SourcesTotal/1e9,
		a.SourcesUses.UsesTotal/1e9,
		a.SourcesUses.IsBalanced,
	)
	if a.Synergies != nil {
		fmt.Fprintf(&b, "Synergies: $%.0fM run-rate EBITDA, NPV $%.1fB.\n",
			a.Synergies.RunRate.EBITDAImpact/1e6,
			a.Synergies.NPV/1e9,
		)
	}
	if len(a.EPS) > 0 {
		y1 := a.EPS[0]
		fmt.Fprintf(&b, "Year 1 EPS: $%.2f standalone vs $%.2f pro forma (%+.1f%%, %s).\n",
			y1.StandaloneEPS, y1.ProFormaEPS, y1.EPSChangePercent*100, y1.Classification)
	}
	fmt.Fprintf(&b, "Breakeven synergies: $%.0fM pre-tax.\n", a.BreakevenSynergies/1e6)
	if len(a.Credit) > 0 {
		first := a.Credit[0]
		last := a.Credit[len(a.Credit)-1]
		fmt.Fprintf(&b, "Leverage: %.1fx year 1 declining to %.1fx year %d.\n",
			first.LeverageRatio, last.LeverageRatio, last.Year)
	}
	return b.String()
}
