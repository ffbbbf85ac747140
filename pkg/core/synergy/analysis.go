package synergy

import (
	"math"

	"merger_model/pkg/core/finerr"
)

// Analysis aggregates the synergy program over a projection horizon: per-year
// EBITDA and net income impact, integration cost timing, run-rate totals,
// category breakdown, and NPV.
type Analysis struct {
	ProjectionYears int
	TaxRate         float64

	costItems        []Item
	revenueItems     []Item
	integrationCosts []IntegrationCost
}

// NewAnalysis builds an empty analysis for the given horizon.
func NewAnalysis(projectionYears int, taxRate float64) (*Analysis, error) {
	if projectionYears < 1 {
		return nil, finerr.Validationf("projection_years", "must be at least 1, got %d", projectionYears)
	}
	if taxRate < 0 || taxRate >= 1 {
		return nil, finerr.Validationf("tax_rate", "must be in [0, 1), got %v", taxRate)
	}
	return &Analysis{ProjectionYears: projectionYears, TaxRate: taxRate}, nil
}

// AddCostSynergy appends a cost item. The item must be of cost kind.
func (a *Analysis) AddCostSynergy(item Item) error {
	if item.Kind != KindCost {
		return finerr.Validationf("synergy "+item.Name, "expected cost item, got %q", item.Kind)
	}
	a.costItems = append(a.costItems, item)
	return nil
}

// AddRevenueSynergy appends a revenue item. The item must be of revenue kind.
func (a *Analysis) AddRevenueSynergy(item Item) error {
	if item.Kind != KindRevenue {
		return finerr.Validationf("synergy "+item.Name, "expected revenue item, got %q", item.Kind)
	}
	a.revenueItems = append(a.revenueItems, item)
	return nil
}

// AddIntegrationCost appends a one-time cost after validating it.
func (a *Analysis) AddIntegrationCost(cost IntegrationCost) error {
	if err := cost.Validate(); err != nil {
		return err
	}
	a.integrationCosts = append(a.integrationCosts, cost)
	return nil
}

// Items returns all synergy items, cost first.
func (a *Analysis) Items() []Item {
	out := make([]Item, 0, len(a.costItems)+len(a.revenueItems))
	out = append(out, a.costItems...)
	out = append(out, a.revenueItems...)
	return out
}

// Clone returns a fully independent copy of the analysis.
func (a *Analysis) Clone() *Analysis {
	out := &Analysis{
		ProjectionYears:  a.ProjectionYears,
		TaxRate:          a.TaxRate,
		costItems:        make([]Item, len(a.costItems)),
		revenueItems:     make([]Item, len(a.revenueItems)),
		integrationCosts: make([]IntegrationCost, len(a.integrationCosts)),
	}
	for i, it := range a.costItems {
		out.costItems[i] = it.clone()
	}
	for i, it := range a.revenueItems {
		out.revenueItems[i] = it.clone()
	}
	copy(out.integrationCosts, a.integrationCosts)
	return out
}

// ScaleRealization multiplies every item's run-rate value by mult, in place.
// Sensitivity sweeps call this on a clone, never on the shared base.
func (a *Analysis) ScaleRealization(mult float64) error {
	if mult < 0 {
		return finerr.Validationf("realization_multiplier", "must not be negative, got %v", mult)
	}
	for i := range a.costItems {
		a.costItems[i].TotalAnnualValue *= mult
	}
	for i := range a.revenueItems {
		a.revenueItems[i].TotalAnnualValue *= mult
	}
	return nil
}

// yearSum folds fn over a set of items for every year of the horizon. The
// returned slice is 0-indexed: entry i holds year i+1.
func (a *Analysis) yearSum(items []Item, fn func(Item, int) float64) []float64 {
	out := make([]float64, a.ProjectionYears)
	for y := 1; y <= a.ProjectionYears; y++ {
		for _, it := range items {
			out[y-1] += fn(it, y)
		}
	}
	return out
}

// CostSynergiesByYear returns per-year cost synergy totals, risk-adjusted or
// gross. Entry i holds year i+1.
func (a *Analysis) CostSynergiesByYear(riskAdjusted bool) []float64 {
	if riskAdjusted {
		return a.yearSum(a.costItems, Item.RiskAdjustedValue)
	}
	return a.yearSum(a.costItems, Item.ValueByYear)
}

// RevenueSynergiesByYear returns per-year revenue synergy totals before
// margin flow-through.
func (a *Analysis) RevenueSynergiesByYear(riskAdjusted bool) []float64 {
	if riskAdjusted {
		return a.yearSum(a.revenueItems, Item.RiskAdjustedValue)
	}
	return a.yearSum(a.revenueItems, Item.ValueByYear)
}

// EBITDAImpactByYear returns per-year risk-adjusted EBITDA impact: cost items
// at par plus revenue items at their incremental margin.
func (a *Analysis) EBITDAImpactByYear() []float64 {
	out := a.yearSum(a.costItems, Item.EBITDAImpact)
	rev := a.yearSum(a.revenueItems, Item.EBITDAImpact)
	for i := range out {
		out[i] += rev[i]
	}
	return out
}

// EBITDAImpact returns the risk-adjusted EBITDA impact for one 1-indexed
// year. Years past the horizon stay at full run rate; years before 1 are 0.
func (a *Analysis) EBITDAImpact(year int) float64 {
	if year < 1 {
		return 0
	}
	total := 0.0
	for _, it := range a.costItems {
		total += it.EBITDAImpact(year)
	}
	for _, it := range a.revenueItems {
		total += it.EBITDAImpact(year)
	}
	return total
}

// RevenueImpact returns the risk-adjusted incremental revenue for a year.
func (a *Analysis) RevenueImpact(year int) float64 {
	if year < 1 {
		return 0
	}
	total := 0.0
	for _, it := range a.revenueItems {
		total += it.RiskAdjustedValue(year)
	}
	return total
}

// NetIncomeImpactByYear returns the after-tax per-year synergy benefit.
func (a *Analysis) NetIncomeImpactByYear() []float64 {
	out := a.EBITDAImpactByYear()
	for i := range out {
		out[i] *= 1 - a.TaxRate
	}
	return out
}

// NetIncomeImpact returns the after-tax synergy benefit for one year.
func (a *Analysis) NetIncomeImpact(year int) float64 {
	return a.EBITDAImpact(year) * (1 - a.TaxRate)
}

// IntegrationCostsByYear returns per-year gross integration costs. Costs
// incurred beyond the horizon are dropped, matching the projection window.
func (a *Analysis) IntegrationCostsByYear() []float64 {
	out := make([]float64, a.ProjectionYears)
	for _, c := range a.integrationCosts {
		if c.YearIncurred >= 1 && c.YearIncurred <= a.ProjectionYears {
			out[c.YearIncurred-1] += c.Amount
		}
	}
	return out
}

// IntegrationCosts returns the gross integration cost for one year.
func (a *Analysis) IntegrationCosts(year int) float64 {
	total := 0.0
	for _, c := range a.integrationCosts {
		if c.YearIncurred == year {
			total += c.Amount
		}
	}
	return total
}

// AfterTaxIntegrationCosts returns the year's integration cost net of tax
// shields on the deductible portion.
func (a *Analysis) AfterTaxIntegrationCosts(year int) float64 {
	total := 0.0
	for _, c := range a.integrationCosts {
		if c.YearIncurred == year {
			total += c.AfterTax(a.TaxRate)
		}
	}
	return total
}

// TotalIntegrationCosts returns the gross cost across all years.
func (a *Analysis) TotalIntegrationCosts() float64 {
	total := 0.0
	for _, c := range a.integrationCosts {
		total += c.Amount
	}
	return total
}

// RunRate holds the fully phased-in annual totals.
type RunRate struct {
	CostSynergies    float64 `json:"cost_synergies"`
	RevenueSynergies float64 `json:"revenue_synergies"`
	EBITDAImpact     float64 `json:"ebitda_impact"`
	NetIncomeImpact  float64 `json:"net_income_impact"`
}

// TotalRunRate returns the program's full-realization annual totals. Run-rate
// figures are gross of realization risk, matching how synergy targets are
// quoted externally.
func (a *Analysis) TotalRunRate() RunRate {
	var cost, revenue, revenueEBITDA float64
	for _, it := range a.costItems {
		cost += it.TotalAnnualValue
	}
	for _, it := range a.revenueItems {
		revenue += it.TotalAnnualValue
		revenueEBITDA += it.TotalAnnualValue * it.IncrementalMargin
	}
	ebitda := cost + revenueEBITDA
	return RunRate{
		CostSynergies:    cost,
		RevenueSynergies: revenue,
		EBITDAImpact:     ebitda,
		NetIncomeImpact:  ebitda * (1 - a.TaxRate),
	}
}

// NPV discounts the after-tax net synergy cash flow (per-year net income
// impact minus after-tax integration costs) at the supplied rate, then adds
// the terminal value of the run-rate benefit capitalized at that rate.
// Integration costs in early years are included even before any synergy has
// phased in.
func (a *Analysis) NPV(discountRate float64) (float64, error) {
	if discountRate <= 0 {
		return 0, finerr.Computationf("synergy_npv", "discount rate must be positive, got %v", discountRate)
	}

	npv := 0.0
	for year := 1; year <= a.ProjectionYears; year++ {
		netBenefit := a.NetIncomeImpact(year) - a.AfterTaxIntegrationCosts(year)
		npv += netBenefit / math.Pow(1+discountRate, float64(year))
	}

	terminal := a.TotalRunRate().NetIncomeImpact / discountRate
	npv += terminal / math.Pow(1+discountRate, float64(a.ProjectionYears))
	return npv, nil
}

// Breakdown returns run-rate totals by category, split by kind.
func (a *Analysis) Breakdown() (map[Category]float64, map[Category]float64) {
	cost := make(map[Category]float64)
	for _, it := range a.costItems {
		cost[it.Category] += it.TotalAnnualValue
	}
	revenue := make(map[Category]float64)
	for _, it := range a.revenueItems {
		revenue[it.Category] += it.TotalAnnualValue
	}
	return cost, revenue
}

// YearsToFullRealization returns the longest phase-in among all items.
func (a *Analysis) YearsToFullRealization() int {
	max := 0
	for _, it := range a.Items() {
		if it.PhaseInYears() > max {
			max = it.PhaseInYears()
		}
	}
	return max
}

// Summary is the reportable overview of the synergy program.
type Summary struct {
	RunRate                RunRate              `json:"run_rate"`
	TotalIntegrationCosts  float64              `json:"total_integration_costs"`
	CostSynergiesByYear    []float64            `json:"cost_synergies_by_year"`
	RevenueSynergiesByYear []float64            `json:"revenue_synergies_by_year"`
	EBITDAImpactByYear     []float64            `json:"ebitda_impact_by_year"`
	NetIncomeImpactByYear  []float64            `json:"net_income_impact_by_year"`
	IntegrationCostsByYear []float64            `json:"integration_costs_by_year"`
	CostByCategory         map[Category]float64 `json:"cost_by_category"`
	RevenueByCategory      map[Category]float64 `json:"revenue_by_category"`
	NPV                    float64              `json:"npv"`
	YearsToFullRealization int                  `json:"years_to_full_realization"`
}

// Summarize assembles the summary record at the given discount rate.
func (a *Analysis) Summarize(discountRate float64) (Summary, error) {
	npv, err := a.NPV(discountRate)
	if err != nil {
		return Summary{}, err
	}
	costCat, revCat := a.Breakdown()
	return Summary{
		RunRate:                a.TotalRunRate(),
		TotalIntegrationCosts:  a.TotalIntegrationCosts(),
		CostSynergiesByYear:    a.CostSynergiesByYear(true),
		RevenueSynergiesByYear: a.RevenueSynergiesByYear(true),
		EBITDAImpactByYear:     a.EBITDAImpactByYear(),
		NetIncomeImpactByYear:  a.NetIncomeImpactByYear(),
		IntegrationCostsByYear: a.IntegrationCostsByYear(),
		CostByCategory:         costCat,
		RevenueByCategory:      revCat,
		NPV:                    npv,
		YearsToFullRealization: a.YearsToFullRealization(),
	}, nil
}
