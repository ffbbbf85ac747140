// Package synergy models cost and revenue synergies with phase-in schedules,
// realization-risk adjustment, one-time integration costs, and the NPV of the
// whole program. Items are validated at construction and immutable afterwards.
package synergy

import (
	"merger_model/pkg/core/finerr"
)

// Kind separates cost synergies, which flow to EBITDA dollar-for-dollar, from
// revenue synergies, which flow through at an incremental margin.
type Kind string

const (
	KindCost    Kind = "cost"
	KindRevenue Kind = "revenue"
)

// Category is the closed set of synergy categories.
type Category string

const (
	// Cost categories
	HeadcountReduction      Category = "headcount_reduction"
	FacilitiesConsolidation Category = "facilities_consolidation"
	ITSystemsIntegration    Category = "it_systems_integration"
	ProcurementSavings      Category = "procurement_savings"
	CorporateOverhead       Category = "corporate_overhead"
	MarketingOptimization   Category = "marketing_optimization"

	// Revenue categories
	CrossSelling        Category = "cross_selling"
	GeographicExpansion Category = "geographic_expansion"
	ProductBundling     Category = "product_bundling"
	PricingOptimization Category = "pricing_optimization"
	CustomerRetention   Category = "customer_retention"
	NewMarketAccess     Category = "new_market_access"
)

// DefaultIncrementalMargin is the EBITDA flow-through applied to revenue
// synergies when an item does not specify its own.
const DefaultIncrementalMargin = 0.25

// Item is one synergy line with its phase-in schedule. Construct via NewItem;
// items are immutable once built.
type Item struct {
	Name             string
	Kind             Kind
	Category         Category
	TotalAnnualValue float64
	PhaseInSchedule  []float64
	RealizationRisk  float64 // probability of not achieving
	OneTimeCost      float64

	// IncrementalMargin applies to revenue items only; cost items carry 1.
	IncrementalMargin float64
}

// NewItem validates and builds a synergy item. The phase-in schedule must be
// non-empty, non-decreasing, and end at or below 1.0; realization risk must
// lie in [0, 1]. Revenue items with a zero margin receive the default.
func NewItem(
	name string,
	kind Kind,
	category Category,
	totalAnnualValue float64,
	phaseInSchedule []float64,
	realizationRisk float64,
	oneTimeCost float64,
) (Item, error) {
	if kind != KindCost && kind != KindRevenue {
		return Item{}, finerr.Validationf("synergy "+name, "unknown kind %q", kind)
	}
	if totalAnnualValue <= 0 {
		return Item{}, finerr.Validationf("synergy "+name, "run-rate value must be positive, got %v", totalAnnualValue)
	}
	if len(phaseInSchedule) == 0 {
		return Item{}, finerr.Validationf("synergy "+name, "phase-in schedule must not be empty")
	}
	prev := 0.0
	for i, f := range phaseInSchedule {
		if f < prev {
			return Item{}, finerr.Validationf("synergy "+name, "phase-in schedule must be non-decreasing, year %d drops to %v", i+1, f)
		}
		prev = f
	}
	if last := phaseInSchedule[len(phaseInSchedule)-1]; last > 1.0 {
		return Item{}, finerr.Validationf("synergy "+name, "final phase-in fraction %v exceeds 1.0", last)
	}
	if realizationRisk < 0 || realizationRisk > 1 {
		return Item{}, finerr.Validationf("synergy "+name, "realization risk %v must be in [0, 1]", realizationRisk)
	}
	if oneTimeCost < 0 {
		return Item{}, finerr.Validationf("synergy "+name, "one-time cost must not be negative, got %v", oneTimeCost)
	}

	margin := 1.0
	if kind == KindRevenue {
		margin = DefaultIncrementalMargin
	}

	schedule := make([]float64, len(phaseInSchedule))
	copy(schedule, phaseInSchedule)

	return Item{
		Name:              name,
		Kind:              kind,
		Category:          category,
		TotalAnnualValue:  totalAnnualValue,
		PhaseInSchedule:   schedule,
		RealizationRisk:   realizationRisk,
		OneTimeCost:       oneTimeCost,
		IncrementalMargin: margin,
	}, nil
}

// WithIncrementalMargin returns a copy of a revenue item carrying a custom
// flow-through margin.
func (it Item) WithIncrementalMargin(margin float64) (Item, error) {
	if it.Kind != KindRevenue {
		return Item{}, finerr.Validationf("synergy "+it.Name, "incremental margin only applies to revenue items")
	}
	if margin <= 0 || margin > 1 {
		return Item{}, finerr.Validationf("synergy "+it.Name, "incremental margin %v must be in (0, 1]", margin)
	}
	out := it.clone()
	out.IncrementalMargin = margin
	return out, nil
}

func (it Item) clone() Item {
	out := it
	out.PhaseInSchedule = make([]float64, len(it.PhaseInSchedule))
	copy(out.PhaseInSchedule, it.PhaseInSchedule)
	return out
}

// PhaseInYears returns the length of the phase-in schedule.
func (it Item) PhaseInYears() int {
	return len(it.PhaseInSchedule)
}

// PhaseInFraction returns the realized fraction for a 1-indexed year: zero
// before activation, the schedule value within range, and the final schedule
// value (full run rate) beyond it.
func (it Item) PhaseInFraction(year int) float64 {
	switch {
	case year < 1:
		return 0
	case year > len(it.PhaseInSchedule):
		return it.PhaseInSchedule[len(it.PhaseInSchedule)-1]
	default:
		return it.PhaseInSchedule[year-1]
	}
}

// ValueByYear returns the gross (pre-risk) synergy value for a year.
func (it Item) ValueByYear(year int) float64 {
	return it.TotalAnnualValue * it.PhaseInFraction(year)
}

// RiskAdjustedValue scales the year's value by the achievement probability.
func (it Item) RiskAdjustedValue(year int) float64 {
	return it.ValueByYear(year) * (1 - it.RealizationRisk)
}

// EBITDAImpact returns the year's risk-adjusted EBITDA contribution. Revenue
// items flow through at their incremental margin, cost items at par.
func (it Item) EBITDAImpact(year int) float64 {
	return it.RiskAdjustedValue(year) * it.IncrementalMargin
}

// IntegrationCost is a one-time cost attributed to a single 1-indexed year.
type IntegrationCost struct {
	Description   string
	Amount        float64
	YearIncurred  int
	TaxDeductible bool
}

// Validate checks the integration cost fields.
func (c IntegrationCost) Validate() error {
	if c.Amount < 0 {
		return finerr.Validationf("integration cost "+c.Description, "amount must not be negative, got %v", c.Amount)
	}
	if c.YearIncurred < 1 {
		return finerr.Validationf("integration cost "+c.Description, "year incurred must be 1-indexed, got %d", c.YearIncurred)
	}
	return nil
}

// AfterTax returns the cost net of its tax shield when deductible.
func (c IntegrationCost) AfterTax(taxRate float64) float64 {
	if c.TaxDeductible {
		return c.Amount * (1 - taxRate)
	}
	return c.Amount
}
