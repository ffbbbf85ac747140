// Package sensitivity runs deal metrics across grids of input overrides.
// Every grid cell evaluates a clone of the base scenario with that cell's
// overrides applied, so cells are fully isolated from the base and from each
// other and can run concurrently.
package sensitivity

import (
	"fmt"
	"sync"

	"merger_model/pkg/core/company"
	"merger_model/pkg/core/deal"
	"merger_model/pkg/core/eps"
	"merger_model/pkg/core/finerr"
	"merger_model/pkg/core/proforma"
	"merger_model/pkg/core/synergy"
	"merger_model/pkg/core/valuation"
)

// Scenario bundles everything a single evaluation needs. The base scenario
// is never mutated; Clone produces the copy a cell overrides.
type Scenario struct {
	Acquirer    company.Company
	Target      company.Company
	Deal        deal.Structure
	Synergies   *synergy.Analysis
	Assumptions proforma.Assumptions
	DCF         valuation.DCFAssumptions
}

// Clone returns a deep, independent copy of the scenario.
func (s Scenario) Clone() Scenario {
	out := s
	out.Acquirer = s.Acquirer.Clone()
	out.Target = s.Target.Clone()
	out.Deal = s.Deal.Clone()
	if s.Synergies != nil {
		out.Synergies = s.Synergies.Clone()
	}
	out.DCF.RevenueGrowthRates = append([]float64(nil), s.DCF.RevenueGrowthRates...)
	out.DCF.EBITDAMargins = append([]float64(nil), s.DCF.EBITDAMargins...)
	return out
}

// Axis is one swept dimension: an ordered list of values and the override
// that applies one of them to a cloned scenario.
type Axis struct {
	Name   string
	Values []float64
	Apply  func(*Scenario, float64)
}

// Evaluator computes the metric of interest for one (already overridden)
// scenario.
type Evaluator func(Scenario) (float64, error)

// Cell is one evaluated grid point. A failed evaluation keeps its position
// in the grid with Err set; the rest of the grid is unaffected.
type Cell struct {
	Coordinates []float64 `json:"coordinates"`
	Value       float64   `json:"value"`
	Err         string    `json:"error,omitempty"`
}

// Grid is the full result of a sweep. Cells are stored row-major in axis
// order; At addresses them by per-axis index.
type Grid struct {
	Metric string   `json:"metric"`
	Axes   []string `json:"axes"`
	Shape  []int    `json:"shape"`
	Cells  []Cell   `json:"cells"`
}

// At returns the cell at the given per-axis indices.
func (g Grid) At(indices ...int) (Cell, error) {
	if len(indices) != len(g.Shape) {
		return Cell{}, finerr.Computationf("grid_at", "got %d indices for a %d-axis grid", len(indices), len(g.Shape))
	}
	flat := 0
	for i, idx := range indices {
		if idx < 0 || idx >= g.Shape[i] {
			return Cell{}, finerr.Computationf("grid_at", "index %d out of range for axis %s", idx, g.Axes[i])
		}
		flat = flat*g.Shape[i] + idx
	}
	return g.Cells[flat], nil
}

// DefaultWorkers bounds the evaluation pool when the caller passes zero.
const DefaultWorkers = 4

// Run evaluates the metric across the cross product of the axes. Each cell
// clones the base, applies its coordinate overrides in axis order, and
// evaluates. Cells are preallocated and each worker writes only its own
// index, so no locking is needed around the result slice.
func Run(metric string, base Scenario, axes []Axis, eval Evaluator, workers int) (Grid, error) {
	if len(axes) == 0 {
		return Grid{}, finerr.Validationf("axes", "at least one axis is required")
	}
	total := 1
	shape := make([]int, len(axes))
	names := make([]string, len(axes))
	for i, ax := range axes {
		if len(ax.Values) == 0 {
			return Grid{}, finerr.Validationf("axis "+ax.Name, "must have at least one value")
		}
		if ax.Apply == nil {
			return Grid{}, finerr.Validationf("axis "+ax.Name, "missing apply function")
		}
		shape[i] = len(ax.Values)
		names[i] = ax.Name
		total *= len(ax.Values)
	}

	if workers <= 0 {
		workers = DefaultWorkers
	}
	if workers > total {
		workers = total
	}

	cells := make([]Cell, total)
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for flat := range jobs {
				cells[flat] = evaluateCell(flat, base, axes, shape, eval)
			}
		}()
	}
	for flat := 0; flat < total; flat++ {
		jobs <- flat
	}
	close(jobs)
	wg.Wait()

	return Grid{Metric: metric, Axes: names, Shape: shape, Cells: cells}, nil
}

func evaluateCell(flat int, base Scenario, axes []Axis, shape []int, eval Evaluator) Cell {
	// Unflatten in row-major order to recover the per-axis indices.
	coords := make([]float64, len(axes))
	rem := flat
	for i := len(axes) - 1; i >= 0; i-- {
		idx := rem % shape[i]
		rem /= shape[i]
		coords[i] = axes[i].Values[idx]
	}

	sc := base.Clone()
	for i, ax := range axes {
		ax.Apply(&sc, coords[i])
	}

	cell := Cell{Coordinates: coords}
	value, err := eval(sc)
	if err != nil {
		cell.Err = err.Error()
		return cell
	}
	cell.Value = value
	return cell
}

// ----------------------------------------------------------------------------
// Built-in evaluators
// ----------------------------------------------------------------------------

// EvaluateEPSChange returns year-1 EPS change percent under full synergies
// and intangible amortization.
func EvaluateEPSChange(year int) Evaluator {
	return func(sc Scenario) (float64, error) {
		engine, err := eps.NewEngine(sc.Acquirer, sc.Target, sc.Deal, sc.Synergies)
		if err != nil {
			return 0, err
		}
		r, err := engine.RunAnalysis(year, eps.Options{
			IncludeSynergies:              true,
			IncludeIntangibleAmortization: true,
		})
		if err != nil {
			return 0, err
		}
		return r.EPSChangePercent, nil
	}
}

// EvaluateLeverage returns the ending leverage ratio of the given projection
// year from a full pro forma run.
func EvaluateLeverage(year int) Evaluator {
	return func(sc Scenario) (float64, error) {
		engine, err := proforma.NewEngine(sc.Acquirer, sc.Target, sc.Deal, sc.Synergies, sc.Assumptions)
		if err != nil {
			return 0, err
		}
		p, err := engine.FullProjection()
		if err != nil {
			return 0, err
		}
		if year < 1 || year > len(p.Years) {
			return 0, finerr.Computationf("leverage", "year %d outside the %d-year projection", year, len(p.Years))
		}
		return p.Years[year-1].LeverageRatio, nil
	}
}

// EvaluateEquityPurchasePrice returns the equity purchase price, which makes
// offer-price axes directly observable in a grid.
func EvaluateEquityPurchasePrice() Evaluator {
	return func(sc Scenario) (float64, error) {
		return sc.Deal.EquityPurchasePrice(), nil
	}
}

// EvaluateDCFPrice returns the target's standalone DCF implied share price
// under the scenario's valuation assumptions.
func EvaluateDCFPrice() Evaluator {
	return func(sc Scenario) (float64, error) {
		r, err := valuation.CalculateDCF(sc.Target, sc.DCF)
		if err != nil {
			return 0, err
		}
		return r.ImpliedSharePrice, nil
	}
}

// EvaluateSynergyNPV returns the synergy program NPV at the given rate.
func EvaluateSynergyNPV(discountRate float64) Evaluator {
	return func(sc Scenario) (float64, error) {
		if sc.Synergies == nil {
			return 0, finerr.Computationf("synergy_npv", "scenario has no synergy program")
		}
		return sc.Synergies.NPV(discountRate)
	}
}

// ----------------------------------------------------------------------------
// Built-in axes
// ----------------------------------------------------------------------------

// steps returns n evenly spaced values from lo to hi inclusive.
func steps(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + step*float64(i)
	}
	// Land exactly on hi despite accumulated float error.
	out[n-1] = hi
	return out
}

// OfferPriceAxis sweeps the offer price from 80% to 120% of the base in nine
// steps.
func OfferPriceAxis(basePrice float64) Axis {
	return Axis{
		Name:   "offer_price_per_share",
		Values: steps(basePrice*0.8, basePrice*1.2, 9),
		Apply: func(sc *Scenario, v float64) {
			sc.Deal.OfferPricePerShare = v
		},
	}
}

// CashPercentageAxis sweeps the cash portion of the consideration from
// all-stock to all-cash in five steps.
func CashPercentageAxis() Axis {
	return Axis{
		Name:   "cash_percentage",
		Values: steps(0, 1, 5),
		Apply: func(sc *Scenario, v float64) {
			sc.Deal.CashPercentage = v
		},
	}
}

// InterestRateShockAxis shifts every tranche rate by the shock, expressed in
// basis points.
func InterestRateShockAxis(shocksBps []float64) Axis {
	return Axis{
		Name:   "interest_rate_shock_bps",
		Values: shocksBps,
		Apply: func(sc *Scenario, v float64) {
			for i := range sc.Deal.Tranches {
				sc.Deal.Tranches[i].InterestRate += v / 10000
			}
		},
	}
}

// SynergyRealizationAxis scales every synergy item's annual value by the
// multiplier. A scenario without synergies passes through unchanged; the
// evaluator decides whether that is an error.
func SynergyRealizationAxis() Axis {
	return Axis{
		Name:   "synergy_realization_multiplier",
		Values: steps(0, 1.5, 7),
		Apply: func(sc *Scenario, v float64) {
			if sc.Synergies == nil {
				return
			}
			// Clone already isolated the analysis; scaling mutates only this
			// cell's copy. A non-negative multiplier cannot fail validation.
			_ = sc.Synergies.ScaleRealization(v)
		},
	}
}

// DiscountRateAxis sweeps the standalone valuation WACC around a base rate,
// plus and minus 200 basis points.
func DiscountRateAxis(baseWACC float64) Axis {
	lo := baseWACC - 0.02
	if lo < 0.005 {
		lo = 0.005
	}
	return Axis{
		Name:   "wacc",
		Values: steps(lo, baseWACC+0.02, 9),
		Apply: func(sc *Scenario, v float64) {
			sc.DCF.WACC = v
		},
	}
}

// TerminalGrowthAxis sweeps the perpetuity growth rate around a base rate,
// plus and minus 100 basis points.
func TerminalGrowthAxis(baseRate float64) Axis {
	lo := baseRate - 0.01
	if lo < 0.005 {
		lo = 0.005
	}
	return Axis{
		Name:   "terminal_growth_rate",
		Values: steps(lo, baseRate+0.01, 5),
		Apply: func(sc *Scenario, v float64) {
			sc.DCF.TerminalGrowthRate = v
		},
	}
}

// DebtPaydownAxis sweeps the fraction of free cash flow swept into debt
// paydown.
func DebtPaydownAxis() Axis {
	return Axis{
		Name:   "debt_paydown_percent_fcf",
		Values: steps(0, 1, 5),
		Apply: func(sc *Scenario, v float64) {
			sc.Assumptions.DebtPaydownPercentFCF = v
		},
	}
}

// ----------------------------------------------------------------------------
// Canned sweeps
// ----------------------------------------------------------------------------

// Suite is the standard set of one- and two-dimensional sweeps reported with
// a full analysis.
type Suite struct {
	OfferPriceVsEPS     Grid `json:"offer_price_vs_eps"`
	CashMixVsEPS        Grid `json:"cash_mix_vs_eps"`
	RateShockVsEPS      Grid `json:"rate_shock_vs_eps"`
	SynergyVsEPS        Grid `json:"synergy_vs_eps"`
	PriceVsCashMatrix   Grid `json:"price_vs_cash_matrix"`
	PaydownVsLeverage   Grid `json:"paydown_vs_leverage"`
	WACCVsDCFPrice      Grid `json:"wacc_vs_dcf_price"`
	TerminalGrowthVsDCF Grid `json:"terminal_growth_vs_dcf_price"`
}

// RunSuite executes the standard sweeps against a base scenario.
func RunSuite(base Scenario, year int, workers int) (Suite, error) {
	var suite Suite
	var err error

	epsEval := EvaluateEPSChange(year)
	basePrice := base.Deal.OfferPricePerShare

	runs := []struct {
		dst  *Grid
		name string
		axes []Axis
		eval Evaluator
	}{
		{&suite.OfferPriceVsEPS, "eps_change_percent", []Axis{OfferPriceAxis(basePrice)}, epsEval},
		{&suite.CashMixVsEPS, "eps_change_percent", []Axis{CashPercentageAxis()}, epsEval},
		{&suite.RateShockVsEPS, "eps_change_percent", []Axis{InterestRateShockAxis([]float64{-100, -50, 0, 50, 100, 150, 200})}, epsEval},
		{&suite.SynergyVsEPS, "eps_change_percent", []Axis{SynergyRealizationAxis()}, epsEval},
		{&suite.PriceVsCashMatrix, "eps_change_percent", []Axis{OfferPriceAxis(basePrice), CashPercentageAxis()}, epsEval},
		{&suite.PaydownVsLeverage, fmt.Sprintf("leverage_ratio_year_%d", year), []Axis{DebtPaydownAxis()}, EvaluateLeverage(year)},
		{&suite.WACCVsDCFPrice, "dcf_implied_share_price", []Axis{DiscountRateAxis(base.DCF.WACC)}, EvaluateDCFPrice()},
		{&suite.TerminalGrowthVsDCF, "dcf_implied_share_price", []Axis{TerminalGrowthAxis(base.DCF.TerminalGrowthRate)}, EvaluateDCFPrice()},
	}
	for _, r := range runs {
		*r.dst, err = Run(r.name, base, r.axes, r.eval, workers)
		if err != nil {
			return Suite{}, err
		}
	}
	return suite, nil
}
