package deal

import (
	"sort"

	"merger_model/pkg/core/finerr"
)

// Paydown priority policy: when optional cash is applied against the debt
// stack, tranches are paid down highest-rate-first; ties keep their original
// tranche order. A payment never exceeds a tranche's remaining principal.
// Mandatory amortization is paid before any optional sweep.

// TrancheBalance is the per-tranche state at the end of a schedule year.
type TrancheBalance struct {
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

// ScheduleYear records one year of the debt schedule.
type ScheduleYear struct {
	Year                  int              `json:"year"`
	OpeningBalance        float64          `json:"opening_balance"`
	Interest              float64          `json:"interest"`
	MandatoryAmortization float64          `json:"mandatory_amortization"`
	OptionalPaydown       float64          `json:"optional_paydown"`
	ClosingBalance        float64          `json:"closing_balance"`
	TrancheBalances       []TrancheBalance `json:"tranche_balances"`
}

// Schedule tracks the outstanding balance of every tranche as years advance.
// Interest accrues on the opening balance of the year; amortizing tranches
// repay linearly over their amortization term, bullet tranches repay at
// maturity. The schedule is the year-over-year state the pro forma engine
// threads through its projection: year n's interest depends on year n-1's
// closing balances.
type Schedule struct {
	tranches []Tranche
	balances []float64
	priority []int // indexes into tranches, highest rate first
	year     int
}

// NewSchedule builds a schedule with every tranche at face value.
func NewSchedule(tranches []Tranche) (*Schedule, error) {
	for _, t := range tranches {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}

	s := &Schedule{
		tranches: make([]Tranche, len(tranches)),
		balances: make([]float64, len(tranches)),
		priority: make([]int, len(tranches)),
	}
	copy(s.tranches, tranches)
	for i, t := range tranches {
		s.balances[i] = t.Principal
		s.priority[i] = i
	}
	sort.SliceStable(s.priority, func(a, b int) bool {
		return s.tranches[s.priority[a]].InterestRate > s.tranches[s.priority[b]].InterestRate
	})
	return s, nil
}

// Clone returns an independent copy of the schedule state.
func (s *Schedule) Clone() *Schedule {
	out := &Schedule{
		tranches: make([]Tranche, len(s.tranches)),
		balances: make([]float64, len(s.balances)),
		priority: make([]int, len(s.priority)),
		year:     s.year,
	}
	copy(out.tranches, s.tranches)
	copy(out.balances, s.balances)
	copy(out.priority, s.priority)
	return out
}

// TotalBalance returns the outstanding principal across all tranches.
func (s *Schedule) TotalBalance() float64 {
	total := 0.0
	for _, b := range s.balances {
		total += b
	}
	return total
}

// InterestOnOpening returns the interest that accrues over the coming year on
// the current (opening) balances.
func (s *Schedule) InterestOnOpening() float64 {
	total := 0.0
	for i, t := range s.tranches {
		total += s.balances[i] * t.InterestRate
	}
	return total
}

// Advance moves the schedule forward one year: accrue interest on opening
// balances, pay mandatory amortization (and bullet maturities), then apply
// optionalPaydown against the stack in priority order. Returns the year
// record. A negative optionalPaydown is a computation error; a paydown larger
// than the remaining stack simply retires the stack.
func (s *Schedule) Advance(optionalPaydown float64) (ScheduleYear, error) {
	if optionalPaydown < 0 {
		return ScheduleYear{}, finerr.Computationf("debt_schedule", "optional paydown must not be negative, got %v", optionalPaydown)
	}

	s.year++
	rec := ScheduleYear{
		Year:           s.year,
		OpeningBalance: s.TotalBalance(),
		Interest:       s.InterestOnOpening(),
	}

	// Mandatory repayments first: linear amortization, bullets at maturity.
	for i, t := range s.tranches {
		var due float64
		switch {
		case t.AmortizationYears != nil:
			due = t.MandatoryAmortization()
		case s.year == t.MaturityYears:
			due = s.balances[i]
		}
		if due > s.balances[i] {
			due = s.balances[i]
		}
		s.balances[i] -= due
		rec.MandatoryAmortization += due
	}

	// Optional sweep: highest rate first, capped per tranche.
	remaining := optionalPaydown
	for _, idx := range s.priority {
		if remaining <= 0 {
			break
		}
		pay := remaining
		if pay > s.balances[idx] {
			pay = s.balances[idx]
		}
		s.balances[idx] -= pay
		remaining -= pay
		rec.OptionalPaydown += pay
	}

	rec.ClosingBalance = s.TotalBalance()
	rec.TrancheBalances = make([]TrancheBalance, len(s.tranches))
	for i, t := range s.tranches {
		rec.TrancheBalances[i] = TrancheBalance{Name: t.Name, Balance: s.balances[i]}
	}
	return rec, nil
}

// Project runs the schedule for the given horizon with a fixed optional
// paydown per year, returning the full year-by-year trajectory. Used for
// standalone debt schedule reporting; the pro forma engine drives Advance
// directly because its paydown amount depends on each year's cash flow.
func (s *Schedule) Project(years int, optionalPaydownPerYear float64) ([]ScheduleYear, error) {
	run := s.Clone()
	out := make([]ScheduleYear, 0, years)
	for y := 0; y < years; y++ {
		rec, err := run.Advance(optionalPaydownPerYear)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
