package model

import (
	"strings"
	"testing"

	"merger_model/pkg/core/scenario"
)

func TestRunFullAnalysis(t *testing.T) {
	m := New(scenario.Sample())
	m.SensitivityWorkers = 2

	a, err := m.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if a.RunID != m.RunID {
		t.Errorf("run id = %q, want %q", a.RunID, m.RunID)
	}
	if a.ModelName == "" {
		t.Error("empty model name")
	}

	years := m.Scenario.Assumptions.ProjectionYears
	if len(a.ProForma.Years) != years {
		t.Errorf("got %d projection years, want %d", len(a.ProForma.Years), years)
	}
	if len(a.EPS) != years {
		t.Errorf("got %d EPS years, want %d", len(a.EPS), years)
	}
	if len(a.Credit) != years {
		t.Errorf("got %d credit rows, want %d", len(a.Credit), years)
	}
	if a.Synergies == nil {
		t.Fatal("sample run lost its synergy summary")
	}
	if a.Synergies.NPV <= 0 {
		t.Errorf("synergy NPV = %v, want positive for the sample program", a.Synergies.NPV)
	}
	if a.Financing.EquityPurchasePrice <= 0 {
		t.Error("financing summary is empty")
	}
	if len(a.Valuation.FootballField.Bars) != 4 {
		t.Errorf("got %d football field bars, want 4", len(a.Valuation.FootballField.Bars))
	}
	if len(a.Sensitivity.OfferPriceVsEPS.Cells) != 9 {
		t.Errorf("got %d offer price cells, want 9", len(a.Sensitivity.OfferPriceVsEPS.Cells))
	}

	if len(a.SourcesUses.Sources) == 0 || len(a.SourcesUses.Uses) == 0 {
		t.Error("sources and uses record is missing line items")
	}
	su := a.SourcesUses
	if got := su.SourcesTotal - su.UsesTotal; got != su.Difference {
		t.Errorf("sources and uses difference = %v, totals differ by %v", su.Difference, got)
	}

	if len(a.WACCByYear) != years {
		t.Fatalf("got %d WACC years, want %d", len(a.WACCByYear), years)
	}
	// Debt pays down through the projection, so the cost of capital drifts
	// toward the cost of equity.
	first, last := a.WACCByYear[0], a.WACCByYear[len(a.WACCByYear)-1]
	if last.WACC < first.WACC {
		t.Errorf("WACC fell from %v to %v while delevering", first.WACC, last.WACC)
	}
	if last.WeightDebt > first.WeightDebt {
		t.Errorf("debt weight rose from %v to %v while delevering", first.WeightDebt, last.WeightDebt)
	}
}

func TestExecutiveSummaryNarrative(t *testing.T) {
	m := New(scenario.Sample())
	a, err := m.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	s := a.ExecutiveSummary
	for _, want := range []string{"Offer:", "Consideration:", "Synergies:", "Year 1 EPS:", "Breakeven synergies:", "Leverage:"} {
		if !strings.Contains(s, want) {
			t.Errorf("executive summary missing %q:\n%s", want, s)
		}
	}
}

func TestRunsCarryDistinctIDs(t *testing.T) {
	a := New(scenario.Sample())
	b := New(scenario.Sample())
	if a.RunID == b.RunID {
		t.Error("two models share a run id")
	}
}
