package report

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"

	"merger_model/pkg/core/model"
)

// ValidateMarkdown reports whether the string parses as Markdown. Goldmark
// is permissive, so this is a structural sanity check rather than a lint.
func ValidateMarkdown(input string) bool {
	parser := goldmark.DefaultParser()
	reader := text.NewReader([]byte(input))
	doc := parser.Parse(reader)
	return doc != nil
}

// RenderMarkdown builds the deal memo from a finished analysis.
func RenderMarkdown(a *model.FullAnalysis) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", a.ModelName)
	fmt.Fprintf(&b, "Run `%s`, generated %s.\n\n", a.RunID, a.CreatedAt.Format("2006-01-02 15:04 MST"))

	// Deal overview
	f := a.Financing
	b.WriteString("## Deal Overview\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Offer price per share | $%s |\n", Currency(f.OfferPricePerShare))
	fmt.Fprintf(&b, "| Control premium | %s%% |\n", Percent(f.ControlPremium))
	fmt.Fprintf(&b, "| Equity purchase price | $%sM |\n", Millions(f.EquityPurchasePrice))
	fmt.Fprintf(&b, "| Implied enterprise value | $%sM |\n", Millions(f.ImpliedEV))
	fmt.Fprintf(&b, "| Consideration | %s%% cash / %s%% stock |\n", Percent(f.CashPercentage), Percent(f.StockPercentage))
	fmt.Fprintf(&b, "| Annual interest expense | $%sM |\n", Millions(f.AnnualInterestExpense))
	fmt.Fprintf(&b, "| Total transaction costs | $%sM |\n\n", Millions(f.TotalTransactionCosts))

	// Sources and uses
	su := a.SourcesUses
	b.WriteString("## Sources & Uses\n\n")
	fmt.Fprintf(&b, "| Sources | $M |\n|---|---|\n")
	for _, l := range su.Sources {
		fmt.Fprintf(&b, "| %s | %s |\n", l.Label, Millions(l.Amount))
	}
	fmt.Fprintf(&b, "| **Total** | **%s** |\n\n", Millions(su.SourcesTotal))
	fmt.Fprintf(&b, "| Uses | $M |\n|---|---|\n")
	for _, l := range su.Uses {
		fmt.Fprintf(&b, "| %s | %s |\n", l.Label, Millions(l.Amount))
	}
	fmt.Fprintf(&b, "| **Total** | **%s** |\n\n", Millions(su.UsesTotal))
	if !su.IsBalanced {
		fmt.Fprintf(&b, "Sources and uses differ by $%sM.\n\n", Millions(su.Difference))
	}

	// Synergies
	if a.Synergies != nil {
		s := a.Synergies
		b.WriteString("## Synergies\n\n")
		fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
		fmt.Fprintf(&b, "| Run-rate cost synergies | $%sM |\n", Millions(s.RunRate.CostSynergies))
		fmt.Fprintf(&b, "| Run-rate revenue synergies | $%sM |\n", Millions(s.RunRate.RevenueSynergies))
		fmt.Fprintf(&b, "| Run-rate EBITDA impact | $%sM |\n", Millions(s.RunRate.EBITDAImpact))
		fmt.Fprintf(&b, "| Total integration costs | $%sM |\n", Millions(s.TotalIntegrationCosts))
		fmt.Fprintf(&b, "| Program NPV | $%sM |\n", Millions(s.NPV))
		fmt.Fprintf(&b, "| Years to full realization | %d |\n\n", s.YearsToFullRealization)
	}

	// EPS accretion/dilution
	if len(a.EPS) > 0 {
		b.WriteString("## EPS Accretion / Dilution\n\n")
		fmt.Fprintf(&b, "| Year | Standalone | Pro Forma | Change | Call |\n|---|---|---|---|---|\n")
		for _, r := range a.EPS {
			fmt.Fprintf(&b, "| %d | $%s | $%s | %s%% | %s |\n",
				r.Year, Currency(r.StandaloneEPS), Currency(r.ProFormaEPS),
				Percent(r.EPSChangePercent), r.Classification)
		}
		fmt.Fprintf(&b, "\nBreakeven pre-tax synergies: $%sM per year.\n\n", Millions(a.BreakevenSynergies))
	}

	// Credit profile
	if len(a.Credit) > 0 {
		b.WriteString("## Credit Profile\n\n")
		fmt.Fprintf(&b, "| Year | Debt ($M) | EBITDA ($M) | Leverage | Coverage |\n|---|---|---|---|---|\n")
		for _, c := range a.Credit {
			fmt.Fprintf(&b, "| %d | %s | %s | %.1fx | %.1fx |\n",
				c.Year, Millions(c.TotalDebt), Millions(c.EBITDA), c.LeverageRatio, c.InterestCoverage)
		}
		b.WriteString("\n")
	}

	// Valuation football field
	b.WriteString("## Valuation Summary\n\n")
	fmt.Fprintf(&b, "| Methodology | Low | Mid | High |\n|---|---|---|---|\n")
	for _, bar := range a.Valuation.FootballField.Bars {
		fmt.Fprintf(&b, "| %s | $%s | $%s | $%s |\n",
			bar.Methodology, Currency(bar.Range.Low), Currency(bar.Range.Mid), Currency(bar.Range.High))
	}
	fmt.Fprintf(&b, "\nCurrent price $%s, offer $%s (premium %s%%).\n\n",
		Currency(a.Valuation.FootballField.CurrentSharePrice),
		Currency(a.Valuation.FootballField.OfferPrice),
		Percent(a.Valuation.FootballField.ImpliedPremium))

	b.WriteString("## Executive Summary\n\n")
	b.WriteString(a.ExecutiveSummary)
	b.WriteString("\n")

	memo := b.String()
	if !ValidateMarkdown(memo) {
		return "", fmt.Errorf("rendered memo failed markdown validation")
	}
	return memo, nil
}
