package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"merger_model/pkg/core/model"
	"merger_model/pkg/core/report"
	"merger_model/pkg/core/scenario"
	"merger_model/pkg/core/store"
)

func main() {
	scenarioPath := flag.String("scenario", "", "path to a scenario YAML file (empty runs the built-in sample)")
	jsonOut := flag.String("out", "analysis.json", "path for the JSON export")
	memoOut := flag.String("memo", "", "optional path for the markdown deal memo")
	persist := flag.Bool("persist", false, "save the snapshot to Postgres (DATABASE_URL)")
	history := flag.Int("history", 0, "list the N most recent persisted runs and exit")
	workers := flag.Int("workers", 0, "sensitivity worker pool size (0 = default)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	if *history > 0 {
		ctx := context.Background()
		if err := store.InitDB(ctx); err != nil {
			log.Fatalf("Database init failed: %v", err)
		}
		defer store.Close()
		runs, err := store.NewRunsRepo().ListRecent(ctx, *history)
		if err != nil {
			log.Fatalf("Run history listing failed: %v", err)
		}
		fmt.Printf("%-36s | %-24s | %10s | %8s | %s\n", "Run", "Model", "Offer", "EPS Chg", "When")
		fmt.Println(strings.Repeat("-", 100))
		for _, r := range runs {
			fmt.Printf("%-36s | %-24s | %10.2f | %+6.1f%% | %s\n",
				r.RunID, r.ModelName, r.OfferPrice, r.EPSChangePct*100, r.CreatedAt.Format("2006-01-02 15:04"))
		}
		return
	}

	// 1. Load the scenario
	var sc *scenario.Scenario
	var err error
	if *scenarioPath != "" {
		sc, err = scenario.Load(*scenarioPath)
		if err != nil {
			log.Fatalf("Failed to load scenario: %v", err)
		}
	} else {
		sc = scenario.Sample()
	}

	fmt.Println("🚀 Merger Model Starting...")
	fmt.Printf("📂 Scenario: %s\n", sc.ModelName)

	// 2. Run the full analysis
	m := model.New(sc)
	m.SensitivityWorkers = *workers
	analysis, err := m.Run()
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	// 3. Console report
	fmt.Println("\n################################################################################")
	fmt.Println("                        MERGER MODEL - DEAL REPORT")
	fmt.Printf("                        %s\n", sc.ModelName)
	fmt.Println("################################################################################")

	f := analysis.Financing
	fmt.Println("\n[1] DEAL STRUCTURE")
	fmt.Printf("Offer Price:          $ %8.2f /share  (Premium: %5.1f%%)\n", f.OfferPricePerShare, f.ControlPremium*100)
	fmt.Printf("Equity Purchase:      $ %8.0f M\n", f.EquityPurchasePrice/1e6)
	fmt.Printf("Implied EV:           $ %8.0f M\n", f.ImpliedEV/1e6)
	fmt.Printf("Consideration:          %5.0f%% cash / %.0f%% stock\n", f.CashPercentage*100, f.StockPercentage*100)
	su := analysis.SourcesUses
	fmt.Printf("Sources vs Uses:      $ %8.0f M vs $ %.0f M (balanced: %v)\n", su.SourcesTotal/1e6, su.UsesTotal/1e6, su.IsBalanced)

	if analysis.Synergies != nil {
		s := analysis.Synergies
		fmt.Println("\n[2] SYNERGY PROGRAM")
		fmt.Printf("Run-Rate EBITDA:      $ %8.0f M\n", s.RunRate.EBITDAImpact/1e6)
		fmt.Printf("Integration Costs:    $ %8.0f M\n", s.TotalIntegrationCosts/1e6)
		fmt.Printf("Program NPV:          $ %8.0f M\n", s.NPV/1e6)
	}

	fmt.Println("\n[3] EPS ACCRETION / DILUTION")
	fmt.Printf("%-6s | %12s | %12s | %8s | %s\n", "Year", "Standalone", "Pro Forma", "Change", "Call")
	fmt.Println(strings.Repeat("-", 60))
	for _, r := range analysis.EPS {
		fmt.Printf("%-6d | $ %10.2f | $ %10.2f | %+6.1f%% | %s\n",
			r.Year, r.StandaloneEPS, r.ProFormaEPS, r.EPSChangePercent*100, r.Classification)
	}
	fmt.Printf("\nBreakeven Synergies:  $ %8.0f M pre-tax\n", analysis.BreakevenSynergies/1e6)

	fmt.Println("\n[4] CREDIT PROFILE")
	fmt.Printf("%-6s | %12s | %10s | %10s\n", "Year", "Debt ($M)", "Leverage", "Coverage")
	fmt.Println(strings.Repeat("-", 48))
	for _, c := range analysis.Credit {
		fmt.Printf("%-6d | %12.0f | %8.1fx | %8.1fx\n", c.Year, c.TotalDebt/1e6, c.LeverageRatio, c.InterestCoverage)
	}

	fmt.Println("\n[5] VALUATION FOOTBALL FIELD")
	for _, bar := range analysis.Valuation.FootballField.Bars {
		fmt.Printf("%-30s $%7.2f - $%7.2f (mid $%.2f)\n", bar.Methodology, bar.Range.Low, bar.Range.High, bar.Range.Mid)
	}

	// 4. Exports
	if err := report.ExportJSON(analysis, *jsonOut); err != nil {
		log.Fatalf("JSON export failed: %v", err)
	}
	fmt.Printf("\n💾 JSON snapshot written to %s\n", *jsonOut)

	if *memoOut != "" {
		memo, err := report.RenderMarkdown(analysis)
		if err != nil {
			log.Fatalf("Memo rendering failed: %v", err)
		}
		if err := os.WriteFile(*memoOut, []byte(memo), 0o644); err != nil {
			log.Fatalf("Memo write failed: %v", err)
		}
		fmt.Printf("📝 Deal memo written to %s\n", *memoOut)
	}

	if *persist {
		ctx := context.Background()
		if err := store.InitDB(ctx); err != nil {
			log.Fatalf("Database init failed: %v", err)
		}
		defer store.Close()
		if err := store.NewSnapshotRepo().Save(ctx, analysis); err != nil {
			log.Fatalf("Snapshot save failed: %v", err)
		}
		cache := store.NewAnalysisCache(store.GetPool(), "")
		if err := cache.Save(ctx, analysis); err != nil {
			log.Fatalf("Run history save failed: %v", err)
		}
		fmt.Println("🗄️  Snapshot persisted.")
	}

	fmt.Println("\n[Done] Analysis Complete.")
}
