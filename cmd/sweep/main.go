package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	"merger_model/pkg/core/report"
	"merger_model/pkg/core/scenario"
	"merger_model/pkg/core/sensitivity"
)

func main() {
	scenarioPath := flag.String("scenario", "", "path to a scenario YAML file (empty runs the built-in sample)")
	year := flag.Int("year", 1, "projection year to evaluate")
	workers := flag.Int("workers", 0, "worker pool size per sweep (0 = default)")
	jsonOut := flag.String("out", "sweeps.json", "path for the JSON export")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

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

	fmt.Println("🚀 Sensitivity Sweep Starting...")
	fmt.Printf("📂 Scenario: %s (year %d)\n", sc.ModelName, *year)

	base := sensitivity.Scenario{
		Acquirer:    sc.Acquirer,
		Target:      sc.Target,
		Deal:        sc.Deal,
		Synergies:   sc.Synergies,
		Assumptions: sc.Assumptions,
		DCF:         sc.DCF,
	}

	epsEval := sensitivity.EvaluateEPSChange(*year)
	sweeps := []struct {
		name string
		axes []sensitivity.Axis
		eval sensitivity.Evaluator
	}{
		{"offer_price_vs_eps", []sensitivity.Axis{sensitivity.OfferPriceAxis(sc.Deal.OfferPricePerShare)}, epsEval},
		{"cash_mix_vs_eps", []sensitivity.Axis{sensitivity.CashPercentageAxis()}, epsEval},
		{"rate_shock_vs_eps", []sensitivity.Axis{sensitivity.InterestRateShockAxis([]float64{-100, -50, 0, 50, 100, 150, 200})}, epsEval},
		{"synergy_vs_eps", []sensitivity.Axis{sensitivity.SynergyRealizationAxis()}, epsEval},
		{"price_vs_cash_matrix", []sensitivity.Axis{sensitivity.OfferPriceAxis(sc.Deal.OfferPricePerShare), sensitivity.CashPercentageAxis()}, epsEval},
		{"paydown_vs_leverage", []sensitivity.Axis{sensitivity.DebtPaydownAxis()}, sensitivity.EvaluateLeverage(*year)},
		{"wacc_vs_dcf_price", []sensitivity.Axis{sensitivity.DiscountRateAxis(sc.DCF.WACC)}, sensitivity.EvaluateDCFPrice()},
		{"terminal_growth_vs_dcf_price", []sensitivity.Axis{sensitivity.TerminalGrowthAxis(sc.DCF.TerminalGrowthRate)}, sensitivity.EvaluateDCFPrice()},
	}

	bar := progressbar.NewOptions(len(sweeps),
		progressbar.OptionSetDescription("running sweeps"),
		progressbar.OptionShowCount(),
	)

	results := make(map[string]sensitivity.Grid, len(sweeps))
	for _, s := range sweeps {
		grid, err := sensitivity.Run(s.name, base, s.axes, s.eval, *workers)
		if err != nil {
			log.Fatalf("Sweep %s failed: %v", s.name, err)
		}
		results[s.name] = grid
		_ = bar.Add(1)
	}
	fmt.Println()

	// Headline table: offer price against year-1 EPS change
	price := results["offer_price_vs_eps"]
	fmt.Println("\nOFFER PRICE vs EPS CHANGE")
	fmt.Printf("%12s | %10s\n", "Price", "EPS Chg")
	for _, cell := range price.Cells {
		if cell.Err != "" {
			fmt.Printf("%12.2f | error: %s\n", cell.Coordinates[0], cell.Err)
			continue
		}
		fmt.Printf("%12.2f | %+8.2f%%\n", cell.Coordinates[0], cell.Value*100)
	}

	if err := report.ExportJSON(&results, *jsonOut); err != nil {
		log.Fatalf("JSON export failed: %v", err)
	}
	fmt.Printf("\n💾 Sweep results written to %s\n", *jsonOut)
	fmt.Println("\n[Done] Sweeps Complete.")
}
