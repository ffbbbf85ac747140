package scenario

import (
	"merger_model/pkg/core/company"
	"merger_model/pkg/core/deal"
	"merger_model/pkg/core/proforma"
	"merger_model/pkg/core/synergy"
	"merger_model/pkg/core/valuation"
)

// SampleAcquirer returns a large-cap technology acquirer profile.
func SampleAcquirer() company.Company {
	return company.Company{
		Name:   "TechCorp Industries",
		Ticker: "TCI",
		Role:   company.RoleAcquirer,
		IncomeStatement: company.IncomeStatement{
			Revenue:                  50_000_000_000,
			CostOfGoodsSold:          30_000_000_000,
			GrossProfit:              20_000_000_000,
			OperatingExpenses:        10_000_000_000,
			EBITDA:                   10_000_000_000,
			DepreciationAmortization: 2_000_000_000,
			EBIT:                     8_000_000_000,
			InterestExpense:          500_000_000,
			InterestIncome:           100_000_000,
			PretaxIncome:             7_600_000_000,
			TaxExpense:               1_596_000_000,
			NetIncome:                6_004_000_000,
		},
		BalanceSheet: company.BalanceSheet{
			CashAndEquivalents:         5_000_000_000,
			AccountsReceivable:         4_000_000_000,
			Inventory:                  3_000_000_000,
			OtherCurrentAssets:         1_000_000_000,
			TotalCurrentAssets:         13_000_000_000,
			PropertyPlantEquipment:     15_000_000_000,
			Goodwill:                   8_000_000_000,
			IntangibleAssets:           5_000_000_000,
			OtherNonCurrentAssets:      2_000_000_000,
			TotalAssets:                43_000_000_000,
			AccountsPayable:            3_500_000_000,
			ShortTermDebt:              1_000_000_000,
			OtherCurrentLiabilities:    2_000_000_000,
			TotalCurrentLiabilities:    6_500_000_000,
			LongTermDebt:               10_000_000_000,
			OtherNonCurrentLiabilities: 3_000_000_000,
			TotalLiabilities:           19_500_000_000,
			CommonStock:                10_000_000_000,
			RetainedEarnings:           13_500_000_000,
			TotalEquity:                23_500_000_000,
		},
		MarketData: company.MarketData{
			SharePrice:        150.00,
			SharesOutstanding: 500_000_000,
			Beta:              1.1,
			DividendYield:     0.02,
		},
		RevenueGrowthRate: 0.08,
	}
}

// SampleTarget returns a mid-cap technology target profile.
func SampleTarget() company.Company {
	return company.Company{
		Name:   "InnovateTech Solutions",
		Ticker: "ITS",
		Role:   company.RoleTarget,
		IncomeStatement: company.IncomeStatement{
			Revenue:                  10_000_000_000,
			CostOfGoodsSold:          5_500_000_000,
			GrossProfit:              4_500_000_000,
			OperatingExpenses:        2_500_000_000,
			EBITDA:                   2_000_000_000,
			DepreciationAmortization: 400_000_000,
			EBIT:                     1_600_000_000,
			InterestExpense:          150_000_000,
			InterestIncome:           20_000_000,
			PretaxIncome:             1_470_000_000,
			TaxExpense:               308_700_000,
			NetIncome:                1_161_300_000,
		},
		BalanceSheet: company.BalanceSheet{
			CashAndEquivalents:         1_200_000_000,
			AccountsReceivable:         900_000_000,
			Inventory:                  700_000_000,
			OtherCurrentAssets:         200_000_000,
			TotalCurrentAssets:         3_000_000_000,
			PropertyPlantEquipment:     3_500_000_000,
			Goodwill:                   1_500_000_000,
			IntangibleAssets:           1_000_000_000,
			OtherNonCurrentAssets:      500_000_000,
			TotalAssets:                9_500_000_000,
			AccountsPayable:            800_000_000,
			ShortTermDebt:              300_000_000,
			OtherCurrentLiabilities:    400_000_000,
			TotalCurrentLiabilities:    1_500_000_000,
			LongTermDebt:               2_000_000_000,
			OtherNonCurrentLiabilities: 500_000_000,
			TotalLiabilities:           4_000_000_000,
			CommonStock:                2_500_000_000,
			RetainedEarnings:           3_000_000_000,
			TotalEquity:                5_500_000_000,
		},
		MarketData: company.MarketData{
			SharePrice:        58.00,
			SharesOutstanding: 200_000_000,
			Beta:              1.3,
			DividendYield:     0.01,
		},
		RevenueGrowthRate: 0.12,
	}
}

// SampleDeal returns a 60/40 cash-stock offer at $75 per share, financed
// with an amortizing term loan, bullet senior notes, and acquirer cash.
func SampleDeal() deal.Structure {
	amort := 7
	return deal.Structure{
		OfferPricePerShare:      75.0,
		TargetSharesOutstanding: 200_000_000,
		TargetOptionsDilution:   0.02,
		TargetCurrentPrice:      58.00,
		CashPercentage:          0.60,
		AcquirerCashUsed:        3_000_000_000,
		Tranches: []deal.Tranche{
			{
				Name:              "Term Loan B",
				Kind:              deal.TermLoanB,
				Principal:         8_000_000_000,
				InterestRate:      0.055,
				MaturityYears:     7,
				AmortizationYears: &amort,
				OriginationFee:    0.02,
			},
			{
				Name:           "Senior Notes",
				Kind:           deal.SeniorNotes,
				Principal:      5_000_000_000,
				InterestRate:   0.045,
				MaturityYears:  10,
				OriginationFee: 0.015,
			},
		},
		Costs: deal.TransactionCosts{
			AdvisoryFees:         150_000_000,
			LegalFees:            50_000_000,
			AccountingFees:       25_000_000,
			RegulatoryFilingFees: 10_000_000,
			OtherFees:            15_000_000,
		},
		RefinanceTargetDebt:   true,
		TargetDebtToRefinance: 2_300_000_000,
		TaxRate:               0.21,
	}
}

// SampleSynergies returns a synergy program with five cost lines, three
// revenue lines, and five integration costs.
func SampleSynergies() *synergy.Analysis {
	analysis, err := synergy.NewAnalysis(5, 0.21)
	if err != nil {
		panic(err)
	}

	type line struct {
		name     string
		kind     synergy.Kind
		category synergy.Category
		value    float64
		phaseIn  []float64
		risk     float64
		cost     float64
	}
	lines := []line{
		{"Corporate Overhead Elimination", synergy.KindCost, synergy.CorporateOverhead, 200_000_000, []float64{0.50, 0.80, 1.00}, 0.10, 50_000_000},
		{"Headcount Optimization", synergy.KindCost, synergy.HeadcountReduction, 150_000_000, []float64{0.60, 1.00}, 0.15, 75_000_000},
		{"IT Systems Consolidation", synergy.KindCost, synergy.ITSystemsIntegration, 80_000_000, []float64{0.20, 0.60, 1.00}, 0.20, 100_000_000},
		{"Procurement Leverage", synergy.KindCost, synergy.ProcurementSavings, 100_000_000, []float64{0.40, 1.00}, 0.10, 10_000_000},
		{"Facilities Rationalization", synergy.KindCost, synergy.FacilitiesConsolidation, 70_000_000, []float64{0.30, 0.70, 1.00}, 0.15, 40_000_000},
		{"Cross-Selling Opportunities", synergy.KindRevenue, synergy.CrossSelling, 300_000_000, []float64{0.15, 0.40, 0.70, 1.00}, 0.30, 25_000_000},
		{"Geographic Market Expansion", synergy.KindRevenue, synergy.GeographicExpansion, 200_000_000, []float64{0.10, 0.30, 0.60, 1.00}, 0.35, 50_000_000},
		{"Product Bundling", synergy.KindRevenue, synergy.ProductBundling, 100_000_000, []float64{0.25, 0.60, 1.00}, 0.25, 15_000_000},
	}
	for _, l := range lines {
		item, err := synergy.NewItem(l.name, l.kind, l.category, l.value, l.phaseIn, l.risk, l.cost)
		if err != nil {
			panic(err)
		}
		if l.kind == synergy.KindCost {
			err = analysis.AddCostSynergy(item)
		} else {
			err = analysis.AddRevenueSynergy(item)
		}
		if err != nil {
			panic(err)
		}
	}

	costs := []synergy.IntegrationCost{
		{Description: "Severance and Restructuring", Amount: 125_000_000, YearIncurred: 1, TaxDeductible: true},
		{Description: "IT Integration", Amount: 100_000_000, YearIncurred: 1, TaxDeductible: true},
		{Description: "IT Integration Phase 2", Amount: 50_000_000, YearIncurred: 2, TaxDeductible: true},
		{Description: "Facilities Transition", Amount: 40_000_000, YearIncurred: 1, TaxDeductible: true},
		{Description: "Rebranding and Marketing", Amount: 35_000_000, YearIncurred: 1, TaxDeductible: true},
	}
	for _, c := range costs {
		if err := analysis.AddIntegrationCost(c); err != nil {
			panic(err)
		}
	}
	return analysis
}

// SampleTradingComps returns four comparable public companies.
func SampleTradingComps() []valuation.TradingComp {
	return []valuation.TradingComp{
		{Name: "TechPeer Alpha", Ticker: "TPA", MarketCap: 15_000_000_000, EnterpriseValue: 17_000_000_000, Revenue: 12_000_000_000, EBITDA: 2_400_000_000, NetIncome: 1_440_000_000, SharesOutstanding: 300_000_000},
		{Name: "InnoSoft Corp", Ticker: "ISC", MarketCap: 8_000_000_000, EnterpriseValue: 9_500_000_000, Revenue: 7_500_000_000, EBITDA: 1_500_000_000, NetIncome: 900_000_000, SharesOutstanding: 200_000_000},
		{Name: "Digital Solutions Inc", Ticker: "DSI", MarketCap: 12_000_000_000, EnterpriseValue: 13_200_000_000, Revenue: 10_000_000_000, EBITDA: 2_200_000_000, NetIncome: 1_320_000_000, SharesOutstanding: 240_000_000},
		{Name: "CloudTech Systems", Ticker: "CTS", MarketCap: 20_000_000_000, EnterpriseValue: 21_500_000_000, Revenue: 14_000_000_000, EBITDA: 3_500_000_000, NetIncome: 2_100_000_000, SharesOutstanding: 400_000_000},
	}
}

// SampleTransactionComps returns three precedent transactions.
func SampleTransactionComps() []valuation.TransactionComp {
	return []valuation.TransactionComp{
		{TargetName: "DataTech Inc", AcquirerName: "MegaCorp", AnnouncementDate: "2024-06-15", EnterpriseValue: 8_500_000_000, EquityValue: 7_000_000_000, Revenue: 5_500_000_000, EBITDA: 1_100_000_000, ControlPremium: 0.32},
		{TargetName: "SoftwarePro", AcquirerName: "TechGiant", AnnouncementDate: "2024-03-20", EnterpriseValue: 6_200_000_000, EquityValue: 5_500_000_000, Revenue: 4_000_000_000, EBITDA: 880_000_000, ControlPremium: 0.28},
		{TargetName: "CloudBase Systems", AcquirerName: "Enterprise Inc", AnnouncementDate: "2023-11-10", EnterpriseValue: 11_000_000_000, EquityValue: 9_800_000_000, Revenue: 7_200_000_000, EBITDA: 1_800_000_000, ControlPremium: 0.35},
	}
}

// Sample returns the complete demonstration scenario.
func Sample() *Scenario {
	return &Scenario{
		ModelName:        "TechCorp Industries / InnovateTech Solutions Acquisition",
		Acquirer:         SampleAcquirer(),
		Target:           SampleTarget(),
		Deal:             SampleDeal(),
		Synergies:        SampleSynergies(),
		Assumptions:      proforma.DefaultAssumptions(),
		DCF:              valuation.DefaultDCFAssumptions(),
		TradingComps:     SampleTradingComps(),
		TransactionComps: SampleTransactionComps(),
	}
}
