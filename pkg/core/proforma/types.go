package proforma

// Assumptions drives the multi-year combined projection.
type Assumptions struct {
	ProjectionYears        int     `json:"projection_years" yaml:"projection_years"`
	AcquirerRevenueGrowth  float64 `json:"acquirer_revenue_growth" yaml:"acquirer_revenue_growth"`
	TargetRevenueGrowth    float64 `json:"target_revenue_growth" yaml:"target_revenue_growth"`
	AcquirerEBITDAMargin   float64 `json:"acquirer_ebitda_margin" yaml:"acquirer_ebitda_margin"`
	TargetEBITDAMargin     float64 `json:"target_ebitda_margin" yaml:"target_ebitda_margin"`
	DAPercentRevenue       float64 `json:"da_percent_revenue" yaml:"da_percent_revenue"`
	CapexPercentRevenue    float64 `json:"capex_percent_revenue" yaml:"capex_percent_revenue"`
	NWCPercentRevenue      float64 `json:"nwc_percent_revenue" yaml:"nwc_percent_revenue"`
	TaxRate                float64 `json:"tax_rate" yaml:"tax_rate"`
	DebtPaydownPercentFCF  float64 `json:"debt_paydown_percent_fcf" yaml:"debt_paydown_percent_fcf"`
	IntangibleUsefulLife   int     `json:"intangible_useful_life" yaml:"intangible_useful_life"`
	ForegoneCashYield      float64 `json:"foregone_cash_yield" yaml:"foregone_cash_yield"`
	IntangiblePremiumShare float64 `json:"intangible_premium_share" yaml:"intangible_premium_share"`
}

// DefaultAssumptions returns the standard assumption set.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		ProjectionYears:        5,
		AcquirerRevenueGrowth:  0.05,
		TargetRevenueGrowth:    0.08,
		AcquirerEBITDAMargin:   0.20,
		TargetEBITDAMargin:     0.20,
		DAPercentRevenue:       0.03,
		CapexPercentRevenue:    0.04,
		NWCPercentRevenue:      0.10,
		TaxRate:                0.21,
		DebtPaydownPercentFCF:  0.50,
		IntangibleUsefulLife:   10,
		ForegoneCashYield:      0.02,
		IntangiblePremiumShare: 0.30,
	}
}

// BalanceSheetAtClose is the combined opening balance sheet with purchase
// accounting applied. NewGoodwill is a plug: purchase price over the fair
// value of identifiable net assets acquired. A negative plug is never
// clamped silently; it raises the BargainPurchase condition and reports the
// gain separately with goodwill at zero.
type BalanceSheetAtClose struct {
	// Assets
	CashAndEquivalents     float64 `json:"cash_and_equivalents"`
	AccountsReceivable     float64 `json:"accounts_receivable"`
	Inventory              float64 `json:"inventory"`
	OtherCurrentAssets     float64 `json:"other_current_assets"`
	TotalCurrentAssets     float64 `json:"total_current_assets"`
	PropertyPlantEquipment float64 `json:"property_plant_equipment"`
	Goodwill               float64 `json:"goodwill"`
	NewGoodwill            float64 `json:"new_goodwill_created"`
	IntangibleAssets       float64 `json:"intangible_assets"`
	NewIntangibles         float64 `json:"new_intangibles_created"`
	OtherNonCurrentAssets  float64 `json:"other_non_current_assets"`
	TotalAssets            float64 `json:"total_assets"`

	// Liabilities
	AccountsPayable            float64 `json:"accounts_payable"`
	ShortTermDebt              float64 `json:"short_term_debt"`
	OtherCurrentLiabilities    float64 `json:"other_current_liabilities"`
	TotalCurrentLiabilities    float64 `json:"total_current_liabilities"`
	LongTermDebt               float64 `json:"long_term_debt"`
	NewDebtRaised              float64 `json:"new_debt_raised"`
	OtherNonCurrentLiabilities float64 `json:"other_non_current_liabilities"`
	TotalLiabilities           float64 `json:"total_liabilities"`

	// Equity
	TotalEquity            float64 `json:"total_equity"`
	StockConsideration     float64 `json:"stock_consideration_added"`
	BargainPurchase        bool    `json:"bargain_purchase"`
	BargainPurchaseGain    float64 `json:"bargain_purchase_gain"`
	TotalLiabilitiesEquity float64 `json:"total_liabilities_and_equity"`
	Balanced               bool    `json:"balanced"`
	BalanceCheckDifference float64 `json:"balance_check_difference"`
}

// Year is one year of the combined projection. Records form a chain: a year's
// opening debt is the prior year's ending debt, so a Year is only meaningful
// inside the ordered sequence FullProjection returns. Records are never
// mutated after creation.
type Year struct {
	Year int `json:"year"`

	// Income statement
	AcquirerRevenue          float64 `json:"acquirer_revenue"`
	TargetRevenue            float64 `json:"target_revenue"`
	SynergyRevenue           float64 `json:"synergy_revenue"`
	Revenue                  float64 `json:"combined_revenue"`
	AcquirerEBITDA           float64 `json:"acquirer_ebitda"`
	TargetEBITDA             float64 `json:"target_ebitda"`
	SynergyEBITDA            float64 `json:"synergy_ebitda"`
	EBITDA                   float64 `json:"combined_ebitda"`
	DepreciationAmortization float64 `json:"depreciation_amortization"`
	IntangibleAmortization   float64 `json:"intangible_amortization"`
	EBIT                     float64 `json:"ebit"`
	InterestExpense          float64 `json:"interest_expense"`
	InterestIncome           float64 `json:"interest_income"`
	IntegrationCosts         float64 `json:"integration_costs"`
	PretaxIncome             float64 `json:"pretax_income"`
	TaxExpense               float64 `json:"tax_expense"`
	NetIncome                float64 `json:"net_income"`

	// Cash flow
	NWCChange         float64 `json:"working_capital_change"`
	OperatingCashFlow float64 `json:"operating_cash_flow"`
	Capex             float64 `json:"capex"`
	FreeCashFlow      float64 `json:"free_cash_flow"`

	// Debt trajectory
	OpeningDebt           float64 `json:"opening_debt"`
	MandatoryAmortization float64 `json:"mandatory_amortization"`
	DebtPaydown           float64 `json:"debt_paydown"`
	EndingDebt            float64 `json:"ending_debt"`

	// Credit metrics
	LeverageRatio    float64 `json:"leverage_ratio"`
	InterestCoverage float64 `json:"interest_coverage"`
}

// CreditMetrics is the standalone credit view of one projection year.
type CreditMetrics struct {
	Year             int     `json:"year"`
	TotalDebt        float64 `json:"total_debt"`
	EBITDA           float64 `json:"ebitda"`
	InterestExpense  float64 `json:"interest_expense"`
	LeverageRatio    float64 `json:"leverage_ratio"`
	InterestCoverage float64 `json:"interest_coverage"`
}

// Projection is the full multi-year output of the engine.
type Projection struct {
	BalanceSheetAtClose BalanceSheetAtClose `json:"balance_sheet_at_close"`
	Years               []Year              `json:"years"`
	Assumptions         Assumptions         `json:"assumptions"`
}
