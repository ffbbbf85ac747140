// Package company holds the static snapshot of a single company entering the
// transaction: income statement, balance sheet, and market data, plus the
// ratios derived from them. Snapshots are treated as immutable inputs by every
// downstream engine; Clone produces the independent copy that sensitivity
// evaluations mutate.
package company

import (
	"math"

	"merger_model/pkg/core/finerr"
)

// Role identifies a company's side of the transaction.
type Role string

const (
	RoleAcquirer Role = "acquirer"
	RoleTarget   Role = "target"
)

// IncomeStatement is an annual income statement snapshot. All amounts are
// absolute currency values.
type IncomeStatement struct {
	Revenue                  float64 `json:"revenue" yaml:"revenue"`
	CostOfGoodsSold          float64 `json:"cost_of_goods_sold" yaml:"cost_of_goods_sold"`
	GrossProfit              float64 `json:"gross_profit" yaml:"gross_profit"`
	OperatingExpenses        float64 `json:"operating_expenses" yaml:"operating_expenses"`
	EBITDA                   float64 `json:"ebitda" yaml:"ebitda"`
	DepreciationAmortization float64 `json:"depreciation_amortization" yaml:"depreciation_amortization"`
	EBIT                     float64 `json:"ebit" yaml:"ebit"`
	InterestExpense          float64 `json:"interest_expense" yaml:"interest_expense"`
	InterestIncome           float64 `json:"interest_income" yaml:"interest_income"`
	PretaxIncome             float64 `json:"pretax_income" yaml:"pretax_income"`
	TaxExpense               float64 `json:"tax_expense" yaml:"tax_expense"`
	NetIncome                float64 `json:"net_income" yaml:"net_income"`
}

// IncomeStatementFromBasicInputs derives a full income statement from a small
// set of drivers. Taxes are floored at zero for pre-tax losses.
func IncomeStatementFromBasicInputs(
	revenue float64,
	grossMargin float64,
	opexPercent float64,
	daPercent float64,
	interestExpense float64,
	interestIncome float64,
	taxRate float64,
) IncomeStatement {
	grossProfit := revenue * grossMargin
	cogs := revenue - grossProfit
	opex := revenue * opexPercent
	ebitda := grossProfit - opex
	da := revenue * daPercent
	ebit := ebitda - da
	pretax := ebit - interestExpense + interestIncome
	tax := math.Max(0, pretax*taxRate)

	return IncomeStatement{
		Revenue:                  revenue,
		CostOfGoodsSold:          cogs,
		GrossProfit:              grossProfit,
		OperatingExpenses:        opex,
		EBITDA:                   ebitda,
		DepreciationAmortization: da,
		EBIT:                     ebit,
		InterestExpense:          interestExpense,
		InterestIncome:           interestIncome,
		PretaxIncome:             pretax,
		TaxExpense:               tax,
		NetIncome:                pretax - tax,
	}
}

// BalanceSheet is a balance sheet snapshot.
type BalanceSheet struct {
	// Assets
	CashAndEquivalents     float64 `json:"cash_and_equivalents" yaml:"cash_and_equivalents"`
	AccountsReceivable     float64 `json:"accounts_receivable" yaml:"accounts_receivable"`
	Inventory              float64 `json:"inventory" yaml:"inventory"`
	OtherCurrentAssets     float64 `json:"other_current_assets" yaml:"other_current_assets"`
	TotalCurrentAssets     float64 `json:"total_current_assets" yaml:"total_current_assets"`
	PropertyPlantEquipment float64 `json:"property_plant_equipment" yaml:"property_plant_equipment"`
	Goodwill               float64 `json:"goodwill" yaml:"goodwill"`
	IntangibleAssets       float64 `json:"intangible_assets" yaml:"intangible_assets"`
	OtherNonCurrentAssets  float64 `json:"other_non_current_assets" yaml:"other_non_current_assets"`
	TotalAssets            float64 `json:"total_assets" yaml:"total_assets"`

	// Liabilities
	AccountsPayable            float64 `json:"accounts_payable" yaml:"accounts_payable"`
	ShortTermDebt              float64 `json:"short_term_debt" yaml:"short_term_debt"`
	OtherCurrentLiabilities    float64 `json:"other_current_liabilities" yaml:"other_current_liabilities"`
	TotalCurrentLiabilities    float64 `json:"total_current_liabilities" yaml:"total_current_liabilities"`
	LongTermDebt               float64 `json:"long_term_debt" yaml:"long_term_debt"`
	OtherNonCurrentLiabilities float64 `json:"other_non_current_liabilities" yaml:"other_non_current_liabilities"`
	TotalLiabilities           float64 `json:"total_liabilities" yaml:"total_liabilities"`

	// Equity
	CommonStock      float64 `json:"common_stock" yaml:"common_stock"`
	RetainedEarnings float64 `json:"retained_earnings" yaml:"retained_earnings"`
	TotalEquity      float64 `json:"total_equity" yaml:"total_equity"`
}

// TotalDebt returns short-term plus long-term debt.
func (b BalanceSheet) TotalDebt() float64 {
	return b.ShortTermDebt + b.LongTermDebt
}

// NetDebt returns total debt less cash.
func (b BalanceSheet) NetDebt() float64 {
	return b.TotalDebt() - b.CashAndEquivalents
}

// NetWorkingCapital returns current assets less current liabilities.
func (b BalanceSheet) NetWorkingCapital() float64 {
	return b.TotalCurrentAssets - b.TotalCurrentLiabilities
}

// MarketData is the trading snapshot used for market-based multiples and
// consideration math.
type MarketData struct {
	SharePrice        float64 `json:"share_price" yaml:"share_price"`
	SharesOutstanding float64 `json:"shares_outstanding" yaml:"shares_outstanding"`
	Beta              float64 `json:"beta" yaml:"beta"`
	DividendYield     float64 `json:"dividend_yield" yaml:"dividend_yield"`
}

// MarketCap returns price times shares outstanding.
func (m MarketData) MarketCap() float64 {
	return m.SharePrice * m.SharesOutstanding
}

// Company is the complete profile of one party to the transaction.
type Company struct {
	Name   string `json:"name" yaml:"name"`
	Ticker string `json:"ticker" yaml:"ticker"`
	Role   Role   `json:"role" yaml:"role"`

	IncomeStatement IncomeStatement `json:"income_statement" yaml:"income_statement"`
	BalanceSheet    BalanceSheet    `json:"balance_sheet" yaml:"balance_sheet"`
	MarketData      MarketData      `json:"market_data" yaml:"market_data"`

	RevenueGrowthRate float64 `json:"revenue_growth_rate" yaml:"revenue_growth_rate"`
}

// Validate checks the snapshot for inputs that would make downstream
// derivations meaningless. It fails fast at configuration time.
func (c Company) Validate() error {
	if c.MarketData.SharesOutstanding <= 0 {
		return finerr.Validationf("shares_outstanding", "must be positive, got %v", c.MarketData.SharesOutstanding)
	}
	if c.MarketData.SharePrice < 0 {
		return finerr.Validationf("share_price", "must not be negative, got %v", c.MarketData.SharePrice)
	}
	if c.IncomeStatement.Revenue < 0 {
		return finerr.Validationf("revenue", "must not be negative, got %v", c.IncomeStatement.Revenue)
	}
	return nil
}

// Clone returns an independent copy of the snapshot. Company carries no
// reference fields, so a value copy is a deep copy; the method exists to make
// the snapshot contract explicit at call sites.
func (c Company) Clone() Company {
	return c
}

// EnterpriseValue returns market cap plus net debt plus other non-current
// liabilities (minority interest, preferred, and similar claims).
func (c Company) EnterpriseValue() float64 {
	return c.MarketData.MarketCap() + c.BalanceSheet.NetDebt() + c.BalanceSheet.OtherNonCurrentLiabilities
}

// EPS returns net income per outstanding share. A non-positive share count
// makes EPS undefined and is reported as a computation error.
func (c Company) EPS() (float64, error) {
	if c.MarketData.SharesOutstanding <= 0 {
		return 0, finerr.Computationf("eps", "share count %v makes EPS undefined", c.MarketData.SharesOutstanding)
	}
	return c.IncomeStatement.NetIncome / c.MarketData.SharesOutstanding, nil
}

// PERatio returns price over EPS, or +Inf for non-positive earnings.
func (c Company) PERatio() float64 {
	eps, err := c.EPS()
	if err != nil || eps <= 0 {
		return math.Inf(1)
	}
	return c.MarketData.SharePrice / eps
}

// EVEBITDA returns the EV/EBITDA multiple, or +Inf for non-positive EBITDA.
func (c Company) EVEBITDA() float64 {
	if c.IncomeStatement.EBITDA <= 0 {
		return math.Inf(1)
	}
	return c.EnterpriseValue() / c.IncomeStatement.EBITDA
}

// EVRevenue returns the EV/Revenue multiple, or +Inf for non-positive revenue.
func (c Company) EVRevenue() float64 {
	if c.IncomeStatement.Revenue <= 0 {
		return math.Inf(1)
	}
	return c.EnterpriseValue() / c.IncomeStatement.Revenue
}

// ValuationMetrics bundles the headline trading metrics in one record.
type ValuationMetrics struct {
	MarketCap         float64 `json:"market_cap"`
	EnterpriseValue   float64 `json:"enterprise_value"`
	SharePrice        float64 `json:"share_price"`
	SharesOutstanding float64 `json:"shares_outstanding"`
	EPS               float64 `json:"eps"`
	PERatio           float64 `json:"pe_ratio"`
	EVEBITDA          float64 `json:"ev_ebitda"`
	EVRevenue         float64 `json:"ev_revenue"`
	NetDebt           float64 `json:"net_debt"`
}

// Metrics computes the headline trading metrics for the snapshot.
func (c Company) Metrics() (ValuationMetrics, error) {
	eps, err := c.EPS()
	if err != nil {
		return ValuationMetrics{}, err
	}
	return ValuationMetrics{
		MarketCap:         c.MarketData.MarketCap(),
		EnterpriseValue:   c.EnterpriseValue(),
		SharePrice:        c.MarketData.SharePrice,
		SharesOutstanding: c.MarketData.SharesOutstanding,
		EPS:               eps,
		PERatio:           c.PERatio(),
		EVEBITDA:          c.EVEBITDA(),
		EVRevenue:         c.EVRevenue(),
		NetDebt:           c.BalanceSheet.NetDebt(),
	}, nil
}
