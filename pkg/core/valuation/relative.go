package valuation

import (
	"sort"

	"merger_model/pkg/core/company"
	"merger_model/pkg/core/finerr"
)

// TradingComp is one comparable public company.
type TradingComp struct {
	Name              string  `json:"name" yaml:"name"`
	Ticker            string  `json:"ticker" yaml:"ticker"`
	MarketCap         float64 `json:"market_cap" yaml:"market_cap"`
	EnterpriseValue   float64 `json:"enterprise_value" yaml:"enterprise_value"`
	Revenue           float64 `json:"revenue" yaml:"revenue"`
	EBITDA            float64 `json:"ebitda" yaml:"ebitda"`
	NetIncome         float64 `json:"net_income" yaml:"net_income"`
	SharesOutstanding float64 `json:"shares_outstanding" yaml:"shares_outstanding"`
}

// EVRevenue returns the EV/Revenue multiple, zero when undefined.
func (c TradingComp) EVRevenue() float64 {
	if c.Revenue <= 0 {
		return 0
	}
	return c.EnterpriseValue / c.Revenue
}

// EVEBITDA returns the EV/EBITDA multiple, zero when undefined.
func (c TradingComp) EVEBITDA() float64 {
	if c.EBITDA <= 0 {
		return 0
	}
	return c.EnterpriseValue / c.EBITDA
}

// PERatio returns the P/E multiple, zero when undefined.
func (c TradingComp) PERatio() float64 {
	if c.SharesOutstanding <= 0 || c.NetIncome <= 0 {
		return 0
	}
	eps := c.NetIncome / c.SharesOutstanding
	price := c.MarketCap / c.SharesOutstanding
	return price / eps
}

// TransactionComp is one precedent M&A transaction.
type TransactionComp struct {
	TargetName       string  `json:"target_name" yaml:"target_name"`
	AcquirerName     string  `json:"acquirer_name" yaml:"acquirer_name"`
	AnnouncementDate string  `json:"announcement_date" yaml:"announcement_date"`
	EnterpriseValue  float64 `json:"enterprise_value" yaml:"enterprise_value"`
	EquityValue      float64 `json:"equity_value" yaml:"equity_value"`
	Revenue          float64 `json:"revenue" yaml:"revenue"`
	EBITDA           float64 `json:"ebitda" yaml:"ebitda"`
	ControlPremium   float64 `json:"control_premium" yaml:"control_premium"`
}

// EVRevenue returns the transaction EV/Revenue multiple, zero when undefined.
func (c TransactionComp) EVRevenue() float64 {
	if c.Revenue <= 0 {
		return 0
	}
	return c.EnterpriseValue / c.Revenue
}

// EVEBITDA returns the transaction EV/EBITDA multiple, zero when undefined.
func (c TransactionComp) EVEBITDA() float64 {
	if c.EBITDA <= 0 {
		return 0
	}
	return c.EnterpriseValue / c.EBITDA
}

// MultipleStats summarizes a set of observed multiples.
type MultipleStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
	Mean   float64 `json:"mean"`
}

// Stats computes min/max/median/mean over the values. Empty input yields the
// zero record.
func Stats(values []float64) MultipleStats {
	if len(values) == 0 {
		return MultipleStats{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	return MultipleStats{
		Min:    sorted[0],
		Max:    sorted[n-1],
		Median: median,
		Mean:   sum / float64(n),
	}
}

// PriceRange is a low/mid/high implied value band.
type PriceRange struct {
	Low  float64 `json:"low"`
	Mid  float64 `json:"mid"`
	High float64 `json:"high"`
}

// TradingCompsResult holds the trading comparables analysis.
type TradingCompsResult struct {
	Comparables   []TradingComp `json:"comparables"`
	EVRevenue     MultipleStats `json:"ev_revenue_stats"`
	EVEBITDA      MultipleStats `json:"ev_ebitda_stats"`
	PE            MultipleStats `json:"pe_stats"`
	PriceRevenue  PriceRange    `json:"implied_price_ev_revenue"`
	PriceEBITDA   PriceRange    `json:"implied_price_ev_ebitda"`
	PriceEarnings PriceRange    `json:"implied_price_pe"`
}

// CalculateTradingComps derives implied share price ranges for the target
// from observed trading multiples. Undefined multiples (zero) are dropped
// before the stats.
func CalculateTradingComps(target company.Company, comps []TradingComp) (TradingCompsResult, error) {
	if len(comps) == 0 {
		return TradingCompsResult{}, finerr.Validationf("trading_comps", "at least one comparable is required")
	}

	var revMults, ebitdaMults, peMults []float64
	for _, c := range comps {
		if m := c.EVRevenue(); m > 0 {
			revMults = append(revMults, m)
		}
		if m := c.EVEBITDA(); m > 0 {
			ebitdaMults = append(ebitdaMults, m)
		}
		if m := c.PERatio(); m > 0 {
			peMults = append(peMults, m)
		}
	}

	revStats := Stats(revMults)
	ebitdaStats := Stats(ebitdaMults)
	peStats := Stats(peMults)

	// EV-based multiples imply an enterprise value that bridges to equity
	// through net debt before dividing by shares.
	perShare := func(ev float64) float64 {
		return (ev - target.BalanceSheet.NetDebt()) / target.MarketData.SharesOutstanding
	}
	revenue := target.IncomeStatement.Revenue
	ebitda := target.IncomeStatement.EBITDA
	eps, err := target.EPS()
	if err != nil {
		return TradingCompsResult{}, err
	}

	return TradingCompsResult{
		Comparables: comps,
		EVRevenue:   revStats,
		EVEBITDA:    ebitdaStats,
		PE:          peStats,
		PriceRevenue: PriceRange{
			Low:  perShare(revenue * revStats.Min),
			Mid:  perShare(revenue * revStats.Median),
			High: perShare(revenue * revStats.Max),
		},
		PriceEBITDA: PriceRange{
			Low:  perShare(ebitda * ebitdaStats.Min),
			Mid:  perShare(ebitda * ebitdaStats.Median),
			High: perShare(ebitda * ebitdaStats.Max),
		},
		PriceEarnings: PriceRange{
			Low:  eps * peStats.Min,
			Mid:  eps * peStats.Median,
			High: eps * peStats.Max,
		},
	}, nil
}

// TransactionCompsResult holds the precedent transactions analysis.
type TransactionCompsResult struct {
	Transactions     []TransactionComp `json:"transactions"`
	EVRevenue        MultipleStats     `json:"ev_revenue_stats"`
	EVEBITDA         MultipleStats     `json:"ev_ebitda_stats"`
	ControlPremium   MultipleStats     `json:"control_premium_stats"`
	EVFromRevenue    PriceRange        `json:"implied_ev_revenue"`
	EVFromEBITDA     PriceRange        `json:"implied_ev_ebitda"`
	PriceFromPremium PriceRange        `json:"implied_price_from_premium"`
}

// CalculateTransactionComps derives implied deal values and a premium-based
// price range from precedent transactions.
func CalculateTransactionComps(target company.Company, comps []TransactionComp) (TransactionCompsResult, error) {
	if len(comps) == 0 {
		return TransactionCompsResult{}, finerr.Validationf("transaction_comps", "at least one transaction is required")
	}

	var revMults, ebitdaMults, premiums []float64
	for _, c := range comps {
		if m := c.EVRevenue(); m > 0 {
			revMults = append(revMults, m)
		}
		if m := c.EVEBITDA(); m > 0 {
			ebitdaMults = append(ebitdaMults, m)
		}
		premiums = append(premiums, c.ControlPremium)
	}

	revStats := Stats(revMults)
	ebitdaStats := Stats(ebitdaMults)
	premiumStats := Stats(premiums)

	revenue := target.IncomeStatement.Revenue
	ebitda := target.IncomeStatement.EBITDA
	price := target.MarketData.SharePrice

	return TransactionCompsResult{
		Transactions:   comps,
		EVRevenue:      revStats,
		EVEBITDA:       ebitdaStats,
		ControlPremium: premiumStats,
		EVFromRevenue: PriceRange{
			Low:  revenue * revStats.Min,
			Mid:  revenue * revStats.Median,
			High: revenue * revStats.Max,
		},
		EVFromEBITDA: PriceRange{
			Low:  ebitda * ebitdaStats.Min,
			Mid:  ebitda * ebitdaStats.Median,
			High: ebitda * ebitdaStats.Max,
		},
		PriceFromPremium: PriceRange{
			Low:  price * (1 + premiumStats.Min),
			Mid:  price * (1 + premiumStats.Median),
			High: price * (1 + premiumStats.Max),
		},
	}, nil
}
