package valuation

import (
	"merger_model/pkg/core/company"
	"merger_model/pkg/core/finerr"
)

// TradingRange positions the target's current price inside its 52-week band.
type TradingRange struct {
	CurrentPrice    float64 `json:"current_price"`
	Week52High      float64 `json:"week_52_high"`
	Week52Low       float64 `json:"week_52_low"`
	PremiumToHigh   float64 `json:"premium_to_high"`
	PremiumToLow    float64 `json:"premium_to_low"`
	PositionInRange float64 `json:"position_in_range"`
}

// Calculate52WeekRange reports where the current price sits inside the
// 52-week band.
func Calculate52WeekRange(target company.Company, high, low float64) (TradingRange, error) {
	if high <= low {
		return TradingRange{}, finerr.Validationf("week_52_range", "high %v must exceed low %v", high, low)
	}
	price := target.MarketData.SharePrice
	return TradingRange{
		CurrentPrice:    price,
		Week52High:      high,
		Week52Low:       low,
		PremiumToHigh:   price/high - 1,
		PremiumToLow:    price/low - 1,
		PositionInRange: (price - low) / (high - low),
	}, nil
}

// FieldBar is one methodology's range on the football field.
type FieldBar struct {
	Methodology string     `json:"methodology"`
	Range       PriceRange `json:"range"`
}

// FootballField lays the per-methodology share price ranges side by side
// against the current price and the offer.
type FootballField struct {
	CurrentSharePrice float64    `json:"current_share_price"`
	OfferPrice        float64    `json:"offer_price,omitempty"`
	ImpliedPremium    float64    `json:"implied_premium,omitempty"`
	Bars              []FieldBar `json:"bars"`
}

// dcfFieldSpread widens the DCF point estimate into a band for the field.
const dcfFieldSpread = 0.15

// BuildFootballField assembles the football field from the individual
// analyses. A zero offerPrice omits the premium comparison; a nil lbo band
// omits the ability-to-pay bar.
func BuildFootballField(
	target company.Company,
	dcf DCFResult,
	trading TradingCompsResult,
	transactions TransactionCompsResult,
	lbo *PriceRange,
	offerPrice float64,
) FootballField {
	bars := []FieldBar{
		{
			Methodology: "Discounted Cash Flow",
			Range: PriceRange{
				Low:  dcf.ImpliedSharePrice * (1 - dcfFieldSpread),
				Mid:  dcf.ImpliedSharePrice,
				High: dcf.ImpliedSharePrice * (1 + dcfFieldSpread),
			},
		},
		{
			Methodology: "Trading Comps (EV/EBITDA)",
			Range:       trading.PriceEBITDA,
		},
		{
			Methodology: "Transaction Comps (Premium)",
			Range:       transactions.PriceFromPremium,
		},
	}
	if lbo != nil {
		bars = append(bars, FieldBar{
			Methodology: "LBO Ability-to-Pay",
			Range:       *lbo,
		})
	}

	field := FootballField{
		CurrentSharePrice: target.MarketData.SharePrice,
		Bars:              bars,
	}
	if offerPrice > 0 && target.MarketData.SharePrice > 0 {
		field.OfferPrice = offerPrice
		field.ImpliedPremium = offerPrice/target.MarketData.SharePrice - 1
	}
	return field
}

// Summary bundles every methodology's view of the target.
type Summary struct {
	TargetName     string                   `json:"target_name"`
	TargetTicker   string                   `json:"target_ticker"`
	CurrentMetrics company.ValuationMetrics `json:"current_metrics"`
	DCF            DCFResult                `json:"dcf"`
	TradingComps   TradingCompsResult       `json:"trading_comps"`
	Transactions   TransactionCompsResult   `json:"transaction_comps"`
	LBO            *LBOResult               `json:"lbo,omitempty"`
	EquityModels   []EquityValuationResult  `json:"equity_models,omitempty"`
	FootballField  FootballField            `json:"football_field"`
}

// lboFieldBand widens the ability-to-pay point estimate into a field bar by
// flexing the sponsor's hurdle rate either way.
const lboFieldBand = 0.025

func lboView(target company.Company) (*LBOResult, *PriceRange) {
	la := DefaultLBOAssumptions()
	base, err := CalculateAbilityToPay(target, la)
	if err != nil {
		return nil, nil
	}

	band := PriceRange{Low: base.ImpliedSharePrice, Mid: base.ImpliedSharePrice, High: base.ImpliedSharePrice}
	// A softer hurdle supports a higher check, a harder one a lower check.
	harder := la
	harder.TargetIRR += lboFieldBand
	if r, err := CalculateAbilityToPay(target, harder); err == nil {
		band.Low = r.ImpliedSharePrice
	}
	softer := la
	softer.TargetIRR -= lboFieldBand
	if r, err := CalculateAbilityToPay(target, softer); err == nil {
		band.High = r.ImpliedSharePrice
	}
	return &base, &band
}

// Summarize runs every methodology against the target and assembles the
// combined view.
func Summarize(
	target company.Company,
	a DCFAssumptions,
	trading []TradingComp,
	transactions []TransactionComp,
	offerPrice float64,
) (Summary, error) {
	metrics, err := target.Metrics()
	if err != nil {
		return Summary{}, err
	}
	dcf, err := CalculateDCF(target, a)
	if err != nil {
		return Summary{}, err
	}
	tradingResult, err := CalculateTradingComps(target, trading)
	if err != nil {
		return Summary{}, err
	}
	txResult, err := CalculateTransactionComps(target, transactions)
	if err != nil {
		return Summary{}, err
	}

	lbo, lboBand := lboView(target)

	return Summary{
		TargetName:     target.Name,
		TargetTicker:   target.Ticker,
		CurrentMetrics: metrics,
		DCF:            dcf,
		TradingComps:   tradingResult,
		Transactions:   txResult,
		LBO:            lbo,
		EquityModels:   EquityModelsFromDCF(target, a, dcf),
		FootballField:  BuildFootballField(target, dcf, tradingResult, txResult, lboBand, offerPrice),
	}, nil
}
