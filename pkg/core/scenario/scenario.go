// Package scenario loads a complete analysis scenario from a YAML file and
// converts it into validated domain types. The file format mirrors the
// domain structs one to one so a scenario can also be exported back out.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"merger_model/pkg/core/company"
	"merger_model/pkg/core/deal"
	"merger_model/pkg/core/proforma"
	"merger_model/pkg/core/synergy"
	"merger_model/pkg/core/valuation"
)

// TrancheConfig is the file form of one debt tranche.
type TrancheConfig struct {
	Name              string  `yaml:"name"`
	Kind              string  `yaml:"kind"`
	Principal         float64 `yaml:"principal"`
	InterestRate      float64 `yaml:"interest_rate"`
	MaturityYears     int     `yaml:"maturity_years"`
	AmortizationYears *int    `yaml:"amortization_years"` // absent means bullet
	OriginationFee    float64 `yaml:"origination_fee"`
}

// EquityConfig is the file form of a new share issuance.
type EquityConfig struct {
	NewSharesIssued     float64 `yaml:"new_shares_issued"`
	IssuePrice          float64 `yaml:"issue_price"`
	IssuanceCostPercent float64 `yaml:"issuance_cost_percent"`
}

// DealConfig is the file form of the deal structure.
type DealConfig struct {
	OfferPricePerShare      float64         `yaml:"offer_price_per_share"`
	TargetSharesOutstanding float64         `yaml:"target_shares_outstanding"`
	TargetOptionsDilution   float64         `yaml:"target_options_dilution"`
	TargetCurrentPrice      float64         `yaml:"target_current_price"`
	CashPercentage          float64         `yaml:"cash_percentage"`
	AcquirerCashUsed        float64         `yaml:"acquirer_cash_used"`
	Tranches                []TrancheConfig `yaml:"tranches"`
	Equity                  *EquityConfig   `yaml:"equity"`
	AdvisoryFees            float64         `yaml:"advisory_fees"`
	LegalFees               float64         `yaml:"legal_fees"`
	AccountingFees          float64         `yaml:"accounting_fees"`
	RegulatoryFilingFees    float64         `yaml:"regulatory_filing_fees"`
	OtherFees               float64         `yaml:"other_fees"`
	RefinanceTargetDebt     bool            `yaml:"refinance_target_debt"`
	TargetDebtToRefinance   float64         `yaml:"target_debt_to_refinance"`
	TaxRate                 float64         `yaml:"tax_rate"`
}

// SynergyItemConfig is the file form of one synergy line.
type SynergyItemConfig struct {
	Name              string    `yaml:"name"`
	Kind              string    `yaml:"kind"`
	Category          string    `yaml:"category"`
	TotalAnnualValue  float64   `yaml:"total_annual_value"`
	PhaseInSchedule   []float64 `yaml:"phase_in_schedule"`
	RealizationRisk   float64   `yaml:"realization_risk"`
	OneTimeCost       float64   `yaml:"one_time_cost"`
	IncrementalMargin float64   `yaml:"incremental_margin"` // revenue items only, 0 means default
}

// IntegrationCostConfig is the file form of one integration cost.
type IntegrationCostConfig struct {
	Description   string  `yaml:"description"`
	Amount        float64 `yaml:"amount"`
	YearIncurred  int     `yaml:"year_incurred"`
	TaxDeductible bool    `yaml:"tax_deductible"`
}

// SynergiesConfig is the file form of the synergy program.
type SynergiesConfig struct {
	ProjectionYears  int                     `yaml:"projection_years"`
	TaxRate          float64                 `yaml:"tax_rate"`
	CostSynergies    []SynergyItemConfig     `yaml:"cost_synergies"`
	RevenueSynergies []SynergyItemConfig     `yaml:"revenue_synergies"`
	IntegrationCosts []IntegrationCostConfig `yaml:"integration_costs"`
}

// Config is the root of a scenario file.
type Config struct {
	ModelName   string                `yaml:"model_name"`
	Acquirer    company.Company       `yaml:"acquirer"`
	Target      company.Company       `yaml:"target"`
	Deal        DealConfig            `yaml:"deal"`
	Synergies   *SynergiesConfig      `yaml:"synergies"`
	Assumptions *proforma.Assumptions `yaml:"assumptions"`

	DCF              *valuation.DCFAssumptions   `yaml:"dcf_assumptions"`
	TradingComps     []valuation.TradingComp     `yaml:"trading_comps"`
	TransactionComps []valuation.TransactionComp `yaml:"transaction_comps"`
}

// Scenario is the fully validated domain form of a config.
type Scenario struct {
	ModelName   string
	Acquirer    company.Company
	Target      company.Company
	Deal        deal.Structure
	Synergies   *synergy.Analysis
	Assumptions proforma.Assumptions

	DCF              valuation.DCFAssumptions
	TradingComps     []valuation.TradingComp
	TransactionComps []valuation.TransactionComp
}

// Load reads and converts a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing scenario file: %w", err)
	}
	return Build(cfg)
}

// Build converts a parsed config into validated domain types.
func Build(cfg Config) (*Scenario, error) {
	if err := cfg.Acquirer.Validate(); err != nil {
		return nil, fmt.Errorf("acquirer: %w", err)
	}
	if err := cfg.Target.Validate(); err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}

	d, err := buildDeal(cfg.Deal)
	if err != nil {
		return nil, fmt.Errorf("deal: %w", err)
	}

	var syn *synergy.Analysis
	if cfg.Synergies != nil {
		syn, err = buildSynergies(*cfg.Synergies)
		if err != nil {
			return nil, fmt.Errorf("synergies: %w", err)
		}
	}

	assumptions := proforma.DefaultAssumptions()
	if cfg.Assumptions != nil {
		assumptions = *cfg.Assumptions
	}
	dcf := valuation.DefaultDCFAssumptions()
	if cfg.DCF != nil {
		dcf = *cfg.DCF
	} else if cfg.Target.MarketData.Beta > 0 {
		// No explicit assumptions: build the discount rate from CAPM off the
		// target's beta instead of the flat default.
		w := valuation.DefaultWACCInput()
		w.Beta = cfg.Target.MarketData.Beta
		dcf.WACC = valuation.CalculateWACC(w).WACC
	}

	return &Scenario{
		ModelName:        cfg.ModelName,
		Acquirer:         cfg.Acquirer,
		Target:           cfg.Target,
		Deal:             d,
		Synergies:        syn,
		Assumptions:      assumptions,
		DCF:              dcf,
		TradingComps:     cfg.TradingComps,
		TransactionComps: cfg.TransactionComps,
	}, nil
}

func buildDeal(cfg DealConfig) (deal.Structure, error) {
	tranches := make([]deal.Tranche, 0, len(cfg.Tranches))
	for _, tc := range cfg.Tranches {
		t := deal.Tranche{
			Name:           tc.Name,
			Kind:           deal.DebtKind(tc.Kind),
			Principal:      tc.Principal,
			InterestRate:   tc.InterestRate,
			MaturityYears:  tc.MaturityYears,
			OriginationFee: tc.OriginationFee,
		}
		if tc.AmortizationYears != nil {
			years := *tc.AmortizationYears
			t.AmortizationYears = &years
		}
		tranches = append(tranches, t)
	}

	var equity *deal.EquityFinancing
	if cfg.Equity != nil {
		equity = &deal.EquityFinancing{
			NewSharesIssued:     cfg.Equity.NewSharesIssued,
			IssuePrice:          cfg.Equity.IssuePrice,
			IssuanceCostPercent: cfg.Equity.IssuanceCostPercent,
		}
	}

	d := deal.Structure{
		OfferPricePerShare:      cfg.OfferPricePerShare,
		TargetSharesOutstanding: cfg.TargetSharesOutstanding,
		TargetOptionsDilution:   cfg.TargetOptionsDilution,
		TargetCurrentPrice:      cfg.TargetCurrentPrice,
		CashPercentage:          cfg.CashPercentage,
		AcquirerCashUsed:        cfg.AcquirerCashUsed,
		Tranches:                tranches,
		Equity:                  equity,
		Costs: deal.TransactionCosts{
			AdvisoryFees:         cfg.AdvisoryFees,
			LegalFees:            cfg.LegalFees,
			AccountingFees:       cfg.AccountingFees,
			RegulatoryFilingFees: cfg.RegulatoryFilingFees,
			OtherFees:            cfg.OtherFees,
		},
		RefinanceTargetDebt:   cfg.RefinanceTargetDebt,
		TargetDebtToRefinance: cfg.TargetDebtToRefinance,
		TaxRate:               cfg.TaxRate,
	}
	if err := d.Validate(); err != nil {
		return deal.Structure{}, err
	}
	return d, nil
}

func buildSynergies(cfg SynergiesConfig) (*synergy.Analysis, error) {
	analysis, err := synergy.NewAnalysis(cfg.ProjectionYears, cfg.TaxRate)
	if err != nil {
		return nil, err
	}

	buildItem := func(ic SynergyItemConfig, kind synergy.Kind) (synergy.Item, error) {
		item, err := synergy.NewItem(
			ic.Name,
			kind,
			synergy.Category(ic.Category),
			ic.TotalAnnualValue,
			ic.PhaseInSchedule,
			ic.RealizationRisk,
			ic.OneTimeCost,
		)
		if err != nil {
			return synergy.Item{}, err
		}
		if kind == synergy.KindRevenue && ic.IncrementalMargin > 0 {
			return item.WithIncrementalMargin(ic.IncrementalMargin)
		}
		return item, nil
	}

	for _, ic := range cfg.CostSynergies {
		item, err := buildItem(ic, synergy.KindCost)
		if err != nil {
			return nil, err
		}
		if err := analysis.AddCostSynergy(item); err != nil {
			return nil, err
		}
	}
	for _, ic := range cfg.RevenueSynergies {
		item, err := buildItem(ic, synergy.KindRevenue)
		if err != nil {
			return nil, err
		}
		if err := analysis.AddRevenueSynergy(item); err != nil {
			return nil, err
		}
	}
	for _, cc := range cfg.IntegrationCosts {
		cost := synergy.IntegrationCost{
			Description:   cc.Description,
			Amount:        cc.Amount,
			YearIncurred:  cc.YearIncurred,
			TaxDeductible: cc.TaxDeductible,
		}
		if err := analysis.AddIntegrationCost(cost); err != nil {
			return nil, err
		}
	}
	return analysis, nil
}
