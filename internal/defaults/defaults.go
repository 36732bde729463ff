// Package defaults provides the sample dataset each chart domain renders
// when a request carries no input.
package defaults

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"plancharts/internal/model"
)

//go:embed datasets.yaml
var embedded []byte

// Datasets holds one default input record per domain. A loaded value is
// treated as immutable; transforms copy before reordering anything.
type Datasets struct {
	MarketGrowth  model.MarketGrowthInput  `yaml:"market_growth"`
	MarketSize    model.MarketSizeInput    `yaml:"market_size"`
	Revenue       model.RevenueInput       `yaml:"revenue"`
	Profitability model.ProfitabilityInput `yaml:"profitability"`
	Investment    model.InvestmentInput    `yaml:"investment"`
	Funding       model.FundingInput       `yaml:"funding"`
	Competitors   model.CompetitorInput    `yaml:"competitors"`
	Risk          model.RiskInput          `yaml:"risk"`
	SWOT          model.SWOTInput          `yaml:"swot"`
	Forecast      model.ForecastInput      `yaml:"forecast"`
	FinancialMix  model.FinancialMixInput  `yaml:"financial_mix"`
	Org           model.OrgInput           `yaml:"org"`
	Timeline      model.TimelineInput      `yaml:"timeline"`
}

// Sections lists the top-level keys accepted in a datasets file.
var Sections = []string{
	"market_growth", "market_size", "revenue", "profitability", "investment",
	"funding", "competitors", "risk", "swot", "forecast", "financial_mix",
	"org", "timeline",
}

// Load parses the embedded datasets.
func Load() (*Datasets, error) {
	var d Datasets
	if err := yaml.Unmarshal(embedded, &d); err != nil {
		return nil, fmt.Errorf("parse embedded datasets: %w", err)
	}
	return &d, nil
}

// MustLoad is Load for package initialisation and tests.
func MustLoad() *Datasets {
	d, err := Load()
	if err != nil {
		panic(err)
	}
	return d
}

// LoadFile returns the embedded datasets with every section present in the
// YAML file at path replacing the embedded one.
func LoadFile(path string) (*Datasets, error) {
	base, err := Load()
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read datasets file: %w", err)
	}
	merged, err := Overlay(*base, raw)
	if err != nil {
		return nil, fmt.Errorf("datasets file %s: %w", path, err)
	}
	return &merged, nil
}

// Overlay decodes raw and replaces each section it names in base.
// Unknown section keys are rejected so typos don't silently fall back.
func Overlay(base Datasets, raw []byte) (Datasets, error) {
	var present map[string]yaml.Node
	if err := yaml.Unmarshal(raw, &present); err != nil {
		return base, err
	}
	var override Datasets
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return base, err
	}
	keys := make([]string, 0, len(present))
	for k := range present {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := base
	for _, k := range keys {
		if err := mergeSection(&out, override, k); err != nil {
			return base, err
		}
	}
	return out, nil
}

func mergeSection(dst *Datasets, src Datasets, section string) error {
	switch section {
	case "market_growth":
		dst.MarketGrowth = src.MarketGrowth
	case "market_size":
		dst.MarketSize = src.MarketSize
	case "revenue":
		dst.Revenue = src.Revenue
	case "profitability":
		dst.Profitability = src.Profitability
	case "investment":
		dst.Investment = src.Investment
	case "funding":
		dst.Funding = src.Funding
	case "competitors":
		dst.Competitors = src.Competitors
	case "risk":
		dst.Risk = src.Risk
	case "swot":
		dst.SWOT = src.SWOT
	case "forecast":
		dst.Forecast = src.Forecast
	case "financial_mix":
		dst.FinancialMix = src.FinancialMix
	case "org":
		dst.Org = src.Org
	case "timeline":
		dst.Timeline = src.Timeline
	default:
		return fmt.Errorf("unknown dataset section %q", section)
	}
	return nil
}
