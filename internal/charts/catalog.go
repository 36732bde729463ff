package charts

import (
	"plancharts/internal/defaults"
	"plancharts/internal/format"
)

// Domain names.
const (
	MarketGrowth       = "market-growth"
	MarketSize         = "market-size"
	Revenue            = "revenue"
	Profitability      = "profitability"
	Investment         = "investment"
	Funding            = "funding"
	CompetitorRadar    = "competitor-radar"
	CompetitorStrength = "competitor-strength"
	Risk               = "risk"
	SWOT               = "swot"
	Forecast           = "forecast"
	FinancialMix       = "financial-mix"
	OrgStructure       = "org-structure"
	Timeline           = "timeline"
)

var constructors = map[string]func(Deps) Domain{
	MarketGrowth:       func(d Deps) Domain { return marketGrowth{d} },
	MarketSize:         func(d Deps) Domain { return marketSize{d} },
	Revenue:            func(d Deps) Domain { return revenue{d} },
	Profitability:      func(d Deps) Domain { return profitability{d} },
	Investment:         func(d Deps) Domain { return investment{d} },
	Funding:            func(d Deps) Domain { return funding{d} },
	CompetitorRadar:    func(d Deps) Domain { return competitorRadar{d} },
	CompetitorStrength: func(d Deps) Domain { return competitorStrength{d} },
	Risk:               func(d Deps) Domain { return risk{d} },
	SWOT:               func(d Deps) Domain { return swot{d} },
	Forecast:           func(d Deps) Domain { return forecast{d} },
	FinancialMix:       func(d Deps) Domain { return financialMix{d} },
	OrgStructure:       func(d Deps) Domain { return orgStructure{d} },
	Timeline:           func(d Deps) Domain { return timeline{d} },
}

// names is the display order of the domains.
var names = []string{
	MarketGrowth, MarketSize, Revenue, Profitability, Investment, Funding,
	CompetitorRadar, CompetitorStrength, Risk, SWOT, Forecast, FinancialMix,
	OrgStructure, Timeline,
}

// Catalog builds domains against the store's current datasets. Each domain
// it returns keeps the snapshot it was built with.
type Catalog struct {
	store     *defaults.Store
	format    *format.Formatter
	milestone float64
}

type CatalogOption func(*Catalog)

// WithMilestone sets the fallback market milestone in $B.
func WithMilestone(thresholdB float64) CatalogOption {
	return func(c *Catalog) {
		if thresholdB > 0 {
			c.milestone = thresholdB
		}
	}
}

func NewCatalog(store *defaults.Store, f *format.Formatter, opts ...CatalogOption) *Catalog {
	if f == nil {
		f = format.New(nil)
	}
	c := &Catalog{store: store, format: f, milestone: 1000}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Names returns the domain names in display order.
func (c *Catalog) Names() []string {
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Domain builds the named domain.
func (c *Catalog) Domain(name string) (Domain, bool) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, false
	}
	return ctor(Deps{
		Datasets:  c.store.Current(),
		Format:    c.format,
		Milestone: c.milestone,
	}), true
}
