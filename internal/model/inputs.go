package model

// Captions are optional display strings echoed in the success response.
type Captions struct {
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Caption     string `json:"caption,omitempty" yaml:"caption,omitempty"`
}

// MarketGrowthInput holds market size projections per scenario, in $B.
type MarketGrowthInput struct {
	Captions  `yaml:",inline"`
	Years     []int      `json:"years,omitempty" yaml:"years"`
	Scenarios []Scenario `json:"scenarios,omitempty" yaml:"scenarios"`
	// Milestone is the threshold in $B (1000 = $1 trillion).
	Milestone float64 `json:"milestone,omitempty" yaml:"milestone,omitempty"`
}

// MarketSizeInput holds nested TAM/SAM/SOM tiers, in $B.
type MarketSizeInput struct {
	Captions  `yaml:",inline"`
	Years     []int     `json:"years,omitempty" yaml:"years"`
	TAM       []float64 `json:"tam,omitempty" yaml:"tam"`
	SAM       []float64 `json:"sam,omitempty" yaml:"sam"`
	SOM       []float64 `json:"som,omitempty" yaml:"som"`
	Milestone float64   `json:"milestone,omitempty" yaml:"milestone,omitempty"`
}

// Stream is a named per-year series (a revenue stream, an investment category).
type Stream struct {
	Name   string    `json:"name" yaml:"name"`
	Values []float64 `json:"values" yaml:"values"`
	Color  string    `json:"color,omitempty" yaml:"color,omitempty"`
}

// RevenueInput holds revenue per stream, in $M.
type RevenueInput struct {
	Captions `yaml:",inline"`
	Years    []int    `json:"years,omitempty" yaml:"years"`
	Streams  []Stream `json:"streams,omitempty" yaml:"streams"`
}

// GrowthInput is a bare value series for on-demand growth statistics.
type GrowthInput struct {
	Years  []int     `json:"years,omitempty" yaml:"years"`
	Values []float64 `json:"values,omitempty" yaml:"values"`
}

// ProfitabilityInput holds revenue and EBITDA, in $M. EBITDA may be negative.
type ProfitabilityInput struct {
	Captions `yaml:",inline"`
	Years    []int     `json:"years,omitempty" yaml:"years"`
	Revenue  []float64 `json:"revenue,omitempty" yaml:"revenue"`
	EBITDA   []float64 `json:"ebitda,omitempty" yaml:"ebitda"`
}

// InvestmentInput holds investment per category per year, in $M.
type InvestmentInput struct {
	Captions   `yaml:",inline"`
	Years      []int    `json:"years,omitempty" yaml:"years"`
	Categories []Stream `json:"categories,omitempty" yaml:"categories"`
}

// Allocation is one share of an AllocationSet.
type Allocation struct {
	Category   string  `json:"category" yaml:"category"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
	Color      string  `json:"color,omitempty" yaml:"color,omitempty"`
}

// FundingInput holds the use-of-funds split for a raise, in $M.
type FundingInput struct {
	Captions    `yaml:",inline"`
	TotalRaise  float64      `json:"totalRaise,omitempty" yaml:"total_raise"`
	Allocations []Allocation `json:"allocations,omitempty" yaml:"allocations"`
}

// Competitor scores one entity across categories.
type Competitor struct {
	Name   string             `json:"name" yaml:"name"`
	Scores map[string]float64 `json:"scores" yaml:"scores"`
	Color  string             `json:"color,omitempty" yaml:"color,omitempty"`
}

// CompetitorInput feeds both competitor domains.
type CompetitorInput struct {
	Captions    `yaml:",inline"`
	Categories  []string     `json:"categories,omitempty" yaml:"categories"`
	Competitors []Competitor `json:"competitors,omitempty" yaml:"competitors"`
}

// CategoryScore maps category → entity → score.
type CategoryScore map[string]map[string]float64

// Set records score for entity under category.
func (c CategoryScore) Set(category, entity string, score float64) {
	if c[category] == nil {
		c[category] = map[string]float64{}
	}
	c[category][entity] = score
}

// RiskItem is one entry of the risk register.
type RiskItem struct {
	Name        string `json:"name" yaml:"name"`
	Probability int    `json:"probability" yaml:"probability"`
	Impact      int    `json:"impact" yaml:"impact"`
	Category    string `json:"category" yaml:"category"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

type RiskInput struct {
	Captions `yaml:",inline"`
	Risks    []RiskItem `json:"risks,omitempty" yaml:"risks"`
}

// SWOTItem is one qualitative SWOT entry.
type SWOTItem struct {
	Quadrant Quadrant `json:"quadrant" yaml:"quadrant"`
	Text     string   `json:"text" yaml:"text"`
	Category string   `json:"category" yaml:"category"`
	Impact   Impact   `json:"impact" yaml:"impact"`
}

type SWOTInput struct {
	Captions `yaml:",inline"`
	Items    []SWOTItem `json:"items,omitempty" yaml:"items"`
}

// ForecastInput holds forecast scenarios, in $M.
type ForecastInput struct {
	Captions  `yaml:",inline"`
	Years     []int      `json:"years,omitempty" yaml:"years"`
	Scenarios []Scenario `json:"scenarios,omitempty" yaml:"scenarios"`
	Milestone float64    `json:"milestone,omitempty" yaml:"milestone,omitempty"`
}

// FinancialMixInput holds the income statement lines, in $M.
type FinancialMixInput struct {
	Captions `yaml:",inline"`
	Years    []int     `json:"years,omitempty" yaml:"years"`
	Revenue  []float64 `json:"revenue,omitempty" yaml:"revenue"`
	COGS     []float64 `json:"cogs,omitempty" yaml:"cogs"`
	OpEx     []float64 `json:"opex,omitempty" yaml:"opex"`
	RnD      []float64 `json:"rnd,omitempty" yaml:"rnd"`
}

// OrgNode is one position in the organisation chart.
type OrgNode struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Title      string `json:"title,omitempty" yaml:"title,omitempty"`
	Parent     string `json:"parent,omitempty" yaml:"parent,omitempty"`
	Department string `json:"department" yaml:"department"`
	// Headcount counts the people in this position's own team, leader
	// included; child positions report their teams separately.
	Headcount int `json:"headcount" yaml:"headcount"`
}

type OrgInput struct {
	Captions `yaml:",inline"`
	Nodes    []OrgNode `json:"nodes,omitempty" yaml:"nodes"`
}

// TimelineEvent is one roadmap entry. Dates are YYYY-MM or YYYY-MM-DD.
type TimelineEvent struct {
	Name      string `json:"name" yaml:"name"`
	Phase     string `json:"phase" yaml:"phase"`
	StartDate string `json:"startDate" yaml:"start_date"`
	EndDate   string `json:"endDate,omitempty" yaml:"end_date,omitempty"`
	Milestone bool   `json:"milestone,omitempty" yaml:"milestone,omitempty"`
	Status    Status `json:"status" yaml:"status"`
}

type TimelineInput struct {
	Captions `yaml:",inline"`
	Events   []TimelineEvent `json:"events,omitempty" yaml:"events"`
}
