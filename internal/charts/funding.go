package charts

import (
	"math"

	"plancharts/internal/analysis"
	"plancharts/internal/format"
	"plancharts/internal/model"
	"plancharts/internal/protocol"
)

type funding struct{ deps Deps }

type fundingRequest struct{ in model.FundingInput }

func (fundingRequest) request() {}

// AllocationAmount is one resolved slice of the raise.
type AllocationAmount struct {
	Category   string  `json:"category"`
	Percentage float64 `json:"percentage"`
	Amount     float64 `json:"amount"`
	Color      string  `json:"color"`
}

type FundingMetrics struct {
	TotalRaise      float64            `json:"totalRaise"`
	Allocations     []AllocationAmount `json:"allocations"`
	PercentageTotal float64            `json:"percentageTotal"`
	Extremes        analysis.Extremes  `json:"extremes"`
}

func (d funding) Name() string      { return Funding }
func (d funding) Actions() []string { return []string{ActionPrepareFundingData} }

func (d funding) Decode(env protocol.Envelope) (Request, error) {
	switch env.Action {
	case ActionPrepareFundingData:
		var in model.FundingInput
		if err := decodeInput(env, &in); err != nil {
			return nil, err
		}
		return fundingRequest{in}, nil
	default:
		return nil, unknownAction(env.Action, d.Name())
	}
}

func (d funding) Transform(req Request) (Result, error) {
	switch r := req.(type) {
	case fundingRequest:
		return d.prepare(r.in)
	default:
		return Result{}, unexpectedRequest(req, d.Name())
	}
}

func (d funding) prepare(in model.FundingInput) (Result, error) {
	def := d.deps.Datasets.Funding
	caps := captions(in.Captions, def.Captions)
	if len(in.Allocations) == 0 {
		in.Allocations = def.Allocations
	}
	if in.TotalRaise <= 0 {
		in.TotalRaise = def.TotalRaise
	}
	for i, a := range in.Allocations {
		if a.Category == "" {
			return Result{}, malformed("allocation %d: category is required", i)
		}
		if a.Percentage < 0 || math.IsNaN(a.Percentage) || math.IsInf(a.Percentage, 0) {
			return Result{}, malformed("allocation %q: percentage must be non-negative, got %v", a.Category, a.Percentage)
		}
	}

	f := d.deps.Format
	supplied := make([]string, len(in.Allocations))
	for i, a := range in.Allocations {
		supplied[i] = a.Color
	}
	colors := f.Spread(len(in.Allocations), supplied)

	ex, _ := analysis.AllocationExtremes(in.Allocations)
	m := FundingMetrics{TotalRaise: in.TotalRaise, Extremes: ex, PercentageTotal: ex.Total}
	categories := make([]string, len(in.Allocations))
	shares := make([]float64, len(in.Allocations))
	table := model.Table{Columns: []string{"Category", "Share", "Amount ($M)"}}
	for i, a := range in.Allocations {
		amount := analysis.Round2(in.TotalRaise * a.Percentage / 100)
		m.Allocations = append(m.Allocations, AllocationAmount{Category: a.Category, Percentage: a.Percentage, Amount: amount, Color: colors[i]})
		categories[i] = a.Category
		shares[i] = a.Percentage
		table.AddRow(a.Category, f.Percent(model.V(a.Percentage)), f.Money(amount, format.Millions))
	}

	return Result{
		Action: ActionFundingDataReady,
		Payload: model.ChartPayload{
			Series:      []model.Series{{Name: "Use of Funds", Data: model.Values(shares), Type: "pie"}},
			Categories:  categories,
			Colors:      colors,
			Annotations: []model.Annotation{},
			TableData:   table,
			Metrics:     m,
		},
		Captions: caps,
	}, nil
}
