package charts

import (
	"plancharts/internal/analysis"
	"plancharts/internal/format"
	"plancharts/internal/model"
	"plancharts/internal/protocol"
)

type marketSize struct{ deps Deps }

type marketSizeRequest struct{ in model.MarketSizeInput }

func (marketSizeRequest) request() {}

// TierStats describes one market tier.
type TierStats struct {
	Name string      `json:"name"`
	Last float64     `json:"last"`
	CAGR model.Value `json:"cagr"`
}

type MarketSizeMetrics struct {
	Tiers []TierStats `json:"tiers"`
	// Shares are taken at the last year.
	SOMShareOfSAM model.Value `json:"somShareOfSam"`
	SAMShareOfTAM model.Value `json:"samShareOfTam"`
	Milestone     float64     `json:"milestone"`
	MilestoneYear model.Value `json:"milestoneYear"`
}

func (d marketSize) Name() string      { return MarketSize }
func (d marketSize) Actions() []string { return []string{ActionPrepareData} }

func (d marketSize) Decode(env protocol.Envelope) (Request, error) {
	switch env.Action {
	case ActionPrepareData:
		var in model.MarketSizeInput
		if err := decodeInput(env, &in); err != nil {
			return nil, err
		}
		return marketSizeRequest{in}, nil
	default:
		return nil, unknownAction(env.Action, d.Name())
	}
}

func (d marketSize) Transform(req Request) (Result, error) {
	switch r := req.(type) {
	case marketSizeRequest:
		return d.prepare(r.in)
	default:
		return Result{}, unexpectedRequest(req, d.Name())
	}
}

func (d marketSize) prepare(in model.MarketSizeInput) (Result, error) {
	def := d.deps.Datasets.MarketSize
	caps := captions(in.Captions, def.Captions)
	if len(in.Years) == 0 || len(in.TAM) == 0 || len(in.SAM) == 0 || len(in.SOM) == 0 {
		in.Years, in.TAM, in.SAM, in.SOM = def.Years, def.TAM, def.SAM, def.SOM
	}
	threshold := in.Milestone
	if threshold <= 0 {
		threshold = def.Milestone
	}
	if threshold <= 0 {
		threshold = d.deps.Milestone
	}
	if err := checkAligned(in.Years, map[string][]float64{"tam": in.TAM, "sam": in.SAM, "som": in.SOM}); err != nil {
		return Result{}, err
	}
	tiers := []model.Scenario{{Name: "TAM", Values: in.TAM}, {Name: "SAM", Values: in.SAM}, {Name: "SOM", Values: in.SOM}}
	for _, t := range tiers {
		if err := checkNonNegative(t.Name, t.Values); err != nil {
			return Result{}, err
		}
	}

	f := d.deps.Format
	series, colors := scenarioSeries(f, tiers)
	for i := range series {
		series[i].Type = "area"
	}
	last := len(in.Years) - 1
	m := MarketSizeMetrics{Milestone: threshold}
	for _, t := range tiers {
		m.Tiers = append(m.Tiers, TierStats{Name: t.Name, Last: t.Values[last], CAGR: valueOf(analysis.CAGR(t.Values))})
	}
	m.SOMShareOfSAM = valueOf(analysis.Share(in.SOM[last], in.SAM[last]))
	m.SAMShareOfTAM = valueOf(analysis.Share(in.SAM[last], in.TAM[last]))

	tam := scenarioStats(in.Years, tiers[0], colors[0], threshold)
	m.MilestoneYear = tam.MilestoneYear

	table := model.Table{Columns: []string{"Year", "TAM ($B)", "SAM ($B)", "SOM ($B)"}}
	for i, y := range in.Years {
		table.AddRow(
			f.Year(float64(y)),
			f.Money(in.TAM[i], format.Billions),
			f.Money(in.SAM[i], format.Billions),
			f.Money(in.SOM[i], format.Billions),
		)
	}

	return Result{
		Action: ActionDataReady,
		Payload: model.ChartPayload{
			Series:      series,
			Categories:  format.Years(in.Years),
			Colors:      colors,
			Annotations: milestoneAnnotations(format.Milestone(threshold), threshold, []ScenarioStats{tam}),
			TableData:   table,
			Metrics:     m,
		},
		Captions: caps,
	}, nil
}
