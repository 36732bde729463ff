package charts

import (
	"plancharts/internal/format"
	"plancharts/internal/model"
	"plancharts/internal/protocol"
)

type marketGrowth struct{ deps Deps }

type marketGrowthRequest struct{ in model.MarketGrowthInput }

func (marketGrowthRequest) request() {}

// MarketGrowthMetrics are the statistics of the market growth chart.
type MarketGrowthMetrics struct {
	Milestone float64         `json:"milestone"`
	Scenarios []ScenarioStats `json:"scenarios"`
}

func (d marketGrowth) Name() string      { return MarketGrowth }
func (d marketGrowth) Actions() []string { return []string{ActionPrepareData} }

func (d marketGrowth) Decode(env protocol.Envelope) (Request, error) {
	switch env.Action {
	case ActionPrepareData:
		var in model.MarketGrowthInput
		if err := decodeInput(env, &in); err != nil {
			return nil, err
		}
		return marketGrowthRequest{in}, nil
	default:
		return nil, unknownAction(env.Action, d.Name())
	}
}

func (d marketGrowth) Transform(req Request) (Result, error) {
	switch r := req.(type) {
	case marketGrowthRequest:
		return d.prepare(r.in)
	default:
		return Result{}, unexpectedRequest(req, d.Name())
	}
}

func (d marketGrowth) prepare(in model.MarketGrowthInput) (Result, error) {
	def := d.deps.Datasets.MarketGrowth
	caps := captions(in.Captions, def.Captions)
	if len(in.Years) == 0 || len(in.Scenarios) == 0 {
		in.Years, in.Scenarios = def.Years, def.Scenarios
	}
	threshold := in.Milestone
	if threshold <= 0 {
		threshold = def.Milestone
	}
	if threshold <= 0 {
		threshold = d.deps.Milestone
	}
	if err := validateScenarios(in.Years, in.Scenarios); err != nil {
		return Result{}, err
	}

	f := d.deps.Format
	series, colors := scenarioSeries(f, in.Scenarios)
	stats := make([]ScenarioStats, len(in.Scenarios))
	for i, sc := range in.Scenarios {
		stats[i] = scenarioStats(in.Years, sc, colors[i], threshold)
	}

	base := baseScenario(in.Scenarios)
	table := model.Table{Columns: []string{"Year"}}
	for _, sc := range in.Scenarios {
		table.Columns = append(table.Columns, sc.Name+" ($B)")
	}
	table.Columns = append(table.Columns, in.Scenarios[base].Name+" YoY")
	for i, y := range in.Years {
		row := []string{f.Year(float64(y))}
		for _, sc := range in.Scenarios {
			row = append(row, f.Money(sc.Values[i], format.Billions))
		}
		row = append(row, f.Percent(stats[base].YoY[i]))
		table.AddRow(row...)
	}

	return Result{
		Action: ActionDataReady,
		Payload: model.ChartPayload{
			Series:      series,
			Categories:  format.Years(in.Years),
			Colors:      colors,
			Annotations: milestoneAnnotations(format.Milestone(threshold), threshold, stats),
			TableData:   table,
			Metrics:     MarketGrowthMetrics{Milestone: threshold, Scenarios: stats},
		},
		Captions: caps,
	}, nil
}
