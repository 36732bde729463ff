package charts

import (
	"math"

	"plancharts/internal/analysis"
	"plancharts/internal/format"
	"plancharts/internal/model"
	"plancharts/internal/protocol"
)

type forecast struct{ deps Deps }

type forecastRequest struct{ in model.ForecastInput }

func (forecastRequest) request() {}

type ForecastMetrics struct {
	Milestone float64         `json:"milestone"`
	Scenarios []ScenarioStats `json:"scenarios"`
	// Expected is the probability-weighted series; absent unless every
	// scenario carries a probability.
	Expected     []model.Value `json:"expected,omitempty"`
	ExpectedCAGR model.Value   `json:"expectedCagr"`
	// Spread is highest minus lowest scenario value in the last year.
	Spread model.Value `json:"spread"`
}

func (d forecast) Name() string      { return Forecast }
func (d forecast) Actions() []string { return []string{ActionPrepareData} }

func (d forecast) Decode(env protocol.Envelope) (Request, error) {
	switch env.Action {
	case ActionPrepareData:
		var in model.ForecastInput
		if err := decodeInput(env, &in); err != nil {
			return nil, err
		}
		return forecastRequest{in}, nil
	default:
		return nil, unknownAction(env.Action, d.Name())
	}
}

func (d forecast) Transform(req Request) (Result, error) {
	switch r := req.(type) {
	case forecastRequest:
		return d.prepare(r.in)
	default:
		return Result{}, unexpectedRequest(req, d.Name())
	}
}

// expectedSeries weights scenarios by probability, normalised to the
// probability total. ok is false when any probability is missing or they
// sum to zero.
func expectedSeries(scenarios []model.Scenario, n int) ([]float64, bool) {
	total := 0.0
	for _, sc := range scenarios {
		if sc.Probability == nil {
			return nil, false
		}
		total += *sc.Probability
	}
	if total == 0 {
		return nil, false
	}
	out := make([]float64, n)
	for _, sc := range scenarios {
		w := *sc.Probability / total
		for i := range out {
			out[i] += w * sc.Values[i]
		}
	}
	for i := range out {
		out[i] = analysis.Round2(out[i])
	}
	return out, true
}

func (d forecast) prepare(in model.ForecastInput) (Result, error) {
	def := d.deps.Datasets.Forecast
	caps := captions(in.Captions, def.Captions)
	if len(in.Years) == 0 || len(in.Scenarios) == 0 {
		in.Years, in.Scenarios = def.Years, def.Scenarios
	}
	threshold := in.Milestone
	if threshold <= 0 {
		threshold = def.Milestone
	}
	if err := validateScenarios(in.Years, in.Scenarios); err != nil {
		return Result{}, err
	}
	for _, sc := range in.Scenarios {
		if p := sc.Probability; p != nil && (*p < 0 || *p > 1 || math.IsNaN(*p)) {
			return Result{}, malformed("scenario %q: probability must be within 0..1, got %v", sc.Name, *p)
		}
	}

	f := d.deps.Format
	series, colors := scenarioSeries(f, in.Scenarios)
	m := ForecastMetrics{Milestone: threshold, ExpectedCAGR: model.Null, Spread: model.Null}
	for i, sc := range in.Scenarios {
		m.Scenarios = append(m.Scenarios, scenarioStats(in.Years, sc, colors[i], threshold))
	}

	last := len(in.Years) - 1
	hi, lo := math.Inf(-1), math.Inf(1)
	for _, sc := range in.Scenarios {
		hi = math.Max(hi, sc.Values[last])
		lo = math.Min(lo, sc.Values[last])
	}
	m.Spread = model.V(analysis.Round2(hi - lo))

	expected, ok := expectedSeries(in.Scenarios, len(in.Years))
	if ok {
		m.Expected = model.Values(expected)
		m.ExpectedCAGR = valueOf(analysis.CAGR(expected))
		c := f.Color(len(in.Scenarios), "")
		colors = append(colors, c)
		series = append(series, model.Series{Name: "Expected", Data: m.Expected, Color: c, Type: "line"})
	}

	table := model.Table{Columns: []string{"Year"}}
	for _, sc := range in.Scenarios {
		table.Columns = append(table.Columns, sc.Name+" ($M)")
	}
	if ok {
		table.Columns = append(table.Columns, "Expected ($M)")
	}
	for i, y := range in.Years {
		row := []string{f.Year(float64(y))}
		for _, sc := range in.Scenarios {
			row = append(row, f.Money(sc.Values[i], format.Millions))
		}
		if ok {
			row = append(row, f.Money(expected[i], format.Millions))
		}
		table.AddRow(row...)
	}

	annotations := []model.Annotation{}
	if threshold > 0 {
		annotations = milestoneAnnotations(f.Money(threshold, format.Millions)+" Revenue", threshold, m.Scenarios)
	}

	return Result{
		Action: ActionDataReady,
		Payload: model.ChartPayload{
			Series:      series,
			Categories:  format.Years(in.Years),
			Colors:      colors,
			Annotations: annotations,
			TableData:   table,
			Metrics:     m,
		},
		Captions: caps,
	}, nil
}
