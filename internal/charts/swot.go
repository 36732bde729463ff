package charts

import (
	"plancharts/internal/analysis"
	"plancharts/internal/model"
	"plancharts/internal/protocol"
)

var quadrantStyle = map[model.Quadrant]struct{ label, color string }{
	model.QuadrantStrengths:     {"Strengths", "#00B894"},
	model.QuadrantWeaknesses:    {"Weaknesses", "#E17055"},
	model.QuadrantOpportunities: {"Opportunities", "#0984E3"},
	model.QuadrantThreats:       {"Threats", "#D63031"},
}

type swot struct{ deps Deps }

type swotRequest struct{ in model.SWOTInput }

func (swotRequest) request() {}

func (d swot) Name() string      { return SWOT }
func (d swot) Actions() []string { return []string{ActionProcessSwotData} }

func (d swot) Decode(env protocol.Envelope) (Request, error) {
	switch env.Action {
	case ActionProcessSwotData:
		var in model.SWOTInput
		if err := decodeInput(env, &in); err != nil {
			return nil, err
		}
		return swotRequest{in}, nil
	default:
		return nil, unknownAction(env.Action, d.Name())
	}
}

func (d swot) Transform(req Request) (Result, error) {
	switch r := req.(type) {
	case swotRequest:
		return d.process(r.in)
	default:
		return Result{}, unexpectedRequest(req, d.Name())
	}
}

func (d swot) process(in model.SWOTInput) (Result, error) {
	def := d.deps.Datasets.SWOT
	caps := captions(in.Captions, def.Captions)
	if len(in.Items) == 0 {
		in.Items = def.Items
	}
	res, err := analysis.NormalizeSWOT(in.Items)
	if err != nil {
		return Result{}, malformed("%v", err)
	}

	f := d.deps.Format
	series := make([]model.Series, 0, len(model.Quadrants)+1)
	colors := make([]string, 0, len(model.Quadrants)+1)
	for _, q := range model.Quadrants {
		st := quadrantStyle[q]
		series = append(series, model.Series{Name: st.label, Data: model.Values(res.QuadrantScores[q]), Color: st.color, Type: "bar"})
		colors = append(colors, st.color)
	}
	overallColor := f.Color(0, "")
	series = append(series, model.Series{Name: "Overall", Data: model.Values(res.Scores), Color: overallColor, Type: "line"})
	colors = append(colors, overallColor)

	table := model.Table{Columns: []string{"Category"}}
	for _, q := range model.Quadrants {
		table.Columns = append(table.Columns, quadrantStyle[q].label)
	}
	table.Columns = append(table.Columns, "Overall")
	for i, cat := range res.Categories {
		cells := []string{cat}
		for _, q := range model.Quadrants {
			cells = append(cells, f.Score(model.V(res.QuadrantScores[q][i])))
		}
		cells = append(cells, f.Score(model.V(res.Scores[i])))
		table.AddRow(cells...)
	}

	return Result{
		Action: ActionSwotDataProcessed,
		Payload: model.ChartPayload{
			Series:      series,
			Categories:  res.Categories,
			Colors:      colors,
			Annotations: []model.Annotation{},
			TableData:   table,
			Metrics:     res,
		},
		Captions: caps,
	}, nil
}
