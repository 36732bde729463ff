package charts

import (
	"math"

	"plancharts/internal/analysis"
	"plancharts/internal/model"
	"plancharts/internal/protocol"
)

type (
	competitorRadar    struct{ deps Deps }
	competitorStrength struct{ deps Deps }
)

type (
	competitorRadarRequest    struct{ in model.CompetitorInput }
	competitorStrengthRequest struct{ in model.CompetitorInput }
)

func (competitorRadarRequest) request()    {}
func (competitorStrengthRequest) request() {}

// CategoryAverage is the industry average of one category.
type CategoryAverage struct {
	Category string      `json:"category"`
	Average  model.Value `json:"average"`
}

type StrengthMetrics struct {
	Ranking   []analysis.RankedStrength `json:"ranking"`
	Strongest string                    `json:"strongest,omitempty"`
	Leaders   []analysis.CategoryLeader `json:"leaders"`
	Averages  []CategoryAverage         `json:"averages"`
}

// competitorInput resolves defaults and validates; both competitor domains
// share it.
func competitorInput(deps Deps, in model.CompetitorInput) (model.CompetitorInput, model.Captions, error) {
	def := deps.Datasets.Competitors
	caps := captions(in.Captions, def.Captions)
	if len(in.Categories) == 0 || len(in.Competitors) == 0 {
		in.Categories, in.Competitors = def.Categories, def.Competitors
	}
	seen := make(map[string]bool, len(in.Categories))
	for i, c := range in.Categories {
		if c == "" {
			return in, caps, malformed("category %d: name is required", i)
		}
		if seen[c] {
			return in, caps, malformed("duplicate category %q", c)
		}
		seen[c] = true
	}
	for i, c := range in.Competitors {
		if c.Name == "" {
			return in, caps, malformed("competitor %d: name is required", i)
		}
		for cat, v := range c.Scores {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return in, caps, malformed("competitor %q: score for %q is not a number", c.Name, cat)
			}
		}
	}
	return in, caps, nil
}

func (d competitorRadar) Name() string      { return CompetitorRadar }
func (d competitorRadar) Actions() []string { return []string{ActionPrepareData} }

func (d competitorRadar) Decode(env protocol.Envelope) (Request, error) {
	switch env.Action {
	case ActionPrepareData:
		var in model.CompetitorInput
		if err := decodeInput(env, &in); err != nil {
			return nil, err
		}
		return competitorRadarRequest{in}, nil
	default:
		return nil, unknownAction(env.Action, d.Name())
	}
}

func (d competitorRadar) Transform(req Request) (Result, error) {
	switch r := req.(type) {
	case competitorRadarRequest:
		return d.prepare(r.in)
	default:
		return Result{}, unexpectedRequest(req, d.Name())
	}
}

func (d competitorRadar) prepare(in model.CompetitorInput) (Result, error) {
	in, caps, err := competitorInput(d.deps, in)
	if err != nil {
		return Result{}, err
	}
	f := d.deps.Format
	sum := analysis.AggregateCompetitors(in.Categories, in.Competitors)

	series := make([]model.Series, 0, len(sum.Competitors)+1)
	colors := make([]string, 0, len(sum.Competitors)+1)
	for i, row := range sum.Competitors {
		c := f.Color(i, in.Competitors[i].Color)
		colors = append(colors, c)
		series = append(series, model.Series{Name: row.Name, Data: row.Scores, Color: c, Type: "radar"})
	}
	avgColor := f.Color(len(sum.Competitors), "")
	colors = append(colors, avgColor)
	series = append(series, model.Series{Name: "Industry Average", Data: sum.Averages, Color: avgColor, Type: "radar"})

	table := model.Table{Columns: []string{"Category"}}
	for _, row := range sum.Competitors {
		table.Columns = append(table.Columns, row.Name)
	}
	table.Columns = append(table.Columns, "Industry Average")
	for j, cat := range in.Categories {
		cells := []string{cat}
		for _, row := range sum.Competitors {
			cells = append(cells, f.Score(row.Scores[j]))
		}
		cells = append(cells, f.Score(sum.Averages[j]))
		table.AddRow(cells...)
	}

	return Result{
		Action: ActionDataReady,
		Payload: model.ChartPayload{
			Series:      series,
			Categories:  in.Categories,
			Colors:      colors,
			Annotations: []model.Annotation{},
			TableData:   table,
			Metrics:     sum,
		},
		Captions: caps,
	}, nil
}

func (d competitorStrength) Name() string      { return CompetitorStrength }
func (d competitorStrength) Actions() []string { return []string{ActionPrepareData} }

func (d competitorStrength) Decode(env protocol.Envelope) (Request, error) {
	switch env.Action {
	case ActionPrepareData:
		var in model.CompetitorInput
		if err := decodeInput(env, &in); err != nil {
			return nil, err
		}
		return competitorStrengthRequest{in}, nil
	default:
		return nil, unknownAction(env.Action, d.Name())
	}
}

func (d competitorStrength) Transform(req Request) (Result, error) {
	switch r := req.(type) {
	case competitorStrengthRequest:
		return d.prepare(r.in)
	default:
		return Result{}, unexpectedRequest(req, d.Name())
	}
}

func (d competitorStrength) prepare(in model.CompetitorInput) (Result, error) {
	in, caps, err := competitorInput(d.deps, in)
	if err != nil {
		return Result{}, err
	}
	f := d.deps.Format
	sum := analysis.AggregateCompetitors(in.Categories, in.Competitors)

	names := make([]string, len(sum.Competitors))
	overall := make([]model.Value, len(sum.Competitors))
	colors := make([]string, len(sum.Competitors))
	for i, row := range sum.Competitors {
		names[i] = row.Name
		overall[i] = row.Overall
		colors[i] = f.Color(i, in.Competitors[i].Color)
	}

	m := StrengthMetrics{
		Ranking:   analysis.RankByOverall(sum.Competitors),
		Strongest: sum.Strongest,
		Leaders:   sum.Leaders,
	}
	for j, cat := range in.Categories {
		m.Averages = append(m.Averages, CategoryAverage{Category: cat, Average: sum.Averages[j]})
	}

	table := model.Table{Columns: append([]string{"Rank", "Competitor", "Overall"}, in.Categories...)}
	for _, r := range m.Ranking {
		cells := []string{f.Number(float64(r.Rank), 0), r.Name, f.Score(r.Overall)}
		for _, s := range r.Scores {
			cells = append(cells, f.Score(s))
		}
		table.AddRow(cells...)
	}

	return Result{
		Action: ActionDataReady,
		Payload: model.ChartPayload{
			Series:      []model.Series{{Name: "Overall Strength", Data: overall, Type: "bar"}},
			Categories:  names,
			Colors:      colors,
			Annotations: []model.Annotation{},
			TableData:   table,
			Metrics:     m,
		},
		Captions: caps,
	}, nil
}
