package charts

import (
	"plancharts/internal/analysis"
	"plancharts/internal/format"
	"plancharts/internal/model"
	"plancharts/internal/protocol"
)

type investment struct{ deps Deps }

type investmentRequest struct{ in model.InvestmentInput }

func (investmentRequest) request() {}

// CategoryShare is one category's share of the grand total.
type CategoryShare struct {
	Name  string      `json:"name"`
	Total float64     `json:"total"`
	Share model.Value `json:"share"`
}

type InvestmentMetrics struct {
	Totals     []float64       `json:"totals"`
	Cumulative []float64       `json:"cumulative"`
	GrandTotal float64         `json:"grandTotal"`
	Shares     []CategoryShare `json:"shares"`
	Largest    string          `json:"largest"`
}

func (d investment) Name() string      { return Investment }
func (d investment) Actions() []string { return []string{ActionPrepareData} }

func (d investment) Decode(env protocol.Envelope) (Request, error) {
	switch env.Action {
	case ActionPrepareData:
		var in model.InvestmentInput
		if err := decodeInput(env, &in); err != nil {
			return nil, err
		}
		return investmentRequest{in}, nil
	default:
		return nil, unknownAction(env.Action, d.Name())
	}
}

func (d investment) Transform(req Request) (Result, error) {
	switch r := req.(type) {
	case investmentRequest:
		return d.prepare(r.in)
	default:
		return Result{}, unexpectedRequest(req, d.Name())
	}
}

func (d investment) prepare(in model.InvestmentInput) (Result, error) {
	def := d.deps.Datasets.Investment
	caps := captions(in.Captions, def.Captions)
	if len(in.Years) == 0 || len(in.Categories) == 0 {
		in.Years, in.Categories = def.Years, def.Categories
	}
	if err := validateStreams(in.Years, in.Categories); err != nil {
		return Result{}, err
	}

	f := d.deps.Format
	totals := sumColumns(streamColumns(in.Categories), len(in.Years))
	cumulative := analysis.Cumulative(totals)
	m := InvestmentMetrics{Totals: totals, Cumulative: cumulative, GrandTotal: cumulative[len(cumulative)-1]}

	series := make([]model.Series, 0, len(in.Categories)+1)
	colors := make([]string, 0, len(in.Categories)+1)
	largest := -1.0
	for i, c := range in.Categories {
		color := f.Color(i, c.Color)
		colors = append(colors, color)
		series = append(series, model.Series{Name: c.Name, Data: model.Values(c.Values), Color: color, Type: "bar", Stack: "investment"})

		sum := analysis.Sum(c.Values)
		m.Shares = append(m.Shares, CategoryShare{Name: c.Name, Total: sum, Share: valueOf(analysis.Share(sum, m.GrandTotal))})
		if sum > largest {
			largest = sum
			m.Largest = c.Name
		}
	}
	cumColor := f.Color(len(in.Categories), "")
	colors = append(colors, cumColor)
	series = append(series, model.Series{Name: "Cumulative", Data: model.Values(cumulative), Color: cumColor, Type: "line"})

	table := model.Table{Columns: []string{"Year"}}
	for _, c := range in.Categories {
		table.Columns = append(table.Columns, c.Name+" ($M)")
	}
	table.Columns = append(table.Columns, "Total ($M)", "Cumulative ($M)")
	for i, y := range in.Years {
		row := []string{f.Year(float64(y))}
		for _, c := range in.Categories {
			row = append(row, f.Money(c.Values[i], format.Millions))
		}
		row = append(row, f.Money(totals[i], format.Millions), f.Money(cumulative[i], format.Millions))
		table.AddRow(row...)
	}

	return Result{
		Action: ActionDataReady,
		Payload: model.ChartPayload{
			Series:      series,
			Categories:  format.Years(in.Years),
			Colors:      colors,
			Annotations: []model.Annotation{},
			TableData:   table,
			Metrics:     m,
		},
		Captions: caps,
	}, nil
}
