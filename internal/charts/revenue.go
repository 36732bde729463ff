package charts

import (
	"strconv"

	"plancharts/internal/analysis"
	"plancharts/internal/format"
	"plancharts/internal/model"
	"plancharts/internal/protocol"
)

type revenue struct{ deps Deps }

type (
	revenuePrepareRequest struct{ in model.RevenueInput }
	revenueGrowthRequest  struct{ in model.GrowthInput }
)

func (revenuePrepareRequest) request() {}
func (revenueGrowthRequest) request()  {}

type RevenueMetrics struct {
	Total              []float64     `json:"total"`
	TotalYoY           []model.Value `json:"totalYoy"`
	CAGR               model.Value   `json:"cagr"`
	LargestStream      string        `json:"largestStream"`
	LargestStreamShare model.Value   `json:"largestStreamShare"`
}

func (d revenue) Name() string { return Revenue }

func (d revenue) Actions() []string {
	return []string{ActionPrepareData, ActionCalculateGrowth}
}

func (d revenue) Decode(env protocol.Envelope) (Request, error) {
	switch env.Action {
	case ActionPrepareData:
		var in model.RevenueInput
		if err := decodeInput(env, &in); err != nil {
			return nil, err
		}
		return revenuePrepareRequest{in}, nil
	case ActionCalculateGrowth:
		var in model.GrowthInput
		if err := decodeInput(env, &in); err != nil {
			return nil, err
		}
		return revenueGrowthRequest{in}, nil
	default:
		return nil, unknownAction(env.Action, d.Name())
	}
}

func (d revenue) Transform(req Request) (Result, error) {
	switch r := req.(type) {
	case revenuePrepareRequest:
		return d.prepare(r.in)
	case revenueGrowthRequest:
		return d.growth(r.in)
	default:
		return Result{}, unexpectedRequest(req, d.Name())
	}
}

func validateStreams(years []int, streams []model.Stream) error {
	if err := checkYears(years); err != nil {
		return err
	}
	for i, s := range streams {
		if s.Name == "" {
			return malformed("stream %d: name is required", i)
		}
		if len(s.Values) != len(years) {
			return malformed("%s has %d values for %d years", s.Name, len(s.Values), len(years))
		}
		if err := checkNonNegative(s.Name, s.Values); err != nil {
			return err
		}
	}
	return nil
}

func streamColumns(streams []model.Stream) [][]float64 {
	cols := make([][]float64, len(streams))
	for i, s := range streams {
		cols[i] = s.Values
	}
	return cols
}

func (d revenue) prepare(in model.RevenueInput) (Result, error) {
	def := d.deps.Datasets.Revenue
	caps := captions(in.Captions, def.Captions)
	if len(in.Years) == 0 || len(in.Streams) == 0 {
		in.Years, in.Streams = def.Years, def.Streams
	}
	if err := validateStreams(in.Years, in.Streams); err != nil {
		return Result{}, err
	}

	f := d.deps.Format
	total := sumColumns(streamColumns(in.Streams), len(in.Years))
	g := analysis.ComputeGrowth(total)

	series := make([]model.Series, 0, len(in.Streams)+1)
	colors := make([]string, 0, len(in.Streams)+1)
	for i, s := range in.Streams {
		c := f.Color(i, s.Color)
		colors = append(colors, c)
		series = append(series, model.Series{Name: s.Name, Data: model.Values(s.Values), Color: c, Type: "bar", Stack: "revenue"})
	}
	totalColor := f.Color(len(in.Streams), "")
	colors = append(colors, totalColor)
	series = append(series, model.Series{Name: "Total", Data: model.Values(total), Color: totalColor, Type: "line"})

	last := len(in.Years) - 1
	m := RevenueMetrics{Total: total, TotalYoY: g.YoY, CAGR: g.CAGR, LargestStreamShare: model.Null}
	largest := -1.0
	for _, s := range in.Streams {
		if s.Values[last] > largest {
			largest = s.Values[last]
			m.LargestStream = s.Name
		}
	}
	if m.LargestStream != "" {
		m.LargestStreamShare = valueOf(analysis.Share(largest, total[last]))
	}

	table := model.Table{Columns: []string{"Year"}}
	for _, s := range in.Streams {
		table.Columns = append(table.Columns, s.Name+" ($M)")
	}
	table.Columns = append(table.Columns, "Total ($M)", "YoY Growth")
	for i, y := range in.Years {
		row := []string{f.Year(float64(y))}
		for _, s := range in.Streams {
			row = append(row, f.Money(s.Values[i], format.Millions))
		}
		row = append(row, f.Money(total[i], format.Millions), f.Percent(g.YoY[i]))
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

// growth returns YoY and CAGR for a bare value series. Without values it
// uses the default total revenue.
func (d revenue) growth(in model.GrowthInput) (Result, error) {
	if len(in.Values) == 0 {
		def := d.deps.Datasets.Revenue
		in.Years = def.Years
		in.Values = sumColumns(streamColumns(def.Streams), len(def.Years))
	}
	labels := make([]string, len(in.Values))
	if len(in.Years) > 0 {
		if err := checkYears(in.Years); err != nil {
			return Result{}, err
		}
		if len(in.Years) != len(in.Values) {
			return Result{}, malformed("values has %d entries for %d years", len(in.Values), len(in.Years))
		}
		labels = format.Years(in.Years)
	} else {
		for i := range labels {
			labels[i] = "Period " + strconv.Itoa(i+1)
		}
	}
	if err := checkNonNegative("values", in.Values); err != nil {
		return Result{}, err
	}

	f := d.deps.Format
	g := analysis.ComputeGrowth(in.Values)
	table := model.Table{Columns: []string{"Period", "Value", "YoY Growth"}}
	for i := range in.Values {
		table.AddRow(labels[i], f.Number(in.Values[i], 1), f.Percent(g.YoY[i]))
	}
	color := f.Color(0, "")
	return Result{
		Action: ActionGrowthCalculated,
		Payload: model.ChartPayload{
			Series:      []model.Series{{Name: "YoY Growth", Data: g.YoY, Color: color, Type: "line"}},
			Categories:  labels,
			Colors:      []string{color},
			Annotations: []model.Annotation{},
			TableData:   table,
			Metrics:     g,
		},
	}, nil
}
