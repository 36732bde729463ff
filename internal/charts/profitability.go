package charts

import (
	"plancharts/internal/analysis"
	"plancharts/internal/format"
	"plancharts/internal/model"
	"plancharts/internal/protocol"
)

// Growth methods reported for EBITDA.
const (
	GrowthCAGR          = "cagr"
	GrowthAverageChange = "average_absolute_change"
	GrowthUndefined     = "undefined"
)

type profitability struct{ deps Deps }

type profitabilityRequest struct{ in model.ProfitabilityInput }

func (profitabilityRequest) request() {}

type ProfitabilityMetrics struct {
	Margins       []model.Value `json:"margins"`
	BreakEvenYear model.Value   `json:"breakEvenYear"`
	// EBITDAGrowth is a CAGR in percent or an average change in $M per
	// year, depending on GrowthMethod.
	EBITDAGrowth model.Value `json:"ebitdaGrowth"`
	GrowthMethod string      `json:"growthMethod"`
	RevenueCAGR  model.Value `json:"revenueCagr"`
}

func (d profitability) Name() string      { return Profitability }
func (d profitability) Actions() []string { return []string{ActionPrepareData} }

func (d profitability) Decode(env protocol.Envelope) (Request, error) {
	switch env.Action {
	case ActionPrepareData:
		var in model.ProfitabilityInput
		if err := decodeInput(env, &in); err != nil {
			return nil, err
		}
		return profitabilityRequest{in}, nil
	default:
		return nil, unknownAction(env.Action, d.Name())
	}
}

func (d profitability) Transform(req Request) (Result, error) {
	switch r := req.(type) {
	case profitabilityRequest:
		return d.prepare(r.in)
	default:
		return Result{}, unexpectedRequest(req, d.Name())
	}
}

// ebitdaGrowth picks CAGR for a positive start, average absolute change for
// a negative one, and nothing when the series starts at zero.
func ebitdaGrowth(values []float64) (model.Value, string) {
	if len(values) == 0 {
		return model.Null, GrowthUndefined
	}
	switch first := values[0]; {
	case first > 0:
		return valueOf(analysis.CAGR(values)), GrowthCAGR
	case first < 0:
		return valueOf(analysis.AverageAbsoluteChange(values)), GrowthAverageChange
	default:
		return model.Null, GrowthUndefined
	}
}

func margins(part, revenue []float64) []model.Value {
	out := make([]model.Value, len(revenue))
	for i := range revenue {
		out[i] = valueOf(analysis.Share(part[i], revenue[i]))
	}
	return out
}

func (d profitability) prepare(in model.ProfitabilityInput) (Result, error) {
	def := d.deps.Datasets.Profitability
	caps := captions(in.Captions, def.Captions)
	if len(in.Years) == 0 || len(in.Revenue) == 0 || len(in.EBITDA) == 0 {
		in.Years, in.Revenue, in.EBITDA = def.Years, def.Revenue, def.EBITDA
	}
	if err := checkAligned(in.Years, map[string][]float64{"revenue": in.Revenue, "ebitda": in.EBITDA}); err != nil {
		return Result{}, err
	}
	if err := checkNonNegative("revenue", in.Revenue); err != nil {
		return Result{}, err
	}

	f := d.deps.Format
	m := ProfitabilityMetrics{
		Margins:       margins(in.EBITDA, in.Revenue),
		BreakEvenYear: valueOf(analysis.BreakEvenYear(in.Years, in.EBITDA)),
		RevenueCAGR:   valueOf(analysis.CAGR(in.Revenue)),
	}
	m.EBITDAGrowth, m.GrowthMethod = ebitdaGrowth(in.EBITDA)

	colors := []string{f.Color(0, ""), f.Color(1, ""), f.Color(2, "")}
	series := []model.Series{
		{Name: "Revenue", Data: model.Values(in.Revenue), Color: colors[0], Type: "bar"},
		{Name: "EBITDA", Data: model.Values(in.EBITDA), Color: colors[1], Type: "bar"},
		{Name: "EBITDA Margin", Data: m.Margins, Color: colors[2], Type: "line"},
	}
	annotations := []model.Annotation{}
	if m.BreakEvenYear.Valid {
		annotations = append(annotations, model.Annotation{Label: "Break-even", Axis: model.AxisX, Value: m.BreakEvenYear.Float, Color: colors[1]})
	}

	table := model.Table{Columns: []string{"Year", "Revenue ($M)", "EBITDA ($M)", "EBITDA Margin"}}
	for i, y := range in.Years {
		table.AddRow(
			f.Year(float64(y)),
			f.Money(in.Revenue[i], format.Millions),
			f.Money(in.EBITDA[i], format.Millions),
			f.Percent(m.Margins[i]),
		)
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
