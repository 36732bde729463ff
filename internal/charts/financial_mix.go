package charts

import (
	"plancharts/internal/analysis"
	"plancharts/internal/format"
	"plancharts/internal/model"
	"plancharts/internal/protocol"
)

type financialMix struct{ deps Deps }

type financialMixRequest struct{ in model.FinancialMixInput }

func (financialMixRequest) request() {}

// Slice is one part of the last-year revenue composition.
type Slice struct {
	Name   string      `json:"name"`
	Amount float64     `json:"amount"`
	Share  model.Value `json:"share"`
}

type FinancialMixMetrics struct {
	EBITDA       []float64     `json:"ebitda"`
	GrossMargin  []model.Value `json:"grossMargin"`
	OpExRatio    []model.Value `json:"opexRatio"`
	RnDRatio     []model.Value `json:"rndRatio"`
	EBITDAMargin []model.Value `json:"ebitdaMargin"`
	// Composition splits last-year revenue; EBITDA is left out when negative
	// and LossMaking is set instead.
	Composition []Slice `json:"composition"`
	LossMaking  bool    `json:"lossMaking"`
}

func (d financialMix) Name() string      { return FinancialMix }
func (d financialMix) Actions() []string { return []string{ActionPrepareData} }

func (d financialMix) Decode(env protocol.Envelope) (Request, error) {
	switch env.Action {
	case ActionPrepareData:
		var in model.FinancialMixInput
		if err := decodeInput(env, &in); err != nil {
			return nil, err
		}
		return financialMixRequest{in}, nil
	default:
		return nil, unknownAction(env.Action, d.Name())
	}
}

func (d financialMix) Transform(req Request) (Result, error) {
	switch r := req.(type) {
	case financialMixRequest:
		return d.prepare(r.in)
	default:
		return Result{}, unexpectedRequest(req, d.Name())
	}
}

func (d financialMix) prepare(in model.FinancialMixInput) (Result, error) {
	def := d.deps.Datasets.FinancialMix
	caps := captions(in.Captions, def.Captions)
	if len(in.Years) == 0 || len(in.Revenue) == 0 || len(in.COGS) == 0 || len(in.OpEx) == 0 || len(in.RnD) == 0 {
		in.Years, in.Revenue, in.COGS, in.OpEx, in.RnD = def.Years, def.Revenue, def.COGS, def.OpEx, def.RnD
	}
	cols := map[string][]float64{"revenue": in.Revenue, "cogs": in.COGS, "opex": in.OpEx, "rnd": in.RnD}
	if err := checkAligned(in.Years, cols); err != nil {
		return Result{}, err
	}
	for _, name := range []string{"revenue", "cogs", "opex", "rnd"} {
		if err := checkNonNegative(name, cols[name]); err != nil {
			return Result{}, err
		}
	}

	n := len(in.Years)
	m := FinancialMixMetrics{EBITDA: make([]float64, n)}
	gross := make([]float64, n)
	for i := 0; i < n; i++ {
		gross[i] = in.Revenue[i] - in.COGS[i]
		m.EBITDA[i] = analysis.Round2(gross[i] - in.OpEx[i] - in.RnD[i])
	}
	m.GrossMargin = margins(gross, in.Revenue)
	m.OpExRatio = margins(in.OpEx, in.Revenue)
	m.RnDRatio = margins(in.RnD, in.Revenue)
	m.EBITDAMargin = margins(m.EBITDA, in.Revenue)

	last := n - 1
	rev := in.Revenue[last]
	parts := []struct {
		name   string
		amount float64
	}{
		{"COGS", in.COGS[last]},
		{"OpEx", in.OpEx[last]},
		{"R&D", in.RnD[last]},
		{"EBITDA", m.EBITDA[last]},
	}
	for _, p := range parts {
		if p.amount < 0 {
			m.LossMaking = true
			continue
		}
		m.Composition = append(m.Composition, Slice{Name: p.name, Amount: p.amount, Share: valueOf(analysis.Share(p.amount, rev))})
	}

	f := d.deps.Format
	names := []string{"Gross Margin", "OpEx Ratio", "R&D Ratio", "EBITDA Margin"}
	data := [][]model.Value{m.GrossMargin, m.OpExRatio, m.RnDRatio, m.EBITDAMargin}
	series := make([]model.Series, len(names))
	colors := make([]string, len(names))
	for i := range names {
		colors[i] = f.Color(i, "")
		series[i] = model.Series{Name: names[i], Data: data[i], Color: colors[i], Type: "line"}
	}

	table := model.Table{Columns: append([]string{"Year", "Revenue ($M)"}, names...)}
	for i, y := range in.Years {
		table.AddRow(
			f.Year(float64(y)),
			f.Money(in.Revenue[i], format.Millions),
			f.Percent(m.GrossMargin[i]),
			f.Percent(m.OpExRatio[i]),
			f.Percent(m.RnDRatio[i]),
			f.Percent(m.EBITDAMargin[i]),
		)
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
