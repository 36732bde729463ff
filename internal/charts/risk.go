package charts

import (
	"sort"

	"plancharts/internal/analysis"
	"plancharts/internal/model"
	"plancharts/internal/protocol"
)

// RiskCategories is the fixed category axis of the risk chart.
var RiskCategories = []string{"Technical", "Market", "Financial", "Regulatory", "Operational", "Competitive"}

var riskLevels = []struct {
	level model.RiskLevel
	label string
	color string
}{
	{model.RiskHigh, "High Risk", "#D63031"},
	{model.RiskMedium, "Medium Risk", "#FDCB6E"},
	{model.RiskLow, "Low Risk", "#00B894"},
}

type risk struct{ deps Deps }

type riskRequest struct{ in model.RiskInput }

func (riskRequest) request() {}

// ScoredRisk is a risk item with its score and level.
type ScoredRisk struct {
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Probability int             `json:"probability"`
	Impact      int             `json:"impact"`
	Score       int             `json:"score"`
	Level       model.RiskLevel `json:"level"`
}

type RiskCategoryStats struct {
	Category     string      `json:"category"`
	Count        int         `json:"count"`
	AverageScore model.Value `json:"averageScore"`
}

type RiskMetrics struct {
	Thresholds  analysis.Thresholds     `json:"thresholds"`
	Items       []ScoredRisk            `json:"items"`
	ByCategory  []RiskCategoryStats     `json:"byCategory"`
	LevelCounts map[model.RiskLevel]int `json:"levelCounts"`
	Reassigned  []analysis.Reassignment `json:"reassigned,omitempty"`
}

func (d risk) Name() string      { return Risk }
func (d risk) Actions() []string { return []string{ActionProcessRiskData} }

func (d risk) Decode(env protocol.Envelope) (Request, error) {
	switch env.Action {
	case ActionProcessRiskData:
		var in model.RiskInput
		if err := decodeInput(env, &in); err != nil {
			return nil, err
		}
		return riskRequest{in}, nil
	default:
		return nil, unknownAction(env.Action, d.Name())
	}
}

func (d risk) Transform(req Request) (Result, error) {
	switch r := req.(type) {
	case riskRequest:
		return d.process(r.in)
	default:
		return Result{}, unexpectedRequest(req, d.Name())
	}
}

func (d risk) process(in model.RiskInput) (Result, error) {
	def := d.deps.Datasets.Risk
	caps := captions(in.Captions, def.Captions)
	if len(in.Risks) == 0 {
		in.Risks = def.Risks
	}
	for i, r := range in.Risks {
		if r.Name == "" {
			return Result{}, malformed("risk %d: name is required", i)
		}
		if r.Probability < 1 || r.Probability > 10 {
			return Result{}, malformed("risk %q: probability must be 1..10, got %d", r.Name, r.Probability)
		}
		if r.Impact < 1 || r.Impact > 10 {
			return Result{}, malformed("risk %q: impact must be 1..10, got %d", r.Name, r.Impact)
		}
	}

	scores := make([]float64, len(in.Risks))
	for i, r := range in.Risks {
		scores[i] = float64(analysis.RiskScore(r.Probability, r.Impact))
	}
	th := analysis.RiskThresholds(scores)

	m := RiskMetrics{Thresholds: th, LevelCounts: map[model.RiskLevel]int{}}
	bal := analysis.NewBalancer(RiskCategories)
	counts := make([]int, len(RiskCategories))
	for i, r := range in.Risks {
		bucket, matched := bal.Assign(r.Category, scores[i])
		if !matched {
			m.Reassigned = append(m.Reassigned, analysis.Reassignment{Item: r.Name, From: r.Category, To: bal.Name(bucket)})
		}
		counts[bucket]++
		level := model.RiskLevelFromScore(scores[i], th.High, th.Medium)
		m.LevelCounts[level]++
		m.Items = append(m.Items, ScoredRisk{
			Name:        r.Name,
			Category:    bal.Name(bucket),
			Probability: r.Probability,
			Impact:      r.Impact,
			Score:       int(scores[i]),
			Level:       level,
		})
	}
	for i, total := range bal.Weights() {
		st := RiskCategoryStats{Category: RiskCategories[i], Count: counts[i], AverageScore: model.Null}
		if counts[i] > 0 {
			st.AverageScore = model.V(analysis.Round1(total / float64(counts[i])))
		}
		m.ByCategory = append(m.ByCategory, st)
	}

	// Bubble data: [probability, impact, score] per item, flattened.
	series := make([]model.Series, 0, len(riskLevels))
	colors := make([]string, 0, len(riskLevels))
	for _, lv := range riskLevels {
		data := []model.Value{}
		for _, it := range m.Items {
			if it.Level == lv.level {
				data = append(data, model.V(float64(it.Probability)), model.V(float64(it.Impact)), model.V(float64(it.Score)))
			}
		}
		series = append(series, model.Series{Name: lv.label, Data: data, Color: lv.color, Type: "bubble"})
		colors = append(colors, lv.color)
	}

	ranked := make([]ScoredRisk, len(m.Items))
	copy(ranked, m.Items)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	f := d.deps.Format
	table := model.Table{Columns: []string{"Risk", "Category", "Probability", "Impact", "Score", "Level"}}
	for _, it := range ranked {
		table.AddRow(
			it.Name,
			it.Category,
			f.Number(float64(it.Probability), 0),
			f.Number(float64(it.Impact), 0),
			f.Number(float64(it.Score), 0),
			string(it.Level),
		)
	}

	annotations := []model.Annotation{
		{Label: "High Risk Threshold", Axis: model.AxisY, Value: th.High, Color: riskLevels[0].color},
		{Label: "Medium Risk Threshold", Axis: model.AxisY, Value: th.Medium, Color: riskLevels[1].color},
	}

	return Result{
		Action: ActionRiskDataProcessed,
		Payload: model.ChartPayload{
			Series:      series,
			Categories:  RiskCategories,
			Colors:      colors,
			Annotations: annotations,
			TableData:   table,
			Metrics:     m,
		},
		Captions: caps,
	}, nil
}
