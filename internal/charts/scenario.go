package charts

import (
	"fmt"
	"strings"

	"plancharts/internal/analysis"
	"plancharts/internal/format"
	"plancharts/internal/model"
)

// ScenarioStats are the growth statistics of one scenario.
type ScenarioStats struct {
	Name          string        `json:"name"`
	Color         string        `json:"color"`
	CAGR          model.Value   `json:"cagr"`
	YoY           []model.Value `json:"yoy"`
	MilestoneYear model.Value   `json:"milestoneYear"`
}

func scenarioStats(years []int, sc model.Scenario, color string, threshold float64) ScenarioStats {
	g := analysis.ComputeGrowth(sc.Values)
	st := ScenarioStats{
		Name:          sc.Name,
		Color:         color,
		CAGR:          g.CAGR,
		YoY:           g.YoY,
		MilestoneYear: model.Null,
	}
	if threshold > 0 {
		st.MilestoneYear = valueOf(analysis.CrossingYear(years, sc.Values, threshold))
	}
	return st
}

func validateScenarios(years []int, scenarios []model.Scenario) error {
	set := model.ScenarioSet{Years: years, Scenarios: scenarios}
	if err := set.Validate(); err != nil {
		return malformed("%v", err)
	}
	seen := make(map[string]bool, len(scenarios))
	for _, sc := range scenarios {
		if seen[sc.Name] {
			return malformed("duplicate scenario %q", sc.Name)
		}
		seen[sc.Name] = true
		if err := checkNonNegative(sc.Name, sc.Values); err != nil {
			return err
		}
	}
	return nil
}

// baseScenario picks the scenario whose name mentions "base", else the first.
func baseScenario(scenarios []model.Scenario) int {
	for i, sc := range scenarios {
		if strings.Contains(strings.ToLower(sc.Name), "base") {
			return i
		}
	}
	return 0
}

// milestoneAnnotations draws the threshold line and one marker per
// scenario that crosses it. Nothing is drawn when no scenario crosses.
func milestoneAnnotations(label string, threshold float64, stats []ScenarioStats) []model.Annotation {
	var out []model.Annotation
	for _, st := range stats {
		if !st.MilestoneYear.Valid {
			continue
		}
		if out == nil {
			out = append(out, model.Annotation{Label: label + " Milestone", Axis: model.AxisY, Value: threshold})
		}
		out = append(out, model.Annotation{
			Label: fmt.Sprintf("%s reaches %s", st.Name, label),
			Axis:  model.AxisX,
			Value: st.MilestoneYear.Float,
			Color: st.Color,
		})
	}
	if out == nil {
		return []model.Annotation{}
	}
	return out
}

func scenarioSeries(f *format.Formatter, scenarios []model.Scenario) ([]model.Series, []string) {
	series := make([]model.Series, len(scenarios))
	colors := make([]string, len(scenarios))
	for i, sc := range scenarios {
		colors[i] = f.Color(i, sc.Color)
		series[i] = model.Series{Name: sc.Name, Data: model.Values(sc.Values), Color: colors[i], Type: "line"}
	}
	return series, colors
}
