package charts

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plancharts/internal/analysis"
	"plancharts/internal/defaults"
	"plancharts/internal/format"
	"plancharts/internal/model"
	"plancharts/internal/protocol"
)

func newCatalog(t *testing.T) *Catalog {
	t.Helper()
	d, err := defaults.Load()
	require.NoError(t, err)
	return NewCatalog(defaults.NewStore(d), format.New(nil))
}

func domain(t *testing.T, name string) Domain {
	t.Helper()
	d, ok := newCatalog(t).Domain(name)
	require.True(t, ok, name)
	return d
}

// transform decodes raw through d and runs the request, returning the
// transform error unwrapped so errors.Is works.
func transform(t *testing.T, d Domain, raw string) (Result, error) {
	t.Helper()
	env, err := protocol.DecodeEnvelope([]byte(raw))
	require.NoError(t, err)
	req, err := d.Decode(env)
	if err != nil {
		return Result{}, err
	}
	return d.Transform(req)
}

func mustTransform(t *testing.T, d Domain, raw string) Result {
	t.Helper()
	res, err := transform(t, d, raw)
	require.NoError(t, err)
	return res
}

func handle(t *testing.T, d Domain, raw string) protocol.Response {
	t.Helper()
	resp, err := protocol.DecodeResponse(Handle(d, []byte(raw)))
	require.NoError(t, err)
	return resp
}

func TestEveryDomainRendersDefaults(t *testing.T) {
	c := newCatalog(t)
	success := map[string]string{
		ActionPrepareData:        ActionDataReady,
		ActionPrepareFundingData: ActionFundingDataReady,
		ActionProcessRiskData:    ActionRiskDataProcessed,
		ActionProcessSwotData:    ActionSwotDataProcessed,
	}
	require.Len(t, c.Names(), 14)
	for _, name := range c.Names() {
		t.Run(name, func(t *testing.T) {
			d, ok := c.Domain(name)
			require.True(t, ok)
			assert.Equal(t, name, d.Name())
			action := d.Actions()[0]

			resp := handle(t, d, `{"action":"`+action+`"}`)
			require.False(t, resp.IsError(), resp.Error)
			assert.Equal(t, success[action], resp.Action)
			require.NotNil(t, resp.ChartData)
			assert.False(t, resp.ChartData.Empty())
			assert.NotEmpty(t, resp.ChartData.Categories)
			assert.NotEmpty(t, resp.ChartData.TableData.Columns)
			for _, row := range resp.ChartData.TableData.Rows {
				assert.Len(t, row, len(resp.ChartData.TableData.Columns))
			}
			assert.NotEmpty(t, resp.Title)
		})
	}
}

func TestUnknownDomain(t *testing.T) {
	_, ok := newCatalog(t).Domain("crystal-ball")
	assert.False(t, ok)
}

func TestMarketGrowthDefaults(t *testing.T) {
	res := mustTransform(t, domain(t, MarketGrowth), `{"action":"prepareData"}`)
	p := res.Payload

	assert.Equal(t, ActionDataReady, res.Action)
	require.Len(t, p.Series, 3)
	var names []string
	for _, s := range p.Series {
		names = append(names, s.Name)
		assert.Len(t, s.Data, 16)
	}
	if diff := cmp.Diff([]string{"Base Case", "Conservative Case", "Optimistic Case"}, names); diff != "" {
		t.Errorf("series names (-want +got):\n%s", diff)
	}
	assert.Equal(t, "2020", p.Categories[0])
	assert.Equal(t, "2035", p.Categories[15])

	require.NotEmpty(t, p.Annotations)
	assert.Equal(t, model.Annotation{Label: "$1 Trillion Milestone", Axis: model.AxisY, Value: 1000}, p.Annotations[0])

	m := p.Metrics.(MarketGrowthMetrics)
	base := m.Scenarios[0]
	require.True(t, base.MilestoneYear.Valid)
	assert.Equal(t, 2031.3, base.MilestoneYear.Float)
	assert.Greater(t, base.MilestoneYear.Float, 2031.0)
	assert.Less(t, base.MilestoneYear.Float, 2032.0)
	assert.Equal(t, model.Null, base.YoY[0])

	assert.Equal(t, []string{"Year", "Base Case ($B)", "Conservative Case ($B)", "Optimistic Case ($B)", "Base Case YoY"}, p.TableData.Columns)
	require.Len(t, p.TableData.Rows, 16)
	assert.Equal(t, []string{"2020", "$50.0B", "$40.0B", "$60.0B", "-"}, p.TableData.Rows[0])
	assert.Equal(t, "40.0%", p.TableData.Rows[1][4])
}

func TestMarketGrowthNoCrossingHasNoAnnotations(t *testing.T) {
	res := mustTransform(t, domain(t, MarketGrowth), `{"action":"prepareData","years":[2024,2025],"scenarios":[{"name":"Base","values":[10,20]}]}`)
	assert.Empty(t, res.Payload.Annotations)
	m := res.Payload.Metrics.(MarketGrowthMetrics)
	assert.False(t, m.Scenarios[0].MilestoneYear.Valid)
	assert.InDelta(t, 100.0, m.Scenarios[0].CAGR.Float, 1e-9)
	// captions fall back to the defaults individually
	assert.Equal(t, "Quantum Computing Market Growth", res.Captions.Title)
}

func TestMissingInputKeepsRequestCaptions(t *testing.T) {
	res := mustTransform(t, domain(t, Revenue), `{"action":"prepareData","title":"Our Revenue"}`)
	assert.Equal(t, "Our Revenue", res.Captions.Title)
	assert.Equal(t, "Projected revenue by stream", res.Captions.Description)
	// defaults: 3 streams plus the total line
	assert.Len(t, res.Payload.Series, 4)
}

func TestIDEcho(t *testing.T) {
	d := domain(t, Funding)
	resp := handle(t, d, `{"action":"prepareFundingData","id":"chart-7"}`)
	assert.Equal(t, `"chart-7"`, string(resp.ID))

	resp = handle(t, d, `{"action":"prepareFundingData","id":12}`)
	assert.Equal(t, `12`, string(resp.ID))

	resp = handle(t, d, `{"action":"nope","id":12}`)
	assert.True(t, resp.IsError())
	assert.Equal(t, `12`, string(resp.ID))
}

func TestUnknownAction(t *testing.T) {
	d := domain(t, Risk)
	_, err := transform(t, d, `{"action":"explode"}`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownAction))
	assert.EqualError(t, err, `unknown action "explode" for risk`)

	resp := handle(t, d, `{"action":"explode"}`)
	assert.Equal(t, protocol.ActionError, resp.Action)
	assert.Equal(t, `unknown action "explode" for risk`, resp.Error)
	assert.Nil(t, resp.ChartData)
}

func TestMissingActionIsMalformedEnvelope(t *testing.T) {
	resp := handle(t, domain(t, Risk), `{}`)
	assert.True(t, resp.IsError())
	assert.Contains(t, resp.Error, "action is required")
}

func TestMalformedInputs(t *testing.T) {
	cases := []struct {
		name   string
		domain string
		raw    string
		msg    string
	}{
		{"length mismatch", MarketGrowth, `{"action":"prepareData","years":[2024,2025],"scenarios":[{"name":"Base","values":[1]}]}`, "has 1 values for 2 years"},
		{"years not increasing", MarketGrowth, `{"action":"prepareData","years":[2025,2024],"scenarios":[{"name":"Base","values":[1,2]}]}`, "strictly increasing"},
		{"negative market", MarketSize, `{"action":"prepareData","years":[2024],"tam":[-1],"sam":[1],"som":[1]}`, "non-negative"},
		{"type mismatch", Revenue, `{"action":"prepareData","years":"2024"}`, "cannot unmarshal"},
		{"growth length", Revenue, `{"action":"calculateGrowth","years":[2024],"values":[1,2]}`, "2 entries for 1 years"},
		{"negative allocation", Funding, `{"action":"prepareFundingData","allocations":[{"category":"R&D","percentage":-5}]}`, "non-negative"},
		{"competitor without name", CompetitorRadar, `{"action":"prepareData","categories":["A"],"competitors":[{"scores":{"A":1}}]}`, "name is required"},
		{"risk probability", Risk, `{"action":"processRiskData","risks":[{"name":"x","probability":11,"impact":2,"category":"Market"}]}`, "probability must be 1..10"},
		{"risk impact", Risk, `{"action":"processRiskData","risks":[{"name":"x","probability":1,"impact":0,"category":"Market"}]}`, "impact must be 1..10"},
		{"swot impact", SWOT, `{"action":"processSwotData","items":[{"quadrant":"strengths","text":"x","category":"Talent","impact":"Huge"}]}`, `unknown impact "Huge"`},
		{"swot quadrant", SWOT, `{"action":"processSwotData","items":[{"quadrant":"dreams","text":"x","category":"Talent","impact":"Low"}]}`, `unknown SWOT quadrant "dreams"`},
		{"forecast probability", Forecast, `{"action":"prepareData","years":[2024],"scenarios":[{"name":"Base","values":[1],"probability":1.5}]}`, "probability must be within 0..1"},
		{"org unknown parent", OrgStructure, `{"action":"prepareData","nodes":[{"id":"a","name":"A","parent":"ghost"}]}`, `unknown parent "ghost"`},
		{"org cycle", OrgStructure, `{"action":"prepareData","nodes":[{"id":"root","name":"R"},{"id":"a","name":"A","parent":"b"},{"id":"b","name":"B","parent":"a"}]}`, "reporting cycle"},
		{"org self parent", OrgStructure, `{"action":"prepareData","nodes":[{"id":"a","name":"A","parent":"a"}]}`, "reporting cycle"},
		{"timeline date", Timeline, `{"action":"prepareData","events":[{"name":"x","phase":"P","startDate":"soon"}]}`, `bad start date "soon"`},
		{"timeline status", Timeline, `{"action":"prepareData","events":[{"name":"x","phase":"P","startDate":"2025-01","status":"stalled"}]}`, `unknown status "stalled"`},
		{"timeline reversed", Timeline, `{"action":"prepareData","events":[{"name":"x","phase":"P","startDate":"2025-06","endDate":"2025-01"}]}`, "ends before it starts"},
	}
	c := newCatalog(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, ok := c.Domain(tc.domain)
			require.True(t, ok)
			_, err := transform(t, d, tc.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed), err.Error())
			assert.Contains(t, err.Error(), tc.msg)

			resp := handle(t, d, tc.raw)
			assert.True(t, resp.IsError())
			assert.Contains(t, resp.Error, tc.msg)
		})
	}
}

func TestDeterministic(t *testing.T) {
	c := newCatalog(t)
	for _, name := range c.Names() {
		d, _ := c.Domain(name)
		raw := []byte(`{"action":"` + d.Actions()[0] + `","id":1}`)
		assert.Equal(t, string(Handle(d, raw)), string(Handle(d, raw)), name)
	}
}

func TestMarketSizeShares(t *testing.T) {
	res := mustTransform(t, domain(t, MarketSize), `{"action":"prepareData"}`)
	m := res.Payload.Metrics.(MarketSizeMetrics)
	assert.InDelta(t, 9.5, m.SOMShareOfSAM.Float, 1e-9)
	assert.InDelta(t, 200.0/820*100, m.SAMShareOfTAM.Float, 1e-9)
	assert.Equal(t, 500.0, m.Milestone)
	assert.Equal(t, 2027.8, m.MilestoneYear.Float)
	require.Len(t, res.Payload.Annotations, 2)
	assert.Equal(t, "$500 Billion Milestone", res.Payload.Annotations[0].Label)
	assert.Equal(t, "TAM reaches $500 Billion", res.Payload.Annotations[1].Label)
}

func TestRevenuePrepare(t *testing.T) {
	raw := `{"action":"prepareData","years":[2024,2025,2026],"streams":[
		{"name":"Hardware","values":[10,20,30]},
		{"name":"Cloud","values":[0,5,40]}]}`
	res := mustTransform(t, domain(t, Revenue), raw)
	m := res.Payload.Metrics.(RevenueMetrics)
	assert.Equal(t, []float64{10, 25, 70}, m.Total)
	assert.Equal(t, model.Null, m.TotalYoY[0])
	assert.InDelta(t, 150.0, m.TotalYoY[1].Float, 1e-9)
	assert.Equal(t, "Cloud", m.LargestStream)
	assert.InDelta(t, 40.0/70*100, m.LargestStreamShare.Float, 1e-9)

	total := res.Payload.Series[2]
	assert.Equal(t, "Total", total.Name)
	assert.Equal(t, "line", total.Type)
	assert.Equal(t, "revenue", res.Payload.Series[0].Stack)
	assert.Equal(t, []string{"2025", "$20.0M", "$5.0M", "$25.0M", "150.0%"}, res.Payload.TableData.Rows[1])
}

func TestRevenueCalculateGrowth(t *testing.T) {
	res := mustTransform(t, domain(t, Revenue), `{"action":"calculateGrowth","values":[100,110,121]}`)
	assert.Equal(t, ActionGrowthCalculated, res.Action)
	assert.Equal(t, []string{"Period 1", "Period 2", "Period 3"}, res.Payload.Categories)

	yoy := res.Payload.Series[0].Data
	assert.False(t, yoy[0].Valid)
	assert.InDelta(t, 10.0, yoy[1].Float, 1e-9)
	assert.InDelta(t, 10.0, yoy[2].Float, 1e-9)
	assert.Equal(t, "-", res.Payload.TableData.Rows[0][2])
}

func TestRevenueCalculateGrowthZeroPrevious(t *testing.T) {
	res := mustTransform(t, domain(t, Revenue), `{"action":"calculateGrowth","years":[2024,2025,2026],"values":[0,10,20]}`)
	yoy := res.Payload.Series[0].Data
	assert.False(t, yoy[1].Valid)
	assert.InDelta(t, 100.0, yoy[2].Float, 1e-9)
}

func TestProfitabilityDefaults(t *testing.T) {
	res := mustTransform(t, domain(t, Profitability), `{"action":"prepareData"}`)
	m := res.Payload.Metrics.(ProfitabilityMetrics)
	assert.Equal(t, 2028.4, m.BreakEvenYear.Float)
	assert.Equal(t, GrowthAverageChange, m.GrowthMethod)
	assert.InDelta(t, 29.0, m.EBITDAGrowth.Float, 1e-9)
	require.Len(t, res.Payload.Annotations, 1)
	assert.Equal(t, "Break-even", res.Payload.Annotations[0].Label)
	assert.Equal(t, "-$18.0M", res.Payload.TableData.Rows[0][2])
}

func TestProfitabilityGrowthMethods(t *testing.T) {
	d := domain(t, Profitability)
	res := mustTransform(t, d, `{"action":"prepareData","years":[2024,2025,2026],"revenue":[10,20,40],"ebitda":[1,2,4]}`)
	m := res.Payload.Metrics.(ProfitabilityMetrics)
	assert.Equal(t, GrowthCAGR, m.GrowthMethod)
	assert.InDelta(t, 100.0, m.EBITDAGrowth.Float, 1e-9)
	assert.False(t, m.BreakEvenYear.Valid, "profitable from the first year")
	assert.Empty(t, res.Payload.Annotations)

	res = mustTransform(t, d, `{"action":"prepareData","years":[2024,2025],"revenue":[10,20],"ebitda":[0,4]}`)
	m = res.Payload.Metrics.(ProfitabilityMetrics)
	assert.Equal(t, GrowthUndefined, m.GrowthMethod)
	assert.False(t, m.EBITDAGrowth.Valid)
	assert.False(t, m.BreakEvenYear.Valid)

	res = mustTransform(t, d, `{"action":"prepareData","years":[2024,2025],"revenue":[0,20],"ebitda":[-5,-4]}`)
	m = res.Payload.Metrics.(ProfitabilityMetrics)
	assert.False(t, m.Margins[0].Valid)
	assert.False(t, m.BreakEvenYear.Valid)
	assert.Empty(t, res.Payload.Annotations)
}

func TestInvestmentDefaults(t *testing.T) {
	res := mustTransform(t, domain(t, Investment), `{"action":"prepareData"}`)
	m := res.Payload.Metrics.(InvestmentMetrics)
	assert.Equal(t, []float64{30, 48, 71, 92, 115}, m.Totals)
	assert.Equal(t, []float64{30, 78, 149, 241, 356}, m.Cumulative)
	assert.Equal(t, 356.0, m.GrandTotal)
	assert.Equal(t, "R&D", m.Largest)
	assert.InDelta(t, 132.0/356*100, m.Shares[0].Share.Float, 1e-9)
	assert.Equal(t, "Cumulative", res.Payload.Series[len(res.Payload.Series)-1].Name)
}

func TestFundingDefaults(t *testing.T) {
	res := mustTransform(t, domain(t, Funding), `{"action":"prepareFundingData"}`)
	assert.Equal(t, ActionFundingDataReady, res.Action)
	m := res.Payload.Metrics.(FundingMetrics)
	assert.Equal(t, 25.0, m.TotalRaise)
	assert.Equal(t, 10.5, m.Allocations[0].Amount)
	assert.Equal(t, "R&D", m.Extremes.Largest)
	assert.Equal(t, "Operations", m.Extremes.Smallest)
	assert.Equal(t, model.V(10.5), m.Extremes.Ratio)
	assert.Equal(t, 100.0, m.PercentageTotal)
	assert.Equal(t, []string{"R&D", "42.0%", "$10.5M"}, res.Payload.TableData.Rows[0])
	assert.Equal(t, format.BrandPalette[:6], format.Palette(res.Payload.Colors))
}

func TestFundingColorsBeyondPalette(t *testing.T) {
	allocs := make([]model.Allocation, 10)
	for i := range allocs {
		allocs[i] = model.Allocation{Category: string(rune('A' + i)), Percentage: 10}
	}
	allocs[1].Color = "#123456"
	body, err := json.Marshal(map[string]any{"action": ActionPrepareFundingData, "totalRaise": 5, "allocations": allocs})
	require.NoError(t, err)

	res := mustTransform(t, domain(t, Funding), string(body))
	colors := res.Payload.Colors
	require.Len(t, colors, 10)
	assert.Equal(t, format.BrandPalette[0], colors[0])
	assert.Equal(t, "#123456", colors[1])
	assert.Equal(t, "hsl(0, 65%, 55%)", colors[8])
	assert.Equal(t, "hsl(180, 65%, 55%)", colors[9])

	m := res.Payload.Metrics.(FundingMetrics)
	assert.Equal(t, 0.5, m.Allocations[0].Amount)
	assert.Equal(t, model.V(1), m.Extremes.Ratio)
}

func TestFundingZeroSmallestHasNoRatio(t *testing.T) {
	res := mustTransform(t, domain(t, Funding), `{"action":"prepareFundingData","allocations":[{"category":"A","percentage":100},{"category":"B","percentage":0}]}`)
	m := res.Payload.Metrics.(FundingMetrics)
	assert.False(t, m.Extremes.Ratio.Valid)
	// raise falls back to the default
	assert.Equal(t, 25.0, m.TotalRaise)
}

func TestCompetitorRadarDefaults(t *testing.T) {
	res := mustTransform(t, domain(t, CompetitorRadar), `{"action":"prepareData"}`)
	p := res.Payload
	require.Len(t, p.Series, 6)
	rigetti := p.Series[4]
	assert.Equal(t, "Rigetti", rigetti.Name)
	assert.False(t, rigetti.Data[5].Valid, "missing category is null, not zero")
	avg := p.Series[5]
	assert.Equal(t, "Industry Average", avg.Name)
	assert.InDelta(t, 8.25, avg.Data[5].Float, 1e-9)
	assert.Equal(t, "-", p.TableData.Rows[5][5])
}

func TestCompetitorStrengthDefaults(t *testing.T) {
	res := mustTransform(t, domain(t, CompetitorStrength), `{"action":"prepareData"}`)
	m := res.Payload.Metrics.(StrengthMetrics)
	assert.Equal(t, "IBM Quantum", m.Strongest)

	var order []string
	for _, r := range m.Ranking {
		order = append(order, r.Name)
	}
	assert.Equal(t, []string{"IBM Quantum", "Google Quantum AI", "Our Company", "IonQ", "Rigetti"}, order)
	assert.Equal(t, "1", res.Payload.TableData.Rows[0][0])
	assert.Equal(t, "8.0", res.Payload.TableData.Rows[0][2])

	// Gate Fidelity ties at 9 between Our Company and IonQ; first wins.
	assert.Equal(t, "Our Company", m.Leaders[1].Competitor)
}

func TestCompetitorScoresClamped(t *testing.T) {
	res := mustTransform(t, domain(t, CompetitorRadar), `{"action":"prepareData","categories":["Speed"],"competitors":[{"name":"X","scores":{"Speed":14}},{"name":"Y","scores":{"speed":-2}}]}`)
	assert.Equal(t, model.V(10), res.Payload.Series[0].Data[0])
	assert.Equal(t, model.V(0), res.Payload.Series[1].Data[0])
}

func TestRiskDefaults(t *testing.T) {
	res := mustTransform(t, domain(t, Risk), `{"action":"processRiskData"}`)
	assert.Equal(t, ActionRiskDataProcessed, res.Action)
	m := res.Payload.Metrics.(RiskMetrics)
	assert.Equal(t, 54.0, m.Thresholds.Max)
	assert.Equal(t, 37.8, m.Thresholds.High)
	assert.Equal(t, 21.6, m.Thresholds.Medium)
	assert.Equal(t, map[model.RiskLevel]int{model.RiskHigh: 2, model.RiskMedium: 4, model.RiskLow: 2}, m.LevelCounts)

	require.Len(t, m.Reassigned, 1)
	assert.Equal(t, analysis.Reassignment{Item: "Supply chain disruption", From: "Geopolitical", To: "Regulatory"}, m.Reassigned[0])

	high := res.Payload.Series[0]
	assert.Equal(t, "High Risk", high.Name)
	assert.Equal(t, model.Values([]float64{6, 9, 54, 5, 8, 40}), high.Data)
	assert.Equal(t, "Qubit error rates plateau", res.Payload.TableData.Rows[0][0])
}

func TestRiskThresholdsFollowData(t *testing.T) {
	res := mustTransform(t, domain(t, Risk), `{"action":"processRiskData","risks":[
		{"name":"a","probability":2,"impact":5,"category":"Market"},
		{"name":"b","probability":1,"impact":5,"category":"Market"},
		{"name":"c","probability":1,"impact":3,"category":"Market"}]}`)
	m := res.Payload.Metrics.(RiskMetrics)
	assert.Equal(t, 7.0, m.Thresholds.High)
	assert.Equal(t, 4.0, m.Thresholds.Medium)
	assert.Equal(t, model.RiskHigh, m.Items[0].Level)
	assert.Equal(t, model.RiskMedium, m.Items[1].Level)
	assert.Equal(t, model.RiskLow, m.Items[2].Level)
	assert.Equal(t, 3, m.ByCategory[1].Count)
	assert.Equal(t, model.V(6), m.ByCategory[1].AverageScore)
	assert.False(t, m.ByCategory[0].AverageScore.Valid)
}

func TestSWOTDefaults(t *testing.T) {
	res := mustTransform(t, domain(t, SWOT), `{"action":"processSwotData"}`)
	assert.Equal(t, ActionSwotDataProcessed, res.Action)
	p := res.Payload
	assert.Len(t, p.Categories, 8)
	require.Len(t, p.Series, 5)
	assert.Equal(t, "Strengths", p.Series[0].Name)
	assert.Equal(t, "Overall", p.Series[4].Name)
	assert.Equal(t, model.Values([]float64{3.3, 3.3, 3.3, 6.7, 3.3, 5.6, 4.4, 2.2}), p.Series[4].Data)
	assert.Equal(t, []string{"Market Position", "0.0", "3.3", "3.3", "0.0", "6.7"}, p.TableData.Rows[3])

	m := p.Metrics.(analysis.SWOTResult)
	assert.Equal(t, 9, m.Divisor)
	// Talent is the first of the lightest buckets when the item arrives.
	assert.Equal(t, []analysis.Reassignment{{Item: "Post-quantum hype cycle", From: "Market Sentiment", To: "Talent"}}, m.Reassigned)
}

func TestForecastExpected(t *testing.T) {
	res := mustTransform(t, domain(t, Forecast), `{"action":"prepareData"}`)
	m := res.Payload.Metrics.(ForecastMetrics)
	require.Len(t, m.Expected, 8)
	assert.Equal(t, model.V(3.5), m.Expected[0])
	assert.Equal(t, model.V(470), m.Expected[7])
	assert.Equal(t, model.V(480), m.Spread)
	assert.Equal(t, "Expected", res.Payload.Series[3].Name)
	assert.Equal(t, 2028.8, m.Scenarios[1].MilestoneYear.Float)
	assert.Equal(t, "$100.0M Revenue Milestone", res.Payload.Annotations[0].Label)

	res = mustTransform(t, domain(t, Forecast), `{"action":"prepareData","years":[2024,2025],"scenarios":[{"name":"Low","values":[1,2]},{"name":"High","values":[2,6]}]}`)
	m = res.Payload.Metrics.(ForecastMetrics)
	assert.Nil(t, m.Expected)
	assert.Len(t, res.Payload.Series, 2)
	assert.Equal(t, model.V(4), m.Spread)
}

func TestFinancialMixDefaults(t *testing.T) {
	res := mustTransform(t, domain(t, FinancialMix), `{"action":"prepareData"}`)
	m := res.Payload.Metrics.(FinancialMixMetrics)
	assert.Equal(t, []float64{-18, -24, -22, -8, 12, 48, 105, 185}, m.EBITDA)
	assert.InDelta(t, 185.0/460*100, m.EBITDAMargin[7].Float, 1e-9)
	assert.InDelta(t, (460.0-170)/460*100, m.GrossMargin[7].Float, 1e-9)
	assert.False(t, m.LossMaking)
	require.Len(t, m.Composition, 4)
	assert.Equal(t, "EBITDA", m.Composition[3].Name)
	assert.Equal(t, []string{"2032", "$460.0M", "63.0%", "10.9%", "12.0%", "40.2%"}, res.Payload.TableData.Rows[7])
}

func TestOrgDefaults(t *testing.T) {
	res := mustTransform(t, domain(t, OrgStructure), `{"action":"prepareData"}`)
	m := res.Payload.Metrics.(OrgMetrics)
	assert.Equal(t, 49, m.TotalHeadcount)
	assert.Equal(t, 3, m.Depth)
	assert.Equal(t, 4, m.MaxSpan)
	assert.Equal(t, "ceo", m.MaxSpanNode)
	require.Len(t, m.Roots, 1)
	assert.Equal(t, 49, m.Roots[0].TeamSize)
	assert.Equal(t, 33, m.Roots[0].Children[0].TeamSize)
	assert.Equal(t, []string{"Executive", "Engineering", "Research", "Finance", "Operations", "Sales"}, res.Payload.Categories)
	assert.Equal(t, model.V(25), res.Payload.Series[0].Data[1])
	// pre-order: CEO, CTO, then the CTO's reports
	assert.Equal(t, "Hardware Engineering", res.Payload.TableData.Rows[2][0])
	assert.Equal(t, "Chief Technology Officer", res.Payload.TableData.Rows[2][3])
}

func TestTimelineDefaults(t *testing.T) {
	res := mustTransform(t, domain(t, Timeline), `{"action":"prepareData"}`)
	m := res.Payload.Metrics.(TimelineMetrics)
	assert.Equal(t, []string{"Research", "Funding", "Hardware", "Commercial"}, res.Payload.Categories)
	assert.Equal(t, 8, m.Total)
	assert.Equal(t, 2, m.Completed)
	assert.Equal(t, model.V(25), m.CompletionPct)
	require.NotNil(t, m.NextMilestone)
	assert.Equal(t, "Error correction demo", m.NextMilestone.Name)
	assert.Equal(t, "2023-01", m.SpanStart)
	assert.Equal(t, "2028-06", m.SpanEnd)
	assert.Equal(t, "Seed round", m.Tracks[1].Events[0].Name)
	assert.Len(t, res.Payload.Annotations, 5)
}

func TestTimelineSortsWithinTrack(t *testing.T) {
	res := mustTransform(t, domain(t, Timeline), `{"action":"prepareData","events":[
		{"name":"late","phase":"P","startDate":"2026-05-10","status":"done"},
		{"name":"early","phase":"P","startDate":"2025-01","milestone":true}]}`)
	m := res.Payload.Metrics.(TimelineMetrics)
	assert.Equal(t, "early", m.Tracks[0].Events[0].Name)
	assert.Equal(t, model.StatusPlanned, m.Tracks[0].Events[0].Status)
	assert.Equal(t, model.StatusCompleted, m.Tracks[0].Events[1].Status)
	assert.Equal(t, "early", m.NextMilestone.Name)
	assert.Equal(t, model.V(50), m.CompletionPct)
}
