package defaults

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"plancharts/internal/model"
)

func TestEmbeddedMarketGrowth(t *testing.T) {
	d, err := Load()
	require.NoError(t, err)

	mg := d.MarketGrowth
	require.Len(t, mg.Years, 16)
	assert.Equal(t, 2020, mg.Years[0])
	assert.Equal(t, 2035, mg.Years[15])
	set := model.ScenarioSet{Years: mg.Years, Scenarios: mg.Scenarios}
	require.NoError(t, set.Validate())

	var names []string
	for _, s := range mg.Scenarios {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Base Case", "Conservative Case", "Optimistic Case"}, names)

	base := mg.Scenarios[0]
	// 2031 is index 11, 2032 is index 12.
	assert.Less(t, base.Values[11], 1000.0)
	assert.GreaterOrEqual(t, base.Values[12], 1000.0)
	assert.Equal(t, 1000.0, mg.Milestone)
}

func TestEmbeddedSeriesAligned(t *testing.T) {
	d := MustLoad()

	require.NoError(t, model.ValidateAligned(d.MarketSize.Years, map[string][]float64{
		"tam": d.MarketSize.TAM, "sam": d.MarketSize.SAM, "som": d.MarketSize.SOM,
	}))
	require.NoError(t, model.ValidateAligned(d.Profitability.Years, map[string][]float64{
		"revenue": d.Profitability.Revenue, "ebitda": d.Profitability.EBITDA,
	}))
	require.NoError(t, model.ValidateAligned(d.FinancialMix.Years, map[string][]float64{
		"revenue": d.FinancialMix.Revenue, "cogs": d.FinancialMix.COGS,
		"opex": d.FinancialMix.OpEx, "rnd": d.FinancialMix.RnD,
	}))
	for _, s := range d.Revenue.Streams {
		assert.Len(t, s.Values, len(d.Revenue.Years), s.Name)
	}
	for _, s := range d.Investment.Categories {
		assert.Len(t, s.Values, len(d.Investment.Years), s.Name)
	}
	for _, s := range d.Forecast.Scenarios {
		require.NotNil(t, s.Probability, s.Name)
	}

	assert.Equal(t, 25.0, d.Funding.TotalRaise)
	assert.Len(t, d.Funding.Allocations, 6)
	assert.Len(t, d.Competitors.Categories, 6)
	assert.Len(t, d.Risk.Risks, 8)
	assert.Len(t, d.SWOT.Items, 12)
	assert.Len(t, d.Org.Nodes, 8)
	assert.Len(t, d.Timeline.Events, 8)
	assert.Equal(t, model.StatusInProgress, d.Timeline.Events[1].Status)
	assert.Equal(t, "2024-07", d.Timeline.Events[1].StartDate)
}

func TestOverlayReplacesNamedSections(t *testing.T) {
	base := *MustLoad()
	raw := []byte(`
funding:
  total_raise: 10
  allocations:
    - category: R&D
      percentage: 100
`)
	out, err := Overlay(base, raw)
	require.NoError(t, err)
	assert.Equal(t, 10.0, out.Funding.TotalRaise)
	assert.Len(t, out.Funding.Allocations, 1)
	// Captions are part of the section, so they are replaced too.
	assert.Empty(t, out.Funding.Title)
	assert.Equal(t, base.MarketGrowth, out.MarketGrowth)
	// base itself is untouched
	assert.Equal(t, 25.0, base.Funding.TotalRaise)
}

func TestOverlayRejectsUnknownSection(t *testing.T) {
	_, err := Overlay(*MustLoad(), []byte("fundng:\n  total_raise: 10\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown dataset section "fundng"`)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datasets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("funding:\n  total_raise: 10\n"), 0o644))

	d, err := LoadFile(path)
	require.NoError(t, err)
	store := NewStore(d)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, Watch(ctx, path, store, zap.NewNop()))

	require.NoError(t, os.WriteFile(path, []byte("funding:\n  total_raise: 50\n"), 0o644))
	require.Eventually(t, func() bool {
		return store.Current().Funding.TotalRaise == 50
	}, 5*time.Second, 20*time.Millisecond)

	// A broken file keeps the last good snapshot.
	require.NoError(t, os.WriteFile(path, []byte("funding: [\n"), 0o644))
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, 50.0, store.Current().Funding.TotalRaise)
}
