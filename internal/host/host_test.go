package host

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"plancharts/internal/charts"
	"plancharts/internal/defaults"
	"plancharts/internal/format"
	"plancharts/internal/protocol"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newHost(opts ...Option) *Host {
	store := defaults.NewStore(defaults.MustLoad())
	return New(charts.NewCatalog(store, format.New(nil)), opts...)
}

func TestRenderAssignsAndStripsID(t *testing.T) {
	h := newHost()
	out, err := h.Render(context.Background(), charts.MarketGrowth, []byte(`{"action":"prepareData"}`))
	require.NoError(t, err)
	assert.Equal(t, charts.ActionDataReady, out.Response.Action)
	assert.Nil(t, out.Response.ID)
	assert.Nil(t, out.Fallback)
	require.NotNil(t, out.Response.ChartData)
	assert.Len(t, out.Response.ChartData.Series, 3)
}

func TestRenderKeepsCallerID(t *testing.T) {
	h := newHost()
	out, err := h.Render(context.Background(), charts.Risk, []byte(`{"action":"processRiskData","id":7}`))
	require.NoError(t, err)
	assert.Equal(t, "7", string(out.Response.ID))

	out, err = h.Render(context.Background(), charts.Risk, []byte(`{"action":"processRiskData","id":"r-1"}`))
	require.NoError(t, err)
	assert.Equal(t, `"r-1"`, string(out.Response.ID))
}

func TestRenderErrorFallsBackToDefaultTable(t *testing.T) {
	h := newHost()
	raw := []byte(`{"action":"processRiskData","id":"bad","risks":[{"name":"x","probability":42,"impact":1,"category":"Market"}]}`)
	out, err := h.Render(context.Background(), charts.Risk, raw)
	require.NoError(t, err)

	assert.True(t, out.Response.IsError())
	assert.Equal(t, `"bad"`, string(out.Response.ID))
	assert.Contains(t, out.Response.Error, "probability must be 1..10")
	require.NotNil(t, out.Fallback)
	assert.Len(t, out.Fallback.Rows, 8)
	assert.Equal(t, "Risk", out.Fallback.Columns[0])
}

func TestRenderMalformedEnvelope(t *testing.T) {
	h := newHost()
	out, err := h.Render(context.Background(), charts.SWOT, []byte(`[1,2]`))
	require.NoError(t, err)
	assert.True(t, out.Response.IsError())
	assert.Contains(t, out.Response.Error, "must be a JSON object")
	assert.NotNil(t, out.Fallback)
}

func TestRenderUnknownDomain(t *testing.T) {
	_, err := newHost().Render(context.Background(), "tea-leaves", []byte(`{"action":"prepareData"}`))
	assert.ErrorIs(t, err, ErrUnknownDomain)
}

func TestRenderCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newHost().Render(ctx, charts.Funding, []byte(`{"action":"prepareFundingData"}`))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderAllIsolatesFailures(t *testing.T) {
	h := newHost(WithConcurrency(3))
	c := charts.NewCatalog(defaults.NewStore(defaults.MustLoad()), nil)

	var jobs []Job
	for _, name := range c.Names() {
		d, _ := c.Domain(name)
		req, err := protocol.NewRequest(d.Actions()[0], nil)
		require.NoError(t, err)
		jobs = append(jobs, Job{Domain: name, Request: req})
	}
	jobs = append(jobs,
		Job{Domain: charts.Timeline, Request: []byte(`{"action":"prepareData","events":[{"name":"x","phase":"P","startDate":"someday"}]}`)},
		Job{Domain: "nope", Request: []byte(`{"action":"prepareData"}`)},
	)

	outs := h.RenderAll(context.Background(), jobs)
	require.Len(t, outs, len(jobs))
	for i, o := range outs[:len(c.Names())] {
		assert.Equal(t, jobs[i].Domain, o.Domain)
		assert.NoError(t, o.Err)
		assert.False(t, o.Response.IsError(), "%s: %s", o.Domain, o.Response.Error)
	}

	bad := outs[len(outs)-2]
	assert.NoError(t, bad.Err)
	assert.True(t, bad.Response.IsError())
	require.NotNil(t, bad.Fallback)
	assert.Len(t, bad.Fallback.Rows, 8)

	assert.ErrorIs(t, outs[len(outs)-1].Err, ErrUnknownDomain)
}

func TestRenderIDWithHTMLCharacters(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out, err := newHost().Render(ctx, charts.MarketGrowth, []byte(`{"action":"prepareData","id":"a<b&c"}`))
	require.NoError(t, err)
	assert.False(t, out.Response.IsError())
	assert.Equal(t, `"a<b&c"`, string(out.Response.ID))
}

func TestRenderRejectsBadlyTypedID(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	raw := []byte(`{"action":"processRiskData","id":{"x":1}}`)
	out, err := newHost().Render(ctx, charts.Risk, raw)
	require.NoError(t, err)
	assert.True(t, out.Response.IsError())
	assert.Contains(t, out.Response.Error, "id must be a string or number")
	assert.Nil(t, out.Response.ID)
	assert.NotNil(t, out.Fallback)

	d, ok := charts.NewCatalog(defaults.NewStore(defaults.MustLoad()), nil).Domain(charts.Risk)
	require.True(t, ok)
	direct, err := protocol.DecodeResponse(charts.Handle(d, raw))
	require.NoError(t, err)
	assert.Equal(t, direct.Error, out.Response.Error)
}
