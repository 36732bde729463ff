package format

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"plancharts/internal/model"
)

func TestMoney(t *testing.T) {
	f := New(nil)
	assert.Equal(t, "$1,100.0B", f.Money(1100, Billions))
	assert.Equal(t, "$12.3M", f.Money(12.34, Millions))
	assert.Equal(t, "-$20.5M", f.Money(-20.5, Millions))
}

func TestPercentAndScore(t *testing.T) {
	f := New(nil)
	assert.Equal(t, "21.0%", f.Percent(model.V(21)))
	assert.Equal(t, "-12.5%", f.Percent(model.V(-12.5)))
	assert.Equal(t, Placeholder, f.Percent(model.Null))
	assert.Equal(t, "3.3", f.Score(model.V(10.0/3)))
}

func TestYear(t *testing.T) {
	f := New(nil)
	assert.Equal(t, "2032", f.Year(2032))
	assert.Equal(t, "2031.3", f.Year(2031.3))
	assert.Equal(t, []string{"2020", "2021"}, Years([]int{2020, 2021}))
}

func TestMilestoneLabel(t *testing.T) {
	assert.Equal(t, "$1 Trillion", Milestone(1000))
	assert.Equal(t, "$2.5 Trillion", Milestone(2500))
	assert.Equal(t, "$500 Billion", Milestone(500))
}

func TestColorCycles(t *testing.T) {
	f := New(Palette{"#111", "#222"})
	assert.Equal(t, "#111", f.Color(0, ""))
	assert.Equal(t, "#222", f.Color(1, ""))
	assert.Equal(t, "#111", f.Color(2, ""))
	assert.Equal(t, "#abc", f.Color(1, "#abc"))
}

func TestSpreadUsesHSLBeyondPalette(t *testing.T) {
	f := New(Palette{"#111", "#222"})
	got := f.Spread(5, []string{"", "#custom"})
	assert.Equal(t, []string{
		"#111",
		"#custom",
		"hsl(0, 65%, 55%)",
		"hsl(120, 65%, 55%)",
		"hsl(240, 65%, 55%)",
	}, got)
}
