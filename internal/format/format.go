// Package format is the shared number formatting and colour palette service
// injected into every chart domain.
package format

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"plancharts/internal/model"
)

// Unit is the scale suffix of a money amount.
type Unit string

const (
	Millions Unit = "M"
	Billions Unit = "B"
)

// Placeholder is rendered for absent values.
const Placeholder = "-"

// Formatter renders values for table output and picks series colours.
// It holds no mutable state and is safe for concurrent use.
type Formatter struct {
	palette Palette
	tag     language.Tag
}

// New returns a Formatter using palette; an empty palette means BrandPalette.
func New(palette Palette) *Formatter {
	if len(palette) == 0 {
		palette = BrandPalette
	}
	return &Formatter{palette: palette, tag: language.English}
}

// Money renders v as "$1,234.5M"; negative amounts as "-$20.0M".
func (f *Formatter) Money(v float64, unit Unit) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + "$" + f.Number(v, 1) + string(unit)
}

// Percent renders v as "21.0%".
func (f *Formatter) Percent(v model.Value) string {
	if !v.Valid {
		return Placeholder
	}
	return f.Number(v.Float, 1) + "%"
}

// Number renders v with thousands grouping and a fixed number of decimals.
func (f *Formatter) Number(v float64, decimals int) string {
	rounded := decimal.NewFromFloat(v).Round(int32(decimals)).InexactFloat64()
	// message.Printer buffers internally, so one is built per call.
	p := message.NewPrinter(f.tag)
	return p.Sprintf("%."+strconv.Itoa(decimals)+"f", rounded)
}

// Score renders a 0–10 score with one decimal.
func (f *Formatter) Score(v model.Value) string {
	if !v.Valid {
		return Placeholder
	}
	return strconv.FormatFloat(decimal.NewFromFloat(v.Float).Round(1).InexactFloat64(), 'f', 1, 64)
}

// Year renders a whole year as "2032" and a fractional one as "2031.3".
func (f *Formatter) Year(y float64) string {
	if y == float64(int(y)) {
		return strconv.Itoa(int(y))
	}
	return strconv.FormatFloat(y, 'f', 1, 64)
}

// Years renders a year axis as category labels.
func Years(years []int) []string {
	out := make([]string, len(years))
	for i, y := range years {
		out[i] = strconv.Itoa(y)
	}
	return out
}

// Milestone renders a threshold in $B as the label used on chart annotations,
// e.g. 1000 → "$1 Trillion", 500 → "$500 Billion".
func Milestone(thresholdB float64) string {
	if thresholdB >= 1000 {
		return fmt.Sprintf("$%s Trillion", strconv.FormatFloat(thresholdB/1000, 'f', -1, 64))
	}
	return fmt.Sprintf("$%s Billion", strconv.FormatFloat(thresholdB, 'f', -1, 64))
}
