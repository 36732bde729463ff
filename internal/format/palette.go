package format

import (
	"fmt"
	"math"
)

// Palette is an ordered list of CSS colours.
type Palette []string

// BrandPalette is the company's chart palette.
var BrandPalette = Palette{
	"#6C5CE7", // quantum violet
	"#00B894",
	"#0984E3",
	"#FDCB6E",
	"#E17055",
	"#00CEC9",
	"#D63031",
	"#A29BFE",
}

// Color returns supplied when set, otherwise the palette entry for i,
// cycling once the palette is exhausted.
func (f *Formatter) Color(i int, supplied string) string {
	if supplied != "" {
		return supplied
	}
	return f.palette[i%len(f.palette)]
}

// Spread returns n colours: supplied[i] when set, the palette entry while
// i is within the palette, and evenly spaced HSL hues for the remainder.
func (f *Formatter) Spread(n int, supplied []string) []string {
	out := make([]string, n)
	extra := n - len(f.palette)
	for i := 0; i < n; i++ {
		switch {
		case i < len(supplied) && supplied[i] != "":
			out[i] = supplied[i]
		case i < len(f.palette):
			out[i] = f.palette[i]
		default:
			k := i - len(f.palette)
			out[i] = HSL(float64(k)*360/float64(extra), 65, 55)
		}
	}
	return out
}

// HSL renders a CSS hsl() colour; hue is rounded to whole degrees.
func HSL(hue, saturation, lightness float64) string {
	h := int(math.Round(hue)) % 360
	return fmt.Sprintf("hsl(%d, %d%%, %d%%)", h, int(saturation), int(lightness))
}
