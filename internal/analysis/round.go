package analysis

import "github.com/shopspring/decimal"

// Round1 rounds half away from zero to one decimal place.
func Round1(x float64) float64 {
	return decimal.NewFromFloat(x).Round(1).InexactFloat64()
}

// Round2 rounds half away from zero to two decimal places.
func Round2(x float64) float64 {
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}

// scale multiplies x by an exact decimal factor, avoiding binary drift
// such as 0.7*90 = 62.99999999999999.
func scale(x float64, factor string) float64 {
	return decimal.NewFromFloat(x).Mul(decimal.RequireFromString(factor)).InexactFloat64()
}
