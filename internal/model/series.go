package model

import (
	"errors"
	"fmt"
)

// YearSeries is an ordered sequence of (year, value) pairs.
// Units depend on the domain ($B for markets, $M for company financials).
type YearSeries struct {
	Years  []int     `json:"years" yaml:"years"`
	Values []float64 `json:"values" yaml:"values"`
}

func (s YearSeries) Validate() error {
	if err := ValidateYears(s.Years); err != nil {
		return err
	}
	if len(s.Values) != len(s.Years) {
		return fmt.Errorf("series has %d values for %d years", len(s.Values), len(s.Years))
	}
	return nil
}

// Scenario is one named series of a ScenarioSet.
type Scenario struct {
	Name   string    `json:"name" yaml:"name"`
	Values []float64 `json:"values" yaml:"values"`
	Color  string    `json:"color,omitempty" yaml:"color,omitempty"`
	// Probability is optional; the forecast domain weights scenarios by it.
	Probability *float64 `json:"probability,omitempty" yaml:"probability,omitempty"`
}

// ScenarioSet groups scenarios sharing one year axis.
type ScenarioSet struct {
	Years     []int      `json:"years" yaml:"years"`
	Scenarios []Scenario `json:"scenarios" yaml:"scenarios"`
}

func (s ScenarioSet) Validate() error {
	if err := ValidateYears(s.Years); err != nil {
		return err
	}
	if len(s.Scenarios) == 0 {
		return errors.New("at least one scenario is required")
	}
	for _, sc := range s.Scenarios {
		if sc.Name == "" {
			return errors.New("scenario name is required")
		}
		if len(sc.Values) != len(s.Years) {
			return fmt.Errorf("scenario %q has %d values for %d years", sc.Name, len(sc.Values), len(s.Years))
		}
	}
	return nil
}

// ValidateYears checks that years is non-empty and strictly increasing.
func ValidateYears(years []int) error {
	if len(years) == 0 {
		return errors.New("years must not be empty")
	}
	for i := 1; i < len(years); i++ {
		if years[i] <= years[i-1] {
			return fmt.Errorf("years must be strictly increasing (%d follows %d)", years[i], years[i-1])
		}
	}
	return nil
}

// ValidateAligned checks that each named column has one value per year.
func ValidateAligned(years []int, cols map[string][]float64) error {
	if err := ValidateYears(years); err != nil {
		return err
	}
	for name, vals := range cols {
		if len(vals) != len(years) {
			return fmt.Errorf("%s has %d values for %d years", name, len(vals), len(years))
		}
	}
	return nil
}
