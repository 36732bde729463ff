package model

import (
	"fmt"
	"strings"
)

// RiskLevel buckets a risk score against the batch thresholds.
// Keep these values stable; they appear in table output.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// RiskLevelFromScore classifies score against the high/medium cutoffs.
func RiskLevelFromScore(score, high, medium float64) RiskLevel {
	switch {
	case score >= high:
		return RiskHigh
	case score >= medium:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Impact is the qualitative weight of a SWOT item.
type Impact string

const (
	ImpactLow    Impact = "Low"
	ImpactMedium Impact = "Medium"
	ImpactHigh   Impact = "High"
)

// Weight maps Low/Medium/High to 1/2/3, case-insensitively.
func (i Impact) Weight() (int, error) {
	switch strings.ToLower(strings.TrimSpace(string(i))) {
	case "low":
		return 1, nil
	case "medium":
		return 2, nil
	case "high":
		return 3, nil
	default:
		return 0, fmt.Errorf("unknown impact %q", string(i))
	}
}

// Quadrant is one of the four SWOT quadrants.
type Quadrant string

const (
	QuadrantStrengths     Quadrant = "strengths"
	QuadrantWeaknesses    Quadrant = "weaknesses"
	QuadrantOpportunities Quadrant = "opportunities"
	QuadrantThreats       Quadrant = "threats"
)

// Quadrants lists the quadrants in display order.
var Quadrants = []Quadrant{QuadrantStrengths, QuadrantWeaknesses, QuadrantOpportunities, QuadrantThreats}

// ParseQuadrant accepts the plural or singular name in any case.
func ParseQuadrant(s string) (Quadrant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strengths", "strength":
		return QuadrantStrengths, nil
	case "weaknesses", "weakness":
		return QuadrantWeaknesses, nil
	case "opportunities", "opportunity":
		return QuadrantOpportunities, nil
	case "threats", "threat":
		return QuadrantThreats, nil
	default:
		return "", fmt.Errorf("unknown SWOT quadrant %q", s)
	}
}

// Status is the progress state of a timeline event.
type Status string

const (
	StatusCompleted  Status = "completed"
	StatusInProgress Status = "in-progress"
	StatusPlanned    Status = "planned"
)

// ParseStatus normalises s; empty means planned.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "completed", "done":
		return StatusCompleted, nil
	case "in-progress", "in progress", "active":
		return StatusInProgress, nil
	case "planned", "":
		return StatusPlanned, nil
	default:
		return "", fmt.Errorf("unknown status %q", s)
	}
}
