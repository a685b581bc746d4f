package models

import "strings"

// RiskVerdict is the three-level authenticity judgment attached to an analyzed image
type RiskVerdict string

const (
	RiskLow    RiskVerdict = "low"    // Treated as authentic
	RiskMedium RiskVerdict = "medium" // Suspicious but uncertain
	RiskHigh   RiskVerdict = "high"   // Clearly AI-generated
)

// IsValid reports whether v is one of the three verdicts
func (v RiskVerdict) IsValid() bool {
	switch v {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

func (v RiskVerdict) String() string {
	return string(v)
}

// ParseRiskVerdict normalizes free input; unknown values are returned as-is so
// callers can still route them through the "other" band of the display refinement
func ParseRiskVerdict(s string) RiskVerdict {
	return RiskVerdict(strings.ToLower(strings.TrimSpace(s)))
}

// DisplayRisk is the five-level UI-facing refinement of a RiskVerdict
type DisplayRisk string

const (
	DisplayReal       DisplayRisk = "real"
	DisplayLikelyReal DisplayRisk = "likely-real"
	DisplayUncertain  DisplayRisk = "uncertain"
	DisplayLikelyAI   DisplayRisk = "likely-ai"
	DisplayAI         DisplayRisk = "ai"
)

// ThreatLevel rates pasted chat text by the number of red flags found
type ThreatLevel string

const (
	ThreatNone     ThreatLevel = "none"
	ThreatLow      ThreatLevel = "low"
	ThreatModerate ThreatLevel = "moderate"
	ThreatHigh     ThreatLevel = "high"
)
