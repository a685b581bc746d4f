package risk

import (
	"math"

	"veritas-lab/internal/domain/models"
)

// Confidence band edges for the display refinement. Bands are half-open:
// [0,60) uncertain, [60,85) likely, [85,100] definite.
const (
	UncertainBelow = 60.0
	DefiniteFrom   = 85.0
)

type displayCopy struct {
	message string
	badge   string
	color   string
	summary string
}

var (
	uncertainCopy = displayCopy{
		message: "Unable to confidently classify this image.",
		badge:   "Uncertain",
		color:   "text-yellow-600",
		summary: "Could not determine authenticity.",
	}
	likelyRealCopy = displayCopy{
		message: "This image is likely real, but not 100% certain.",
		badge:   "Likely Real",
		color:   "text-green-700",
		summary: "Likely a real photo, proceed with care.",
	}
	moderateAICopy = displayCopy{
		message: "This image is possibly AI-generated, confidence is moderate.",
		badge:   "Possibly AI",
		color:   "text-yellow-700",
		summary: "Possibly AI-generated",
	}
	realCopy = displayCopy{
		message: "Authentic Image Detected",
		badge:   "Real",
		color:   "text-green-800",
		summary: "This appears to be a genuine photograph of a real person.",
	}
	aiCopy = displayCopy{
		message: "AI-Generated Image Detected",
		badge:   "AI",
		color:   "text-red-700",
		summary: "This image shows strong signs of being AI-generated.",
	}
	unsureAICopy = displayCopy{
		message: "This image is possibly AI-generated, but not 100% sure.",
		badge:   "Possibly AI",
		color:   "text-yellow-700",
		summary: "Possibly AI-generated",
	}
)

// Refine re-buckets a verdict and an optional confidence into the five-level
// display scale. A nil or NaN confidence is treated as missing.
func Refine(apiRisk models.RiskVerdict, confidence *float64) models.DisplayAssessment {
	var (
		display models.DisplayRisk
		text    displayCopy
		shown   float64
	)

	switch {
	case confidence == nil || math.IsNaN(*confidence) || *confidence < UncertainBelow:
		display, text = models.DisplayUncertain, uncertainCopy
	case *confidence < DefiniteFrom:
		if apiRisk == models.RiskLow {
			display, text = models.DisplayLikelyReal, likelyRealCopy
		} else {
			display, text = models.DisplayLikelyAI, moderateAICopy
		}
	default:
		switch apiRisk {
		case models.RiskLow:
			display, text = models.DisplayReal, realCopy
		case models.RiskHigh:
			display, text = models.DisplayAI, aiCopy
		default:
			display, text = models.DisplayLikelyAI, unsureAICopy
		}
	}

	if confidence != nil && !math.IsNaN(*confidence) {
		shown = *confidence
	}

	return models.DisplayAssessment{
		DisplayRisk: display,
		Message:     text.message,
		Badge:       text.badge,
		Color:       text.color,
		Summary:     text.summary,
		RiskLevel:   VerdictForDisplay(display),
		IsReal:      display == models.DisplayReal || display == models.DisplayLikelyReal,
		Confidence:  shown,
	}
}

// RefineScore is Refine for an integer confidence that is always present
func RefineScore(apiRisk models.RiskVerdict, confidence int) models.DisplayAssessment {
	c := float64(confidence)
	return Refine(apiRisk, &c)
}

// VerdictForDisplay collapses a display risk back to the three-level scale.
// Uncertain has no verdict.
func VerdictForDisplay(d models.DisplayRisk) *models.RiskVerdict {
	var v models.RiskVerdict
	switch d {
	case models.DisplayReal, models.DisplayLikelyReal:
		v = models.RiskLow
	case models.DisplayLikelyAI:
		v = models.RiskMedium
	case models.DisplayAI:
		v = models.RiskHigh
	default:
		return nil
	}
	return &v
}
