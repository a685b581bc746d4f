package models

import (
	"time"

	"github.com/google/uuid"
)

// ImageAnalysisRequest is a single image submitted for AI-generation screening.
// Exactly one of ImageURL or ImageData is set.
type ImageAnalysisRequest struct {
	ImageURL  string `json:"image_url,omitempty"`
	ImageData []byte `json:"-"`
	MimeType  string `json:"-"`
	ClientID  string `json:"-"` // Used by the in-flight guard
	UserID    string `json:"-"`
}

// ImageAnalysis is the outcome of one image analysis, including the fallback case
type ImageAnalysis struct {
	ID              uuid.UUID          `json:"id"`
	ImageURL        string             `json:"image_url,omitempty"`
	Analysis        string             `json:"analysis"`
	RiskLevel       RiskVerdict        `json:"riskLevel"`
	ConfidenceScore int                `json:"confidenceScore"`
	ConfidenceFound bool               `json:"confidenceExtracted"` // false when the score was synthesized
	IsFallback      bool               `json:"isFallback,omitempty"`
	Error           string             `json:"error,omitempty"`
	Display         *DisplayAssessment `json:"display,omitempty"`
	ModelUsed       string             `json:"model_used,omitempty"`
	ProcessingTime  string             `json:"processing_time,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

// ImageAnalysisSummary is a stored analysis row as listed in the history view
type ImageAnalysisSummary struct {
	ID              uuid.UUID   `json:"id"`
	ImageURL        string      `json:"image_url"`
	RiskLevel       RiskVerdict `json:"risk_level"`
	Analysis        string      `json:"analysis"`
	ConfidenceScore int         `json:"confidence_score"`
	IsFallback      bool        `json:"is_fallback"`
	CreatedAt       time.Time   `json:"created_at"`
}

// DisplayAssessment is the client-facing rendering of a verdict and confidence
type DisplayAssessment struct {
	DisplayRisk DisplayRisk  `json:"display_risk"`
	Message     string       `json:"message"`
	Badge       string       `json:"badge"`
	Color       string       `json:"color"`
	Summary     string       `json:"summary"`
	RiskLevel   *RiskVerdict `json:"risk_level"` // nil for uncertain
	IsReal      bool         `json:"is_real"`
	Confidence  float64      `json:"confidence"`
}

// DisplayRiskRequest asks for a refinement of an already computed verdict
type DisplayRiskRequest struct {
	RiskLevel  string   `json:"risk_level"`
	Confidence *float64 `json:"confidence"`
}

// ImagePrediction is one label returned by the image-classification endpoint
type ImagePrediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// LabelClassification is the outcome of the label-based AI heuristic
type LabelClassification struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"score"`
	IsAI       bool    `json:"isAI"`
}
