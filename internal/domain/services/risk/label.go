package risk

import (
	"errors"
	"strings"

	"veritas-lab/internal/domain/models"
)

// ErrNoPredictions is returned when the classifier answered with an empty list
var ErrNoPredictions = errors.New("unexpected response from AI model: no predictions")

var (
	// Labels typical of rendered or synthetic imagery
	aiLabelKeywords = []string{
		"cartoon", "digital", "render", "toy",
		"drawing", "mask", "illustration", "animation",
	}
	// Labels that generic classifiers attach to overly polished generated portraits
	suspiciousLabelKeywords = []string{
		"brassiere", "bandeau", "gown", "gorgeous",
		"makeup", "smile", "hairstyle", "cleavage",
	}
)

// GenericLabelThreshold is the confidence at which a plain person/face label
// is itself treated as suspicious
const GenericLabelThreshold = 99.0

// IsLikelyAI applies the label heuristic; confidence is on a 0-100 scale
func IsLikelyAI(label string, confidence float64) bool {
	l := strings.ToLower(label)

	generic := (strings.Contains(l, "person") || strings.Contains(l, "face")) &&
		confidence >= GenericLabelThreshold

	return containsAny(l, aiLabelKeywords) ||
		containsAny(l, suspiciousLabelKeywords) ||
		generic
}

// ClassifyLabel takes the top prediction, scales its score to a percentage and
// applies IsLikelyAI
func ClassifyLabel(predictions []models.ImagePrediction) (models.LabelClassification, error) {
	if len(predictions) == 0 {
		return models.LabelClassification{}, ErrNoPredictions
	}
	top := predictions[0]
	confidence := top.Score * 100
	return models.LabelClassification{
		Label:      top.Label,
		Confidence: confidence,
		IsAI:       IsLikelyAI(top.Label, confidence),
	}, nil
}
