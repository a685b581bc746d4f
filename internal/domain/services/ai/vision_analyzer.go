package ai

import (
	"context"
	"encoding/base64"
	"fmt"

	"veritas-lab/pkg/logger"
)

const forensicSystemPrompt = `You are an expert forensic image analyst specializing in detecting AI-generated images.
Your task is to analyze profile photos with extreme precision, looking ONLY for definitive evidence of AI generation.

IMPORTANT: Default to assuming images are authentic unless there is CLEAR evidence otherwise.

Look for these specific AI indicators:
1. Unnatural eye asymmetry or iris inconsistencies
2. Bizarre teeth, finger or ear formations
3. Impossible physics or lighting inconsistencies
4. Background distortions or impossible architecture
5. Unusual skin textures or hair patterns that defy natural growth

Never classify based on:
- Image quality (real photos can be low quality)
- Normal photo editing (filters, lighting adjustments, etc.)
- Normal asymmetry found in real faces
- Cultural unfamiliarity or unusual but possible features

Report format:
- Analysis: Detailed examination highlighting specific observations
- Risk Level: Low (authentic), Medium (suspicious but uncertain), High (clearly AI-generated)
- Confidence Score: Provide a numerical confidence score between 0-100%
- Only assign "High" risk with overwhelming evidence`

const forensicUserPrompt = "Analyze this profile image carefully. Is it an authentic photograph or AI-generated? " +
	"Provide specific visual evidence and avoid false positives. Most photos people upload are authentic. " +
	"Include a confidence score as a percentage (0-100%) in your analysis."

// VisionAnalyzer asks a multimodal model for a written forensic assessment of a profile photo
type VisionAnalyzer struct {
	logger      *logger.Logger
	llmClient   *LLMClient
	model       string
	temperature float64
}

// NewVisionAnalyzer creates a new vision analyzer
func NewVisionAnalyzer(log *logger.Logger, llmClient *LLMClient, model string) *VisionAnalyzer {
	if model == "" {
		model = "gpt-4o"
	}
	return &VisionAnalyzer{
		logger:      log.WithComponent("vision-analyzer"),
		llmClient:   llmClient,
		model:       model,
		temperature: 0.2,
	}
}

// Model returns the model name used for analysis
func (v *VisionAnalyzer) Model() string {
	return v.model
}

// AnalyzeImage returns the model's free-text analysis of the image at
// imageRef, which may be an http(s) URL or a data URL
func (v *VisionAnalyzer) AnalyzeImage(ctx context.Context, imageRef string) (string, error) {
	msg := Message{
		Role: "user",
		Content: []ContentPart{
			{Type: "text", Text: forensicUserPrompt},
			{Type: "image_url", ImageURL: &ImageURL{URL: imageRef}},
		},
	}

	resp, err := v.llmClient.Complete(ctx, CompletionRequest{
		Model:       v.model,
		System:      forensicSystemPrompt,
		Messages:    []Message{msg},
		Temperature: v.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("vision analysis failed: %w", err)
	}

	v.logger.Debug().
		Int("input_tokens", resp.InputTokens).
		Int("output_tokens", resp.OutputTokens).
		Msg("vision analysis complete")

	return resp.Content, nil
}

// DataURL inlines image bytes so they can be sent where an image URL is expected
func DataURL(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}
