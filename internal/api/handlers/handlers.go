package handlers

import (
	"veritas-lab/internal/domain/services"
	"veritas-lab/pkg/logger"
)

// maxJSONBody bounds JSON request bodies that carry no image
const maxJSONBody = 1 << 20

// Handlers holds all API handlers
type Handlers struct {
	Health    *HealthHandler
	Image     *ImageHandler
	Chat      *ChatHandler
	Profile   *ProfileHandler
	Reports   *ReportsHandler
	Helplines *HelplinesHandler
	Chatbot   *ChatbotHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	ImageAnalysis   *services.ImageAnalysisService
	LabelClassifier *services.LabelClassifierService
	ChatScanner     *services.ChatScannerService
	ProfileScanner  *services.ProfileScannerService
	Reports         *services.ReportService
	Helplines       *services.HelplineDirectory
	Chatbot         *services.ChatbotService
	Checks          map[string]Pinger
	MaxImageSize    int64
	Version         string
	Logger          *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	if deps.MaxImageSize <= 0 {
		deps.MaxImageSize = 5 * 1024 * 1024
	}
	return &Handlers{
		Health:    NewHealthHandler(deps.Checks, deps.Version, deps.Logger),
		Image:     NewImageHandler(deps.ImageAnalysis, deps.LabelClassifier, deps.MaxImageSize, deps.Logger),
		Chat:      NewChatHandler(deps.ChatScanner, deps.Logger),
		Profile:   NewProfileHandler(deps.ProfileScanner, deps.MaxImageSize, deps.Logger),
		Reports:   NewReportsHandler(deps.Reports, deps.Logger),
		Helplines: NewHelplinesHandler(deps.Helplines, deps.Logger),
		Chatbot:   NewChatbotHandler(deps.Chatbot, deps.Logger),
	}
}
