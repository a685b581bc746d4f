package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veritas-lab/internal/api/handlers"
	"veritas-lab/internal/config"
	"veritas-lab/internal/domain/models"
	"veritas-lab/internal/domain/services"
	"veritas-lab/internal/domain/services/ai"
	"veritas-lab/internal/domain/services/risk"
	"veritas-lab/pkg/logger"
)

const testSecret = "test-secret"

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

type stubVision struct {
	text string
	err  error
}

func (s stubVision) AnalyzeImage(context.Context, string) (string, error) { return s.text, s.err }
func (s stubVision) Model() string                                        { return "stub" }

type stubLabeler struct{}

func (stubLabeler) Classify(context.Context, []byte, string) ([]models.ImagePrediction, error) {
	return []models.ImagePrediction{{Label: "mask", Score: 0.42}}, nil
}

type stubChat struct{}

func (stubChat) Chat(_ context.Context, _ string, _ float64, _ string, msgs []ai.Message) (string, error) {
	return "You are not alone.", nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func newTestRouter(t *testing.T, vision services.VisionModel) http.Handler {
	t.Helper()
	log := logger.NewNop()

	cfg := config.Config{
		JWT:  config.JWTConfig{Secret: testSecret},
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
	}

	deps := handlers.Dependencies{
		ImageAnalysis: services.NewImageAnalysisService(
			vision, risk.NewImageClassifier(), nil, nil, nil, nil,
			services.ImageAnalysisConfig{MaxImageSize: 1024}, log,
		),
		LabelClassifier: services.NewLabelClassifierService(stubLabeler{}, 1024, log),
		ChatScanner:     services.NewChatScannerService(services.NewHelplineDirectory(), nil, log),
		ProfileScanner:  services.NewProfileScannerService(1024, log),
		Reports:         services.NewReportService(services.NewMemoryReportStore(), nil, log),
		Helplines:       services.NewHelplineDirectory(),
		Chatbot:         services.NewChatbotService(stubChat{}, services.NewMemoryChatStore(), services.ChatbotConfig{}, log),
		Checks:          map[string]handlers.Pinger{"redis": stubPinger{}},
		MaxImageSize:    1024,
		Version:         "test",
		Logger:          log,
	}

	return NewRouter(cfg, handlers.NewHandlers(deps), nil, log).Setup()
}

func token(t *testing.T, sub string, secret string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func do(h http.Handler, method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func multipartBody(t *testing.T, fields map[string]string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHealthAndReady(t *testing.T) {
	h := newTestRouter(t, stubVision{})

	rec := do(h, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(h, http.MethodGet, "/ready", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":"healthy"`)

	rec = do(h, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnalyzeImageURL(t *testing.T) {
	h := newTestRouter(t, stubVision{text: "Low risk. Natural facial features, 91% confidence."})

	rec := do(h, http.MethodPost, "/api/v1/image/analyze", []byte(`{"image_url":"https://example.com/a.jpg"}`), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.ImageAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, models.RiskLow, got.RiskLevel)
	assert.Equal(t, 91, got.ConfidenceScore)
	assert.Equal(t, models.DisplayReal, got.Display.DisplayRisk)
}

func TestAnalyzeImageFallbackIsOK(t *testing.T) {
	h := newTestRouter(t, stubVision{err: &ai.APIError{Provider: "openai", StatusCode: 429}})

	rec := do(h, http.MethodPost, "/api/v1/image/analyze", []byte(`{"image_url":"https://example.com/a.jpg"}`), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.ImageAnalysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.IsFallback)
	assert.Equal(t, models.RiskMedium, got.RiskLevel)
	assert.Equal(t, 70, got.ConfidenceScore)
}

func TestAnalyzeImageErrors(t *testing.T) {
	h := newTestRouter(t, stubVision{text: "Low risk."})

	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty", `{}`, http.StatusBadRequest},
		{"bad scheme", `{"image_url":"file:///etc/passwd"}`, http.StatusBadRequest},
		{"not json", `image please`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, http.MethodPost, "/api/v1/image/analyze", []byte(tt.body), nil)
			assert.Equal(t, tt.want, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestAnalyzeImageUpload(t *testing.T) {
	h := newTestRouter(t, stubVision{text: "Low risk."})

	body, contentType := multipartBody(t, nil, pngHeader)
	rec := do(h, http.MethodPost, "/api/v1/image/analyze", body.Bytes(), map[string]string{"Content-Type": contentType})
	assert.Equal(t, http.StatusOK, rec.Code)

	big := append(append([]byte{}, pngHeader...), make([]byte, 4096)...)
	body, contentType = multipartBody(t, nil, big)
	rec = do(h, http.MethodPost, "/api/v1/image/analyze", body.Bytes(), map[string]string{"Content-Type": contentType})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	body, contentType = multipartBody(t, nil, []byte("plain text"))
	rec = do(h, http.MethodPost, "/api/v1/image/analyze", body.Bytes(), map[string]string{"Content-Type": contentType})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClassifyImage(t *testing.T) {
	h := newTestRouter(t, stubVision{})

	body, contentType := multipartBody(t, nil, pngHeader)
	rec := do(h, http.MethodPost, "/api/v1/image/classify", body.Bytes(), map[string]string{"Content-Type": contentType})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"label":"mask","score":42,"isAI":true}`, rec.Body.String())
}

func TestDisplayRisk(t *testing.T) {
	h := newTestRouter(t, stubVision{})

	rec := do(h, http.MethodPost, "/api/v1/display-risk", []byte(`{"risk_level":"high","confidence":90}`), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"display_risk":"ai"`)

	rec = do(h, http.MethodPost, "/api/v1/display-risk", []byte(`{"risk_level":"high"}`), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"display_risk":"uncertain"`)
	assert.Contains(t, rec.Body.String(), `"risk_level":null`)
}

func TestChatScanEndpoints(t *testing.T) {
	h := newTestRouter(t, stubVision{})

	rec := do(h, http.MethodPost, "/api/v1/chat/scan", []byte(`{"text":"Don't tell anyone. You're overreacting.","region":"Delhi"}`), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.ChatScanResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, models.ThreatModerate, got.ThreatLevel)
	assert.Len(t, got.Helplines, 2)

	rec = do(h, http.MethodPost, "/api/v1/chat/scan", []byte(`{"text":"   "}`), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), models.ErrEmptyText.Error())

	rec = do(h, http.MethodGet, "/api/v1/chat/patterns", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProfileScanMultipart(t *testing.T) {
	h := newTestRouter(t, stubVision{})

	body, contentType := multipartBody(t, map[string]string{
		"followers":       "3",
		"following":       "900",
		"posts":           "0",
		"username":        "jane_doe_official",
		"posted_same_day": "true",
	}, nil)
	rec := do(h, http.MethodPost, "/api/v1/profile/scan", body.Bytes(), map[string]string{"Content-Type": contentType})
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.ProfileScanResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, models.ProfileLikelyFake, got.Result)
	assert.NotEmpty(t, got.Explanation)
}

func TestReportsEndpoints(t *testing.T) {
	h := newTestRouter(t, stubVision{})

	rec := do(h, http.MethodPost, "/api/v1/reports", []byte(`{"category":"stalking","platform":"Telegram","description":"Follows me","contactMethod":"none"}`), nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var sub map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
	caseID, _ := sub["case_id"].(string)
	assert.True(t, strings.HasPrefix(caseID, "VR-"))
	assert.Equal(t, "received", sub["status"])

	rec = do(h, http.MethodGet, "/api/v1/reports/"+caseID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Follows me")

	var status map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, caseID, status["case_id"])
	assert.Equal(t, "received", status["status"])

	rec = do(h, http.MethodPost, "/api/v1/reports", []byte(`{"category":"scam","platform":"x","description":"y","contactMethod":"email"}`), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodGet, "/api/v1/reports/VR-AAAAA-BBBBB", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHelplinesEndpoints(t *testing.T) {
	h := newTestRouter(t, stubVision{})

	rec := do(h, http.MethodGet, "/api/v1/helplines", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Bangalore")

	rec = do(h, http.MethodGet, "/api/v1/helplines/bangalore", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Vanitha Sahayavani")

	rec = do(h, http.MethodGet, "/api/v1/helplines/chennai", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatbotRequiresAuth(t *testing.T) {
	h := newTestRouter(t, stubVision{})
	body := []byte(`{"message":"I feel unsafe"}`)

	rec := do(h, http.MethodPost, "/api/v1/chatbot/messages", body, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	bad := map[string]string{"Authorization": "Bearer " + token(t, "user-1", "wrong-secret")}
	rec = do(h, http.MethodPost, "/api/v1/chatbot/messages", body, bad)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	auth := map[string]string{"Authorization": "Bearer " + token(t, "user-1", testSecret)}
	rec = do(h, http.MethodPost, "/api/v1/chatbot/messages", body, auth)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ChatbotResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "You are not alone.", resp.Response)

	rec = do(h, http.MethodGet, "/api/v1/chatbot/conversations/"+resp.ConversationID.String()+"/messages", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "VERITAS Safety Assistant")

	other := map[string]string{"Authorization": "Bearer " + token(t, "user-2", testSecret)}
	rec = do(h, http.MethodGet, "/api/v1/chatbot/conversations/"+resp.ConversationID.String()+"/messages", nil, other)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
