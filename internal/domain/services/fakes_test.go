package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"veritas-lab/internal/domain/models"
	"veritas-lab/internal/domain/services/ai"
	"veritas-lab/internal/infrastructure/cache"
)

// pngHeader is enough for content sniffing to report image/png
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

type fakeVision struct {
	mu    sync.Mutex
	text  string
	err   error
	calls int
	refs  []string
	block chan struct{}
}

func (f *fakeVision) AnalyzeImage(_ context.Context, ref string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.refs = append(f.refs, ref)
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return f.text, f.err
}

func (f *fakeVision) Model() string { return "test-vision" }

func (f *fakeVision) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeLabeler struct {
	predictions []models.ImagePrediction
	err         error
	mimeType    string
}

func (f *fakeLabeler) Classify(_ context.Context, _ []byte, mimeType string) ([]models.ImagePrediction, error) {
	f.mimeType = mimeType
	return f.predictions, f.err
}

type fakeChatModel struct {
	reply    string
	err      error
	model    string
	temp     float64
	system   string
	messages []ai.Message
}

func (f *fakeChatModel) Chat(_ context.Context, model string, temperature float64, system string, messages []ai.Message) (string, error) {
	f.model, f.temp, f.system, f.messages = model, temperature, system, messages
	return f.reply, f.err
}

type fakePublisher struct {
	mu      sync.Mutex
	images  []*models.ImageAnalysis
	chats   []*models.ChatScanResult
	reports []*models.Report
}

func (p *fakePublisher) PublishImageAnalyzed(_ context.Context, a *models.ImageAnalysis) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.images = append(p.images, a)
	return nil
}

func (p *fakePublisher) PublishChatScanned(_ context.Context, r *models.ChatScanResult) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.chats = append(p.chats, r)
	return nil
}

func (p *fakePublisher) PublishReportSubmitted(_ context.Context, r *models.Report) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reports = append(p.reports, r)
	return nil
}

type fakeImageRepo struct {
	mu      sync.Mutex
	created []*models.ImageAnalysis
	users   []string
	err     error

	listCalls int
}

func (r *fakeImageRepo) Create(_ context.Context, userID string, a *models.ImageAnalysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, a)
	r.users = append(r.users, userID)
	return r.err
}

func (r *fakeImageRepo) ListRecent(_ context.Context, userID string, limit int) ([]models.ImageAnalysisSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	out := []models.ImageAnalysisSummary{}
	for i := len(r.created) - 1; i >= 0 && len(out) < limit; i-- {
		if r.users[i] != userID {
			continue
		}
		a := r.created[i]
		out = append(out, models.ImageAnalysisSummary{ID: a.ID, ImageURL: a.ImageURL, RiskLevel: a.RiskLevel})
	}
	return out, nil
}

// fakeResultCache round-trips through JSON like the Redis cache does
type fakeResultCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newFakeResultCache() *fakeResultCache {
	return &fakeResultCache{entries: make(map[string][]byte)}
}

func (c *fakeResultCache) CacheImageAnalysis(_ context.Context, hash string, data any, _ time.Duration) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[hash] = b
	return nil
}

func (c *fakeResultCache) GetCachedImageAnalysis(_ context.Context, hash string, dest any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[hash]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(b, dest)
}

func (c *fakeResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
