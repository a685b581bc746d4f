package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"veritas-lab/internal/domain/models"
	"veritas-lab/internal/infrastructure/cache"
)

// MemoryReportStore keeps reports for the life of the process
type MemoryReportStore struct {
	mu      sync.RWMutex
	reports map[string]*models.Report
}

// NewMemoryReportStore creates an empty store
func NewMemoryReportStore() *MemoryReportStore {
	return &MemoryReportStore{reports: make(map[string]*models.Report)}
}

func (s *MemoryReportStore) Create(_ context.Context, r *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.reports[r.CaseID] = &cp
	return nil
}

func (s *MemoryReportStore) GetByCaseID(_ context.Context, caseID string) (*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[caseID]
	if !ok {
		return nil, fmt.Errorf("report %s: %w", caseID, models.ErrNotFound)
	}
	cp := *r
	return &cp, nil
}

// RedisReportStore keeps case status in Redis when no database is configured.
// Only the public fields survive; the description and contact details are
// never written to the cache.
type RedisReportStore struct {
	cache *cache.RedisCache
	ttl   time.Duration
}

// NewRedisReportStore creates a Redis-backed status store
func NewRedisReportStore(c *cache.RedisCache, ttl time.Duration) *RedisReportStore {
	return &RedisReportStore{cache: c, ttl: ttl}
}

func (s *RedisReportStore) Create(ctx context.Context, r *models.Report) error {
	return s.cache.SetJSON(ctx, cache.KeyReportPrefix+r.CaseID, r, s.ttl)
}

func (s *RedisReportStore) GetByCaseID(ctx context.Context, caseID string) (*models.Report, error) {
	var r models.Report
	if err := s.cache.GetJSON(ctx, cache.KeyReportPrefix+caseID, &r); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, fmt.Errorf("report %s: %w", caseID, models.ErrNotFound)
		}
		return nil, err
	}
	return &r, nil
}

// MemoryChatStore keeps chatbot conversations for the life of the process
type MemoryChatStore struct {
	mu            sync.RWMutex
	conversations map[uuid.UUID]models.ChatConversation
	messages      map[uuid.UUID][]models.ChatMessage
}

// NewMemoryChatStore creates an empty store
func NewMemoryChatStore() *MemoryChatStore {
	return &MemoryChatStore{
		conversations: make(map[uuid.UUID]models.ChatConversation),
		messages:      make(map[uuid.UUID][]models.ChatMessage),
	}
}

func (s *MemoryChatStore) CreateConversation(_ context.Context, c *models.ChatConversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[c.ID] = *c
	return nil
}

// GetConversation hides conversations owned by someone else behind ErrNotFound
func (s *MemoryChatStore) GetConversation(_ context.Context, id uuid.UUID, userID string) (*models.ChatConversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.conversations[id]
	if !ok || c.UserID != userID {
		return nil, fmt.Errorf("conversation %s: %w", id, models.ErrNotFound)
	}
	return &c, nil
}

func (s *MemoryChatStore) AddMessage(_ context.Context, m *models.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conversations[m.ConversationID]; !ok {
		return fmt.Errorf("conversation %s: %w", m.ConversationID, models.ErrNotFound)
	}
	s.messages[m.ConversationID] = append(s.messages[m.ConversationID], *m)
	return nil
}

func (s *MemoryChatStore) ListMessages(_ context.Context, conversationID uuid.UUID) ([]models.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ChatMessage, len(s.messages[conversationID]))
	copy(out, s.messages[conversationID])
	return out, nil
}
