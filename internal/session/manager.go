package session

import (
	"aglc_chat/internal/embedding"
	"aglc_chat/internal/model"
	"aglc_chat/internal/repository"
	"aglc_chat/internal/util"
	"aglc_chat/pkg/logger"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager 维护活跃会话，并把快照写入 SessionRepository
type Manager struct {
	repo        repository.SessionRepository
	toggler     embedding.Toggler
	defaultMode model.EmbeddingMode

	mu   sync.Mutex
	live map[string]*Session
}

func NewManager(repo repository.SessionRepository, toggler embedding.Toggler, defaultMode model.EmbeddingMode) *Manager {
	return &Manager{
		repo:        repo,
		toggler:     toggler,
		defaultMode: defaultMode,
		live:        make(map[string]*Session),
	}
}

func (m *Manager) NewID() string {
	return uuid.NewString()
}

// Get 先查活跃会话，再查存储，都没有则新建
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	if s, ok := m.live[id]; ok {
		m.mu.Unlock()
		// 刷新活跃时间，避免在请求开始前被 Evict 移出
		s.Touch()
		return s, nil
	}
	m.mu.Unlock()

	var s *Session
	snap, err := m.repo.Load(ctx, id)
	switch {
	case err == nil:
		s = Restore(snap, m.toggler)
	case errors.Is(err, util.ErrSessionNotFound):
		s = New(id, m.defaultMode, m.toggler)
	default:
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// 并发加载时以先放入的为准
	if existing, ok := m.live[id]; ok {
		return existing, nil
	}
	m.live[id] = s
	return s, nil
}

func (m *Manager) Save(ctx context.Context, s *Session) error {
	s.Touch()
	return m.repo.Save(ctx, s.Snapshot())
}

// Evict 移出内存中空闲超过 idle 的会话，快照仍在存储中。
// 有未完成的问答请求或嵌入切换的会话保留。
func (m *Manager) Evict(idle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.live {
		if time.Since(s.UpdatedAt()) > idle && s.InFlight() == 0 && s.Embedding().State().Pending == 0 {
			delete(m.live, id)
			n++
		}
	}
	if n > 0 {
		logger.Log.Debug("evicted idle sessions", zap.Int("count", n))
	}
	return n
}

func (m *Manager) Ping(ctx context.Context) error {
	return m.repo.Ping(ctx)
}
