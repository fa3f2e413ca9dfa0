package repository

import (
	"aglc_chat/internal/model"
	"aglc_chat/internal/util"
	"context"
	"sync"
	"time"
)

// SessionRepository 会话快照存储，过期时间由实现负责
type SessionRepository interface {
	Load(ctx context.Context, id string) (*model.SessionSnapshot, error)
	Save(ctx context.Context, snap *model.SessionSnapshot) error
	Ping(ctx context.Context) error
}

type memoryItem struct {
	snap      model.SessionSnapshot
	expiresAt time.Time
}

// MemorySessionRepository 进程内存储，重启后丢失
type MemorySessionRepository struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	ttl   time.Duration
	now   func() time.Time
}

func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{
		items: make(map[string]memoryItem),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (r *MemorySessionRepository) Load(ctx context.Context, id string) (*model.SessionSnapshot, error) {
	r.mu.RLock()
	item, ok := r.items[id]
	r.mu.RUnlock()

	if !ok || r.expired(item) {
		return nil, util.ErrSessionNotFound
	}
	snap := item.snap
	return &snap, nil
}

func (r *MemorySessionRepository) Save(ctx context.Context, snap *model.SessionSnapshot) error {
	item := memoryItem{snap: *snap}
	if r.ttl > 0 {
		item.expiresAt = r.now().Add(r.ttl)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[snap.ID] = item
	return nil
}

func (r *MemorySessionRepository) Ping(ctx context.Context) error {
	return nil
}

// Sweep 清理过期会话，返回清理数量
func (r *MemorySessionRepository) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, item := range r.items {
		if r.expired(item) {
			delete(r.items, id)
			n++
		}
	}
	return n
}

func (r *MemorySessionRepository) expired(item memoryItem) bool {
	return !item.expiresAt.IsZero() && r.now().After(item.expiresAt)
}
