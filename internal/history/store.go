package history

import (
	"aglc_chat/internal/model"
	"sync"
)

// Store 问答引用历史，只追加；顺序即响应到达顺序
type Store struct {
	mu      sync.RWMutex
	entries []model.HistoryEntry
}

func NewStore(entries ...model.HistoryEntry) *Store {
	s := &Store{}
	s.entries = append(s.entries, entries...)
	return s
}

func (s *Store) Append(entry model.HistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
}

// Entries 返回副本
func (s *Store) Entries() []model.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.HistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
