// Package session holds the per-browser state that the chat page renders:
// the chat feed, the chat turns sent as context, the citation history and
// the embedding mode controller.
//
// Network calls never run under the session lock, so overlapping operations
// interleave and results land in arrival order.
package session

import (
	"aglc_chat/internal/embedding"
	"aglc_chat/internal/history"
	"aglc_chat/internal/model"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Session struct {
	ID string

	mu        sync.RWMutex
	feed      []model.FeedMessage
	turns     []model.ChatTurn
	updatedAt time.Time
	inflight  int

	history   *history.Store
	embedding *embedding.Controller
}

func New(id string, mode model.EmbeddingMode, toggler embedding.Toggler) *Session {
	s := &Session{
		ID:        id,
		history:   history.NewStore(),
		updatedAt: time.Now(),
	}
	s.embedding = embedding.NewController(mode, toggler, s)
	return s
}

func Restore(snap *model.SessionSnapshot, toggler embedding.Toggler) *Session {
	s := &Session{
		ID:        snap.ID,
		feed:      append([]model.FeedMessage(nil), snap.Feed...),
		turns:     append([]model.ChatTurn(nil), snap.Turns...),
		history:   history.NewStore(snap.History...),
		updatedAt: snap.UpdatedAt,
	}
	s.embedding = embedding.NewController(snap.Mode, toggler, s)
	return s
}

// Post 追加一条消息并返回其 ID
func (s *Session) Post(msg model.FeedMessage) string {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.feed = append(s.feed, msg)
	s.updatedAt = msg.CreatedAt
	return msg.ID
}

func (s *Session) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.feed {
		if m.ID == id {
			s.feed = append(s.feed[:i], s.feed[i+1:]...)
			return
		}
	}
}

func (s *Session) Feed() []model.FeedMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.FeedMessage, len(s.feed))
	copy(out, s.feed)
	return out
}

// Turns 返回已完成的对话轮次副本，作为下一次请求的上下文
func (s *Session) Turns() []model.ChatTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ChatTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

func (s *Session) AppendExchange(question, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns,
		model.ChatTurn{Role: model.RoleUser, Content: question},
		model.ChatTurn{Role: model.RoleAssistant, Content: answer},
	)
	s.updatedAt = time.Now()
}

// BeginRequest 标记一个进行中的后端请求，返回的函数在请求结束时调用。
// 有进行中请求的会话不会被 Manager 移出内存。
func (s *Session) BeginRequest() (done func()) {
	s.mu.Lock()
	s.inflight++
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.inflight--
			s.mu.Unlock()
		})
	}
}

func (s *Session) InFlight() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight
}

func (s *Session) History() *history.Store {
	return s.history
}

func (s *Session) Embedding() *embedding.Controller {
	return s.embedding
}

func (s *Session) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

func (s *Session) Touch() {
	s.mu.Lock()
	s.updatedAt = time.Now()
	s.mu.Unlock()
}

func (s *Session) Snapshot() *model.SessionSnapshot {
	s.mu.RLock()
	feed := make([]model.FeedMessage, 0, len(s.feed))
	for _, m := range s.feed {
		if m.Kind == model.FeedLoading || m.Kind == model.FeedStatus {
			continue
		}
		feed = append(feed, m)
	}
	turns := make([]model.ChatTurn, len(s.turns))
	copy(turns, s.turns)
	updated := s.updatedAt
	s.mu.RUnlock()

	return &model.SessionSnapshot{
		ID:        s.ID,
		Mode:      s.embedding.Mode(),
		Turns:     turns,
		History:   s.history.Entries(),
		Feed:      feed,
		UpdatedAt: updated,
	}
}
