package service

import (
	"aglc_chat/internal/citation"
	"aglc_chat/internal/model"
	"aglc_chat/internal/session"
	"aglc_chat/internal/util"
	"aglc_chat/pkg/logger"
	"aglc_chat/pkg/markdown"
	"aglc_chat/pkg/monitoring"
	"context"
	"html"
	"strings"

	"go.uber.org/zap"
)

// ChatBackend 问答后端
type ChatBackend interface {
	Chat(ctx context.Context, req model.ChatRequest) (*model.ChatResponse, error)
}

type ChatService struct {
	backend  ChatBackend
	sessions *session.Manager
}

func NewChatService(backend ChatBackend, sessions *session.Manager) *ChatService {
	return &ChatService{backend: backend, sessions: sessions}
}

// Submit 一次完整的问答。空输入返回 ErrEmptyMessage 且不产生任何消息；
// 后端失败写入聊天区，不记录历史，也不作为 error 返回。
func (s *ChatService) Submit(ctx context.Context, sess *session.Session, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return util.ErrEmptyMessage
	}

	done := sess.BeginRequest()
	defer done()

	sess.Post(model.FeedMessage{Kind: model.FeedUser, Text: message})
	loadingID := sess.Post(model.FeedMessage{Kind: model.FeedLoading})

	mode := sess.Embedding().Mode()
	resp, err := s.backend.Chat(ctx, model.ChatRequest{
		Message:       message,
		History:       sess.Turns(),
		EmbeddingType: mode,
	})

	sess.Remove(loadingID)

	if err != nil {
		logger.Log.Warn("chat request failed",
			zap.String("session_id", sess.ID),
			zap.String("embedding_type", string(mode)),
			zap.Error(err))
		monitoring.ChatSubmissions.WithLabelValues("error", string(mode)).Inc()
		sess.Post(model.FeedMessage{
			Kind: model.FeedError,
			Text: "Sorry, there was an error processing your request: " + err.Error(),
		})
		s.persist(ctx, sess)
		return nil
	}

	if n := citation.Unresolved(resp.Answer, resp.Citations); n > 0 {
		monitoring.UnresolvedCitations.Add(float64(n))
		logger.Log.Debug("unresolved citation markers", zap.String("session_id", sess.ID), zap.Int("count", n))
	}

	linked := citation.Link(resp.Answer, resp.Citations)
	rendered, err := markdown.ToHTML(linked)
	if err != nil {
		logger.Log.Error("markdown rendering failed", zap.Error(err))
		rendered = "<p>" + html.EscapeString(resp.Answer) + "</p>"
	}

	sess.Post(model.FeedMessage{
		Kind:  model.FeedBot,
		HTML:  rendered,
		Badge: resp.EmbeddingType,
		Cost:  resp.Cost,
	})

	sess.History().Append(model.HistoryEntry{
		Question:  message,
		Answer:    resp.Answer,
		Citations: resp.Citations,
	})
	sess.AppendExchange(message, resp.Answer)

	monitoring.ChatSubmissions.WithLabelValues("ok", string(resp.EmbeddingType)).Inc()
	logger.Log.Info("chat answered",
		zap.String("session_id", sess.ID),
		zap.String("embedding_type", string(resp.EmbeddingType)),
		zap.Int("citations", len(resp.Citations)))

	s.persist(ctx, sess)
	return nil
}

func (s *ChatService) persist(ctx context.Context, sess *session.Session) {
	if err := s.sessions.Save(ctx, sess); err != nil {
		logger.Log.Error("failed to save session", zap.String("session_id", sess.ID), zap.Error(err))
	}
}
