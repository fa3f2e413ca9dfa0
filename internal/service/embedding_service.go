package service

import (
	"aglc_chat/internal/embedding"
	"aglc_chat/internal/session"
	"aglc_chat/pkg/logger"
	"aglc_chat/pkg/monitoring"
	"context"

	"go.uber.org/zap"
)

type EmbeddingService struct {
	sessions *session.Manager
}

func NewEmbeddingService(sessions *session.Manager) *EmbeddingService {
	return &EmbeddingService{sessions: sessions}
}

// Toggle 执行开关交互；只有非法的控件名会返回 error
func (s *EmbeddingService) Toggle(ctx context.Context, sess *session.Session, control embedding.Control, checked bool) (*embedding.Transition, error) {
	t, err := sess.Embedding().Toggle(ctx, control, checked)
	if err != nil {
		return nil, err
	}

	if t == nil {
		monitoring.EmbeddingToggles.WithLabelValues("noop").Inc()
		return nil, nil
	}

	fields := []zap.Field{
		zap.String("session_id", sess.ID),
		zap.String("transition_id", t.ID),
		zap.String("previous", string(t.Previous)),
		zap.String("requested", string(t.Requested)),
		zap.String("result", string(t.Result)),
	}
	switch t.Phase {
	case embedding.PhaseCommitted:
		monitoring.EmbeddingToggles.WithLabelValues("committed").Inc()
		logger.Log.Info("embedding mode switched", fields...)
	case embedding.PhaseRolledBack:
		monitoring.EmbeddingToggles.WithLabelValues("rolled_back").Inc()
		logger.Log.Warn("embedding mode switch rolled back", append(fields, zap.Error(t.Err))...)
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		logger.Log.Error("failed to save session", zap.String("session_id", sess.ID), zap.Error(err))
	}
	return t, nil
}
