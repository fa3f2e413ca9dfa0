package model

import "time"

// SessionSnapshot 会话的可持久化状态，不含加载中/切换中等瞬时消息
type SessionSnapshot struct {
	ID        string         `json:"id"`
	Mode      EmbeddingMode  `json:"mode"`
	Turns     []ChatTurn     `json:"turns"`
	History   []HistoryEntry `json:"history"`
	Feed      []FeedMessage  `json:"feed"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
