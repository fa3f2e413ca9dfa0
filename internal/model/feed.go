package model

import "time"

type FeedKind string

const (
	FeedUser    FeedKind = "user"
	FeedBot     FeedKind = "bot"
	FeedStatus  FeedKind = "status"
	FeedLoading FeedKind = "loading"
	FeedError   FeedKind = "error"
)

// FeedMessage 聊天区中的一条消息；HTML 只用于已渲染的机器人回答
type FeedMessage struct {
	ID        string         `json:"id"`
	Kind      FeedKind       `json:"kind"`
	Text      string         `json:"text,omitempty"`
	HTML      string         `json:"html,omitempty"`
	Badge     EmbeddingMode  `json:"badge,omitempty"`
	Cost      *CostBreakdown `json:"cost,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}
