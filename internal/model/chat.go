package model

// ChatTurn 发给后端的多轮上下文
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatRequest struct {
	Message       string        `json:"message"`
	History       []ChatTurn    `json:"history"`
	EmbeddingType EmbeddingMode `json:"embedding_type"`
}

type ChatResponse struct {
	Answer        string         `json:"answer"`
	Citations     []Citation     `json:"citations"`
	EmbeddingType EmbeddingMode  `json:"embedding_type"`
	Cost          *CostBreakdown `json:"cost,omitempty"`
}

type CostBreakdown struct {
	TotalCost float64       `json:"total_cost"`
	Embedding EmbeddingCost `json:"embedding"`
	Chat      ChatCost      `json:"chat"`
}

type EmbeddingCost struct {
	Tokens int     `json:"tokens"`
	Cost   float64 `json:"cost"`
}

type ChatCost struct {
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	InputCost    float64 `json:"input_cost"`
	OutputCost   float64 `json:"output_cost"`
}

type ToggleRequest struct {
	EmbeddingType EmbeddingMode `json:"embedding_type"`
}

type ToggleResponse struct {
	Success       bool          `json:"success"`
	EmbeddingType EmbeddingMode `json:"embedding_type"`
	Message       string        `json:"message"`
}
