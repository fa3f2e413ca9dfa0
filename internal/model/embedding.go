package model

type EmbeddingMode string

const (
	EmbeddingOpenAI EmbeddingMode = "openai"
	EmbeddingTFIDF  EmbeddingMode = "tfidf"
)

func (m EmbeddingMode) Valid() bool {
	return m == EmbeddingOpenAI || m == EmbeddingTFIDF
}

// Label 页面上展示的名称
func (m EmbeddingMode) Label() string {
	if m == EmbeddingTFIDF {
		return "TF-IDF"
	}
	return "OpenAI"
}

// ModeFromChecked 开关勾选表示 openai
func ModeFromChecked(checked bool) EmbeddingMode {
	if checked {
		return EmbeddingOpenAI
	}
	return EmbeddingTFIDF
}
