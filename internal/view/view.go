package view

import (
	"aglc_chat/internal/embedding"
	"aglc_chat/internal/history"
	"aglc_chat/internal/model"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Page 页面及各片段共用的数据
type Page struct {
	Feed      []FeedItem
	Citations history.Panel
	Toggles   embedding.State
}

type FeedItem struct {
	model.FeedMessage
	BadgeLabel string
	CostLine   string
}

func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"safeHTML": func(s string) template.HTML { return template.HTML(s) },
		"dict":     dict,
	}).ParseFS(templatesFS, "templates/*.html")
}

func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func NewPage(feed []model.FeedMessage, entries []model.HistoryEntry, toggles embedding.State) Page {
	items := make([]FeedItem, 0, len(feed))
	for _, m := range feed {
		item := FeedItem{FeedMessage: m, CostLine: FormatCost(m.Cost)}
		if m.Badge != "" {
			item.BadgeLabel = m.Badge.Label()
		}
		items = append(items, item)
	}
	return Page{
		Feed:      items,
		Citations: history.Render(entries),
		Toggles:   toggles,
	}
}

// FormatCost 总价与 LLM 费用总是显示，嵌入费用仅在非零时显示，金额保留 6 位小数
func FormatCost(cost *model.CostBreakdown) string {
	if cost == nil {
		return ""
	}

	s := fmt.Sprintf("Total: $%.6f", cost.TotalCost)
	if cost.Embedding.Cost > 0 {
		s += fmt.Sprintf(" | Embedding: $%.6f", cost.Embedding.Cost)
	}
	s += fmt.Sprintf(" | LLM: $%.6f", cost.Chat.InputCost+cost.Chat.OutputCost)
	s += fmt.Sprintf(" (%d tokens)", cost.Chat.InputTokens+cost.Chat.OutputTokens)
	return s
}

func dict(kv ...interface{}) (map[string]interface{}, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict expects key/value pairs")
	}
	m := make(map[string]interface{}, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}
