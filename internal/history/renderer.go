package history

import (
	"aglc_chat/internal/model"
	"fmt"
	"strings"
)

const (
	Placeholder     = "Ask a question to see relevant citations."
	summaryWords    = 10
	excerptRunes    = 150
	ellipsis        = "..."
	sourceLinkLabel = "View in PDF"
)

// Panel 引用侧栏的视图模型，每次由完整历史重新构建
type Panel struct {
	Placeholder string
	Entries     []PanelEntry
}

type PanelEntry struct {
	Summary   string
	Open      bool
	Citations []PanelCitation
}

type PanelCitation struct {
	ID        string
	PageLabel string
	Excerpt   string
	URL       string
	LinkLabel string
}

func (p Panel) Empty() bool {
	return p.Placeholder != ""
}

// Render 构建侧栏。没有引用的问答不展示；只有输入中最后一条默认展开，
// 若最后一条没有引用则全部收起。
func Render(entries []model.HistoryEntry) Panel {
	if len(entries) == 0 {
		return Panel{Placeholder: Placeholder}
	}

	panel := Panel{Entries: []PanelEntry{}}
	last := len(entries) - 1
	for i, e := range entries {
		if len(e.Citations) == 0 {
			continue
		}

		pe := PanelEntry{
			Summary:   Summarize(e.Question),
			Open:      i == last,
			Citations: make([]PanelCitation, 0, len(e.Citations)),
		}
		for _, c := range e.Citations {
			pe.Citations = append(pe.Citations, PanelCitation{
				ID:        c.ID,
				PageLabel: fmt.Sprintf("Page %d", c.Page),
				Excerpt:   Excerpt(c.Text),
				URL:       c.URL,
				LinkLabel: sourceLinkLabel,
			})
		}
		panel.Entries = append(panel.Entries, pe)
	}
	return panel
}

// Summarize 取问题前 10 个词
func Summarize(question string) string {
	words := strings.Fields(question)
	if len(words) <= summaryWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:summaryWords], " ") + ellipsis
}

// Excerpt 截取前 150 个字符
func Excerpt(text string) string {
	r := []rune(text)
	if len(r) <= excerptRunes {
		return text
	}
	return string(r[:excerptRunes]) + ellipsis
}
