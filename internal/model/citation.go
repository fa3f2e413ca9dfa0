package model

// Citation 由问答后端随每条回答返回，回答内的 [citationN] 按 1 起始的下标引用
type Citation struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Page int    `json:"page"`
	Text string `json:"text"`
}

// HistoryEntry 一次完成的问答及其引用，写入后不再修改
type HistoryEntry struct {
	Question  string     `json:"question"`
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
}
