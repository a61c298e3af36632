package domain

// ErrorPosition — позиция ошибки, как ее сообщило событие мониторинга.
type ErrorPosition struct {
	FileName string `json:"file_name"`
	Line     int    `json:"line"`
	Column   *int   `json:"column,omitempty"`
}

// ResolvedLocation — позиция в оригинальном исходнике после трансляции
// через sourcemap. Живет только в рамках одного запроса.
type ResolvedLocation struct {
	OriginalFile   string   `json:"original_file"`
	OriginalLine   int      `json:"original_line"`
	OriginalColumn *int     `json:"original_column,omitempty"`
	FunctionName   string   `json:"function_name,omitempty"`
	SourceContent  string   `json:"source_content,omitempty"`
	ContextLines   []string `json:"context_lines,omitempty"`
}

// SourceCodeContext — окно строк исходника вокруг целевой строки.
// StartLine и EndLine абсолютные, чтобы вызывающий мог посчитать смещение
// для подсветки.
type SourceCodeContext struct {
	Content      string `json:"content"`
	StartLine    int    `json:"start_line"`
	EndLine      int    `json:"end_line"`
	TargetLine   int    `json:"target_line"`
	ContextLines int    `json:"context_lines"`
}
