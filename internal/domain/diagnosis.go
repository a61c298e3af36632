package domain

// RelatedFile — файл, который бэкенд считает связанным с ошибкой.
// Relevance лежит в [0,1] и передается дальше без изменений.
type RelatedFile struct {
	File      string  `json:"file"`
	Content   string  `json:"content"`
	Relevance float64 `json:"relevance"`
}

// ErrorLocation — место ошибки внутри собранного контекста диагностики.
type ErrorLocation struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column *int   `json:"column,omitempty"`
}

// DiagnosisContext — пакет данных для внешнего движка диагностики:
// место ошибки, фрагмент исходника и связанные файлы с оценкой релевантности.
type DiagnosisContext struct {
	ErrorLocation ErrorLocation `json:"error_location"`
	SourceCode    string        `json:"source_code"`
	RelatedFiles  []RelatedFile `json:"related_files"`
	Context       string        `json:"context"`
}
