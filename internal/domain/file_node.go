package domain

// FileNode — узел дерева файлов версии исходного кода. Дерево является чистой
// проекцией плоского списка путей и заново строится при каждом запросе.
type FileNode struct {
	Key         string      `json:"key"`
	Title       string      `json:"title"`
	IsLeaf      bool        `json:"is_leaf"`
	Children    []*FileNode `json:"children,omitempty"`
	IsErrorFile bool        `json:"is_error_file,omitempty"`
	ErrorLine   int         `json:"error_line,omitempty"`
}

// FileEntry — элемент плоского списка файлов, который отдает бэкенд.
type FileEntry struct {
	FilePath string `json:"file_path"`
}

// FileTree — готовое дерево вместе с ключами директорий, которые нужно
// раскрыть, чтобы показать файл ошибки.
type FileTree struct {
	Nodes        []*FileNode `json:"nodes"`
	ExpandedKeys []string    `json:"expanded_keys"`
	Matched      bool        `json:"matched"`
}
