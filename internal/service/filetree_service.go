package service

import (
	"context"
	"sort"
	"strings"

	"sourcegate/internal/backend"
	"sourcegate/internal/domain"
	"sourcegate/internal/logger"
)

// FileTreeService строит дерево файлов версии исходников и отмечает в нем
// файл, на который указывает ошибка.
type FileTreeService struct {
	store backend.Store
	log   *logger.Logger
}

func NewFileTreeService(store backend.Store, log *logger.Logger) *FileTreeService {
	return &FileTreeService{
		store: store,
		log:   log,
	}
}

// ProjectFileTree получает плоский список файлов у бэкенда и собирает дерево.
// errorFile может быть пустым; если путь не найден в дереве, Matched остается
// false и вызывающий показывает заглушку "файл не найден".
func (s *FileTreeService) ProjectFileTree(
	ctx context.Context,
	projectID, version, errorFile string,
	errorLine int,
) *domain.FileTree {
	tree := &domain.FileTree{
		Nodes:        []*domain.FileNode{},
		ExpandedKeys: []string{},
	}

	files, err := s.store.ListFiles(ctx, projectID, version)
	if err != nil {
		s.log.Warn("failed to list source files",
			"project_id", projectID,
			"version", version,
			"error", err,
		)
		return tree
	}

	tree.Nodes = BuildFileTree(files)
	if errorFile != "" {
		tree.Matched = MarkErrorFile(tree.Nodes, errorFile, errorLine)
		// Ключи раскрытия считаются из самой строки пути, без обхода дерева
		tree.ExpandedKeys = ExpandKeys(errorFile)
	}
	return tree
}

// BuildFileTree превращает плоский список путей в иерархию. Каждый префикс
// пути материализуется в узел ровно один раз через карту путь→узел; листом
// узел становится, только если его ключ равен полному пути какого-то файла.
func BuildFileTree(files []domain.FileEntry) []*domain.FileNode {
	nodes := make(map[string]*domain.FileNode)

	for _, f := range files {
		path := f.FilePath
		if path == "" {
			continue
		}
		segments := strings.Split(path, "/")
		for i := 1; i <= len(segments); i++ {
			key := strings.Join(segments[:i], "/")
			node, ok := nodes[key]
			if !ok {
				node = &domain.FileNode{
					Key:   key,
					Title: segments[i-1],
				}
				nodes[key] = node
			}
			if i == len(segments) {
				node.IsLeaf = true
			}
		}
	}

	// Привязываем детей к родителям в порядке возрастания глубины,
	// чтобы родитель существовал раньше ребенка
	keys := make([]string, 0, len(nodes))
	for key := range nodes {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		di := strings.Count(keys[i], "/")
		dj := strings.Count(keys[j], "/")
		if di != dj {
			return di < dj
		}
		return keys[i] < keys[j]
	})

	roots := make([]*domain.FileNode, 0)
	for _, key := range keys {
		node := nodes[key]
		idx := strings.LastIndex(key, "/")
		if idx < 0 {
			roots = append(roots, node)
			continue
		}
		parent := nodes[key[:idx]]
		parent.Children = append(parent.Children, node)
	}

	sortFileNodes(roots)
	return roots
}

// sortFileNodes сортирует узлы на каждом уровне: сначала директории,
// внутри одного типа — лексикографически по заголовку.
func sortFileNodes(nodes []*domain.FileNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].IsLeaf != nodes[j].IsLeaf {
			return !nodes[i].IsLeaf
		}
		return nodes[i].Title < nodes[j].Title
	})
	for _, node := range nodes {
		if len(node.Children) > 0 {
			sortFileNodes(node.Children)
		}
	}
}

// MarkErrorFile обходит все ветви дерева и помечает узлы с ключом targetPath.
// Ключи уникальны, поэтому на практике помечается ноль или один узел.
// Возвращает true, если хотя бы один узел был помечен.
func MarkErrorFile(nodes []*domain.FileNode, targetPath string, line int) bool {
	matched := false
	for _, node := range nodes {
		if node.Key == targetPath {
			node.IsErrorFile = true
			node.ErrorLine = line
			matched = true
		}
		if MarkErrorFile(node.Children, targetPath, line) {
			matched = true
		}
	}
	return matched
}

// ExpandKeys возвращает ключи всех строгих префиксов пути, то есть всех
// директорий-предков файла.
func ExpandKeys(targetPath string) []string {
	segments := strings.Split(targetPath, "/")
	keys := make([]string, 0, len(segments)-1)
	for i := 1; i < len(segments); i++ {
		keys = append(keys, strings.Join(segments[:i], "/"))
	}
	return keys
}
