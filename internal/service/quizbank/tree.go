package quizbank

import (
	models "quizbank/internal/domain/models/quizbank"
)

// DeriveChildren returns the folders whose parent is parentID, in collection order.
func DeriveChildren(folders []models.Folder, parentID string) []models.Folder {
	children := []models.Folder{}
	for _, f := range folders {
		if f.IsChildOf(parentID) {
			children = append(children, f)
		}
	}
	return children
}

// DeriveRoots returns the folders without a parent, in collection order.
func DeriveRoots(folders []models.Folder) []models.Folder {
	roots := []models.Folder{}
	for _, f := range folders {
		if f.IsRoot() {
			roots = append(roots, f)
		}
	}
	return roots
}

// childIndex groups folders by parent id for a single traversal.
// Folders pointing at a parent that is not in the collection are unreachable.
func childIndex(folders []models.Folder) map[string][]models.Folder {
	index := make(map[string][]models.Folder)
	for _, f := range folders {
		if f.ParentFolderID != nil {
			index[*f.ParentFolderID] = append(index[*f.ParentFolderID], f)
		}
	}
	return index
}

// visit is called once per visible folder. depth is 0 for roots.
type visit func(f models.Folder, depth int, hasChildren bool)

// walkVisible walks the forest depth-first, pre-order, recursing into a folder's
// children only when expanded reports true for it.
func walkVisible(folders []models.Folder, expanded func(id string) bool, fn visit) {
	index := childIndex(folders)
	// seen stops the walk if the store ever hands back a cycle
	seen := make(map[string]bool, len(folders))

	var walk func(f models.Folder, depth int)
	walk = func(f models.Folder, depth int) {
		if seen[f.ID] {
			return
		}
		seen[f.ID] = true

		children := index[f.ID]
		fn(f, depth, len(children) > 0)
		if !expanded(f.ID) {
			return
		}
		for _, child := range children {
			walk(child, depth+1)
		}
	}

	for _, root := range DeriveRoots(folders) {
		walk(root, 0)
	}
}

// BuildForest nests every folder under its parent, ignoring expansion.
func BuildForest(folders []models.Folder) []*models.FolderTreeNode {
	nodes := make(map[string]*models.FolderTreeNode, len(folders))

	// First pass: create all folder nodes
	for _, f := range folders {
		nodes[f.ID] = &models.FolderTreeNode{
			ID:             f.ID,
			Name:           f.Name,
			ParentFolderID: f.ParentFolderID,
			IsEnabled:      f.IsEnabled,
			CreatedAt:      f.CreatedAt,
			Folders:        []*models.FolderTreeNode{},
		}
	}

	// Second pass: attach children to parents, keeping creation order
	roots := make([]*models.FolderTreeNode, 0)
	for _, f := range folders {
		node := nodes[f.ID]
		if f.ParentFolderID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[*f.ParentFolderID]; ok {
			parent.Folders = append(parent.Folders, node)
		}
	}

	return roots
}
