package models

import (
	"fmt"
)

// TreeNodeType represents the type of tree node
type TreeNodeType string

const (
	TreeNodeTypeRoot  TreeNodeType = "root"
	TreeNodeTypeGroup TreeNodeType = "group"
	TreeNodeTypeTable TreeNodeType = "table"
)

// TablesGroupLabel is the label of the group node holding every table leaf
const TablesGroupLabel = "Tables"

// ActiveMarker prefixes the display label of the active table leaf
const ActiveMarker = "▶ "

// TreeNode represents a node in the navigation tree
type TreeNode struct {
	ID         string           // Unique identifier (e.g., "group:tables", "table:public.users")
	Type       TreeNodeType     // Type of node
	Label      string           // Plain display text; never changes after build
	Parent     *TreeNode        // Parent node (nil for root)
	Children   []*TreeNode      // Child nodes
	Expanded   bool             // Whether children are shown
	Selectable bool             // Whether node can be activated
	Active     bool             // Highlighted as the selected table; rendering only
	Table      *TableDescriptor // Set on table leaves only
}

// NewTreeNode creates a new tree node
func NewTreeNode(id string, nodeType TreeNodeType, label string) *TreeNode {
	return &TreeNode{
		ID:         id,
		Type:       nodeType,
		Label:      label,
		Children:   make([]*TreeNode, 0),
		Selectable: true,
	}
}

// AddChild adds a child node to this node
func (n *TreeNode) AddChild(child *TreeNode) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// IsTableLeaf reports whether the node wraps a table
func (n *TreeNode) IsTableLeaf() bool {
	return n != nil && n.Type == TreeNodeTypeTable && n.Table != nil
}

// DisplayLabel returns the label as shown in the tree: the plain label,
// or the highlighted form when the node is the active table.
func (n *TreeNode) DisplayLabel() string {
	if n.Active {
		return ActiveMarker + n.Label
	}
	return n.Label
}

// Flatten returns a flat list of visible nodes for rendering, root included.
func (n *TreeNode) Flatten() []*TreeNode {
	return n.FlattenFiltered(nil)
}

// FlattenFiltered is Flatten with a predicate applied to table leaves.
// Root and group nodes are always kept so the tree keeps its shape.
func (n *TreeNode) FlattenFiltered(keep func(*TreeNode) bool) []*TreeNode {
	result := make([]*TreeNode, 0, len(n.Children)+1)
	n.flattenHelper(keep, &result)
	return result
}

func (n *TreeNode) flattenHelper(keep func(*TreeNode) bool, out *[]*TreeNode) {
	if n.Type == TreeNodeTypeTable && keep != nil && !keep(n) {
		return
	}
	*out = append(*out, n)

	if !n.Expanded {
		return
	}
	for _, child := range n.Children {
		child.flattenHelper(keep, out)
	}
}

// FindByID finds a node by ID in the tree (depth-first search)
func (n *TreeNode) FindByID(id string) *TreeNode {
	if n.ID == id {
		return n
	}

	for _, child := range n.Children {
		if found := child.FindByID(id); found != nil {
			return found
		}
	}

	return nil
}

// GetDepth returns the depth of this node in the tree (root = 0)
func (n *TreeNode) GetDepth() int {
	depth := 0
	current := n.Parent

	for current != nil {
		depth++
		current = current.Parent
	}

	return depth
}

// Leaves returns the table leaves in order
func (n *TreeNode) Leaves() []*TreeNode {
	var leaves []*TreeNode
	for _, child := range n.Children {
		if child.IsTableLeaf() {
			leaves = append(leaves, child)
			continue
		}
		leaves = append(leaves, child.Leaves()...)
	}
	return leaves
}

// BuildSchemaTree builds the navigation tree from a snapshot:
// root → "Tables" → one leaf per table, in snapshot order.
func BuildSchemaTree(snapshot *SchemaSnapshot) *TreeNode {
	rootLabel := "Database"
	if snapshot != nil && snapshot.Source != "" {
		rootLabel = snapshot.Source
	}

	root := NewTreeNode("root", TreeNodeTypeRoot, rootLabel)
	root.Expanded = true

	group := NewTreeNode("group:tables", TreeNodeTypeGroup, TablesGroupLabel)
	group.Expanded = true // always expanded
	root.AddChild(group)

	if snapshot == nil {
		return root
	}

	for _, table := range snapshot.Tables() {
		leaf := NewTreeNode(
			fmt.Sprintf("table:%s", table.QualifiedName()),
			TreeNodeTypeTable,
			table.Description,
		)
		leaf.Table = table
		group.AddChild(leaf)
	}

	return root
}

// TablesGroup returns the "Tables" group node of a tree built by BuildSchemaTree
func TablesGroup(root *TreeNode) *TreeNode {
	if root == nil {
		return nil
	}
	return root.FindByID("group:tables")
}
