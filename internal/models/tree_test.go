package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *SchemaSnapshot {
	snap := NewSchemaSnapshot("sqlite: chinook.db")
	snap.Add(&TableDescriptor{
		Name:        "albums",
		Description: "albums",
		Columns: []ColumnDescriptor{
			NewColumnDescriptor("id", "INTEGER", 0),
			NewColumnDescriptor("title", "TEXT", 1),
		},
	})
	snap.Add(&TableDescriptor{
		Name:        "artists",
		Description: "artists",
		Columns: []ColumnDescriptor{
			NewColumnDescriptor("id", "INTEGER", 0),
			NewColumnDescriptor("name", "TEXT", 1),
		},
	})
	snap.Add(&TableDescriptor{
		Schema:      "sales",
		Name:        "invoices",
		Description: "sales.invoices",
		Columns:     []ColumnDescriptor{NewColumnDescriptor("id", "bigint", 0)},
	})
	return snap
}

func TestBuildSchemaTree_Shape(t *testing.T) {
	snap := testSnapshot()
	root := BuildSchemaTree(snap)

	assert.Equal(t, TreeNodeTypeRoot, root.Type)
	assert.Equal(t, "sqlite: chinook.db", root.Label)
	require.Len(t, root.Children, 1)

	group := root.Children[0]
	assert.Equal(t, TablesGroupLabel, group.Label)
	assert.Equal(t, TreeNodeTypeGroup, group.Type)
	assert.True(t, group.Expanded)
	assert.Same(t, group, TablesGroup(root))

	leaves := root.Leaves()
	require.Len(t, leaves, snap.Len())
	for i, table := range snap.Tables() {
		assert.Equal(t, table.Description, leaves[i].Label)
		assert.Equal(t, table.Description, leaves[i].DisplayLabel())
		assert.Same(t, table, leaves[i].Table)
		assert.False(t, leaves[i].Active)
		assert.Same(t, group, leaves[i].Parent)
	}
}

func TestBuildSchemaTree_Empty(t *testing.T) {
	root := BuildSchemaTree(NewSchemaSnapshot(""))

	assert.Equal(t, "Database", root.Label)
	assert.Empty(t, root.Leaves())
	assert.Len(t, root.Flatten(), 2)
}

func TestBuildSchemaTree_NilSnapshot(t *testing.T) {
	root := BuildSchemaTree(nil)
	require.NotNil(t, TablesGroup(root))
	assert.Empty(t, root.Leaves())
}

func TestTreeNode_Flatten(t *testing.T) {
	root := BuildSchemaTree(testSnapshot())

	ids := make([]string, 0)
	for _, n := range root.Flatten() {
		ids = append(ids, n.ID)
	}

	assert.Equal(t, []string{
		"root",
		"group:tables",
		"table:albums",
		"table:artists",
		"table:sales.invoices",
	}, ids)
}

func TestTreeNode_FlattenFiltered(t *testing.T) {
	root := BuildSchemaTree(testSnapshot())

	visible := root.FlattenFiltered(func(n *TreeNode) bool {
		return n.Table.Name == "artists"
	})

	require.Len(t, visible, 3)
	assert.Equal(t, "root", visible[0].ID)
	assert.Equal(t, "group:tables", visible[1].ID)
	assert.Equal(t, "table:artists", visible[2].ID)
}

func TestTreeNode_GetDepth(t *testing.T) {
	root := BuildSchemaTree(testSnapshot())

	assert.Equal(t, 0, root.GetDepth())
	assert.Equal(t, 1, TablesGroup(root).GetDepth())
	assert.Equal(t, 2, root.FindByID("table:albums").GetDepth())
	assert.Nil(t, root.FindByID("table:missing"))
}

func TestTreeNode_DisplayLabelDoesNotTouchDescriptor(t *testing.T) {
	root := BuildSchemaTree(testSnapshot())
	leaf := root.FindByID("table:albums")

	leaf.Active = true
	assert.Equal(t, ActiveMarker+"albums", leaf.DisplayLabel())
	assert.Equal(t, "albums", leaf.Label)
	assert.Equal(t, "albums", leaf.Table.Description)
}
