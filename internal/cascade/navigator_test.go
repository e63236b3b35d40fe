package cascade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func regions() Tree {
	return Tree{
		{Value: "CA", Label: "California", Children: []*Option{
			{Value: "LA", Label: "Los Angeles", IsLeaf: Bool(true)},
			{Value: "SF", Label: "San Francisco", IsLeaf: Bool(true)},
		}},
		{Value: "NY", Label: "New York", Children: []*Option{
			{Value: "NYC", Label: "New York City", Children: []*Option{
				{Value: "BK", Label: "Brooklyn"},
				{Value: "QN", Label: "Queens", Disabled: true},
			}},
		}},
		{Value: "TX", Label: "Texas", IsLeaf: Bool(false)},
		{Value: "WA", Label: "Washington", Children: []*Option{}},
	}
}

func values(options []*Option) []string {
	out := make([]string, len(options))
	for i, opt := range options {
		out[i] = opt.Value
	}
	return out
}

func TestMatchOptions(t *testing.T) {
	tree := regions()
	cases := []struct {
		name string
		path Path
		want []string
	}{
		{"empty path", nil, []string{}},
		{"root miss", Path{"ZZ"}, []string{}},
		{"single", Path{"CA"}, []string{"CA"}},
		{"full", Path{"NY", "NYC", "BK"}, []string{"NY", "NYC", "BK"}},
		{"stops at mismatch", Path{"CA", "XX", "YY"}, []string{"CA"}},
		{"stops at absent children", Path{"TX", "Austin"}, []string{"TX"}},
		{"stops below leaf", Path{"CA", "LA", "Downtown"}, []string{"CA", "LA"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, values(MatchOptions(tree, tc.path)))
		})
	}
}

func TestVisibleColumns(t *testing.T) {
	tree := regions()

	cols := VisibleColumns(tree, nil)
	require.Len(t, cols, 1)
	assert.Len(t, cols[0], 4)

	cols = VisibleColumns(tree, Path{"NY", "NYC"})
	require.Len(t, cols, 3)
	assert.Equal(t, []string{"NYC"}, values(cols[1]))
	assert.Equal(t, []string{"BK", "QN"}, values(cols[2]))

	// A leaf, a pending node, and an empty children list add no column.
	for _, p := range []Path{{"CA", "LA"}, {"TX"}, {"WA"}} {
		cols = VisibleColumns(tree, p)
		assert.Len(t, cols, len(MatchOptions(tree, p)), "path %v", p)
	}
}

func TestVisibleColumnsKeepsEmptyRoot(t *testing.T) {
	cols := VisibleColumns(Tree{}, Path{"anything"})
	require.Len(t, cols, 1)
	assert.Empty(t, cols[0])
}

func TestActiveIndexMatchesByDepth(t *testing.T) {
	tree := Tree{
		{Value: "a", Children: []*Option{{Value: "b"}, {Value: "a"}}},
		{Value: "b"},
	}
	path := Path{"a", "a"}
	cols := VisibleColumns(tree, path)
	require.Len(t, cols, 2)
	assert.Equal(t, 0, ActiveIndex(cols[0], path, 0))
	assert.Equal(t, 1, ActiveIndex(cols[1], path, 1))
	assert.Equal(t, -1, ActiveIndex(cols[1], path, 2))
	assert.Equal(t, -1, ActiveIndex(cols[0], path, -1))
}

func TestValid(t *testing.T) {
	tree := regions()
	assert.True(t, Valid(tree, nil))
	assert.True(t, Valid(tree, Path{"NY", "NYC", "QN"}))
	assert.False(t, Valid(tree, Path{"NY", "LA"}))
}

func TestWithChildrenCopiesAlongPath(t *testing.T) {
	tree := regions()
	loaded := []*Option{{Value: "AUS", Label: "Austin"}}

	next, err := WithChildren(tree, Path{"TX"}, loaded)
	require.NoError(t, err)

	assert.Nil(t, tree[2].Children, "original snapshot must not change")
	assert.Equal(t, []string{"AUS"}, values(next[2].Children))
	assert.Same(t, tree[0], next[0], "untouched siblings are shared")
	assert.NotSame(t, tree[2], next[2])

	cols := VisibleColumns(next, Path{"TX"})
	assert.Len(t, cols, 2)
}

func TestWithChildrenNested(t *testing.T) {
	tree := regions()
	next, err := WithChildren(tree, Path{"NY", "NYC", "BK"}, nil)
	require.NoError(t, err)
	bk := MatchOptions(next, Path{"NY", "NYC", "BK"})[2]
	assert.NotNil(t, bk.Children)
	assert.Empty(t, bk.Children)
	assert.Nil(t, MatchOptions(tree, Path{"NY", "NYC", "BK"})[2].Children)
}

func TestWithChildrenMissingPath(t *testing.T) {
	_, err := WithChildren(regions(), Path{"NY", "nope"}, nil)
	require.ErrorIs(t, err, ErrPathNotFound)

	_, err = WithChildren(regions(), nil, nil)
	require.ErrorIs(t, err, ErrPathNotFound)
}

func TestOptionShape(t *testing.T) {
	tree := regions()
	assert.True(t, tree[2].PendingChildren())
	assert.False(t, tree[0].PendingChildren())
	assert.False(t, tree[3].PendingChildren(), "empty children list is not pending")
	assert.False(t, tree[3].HasChildren())
	assert.Equal(t, "BK", (&Option{Value: "BK"}).DisplayLabel())
	assert.Equal(t, "CA/LA", Path{"CA", "LA"}.String())
}
