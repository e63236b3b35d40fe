package dispatcher

import (
	"testing"

	"github.com/atomicstack/tmux-popup-cascade/internal/backend"
	"github.com/atomicstack/tmux-popup-cascade/internal/cascade"
	"github.com/atomicstack/tmux-popup-cascade/internal/tree"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() cascade.Tree {
	return cascade.Tree{
		{Value: "TX", IsLeaf: cascade.Bool(false)},
		{Value: "CA", Children: []*cascade.Option{{Value: "LA"}}},
	}
}

func loaded(values ...string) backend.Event {
	opts := make([]*cascade.Option, len(values))
	for i, v := range values {
		opts[i] = &cascade.Option{Value: v}
	}
	return backend.Event{
		Kind:     backend.KindChildren,
		Request:  cascade.LoadRequest{ID: "req", Options: []*cascade.Option{{Value: "TX"}}},
		Children: opts,
	}
}

func TestHandleAttachesChildren(t *testing.T) {
	current := fixture()
	res := New().Handle(current, loaded("AUS", "DAL"))
	require.NoError(t, res.Err)
	assert.True(t, res.Updated)
	assert.Len(t, cascade.VisibleColumns(res.Tree, cascade.Path{"TX"}), 2)
	assert.Nil(t, current[0].Children)
}

func TestHandleDropsStaleResults(t *testing.T) {
	d := New()
	first := d.Handle(fixture(), loaded("AUS"))
	require.True(t, first.Updated)

	again := d.Handle(first.Tree, loaded("AUS"))
	assert.True(t, again.Stale, "a second result for a loaded option is stale")
	assert.False(t, again.Updated)

	gone := d.Handle(cascade.Tree{{Value: "CA"}}, loaded("AUS"))
	assert.True(t, gone.Stale)
}

func TestHandleRejectsInvalidChildren(t *testing.T) {
	res := New().Handle(fixture(), loaded("x", "x"))
	require.Error(t, res.Err)
	assert.True(t, errors.Is(res.Err, tree.ErrInvalidTree))
	assert.False(t, res.Updated)
}

func TestHandlePropagatesErrors(t *testing.T) {
	current := fixture()
	evt := loaded()
	evt.Err = errors.New("backend down")
	res := New().Handle(current, evt)
	require.EqualError(t, res.Err, "backend down")
	assert.Equal(t, current, res.Tree)
}

func TestHandleReplacesTree(t *testing.T) {
	next := cascade.Tree{{Value: "NY"}}
	res := New().Handle(fixture(), backend.Event{Kind: backend.KindTree, Tree: next})
	assert.True(t, res.Updated)
	assert.Equal(t, next, res.Tree)
}
