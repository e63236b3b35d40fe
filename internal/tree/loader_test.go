package tree

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/atomicstack/tmux-popup-cascade/internal/cascade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func request(values ...string) cascade.LoadRequest {
	opts := make([]*cascade.Option, len(values))
	for i, v := range values {
		opts[i] = &cascade.Option{Value: v}
	}
	return cascade.LoadRequest{ID: "test", Options: opts}
}

func TestDirLoader(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "pkg"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("hi"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".hidden"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "main.go"), nil, 0o644))

	loader := DirLoader{Root: root}
	roots, err := loader.Roots(context.Background())
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, "src", roots[0].Value, "directories sort first")
	assert.Equal(t, "src/", roots[0].Label)
	assert.True(t, roots[0].PendingChildren())
	assert.Equal(t, "README.md", roots[1].Value)
	assert.True(t, *roots[1].IsLeaf)

	children, err := loader.Children(context.Background(), request("src"))
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "pkg", children[0].Value)
	assert.Equal(t, "main.go", children[1].Value)

	_, err = loader.Children(context.Background(), request(".."))
	assert.Error(t, err)

	hidden := DirLoader{Root: root, ShowHidden: true}
	roots, err = hidden.Roots(context.Background())
	require.NoError(t, err)
	assert.Len(t, roots, 3)
}

func TestSQLiteLoader(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "tree.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Insert(ctx, nil, cascade.Option{Value: "NY", Label: "New York"}, 1))
	require.NoError(t, db.Insert(ctx, nil, cascade.Option{Value: "CA", Label: "California"}, 0))
	require.NoError(t, db.Insert(ctx, nil, cascade.Option{Value: "TX", IsLeaf: cascade.Bool(false)}, 2))
	require.NoError(t, db.Insert(ctx, cascade.Path{"CA"}, cascade.Option{Value: "LA"}, 0))
	require.NoError(t, db.Insert(ctx, cascade.Path{"CA"}, cascade.Option{Value: "SF", Disabled: true}, 1))

	roots, err := db.Roots(ctx)
	require.NoError(t, err)
	require.Len(t, roots, 3)
	assert.Equal(t, []string{"CA", "NY", "TX"}, []string{roots[0].Value, roots[1].Value, roots[2].Value})
	assert.True(t, roots[0].PendingChildren(), "rows with children load lazily")
	assert.False(t, roots[1].PendingChildren(), "rows without children are leaves")
	assert.True(t, roots[2].PendingChildren(), "explicit is_leaf wins")
	assert.Equal(t, "TX", roots[2].Label)

	children, err := db.Children(ctx, request("CA"))
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "LA", children[0].Value)
	assert.True(t, children[1].Disabled)

	children, err = db.Children(ctx, request("TX"))
	require.NoError(t, err)
	assert.Empty(t, children)

	_, err = db.Children(ctx, request("CA", "nope"))
	require.ErrorIs(t, err, ErrUnknownValue)
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	_, err := OpenSQLite("  ")
	assert.Error(t, err)
}

func TestExecLoader(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	loader := ExecLoader{Command: []string{"sh", "-c", `printf '[{"value":"%s-%s"}]' "$1" "$2"`, "sh"}}
	children, err := loader.Children(context.Background(), request("NY", "NYC"))
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "NY-NYC", children[0].Value)

	failing := ExecLoader{Command: []string{"sh", "-c", "echo boom >&2; exit 3"}}
	_, err = failing.Children(context.Background(), request("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	_, err = ExecLoader{}.Children(context.Background(), request("x"))
	assert.Error(t, err)
}

func TestParseCommand(t *testing.T) {
	assert.Equal(t, []string{"list-children", "--json"}, ParseCommand("  list-children   --json "))
}

func TestDedupSharesInFlightLoads(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	slow := LoaderFunc(func(ctx context.Context, req cascade.LoadRequest) ([]*cascade.Option, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []*cascade.Option{{Value: "child"}}, nil
	})
	loader := Dedup(slow)

	var wg sync.WaitGroup
	results := make([][]*cascade.Option, 4)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			children, err := loader.Children(context.Background(), request("TX"))
			assert.NoError(t, err)
			results[i] = children
		}(i)
	}
	// give every goroutine time to join the in-flight call
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, children := range results {
		require.Len(t, children, 1)
		assert.Equal(t, "child", children[0].Value)
	}
}
