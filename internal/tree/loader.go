package tree

import (
	"context"

	"github.com/atomicstack/tmux-popup-cascade/internal/cascade"
	"golang.org/x/sync/singleflight"
)

// Loader fetches the children of the deepest option in a load request.
type Loader interface {
	Children(ctx context.Context, req cascade.LoadRequest) ([]*cascade.Option, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, req cascade.LoadRequest) ([]*cascade.Option, error)

func (f LoaderFunc) Children(ctx context.Context, req cascade.LoadRequest) ([]*cascade.Option, error) {
	return f(ctx, req)
}

type dedup struct {
	next  Loader
	group singleflight.Group
}

// Dedup collapses concurrent requests for the same path into one call to
// next. The selection core issues a fresh request on every click of a
// pending option, so repeated clicks during a slow load share a result.
func Dedup(next Loader) Loader {
	return &dedup{next: next}
}

func (d *dedup) Children(ctx context.Context, req cascade.LoadRequest) ([]*cascade.Option, error) {
	key := req.Path().String()
	v, err, _ := d.group.Do(key, func() (interface{}, error) {
		return d.next.Children(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	children, _ := v.([]*cascade.Option)
	return children, nil
}
