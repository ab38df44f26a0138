package cli

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/xatlas-go/pkg/meshio"
)

// readAll parses every input with at most workers files open at once. The
// result is in argument order.
func (app *App) readAll(ctx context.Context, paths []string, workers int) ([][]*meshio.Mesh, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([][]*meshio.Mesh, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			meshes, err := meshio.ReadOBJFile(path)
			if err != nil {
				return err
			}
			app.log.Debug("read obj", zap.String("path", path), zap.Int("meshes", len(meshes)))
			out[i] = meshes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
