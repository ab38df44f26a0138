package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/xatlas-go/internal/progressbar"
	"github.com/Faultbox/xatlas-go/pkg/atlasimg"
	"github.com/Faultbox/xatlas-go/pkg/meshio"
	"github.com/Faultbox/xatlas-go/pkg/xatlas"
)

func (app *App) newUnwrapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unwrap <file.obj>...",
		Short: "Generate a UV atlas for each OBJ file",
		Long: `Generate a UV atlas for each OBJ file.

Every input is written as <name>.unwrapped.obj with one texture coordinate
per generated vertex. With --image the chart layout is also written as
<name>.atlas.png.`,
		Args: cobra.MinimumNArgs(1),
		RunE: app.unwrapHandler,
	}

	app.flags.BindOutput(cmd.Flags())
	return cmd
}

// unwrapResult is one row of the summary table.
type unwrapResult struct {
	input  string
	info   xatlas.Info
	output string
	images []string
}

func (app *App) unwrapHandler(cmd *cobra.Command, args []string) error {
	files, err := app.readAll(cmd.Context(), args, app.cfg.Output.Workers)
	if err != nil {
		return err
	}

	if app.cfg.Output.Dir != "" {
		if err := os.MkdirAll(app.cfg.Output.Dir, 0755); err != nil {
			return err
		}
	}

	// The engine is not safe for concurrent use, so inputs are generated
	// one at a time.
	var results []unwrapResult
	for i, meshes := range files {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		res, err := app.unwrapFile(args[i], meshes)
		if err != nil {
			return fmt.Errorf("%s: %w", args[i], err)
		}
		results = append(results, res)
	}

	var data [][]string
	for _, r := range results {
		data = append(data, []string{
			filepath.Base(r.input),
			strconv.Itoa(int(r.info.MeshCount)),
			strconv.Itoa(int(r.info.ChartCount)),
			strconv.Itoa(int(r.info.AtlasCount)),
			fmt.Sprintf("%dx%d", r.info.Width, r.info.Height),
			strings.Join(append([]string{r.output}, r.images...), " "),
		})
	}
	renderTable(app.Stdout, []string{"FILE", "MESHES", "CHARTS", "ATLASES", "SIZE", "OUTPUT"}, data)
	return nil
}

func (app *App) unwrapFile(input string, meshes []*meshio.Mesh) (unwrapResult, error) {
	opts := []xatlas.Option{xatlas.WithLogger(app.log.With(zap.String("file", filepath.Base(input))))}
	if app.Engine != nil {
		opts = append(opts, xatlas.WithEngine(app.Engine))
	}
	atlas := xatlas.New(opts...)
	defer atlas.Close()

	for _, m := range meshes {
		if err := atlas.AddMesh(m.Decl()); err != nil {
			return unwrapResult{}, fmt.Errorf("mesh %q: %w", m.Name, err)
		}
	}

	bar := progressbar.New(app.Stderr, filepath.Base(input))
	err := atlas.Generate(app.cfg.Chart, app.cfg.Pack, bar.Update)
	bar.Done()
	if err != nil {
		return unwrapResult{}, err
	}

	info, err := atlas.Info()
	if err != nil {
		return unwrapResult{}, err
	}
	out, err := atlas.Meshes()
	if err != nil {
		return unwrapResult{}, err
	}

	base := app.outputBase(input)
	res := unwrapResult{input: input, info: info, output: base + ".unwrapped.obj"}
	if err := meshio.WriteOBJFile(res.output, meshes, out, info.Width, info.Height); err != nil {
		return unwrapResult{}, err
	}

	if app.cfg.Output.Image {
		pages, err := atlasimg.Render(info, out, atlasimg.Options{MaxSize: app.cfg.Output.ImageMaxSize})
		if err != nil {
			return unwrapResult{}, err
		}
		res.images, err = atlasimg.SavePages(base+".atlas", pages)
		if err != nil {
			return unwrapResult{}, err
		}
	}

	app.log.Info("unwrapped",
		zap.String("input", input),
		zap.String("output", res.output),
		zap.Uint32("charts", info.ChartCount),
		zap.Uint32("width", info.Width),
		zap.Uint32("height", info.Height),
	)
	return res, nil
}

// outputBase returns the output path of input without extension.
func (app *App) outputBase(input string) string {
	dir := app.cfg.Output.Dir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	name := filepath.Base(input)
	return filepath.Join(dir, strings.TrimSuffix(name, filepath.Ext(name)))
}
