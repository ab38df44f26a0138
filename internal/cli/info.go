package cli

import (
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
)

func (app *App) newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file.obj>...",
		Short: "Show the meshes of OBJ files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  app.infoHandler,
	}
}

func (app *App) infoHandler(cmd *cobra.Command, args []string) error {
	files, err := app.readAll(cmd.Context(), args, app.cfg.Output.Workers)
	if err != nil {
		return err
	}

	var data [][]string
	for i, meshes := range files {
		for _, m := range meshes {
			d := m.Decl()
			data = append(data, []string{
				filepath.Base(args[i]),
				m.Name,
				strconv.Itoa(m.VertexCount()),
				strconv.Itoa(m.FaceCount()),
				yesNo(len(m.Normals) > 0),
				yesNo(len(m.UVs) > 0),
				d.IndexFormat.String(),
			})
		}
	}

	renderTable(app.Stdout, []string{"FILE", "OBJECT", "VERTICES", "FACES", "NORMALS", "UVS", "INDICES"}, data)
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
