package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/xatlas-go/internal/config"
	"github.com/Faultbox/xatlas-go/pkg/meshio"
	"github.com/Faultbox/xatlas-go/pkg/xatlas/xatlastest"
)

const cubeOBJ = `o cube
v -1 -1 -1
v 1 -1 -1
v 1 1 -1
v -1 1 -1
v -1 -1 1
v 1 -1 1
v 1 1 1
v -1 1 1
f 1 2 3 4
f 5 8 7 6
f 1 5 6 2
f 2 6 7 3
f 3 7 8 4
f 5 1 4 8
`

const trianglesOBJ = `o a
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
o b
v 0 0 1
v 1 0 1
v 0 1 1
vt 0 0
f 4/1 5/1 6/1
`

// workspace isolates a test from any user config and returns a directory
// holding the named OBJ files.
func workspace(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))

	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

type run struct {
	engine *xatlastest.Engine
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func execute(t *testing.T, args ...string) (*run, error) {
	t.Helper()

	r := &run{engine: xatlastest.New()}
	cmd := NewWithApp(&App{Engine: r.engine, Stdout: &r.stdout, Stderr: &r.stderr})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return r, err
}

func TestUnwrap(t *testing.T) {
	dir := workspace(t, map[string]string{"cube.obj": cubeOBJ, "tris.obj": trianglesOBJ})

	r, err := execute(t, "unwrap", "cube.obj", "tris.obj")
	require.NoError(t, err, r.stderr.String())

	out := r.stdout.String()
	assert.Contains(t, out, "FILE")
	assert.Contains(t, out, "cube.obj")
	assert.Contains(t, out, "tris.unwrapped.obj")

	meshes, err := meshio.ReadOBJFile(filepath.Join(dir, "cube.unwrapped.obj"))
	require.NoError(t, err)
	require.Len(t, meshes, 1)
	assert.Equal(t, "cube", meshes[0].Name)
	assert.Equal(t, 12, meshes[0].FaceCount())
	assert.NotEmpty(t, meshes[0].UVs)

	meshes, err = meshio.ReadOBJFile(filepath.Join(dir, "tris.unwrapped.obj"))
	require.NoError(t, err)
	assert.Len(t, meshes, 2)

	assert.Equal(t, 2, r.engine.Created())
	assert.Equal(t, 0, r.engine.Live(), "every atlas is closed")
	assert.Contains(t, r.stderr.String(), "Building output meshes")
}

func TestUnwrapOutputDirAndImage(t *testing.T) {
	dir := workspace(t, map[string]string{"cube.obj": cubeOBJ})

	r, err := execute(t, "unwrap", "--out", "build", "--image", "--padding", "2", "cube.obj")
	require.NoError(t, err, r.stderr.String())

	_, err = os.Stat(filepath.Join(dir, "build", "cube.unwrapped.obj"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "build", "cube.atlas.png"))
	assert.NoError(t, err)
	assert.Contains(t, r.stdout.String(), "cube.atlas.png")
}

func TestUnwrapUsesConfigFile(t *testing.T) {
	dir := workspace(t, map[string]string{
		"cube.obj":       cubeOBJ,
		"atlastool.yaml": "output:\n  dir: fromconfig\n",
	})

	r, err := execute(t, "unwrap", "cube.obj")
	require.NoError(t, err, r.stderr.String())

	_, err = os.Stat(filepath.Join(dir, "fromconfig", "cube.unwrapped.obj"))
	assert.NoError(t, err)
}

func TestUnwrapMissingInput(t *testing.T) {
	workspace(t, nil)

	r, err := execute(t, "unwrap", "missing.obj")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, 0, r.engine.Created())
}

func TestUnwrapBadOBJ(t *testing.T) {
	workspace(t, map[string]string{"bad.obj": "v 0 0 0\nf 1 2 3\n"})

	_, err := execute(t, "unwrap", "bad.obj")
	var perr *meshio.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
}

func TestUnwrapRequiresInput(t *testing.T) {
	workspace(t, nil)

	_, err := execute(t, "unwrap")
	assert.Error(t, err)
}

func TestInfo(t *testing.T) {
	workspace(t, map[string]string{"tris.obj": trianglesOBJ})

	r, err := execute(t, "info", "tris.obj")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(r.stdout.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "VERTICES")
	assert.Regexp(t, `tris\.obj\s+a\s+3\s+1\s+no\s+no\s+uint16`, lines[1])
	assert.Regexp(t, `tris\.obj\s+b\s+3\s+1\s+no\s+yes\s+uint16`, lines[2])
	assert.Equal(t, 0, r.engine.Created(), "info never creates an atlas")
}

func TestConfigShow(t *testing.T) {
	workspace(t, nil)

	r, err := execute(t, "--debug", "config", "show")
	require.NoError(t, err)

	out := r.stdout.String()
	assert.Contains(t, out, "level: debug")
	assert.Contains(t, out, "attempts: 4096")
}

func TestConfigSave(t *testing.T) {
	dir := workspace(t, nil)
	path := filepath.Join(dir, "saved.yaml")

	r, err := execute(t, "config", "save", path)
	require.NoError(t, err)
	assert.Equal(t, path, strings.TrimSpace(r.stdout.String()))

	cfg, err := config.Load(&config.Flags{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestInvalidConfigFails(t *testing.T) {
	workspace(t, map[string]string{"atlastool.yaml": "logging:\n  format: xml\n"})

	_, err := execute(t, "config", "show")
	assert.ErrorIs(t, err, config.ErrInvalid)
}
