package atlasimg

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/xatlas-go/pkg/xatlas"
	"github.com/Faultbox/xatlas-go/pkg/xatlas/xatlastest"
)

func generated(t *testing.T, decls ...*xatlas.MeshDecl) (xatlas.Info, []xatlas.Mesh) {
	t.Helper()

	a := xatlas.New(xatlas.WithEngine(xatlastest.New()))
	t.Cleanup(func() { a.Close() })
	for _, d := range decls {
		require.NoError(t, a.AddMesh(d))
	}
	require.NoError(t, a.Generate(xatlas.DefaultChartOptions(), xatlas.DefaultPackOptions(), nil))

	info, err := a.Info()
	require.NoError(t, err)
	meshes, err := a.Meshes()
	require.NoError(t, err)
	return info, meshes
}

func triangle() *xatlas.MeshDecl {
	return xatlas.NewMeshDeclFloat32([]float32{
		0, 0, 0,
		0, 1, 1,
		0, 1, 0,
	}, []uint32{0, 1, 2})
}

func TestRender(t *testing.T) {
	info, meshes := generated(t, triangle())
	bg := color.RGBA{A: 255}

	pages, err := Render(info, meshes, Options{Background: bg})
	require.NoError(t, err)
	require.Len(t, pages, 1)

	p := pages[0]
	assert.Equal(t, int(info.Width), p.Bounds().Dx())
	assert.Equal(t, int(info.Height), p.Bounds().Dy())

	// The chart spans the half of the cell below its diagonal.
	assert.Equal(t, ChartColor(0), p.RGBAAt(50, 10))
	assert.Equal(t, bg, p.RGBAAt(10, 50))
}

func TestRenderDistinctCharts(t *testing.T) {
	info, meshes := generated(t, triangle(), triangle())

	pages, err := Render(info, meshes, Options{})
	require.NoError(t, err)

	// Second chart sits in the second 64 pixel cell.
	assert.Equal(t, ChartColor(0), pages[0].RGBAAt(50, 10))
	assert.Equal(t, ChartColor(1), pages[0].RGBAAt(64+50, 10))
	assert.NotEqual(t, ChartColor(0), ChartColor(1))
}

func TestRenderScalesDown(t *testing.T) {
	info, meshes := generated(t, triangle(), triangle())

	pages, err := Render(info, meshes, Options{MaxSize: 32})
	require.NoError(t, err)

	assert.Equal(t, 32, pages[0].Bounds().Dx())
	assert.Equal(t, 16, pages[0].Bounds().Dy())

	// Same layout as TestRenderDistinctCharts at a quarter of the size.
	assert.Equal(t, ChartColor(0), pages[0].RGBAAt(12, 2))
	assert.Equal(t, ChartColor(1), pages[0].RGBAAt(28, 2))
}

func TestRenderHugeAtlasAllocatesCappedPages(t *testing.T) {
	_, meshes := generated(t, triangle())
	info := xatlas.Info{Width: 1 << 20, Height: 1 << 19, AtlasCount: 4}

	pages, err := Render(info, meshes, Options{MaxSize: 64})
	require.NoError(t, err)
	require.Len(t, pages, 4)
	for _, p := range pages {
		assert.Equal(t, 64, p.Bounds().Dx())
		assert.Equal(t, 32, p.Bounds().Dy())
	}
}

func TestFitSize(t *testing.T) {
	tests := []struct {
		w, h, maxSize int
		wantW, wantH  int
	}{
		{128, 64, 0, 128, 64},
		{128, 64, 256, 128, 64},
		{128, 64, 32, 32, 16},
		{64, 128, 32, 16, 32},
		{4096, 1, 64, 64, 1},
	}
	for _, tt := range tests {
		w, h := fitSize(tt.w, tt.h, tt.maxSize)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("fitSize(%d, %d, %d) = %dx%d, want %dx%d", tt.w, tt.h, tt.maxSize, w, h, tt.wantW, tt.wantH)
		}
	}
}

func TestRenderEmpty(t *testing.T) {
	_, err := Render(xatlas.Info{}, nil, Options{})
	assert.ErrorIs(t, err, ErrEmptyAtlas)
}

func TestChartColorOpaque(t *testing.T) {
	for i := 0; i < 64; i++ {
		assert.Equal(t, uint8(255), ChartColor(i).A)
	}
	assert.Equal(t, ChartColor(5), ChartColor(5))
}

func TestPageName(t *testing.T) {
	tests := []struct {
		base        string
		page, pages int
		want        string
	}{
		{"out/model.atlas", 0, 1, "out/model.atlas.png"},
		{"out/model.atlas.png", 0, 1, "out/model.atlas.png"},
		{"model", 0, 3, "model-0.png"},
		{"model", 2, 3, "model-2.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PageName(tt.base, tt.page, tt.pages))
	}
}

func TestSavePages(t *testing.T) {
	info, meshes := generated(t, triangle())
	pages, err := Render(info, meshes, Options{})
	require.NoError(t, err)

	base := filepath.Join(t.TempDir(), "tri.atlas")
	paths, err := SavePages(base, pages)
	require.NoError(t, err)
	require.Equal(t, []string{base + ".png"}, paths)

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, pages[0].Bounds(), img.Bounds())
}
