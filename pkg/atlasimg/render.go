// Package atlasimg draws the chart layout of a generated atlas, one image
// per atlas page, each chart filled with its own color.
package atlasimg

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/Faultbox/xatlas-go/pkg/xatlas"
)

// ErrEmptyAtlas is returned when the atlas has no pages to draw.
var ErrEmptyAtlas = errors.New("atlas has no area")

// Options control rendering.
type Options struct {
	// MaxSize caps the longest side of every page in pixels; larger pages are
	// scaled down. Zero keeps the atlas resolution.
	MaxSize int

	// Background fills pixels no chart covers.
	Background color.RGBA
}

// Render rasterizes every chart triangle into its atlas page. Pages are
// allocated at the final size; UVs are scaled down when MaxSize applies.
func Render(info xatlas.Info, meshes []xatlas.Mesh, opts Options) ([]*image.RGBA, error) {
	if info.Width == 0 || info.Height == 0 || info.AtlasCount == 0 {
		return nil, ErrEmptyAtlas
	}

	w, h := fitSize(int(info.Width), int(info.Height), opts.MaxSize)
	sx := float32(w) / float32(info.Width)
	sy := float32(h) / float32(info.Height)

	pages := make([]*image.RGBA, info.AtlasCount)
	for i := range pages {
		pages[i] = image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(pages[i], pages[i].Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
	}

	r := vector.NewRasterizer(w, h)
	chart := 0
	for _, m := range meshes {
		verts := m.Vertices.Copy()
		for _, c := range m.Charts {
			if int(c.AtlasIndex) < len(pages) {
				fill := image.NewUniform(ChartColor(chart))
				indices := c.Indices.Copy()
				for f := 0; f+2 < len(indices); f += 3 {
					a, b, cc := indices[f], indices[f+1], indices[f+2]
					if int(max(a, b, cc)) >= len(verts) {
						return nil, fmt.Errorf("chart %d: index outside %d vertices", chart, len(verts))
					}
					r.Reset(w, h)
					r.MoveTo(verts[a].UV[0]*sx, verts[a].UV[1]*sy)
					r.LineTo(verts[b].UV[0]*sx, verts[b].UV[1]*sy)
					r.LineTo(verts[cc].UV[0]*sx, verts[cc].UV[1]*sy)
					r.ClosePath()
					r.Draw(pages[c.AtlasIndex], pages[c.AtlasIndex].Bounds(), fill, image.Point{})
				}
			}
			chart++
		}
	}
	return pages, nil
}

// fitSize shrinks w x h so the longest side is at most maxSize, keeping the
// aspect ratio. maxSize <= 0 means no limit.
func fitSize(w, h, maxSize int) (int, int) {
	if maxSize <= 0 || max(w, h) <= maxSize {
		return w, h
	}
	if w > h {
		return maxSize, max(1, int(int64(maxSize)*int64(h)/int64(w)))
	}
	return max(1, int(int64(maxSize)*int64(w)/int64(h))), maxSize
}

// ChartColor returns the fill color of the i-th chart. Hues follow the
// golden angle so neighbouring charts stay distinguishable.
func ChartColor(i int) color.RGBA {
	hue := math.Mod(float64(i)*137.508, 360)
	return hsv(hue, 0.65, 0.95)
}

func hsv(h, s, v float64) color.RGBA {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return color.RGBA{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
		A: 255,
	}
}

// PageName returns the file name for one page: base.png for a single page,
// base-N.png otherwise. A ".png" suffix on base is dropped first.
func PageName(base string, page, pages int) string {
	base = strings.TrimSuffix(base, ".png")
	if pages <= 1 {
		return base + ".png"
	}
	return fmt.Sprintf("%s-%d.png", base, page)
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// SavePages writes every page next to base and returns the paths written.
func SavePages(base string, pages []*image.RGBA) ([]string, error) {
	paths := make([]string, 0, len(pages))
	for i, p := range pages {
		path := PageName(base, i, len(pages))
		f, err := os.Create(path)
		if err != nil {
			return paths, err
		}
		if err := WritePNG(f, p); err != nil {
			f.Close()
			return paths, fmt.Errorf("encoding %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
