package mapengine

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sort"

	geojson "github.com/paulmach/go.geojson"
)

var (
	ColorLand    = color.RGBA{34, 34, 34, 255}
	ColorOutline = color.RGBA{58, 58, 58, 255}
)

// RenderLandMap rasterizes the polygons of a GeoJSON feature collection onto
// an ocean-colored image of the given size. It stands in for the background
// image when none can be loaded.
func RenderLandMap(data []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid land map size %dx%d", width, height)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{ColorOcean}, image.Point{}, draw.Src)

	r := rasterizer{img: img, w: width, h: height}
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		switch {
		case f.Geometry.IsPolygon():
			r.polygon(f.Geometry.Polygon)
		case f.Geometry.IsMultiPolygon():
			for _, poly := range f.Geometry.MultiPolygon {
				r.polygon(poly)
			}
		}
	}
	return img, nil
}

type rasterizer struct {
	img  *image.RGBA
	w, h int
}

func (r *rasterizer) polygon(rings [][][]float64) {
	r.fill(rings, ColorLand)
	for _, ring := range rings {
		r.ring(ring, ColorOutline)
	}
}

// fill is an even-odd scanline fill over all rings of a polygon.
func (r *rasterizer) fill(rings [][][]float64, c color.RGBA) {
	if len(rings) == 0 {
		return
	}
	projected := make([][]Point, len(rings))
	minY, maxY := float64(r.h), 0.0
	for i, ring := range rings {
		projected[i] = make([]Point, 0, len(ring))
		for _, p := range ring {
			if len(p) < 2 {
				continue
			}
			pt := Project(p[1], p[0], r.w, r.h)
			projected[i] = append(projected[i], pt)
			minY = min(minY, pt.Y)
			maxY = max(maxY, pt.Y)
		}
	}
	var nodes []int
	for y := max(int(minY), 0); y <= min(int(maxY), r.h-1); y++ {
		nodes = nodes[:0]
		fy := float64(y)
		for _, ring := range projected {
			for i := range ring {
				a, b := ring[i], ring[(i+1)%len(ring)]
				if (a.Y < fy && b.Y >= fy) || (b.Y < fy && a.Y >= fy) {
					nodes = append(nodes, int(a.X+(fy-a.Y)/(b.Y-a.Y)*(b.X-a.X)))
				}
			}
		}
		sort.Ints(nodes)
		for i := 0; i+1 < len(nodes); i += 2 {
			xs, xe := max(nodes[i], 0), min(nodes[i+1], r.w-1)
			for x := xs; x < xe; x++ {
				r.set(x, y, c)
			}
		}
	}
}

func (r *rasterizer) ring(coords [][]float64, c color.RGBA) {
	for i := 0; i+1 < len(coords); i++ {
		if len(coords[i]) < 2 || len(coords[i+1]) < 2 {
			continue
		}
		a := Project(coords[i][1], coords[i][0], r.w, r.h)
		b := Project(coords[i+1][1], coords[i+1][0], r.w, r.h)
		r.line(int(a.X), int(a.Y), int(b.X), int(b.Y), c)
	}
}

// line is Bresenham with per-pixel bounds checks.
func (r *rasterizer) line(x1, y1, x2, y2 int, c color.RGBA) {
	dx, dy := abs(x2-x1), abs(y2-y1)
	sx, sy := -1, -1
	if x1 < x2 {
		sx = 1
	}
	if y1 < y2 {
		sy = 1
	}
	err := dx - dy
	for {
		r.set(x1, y1, c)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func (r *rasterizer) set(x, y int, c color.RGBA) {
	if x < 0 || x >= r.w || y < 0 || y >= r.h {
		return
	}
	off := y*r.img.Stride + x*4
	r.img.Pix[off], r.img.Pix[off+1], r.img.Pix[off+2], r.img.Pix[off+3] = c.R, c.G, c.B, 255
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
