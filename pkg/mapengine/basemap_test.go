package mapengine

import (
	"image/color"
	"testing"
)

const squareGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "square"},
     "geometry": {"type": "Polygon", "coordinates": [[[-90, 0], [0, 0], [0, 45], [-90, 45], [-90, 0]]]}},
    {"type": "Feature", "properties": {"name": "nothing"}, "geometry": null}
  ]
}`

func TestRenderLandMap(t *testing.T) {
	img, err := RenderLandMap([]byte(squareGeoJSON), 360, 180)
	if err != nil {
		t.Fatalf("RenderLandMap: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 360 || b.Dy() != 180 {
		t.Fatalf("bounds = %v", b)
	}

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"inside", 135, 67, ColorLand},
		{"ocean", 300, 150, ColorOcean},
		{"west edge", 90, 60, ColorOutline},
		{"north edge", 120, 45, ColorOutline},
	}
	for _, tt := range tests {
		if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("%s: pixel (%d,%d) = %v, want %v", tt.name, tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRenderLandMapErrors(t *testing.T) {
	if _, err := RenderLandMap([]byte(squareGeoJSON), 0, 10); err == nil {
		t.Error("expected error for zero width")
	}
	if _, err := RenderLandMap([]byte("not json"), 10, 10); err == nil {
		t.Error("expected error for invalid geojson")
	}
}
