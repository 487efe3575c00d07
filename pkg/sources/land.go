// Package sources loads the optional map assets: the background raster and
// the GeoJSON land outlines.
package sources

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/sudorandom/threat-map/pkg/utils"
)

// LoadImage decodes a PNG or JPEG from a local path or an http(s) URL.
func LoadImage(src, cacheDir string) (image.Image, error) {
	r, err := utils.Open(src, cacheDir, "[BACKGROUND]")
	if err != nil {
		return nil, fmt.Errorf("open background %q: %w", src, err)
	}
	defer r.Close()
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode background %q: %w", src, err)
	}
	return img, nil
}

// LoadGeoJSON reads a GeoJSON document from a local path or an http(s) URL.
// The literal "world" selects WorldGeoJSONURL.
func LoadGeoJSON(src, cacheDir string) ([]byte, error) {
	if src == "world" {
		src = WorldGeoJSONURL
	}
	r, err := utils.Open(src, cacheDir, "[LAND]")
	if err != nil {
		return nil, fmt.Errorf("open geojson %q: %w", src, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read geojson %q: %w", src, err)
	}
	return data, nil
}
