package mapengine

import "fmt"

// Point is a position in viewport pixel space.
type Point struct {
	X, Y float64
}

type Orientation int

const (
	Vertical Orientation = iota
	Horizontal
)

// GridLine is one graticule line. Offset is an x pixel for Vertical lines
// and a y pixel for Horizontal lines.
type GridLine struct {
	Orientation Orientation
	Offset      float64
}

const graticuleStep = 30

// Project maps lat/lon degrees onto an equirectangular viewport of the given
// size. Inputs outside [-90,90]/[-180,180] are not clamped and land outside
// the viewport.
func Project(lat, lon float64, width, height int) Point {
	return Point{
		X: (lon + 180.0) / 360.0 * float64(width),
		Y: (90.0 - lat) / 180.0 * float64(height),
	}
}

// Unproject is the inverse of Project.
func Unproject(x, y float64, width, height int) (lat, lon float64) {
	lon = x/float64(width)*360.0 - 180.0
	lat = 90.0 - y/float64(height)*180.0
	return lat, lon
}

// GridLines returns vertical lines every 30 degrees of longitude followed by
// horizontal lines every 30 degrees of latitude.
func GridLines(width, height int) []GridLine {
	lines := make([]GridLine, 0, 13+7)
	for lon := -180; lon <= 180; lon += graticuleStep {
		lines = append(lines, GridLine{Orientation: Vertical, Offset: Project(0, float64(lon), width, height).X})
	}
	for lat := -90; lat <= 90; lat += graticuleStep {
		lines = append(lines, GridLine{Orientation: Horizontal, Offset: Project(float64(lat), 0, width, height).Y})
	}
	return lines
}

// HoverText formats the coordinates under a pointer position.
func HoverText(x, y float64, width, height int) string {
	lat, lon := Unproject(x, y, width, height)
	return fmt.Sprintf("Lat: %.2f, Lon: %.2f", lat, lon)
}
