package mapengine

import (
	"image/color"
	"strings"
)

var (
	ColorOcean     = color.RGBA{18, 18, 18, 255}
	ColorGrid      = color.RGBA{80, 80, 80, 40}
	ColorTrailWide = color.RGBA{150, 150, 150, 70}
	ColorTrail     = color.RGBA{180, 180, 180, 200}
	ColorMarker    = color.RGBA{200, 200, 200, 240}
	ColorEndpoint  = color.RGBA{100, 100, 100, 200}
	ColorPanel     = color.RGBA{200, 200, 200, 255}
	ColorThreat    = color.RGBA{255, 150, 150, 255}
	ColorInvest    = color.RGBA{180, 255, 180, 255}
)

// DefaultPanelLines is the static top-right panel.
var DefaultPanelLines = []string{
	"=== SCP Threat Map ===",
	"Monitoring Global Anomalies",
	"Status: LIVE",
	"Feed: SCiPNET//OVERWATCH",
}

const (
	curveSegments = 48
	panelMargin   = 20.0
	panelSpacing  = 20.0
	logMargin     = 20.0
	logSpacing    = 18.0
)

// Segment is a straight line in pixel space.
type Segment struct {
	From, To Point
}

type Trajectory struct {
	ID     uint64
	Path   []Point
	Marker Point
	From   Point
	To     Point
}

// TextLine is a line of text anchored at its baseline. Right-aligned lines
// end at X; the drawing layer measures them.
type TextLine struct {
	Text       string
	X, Y       float64
	Color      color.RGBA
	AlignRight bool
}

// Scene is everything needed to draw one frame, in pixel space.
type Scene struct {
	Width, Height int
	Grid          []Segment
	Trajectories  []Trajectory
	Panel         []TextLine
	Log           []TextLine
}

// Style holds the per-run text content of a scene.
type Style struct {
	PanelLines []string
}

// BuildScene turns a frame into drawable geometry for a viewport. It does not
// touch the frame.
func BuildScene(width, height int, frame Frame, style Style) Scene {
	sc := Scene{Width: width, Height: height}

	for _, gl := range GridLines(width, height) {
		switch gl.Orientation {
		case Vertical:
			sc.Grid = append(sc.Grid, Segment{Point{gl.Offset, 0}, Point{gl.Offset, float64(height)}})
		case Horizontal:
			sc.Grid = append(sc.Grid, Segment{Point{0, gl.Offset}, Point{float64(width), gl.Offset}})
		}
	}

	sc.Trajectories = make([]Trajectory, 0, len(frame.Events))
	for _, ev := range frame.Events {
		from, ctrl, to := ev.Endpoints(width, height)
		sc.Trajectories = append(sc.Trajectories, Trajectory{
			ID:     ev.ID,
			Path:   Sample(from, ctrl, to, curveSegments),
			Marker: PointAt(from, ctrl, to, ev.Progress),
			From:   from,
			To:     to,
		})
	}

	for i, line := range style.PanelLines {
		sc.Panel = append(sc.Panel, TextLine{
			Text:       line,
			X:          float64(width) - panelMargin,
			Y:          panelMargin + panelSpacing*float64(i),
			Color:      ColorPanel,
			AlignRight: true,
		})
	}

	y := float64(height) - logMargin
	for _, entry := range frame.Logs {
		text := entry.String()
		if strings.TrimSpace(text) == "" {
			continue
		}
		sc.Log = append(sc.Log, TextLine{Text: text, X: logMargin, Y: y, Color: TintFor(entry.Kind)})
		y -= logSpacing
	}
	return sc
}

// TintFor picks the log line color for an entry kind.
func TintFor(k EntryKind) color.RGBA {
	if k == KindThreat {
		return ColorThreat
	}
	return ColorInvest
}
