package mapengine

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var (
	colorButton       = color.RGBA{40, 40, 40, 220}
	colorButtonBorder = color.RGBA{150, 150, 150, 255}
	colorTooltip      = color.RGBA{0, 0, 0, 200}
)

func drawScene(dst *ebiten.Image, sc Scene, bg *ebiten.Image, face *text.GoTextFace) {
	dst.Fill(ColorOcean)

	if bg != nil {
		op := &ebiten.DrawImageOptions{}
		b := bg.Bounds()
		op.GeoM.Scale(float64(sc.Width)/float64(b.Dx()), float64(sc.Height)/float64(b.Dy()))
		op.Filter = ebiten.FilterLinear
		dst.DrawImage(bg, op)
	}

	for _, s := range sc.Grid {
		vector.StrokeLine(dst, float32(s.From.X), float32(s.From.Y), float32(s.To.X), float32(s.To.Y), 1, ColorGrid, false)
	}

	for _, tr := range sc.Trajectories {
		strokePath(dst, tr.Path, 4, ColorTrailWide)
		strokePath(dst, tr.Path, 2, ColorTrail)
		vector.DrawFilledCircle(dst, float32(tr.Marker.X), float32(tr.Marker.Y), 3, ColorMarker, true)
		vector.DrawFilledCircle(dst, float32(tr.From.X), float32(tr.From.Y), 4, ColorEndpoint, true)
		vector.DrawFilledCircle(dst, float32(tr.To.X), float32(tr.To.Y), 4, ColorEndpoint, true)
	}

	if face == nil {
		return
	}
	for _, l := range sc.Panel {
		drawLine(dst, l, face)
	}
	for _, l := range sc.Log {
		drawLine(dst, l, face)
	}
}

func strokePath(dst *ebiten.Image, path []Point, width float32, c color.Color) {
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		vector.StrokeLine(dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), width, c, true)
	}
}

// drawLine draws l with its baseline at l.Y.
func drawLine(dst *ebiten.Image, l TextLine, face *text.GoTextFace) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(l.X, l.Y-face.Metrics().HAscent)
	if l.AlignRight {
		op.PrimaryAlign = text.AlignEnd
	}
	op.ColorScale.ScaleWithColor(l.Color)
	text.Draw(dst, l.Text, face, op)
}

func drawButton(dst *ebiten.Image, label string, x, y, w, h float64, face *text.GoTextFace) {
	vector.DrawFilledRect(dst, float32(x), float32(y), float32(w), float32(h), colorButton, false)
	vector.StrokeRect(dst, float32(x), float32(y), float32(w), float32(h), 1, colorButtonBorder, false)
	if face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(x+w/2, y+h/2)
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	op.ColorScale.ScaleWithColor(ColorPanel)
	text.Draw(dst, label, face, op)
}

func drawTooltip(dst *ebiten.Image, s string, cx, cy float64, face *text.GoTextFace) {
	if face == nil {
		return
	}
	tw, th := text.Measure(s, face, 0)
	x, y := cx+14, cy+14
	if x+tw+8 > float64(dst.Bounds().Dx()) {
		x = cx - tw - 14
	}
	if y+th+6 > float64(dst.Bounds().Dy()) {
		y = cy - th - 14
	}
	vector.DrawFilledRect(dst, float32(x), float32(y), float32(tw+8), float32(th+6), colorTooltip, false)
	op := &text.DrawOptions{}
	op.GeoM.Translate(x+4, y+3)
	op.ColorScale.ScaleWithColor(ColorPanel)
	text.Draw(dst, s, face, op)
}
