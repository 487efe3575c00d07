package mapengine

import (
	"bytes"
	"image"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomono"
)

const (
	fontSize     = 13.0
	buttonWidth  = 180.0
	buttonHeight = 32.0
	buttonMargin = 12.0
	buttonLabel  = "SIMULATE ATTACK"
)

// Engine is the ebiten.Game that shows a Simulation. Ticks from the
// Scheduler only flip the dirty flag; Draw rebuilds the cached frame from a
// snapshot when it is set.
type Engine struct {
	Sim        *Simulation
	Style      Style
	CaptureDir string

	// Background is stretched over the viewport. Land is used when
	// Background is nil. With neither the ocean color shows through.
	Background image.Image
	Land       image.Image

	logger *slog.Logger

	width, height int
	dirty         atomic.Bool

	frame   *ebiten.Image
	bgImage *ebiten.Image
	bgReady bool

	monoSource *text.GoTextFaceSource
	face       *text.GoTextFace

	hover       string
	wantCapture bool

	nowPlaying   string
	nowPlayingMu sync.Mutex
}

func NewEngine(sim *Simulation, style Style, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{Sim: sim, Style: style, logger: logger}
	if m, err := text.NewGoTextFaceSource(bytes.NewReader(gomono.TTF)); err == nil {
		e.monoSource = m
		e.face = &text.GoTextFace{Source: m, Size: fontSize}
	} else {
		logger.Warn("Failed to load font", slog.Any("error", err))
	}
	e.dirty.Store(true)
	return e
}

// RequestRedraw marks the cached frame stale. Safe from any goroutine.
func (e *Engine) RequestRedraw() { e.dirty.Store(true) }

// SetNowPlaying changes the soundtrack line of the panel.
func (e *Engine) SetNowPlaying(title, artist string) {
	line := "Now playing: " + title
	if artist != "" {
		line += " - " + artist
	}
	e.nowPlayingMu.Lock()
	e.nowPlaying = line
	e.nowPlayingMu.Unlock()
	e.RequestRedraw()
}

func (e *Engine) panelStyle() Style {
	e.nowPlayingMu.Lock()
	defer e.nowPlayingMu.Unlock()
	if e.nowPlaying == "" {
		return e.Style
	}
	lines := make([]string, 0, len(e.Style.PanelLines)+1)
	lines = append(lines, e.Style.PanelLines...)
	return Style{PanelLines: append(lines, e.nowPlaying)}
}

// buttonRect is the on-screen trigger at the bottom edge.
func (e *Engine) buttonRect() (x, y, w, h float64) {
	return (float64(e.width) - buttonWidth) / 2, float64(e.height) - buttonHeight - buttonMargin, buttonWidth, buttonHeight
}

func (e *Engine) overButton(cx, cy int) bool {
	x, y, w, h := e.buttonRect()
	fx, fy := float64(cx), float64(cy)
	return fx >= x && fx < x+w && fy >= y && fy < y+h
}

func (e *Engine) Update() error {
	if e.width == 0 || e.height == 0 {
		return nil
	}
	cx, cy := ebiten.CursorPosition()

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		(inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && e.overButton(cx, cy)) {
		e.Sim.AddRandomAttack(SourceManual)
		e.RequestRedraw()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		e.wantCapture = true
	}

	if cx >= 0 && cy >= 0 && cx < e.width && cy < e.height {
		e.hover = HoverText(float64(cx), float64(cy), e.width, e.height)
	} else {
		e.hover = ""
	}
	return nil
}

func (e *Engine) Draw(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	if e.frame == nil || e.frame.Bounds().Dx() != w || e.frame.Bounds().Dy() != h {
		if e.frame != nil {
			e.frame.Deallocate()
		}
		e.frame = ebiten.NewImage(w, h)
		e.dirty.Store(true)
	}
	if e.dirty.Swap(false) {
		sc := BuildScene(w, h, e.Sim.Snapshot(), e.panelStyle())
		drawScene(e.frame, sc, e.background(), e.face)
	}
	screen.DrawImage(e.frame, nil)

	e.drawButton(screen)
	if e.hover != "" {
		cx, cy := ebiten.CursorPosition()
		drawTooltip(screen, e.hover, float64(cx), float64(cy), e.face)
	}

	if e.wantCapture {
		e.wantCapture = false
		e.captureFrame(screen)
	}
}

// Layout keeps the logical size equal to the window so the projection
// follows resizes.
func (e *Engine) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != e.width || outsideHeight != e.height {
		e.width, e.height = outsideWidth, outsideHeight
		e.RequestRedraw()
	}
	return outsideWidth, outsideHeight
}

func (e *Engine) background() *ebiten.Image {
	if e.bgReady {
		return e.bgImage
	}
	e.bgReady = true
	switch {
	case e.Background != nil:
		e.bgImage = ebiten.NewImageFromImage(e.Background)
	case e.Land != nil:
		e.bgImage = ebiten.NewImageFromImage(e.Land)
	}
	return e.bgImage
}

func (e *Engine) drawButton(screen *ebiten.Image) {
	x, y, w, h := e.buttonRect()
	drawButton(screen, buttonLabel, x, y, w, h, e.face)
}
