package mapengine

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// SaveFrame writes img as a timestamped PNG in dir and returns its path.
func SaveFrame(dir string, img image.Image, timestamp time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create capture directory: %w", err)
	}
	name := fmt.Sprintf("threatmap-%s.png", timestamp.Format("20060102-150405.000"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create capture file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("encode capture: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close capture file: %w", err)
	}
	return path, nil
}

// captureFrame copies the GPU image to memory and encodes it off the render
// goroutine.
func (e *Engine) captureFrame(img *ebiten.Image) {
	if e.CaptureDir == "" {
		return
	}
	rgba := image.NewRGBA(img.Bounds())
	img.ReadPixels(rgba.Pix)

	dir, now := e.CaptureDir, time.Now()
	go func() {
		path, err := SaveFrame(dir, rgba, now)
		if err != nil {
			e.logger.Warn("Frame capture failed", slog.Any("error", err))
			return
		}
		e.logger.Info("Captured frame", slog.String("path", path))
	}()
}
