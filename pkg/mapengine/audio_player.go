package mapengine

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/go-mp3"
)

const (
	audioSampleRate = 44100
	audioFade       = 5 * time.Second
	audioRetry      = 5 * time.Second
)

// TrackCallback receives the title of the track that just started.
type TrackCallback func(title, artist string)

// AudioPlayer loops random mp3 files from a directory as an ambient
// soundtrack, fading each track out over its last seconds.
type AudioPlayer struct {
	Dir     string
	OnTrack TrackCallback
	Logger  *slog.Logger

	ctx *audio.Context
	rng *rand.Rand
}

func NewAudioPlayer(dir string, onTrack TrackCallback, logger *slog.Logger) *AudioPlayer {
	if logger == nil {
		logger = slog.Default()
	}
	return &AudioPlayer{
		Dir:     dir,
		OnTrack: onTrack,
		Logger:  logger,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run plays tracks until ctx is cancelled.
func (p *AudioPlayer) Run(ctx context.Context) error {
	for {
		tracks, err := findTracks(p.Dir)
		switch {
		case err != nil:
			p.Logger.Warn("Failed to read audio directory", slog.String("dir", p.Dir), slog.Any("error", err))
		case len(tracks) == 0:
			p.Logger.Info("No MP3 files found in audio directory", slog.String("dir", p.Dir))
		default:
			path := tracks[p.rng.Intn(len(tracks))]
			err := p.playTrack(ctx, path)
			if ctx.Err() != nil {
				return nil
			}
			if err == nil {
				continue
			}
			p.Logger.Warn("Failed to play track", slog.String("path", path), slog.Any("error", err))
		}
		if !waitFor(ctx, audioRetry) {
			return nil
		}
	}
}

func (p *AudioPlayer) playTrack(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var title, artist string
	if m, err := tag.ReadFrom(f); err == nil {
		title, artist = m.Title(), m.Artist()
	}
	if title == "" {
		title, artist = titleFromFilename(path)
	}
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}

	d, err := mp3.NewDecoder(f)
	if err != nil {
		return fmt.Errorf("decode mp3: %w", err)
	}
	if p.ctx == nil {
		p.ctx = audio.NewContext(audioSampleRate)
	}
	player, err := p.ctx.NewPlayer(d)
	if err != nil {
		return err
	}
	defer player.Close()

	if p.OnTrack != nil {
		p.OnTrack(title, artist)
	}
	player.Play()
	p.Logger.Info("Playing", slog.String("path", path), slog.String("title", title))

	// 16-bit stereo: 4 bytes per sample frame.
	duration := time.Duration(d.Length()) * time.Second / time.Duration(d.SampleRate()*4)
	start := time.Now()
	var stoppingAt time.Time
	done := ctx.Done()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for player.IsPlaying() {
		select {
		case <-done:
			stoppingAt = time.Now()
			done = nil
		case <-ticker.C:
		}
		vol := fadeVolume(duration-time.Since(start), stoppingAt)
		player.SetVolume(vol)
		if vol <= 0 {
			break
		}
	}
	return nil
}

// fadeVolume is 1 until the last audioFade of a track (or of a shutdown
// that began at stoppingAt), then ramps linearly to 0.
func fadeVolume(remaining time.Duration, stoppingAt time.Time) float64 {
	vol := 1.0
	if remaining <= audioFade {
		vol = float64(remaining) / float64(audioFade)
	}
	if !stoppingAt.IsZero() {
		stopVol := 1.0 - float64(time.Since(stoppingAt))/float64(audioFade)
		vol = min(vol, stopVol)
	}
	return max(vol, 0)
}

func findTracks(dir string) ([]string, error) {
	var tracks []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".mp3") {
			tracks = append(tracks, path)
		}
		return nil
	})
	return tracks, err
}

// titleFromFilename splits "Artist - Title.mp3".
func titleFromFilename(path string) (title, artist string) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if parts := strings.SplitN(name, " - ", 2); len(parts) == 2 {
		return parts[1], parts[0]
	}
	return name, ""
}

func waitFor(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
