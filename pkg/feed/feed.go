// Package feed drives the threat map from a remote websocket source. Each
// "attack" message becomes one manual trigger.
package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

// Attack is a decoded trigger. Random is set when the message carried no
// coordinates.
type Attack struct {
	FromLat, FromLon float64
	ToLat, ToLon     float64
	Random           bool
}

type AttackCallback func(a Attack)

type Listener struct {
	URL      string
	OnAttack AttackCallback
	Logger   *slog.Logger

	// MaxBackoff caps the reconnect delay.
	MaxBackoff time.Duration
}

func NewListener(url string, onAttack AttackCallback, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{URL: url, OnAttack: onAttack, Logger: logger, MaxBackoff: 60 * time.Second}
}

type message struct {
	Type string `json:"type"`
	Data *struct {
		From []float64 `json:"from"`
		To   []float64 `json:"to"`
	} `json:"data"`
	Error string `json:"error"`
}

// decode returns the attack carried by raw, if any.
func decode(raw []byte) (Attack, bool, error) {
	var msg message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return Attack{}, false, err
	}
	if msg.Type != "attack" {
		return Attack{}, false, nil
	}
	if msg.Data == nil || len(msg.Data.From) < 2 || len(msg.Data.To) < 2 {
		return Attack{Random: true}, true, nil
	}
	return Attack{
		FromLat: msg.Data.From[0], FromLon: msg.Data.From[1],
		ToLat: msg.Data.To[0], ToLon: msg.Data.To[1],
	}, true, nil
}

// Listen connects, reads messages and reconnects with exponential backoff
// until ctx is cancelled.
func (l *Listener) Listen(ctx context.Context) error {
	backoff := 1 * time.Second
	for {
		l.Logger.Info("Connecting to feed", slog.String("url", l.URL))
		c, _, err := websocket.DefaultDialer.DialContext(ctx, l.URL, nil)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			l.Logger.Warn("Dial error", slog.Any("error", err), slog.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return nil
			}
			backoff *= 2
			if backoff > l.MaxBackoff {
				backoff = l.MaxBackoff
			}
			continue
		}
		backoff = 1 * time.Second

		l.read(ctx, c)
		if ctx.Err() != nil {
			return nil
		}
		if !sleep(ctx, time.Second) {
			return nil
		}
	}
}

func (l *Listener) read(ctx context.Context, c *websocket.Conn) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = c.Close()
		case <-done:
		}
	}()
	defer c.Close()

	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				l.Logger.Warn("Read error, reconnecting", slog.Any("error", err))
			}
			return
		}
		a, ok, err := decode(raw)
		switch {
		case err != nil:
			l.Logger.Debug("Dropping malformed message", slog.Any("error", err))
		case ok:
			l.OnAttack(a)
		default:
			var msg message
			if json.Unmarshal(raw, &msg) == nil && msg.Type == "error" {
				l.Logger.Warn("Feed error", slog.String("error", msg.Error))
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
