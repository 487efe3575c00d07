package main

import (
	"context"
	"image"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/hajimehoshi/ebiten/v2"
	_ "github.com/silbinarywolf/preferdiscretegpu"
	"golang.org/x/sync/errgroup"

	"github.com/sudorandom/threat-map/pkg/config"
	"github.com/sudorandom/threat-map/pkg/feed"
	tmlog "github.com/sudorandom/threat-map/pkg/log"
	"github.com/sudorandom/threat-map/pkg/mapengine"
	"github.com/sudorandom/threat-map/pkg/metrics"
	"github.com/sudorandom/threat-map/pkg/sources"
)

type CLI struct {
	Config string `help:"YAML configuration file." type:"existingfile"`

	Width      int    `help:"Initial window width."`
	Height     int    `help:"Initial window height."`
	TPS        int    `help:"Ticks per second for input handling."`
	Background string `help:"Background image path or URL."`
	Land       string `help:"GeoJSON land outlines (path, URL or \"world\") used when no background loads."`
	Seed       int64  `help:"Random seed; 0 picks one from the clock."`

	LogLevel string `help:"debug, info, warn or error." default:"info" enum:"debug,info,warn,error"`
	LogDir   string `help:"Write JSON logs to this directory instead of stderr."`

	MetricsAddr string        `help:"Serve prometheus metrics on this address, e.g. :9090."`
	FeedURL     string        `help:"Websocket URL of a remote attack feed."`
	AudioDir    string        `help:"Directory of mp3 files for the ambient soundtrack."`
	CaptureDir  string        `help:"Directory for frames captured with P."`
	DemoTick    time.Duration `help:"Period of the automatic simulate trigger (default 6s)."`
	NoDemo      bool          `help:"Skip the demo attacks at startup and the automatic trigger."`
}

var demoAttacks = [][4]float64{
	{37.77, -122.42, 55.76, 37.62}, // San Francisco -> Moscow
	{28.61, 77.20, 40.71, -74.00},  // New Delhi -> New York
	{52.52, 13.40, -33.86, 151.21}, // Berlin -> Sydney
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("threatmap-viewer"),
		kong.Description("Animated world threat map."),
		kong.UsageOnError(),
	)
	os.Exit(start(cli))
}

// start returns the process exit code so deferred cleanup runs before exit.
func start(cli CLI) int {
	logger, err := tmlog.New(cli.LogLevel, cli.LogDir)
	if err != nil {
		slog.Error("Failed to set up logging", slog.Any("error", err))
		return 1
	}
	defer logger.Close()
	slog.SetDefault(logger.Logger)

	cfg, err := loadConfig(cli)
	if err != nil {
		slog.Error("Invalid configuration", slog.Any("error", err))
		return 1
	}

	if err := run(cfg, cli, logger.Logger); err != nil {
		slog.Error("Exiting", slog.Any("error", err))
		return 1
	}
	return 0
}

func loadConfig(cli CLI) (*config.Config, error) {
	cfg := config.Default()
	if cli.Config != "" {
		var err error
		if cfg, err = config.Load(cli.Config); err != nil {
			return nil, err
		}
	}
	if cli.Width > 0 {
		cfg.Window.Width = cli.Width
	}
	if cli.Height > 0 {
		cfg.Window.Height = cli.Height
	}
	if cli.TPS > 0 {
		cfg.Window.TPS = cli.TPS
	}
	if cli.Background != "" {
		cfg.Assets.Background = cli.Background
	}
	if cli.Land != "" {
		cfg.Assets.LandGeoJSON = cli.Land
	}
	if cli.Seed != 0 {
		cfg.Simulation.Seed = cli.Seed
	}
	if cli.AudioDir != "" {
		cfg.Assets.AudioDir = cli.AudioDir
	}
	if cli.CaptureDir != "" {
		cfg.Assets.CaptureDir = cli.CaptureDir
	}
	if cli.DemoTick != 0 {
		cfg.Schedule.DemoTick = cli.DemoTick
	}
	if cli.NoDemo {
		demo := false
		cfg.Simulation.Demo = &demo
	}
	return cfg, cfg.Validate()
}

func run(cfg *config.Config, cli CLI, logger *slog.Logger) error {
	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("Starting threat map", slog.Int64("seed", seed))

	collector := metrics.NewCollector()
	sim := mapengine.NewSimulation(cfg.SimulationConfig(), rand.New(rand.NewSource(seed)), collector, logger)
	demoTick := time.Duration(0)
	if cfg.DemoEnabled() {
		demoTick = cfg.Schedule.DemoTick
		for _, a := range demoAttacks {
			sim.AddAttackFrom(mapengine.SourceDemo, a[0], a[1], a[2], a[3])
		}
	}

	engine := mapengine.NewEngine(sim, mapengine.Style{PanelLines: cfg.Panel.Lines}, logger)
	engine.CaptureDir = cfg.Assets.CaptureDir
	loadBackground(engine, cfg)

	// Only window teardown cancels ctx. A failing side service is logged
	// and the animation keeps running.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var g errgroup.Group

	sched := &mapengine.Scheduler{
		World:    sim,
		FastTick: cfg.Schedule.FastTick,
		SlowTick: cfg.Schedule.SlowTick,
		DemoTick: demoTick,
		OnRedraw: engine.RequestRedraw,
		Logger:   logger,
	}
	services := []service{{"scheduler", sched.Run}}

	if cli.FeedURL != "" {
		l := feed.NewListener(cli.FeedURL, func(a feed.Attack) {
			if a.Random {
				sim.AddRandomAttack(mapengine.SourceFeed)
			} else {
				sim.AddAttackFrom(mapengine.SourceFeed, a.FromLat, a.FromLon, a.ToLat, a.ToLon)
			}
			engine.RequestRedraw()
		}, logger)
		services = append(services, service{"feed", l.Listen})
	}
	if cli.MetricsAddr != "" {
		addr := cli.MetricsAddr
		services = append(services, service{"metrics", func(ctx context.Context) error {
			return collector.Serve(ctx, addr)
		}})
	}
	if cfg.Assets.AudioDir != "" {
		p := mapengine.NewAudioPlayer(cfg.Assets.AudioDir, engine.SetNowPlaying, logger)
		services = append(services, service{"audio", p.Run})
	}
	runServices(ctx, &g, logger, services...)

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.Window.TPS)

	gameErr := ebiten.RunGame(engine)
	cancel()
	_ = g.Wait()
	return gameErr
}

type service struct {
	name string
	run  func(context.Context) error
}

// runServices starts each service on g. An error is logged when it happens
// and never cancels ctx or the other services.
func runServices(ctx context.Context, g *errgroup.Group, logger *slog.Logger, services ...service) {
	for _, s := range services {
		g.Go(func() error {
			if err := s.run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("Service failed", slog.String("service", s.name), slog.Any("error", err))
			}
			return nil
		})
	}
}

// loadBackground never fails: a missing image falls back to the land
// placeholder, and that to the plain ocean color.
func loadBackground(engine *mapengine.Engine, cfg *config.Config) {
	if src := cfg.Assets.Background; src != "" {
		img, err := sources.LoadImage(src, cfg.Assets.CacheDir)
		if err == nil {
			engine.Background = img
			return
		}
		slog.Warn("Background image unavailable", slog.String("src", src), slog.Any("error", err))
	}
	if src := cfg.Assets.LandGeoJSON; src != "" {
		data, err := sources.LoadGeoJSON(src, cfg.Assets.CacheDir)
		if err == nil {
			var land *image.RGBA
			land, err = mapengine.RenderLandMap(data, cfg.Window.Width, cfg.Window.Height)
			if err == nil {
				engine.Land = land
				return
			}
		}
		slog.Warn("Land placeholder unavailable", slog.String("src", src), slog.Any("error", err))
	}
}
