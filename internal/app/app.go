package app

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/five82/arbor/internal/backend"
	"github.com/five82/arbor/internal/config"
	"github.com/five82/arbor/internal/engine"
	"github.com/five82/arbor/internal/imageref"
	"github.com/five82/arbor/internal/logging"
	"github.com/five82/arbor/internal/milestone"
	"github.com/five82/arbor/internal/picture"
	"github.com/five82/arbor/internal/prefs"
	"github.com/five82/arbor/internal/stage"
	"github.com/five82/arbor/internal/state"
	"github.com/five82/arbor/internal/ui"
)

// Options configure the arbor application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses the XDG default
	APIURL     string // overrides api_url when set
	PollEvery  int    // seconds; zero uses the config value
	Verbose    bool
	Version    string
}

// session is everything a command needs to talk to the backend.
type session struct {
	cfg      config.Config
	prefs    prefs.Prefs
	logger   *slog.Logger
	closeLog func() error
	client   *backend.Client
	resolver *imageref.Resolver
	loader   *picture.Loader
	renderer *picture.Renderer
}

func open(opts Options, stderr bool) (*session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}
	if opts.PollEvery > 0 {
		cfg.PollSeconds = opts.PollEvery
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.New(logging.Options{Path: cfg.LogFile, Verbose: opts.Verbose, Stderr: stderr})
	if err != nil {
		// The logger still works without the file.
		logger.Warn("log file unavailable", "path", cfg.LogFile, "error", err)
	}

	client, err := backend.NewClient(cfg.APIURL, cfg.Timeout(), opts.Version)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("init backend client: %w", err)
	}
	protocol, err := picture.ParseProtocol(cfg.ImageProtocol)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	return &session{
		cfg:      cfg,
		prefs:    prefs.Load(opts.PrefsPath),
		logger:   logger,
		closeLog: closeLog,
		client:   client,
		resolver: imageref.NewResolver(cfg.AssetURLTemplate),
		loader:   picture.NewLoader(client.HTTPClient(), "arbor/"+opts.Version),
		renderer: picture.NewRenderer(protocol, cfg.ImageWidth, cfg.ImageHeight),
	}, nil
}

func (s *session) newRunner(ctx context.Context, onMilestone func(milestone.Event)) *Runner {
	lang := s.cfg.Language
	if s.prefs.Language != "" {
		lang = s.prefs.Language
	}
	eng := engine.New(engine.Options{
		Language:        lang,
		PinLanguage:     lang != "",
		DefaultInterval: s.cfg.PollInterval(),
		PlaceholderArt:  placeholderArt(ctx, s.loader, s.renderer),
	})
	return NewRunner(RunnerConfig{
		Engine:      eng,
		Fetcher:     s.client,
		Images:      pictureSource{resolver: s.resolver, loader: s.loader, renderer: s.renderer},
		Store:       &state.Store{},
		Logger:      s.logger,
		OnMilestone: onMilestone,
	})
}

// Run boots the viewer TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	s, err := open(opts, false)
	if err != nil {
		return err
	}
	defer s.closeLog()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runner := s.newRunner(ctx, nil)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return runner.Run(gctx) })
	g.Go(func() error {
		defer cancel()
		return ui.Run(ui.Options{
			Context:    gctx,
			Store:      runner.Store(),
			Controller: runner,
			Stats:      s.client,
			ThemeName:  s.prefs.Theme,
			Prefs:      s.prefs,
			PrefsPath:  opts.PrefsPath,
			LogPath:    s.cfg.LogFile,
			Version:    opts.Version,
		})
	})
	return g.Wait()
}

// Watch runs the viewer without a terminal UI, logging stage changes and
// milestones until ctx is cancelled.
func Watch(ctx context.Context, opts Options, onMilestone func(milestone.Event)) error {
	s, err := open(opts, true)
	if err != nil {
		return err
	}
	defer s.closeLog()
	s.logger.Info("watching", "api", s.cfg.APIURL, "interval", s.cfg.PollInterval())
	return s.newRunner(ctx, onMilestone).Run(ctx)
}

// Stats fetches the backend's usage statistics.
func Stats(ctx context.Context, opts Options) (*backend.StatsResponse, error) {
	s, err := open(opts, true)
	if err != nil {
		return nil, err
	}
	defer s.closeLog()
	return s.client.FetchStats(ctx)
}

// ImageCheck is the outcome of resolving and loading one stage image.
type ImageCheck struct {
	Stage  int
	Raw    string
	Kind   imageref.Kind
	URL    string
	Width  int
	Height int
	Err    error
}

// CheckReport summarizes a configuration check.
type CheckReport struct {
	Snapshot stage.Snapshot
	Images   []ImageCheck
}

// Failed counts the images that could not be loaded.
func (r CheckReport) Failed() int {
	n := 0
	for _, img := range r.Images {
		if img.Err != nil {
			n++
		}
	}
	return n
}

const checkConcurrency = 4

// Check loads the remote configuration and tries every stage image.
func Check(ctx context.Context, opts Options) (CheckReport, error) {
	s, err := open(opts, true)
	if err != nil {
		return CheckReport{}, err
	}
	defer s.closeLog()
	return checkImages(ctx, s.client, s.resolver, s.loader)
}

type imageLoader interface {
	Load(ctx context.Context, rawURL string) (image.Image, error)
}

func checkImages(ctx context.Context, fetcher backend.Fetcher, resolver *imageref.Resolver, loader imageLoader) (CheckReport, error) {
	snap, err := fetcher.FetchConfig(ctx)
	if err != nil {
		return CheckReport{}, fmt.Errorf("load config: %w", err)
	}
	report := CheckReport{Snapshot: snap, Images: make([]ImageCheck, len(snap.Images))}

	var g errgroup.Group
	g.SetLimit(checkConcurrency)
	for i, raw := range snap.Images {
		id := imageref.Classify(raw)
		report.Images[i] = ImageCheck{Stage: i, Raw: raw, Kind: id.Kind}
		g.Go(func() error {
			res := &report.Images[i]
			url, err := resolver.Resolve(ctx, id)
			if err != nil {
				res.Err = err
				return nil
			}
			res.URL = url
			img, err := loader.Load(ctx, url)
			if err != nil {
				res.Err = err
				return nil
			}
			b := img.Bounds()
			res.Width, res.Height = b.Dx(), b.Dy()
			return nil
		})
	}
	_ = g.Wait()
	return report, nil
}
