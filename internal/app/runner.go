package app

import (
	"context"
	"log/slog"
	"sync"

	"k8s.io/utils/clock"

	"github.com/five82/arbor/internal/backend"
	"github.com/five82/arbor/internal/engine"
	"github.com/five82/arbor/internal/imageref"
	"github.com/five82/arbor/internal/milestone"
	"github.com/five82/arbor/internal/state"
)

// ImageSource turns a stage's image identifier into a rendered frame.
type ImageSource interface {
	Frame(ctx context.Context, stage int, id imageref.Identifier) (engine.Frame, error)
}

// RunnerConfig holds a Runner's collaborators. Clock and Logger are
// optional.
type RunnerConfig struct {
	Engine      *engine.Engine
	Fetcher     backend.Fetcher
	Images      ImageSource
	Store       *state.Store
	Clock       clock.WithDelayedExecution
	Logger      *slog.Logger
	OnMilestone func(milestone.Event)
}

// Runner owns an engine on a single goroutine. It performs the effects the
// engine asks for and feeds the results back through the same goroutine, so
// the engine never sees concurrent calls.
type Runner struct {
	eng         *engine.Engine
	fetcher     backend.Fetcher
	images      ImageSource
	store       *state.Store
	clock       clock.WithDelayedExecution
	logger      *slog.Logger
	onMilestone func(milestone.Event)

	inbox  chan func() []engine.Effect
	done   chan struct{}
	timers map[engine.TimerKind]clock.Timer
	wg     sync.WaitGroup

	ctx       context.Context
	lastStage int
	announced bool
}

// NewRunner builds a Runner. It does nothing until Run is called.
func NewRunner(cfg RunnerConfig) *Runner {
	if cfg.Clock == nil {
		cfg.Clock = clock.RealClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Store == nil {
		cfg.Store = &state.Store{}
	}
	return &Runner{
		eng:         cfg.Engine,
		fetcher:     cfg.Fetcher,
		images:      cfg.Images,
		store:       cfg.Store,
		clock:       cfg.Clock,
		logger:      cfg.Logger,
		onMilestone: cfg.OnMilestone,
		inbox:       make(chan func() []engine.Effect, 16),
		done:        make(chan struct{}),
		timers:      make(map[engine.TimerKind]clock.Timer),
	}
}

// Store returns the store views are published to.
func (r *Runner) Store() *state.Store {
	return r.store
}

// Run starts the session and processes results until ctx is cancelled.
// Requests still in flight are cancelled and waited for before it returns.
func (r *Runner) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	r.ctx = ctx
	defer func() {
		cancel()
		close(r.done)
		for _, t := range r.timers {
			t.Stop()
		}
		r.wg.Wait()
	}()

	r.apply(r.eng.Start())
	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-r.inbox:
			r.apply(fn())
		}
	}
}

// Retry re-attempts whatever failed last.
func (r *Runner) Retry() {
	r.send(r.eng.Retry)
}

// SetLanguage switches the display language.
func (r *Runner) SetLanguage(lang string) {
	r.send(func() []engine.Effect { return r.eng.SetLanguage(lang) })
}

// DismissMilestone closes the milestone notice.
func (r *Runner) DismissMilestone() {
	r.send(r.eng.DismissMilestone)
}

// StartPolling re-arms the poll timer.
func (r *Runner) StartPolling() {
	r.send(r.eng.StartPolling)
}

// StopPolling cancels the next poll.
func (r *Runner) StopPolling() {
	r.send(r.eng.StopPolling)
}

// send queues fn for the loop goroutine. After Run returns it is a no-op.
func (r *Runner) send(fn func() []engine.Effect) {
	select {
	case r.inbox <- fn:
	case <-r.done:
	}
}

func (r *Runner) apply(effects []engine.Effect) {
	for _, eff := range effects {
		r.perform(eff)
	}
	view := r.eng.View()
	if view.Loaded && (!r.announced || view.Stage != r.lastStage) {
		r.logger.Info("stage", "stage", view.Stage, "total", view.Total, "max_stage", view.MaxStage)
		r.lastStage = view.Stage
		r.announced = true
	}
	r.store.Publish(view)
}

func (r *Runner) perform(eff engine.Effect) {
	switch e := eff.(type) {
	case engine.LoadConfig:
		r.wg.Go(func() {
			snap, err := r.fetcher.FetchConfig(r.ctx)
			if err != nil {
				r.logger.Warn("load config failed", "error", err)
			} else {
				r.logger.Debug("config loaded", "stages", len(snap.Stages), "images", len(snap.Images))
			}
			r.send(func() []engine.Effect { return r.eng.HandleConfig(snap, err) })
		})
	case engine.PollData:
		r.wg.Go(func() {
			data, err := r.fetcher.FetchData(r.ctx)
			sample := engine.Sample{Total: data.Total, PollInterval: data.PollInterval, At: r.clock.Now()}
			if err != nil {
				r.logger.Warn("poll failed", "error", err)
			}
			r.send(func() []engine.Effect { return r.eng.HandleData(sample, err) })
		})
	case engine.ArmTimer:
		if t, ok := r.timers[e.Kind]; ok {
			t.Stop()
		}
		kind, gen := e.Kind, e.Gen
		r.timers[kind] = r.clock.AfterFunc(e.After, func() {
			r.send(func() []engine.Effect {
				if kind == engine.TimerReveal {
					return r.eng.HandleReveal(gen)
				}
				return r.eng.HandleTick(gen)
			})
		})
	case engine.ResolveImage:
		r.wg.Go(func() {
			frame, err := r.images.Frame(r.ctx, e.Stage, e.ID)
			if err != nil {
				r.logger.Warn("stage image failed", "stage", e.Stage, "error", err)
			}
			r.send(func() []engine.Effect { return r.eng.HandleImage(e.Stage, frame, err) })
		})
	case engine.Announce:
		r.logger.Info("milestone reached", "stage", e.Event.Stage, "title", e.Event.Title)
		if r.onMilestone != nil {
			r.onMilestone(e.Event)
		}
	default:
		r.logger.Error("unknown effect", "effect", eff)
	}
}
