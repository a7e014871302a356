package engine

import (
	"strconv"
	"time"

	"github.com/five82/arbor/internal/animate"
	"github.com/five82/arbor/internal/fault"
	"github.com/five82/arbor/internal/i18n"
	"github.com/five82/arbor/internal/imageref"
	"github.com/five82/arbor/internal/milestone"
	"github.com/five82/arbor/internal/stage"
)

// Options configures a new Engine.
type Options struct {
	// Language is the starting language. When PinLanguage is false a
	// language set in the remote configuration replaces it.
	Language    string
	PinLanguage bool
	// DefaultInterval applies until configuration provides one.
	DefaultInterval time.Duration
	// PlaceholderArt is shown in the image slot when a stage has no usable
	// image.
	PlaceholderArt string
}

// Sample is one successful counter reading.
type Sample struct {
	Total        int64
	PollInterval time.Duration
	At           time.Time
}

// syncState tracks the counter across polls.
type syncState struct {
	total         int64
	previousTotal int64
	stage         int
	loaded        bool
	polling       bool
	recentDelta   int64
	lastUpdate    time.Time
	failures      int
}

// Engine is the viewer's state machine. It never blocks: every method
// updates state and returns the effects the host must perform. It is not
// safe for concurrent use.
type Engine struct {
	opts Options

	snap         stage.Snapshot
	configLoaded bool
	lang         string

	sync syncState

	pollArmed    bool
	pollGen      uint64
	interval     time.Duration
	dataInterval time.Duration

	anim      animate.Animator
	revealGen uint64

	frames   map[int]Frame
	pending  map[int]bool
	failed   map[int]bool
	wanted   int
	shown    Frame
	hasShown bool

	reporter *fault.Reporter
	detector *milestone.Detector
	event    *milestone.Event
}

// New returns an Engine with an empty configuration.
func New(opts Options) *Engine {
	if opts.DefaultInterval <= 0 {
		opts.DefaultInterval = stage.DefaultPollInterval
	}
	lang := i18n.Normalize(opts.Language)
	return &Engine{
		opts:     opts,
		lang:     lang,
		frames:   make(map[int]Frame),
		pending:  make(map[int]bool),
		failed:   make(map[int]bool),
		reporter: fault.NewReporter(lang),
		detector: milestone.NewDetector(lang),
	}
}

// Start begins the session by loading configuration. Polling starts once
// the load settles, whether or not it succeeded.
func (e *Engine) Start() []Effect {
	return []Effect{LoadConfig{}}
}

// HandleConfig applies a configuration load result.
func (e *Engine) HandleConfig(snap stage.Snapshot, err error) []Effect {
	var effects []Effect
	if err != nil {
		e.reporter.Report(fault.ForConfig(err), err.Error())
	} else {
		e.snap = snap
		e.configLoaded = true
		e.reporter.Resolve(fault.ConfigUnavailable)
		if snap.Language != "" && !e.opts.PinLanguage {
			e.applyLanguage(snap.Language)
		}
		if e.sync.loaded {
			e.sync.stage = e.snap.Stage(e.sync.total)
			effects = append(effects, e.display(e.sync.stage)...)
		}
	}

	if !e.pollArmed || e.interval != e.effectiveInterval() {
		effects = append(effects, e.arm())
	}
	return append(effects, e.pollNow()...)
}

// HandleTick handles a poll timer firing. The timer is re-armed first so a
// slow request never stretches the schedule; the poll itself is dropped
// when one is already in flight.
func (e *Engine) HandleTick(gen uint64) []Effect {
	if !e.pollArmed || gen != e.pollGen {
		return nil
	}
	effects := []Effect{ArmTimer{Kind: TimerPoll, Gen: e.pollGen, After: e.interval}}
	return append(effects, e.pollNow()...)
}

// HandleData applies a data poll result.
func (e *Engine) HandleData(s Sample, err error) []Effect {
	e.sync.polling = false
	if err != nil {
		e.sync.failures++
		e.reporter.Report(fault.ForPoll(err), err.Error())
		return nil
	}
	e.sync.failures = 0
	// A stage that still lacks an image reports it again when displayed.
	e.reporter.Resolve(fault.NetworkFailure, fault.MalformedResponse, fault.ImageUnresolvable, fault.MissingStageImage)

	first := !e.sync.loaded
	e.sync.previousTotal = e.sync.total
	e.sync.total = s.Total
	e.sync.lastUpdate = s.At
	e.sync.loaded = true
	e.sync.recentDelta = 0
	if !first && s.Total > e.sync.previousTotal {
		e.sync.recentDelta = s.Total - e.sync.previousTotal
	}

	oldStage := e.sync.stage
	newStage := e.snap.Stage(s.Total)
	e.sync.stage = newStage

	var effects []Effect
	if s.PollInterval > 0 && s.PollInterval != e.dataInterval {
		e.dataInterval = s.PollInterval
		if e.pollArmed && e.interval != e.effectiveInterval() {
			effects = append(effects, e.arm())
		}
	}

	if first || !e.configLoaded || newStage <= oldStage {
		return append(effects, e.display(newStage)...)
	}

	if ev, ok := e.detector.Check(newStage, e.snap); ok {
		e.event = &ev
		effects = append(effects, Announce{Event: ev})
	}
	if e.anim.Active() {
		// The running sequence finishes first; the new stage is shown when
		// it settles.
		return effects
	}
	step, ok := e.anim.Begin(oldStage, newStage, e.hasImage)
	if !ok {
		return append(effects, e.display(newStage)...)
	}
	e.revealGen++
	return append(effects, e.reveal(step)...)
}

// HandleReveal handles the reveal timer firing.
func (e *Engine) HandleReveal(gen uint64) []Effect {
	if gen != e.revealGen || !e.anim.Active() {
		return nil
	}
	if step, ok := e.anim.Advance(); ok {
		return e.reveal(step)
	}
	return e.display(e.sync.stage)
}

// HandleImage applies an image resolution result for stage. A failed stage
// caches the placeholder until the next manual retry. Only a failure for the
// stage currently wanted is reported.
func (e *Engine) HandleImage(stageIdx int, frame Frame, err error) []Effect {
	delete(e.pending, stageIdx)
	if err != nil {
		frame = e.placeholder(stageIdx)
		e.failed[stageIdx] = true
		if stageIdx == e.wanted {
			e.reportImage(fault.ForImage(err), err.Error())
		}
	} else {
		frame.Stage = stageIdx
		delete(e.failed, stageIdx)
		if stageIdx == e.wanted {
			e.reporter.Resolve(fault.ImageUnresolvable, fault.MissingStageImage)
		}
	}
	e.frames[stageIdx] = frame
	if stageIdx == e.wanted {
		e.show(frame)
	}
	return nil
}

// Retry re-attempts whatever failed last: configuration when it never
// loaded, otherwise a data poll. A stopped scheduler is re-armed and stages
// whose image failed are fetched again on their next display.
func (e *Engine) Retry() []Effect {
	for s := range e.failed {
		delete(e.frames, s)
		delete(e.failed, s)
	}
	if !e.configLoaded {
		return []Effect{LoadConfig{}}
	}
	var effects []Effect
	if !e.pollArmed {
		effects = append(effects, e.arm())
	}
	return append(effects, e.pollNow()...)
}

// StartPolling arms the poll timer with the current interval, replacing any
// live timer.
func (e *Engine) StartPolling() []Effect {
	return []Effect{e.arm()}
}

// StopPolling cancels the next tick. An in-flight request and a running
// animation both complete normally.
func (e *Engine) StopPolling() []Effect {
	e.pollArmed = false
	e.pollGen++
	return nil
}

// SetLanguage switches the display language.
func (e *Engine) SetLanguage(lang string) []Effect {
	e.applyLanguage(lang)
	return nil
}

// DismissMilestone closes the pending milestone.
func (e *Engine) DismissMilestone() []Effect {
	e.event = nil
	return nil
}

// Language returns the active language code.
func (e *Engine) Language() string {
	return e.lang
}

// Snapshot returns the active configuration.
func (e *Engine) Snapshot() stage.Snapshot {
	return e.snap
}

// View returns a copy of the current display state.
func (e *Engine) View() View {
	v := View{
		Loaded:          e.sync.loaded,
		ConfigLoaded:    e.configLoaded,
		Snapshot:        e.snap,
		Total:           e.sync.total,
		PreviousTotal:   e.sync.previousTotal,
		Stage:           e.sync.stage,
		MaxStage:        e.snap.MaxStage(),
		Progress:        e.snap.Progress(e.sync.total, e.sync.stage),
		RecentDelta:     e.sync.recentDelta,
		LastUpdate:      e.sync.lastUpdate,
		Frame:           e.shown,
		HasFrame:        e.hasShown,
		Environment:     e.snap.EnvironmentFor(e.wanted),
		Animating:       e.anim.Active(),
		AnimationTarget: e.anim.Target(),
		Polling:         e.sync.polling,
		PollingActive:   e.pollArmed,
		Interval:        e.interval,
		Failures:        e.sync.failures,
		Language:        e.lang,
		DebugMode:       e.snap.DebugMode,
	}
	if !e.configLoaded {
		v.RetryTarget = RetryConfig
	}
	if n, ok := e.reporter.Current(); ok {
		v.Notice = &n
	}
	if n, ok := e.reporter.Overlay(); ok {
		v.Overlay = &n
	}
	if e.event != nil {
		ev := *e.event
		v.Milestone = &ev
	}
	return v
}

func (e *Engine) effectiveInterval() time.Duration {
	switch {
	case e.dataInterval > 0:
		return e.dataInterval
	case e.configLoaded:
		return e.snap.Interval()
	default:
		return e.opts.DefaultInterval
	}
}

// arm replaces the live poll timer. Bumping the generation invalidates any
// tick already on its way.
func (e *Engine) arm() Effect {
	e.pollArmed = true
	e.pollGen++
	e.interval = e.effectiveInterval()
	return ArmTimer{Kind: TimerPoll, Gen: e.pollGen, After: e.interval}
}

func (e *Engine) pollNow() []Effect {
	if e.sync.polling {
		return nil
	}
	e.sync.polling = true
	return []Effect{PollData{}}
}

func (e *Engine) hasImage(s int) bool {
	return imageref.Classify(e.snap.ImageFor(s)).IsSet()
}

// display is the direct render path. It yields to a running animation.
func (e *Engine) display(s int) []Effect {
	if e.anim.Active() {
		return nil
	}
	return e.showStage(s)
}

func (e *Engine) reveal(step animate.Step) []Effect {
	effects := e.showStage(step.Stage)
	return append(effects, ArmTimer{Kind: TimerReveal, Gen: e.revealGen, After: step.Delay})
}

// showStage points the image slot at s. A cached frame is swapped in
// immediately; otherwise the frame swaps when resolution settles.
func (e *Engine) showStage(s int) []Effect {
	e.wanted = s
	if f, ok := e.frames[s]; ok {
		e.show(f)
		return nil
	}
	id := imageref.Classify(e.snap.ImageFor(s))
	if !id.IsSet() {
		e.reportImage(fault.MissingStageImage, strconv.Itoa(s))
		e.show(e.placeholder(s))
		return nil
	}
	if e.pending[s] {
		return nil
	}
	e.pending[s] = true
	return []Effect{ResolveImage{Stage: s, ID: id}}
}

func (e *Engine) show(f Frame) {
	e.shown = f
	e.hasShown = true
}

func (e *Engine) placeholder(s int) Frame {
	return Frame{Stage: s, URL: imageref.Placeholder, Art: e.opts.PlaceholderArt, Placeholder: true}
}

// reportImage keeps a retryable failure in front of the user and shows the
// image problem beside it.
func (e *Engine) reportImage(kind fault.Kind, detail string) {
	if n, ok := e.reporter.Current(); ok && n.Kind.Retryable() {
		e.reporter.Inform(kind, detail)
		return
	}
	e.reporter.Report(kind, detail)
}

func (e *Engine) applyLanguage(lang string) {
	e.lang = i18n.Normalize(lang)
	e.reporter.SetLanguage(e.lang)
	e.detector.SetLanguage(e.lang)
	if e.event != nil {
		if ev, ok := e.detector.Check(e.event.Stage, e.snap); ok {
			e.event = &ev
		}
	}
}
