// Package fault classifies failures from the viewer's components and turns
// them into user-facing notices.
package fault

import (
	"errors"
	"slices"

	"github.com/five82/arbor/internal/i18n"
	"github.com/five82/arbor/internal/imageref"
)

// Kind is the failure taxonomy.
type Kind int

const (
	ConfigUnavailable Kind = iota + 1
	NetworkFailure
	MalformedResponse
	ImageUnresolvable
	MissingStageImage
)

func (k Kind) String() string {
	switch k {
	case ConfigUnavailable:
		return "config_unavailable"
	case NetworkFailure:
		return "network_failure"
	case MalformedResponse:
		return "malformed_response"
	case ImageUnresolvable:
		return "image_unresolvable"
	case MissingStageImage:
		return "missing_stage_image"
	default:
		return "unknown"
	}
}

// Retryable reports whether a manual retry can clear this kind. Image
// failures already fall back to a placeholder.
func (k Kind) Retryable() bool {
	switch k {
	case ConfigUnavailable, NetworkFailure, MalformedResponse:
		return true
	}
	return false
}

// ErrMalformed marks a response that arrived but is missing required fields
// or carries the wrong types.
var ErrMalformed = errors.New("malformed response")

// ForConfig classifies a configuration load failure.
func ForConfig(error) Kind {
	return ConfigUnavailable
}

// ForPoll classifies a data poll failure.
func ForPoll(err error) Kind {
	if errors.Is(err, ErrMalformed) {
		return MalformedResponse
	}
	return NetworkFailure
}

// ForImage classifies an image resolution or load failure.
func ForImage(err error) Kind {
	if errors.Is(err, imageref.ErrMissingConfig) {
		return MissingStageImage
	}
	return ImageUnresolvable
}

// Notice is a rendered failure.
type Notice struct {
	Kind          Kind
	Detail        string
	Message       string
	Hint          string
	Informational bool
}

type report struct {
	kind   Kind
	detail string
}

// Reporter holds the most recent failure. Reporting replaces the previous
// failure; informational overlays sit beside it without replacing it.
type Reporter struct {
	printer *i18n.Printer
	current *report
	overlay *report
}

// NewReporter returns a Reporter rendering in lang.
func NewReporter(lang string) *Reporter {
	return &Reporter{printer: i18n.NewPrinter(lang)}
}

// SetLanguage re-renders future notices in lang.
func (r *Reporter) SetLanguage(lang string) {
	r.printer = i18n.NewPrinter(lang)
}

// Report records kind as the current failure and returns its notice.
func (r *Reporter) Report(kind Kind, detail string) Notice {
	r.current = &report{kind: kind, detail: detail}
	return r.render(*r.current, false)
}

// Inform shows a notice without disturbing the current failure.
func (r *Reporter) Inform(kind Kind, detail string) Notice {
	r.overlay = &report{kind: kind, detail: detail}
	return r.render(*r.overlay, true)
}

// Clear drops the current failure and any overlay.
func (r *Reporter) Clear() {
	r.current = nil
	r.overlay = nil
}

// Resolve clears the current failure and the overlay when their kind is
// one of kinds. A recovery only clears the failures it recovers from.
func (r *Reporter) Resolve(kinds ...Kind) {
	if r.current != nil && slices.Contains(kinds, r.current.kind) {
		r.current = nil
	}
	if r.overlay != nil && slices.Contains(kinds, r.overlay.kind) {
		r.overlay = nil
	}
}

// Current returns the current failure, if any.
func (r *Reporter) Current() (Notice, bool) {
	if r.current == nil {
		return Notice{}, false
	}
	return r.render(*r.current, false), true
}

// Overlay returns the informational overlay, if any.
func (r *Reporter) Overlay() (Notice, bool) {
	if r.overlay == nil {
		return Notice{}, false
	}
	return r.render(*r.overlay, true), true
}

func (r *Reporter) render(rep report, informational bool) Notice {
	n := Notice{Kind: rep.kind, Detail: rep.detail, Informational: informational}
	switch rep.kind {
	case ConfigUnavailable:
		n.Message = r.printer.Text(i18n.KeyErrConfig)
		n.Hint = r.printer.Text(i18n.KeyHintConfig)
	case NetworkFailure:
		n.Message = r.printer.Text(i18n.KeyErrNetwork)
		n.Hint = r.printer.Text(i18n.KeyHintDefault)
	case MalformedResponse:
		n.Message = r.printer.Text(i18n.KeyErrMalformed)
		n.Hint = r.printer.Text(i18n.KeyHintDefault)
	case ImageUnresolvable:
		n.Message = r.printer.Text(i18n.KeyErrImage)
		n.Hint = r.printer.Text(i18n.KeyHintImageConfig)
	case MissingStageImage:
		n.Message = r.printer.Text(i18n.KeyErrMissingImage, rep.detail)
		n.Hint = r.printer.Text(i18n.KeyHintImageConfig)
	}
	return n
}
