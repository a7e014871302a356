// Package milestone decides whether a newly reached stage has a message.
package milestone

import (
	"strings"

	"github.com/five82/arbor/internal/i18n"
	"github.com/five82/arbor/internal/stage"
)

// Event is a reached milestone ready for display.
type Event struct {
	Stage   int
	Title   string
	Message string
}

// Detector looks up milestone text for the active language.
type Detector struct {
	printer *i18n.Printer
}

// NewDetector returns a Detector for lang.
func NewDetector(lang string) *Detector {
	return &Detector{printer: i18n.NewPrinter(lang)}
}

// SetLanguage switches the active language.
func (d *Detector) SetLanguage(lang string) {
	d.printer = i18n.NewPrinter(lang)
}

// Check returns the event for stage when the snapshot configures one. Text
// falls back from the active language to the baseline language and then to
// the built-in default.
func (d *Detector) Check(reached int, snap stage.Snapshot) (Event, bool) {
	m, ok := snap.Milestones[reached]
	if !ok {
		return Event{}, false
	}
	lang := d.printer.Language()
	return Event{
		Stage:   reached,
		Title:   pick(m.Title, lang, d.printer.Text(i18n.KeyMilestoneTitle)),
		Message: pick(m.Message, lang, d.printer.Text(i18n.KeyMilestoneMessage)),
	}, true
}

func pick(byLang map[string]string, lang, fallback string) string {
	if text := strings.TrimSpace(byLang[lang]); text != "" {
		return text
	}
	if text := strings.TrimSpace(byLang[stage.BaselineLanguage]); text != "" {
		return text
	}
	return fallback
}
