// Package demoapi serves a self-contained growth tree backend. It answers the
// same ?action= queries as a deployed backend, grows its counter on every
// data request, and draws its own stage images.
package demoapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Options configures a Server. Zero values pick demo defaults.
type Options struct {
	Start           int64
	Step            int64
	Stages          []int64
	Milestones      map[int]Milestone
	Environments    []string
	PollingInterval int // seconds
	Language        string
	DebugMode       bool
	// Images overrides the generated stage image URLs. Entries may be empty
	// to simulate a stage without an image.
	Images []string
	Now    func() time.Time
}

// Milestone is the text shown for one stage.
type Milestone struct {
	TitleJA   string
	TitleEN   string
	MessageJA string
	MessageEN string
}

// DefaultStages are the demo thresholds.
var DefaultStages = []int64{10, 30, 60, 100}

// Server is the demo backend. It is safe for concurrent use.
type Server struct {
	router *chi.Mux
	now    func() time.Time

	mu       sync.Mutex
	opts     Options
	total    int64
	stage    int
	hourly   map[int]int64
	history  []historyEntry
	failures map[string]int
	malform  map[string]bool
}

type historyEntry struct {
	Timestamp string `json:"timestamp"`
	Stage     int    `json:"stage"`
}

// New builds a Server.
func New(opts Options) *Server {
	if opts.Step <= 0 {
		opts.Step = 1
	}
	if opts.Stages == nil {
		opts.Stages = DefaultStages
	}
	if opts.Language == "" {
		opts.Language = "ja"
	}
	if opts.Milestones == nil {
		opts.Milestones = map[int]Milestone{
			2: {TitleJA: "半分まで来ました！", TitleEN: "Halfway there!", MessageJA: "木がぐんぐん育っています。", MessageEN: "The tree is growing fast."},
			len(opts.Stages): {TitleJA: "満開！", TitleEN: "Full bloom!"},
		}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	s := &Server{
		now:      now,
		opts:     opts,
		total:    opts.Start,
		hourly:   make(map[int]int64),
		failures: make(map[string]int),
		malform:  make(map[string]bool),
	}
	s.stage = s.stageFor(opts.Start)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.NoCache)
	r.Get("/", s.handleAction)
	r.Get("/images/{stage}.png", s.handleImage)
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Total returns the current counter value.
func (s *Server) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// SetTotal moves the counter, recording a stage change when one happens.
func (s *Server) SetTotal(total int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setTotalLocked(total)
}

// FailNext makes the next n requests for action answer with a server error.
func (s *Server) FailNext(action string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[action] = n
}

// Malform makes every request for action answer with a body that lacks its
// required fields, until called again with false.
func (s *Server) Malform(action string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.malform[action] = on
}

var errUnknownAction = errors.New("unknown action")

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get("action")

	s.mu.Lock()
	if n := s.failures[action]; n > 0 {
		s.failures[action] = n - 1
		s.mu.Unlock()
		writeError(w, http.StatusInternalServerError, fmt.Errorf("demo failure for %s", action))
		return
	}
	malformed := s.malform[action]
	s.mu.Unlock()

	switch action {
	case "getConfig":
		if malformed {
			writeJSON(w, http.StatusOK, map[string]any{"language": "ja"})
			return
		}
		writeJSON(w, http.StatusOK, s.config(baseURL(r)))
	case "getData":
		if malformed {
			writeJSON(w, http.StatusOK, map[string]any{"totalValue": "many"})
			return
		}
		writeJSON(w, http.StatusOK, s.data())
	case "getStats":
		writeJSON(w, http.StatusOK, s.stats())
	default:
		// Backends answer unknown actions with 200 and an error body.
		writeError(w, http.StatusOK, fmt.Errorf("%w: %q", errUnknownAction, action))
	}
}

func (s *Server) config(base string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	images := s.opts.Images
	if images == nil {
		images = make([]string, len(s.opts.Stages)+1)
		for i := range images {
			images[i] = fmt.Sprintf("%s/images/%d.png", base, i)
		}
	}
	milestones := make(map[string]map[string]string, len(s.opts.Milestones))
	for stage, m := range s.opts.Milestones {
		entry := map[string]string{}
		for key, val := range map[string]string{
			"title_ja": m.TitleJA, "title_en": m.TitleEN,
			"message_ja": m.MessageJA, "message_en": m.MessageEN,
		} {
			if val != "" {
				entry[key] = val
			}
		}
		milestones[strconv.Itoa(stage)] = entry
	}
	out := map[string]any{
		"stages":       s.opts.Stages,
		"images":       images,
		"environments": s.opts.Environments,
		"milestones":   milestones,
		"language":     s.opts.Language,
		"debugMode":    s.opts.DebugMode,
	}
	if s.opts.PollingInterval > 0 {
		out["pollingInterval"] = s.opts.PollingInterval
	}
	return out
}

func (s *Server) data() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hourly[s.now().Hour()]++
	total := s.total
	s.setTotalLocked(s.total + s.opts.Step)
	return map[string]any{"totalValue": total}
}

func (s *Server) stats() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	hourly := make(map[string]int64, len(s.hourly))
	for hour, n := range s.hourly {
		hourly[strconv.Itoa(hour)] = n
	}
	history := append([]historyEntry(nil), s.history...)
	return map[string]any{"hourlyAccess": hourly, "stageHistory": history}
}

func (s *Server) setTotalLocked(total int64) {
	s.total = total
	if next := s.stageFor(total); next != s.stage {
		s.stage = next
		s.history = append(s.history, historyEntry{
			Timestamp: s.now().UTC().Format(time.RFC3339),
			Stage:     next,
		})
	}
}

func (s *Server) stageFor(total int64) int {
	stage := 0
	for i, thr := range s.opts.Stages {
		if total >= thr {
			stage = i + 1
		}
	}
	return stage
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	stage, err := strconv.Atoi(chi.URLParam(r, "stage"))
	if err != nil || stage < 0 || stage > len(s.opts.Stages) {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := imaging.Encode(w, Tree(stage, len(s.opts.Stages)), imaging.PNG); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Tree draws the demo image for stage out of maxStage: a trunk with a crown
// that widens as the stage grows.
func Tree(stage, maxStage int) image.Image {
	const size = 96
	img := imaging.New(size, size, color.NRGBA{R: 0xe8, G: 0xf4, B: 0xff, A: 0xff})
	ground := imaging.New(size, size/8, color.NRGBA{R: 0x6b, G: 0x8e, B: 0x23, A: 0xff})
	img = imaging.Paste(img, ground, image.Pt(0, size-size/8))

	if maxStage < 1 {
		maxStage = 1
	}
	trunkH := size/4 + (size/4)*stage/maxStage
	trunk := imaging.New(size/12+stage, trunkH, color.NRGBA{R: 0x8b, G: 0x5a, B: 0x2b, A: 0xff})
	trunkTop := size - size/8 - trunkH
	img = imaging.Paste(img, trunk, image.Pt((size-trunk.Bounds().Dx())/2, trunkTop))

	radius := 4 + (size/3)*stage/maxStage
	leaf := color.NRGBA{R: 0x2e, G: 0x8b, B: 0x57, A: 0xff}
	if stage == maxStage {
		leaf = color.NRGBA{R: 0xff, G: 0x8f, B: 0xb1, A: 0xff}
	}
	cx, cy := size/2, trunkTop
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius && image.Pt(x, y).In(img.Bounds()) {
				img.SetNRGBA(x, y, leaf)
			}
		}
	}
	return img
}

func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
