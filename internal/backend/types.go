package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/five82/arbor/internal/fault"
	"github.com/five82/arbor/internal/stage"
)

// ErrMalformed wraps every response that decoded but lacks required fields.
var ErrMalformed = fault.ErrMalformed

// ConfigResponse is the getConfig payload.
type ConfigResponse struct {
	Stages          []int64                      `json:"stages"`
	Images          []string                     `json:"images"`
	Environments    []string                     `json:"environments"`
	Milestones      map[string]map[string]string `json:"milestones"`
	PollingInterval *float64                     `json:"pollingInterval"`
	Language        string                       `json:"language"`
	DebugMode       bool                         `json:"debugMode"`
	Error           string                       `json:"error"`
}

func (c *ConfigResponse) validate() error {
	if c.Stages == nil {
		return fmt.Errorf("%w: config has no stages", ErrMalformed)
	}
	if c.Images == nil {
		return fmt.Errorf("%w: config has no images", ErrMalformed)
	}
	return nil
}

// Snapshot converts the payload into an immutable stage.Snapshot. Milestone
// entries with non-numeric keys are skipped.
func (c *ConfigResponse) Snapshot() stage.Snapshot {
	snap := stage.Snapshot{
		Stages:       append([]int64(nil), c.Stages...),
		Images:       append([]string(nil), c.Images...),
		Environments: append([]string(nil), c.Environments...),
		Milestones:   make(map[int]stage.Milestone, len(c.Milestones)),
		Language:     strings.TrimSpace(c.Language),
		DebugMode:    c.DebugMode,
	}
	if c.PollingInterval != nil {
		snap.PollInterval = intervalFrom(*c.PollingInterval)
	}
	for key, fields := range c.Milestones {
		idx, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || idx < 0 {
			continue
		}
		m := stage.Milestone{Title: map[string]string{}, Message: map[string]string{}}
		for field, text := range fields {
			switch {
			case strings.HasPrefix(field, "title_"):
				m.Title[strings.TrimPrefix(field, "title_")] = text
			case strings.HasPrefix(field, "message_"):
				m.Message[strings.TrimPrefix(field, "message_")] = text
			}
		}
		snap.Milestones[idx] = m
	}
	return snap
}

// intervalFrom reads a polling interval that deployments store either in
// seconds (the admin form) or in milliseconds. Values below 1000 are seconds.
func intervalFrom(v float64) time.Duration {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if v < 1000 {
		return time.Duration(v * float64(time.Second))
	}
	return time.Duration(v * float64(time.Millisecond))
}

// DataResponse is the getData payload.
type DataResponse struct {
	TotalValue      json.RawMessage `json:"totalValue"`
	PollingInterval *float64        `json:"pollingInterval"`
	Error           string          `json:"error"`
}

// Data is a validated counter reading.
type Data struct {
	Total        int64
	PollInterval time.Duration
}

// Data validates the payload. totalValue must be a JSON number holding a
// non-negative whole value.
func (d *DataResponse) Data() (Data, error) {
	raw := bytes.TrimSpace(d.TotalValue)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Data{}, fmt.Errorf("%w: totalValue missing", ErrMalformed)
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil || raw[0] == '"' {
		return Data{}, fmt.Errorf("%w: totalValue %s is not a number", ErrMalformed, raw)
	}
	total, err := num.Int64()
	if err != nil {
		f, ferr := num.Float64()
		if ferr != nil || f != math.Trunc(f) || f > math.MaxInt64 {
			return Data{}, fmt.Errorf("%w: totalValue %s is not a whole number", ErrMalformed, raw)
		}
		total = int64(f)
	}
	if total < 0 {
		return Data{}, fmt.Errorf("%w: totalValue %d is negative", ErrMalformed, total)
	}
	out := Data{Total: total}
	if d.PollingInterval != nil {
		out.PollInterval = intervalFrom(*d.PollingInterval)
	}
	return out, nil
}

// StatsResponse is the getStats payload.
type StatsResponse struct {
	HourlyAccess map[string]int64 `json:"hourlyAccess" yaml:"hourlyAccess"`
	StageHistory []StageEvent     `json:"stageHistory" yaml:"stageHistory"`
	Error        string           `json:"error" yaml:"-"`
}

// StageEvent records when a stage was first reached.
type StageEvent struct {
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	Stage     int    `json:"stage" yaml:"stage"`
}

// ParsedTimestamp returns the event time, or the zero time when the backend
// sent something unparseable.
func (e StageEvent) ParsedTimestamp() time.Time {
	ts := strings.TrimSpace(e.Timestamp)
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, ts); err == nil {
			return t
		}
	}
	if ms, err := strconv.ParseInt(ts, 10, 64); err == nil {
		return time.UnixMilli(ms)
	}
	return time.Time{}
}

// HourCount is one row of the hourly access table.
type HourCount struct {
	Hour  int
	Count int64
}

// Hours returns the hourly counts ordered by hour. Keys that are not hours
// are dropped.
func (s *StatsResponse) Hours() []HourCount {
	out := make([]HourCount, 0, len(s.HourlyAccess))
	for key, n := range s.HourlyAccess {
		hour, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || hour < 0 || hour > 23 {
			continue
		}
		out = append(out, HourCount{Hour: hour, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}
