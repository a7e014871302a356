package backend

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestDataResponse_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int64
		wantErr bool
	}{
		{name: "integer", body: `{"totalValue": 42}`, want: 42},
		{name: "whole float", body: `{"totalValue": 42.0}`, want: 42},
		{name: "zero", body: `{"totalValue": 0}`, want: 0},
		{name: "string", body: `{"totalValue": "42"}`, wantErr: true},
		{name: "missing", body: `{}`, wantErr: true},
		{name: "null", body: `{"totalValue": null}`, wantErr: true},
		{name: "negative", body: `{"totalValue": -1}`, wantErr: true},
		{name: "fraction", body: `{"totalValue": 1.5}`, wantErr: true},
		{name: "bool", body: `{"totalValue": true}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp DataResponse
			if err := json.Unmarshal([]byte(tt.body), &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			got, err := resp.Data()
			if tt.wantErr {
				if !errors.Is(err, ErrMalformed) {
					t.Fatalf("Data() error = %v, want ErrMalformed", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Data() error = %v", err)
			}
			if got.Total != tt.want {
				t.Fatalf("Total = %d, want %d", got.Total, tt.want)
			}
		})
	}
}

func TestIntervalFrom(t *testing.T) {
	tests := []struct {
		in   float64
		want time.Duration
	}{
		{30, 30 * time.Second},
		{30000, 30 * time.Second},
		{1500, 1500 * time.Millisecond},
		{0, 0},
		{-5, 0},
	}
	for _, tt := range tests {
		if got := intervalFrom(tt.in); got != tt.want {
			t.Fatalf("intervalFrom(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConfigResponse_Snapshot(t *testing.T) {
	body := `{
		"stages": [10, 20],
		"images": ["https://x/0.png", "", "https://x/2.png"],
		"milestones": {"1": {"title_ja": "やった", "message_en": "Nice"}, "bogus": {"title_en": "x"}},
		"debugMode": true
	}`
	var resp ConfigResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := resp.validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	snap := resp.Snapshot()
	if !snap.DebugMode || snap.PollInterval != 0 {
		t.Fatalf("snapshot = %+v, want debug mode and default interval", snap)
	}
	if len(snap.Milestones) != 1 {
		t.Fatalf("milestones = %v, want only stage 1", snap.Milestones)
	}
	m := snap.Milestones[1]
	if m.Title["ja"] != "やった" || m.Message["en"] != "Nice" {
		t.Fatalf("milestone = %+v", m)
	}
}

func TestStatsResponse_Hours(t *testing.T) {
	s := StatsResponse{HourlyAccess: map[string]int64{"13": 2, "9": 5, "x": 1, "24": 3}}
	hours := s.Hours()
	if len(hours) != 2 || hours[0].Hour != 9 || hours[1].Hour != 13 {
		t.Fatalf("Hours = %+v, want [9 13]", hours)
	}
}

func TestStageEvent_ParsedTimestamp(t *testing.T) {
	e := StageEvent{Timestamp: "2026-04-01T09:00:00Z"}
	if got := e.ParsedTimestamp(); got.Hour() != 9 {
		t.Fatalf("ParsedTimestamp = %v, want 09:00", got)
	}
	if got := (StageEvent{Timestamp: "soon"}).ParsedTimestamp(); !got.IsZero() {
		t.Fatalf("ParsedTimestamp = %v, want zero", got)
	}
}
