package types

import (
	"fmt"
	"time"
)

// DateLayout is the key format of daily buckets
const DateLayout = "2006-01-02"

// DomainStats is one domain's activity within a day
type DomainStats struct {
	Time        int64  `json:"time"`        // in milliseconds
	VisitCount  int    `json:"visitCount"`
	LastVisited int64  `json:"lastVisited"` // unix milliseconds
	Favicon     string `json:"favicon,omitempty"`
}

// DailyRecord maps domain to stats for a single calendar day
type DailyRecord map[string]DomainStats

// DomainSummary is a per-domain rollup over a range of days
type DomainSummary struct {
	Domain      string       `json:"domain"`
	Time        int64        `json:"time"` // in milliseconds
	VisitCount  int          `json:"visitCount"`
	LastVisited int64        `json:"lastVisited"`
	Favicon     string       `json:"favicon,omitempty"`
	Category    SiteCategory `json:"category"`
	Pinned      bool         `json:"pinned"`
}

// AggregatedData is the result of aggregating daily records
type AggregatedData struct {
	TotalTime int64           `json:"totalTime"` // in milliseconds
	ByDomain  []DomainSummary `json:"byDomain"`
}

// Range names an aggregation window
type Range string

const (
	RangeToday   Range = "today"
	RangeWeek    Range = "week"
	RangeMonth   Range = "month"
	RangeYear    Range = "year"
	RangeAllTime Range = "all-time"
)

// ParseRange validates a range name
func ParseRange(s string) (Range, error) {
	switch r := Range(s); r {
	case RangeToday, RangeWeek, RangeMonth, RangeYear, RangeAllTime:
		return r, nil
	default:
		return "", fmt.Errorf("unknown range %q (want today, week, month, year or all-time)", s)
	}
}

// SiteCategory classifies a domain
type SiteCategory string

const (
	CategoryProductive  SiteCategory = "productive"
	CategoryDistraction SiteCategory = "distraction"
	CategoryNeutral     SiteCategory = "neutral"
	CategoryOthers      SiteCategory = "others"
)

// Categories lists every category in display order
var Categories = []SiteCategory{CategoryProductive, CategoryDistraction, CategoryNeutral, CategoryOthers}

// ParseCategory validates a category name
func ParseCategory(s string) (SiteCategory, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// CategoryTotal is time and site count for one category
type CategoryTotal struct {
	Category SiteCategory `json:"category"`
	Time     int64        `json:"time"`
	Sites    int          `json:"sites"`
}

// Settings is the persisted user settings record
type Settings struct {
	TrackingDelay  int    `json:"trackingDelay"`  // seconds, 1..100
	PomodoroCycles int    `json:"pomodoroCycles"` // 0 runs until stopped
	Theme          string `json:"theme,omitempty"`
}

const (
	DefaultTrackingDelay  = 5
	MinTrackingDelay      = 1
	MaxTrackingDelay      = 100
	DefaultPomodoroCycles = 4
)

// DefaultSettings returns the settings used when none are stored
func DefaultSettings() Settings {
	return Settings{
		TrackingDelay:  DefaultTrackingDelay,
		PomodoroCycles: DefaultPomodoroCycles,
	}
}

// Normalize clamps TrackingDelay into range and PomodoroCycles to >= 0
func (s Settings) Normalize() Settings {
	s.TrackingDelay = min(max(s.TrackingDelay, MinTrackingDelay), MaxTrackingDelay)
	s.PomodoroCycles = max(s.PomodoroCycles, 0)
	return s
}

// UnixMillis converts t to milliseconds since the epoch
func UnixMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// FromMillis converts milliseconds since the epoch to local time
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// DateKey returns the daily bucket key of t in its location
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}
