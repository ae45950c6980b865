package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"focusos/internal/types"
)

// Kind selects which dataset is exported
type Kind string

const (
	KindDaily    Kind = "daily"
	KindSites    Kind = "sites"
	KindPomodoro Kind = "pomodoro"
)

// Kinds lists every export kind
var Kinds = []Kind{KindDaily, KindSites, KindPomodoro}

// ParseKind validates an export kind name
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown export kind %q (expected daily, sites or pomodoro)", s)
}

// Format is the output file format
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat validates an export format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (expected csv or pdf)", s)
	}
}

// FileName returns focusos_<kind>_export_<YYYY-MM-DD>.<ext>
func FileName(kind Kind, format Format, now time.Time) string {
	return fmt.Sprintf("focusos_%s_export_%s.%s", kind, types.DateKey(now), format)
}

// displayLayout renders timestamps in exported rows
const displayLayout = "2006-01-02 15:04:05"

// Cell is one CSV field. Quoted fields are always wrapped in double quotes.
type Cell struct {
	Text   string
	Quoted bool
}

func text(s string) Cell   { return Cell{Text: s} }
func quoted(s string) Cell { return Cell{Text: s, Quoted: true} }
func number[T int | int64](n T) Cell {
	return Cell{Text: strconv.FormatInt(int64(n), 10)}
}

// Row is one exported record with its CSV and PDF renditions
type Row interface {
	CSV() []Cell
	PDF() []string
}

// Table is the rows of one export kind
type Table struct {
	Kind Kind
	Rows []Row
}

// layout holds the per-kind headers and PDF styling
type layout struct {
	title      string
	csvHeaders []string
	pdfHeaders []string
	widths     []float64 // mm, summing to the printable A4 width
	fontSize   float64
	fill       [3]int
}

var layouts = map[Kind]layout{
	KindDaily: {
		title:      "FocusOS - Daily Activity Export",
		csvHeaders: []string{"Date", "Domain", "Time (Seconds)", "Visit Count", "Last Visited"},
		pdfHeaders: []string{"Date", "Domain", "Time", "Visits", "Last Visited"},
		widths:     []float64{26, 62, 26, 18, 50},
		fontSize:   8,
		fill:       [3]int{220, 38, 38},
	},
	KindSites: {
		title:      "FocusOS - Site Details Export",
		csvHeaders: []string{"Domain", "Total Time (Seconds)", "Total Visits", "Last Visited"},
		pdfHeaders: []string{"Domain", "Total Time", "Visits", "Last Visited"},
		widths:     []float64{72, 32, 22, 56},
		fontSize:   9,
		fill:       [3]int{37, 99, 235},
	},
	KindPomodoro: {
		title:      "FocusOS - Pomodoro Stats Export",
		csvHeaders: []string{"Date", "Time", "Template", "Work (mins)", "Break (mins)", "Cycles", "Status"},
		pdfHeaders: []string{"Date", "Time", "Template", "W/B (m)", "Cycles", "Status"},
		widths:     []float64{28, 24, 56, 24, 20, 30},
		fontSize:   9,
		fill:       [3]int{22, 163, 74},
	},
}

// FormatSeconds renders a duration as "45s", "12m 5s" or "2h 3m"
func FormatSeconds(seconds int64) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds%60)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// roundSeconds converts milliseconds to the nearest whole second
func roundSeconds(ms int64) int64 {
	return (ms + 500) / 1000
}

func formatMillis(ms int64) string {
	if ms <= 0 {
		return ""
	}
	return types.FromMillis(ms).Format(displayLayout)
}
