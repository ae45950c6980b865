package export

import (
	"fmt"
	"sort"

	"focusos/internal/types"
)

// DailyRow is one domain on one day
type DailyRow struct {
	Date        string
	Domain      string
	TimeSeconds int64
	VisitCount  int
	LastVisited string
}

func (r DailyRow) CSV() []Cell {
	return []Cell{text(r.Date), quoted(r.Domain), number(r.TimeSeconds), number(r.VisitCount), quoted(r.LastVisited)}
}

func (r DailyRow) PDF() []string {
	return []string{r.Date, r.Domain, FormatSeconds(r.TimeSeconds), fmt.Sprint(r.VisitCount), r.LastVisited}
}

// SiteRow is one domain's all-time totals
type SiteRow struct {
	Domain           string
	TotalTimeSeconds int64
	VisitCount       int
	LastVisited      string
}

func (r SiteRow) CSV() []Cell {
	return []Cell{quoted(r.Domain), number(r.TotalTimeSeconds), number(r.VisitCount), quoted(r.LastVisited)}
}

func (r SiteRow) PDF() []string {
	return []string{r.Domain, FormatSeconds(r.TotalTimeSeconds), fmt.Sprint(r.VisitCount), r.LastVisited}
}

// PomodoroRow is one recorded session
type PomodoroRow struct {
	Date         string
	Time         string
	Template     string
	WorkMinutes  int
	BreakMinutes int
	Cycles       int
	Status       string
}

func (r PomodoroRow) CSV() []Cell {
	return []Cell{
		text(r.Date), text(r.Time), quoted(r.Template),
		number(r.WorkMinutes), number(r.BreakMinutes), number(r.Cycles), text(r.Status),
	}
}

func (r PomodoroRow) PDF() []string {
	return []string{
		r.Date, r.Time, r.Template,
		fmt.Sprintf("%d/%d", r.WorkMinutes, r.BreakMinutes), fmt.Sprint(r.Cycles), r.Status,
	}
}

// DailyRows flattens daily buckets, newest date first. Within a day domains
// are ordered by time descending, then name.
func DailyRows(records map[string]types.DailyRecord) []Row {
	var rows []DailyRow
	for date, record := range records {
		for domain, stats := range record {
			rows = append(rows, DailyRow{
				Date:        date,
				Domain:      domain,
				TimeSeconds: roundSeconds(stats.Time),
				VisitCount:  stats.VisitCount,
				LastVisited: formatMillis(stats.LastVisited),
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		if a.TimeSeconds != b.TimeSeconds {
			return a.TimeSeconds > b.TimeSeconds
		}
		return a.Domain < b.Domain
	})

	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

// SiteRows converts an all-time rollup, keeping its order
func SiteRows(data types.AggregatedData) []Row {
	out := make([]Row, 0, len(data.ByDomain))
	for _, s := range data.ByDomain {
		out = append(out, SiteRow{
			Domain:           s.Domain,
			TotalTimeSeconds: roundSeconds(s.Time),
			VisitCount:       s.VisitCount,
			LastVisited:      formatMillis(s.LastVisited),
		})
	}
	return out
}

// PomodoroRows converts sessions, keeping their order
func PomodoroRows(sessions []types.PomodoroSession) []Row {
	out := make([]Row, 0, len(sessions))
	for _, s := range sessions {
		start := types.FromMillis(s.StartTime)
		status := "Completed"
		if s.Interrupted {
			status = "Interrupted"
		}
		out = append(out, PomodoroRow{
			Date:         types.DateKey(start),
			Time:         start.Format("15:04"),
			Template:     s.TemplateName,
			WorkMinutes:  s.WorkMinutes,
			BreakMinutes: s.BreakMinutes,
			Cycles:       s.CompletedCycles,
			Status:       status,
		})
	}
	return out
}
