package export

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repoerrors "focusos/internal/infrastructure/errors"
	"focusos/internal/infrastructure/logging"
	"focusos/internal/metrics"
	"focusos/internal/types"
)

var exportNow = time.Date(2024, 6, 5, 10, 0, 0, 0, time.Local)

type fakeSources struct {
	daily    map[string]types.DailyRecord
	sites    types.AggregatedData
	sessions []types.PomodoroSession
	err      error
}

func (f *fakeSources) AllDaily(context.Context) (map[string]types.DailyRecord, error) {
	return f.daily, f.err
}

func (f *fakeSources) Aggregate(_ context.Context, r types.Range) (types.AggregatedData, error) {
	if r != types.RangeAllTime {
		return types.AggregatedData{}, errors.New("sites export must use all-time")
	}
	return f.sites, f.err
}

func (f *fakeSources) Sessions(_ context.Context, from, to string) ([]types.PomodoroSession, error) {
	return f.sessions, f.err
}

func newTestExporter(src *fakeSources, opts ...Option) *Exporter {
	opts = append([]Option{WithClock(clockwork.NewFakeClockAt(exportNow))}, opts...)
	return NewExporter(src, src, src, logging.NopLogger{}, opts...)
}

func TestFormatSeconds(t *testing.T) {
	t.Parallel()

	tests := map[int64]string{
		0:    "0s",
		45:   "45s",
		60:   "1m 0s",
		725:  "12m 5s",
		3600: "1h 0m",
		7380: "2h 3m",
	}
	for seconds, expected := range tests {
		assert.Equal(t, expected, FormatSeconds(seconds), "FormatSeconds(%d)", seconds)
	}
}

func TestParseKindAndFormat(t *testing.T) {
	t.Parallel()

	kind, err := ParseKind("sites")
	require.NoError(t, err)
	assert.Equal(t, KindSites, kind)

	_, err = ParseKind("weekly")
	assert.Error(t, err)

	format, err := ParseFormat("PDF")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, format)

	_, err = ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "focusos_daily_export_2024-06-05.csv", FileName(KindDaily, FormatCSV, exportNow))
	assert.Equal(t, "focusos_pomodoro_export_2024-06-05.pdf", FileName(KindPomodoro, FormatPDF, exportNow))
}

func TestWriteCSV_Daily(t *testing.T) {
	t.Parallel()

	rows := DailyRows(map[string]types.DailyRecord{
		"2024-06-04": {"b.com": {Time: 1499, VisitCount: 1}},
		"2024-06-05": {
			"a.com": {Time: 600_000, VisitCount: 2},
			"c.com": {Time: 1500, VisitCount: 3},
		},
	})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Table{Kind: KindDaily, Rows: rows}))

	expected := strings.Join([]string{
		"Date,Domain,Time (Seconds),Visit Count,Last Visited",
		`2024-06-05,"a.com",600,2,""`,
		`2024-06-05,"c.com",2,3,""`,
		`2024-06-04,"b.com",1,1,""`,
	}, "\n")
	assert.Equal(t, expected, buf.String())
}

func TestWriteCSV_QuotesStringFields(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 6, 5, 9, 30, 0, 0, time.Local)
	rows := PomodoroRows([]types.PomodoroSession{{
		TemplateName:    `Deep, "focused" work`,
		WorkMinutes:     50,
		BreakMinutes:    10,
		StartTime:       types.UnixMillis(start),
		CompletedCycles: 2,
		Interrupted:     true,
	}})

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Table{Kind: KindPomodoro, Rows: rows}))

	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Time,Template,Work (mins),Break (mins),Cycles,Status", lines[0])
	assert.Equal(t, `2024-06-05,09:30,"Deep, ""focused"" work",50,10,2,Interrupted`, lines[1])
}

func TestSiteRows(t *testing.T) {
	t.Parallel()

	last := time.Date(2024, 6, 5, 8, 15, 0, 0, time.Local)
	rows := SiteRows(types.AggregatedData{ByDomain: []types.DomainSummary{
		{Domain: "github.com", Time: 7_380_000, VisitCount: 9, LastVisited: types.UnixMillis(last)},
	}})

	require.Len(t, rows, 1)
	assert.Equal(t, []string{"github.com", "2h 3m", "9", "2024-06-05 08:15:00"}, rows[0].PDF())

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Table{Kind: KindSites, Rows: rows}))
	assert.Equal(t, "Domain,Total Time (Seconds),Total Visits,Last Visited\n\"github.com\",7380,9,\"2024-06-05 08:15:00\"", buf.String())
}

func TestWritePDF(t *testing.T) {
	t.Parallel()

	rows := PomodoroRows([]types.PomodoroSession{{
		TemplateName: "Classic", WorkMinutes: 25, BreakMinutes: 5,
		StartTime: types.UnixMillis(exportNow), CompletedCycles: 4,
	}})
	assert.Equal(t, "25/5", rows[0].PDF()[3])
	assert.Equal(t, "Completed", rows[0].PDF()[5])

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, Table{Kind: KindPomodoro, Rows: rows}, exportNow))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")), "output should be a PDF document")
}

func TestExporter_EmptyData(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	exporter := newTestExporter(&fakeSources{}, WithRecorder(metrics.NewPrometheusRecorder(reg)))
	dir := t.TempDir()

	for _, kind := range Kinds {
		_, err := exporter.ExportFile(context.Background(), kind, FormatCSV, dir)
		assert.True(t, repoerrors.IsEmptyData(err), "%s: expected EmptyData, got %v", kind, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no file should be written without data")

	count, err := testutil.GatherAndCount(reg, "focusos_exports_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestExporter_ExportFile(t *testing.T) {
	t.Parallel()

	src := &fakeSources{daily: map[string]types.DailyRecord{
		"2024-06-05": {"example.com": {Time: 65_000, VisitCount: 1}},
	}}
	exporter := newTestExporter(src)
	dir := filepath.Join(t.TempDir(), "exports")

	path, err := exporter.ExportFile(context.Background(), KindDaily, FormatCSV, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "focusos_daily_export_2024-06-05.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `2024-06-05,"example.com",65,1,""`)

	path, err = exporter.ExportFile(context.Background(), KindDaily, FormatPDF, dir)
	require.NoError(t, err)
	assert.Equal(t, "focusos_daily_export_2024-06-05.pdf", filepath.Base(path))
}

func TestExporter_SourceError(t *testing.T) {
	t.Parallel()

	boom := errors.New("disk on fire")
	exporter := newTestExporter(&fakeSources{err: boom})

	var buf bytes.Buffer
	err := exporter.Write(context.Background(), KindPomodoro, FormatCSV, &buf)
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, buf.Len())
}

func TestExporter_UnknownKind(t *testing.T) {
	t.Parallel()

	_, err := newTestExporter(&fakeSources{}).Table(context.Background(), Kind("weekly"))
	assert.True(t, repoerrors.IsValidation(err))
}
