package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	repoerrors "focusos/internal/infrastructure/errors"
	"focusos/internal/infrastructure/logging"
	"focusos/internal/metrics"
	"focusos/internal/types"
)

// DailySource reads every daily bucket
type DailySource interface {
	AllDaily(ctx context.Context) (map[string]types.DailyRecord, error)
}

// SiteSource aggregates daily buckets over a range
type SiteSource interface {
	Aggregate(ctx context.Context, r types.Range) (types.AggregatedData, error)
}

// SessionSource lists recorded Pomodoro sessions
type SessionSource interface {
	Sessions(ctx context.Context, from, to string) ([]types.PomodoroSession, error)
}

// Exporter builds export tables and renders them as CSV or PDF
type Exporter struct {
	daily    DailySource
	sites    SiteSource
	sessions SessionSource
	clock    clockwork.Clock
	logger   logging.Logger
	recorder metrics.Recorder
}

// Option configures an Exporter
type Option func(*Exporter)

// WithClock sets the clock used for file names and the generated-on line
func WithClock(clock clockwork.Clock) Option {
	return func(e *Exporter) { e.clock = clock }
}

// WithRecorder sets the metrics recorder
func WithRecorder(r metrics.Recorder) Option {
	return func(e *Exporter) { e.recorder = metrics.OrNoop(r) }
}

// NewExporter creates an exporter over the given sources
func NewExporter(daily DailySource, sites SiteSource, sessions SessionSource, logger logging.Logger, opts ...Option) *Exporter {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	e := &Exporter{
		daily:    daily,
		sites:    sites,
		sessions: sessions,
		clock:    clockwork.NewRealClock(),
		logger:   logger,
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Table loads the rows for kind. It returns an EmptyData error when there
// is nothing to export.
func (e *Exporter) Table(ctx context.Context, kind Kind) (Table, error) {
	var rows []Row
	switch kind {
	case KindDaily:
		records, err := e.daily.AllDaily(ctx)
		if err != nil {
			return Table{}, err
		}
		rows = DailyRows(records)
	case KindSites:
		data, err := e.sites.Aggregate(ctx, types.RangeAllTime)
		if err != nil {
			return Table{}, err
		}
		rows = SiteRows(data)
	case KindPomodoro:
		sessions, err := e.sessions.Sessions(ctx, "", "")
		if err != nil {
			return Table{}, err
		}
		rows = PomodoroRows(sessions)
	default:
		return Table{}, repoerrors.HandleValidationError("ExportTable", "kind", string(kind), "unknown export kind")
	}

	if len(rows) == 0 {
		return Table{}, repoerrors.HandleEmptyData("ExportTable", string(kind))
	}
	return Table{Kind: kind, Rows: rows}, nil
}

// Write renders kind in format to w
func (e *Exporter) Write(ctx context.Context, kind Kind, format Format, w io.Writer) error {
	start := time.Now()
	err := e.write(ctx, kind, format, w)
	e.observe(kind, format, err)
	if err == nil {
		logging.LogOperation(e.logger, "Export", time.Since(start), map[string]interface{}{
			"kind":   string(kind),
			"format": string(format),
		})
	}
	return err
}

func (e *Exporter) write(ctx context.Context, kind Kind, format Format, w io.Writer) error {
	table, err := e.Table(ctx, kind)
	if err != nil {
		return err
	}
	switch format {
	case FormatCSV:
		return WriteCSV(w, table)
	case FormatPDF:
		return WritePDF(w, table, e.clock.Now())
	default:
		return repoerrors.HandleValidationError("Export", "format", string(format), "unknown export format")
	}
}

// ExportFile writes kind in format to dir under its standard file name and
// returns the path. Nothing is written when there is no data.
func (e *Exporter) ExportFile(ctx context.Context, kind Kind, format Format, dir string) (string, error) {
	var buf bytes.Buffer
	if err := e.Write(ctx, kind, format, &buf); err != nil {
		return "", err
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create export directory %s: %w", dir, err)
		}
	}
	path := filepath.Join(dir, FileName(kind, format, e.clock.Now()))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write export %s: %w", path, err)
	}

	e.logger.Info("Export written", "kind", string(kind), "format", string(format), "path", path, "bytes", buf.Len())
	return path, nil
}

func (e *Exporter) observe(kind Kind, format Format, err error) {
	result := "success"
	switch {
	case repoerrors.IsEmptyData(err):
		result = "empty"
	case err != nil:
		result = "error"
		logging.LogError(e.logger, err, "Export", map[string]interface{}{
			"kind":   string(kind),
			"format": string(format),
		})
	}
	e.recorder.IncExport(string(kind), string(format), result)
}
