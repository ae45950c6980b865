package services

import (
	"context"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"focusos/internal/types"
)

// AggregationStore is what aggregation reads
type AggregationStore interface {
	DailyStore
	SiteStore
}

// Aggregator computes read-only rollups over daily buckets
type Aggregator struct {
	store AggregationStore
	clock clockwork.Clock
}

// NewAggregator creates an aggregator
func NewAggregator(store AggregationStore, clock clockwork.Clock) *Aggregator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Aggregator{store: store, clock: clock}
}

// RangeBounds returns the first and last date keys of r relative to now,
// in now's location. All-time has no lower bound and returns "".
// Weeks start on Sunday.
func RangeBounds(r types.Range, now time.Time) (from, to string) {
	to = types.DateKey(now)
	y, m, d := now.Date()
	switch r {
	case types.RangeToday:
		return to, to
	case types.RangeWeek:
		start := time.Date(y, m, d-int(now.Weekday()), 0, 0, 0, 0, now.Location())
		return types.DateKey(start), to
	case types.RangeMonth:
		return types.DateKey(time.Date(y, m, 1, 0, 0, 0, 0, now.Location())), to
	case types.RangeYear:
		return types.DateKey(time.Date(y, time.January, 1, 0, 0, 0, 0, now.Location())), to
	default:
		return "", to
	}
}

// records loads the daily buckets inside r
func (a *Aggregator) records(ctx context.Context, r types.Range) (map[string]types.DailyRecord, error) {
	from, to := RangeBounds(r, a.clock.Now())

	keys, err := a.store.DailyKeys(ctx)
	if err != nil {
		return nil, err
	}

	records := make(map[string]types.DailyRecord)
	for _, key := range keys {
		if key < from || key > to {
			continue
		}
		record, err := a.store.GetDaily(ctx, key)
		if err != nil {
			return nil, err
		}
		records[key] = record
	}
	return records, nil
}

// Aggregate sums the daily buckets inside r. ByDomain is sorted by time
// descending, then domain ascending.
func (a *Aggregator) Aggregate(ctx context.Context, r types.Range) (types.AggregatedData, error) {
	records, err := a.records(ctx, r)
	if err != nil {
		return types.AggregatedData{}, err
	}
	return Sum(records), nil
}

// Sum folds daily records into per-domain totals
func Sum(records map[string]types.DailyRecord) types.AggregatedData {
	byDomain := make(map[string]*types.DomainSummary)
	var total int64

	// ascending dates so the newest favicon wins
	dates := make([]string, 0, len(records))
	for date := range records {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	for _, date := range dates {
		for domain, stats := range records[date] {
			summary, ok := byDomain[domain]
			if !ok {
				summary = &types.DomainSummary{Domain: domain, Category: types.CategoryOthers}
				byDomain[domain] = summary
			}
			summary.Time += stats.Time
			summary.VisitCount += stats.VisitCount
			summary.LastVisited = max(summary.LastVisited, stats.LastVisited)
			if stats.Favicon != "" {
				summary.Favicon = stats.Favicon
			}
			total += stats.Time
		}
	}

	result := types.AggregatedData{TotalTime: total, ByDomain: make([]types.DomainSummary, 0, len(byDomain))}
	for _, summary := range byDomain {
		result.ByDomain = append(result.ByDomain, *summary)
	}
	sort.Slice(result.ByDomain, func(i, j int) bool {
		x, y := result.ByDomain[i], result.ByDomain[j]
		if x.Time != y.Time {
			return x.Time > y.Time
		}
		return x.Domain < y.Domain
	})
	return result
}

// Sites returns the rollup for r annotated with category and pin state,
// pinned domains first
func (a *Aggregator) Sites(ctx context.Context, r types.Range) ([]types.DomainSummary, error) {
	data, err := a.Aggregate(ctx, r)
	if err != nil {
		return nil, err
	}
	categories, err := a.store.SiteCategories(ctx)
	if err != nil {
		return nil, err
	}
	pinnedList, err := a.store.PinnedSites(ctx)
	if err != nil {
		return nil, err
	}
	pinned := make(map[string]bool, len(pinnedList))
	for _, d := range pinnedList {
		pinned[d] = true
	}

	sites := data.ByDomain
	for i := range sites {
		if c, ok := categories[sites[i].Domain]; ok {
			sites[i].Category = c
		}
		sites[i].Pinned = pinned[sites[i].Domain]
	}
	sort.SliceStable(sites, func(i, j int) bool {
		return sites[i].Pinned && !sites[j].Pinned
	})
	return sites, nil
}

// CategoryBreakdown returns time and site count per category for r, in
// display order
func (a *Aggregator) CategoryBreakdown(ctx context.Context, r types.Range) ([]types.CategoryTotal, error) {
	sites, err := a.Sites(ctx, r)
	if err != nil {
		return nil, err
	}

	totals := make(map[types.SiteCategory]*types.CategoryTotal, len(types.Categories))
	breakdown := make([]types.CategoryTotal, len(types.Categories))
	for i, c := range types.Categories {
		breakdown[i].Category = c
		totals[c] = &breakdown[i]
	}
	for _, s := range sites {
		total := totals[s.Category]
		if total == nil {
			total = totals[types.CategoryOthers]
		}
		total.Time += s.Time
		total.Sites++
	}
	return breakdown, nil
}

// Today returns the bucket for the current local date
func (a *Aggregator) Today(ctx context.Context) (types.DailyRecord, error) {
	return a.store.GetDaily(ctx, types.DateKey(a.clock.Now()))
}
