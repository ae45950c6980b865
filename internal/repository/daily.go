package repository

import (
	"context"
	"slices"

	"focusos/internal/types"
)

// GetDaily returns the bucket for date, empty when the day has no activity
func (r *Repository) GetDaily(ctx context.Context, date string) (types.DailyRecord, error) {
	record := types.DailyRecord{}
	if _, err := getJSON(ctx, r, "GetDaily", date, &record); err != nil {
		return nil, err
	}
	if record == nil {
		record = types.DailyRecord{}
	}
	return record, nil
}

// UpdateDaily mutates the bucket for date, creating it on first use
func (r *Repository) UpdateDaily(ctx context.Context, date string, fn func(types.DailyRecord) error) error {
	return updateJSON(ctx, r, "UpdateDaily", date, func(record *types.DailyRecord) error {
		if *record == nil {
			*record = types.DailyRecord{}
		}
		return fn(*record)
	})
}

// DailyKeys lists every daily bucket key in ascending date order
func (r *Repository) DailyKeys(ctx context.Context) ([]string, error) {
	keys, err := r.store.Keys(ctx, "")
	if err != nil {
		return nil, err
	}
	daily := slices.DeleteFunc(keys, func(k string) bool { return !IsDailyKey(k) })
	slices.Sort(daily)
	return daily, nil
}

// AllDaily loads every daily bucket keyed by date
func (r *Repository) AllDaily(ctx context.Context) (map[string]types.DailyRecord, error) {
	keys, err := r.DailyKeys(ctx)
	if err != nil {
		return nil, err
	}

	records := make(map[string]types.DailyRecord, len(keys))
	for _, key := range keys {
		record, err := r.GetDaily(ctx, key)
		if err != nil {
			return nil, err
		}
		records[key] = record
	}
	return records, nil
}

// DeleteDailyBefore removes daily buckets and session lists dated before cutoff
// (YYYY-MM-DD) and returns how many keys were removed.
func (r *Repository) DeleteDailyBefore(ctx context.Context, cutoff string) (int, error) {
	daily, err := r.DailyKeys(ctx)
	if err != nil {
		return 0, err
	}
	sessions, err := r.SessionKeys(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, key := range daily {
		if key >= cutoff {
			continue
		}
		if err := r.store.Remove(ctx, key); err != nil {
			return removed, err
		}
		removed++
	}
	for _, key := range sessions {
		if key[len(SessionsKeyPrefix):] >= cutoff {
			continue
		}
		if err := r.store.Remove(ctx, key); err != nil {
			return removed, err
		}
		removed++
	}

	if removed > 0 {
		r.logger.Info("Removed expired records", "cutoff", cutoff, "removed", removed)
	}
	return removed, nil
}
