package services

import (
	"context"
	"slices"
	"strconv"

	"focusos/internal/achievements"
	repoerrors "focusos/internal/infrastructure/errors"
	"focusos/internal/types"
)

// Settings returns the stored settings
func (t *Tracker) Settings(ctx context.Context) (types.Settings, error) {
	return t.store.Settings(ctx)
}

// SetTrackingDelay stores the first-visit delay in seconds (1..100)
func (t *Tracker) SetTrackingDelay(ctx context.Context, seconds int) error {
	if seconds < types.MinTrackingDelay || seconds > types.MaxTrackingDelay {
		return repoerrors.HandleValidationError("SetTrackingDelay", "trackingDelay", strconv.Itoa(seconds), "must be between 1 and 100")
	}
	settings, err := t.store.Settings(ctx)
	if err != nil {
		return err
	}
	settings.TrackingDelay = seconds
	return t.store.SaveSettings(ctx, settings)
}

// SetPomodoroCycles stores how many cycles a timer runs; 0 runs until stopped
func (t *Tracker) SetPomodoroCycles(ctx context.Context, cycles int) error {
	if cycles < 0 {
		return repoerrors.HandleValidationError("SetPomodoroCycles", "pomodoroCycles", strconv.Itoa(cycles), "cannot be negative")
	}
	settings, err := t.store.Settings(ctx)
	if err != nil {
		return err
	}
	settings.PomodoroCycles = cycles
	return t.store.SaveSettings(ctx, settings)
}

// Whitelist returns the domains exempt from tracking
func (t *Tracker) Whitelist(ctx context.Context) ([]string, error) {
	return t.store.Whitelist(ctx)
}

// AddToWhitelist exempts domain from tracking; duplicates are ignored
func (t *Tracker) AddToWhitelist(ctx context.Context, domain string) error {
	domain, err := t.validDomain("AddToWhitelist", domain)
	if err != nil {
		return err
	}
	return t.store.UpdateWhitelist(ctx, func(list []string) []string {
		if slices.Contains(list, domain) {
			return list
		}
		return append(list, domain)
	})
}

// RemoveFromWhitelist resumes tracking of domain; absent domains are a no-op
func (t *Tracker) RemoveFromWhitelist(ctx context.Context, domain string) error {
	domain = NormalizeDomain(domain)
	return t.store.UpdateWhitelist(ctx, func(list []string) []string {
		return slices.DeleteFunc(list, func(d string) bool { return d == domain })
	})
}

// ClearWhitelist removes every entry and raises whitelist-cleared
func (t *Tracker) ClearWhitelist(ctx context.Context) error {
	if err := t.store.UpdateWhitelist(ctx, func([]string) []string { return nil }); err != nil {
		return err
	}
	t.raise(ctx, achievements.EventWhitelistCleared, achievements.Payload{At: t.clock.Now()})
	return nil
}

// SetCategory assigns domain to category
func (t *Tracker) SetCategory(ctx context.Context, domain string, category types.SiteCategory) error {
	domain, err := t.validDomain("SetCategory", domain)
	if err != nil {
		return err
	}
	if _, err := types.ParseCategory(string(category)); err != nil {
		return repoerrors.HandleValidationError("SetCategory", "category", string(category), err.Error())
	}
	return t.store.SetSiteCategory(ctx, domain, category)
}

// Category returns the category of domain, CategoryOthers when unset
func (t *Tracker) Category(ctx context.Context, domain string) (types.SiteCategory, error) {
	categories, err := t.store.SiteCategories(ctx)
	if err != nil {
		return "", err
	}
	if c, ok := categories[NormalizeDomain(domain)]; ok {
		return c, nil
	}
	return types.CategoryOthers, nil
}

// TogglePinned pins or unpins domain and returns whether it is now pinned
func (t *Tracker) TogglePinned(ctx context.Context, domain string) (bool, error) {
	domain, err := t.validDomain("TogglePinned", domain)
	if err != nil {
		return false, err
	}
	var pinned bool
	err = t.store.UpdatePinnedSites(ctx, func(list []string) []string {
		if slices.Contains(list, domain) {
			pinned = false
			return slices.DeleteFunc(list, func(d string) bool { return d == domain })
		}
		pinned = true
		return append(list, domain)
	})
	return pinned, err
}

// SetLimit sets the daily limit for domain in minutes; 0 removes it
func (t *Tracker) SetLimit(ctx context.Context, domain string, minutes int) error {
	domain, err := t.validDomain("SetLimit", domain)
	if err != nil {
		return err
	}
	if minutes < 0 {
		return repoerrors.HandleValidationError("SetLimit", "minutes", strconv.Itoa(minutes), "cannot be negative")
	}
	return t.store.SetSiteLimit(ctx, domain, minutes)
}

// Limits returns the daily limits in minutes per domain
func (t *Tracker) Limits(ctx context.Context) (map[string]int, error) {
	return t.store.SiteLimits(ctx)
}
