package repository

import (
	"context"

	"focusos/internal/types"
)

// Settings returns the stored settings with defaults for missing fields
func (r *Repository) Settings(ctx context.Context) (types.Settings, error) {
	settings := types.DefaultSettings()
	if _, err := getJSON(ctx, r, "Settings", KeySettings, &settings); err != nil {
		return types.Settings{}, err
	}
	return settings.Normalize(), nil
}

// SaveSettings persists normalized settings
func (r *Repository) SaveSettings(ctx context.Context, settings types.Settings) error {
	return r.setJSON(ctx, "SaveSettings", KeySettings, settings.Normalize())
}

// Whitelist returns the domains exempt from tracking
func (r *Repository) Whitelist(ctx context.Context) ([]string, error) {
	var domains []string
	if _, err := getJSON(ctx, r, "Whitelist", KeyWhitelist, &domains); err != nil {
		return nil, err
	}
	return domains, nil
}

// UpdateWhitelist replaces the whitelist with fn's result atomically
func (r *Repository) UpdateWhitelist(ctx context.Context, fn func([]string) []string) error {
	return updateStrings(ctx, r, "UpdateWhitelist", KeyWhitelist, fn)
}

// PinnedSites returns the pinned domains in pin order
func (r *Repository) PinnedSites(ctx context.Context) ([]string, error) {
	var domains []string
	if _, err := getJSON(ctx, r, "PinnedSites", KeyPinnedSites, &domains); err != nil {
		return nil, err
	}
	return domains, nil
}

// UpdatePinnedSites replaces the pinned list with fn's result atomically
func (r *Repository) UpdatePinnedSites(ctx context.Context, fn func([]string) []string) error {
	return updateStrings(ctx, r, "UpdatePinnedSites", KeyPinnedSites, fn)
}

func updateStrings(ctx context.Context, r *Repository, op, key string, fn func([]string) []string) error {
	return updateJSON(ctx, r, op, key, func(list *[]string) error {
		next := fn(*list)
		if next == nil {
			next = []string{}
		}
		*list = next
		return nil
	})
}

// SiteCategories returns the domain to category map
func (r *Repository) SiteCategories(ctx context.Context) (map[string]types.SiteCategory, error) {
	categories := map[string]types.SiteCategory{}
	if _, err := getJSON(ctx, r, "SiteCategories", KeySiteCategories, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// SetSiteCategory assigns domain to category; CategoryOthers removes the entry
func (r *Repository) SetSiteCategory(ctx context.Context, domain string, category types.SiteCategory) error {
	return updateJSON(ctx, r, "SetSiteCategory", KeySiteCategories, func(categories *map[string]types.SiteCategory) error {
		if *categories == nil {
			*categories = map[string]types.SiteCategory{}
		}
		if category == types.CategoryOthers {
			delete(*categories, domain)
			return nil
		}
		(*categories)[domain] = category
		return nil
	})
}

// SiteLimits returns the daily limit in minutes per domain
func (r *Repository) SiteLimits(ctx context.Context) (map[string]int, error) {
	limits := map[string]int{}
	if _, err := getJSON(ctx, r, "SiteLimits", KeySiteLimits, &limits); err != nil {
		return nil, err
	}
	return limits, nil
}

// SetSiteLimit sets the daily limit for domain; minutes <= 0 removes it
func (r *Repository) SetSiteLimit(ctx context.Context, domain string, minutes int) error {
	return updateJSON(ctx, r, "SetSiteLimit", KeySiteLimits, func(limits *map[string]int) error {
		if *limits == nil {
			*limits = map[string]int{}
		}
		if minutes <= 0 {
			delete(*limits, domain)
			return nil
		}
		(*limits)[domain] = minutes
		return nil
	})
}
