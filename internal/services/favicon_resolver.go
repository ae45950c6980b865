package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

// HTMLFaviconResolver discovers favicons by scraping a site's landing page
type HTMLFaviconResolver struct {
	scheme    string
	userAgent string
	timeout   time.Duration
}

// NewFaviconResolver creates a resolver that fetches https://<domain>/
func NewFaviconResolver() *HTMLFaviconResolver {
	return &HTMLFaviconResolver{
		scheme:    "https",
		userAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) FocusOS/1.0",
		timeout:   5 * time.Second,
	}
}

// WithTimeout sets the page request timeout. Non-positive values are ignored.
func (r *HTMLFaviconResolver) WithTimeout(d time.Duration) *HTMLFaviconResolver {
	if d > 0 {
		r.timeout = d
	}
	return r
}

func (r *HTMLFaviconResolver) newCollector() *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(r.userAgent),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(r.timeout)

	// Set reasonable limits
	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 2,
	})
	return c
}

// Resolve returns the first icon link on the landing page of domain, or
// <scheme>://<domain>/favicon.ico when the page declares none
func (r *HTMLFaviconResolver) Resolve(ctx context.Context, domain string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fallback := fmt.Sprintf("%s://%s/favicon.ico", r.scheme, domain)
	var icon string

	c := r.newCollector()
	c.OnRequest(func(req *colly.Request) {
		if ctx.Err() != nil {
			req.Abort()
		}
	})
	c.OnHTML(`link[rel~="icon"], link[rel="shortcut icon"], link[rel="apple-touch-icon"]`, func(e *colly.HTMLElement) {
		if icon != "" {
			return
		}
		href := strings.TrimSpace(e.Attr("href"))
		if href == "" {
			return
		}
		icon = e.Request.AbsoluteURL(href)
	})

	if err := c.Visit(fmt.Sprintf("%s://%s/", r.scheme, domain)); err != nil {
		return fallback, fmt.Errorf("failed to fetch %s: %w", domain, err)
	}
	c.Wait()

	if icon == "" {
		return fallback, nil
	}
	return icon, nil
}
