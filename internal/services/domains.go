package services

import (
	"regexp"
	"strings"
)

var domainPattern = regexp.MustCompile(
	`^(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,6}$` +
		`|^localhost$` +
		`|^(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)$`)

// IsValidDomain accepts hostnames, localhost and dotted IPv4 addresses
func IsValidDomain(domain string) bool {
	return domainPattern.MatchString(domain)
}

// NormalizeDomain lowercases domain and strips a leading "www."
func NormalizeDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	return strings.TrimPrefix(domain, "www.")
}
