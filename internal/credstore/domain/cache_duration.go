package domain

import (
	"strconv"
	"strings"
	"time"
)

// CacheDuration is one of the fixed retention windows offered for the derived key.
type CacheDuration struct {
	Label    string
	Duration time.Duration
}

// NoCache keeps the derived key in process memory only.
var NoCache = CacheDuration{Label: "no cache", Duration: 0}

// CacheDurations lists the choices offered after a successful derivation, in menu order.
var CacheDurations = []CacheDuration{
	NoCache,
	{Label: "1 hour", Duration: time.Hour},
	{Label: "8 hours", Duration: 8 * time.Hour},
	{Label: "1 day", Duration: 24 * time.Hour},
}

// ParseCacheDuration maps a menu answer to a retention window. It accepts the menu
// index ("0".."3"), the label ("8 hours") or a compact form ("8h", "1d"). Anything
// else falls back to NoCache.
func ParseCacheDuration(answer string) CacheDuration {
	answer = strings.ToLower(strings.TrimSpace(answer))
	for i, d := range CacheDurations {
		if answer == strconv.Itoa(i) || answer == d.Label {
			return d
		}
	}

	switch answer {
	case "1h":
		return CacheDurations[1]
	case "8h":
		return CacheDurations[2]
	case "1d", "24h":
		return CacheDurations[3]
	}
	return NoCache
}
