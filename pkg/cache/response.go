package cache

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultTTL is used when neither the server nor the caller sets a lifetime.
const DefaultTTL = time.Hour

// NewEntry builds an entry for a response received at now. The lifetime comes
// from Cache-Control max-age, then Expires, then ttl.
func NewEntry(statusCode int, header http.Header, body []byte, now time.Time, ttl time.Duration) *Entry {
	return &Entry{
		Data:       body,
		StatusCode: statusCode,
		Headers:    header.Clone(),
		CachedAt:   now,
		Expires:    parseExpires(header, now, ttl),
	}
}

// Cacheable reports whether a response may be stored.
func Cacheable(statusCode int, header http.Header) bool {
	if statusCode != http.StatusOK {
		return false
	}
	cc := strings.ToLower(header.Get("Cache-Control"))
	return !strings.Contains(cc, "no-store")
}

func parseExpires(header http.Header, now time.Time, fallback time.Duration) time.Time {
	if fallback <= 0 {
		fallback = DefaultTTL
	}

	for _, directive := range strings.Split(header.Get("Cache-Control"), ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(directive), "=")
		if !ok || !strings.EqualFold(name, "max-age") {
			continue
		}
		if secs, err := strconv.Atoi(value); err == nil && secs >= 0 {
			return now.Add(time.Duration(secs) * time.Second)
		}
	}

	if expiresStr := header.Get("Expires"); expiresStr != "" {
		if expires, err := http.ParseTime(expiresStr); err == nil {
			if expires.Before(now) {
				return now
			}
			return expires
		}
	}

	return now.Add(fallback)
}
