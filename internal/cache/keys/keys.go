// Package keys builds cache keys for proxied CDSS queries.
package keys

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
	h3 "github.com/uber/h3-go/v4"
)

// Key composes resource, spatial cell, and filter text into a cache
// key. The sanitized filter text keeps keys readable in redis-cli; the
// xxhash suffix keeps truncated filters from colliding. Non-spatial
// queries pass cell "-".
func Key(resource, cell, filters string) string {
	resNorm := sanitize(strings.TrimSpace(resource))
	filterText := normalizeFilters(filters)
	filterSafe := sanitize(filterText)

	const maxFilterTextLen = 160
	if len(filterSafe) > maxFilterTextLen {
		filterSafe = filterSafe[:maxFilterTextLen]
	}
	if cell == "" {
		cell = "-"
	}

	sum := xxhash.Sum64String(filterText)

	return fmt.Sprintf("%s:%s:filters=%s:f=%016x", resNorm, cell, filterSafe, sum)
}

// Prefix is the invalidation prefix covering every cached query for a
// resource.
func Prefix(resource string) string {
	return sanitize(strings.TrimSpace(resource)) + ":"
}

// Cell buckets a search location into an H3 cell so nearby queries
// share an invalidation prefix. Coarse resolutions (4-6) work well for
// the 1-150 mile search radii the API allows.
func Cell(lat, lng float64, res int) string {
	c, err := h3.LatLngToCell(h3.LatLng{Lat: lat, Lng: lng}, res)
	if err != nil {
		return "-"
	}
	return c.String()
}

func normalizeFilters(s string) string {
	if s == "" {
		return ""
	}
	s = collapseASCIIWhitespace(strings.TrimSpace(s))
	return strings.ReplaceAll(s, "& ", "&")
}

func sanitize(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))

	var prev rune
	for _, r := range s {
		var out rune
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f':
			out = '_'
		case isAlphaNum(r) || r == '_' || r == '-' || r == '=' || r == '&' || r == '.':
			out = r
		default:
			// Any other rune (including '/' and non-ASCII) becomes '-'
			out = '-'
		}
		if (out == '_' || out == '-') && out == prev {
			continue
		}
		b.WriteRune(out)
		prev = out
	}
	return b.String()
}

// converts any run of ASCII whitespace to a single space.
func collapseASCIIWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	wasWS := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f' {
			if !wasWS {
				b.WriteByte(' ')
				wasWS = true
			}
			continue
		}
		b.WriteRune(r)
		wasWS = false
	}
	return strings.TrimSpace(b.String())
}

func isAlphaNum(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		unicode.IsDigit(r)
}
