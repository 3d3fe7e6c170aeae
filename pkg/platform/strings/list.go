// Package strings normalizes the comma separated lists read from the
// environment.
package strings

import (
	"strings"

	"github.com/samber/lo"
)

// SplitList splits a comma separated value, trimming each part and dropping
// empty and repeated parts. Order is preserved.
func SplitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return Normalize(strings.Split(v, ","), false)
}

// Normalize trims, optionally lowercases, and dedupes values. Empty entries
// are dropped.
func Normalize(values []string, lower bool) []string {
	out := lo.FilterMap(values, func(v string, _ int) (string, bool) {
		v = strings.TrimSpace(v)
		if lower {
			v = strings.ToLower(v)
		}
		return v, v != ""
	})
	return lo.Uniq(out)
}
