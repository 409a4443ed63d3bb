package repository

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Suggest returns up to limit known names that look like query, best match first.
// A name matches when either string is a fuzzy subsequence of the other.
func Suggest(query string, names []string, limit int) []string {
	if query == "" || limit <= 0 {
		return nil
	}

	scores := make(map[string]int)
	for _, m := range fuzzy.Find(query, names) {
		scores[m.Str] = m.Score
	}
	for _, name := range names {
		if _, ok := scores[name]; ok {
			continue
		}
		if matches := fuzzy.Find(name, []string{query}); len(matches) > 0 {
			scores[name] = matches[0].Score
		}
	}
	for name := range scores {
		if strings.EqualFold(name, query) {
			scores[name] = math.MaxInt
		}
	}
	delete(scores, query)

	out := make([]string, 0, len(scores))
	for name := range scores {
		out = append(out, name)
	}
	slices.SortFunc(out, func(a, b string) int {
		if c := cmp.Compare(scores[b], scores[a]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
