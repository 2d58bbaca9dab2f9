package textutil

import (
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/text/cases"
)

// Similarity returns a case-insensitive match ratio in [0,1].
// Identical strings (after case folding) score 1, disjoint strings score 0,
// and a non-empty string compared against an empty one scores 0.
func Similarity(a, b string) float64 {
	fold := cases.Fold()
	left := splitRunes(fold.String(a))
	right := splitRunes(fold.String(b))
	if len(left) == 0 && len(right) == 0 {
		return 1
	}
	if len(left) == 0 || len(right) == 0 {
		return 0
	}
	return difflib.NewMatcher(left, right).Ratio()
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
