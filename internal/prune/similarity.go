// Package prune decides which history lines to delete.
//
// Three strategies run in a fixed order over an index.Index:
//
//   - Duplicates keeps only the first occurrence of each command.
//   - FailedSimilar drops failed commands that are a prefix of, or look like,
//     a more successful command with the same base command.
//   - RareVariants (opt-in) drops rarely used commands that look like a far
//     more common one.
//
// All strategies are pure functions of the index and settings. The first
// strategy to mark a line decides its reason.
package prune

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// BaseCommand returns the first whitespace-delimited token of cmd.
// A command with no tokens is returned unchanged.
func BaseCommand(cmd string) string {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return cmd
	}
	return fields[0]
}

// Similarity returns a score in [0, 1] for how alike a and b are, computed
// as 2*M/T where M is the number of characters in the longest matching
// blocks and T the combined length. It is 1 only for identical strings and
// does not depend on argument order.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	ra, rb := splitRunes(a), splitRunes(b)
	forward := difflib.NewMatcher(ra, rb).Ratio()
	backward := difflib.NewMatcher(rb, ra).Ratio()
	return max(forward, backward)
}

// splitRunes turns s into one element per rune so the matcher compares
// characters rather than lines.
func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
