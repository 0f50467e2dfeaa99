package prune

import (
	"strings"

	"github.com/chazuruo/histprune/internal/index"
)

// rareFactor is how many times more often a command must occur than a rare
// one to be considered its common form.
const rareFactor = 3

// Duplicates marks every occurrence of a command except its first.
// It returns the number of lines it marked.
func Duplicates(idx *index.Index, set *RemovalSet) int {
	marked := 0
	for _, cmd := range idx.Commands() {
		lines := idx.Lines(cmd)
		if len(lines) < 2 {
			continue
		}
		first, _ := idx.First(cmd)
		for _, line := range lines {
			if line != first && set.Mark(line, ReasonDuplicate) {
				marked++
			}
		}
	}
	return marked
}

// FailedSimilar marks failed commands that have a more successful sibling
// with the same base command. Successful candidates are scanned in the order
// they first succeeded; the first one that qualifies wins:
//
//   - the candidate extends the failed command (prefix rule), or
//   - the similarity is in [threshold, 1).
//
// Either way the candidate must have succeeded more often than the failed
// command failed. It returns the number of lines it marked.
func FailedSimilar(idx *index.Index, set *RemovalSet, threshold float64) int {
	marked := 0
	idx.Failed.Each(func(failed string, failCount int) bool {
		base := BaseCommand(failed)

		idx.Succeeded.Each(func(success string, successCount int) bool {
			if BaseCommand(success) != base {
				return true
			}

			if len(success) > len(failed) && strings.HasPrefix(success, failed) && successCount > failCount {
				marked += markAll(idx, set, failed, FailedPrefixReason(success))
				return false
			}

			sim := Similarity(failed, success)
			if sim >= threshold && sim < 1.0 && successCount > failCount {
				marked += markAll(idx, set, failed, FailedSimilarReason(success))
				return false
			}
			return true
		})
		return true
	})
	return marked
}

// RareVariants marks commands used at most rareThreshold times that resemble
// a command used more than three times as often. Success and failure counts
// are combined; commands whose exit status is unknown take no part.
// It returns the number of lines it marked.
func RareVariants(idx *index.Index, set *RemovalSet, threshold float64, rareThreshold int) int {
	all := idx.Succeeded.Merge(idx.Failed)

	marked := 0
	all.Each(func(rare string, rareCount int) bool {
		if rareCount > rareThreshold {
			return true
		}
		base := BaseCommand(rare)

		all.Each(func(common string, commonCount int) bool {
			if commonCount <= rareCount*rareFactor || BaseCommand(common) != base {
				return true
			}
			if Similarity(rare, common) < threshold {
				return true
			}
			marked += markAll(idx, set, rare, RareVariantReason(common))
			return false
		})
		return true
	})
	return marked
}

// markAll marks every occurrence of cmd that is not already marked.
func markAll(idx *index.Index, set *RemovalSet, cmd, reason string) int {
	n := 0
	for _, line := range idx.Lines(cmd) {
		if set.Mark(line, reason) {
			n++
		}
	}
	return n
}
