package prune

import (
	"fmt"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ReasonDuplicate marks every occurrence of a command after its first.
const ReasonDuplicate = "Duplicate"

// FailedPrefixReason is the reason for a failed command that is a truncated
// form of a successful one.
func FailedPrefixReason(successful string) string {
	return fmt.Sprintf("Failed prefix of '%s'", successful)
}

// FailedSimilarReason is the reason for a failed command resembling a
// successful one.
func FailedSimilarReason(successful string) string {
	return fmt.Sprintf("Failed similar to '%s'", successful)
}

// RareVariantReason is the reason for a rare command resembling a common one.
func RareVariantReason(common string) string {
	return fmt.Sprintf("Rare variant of '%s'", common)
}

// RemovalSet maps line indices to the reason they are being removed.
// A line keeps the reason it was first marked with.
type RemovalSet struct {
	reasons *orderedmap.OrderedMap[int, string]
}

// NewRemovalSet returns an empty RemovalSet.
func NewRemovalSet() *RemovalSet {
	return &RemovalSet{reasons: orderedmap.New[int, string]()}
}

// Mark records line for removal. It reports false and leaves the existing
// reason alone when the line is already marked.
func (s *RemovalSet) Mark(line int, reason string) bool {
	if s.Has(line) {
		return false
	}
	s.reasons.Set(line, reason)
	return true
}

// Unmark removes line from the set.
func (s *RemovalSet) Unmark(line int) {
	s.reasons.Delete(line)
}

// Has reports whether line is marked.
func (s *RemovalSet) Has(line int) bool {
	_, ok := s.reasons.Get(line)
	return ok
}

// Reason returns the reason line was marked with.
func (s *RemovalSet) Reason(line int) (string, bool) {
	return s.reasons.Get(line)
}

// Len returns the number of marked lines.
func (s *RemovalSet) Len() int {
	return s.reasons.Len()
}

// Indices returns the marked lines in ascending order.
func (s *RemovalSet) Indices() []int {
	out := make([]int, 0, s.reasons.Len())
	for pair := s.reasons.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	sort.Ints(out)
	return out
}

// CountByReason returns how many lines carry each reason.
func (s *RemovalSet) CountByReason() map[string]int {
	counts := make(map[string]int)
	for pair := s.reasons.Oldest(); pair != nil; pair = pair.Next() {
		counts[pair.Value]++
	}
	return counts
}

// Count returns how many lines carry reason.
func (s *RemovalSet) Count(reason string) int {
	n := 0
	for pair := s.reasons.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == reason {
			n++
		}
	}
	return n
}
