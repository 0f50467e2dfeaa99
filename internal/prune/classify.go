package prune

import (
	"fmt"

	hperrors "github.com/chazuruo/histprune/internal/errors"
	"github.com/chazuruo/histprune/internal/index"
)

// Settings tunes the removal strategies.
type Settings struct {
	// Similarity is the minimum score for two commands to count as variants.
	Similarity float64
	// RareThreshold is the largest occurrence count considered rare.
	RareThreshold int
	// RemoveRare enables the rare-variant strategy.
	RemoveRare bool
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Similarity:    0.8,
		RareThreshold: 3,
		RemoveRare:    false,
	}
}

// Validate checks that the settings are in range.
func (s Settings) Validate() error {
	if s.Similarity < 0 || s.Similarity > 1 {
		return fmt.Errorf("%w: similarity must be between 0 and 1; got %v", hperrors.ErrInvalid, s.Similarity)
	}
	if s.RareThreshold < 0 {
		return fmt.Errorf("%w: rare threshold must be >= 0; got %d", hperrors.ErrInvalid, s.RareThreshold)
	}
	return nil
}

// Outcome is the result of classifying an index.
type Outcome struct {
	Removals *RemovalSet

	// Per-strategy counts of newly marked lines.
	Duplicates    int
	FailedSimilar int
	RareVariants  int
}

// Classify runs the strategies in order: duplicates, failed-similar, and,
// when enabled, rare variants.
func Classify(idx *index.Index, settings Settings) Outcome {
	set := NewRemovalSet()
	out := Outcome{Removals: set}

	out.Duplicates = Duplicates(idx, set)
	out.FailedSimilar = FailedSimilar(idx, set, settings.Similarity)
	if settings.RemoveRare {
		out.RareVariants = RareVariants(idx, set, settings.Similarity, settings.RareThreshold)
	}

	return out
}

// Candidate is a line marked for removal.
type Candidate struct {
	Line    int
	Command string
	Reason  string
}

// Candidates lists the lines in the removal set in file order.
func (o Outcome) Candidates(idx *index.Index) []Candidate {
	lines := o.Removals.Indices()
	out := make([]Candidate, 0, len(lines))
	for _, line := range lines {
		reason, _ := o.Removals.Reason(line)
		out = append(out, Candidate{
			Line:    line,
			Command: idx.Records[line].Command,
			Reason:  reason,
		})
	}
	return out
}
