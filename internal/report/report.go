// Package report summarizes a clean run for humans and machines.
package report

import (
	"sort"

	"github.com/chazuruo/histprune/internal/app"
	"github.com/chazuruo/histprune/internal/prune"
)

// DefaultSampleSize is the number of removal samples listed by default.
const DefaultSampleSize = 20

// Report is the summary of one clean run.
type Report struct {
	File           string        `json:"file" yaml:"file"`
	Backup         string        `json:"backup,omitempty" yaml:"backup,omitempty"`
	DryRun         bool          `json:"dry_run" yaml:"dry_run"`
	Written        bool          `json:"written" yaml:"written"`
	TotalLines     int           `json:"total_lines" yaml:"total_lines"`
	ParsedCommands int           `json:"parsed_commands" yaml:"parsed_commands"`
	UniqueCommands int           `json:"unique_commands" yaml:"unique_commands"`
	Successful     int           `json:"successful" yaml:"successful"`
	Failed         int           `json:"failed" yaml:"failed"`
	Duplicates     int           `json:"duplicates" yaml:"duplicates"`
	Removed        int           `json:"removed" yaml:"removed"`
	Reasons        []ReasonCount `json:"reasons" yaml:"reasons"`
	Samples        []Sample      `json:"samples" yaml:"samples"`
	MoreSamples    int           `json:"more_samples,omitempty" yaml:"more_samples,omitempty"`
}

// ReasonCount is the number of lines removed for one reason.
type ReasonCount struct {
	Reason string `json:"reason" yaml:"reason"`
	Lines  int    `json:"lines" yaml:"lines"`
}

// Sample is one removed line. Line is 1-based.
type Sample struct {
	Line    int    `json:"line" yaml:"line"`
	Command string `json:"command" yaml:"command"`
	Reason  string `json:"reason" yaml:"reason"`
}

// Build summarizes res, listing at most sampleSize removed lines.
func Build(res *app.CleanResult, sampleSize int) Report {
	r := Report{
		File:           res.HistoryPath,
		Backup:         res.BackupPath,
		DryRun:         res.DryRun,
		Written:        res.Written,
		TotalLines:     res.TotalLines,
		ParsedCommands: res.Index.Parsed(),
		UniqueCommands: res.Index.Unique(),
		Successful:     res.Index.Succeeded.Total(),
		Failed:         res.Index.Failed.Total(),
		Duplicates:     res.Removals.Count(prune.ReasonDuplicate),
		Removed:        res.Removed(),
		Reasons:        reasonCounts(res.Removals),
		Samples:        []Sample{},
	}

	for i, c := range res.Candidates {
		if i >= sampleSize {
			r.MoreSamples = len(res.Candidates) - sampleSize
			break
		}
		r.Samples = append(r.Samples, Sample{Line: c.Line + 1, Command: c.Command, Reason: c.Reason})
	}

	return r
}

// reasonCounts returns the per-reason totals sorted by reason.
func reasonCounts(set *prune.RemovalSet) []ReasonCount {
	byReason := set.CountByReason()

	out := make([]ReasonCount, 0, len(byReason))
	for reason, n := range byReason {
		out = append(out, ReasonCount{Reason: reason, Lines: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Reason < out[j].Reason })
	return out
}
