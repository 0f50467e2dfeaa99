// Package app provides high-level application logic for histprune commands.
package app

import (
	"context"
	"fmt"

	hperrors "github.com/chazuruo/histprune/internal/errors"
	"github.com/chazuruo/histprune/internal/history"
	"github.com/chazuruo/histprune/internal/historyfile"
	"github.com/chazuruo/histprune/internal/index"
	"github.com/chazuruo/histprune/internal/logging"
	"github.com/chazuruo/histprune/internal/prune"
)

// ReviewFunc lets the user edit the removal candidates. It returns the
// candidates that should still be removed.
type ReviewFunc func(candidates []prune.Candidate) ([]prune.Candidate, error)

// ConfirmFunc asks whether removed lines may be dropped from path.
type ConfirmFunc func(path string, removed int) (bool, error)

// CleanOptions contains the options for the clean operation.
type CleanOptions struct {
	// HistoryPath is the history file. If empty, history.DetectPath is used.
	HistoryPath string
	// ExitPath is the sidecar exit code file.
	// If empty, HistoryPath + "_exits" is used.
	ExitPath string
	// ExitMode selects where exit codes come from.
	ExitMode history.ExitMode
	// BackupSuffix names the backup. If empty, ".backup" is used.
	BackupSuffix string
	// Settings tunes the strategies.
	Settings prune.Settings
	// DryRun reports what would be removed without touching any file.
	DryRun bool
	// Review, when set, is called with the candidates before anything is written.
	Review ReviewFunc
	// Confirm, when set, is called before the backup and rewrite.
	// It is not called when nothing would be removed or on dry runs.
	Confirm ConfirmFunc
}

// CleanResult contains the result of a clean operation.
type CleanResult struct {
	// HistoryPath is the file that was cleaned.
	HistoryPath string
	// BackupPath is set when a backup was written.
	BackupPath string
	// DryRun is true when no file was touched on purpose.
	DryRun bool
	// TotalLines is the number of lines in the file, parsed or not.
	TotalLines int
	// Index is the view the strategies worked from.
	Index *index.Index
	// Outcome is what the strategies marked, before review.
	Outcome prune.Outcome
	// Removals is the final set of lines removed (or that would be).
	Removals *prune.RemovalSet
	// Candidates lists Removals in file order.
	Candidates []prune.Candidate
	// Written is true when the history file was rewritten.
	Written bool
}

// Removed returns the number of lines removed, or that would be on a dry run.
func (r *CleanResult) Removed() int {
	return r.Removals.Len()
}

// Clean reads a history file, decides which lines to drop and, unless
// running dry, backs the file up and rewrites it.
//
// The backup is written on every run that is not dry and not canceled, even
// when nothing is removed. The file is only rewritten when at least one line
// is removed.
func Clean(ctx context.Context, opts CleanOptions) (*CleanResult, error) {
	if err := opts.Settings.Validate(); err != nil {
		return nil, err
	}

	historyPath := opts.HistoryPath
	if historyPath == "" {
		detected, err := history.DetectPath()
		if err != nil {
			return nil, fmt.Errorf("failed to locate history file: %w", err)
		}
		historyPath = detected
	}
	exitPath := opts.ExitPath
	if exitPath == "" {
		exitPath = history.DefaultExitPath(historyPath)
	}
	mode := opts.ExitMode
	if mode == "" {
		mode = history.ExitModeAuto
	}

	log := logging.Get().With("history", historyPath)

	lines, err := historyfile.Read(historyPath)
	if err != nil {
		return nil, err
	}
	log.Debug("read history", "lines", len(lines))

	exitCodes := history.ExitCodes{}
	if mode != history.ExitModeInline {
		exitCodes, err = history.LoadExitCodes(exitPath)
		if err != nil {
			return nil, err
		}
		log.Debug("loaded exit codes", "path", exitPath, "entries", len(exitCodes))
	}

	done := logging.Time("classify")
	idx := index.Build(history.ParseLines(lines, mode), exitCodes)
	outcome := prune.Classify(idx, opts.Settings)
	done()

	log.Debug("classified",
		"parsed", idx.Parsed(),
		"unique", idx.Unique(),
		"duplicates", outcome.Duplicates,
		"failed_similar", outcome.FailedSimilar,
		"rare_variants", outcome.RareVariants,
	)

	result := &CleanResult{
		HistoryPath: historyPath,
		DryRun:      opts.DryRun,
		TotalLines:  len(lines),
		Index:       idx,
		Outcome:     outcome,
		Removals:    outcome.Removals,
		Candidates:  outcome.Candidates(idx),
	}

	if opts.Review != nil && len(result.Candidates) > 0 {
		reviewed, err := opts.Review(result.Candidates)
		if err != nil {
			log.Warn("review ended without changes", "error", err)
			return nil, err
		}
		result.Candidates = reviewed
		result.Removals = removalSet(reviewed)
		log.Debug("reviewed", "proposed", outcome.Removals.Len(), "accepted", result.Removals.Len())
	}

	if opts.DryRun {
		log.Info("dry run", "lines", result.TotalLines, "would_remove", result.Removed())
		return result, nil
	}

	if opts.Confirm != nil && result.Removed() > 0 {
		ok, err := opts.Confirm(historyPath, result.Removed())
		if err != nil {
			return nil, err
		}
		if !ok {
			log.Warn("rewrite declined", "would_remove", result.Removed())
			return nil, hperrors.ErrCanceled
		}
	}

	if err := canceled(ctx); err != nil {
		return nil, err
	}
	result.BackupPath, err = historyfile.Backup(historyPath, opts.BackupSuffix)
	if err != nil {
		return nil, err
	}
	log.Debug("created backup", "path", result.BackupPath)

	if result.Removed() == 0 {
		log.Info("nothing to remove", "lines", result.TotalLines, "backup", result.BackupPath)
		return result, nil
	}

	if err := canceled(ctx); err != nil {
		return result, err
	}
	kept, err := historyfile.Rewrite(historyPath, lines, result.Removals)
	if err != nil {
		return result, err
	}
	result.Written = true
	log.Info("cleaned history", "kept", kept, "removed", result.Removed(), "backup", result.BackupPath)

	return result, nil
}

func removalSet(candidates []prune.Candidate) *prune.RemovalSet {
	set := prune.NewRemovalSet()
	for _, c := range candidates {
		set.Mark(c.Line, c.Reason)
	}
	return set
}

func canceled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return hperrors.Join(hperrors.ErrCanceled, err)
	}
	return nil
}
