// Package index groups parsed history records by command.
package index

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/chazuruo/histprune/internal/history"
)

// Index is the per-run view of a history file that the removal strategies
// work from. It is rebuilt from scratch on every run.
type Index struct {
	// Records holds every line of the file, parsed or not.
	Records []history.Record

	// Succeeded counts occurrences that exited with status 0.
	Succeeded *Counter

	// Failed counts occurrences that exited with a non-zero status.
	Failed *Counter

	lines *orderedmap.OrderedMap[string, []int]
	first map[string]int
}

// Build indexes records. The effective exit code of a record is its inline
// code when present, otherwise the sidecar code for its timestamp. Records
// with no exit code are indexed but counted in neither counter.
func Build(records []history.Record, exitCodes history.ExitCodes) *Index {
	idx := &Index{
		Records:   records,
		Succeeded: NewCounter(),
		Failed:    NewCounter(),
		lines:     orderedmap.New[string, []int](),
		first:     make(map[string]int),
	}

	for _, rec := range records {
		if !rec.HasCommand() {
			continue
		}
		idx.add(rec, exitCodes)
	}

	return idx
}

func (idx *Index) add(rec history.Record, exitCodes history.ExitCodes) {
	if pair := idx.lines.GetPair(rec.Command); pair != nil {
		pair.Value = append(pair.Value, rec.Index)
	} else {
		idx.lines.Set(rec.Command, []int{rec.Index})
	}

	if _, seen := idx.first[rec.Command]; !seen {
		idx.first[rec.Command] = rec.Index
	}

	code, ok := effectiveExitCode(rec, exitCodes)
	switch {
	case !ok:
	case code == 0:
		idx.Succeeded.Inc(rec.Command)
	default:
		idx.Failed.Inc(rec.Command)
	}
}

func effectiveExitCode(rec history.Record, exitCodes history.ExitCodes) (int, bool) {
	if rec.ExitCode != nil {
		return *rec.ExitCode, true
	}
	code, ok := exitCodes[rec.Timestamp]
	return code, ok
}

// Lines returns the line indices at which cmd occurred, in file order.
func (idx *Index) Lines(cmd string) []int {
	return idx.lines.Value(cmd)
}

// First returns the line index of cmd's first occurrence.
func (idx *Index) First(cmd string) (int, bool) {
	i, ok := idx.first[cmd]
	return i, ok
}

// Commands returns every distinct command in first-seen order.
func (idx *Index) Commands() []string {
	cmds := make([]string, 0, idx.lines.Len())
	for pair := idx.lines.Oldest(); pair != nil; pair = pair.Next() {
		cmds = append(cmds, pair.Key)
	}
	return cmds
}

// Unique returns the number of distinct commands.
func (idx *Index) Unique() int {
	return idx.lines.Len()
}

// Parsed returns the number of lines that parsed to a command.
func (idx *Index) Parsed() int {
	n := 0
	for pair := idx.lines.Oldest(); pair != nil; pair = pair.Next() {
		n += len(pair.Value)
	}
	return n
}
