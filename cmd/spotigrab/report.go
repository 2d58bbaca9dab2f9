package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"spotigrab/internal/batch"
	"spotigrab/internal/track"
)

// batchResult summarises one directory's run.
type batchResult struct {
	Name     string          `json:"name,omitempty"`
	Owner    string          `json:"owner,omitempty"`
	Dir      string          `json:"dir"`
	Total    int             `json:"total"`
	Skipped  int             `json:"skipped,omitempty"`
	Failures []track.Failure `json:"failures"`
	Elapsed  time.Duration   `json:"elapsed_ns"`
}

func (r batchResult) downloaded() int {
	return r.Total - len(r.Failures)
}

// writeJSON is the --json counterpart of renderResult.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderResult(w io.Writer, r batchResult) {
	title := r.Name
	if title == "" {
		title = r.Dir
	}
	fmt.Fprintf(w, "%s: %d/%d downloaded in %s\n", title, r.downloaded(), r.Total, r.Elapsed.Round(time.Second))
	fmt.Fprintf(w, "Output: %s\n", r.Dir)
	if r.Skipped > 0 {
		fmt.Fprintf(w, "Skipped %d local or unavailable playlist entries\n", r.Skipped)
	}
	if len(r.Failures) == 0 {
		return
	}

	counts := track.CountByReason(r.Failures)
	reasons := make([]string, 0, len(counts))
	for reason, n := range counts {
		reasons = append(reasons, fmt.Sprintf("%s=%d", reason, n))
	}
	sort.Strings(reasons)
	fmt.Fprintf(w, "Failed: %d (%s)\n", len(r.Failures), strings.Join(reasons, ", "))

	rows := make([][]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		rows = append(rows, []string{f.Track.Label(), string(f.Reason), f.Detail})
	}
	fmt.Fprintln(w, renderTable([]string{"Track", "Reason", "Detail"}, rows, nil))
	if counts[track.ReasonAccessRestricted] > 0 {
		fmt.Fprintln(w, "Restricted tracks need a signed-in session; rerun with --refresh-credentials or supply a cookies file.")
	}
}

// progressObserver prints one status line per finished job.
func progressObserver(w io.Writer, colorize bool) func(batch.Outcome) {
	var mu sync.Mutex
	return func(o batch.Outcome) {
		kind := statusOK
		message := o.Job.Stem
		if o.Failure != nil {
			kind = statusFail
			if o.Failure.Reason == track.ReasonAccessRestricted {
				kind = statusWarn
			}
			message = fmt.Sprintf("%s (%s)", o.Job.Stem, o.Failure.Reason)
		}
		label := fmt.Sprintf("%d/%d", o.Completed, o.Total)
		mu.Lock()
		fmt.Fprintln(w, kind.line(label, message, colorize))
		mu.Unlock()
	}
}

func formatClock(secondsTotal int, known bool) string {
	if !known {
		return "--:--"
	}
	return fmt.Sprintf("%d:%02d", secondsTotal/60, secondsTotal%60)
}
