package main

import (
	"context"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"

	"spotigrab/internal/batch"
	"spotigrab/internal/matcher"
)

func stdinInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// refreshConsent asks before exporting browser cookies. Preapproved skips the
// prompt; a non-interactive stdin declines.
func refreshConsent(preapproved bool, browser string) batch.Consent {
	return batch.ConsentFunc(func(ctx context.Context, restricted int) bool {
		if preapproved {
			return true
		}
		if ctx.Err() != nil || !stdinInteractive() {
			return false
		}
		ok := false
		prompt := &survey.Confirm{
			Message: fmt.Sprintf("%d track(s) need a signed-in session. Export cookies from %s and retry?", restricted, browser),
			Default: true,
		}
		if err := survey.AskOne(prompt, &ok); err != nil {
			return false
		}
		return ok
	})
}

// pickCandidate lets the user choose among ranked candidates. It returns -1
// when the prompt is aborted.
func pickCandidate(ranked []matcher.Scored) (int, error) {
	options := make([]string, len(ranked))
	for i, s := range ranked {
		options[i] = candidateOption(s)
	}
	idx := -1
	prompt := &survey.Select{
		Message:  "Choose a video:",
		Options:  options,
		PageSize: 10,
	}
	if err := survey.AskOne(prompt, &idx); err != nil {
		return -1, err
	}
	return idx, nil
}

func candidateOption(s matcher.Scored) string {
	label := s.Candidate.Title
	if s.Candidate.Uploader != "" {
		label += " · " + s.Candidate.Uploader
	}
	label += " (" + formatClock(s.Candidate.DurationSeconds, s.Candidate.HasDuration) + ")"
	if !s.Eligible {
		label += " [outside tolerance]"
	}
	return label
}
