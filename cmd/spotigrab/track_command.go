package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"spotigrab/internal/batch"
	"spotigrab/internal/matcher"
	"spotigrab/internal/track"
)

func newTrackCommand(ctx *commandContext) *cobra.Command {
	var flags downloadFlags
	var pick bool

	cmd := &cobra.Command{
		Use:   "track <track-url>",
		Short: "Download a single Spotify track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireSpotify(); err != nil {
				return err
			}
			if pick && !stdinInteractive() {
				return errors.New("--pick needs an interactive terminal")
			}
			root, err := flags.root(cfg)
			if err != nil {
				return fmt.Errorf("resolve output directory: %w", err)
			}
			sess, err := openSession(cmd, ctx, &flags, 1)
			if err != nil {
				return err
			}
			defer sess.close()

			runCtx, _ := runContext(cmd.Context())
			p := sess.pipeline
			catalog, err := p.spotifyClient(runCtx)
			if err != nil {
				return err
			}
			rec, err := catalog.Track(runCtx, args[0])
			if err != nil {
				return err
			}

			var pinned *track.Candidate
			if pick {
				ranked, err := p.finder.Candidates(runCtx, rec)
				if err != nil {
					return err
				}
				if len(ranked) == 0 {
					return fmt.Errorf("no videos found for %s", rec.Label())
				}
				fmt.Fprintln(cmd.ErrOrStderr(), renderCandidates(rec, ranked))
				idx, err := pickCandidate(ranked)
				if err != nil {
					return err
				}
				pinned = &ranked[idx].Candidate
			}

			dir, err := outputDir(root, batch.Stem(rec))
			if err != nil {
				return err
			}
			b := batch.Plan(dir, []track.Record{rec})
			if pinned != nil {
				b = batch.PlanPinned(dir, rec, *pinned)
			}
			result := p.run(runCtx, b)
			result.Name = rec.Label()
			if flags.json {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			renderResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&pick, "pick", false, "Choose the video from the ranked candidates")
	return cmd
}

func renderCandidates(rec track.Record, ranked []matcher.Scored) string {
	rows := make([][]string, 0, len(ranked))
	for i, s := range ranked {
		eligible := "yes"
		if !s.Eligible {
			eligible = "no"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			s.Candidate.Title,
			s.Candidate.Uploader,
			formatClock(s.Candidate.DurationSeconds, s.Candidate.HasDuration),
			fmt.Sprintf("%.3f", s.Score),
			eligible,
		})
	}
	header := fmt.Sprintf("Candidates for %s (%s)\n", rec.Label(), formatClock(int(rec.DurationSeconds()), rec.DurationMS > 0))
	return header + renderTable(
		[]string{"#", "Title", "Uploader", "Length", "Score", "Eligible"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
}
