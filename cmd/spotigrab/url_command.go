package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"spotigrab/internal/batch"
	"spotigrab/internal/services/ytdlp"
	"spotigrab/internal/track"
)

const fallbackAlbum = "YouTube"

func newURLCommand(ctx *commandContext) *cobra.Command {
	var flags downloadFlags
	var artist, title, album string

	cmd := &cobra.Command{
		Use:   "url <video-url>",
		Short: "Download the audio of a single YouTube video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
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
			cand, err := p.client.Info(runCtx, args[0])
			if err != nil {
				return err
			}
			rec := recordFromVideo(cand, artist, title, album)

			dir, err := outputDir(root, batch.Stem(rec))
			if err != nil {
				return err
			}
			result := p.run(runCtx, batch.PlanPinned(dir, rec, cand))
			result.Name = rec.Label()
			if flags.json {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			renderResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&artist, "artist", "", "Artist tag (guessed from the video title by default)")
	cmd.Flags().StringVar(&title, "title", "", "Title tag (guessed from the video title by default)")
	cmd.Flags().StringVar(&album, "album", "", "Album tag (defaults to the uploader)")
	return cmd
}

// recordFromVideo derives tags for a video. Explicit values override guesses
// from an "Artist - Title" video title.
func recordFromVideo(cand track.Candidate, artist, title, album string) track.Record {
	guessedArtist, guessedTitle := ytdlp.GuessArtistTitle(cand.Title)
	rec := track.Record{
		Artist:   firstNonEmpty(artist, guessedArtist, cand.Uploader),
		Title:    firstNonEmpty(title, guessedTitle),
		Album:    firstNonEmpty(album, cand.Uploader, fallbackAlbum),
		CoverURL: cand.Thumbnail,
	}
	if cand.HasDuration {
		rec.DurationMS = cand.DurationSeconds * 1000
	}
	return rec
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
