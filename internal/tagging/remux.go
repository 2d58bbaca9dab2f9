package tagging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"spotigrab/internal/track"
)

// Remuxer copies the audio stream of in to out with the given metadata.
type Remuxer interface {
	Remux(in, out string, metadata []string) error
}

type ffmpegRemuxer struct {
	binary string
}

func (r ffmpegRemuxer) Remux(in, out string, metadata []string) error {
	cmd := ffmpeg.Input(in).Output(out, ffmpeg.KwArgs{
		"map":      "0:a",
		"c":        "copy",
		"metadata": metadata,
		"loglevel": "error",
	}).OverWriteOutput().ErrorToStdOut()
	if r.binary != "" {
		cmd.SetFfmpegPath(r.binary)
	}
	return cmd.Run()
}

// remuxWithMetadata writes a tagged copy next to path and swaps it in.
func remuxWithMetadata(r Remuxer, path string, rec track.Record) error {
	ext := filepath.Ext(path)
	tmp := strings.TrimSuffix(path, ext) + ".tagging" + ext
	metadata := []string{
		"title=" + rec.Title,
		"artist=" + rec.Artist,
		"album=" + rec.Album,
	}
	if err := r.Remux(path, tmp, metadata); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("ffmpeg remux: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace tagged file: %w", err)
	}
	return nil
}
