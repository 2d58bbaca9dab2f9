package tagging_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bogem/id3v2/v2"

	"spotigrab/internal/config"
	"spotigrab/internal/services"
	"spotigrab/internal/tagging"
	"spotigrab/internal/track"
)

func coverServer(t *testing.T) *httptest.Server {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{G: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/broken") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write(buf.Bytes())
	}))
	t.Cleanup(srv.Close)
	return srv
}

func taggingConfig() config.Tagging {
	return config.Tagging{EmbedCover: true, SaveCovers: true, CoverSize: 32, CoverMaxKiB: 400}
}

func writeAudio(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("fake audio frames"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	return path
}

func TestTagWritesID3WithCover(t *testing.T) {
	srv := coverServer(t)
	dir := t.TempDir()
	path := writeAudio(t, dir, "Artist A - Song B.mp3")
	rec := track.Record{Artist: "Artist A", Title: "Song B", Album: "Album Ä", CoverURL: srv.URL + "/cover.png"}

	tagger := tagging.New(taggingConfig(), "", tagging.WithHTTPClient(srv.Client()))
	if err := tagger.Tag(context.Background(), path, rec); err != nil {
		t.Fatalf("Tag returned error: %v", err)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("open tag: %v", err)
	}
	defer tag.Close()
	if tag.Version() != 3 {
		t.Fatalf("expected ID3v2.3, got v2.%d", tag.Version())
	}
	if tag.Title() != "Song B" || tag.Artist() != "Artist A" || tag.Album() != "Album Ä" {
		t.Fatalf("unexpected tags: %q / %q / %q", tag.Title(), tag.Artist(), tag.Album())
	}
	pictures := tag.GetFrames(tag.CommonID("Attached picture"))
	if len(pictures) != 1 {
		t.Fatalf("expected one picture, got %d", len(pictures))
	}
	pic, ok := pictures[0].(id3v2.PictureFrame)
	if !ok || pic.MimeType != "image/jpeg" || pic.PictureType != id3v2.PTFrontCover {
		t.Fatalf("unexpected picture frame %+v", pictures[0])
	}

	saved, err := os.ReadFile(tagging.CoverPath(path))
	if err != nil {
		t.Fatalf("cover copy missing: %v", err)
	}
	if !bytes.Equal(saved, pic.Picture) {
		t.Fatal("saved cover differs from embedded cover")
	}
	if filepath.Base(filepath.Dir(tagging.CoverPath(path))) != "covers" {
		t.Fatalf("unexpected cover path %s", tagging.CoverPath(path))
	}
}

func TestTagReplacesExistingPictures(t *testing.T) {
	srv := coverServer(t)
	path := writeAudio(t, t.TempDir(), "x.mp3")
	rec := track.Record{Artist: "a", Title: "b", CoverURL: srv.URL + "/cover.png"}
	tagger := tagging.New(taggingConfig(), "", tagging.WithHTTPClient(srv.Client()))

	for i := 0; i < 2; i++ {
		if err := tagger.Tag(context.Background(), path, rec); err != nil {
			t.Fatalf("Tag #%d returned error: %v", i, err)
		}
	}
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("open tag: %v", err)
	}
	defer tag.Close()
	if n := len(tag.GetFrames(tag.CommonID("Attached picture"))); n != 1 {
		t.Fatalf("expected a single picture after retagging, got %d", n)
	}
}

func TestTagSurvivesCoverFailure(t *testing.T) {
	srv := coverServer(t)
	path := writeAudio(t, t.TempDir(), "x.mp3")
	rec := track.Record{Artist: "a", Title: "b", Album: "c", CoverURL: srv.URL + "/broken"}

	tagger := tagging.New(taggingConfig(), "", tagging.WithHTTPClient(srv.Client()))
	if err := tagger.Tag(context.Background(), path, rec); err != nil {
		t.Fatalf("cover failure must not fail tagging: %v", err)
	}
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("open tag: %v", err)
	}
	defer tag.Close()
	if tag.Title() != "b" {
		t.Fatalf("expected title written, got %q", tag.Title())
	}
	if n := len(tag.GetFrames(tag.CommonID("Attached picture"))); n != 0 {
		t.Fatalf("expected no picture, got %d", n)
	}
	if _, err := os.Stat(tagging.CoverPath(path)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("no cover copy expected, stat err=%v", err)
	}
}

func TestTagSkipsCoverWhenDisabled(t *testing.T) {
	srv := coverServer(t)
	path := writeAudio(t, t.TempDir(), "x.mp3")
	cfg := config.Tagging{EmbedCover: false, SaveCovers: true, CoverSize: 32}
	tagger := tagging.New(cfg, "", tagging.WithHTTPClient(srv.Client()))

	if err := tagger.Tag(context.Background(), path, track.Record{Artist: "a", Title: "b", CoverURL: srv.URL + "/c.png"}); err != nil {
		t.Fatalf("Tag returned error: %v", err)
	}
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("open tag: %v", err)
	}
	defer tag.Close()
	if n := len(tag.GetFrames(tag.CommonID("Attached picture"))); n != 0 {
		t.Fatalf("expected no embedded picture, got %d", n)
	}
	if _, err := os.Stat(tagging.CoverPath(path)); err != nil {
		t.Fatalf("expected saved cover copy: %v", err)
	}
}

type fakeRemuxer struct {
	metadata []string
	err      error
}

func (f *fakeRemuxer) Remux(in, out string, metadata []string) error {
	f.metadata = metadata
	if f.err != nil {
		return f.err
	}
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	return os.WriteFile(out, append(data, []byte(" tagged")...), 0o644)
}

func TestTagRemuxesOtherFormats(t *testing.T) {
	path := writeAudio(t, t.TempDir(), "Artist - Song.opus")
	remux := &fakeRemuxer{}
	tagger := tagging.New(config.Tagging{}, "ffmpeg", tagging.WithRemuxer(remux))

	if err := tagger.Tag(context.Background(), path, track.Record{Artist: "Artist", Title: "Song", Album: "LP"}); err != nil {
		t.Fatalf("Tag returned error: %v", err)
	}
	want := []string{"title=Song", "artist=Artist", "album=LP"}
	if strings.Join(remux.metadata, "|") != strings.Join(want, "|") {
		t.Fatalf("metadata = %v, want %v", remux.metadata, want)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasSuffix(string(data), "tagged") {
		t.Fatalf("expected remuxed file to replace original, got %q", data)
	}
	matches, _ := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tagging.*"))
	if len(matches) != 0 {
		t.Fatalf("temporary files left behind: %v", matches)
	}
}

func TestTagRemuxFailureKeepsOriginal(t *testing.T) {
	path := writeAudio(t, t.TempDir(), "x.m4a")
	tagger := tagging.New(config.Tagging{}, "ffmpeg", tagging.WithRemuxer(&fakeRemuxer{err: errors.New("exit status 1")}))

	err := tagger.Tag(context.Background(), path, track.Record{Artist: "a", Title: "b"})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "fake audio frames" {
		t.Fatalf("original file modified: %q", data)
	}
}

func TestTagMissingFile(t *testing.T) {
	tagger := tagging.New(config.Tagging{}, "")
	err := tagger.Tag(context.Background(), filepath.Join(t.TempDir(), "absent.mp3"), track.Record{})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
