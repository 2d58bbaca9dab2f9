package ytdlp_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"spotigrab/internal/services/ytdlp"
)

const probeURL = "https://www.youtube.com/watch?v=jNQXAC9IVRw"

func TestCookieRefresherSwitchesClientToExportedFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "auth", "cookies.txt")
	exec := &stubExecutor{onRun: func(string) {
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			t.Errorf("mkdir: %v", err)
		}
		if err := os.WriteFile(target, []byte("# Netscape HTTP Cookie File\n"), 0o600); err != nil {
			t.Errorf("write cookies: %v", err)
		}
	}}
	client, err := ytdlp.New("yt-dlp", ytdlp.WithExecutor(exec), ytdlp.WithCookiesFile(""))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	refresher := ytdlp.NewCookieRefresher(client, target, "chrome", probeURL, nil)
	if !refresher.Refresh(context.Background()) {
		t.Fatal("expected refresh to succeed")
	}
	if client.CookiesFile() != target {
		t.Fatalf("client cookies file = %q, want %q", client.CookiesFile(), target)
	}
	if len(exec.targets) != 1 || exec.targets[0] != probeURL {
		t.Fatalf("expected probe url run, got %v", exec.targets)
	}
}

func TestCookieRefresherFailures(t *testing.T) {
	tests := []struct {
		name  string
		exec  *stubExecutor
		empty bool
	}{
		{"yt-dlp fails", &stubExecutor{err: errors.New("could not find chrome cookies database")}, false},
		{"no file written", &stubExecutor{}, false},
		{"empty file written", &stubExecutor{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := filepath.Join(t.TempDir(), "cookies.txt")
			if tt.empty {
				tt.exec.onRun = func(string) {
					_ = os.WriteFile(target, nil, 0o600)
				}
			}
			client, err := ytdlp.New("yt-dlp", ytdlp.WithExecutor(tt.exec), ytdlp.WithCookiesFile("/previous/cookies.txt"))
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}
			refresher := ytdlp.NewCookieRefresher(client, target, "chrome", probeURL, nil)
			if refresher.Refresh(context.Background()) {
				t.Fatal("expected refresh to fail")
			}
			if client.CookiesFile() != "/previous/cookies.txt" {
				t.Fatalf("cookie file should be unchanged, got %q", client.CookiesFile())
			}
		})
	}
}

func TestCookieRefresherRequiresBrowser(t *testing.T) {
	exec := &stubExecutor{}
	client, err := ytdlp.New("yt-dlp", ytdlp.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if ytdlp.NewCookieRefresher(client, filepath.Join(t.TempDir(), "c.txt"), "", probeURL, nil).Refresh(context.Background()) {
		t.Fatal("expected refresh without browser to fail")
	}
	if len(exec.targets) != 0 {
		t.Fatal("yt-dlp should not run without a browser")
	}
}
