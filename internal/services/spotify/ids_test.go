package spotify

import "testing"

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		raw     string
		want    string
		wantErr bool
	}{
		{"playlist url", KindPlaylist, "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc", "37i9dQZF1DXcBWIGoYBM5M", false},
		{"intl url", KindTrack, "https://open.spotify.com/intl-de/track/4uLU6hMCjMI75M1A2tKUQC", "4uLU6hMCjMI75M1A2tKUQC", false},
		{"schemeless", KindPlaylist, "open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M", "37i9dQZF1DXcBWIGoYBM5M", false},
		{"uri", KindTrack, "spotify:track:4uLU6hMCjMI75M1A2tKUQC", "4uLU6hMCjMI75M1A2tKUQC", false},
		{"bare id", KindPlaylist, " 37i9dQZF1DXcBWIGoYBM5M ", "37i9dQZF1DXcBWIGoYBM5M", false},
		{"wrong kind url", KindPlaylist, "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC", "", true},
		{"wrong kind uri", KindPlaylist, "spotify:track:4uLU6hMCjMI75M1A2tKUQC", "", true},
		{"foreign host", KindTrack, "https://www.youtube.com/track/4uLU6hMCjMI75M1A2tKUQC", "", true},
		{"empty", KindTrack, "", "", true},
		{"garbage", KindTrack, "not an id!", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseID(tt.kind, tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Fatalf("got %q want %q", got, tt.want)
			}
		})
	}
}
