package batch

import (
	"testing"

	"spotigrab/internal/track"
)

func TestPlanAssignsSanitizedStems(t *testing.T) {
	b := Plan("/music/Mix (alice)", []track.Record{
		{Artist: "AC/DC", Title: "T.N.T."},
		{Artist: "", Title: "Untitled?"},
		{Artist: "Björk", Title: ""},
	})
	want := []string{"ACDC - T.N.T", "Unknown Artist - Untitled", "Björk - Unknown Title"}
	if len(b.Jobs) != len(want) {
		t.Fatalf("expected %d jobs, got %d", len(want), len(b.Jobs))
	}
	for i, job := range b.Jobs {
		if job.Stem != want[i] {
			t.Fatalf("job %d stem = %q, want %q", i, job.Stem, want[i])
		}
	}
	if b.Dir != "/music/Mix (alice)" {
		t.Fatalf("unexpected dir %q", b.Dir)
	}
}

func TestPlanSuffixesCollidingStems(t *testing.T) {
	b := Plan("/out", []track.Record{
		{Artist: "Artist", Title: "Song"},
		{Artist: "artist", Title: "SONG"},
		{Artist: "Artist", Title: "Song (2)"},
		{Artist: "Artist", Title: "Song?"},
	})
	want := []string{"Artist - Song", "artist - SONG (2)", "Artist - Song (2) (2)", "Artist - Song (3)"}
	for i, job := range b.Jobs {
		if job.Stem != want[i] {
			t.Fatalf("job %d stem = %q, want %q", i, job.Stem, want[i])
		}
	}
}

func TestPlanIsDeterministic(t *testing.T) {
	recs := []track.Record{{Artist: "A", Title: "B"}, {Artist: "a", Title: "b"}, {Artist: "C", Title: "D"}}
	first := Plan("/x", recs)
	second := Plan("/x", recs)
	for i := range first.Jobs {
		if first.Jobs[i].Stem != second.Jobs[i].Stem {
			t.Fatalf("stem %d differs between plans", i)
		}
	}
}

func TestSubsetKeepsStems(t *testing.T) {
	b := Plan("/out", []track.Record{
		{Artist: "A", Title: "One"},
		{Artist: "B", Title: "Two"},
		{Artist: "b", Title: "two"},
		{Artist: "C", Title: "Three"},
	})
	sub := b.Subset([]string{"b - two", "c - three", "z - missing"})
	if sub.Dir != "/out" {
		t.Fatalf("subset dir = %q", sub.Dir)
	}
	if sub.Len() != 3 {
		t.Fatalf("expected 3 jobs, got %d", sub.Len())
	}
	want := []string{"B - Two", "b - two (2)", "C - Three"}
	for i, job := range sub.Jobs {
		if job.Stem != want[i] {
			t.Fatalf("subset job %d stem = %q, want %q", i, job.Stem, want[i])
		}
	}
	if empty := b.Subset(nil); empty.Len() != 0 {
		t.Fatalf("expected empty subset, got %d", empty.Len())
	}
}

func TestPlanPinned(t *testing.T) {
	cand := track.Candidate{Title: "video", URL: "https://www.youtube.com/watch?v=x"}
	b := PlanPinned("/out", track.Record{Artist: "A", Title: "B"}, cand)
	if b.Len() != 1 || b.Jobs[0].Pinned == nil || b.Jobs[0].Pinned.URL != cand.URL {
		t.Fatalf("unexpected pinned batch %+v", b)
	}
}

func TestPlaylistDirName(t *testing.T) {
	tests := []struct {
		name, owner, want string
	}{
		{"Road Trip", "alice", "Road Trip (alice)"},
		{"Best: 2024/25", "bob", "Best 202425 (bob)"},
		{"Solo", "", "Solo"},
		{"", "", "playlist"},
		{"???", "", "playlist"},
	}
	for _, tt := range tests {
		if got := PlaylistDirName(tt.name, tt.owner); got != tt.want {
			t.Fatalf("PlaylistDirName(%q, %q) = %q, want %q", tt.name, tt.owner, got, tt.want)
		}
	}
}
