package matcher

import (
	"context"
	"errors"
	"sync"
	"testing"

	"spotigrab/internal/searchcache"
	"spotigrab/internal/track"
)

type fakeSearcher struct {
	mu      sync.Mutex
	results map[string][]track.Candidate
	errs    map[string]error
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, query string, limit int) ([]track.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if err := f.errs[query]; err != nil {
		return nil, err
	}
	res := f.results[query]
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (f *fakeSearcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func TestQueriesOrder(t *testing.T) {
	got := Queries(songB)
	want := []string{
		"Artist A - Song B official audio",
		"Artist A - Song B",
		"Song B Artist A",
		"Song B",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d queries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("query %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestFindPoolsAndDeduplicates(t *testing.T) {
	official := candidate("Artist A - Song B (Official Audio)", 201)
	remix := candidate("Artist A - Song B Remix", 205)
	searcher := &fakeSearcher{results: map[string][]track.Candidate{
		"Artist A - Song B official audio": {remix},
		"Artist A - Song B":                {remix, official},
		"Song B":                           {official},
	}}

	finder, err := NewFinder(searcher, nil, DefaultPolicy())
	if err != nil {
		t.Fatalf("NewFinder: %v", err)
	}
	scored, err := finder.Candidates(context.Background(), songB)
	if err != nil {
		t.Fatalf("Candidates: %v", err)
	}
	if len(scored) != 2 {
		t.Fatalf("expected 2 pooled candidates after dedup, got %d", len(scored))
	}

	match, err := finder.Find(context.Background(), songB)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !match.Found || match.Candidate.URL != official.URL {
		t.Fatalf("expected official upload, got %+v", match)
	}
}

func TestFindSkipsFailedQueries(t *testing.T) {
	good := candidate("Artist A - Song B", 200)
	searcher := &fakeSearcher{
		results: map[string][]track.Candidate{"Song B": {good}},
		errs: map[string]error{
			"Artist A - Song B official audio": errors.New("http 429"),
			"Artist A - Song B":                errors.New("http 429"),
		},
	}
	finder, _ := NewFinder(searcher, nil, DefaultPolicy())

	match, err := finder.Find(context.Background(), songB)
	if err != nil {
		t.Fatalf("Find returned error: %v", err)
	}
	if !match.Found || match.Candidate.URL != good.URL {
		t.Fatalf("expected surviving query result, got %+v", match)
	}
	if searcher.calls() != 4 {
		t.Fatalf("expected all 4 queries attempted, got %d", searcher.calls())
	}
}

func TestFindAllQueriesFailIsNoMatch(t *testing.T) {
	boom := errors.New("offline")
	searcher := &fakeSearcher{errs: map[string]error{}}
	for _, q := range Queries(songB) {
		searcher.errs[q] = boom
	}
	finder, _ := NewFinder(searcher, nil, DefaultPolicy())

	match, err := finder.Find(context.Background(), songB)
	if err != nil {
		t.Fatalf("expected failures to be absorbed, got %v", err)
	}
	if match.Found {
		t.Fatalf("expected no match, got %+v", match)
	}
}

func TestFindUsesCacheOnSecondLookup(t *testing.T) {
	searcher := &fakeSearcher{results: map[string][]track.Candidate{
		"Artist A - Song B": {candidate("Artist A - Song B", 200)},
	}}
	cache := searchcache.New(nil)
	finder, _ := NewFinder(searcher, cache, DefaultPolicy())

	first, err := finder.Find(context.Background(), songB)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	callsAfterFirst := searcher.calls()

	second, err := finder.Find(context.Background(), songB)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if searcher.calls() != callsAfterFirst {
		t.Fatalf("expected cached lookup to skip searcher, calls went %d -> %d", callsAfterFirst, searcher.calls())
	}
	if first != second {
		t.Fatalf("cached result differs: %+v vs %+v", first, second)
	}
}

func TestFindCachesNoMatch(t *testing.T) {
	searcher := &fakeSearcher{results: map[string][]track.Candidate{
		"Song B": {candidate("Song B", 400)},
	}}
	cache := searchcache.New(nil)
	finder, _ := NewFinder(searcher, cache, DefaultPolicy())

	for i := 0; i < 2; i++ {
		match, err := finder.Find(context.Background(), songB)
		if err != nil || match.Found {
			t.Fatalf("expected cached no-match, got %+v %v", match, err)
		}
	}
	if searcher.calls() != 4 {
		t.Fatalf("expected one round of searches, got %d calls", searcher.calls())
	}
}

func TestFindCancelledIsNotCached(t *testing.T) {
	searcher := &fakeSearcher{results: map[string][]track.Candidate{
		"Song B": {candidate("Song B", 200)},
	}}
	cache := searchcache.New(nil)
	finder, _ := NewFinder(searcher, cache, DefaultPolicy())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := finder.Find(ctx, songB); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if cache.Count() != 0 {
		t.Fatal("expected cancelled search not to be cached")
	}

	match, err := finder.Find(context.Background(), songB)
	if err != nil || !match.Found {
		t.Fatalf("expected fresh search to succeed, got %+v %v", match, err)
	}
}

func TestFindRespectsSearchLimit(t *testing.T) {
	many := []track.Candidate{
		candidate("a", 10), candidate("b", 10), candidate("c", 10),
	}
	searcher := &fakeSearcher{results: map[string][]track.Candidate{"Song B": many}}
	finder, _ := NewFinder(searcher, nil, DefaultPolicy(), WithSearchLimit(2))

	scored, err := finder.Candidates(context.Background(), songB)
	if err != nil {
		t.Fatalf("Candidates: %v", err)
	}
	if len(scored) != 2 {
		t.Fatalf("expected limit of 2 candidates, got %d", len(scored))
	}
}

func TestNewFinderRequiresSearcher(t *testing.T) {
	if _, err := NewFinder(nil, nil, DefaultPolicy()); err == nil {
		t.Fatal("expected error for nil searcher")
	}
}
