package matcher

import (
	"math"
	"sort"
	"strings"

	"spotigrab/internal/textutil"
	"spotigrab/internal/track"
)

// Scored is a candidate annotated with its ranking inputs.
type Scored struct {
	Candidate        track.Candidate
	TitleSimilarity  float64
	ArtistSimilarity float64
	DurationDiff     float64
	Bonus            bool
	Penalty          bool
	Score            float64
	Eligible         bool
}

// Score computes the ranking score for one candidate. A candidate without a
// known duration is treated as zero seconds long.
func Score(policy Policy, rec track.Record, cand track.Candidate) Scored {
	policy = policy.normalized()

	candSeconds := 0.0
	if cand.HasDuration {
		candSeconds = float64(cand.DurationSeconds)
	}
	diff := math.Abs(candSeconds - rec.DurationSeconds())

	s := Scored{
		Candidate:        cand,
		TitleSimilarity:  textutil.Similarity(cand.Title, rec.Title),
		ArtistSimilarity: textutil.Similarity(cand.Title, rec.Artist),
		DurationDiff:     diff,
		Eligible:         diff <= policy.ToleranceSeconds,
	}
	s.Score = s.TitleSimilarity*policy.TitleWeight +
		s.ArtistSimilarity*policy.ArtistWeight +
		(1/(1+diff))*policy.DurationWeight

	lowered := strings.ToLower(cand.Title)
	if containsAny(lowered, policy.BonusKeywords) {
		s.Bonus = true
		s.Score += policy.Bonus
	}
	if containsAny(lowered, policy.PenaltyKeywords) {
		s.Penalty = true
		s.Score -= policy.Penalty
	}
	return s
}

// ScoreAll scores every candidate, preserving input order.
func ScoreAll(policy Policy, rec track.Record, cands []track.Candidate) []Scored {
	out := make([]Scored, 0, len(cands))
	for _, cand := range cands {
		out = append(out, Score(policy, rec, cand))
	}
	return out
}

// Select returns the eligible candidate with the strictly highest score.
// Ties keep the earlier candidate. When no candidate is inside the tolerance
// window the result is NoMatch.
func Select(policy Policy, rec track.Record, cands []track.Candidate) track.Match {
	return best(ScoreAll(policy, rec, cands))
}

func best(scored []Scored) track.Match {
	var (
		winner Scored
		found  bool
	)
	for _, s := range scored {
		if !s.Eligible {
			continue
		}
		if !found || s.Score > winner.Score {
			winner = s
			found = true
		}
	}
	if !found {
		return track.NoMatch
	}
	return track.Found(winner.Candidate)
}

// Rank orders scored candidates for display: eligible first, then by score
// descending, keeping input order among equals.
func Rank(scored []Scored) []Scored {
	out := append([]Scored(nil), scored...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Eligible != out[j].Eligible {
			return out[i].Eligible
		}
		return out[i].Score > out[j].Score
	})
	return out
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if needle != "" && strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
