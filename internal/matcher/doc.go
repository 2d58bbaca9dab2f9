// Package matcher ranks video search results against catalog tracks.
//
// Score combines title and artist similarity with a duration closeness term
// and keyword adjustments. Select picks the highest-scoring candidate whose
// duration falls inside the tolerance window and never falls back to an
// out-of-window result. Finder drives several search queries per track, pools
// their results, and memoizes the decision in a searchcache.Cache.
package matcher
