// Package batch downloads a planned set of tracks with bounded parallelism and
// retries the subset that failed behind an access restriction.
//
// Plan turns catalog records into a Batch: an output directory plus one Job per
// record with a deterministic file stem. The Orchestrator fans jobs out over an
// errgroup limited to the configured worker count. Each job is strictly
// sequential (match, download, verify, tag) and its outcome is independent of
// every other job; only non-successes are reported, in completion order.
//
// Recovery inspects those failures. When some were access restricted it asks
// for consent, refreshes credentials, and re-runs exactly that subset, merging
// the new outcome into the report.
package batch
