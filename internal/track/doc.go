// Package track defines the records exchanged between the catalog, the
// matcher, and the batch orchestrator.
//
// A Record is the catalog's view of a song and is immutable once fetched. A
// Candidate is one video search result; candidates are ephemeral and never
// persisted. Match carries the ranker's decision for a record and Failure
// captures a per-track outcome that the CLI reports at the end of a batch.
//
// Records are identified by Key, the lowercase "artist - title" string. Two
// distinct tracks sharing artist and title collide on the key; the cache and
// the recovery loop accept that approximation.
package track
