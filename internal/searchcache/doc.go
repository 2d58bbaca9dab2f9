// Package searchcache memoizes match decisions per track key for the lifetime
// of a process.
//
// Entries never expire; callers clear the cache explicitly when a fresh search
// is wanted. Compute errors are never stored, so a cancelled or failed search
// is retried on the next lookup.
package searchcache
