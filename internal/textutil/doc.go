// Package textutil provides text processing utilities for fuzzy title
// matching and filename sanitization.
//
// The primary use cases are:
//   - Scoring how closely a video title resembles a catalog title or artist
//   - Sanitizing filenames and directory names for safe filesystem use
//
// Similarity is a Ratcliff/Obershelp ratio over case-folded runes: twice the
// number of characters in the longest matching blocks divided by the total
// length of both strings.
package textutil
