// Package main hosts the spotigrab CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, builds the search,
// download and tagging pipeline from it, and hands playlists or single tracks
// to the batch orchestrator. Reports are rendered as tables on a terminal or
// as JSON with --json so scripts can consume them.
//
// Keep this package lean: behaviour belongs in the internal packages and is
// only surfaced here through commands and flags.
package main
