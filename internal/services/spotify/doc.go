// Package spotify fetches playlist and track metadata from the Spotify Web
// API using the client-credentials flow.
//
// Playlists are paged until exhausted. Items without a track payload (local
// files, removed tracks, podcast episodes) are skipped and counted. Track
// records carry every credited artist joined with ", ", the album name, the
// duration, and the largest album image as cover URL.
package spotify
