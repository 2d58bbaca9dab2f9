// Package ytdlp drives the yt-dlp binary through github.com/lrstanley/go-ytdlp.
//
// The Client answers keyword searches for the matcher, looks up a single video
// by URL, and downloads audio through yt-dlp's extraction post-processor. Errors
// that carry an age or sign-in gate are wrapped with services.ErrAccessRestricted
// so the batch orchestrator can route those tracks into the recovery loop.
//
// CookieRefresher exports the local browser session into the cookie file the
// Client passes to every subsequent invocation.
package ytdlp
