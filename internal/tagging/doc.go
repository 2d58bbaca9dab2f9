// Package tagging writes catalog metadata into downloaded audio files.
//
// MP3 files are tagged in place with ID3v2.3 frames (title, artist, album and a
// front-cover picture). Other containers are remuxed through ffmpeg with
// metadata arguments and the stream copied untouched. Cover art is fetched
// once per track, centre-cropped to a square, resized, and re-encoded as a
// baseline JPEG small enough for common players. A cover failure never blocks
// the text tags.
package tagging
