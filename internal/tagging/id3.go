package tagging

import (
	"fmt"

	"github.com/bogem/id3v2/v2"

	"spotigrab/internal/track"
)

// writeID3 replaces title, artist, album and any attached pictures, then saves
// the tag as ID3v2.3.
func writeID3(path string, rec track.Record, cover []byte) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open id3: %w", err)
	}
	defer tag.Close()

	tag.SetVersion(3)
	tag.SetDefaultEncoding(id3v2.EncodingUTF16)
	tag.SetTitle(rec.Title)
	tag.SetArtist(rec.Artist)
	tag.SetAlbum(rec.Album)

	tag.DeleteFrames(tag.CommonID("Attached picture"))
	if len(cover) > 0 {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF16,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     cover,
		})
	}
	if err := tag.Save(); err != nil {
		return fmt.Errorf("save id3: %w", err)
	}
	return nil
}
