package media

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bogem/id3v2"

	"github.com/desertthunder/wavedl/internal/models"
)

// TagMP3 writes ID3v2 frames for the track onto the file at path. A nil
// artwork slice leaves the picture frame untouched. Non-MP3 formats are
// skipped silently since id3v2 frames only apply to MP3 containers.
func TagMP3(path string, track models.TrackMeta, artwork []byte) error {
	if !strings.HasSuffix(strings.ToLower(path), ".mp3") {
		return nil
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("failed to open file for tagging: %w", err)
	}
	defer tag.Close()

	tag.SetArtist(track.Artist)
	tag.SetAlbum(track.Album)
	tag.SetTitle(track.Title)

	if track.TrackNumber > 0 {
		tag.AddTextFrame(tag.CommonID("Track number/Position in set"),
			tag.DefaultEncoding(), strconv.Itoa(track.TrackNumber))
	}

	if artwork != nil {
		tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/jpeg",
			PictureType: id3v2.PTFrontCover,
			Description: "Cover",
			Picture:     artwork,
		})
	}

	if err := tag.Save(); err != nil {
		return fmt.Errorf("failed to save tags: %w", err)
	}

	return nil
}
