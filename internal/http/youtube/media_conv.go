package youtube

import (
	"time"

	"github.com/hbomb79/Hoard/internal/video"
)

// publishedAt is reported by the Data API as a fixed-format UTC timestamp.
const publishedAtFormat = "2006-01-02T15:04:05Z"

// YoutubeVideoToRecord maps the raw Data API representation on to the
// persisted video model. Malformed durations coerce to zero seconds, and
// an unparseable publish timestamp falls back to the zero time rather
// than failing the conversion.
func YoutubeVideoToRecord(v *Video) *video.Video {
	uploadDate, err := time.Parse(publishedAtFormat, v.PublishedAt)
	if err != nil {
		uploadDate = time.Time{}
	}

	return &video.Video{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		Uploader:    v.ChannelTitle,
		Views:       v.ViewCount,
		Duration:    video.ParseISODuration(v.DurationString),
		UploadDate:  uploadDate,
	}
}
