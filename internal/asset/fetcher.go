package asset

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/hbomb79/Hoard/pkg/logger"
)

var log = logger.Get("AssetFetch")

// Thumbnails are served from a deterministic per-video URL; no API call
// or credential is involved.
const maxResThumbnailTemplate = "https://img.youtube.com/vi/%s/maxresdefault.jpg"

type Fetcher struct{}

func NewFetcher() *Fetcher {
	return &Fetcher{}
}

// FetchAndSave performs a single GET against the provided URL and writes
// the response body to destPath. The destination is only written when the
// response status indicates success; a non-2xx status or transport error
// is returned to the caller (who is expected to log and continue).
func (fetcher *Fetcher) FetchAndSave(url string, destPath string) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to perform GET(%s): %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("asset fetch of %s returned non-success status %d", url, resp.StatusCode)
	}

	dest, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create asset destination %s: %w", destPath, err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, resp.Body); err != nil {
		return fmt.Errorf("failed to write asset to %s: %w", destPath, err)
	}

	log.Verbosef("Saved asset %s to %s\n", url, destPath)
	return nil
}

// MaxResThumbnailUrl derives the conventional maximum-resolution thumbnail
// URL for the video with the given ID.
func MaxResThumbnailUrl(videoID string) string {
	return fmt.Sprintf(maxResThumbnailTemplate, videoID)
}
