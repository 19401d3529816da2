package ingest

import (
	"context"
	"path/filepath"

	"github.com/hbomb79/Hoard/internal/asset"
	"github.com/hbomb79/Hoard/internal/http/youtube"
	"github.com/hbomb79/Hoard/internal/video"
	"github.com/hbomb79/Hoard/pkg/logger"
)

var log = logger.Get("Ingest")

type (
	metadataClient interface {
		GetVideo(id string) (*youtube.Video, error)
		Search(query string, maxResults int) ([]string, error)
	}

	dataStore interface {
		VideoExists(id string) (bool, error)
		SaveVideo(record *video.Video) error
	}

	assetFetcher interface {
		FetchAndSave(url string, destPath string) error
	}

	mediaDownloader interface {
		Download(ctx context.Context, videoID string, outputDir string) error
	}

	Config struct {
		StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true"`
	}

	// Filters restricts which search results are ingested. Bounds are
	// inclusive: a video is kept when views >= MinViews and its duration
	// lies in [MinDuration, MaxDuration]. A MaxDuration of zero means
	// unbounded. Only search-driven ingestion applies filters.
	Filters struct {
		MinViews    int64
		MinDuration int
		MaxDuration int
	}

	// Pipeline ingests a single video ID at a time:
	//   - Skipped early if the ID is already archived (no network calls)
	//   - Metadata is fetched from the remote service
	//   - Optional filters are applied (search mode only)
	//   - The thumbnail is fetched alongside the metadata row
	//   - The media itself is handed to the download engine
	// Thumbnail and persistence failures are logged and do NOT block the
	// remaining steps; see DESIGN.md for the known inconsistency this
	// permits between the store and the storage directory.
	Pipeline struct {
		Searcher   metadataClient
		dataStore  dataStore
		fetcher    assetFetcher
		downloader mediaDownloader
		config     Config
	}
)

func NewPipeline(config Config, searcher metadataClient, store dataStore, fetcher assetFetcher, downloader mediaDownloader) *Pipeline {
	return &Pipeline{
		Searcher:   searcher,
		dataStore:  store,
		fetcher:    fetcher,
		downloader: downloader,
		config:     config,
	}
}

// ProcessOne runs the full ingestion sequence for the given video ID.
// Processing of each ID is fully independent; no state is carried between
// invocations except through the data store's existence check, which makes
// re-processing an already archived ID a cheap no-op.
func (pipeline *Pipeline) ProcessOne(ctx context.Context, videoID string, filters *Filters) Outcome {
	exists, err := pipeline.dataStore.VideoExists(videoID)
	if err != nil {
		log.Errorf("Cannot check existence of video %s: %s\n", videoID, err.Error())
		return abortedOutcome(videoID, newTrouble(err, StoreFailure))
	}
	if exists {
		log.Emit(logger.REMOVE, "Video %s already archived. Skipping\n", videoID)
		return skippedOutcome(videoID, AlreadyArchived)
	}

	meta, err := pipeline.Searcher.GetVideo(videoID)
	if err != nil {
		log.Errorf("Metadata fetch for video %s failed: %s\n", videoID, err.Error())
		return abortedOutcome(videoID, newMetadataTrouble(err))
	}

	record := youtube.YoutubeVideoToRecord(meta)
	if filters != nil {
		if reason, filtered := filters.apply(record); filtered {
			log.Emit(logger.REMOVE, "Video %s ('%s') filtered out (%s). Skipping\n", videoID, record.Title, reason)
			return skippedOutcome(videoID, reason)
		}
	}

	// A missing thumbnail must not block metadata persistence or the
	// media download.
	thumbnailPath := filepath.Join(pipeline.config.StoragePath, videoID+".jpg")
	if err := pipeline.fetcher.FetchAndSave(asset.MaxResThumbnailUrl(videoID), thumbnailPath); err != nil {
		log.Warnf("Thumbnail fetch for video %s failed: %s\n", videoID, err.Error())
	}

	if err := pipeline.dataStore.SaveVideo(record); err != nil {
		log.Errorf("Failed to persist metadata for video %s: %s\n", videoID, err.Error())
	}

	if err := pipeline.downloader.Download(ctx, videoID, pipeline.config.StoragePath); err != nil {
		log.Errorf("Media download for video %s failed: %s\n", videoID, err.Error())
		return abortedOutcome(videoID, newTrouble(err, DownloadFailure))
	}

	log.Emit(logger.SUCCESS, "Video %s ('%s') ingested\n", videoID, record.Title)
	return ingestedOutcome(videoID)
}

func (filters *Filters) apply(record *video.Video) (SkipReason, bool) {
	if record.Views < filters.MinViews {
		return InsufficientViews, true
	}

	if record.Duration < filters.MinDuration {
		return DurationOutOfBounds, true
	}
	if filters.MaxDuration > 0 && record.Duration > filters.MaxDuration {
		return DurationOutOfBounds, true
	}

	return 0, false
}
