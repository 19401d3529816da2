package internal

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hbomb79/Hoard/internal/asset"
	"github.com/hbomb79/Hoard/internal/database"
	"github.com/hbomb79/Hoard/internal/download"
	"github.com/hbomb79/Hoard/internal/http/youtube"
	"github.com/hbomb79/Hoard/internal/ingest"
	"github.com/hbomb79/Hoard/internal/video"
	"github.com/hbomb79/Hoard/pkg/logger"
	"github.com/jmoiron/sqlx"
)

var log = logger.Get("Core")

// Hoard represents the top-level object of the archiver and is
// responsible for initialising the database connection, stores and the
// ingestion pipeline, and for exposing the three operator-facing modes.
type hoardImpl struct {
	config       HoardConfig
	db           database.Manager
	orchestrator *dataOrchestrator
	pipeline     *ingest.Pipeline
	runner       *ingest.Runner
}

// dataOrchestrator binds the 'dumb' video store to the process-wide
// database connection so that consumers above this layer never handle the
// DB instance directly.
type dataOrchestrator struct {
	db    database.Manager
	store *video.Store
}

func (orchestrator *dataOrchestrator) VideoExists(id string) (bool, error) {
	return orchestrator.store.Exists(orchestrator.db.GetSqlxDb(), id)
}

func (orchestrator *dataOrchestrator) SaveVideo(record *video.Video) error {
	return orchestrator.db.WrapTx(func(tx *sqlx.Tx) error {
		return orchestrator.store.SaveVideo(tx, record)
	})
}

// New connects to the database (running any pending migrations), ensures
// the storage directory exists, and wires up the ingestion pipeline. The
// returned instance owns the DB connection; callers must Close it.
func New(config HoardConfig) (*hoardImpl, error) {
	if info, err := os.Stat(config.Ingest.StoragePath); err == nil {
		if !info.IsDir() {
			return nil, fmt.Errorf("storage path '%s' is not a directory", config.Ingest.StoragePath)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(config.Ingest.StoragePath, os.ModeDir|os.ModePerm); err != nil {
			return nil, fmt.Errorf("storage path '%s' could not be created: %w", config.Ingest.StoragePath, err)
		}
	} else {
		return nil, fmt.Errorf("storage path '%s' could not be accessed: %w", config.Ingest.StoragePath, err)
	}

	db := database.New()
	if err := db.Connect(config.Database); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	orchestrator := &dataOrchestrator{db: db, store: video.NewStore()}
	searcher := youtube.NewClient(youtube.Config{ApiKey: config.YoutubeApiKey})
	pipeline := ingest.NewPipeline(config.Ingest, searcher, orchestrator, asset.NewFetcher(), download.New(config.Download))

	return &hoardImpl{
		config:       config,
		db:           db,
		orchestrator: orchestrator,
		pipeline:     pipeline,
		runner:       ingest.NewRunner(pipeline, searcher),
	}, nil
}

// IngestSingle archives the video referenced by the given line of input
// (watch URL, short link or bare ID).
func (hoard *hoardImpl) IngestSingle(ctx context.Context, input string) error {
	videoID, err := ingest.ExtractVideoID(input)
	if err != nil {
		return err
	}

	outcome := hoard.pipeline.ProcessOne(ctx, videoID, nil)
	log.Infof("Ingestion of %s finished: %s\n", videoID, outcome)
	return nil
}

// IngestFromFile archives every video referenced by the newline-delimited
// file at the given path.
func (hoard *hoardImpl) IngestFromFile(ctx context.Context, path string) (*ingest.Summary, error) {
	return hoard.runner.RunFromFile(ctx, path)
}

// IngestFromSearch archives videos matching the search query, subject to
// the provided filters.
func (hoard *hoardImpl) IngestFromSearch(ctx context.Context, query string, maxResults int, filters *ingest.Filters) (*ingest.Summary, error) {
	return hoard.runner.RunFromSearch(ctx, query, maxResults, filters)
}

func (hoard *hoardImpl) Close() {
	if err := hoard.db.Close(); err != nil {
		log.Warnf("Failed to cleanly close database connection: %s\n", err.Error())
	}
}
