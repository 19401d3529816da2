package video

import (
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/hbomb79/Hoard/internal/database"
	"github.com/hbomb79/Hoard/pkg/logger"
)

var ErrVideoNotFound = errors.New("video does not exist")

var log = logger.Get("VideoStore")

type (
	// Video is the single persisted entity of Hoard. A row is created
	// exactly once, at first successful ingestion of its ID, and is never
	// mutated or deleted afterwards - metadata is not refreshed once stored.
	Video struct {
		ID          string    `db:"id"`
		Title       string    `db:"title"`
		Description string    `db:"description"`
		Uploader    string    `db:"uploader"`
		Views       int64     `db:"views"`
		Duration    int       `db:"duration"`
		UploadDate  time.Time `db:"upload_date"`
	}

	Store struct{}
)

func NewStore() *Store {
	return &Store{}
}

// Exists reports whether a video row with the given ID is currently stored.
func (store *Store) Exists(db database.Queryable, id string) (bool, error) {
	var exists bool
	if err := db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM videos WHERE id=$1)`, id); err != nil {
		return false, fmt.Errorf("failed to check existence of video %s: %w", id, err)
	}

	return exists, nil
}

// SaveVideo inserts the provided video, keyed on its ID. A conflicting
// row is left untouched and the call reports success - the insert is an
// atomic insert-or-ignore, never an update.
func (store *Store) SaveVideo(db database.Queryable, video *Video) error {
	_, err := db.NamedExec(`
		INSERT INTO videos(id, title, description, uploader, views, duration, upload_date)
		VALUES(:id, :title, :description, :uploader, :views, :duration, :upload_date)
		ON CONFLICT(id) DO NOTHING
	`, video)
	if err != nil {
		return fmt.Errorf("failed to insert video %s: %w", video.ID, err)
	}

	log.Verbosef("Saved video %s ('%s')\n", video.ID, video.Title)
	return nil
}

// GetWithID finds the stored video with the matching ID, returning
// ErrVideoNotFound if no such row exists.
func (store *Store) GetWithID(db database.Queryable, id string) (*Video, error) {
	query, args, err := selectVideoBuilder().Where("videos.id=?", id).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to construct select video query: %w", err)
	}

	var video Video
	if err := db.Get(&video, db.Rebind(query), args...); err != nil {
		return nil, ErrVideoNotFound
	}

	return &video, nil
}

func (store *Store) List(db database.Queryable) ([]*Video, error) {
	query, args, err := selectVideoBuilder().OrderBy("videos.upload_date DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to construct list videos query: %w", err)
	}

	var results []Video
	if err := db.Select(&results, db.Rebind(query), args...); err != nil {
		return nil, err
	}

	output := make([]*Video, len(results))
	for k := range results {
		output[k] = &results[k]
	}

	return output, nil
}

func selectVideoBuilder() squirrel.SelectBuilder {
	return squirrel.
		Select("videos.*").
		From("videos")
}
