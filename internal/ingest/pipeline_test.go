package ingest

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/hbomb79/Hoard/internal/http/youtube"
	"github.com/hbomb79/Hoard/internal/video"
	"github.com/hbomb79/Hoard/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var errExpected = errors.New("test: expected error")

// Per-item failures are expected throughout these tests; silence everything
// below ERROR so the output stays readable.
func TestMain(m *testing.M) {
	logger.SetMinLoggingLevel(logger.ERROR.Level())
	os.Exit(m.Run())
}

type mockMetadataClient struct{ mock.Mock }

func (m *mockMetadataClient) GetVideo(id string) (*youtube.Video, error) {
	args := m.Called(id)
	if v := args.Get(0); v != nil {
		return v.(*youtube.Video), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMetadataClient) Search(query string, maxResults int) ([]string, error) {
	args := m.Called(query, maxResults)
	if v := args.Get(0); v != nil {
		return v.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockDataStore struct{ mock.Mock }

func (m *mockDataStore) VideoExists(id string) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *mockDataStore) SaveVideo(record *video.Video) error {
	return m.Called(record).Error(0)
}

type mockAssetFetcher struct{ mock.Mock }

func (m *mockAssetFetcher) FetchAndSave(url string, destPath string) error {
	return m.Called(url, destPath).Error(0)
}

type mockMediaDownloader struct{ mock.Mock }

func (m *mockMediaDownloader) Download(ctx context.Context, videoID string, outputDir string) error {
	return m.Called(ctx, videoID, outputDir).Error(0)
}

type pipelineMocks struct {
	searcher   *mockMetadataClient
	store      *mockDataStore
	fetcher    *mockAssetFetcher
	downloader *mockMediaDownloader
}

func newTestPipeline(t *testing.T) (*Pipeline, pipelineMocks) {
	mocks := pipelineMocks{
		searcher:   &mockMetadataClient{},
		store:      &mockDataStore{},
		fetcher:    &mockAssetFetcher{},
		downloader: &mockMediaDownloader{},
	}

	t.Cleanup(func() {
		mocks.searcher.AssertExpectations(t)
		mocks.store.AssertExpectations(t)
		mocks.fetcher.AssertExpectations(t)
		mocks.downloader.AssertExpectations(t)
	})

	cfg := Config{StoragePath: t.TempDir()}
	return NewPipeline(cfg, mocks.searcher, mocks.store, mocks.fetcher, mocks.downloader), mocks
}

func makeApiVideo(id string, views int64, duration string) *youtube.Video {
	return &youtube.Video{
		ID:             id,
		Title:          "T",
		Description:    "a description",
		ChannelTitle:   "uploader",
		ViewCount:      views,
		DurationString: duration,
		PublishedAt:    "2023-05-01T12:00:00Z",
	}
}

func Test_ProcessOne_AlreadyArchived_SkippedWithoutNetworkCalls(t *testing.T) {
	t.Parallel()
	pipeline, mocks := newTestPipeline(t)

	// No expectations are set on the searcher, fetcher or downloader;
	// any call against them fails the test.
	mocks.store.On("VideoExists", "abc").Return(true, nil).Once()

	outcome := pipeline.ProcessOne(context.Background(), "abc", nil)
	assert.Equal(t, Skipped, outcome.Type)
	assert.Equal(t, AlreadyArchived, outcome.Reason)
}

func Test_ProcessOne_ExistenceCheckFailure_Aborted(t *testing.T) {
	t.Parallel()
	pipeline, mocks := newTestPipeline(t)

	// A store read failure must abort before any network work happens; no
	// expectations are set on the other collaborators.
	mocks.store.On("VideoExists", "abc").Return(false, errExpected).Once()

	outcome := pipeline.ProcessOne(context.Background(), "abc", nil)
	assert.Equal(t, Aborted, outcome.Type)
	assert.Equal(t, StoreFailure, outcome.Trouble.Type())
}

func Test_ProcessOne_MetadataNotFound_Aborted(t *testing.T) {
	t.Parallel()
	pipeline, mocks := newTestPipeline(t)

	mocks.store.On("VideoExists", "abc").Return(false, nil).Once()
	mocks.searcher.On("GetVideo", "abc").Return(nil, &youtube.NoResultError{VideoID: "abc"}).Once()

	outcome := pipeline.ProcessOne(context.Background(), "abc", nil)
	assert.Equal(t, Aborted, outcome.Type)
	assert.Equal(t, NotFoundFailure, outcome.Trouble.Type())
}

func Test_ProcessOne_ApiFailure_Aborted(t *testing.T) {
	t.Parallel()
	pipeline, mocks := newTestPipeline(t)

	mocks.store.On("VideoExists", "abc").Return(false, nil).Once()
	mocks.searcher.On("GetVideo", "abc").Return(nil, &youtube.FailedRequestError{}).Once()

	outcome := pipeline.ProcessOne(context.Background(), "abc", nil)
	assert.Equal(t, Aborted, outcome.Type)
	assert.Equal(t, ApiFailure, outcome.Trouble.Type())
}

func Test_ProcessOne_ThumbnailFailure_DoesNotBlockPersistOrDownload(t *testing.T) {
	t.Parallel()
	pipeline, mocks := newTestPipeline(t)

	mocks.store.On("VideoExists", "abc").Return(false, nil).Once()
	mocks.searcher.On("GetVideo", "abc").Return(makeApiVideo("abc", 100, "PT1M30S"), nil).Once()
	mocks.fetcher.On("FetchAndSave", mock.Anything, mock.Anything).Return(errExpected).Once()
	mocks.store.On("SaveVideo", mock.Anything).Return(nil).Once()
	mocks.downloader.On("Download", mock.Anything, "abc", mock.Anything).Return(nil).Once()

	outcome := pipeline.ProcessOne(context.Background(), "abc", nil)
	assert.Equal(t, Ingested, outcome.Type)
}

func Test_ProcessOne_PersistFailure_DoesNotBlockDownload(t *testing.T) {
	t.Parallel()
	pipeline, mocks := newTestPipeline(t)

	mocks.store.On("VideoExists", "abc").Return(false, nil).Once()
	mocks.searcher.On("GetVideo", "abc").Return(makeApiVideo("abc", 100, "PT1M30S"), nil).Once()
	mocks.fetcher.On("FetchAndSave", mock.Anything, mock.Anything).Return(nil).Once()
	mocks.store.On("SaveVideo", mock.Anything).Return(errExpected).Once()
	mocks.downloader.On("Download", mock.Anything, "abc", mock.Anything).Return(nil).Once()

	outcome := pipeline.ProcessOne(context.Background(), "abc", nil)
	assert.Equal(t, Ingested, outcome.Type)
}

func Test_ProcessOne_DownloadFailure_Aborted(t *testing.T) {
	t.Parallel()
	pipeline, mocks := newTestPipeline(t)

	mocks.store.On("VideoExists", "abc").Return(false, nil).Once()
	mocks.searcher.On("GetVideo", "abc").Return(makeApiVideo("abc", 100, "PT1M30S"), nil).Once()
	mocks.fetcher.On("FetchAndSave", mock.Anything, mock.Anything).Return(nil).Once()
	mocks.store.On("SaveVideo", mock.Anything).Return(nil).Once()
	mocks.downloader.On("Download", mock.Anything, "abc", mock.Anything).Return(errExpected).Once()

	outcome := pipeline.ProcessOne(context.Background(), "abc", nil)
	assert.Equal(t, Aborted, outcome.Type)
	assert.Equal(t, DownloadFailure, outcome.Trouble.Type())
}

func Test_ProcessOne_FilterBoundaries(t *testing.T) {
	t.Parallel()
	filters := &Filters{MinViews: 100, MinDuration: 60, MaxDuration: 120}
	tests := []struct {
		name     string
		views    int64
		duration string
		ingested bool
		reason   SkipReason
	}{
		{"views equal to minimum kept", 100, "PT1M30S", true, 0},
		{"views below minimum skipped", 99, "PT1M30S", false, InsufficientViews},
		{"duration equal to lower bound kept", 100, "PT1M", true, 0},
		{"duration equal to upper bound kept", 100, "PT2M", true, 0},
		{"duration one above upper bound skipped", 100, "PT2M1S", false, DurationOutOfBounds},
		{"duration below lower bound skipped", 100, "PT59S", false, DurationOutOfBounds},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			pipeline, mocks := newTestPipeline(t)

			mocks.store.On("VideoExists", "abc").Return(false, nil).Once()
			mocks.searcher.On("GetVideo", "abc").Return(makeApiVideo("abc", test.views, test.duration), nil).Once()

			if test.ingested {
				mocks.fetcher.On("FetchAndSave", mock.Anything, mock.Anything).Return(nil).Once()
				mocks.store.On("SaveVideo", mock.Anything).Return(nil).Once()
				mocks.downloader.On("Download", mock.Anything, "abc", mock.Anything).Return(nil).Once()
			}

			outcome := pipeline.ProcessOne(context.Background(), "abc", filters)
			if test.ingested {
				assert.Equal(t, Ingested, outcome.Type)
			} else {
				assert.Equal(t, Skipped, outcome.Type)
				assert.Equal(t, test.reason, outcome.Reason)
			}
		})
	}
}

func Test_ProcessOne_PersistsConvertedRecord(t *testing.T) {
	t.Parallel()
	pipeline, mocks := newTestPipeline(t)
	filters := &Filters{MinDuration: 60, MaxDuration: 120}

	mocks.store.On("VideoExists", "ABC123").Return(false, nil).Once()
	mocks.searcher.On("GetVideo", "ABC123").Return(makeApiVideo("ABC123", 100, "PT1M30S"), nil).Once()
	mocks.fetcher.On("FetchAndSave", "https://img.youtube.com/vi/ABC123/maxresdefault.jpg", mock.Anything).Return(nil).Once()
	mocks.store.On("SaveVideo", mock.MatchedBy(func(record *video.Video) bool {
		return record.ID == "ABC123" &&
			record.Duration == 90 &&
			record.Views == 100 &&
			record.Title == "T" &&
			record.Uploader == "uploader"
	})).Return(nil).Once()
	mocks.downloader.On("Download", mock.Anything, "ABC123", mock.Anything).Return(nil).Once()

	outcome := pipeline.ProcessOne(context.Background(), "ABC123", filters)
	assert.Equal(t, Ingested, outcome.Type)
}
