package youtube_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hbomb79/Hoard/internal/http/youtube"
	"github.com/stretchr/testify/assert"
)

const videoListFixture = `{
	"items": [
		{
			"id": "dQw4w9WgXcQ",
			"snippet": {
				"title": "Never Gonna Give You Up",
				"description": "The official video.",
				"channelTitle": "Rick Astley",
				"publishedAt": "2009-10-25T06:57:33Z"
			},
			"contentDetails": { "duration": "PT3M33S" },
			"statistics": { "viewCount": "1500000000" }
		}
	]
}`

func newApiServer(t *testing.T, handler http.HandlerFunc) *youtube.Config {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &youtube.Config{ApiKey: "test-key", BaseUrl: server.URL}
}

func Test_GetVideo_MapsApiResponse(t *testing.T) {
	config := newApiServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/videos", r.URL.Path)
		assert.Equal(t, "dQw4w9WgXcQ", r.URL.Query().Get("id"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "snippet,contentDetails,statistics", r.URL.Query().Get("part"))

		fmt.Fprint(w, videoListFixture)
	})

	client := youtube.NewClient(*config)
	video, err := client.GetVideo("dQw4w9WgXcQ")
	assert.Nil(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", video.ID)
	assert.Equal(t, "Never Gonna Give You Up", video.Title)
	assert.Equal(t, "The official video.", video.Description)
	assert.Equal(t, "Rick Astley", video.ChannelTitle)
	assert.Equal(t, int64(1500000000), video.ViewCount)
	assert.Equal(t, "PT3M33S", video.DurationString)
	assert.Equal(t, "2009-10-25T06:57:33Z", video.PublishedAt)
}

func Test_GetVideo_AbsentViewCount_DefaultsToZero(t *testing.T) {
	config := newApiServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"items": [{"id": "abc", "snippet": {"title": "T"}, "contentDetails": {"duration": "PT1M"}, "statistics": {}}]}`)
	})

	video, err := youtube.NewClient(*config).GetVideo("abc")
	assert.Nil(t, err)
	assert.Zero(t, video.ViewCount)
}

func Test_GetVideo_ZeroItems_NoResultError(t *testing.T) {
	config := newApiServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"items": []}`)
	})

	_, err := youtube.NewClient(*config).GetVideo("missing")

	var noResult *youtube.NoResultError
	assert.ErrorAs(t, err, &noResult)
	assert.Equal(t, "missing", noResult.VideoID)
}

func Test_GetVideo_NonOkStatus_FailedRequestError(t *testing.T) {
	config := newApiServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error": {"code": 403, "message": "quotaExceeded"}}`)
	})

	_, err := youtube.NewClient(*config).GetVideo("abc")

	var failed *youtube.FailedRequestError
	assert.ErrorAs(t, err, &failed)
	assert.Contains(t, err.Error(), "quotaExceeded")
}

func Test_GetVideo_UnreachableHost_UnknownRequestError(t *testing.T) {
	client := youtube.NewClient(youtube.Config{ApiKey: "k", BaseUrl: "http://127.0.0.1:1"})

	_, err := client.GetVideo("abc")

	var unknown *youtube.UnknownRequestError
	assert.True(t, errors.As(err, &unknown))
}

func Test_Search_ReturnsIdsInOrder_CappedAtMaxResults(t *testing.T) {
	config := newApiServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "video", r.URL.Query().Get("type"))
		assert.Equal(t, "cat videos", r.URL.Query().Get("q"))

		fmt.Fprint(w, `{"items": [
			{"id": {"videoId": "aaa"}},
			{"id": {"videoId": "bbb"}},
			{"id": {"videoId": "ccc"}}
		]}`)
	})

	ids, err := youtube.NewClient(*config).Search("cat videos", 2)
	assert.Nil(t, err)
	assert.Equal(t, []string{"aaa", "bbb"}, ids)
}

func Test_Search_ApiFailure_ReturnsError(t *testing.T) {
	config := newApiServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"code": 401, "message": "keyInvalid"}}`)
	})

	_, err := youtube.NewClient(*config).Search("anything", 10)
	assert.Error(t, err)
}
