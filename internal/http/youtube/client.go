package youtube

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const (
	youtubeDefaultBaseUrl = "https://www.googleapis.com/youtube/v3"

	youtubeGetVideoTemplate = "%s/videos?part=snippet%%2CcontentDetails%%2Cstatistics&id=%s&key=%s"
	youtubeSearchTemplate   = "%s/search?part=id&type=video&q=%s&maxResults=%d&key=%s"
)

type (
	Config struct {
		ApiKey string

		// BaseUrl overrides the Data API host; zero value selects the
		// real YouTube endpoint. Only tests should need to set this.
		BaseUrl string
	}

	// Video is the raw representation of a videos.list item, scoped to
	// the snippet, contentDetails and statistics parts that Hoard requests.
	Video struct {
		ID             string
		Title          string
		Description    string
		ChannelTitle   string
		ViewCount      int64
		DurationString string
		PublishedAt    string
	}

	videoListResponse struct {
		Items []videoListItem `json:"items"`
	}

	videoListItem struct {
		ID      string `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
			PublishedAt  string `json:"publishedAt"`
		} `json:"snippet"`
		ContentDetails struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
		Statistics struct {
			ViewCount json.Number `json:"viewCount"`
		} `json:"statistics"`
	}

	searchListResponse struct {
		Items []searchListItem `json:"items"`
	}

	searchListItem struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	}

	// youtubeClient is the read-only Data API client used by the ingest
	// pipeline for video lookups and by the batch runner for search-driven
	// ingestion. See https://developers.google.com/youtube/v3/docs for
	// information on the Data API.
	youtubeClient struct {
		config Config
	}
)

func NewClient(config Config) *youtubeClient {
	if config.BaseUrl == "" {
		config.BaseUrl = youtubeDefaultBaseUrl
	}

	return &youtubeClient{config}
}

// GetVideo queries the Data API for the snippet, content details and
// statistics of the video with the provided ID. An error will be raised if:
//   - The query to YouTube fails
//   - The response contains zero items (*NoResultError)
func (client *youtubeClient) GetVideo(id string) (*Video, error) {
	path := fmt.Sprintf(youtubeGetVideoTemplate, client.config.BaseUrl, url.QueryEscape(id), client.config.ApiKey)
	var response videoListResponse
	if err := httpGetJsonResponse(path, &response); err != nil {
		return nil, err
	}

	if len(response.Items) == 0 {
		return nil, &NoResultError{id}
	}

	item := response.Items[0]
	viewCount, err := item.Statistics.ViewCount.Int64()
	if err != nil {
		// Absent or non-numeric view counts default to zero.
		viewCount = 0
	}

	return &Video{
		ID:             item.ID,
		Title:          item.Snippet.Title,
		Description:    item.Snippet.Description,
		ChannelTitle:   item.Snippet.ChannelTitle,
		ViewCount:      viewCount,
		DurationString: item.ContentDetails.Duration,
		PublishedAt:    item.Snippet.PublishedAt,
	}, nil
}

// Search queries the Data API search endpoint for videos matching the
// query, returning their IDs in response order, capped at maxResults.
func (client *youtubeClient) Search(query string, maxResults int) ([]string, error) {
	path := fmt.Sprintf(youtubeSearchTemplate, client.config.BaseUrl, url.QueryEscape(query), maxResults, client.config.ApiKey)
	var response searchListResponse
	if err := httpGetJsonResponse(path, &response); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(response.Items))
	for _, item := range response.Items {
		if item.ID.VideoID == "" {
			continue
		}

		ids = append(ids, item.ID.VideoID)
		if len(ids) == maxResults {
			break
		}
	}

	return ids, nil
}

func httpGetJsonResponse(urlPath string, targetInterface interface{}) error {
	resp, err := http.Get(urlPath)
	if err != nil {
		return &UnknownRequestError{fmt.Sprintf("failed to perform GET to YouTube: %s", err.Error())}
	}

	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		var apiError youtubeError
		if err := json.Unmarshal(respBody, &apiError); err != nil {
			return &FailedRequestError{httpCode: resp.StatusCode, message: "non-OK response could not be unmarshalled", apiCode: -1}
		}

		return &FailedRequestError{httpCode: resp.StatusCode, message: apiError.Error.Message, apiCode: apiError.Error.Code}
	}

	if err != nil {
		return &UnknownRequestError{fmt.Sprintf("failed to read response body: %s", err.Error())}
	}

	if err := json.Unmarshal(respBody, targetInterface); err != nil {
		return &UnknownRequestError{fmt.Sprintf("response JSON could not be unmarshalled: %s", err.Error())}
	}

	return nil
}

type (
	youtubeError struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	// FailedRequestError indicates the Data API rejected the request
	// (unauthorized, quota exceeded, malformed, ...).
	FailedRequestError struct {
		httpCode int
		apiCode  int
		message  string
	}

	// NoResultError indicates a well-formed query which matched zero videos.
	NoResultError struct{ VideoID string }

	// UnknownRequestError covers transport failures and unparseable responses.
	UnknownRequestError struct{ reason string }
)

func (err *FailedRequestError) Error() string {
	return fmt.Sprintf("request failure (HTTP %d): %s", err.httpCode, err.message)
}

func (err *NoResultError) Error() string {
	return fmt.Sprintf("no results returned from YouTube for video '%s'", err.VideoID)
}

func (err *UnknownRequestError) Error() string {
	return fmt.Sprintf("unknown error occurred while communicating with YouTube: %s", err.reason)
}
