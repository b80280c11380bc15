// Package youtube adapts the YouTube Data API v3 to the catalog queries
// the announce pipeline needs: paginated channel search and single-video
// lookup.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"ytannounce/announce"
	"ytannounce/internal/retry"
)

// searchPageSize is the maximum the Data API allows per search page.
const searchPageSize = 50

// Catalog implements announce.Catalog using the YouTube Data API v3.
type Catalog struct {
	service *youtube.Service

	// RetryConfig governs re-attempts of transient API failures.
	RetryConfig retry.Config
}

// NewCatalog creates a catalog client authenticated with an API key.
func NewCatalog(ctx context.Context, apiKey string) (*Catalog, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("youtube: api key required")
	}

	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("youtube: create service: %w", err)
	}

	return &Catalog{
		service:     service,
		RetryConfig: retry.DefaultConfig(),
	}, nil
}

// CatalogError wraps catalog query errors with context about what failed.
type CatalogError struct {
	// Op is the operation that failed ("search" or "lookup").
	Op string
	// ID is the channel or video ID that was being queried.
	ID string
	// Err is the underlying error.
	Err error
}

func (e *CatalogError) Error() string {
	return "youtube: " + e.Op + " " + e.ID + ": " + e.Err.Error()
}

func (e *CatalogError) Unwrap() error { return e.Err }

// SearchChannel returns one page of a channel's videos. An empty
// pageToken requests the first page; the returned NextPageToken is empty
// on the last page.
func (c *Catalog) SearchChannel(ctx context.Context, channelID, pageToken string) (announce.VideoPage, error) {
	var page announce.VideoPage

	err := retry.Do(ctx, c.RetryConfig, apiErrorClassifier, func(ctx context.Context) error {
		call := c.service.Search.List([]string{"snippet"}).
			ChannelId(channelID).
			Type("video").
			VideoType("any").
			MaxResults(searchPageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return err
		}

		page = announce.VideoPage{NextPageToken: resp.NextPageToken}
		for _, item := range resp.Items {
			if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
				continue
			}
			page.Videos = append(page.Videos, announce.Video{
				ID:        item.Id.VideoId,
				Title:     item.Snippet.Title,
				Published: parsePublished(item.Snippet.PublishedAt),
			})
		}
		return nil
	})
	if err != nil {
		return announce.VideoPage{}, &CatalogError{Op: "search", ID: channelID, Err: err}
	}
	return page, nil
}

// LookupVideo fetches a single video by ID. A deleted or private video
// yields announce.ErrVideoNotFound.
func (c *Catalog) LookupVideo(ctx context.Context, videoID string) (announce.Video, error) {
	var video announce.Video

	err := retry.Do(ctx, c.RetryConfig, apiErrorClassifier, func(ctx context.Context) error {
		resp, err := c.service.Videos.List([]string{"snippet"}).
			Id(videoID).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}

		if len(resp.Items) == 0 {
			return announce.ErrVideoNotFound
		}
		item := resp.Items[0]
		video = announce.Video{ID: item.Id}
		if item.Snippet != nil {
			video.Title = item.Snippet.Title
			video.Published = parsePublished(item.Snippet.PublishedAt)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, announce.ErrVideoNotFound) {
			return announce.Video{}, err
		}
		return announce.Video{}, &CatalogError{Op: "lookup", ID: videoID, Err: err}
	}
	return video, nil
}

// parsePublished parses the API's RFC3339 timestamps; a malformed value
// yields the zero time.
func parsePublished(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// apiErrorClassifier decides which Data API errors are worth retrying.
func apiErrorClassifier(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, announce.ErrVideoNotFound) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// Rate limit errors are retryable
	if strings.Contains(err.Error(), "quotaExceeded") {
		return true
	}
	if strings.Contains(err.Error(), "rateLimitExceeded") {
		return true
	}

	// Default to retryable for unknown errors
	return true
}
