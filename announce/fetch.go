package announce

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// ErrVideoNotFound reports a single-video lookup that returned nothing,
// typically a deleted or private video.
var ErrVideoNotFound = errors.New("announce: video not found")

// Source is one configured origin of candidate videos: either a channel
// (ChannelID set) or a single video (VideoID set), each with an optional
// mention handle for the announcement text.
type Source struct {
	ChannelID string
	VideoID   string
	Mention   string
}

// String identifies the source in logs and error messages.
func (s Source) String() string {
	if s.VideoID != "" {
		return "video " + s.VideoID
	}
	return "channel " + s.ChannelID
}

// VideoPage is one page of channel search results.
type VideoPage struct {
	Videos []Video
	// NextPageToken is the server-issued cursor for the next page;
	// empty means no further pages.
	NextPageToken string
}

// Catalog queries the video catalog service.
type Catalog interface {
	// SearchChannel returns one page of a channel's videos. An empty
	// pageToken requests the first page.
	SearchChannel(ctx context.Context, channelID, pageToken string) (VideoPage, error)

	// LookupVideo fetches a single video by ID. A missing video yields
	// an error matching ErrVideoNotFound.
	LookupVideo(ctx context.Context, videoID string) (Video, error)
}

// maxSearchPages caps paginated channel search to bound API usage.
const maxSearchPages = 50

// SourceError reports a source whose fetch failed.
type SourceError struct {
	Source Source
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// FetchAll fetches every source concurrently and merges the results in
// configured-source order. A failing source does not abort the others:
// its error is reported alongside whatever the remaining sources
// produced.
func FetchAll(ctx context.Context, catalog Catalog, sources []Source) ([]Video, []*SourceError) {
	type result struct {
		idx    int
		videos []Video
		err    error
	}

	results := make(chan result, len(sources))
	for i, src := range sources {
		go func(i int, src Source) {
			videos, err := fetchSource(ctx, catalog, src)
			results <- result{idx: i, videos: videos, err: err}
		}(i, src)
	}

	collected := make([][]Video, len(sources))
	failures := make([]*SourceError, len(sources))
	for range sources {
		r := <-results
		if r.err != nil {
			failures[r.idx] = &SourceError{Source: sources[r.idx], Err: r.err}
			continue
		}
		collected[r.idx] = r.videos
	}

	var videos []Video
	for _, vs := range collected {
		videos = append(videos, vs...)
	}
	var errs []*SourceError
	for _, f := range failures {
		if f != nil {
			errs = append(errs, f)
		}
	}
	return videos, errs
}

// fetchSource expands one source into its candidate videos, tagging each
// with the source's mention handle.
func fetchSource(ctx context.Context, catalog Catalog, src Source) ([]Video, error) {
	if src.VideoID != "" {
		v, err := catalog.LookupVideo(ctx, src.VideoID)
		if errors.Is(err, ErrVideoNotFound) {
			log.Printf("announce: video %s not found, skipping", src.VideoID)
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		v.Mention = src.Mention
		return []Video{v}, nil
	}

	var videos []Video
	pageToken := ""
	for page := 0; page < maxSearchPages; page++ {
		res, err := catalog.SearchChannel(ctx, src.ChannelID, pageToken)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page+1, err)
		}
		for _, v := range res.Videos {
			v.Mention = src.Mention
			videos = append(videos, v)
		}
		if res.NextPageToken == "" {
			break
		}
		pageToken = res.NextPageToken
	}
	return videos, nil
}
