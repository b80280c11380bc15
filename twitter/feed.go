// Package twitter adapts the Twitter API v1.1 to the timeline and
// status-posting capabilities the announce pipeline needs.
package twitter

import (
	"context"
	"errors"
	"net/http"

	gotwitter "github.com/dghubble/go-twitter/twitter"
	"github.com/dghubble/oauth1"

	"ytannounce/announce"
)

// Twitter API v1.1 error codes this package cares about.
const (
	codeRateLimited   = 88
	codeOverCapacity  = 130
	codeInternalError = 131
	codeDuplicatePost = 187
)

// Credentials holds the OAuth1 credentials and the account whose
// timeline is replayed.
type Credentials struct {
	ConsumerKey       string
	ConsumerSecret    string
	AccessTokenKey    string
	AccessTokenSecret string
	AccountName       string
}

// Feed implements announce.Timeline and announce.StatusPoster against
// the Twitter API v1.1.
type Feed struct {
	client      *gotwitter.Client
	accountName string
}

// NewFeed creates a feed client for the given credentials.
func NewFeed(creds Credentials) *Feed {
	config := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.AccessTokenKey, creds.AccessTokenSecret)
	httpClient := config.Client(oauth1.NoContext, token)

	return &Feed{
		client:      gotwitter.NewClient(httpClient),
		accountName: creds.AccountName,
	}
}

// newFeedWithClient is used by tests to inject a stub transport.
func newFeedWithClient(httpClient *http.Client, accountName string) *Feed {
	return &Feed{
		client:      gotwitter.NewClient(httpClient),
		accountName: accountName,
	}
}

// UserTimeline returns up to count of the account's own posts, newest
// first, excluding replies. A maxID of 0 starts from the newest post.
func (f *Feed) UserTimeline(ctx context.Context, maxID int64, count int) ([]announce.Status, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := &gotwitter.UserTimelineParams{
		ScreenName:     f.accountName,
		Count:          count,
		TrimUser:       gotwitter.Bool(true),
		ExcludeReplies: gotwitter.Bool(true),
	}
	if maxID != 0 {
		params.MaxID = maxID
	}

	tweets, _, err := f.client.Timelines.UserTimeline(params)
	if err != nil {
		return nil, err
	}

	statuses := make([]announce.Status, 0, len(tweets))
	for _, tw := range tweets {
		st := announce.Status{ID: tw.ID}
		if tw.Entities != nil {
			for _, u := range tw.Entities.Urls {
				st.LinkURLs = append(st.LinkURLs, u.ExpandedURL)
			}
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

// PostStatus posts one announcement to the account's timeline.
func (f *Feed) PostStatus(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, _, err := f.client.Statuses.Update(text, &gotwitter.StatusUpdateParams{
		TrimUser: gotwitter.Bool(true),
	})
	return err
}

// IsTransient reports whether a Twitter API error is worth retrying.
// Rate limiting and server-side hiccups are transient; everything the
// API explicitly rejects (duplicate status, auth, validation) is not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr gotwitter.APIError
	if errors.As(err, &apiErr) {
		for _, detail := range apiErr.Errors {
			switch detail.Code {
			case codeRateLimited, codeOverCapacity, codeInternalError:
				return true
			case codeDuplicatePost:
				return false
			}
		}
		// Unrecognized API rejections are permanent.
		return false
	}

	// Plain transport errors are retryable.
	return true
}
