package announce

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"

	"ytannounce/internal/ratelimit"
	"ytannounce/internal/retry"
)

// StatusPoster submits one announcement to the outbound feed.
type StatusPoster interface {
	PostStatus(ctx context.Context, text string) error
}

// ComposeStatus builds the announcement text: the entity-decoded title,
// the @mention when the source carries one, and the watch URL, space
// joined in that fixed order.
func ComposeStatus(v Video) string {
	parts := []string{html.UnescapeString(v.Title)}
	if v.Mention != "" {
		parts = append(parts, "@"+v.Mention)
	}
	parts = append(parts, v.WatchURL())
	return strings.Join(parts, " ")
}

// Publisher emits announcements strictly in order, one in flight, with a
// cooldown gate between posts to stay under the outbound service's
// short-window rate limit.
type Publisher struct {
	Poster StatusPoster

	// Gate spaces out successive posts. Nil means no cooldown.
	Gate *ratelimit.Gate

	// Retry governs re-attempts of transient post failures.
	Retry retry.Config

	// Classifier decides which post errors are transient. Nil retries
	// everything except context errors.
	Classifier retry.ErrorClassifier

	// Max stops the run cleanly after this many posts; 0 means no cap.
	Max int

	// DryRun logs composed announcements without posting them.
	DryRun bool
}

// PublishError reports a publish run that stopped partway: Posted
// announcements went out before Video's submission failed.
type PublishError struct {
	Posted int
	Video  Video
	Err    error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("posting video %s after %d posted: %v", e.Video.ID, e.Posted, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// Publish walks the queue in order and posts each video. It returns the
// number of announcements that went out. A submission failure that
// survives the retry budget aborts the remainder of the queue; items
// already posted stay posted.
func (p *Publisher) Publish(ctx context.Context, videos []Video) (int, error) {
	posted := 0
	for _, v := range videos {
		if p.Max > 0 && posted >= p.Max {
			log.Printf("announce: cap of %d announcements reached, %d left for a later run", p.Max, len(videos)-posted)
			break
		}

		text := ComposeStatus(v)
		if p.DryRun {
			log.Printf("announce: dry run, would post: %s", text)
			posted++
			continue
		}

		if err := p.Gate.Wait(ctx); err != nil {
			return posted, err
		}

		err := retry.Do(ctx, p.Retry, p.Classifier, func(ctx context.Context) error {
			return p.Poster.PostStatus(ctx, text)
		})
		if err != nil {
			return posted, &PublishError{Posted: posted, Video: v, Err: err}
		}
		posted++
		log.Printf("announce: posted video %s: %s", v.ID, text)
	}
	return posted, nil
}
