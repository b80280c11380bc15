package announce

import (
	"context"
	"fmt"
	"log"
)

// Status is one post from the outbound account's own timeline.
type Status struct {
	// ID is the post's numeric ID, also used as the pagination cursor.
	ID int64
	// LinkURLs are the expanded URLs embedded in the post.
	LinkURLs []string
}

// Timeline pages through the outbound account's own posting history.
type Timeline interface {
	// UserTimeline returns up to count statuses, newest first. A maxID
	// of 0 starts from the newest post; otherwise only statuses with
	// ID <= maxID are returned.
	UserTimeline(ctx context.Context, maxID int64, count int) ([]Status, error)
}

// Timeline pagination bounds. The page ceiling caps API usage no matter
// how long the account's history is; older history is simply not covered.
const (
	timelinePageSize = 200
	maxTimelinePages = 100
)

// Replay walks the account's own timeline newest-first and collects every
// video ID referenced by an embedded link. The result is the set of
// videos already announced; a truncated walk degrades to covering less
// history, never to an error.
func Replay(ctx context.Context, tl Timeline) (map[string]struct{}, error) {
	announced := make(map[string]struct{})

	var maxID int64
	for page := 0; page < maxTimelinePages; page++ {
		statuses, err := tl.UserTimeline(ctx, maxID, timelinePageSize)
		if err != nil {
			return nil, fmt.Errorf("timeline page %d: %w", page+1, err)
		}
		if len(statuses) == 0 {
			break
		}

		oldest := statuses[len(statuses)-1].ID
		stalled := maxID != 0 && oldest == maxID
		if stalled {
			// The cursor did not advance: the upstream keeps returning
			// the same trailing post. Discard it and stop paging.
			log.Printf("announce: timeline cursor stuck at %d, ending history replay", maxID)
			statuses = statuses[:len(statuses)-1]
		}

		for _, st := range statuses {
			for _, link := range st.LinkURLs {
				id, ok := VideoIDFromURL(link)
				if !ok {
					continue
				}
				announced[id] = struct{}{}
			}
		}

		if stalled {
			break
		}
		maxID = oldest
	}

	return announced, nil
}
