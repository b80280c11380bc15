package announce

import (
	"net/url"
	"strings"
	"time"
)

// Video is one discovered candidate for announcement.
type Video struct {
	// ID is the canonical YouTube video ID (e.g., "dQw4w9WgXcQ").
	// Two videos with the same ID are the same video regardless of
	// which source produced them.
	ID string

	// Title is the display title. It may contain encoded markup
	// entities; it is decoded at publish time.
	Title string

	// Published is the source-provided publication time, used for the
	// grace-period check and the final ordering.
	Published time.Time

	// Mention is the optional handle of the source that discovered the
	// video (not of the video itself), appended to the announcement.
	Mention string
}

// WatchURL returns the canonical playback URL for this video.
func (v Video) WatchURL() string {
	return WatchURL(v.ID)
}

// WatchURL returns the canonical playback URL for a video ID.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// VideoIDFromURL extracts the video ID from a YouTube watch URL.
// It returns the value of the "v" query parameter and true, or
// "" and false when the URL carries no video ID.
func VideoIDFromURL(raw string) (string, bool) {
	if u, err := url.Parse(raw); err == nil {
		if id := u.Query().Get("v"); id != "" {
			return id, true
		}
	}

	// Raw scan for URLs the parser rejects (bad escapes and the like).
	idx := strings.Index(raw, "?v=")
	if idx == -1 {
		idx = strings.Index(raw, "&v=")
	}
	if idx == -1 {
		return "", false
	}
	id := raw[idx+3:]
	if j := strings.IndexAny(id, "&#"); j != -1 {
		id = id[:j]
	}
	if id == "" {
		return "", false
	}
	return id, true
}
