package announce

import (
	"context"
	"errors"
	"testing"
)

// fakeTimeline serves canned pages keyed by the maxID cursor.
type fakeTimeline struct {
	pages map[int64][]Status
	calls int
	err   error
}

func (f *fakeTimeline) UserTimeline(ctx context.Context, maxID int64, count int) ([]Status, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.pages[maxID], nil
}

func TestReplay_CollectsLinkedVideoIDs(t *testing.T) {
	tl := &fakeTimeline{pages: map[int64][]Status{
		0: {
			{ID: 30, LinkURLs: []string{"https://www.youtube.com/watch?v=v1"}},
			{ID: 20, LinkURLs: []string{
				"https://www.youtube.com/watch?v=v2",
				"https://www.youtube.com/watch?v=v3",
			}},
			{ID: 10, LinkURLs: nil},
		},
	}}

	announced, err := Replay(context.Background(), tl)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}

	want := []string{"v1", "v2", "v3"}
	if len(announced) != len(want) {
		t.Errorf("Replay() collected %d IDs, want %d", len(announced), len(want))
	}
	for _, id := range want {
		if _, ok := announced[id]; !ok {
			t.Errorf("Replay() missing ID %q", id)
		}
	}
}

func TestReplay_SkipsMalformedLinks(t *testing.T) {
	tl := &fakeTimeline{pages: map[int64][]Status{
		0: {
			{ID: 10, LinkURLs: []string{
				"https://example.com/blog",
				"https://www.youtube.com/channel/UCabc",
				"https://www.youtube.com/watch?v=good",
			}},
		},
	}}

	announced, err := Replay(context.Background(), tl)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if len(announced) != 1 {
		t.Errorf("Replay() collected %d IDs, want 1", len(announced))
	}
	if _, ok := announced["good"]; !ok {
		t.Error("Replay() missing ID from the one well-formed link")
	}
}

func TestReplay_PaginatesWithMaxID(t *testing.T) {
	tl := &fakeTimeline{pages: map[int64][]Status{
		0: {
			{ID: 40, LinkURLs: []string{"https://www.youtube.com/watch?v=a"}},
			{ID: 30, LinkURLs: []string{"https://www.youtube.com/watch?v=b"}},
		},
		30: {
			{ID: 30, LinkURLs: []string{"https://www.youtube.com/watch?v=b"}},
			{ID: 20, LinkURLs: []string{"https://www.youtube.com/watch?v=c"}},
		},
		// Cursor 20 has no entry: the page after it is empty.
	}}

	announced, err := Replay(context.Background(), tl)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	for _, id := range []string{"a", "b", "c"} {
		if _, ok := announced[id]; !ok {
			t.Errorf("Replay() missing ID %q", id)
		}
	}
	if tl.calls != 3 {
		t.Errorf("Replay() made %d timeline calls, want 3", tl.calls)
	}
}

func TestReplay_StallDetection(t *testing.T) {
	// The cursor never advances past 10: the upstream keeps returning
	// the same trailing post. Replay must discard it and stop.
	tl := &fakeTimeline{pages: map[int64][]Status{
		0: {
			{ID: 20, LinkURLs: []string{"https://www.youtube.com/watch?v=x"}},
			{ID: 10, LinkURLs: []string{"https://www.youtube.com/watch?v=y"}},
		},
		10: {
			{ID: 10, LinkURLs: []string{"https://www.youtube.com/watch?v=y"}},
		},
	}}

	announced, err := Replay(context.Background(), tl)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if tl.calls != 2 {
		t.Errorf("Replay() made %d timeline calls, want 2 (halt on stalled cursor)", tl.calls)
	}
	// Both IDs were seen on the first page; the stalled page adds nothing.
	for _, id := range []string{"x", "y"} {
		if _, ok := announced[id]; !ok {
			t.Errorf("Replay() missing ID %q", id)
		}
	}
}

// endlessTimeline always returns a page with a strictly older post.
type endlessTimeline struct {
	calls int
}

func (f *endlessTimeline) UserTimeline(ctx context.Context, maxID int64, count int) ([]Status, error) {
	f.calls++
	next := int64(1_000_000 - f.calls)
	return []Status{{ID: next}}, nil
}

func TestReplay_PageCeiling(t *testing.T) {
	tl := &endlessTimeline{}

	if _, err := Replay(context.Background(), tl); err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if tl.calls != maxTimelinePages {
		t.Errorf("Replay() made %d timeline calls, want ceiling %d", tl.calls, maxTimelinePages)
	}
}

func TestReplay_PropagatesError(t *testing.T) {
	wantErr := errors.New("service unavailable")
	tl := &fakeTimeline{err: wantErr}

	_, err := Replay(context.Background(), tl)
	if !errors.Is(err, wantErr) {
		t.Errorf("Replay() error = %v, want wrapped %v", err, wantErr)
	}
}

func TestReplay_EmptyHistory(t *testing.T) {
	tl := &fakeTimeline{pages: map[int64][]Status{}}

	announced, err := Replay(context.Background(), tl)
	if err != nil {
		t.Fatalf("Replay() error = %v", err)
	}
	if len(announced) != 0 {
		t.Errorf("Replay() of empty history collected %d IDs, want 0", len(announced))
	}
	if tl.calls != 1 {
		t.Errorf("Replay() made %d timeline calls, want 1", tl.calls)
	}
}
