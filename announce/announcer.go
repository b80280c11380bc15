// Package announce implements the reconciliation pipeline that keeps a
// Twitter account in sync with a set of YouTube sources: it replays the
// account's own timeline to recover what was already announced, fetches
// candidate videos from every configured source, filters and orders
// them, and posts the remainder one at a time.
//
// The package talks to the two external services only through the
// Timeline, Catalog, and StatusPoster interfaces; the youtube and
// twitter packages provide the real implementations.
package announce

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// Announcer wires the pipeline stages together for one run.
type Announcer struct {
	Catalog   Catalog
	Timeline  Timeline
	Publisher *Publisher
	Sources   []Source
}

// RunReport summarizes one reconciliation run.
type RunReport struct {
	// RunID identifies the run in log output.
	RunID string
	// Announced is the number of video IDs recovered from history.
	Announced int
	// Fetched is the number of candidate videos across all sources.
	Fetched int
	// FailedSources is the number of sources whose fetch failed.
	FailedSources int
	// Queued is the number of videos left after reconciliation.
	Queued int
	// Posted is the number of announcements that went out.
	Posted int
}

// Run performs one full reconciliation pass. History replay and the
// source fetches are independent reads, so they run concurrently; the
// publisher then walks the reconciled queue sequentially. The report is
// returned even when the run fails partway, so callers can see how far
// it got.
func (a *Announcer) Run(ctx context.Context) (*RunReport, error) {
	report := &RunReport{RunID: uuid.NewString()[:8]}
	log.Printf("announce: run %s started, %d sources", report.RunID, len(a.Sources))

	type replayResult struct {
		announced map[string]struct{}
		err       error
	}
	replayCh := make(chan replayResult, 1)
	go func() {
		announced, err := Replay(ctx, a.Timeline)
		replayCh <- replayResult{announced: announced, err: err}
	}()

	candidates, srcErrs := FetchAll(ctx, a.Catalog, a.Sources)
	for _, e := range srcErrs {
		log.Printf("announce: run %s: %v", report.RunID, e)
	}
	report.Fetched = len(candidates)
	report.FailedSources = len(srcErrs)

	rr := <-replayCh
	if rr.err != nil {
		return report, fmt.Errorf("history replay: %w", rr.err)
	}
	report.Announced = len(rr.announced)

	if len(a.Sources) > 0 && len(srcErrs) == len(a.Sources) {
		return report, fmt.Errorf("all %d sources failed, first error: %w", len(a.Sources), srcErrs[0])
	}

	queue := Reconcile(candidates, rr.announced, time.Now())
	report.Queued = len(queue)
	log.Printf("announce: run %s: %d candidates, %d already announced, %d queued",
		report.RunID, report.Fetched, report.Announced, report.Queued)

	posted, err := a.Publisher.Publish(ctx, queue)
	report.Posted = posted
	if err != nil {
		return report, fmt.Errorf("publish: %w", err)
	}

	log.Printf("announce: run %s complete, %d posted", report.RunID, report.Posted)
	return report, nil
}
