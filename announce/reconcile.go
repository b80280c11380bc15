package announce

import (
	"sort"
	"time"
)

// minAge is the grace period before a video may be announced, giving the
// uploader time to replace an auto-generated title with a meaningful one.
const minAge = time.Hour

// Reconcile turns raw candidates into the announce-ready queue: drops
// every candidate already in the announced set, drops candidates
// published within the grace period, and sorts the remainder ascending
// by publication time (oldest first). The sort is stable, so candidates
// with equal timestamps keep their input order. Pure; an empty result
// is a normal outcome.
func Reconcile(candidates []Video, announced map[string]struct{}, now time.Time) []Video {
	kept := make([]Video, 0, len(candidates))
	for _, v := range candidates {
		if _, ok := announced[v.ID]; ok {
			continue
		}
		if now.Sub(v.Published) <= minAge {
			continue
		}
		kept = append(kept, v)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Published.Before(kept[j].Published)
	})
	return kept
}
