// Package ranking orders posts and roadmap entries for presentation.
//
// Every ordering is a stable sort over fully built entities, so entries that
// tie on every key keep the order the loader produced (file name order).
package ranking

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/demofrager/whoami/internal/dates"
	"github.com/demofrager/whoami/internal/model"
)

// HomepageLimit caps the homepage roadmap highlight set.
const HomepageLimit = 3

// SortPosts orders posts newest-modified first, in place.
func SortPosts(posts []model.Post) {
	slices.SortStableFunc(posts, func(a, b model.Post) int {
		return b.UpdatedAt.Compare(a.UpdatedAt)
	})
}

// roadmapKey is the full roadmap sort key. Lower sorts first on every field.
type roadmapKey struct {
	rank     int
	noDate   int     // 0 when the deadline parses
	distance float64 // |deadline - now| in seconds
	updated  float64 // negated modification time
}

func newRoadmapKey(e model.RoadmapEntry, now time.Time) roadmapKey {
	k := roadmapKey{
		rank:     model.ClassifyStatus(e.Status).Rank(),
		noDate:   1,
		distance: math.Inf(1),
		updated:  -unixSeconds(e.UpdatedAt),
	}
	if dl, ok := dates.ParseDeadline(e.Deadline); ok {
		k.noDate = 0
		k.distance = math.Abs(secondsBetween(now, dl))
	}
	return k
}

func (k roadmapKey) compare(o roadmapKey) int {
	return cmp.Or(
		cmp.Compare(k.rank, o.rank),
		cmp.Compare(k.noDate, o.noDate),
		cmp.Compare(k.distance, o.distance),
		cmp.Compare(k.updated, o.updated),
	)
}

// SortRoadmap orders entries in place: most urgent status first, then
// entries with a parseable deadline, then the deadline closest to now in
// either direction, then most recently modified.
func SortRoadmap(entries []model.RoadmapEntry, now time.Time) {
	type keyed struct {
		entry model.RoadmapEntry
		key   roadmapKey
	}
	tmp := make([]keyed, len(entries))
	for i, e := range entries {
		tmp[i] = keyed{entry: e, key: newRoadmapKey(e, now)}
	}
	slices.SortStableFunc(tmp, func(a, b keyed) int {
		return a.key.compare(b.key)
	})
	for i := range tmp {
		entries[i] = tmp[i].entry
	}
}

// homepageKey is the homepage selection sort key. Lower sorts first.
type homepageKey struct {
	progress int     // negated progress
	noDate   int     // 0 when the deadline parses
	deadline float64 // absolute deadline in seconds
}

func newHomepageKey(e model.RoadmapEntry) homepageKey {
	k := homepageKey{progress: 1, noDate: 1, deadline: math.Inf(1)}
	if e.Progress != nil {
		k.progress = -*e.Progress
	}
	if dl, ok := dates.ParseDeadline(e.Deadline); ok {
		k.noDate = 0
		k.deadline = unixSeconds(dl)
	}
	return k
}

func (k homepageKey) compare(o homepageKey) int {
	return cmp.Or(
		cmp.Compare(k.progress, o.progress),
		cmp.Compare(k.noDate, o.noDate),
		cmp.Compare(k.deadline, o.deadline),
	)
}

// SelectHomepage picks the in-progress highlight set: entries with progress
// below 100, furthest along first, then soonest calendar deadline, capped at
// HomepageLimit. The input slice is not modified.
func SelectHomepage(entries []model.RoadmapEntry) []model.RoadmapEntry {
	candidates := make([]model.RoadmapEntry, 0, len(entries))
	for _, e := range entries {
		if e.Progress != nil && *e.Progress < 100 {
			candidates = append(candidates, e)
		}
	}
	slices.SortStableFunc(candidates, func(a, b model.RoadmapEntry) int {
		return newHomepageKey(a).compare(newHomepageKey(b))
	})
	if len(candidates) > HomepageLimit {
		candidates = candidates[:HomepageLimit]
	}
	return candidates
}

// Top returns at most n posts from the front of an ordered slice.
func Top(posts []model.Post, n int) []model.Post {
	if len(posts) > n {
		return posts[:n]
	}
	return posts
}

func unixSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}

// secondsBetween returns to-from in seconds without the overflow that
// time.Sub has for spans beyond ~292 years.
func secondsBetween(from, to time.Time) float64 {
	return float64(to.Unix()-from.Unix()) + float64(to.Nanosecond()-from.Nanosecond())/1e9
}
