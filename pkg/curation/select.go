package curation

import (
	"runtime"
	"sort"
	"sync"

	"github.com/ravi-parthasarathy/curator/pkg/workflow"
)

// Candidate is one (category, workflow) pair entering a selection pass.
// SourceID is a normalized record identifier (typically the lowercased file
// stem) used to derive stable output names.
type Candidate struct {
	Category string
	SourceID string
	Workflow *workflow.Workflow
}

// Scored is one selected (score, workflow) pair.
type Scored struct {
	Score    int
	SourceID string
	Workflow *workflow.Workflow
}

// Stats tallies the outcome of a selection pass. Rejections are counted per
// reason for reporting; they never abort the batch.
type Stats struct {
	Valid    int
	Rejected map[Reason]int
}

func newStats() Stats {
	return Stats{Rejected: make(map[Reason]int)}
}

// Reject increments the tally for a rejection reason.
func (s *Stats) Reject(r Reason) {
	s.Rejected[r]++
}

// TotalRejected sums all rejection counters.
func (s *Stats) TotalRejected() int {
	n := 0
	for _, c := range s.Rejected {
		n += c
	}
	return n
}

// Selector validates, scores and ranks candidates, keeping the top K per
// category. Validation and scoring of distinct workflows are independent and
// run across Parallelism workers; results are merged per category before the
// sort, so output order does not depend on scheduling.
type Selector struct {
	K           int
	Profile     Profile
	Weights     Weights
	Parallelism int // <= 0 means GOMAXPROCS
}

// Select runs the full selection protocol over candidates and returns the
// per-category ranked lists plus rejection statistics.
//
// Within a category, survivors are sorted descending by score; equal scores
// retain their input order, so selection is deterministic for identical
// inputs. A category with zero survivors yields no entry in the result.
func (s *Selector) Select(candidates []Candidate) (map[string][]Scored, Stats) {
	type verdict struct {
		ok     bool
		reason Reason
		score  int
	}
	verdicts := make([]verdict, len(candidates))

	workers := s.Parallelism
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				w := candidates[i].Workflow
				ok, reason := Validate(w, s.Profile)
				v := verdict{ok: ok, reason: reason}
				if ok {
					v.score = Score(w, s.Weights)
				}
				verdicts[i] = v
			}
		}()
	}
	for i := range candidates {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	// Merge in input order: the per-category barrier before sorting.
	stats := newStats()
	byCategory := make(map[string][]Scored)
	for i, c := range candidates {
		v := verdicts[i]
		if !v.ok {
			stats.Reject(v.reason)
			continue
		}
		stats.Valid++
		byCategory[c.Category] = append(byCategory[c.Category], Scored{
			Score:    v.score,
			SourceID: c.SourceID,
			Workflow: c.Workflow,
		})
	}

	for category, scored := range byCategory {
		sort.SliceStable(scored, func(a, b int) bool {
			return scored[a].Score > scored[b].Score
		})
		if s.K > 0 && len(scored) > s.K {
			scored = scored[:s.K]
		}
		byCategory[category] = scored
	}
	return byCategory, stats
}
