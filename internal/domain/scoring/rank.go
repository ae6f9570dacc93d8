package scoring

import (
	"cmp"
	"iter"
	"slices"

	"github.com/okian/powerteam/internal/domain/model"
)

// Ranked yields the top limit entries ordered by total, highest first, with
// ranks 1..k. Entries with equal totals keep their input order. The sequence
// holds no state between iterations: each range over it rescores entries.
func (e *Engine) Ranked(entries []model.NamedCounters, limit int) iter.Seq[model.RankedEntity] {
	return func(yield func(model.RankedEntity) bool) {
		if limit <= 0 || len(entries) == 0 {
			return
		}

		scored := make([]model.RankedEntity, len(entries))
		for i, en := range entries {
			b := e.ComputeScore(en.Counters)
			scored[i] = model.RankedEntity{Key: en.Key, Name: en.Name, Total: b.Total, Breakdown: b}
		}
		slices.SortStableFunc(scored, func(a, b model.RankedEntity) int {
			return cmp.Compare(b.Total, a.Total)
		})

		n := min(limit, len(scored))
		for i := 0; i < n; i++ {
			scored[i].Rank = i + 1
			if !yield(scored[i]) {
				return
			}
		}
	}
}

// RankDescending materializes Ranked into a slice. The result is never nil.
func (e *Engine) RankDescending(entries []model.NamedCounters, limit int) []model.RankedEntity {
	out := make([]model.RankedEntity, 0, max(0, min(limit, len(entries))))
	for r := range e.Ranked(entries, limit) {
		out = append(out, r)
	}
	return out
}

// RankDescending ranks entries with the default weights.
func RankDescending(entries []model.NamedCounters, limit int) []model.RankedEntity {
	return defaultEngine.RankDescending(entries, limit)
}
