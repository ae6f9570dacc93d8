package scoring

import (
	"iter"
	"slices"

	"github.com/okian/powerteam/internal/domain/model"
)

// CategoryTotals sums every raw counter across entries. Scores are not
// involved; score the result to get organisation-wide points.
func CategoryTotals(entries []model.ActivityCounters) model.ActivityCounters {
	return CategoryTotalsSeq(slices.Values(entries))
}

// CategoryTotalsSeq is CategoryTotals over an arbitrary sequence.
func CategoryTotalsSeq(entries iter.Seq[model.ActivityCounters]) model.ActivityCounters {
	var sum model.ActivityCounters
	for c := range entries {
		sum = sum.Add(c)
	}
	return sum
}
