package scoring_test

import (
	"math/rand"
	"testing"

	"github.com/okian/powerteam/internal/domain/model"
	scoring "github.com/okian/powerteam/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCategoryTotals(t *testing.T) {
	Convey("Given a list of weekly records", t, func() {
		records := []model.ActivityCounters{
			{Present: 4, Visitors: 1, Late: 1, ClosedBusinessAmount: 1200},
			{Present: 3, Absent: 1, ReferralsGivenInside: 2, ClosedBusinessAmount: 800},
			{Substitute: 1, TrainingSessions: 2, ReferralsReceivedOutside: 3},
		}

		Convey("When summing them", func() {
			total := scoring.CategoryTotals(records)

			Convey("Then raw counters should be summed field by field", func() {
				So(total.Present, ShouldEqual, 7)
				So(total.Absent, ShouldEqual, 1)
				So(total.Substitute, ShouldEqual, 1)
				So(total.Late, ShouldEqual, 1)
				So(total.Visitors, ShouldEqual, 1)
				So(total.ReferralsGivenInside, ShouldEqual, 2)
				So(total.ReferralsReceivedOutside, ShouldEqual, 3)
				So(total.TrainingSessions, ShouldEqual, 2)
				So(total.ClosedBusinessAmount, ShouldEqual, 2000.0)
			})
		})

		Convey("When there is a single record", func() {
			Convey("Then the totals should equal that record", func() {
				So(scoring.CategoryTotals(records[:1]), ShouldResemble, records[0])
			})
		})

		Convey("When there are no records", func() {
			Convey("Then the totals should be zero", func() {
				So(scoring.CategoryTotals(nil).IsZero(), ShouldBeTrue)
			})
		})
	})

	Convey("Given random records split into two groups", t, func() {
		r := rand.New(rand.NewSource(3))
		records := make([]model.ActivityCounters, 40)
		for i := range records {
			c := randomCounters(r)
			c.ClosedBusinessAmount = float64(r.Intn(100_000)) // integral amounts keep float sums exact
			records[i] = c
		}

		Convey("Then summing the groups separately should match the whole", func() {
			for split := 0; split <= len(records); split += 7 {
				left := scoring.CategoryTotals(records[:split])
				right := scoring.CategoryTotals(records[split:])
				So(left.Add(right), ShouldResemble, scoring.CategoryTotals(records))
				So(right.Add(left), ShouldResemble, scoring.CategoryTotals(records))
			}
		})
	})
}
