package scoring_test

import (
	"math/rand"
	"testing"

	"github.com/okian/powerteam/internal/domain/model"
	scoring "github.com/okian/powerteam/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

// visitorsFor yields a record whose default-weight total is 10*v.
func visitorsFor(v int) model.ActivityCounters {
	return model.ActivityCounters{Visitors: v}
}

func TestRankDescending(t *testing.T) {
	Convey("Given three teams", t, func() {
		entries := []model.NamedCounters{
			{Name: "A", Counters: visitorsFor(5)},
			{Name: "B", Counters: visitorsFor(10)},
			{Name: "C", Counters: model.ActivityCounters{Visitors: 7, Testimonials: 1}},
		}

		Convey("When ranking the top two", func() {
			ranked := scoring.RankDescending(entries, 2)

			Convey("Then the two best should be returned in order", func() {
				So(len(ranked), ShouldEqual, 2)
				So(ranked[0].Name, ShouldEqual, "B")
				So(ranked[0].Rank, ShouldEqual, 1)
				So(ranked[0].Total, ShouldEqual, 100.0)
				So(ranked[1].Name, ShouldEqual, "C")
				So(ranked[1].Rank, ShouldEqual, 2)
				So(ranked[1].Total, ShouldEqual, 75.0)
			})

			Convey("And every row should carry its breakdown", func() {
				So(ranked[1].Breakdown.Visitors, ShouldEqual, 70.0)
				So(ranked[1].Breakdown.Testimonials, ShouldEqual, 5.0)
			})
		})

		Convey("When the limit is zero", func() {
			ranked := scoring.RankDescending(entries, 0)

			Convey("Then the result should be empty", func() {
				So(ranked, ShouldNotBeNil)
				So(ranked, ShouldBeEmpty)
			})
		})

		Convey("When the limit is negative", func() {
			Convey("Then the result should be empty", func() {
				So(scoring.RankDescending(entries, -3), ShouldBeEmpty)
			})
		})

		Convey("When the limit exceeds the input size", func() {
			ranked := scoring.RankDescending(entries, 10)

			Convey("Then every entry should be ranked", func() {
				So(len(ranked), ShouldEqual, 3)
				So(ranked[2].Name, ShouldEqual, "A")
				So(ranked[2].Rank, ShouldEqual, 3)
			})
		})

		Convey("When the input is empty", func() {
			Convey("Then the result should be empty", func() {
				So(scoring.RankDescending(nil, 5), ShouldBeEmpty)
			})
		})

		Convey("When entries carry keys", func() {
			for i := range entries {
				entries[i].Key = 10 + i
			}
			ranked := scoring.RankDescending(entries, 3)

			Convey("Then each row should keep its entry's key", func() {
				So(ranked[0].Key, ShouldEqual, 11)
				So(ranked[1].Key, ShouldEqual, 12)
				So(ranked[2].Key, ShouldEqual, 10)
			})
		})
	})

	Convey("Given entries with tied totals", t, func() {
		entries := []model.NamedCounters{
			{Name: "first", Counters: visitorsFor(3)},
			{Name: "top", Counters: visitorsFor(9)},
			{Name: "second", Counters: model.ActivityCounters{OneToOneMeetings: 6}},
			{Name: "third", Counters: visitorsFor(3)},
		}

		Convey("When ranking them", func() {
			ranked := scoring.RankDescending(entries, 4)

			Convey("Then ties should keep their input order", func() {
				So(ranked[0].Name, ShouldEqual, "top")
				So(ranked[1].Name, ShouldEqual, "first")
				So(ranked[2].Name, ShouldEqual, "second")
				So(ranked[3].Name, ShouldEqual, "third")
			})

			Convey("And ranks should still be contiguous", func() {
				for i, r := range ranked {
					So(r.Rank, ShouldEqual, i+1)
				}
			})
		})
	})
}

func TestRankDescending_Properties(t *testing.T) {
	Convey("Given random inputs and limits", t, func() {
		r := rand.New(rand.NewSource(11))

		Convey("Then output should be sorted, bounded, and contiguously ranked", func() {
			for i := 0; i < 100; i++ {
				n := r.Intn(25)
				entries := make([]model.NamedCounters, n)
				for j := range entries {
					entries[j] = model.NamedCounters{Name: string(rune('a' + j)), Counters: randomCounters(r)}
				}
				limit := r.Intn(30)

				ranked := scoring.RankDescending(entries, limit)
				So(len(ranked), ShouldEqual, min(limit, n))
				for k := range ranked {
					So(ranked[k].Rank, ShouldEqual, k+1)
					if k > 0 {
						So(ranked[k-1].Total, ShouldBeGreaterThanOrEqualTo, ranked[k].Total)
					}
				}
			}
		})
	})
}

func TestEngine_Ranked(t *testing.T) {
	Convey("Given a ranked sequence", t, func() {
		engine := scoring.NewEngine()
		entries := []model.NamedCounters{
			{Name: "x", Counters: visitorsFor(1)},
			{Name: "y", Counters: visitorsFor(4)},
			{Name: "z", Counters: visitorsFor(2)},
		}
		seq := engine.Ranked(entries, 3)

		Convey("When ranging over it twice", func() {
			var first, second []string
			for r := range seq {
				first = append(first, r.Name)
			}
			for r := range seq {
				second = append(second, r.Name)
			}

			Convey("Then both passes should produce the same ranking", func() {
				So(first, ShouldResemble, []string{"y", "z", "x"})
				So(second, ShouldResemble, first)
			})
		})

		Convey("When the consumer stops early", func() {
			var got []model.RankedEntity
			for r := range seq {
				got = append(got, r)
				break
			}

			Convey("Then only the leader should be seen", func() {
				So(len(got), ShouldEqual, 1)
				So(got[0].Name, ShouldEqual, "y")
				So(got[0].Rank, ShouldEqual, 1)
			})
		})

		Convey("When the input changes between passes", func() {
			entries[0].Counters = visitorsFor(9)

			Convey("Then the next pass should reflect the change", func() {
				for r := range seq {
					So(r.Name, ShouldEqual, "x")
					break
				}
			})
		})
	})
}
