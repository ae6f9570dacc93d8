package window_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/powerteam/internal/domain/window"
	. "github.com/smartystreets/goconvey/convey"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeek(t *testing.T) {
	Convey("Given days inside the same week", t, func() {
		days := []time.Time{
			date(2024, time.March, 11),
			date(2024, time.March, 14).Add(15 * time.Hour),
			date(2024, time.March, 17).Add(23*time.Hour + 59*time.Minute),
		}

		Convey("Then they should all map to the monday start", func() {
			for _, d := range days {
				w := window.Week(d)
				So(w.Kind, ShouldEqual, window.KindWeek)
				So(w.Start, ShouldEqual, date(2024, time.March, 11))
				So(w.Label(), ShouldEqual, "2024-03-11")
			}
		})
	})

	Convey("Given a week window", t, func() {
		w := window.Week(date(2024, time.March, 13))

		Convey("Then containment should be half-open", func() {
			So(w.Contains(date(2024, time.March, 11)), ShouldBeTrue)
			So(w.Contains(date(2024, time.March, 17).Add(23*time.Hour)), ShouldBeTrue)
			So(w.Contains(date(2024, time.March, 18)), ShouldBeFalse)
			So(w.Contains(date(2024, time.March, 10)), ShouldBeFalse)
		})

		Convey("Then it should encode as a week query", func() {
			So(w.Values().Get("week"), ShouldEqual, "2024-03-11")
			So(w.String(), ShouldEqual, "week:2024-03-11")
		})
	})
}

func TestMonth(t *testing.T) {
	Convey("Given a month window", t, func() {
		w := window.Month(2024, time.February)

		Convey("Then its bounds should cover the calendar month", func() {
			from, to, ok := w.Bounds()
			So(ok, ShouldBeTrue)
			So(from, ShouldEqual, date(2024, time.February, 1))
			So(to, ShouldEqual, date(2024, time.March, 1))
			So(w.Contains(date(2024, time.February, 29)), ShouldBeTrue)
			So(w.Contains(date(2024, time.March, 1)), ShouldBeFalse)
		})

		Convey("Then it should encode month and year", func() {
			v := w.Values()
			So(v.Get("month"), ShouldEqual, "2")
			So(v.Get("year"), ShouldEqual, "2024")
			So(w.Label(), ShouldEqual, "2024-02")
		})
	})

	Convey("Given the all-time window", t, func() {
		w := window.All()

		Convey("Then it should contain everything and encode nothing", func() {
			So(w.IsAll(), ShouldBeTrue)
			So(window.Window{}.IsAll(), ShouldBeTrue)
			So(w.Contains(date(1999, time.January, 1)), ShouldBeTrue)
			So(w.Values(), ShouldBeEmpty)
			So(w.Label(), ShouldEqual, "all")
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Given textual windows", t, func() {
		Convey("When parsing a week on a wednesday", func() {
			w, err := window.Parse("week", "2024-03-13")

			Convey("Then it should snap to monday", func() {
				So(err, ShouldBeNil)
				So(w.Label(), ShouldEqual, "2024-03-11")
			})
		})

		Convey("When parsing a month", func() {
			w, err := window.Parse("MONTH", "2023-12")

			Convey("Then year and month should be set", func() {
				So(err, ShouldBeNil)
				So(w.Year, ShouldEqual, 2023)
				So(w.Month, ShouldEqual, time.December)
			})
		})

		Convey("When the kind is empty", func() {
			w, err := window.Parse("", "ignored")

			Convey("Then the all-time window should be returned", func() {
				So(err, ShouldBeNil)
				So(w.IsAll(), ShouldBeTrue)
			})
		})

		Convey("When the value is malformed", func() {
			_, err := window.Parse("week", "13/03/2024")

			Convey("Then an invalid window error should be returned", func() {
				So(errors.Is(err, window.ErrInvalidWindow), ShouldBeTrue)
			})
		})

		Convey("When the kind is unknown", func() {
			_, err := window.Parse("quarter", "2024-Q1")

			Convey("Then an invalid window error should be returned", func() {
				So(errors.Is(err, window.ErrInvalidWindow), ShouldBeTrue)
			})
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given windows to validate", t, func() {
		Convey("Then well-formed windows should pass", func() {
			So(window.All().Validate(), ShouldBeNil)
			So(window.Week(date(2024, time.May, 2)).Validate(), ShouldBeNil)
			So(window.Month(2024, time.May).Validate(), ShouldBeNil)
		})

		Convey("Then malformed windows should fail", func() {
			bad := []window.Window{
				{Kind: "fortnight"},
				{Kind: window.KindWeek},
				{Kind: window.KindWeek, Start: date(2024, time.May, 2)},
				{Kind: window.KindMonth, Year: 2024},
				{Kind: window.KindMonth, Year: 2024, Month: 13},
				{Kind: window.KindMonth, Year: 1800, Month: 1},
			}
			for _, w := range bad {
				So(errors.Is(w.Validate(), window.ErrInvalidWindow), ShouldBeTrue)
			}
		})
	})
}

func TestLastPeriods(t *testing.T) {
	Convey("Given a reference time", t, func() {
		now := date(2024, time.January, 10)

		Convey("When listing the last three weeks", func() {
			weeks := window.LastWeeks(now, 3)

			Convey("Then they should be contiguous and oldest first", func() {
				So(len(weeks), ShouldEqual, 3)
				So(weeks[0].Label(), ShouldEqual, "2023-12-25")
				So(weeks[1].Label(), ShouldEqual, "2024-01-01")
				So(weeks[2].Label(), ShouldEqual, "2024-01-08")
			})
		})

		Convey("When listing the last three months", func() {
			months := window.LastMonths(now, 3)

			Convey("Then they should cross the year boundary", func() {
				So(months[0].Label(), ShouldEqual, "2023-11")
				So(months[1].Label(), ShouldEqual, "2023-12")
				So(months[2].Label(), ShouldEqual, "2024-01")
			})
		})

		Convey("When asking for no periods", func() {
			So(window.LastWeeks(now, 0), ShouldBeEmpty)
			So(window.LastMonths(now, -1), ShouldBeEmpty)
		})
	})
}
