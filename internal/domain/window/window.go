// Package window describes the reporting period a set of counters covers.
// The scoring engine never looks at time; providers use a Window to decide
// which weekly rows to aggregate.
package window

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Kind selects how a Window is interpreted.
type Kind string

// Supported window kinds.
const (
	KindAll   Kind = "all"
	KindWeek  Kind = "week"
	KindMonth Kind = "month"
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
	daysPerWeek = 7
)

// Window is a reporting period. The zero value means "all time".
type Window struct {
	Kind  Kind       `validate:"omitempty,oneof=all week month"`
	Start time.Time  // Monday 00:00 UTC for week windows
	Year  int        `validate:"omitempty,gte=1970,lte=9999"`
	Month time.Month `validate:"omitempty,gte=1,lte=12"`
}

var validate = validator.New()

// All returns the unbounded window.
func All() Window { return Window{Kind: KindAll} }

// Week returns the week window containing t. Weeks start on Monday (UTC).
func Week(t time.Time) Window {
	t = t.UTC()
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(d.Weekday()) + daysPerWeek - int(time.Monday)) % daysPerWeek
	return Window{Kind: KindWeek, Start: d.AddDate(0, 0, -offset)}
}

// Month returns the calendar month window.
func Month(year int, month time.Month) Window {
	return Window{Kind: KindMonth, Year: year, Month: month}
}

// ThisWeek returns the week containing now.
func ThisWeek(now time.Time) Window { return Week(now) }

// ThisMonth returns the month containing now.
func ThisMonth(now time.Time) Window {
	now = now.UTC()
	return Month(now.Year(), now.Month())
}

// IsAll reports whether w is unbounded.
func (w Window) IsAll() bool { return w.Kind == "" || w.Kind == KindAll }

// Validate checks field constraints for the window kind.
func (w Window) Validate() error {
	if err := validate.Struct(w); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWindow, err)
	}
	switch w.Kind {
	case KindWeek:
		if w.Start.IsZero() {
			return fmt.Errorf("%w: week window without start", ErrInvalidWindow)
		}
		if w.Start.Weekday() != time.Monday {
			return fmt.Errorf("%w: week must start on monday, got %s", ErrInvalidWindow, w.Start.Weekday())
		}
	case KindMonth:
		if w.Year == 0 || w.Month == 0 {
			return fmt.Errorf("%w: month window needs year and month", ErrInvalidWindow)
		}
	}
	return nil
}

// Bounds returns the half-open [from, to) interval of the window.
// ok is false for the unbounded window.
func (w Window) Bounds() (from, to time.Time, ok bool) {
	switch w.Kind {
	case KindWeek:
		return w.Start, w.Start.AddDate(0, 0, daysPerWeek), true
	case KindMonth:
		from = time.Date(w.Year, w.Month, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 1, 0), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	from, to, ok := w.Bounds()
	if !ok {
		return true
	}
	t = t.UTC()
	return !t.Before(from) && t.Before(to)
}

// Label is a short, sortable name for the period.
func (w Window) Label() string {
	switch w.Kind {
	case KindWeek:
		return w.Start.Format(dateLayout)
	case KindMonth:
		return fmt.Sprintf("%04d-%02d", w.Year, int(w.Month))
	default:
		return string(KindAll)
	}
}

func (w Window) String() string {
	if w.IsAll() {
		return string(KindAll)
	}
	return string(w.Kind) + ":" + w.Label()
}

// Values encodes the window as query parameters understood by the backend.
func (w Window) Values() url.Values {
	v := url.Values{}
	switch w.Kind {
	case KindWeek:
		v.Set("week", w.Start.Format(dateLayout))
	case KindMonth:
		v.Set("month", strconv.Itoa(int(w.Month)))
		v.Set("year", strconv.Itoa(w.Year))
	}
	return v
}

// Parse builds a window from a kind and a textual value:
// "" or "all", "week" + YYYY-MM-DD (any day of the week), "month" + YYYY-MM.
func Parse(kind, value string) (Window, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(kind))) {
	case "", KindAll:
		return All(), nil
	case KindWeek:
		t, err := time.Parse(dateLayout, strings.TrimSpace(value))
		if err != nil {
			return Window{}, fmt.Errorf("%w: week %q: %v", ErrInvalidWindow, value, err)
		}
		return Week(t), nil
	case KindMonth:
		t, err := time.Parse(monthLayout, strings.TrimSpace(value))
		if err != nil {
			return Window{}, fmt.Errorf("%w: month %q: %v", ErrInvalidWindow, value, err)
		}
		return Month(t.Year(), t.Month()), nil
	default:
		return Window{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidWindow, kind)
	}
}

// LastWeeks returns the n week windows ending with the week of now, oldest first.
func LastWeeks(now time.Time, n int) []Window {
	if n <= 0 {
		return nil
	}
	cur := Week(now)
	out := make([]Window, n)
	for i := 0; i < n; i++ {
		out[n-1-i] = Window{Kind: KindWeek, Start: cur.Start.AddDate(0, 0, -daysPerWeek*i)}
	}
	return out
}

// LastMonths returns the n month windows ending with the month of now, oldest first.
func LastMonths(now time.Time, n int) []Window {
	if n <= 0 {
		return nil
	}
	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	out := make([]Window, n)
	for i := 0; i < n; i++ {
		m := first.AddDate(0, -i, 0)
		out[n-1-i] = Month(m.Year(), m.Month())
	}
	return out
}
