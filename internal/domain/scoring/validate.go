package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/okian/powerteam/internal/domain/model"
)

// Validate applies the strict input policy: no negative counts or amounts and
// a finite amount. ComputeScore does not call it; callers opt in.
func Validate(c model.ActivityCounters) error {
	fields := []struct {
		name  string
		value int
	}{
		{"present", c.Present},
		{"substitute", c.Substitute},
		{"absent", c.Absent},
		{"medical", c.Medical},
		{"late", c.Late},
		{"referralsGivenInside", c.ReferralsGivenInside},
		{"referralsGivenOutside", c.ReferralsGivenOutside},
		{"referralsReceivedInside", c.ReferralsReceivedInside},
		{"referralsReceivedOutside", c.ReferralsReceivedOutside},
		{"visitors", c.Visitors},
		{"oneToOneMeetings", c.OneToOneMeetings},
		{"conversions", c.Conversions},
		{"testimonials", c.Testimonials},
		{"trainingSessions", c.TrainingSessions},
	}

	var errs []error
	for _, f := range fields {
		if f.value < 0 {
			errs = append(errs, fmt.Errorf("%s=%d: %w", f.name, f.value, ErrNegativeCounter))
		}
	}

	switch amt := c.ClosedBusinessAmount; {
	case math.IsNaN(amt) || math.IsInf(amt, 0):
		errs = append(errs, fmt.Errorf("closedBusinessAmount: %w", ErrNonFiniteAmount))
	case amt < 0:
		errs = append(errs, fmt.Errorf("closedBusinessAmount=%.2f: %w", amt, ErrNegativeCounter))
	}

	return errors.Join(errs...)
}
