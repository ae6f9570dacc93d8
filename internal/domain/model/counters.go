// Package model contains domain models passed between layers.
package model

import "math"

// ActivityCounters holds the raw activity tallies for one subject (a member
// or a team) over one time window. Zero values mean "not reported".
type ActivityCounters struct {
	Present    int `json:"P" yaml:"present"`
	Substitute int `json:"S" yaml:"substitute"`
	Absent     int `json:"A" yaml:"absent"`
	Medical    int `json:"M" yaml:"medical"`
	Late       int `json:"L" yaml:"late"`

	ReferralsGivenInside     int `json:"RGI" yaml:"referrals_given_inside"`
	ReferralsGivenOutside    int `json:"RGO" yaml:"referrals_given_outside"`
	ReferralsReceivedInside  int `json:"RRI" yaml:"referrals_received_inside"`
	ReferralsReceivedOutside int `json:"RRO" yaml:"referrals_received_outside"`

	Visitors         int `json:"V" yaml:"visitors"`
	OneToOneMeetings int `json:"oneToOne" yaml:"one_to_one_meetings"`
	Conversions      int `json:"CON" yaml:"conversions"`
	Testimonials     int `json:"T" yaml:"testimonials"`
	TrainingSessions int `json:"CEU" yaml:"training_sessions"`

	// ClosedBusinessAmount is the TYFCB amount in currency units.
	ClosedBusinessAmount float64 `json:"TYFCB_amount" yaml:"closed_business_amount"`
}

// Add returns the element-wise sum of c and o.
func (c ActivityCounters) Add(o ActivityCounters) ActivityCounters {
	return ActivityCounters{
		Present:                  c.Present + o.Present,
		Substitute:               c.Substitute + o.Substitute,
		Absent:                   c.Absent + o.Absent,
		Medical:                  c.Medical + o.Medical,
		Late:                     c.Late + o.Late,
		ReferralsGivenInside:     c.ReferralsGivenInside + o.ReferralsGivenInside,
		ReferralsGivenOutside:    c.ReferralsGivenOutside + o.ReferralsGivenOutside,
		ReferralsReceivedInside:  c.ReferralsReceivedInside + o.ReferralsReceivedInside,
		ReferralsReceivedOutside: c.ReferralsReceivedOutside + o.ReferralsReceivedOutside,
		Visitors:                 c.Visitors + o.Visitors,
		OneToOneMeetings:         c.OneToOneMeetings + o.OneToOneMeetings,
		Conversions:              c.Conversions + o.Conversions,
		Testimonials:             c.Testimonials + o.Testimonials,
		TrainingSessions:         c.TrainingSessions + o.TrainingSessions,
		ClosedBusinessAmount:     c.ClosedBusinessAmount + o.ClosedBusinessAmount,
	}
}

// Normalized returns a copy with a non-finite closed-business amount replaced by 0.
// Integer counters have no "missing" state beyond their zero value.
func (c ActivityCounters) Normalized() ActivityCounters {
	if math.IsNaN(c.ClosedBusinessAmount) || math.IsInf(c.ClosedBusinessAmount, 0) {
		c.ClosedBusinessAmount = 0
	}
	return c
}

// IsZero reports whether every counter is zero.
func (c ActivityCounters) IsZero() bool {
	return c == ActivityCounters{}
}

// SubjectCounters couples counters with the subject they belong to.
type SubjectCounters struct {
	ID       string           `json:"id" yaml:"id"`
	Name     string           `json:"name" yaml:"name"`
	Team     string           `json:"team,omitempty" yaml:"team,omitempty"`
	Captain  string           `json:"captain,omitempty" yaml:"captain,omitempty"`
	Counters ActivityCounters `json:"counters" yaml:"counters"`

	// ReportedTotal is the point total the upstream service computed, when it sends one.
	ReportedTotal *float64 `json:"reportedTotal,omitempty" yaml:"reported_total,omitempty"`
}
