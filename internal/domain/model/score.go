package model

// Component names, in display order.
const (
	ComponentAttendance     = "Attendance"
	ComponentVisitors       = "Visitors"
	ComponentReferrals      = "Referrals"
	ComponentConversion     = "Conversion"
	ComponentOneToOne       = "OneToOne"
	ComponentClosedBusiness = "ClosedBusiness"
	ComponentTraining       = "Training"
	ComponentTestimonials   = "Testimonials"
)

// ScoreBreakdown is the per-category point split for one ActivityCounters record.
// Total is always the sum of the eight components.
type ScoreBreakdown struct {
	Attendance     float64 `json:"attendance" yaml:"attendance"`
	Visitors       float64 `json:"visitors" yaml:"visitors"`
	Referrals      float64 `json:"referrals" yaml:"referrals"`
	Conversion     float64 `json:"conversion" yaml:"conversion"`
	OneToOne       float64 `json:"oneToOne" yaml:"one_to_one"`
	ClosedBusiness float64 `json:"closedBusiness" yaml:"closed_business"`
	Training       float64 `json:"training" yaml:"training"`
	Testimonials   float64 `json:"testimonials" yaml:"testimonials"`
	Total          float64 `json:"total" yaml:"total"`
}

// Component is a single named slice of a breakdown.
type Component struct {
	Name   string  `json:"name" yaml:"name"`
	Points float64 `json:"points" yaml:"points"`
}

// Components lists the eight named components in display order.
func (b ScoreBreakdown) Components() []Component {
	return []Component{
		{Name: ComponentAttendance, Points: b.Attendance},
		{Name: ComponentVisitors, Points: b.Visitors},
		{Name: ComponentReferrals, Points: b.Referrals},
		{Name: ComponentConversion, Points: b.Conversion},
		{Name: ComponentOneToOne, Points: b.OneToOne},
		{Name: ComponentClosedBusiness, Points: b.ClosedBusiness},
		{Name: ComponentTraining, Points: b.Training},
		{Name: ComponentTestimonials, Points: b.Testimonials},
	}
}

// Sum adds up the eight components.
func (b ScoreBreakdown) Sum() float64 {
	return b.Attendance + b.Visitors + b.Referrals + b.Conversion +
		b.OneToOne + b.ClosedBusiness + b.Training + b.Testimonials
}

// RankedEntity is one row of a league table.
type RankedEntity struct {
	Rank      int            `json:"rank" yaml:"rank"`
	Key       int            `json:"-" yaml:"-"`
	Name      string         `json:"name" yaml:"name"`
	Total     float64        `json:"total" yaml:"total"`
	Breakdown ScoreBreakdown `json:"breakdown" yaml:"breakdown"`
}

// NamedCounters is the input to ranking: a display name and its counters.
// Key is opaque to ranking and copied onto the ranked row so callers can
// join their own records back.
type NamedCounters struct {
	Key      int
	Name     string
	Counters ActivityCounters
}
