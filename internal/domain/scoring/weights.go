package scoring

// Default weight constants.
const (
	defaultAttendanceWeight     = 2
	defaultMissedWeight         = -2
	defaultVisitorWeight        = 10
	defaultReferralWeight       = 5
	defaultOneToOneWeight       = 5
	defaultConversionWeight     = 25
	defaultTrainingWeight       = 15
	defaultTestimonialWeight    = 5
	defaultClosedBusinessUnit   = 10_000
	defaultClosedBusinessDigits = 2
)

// Weights holds the per-activity multipliers of the linear scoring model.
// Each component depends on its own weights only.
type Weights struct {
	Present    float64 `koanf:"present" json:"present" yaml:"present"`
	Substitute float64 `koanf:"substitute" json:"substitute" yaml:"substitute"`
	Absent     float64 `koanf:"absent" json:"absent" yaml:"absent"`
	Medical    float64 `koanf:"medical" json:"medical" yaml:"medical"`

	Visitor       float64 `koanf:"visitor" json:"visitor" yaml:"visitor"`
	ReferralGiven float64 `koanf:"referral_given" json:"referralGiven" yaml:"referral_given"`
	OneToOne      float64 `koanf:"one_to_one" json:"oneToOne" yaml:"one_to_one"`
	Conversion    float64 `koanf:"conversion" json:"conversion" yaml:"conversion"`
	Training      float64 `koanf:"training" json:"training" yaml:"training"`
	Testimonial   float64 `koanf:"testimonial" json:"testimonial" yaml:"testimonial"`

	// ClosedBusinessUnit is the amount of closed business worth one point.
	ClosedBusinessUnit float64 `koanf:"closed_business_unit" json:"closedBusinessUnit" yaml:"closed_business_unit" validate:"gt=0"`
	// ClosedBusinessPrecision is the number of decimals kept on the closed-business points.
	ClosedBusinessPrecision int32 `koanf:"closed_business_precision" json:"closedBusinessPrecision" yaml:"closed_business_precision" validate:"gte=0,lte=6"`
}

// DefaultWeights returns the current points policy.
func DefaultWeights() Weights {
	return Weights{
		Present:                 defaultAttendanceWeight,
		Substitute:              defaultAttendanceWeight,
		Absent:                  defaultMissedWeight,
		Medical:                 defaultMissedWeight,
		Visitor:                 defaultVisitorWeight,
		ReferralGiven:           defaultReferralWeight,
		OneToOne:                defaultOneToOneWeight,
		Conversion:              defaultConversionWeight,
		Training:                defaultTrainingWeight,
		Testimonial:             defaultTestimonialWeight,
		ClosedBusinessUnit:      defaultClosedBusinessUnit,
		ClosedBusinessPrecision: defaultClosedBusinessDigits,
	}
}
