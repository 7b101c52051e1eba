// Package calendar implements the date computation engine for custom
// fantasy calendars. A Definition describes one calendar's geometry
// (months, weekdays, leap-year rule, intercalary days, time-of-day units,
// moons); an Engine converts a linear worldTime second counter into a
// structured date and back, and resolves moon phases. Definitions are
// produced by an external validation step (see internal/loader) and are
// never mutated after an Engine is built on them.
package calendar

// Leap-year rule variants. A calendar uses exactly one.
const (
	// LeapNone disables leap years entirely.
	LeapNone = "none"
	// LeapGregorian uses the divisible-by-4 rule with the century
	// exception (not /100 unless /400).
	LeapGregorian = "gregorian"
	// LeapCustom makes every year divisible by Interval a leap year,
	// with no century exception.
	LeapCustom = "custom"
)

// WorldTime interpretation modes. They select where worldTime's zero
// instant falls on the calendar.
const (
	// InterpretationEpochBased anchors worldTime zero at day 0 of
	// Year.Epoch.
	InterpretationEpochBased = "epoch-based"
	// InterpretationYearOffset anchors worldTime zero at an externally
	// supplied world-creation instant so an external host's own date
	// calculation is reproduced exactly. Without an injected anchor the
	// start of WorldTime.CurrentYear (counted from WorldTime.EpochYear)
	// is used.
	InterpretationYearOffset = "year-offset"
)

// Definition is the full, validated description of one calendar.
type Definition struct {
	Name        string           `json:"name"`
	Months      []Month          `json:"months"`
	Weekdays    []Weekday        `json:"weekdays"`
	LeapYear    LeapYearRule     `json:"leap_year"`
	Intercalary []IntercalaryDay `json:"intercalary,omitempty"`
	Year        YearSettings     `json:"year"`
	Time        TimeSettings     `json:"time"`
	Moons       []Moon           `json:"moons,omitempty"`
	WorldTime   *WorldTimeRule   `json:"world_time,omitempty"`
}

// Month is a named period with a fixed base number of days.
type Month struct {
	Name string `json:"name"`
	Days int    `json:"days"`
}

// Weekday is a named day in the repeating weekly cycle.
type Weekday struct {
	Name string `json:"name"`
}

// LeapYearRule selects which years gain extra days and where they go.
// Rule is one of LeapNone, LeapGregorian, LeapCustom. Month is the
// 1-based index of the month that receives ExtraDays in a leap year.
// Interval is only meaningful for LeapCustom.
type LeapYearRule struct {
	Rule      string `json:"rule"`
	Interval  int    `json:"interval,omitempty"`
	Month     int    `json:"month,omitempty"`
	ExtraDays int    `json:"extra_days,omitempty"`
}

// IntercalaryDay is a block of days inserted outside the regular month
// sequence, after the month with 1-based index AfterMonth (0 places the
// block before the first month). CountsForWeekdays controls whether the
// block advances the weekday cycle.
type IntercalaryDay struct {
	Name              string `json:"name"`
	AfterMonth        int    `json:"after_month"`
	Days              int    `json:"days"`
	CountsForWeekdays bool   `json:"counts_for_weekdays"`
}

// YearSettings holds the calendar's year numbering. Epoch is the year
// whose day 0 is worldTime zero in epoch-based interpretation. StartDay
// is the weekday index of that day.
type YearSettings struct {
	Epoch       int `json:"epoch"`
	CurrentYear int `json:"current_year"`
	StartDay    int `json:"start_day"`
}

// TimeSettings defines the time-of-day units. Non-24-hour clocks are
// supported; all three values must be positive.
type TimeSettings struct {
	HoursInDay      int `json:"hours_in_day"`
	MinutesInHour   int `json:"minutes_in_hour"`
	SecondsInMinute int `json:"seconds_in_minute"`
}

// Moon is a celestial body with a repeating phase cycle anchored at one
// reference new-moon date. CycleLength and phase lengths are fractional
// days. The phase lengths are expected to sum to CycleLength; that is
// verified on fixtures, not enforced at query time.
type Moon struct {
	Name         string      `json:"name"`
	CycleLength  float64     `json:"cycle_length"`
	FirstNewMoon ReferenceDate `json:"first_new_moon"`
	Phases       []MoonPhase `json:"phases"`
	Color        string      `json:"color,omitempty"`
}

// ReferenceDate pins a moon's first new moon to a calendar date.
type ReferenceDate struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// MoonPhase is one named segment of a moon's cycle. SingleDay marks
// phases that are displayed as a single day (new, quarters, full).
type MoonPhase struct {
	Name      string  `json:"name"`
	Length    float64 `json:"length"`
	SingleDay bool    `json:"single_day"`
}

// WorldTimeRule selects how the worldTime zero point maps onto the
// calendar. EpochYear is the year worldTime counts from in year-offset
// mode; CurrentYear is the year the world was created in.
type WorldTimeRule struct {
	Interpretation string `json:"interpretation"`
	EpochYear      int    `json:"epoch_year"`
	CurrentYear    int    `json:"current_year"`
}

// Gregorian returns the built-in Earth calendar: 12 months, 7 weekdays,
// the Gregorian leap rule on the second month, and Luna with the
// standard 8-phase synodic cycle anchored at the 2024-01-11 new moon.
// Used as the default calendar and as a reference fixture.
func Gregorian() Definition {
	return Definition{
		Name: "gregorian",
		Months: []Month{
			{Name: "January", Days: 31},
			{Name: "February", Days: 28},
			{Name: "March", Days: 31},
			{Name: "April", Days: 30},
			{Name: "May", Days: 31},
			{Name: "June", Days: 30},
			{Name: "July", Days: 31},
			{Name: "August", Days: 31},
			{Name: "September", Days: 30},
			{Name: "October", Days: 31},
			{Name: "November", Days: 30},
			{Name: "December", Days: 31},
		},
		Weekdays: []Weekday{
			{Name: "Sunday"}, {Name: "Monday"}, {Name: "Tuesday"},
			{Name: "Wednesday"}, {Name: "Thursday"}, {Name: "Friday"},
			{Name: "Saturday"},
		},
		LeapYear: LeapYearRule{Rule: LeapGregorian, Month: 2, ExtraDays: 1},
		Year:     YearSettings{Epoch: 0, CurrentYear: 2024, StartDay: 6},
		Time:     TimeSettings{HoursInDay: 24, MinutesInHour: 60, SecondsInMinute: 60},
		Moons: []Moon{
			{
				Name:         "Luna",
				CycleLength:  29.53059,
				FirstNewMoon: ReferenceDate{Year: 2024, Month: 1, Day: 11},
				Color:        "#ffffff",
				Phases: []MoonPhase{
					{Name: "New Moon", Length: 1, SingleDay: true},
					{Name: "Waxing Crescent", Length: 6.3826475},
					{Name: "First Quarter", Length: 1, SingleDay: true},
					{Name: "Waxing Gibbous", Length: 6.3826475},
					{Name: "Full Moon", Length: 1, SingleDay: true},
					{Name: "Waning Gibbous", Length: 6.3826475},
					{Name: "Last Quarter", Length: 1, SingleDay: true},
					{Name: "Waning Crescent", Length: 6.3826475},
				},
			},
		},
	}
}
