package calendar

import (
	"fmt"
)

// ResolvedDate is the structured form of one worldTime instant. Month and
// Day are 1-based; Weekday is a 0-based index into the weekday list.
//
// When Intercalary is true the instant falls inside an intercalary block:
// Month holds the 1-based index of the month the block follows (0 when the
// block precedes the first month), Day is the 1-based position inside the
// block, and IntercalaryName is the block's name.
type ResolvedDate struct {
	Year            int       `json:"year"`
	Month           int       `json:"month"`
	Day             int       `json:"day"`
	Weekday         int       `json:"weekday"`
	Time            TimeOfDay `json:"time"`
	Intercalary     bool      `json:"intercalary,omitempty"`
	IntercalaryName string    `json:"intercalary_name,omitempty"`
}

// TimeOfDay is the sub-day part of a resolved date, in the calendar's own
// hour/minute/second units.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`
}

// UnknownLabel is returned by name lookups for out-of-range indexes.
// Query methods sit on render hot paths and must never panic, so bad
// indexes resolve to this deterministic fallback instead.
const UnknownLabel = "Unknown"

// Engine performs all date computation for one Definition. It is
// stateless beyond the immutable definition: every query is a pure
// function of its inputs, so an Engine is safe for concurrent use.
// Switching calendars means building a new Engine, never mutating one.
type Engine struct {
	def Definition

	secondsPerMinute int64
	secondsPerHour   int64
	secondsPerDay    int64

	// baseYear is the year whose day 0 is the zero point for internal
	// day counting: Year.Epoch in epoch-based interpretation,
	// WorldTime.EpochYear in year-offset interpretation.
	baseYear int

	// yearOffset is true when the definition selects the year-offset
	// worldTime interpretation.
	yearOffset bool

	// defaultAnchor is the seconds added to worldTime before resolving
	// when no world-creation timestamp is injected. Zero in epoch-based
	// mode; the distance from EpochYear to CurrentYear otherwise.
	defaultAnchor int64
}

// NewEngine validates the structural invariants the queries rely on and
// returns an Engine over the definition. A definition with no months, no
// weekdays, a non-positive month length, or non-positive time units is
// rejected here so the first query cannot hit undefined behavior.
func NewEngine(def Definition) (*Engine, error) {
	if len(def.Months) == 0 {
		return nil, fmt.Errorf("calendar %q: at least one month is required", def.Name)
	}
	if len(def.Weekdays) == 0 {
		return nil, fmt.Errorf("calendar %q: at least one weekday is required", def.Name)
	}
	for i, m := range def.Months {
		if m.Days <= 0 {
			return nil, fmt.Errorf("calendar %q: month %d (%s): days must be positive, got %d", def.Name, i+1, m.Name, m.Days)
		}
	}
	t := def.Time
	if t.HoursInDay <= 0 || t.MinutesInHour <= 0 || t.SecondsInMinute <= 0 {
		return nil, fmt.Errorf("calendar %q: time units must all be positive", def.Name)
	}
	switch def.LeapYear.Rule {
	case "", LeapNone:
		// No leap years.
	case LeapGregorian:
		if def.LeapYear.ExtraDays > 0 && (def.LeapYear.Month < 1 || def.LeapYear.Month > len(def.Months)) {
			return nil, fmt.Errorf("calendar %q: leap month %d out of range", def.Name, def.LeapYear.Month)
		}
	case LeapCustom:
		if def.LeapYear.Interval <= 0 {
			return nil, fmt.Errorf("calendar %q: custom leap rule requires a positive interval", def.Name)
		}
		if def.LeapYear.ExtraDays > 0 && (def.LeapYear.Month < 1 || def.LeapYear.Month > len(def.Months)) {
			return nil, fmt.Errorf("calendar %q: leap month %d out of range", def.Name, def.LeapYear.Month)
		}
	default:
		return nil, fmt.Errorf("calendar %q: unknown leap year rule %q", def.Name, def.LeapYear.Rule)
	}
	for i, ic := range def.Intercalary {
		if ic.Days <= 0 {
			return nil, fmt.Errorf("calendar %q: intercalary %d (%s): days must be positive", def.Name, i+1, ic.Name)
		}
		if ic.AfterMonth < 0 || ic.AfterMonth > len(def.Months) {
			return nil, fmt.Errorf("calendar %q: intercalary %d (%s): after_month %d out of range", def.Name, i+1, ic.Name, ic.AfterMonth)
		}
	}
	if wt := def.WorldTime; wt != nil {
		if wt.Interpretation != InterpretationEpochBased && wt.Interpretation != InterpretationYearOffset {
			return nil, fmt.Errorf("calendar %q: unknown worldTime interpretation %q", def.Name, wt.Interpretation)
		}
	}

	e := &Engine{
		def:              def,
		secondsPerMinute: int64(t.SecondsInMinute),
		secondsPerHour:   int64(t.MinutesInHour) * int64(t.SecondsInMinute),
		secondsPerDay:    int64(t.HoursInDay) * int64(t.MinutesInHour) * int64(t.SecondsInMinute),
		baseYear:         def.Year.Epoch,
	}
	if wt := def.WorldTime; wt != nil && wt.Interpretation == InterpretationYearOffset {
		e.yearOffset = true
		e.baseYear = wt.EpochYear
		e.defaultAnchor = e.daysBeforeYear(wt.CurrentYear) * e.secondsPerDay
	}
	return e, nil
}

// Definition returns the definition this engine was built on.
func (e *Engine) Definition() Definition {
	return e.def
}

// SecondsPerDay returns the length of one calendar day in seconds.
func (e *Engine) SecondsPerDay() int64 {
	return e.secondsPerDay
}

// IsLeapYear reports whether a year gains extra days under the
// configured rule. Depends only on the year and the rule.
func (e *Engine) IsLeapYear(year int) bool {
	switch e.def.LeapYear.Rule {
	case LeapGregorian:
		return year%4 == 0 && (year%100 != 0 || year%400 == 0)
	case LeapCustom:
		return year%e.def.LeapYear.Interval == 0
	default:
		return false
	}
}

// MonthLength returns the number of days in the given 1-based month of
// the given year, including leap extra days when the year is a leap year
// and the month is the configured leap month. Out-of-range months
// resolve to 0.
func (e *Engine) MonthLength(year, month int) int {
	if month < 1 || month > len(e.def.Months) {
		return 0
	}
	days := e.def.Months[month-1].Days
	if e.def.LeapYear.Month == month && e.IsLeapYear(year) {
		days += e.def.LeapYear.ExtraDays
	}
	return days
}

// MonthName returns the name of the given 1-based month, or UnknownLabel
// when the index is out of range.
func (e *Engine) MonthName(month int) string {
	if month < 1 || month > len(e.def.Months) {
		return UnknownLabel
	}
	return e.def.Months[month-1].Name
}

// WeekdayName returns the name of the given 0-based weekday index, or
// UnknownLabel when the index is out of range.
func (e *Engine) WeekdayName(idx int) string {
	if idx < 0 || idx >= len(e.def.Weekdays) {
		return UnknownLabel
	}
	return e.def.Weekdays[idx].Name
}

// YearLength returns the total day count of a year: all month lengths
// (with leap extra days) plus every intercalary block.
func (e *Engine) YearLength(year int) int {
	total, _ := e.yearDays(year)
	return total
}

// yearDays returns a year's total day count and the subset of those days
// that advance the weekday cycle (intercalary blocks with
// CountsForWeekdays false occupy a day slot but are excluded).
func (e *Engine) yearDays(year int) (total, counted int) {
	for m := 1; m <= len(e.def.Months); m++ {
		ml := e.MonthLength(year, m)
		total += ml
		counted += ml
	}
	for _, ic := range e.def.Intercalary {
		total += ic.Days
		if ic.CountsForWeekdays {
			counted += ic.Days
		}
	}
	return total, counted
}

// daysBeforeYear returns the signed number of days between day 0 of the
// engine's base year and day 0 of the given year.
func (e *Engine) daysBeforeYear(year int) int64 {
	var days int64
	switch {
	case year >= e.baseYear:
		for y := e.baseYear; y < year; y++ {
			t, _ := e.yearDays(y)
			days += int64(t)
		}
	default:
		for y := year; y < e.baseYear; y++ {
			t, _ := e.yearDays(y)
			days -= int64(t)
		}
	}
	return days
}

// countedDaysBeforeYear is daysBeforeYear restricted to days that
// advance the weekday cycle.
func (e *Engine) countedDaysBeforeYear(year int) int64 {
	var days int64
	switch {
	case year >= e.baseYear:
		for y := e.baseYear; y < year; y++ {
			_, c := e.yearDays(y)
			days += int64(c)
		}
	default:
		for y := year; y < e.baseYear; y++ {
			_, c := e.yearDays(y)
			days -= int64(c)
		}
	}
	return days
}

// The slot order within a year is fixed: intercalary blocks declared
// with after_month 0, then for each month the month itself (leap extra
// days extend the leap month) followed by its trailing intercalary
// blocks in declaration order. daysToDate and daysIntoYear must agree on
// this order exactly or the round-trip law breaks.

// daysToDate resolves a signed day count from the base year's day 0 into
// (year, month, day) plus the intercalary block index (-1 for a regular
// month day).
func (e *Engine) daysToDate(days int64) (year, month, day, interIdx int) {
	year = e.baseYear
	for days < 0 {
		year--
		t, _ := e.yearDays(year)
		days += int64(t)
	}
	for {
		t, _ := e.yearDays(year)
		if days < int64(t) {
			break
		}
		days -= int64(t)
		year++
	}

	rem := int(days)
	for m := 0; m <= len(e.def.Months); m++ {
		if m > 0 {
			ml := e.MonthLength(year, m)
			if rem < ml {
				return year, m, rem + 1, -1
			}
			rem -= ml
		}
		for i, ic := range e.def.Intercalary {
			if ic.AfterMonth != m {
				continue
			}
			if rem < ic.Days {
				return year, m, rem + 1, i
			}
			rem -= ic.Days
		}
	}
	// Unreachable for a valid definition; clamp to the last day.
	last := len(e.def.Months)
	return year, last, e.MonthLength(year, last), -1
}

// daysIntoYear returns the total and weekday-counted day offsets of a
// date within its year, mirroring daysToDate's slot order.
func (e *Engine) daysIntoYear(d ResolvedDate) (total, counted int) {
	for m := 0; m <= len(e.def.Months); m++ {
		if m > 0 {
			if !d.Intercalary && d.Month == m {
				return total + d.Day - 1, counted + d.Day - 1
			}
			ml := e.MonthLength(d.Year, m)
			total += ml
			counted += ml
		}
		for _, ic := range e.def.Intercalary {
			if ic.AfterMonth != m {
				continue
			}
			if d.Intercalary && d.Month == m && (d.IntercalaryName == "" || d.IntercalaryName == ic.Name) {
				if ic.CountsForWeekdays {
					return total + d.Day - 1, counted + d.Day - 1
				}
				return total + d.Day - 1, counted
			}
			total += ic.Days
			if ic.CountsForWeekdays {
				counted += ic.Days
			}
		}
	}
	return total, counted
}

// WeekdayOf returns the weekday index of a date, always within
// [0, len(weekdays)) even for dates far before the epoch.
func (e *Engine) WeekdayOf(d ResolvedDate) int {
	_, into := e.daysIntoYear(d)
	counted := e.countedDaysBeforeYear(d.Year) + int64(into)
	return int(floorMod(int64(e.def.Year.StartDay)+counted, int64(len(e.def.Weekdays))))
}

// anchorSeconds returns the seconds added to a worldTime value before
// resolving. worldCreation overrides the default anchor only in
// year-offset interpretation; epoch-based calendars ignore it.
func (e *Engine) anchorSeconds(worldCreation *int64) int64 {
	if !e.yearOffset {
		return 0
	}
	if worldCreation != nil {
		return *worldCreation
	}
	return e.defaultAnchor
}

// WorldTimeToDate converts a signed worldTime second count into a
// structured date. Total for any finite input, including instants before
// the epoch; negative values are split with floor division so the
// seconds-of-day remainder stays non-negative.
func (e *Engine) WorldTimeToDate(t int64) ResolvedDate {
	return e.resolve(t + e.anchorSeconds(nil))
}

// WorldTimeToDateAnchored is WorldTimeToDate with an injected
// world-creation timestamp, used when an external host is the
// authoritative time source. Only meaningful for year-offset calendars;
// otherwise identical to WorldTimeToDate.
func (e *Engine) WorldTimeToDateAnchored(t, worldCreation int64) ResolvedDate {
	return e.resolve(t + e.anchorSeconds(&worldCreation))
}

func (e *Engine) resolve(sec int64) ResolvedDate {
	days := floorDiv(sec, e.secondsPerDay)
	rem := sec - days*e.secondsPerDay

	year, month, day, interIdx := e.daysToDate(days)

	d := ResolvedDate{
		Year:  year,
		Month: month,
		Day:   day,
		Time: TimeOfDay{
			Hour:   int(rem / e.secondsPerHour),
			Minute: int((rem % e.secondsPerHour) / e.secondsPerMinute),
			Second: int(rem % e.secondsPerMinute),
		},
	}
	if interIdx >= 0 {
		d.Intercalary = true
		d.IntercalaryName = e.def.Intercalary[interIdx].Name
	}
	d.Weekday = e.WeekdayOf(d)
	return d
}

// DateToWorldTime converts a date back into worldTime seconds. Exact
// inverse of WorldTimeToDate: DateToWorldTime(WorldTimeToDate(t)) == t
// for every representable t. The Weekday field is ignored.
func (e *Engine) DateToWorldTime(d ResolvedDate) int64 {
	return e.unresolve(d) - e.anchorSeconds(nil)
}

// DateToWorldTimeAnchored is DateToWorldTime with an injected
// world-creation timestamp; the exact inverse of WorldTimeToDateAnchored.
func (e *Engine) DateToWorldTimeAnchored(d ResolvedDate, worldCreation int64) int64 {
	return e.unresolve(d) - e.anchorSeconds(&worldCreation)
}

func (e *Engine) unresolve(d ResolvedDate) int64 {
	into, _ := e.daysIntoYear(d)
	days := e.daysBeforeYear(d.Year) + int64(into)
	return days*e.secondsPerDay +
		int64(d.Time.Hour)*e.secondsPerHour +
		int64(d.Time.Minute)*e.secondsPerMinute +
		int64(d.Time.Second)
}

// floorDiv divides rounding toward negative infinity, so pre-epoch
// instants resolve to the correct day instead of truncating toward zero.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// floorMod returns the non-negative remainder of a mod b for b > 0.
func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}
