package calendar

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// mustEngine builds an engine or fails the test.
func mustEngine(t *testing.T, def Definition) *Engine {
	t.Helper()
	e, err := NewEngine(def)
	if err != nil {
		t.Fatalf("NewEngine(%s): %v", def.Name, err)
	}
	return e
}

// harptosLike is a fantasy fixture exercising intercalary days and a
// custom leap rule: three 30-day months, a non-counting festival day
// after the first month, a counting festival after the second, and one
// extra day on the second month every 4th year.
func harptosLike() Definition {
	return Definition{
		Name: "harptos-like",
		Months: []Month{
			{Name: "Hammer", Days: 30},
			{Name: "Alturiak", Days: 30},
			{Name: "Ches", Days: 30},
		},
		Weekdays: []Weekday{
			{Name: "First"}, {Name: "Second"}, {Name: "Third"},
			{Name: "Fourth"}, {Name: "Fifth"},
		},
		LeapYear: LeapYearRule{Rule: LeapCustom, Interval: 4, Month: 2, ExtraDays: 1},
		Intercalary: []IntercalaryDay{
			{Name: "Midwinter", AfterMonth: 1, Days: 1, CountsForWeekdays: false},
			{Name: "Greengrass", AfterMonth: 2, Days: 2, CountsForWeekdays: true},
		},
		Year: YearSettings{Epoch: 0, CurrentYear: 1495, StartDay: 0},
		Time: TimeSettings{HoursInDay: 24, MinutesInHour: 60, SecondsInMinute: 60},
	}
}

func TestNewEngineValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Definition)
	}{
		{"no months", func(d *Definition) { d.Months = nil }},
		{"no weekdays", func(d *Definition) { d.Weekdays = nil }},
		{"zero-day month", func(d *Definition) { d.Months[1].Days = 0 }},
		{"negative-day month", func(d *Definition) { d.Months[0].Days = -5 }},
		{"zero hours", func(d *Definition) { d.Time.HoursInDay = 0 }},
		{"zero seconds", func(d *Definition) { d.Time.SecondsInMinute = 0 }},
		{"bad leap rule", func(d *Definition) { d.LeapYear.Rule = "lunar" }},
		{"custom leap without interval", func(d *Definition) {
			d.LeapYear = LeapYearRule{Rule: LeapCustom, Month: 1, ExtraDays: 1}
		}},
		{"leap month out of range", func(d *Definition) { d.LeapYear.Month = 40 }},
		{"intercalary out of range", func(d *Definition) {
			d.Intercalary = []IntercalaryDay{{Name: "x", AfterMonth: 99, Days: 1}}
		}},
		{"zero-day intercalary", func(d *Definition) {
			d.Intercalary = []IntercalaryDay{{Name: "x", AfterMonth: 1, Days: 0}}
		}},
		{"bad interpretation", func(d *Definition) {
			d.WorldTime = &WorldTimeRule{Interpretation: "sideways"}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := Gregorian()
			tt.mutate(&def)
			if _, err := NewEngine(def); err == nil {
				t.Errorf("NewEngine accepted invalid definition")
			}
		})
	}

	if _, err := NewEngine(Gregorian()); err != nil {
		t.Errorf("NewEngine rejected valid definition: %v", err)
	}
}

func TestWorldTimeToDateEpochStart(t *testing.T) {
	e := mustEngine(t, Gregorian())

	got := e.WorldTimeToDate(0)
	want := ResolvedDate{Year: 0, Month: 1, Day: 1, Weekday: 6}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("WorldTimeToDate(0) mismatch (-want +got):\n%s", diff)
	}

	// One second before the epoch is the last second of the prior year.
	got = e.WorldTimeToDate(-1)
	if got.Year != -1 || got.Month != 12 || got.Day != 31 {
		t.Errorf("WorldTimeToDate(-1) = %+v, want last day of year -1", got)
	}
	if got.Time != (TimeOfDay{Hour: 23, Minute: 59, Second: 59}) {
		t.Errorf("WorldTimeToDate(-1) time = %+v, want 23:59:59", got.Time)
	}
}

func TestWorldTimeToDateKnownWeekdays(t *testing.T) {
	// Proleptic Gregorian: 1 Jan 2024 was a Monday, 11 Jan a Thursday.
	e := mustEngine(t, Gregorian())

	jan1 := e.DateToWorldTime(ResolvedDate{Year: 2024, Month: 1, Day: 1})
	if wd := e.WorldTimeToDate(jan1).Weekday; wd != 1 {
		t.Errorf("weekday of 2024-01-01 = %d (%s), want 1 (Monday)", wd, e.WeekdayName(wd))
	}
	jan11 := e.DateToWorldTime(ResolvedDate{Year: 2024, Month: 1, Day: 11})
	if wd := e.WorldTimeToDate(jan11).Weekday; wd != 4 {
		t.Errorf("weekday of 2024-01-11 = %d (%s), want 4 (Thursday)", wd, e.WeekdayName(wd))
	}
}

func TestRoundTrip(t *testing.T) {
	samples := []int64{
		0, 1, -1, 59, 60, 3599, 3600, 86399, 86400, -86400, -86401,
		31536000, -31536000, 123456789, -123456789,
		4102444800, -4102444800, 987654321123, -987654321123,
	}

	for _, def := range []Definition{Gregorian(), harptosLike()} {
		e := mustEngine(t, def)
		for _, sec := range samples {
			d := e.WorldTimeToDate(sec)
			if back := e.DateToWorldTime(d); back != sec {
				t.Errorf("%s: round trip of %d gave %d (date %+v)", def.Name, sec, back, d)
			}
		}
		// Dense sweep across several year boundaries with a prime step.
		for sec := int64(-40_000_000); sec < 40_000_000; sec += 999983 {
			d := e.WorldTimeToDate(sec)
			if back := e.DateToWorldTime(d); back != sec {
				t.Fatalf("%s: round trip of %d gave %d (date %+v)", def.Name, sec, back, d)
			}
		}
	}
}

func TestRoundTripAnchored(t *testing.T) {
	def := Gregorian()
	def.WorldTime = &WorldTimeRule{
		Interpretation: InterpretationYearOffset,
		EpochYear:      1970,
		CurrentYear:    2024,
	}
	e := mustEngine(t, def)

	const creation = 1704067200 // 2024-01-01T00:00:00Z as a unix timestamp
	for _, sec := range []int64{0, 1, -1, 86400, -86400, 55555555, -55555555} {
		d := e.WorldTimeToDateAnchored(sec, creation)
		if back := e.DateToWorldTimeAnchored(d, creation); back != sec {
			t.Errorf("anchored round trip of %d gave %d (date %+v)", sec, back, d)
		}
	}
}

func TestYearOffsetInterpretation(t *testing.T) {
	def := Gregorian()
	def.WorldTime = &WorldTimeRule{
		Interpretation: InterpretationYearOffset,
		EpochYear:      1970,
		CurrentYear:    2024,
	}
	e := mustEngine(t, def)

	// Without an injected anchor, worldTime 0 is the start of the
	// configured current year.
	got := e.WorldTimeToDate(0)
	if got.Year != 2024 || got.Month != 1 || got.Day != 1 {
		t.Errorf("WorldTimeToDate(0) = %+v, want 2024-01-01", got)
	}

	// With the host's world-creation timestamp the host's own clock is
	// reproduced: 1704067200 is 2024-01-01T00:00:00Z, so worldTime 0
	// resolves to the same instant.
	got = e.WorldTimeToDateAnchored(0, 1704067200)
	if got.Year != 2024 || got.Month != 1 || got.Day != 1 {
		t.Errorf("anchored WorldTimeToDate(0) = %+v, want 2024-01-01", got)
	}

	// One in-game day later.
	got = e.WorldTimeToDateAnchored(86400, 1704067200)
	if got.Year != 2024 || got.Month != 1 || got.Day != 2 {
		t.Errorf("anchored WorldTimeToDate(86400) = %+v, want 2024-01-02", got)
	}
}

func TestIsLeapYear(t *testing.T) {
	greg := mustEngine(t, Gregorian())
	gregCases := map[int]bool{
		2000: true, 1900: false, 2024: true, 2023: false, 1600: true,
		0: true, -4: true, 2100: false,
	}
	for year, want := range gregCases {
		if got := greg.IsLeapYear(year); got != want {
			t.Errorf("gregorian IsLeapYear(%d) = %v, want %v", year, got, want)
		}
		// Purity: repeated calls agree.
		if greg.IsLeapYear(year) != greg.IsLeapYear(year) {
			t.Errorf("IsLeapYear(%d) is not stable", year)
		}
	}

	custom := mustEngine(t, harptosLike())
	for year, want := range map[int]bool{4: true, 100: true, 5: false, -8: true, 1495: false} {
		if got := custom.IsLeapYear(year); got != want {
			t.Errorf("custom IsLeapYear(%d) = %v, want %v", year, got, want)
		}
	}

	none := harptosLike()
	none.LeapYear = LeapYearRule{Rule: LeapNone}
	e := mustEngine(t, none)
	for _, year := range []int{0, 4, 100, 400} {
		if e.IsLeapYear(year) {
			t.Errorf("LeapNone IsLeapYear(%d) = true", year)
		}
	}
}

func TestMonthLength(t *testing.T) {
	e := mustEngine(t, Gregorian())

	if got := e.MonthLength(2023, 2); got != 28 {
		t.Errorf("MonthLength(2023, 2) = %d, want 28", got)
	}
	if got := e.MonthLength(2024, 2); got != 29 {
		t.Errorf("MonthLength(2024, 2) = %d, want 29", got)
	}
	if got := e.MonthLength(2024, 1); got != 31 {
		t.Errorf("MonthLength(2024, 1) = %d, want 31", got)
	}
	// Out-of-range months resolve to 0 instead of panicking.
	if got := e.MonthLength(2024, 0); got != 0 {
		t.Errorf("MonthLength(2024, 0) = %d, want 0", got)
	}
	if got := e.MonthLength(2024, 13); got != 0 {
		t.Errorf("MonthLength(2024, 13) = %d, want 0", got)
	}
}

func TestYearWalkConsistency(t *testing.T) {
	// The sum of month lengths plus intercalary days must equal the day
	// count the year-walking loop consumes for that year.
	for _, def := range []Definition{Gregorian(), harptosLike()} {
		e := mustEngine(t, def)
		for year := -3; year <= 6; year++ {
			sum := 0
			for m := 1; m <= len(def.Months); m++ {
				sum += e.MonthLength(year, m)
			}
			for _, ic := range def.Intercalary {
				sum += ic.Days
			}
			if got := e.YearLength(year); got != sum {
				t.Errorf("%s: YearLength(%d) = %d, want %d", def.Name, year, got, sum)
			}

			start := e.DateToWorldTime(ResolvedDate{Year: year, Month: 1, Day: 1})
			next := e.DateToWorldTime(ResolvedDate{Year: year + 1, Month: 1, Day: 1})
			if consumed := (next - start) / e.SecondsPerDay(); consumed != int64(sum) {
				t.Errorf("%s: year %d consumes %d days, want %d", def.Name, year, consumed, sum)
			}
		}
	}
}

func TestIntercalaryResolution(t *testing.T) {
	e := mustEngine(t, harptosLike())

	// Year 1 is not a leap year under the %4 rule, so its layout is
	// Hammer 30, Midwinter 1, Alturiak 30, Greengrass 2, Ches 30.
	start := e.DateToWorldTime(ResolvedDate{Year: 1, Month: 1, Day: 1})
	at := func(dayOffset int64) ResolvedDate {
		return e.WorldTimeToDate(start + dayOffset*86400)
	}

	// The day right after the 30-day first month is Midwinter.
	d := at(30)
	if !d.Intercalary || d.IntercalaryName != "Midwinter" || d.Day != 1 || d.Month != 1 {
		t.Errorf("day 30 resolved to %+v, want Midwinter day 1 after month 1", d)
	}

	// Midwinter does not advance the weekday cycle: the first day of the
	// second month has the weekday right after the last day of Hammer.
	lastHammer := at(29)
	firstAlturiak := at(31)
	wantWD := (lastHammer.Weekday + 1) % 5
	if firstAlturiak.Weekday != wantWD {
		t.Errorf("first of Alturiak weekday = %d, want %d (Midwinter must not count)",
			firstAlturiak.Weekday, wantWD)
	}
	if d.Weekday != firstAlturiak.Weekday {
		t.Errorf("Midwinter weekday = %d, want frozen at %d", d.Weekday, firstAlturiak.Weekday)
	}

	// Greengrass counts: stepping from the last day of Alturiak over the
	// two festival days to the first of Ches advances three weekdays.
	lastAlturiak := at(31 + 29)
	firstChes := at(31 + 30 + 2)
	if lastAlturiak.Month != 2 || lastAlturiak.Day != 30 {
		t.Fatalf("day 60 resolved to %+v, want Alturiak 30", lastAlturiak)
	}
	if firstChes.Month != 3 || firstChes.Day != 1 {
		t.Fatalf("day 63 resolved to %+v, want Ches 1", firstChes)
	}
	if want := (lastAlturiak.Weekday + 3) % 5; firstChes.Weekday != want {
		t.Errorf("first of Ches weekday = %d, want %d", firstChes.Weekday, want)
	}

	// Leap years extend the leap month before its trailing block: in
	// year 4, Alturiak has 31 days and Greengrass still follows it.
	leapStart := e.DateToWorldTime(ResolvedDate{Year: 4, Month: 1, Day: 1})
	d = e.WorldTimeToDate(leapStart + (31+30)*86400)
	if d.Intercalary || d.Month != 2 || d.Day != 31 {
		t.Errorf("leap day resolved to %+v, want Alturiak 31", d)
	}
	d = e.WorldTimeToDate(leapStart + (31+31)*86400)
	if !d.Intercalary || d.IntercalaryName != "Greengrass" || d.Day != 1 {
		t.Errorf("day after leap Alturiak resolved to %+v, want Greengrass day 1", d)
	}
}

func TestWeekdayNegativeSafety(t *testing.T) {
	for _, def := range []Definition{Gregorian(), harptosLike()} {
		e := mustEngine(t, def)
		for _, sec := range []int64{-1, -86400, -1e9, -1e12, -987654321123} {
			d := e.WorldTimeToDate(sec)
			if d.Weekday < 0 || d.Weekday >= len(def.Weekdays) {
				t.Errorf("%s: WorldTimeToDate(%d) weekday = %d, out of range", def.Name, sec, d.Weekday)
			}
		}
	}
}

func TestNameFallbacks(t *testing.T) {
	e := mustEngine(t, Gregorian())

	if got := e.MonthName(1); got != "January" {
		t.Errorf("MonthName(1) = %q", got)
	}
	for _, month := range []int{0, -1, 13, 99} {
		if got := e.MonthName(month); got != UnknownLabel {
			t.Errorf("MonthName(%d) = %q, want %q", month, got, UnknownLabel)
		}
	}
	for _, idx := range []int{-1, 7, 42} {
		if got := e.WeekdayName(idx); got != UnknownLabel {
			t.Errorf("WeekdayName(%d) = %q, want %q", idx, got, UnknownLabel)
		}
	}
}

func TestNonStandardTimeUnits(t *testing.T) {
	def := harptosLike()
	def.Time = TimeSettings{HoursInDay: 20, MinutesInHour: 50, SecondsInMinute: 50}
	e := mustEngine(t, def)

	if e.SecondsPerDay() != 20*50*50 {
		t.Fatalf("SecondsPerDay = %d, want %d", e.SecondsPerDay(), 20*50*50)
	}

	d := e.WorldTimeToDate(e.SecondsPerDay() + 3*50*50 + 7*50 + 9)
	want := TimeOfDay{Hour: 3, Minute: 7, Second: 9}
	if d.Day != 2 || d.Time != want {
		t.Errorf("resolved %+v, want day 2 time %+v", d, want)
	}

	for _, sec := range []int64{0, -1, 49999, 50000, -123456, 99999999} {
		if back := e.DateToWorldTime(e.WorldTimeToDate(sec)); back != sec {
			t.Errorf("round trip of %d gave %d", sec, back)
		}
	}
}
