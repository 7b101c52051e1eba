package calendar

import (
	"math"
)

// MoonPhaseInfo describes where one moon sits in its cycle on a given
// date. DayInPhase/DaysUntilNext are whole-day views of the exact
// fractional values; PhaseProgress is in [0, 1).
type MoonPhaseInfo struct {
	Moon               Moon      `json:"moon"`
	Phase              MoonPhase `json:"phase"`
	PhaseIndex         int       `json:"phase_index"`
	DayInPhase         int       `json:"day_in_phase"`
	DayInPhaseExact    float64   `json:"day_in_phase_exact"`
	DaysUntilNext      int       `json:"days_until_next"`
	DaysUntilNextExact float64   `json:"days_until_next_exact"`
	PhaseProgress      float64   `json:"phase_progress"`
}

// Moons returns the declared moon list, empty if none are configured.
func (e *Engine) Moons() []Moon {
	if e.def.Moons == nil {
		return []Moon{}
	}
	return e.def.Moons
}

// MoonPhases resolves the phase of each moon on the given date, one
// entry per moon in declaration order. When names are given, only moons
// with a matching name are included. Moons are fully independent of one
// another; a moon with a zero cycle length or no phases is silently
// omitted rather than dividing by zero.
func (e *Engine) MoonPhases(d ResolvedDate, names ...string) []MoonPhaseInfo {
	infos := make([]MoonPhaseInfo, 0, len(e.def.Moons))
	for _, moon := range e.def.Moons {
		if len(names) > 0 && !containsName(names, moon.Name) {
			continue
		}
		if info, ok := e.moonPhase(moon, d); ok {
			infos = append(infos, info)
		}
	}
	return infos
}

// moonPhase computes one moon's phase for a date. The offset from the
// reference new moon is a real number of days (time-of-day included) and
// is folded into [0, cycleLength) with a double mod so dates before the
// reference land in the correct phase of the previous cycle instead of
// going negative.
func (e *Engine) moonPhase(moon Moon, d ResolvedDate) (MoonPhaseInfo, bool) {
	if moon.CycleLength <= 0 || len(moon.Phases) == 0 {
		return MoonPhaseInfo{}, false
	}

	since := e.absoluteDay(d) - e.absoluteDay(ResolvedDate{
		Year:  moon.FirstNewMoon.Year,
		Month: moon.FirstNewMoon.Month,
		Day:   moon.FirstNewMoon.Day,
	})
	offset := math.Mod(math.Mod(since, moon.CycleLength)+moon.CycleLength, moon.CycleLength)

	idx := -1
	var before float64
	cum := 0.0
	for i, p := range moon.Phases {
		if offset < cum+p.Length {
			idx = i
			before = cum
			break
		}
		cum += p.Length
	}
	if idx < 0 {
		// Float edge: offset landed exactly on (or past) the phase sum.
		idx = len(moon.Phases) - 1
		before = cum - moon.Phases[idx].Length
	}

	phase := moon.Phases[idx]
	inPhase := offset - before
	if inPhase < 0 {
		inPhase = 0
	}
	untilNext := phase.Length - inPhase
	if untilNext < 0 {
		untilNext = 0
	}
	progress := 0.0
	if phase.Length > 0 {
		progress = inPhase / phase.Length
	}

	return MoonPhaseInfo{
		Moon:               moon,
		Phase:              phase,
		PhaseIndex:         idx,
		DayInPhase:         int(math.Floor(inPhase)),
		DayInPhaseExact:    inPhase,
		DaysUntilNext:      int(math.Ceil(untilNext)),
		DaysUntilNextExact: untilNext,
		PhaseProgress:      progress,
	}, true
}

// absoluteDay returns the date's day number from the base year's day 0
// as a real number, with the time of day as a fractional part.
func (e *Engine) absoluteDay(d ResolvedDate) float64 {
	into, _ := e.daysIntoYear(d)
	days := e.daysBeforeYear(d.Year) + int64(into)
	tod := int64(d.Time.Hour)*e.secondsPerHour +
		int64(d.Time.Minute)*e.secondsPerMinute +
		int64(d.Time.Second)
	return float64(days) + float64(tod)/float64(e.secondsPerDay)
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
