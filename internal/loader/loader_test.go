package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rayners/fvtt-seasons-and-stars-sub001/internal/calendar"
)

const validCalendarJSON = `{
	"name": "golarion",
	"months": [
		{"name": "Abadius", "days": 31},
		{"name": "Calistril", "days": 28},
		{"name": "Pharast", "days": 31}
	],
	"weekdays": [
		{"name": "Moonday"}, {"name": "Toilday"}, {"name": "Wealday"},
		{"name": "Oathday"}, {"name": "Fireday"}, {"name": "Starday"},
		{"name": "Sunday"}
	],
	"leap_year": {"rule": "custom", "interval": 8, "month": 2, "extra_days": 1},
	"year": {"epoch": 0, "current_year": 4724, "start_day": 0},
	"time": {"hours_in_day": 24, "minutes_in_hour": 60, "seconds_in_minute": 60},
	"moons": [
		{
			"name": "Somal",
			"cycle_length": 28,
			"first_new_moon": {"year": 4724, "month": 1, "day": 1},
			"phases": [
				{"name": "New", "length": 7},
				{"name": "Waxing", "length": 7},
				{"name": "Full", "length": 7},
				{"name": "Waning", "length": 7}
			]
		}
	]
}`

func TestParseValid(t *testing.T) {
	def, err := Parse([]byte(validCalendarJSON))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if def.Name != "golarion" {
		t.Errorf("name = %q, want golarion", def.Name)
	}
	if len(def.Months) != 3 || len(def.Weekdays) != 7 {
		t.Errorf("got %d months, %d weekdays", len(def.Months), len(def.Weekdays))
	}
	if def.LeapYear.Rule != calendar.LeapCustom || def.LeapYear.Interval != 8 {
		t.Errorf("leap rule = %+v", def.LeapYear)
	}
	if len(def.Moons) != 1 || def.Moons[0].CycleLength != 28 {
		t.Errorf("moons = %+v", def.Moons)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"malformed json", `{"name": "x",`},
		{"unknown field", `{"name": "x", "months": [], "bogus": 1}`},
		{"missing name", `{"months": [{"name": "M", "days": 30}], "weekdays": [{"name": "D"}], "time": {"hours_in_day": 24, "minutes_in_hour": 60, "seconds_in_minute": 60}}`},
		{"no months", `{"name": "x", "months": [], "weekdays": [{"name": "D"}], "time": {"hours_in_day": 24, "minutes_in_hour": 60, "seconds_in_minute": 60}}`},
		{"zero-day month", `{"name": "x", "months": [{"name": "M", "days": 0}], "weekdays": [{"name": "D"}], "time": {"hours_in_day": 24, "minutes_in_hour": 60, "seconds_in_minute": 60}}`},
		{"no time units", `{"name": "x", "months": [{"name": "M", "days": 30}], "weekdays": [{"name": "D"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.json)); err == nil {
				t.Errorf("Parse accepted invalid definition")
			}
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "golarion.json", validCalendarJSON)
	writeFile(t, dir, "notes.txt", "not a calendar")

	defs, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(defs) != 1 || defs[0].Name != "golarion" {
		t.Errorf("LoadDir = %+v, want one golarion definition", defs)
	}
}

func TestLoadDirMissingIsEmpty(t *testing.T) {
	defs, err := LoadDir(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("LoadDir on missing dir: %v", err)
	}
	if len(defs) != 0 {
		t.Errorf("LoadDir = %+v, want empty", defs)
	}
}

func TestLoadDirPropagatesBadFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.json", `{"name": "broken"`)

	if _, err := LoadDir(dir); err == nil {
		t.Error("LoadDir accepted a broken file")
	} else if !strings.Contains(err.Error(), "broken.json") {
		t.Errorf("error %q does not name the offending file", err)
	}
}

func TestBuildRegistry(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "golarion.json", validCalendarJSON)

	r, err := BuildRegistry(dir)
	if err != nil {
		t.Fatalf("BuildRegistry: %v", err)
	}

	// Built-in plus the file calendar.
	if _, ok := r.Engine("gregorian"); !ok {
		t.Error("built-in gregorian missing from registry")
	}
	if _, ok := r.Engine("golarion"); !ok {
		t.Error("file calendar missing from registry")
	}
	if _, ok := r.Engine("nonesuch"); ok {
		t.Error("registry returned an engine for an unknown name")
	}

	names := r.Names()
	if len(names) != 2 || names[0] != "gregorian" || names[1] != "golarion" {
		t.Errorf("Names() = %v", names)
	}
}

func TestRegistryDuplicateName(t *testing.T) {
	def := calendar.Gregorian()
	if _, err := NewRegistry(def); err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	dir := t.TempDir()
	writeFile(t, dir, "a.json", strings.Replace(validCalendarJSON, `"golarion"`, `"twice"`, 1))
	writeFile(t, dir, "b.json", strings.Replace(validCalendarJSON, `"golarion"`, `"twice"`, 1))

	if _, err := BuildRegistry(dir); err == nil {
		t.Error("BuildRegistry accepted duplicate calendar names")
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
