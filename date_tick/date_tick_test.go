/*
	Copyright 2023 Google Inc.
	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at
		https://www.apache.org/licenses/LICENSE-2.0
	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

package datetick

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/go-cmp/cmp"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("failed to load location %s: %s", name, err)
	}
	return loc
}

func TestStandardDateBracket(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	sydney := mustLoad(t, "Australia/Sydney")
	var instants []time.Time
	for _, loc := range []*time.Location{time.UTC, ny, sydney} {
		instants = append(instants,
			time.Date(2024, time.January, 1, 0, 0, 0, 0, loc),
			time.Date(2024, time.February, 29, 23, 59, 59, 999000000, loc),
			time.Date(2024, time.March, 10, 1, 59, 30, 0, loc),
			time.Date(2024, time.March, 10, 3, 0, 0, 0, loc),
			time.Date(2024, time.April, 7, 2, 30, 0, 0, loc),
			time.Date(2024, time.July, 31, 12, 34, 56, 789000000, loc),
			time.Date(2024, time.October, 6, 2, 15, 0, 0, loc),
			time.Date(2024, time.November, 3, 1, 30, 0, 0, loc),
			time.Date(1999, time.December, 31, 23, 59, 59, 0, loc),
			time.Date(1969, time.December, 31, 18, 0, 0, 123000000, loc),
		)
	}
	// Also check both sides of the New York fall-back hour.
	fallBack := time.Date(2024, time.November, 3, 5, 30, 0, 0, time.UTC)
	instants = append(instants, fallBack, fallBack.Add(time.Hour))
	units := StandardUnits()
	for _, loc := range []*time.Location{time.UTC, ny, sydney} {
		for i := 0; i < units.Len(); i++ {
			unit := units.At(i)
			for _, pos := range []TickMarkPosition{Start, Middle, End} {
				t.Run(loc.String()+"/"+unit.String()+"/"+pos.String(), func(t *testing.T) {
					for _, at := range instants {
						prev := PreviousStandardDate(at, unit, pos, loc)
						next := NextStandardDate(at, unit, pos, loc)
						if prev.After(at) || !next.After(at) {
							t.Fatalf("at %s: want %s <= t < %s", at, prev, next)
						}
					}
				})
			}
		}
	}
}

func TestFloor(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	for _, test := range []struct {
		description string
		unit        Unit
		loc         *time.Location
		at          time.Time
		want        time.Time
	}{{
		description: "250 milliseconds",
		unit:        NewUnit(Millisecond, 250),
		loc:         time.UTC,
		at:          time.Date(2024, time.May, 1, 12, 0, 0, 600123000, time.UTC),
		want:        time.Date(2024, time.May, 1, 12, 0, 0, 500000000, time.UTC),
	}, {
		description: "30 seconds",
		unit:        NewUnit(Second, 30),
		loc:         time.UTC,
		at:          time.Date(2024, time.May, 1, 12, 0, 45, 1000, time.UTC),
		want:        time.Date(2024, time.May, 1, 12, 0, 30, 0, time.UTC),
	}, {
		description: "15 minutes",
		unit:        NewUnit(Minute, 15),
		loc:         time.UTC,
		at:          time.Date(2024, time.May, 1, 12, 44, 59, 0, time.UTC),
		want:        time.Date(2024, time.May, 1, 12, 30, 0, 0, time.UTC),
	}, {
		description: "6 hours",
		unit:        NewUnit(Hour, 6),
		loc:         time.UTC,
		at:          time.Date(2024, time.March, 10, 13, 45, 0, 0, time.UTC),
		want:        time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC),
	}, {
		description: "6 hours in New York",
		unit:        NewUnit(Hour, 6),
		loc:         ny,
		at:          time.Date(2024, time.July, 4, 17, 0, 0, 0, ny),
		want:        time.Date(2024, time.July, 4, 12, 0, 0, 0, ny),
	}, {
		description: "7 days on a leap day",
		unit:        NewUnit(Day, 7),
		loc:         time.UTC,
		at:          time.Date(2024, time.February, 29, 12, 0, 0, 0, time.UTC),
		want:        time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
	}, {
		description: "7 days mid-month",
		unit:        NewUnit(Day, 7),
		loc:         time.UTC,
		at:          time.Date(2024, time.February, 14, 12, 0, 0, 0, time.UTC),
		want:        time.Date(2024, time.February, 8, 0, 0, 0, 0, time.UTC),
	}, {
		description: "day in New York after spring forward",
		unit:        NewUnit(Day, 1),
		loc:         ny,
		at:          time.Date(2024, time.March, 10, 12, 0, 0, 0, ny),
		want:        time.Date(2024, time.March, 10, 0, 0, 0, 0, ny),
	}, {
		description: "quarter",
		unit:        NewUnit(Month, 3),
		loc:         time.UTC,
		at:          time.Date(2024, time.August, 15, 0, 0, 0, 0, time.UTC),
		want:        time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC),
	}, {
		description: "decade",
		unit:        NewUnit(Year, 10),
		loc:         time.UTC,
		at:          time.Date(2024, time.August, 15, 0, 0, 0, 0, time.UTC),
		want:        time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
	}} {
		t.Run(test.description, func(t *testing.T) {
			if diff := cmp.Diff(test.want, test.unit.Floor(test.at, test.loc)); diff != "" {
				t.Errorf("Floor(%s) yielded diff (-want +got):\n%s", test.at, diff)
			}
		})
	}
}

func TestStandardDates(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	for _, test := range []struct {
		description string
		unit        Unit
		pos         TickMarkPosition
		loc         *time.Location
		at          time.Time
		wantPrev    time.Time
		wantNext    time.Time
	}{{
		description: "day start",
		unit:        NewUnit(Day, 1),
		pos:         Start,
		loc:         time.UTC,
		at:          time.Date(2024, time.January, 5, 6, 0, 0, 0, time.UTC),
		wantPrev:    time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC),
		wantNext:    time.Date(2024, time.January, 6, 0, 0, 0, 0, time.UTC),
	}, {
		description: "day middle before noon",
		unit:        NewUnit(Day, 1),
		pos:         Middle,
		loc:         time.UTC,
		at:          time.Date(2024, time.January, 5, 6, 0, 0, 0, time.UTC),
		wantPrev:    time.Date(2024, time.January, 4, 12, 0, 0, 0, time.UTC),
		wantNext:    time.Date(2024, time.January, 5, 12, 0, 0, 0, time.UTC),
	}, {
		description: "month end",
		unit:        NewUnit(Month, 1),
		pos:         End,
		loc:         time.UTC,
		at:          time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC),
		wantPrev:    time.Date(2024, time.January, 31, 23, 59, 59, 999000000, time.UTC),
		wantNext:    time.Date(2024, time.February, 29, 23, 59, 59, 999000000, time.UTC),
	}, {
		description: "short day in New York",
		unit:        NewUnit(Day, 1),
		pos:         Start,
		loc:         ny,
		at:          time.Date(2024, time.March, 10, 12, 0, 0, 0, ny),
		wantPrev:    time.Date(2024, time.March, 10, 0, 0, 0, 0, ny),
		wantNext:    time.Date(2024, time.March, 11, 0, 0, 0, 0, ny),
	}, {
		description: "on a boundary",
		unit:        NewUnit(Hour, 4),
		pos:         Start,
		loc:         time.UTC,
		at:          time.Date(2024, time.January, 5, 8, 0, 0, 0, time.UTC),
		wantPrev:    time.Date(2024, time.January, 5, 8, 0, 0, 0, time.UTC),
		wantNext:    time.Date(2024, time.January, 5, 12, 0, 0, 0, time.UTC),
	}, {
		description: "week cut short by the month end",
		unit:        NewUnit(Day, 7),
		pos:         Start,
		loc:         time.UTC,
		at:          time.Date(2024, time.January, 30, 0, 0, 0, 0, time.UTC),
		wantPrev:    time.Date(2024, time.January, 29, 0, 0, 0, 0, time.UTC),
		wantNext:    time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
	}, {
		description: "week end before the month end",
		unit:        NewUnit(Day, 7),
		pos:         End,
		loc:         time.UTC,
		at:          time.Date(2024, time.January, 30, 0, 0, 0, 0, time.UTC),
		wantPrev:    time.Date(2024, time.January, 28, 23, 59, 59, 999000000, time.UTC),
		wantNext:    time.Date(2024, time.January, 31, 23, 59, 59, 999000000, time.UTC),
	}, {
		description: "five hours wrap at midnight",
		unit:        NewUnit(Hour, 5),
		pos:         Start,
		loc:         time.UTC,
		at:          time.Date(2024, time.January, 5, 22, 0, 0, 0, time.UTC),
		wantPrev:    time.Date(2024, time.January, 5, 20, 0, 0, 0, time.UTC),
		wantNext:    time.Date(2024, time.January, 6, 0, 0, 0, 0, time.UTC),
	}} {
		t.Run(test.description, func(t *testing.T) {
			if diff := cmp.Diff(test.wantPrev, PreviousStandardDate(test.at, test.unit, test.pos, test.loc)); diff != "" {
				t.Errorf("PreviousStandardDate() yielded diff (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.wantNext, NextStandardDate(test.at, test.unit, test.pos, test.loc)); diff != "" {
				t.Errorf("NextStandardDate() yielded diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnitArithmetic(t *testing.T) {
	jan31 := time.Date(2024, time.January, 31, 10, 0, 0, 0, time.UTC)
	for _, test := range []struct {
		description string
		got         time.Time
		want        time.Time
	}{{
		description: "add a month to January 31",
		got:         NewUnit(Month, 1).Add(jan31, time.UTC),
		want:        time.Date(2024, time.March, 2, 10, 0, 0, 0, time.UTC),
	}, {
		description: "subtract a year from a leap day",
		got:         NewUnit(Year, 1).Subtract(time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), time.UTC),
		want:        time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC),
	}, {
		description: "roll a week by a day",
		got:         NewUnit(Day, 7).Roll(jan31, time.UTC),
		want:        time.Date(2024, time.February, 1, 10, 0, 0, 0, time.UTC),
	}, {
		description: "roll 6 hours by 2",
		got:         NewUnit(Hour, 6).WithRoll(Hour, 2).Roll(jan31, time.UTC),
		want:        time.Date(2024, time.January, 31, 12, 0, 0, 0, time.UTC),
	}, {
		description: "roll a month by a day",
		got:         NewUnit(Month, 1).WithRoll(Day, 1).Roll(jan31, time.UTC),
		want:        time.Date(2024, time.February, 1, 10, 0, 0, 0, time.UTC),
	}, {
		description: "add 500 milliseconds",
		got:         NewUnit(Millisecond, 500).Add(jan31, nil),
		want:        jan31.Add(500 * time.Millisecond),
	}} {
		t.Run(test.description, func(t *testing.T) {
			if diff := cmp.Diff(test.want, test.got); diff != "" {
				t.Errorf("yielded diff (-want +got):\n%s", diff)
			}
		})
	}
	if got, want := NewUnit(Day, 1).Format(jan31, time.UTC), "Jan 31"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestUnits(t *testing.T) {
	units := StandardUnits()
	if got, want := units.Len(), 40; got != want {
		t.Fatalf("StandardUnits() has %d units, want %d", got, want)
	}
	for i := 1; i < units.Len(); i++ {
		if units.At(i-1).Compare(units.At(i)) >= 0 {
			t.Errorf("units %s and %s are out of order", units.At(i-1), units.At(i))
		}
		if units.At(i-1).Size() > units.At(i).Size() {
			t.Errorf("unit %s is larger than %s", units.At(i-1), units.At(i))
		}
	}
	for _, test := range []struct {
		description string
		size        time.Duration
		want        Unit
		wantOK      bool
	}{{
		description: "exact",
		size:        time.Hour,
		want:        units.At(units.Index(NewUnit(Hour, 1))),
		wantOK:      true,
	}, {
		description: "between",
		size:        3 * 24 * time.Hour,
		want:        units.At(units.Index(NewUnit(Day, 7))),
		wantOK:      true,
	}, {
		description: "too large",
		size:        200 * 365 * 24 * time.Hour,
		want:        units.At(units.Len() - 1),
		wantOK:      false,
	}} {
		t.Run(test.description, func(t *testing.T) {
			got, ok := units.Ceiling(test.size)
			if ok != test.wantOK {
				t.Errorf("Ceiling(%s) ok = %t, want %t", test.size, ok, test.wantOK)
			}
			if !got.Equal(test.want) {
				t.Errorf("Ceiling(%s) = %s, want %s", test.size, got, test.want)
			}
		})
	}
	if got, ok := units.Larger(NewUnit(Day, 15)); !ok || got.Compare(NewUnit(Month, 1)) != 0 {
		t.Errorf("Larger(15 day) = %s, %t, want 1 month", got, ok)
	}
	if _, ok := units.Larger(NewUnit(Year, 100)); ok {
		t.Errorf("Larger(100 year) unexpectedly succeeded")
	}
	if got := units.Index(NewUnit(Day, 3)); got != -1 {
		t.Errorf("Index(3 day) = %d, want -1", got)
	}
	custom := NewUnits(NewUnit(Day, 2), NewUnit(Hour, 1), NewUnit(Day, 2).WithLayout("2006-01-02"))
	if got := custom.Len(); got != 2 {
		t.Errorf("custom units have %d members, want 2", got)
	}
	if got := custom.At(1).Layout; got != "2006-01-02" {
		t.Errorf("replaced unit has layout %q", got)
	}
}

func TestParse(t *testing.T) {
	for _, ut := range []UnitType{Millisecond, Second, Minute, Hour, Day, Month, Year} {
		got, err := ParseUnitType(ut.String())
		if err != nil || got != ut {
			t.Errorf("ParseUnitType(%q) = %v, %v", ut.String(), got, err)
		}
	}
	if _, err := ParseUnitType("fortnight"); err == nil {
		t.Errorf("ParseUnitType(fortnight) unexpectedly succeeded")
	}
	for _, pos := range []TickMarkPosition{Start, Middle, End} {
		got, err := ParseTickMarkPosition(pos.String())
		if err != nil || got != pos {
			t.Errorf("ParseTickMarkPosition(%q) = %v, %v", pos.String(), got, err)
		}
	}
	if _, err := ParseTickMarkPosition("edge"); err == nil {
		t.Errorf("ParseTickMarkPosition(edge) unexpectedly succeeded")
	}
}
