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

package timeline

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/go-cmp/cmp"
)

func date(year int, month time.Month, day, hour, min int, loc *time.Location) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, loc)
}

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("failed to load location %s: %s", name, err)
	}
	return loc
}

// thursdayQuarterHours returns a 9:00 to 17:30 fifteen-minute timeline on
// weekdays, anchored at 9:00 on Thursday, January 4, 2024.
func thursdayQuarterHours(t *testing.T) *SegmentedTimeline {
	t.Helper()
	tl, err := New(FifteenMinuteSegmentSize, 34, 62, WithStartTime(date(2024, time.January, 4, 9, 0, time.UTC)))
	if err != nil {
		t.Fatalf("failed to create timeline: %s", err)
	}
	if err := tl.SetBaseTimeline(NewMondayThroughFriday()); err != nil {
		t.Fatalf("failed to set base timeline: %s", err)
	}
	return tl
}

func TestDefaultTimeline(t *testing.T) {
	tl := DefaultTimeline{}
	ts := date(2024, time.March, 10, 2, 30, time.UTC)
	if got, want := tl.ToTimelineValue(ts), ts.UnixMilli(); got != want {
		t.Errorf("ToTimelineValue(%s) = %d, want %d", ts, got, want)
	}
	if got := tl.ToMillisecond(tl.ToTimelineValue(ts)); !got.Equal(ts) {
		t.Errorf("round trip of %s yielded %s", ts, got)
	}
	if !tl.ContainsDomainValue(ts) {
		t.Errorf("ContainsDomainValue(%s) = false, want true", ts)
	}
	if _, err := tl.ContainsDomainRange(ts, ts.Add(-time.Second)); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("ContainsDomainRange with reversed range yielded error %v, want %v", err, ErrInvalidRange)
	}
}

func TestQuarterHourBusinessDay(t *testing.T) {
	tl := thursdayQuarterHours(t)
	for _, test := range []struct {
		description string
		at          time.Time
		wantValue   int64
		wantTime    time.Time
	}{{
		description: "start of timeline",
		at:          date(2024, time.January, 4, 9, 0, time.UTC),
		wantValue:   0,
		wantTime:    date(2024, time.January, 4, 9, 0, time.UTC),
	}, {
		description: "Thursday afternoon",
		at:          date(2024, time.January, 4, 13, 15, time.UTC),
		wantValue:   17 * 900000,
		wantTime:    date(2024, time.January, 4, 13, 15, time.UTC),
	}, {
		description: "Friday open",
		at:          date(2024, time.January, 5, 9, 0, time.UTC),
		wantValue:   900000 * 34,
		wantTime:    date(2024, time.January, 5, 9, 0, time.UTC),
	}, {
		description: "Thursday after close snaps to Friday open",
		at:          date(2024, time.January, 4, 17, 30, time.UTC),
		wantValue:   900000 * 34,
		wantTime:    date(2024, time.January, 5, 9, 0, time.UTC),
	}, {
		description: "Saturday snaps to Monday open",
		at:          date(2024, time.January, 6, 11, 0, time.UTC),
		wantValue:   900000 * 68,
		wantTime:    date(2024, time.January, 8, 9, 0, time.UTC),
	}, {
		description: "Monday open",
		at:          date(2024, time.January, 8, 9, 0, time.UTC),
		wantValue:   900000 * 68,
		wantTime:    date(2024, time.January, 8, 9, 0, time.UTC),
	}, {
		description: "before the start",
		at:          date(2024, time.January, 3, 17, 0, time.UTC),
		wantValue:   -900000 * 2,
		wantTime:    date(2024, time.January, 3, 17, 0, time.UTC),
	}} {
		t.Run(test.description, func(t *testing.T) {
			gotValue := tl.ToTimelineValue(test.at)
			if gotValue != test.wantValue {
				t.Errorf("ToTimelineValue(%s) = %d, want %d", test.at, gotValue, test.wantValue)
			}
			if diff := cmp.Diff(test.wantTime, tl.ToMillisecond(gotValue)); diff != "" {
				t.Errorf("ToMillisecond(%d) yielded diff (-want +got):\n%s", gotValue, diff)
			}
		})
	}
}

func TestRoundTripAndSnapping(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	weekdaysWithHoliday := NewMondayThroughFriday()
	weekdaysWithHoliday.AddException(date(2024, time.January, 3, 0, 0, time.UTC))
	quarterHoursWithHoliday := NewFifteenMinute()
	if err := quarterHoursWithHoliday.AddBaseTimelineException(date(2024, time.January, 2, 12, 0, time.UTC)); err != nil {
		t.Fatalf("failed to add base exception: %s", err)
	}
	for _, test := range []struct {
		description string
		tl          *SegmentedTimeline
		from, to    time.Time
		step        time.Duration
	}{{
		description: "weekdays",
		tl:          NewMondayThroughFriday(),
		from:        date(2023, time.December, 20, 0, 0, time.UTC),
		to:          date(2024, time.January, 20, 0, 0, time.UTC),
		step:        time.Hour + 7*time.Minute,
	}, {
		description: "weekdays with holiday",
		tl:          weekdaysWithHoliday,
		from:        date(2023, time.December, 28, 0, 0, time.UTC),
		to:          date(2024, time.January, 10, 0, 0, time.UTC),
		step:        53 * time.Minute,
	}, {
		description: "fifteen minute",
		tl:          NewFifteenMinute(),
		from:        date(2024, time.January, 1, 0, 0, time.UTC),
		to:          date(2024, time.January, 10, 0, 0, time.UTC),
		step:        11 * time.Minute,
	}, {
		description: "fifteen minute with base holiday",
		tl:          quarterHoursWithHoliday,
		from:        date(2024, time.January, 1, 0, 0, time.UTC),
		to:          date(2024, time.January, 4, 0, 0, time.UTC),
		step:        7 * time.Minute,
	}, {
		description: "weekdays in New York across daylight saving",
		tl:          NewMondayThroughFriday(WithLocation(ny), WithDaylightSavingAdjustment()),
		from:        date(2024, time.March, 1, 0, 0, ny),
		to:          date(2024, time.March, 20, 0, 0, ny),
		step:        59 * time.Minute,
	}, {
		description: "quarter hour business day",
		tl:          thursdayQuarterHours(t),
		from:        date(2024, time.January, 1, 0, 0, time.UTC),
		to:          date(2024, time.January, 12, 0, 0, time.UTC),
		step:        13 * time.Minute,
	}} {
		t.Run(test.description, func(t *testing.T) {
			for at := test.from; at.Before(test.to); at = at.Add(test.step) {
				got := test.tl.ToMillisecond(test.tl.ToTimelineValue(at))
				if test.tl.ContainsDomainValue(at) {
					if !got.Equal(at) {
						t.Fatalf("included instant %s round-tripped to %s", at, got)
					}
					continue
				}
				if !got.After(at) {
					t.Fatalf("excluded instant %s snapped to %s, want a later instant", at, got)
				}
				if !test.tl.ContainsDomainValue(got) {
					t.Fatalf("excluded instant %s snapped to excluded instant %s", at, got)
				}
				if seg := test.tl.Segment(got); !seg.Start.Equal(got) {
					t.Fatalf("excluded instant %s snapped to %s, not a segment start (%s)", at, got, seg.Start)
				}
				if prev := got.Add(-time.Millisecond); prev.After(at) && test.tl.ContainsDomainValue(prev) {
					t.Fatalf("excluded instant %s snapped past included instant %s", at, prev)
				}
			}
		})
	}
}

func TestDaylightSavingAdjustment(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	adjusted := NewMondayThroughFriday(WithLocation(ny), WithDaylightSavingAdjustment())
	unadjusted := NewMondayThroughFriday(WithLocation(ny))
	if !adjusted.AdjustsForDaylightSaving() || unadjusted.AdjustsForDaylightSaving() {
		t.Fatalf("unexpected daylight saving adjustment flags")
	}
	tuesdayNoon := date(2024, time.March, 12, 12, 0, ny)
	if diff := cmp.Diff(date(2024, time.March, 12, 0, 0, ny), adjusted.Segment(tuesdayNoon).Start); diff != "" {
		t.Errorf("adjusted segment start yielded diff (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(date(2024, time.March, 12, 1, 0, ny), unadjusted.Segment(tuesdayNoon).Start); diff != "" {
		t.Errorf("unadjusted segment start yielded diff (-want +got):\n%s", diff)
	}
	day := (24 * time.Hour).Milliseconds()
	for _, test := range []struct {
		description string
		from, to    time.Time
		wantDelta   int64
	}{{
		description: "Friday to Monday across the spring transition",
		from:        date(2024, time.March, 8, 0, 0, ny),
		to:          date(2024, time.March, 11, 0, 0, ny),
		wantDelta:   day,
	}, {
		description: "Monday to Tuesday after the spring transition",
		from:        date(2024, time.March, 11, 0, 0, ny),
		to:          date(2024, time.March, 12, 0, 0, ny),
		wantDelta:   day,
	}, {
		description: "Friday to Monday across the fall transition",
		from:        date(2024, time.November, 1, 9, 0, ny),
		to:          date(2024, time.November, 4, 9, 0, ny),
		wantDelta:   day,
	}} {
		t.Run(test.description, func(t *testing.T) {
			if got := adjusted.ToTimelineValue(test.to) - adjusted.ToTimelineValue(test.from); got != test.wantDelta {
				t.Errorf("timeline distance = %d, want %d", got, test.wantDelta)
			}
		})
	}
}

func TestDaylightSavingRepeatedHour(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	everyDay, err := New(DaySegmentSize, 1, 0, WithLocation(ny), WithDaylightSavingAdjustment())
	if err != nil {
		t.Fatalf("New() yielded unexpected error %s", err)
	}
	// 01:30 on November 3, 2024 occurs first in EDT, then again in EST.
	first := time.Date(2024, time.November, 3, 5, 30, 0, 0, time.UTC)
	second := first.Add(time.Hour)
	if got, want := everyDay.ToTimelineValue(second), everyDay.ToTimelineValue(first); got != want {
		t.Errorf("second pass value = %d, want the first pass value %d", got, want)
	}
	if got := everyDay.ToMillisecond(everyDay.ToTimelineValue(second)); !got.Equal(first) {
		t.Errorf("repeated hour maps back to %s, want the first pass %s", got.UTC(), first)
	}
}

func TestExceptions(t *testing.T) {
	wednesday := date(2024, time.January, 3, 0, 0, time.UTC)
	weekdays := NewMondayThroughFriday()
	before := weekdays.ToTimelineValue(date(2024, time.January, 5, 0, 0, time.UTC))
	weekdays.AddExceptions(wednesday.Add(5*time.Hour), date(2024, time.January, 6, 0, 0, time.UTC))
	if weekdays.ContainsDomainValue(wednesday.Add(12 * time.Hour)) {
		t.Errorf("excepted Wednesday is still included")
	}
	if got, want := weekdays.ToTimelineValue(date(2024, time.January, 5, 0, 0, time.UTC)), before-(24*time.Hour).Milliseconds(); got != want {
		t.Errorf("Friday value after exception = %d, want %d", got, want)
	}
	if got := weekdays.ToMillisecond(weekdays.ToTimelineValue(wednesday)); !got.Equal(wednesday.AddDate(0, 0, 1)) {
		t.Errorf("excepted Wednesday snapped to %s, want Thursday", got)
	}
	wantSegments := []time.Time{wednesday, date(2024, time.January, 6, 0, 0, time.UTC)}
	gotSegments := []time.Time{}
	for _, seg := range weekdays.ExceptionSegments() {
		gotSegments = append(gotSegments, seg.Start)
	}
	if diff := cmp.Diff(wantSegments, gotSegments); diff != "" {
		t.Errorf("ExceptionSegments() yielded diff (-want +got):\n%s", diff)
	}
	// The Saturday exception falls on an already-excluded segment.
	if got := weekdays.ExceptionSegmentCount(date(2024, time.January, 1, 0, 0, time.UTC), date(2024, time.January, 7, 0, 0, time.UTC)); got != 1 {
		t.Errorf("ExceptionSegmentCount() = %d, want 1", got)
	}
	if err := weekdays.AddExceptionRange(date(2024, time.January, 16, 12, 0, time.UTC), date(2024, time.January, 15, 0, 0, time.UTC)); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("AddExceptionRange with reversed range yielded error %v, want %v", err, ErrInvalidRange)
	}
	if err := weekdays.AddExceptionRange(date(2024, time.January, 15, 12, 0, time.UTC), date(2024, time.January, 17, 1, 0, time.UTC)); err != nil {
		t.Fatalf("AddExceptionRange() yielded unexpected error %s", err)
	}
	if got := weekdays.ExceptionSegmentCount(date(2024, time.January, 15, 0, 0, time.UTC), date(2024, time.January, 19, 0, 0, time.UTC)); got != 3 {
		t.Errorf("ExceptionSegmentCount() after range = %d, want 3", got)
	}
	if got, err := weekdays.ContainsDomainRange(date(2024, time.January, 18, 0, 0, time.UTC), date(2024, time.January, 19, 23, 0, time.UTC)); err != nil || !got {
		t.Errorf("ContainsDomainRange(Thu, Fri) = %t, %v, want true", got, err)
	}
	if got, err := weekdays.ContainsDomainRange(date(2024, time.January, 17, 0, 0, time.UTC), date(2024, time.January, 18, 1, 0, time.UTC)); err != nil || got {
		t.Errorf("ContainsDomainRange(Wed, Thu) = %t, %v, want false", got, err)
	}
}

func TestInclusions(t *testing.T) {
	day := (24 * time.Hour).Milliseconds()
	friday := date(2024, time.January, 5, 0, 0, time.UTC)
	saturday := friday.AddDate(0, 0, 1)
	sunday := friday.AddDate(0, 0, 2)
	monday := friday.AddDate(0, 0, 3)
	weekdays := NewMondayThroughFriday()
	fridayValue := weekdays.ToTimelineValue(friday)
	mondayBefore := weekdays.ToTimelineValue(monday)
	if mondayBefore != fridayValue+day {
		t.Fatalf("Monday value = %d, want %d", mondayBefore, fridayValue+day)
	}
	weekdays.AddInclusion(saturday.Add(10 * time.Hour))
	if !weekdays.ContainsDomainValue(saturday.Add(12 * time.Hour)) {
		t.Errorf("included Saturday is still excluded")
	}
	if weekdays.ContainsDomainValue(sunday.Add(12 * time.Hour)) {
		t.Errorf("Sunday is included")
	}
	if got, want := weekdays.ToTimelineValue(monday), mondayBefore+day; got != want {
		t.Errorf("Monday value after inclusion = %d, want %d", got, want)
	}
	for _, at := range []time.Time{
		saturday,
		saturday.Add(6*time.Hour + 30*time.Minute),
		saturday.Add(24*time.Hour - time.Millisecond),
		monday.Add(time.Hour),
		friday.Add(23 * time.Hour),
	} {
		v := weekdays.ToTimelineValue(at)
		if got := weekdays.ToMillisecond(v); !got.Equal(at) {
			t.Errorf("ToMillisecond(ToTimelineValue(%s)) = %s", at, got)
		}
	}
	if got, want := weekdays.ToTimelineValue(saturday.Add(6*time.Hour)), fridayValue+day+(6*time.Hour).Milliseconds(); got != want {
		t.Errorf("Saturday 06:00 value = %d, want %d", got, want)
	}
	if got := weekdays.ToMillisecond(fridayValue + day); !got.Equal(saturday) {
		t.Errorf("value after Friday maps to %s, want Saturday", got)
	}
	if got := weekdays.ToMillisecond(weekdays.ToTimelineValue(sunday.Add(12 * time.Hour))); !got.Equal(monday) {
		t.Errorf("Sunday snapped to %s, want Monday", got)
	}
	gotSegments := []time.Time{}
	for _, seg := range weekdays.InclusionSegments() {
		gotSegments = append(gotSegments, seg.Start)
	}
	if diff := cmp.Diff([]time.Time{saturday}, gotSegments); diff != "" {
		t.Errorf("InclusionSegments() yielded diff (-want +got):\n%s", diff)
	}
	if got := weekdays.ExceptionSegmentCount(friday, sunday); got != 1 {
		t.Errorf("ExceptionSegmentCount() = %d, want 1", got)
	}
	if err := weekdays.AddInclusionRange(sunday, saturday); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("AddInclusionRange with reversed range yielded error %v, want %v", err, ErrInvalidRange)
	}
	// An excluding exception on the same segment wins.
	weekdays.AddException(saturday.Add(time.Hour))
	if weekdays.ContainsDomainValue(saturday.Add(12 * time.Hour)) {
		t.Errorf("Saturday excluded and included is still included")
	}
	if got := weekdays.ToTimelineValue(monday); got != mondayBefore {
		t.Errorf("Monday value after exclusion = %d, want %d", got, mondayBefore)
	}
}

func TestBaseTimelineInclusions(t *testing.T) {
	friday := date(2024, time.January, 5, 0, 0, time.UTC)
	saturday := friday.AddDate(0, 0, 1)
	tuesday := date(2024, time.January, 9, 0, 0, time.UTC)
	quarterHours := NewFifteenMinute()
	// The weekday base still excludes Saturday.
	if err := quarterHours.AddInclusionRange(saturday.Add(10*time.Hour), saturday.Add(11*time.Hour-time.Millisecond)); err != nil {
		t.Fatalf("AddInclusionRange() yielded unexpected error %s", err)
	}
	if quarterHours.ContainsDomainValue(saturday.Add(10 * time.Hour)) {
		t.Errorf("Saturday included despite the weekday base")
	}
	quarterHours.BaseTimeline().AddInclusion(saturday)
	for _, test := range []struct {
		at   time.Time
		want bool
	}{
		{saturday.Add(8 * time.Hour), false},
		{saturday.Add(9 * time.Hour), true},
		{saturday.Add(15*time.Hour + 45*time.Minute), true},
		{saturday.Add(16 * time.Hour), false},
		{tuesday.Add(17 * time.Hour), false},
	} {
		if got := quarterHours.ContainsDomainValue(test.at); got != test.want {
			t.Errorf("ContainsDomainValue(%s) = %t, want %t", test.at, got, test.want)
		}
	}
	if got, want := quarterHours.ToTimelineValue(saturday.Add(9*time.Hour)), quarterHours.ToTimelineValue(friday.Add(9*time.Hour))+(7*time.Hour).Milliseconds(); got != want {
		t.Errorf("Saturday open value = %d, want %d", got, want)
	}
	at := saturday.Add(10*time.Hour + 20*time.Minute)
	if got := quarterHours.ToMillisecond(quarterHours.ToTimelineValue(at)); !got.Equal(at) {
		t.Errorf("Saturday round trip yielded %s, want %s", got, at)
	}
	quarterHours.AddInclusion(tuesday.Add(17 * time.Hour))
	if !quarterHours.ContainsDomainValue(tuesday.Add(17*time.Hour + 10*time.Minute)) {
		t.Errorf("included Tuesday evening segment is excluded")
	}
	if got := quarterHours.ToMillisecond(quarterHours.ToTimelineValue(tuesday.Add(16 * time.Hour))); !got.Equal(tuesday.Add(17 * time.Hour)) {
		t.Errorf("Tuesday close snapped to %s, want the included 17:00 segment", got)
	}
}

func TestBaseTimelineExceptions(t *testing.T) {
	quarterHours := NewFifteenMinute()
	holiday := date(2024, time.January, 3, 0, 0, time.UTC)
	if err := quarterHours.AddBaseTimelineException(holiday.Add(12 * time.Hour)); err != nil {
		t.Fatalf("AddBaseTimelineException() yielded unexpected error %s", err)
	}
	if got := quarterHours.ExceptionSegmentCount(holiday, holiday.Add(24*time.Hour-time.Minute)); got != 28 {
		t.Errorf("ExceptionSegmentCount() over holiday = %d, want 28", got)
	}
	if quarterHours.ContainsDomainValue(holiday.Add(10 * time.Hour)) {
		t.Errorf("holiday business hours are still included")
	}
	// Exceptions added to the base are honored by the derived timeline.
	thursday := holiday.AddDate(0, 0, 1)
	if !quarterHours.ContainsDomainValue(thursday.Add(10 * time.Hour)) {
		t.Fatalf("Thursday business hours are not included")
	}
	quarterHours.BaseTimeline().AddException(thursday)
	if quarterHours.ContainsDomainValue(thursday.Add(10 * time.Hour)) {
		t.Errorf("base exception on Thursday not honored")
	}
	if got := quarterHours.ToMillisecond(quarterHours.ToTimelineValue(holiday.Add(10 * time.Hour))); !got.Equal(date(2024, time.January, 5, 9, 0, time.UTC)) {
		t.Errorf("holiday snapped to %s, want Friday open", got)
	}
	if err := NewMondayThroughFriday().AddBaseTimelineException(holiday); !errors.Is(err, ErrNoBase) {
		t.Errorf("AddBaseTimelineException without base yielded error %v, want %v", err, ErrNoBase)
	}
}

func TestConfigurationErrors(t *testing.T) {
	saturday := date(1900, time.January, 6, 0, 0, time.UTC)
	for _, test := range []struct {
		description string
		build       func() error
		wantErr     error
	}{{
		description: "zero segment size",
		build: func() error {
			_, err := New(0, 1, 1)
			return err
		},
		wantErr: ErrInvalidConfig,
	}, {
		description: "sub-millisecond segment size",
		build: func() error {
			_, err := New(1500*time.Microsecond, 1, 1)
			return err
		},
		wantErr: ErrInvalidConfig,
	}, {
		description: "no included segments",
		build: func() error {
			_, err := New(DaySegmentSize, 0, 7)
			return err
		},
		wantErr: ErrInvalidConfig,
	}, {
		description: "negative excluded segments",
		build: func() error {
			_, err := New(DaySegmentSize, 5, -2)
			return err
		},
		wantErr: ErrInvalidConfig,
	}, {
		description: "inverted business hours",
		build: func() error {
			_, err := NewBusinessHours(17*time.Hour, 9*time.Hour, HourSegmentSize)
			return err
		},
		wantErr: ErrInvalidConfig,
	}, {
		description: "misaligned business hours",
		build: func() error {
			_, err := NewBusinessHours(9*time.Hour+10*time.Minute, 17*time.Hour, FifteenMinuteSegmentSize)
			return err
		},
		wantErr: ErrInvalidConfig,
	}, {
		description: "weekends over a weekday base",
		build: func() error {
			weekends, err := New(DaySegmentSize, 2, 5, WithStartTime(saturday))
			if err != nil {
				return err
			}
			return weekends.SetBaseTimeline(NewMondayThroughFriday())
		},
		wantErr: ErrEmptyTimeline,
	}, {
		description: "pattern too large",
		build: func() error {
			millis, err := New(time.Millisecond, 1, 0)
			if err != nil {
				return err
			}
			return millis.SetBaseTimeline(NewMondayThroughFriday())
		},
		wantErr: ErrPatternTooLarge,
	}, {
		description: "self base",
		build: func() error {
			weekdays := NewMondayThroughFriday()
			return weekdays.SetBaseTimeline(weekdays)
		},
		wantErr: ErrBaseCycle,
	}, {
		description: "base cycle",
		build: func() error {
			a, b := NewMondayThroughFriday(), NewMondayThroughFriday()
			if err := a.SetBaseTimeline(b); err != nil {
				return err
			}
			return b.SetBaseTimeline(a)
		},
		wantErr: ErrBaseCycle,
	}, {
		description: "base on a different clock",
		build: func() error {
			hours, err := New(HourSegmentSize, 8, 16)
			if err != nil {
				return err
			}
			return hours.SetBaseTimeline(NewMondayThroughFriday(WithDaylightSavingAdjustment()))
		},
		wantErr: ErrIncompatibleBase,
	}, {
		description: "oversized exception range",
		build: func() error {
			millis, err := New(time.Millisecond, 1, 1)
			if err != nil {
				return err
			}
			return millis.AddExceptionRange(saturday, saturday.Add(time.Hour))
		},
		wantErr: ErrPatternTooLarge,
	}} {
		t.Run(test.description, func(t *testing.T) {
			if err := test.build(); !errors.Is(err, test.wantErr) {
				t.Errorf("got error %v, want %v", err, test.wantErr)
			}
		})
	}
}

func TestFailedSetBaseLeavesTimelineUnchanged(t *testing.T) {
	weekends, err := New(DaySegmentSize, 2, 5, WithStartTime(date(1900, time.January, 6, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("failed to create timeline: %s", err)
	}
	sunday := date(2024, time.January, 7, 12, 0, time.UTC)
	if err := weekends.SetBaseTimeline(NewMondayThroughFriday()); err == nil {
		t.Fatalf("SetBaseTimeline() unexpectedly succeeded")
	}
	if weekends.BaseTimeline() != nil || !weekends.ContainsDomainValue(sunday) {
		t.Errorf("failed SetBaseTimeline() modified the timeline")
	}
}

func TestMultiYearRange(t *testing.T) {
	weekdays := NewMondayThroughFriday()
	from := date(2000, time.January, 3, 0, 0, time.UTC)
	to := date(2030, time.January, 7, 0, 0, time.UTC)
	// 1566 whole weeks separate the two Mondays.
	if got, want := weekdays.ToTimelineValue(to)-weekdays.ToTimelineValue(from), int64(1566*5)*(24*time.Hour).Milliseconds(); got != want {
		t.Errorf("timeline distance = %d, want %d", got, want)
	}
	if got := weekdays.ToMillisecond(weekdays.ToTimelineValue(to)); !got.Equal(to) {
		t.Errorf("round trip of %s yielded %s", to, got)
	}
	for _, test := range []struct {
		description string
		from, to    time.Time
		want        bool
	}{{
		description: "working week",
		from:        from,
		to:          from.AddDate(0, 0, 5).Add(-time.Millisecond),
		want:        true,
	}, {
		description: "into the weekend",
		from:        from,
		to:          from.AddDate(0, 0, 5),
		want:        false,
	}, {
		description: "three decades",
		from:        from,
		to:          to,
		want:        false,
	}} {
		t.Run(test.description, func(t *testing.T) {
			got, err := weekdays.ContainsDomainRange(test.from, test.to)
			if err != nil {
				t.Fatalf("ContainsDomainRange() yielded unexpected error %s", err)
			}
			if got != test.want {
				t.Errorf("ContainsDomainRange(%s, %s) = %t, want %t", test.from, test.to, got, test.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	a, b := NewFifteenMinute(), NewFifteenMinute()
	if !a.Equal(b) {
		t.Fatalf("identically built timelines are not equal")
	}
	a.AddException(date(2024, time.January, 3, 10, 0, time.UTC))
	if a.Equal(b) {
		t.Errorf("timelines with different exceptions are equal")
	}
	b.AddException(date(2024, time.January, 3, 10, 5, time.UTC))
	if !a.Equal(b) {
		t.Errorf("timelines with the same exceptions are not equal")
	}
	if a.Equal(NewMondayThroughFriday()) {
		t.Errorf("timelines with different segment sizes are equal")
	}
	a.AddInclusion(date(2024, time.January, 6, 10, 0, time.UTC))
	if a.Equal(b) {
		t.Errorf("timelines with different inclusions are equal")
	}
	b.AddInclusion(date(2024, time.January, 6, 10, 10, time.UTC))
	if !a.Equal(b) {
		t.Errorf("timelines with the same inclusions are not equal")
	}
}
