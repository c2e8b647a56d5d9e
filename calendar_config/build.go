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

package calendarconfig

import (
	"fmt"
	"time"

	"github.com/ilhamster/tickline/timeline"
)

// Build constructs a timeline for every configured calendar, keyed by name.
// Base calendars are built and attached before the calendars that use them.
// A cycle of base references yields timeline.ErrBaseCycle.
func (c *Config) Build() (map[string]*timeline.SegmentedTimeline, error) {
	byName := map[string]*CalendarConfig{}
	for idx := range c.Calendars {
		byName[c.Calendars[idx].Name] = &c.Calendars[idx]
	}
	ret := map[string]*timeline.SegmentedTimeline{}
	const (
		visiting = 1
		done     = 2
	)
	state := map[string]int{}
	var build func(name string, path []string) error
	build = func(name string, path []string) error {
		switch state[name] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: %v", timeline.ErrBaseCycle, append(path, name))
		}
		state[name] = visiting
		cal, ok := byName[name]
		if !ok {
			return invalid("calendar '%s' is not defined", name)
		}
		if cal.Base != "" {
			if err := build(cal.Base, append(path, name)); err != nil {
				return err
			}
		}
		tl, err := cal.build(ret[cal.Base])
		if err != nil {
			return fmt.Errorf("calendar '%s': %w", name, err)
		}
		ret[name] = tl
		state[name] = done
		return nil
	}
	for _, cal := range c.Calendars {
		if err := build(cal.Name, nil); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// build constructs the receiver's timeline over the provided base, which is
// nil if the receiver has none.
func (cal *CalendarConfig) build(base *timeline.SegmentedTimeline) (*timeline.SegmentedTimeline, error) {
	loc, err := time.LoadLocation(cal.Zone)
	if err != nil {
		return nil, invalid("zone: %s", err)
	}
	opts := []timeline.Option{timeline.WithLocation(loc)}
	if cal.DaylightSaving {
		opts = append(opts, timeline.WithDaylightSavingAdjustment())
	}
	var tl *timeline.SegmentedTimeline
	switch cal.Kind {
	case KindWeekdays:
		tl = timeline.NewMondayThroughFriday(opts...)
	case KindBusinessHours:
		tl, err = timeline.NewBusinessHours(cal.Open, cal.Close, cal.SegmentSize, opts...)
	default:
		if cal.Start != "" {
			start, err := parseInstant(cal.Start, loc)
			if err != nil {
				return nil, err
			}
			opts = append(opts, timeline.WithStartTime(start))
		}
		tl, err = timeline.New(cal.SegmentSize, cal.Included, cal.Excluded, opts...)
	}
	if err != nil {
		return nil, err
	}
	if base != nil {
		// A business-hours timeline already has a weekday base, so the
		// configured base goes beneath it.
		if weekdays := tl.BaseTimeline(); cal.Kind == KindBusinessHours && weekdays != nil {
			if err := weekdays.SetBaseTimeline(base); err != nil {
				return nil, err
			}
			base = weekdays
		}
		if err := tl.SetBaseTimeline(base); err != nil {
			return nil, err
		}
	}
	for _, date := range cal.Holidays {
		day, err := parseInstant(date, loc)
		if err != nil {
			return nil, err
		}
		if err := tl.AddExceptionRange(day, day.AddDate(0, 0, 1).Add(-time.Millisecond)); err != nil {
			return nil, err
		}
	}
	for _, date := range cal.BaseHolidays {
		day, err := parseInstant(date, loc)
		if err != nil {
			return nil, err
		}
		if err := tl.AddBaseTimelineException(day); err != nil {
			return nil, err
		}
	}
	for _, r := range cal.Exceptions {
		from, err := parseInstant(r.From, loc)
		if err != nil {
			return nil, err
		}
		to, err := parseInstant(r.To, loc)
		if err != nil {
			return nil, err
		}
		if err := tl.AddExceptionRange(from, to); err != nil {
			return nil, err
		}
	}
	for _, r := range cal.Inclusions {
		from, err := parseInstant(r.From, loc)
		if err != nil {
			return nil, err
		}
		to, err := parseInstant(r.To, loc)
		if err != nil {
			return nil, err
		}
		if err := tl.AddInclusionRange(from, to); err != nil {
			return nil, err
		}
	}
	return tl, nil
}
