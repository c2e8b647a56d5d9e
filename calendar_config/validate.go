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
)

var instantLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseInstant parses a date or date-time in loc.
func parseInstant(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: '%s' is not a date or date-time", ErrInvalidConfig, s)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}

// Validate checks that every calendar is well-formed and that base
// references resolve.  Base cycles are detected by Build.
func (c *Config) Validate() error {
	names := map[string]bool{}
	for idx, cal := range c.Calendars {
		if cal.Name == "" {
			return invalid("calendars[%d].name is required", idx)
		}
		if names[cal.Name] {
			return invalid("calendar '%s' is defined more than once", cal.Name)
		}
		names[cal.Name] = true
	}
	for _, cal := range c.Calendars {
		if err := cal.validate(names); err != nil {
			return err
		}
	}
	return nil
}

func (cal *CalendarConfig) validate(names map[string]bool) error {
	prefix := "calendar '" + cal.Name + "'"
	loc, err := time.LoadLocation(cal.Zone)
	if err != nil {
		return invalid("%s.zone: %s", prefix, err)
	}
	switch cal.Kind {
	case KindSegmented:
		if cal.SegmentSize <= 0 {
			return invalid("%s.segment_size must be positive", prefix)
		}
		if cal.Included < 1 {
			return invalid("%s.included must be >= 1", prefix)
		}
		if cal.Excluded < 0 {
			return invalid("%s.excluded must be >= 0", prefix)
		}
		if cal.Start != "" {
			if _, err := parseInstant(cal.Start, loc); err != nil {
				return fmt.Errorf("%s.start: %w", prefix, err)
			}
		}
	case KindWeekdays:
	case KindBusinessHours:
		if cal.Close <= cal.Open {
			return invalid("%s.close (%s) must follow open (%s)", prefix, cal.Close, cal.Open)
		}
	default:
		return invalid("%s.kind '%s' is not one of %s, %s, %s", prefix, cal.Kind, KindSegmented, KindWeekdays, KindBusinessHours)
	}
	if cal.Base != "" {
		if cal.Base == cal.Name {
			return invalid("%s.base may not name itself", prefix)
		}
		if !names[cal.Base] {
			return invalid("%s.base '%s' is not defined", prefix, cal.Base)
		}
	}
	if len(cal.BaseHolidays) > 0 && cal.Base == "" && cal.Kind != KindBusinessHours {
		return invalid("%s.base_holidays requires a base", prefix)
	}
	for _, dates := range [][]string{cal.Holidays, cal.BaseHolidays} {
		for _, date := range dates {
			if _, err := parseInstant(date, loc); err != nil {
				return fmt.Errorf("%s: %w", prefix, err)
			}
		}
	}
	for _, field := range []struct {
		name   string
		ranges []RangeConfig
	}{{"exceptions", cal.Exceptions}, {"inclusions", cal.Inclusions}} {
		for idx, r := range field.ranges {
			from, err := parseInstant(r.From, loc)
			if err != nil {
				return fmt.Errorf("%s.%s[%d].from: %w", prefix, field.name, idx, err)
			}
			to, err := parseInstant(r.To, loc)
			if err != nil {
				return fmt.Errorf("%s.%s[%d].to: %w", prefix, field.name, idx, err)
			}
			if to.Before(from) {
				return invalid("%s.%s[%d] ends before it starts", prefix, field.name, idx)
			}
		}
	}
	return nil
}
