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

// Package calendarconfig loads business calendars, described in YAML, and
// builds them into segmented timelines.  A file looks like:
//
//	calendars:
//	  - name: nyse_days
//	    kind: weekdays
//	    zone: America/New_York
//	    holidays: [2024-07-04, 2024-12-25]
//	  - name: nyse_hours
//	    kind: business_hours
//	    zone: America/New_York
//	    open: 9h30m
//	    close: 16h
//	    base: nyse_days
//	    base_holidays: [2024-11-29]
//	    inclusions:
//	      - from: "2024-12-23T16:00"
//	        to: "2024-12-23T16:59"
//
// Environment variables written as ${VAR} are expanded before parsing.
package calendarconfig

import (
	"errors"
	"sort"
	"time"
)

// Calendar kinds.
const (
	KindSegmented     = "segmented"
	KindWeekdays      = "weekdays"
	KindBusinessHours = "business_hours"
)

// Default values for optional calendar fields.
const (
	DefaultKind                     = KindSegmented
	DefaultZone                     = "UTC"
	DefaultBusinessHoursSegmentSize = 15 * time.Minute
	DefaultOpen                     = 9 * time.Hour
	DefaultClose                    = 16 * time.Hour
)

// ErrInvalidConfig is returned for calendar files that cannot be built.
var ErrInvalidConfig = errors.New("invalid calendar configuration")

// Config is the root of a calendar file.
type Config struct {
	Calendars []CalendarConfig `yaml:"calendars"`
}

// CalendarConfig describes one calendar.
type CalendarConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Kind selects how the calendar's segments are described: by explicit
	// segment counts (segmented), as whole weekdays (weekdays), or as
	// opening hours on weekdays (business_hours).
	Kind           string `yaml:"kind"`
	Zone           string `yaml:"zone"`
	DaylightSaving bool   `yaml:"daylight_saving"`

	// Segmented calendars only.
	SegmentSize time.Duration `yaml:"segment_size"`
	Included    int           `yaml:"included"`
	Excluded    int           `yaml:"excluded"`
	Start       string        `yaml:"start"`

	// Business-hours calendars only.
	Open  time.Duration `yaml:"open"`
	Close time.Duration `yaml:"close"`

	// Base names another calendar which must also include an instant for
	// this calendar to include it.
	Base string `yaml:"base"`
	// Holidays are dates excluded in full.
	Holidays []string `yaml:"holidays"`
	// BaseHolidays are dates whose base calendar segment is excluded.
	// Business-hours calendars use their weekday segments when no base is
	// configured.
	BaseHolidays []string `yaml:"base_holidays"`
	// Exceptions are ranges excluded from the calendar, and Inclusions are
	// ranges included even where its segments would exclude them.  Base
	// calendars must still include them.
	Exceptions []RangeConfig `yaml:"exceptions"`
	Inclusions []RangeConfig `yaml:"inclusions"`
}

// RangeConfig is an inclusive range of instants, written as dates or
// date-times in the calendar's zone.
type RangeConfig struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

func (c *Config) applyDefaults() {
	for idx := range c.Calendars {
		cal := &c.Calendars[idx]
		if cal.Kind == "" {
			cal.Kind = DefaultKind
		}
		if cal.Zone == "" {
			cal.Zone = DefaultZone
		}
		if cal.Kind != KindBusinessHours {
			continue
		}
		if cal.SegmentSize == 0 {
			cal.SegmentSize = DefaultBusinessHoursSegmentSize
		}
		if cal.Open == 0 && cal.Close == 0 {
			cal.Open, cal.Close = DefaultOpen, DefaultClose
		}
	}
}

// Names returns the names of the configured calendars, sorted.
func (c *Config) Names() []string {
	ret := make([]string, len(c.Calendars))
	for idx, cal := range c.Calendars {
		ret[idx] = cal.Name
	}
	sort.Strings(ret)
	return ret
}
