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

// Package datetick provides calendar-aligned tick units for date axes.  A
// Unit is a step size such as 'one day', 'six hours' or 'three months'; the
// standard date functions in this package find the tick instants of a unit
// surrounding an arbitrary instant, in a particular location, anchored at the
// start, middle or end of each period.
//
// All functions are pure: they take and return time.Time values and never
// mutate shared calendar state.
package datetick

import (
	"fmt"
	"time"
)

// UnitType is the calendar field a Unit steps over.  UnitTypes are ordered
// from finest to coarsest.
type UnitType int

// Supported UnitTypes.
const (
	Millisecond UnitType = iota
	Second
	Minute
	Hour
	Day
	Month
	Year
)

var unitTypeNames = map[UnitType]string{
	Millisecond: "millisecond",
	Second:      "second",
	Minute:      "minute",
	Hour:        "hour",
	Day:         "day",
	Month:       "month",
	Year:        "year",
}

func (ut UnitType) String() string {
	if name, ok := unitTypeNames[ut]; ok {
		return name
	}
	return fmt.Sprintf("UnitType(%d)", int(ut))
}

// ParseUnitType returns the UnitType with the provided name.
func ParseUnitType(name string) (UnitType, error) {
	for ut, n := range unitTypeNames {
		if n == name {
			return ut, nil
		}
	}
	return 0, fmt.Errorf("unknown tick unit type '%s'", name)
}

// fixed returns the exact duration of one step of a fixed-size UnitType.
func (ut UnitType) fixed() (time.Duration, bool) {
	switch ut {
	case Millisecond:
		return time.Millisecond, true
	case Second:
		return time.Second, true
	case Minute:
		return time.Minute, true
	case Hour:
		return time.Hour, true
	}
	return 0, false
}

// nominal returns the typical duration of one step of the UnitType.
func (ut UnitType) nominal() time.Duration {
	if d, ok := ut.fixed(); ok {
		return d
	}
	switch ut {
	case Day:
		return 24 * time.Hour
	case Month:
		return 30 * 24 * time.Hour
	default:
		return 365 * 24 * time.Hour
	}
}

var defaultLayouts = map[UnitType]string{
	Millisecond: "15:04:05.000",
	Second:      "15:04:05",
	Minute:      "15:04",
	Hour:        "15:04",
	Day:         "Jan 2",
	Month:       "Jan 2006",
	Year:        "2006",
}

// TickMarkPosition selects which instant within a period is that period's
// tick instant.
type TickMarkPosition int

// Supported TickMarkPositions.
const (
	Start TickMarkPosition = iota
	Middle
	End
)

func (pos TickMarkPosition) String() string {
	switch pos {
	case Start:
		return "start"
	case Middle:
		return "middle"
	case End:
		return "end"
	}
	return fmt.Sprintf("TickMarkPosition(%d)", int(pos))
}

// ParseTickMarkPosition returns the TickMarkPosition with the provided name.
func ParseTickMarkPosition(name string) (TickMarkPosition, error) {
	for _, pos := range []TickMarkPosition{Start, Middle, End} {
		if pos.String() == name {
			return pos, nil
		}
	}
	return 0, fmt.Errorf("unknown tick mark position '%s'", name)
}
