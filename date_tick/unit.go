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
	"fmt"
	"time"
)

// Unit is an immutable calendar-aligned step size, such as seven days.
// When an axis must skip a tick instant, it advances by the finer roll step
// of RollMultiple RollType steps until it finds a visible instant.
type Unit struct {
	Type         UnitType
	Multiple     int
	RollType     UnitType
	RollMultiple int
	// Layout is a time.Time layout for labelling ticks of this Unit.
	Layout string
}

// NewUnit returns a Unit of the specified type and multiple, rolling by one
// step of the same type, with the default layout for its type.
func NewUnit(ut UnitType, multiple int) Unit {
	return Unit{
		Type:         ut,
		Multiple:     multiple,
		RollType:     ut,
		RollMultiple: 1,
		Layout:       defaultLayouts[ut],
	}
}

// WithLayout returns a copy of the receiver with the specified label layout.
func (u Unit) WithLayout(layout string) Unit {
	u.Layout = layout
	return u
}

// WithRoll returns a copy of the receiver with the specified roll step.
func (u Unit) WithRoll(ut UnitType, multiple int) Unit {
	u.RollType = ut
	u.RollMultiple = multiple
	return u
}

func (u Unit) multiple() int {
	if u.Multiple < 1 {
		return 1
	}
	return u.Multiple
}

func (u Unit) String() string {
	return fmt.Sprintf("%d %s", u.multiple(), u.Type)
}

// Size returns the nominal duration of one step of the receiver.  Months are
// taken to be 30 days, and years 365 days.
func (u Unit) Size() time.Duration {
	return time.Duration(u.multiple()) * u.Type.nominal()
}

// Compare returns -1, 0 or 1 as the receiver is finer than, the same size as,
// or coarser than other.  Types are compared first, then multiples.
func (u Unit) Compare(other Unit) int {
	switch {
	case u.Type < other.Type:
		return -1
	case u.Type > other.Type:
		return 1
	case u.multiple() < other.multiple():
		return -1
	case u.multiple() > other.multiple():
		return 1
	}
	return 0
}

// Equal returns true if the receiver and other are identical.
func (u Unit) Equal(other Unit) bool {
	return u == other
}

func orUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

func step(ut UnitType, n int, t time.Time, loc *time.Location) time.Time {
	if d, ok := ut.fixed(); ok {
		return t.Add(time.Duration(n) * d)
	}
	w := t.In(orUTC(loc))
	switch ut {
	case Day:
		return w.AddDate(0, 0, n)
	case Month:
		return w.AddDate(0, n, 0)
	default:
		return w.AddDate(n, 0, 0)
	}
}

// Add returns t advanced by one step of the receiver.  Days, months and years
// are calendar steps in loc.
func (u Unit) Add(t time.Time, loc *time.Location) time.Time {
	return step(u.Type, u.multiple(), t, loc)
}

// Subtract returns t moved back by one step of the receiver.
func (u Unit) Subtract(t time.Time, loc *time.Location) time.Time {
	return step(u.Type, -u.multiple(), t, loc)
}

// Roll returns t advanced by the receiver's roll step.
func (u Unit) Roll(t time.Time, loc *time.Location) time.Time {
	n := u.RollMultiple
	if n < 1 {
		n = 1
	}
	return step(u.RollType, n, t, loc)
}

// Floor returns the start of the receiver's period containing t, in loc.
// Periods are aligned to multiples of the unit's calendar field: a 6 hour
// Unit's periods begin at 00:00, 06:00, 12:00 and 18:00; a 7 day Unit's on
// the 1st, 8th, 15th, 22nd and 29th of each month; a 3 month Unit's in
// January, April, July and October.
func (u Unit) Floor(t time.Time, loc *time.Location) time.Time {
	loc = orUTC(loc)
	m := u.multiple()
	w := t.In(loc)
	var floor time.Time
	switch u.Type {
	case Millisecond:
		ms := w.Nanosecond() / int(time.Millisecond)
		floor = t.Add(-time.Duration(ms%m)*time.Millisecond - time.Duration(w.Nanosecond()%int(time.Millisecond)))
	case Second:
		floor = t.Add(-time.Duration(w.Second()%m)*time.Second - time.Duration(w.Nanosecond()))
	case Minute:
		floor = t.Add(-time.Duration(w.Minute()%m)*time.Minute -
			time.Duration(w.Second())*time.Second - time.Duration(w.Nanosecond()))
	case Hour:
		floor = t.Add(-time.Duration(w.Hour()%m)*time.Hour -
			time.Duration(w.Minute())*time.Minute -
			time.Duration(w.Second())*time.Second - time.Duration(w.Nanosecond()))
	case Day:
		floor = time.Date(w.Year(), w.Month(), 1+m*((w.Day()-1)/m), 0, 0, 0, 0, loc)
	case Month:
		floor = time.Date(w.Year(), time.Month(1+m*((int(w.Month())-1)/m)), 1, 0, 0, 0, 0, loc)
	default:
		year := w.Year()
		year -= ((year % m) + m) % m
		floor = time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	}
	// A day that begins inside a daylight saving gap may normalize forward
	// past t.
	if floor.After(t) {
		floor = u.Subtract(floor, loc)
	}
	return floor.In(loc)
}

// Format returns t, in loc, formatted with the receiver's layout.
func (u Unit) Format(t time.Time, loc *time.Location) string {
	layout := u.Layout
	if layout == "" {
		layout = defaultLayouts[u.Type]
	}
	return t.In(orUTC(loc)).Format(layout)
}

// nextPeriod returns the start of the period following the one beginning at
// start.  Periods restart at each calendar field boundary, so a 7 day period
// beginning on the 29th ends at the 1st of the following month.
func (u Unit) nextPeriod(start time.Time, loc *time.Location) time.Time {
	return u.Floor(u.Add(start, loc), loc)
}

// prevPeriod returns the start of the period preceding the one beginning at
// start.
func (u Unit) prevPeriod(start time.Time, loc *time.Location) time.Time {
	return u.Floor(start.Add(-time.Nanosecond), loc)
}

// anchor returns the tick instant of the period beginning at start.
func (u Unit) anchor(start time.Time, pos TickMarkPosition, loc *time.Location) time.Time {
	switch pos {
	case Middle:
		next := u.nextPeriod(start, loc)
		return start.Add(next.Sub(start) / 2)
	case End:
		return u.nextPeriod(start, loc).Add(-time.Millisecond)
	}
	return start
}

// PreviousStandardDate returns the latest tick instant of unit, anchored at
// pos, that is not after t.
func PreviousStandardDate(t time.Time, unit Unit, pos TickMarkPosition, loc *time.Location) time.Time {
	start := periodOf(t, unit, pos, loc)
	return unit.anchor(start, pos, loc)
}

// NextStandardDate returns the tick instant following
// PreviousStandardDate(t, unit, pos, loc).  It is always after t.
func NextStandardDate(t time.Time, unit Unit, pos TickMarkPosition, loc *time.Location) time.Time {
	start := periodOf(t, unit, pos, loc)
	return unit.anchor(unit.nextPeriod(start, loc), pos, loc)
}

// periodOf returns the start of the period whose tick instant is the latest
// one not after t.
func periodOf(t time.Time, unit Unit, pos TickMarkPosition, loc *time.Location) time.Time {
	loc = orUTC(loc)
	start := unit.Floor(t, loc)
	if unit.anchor(start, pos, loc).After(t) {
		start = unit.prevPeriod(start, loc)
	}
	return start
}
