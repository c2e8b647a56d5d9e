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
	"sort"
	"time"
)

// Units is an ordered collection of distinct Units, finest first.
type Units struct {
	units []Unit
}

// NewUnits returns a new Units collection holding the provided Units.
func NewUnits(units ...Unit) *Units {
	ret := &Units{}
	for _, u := range units {
		ret.Add(u)
	}
	return ret
}

// Add inserts unit into the receiver in order.  A Unit comparing equal to an
// existing member replaces it.
func (us *Units) Add(unit Unit) {
	idx := sort.Search(len(us.units), func(i int) bool {
		return us.units[i].Compare(unit) >= 0
	})
	if idx < len(us.units) && us.units[idx].Compare(unit) == 0 {
		us.units[idx] = unit
		return
	}
	us.units = append(us.units, Unit{})
	copy(us.units[idx+1:], us.units[idx:])
	us.units[idx] = unit
}

// Len returns the number of Units in the receiver.
func (us *Units) Len() int {
	return len(us.units)
}

// At returns the receiver's idx'th Unit.
func (us *Units) At(idx int) Unit {
	return us.units[idx]
}

// Index returns the index of unit within the receiver, or -1 if it is
// absent.
func (us *Units) Index(unit Unit) int {
	for idx, u := range us.units {
		if u.Compare(unit) == 0 {
			return idx
		}
	}
	return -1
}

// Ceiling returns the finest Unit whose nominal size is at least size.  If
// no Unit is that large, the coarsest is returned along with false.
func (us *Units) Ceiling(size time.Duration) (Unit, bool) {
	if len(us.units) == 0 {
		return Unit{}, false
	}
	for _, u := range us.units {
		if u.Size() >= size {
			return u, true
		}
	}
	return us.units[len(us.units)-1], false
}

// Larger returns the next Unit coarser than unit, or false if there is none.
func (us *Units) Larger(unit Unit) (Unit, bool) {
	for _, u := range us.units {
		if u.Compare(unit) > 0 {
			return u, true
		}
	}
	return Unit{}, false
}

// StandardUnits returns the standard chain of date tick Units, from 1
// millisecond to 100 years.
func StandardUnits() *Units {
	ret := &Units{}
	add := func(ut UnitType, layout string, rollType UnitType, roll int, multiples ...int) {
		for _, m := range multiples {
			ret.Add(NewUnit(ut, m).WithLayout(layout).WithRoll(rollType, roll))
		}
	}
	add(Millisecond, "15:04:05.000", Millisecond, 1, 1, 5, 10, 25, 50, 100, 250, 500)
	add(Second, "15:04:05", Second, 1, 1, 5, 10, 30)
	add(Minute, "15:04", Minute, 1, 1, 2, 5, 10, 15, 20, 30)
	add(Hour, "Jan 2 15:04", Minute, 15, 1, 2, 4, 6, 12)
	add(Day, "Jan 2", Hour, 1, 1, 2)
	add(Day, "Jan 2", Day, 1, 7, 15)
	add(Month, "Jan 2006", Day, 1, 1, 2, 3, 4, 6)
	add(Year, "2006", Month, 1, 1, 2, 5, 10, 25, 50, 100)
	return ret
}
