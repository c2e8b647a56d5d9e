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

// Package timeline maps instants onto a compressed 'timeline value' domain.
// A Timeline may exclude stretches of time such as weekends, so that a date
// axis drawn over it shows only the included periods contiguously.
//
// DefaultTimeline is the identity mapping: every instant is included, and its
// timeline value is its Unix millisecond count.  SegmentedTimeline divides
// time into fixed-size segments grouped into repeating cycles of included
// segments followed by excluded segments, for example:
//
//	weekdays := timeline.NewMondayThroughFriday(timeline.WithLocation(loc))
//	v := weekdays.ToTimelineValue(t)
//	back := weekdays.ToMillisecond(v)
//
// where back equals t if t falls on a weekday, and is the start of the
// following Monday otherwise.
package timeline

import (
	"errors"
	"time"
)

var (
	// ErrInvalidConfig is returned when a timeline is constructed with
	// unusable parameters.
	ErrInvalidConfig = errors.New("invalid timeline configuration")
	// ErrEmptyTimeline is returned when a timeline's effective pattern
	// includes no segments at all.
	ErrEmptyTimeline = errors.New("timeline includes no segments")
	// ErrPatternTooLarge is returned when the combined repeating pattern of a
	// timeline and its base timelines spans too many segments to tabulate.
	ErrPatternTooLarge = errors.New("combined timeline pattern is too large")
	// ErrBaseCycle is returned when a timeline would become its own base.
	ErrBaseCycle = errors.New("base timeline cycle")
	// ErrIncompatibleBase is returned when a base timeline is evaluated on a
	// different clock than the timeline it is attached to.
	ErrIncompatibleBase = errors.New("base timeline uses a different clock")
	// ErrNoBase is returned by operations requiring a base timeline when none
	// is set.
	ErrNoBase = errors.New("timeline has no base timeline")
	// ErrInvalidRange is returned when a range's end precedes its start.
	ErrInvalidRange = errors.New("range end precedes range start")
)

// Timeline is implemented by types that map instants to timeline values.
// ToTimelineValue and ToMillisecond are inverses over included instants.
type Timeline interface {
	// ToTimelineValue returns the timeline value of the provided instant.
	// Excluded instants map to the value of the next included instant.
	ToTimelineValue(t time.Time) int64
	// ToMillisecond returns the instant corresponding to the provided
	// timeline value.  The result is never an excluded instant.
	ToMillisecond(value int64) time.Time
	// ContainsDomainValue returns true if the provided instant is included.
	ContainsDomainValue(t time.Time) bool
	// ContainsDomainRange returns true if every instant in [from, to] is
	// included.  It returns an error if to precedes from.
	ContainsDomainRange(from, to time.Time) (bool, error)
}

// DefaultTimeline is a Timeline including all time.  Its timeline values are
// Unix milliseconds.
type DefaultTimeline struct{}

var _ Timeline = DefaultTimeline{}

// ToTimelineValue returns t's Unix millisecond count.
func (DefaultTimeline) ToTimelineValue(t time.Time) int64 {
	return t.UnixMilli()
}

// ToMillisecond returns the UTC instant at the provided Unix millisecond
// count.
func (DefaultTimeline) ToMillisecond(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// ContainsDomainValue always returns true.
func (DefaultTimeline) ContainsDomainValue(time.Time) bool {
	return true
}

// ContainsDomainRange returns true for any well-formed range.
func (DefaultTimeline) ContainsDomainRange(from, to time.Time) (bool, error) {
	if to.Before(from) {
		return false, ErrInvalidRange
	}
	return true, nil
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}

func ceilDiv(a, b int64) int64 {
	return -floorDiv(-a, b)
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
