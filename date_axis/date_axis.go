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

// Package dateaxis computes the ticks of a date axis drawn over a timeline.
// An Axis spans a visible range of instants; its ticks fall on the standard
// dates of a datetick.Unit, either fixed or chosen automatically from a
// chain of standard units, and skip instants the axis' timeline excludes.
//
// Tick generation is bounded: an Axis gives up with ErrTooManyIterations
// rather than search indefinitely for visible tick instants.
package dateaxis

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ilhamster/tickline/category"
	datetick "github.com/ilhamster/tickline/date_tick"
	"github.com/ilhamster/tickline/timeline"
	"github.com/ilhamster/tickline/util"
)

const (
	axisTypeKey         = "axis_type"
	axisMinKey          = "axis_min"
	axisMaxKey          = "axis_max"
	axisTickUnitKey     = "axis_tick_unit"
	axisTickPositionKey = "axis_tick_position"

	tickTimeKey          = "tick_time"
	tickLabelKey         = "tick_label"
	tickTimelineValueKey = "tick_timeline_value"
	tickFractionKey      = "tick_fraction"
	tickMinorKey         = "tick_minor"

	timestampAxisType = "timestamp"
)

// Defaults for Axis options.
const (
	DefaultMaxTicks      = 10
	DefaultMaxIterations = 100000
)

var (
	// ErrTooManyIterations is returned when tick generation does not finish
	// within the axis' iteration bound.
	ErrTooManyIterations = errors.New("tick generation exceeded its iteration bound")
	// ErrInvalidRange is returned when an axis' maximum precedes its minimum.
	ErrInvalidRange = errors.New("axis maximum precedes its minimum")
)

// Tick is a single tick mark on a date axis.  Minor ticks are unlabelled.
type Tick struct {
	Value time.Time
	Label string
	Minor bool
}

// Axis is a date axis over a timeline.
type Axis struct {
	cat            *category.Category
	min, max       time.Time
	unit           datetick.Unit
	autoUnit       bool
	units          *datetick.Units
	maxTicks       int
	pos            datetick.TickMarkPosition
	tl             timeline.Timeline
	loc            *time.Location
	minorTickCount int
	maxIterations  int
}

// Option configures an Axis.
type Option func(a *Axis)

// WithUnit fixes the axis' tick unit, disabling automatic unit selection.
func WithUnit(unit datetick.Unit) Option {
	return func(a *Axis) {
		a.unit = unit
		a.autoUnit = false
	}
}

// WithStandardUnits sets the chain of units from which the tick unit is
// automatically selected.  It defaults to datetick.StandardUnits().
func WithStandardUnits(units *datetick.Units) Option {
	return func(a *Axis) {
		a.units = units
		a.autoUnit = true
	}
}

// WithMaxTicks sets the approximate maximum number of major ticks an
// automatically selected unit may produce.
func WithMaxTicks(maxTicks int) Option {
	return func(a *Axis) {
		a.maxTicks = maxTicks
	}
}

// WithTickMarkPosition sets the anchor of ticks within their periods.
func WithTickMarkPosition(pos datetick.TickMarkPosition) Option {
	return func(a *Axis) {
		a.pos = pos
	}
}

// WithTimeline sets the timeline the axis is drawn over.  It defaults to
// timeline.DefaultTimeline.
func WithTimeline(tl timeline.Timeline) Option {
	return func(a *Axis) {
		a.tl = tl
	}
}

// WithLocation sets the location in which tick instants are computed and
// labelled.  It defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(a *Axis) {
		a.loc = loc
	}
}

// WithMinorTickCount requests that each gap between major ticks be divided
// into count parts by minor ticks.  Counts below 2 produce no minor ticks.
func WithMinorTickCount(count int) Option {
	return func(a *Axis) {
		a.minorTickCount = count
	}
}

// WithMaxIterations bounds the work done generating ticks.
func WithMaxIterations(maxIterations int) Option {
	return func(a *Axis) {
		a.maxIterations = maxIterations
	}
}

// New returns a new Axis with the provided category, spanning [min, max].
func New(cat *category.Category, min, max time.Time, opts ...Option) (*Axis, error) {
	if max.Before(min) {
		return nil, fmt.Errorf("%w: [%s, %s]", ErrInvalidRange, min, max)
	}
	a := &Axis{
		cat:           cat,
		min:           min,
		max:           max,
		autoUnit:      true,
		maxTicks:      DefaultMaxTicks,
		pos:           datetick.Start,
		tl:            timeline.DefaultTimeline{},
		loc:           time.UTC,
		maxIterations: DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.units == nil {
		a.units = datetick.StandardUnits()
	}
	if a.maxTicks < 1 {
		a.maxTicks = 1
	}
	if a.loc == nil {
		a.loc = time.UTC
	}
	if a.tl == nil {
		a.tl = timeline.DefaultTimeline{}
	}
	return a, nil
}

// withRange returns a copy of the receiver spanning [min, max].
func (a *Axis) withRange(min, max time.Time) *Axis {
	ret := *a
	ret.min, ret.max = min, max
	return &ret
}

// Min returns the earliest visible instant.
func (a *Axis) Min() time.Time {
	return a.min
}

// Max returns the latest visible instant.
func (a *Axis) Max() time.Time {
	return a.max
}

// CategoryID returns the category ID of the receiver.
func (a *Axis) CategoryID() string {
	return a.cat.ID()
}

// Timeline returns the timeline the receiver is drawn over.
func (a *Axis) Timeline() timeline.Timeline {
	return a.tl
}

// Location returns the location in which the receiver's ticks are computed.
func (a *Axis) Location() *time.Location {
	return a.loc
}

// span returns the timeline length of the visible range, in milliseconds.
func (a *Axis) span() int64 {
	return a.tl.ToTimelineValue(a.max) - a.tl.ToTimelineValue(a.min)
}

// SelectUnit returns the receiver's tick unit.  An automatically selected
// unit is the finest standard unit producing at most about maxTicks major
// ticks over the visible timeline length.
func (a *Axis) SelectUnit() datetick.Unit {
	if !a.autoUnit {
		return a.unit
	}
	// Divide before converting, since a span of centuries overflows a
	// time.Duration.
	perTick := a.span() / int64(a.maxTicks)
	if perTick > int64(math.MaxInt64/time.Millisecond) {
		perTick = int64(math.MaxInt64 / time.Millisecond)
	}
	unit, _ := a.units.Ceiling(time.Duration(perTick) * time.Millisecond)
	return unit
}

// LowestVisibleTick returns the first standard date of the receiver's unit
// at or after its minimum.
func (a *Axis) LowestVisibleTick() time.Time {
	unit := a.SelectUnit()
	prev := datetick.PreviousStandardDate(a.min, unit, a.pos, a.loc)
	if prev.Before(a.min) {
		return datetick.NextStandardDate(a.min, unit, a.pos, a.loc)
	}
	return prev
}

// HighestVisibleTick returns the last standard date of the receiver's unit
// at or before its maximum.
func (a *Axis) HighestVisibleTick() time.Time {
	return datetick.PreviousStandardDate(a.max, a.SelectUnit(), a.pos, a.loc)
}

// Fraction returns the position of t along the receiver, with its minimum at
// 0 and its maximum at 1, measured in timeline values.
func (a *Axis) Fraction(t time.Time) float64 {
	span := a.span()
	if span == 0 {
		return 0
	}
	return float64(a.tl.ToTimelineValue(t)-a.tl.ToTimelineValue(a.min)) / float64(span)
}

// FromFraction returns the instant at the provided fraction along the
// receiver.  It is the inverse of Fraction for included instants, to
// millisecond precision.
func (a *Axis) FromFraction(f float64) time.Time {
	value := a.tl.ToTimelineValue(a.min) + int64(math.Round(f*float64(a.span())))
	return a.tl.ToMillisecond(value).In(a.loc)
}

// counter enforces an iteration bound.
type counter struct {
	n, max int
}

func (c *counter) step() error {
	c.n++
	if c.n > c.max {
		return fmt.Errorf("%w (%d)", ErrTooManyIterations, c.max)
	}
	return nil
}

// Ticks returns the receiver's ticks in increasing order.  Major ticks fall
// on the standard dates of the receiver's unit within its range.  A standard
// date the timeline excludes is rolled forward to the first included instant
// before the next standard date, or dropped if there is none.
func (a *Axis) Ticks() ([]Tick, error) {
	unit := a.SelectUnit()
	c := &counter{max: a.maxIterations}
	majors := []time.Time{}
	for at := a.LowestVisibleTick(); !at.After(a.max); {
		if err := c.step(); err != nil {
			return nil, err
		}
		next := datetick.NextStandardDate(at, unit, a.pos, a.loc)
		visible := at
		for !a.tl.ContainsDomainValue(visible) {
			if err := c.step(); err != nil {
				return nil, err
			}
			visible = unit.Roll(visible, a.loc)
			if !visible.Before(next) || visible.After(a.max) {
				break
			}
		}
		if visible.Before(next) && !visible.After(a.max) && a.tl.ContainsDomainValue(visible) {
			majors = append(majors, visible)
		}
		at = next
	}
	ret := make([]Tick, 0, len(majors))
	for idx, major := range majors {
		ret = append(ret, Tick{
			Value: major.In(a.loc),
			Label: unit.Format(major, a.loc),
		})
		if a.minorTickCount < 2 || idx == len(majors)-1 {
			continue
		}
		from := a.tl.ToTimelineValue(major)
		to := a.tl.ToTimelineValue(majors[idx+1])
		for i := 1; i < a.minorTickCount; i++ {
			if err := c.step(); err != nil {
				return nil, err
			}
			minor := a.tl.ToMillisecond(from + (to-from)*int64(i)/int64(a.minorTickCount))
			if minor.After(major) && minor.Before(majors[idx+1]) {
				ret = append(ret, Tick{
					Value: minor.In(a.loc),
					Minor: true,
				})
			}
		}
	}
	return ret, nil
}

// Value returns a PropertyUpdate setting key to the provided instant.
func (a *Axis) Value(key string, t time.Time) util.PropertyUpdate {
	return util.TimestampProperty(key, t)
}

// Define annotates with a definition of the receiver.
func (a *Axis) Define() util.PropertyUpdate {
	return util.Chain(
		a.cat.Define(),
		util.StringProperty(axisTypeKey, timestampAxisType),
		a.Value(axisMinKey, a.min),
		a.Value(axisMaxKey, a.max),
		util.StringProperty(axisTickUnitKey, a.SelectUnit().String()),
		util.StringProperty(axisTickPositionKey, a.pos.String()),
	)
}

// WithTicks appends one child to db per tick of the receiver.
func (a *Axis) WithTicks(db util.DataBuilder) error {
	ticks, err := a.Ticks()
	if err != nil {
		return err
	}
	for _, tick := range ticks {
		db.Child().With(
			a.Value(tickTimeKey, tick.Value),
			util.If(!tick.Minor, util.StringProperty(tickLabelKey, tick.Label)),
			util.If(tick.Minor, util.IntegerProperty(tickMinorKey, 1)),
			util.IntegerProperty(tickTimelineValueKey, a.tl.ToTimelineValue(tick.Value)),
			util.DoubleProperty(tickFractionKey, a.Fraction(tick.Value)),
		)
	}
	return nil
}
