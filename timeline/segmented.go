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
	"fmt"
	"sort"
	"sync/atomic"
	"time"
)

// versions issues strictly increasing modification stamps across all
// timelines.
var versions atomic.Uint64

// Common segment sizes.
const (
	DaySegmentSize           = 24 * time.Hour
	HourSegmentSize          = time.Hour
	FifteenMinuteSegmentSize = 15 * time.Minute
	MinuteSegmentSize        = time.Minute
)

// Segment is a single segment of a SegmentedTimeline.  Start and End are the
// first and last included milliseconds of the segment.
type Segment struct {
	Number     int64
	Start, End time.Time
}

// Contains returns true if t falls within the receiving Segment.
func (s Segment) Contains(t time.Time) bool {
	return !t.Before(s.Start) && !t.After(s.End)
}

// span is an inclusive range of adjusted milliseconds.
type span struct {
	from, to int64
}

// SegmentedTimeline is a Timeline made of fixed-size segments arranged in
// repeating groups: segmentsIncluded included segments followed by
// segmentsExcluded excluded ones, starting at the timeline's start time.
// Individual segments may additionally be excluded or included as
// exceptions, and a base timeline may further restrict which segments are
// included.
//
// The segment arithmetic runs on 'adjusted' milliseconds.  Without daylight
// saving adjustment these are plain Unix milliseconds.  With it, they are the
// wall-clock reading in the timeline's location, re-expressed in a fixed zone
// at that location's standard offset, so that a day segment always spans
// local midnight to local midnight.
//
// A SegmentedTimeline's exceptions are mutable and it is not safe for
// concurrent use.
type SegmentedTimeline struct {
	segmentSize      int64
	segmentsIncluded int64
	segmentsExcluded int64

	start       time.Time
	startMillis int64
	rawStart    bool
	loc         *time.Location
	noDST       *time.Location
	adjustDST   bool

	base       *SegmentedTimeline
	pat        *pattern
	exceptions []span
	inclusions []span
	version    uint64

	// Valid while overStamp matches stamp().
	over      *overrides
	overStamp uint64
}

var _ Timeline = &SegmentedTimeline{}

// Option configures a SegmentedTimeline at construction.
type Option func(*SegmentedTimeline)

// WithStartTime sets the start of the timeline's first segment group.  It
// defaults to FirstMondayAfter1900 in the timeline's location.
func WithStartTime(start time.Time) Option {
	return func(tl *SegmentedTimeline) {
		tl.start = start
		tl.rawStart = false
	}
}

// withAdjustedStart sets the start time directly in adjusted milliseconds.
func withAdjustedStart(ms int64) Option {
	return func(tl *SegmentedTimeline) {
		tl.startMillis = ms
		tl.rawStart = true
	}
}

// WithLocation sets the location whose wall clock the timeline follows.  It
// defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(tl *SegmentedTimeline) {
		tl.loc = loc
	}
}

// WithDaylightSavingAdjustment makes the timeline's segments follow the wall
// clock of its location across daylight saving transitions.
func WithDaylightSavingAdjustment() Option {
	return func(tl *SegmentedTimeline) {
		tl.adjustDST = true
	}
}

// New returns a new SegmentedTimeline with the provided segment size and
// counts of included and excluded segments per group.
func New(segmentSize time.Duration, segmentsIncluded, segmentsExcluded int, opts ...Option) (*SegmentedTimeline, error) {
	if segmentSize < time.Millisecond || segmentSize%time.Millisecond != 0 {
		return nil, fmt.Errorf("%w: segment size %s must be a positive whole number of milliseconds", ErrInvalidConfig, segmentSize)
	}
	if segmentsIncluded <= 0 {
		return nil, fmt.Errorf("%w: included segment count %d must be positive", ErrInvalidConfig, segmentsIncluded)
	}
	if segmentsExcluded < 0 {
		return nil, fmt.Errorf("%w: excluded segment count %d must not be negative", ErrInvalidConfig, segmentsExcluded)
	}
	if int64(segmentsIncluded)+int64(segmentsExcluded) > maxPatternSegments {
		return nil, fmt.Errorf("%w: %d segments per group", ErrPatternTooLarge, segmentsIncluded+segmentsExcluded)
	}
	tl := &SegmentedTimeline{
		segmentSize:      segmentSize.Milliseconds(),
		segmentsIncluded: int64(segmentsIncluded),
		segmentsExcluded: int64(segmentsExcluded),
		loc:              time.UTC,
	}
	for _, opt := range opts {
		opt(tl)
	}
	if tl.loc == nil {
		tl.loc = time.UTC
	}
	tl.noDST = StandardZone(tl.loc)
	switch {
	case tl.rawStart:
		tl.start = tl.unadjust(tl.startMillis)
	case tl.start.IsZero():
		// Already expressed in the standard zone, so its adjusted form is its
		// Unix millisecond count.
		tl.startMillis = FirstMondayAfter1900(tl.loc).UnixMilli()
		tl.start = tl.unadjust(tl.startMillis)
	default:
		tl.startMillis = tl.adjust(tl.start)
	}
	pat, err := newPattern(tl, nil)
	if err != nil {
		return nil, err
	}
	tl.pat = pat
	return tl, nil
}

// StandardZone returns a fixed zone at loc's standard (non-daylight-saving)
// offset.
func StandardZone(loc *time.Location) *time.Location {
	if loc == nil {
		loc = time.UTC
	}
	_, jan := time.Date(2020, time.January, 1, 0, 0, 0, 0, loc).Zone()
	_, jul := time.Date(2020, time.July, 1, 0, 0, 0, 0, loc).Zone()
	offset := jan
	if jul < offset {
		offset = jul
	}
	return time.FixedZone(fmt.Sprintf("%s-standard", loc.String()), offset)
}

// FirstMondayAfter1900 returns midnight of the first Monday on or after
// January 1, 1900, in loc's standard zone.
func FirstMondayAfter1900(loc *time.Location) time.Time {
	t := time.Date(1900, time.January, 1, 0, 0, 0, 0, StandardZone(loc))
	for t.Weekday() != time.Monday {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// NewMondayThroughFriday returns a timeline of day segments including Monday
// through Friday.
func NewMondayThroughFriday(opts ...Option) *SegmentedTimeline {
	tl, err := New(DaySegmentSize, 5, 2, opts...)
	if err != nil {
		panic(fmt.Sprintf("bad Monday-through-Friday timeline: %s", err))
	}
	return tl
}

// NewFifteenMinute returns a timeline of fifteen-minute segments including
// 9:00 to 16:00 on Monday through Friday.
func NewFifteenMinute(opts ...Option) *SegmentedTimeline {
	tl, err := NewBusinessHours(9*time.Hour, 16*time.Hour, FifteenMinuteSegmentSize, opts...)
	if err != nil {
		panic(fmt.Sprintf("bad fifteen-minute timeline: %s", err))
	}
	return tl
}

// NewBusinessHours returns a timeline including the hours between open and
// close, measured from local midnight, on Monday through Friday, with the
// provided segment size.  Any WithStartTime option is ignored.
func NewBusinessHours(open, close, segmentSize time.Duration, opts ...Option) (*SegmentedTimeline, error) {
	if segmentSize <= 0 || DaySegmentSize%segmentSize != 0 {
		return nil, fmt.Errorf("%w: segment size %s must evenly divide a day", ErrInvalidConfig, segmentSize)
	}
	if open < 0 || close > DaySegmentSize || close <= open {
		return nil, fmt.Errorf("%w: business hours [%s, %s) out of range", ErrInvalidConfig, open, close)
	}
	if open%segmentSize != 0 || close%segmentSize != 0 {
		return nil, fmt.Errorf("%w: business hours [%s, %s) must align to %s segments", ErrInvalidConfig, open, close, segmentSize)
	}
	weekdays := NewMondayThroughFriday(append(opts, WithStartTime(time.Time{}))...)
	included := int((close - open) / segmentSize)
	excluded := int(DaySegmentSize/segmentSize) - included
	tl, err := New(segmentSize, included, excluded,
		append(opts, withAdjustedStart(weekdays.startMillis+open.Milliseconds()))...)
	if err != nil {
		return nil, err
	}
	if err := tl.SetBaseTimeline(weekdays); err != nil {
		return nil, err
	}
	return tl, nil
}

// SegmentSize returns the receiver's segment size.
func (tl *SegmentedTimeline) SegmentSize() time.Duration {
	return time.Duration(tl.segmentSize) * time.Millisecond
}

// SegmentsIncluded returns the number of included segments per group.
func (tl *SegmentedTimeline) SegmentsIncluded() int {
	return int(tl.segmentsIncluded)
}

// SegmentsExcluded returns the number of excluded segments per group.
func (tl *SegmentedTimeline) SegmentsExcluded() int {
	return int(tl.segmentsExcluded)
}

// GroupSegmentCount returns the number of segments per group.
func (tl *SegmentedTimeline) GroupSegmentCount() int {
	return int(tl.segmentsIncluded + tl.segmentsExcluded)
}

// StartTime returns the start of the receiver's first segment group.
func (tl *SegmentedTimeline) StartTime() time.Time {
	return tl.start
}

// Location returns the location whose wall clock the receiver follows.
func (tl *SegmentedTimeline) Location() *time.Location {
	return tl.loc
}

// AdjustsForDaylightSaving returns true if the receiver follows its
// location's wall clock across daylight saving transitions.
func (tl *SegmentedTimeline) AdjustsForDaylightSaving() bool {
	return tl.adjustDST
}

// BaseTimeline returns the receiver's base timeline, or nil.
func (tl *SegmentedTimeline) BaseTimeline() *SegmentedTimeline {
	return tl.base
}

// SetBaseTimeline sets the receiver's base timeline.  Once set, an instant is
// included only if both the receiver and base include it.  A nil base clears
// the base timeline.  On error the receiver is unchanged.
//
// The base's segment pattern is captured when it is set, so a later change
// to the base's own base timeline requires setting it again.  Exceptions
// added to the base are always honored.
func (tl *SegmentedTimeline) SetBaseTimeline(base *SegmentedTimeline) error {
	if base != nil {
		for b := base; b != nil; b = b.base {
			if b == tl {
				return ErrBaseCycle
			}
		}
		if base.adjustDST != tl.adjustDST || base.noDST.String() != tl.noDST.String() {
			return ErrIncompatibleBase
		}
	}
	pat, err := newPattern(tl, base)
	if err != nil {
		return err
	}
	tl.base = base
	tl.pat = pat
	tl.touch()
	return nil
}

// adjust converts an instant to the receiver's adjusted milliseconds.
func (tl *SegmentedTimeline) adjust(t time.Time) int64 {
	if !tl.adjustDST {
		return t.UnixMilli()
	}
	w := t.In(tl.loc)
	return time.Date(w.Year(), w.Month(), w.Day(), w.Hour(), w.Minute(), w.Second(), w.Nanosecond(), tl.noDST).UnixMilli()
}

// unadjust converts adjusted milliseconds back to an instant.
func (tl *SegmentedTimeline) unadjust(ms int64) time.Time {
	if !tl.adjustDST {
		return time.UnixMilli(ms).In(tl.loc)
	}
	w := time.UnixMilli(ms).In(tl.noDST)
	return time.Date(w.Year(), w.Month(), w.Day(), w.Hour(), w.Minute(), w.Second(), w.Nanosecond(), tl.loc)
}

func (tl *SegmentedTimeline) segmentIndex(ms int64) int64 {
	return floorDiv(ms-tl.startMillis, tl.segmentSize)
}

func (tl *SegmentedTimeline) segmentStart(k int64) int64 {
	return tl.startMillis + k*tl.segmentSize
}

// groupIncludes returns true if the receiver's own segment groups, ignoring
// its base and exceptions, include the segment containing the adjusted
// millisecond ms.
func (tl *SegmentedTimeline) groupIncludes(ms int64) bool {
	return floorMod(tl.segmentIndex(ms), tl.segmentsIncluded+tl.segmentsExcluded) < tl.segmentsIncluded
}

// patternContains returns true if the receiver's pattern, ignoring
// exceptions, includes the segment containing the adjusted millisecond ms.
func (tl *SegmentedTimeline) patternContains(ms int64) bool {
	return tl.pat.included(tl.segmentIndex(ms))
}

// Segment returns the segment containing t.
func (tl *SegmentedTimeline) Segment(t time.Time) Segment {
	return tl.SegmentAt(tl.segmentIndex(tl.adjust(t)))
}

// SegmentAt returns the segment with the provided number.  Segment 0 begins
// at the receiver's start time.
func (tl *SegmentedTimeline) SegmentAt(number int64) Segment {
	start := tl.segmentStart(number)
	return Segment{
		Number: number,
		Start:  tl.unadjust(start),
		End:    tl.unadjust(start + tl.segmentSize - 1),
	}
}

func (tl *SegmentedTimeline) touch() {
	tl.version = versions.Add(1)
}

// stamp increases whenever the receiver or any of its bases changes.
func (tl *SegmentedTimeline) stamp() uint64 {
	var s uint64
	for b := tl; b != nil; b = b.base {
		if b.version > s {
			s = b.version
		}
	}
	return s
}

// lowerBound returns the number of entries in sorted less than v.
func lowerBound(sorted []int64, v int64) int64 {
	return int64(sort.Search(len(sorted), func(i int) bool {
		return sorted[i] >= v
	}))
}

// includedBefore returns the number of included segments in [0, k), or the
// negated number of included segments in [k, 0) for negative k.
func (tl *SegmentedTimeline) includedBefore(k int64) int64 {
	o := tl.overrides()
	return tl.pat.rank(k) - between(o.removed, k) + between(o.added, k)
}

// includedSegment returns true if segment k is included.
func (tl *SegmentedTimeline) includedSegment(k int64) bool {
	o := tl.overrides()
	if tl.pat.included(k) {
		return !contains(o.removed, k)
	}
	return contains(o.added, k)
}

// IncludedSegment returns true if the segment with the provided number is
// included.
func (tl *SegmentedTimeline) IncludedSegment(number int64) bool {
	return tl.includedSegment(number)
}

// ToTimelineValue returns the timeline value of t: the number of included
// milliseconds between the receiver's start time and t.  If t is excluded,
// the value of the start of the next included segment is returned.
//
// With daylight saving adjustment, the two passes through a repeated
// fall-back hour share their wall-clock readings and so map to the same
// values; ToMillisecond returns the first of them.
func (tl *SegmentedTimeline) ToTimelineValue(t time.Time) int64 {
	ms := tl.adjust(t)
	k := tl.segmentIndex(ms)
	value := tl.includedBefore(k) * tl.segmentSize
	if tl.includedSegment(k) {
		value += ms - tl.segmentStart(k)
	}
	return value
}

// ToMillisecond returns the instant whose timeline value is value.
func (tl *SegmentedTimeline) ToMillisecond(value int64) time.Time {
	q, off := floorDiv(value, tl.segmentSize), floorMod(value, tl.segmentSize)
	o := tl.overrides()
	// The wanted segment is the first k with includedBefore(k+1) > q.
	// includedBefore differs from the pattern rank by at most d, which
	// bounds the search.
	d := int64(len(o.removed) + len(o.added))
	lo, hi := tl.pat.kth(q-d-1), tl.pat.kth(q+d)
	for lo < hi {
		mid := lo + (hi-lo)/2
		if tl.includedBefore(mid+1) > q {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return tl.unadjust(tl.segmentStart(lo) + off)
}

// ContainsDomainValue returns true if t is included.
func (tl *SegmentedTimeline) ContainsDomainValue(t time.Time) bool {
	return tl.includedSegment(tl.segmentIndex(tl.adjust(t)))
}

// ContainsDomainRange returns true if every segment overlapping [from, to] is
// included.
func (tl *SegmentedTimeline) ContainsDomainRange(from, to time.Time) (bool, error) {
	if to.Before(from) {
		return false, fmt.Errorf("%w: %s < %s", ErrInvalidRange, to, from)
	}
	first := tl.segmentIndex(tl.adjust(from))
	last := tl.segmentIndex(tl.adjust(to))
	return tl.includedBefore(last+1)-tl.includedBefore(first) == last-first+1, nil
}

func mergeSpans(spans []span) []span {
	if len(spans) == 0 {
		return nil
	}
	sorted := make([]span, len(spans))
	copy(sorted, spans)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].from < sorted[j].from
	})
	ret := []span{sorted[0]}
	for _, s := range sorted[1:] {
		last := &ret[len(ret)-1]
		if s.from <= last.to+1 {
			if s.to > last.to {
				last.to = s.to
			}
			continue
		}
		ret = append(ret, s)
	}
	return ret
}

// Equal returns true if the receiver and other have the same configuration,
// equal base timelines, and the same exceptions of both kinds.
func (tl *SegmentedTimeline) Equal(other *SegmentedTimeline) bool {
	if tl == nil || other == nil {
		return tl == other
	}
	if tl.segmentSize != other.segmentSize ||
		tl.segmentsIncluded != other.segmentsIncluded ||
		tl.segmentsExcluded != other.segmentsExcluded ||
		tl.startMillis != other.startMillis ||
		tl.adjustDST != other.adjustDST ||
		tl.loc.String() != other.loc.String() {
		return false
	}
	if !tl.base.Equal(other.base) {
		return false
	}
	return equalSpans(tl.exceptions, other.exceptions) && equalSpans(tl.inclusions, other.inclusions)
}

func equalSpans(x, y []span) bool {
	a, b := mergeSpans(x), mergeSpans(y)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
