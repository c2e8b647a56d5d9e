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
	"time"
)

// maxExceptionSegments bounds the number of segments a single exception
// range may cover.
const maxExceptionSegments = maxPatternSegments

// addSegments records segments first through last in spans.
func (tl *SegmentedTimeline) addSegments(spans *[]span, first, last int64) {
	*spans = append(*spans, span{
		from: tl.segmentStart(first),
		to:   tl.segmentStart(last+1) - 1,
	})
	tl.touch()
}

// segmentRange returns the numbers of the first and last segments
// overlapping [from, to].
func (tl *SegmentedTimeline) segmentRange(from, to time.Time) (first, last int64, err error) {
	if to.Before(from) {
		return 0, 0, fmt.Errorf("%w: %s < %s", ErrInvalidRange, to, from)
	}
	first = tl.segmentIndex(tl.adjust(from))
	last = tl.segmentIndex(tl.adjust(to))
	if last-first >= maxExceptionSegments {
		return 0, 0, fmt.Errorf("%w: exception range covers %d segments", ErrPatternTooLarge, last-first+1)
	}
	return first, last, nil
}

// AddException excludes the segment containing t.
func (tl *SegmentedTimeline) AddException(t time.Time) {
	k := tl.segmentIndex(tl.adjust(t))
	tl.addSegments(&tl.exceptions, k, k)
}

// AddExceptions excludes the segments containing each of ts.
func (tl *SegmentedTimeline) AddExceptions(ts ...time.Time) {
	for _, t := range ts {
		tl.AddException(t)
	}
}

// AddExceptionRange excludes every segment overlapping [from, to].
func (tl *SegmentedTimeline) AddExceptionRange(from, to time.Time) error {
	first, last, err := tl.segmentRange(from, to)
	if err != nil {
		return err
	}
	tl.addSegments(&tl.exceptions, first, last)
	return nil
}

// AddInclusion includes the segment containing t, even if the receiver's
// segment groups exclude it.  Base timelines must still include it.  An
// exception excluding the same segment takes precedence.
func (tl *SegmentedTimeline) AddInclusion(t time.Time) {
	k := tl.segmentIndex(tl.adjust(t))
	tl.addSegments(&tl.inclusions, k, k)
}

// AddInclusions includes the segments containing each of ts.
func (tl *SegmentedTimeline) AddInclusions(ts ...time.Time) {
	for _, t := range ts {
		tl.AddInclusion(t)
	}
}

// AddInclusionRange includes every segment overlapping [from, to].
func (tl *SegmentedTimeline) AddInclusionRange(from, to time.Time) error {
	first, last, err := tl.segmentRange(from, to)
	if err != nil {
		return err
	}
	tl.addSegments(&tl.inclusions, first, last)
	return nil
}

// AddBaseTimelineException excludes, from the receiver, every segment
// starting within the base timeline segment containing t.  This lets a
// whole base segment, such as a holiday in a weekday base, be excluded from
// a finer-grained timeline.
func (tl *SegmentedTimeline) AddBaseTimelineException(t time.Time) error {
	if tl.base == nil {
		return ErrNoBase
	}
	bs := tl.base.Segment(t)
	first := ceilDiv(tl.adjust(bs.Start)-tl.startMillis, tl.segmentSize)
	last := floorDiv(tl.adjust(bs.End)-tl.startMillis, tl.segmentSize)
	if last < first {
		return nil
	}
	tl.addSegments(&tl.exceptions, first, last)
	return nil
}

func (tl *SegmentedTimeline) segmentsIn(spans []span) []Segment {
	ret := []Segment{}
	for _, s := range mergeSpans(spans) {
		first := tl.segmentIndex(s.from)
		last := tl.segmentIndex(s.to)
		for k := first; k <= last; k++ {
			ret = append(ret, tl.SegmentAt(k))
		}
	}
	return ret
}

// ExceptionSegments returns the receiver's own excluding exception segments,
// in order.
func (tl *SegmentedTimeline) ExceptionSegments() []Segment {
	return tl.segmentsIn(tl.exceptions)
}

// InclusionSegments returns the receiver's own including exception segments,
// in order.
func (tl *SegmentedTimeline) InclusionSegments() []Segment {
	return tl.segmentsIn(tl.inclusions)
}

// ExceptionSegmentCount returns the number of segments between the segments
// containing from and to, inclusive, whose inclusion an exception of the
// receiver or its bases changes from what the segment pattern alone gives.
func (tl *SegmentedTimeline) ExceptionSegmentCount(from, to time.Time) int64 {
	if to.Before(from) {
		return 0
	}
	o := tl.overrides()
	first := tl.segmentIndex(tl.adjust(from))
	end := tl.segmentIndex(tl.adjust(to)) + 1
	return lowerBound(o.removed, end) - lowerBound(o.removed, first) +
		lowerBound(o.added, end) - lowerBound(o.added, first)
}

// overrides lists, in increasing order, the segments whose inclusion
// differs from the segment pattern once exceptions are applied.
type overrides struct {
	removed []int64
	added   []int64
}

// between returns the number of entries of sorted in [0, k), negated for
// entries in [k, 0) when k is negative.
func between(sorted []int64, k int64) int64 {
	return lowerBound(sorted, k) - lowerBound(sorted, 0)
}

func contains(sorted []int64, k int64) bool {
	idx := lowerBound(sorted, k)
	return idx < int64(len(sorted)) && sorted[idx] == k
}

// exceptionLevel holds one timeline's merged exceptions, for evaluating its
// own inclusion decision at an adjusted millisecond.
type exceptionLevel struct {
	tl         *SegmentedTimeline
	exceptions []span
	inclusions []span
}

func spansContain(merged []span, ms int64) bool {
	idx := sort.Search(len(merged), func(i int) bool {
		return merged[i].to >= ms
	})
	return idx < len(merged) && merged[idx].from <= ms
}

func (lv exceptionLevel) includes(ms int64) bool {
	if spansContain(lv.exceptions, ms) {
		return false
	}
	return spansContain(lv.inclusions, ms) || lv.tl.groupIncludes(ms)
}

// overrides returns the receiver's overridden segments, recomputing them if
// the receiver or any of its bases has changed.  A segment is included when
// every timeline in the base chain includes its start: each by its own
// exceptions first, then by its segment groups.
func (tl *SegmentedTimeline) overrides() *overrides {
	if tl.over != nil && tl.overStamp == tl.stamp() {
		return tl.over
	}
	var levels []exceptionLevel
	var all []span
	for b := tl; b != nil; b = b.base {
		levels = append(levels, exceptionLevel{
			tl:         b,
			exceptions: mergeSpans(b.exceptions),
			inclusions: mergeSpans(b.inclusions),
		})
		all = append(all, b.exceptions...)
		all = append(all, b.inclusions...)
	}
	o := &overrides{removed: []int64{}, added: []int64{}}
	for _, s := range mergeSpans(all) {
		first := ceilDiv(s.from-tl.startMillis, tl.segmentSize)
		last := floorDiv(s.to-tl.startMillis, tl.segmentSize)
		for k := first; k <= last; k++ {
			ms := tl.segmentStart(k)
			included := true
			for _, lv := range levels {
				if !lv.includes(ms) {
					included = false
					break
				}
			}
			switch patterned := tl.pat.included(k); {
			case patterned && !included:
				o.removed = append(o.removed, k)
			case !patterned && included:
				o.added = append(o.added, k)
			}
		}
	}
	tl.over = o
	tl.overStamp = tl.stamp()
	return o
}
