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
)

// maxPatternSegments bounds the number of segments tabulated for a combined
// timeline-and-base pattern.
const maxPatternSegments = 1 << 20

// pattern describes which segments a timeline includes, ignoring exceptions.
// The inclusion of segment k depends only on k mod period, and each period
// holds perPeriod included segments.  Segment 0 starts at the timeline's
// start time.
//
// When prefix is nil, the first perPeriod segments of each period are the
// included ones.  Otherwise prefix[i] is the number of included segments in
// [0, i) within a period, and len(prefix) == period+1.
type pattern struct {
	period    int64
	perPeriod int64
	prefix    []int64
}

func (p *pattern) prefixAt(m int64) int64 {
	if p.prefix == nil {
		if m < p.perPeriod {
			return m
		}
		return p.perPeriod
	}
	return p.prefix[m]
}

// included returns true if segment k is included by the pattern.
func (p *pattern) included(k int64) bool {
	m := floorMod(k, p.period)
	if p.prefix == nil {
		return m < p.perPeriod
	}
	return p.prefix[m+1] != p.prefix[m]
}

// rank returns the number of included segments in [0, k).  For negative k it
// is the negated number of included segments in [k, 0).
func (p *pattern) rank(k int64) int64 {
	return floorDiv(k, p.period)*p.perPeriod + p.prefixAt(floorMod(k, p.period))
}

// kth returns the included segment whose rank is r.
func (p *pattern) kth(r int64) int64 {
	cycle, m := floorDiv(r, p.perPeriod), floorMod(r, p.perPeriod)
	idx := m
	if p.prefix != nil {
		idx = int64(sort.Search(int(p.period), func(i int) bool {
			return p.prefix[i+1] > m
		}))
	}
	return cycle*p.period + idx
}

// periodMillis returns the length of one pattern period in milliseconds, for
// a timeline with the provided segment size.
func (p *pattern) periodMillis(segmentSize int64) int64 {
	return p.period * segmentSize
}

// newPattern tabulates the pattern of tl, combined with its base timeline
// if it has one.
func newPattern(tl *SegmentedTimeline, base *SegmentedTimeline) (*pattern, error) {
	group := tl.segmentsIncluded + tl.segmentsExcluded
	if base == nil {
		return &pattern{
			period:    group,
			perPeriod: tl.segmentsIncluded,
		}, nil
	}
	groupMillis := group * tl.segmentSize
	baseMillis := base.pat.periodMillis(base.segmentSize)
	// lcm(groupMillis, baseMillis) / segmentSize, checked before it can
	// overflow.
	factor := baseMillis / gcd(groupMillis, baseMillis)
	if factor > maxPatternSegments || group > maxPatternSegments/factor {
		return nil, fmt.Errorf("%w: %d x %d segments", ErrPatternTooLarge, group, factor)
	}
	period := group * factor
	prefix := make([]int64, period+1)
	for i := int64(0); i < period; i++ {
		prefix[i+1] = prefix[i]
		if i%group < tl.segmentsIncluded && base.patternContains(tl.startMillis+i*tl.segmentSize) {
			prefix[i+1]++
		}
	}
	if prefix[period] == 0 {
		return nil, ErrEmptyTimeline
	}
	return &pattern{
		period:    period,
		perPeriod: prefix[period],
		prefix:    prefix,
	}, nil
}
