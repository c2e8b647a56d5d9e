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

package dateaxis

import (
	"math"
	"time"

	"gonum.org/v1/plot"
)

// Ticker adapts an Axis to gonum's plot.Ticker, for plots whose time axis
// holds Unix seconds.  The Axis' configuration is used, but its range is
// replaced by the one gonum requests.
type Ticker struct {
	Axis *Axis
}

var _ plot.Ticker = Ticker{}

func unixSeconds(s float64) time.Time {
	sec, frac := math.Modf(s)
	return time.Unix(int64(sec), int64(frac*1e9))
}

// Ticks returns the ticks of the receiver's Axis over [min, max] Unix
// seconds.  Minor ticks have empty labels, as gonum expects.  If tick
// generation fails, no ticks are returned.
func (t Ticker) Ticks(min, max float64) []plot.Tick {
	if max < min {
		return nil
	}
	ticks, err := t.Axis.withRange(unixSeconds(min), unixSeconds(max)).Ticks()
	if err != nil {
		return nil
	}
	ret := make([]plot.Tick, len(ticks))
	for idx, tick := range ticks {
		ret[idx] = plot.Tick{
			Value: float64(tick.Value.UnixMilli()) / 1000,
			Label: tick.Label,
		}
	}
	return ret
}
