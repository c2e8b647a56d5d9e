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

package datasetview

import (
	"fmt"
	"math"

	"github.com/ilhamster/tickline/dataset"
)

// Defaults for IntervalXYDelegate.
const (
	DefaultIntervalWidth          = 1.0
	DefaultIntervalPositionFactor = 0.5
)

// IntervalXYDelegate computes x intervals around the items of an XYDataset.
// Each item's interval has the delegate's width, and is positioned so that
// the item's x value lies at the position factor along it.
//
// With auto width, the width is the smallest positive gap between adjacent
// x values in any series, or the fixed width if no series has two distinct
// x values.  It is recomputed lazily when the dataset's version changes.
type IntervalXYDelegate struct {
	dataset.Notifier
	ds             dataset.XYDataset
	autoWidth      bool
	positionFactor float64
	fixedWidth     float64

	autoWidthValue float64
	seenVersion    uint64
	computed       bool
}

// NewIntervalXYDelegate returns a new auto-width IntervalXYDelegate over ds.
func NewIntervalXYDelegate(ds dataset.XYDataset) *IntervalXYDelegate {
	return &IntervalXYDelegate{
		ds:             ds,
		autoWidth:      true,
		positionFactor: DefaultIntervalPositionFactor,
		fixedWidth:     DefaultIntervalWidth,
	}
}

// AutoWidth returns true if the receiver's width is computed from its
// dataset.
func (d *IntervalXYDelegate) AutoWidth() bool {
	return d.autoWidth
}

// SetAutoWidth enables or disables width computation.
func (d *IntervalXYDelegate) SetAutoWidth(autoWidth bool) {
	d.autoWidth = autoWidth
	d.Notify(d)
}

// IntervalPositionFactor returns the fraction of the interval preceding
// each item's x value.
func (d *IntervalXYDelegate) IntervalPositionFactor() float64 {
	return d.positionFactor
}

// SetIntervalPositionFactor sets the fraction of the interval preceding each
// item's x value.  It must lie in [0, 1].
func (d *IntervalXYDelegate) SetIntervalPositionFactor(f float64) error {
	if math.IsNaN(f) || f < 0 || f > 1 {
		return fmt.Errorf("%w: position factor %f not in [0, 1]", ErrInvalidInterval, f)
	}
	d.positionFactor = f
	d.Notify(d)
	return nil
}

// FixedIntervalWidth returns the width used when auto width is disabled or
// cannot be computed.
func (d *IntervalXYDelegate) FixedIntervalWidth() float64 {
	return d.fixedWidth
}

// SetFixedIntervalWidth sets a positive fixed width and disables auto
// width.
func (d *IntervalXYDelegate) SetFixedIntervalWidth(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		return fmt.Errorf("%w: width %f must be positive", ErrInvalidInterval, w)
	}
	d.fixedWidth = w
	d.autoWidth = false
	d.Notify(d)
	return nil
}

// smallestGap returns the smallest positive gap between adjacent x values
// of any series of ds, or +Inf if there is none.
func smallestGap(ds dataset.XYDataset) float64 {
	ret := math.Inf(1)
	for series := 0; series < ds.SeriesCount(); series++ {
		n, err := ds.ItemCount(series)
		if err != nil {
			continue
		}
		prev := math.NaN()
		for item := 0; item < n; item++ {
			x, err := ds.X(series, item)
			if err != nil || math.IsNaN(x) {
				continue
			}
			if gap := x - prev; gap > 0 && gap < ret {
				ret = gap
			}
			prev = x
		}
	}
	return ret
}

// IntervalWidth returns the width of every interval.
func (d *IntervalXYDelegate) IntervalWidth() float64 {
	if !d.autoWidth {
		return d.fixedWidth
	}
	if v := d.ds.Version(); !d.computed || v != d.seenVersion {
		d.autoWidthValue = smallestGap(d.ds)
		d.seenVersion, d.computed = v, true
	}
	if math.IsInf(d.autoWidthValue, 1) {
		return d.fixedWidth
	}
	return d.autoWidthValue
}

// StartX returns the start of the specified item's interval.
func (d *IntervalXYDelegate) StartX(series, item int) (float64, error) {
	x, err := d.ds.X(series, item)
	if err != nil {
		return 0, err
	}
	return x - d.positionFactor*d.IntervalWidth(), nil
}

// EndX returns the end of the specified item's interval.
func (d *IntervalXYDelegate) EndX(series, item int) (float64, error) {
	start, err := d.StartX(series, item)
	if err != nil {
		return 0, err
	}
	return start + d.IntervalWidth(), nil
}

// DomainBounds returns the least and greatest x values of the receiver's
// dataset, widened to cover every interval if includeInterval is true.  It
// returns false if the dataset has no items.
func (d *IntervalXYDelegate) DomainBounds(includeInterval bool) (lower, upper float64, ok bool) {
	lower, upper, ok = dataset.DomainBounds(d.ds)
	if !ok || !includeInterval {
		return lower, upper, ok
	}
	w := d.IntervalWidth()
	return lower - d.positionFactor*w, upper + (1-d.positionFactor)*w, true
}

// Equal returns true if other has the same interval settings as the
// receiver.  Datasets are not compared.
func (d *IntervalXYDelegate) Equal(other *IntervalXYDelegate) bool {
	return other != nil &&
		d.autoWidth == other.autoWidth &&
		d.positionFactor == other.positionFactor &&
		d.fixedWidth == other.fixedWidth
}

// IntervalXYDataset presents an XYDataset with an x interval around each
// item.  Y intervals are degenerate.  Changes to the underlying dataset or
// to the delegate's settings are announced as changes to the view.
type IntervalXYDataset struct {
	dataset.Notifier
	underlying        dataset.XYDataset
	delegate          *IntervalXYDelegate
	dataSub, delegSub dataset.Subscription
}

var _ dataset.XYDataset = &IntervalXYDataset{}

// NewIntervalXYDataset returns a new IntervalXYDataset over underlying.
// Close should be called when the view is no longer needed.
func NewIntervalXYDataset(underlying dataset.XYDataset) *IntervalXYDataset {
	ds := &IntervalXYDataset{
		underlying: underlying,
		delegate:   NewIntervalXYDelegate(underlying),
	}
	forward := func(dataset.ChangeEvent) {
		ds.Notify(ds)
	}
	ds.dataSub = underlying.Subscribe(forward)
	ds.delegSub = ds.delegate.Subscribe(forward)
	return ds
}

// Close stops forwarding changes.
func (ds *IntervalXYDataset) Close() {
	ds.underlying.Unsubscribe(ds.dataSub)
	ds.delegate.Unsubscribe(ds.delegSub)
}

// Delegate returns the receiver's interval delegate, through which its
// interval settings may be changed.
func (ds *IntervalXYDataset) Delegate() *IntervalXYDelegate {
	return ds.delegate
}

// SeriesCount returns the number of underlying series.
func (ds *IntervalXYDataset) SeriesCount() int {
	return ds.underlying.SeriesCount()
}

// SeriesKey returns the key of the specified series.
func (ds *IntervalXYDataset) SeriesKey(series int) (string, error) {
	return ds.underlying.SeriesKey(series)
}

// SeriesIndex returns the index of the specified series key, or -1.
func (ds *IntervalXYDataset) SeriesIndex(key string) int {
	return ds.underlying.SeriesIndex(key)
}

// ItemCount returns the number of items in the specified series.
func (ds *IntervalXYDataset) ItemCount(series int) (int, error) {
	return ds.underlying.ItemCount(series)
}

// X returns the x value of the specified item.
func (ds *IntervalXYDataset) X(series, item int) (float64, error) {
	return ds.underlying.X(series, item)
}

// Y returns the y value of the specified item.
func (ds *IntervalXYDataset) Y(series, item int) (float64, error) {
	return ds.underlying.Y(series, item)
}

// StartX returns the start of the specified item's x interval.
func (ds *IntervalXYDataset) StartX(series, item int) (float64, error) {
	return ds.delegate.StartX(series, item)
}

// EndX returns the end of the specified item's x interval.
func (ds *IntervalXYDataset) EndX(series, item int) (float64, error) {
	return ds.delegate.EndX(series, item)
}

// StartY returns the y value of the specified item.
func (ds *IntervalXYDataset) StartY(series, item int) (float64, error) {
	return ds.Y(series, item)
}

// EndY returns the y value of the specified item.
func (ds *IntervalXYDataset) EndY(series, item int) (float64, error) {
	return ds.Y(series, item)
}

// DomainBounds returns the receiver's x bounds, including item intervals if
// includeInterval is true.
func (ds *IntervalXYDataset) DomainBounds(includeInterval bool) (lower, upper float64, ok bool) {
	return ds.delegate.DomainBounds(includeInterval)
}

// Equal returns true if other is an IntervalXYDataset with equal interval
// settings over an equal underlying dataset.
func (ds *IntervalXYDataset) Equal(other dataset.XYDataset) bool {
	o, ok := other.(*IntervalXYDataset)
	if !ok {
		return false
	}
	return ds.delegate.Equal(o.delegate) && dataset.XYDatasetsEqual(ds.underlying, o.underlying)
}
