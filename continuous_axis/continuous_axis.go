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

// Package continuousaxis defines numeric axes whose extents may be taken
// from datasets.  An axis has a category, and minimum and maximum points
// along its domain.
package continuousaxis

import (
	"math"

	"github.com/ilhamster/tickline/category"
	"github.com/ilhamster/tickline/dataset"
	datasetview "github.com/ilhamster/tickline/dataset_view"
	"github.com/ilhamster/tickline/util"
)

const (
	axisTypeKey = "axis_type"
	axisMinKey  = "axis_min"
	axisMaxKey  = "axis_max"

	doubleAxisType = "double"
)

// Axis is a numeric axis.
type Axis struct {
	cat      *category.Category
	min, max float64
}

// New returns a new Axis with the specified category, spanning the lowest
// and highest of the provided extents.  Without extents, the axis spans
// [0, 0].
func New(cat *category.Category, extents ...float64) *Axis {
	if len(extents) == 0 {
		return &Axis{cat: cat}
	}
	min, max := math.MaxFloat64, -math.MaxFloat64
	for _, extent := range extents {
		min = math.Min(min, extent)
		max = math.Max(max, extent)
	}
	return &Axis{
		cat: cat,
		min: min,
		max: max,
	}
}

func fromBounds(cat *category.Category, min, max float64, ok bool) *Axis {
	if !ok {
		return New(cat)
	}
	return New(cat, min, max)
}

// FromDomain returns a new Axis spanning the x values of ds.
func FromDomain(cat *category.Category, ds dataset.XYDataset) *Axis {
	min, max, ok := dataset.DomainBounds(ds)
	return fromBounds(cat, min, max, ok)
}

// FromRange returns a new Axis spanning the y values of ds.
func FromRange(cat *category.Category, ds dataset.XYDataset) *Axis {
	min, max, ok := dataset.RangeBounds(ds)
	return fromBounds(cat, min, max, ok)
}

// FromIntervalDomain returns a new Axis spanning the x intervals of ds.
func FromIntervalDomain(cat *category.Category, ds *datasetview.IntervalXYDataset) *Axis {
	min, max, ok := ds.DomainBounds(true)
	return fromBounds(cat, min, max, ok)
}

// Min returns the receiver's minimum extent.
func (a *Axis) Min() float64 {
	return a.min
}

// Max returns the receiver's maximum extent.
func (a *Axis) Max() float64 {
	return a.max
}

// Value returns a PropertyUpdate setting key to v.
func (a *Axis) Value(key string, v float64) util.PropertyUpdate {
	return util.DoubleProperty(key, v)
}

// Define annotates with a definition of the receiver.
func (a *Axis) Define() util.PropertyUpdate {
	return util.Chain(
		a.cat.Define(),
		util.StringProperty(axisTypeKey, doubleAxisType),
		a.Value(axisMinKey, a.min),
		a.Value(axisMaxKey, a.max),
	)
}

// CategoryID returns the category ID of the receiving Axis.
func (a *Axis) CategoryID() string {
	return a.cat.ID()
}
