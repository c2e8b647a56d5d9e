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

package dataset

import (
	"fmt"
	"math"
	"sort"

	"github.com/aclements/go-moremath/stats"
)

// XYDataset is a collection of keyed series of (x, y) items.
type XYDataset interface {
	Source
	SeriesCount() int
	// SeriesKey returns the key of the specified series, or
	// ErrIndexOutOfRange.
	SeriesKey(series int) (string, error)
	// SeriesIndex returns the index of the specified series key, or -1.
	SeriesIndex(key string) int
	// ItemCount returns the number of items in the specified series.
	ItemCount(series int) (int, error)
	X(series, item int) (float64, error)
	Y(series, item int) (float64, error)
}

// XYItem is a single item of an XYSeries.
type XYItem struct {
	X, Y float64
}

// XYSeries is a mutable series of items kept sorted by X.  Items with equal
// X keep their insertion order.
type XYSeries struct {
	Notifier
	key   string
	items []XYItem
}

// NewXYSeries returns a new, empty XYSeries with the specified key.
func NewXYSeries(key string) *XYSeries {
	return &XYSeries{key: key}
}

// Key returns the receiver's key.
func (s *XYSeries) Key() string {
	return s.key
}

// Len returns the number of items in the receiver.
func (s *XYSeries) Len() int {
	return len(s.items)
}

// Item returns the specified item.
func (s *XYSeries) Item(item int) (XYItem, error) {
	if item < 0 || item >= len(s.items) {
		return XYItem{}, fmt.Errorf("%w: item %d not in [0, %d)", ErrIndexOutOfRange, item, len(s.items))
	}
	return s.items[item], nil
}

// Items returns a copy of the receiver's items.
func (s *XYSeries) Items() []XYItem {
	return append([]XYItem{}, s.items...)
}

// Add inserts an item at its sorted position.
func (s *XYSeries) Add(x, y float64) {
	idx := sort.Search(len(s.items), func(i int) bool {
		return s.items[i].X > x
	})
	s.items = append(s.items, XYItem{})
	copy(s.items[idx+1:], s.items[idx:])
	s.items[idx] = XYItem{X: x, Y: y}
	s.Notify(s)
}

// Remove removes the specified item.
func (s *XYSeries) Remove(item int) error {
	if _, err := s.Item(item); err != nil {
		return err
	}
	s.items = append(s.items[:item], s.items[item+1:]...)
	s.Notify(s)
	return nil
}

// Clear removes every item.
func (s *XYSeries) Clear() {
	if len(s.items) == 0 {
		return
	}
	s.items = nil
	s.Notify(s)
}

// XYSeriesCollection is an XYDataset built of XYSeries.  Changes to member
// series are announced as changes to the collection.
type XYSeriesCollection struct {
	Notifier
	series []*XYSeries
	subs   []Subscription
}

var _ XYDataset = &XYSeriesCollection{}

// NewXYSeriesCollection returns a new collection holding the provided
// series.  It returns ErrDuplicateKey if two series share a key.
func NewXYSeriesCollection(series ...*XYSeries) (*XYSeriesCollection, error) {
	c := &XYSeriesCollection{}
	for _, s := range series {
		if err := c.AddSeries(s); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// AddSeries appends s to the receiver.
func (c *XYSeriesCollection) AddSeries(s *XYSeries) error {
	if c.SeriesIndex(s.Key()) >= 0 {
		return fmt.Errorf("%w: series '%s'", ErrDuplicateKey, s.Key())
	}
	c.series = append(c.series, s)
	c.subs = append(c.subs, s.Subscribe(func(ChangeEvent) {
		c.Notify(c)
	}))
	c.Notify(c)
	return nil
}

// RemoveSeries removes the specified series from the receiver.
func (c *XYSeriesCollection) RemoveSeries(series int) error {
	s, err := c.Series(series)
	if err != nil {
		return err
	}
	s.Unsubscribe(c.subs[series])
	c.series = append(c.series[:series], c.series[series+1:]...)
	c.subs = append(c.subs[:series], c.subs[series+1:]...)
	c.Notify(c)
	return nil
}

// Series returns the specified series.
func (c *XYSeriesCollection) Series(series int) (*XYSeries, error) {
	if series < 0 || series >= len(c.series) {
		return nil, fmt.Errorf("%w: series %d not in [0, %d)", ErrIndexOutOfRange, series, len(c.series))
	}
	return c.series[series], nil
}

// SeriesCount returns the number of series in the receiver.
func (c *XYSeriesCollection) SeriesCount() int {
	return len(c.series)
}

// SeriesKey returns the key of the specified series.
func (c *XYSeriesCollection) SeriesKey(series int) (string, error) {
	s, err := c.Series(series)
	if err != nil {
		return "", err
	}
	return s.Key(), nil
}

// SeriesIndex returns the index of the specified series key, or -1.
func (c *XYSeriesCollection) SeriesIndex(key string) int {
	for idx, s := range c.series {
		if s.Key() == key {
			return idx
		}
	}
	return -1
}

// ItemCount returns the number of items in the specified series.
func (c *XYSeriesCollection) ItemCount(series int) (int, error) {
	s, err := c.Series(series)
	if err != nil {
		return 0, err
	}
	return s.Len(), nil
}

func (c *XYSeriesCollection) item(series, item int) (XYItem, error) {
	s, err := c.Series(series)
	if err != nil {
		return XYItem{}, err
	}
	return s.Item(item)
}

// X returns the x value of the specified item.
func (c *XYSeriesCollection) X(series, item int) (float64, error) {
	it, err := c.item(series, item)
	return it.X, err
}

// Y returns the y value of the specified item.
func (c *XYSeriesCollection) Y(series, item int) (float64, error) {
	it, err := c.item(series, item)
	return it.Y, err
}

// Equal returns true if other holds the same series, in the same order,
// with the same items.
func (c *XYSeriesCollection) Equal(other XYDataset) bool {
	return XYDatasetsEqual(c, other)
}

// XYDatasetsEqual returns true if a and b hold series with the same keys and
// items, in the same order.
func XYDatasetsEqual(a, b XYDataset) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.SeriesCount() != b.SeriesCount() {
		return false
	}
	for series := 0; series < a.SeriesCount(); series++ {
		ak, _ := a.SeriesKey(series)
		bk, _ := b.SeriesKey(series)
		an, _ := a.ItemCount(series)
		bn, _ := b.ItemCount(series)
		if ak != bk || an != bn {
			return false
		}
		for item := 0; item < an; item++ {
			ax, _ := a.X(series, item)
			bx, _ := b.X(series, item)
			ay, _ := a.Y(series, item)
			by, _ := b.Y(series, item)
			if !sameValue(ax, bx) || !sameValue(ay, by) {
				return false
			}
		}
	}
	return true
}

func bounds(ds XYDataset, value func(series, item int) (float64, error)) (min, max float64, ok bool) {
	var vs []float64
	for series := 0; series < ds.SeriesCount(); series++ {
		n, err := ds.ItemCount(series)
		if err != nil {
			continue
		}
		for item := 0; item < n; item++ {
			v, err := value(series, item)
			if err != nil || math.IsNaN(v) {
				continue
			}
			vs = append(vs, v)
		}
	}
	if len(vs) == 0 {
		return 0, 0, false
	}
	min, max = stats.Bounds(vs)
	return min, max, true
}

// DomainBounds returns the least and greatest x values in ds, or false if
// ds has no items.  NaN values are ignored.
func DomainBounds(ds XYDataset) (min, max float64, ok bool) {
	return bounds(ds, ds.X)
}

// RangeBounds returns the least and greatest y values in ds, or false if ds
// has no items.  NaN values are ignored.
func RangeBounds(ds XYDataset) (min, max float64, ok bool) {
	return bounds(ds, ds.Y)
}
