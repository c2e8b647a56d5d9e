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

// Package xychart facilitates the construction of xy-chart data.  Given a
// DataBuilder dedicated to the chart, a chart is created via
//
//	chart := xychart.New(db, xAxis, yAxis, properties...)
//
// where the axes may be date axes (dateaxis.Axis) or numeric axes
// (continuousaxis.Axis).  Series are added via
//
//	series := chart.AddSeries(category, properties...)
//
// and points via series.WithPoint(x, y, properties...), or, for points
// covering an x interval, series.WithIntervalPoint(x, startX, endX, y).  An
// interval dataset may be exported whole with FromIntervalDataset.
//
// The structure of an xy chart in a response is:
//
//	xychart
//	  properties:
//	    * <decorators>
//	  children:
//	    * axes (x axis definition, y axis definition)
//	    * repeated series
//
//	series
//	  properties:
//	    * category definition
//	    * <decorators>
//	  children:
//	    repeated points
//
//	point
//	  properties:
//	    * <x axis ID>: x value
//	    * <x axis ID>_start, <x axis ID>_end: x interval (interval points only)
//	    * <y axis ID>: y value
//	    * <decorators>
package xychart

import (
	"github.com/ilhamster/tickline/category"
	"github.com/ilhamster/tickline/color"
	continuousaxis "github.com/ilhamster/tickline/continuous_axis"
	datasetview "github.com/ilhamster/tickline/dataset_view"
	"github.com/ilhamster/tickline/util"
)

const (
	intervalStartSuffix = "_start"
	intervalEndSuffix   = "_end"

	seriesCategoryPrefix = "series:"
)

// Axis is implemented by axes over values of type T.
type Axis[T any] interface {
	Define() util.PropertyUpdate
	CategoryID() string
	Value(key string, v T) util.PropertyUpdate
}

// XYChart represents an xy-chart embedded in a response.
type XYChart[X, Y any] struct {
	xAxis Axis[X]
	yAxis Axis[Y]
	db    util.DataBuilder
}

// New constructs a new xy chart with the provided axes.
func New[X, Y any](db util.DataBuilder, xAxis Axis[X], yAxis Axis[Y], properties ...util.PropertyUpdate) *XYChart[X, Y] {
	ret := &XYChart[X, Y]{
		xAxis: xAxis,
		yAxis: yAxis,
		db:    db.With(properties...),
	}
	axes := ret.db.Child()
	axes.Child().With(xAxis.Define())
	axes.Child().With(yAxis.Define())
	return ret
}

// With annotates the receiving xy-chart with the provided properties.
func (xyc *XYChart[X, Y]) With(properties ...util.PropertyUpdate) *XYChart[X, Y] {
	xyc.db.With(properties...)
	return xyc
}

// AddSeries defines a series within the receiving XYChart, tagged with the
// specified Category.
func (xyc *XYChart[X, Y]) AddSeries(cat *category.Category, properties ...util.PropertyUpdate) *Series[X, Y] {
	return &Series[X, Y]{
		xyc: xyc,
		db:  xyc.db.Child().With(cat.Define()).With(properties...),
	}
}

// Series helps define a series within a XYChart.
type Series[X, Y any] struct {
	xyc *XYChart[X, Y]
	db  util.DataBuilder
}

// With annotates the receiving Series with the provided properties.
func (s *Series[X, Y]) With(properties ...util.PropertyUpdate) *Series[X, Y] {
	s.db.With(properties...)
	return s
}

// WithPoint adds a point to the receiving Series.
func (s *Series[X, Y]) WithPoint(x X, y Y, properties ...util.PropertyUpdate) *Series[X, Y] {
	xID, yID := s.xyc.xAxis.CategoryID(), s.xyc.yAxis.CategoryID()
	s.db.Child().With(
		s.xyc.xAxis.Value(xID, x),
		s.xyc.yAxis.Value(yID, y),
	).With(properties...)
	return s
}

// WithIntervalPoint adds a point covering [startX, endX] to the receiving
// Series.
func (s *Series[X, Y]) WithIntervalPoint(x, startX, endX X, y Y, properties ...util.PropertyUpdate) *Series[X, Y] {
	xID, yID := s.xyc.xAxis.CategoryID(), s.xyc.yAxis.CategoryID()
	s.db.Child().With(
		s.xyc.xAxis.Value(xID, x),
		s.xyc.xAxis.Value(xID+intervalStartSuffix, startX),
		s.xyc.xAxis.Value(xID+intervalEndSuffix, endX),
		s.xyc.yAxis.Value(yID, y),
	).With(properties...)
	return s
}

// SeriesCategory returns the category FromIntervalDataset assigns to the
// series with the provided key.
func SeriesCategory(key string) *category.Category {
	return category.FromKey(seriesCategoryPrefix, key)
}

// FromIntervalDataset defines a chart in db holding every item of ds as an
// interval point.  Axis extents cover the x intervals and y values of ds.
// Each series is colored by its key.
func FromIntervalDataset(db util.DataBuilder, xCat, yCat *category.Category, ds *datasetview.IntervalXYDataset, properties ...util.PropertyUpdate) (*XYChart[float64, float64], error) {
	chart := New[float64, float64](db,
		continuousaxis.FromIntervalDomain(xCat, ds),
		continuousaxis.FromRange(yCat, ds),
		properties...,
	)
	for series := 0; series < ds.SeriesCount(); series++ {
		key, err := ds.SeriesKey(series)
		if err != nil {
			return nil, err
		}
		n, err := ds.ItemCount(series)
		if err != nil {
			return nil, err
		}
		s := chart.AddSeries(SeriesCategory(key), color.Primary(color.Hashed(key)))
		for item := 0; item < n; item++ {
			x, err := ds.X(series, item)
			if err != nil {
				return nil, err
			}
			startX, err := ds.StartX(series, item)
			if err != nil {
				return nil, err
			}
			endX, err := ds.EndX(series, item)
			if err != nil {
				return nil, err
			}
			y, err := ds.Y(series, item)
			if err != nil {
				return nil, err
			}
			s.WithIntervalPoint(x, startX, endX, y)
		}
	}
	return chart, nil
}
