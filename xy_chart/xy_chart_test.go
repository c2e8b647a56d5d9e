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

package xychart

import (
	"testing"
	"time"

	"github.com/ilhamster/tickline/category"
	"github.com/ilhamster/tickline/color"
	continuousaxis "github.com/ilhamster/tickline/continuous_axis"
	"github.com/ilhamster/tickline/dataset"
	datasetview "github.com/ilhamster/tickline/dataset_view"
	dateaxis "github.com/ilhamster/tickline/date_axis"
	testutil "github.com/ilhamster/tickline/test_util"
	"github.com/ilhamster/tickline/util"
)

func TestXYChart(t *testing.T) {
	ts := func(offset time.Duration) time.Time {
		return time.Date(2024, time.January, 2, 9, 0, 0, 0, time.UTC).Add(offset)
	}
	tradesCat := category.New("trades", "Trades", "Trades per hour")
	quotesCat := category.New("quotes", "Quotes", "Quotes per hour")
	xAxisCat := category.New("x_axis", "Time", "Business time")
	yAxisCat := category.New("y_axis", "Count", "Events per hour")
	newAxes := func(t *testing.T) (*dateaxis.Axis, *continuousaxis.Axis) {
		x, err := dateaxis.New(xAxisCat, ts(0), ts(3*time.Hour))
		if err != nil {
			t.Fatalf("dateaxis.New() yielded unexpected error %s", err)
		}
		return x, continuousaxis.New(yAxisCat, 0, 30)
	}

	for _, test := range []struct {
		description   string
		buildChart    func(db util.DataBuilder)
		buildExplicit func(db testutil.TestDataBuilder)
	}{{
		description: "points and interval points",
		buildChart: func(db util.DataBuilder) {
			x, y := newAxes(t)
			chart := New[time.Time, float64](db, x, y, util.StringProperty("title", "Activity"))
			chart.AddSeries(tradesCat, util.StringProperty("color", "blue")).
				WithPoint(ts(0), 10, util.StringProperty("note", "open")).
				WithPoint(ts(time.Hour), 20)
			chart.AddSeries(quotesCat).
				WithIntervalPoint(ts(2*time.Hour), ts(90*time.Minute), ts(150*time.Minute), 30)
		},
		buildExplicit: func(db testutil.TestDataBuilder) {
			x, y := newAxes(t)
			db.With(util.StringProperty("title", "Activity")).
				Child().
				Child().With(x.Define()).
				AndChild().With(y.Define())
			db.Child().With(
				tradesCat.Define(),
				util.StringProperty("color", "blue"),
			).Child().With(
				util.TimestampProperty("x_axis", ts(0)),
				util.DoubleProperty("y_axis", 10),
				util.StringProperty("note", "open"),
			).AndChild().With(
				util.TimestampProperty("x_axis", ts(time.Hour)),
				util.DoubleProperty("y_axis", 20),
			)
			db.Child().With(
				quotesCat.Define(),
			).Child().With(
				util.TimestampProperty("x_axis", ts(2*time.Hour)),
				util.TimestampProperty("x_axis_start", ts(90*time.Minute)),
				util.TimestampProperty("x_axis_end", ts(150*time.Minute)),
				util.DoubleProperty("y_axis", 30),
			)
		},
	}, {
		description: "interval dataset",
		buildChart: func(db util.DataBuilder) {
			s := dataset.NewXYSeries("volume")
			s.Add(1, 5)
			s.Add(3, 7)
			c, err := dataset.NewXYSeriesCollection(s)
			if err != nil {
				t.Fatalf("NewXYSeriesCollection() yielded unexpected error %s", err)
			}
			if _, err := FromIntervalDataset(db, xAxisCat, yAxisCat, datasetview.NewIntervalXYDataset(c)); err != nil {
				t.Fatalf("FromIntervalDataset() yielded unexpected error %s", err)
			}
		},
		buildExplicit: func(db testutil.TestDataBuilder) {
			db.Child().
				Child().With(continuousaxis.New(xAxisCat, 0, 4).Define()).
				AndChild().With(continuousaxis.New(yAxisCat, 5, 7).Define())
			db.Child().With(
				SeriesCategory("volume").Define(),
				color.Primary(color.Hashed("volume")),
			).Child().With(
				util.DoubleProperty("x_axis", 1),
				util.DoubleProperty("x_axis_start", 0),
				util.DoubleProperty("x_axis_end", 2),
				util.DoubleProperty("y_axis", 5),
			).AndChild().With(
				util.DoubleProperty("x_axis", 3),
				util.DoubleProperty("x_axis_start", 2),
				util.DoubleProperty("x_axis_end", 4),
				util.DoubleProperty("y_axis", 7),
			)
		},
	}} {
		t.Run(test.description, func(t *testing.T) {
			if err := testutil.CompareResponses(t, test.buildChart, test.buildExplicit); err != nil {
				t.Fatalf("encountered unexpected error building the chart: %s", err)
			}
		})
	}
}
