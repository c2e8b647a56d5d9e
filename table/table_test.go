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

package table

import (
	"testing"

	"github.com/ilhamster/tickline/category"
	"github.com/ilhamster/tickline/dataset"
	datasetview "github.com/ilhamster/tickline/dataset_view"
	testutil "github.com/ilhamster/tickline/test_util"
	"github.com/ilhamster/tickline/util"
)

var (
	holidayCol = Column(category.New("holiday", "Holiday", "Market holiday"))
	dateCol    = Column(category.New("date", "Date", "Observed date"))

	sortableDateCol = Column(category.New("date", "Date", "Observed date")).With(
		util.StringProperty("sort_by", "date"),
	)

	renderSettings = &RenderSettings{
		RowHeightPx: 20,
		FontSizePx:  14,
	}
)

func TestColumns(t *testing.T) {
	for _, test := range []struct {
		description   string
		buildTabular  func(db util.DataBuilder)
		buildExplicit func(db testutil.TestDataBuilder)
	}{{
		description: "simple columns",
		buildTabular: func(db util.DataBuilder) {
			New(db, renderSettings, holidayCol, dateCol).Row(
				Cell(holidayCol, util.String("Independence Day")),
				Cell(dateCol, util.String("2024-07-04")),
			)
		},
		buildExplicit: func(db testutil.TestDataBuilder) {
			db.With(
				util.IntegerProperty(rowHeightPxKey, 20),
				util.IntegerProperty(fontSizePxKey, 14),
			).Child(). // column definitions
					Child().With(holidayCol.cat.Define()).
					AndChild().With(dateCol.cat.Define()).
					Parent().Parent(). // back to table root
					Child().           // row 0
					Child().With(      // row 0 cell 0
				holidayCol.cat.Tag(),
				util.StringProperty(cellKey, "Independence Day"),
			).AndChild().With( // row 0 cell 1
				dateCol.cat.Tag(),
				util.StringProperty(cellKey, "2024-07-04"),
			)
		},
	}, {
		description: "formatted cell and decorations",
		buildTabular: func(db util.DataBuilder) {
			New(db, nil, sortableDateCol).With(
				util.StringProperty("table_title", "Closures"),
			).Row(
				FormattedCell(sortableDateCol, "$(month) $(day)",
					util.StringProperty("month", "Jul"),
					util.IntegerProperty("day", 4),
				),
			).With(
				util.StringProperty("hover_text", "Closed all day"),
			)
		},
		buildExplicit: func(db testutil.TestDataBuilder) {
			db.With(
				util.StringProperty("table_title", "Closures"),
			).Child(). // column definitions
					Child().With(
				dateCol.cat.Define(),
				util.StringProperty("sort_by", "date"),
			).
				Parent().Parent(). // back to table root
				Child().With(      // row 0
				util.StringProperty("hover_text", "Closed all day"),
			).
				Child().With( // row 0 cell 0
				dateCol.cat.Tag(),
				util.StringProperty(formattedCellKey, "$(month) $(day)"),
				util.StringProperty("month", "Jul"),
				util.IntegerProperty("day", 4),
			)
		},
	}} {
		t.Run(test.description, func(t *testing.T) {
			if err := testutil.CompareResponses(t, test.buildTabular, test.buildExplicit); err != nil {
				t.Fatalf("encountered unexpected error building the table: %s", err)
			}
		})
	}
}

func TestFromCategoryDataset(t *testing.T) {
	ds := dataset.NewDefaultCategoryDataset()
	ds.AddValue(1, "open", "C1")
	ds.AddValue(2, "open", "C2")
	ds.AddValue(3, "open", "C3")
	ds.AddValue(4, "close", "C3")
	ds.AddValue(5, "close", "C4")
	window, err := datasetview.NewSlidingCategoryDataset(ds, 1, 2)
	if err != nil {
		t.Fatalf("NewSlidingCategoryDataset() yielded unexpected error %s", err)
	}
	rowKeyCat := RowKeyColumn().cat
	c2, c3 := DatasetColumn("C2").cat, DatasetColumn("C3").cat
	if err := testutil.CompareResponses(t,
		func(db util.DataBuilder) {
			if _, err := FromCategoryDataset(db, nil, window); err != nil {
				t.Fatalf("FromCategoryDataset() yielded unexpected error %s", err)
			}
		},
		func(db testutil.TestDataBuilder) {
			db.Child(). // column definitions
					Child().With(rowKeyCat.Define()).
					AndChild().With(c2.Define()).
					AndChild().With(c3.Define())
			db.Child(). // open
					Child().With(rowKeyCat.Tag(), util.StringProperty(cellKey, "open")).
					AndChild().With(c2.Tag(), util.DoubleProperty(cellKey, 2)).
					AndChild().With(c3.Tag(), util.DoubleProperty(cellKey, 3))
			db.Child(). // close, with no value in C2
					Child().With(rowKeyCat.Tag(), util.StringProperty(cellKey, "close")).
					AndChild().With(c3.Tag(), util.DoubleProperty(cellKey, 4))
		}); err != nil {
		t.Fatalf("encountered unexpected error building the table: %s", err)
	}
}

func TestFromCategoryDatasetDecorators(t *testing.T) {
	ds := dataset.NewDefaultCategoryDataset()
	ds.SetValue(1, "open", "C1")
	ds.SetValue(2, "close", "C1")
	rowKeyCat, c1 := RowKeyColumn().cat, DatasetColumn("C1").cat
	position := func(rowKey, colKey string, v float64) []util.PropertyUpdate {
		return []util.PropertyUpdate{util.StringProperty("position", rowKey+"/"+colKey)}
	}
	double := func(rowKey, colKey string, v float64) []util.PropertyUpdate {
		return []util.PropertyUpdate{util.DoubleProperty("doubled", 2*v)}
	}
	if err := testutil.CompareResponses(t,
		func(db util.DataBuilder) {
			if _, err := FromCategoryDataset(db, nil, ds, position, double); err != nil {
				t.Fatalf("FromCategoryDataset() yielded unexpected error %s", err)
			}
		},
		func(db testutil.TestDataBuilder) {
			db.Child().
				Child().With(rowKeyCat.Define()).
				AndChild().With(c1.Define())
			db.Child().
				Child().With(rowKeyCat.Tag(), util.StringProperty(cellKey, "open")).
				AndChild().With(
				c1.Tag(),
				util.DoubleProperty(cellKey, 1),
				util.StringProperty("position", "open/C1"),
				util.DoubleProperty("doubled", 2),
			)
			db.Child().
				Child().With(rowKeyCat.Tag(), util.StringProperty(cellKey, "close")).
				AndChild().With(
				c1.Tag(),
				util.DoubleProperty(cellKey, 2),
				util.StringProperty("position", "close/C1"),
				util.DoubleProperty("doubled", 4),
			)
		}); err != nil {
		t.Fatalf("encountered unexpected error building the table: %s", err)
	}
}
