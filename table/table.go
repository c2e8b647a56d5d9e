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

// Package table provides structural helpers for exporting tables, such as
// category datasets and their sliding views, in tickline responses.
//
// Given a DataBuilder dedicated to the table, a table with explicit columns
// is built via
//
//	t := table.New(db, renderSettings, columns...)
//	t.Row(table.Cell(column, util.Double(v)), ...)
//
// and any dataset.CategoryDataset may be exported directly via
// FromCategoryDataset.  The structure of a table in a response is:
//
//	table
//	  properties
//	    * <render settings>
//	  children
//	    * header row
//	    * repeated rows
//
//	header row
//	  children
//	    * repeated column definitions (category definition, <decorators>)
//
//	row
//	  properties
//	    * <decorators>
//	  children
//	    * repeated cells (column tag, cell value or format, <decorators>)
package table

import (
	"math"

	"github.com/ilhamster/tickline/category"
	"github.com/ilhamster/tickline/dataset"
	"github.com/ilhamster/tickline/util"
)

const (
	cellKey          = "table_cell"
	formattedCellKey = "table_formatted_cell"

	rowHeightPxKey = "table_row_height_px"
	fontSizePxKey  = "table_font_size_px"

	// Category ID prefixes for columns derived from dataset keys.
	columnCategoryPrefix = "column:"
	rowKeyCategoryID     = "row_key"
)

// RenderSettings is a collection of rendering settings for tables.
type RenderSettings struct {
	// The height of a row in pixels.
	RowHeightPx int64
	// The table text font size in pixels.
	FontSizePx int64
}

func (rs *RenderSettings) define() util.PropertyUpdate {
	if rs == nil {
		return util.EmptyUpdate
	}
	return util.Chain(
		util.IntegerProperty(rowHeightPxKey, rs.RowHeightPx),
		util.IntegerProperty(fontSizePxKey, rs.FontSizePx),
	)
}

// ColumnUpdate is a table column: a category plus arbitrary column
// properties.
type ColumnUpdate struct {
	cat        *category.Category
	properties []util.PropertyUpdate
}

// Column returns a new column with the specified category and properties.
func Column(cat *category.Category, properties ...util.PropertyUpdate) *ColumnUpdate {
	return &ColumnUpdate{
		cat:        cat,
		properties: append(properties, cat.Define()),
	}
}

// With annotates the receiving column with the provided properties.
func (cu *ColumnUpdate) With(properties ...util.PropertyUpdate) *ColumnUpdate {
	cu.properties = append(cu.properties, properties...)
	return cu
}

// CellUpdate is a PropertyUpdate annotating a cell.
type CellUpdate util.PropertyUpdate

// Cell returns a CellUpdate placing the specified value in the specified
// column.  Any provided updates are also applied to the cell.
func Cell(column *ColumnUpdate, value util.Value, cellUpdates ...util.PropertyUpdate) CellUpdate {
	return CellUpdate(util.Chain(append(cellUpdates,
		column.cat.Tag(),
		value(cellKey),
	)...))
}

// FormattedCell returns a CellUpdate placing the specified format string in
// the specified column.  Properties the format string refers to may be
// provided as cellUpdates.
func FormattedCell(column *ColumnUpdate, format string, cellUpdates ...util.PropertyUpdate) CellUpdate {
	return CellUpdate(util.Chain(append(cellUpdates,
		column.cat.Tag(),
		util.StringProperty(formattedCellKey, format),
	)...))
}

// Node is a table within a response.
type Node struct {
	db util.DataBuilder
}

// New defines a new table with the specified columns in the provided
// DataBuilder.
func New(db util.DataBuilder, renderSettings *RenderSettings, columns ...*ColumnUpdate) *Node {
	header := db.Child()
	for _, column := range columns {
		header.Child().With(column.properties...)
	}
	db.With(renderSettings.define())
	return &Node{
		db: db,
	}
}

// With annotates the receiving table with the provided properties.
func (n *Node) With(properties ...util.PropertyUpdate) *Node {
	n.db.With(properties...)
	return n
}

// RowNode is a row within a table.
type RowNode struct {
	db util.DataBuilder
}

// Row appends a row holding the specified cells to the receiver.
func (n *Node) Row(cells ...CellUpdate) *RowNode {
	db := n.db.Child()
	for _, cell := range cells {
		db.Child().With(util.PropertyUpdate(cell))
	}
	return &RowNode{
		db: db,
	}
}

// With annotates the receiving row with the provided properties.
func (rn *RowNode) With(properties ...util.PropertyUpdate) *RowNode {
	rn.db.With(properties...)
	return rn
}

// AddCell appends the specified cell to the receiving row.
func (rn *RowNode) AddCell(cell CellUpdate) *RowNode {
	rn.db.Child().With(util.PropertyUpdate(cell))
	return rn
}

// RowKeyColumn returns the column holding each row's key in tables built by
// FromCategoryDataset.
func RowKeyColumn() *ColumnUpdate {
	return Column(category.New(rowKeyCategoryID, "Row", "Dataset row key"))
}

// DatasetColumn returns the column built by FromCategoryDataset for the
// provided dataset column key.
func DatasetColumn(colKey string) *ColumnUpdate {
	return Column(category.FromKey(columnCategoryPrefix, colKey))
}

// CellDecorator returns additional properties for the dataset cell holding
// v.
type CellDecorator func(rowKey, colKey string, v float64) []util.PropertyUpdate

// FromCategoryDataset defines a table in db holding the current contents of
// ds: a leading row-key column, then one column per column key of ds, and
// one row per row key of ds.  Cells holding no value are omitted.  Each
// decorator is applied to every cell holding a value.
func FromCategoryDataset(db util.DataBuilder, renderSettings *RenderSettings, ds dataset.CategoryDataset, decorators ...CellDecorator) (*Node, error) {
	rowKeyCol := RowKeyColumn()
	colKeys := ds.ColumnKeys()
	columns := make([]*ColumnUpdate, len(colKeys))
	for idx, colKey := range colKeys {
		columns[idx] = DatasetColumn(colKey)
	}
	n := New(db, renderSettings, append([]*ColumnUpdate{rowKeyCol}, columns...)...)
	for row, rowKey := range ds.RowKeys() {
		rn := n.Row(Cell(rowKeyCol, util.String(rowKey)))
		for col, column := range columns {
			v, err := ds.Value(row, col)
			if err != nil {
				return nil, err
			}
			if math.IsNaN(v) {
				continue
			}
			var decorations []util.PropertyUpdate
			for _, decorate := range decorators {
				decorations = append(decorations, decorate(rowKey, colKeys[col], v)...)
			}
			rn.AddCell(Cell(column, util.Double(v), decorations...))
		}
	}
	return n, nil
}
