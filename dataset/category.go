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
)

// CategoryDataset is a table of values keyed by row and column.  Row and
// column indices follow the order in which keys were first added.
type CategoryDataset interface {
	Source
	RowCount() int
	ColumnCount() int
	// RowKey returns the key of the specified row, or ErrIndexOutOfRange.
	RowKey(row int) (string, error)
	// ColumnKey returns the key of the specified column, or
	// ErrIndexOutOfRange.
	ColumnKey(col int) (string, error)
	// RowIndex returns the index of the specified row key, or -1.
	RowIndex(key string) int
	// ColumnIndex returns the index of the specified column key, or -1.
	ColumnIndex(key string) int
	RowKeys() []string
	ColumnKeys() []string
	// Value returns the value at the specified row and column, or NaN if
	// that cell holds no value.
	Value(row, col int) (float64, error)
	// ValueByKey returns the value at the specified row and column keys, or
	// ErrUnknownKey if either key is not present.
	ValueByKey(rowKey, colKey string) (float64, error)
}

type cell struct {
	row, col string
}

// DefaultCategoryDataset is a mutable CategoryDataset.  Cells without a
// value read as NaN.
type DefaultCategoryDataset struct {
	Notifier
	rowKeys, colKeys []string
	rowIdx, colIdx   map[string]int
	values           map[cell]float64
}

var _ CategoryDataset = &DefaultCategoryDataset{}

// NewDefaultCategoryDataset returns a new, empty DefaultCategoryDataset.
func NewDefaultCategoryDataset() *DefaultCategoryDataset {
	return &DefaultCategoryDataset{
		rowIdx: map[string]int{},
		colIdx: map[string]int{},
		values: map[cell]float64{},
	}
}

// RowCount returns the number of rows in the receiver.
func (ds *DefaultCategoryDataset) RowCount() int {
	return len(ds.rowKeys)
}

// ColumnCount returns the number of columns in the receiver.
func (ds *DefaultCategoryDataset) ColumnCount() int {
	return len(ds.colKeys)
}

func keyAt(keys []string, idx int) (string, error) {
	if idx < 0 || idx >= len(keys) {
		return "", fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, idx, len(keys))
	}
	return keys[idx], nil
}

func indexOf(idxs map[string]int, key string) int {
	idx, ok := idxs[key]
	if !ok {
		return -1
	}
	return idx
}

// RowKey returns the key of the specified row.
func (ds *DefaultCategoryDataset) RowKey(row int) (string, error) {
	return keyAt(ds.rowKeys, row)
}

// ColumnKey returns the key of the specified column.
func (ds *DefaultCategoryDataset) ColumnKey(col int) (string, error) {
	return keyAt(ds.colKeys, col)
}

// RowIndex returns the index of the specified row key, or -1.
func (ds *DefaultCategoryDataset) RowIndex(key string) int {
	return indexOf(ds.rowIdx, key)
}

// ColumnIndex returns the index of the specified column key, or -1.
func (ds *DefaultCategoryDataset) ColumnIndex(key string) int {
	return indexOf(ds.colIdx, key)
}

// RowKeys returns a copy of the receiver's row keys.
func (ds *DefaultCategoryDataset) RowKeys() []string {
	return append([]string{}, ds.rowKeys...)
}

// ColumnKeys returns a copy of the receiver's column keys.
func (ds *DefaultCategoryDataset) ColumnKeys() []string {
	return append([]string{}, ds.colKeys...)
}

func (ds *DefaultCategoryDataset) value(rowKey, colKey string) float64 {
	v, ok := ds.values[cell{rowKey, colKey}]
	if !ok {
		return math.NaN()
	}
	return v
}

// Value returns the value at the specified row and column.
func (ds *DefaultCategoryDataset) Value(row, col int) (float64, error) {
	rowKey, err := ds.RowKey(row)
	if err != nil {
		return 0, err
	}
	colKey, err := ds.ColumnKey(col)
	if err != nil {
		return 0, err
	}
	return ds.value(rowKey, colKey), nil
}

// ValueByKey returns the value at the specified row and column keys.
func (ds *DefaultCategoryDataset) ValueByKey(rowKey, colKey string) (float64, error) {
	if ds.RowIndex(rowKey) < 0 {
		return 0, fmt.Errorf("%w: row '%s'", ErrUnknownKey, rowKey)
	}
	if ds.ColumnIndex(colKey) < 0 {
		return 0, fmt.Errorf("%w: column '%s'", ErrUnknownKey, colKey)
	}
	return ds.value(rowKey, colKey), nil
}

// SetValue sets the value at the specified row and column keys, adding the
// keys if they are new.
func (ds *DefaultCategoryDataset) SetValue(v float64, rowKey, colKey string) {
	if _, ok := ds.rowIdx[rowKey]; !ok {
		ds.rowIdx[rowKey] = len(ds.rowKeys)
		ds.rowKeys = append(ds.rowKeys, rowKey)
	}
	if _, ok := ds.colIdx[colKey]; !ok {
		ds.colIdx[colKey] = len(ds.colKeys)
		ds.colKeys = append(ds.colKeys, colKey)
	}
	ds.values[cell{rowKey, colKey}] = v
	ds.Notify(ds)
}

// AddValue is a synonym for SetValue.
func (ds *DefaultCategoryDataset) AddValue(v float64, rowKey, colKey string) {
	ds.SetValue(v, rowKey, colKey)
}

// IncrementValue adds delta to the value at the specified keys, treating an
// absent value as zero.
func (ds *DefaultCategoryDataset) IncrementValue(delta float64, rowKey, colKey string) {
	v, ok := ds.values[cell{rowKey, colKey}]
	if !ok {
		v = 0
	}
	ds.SetValue(v+delta, rowKey, colKey)
}

// RemoveValue clears the value at the specified keys.  A row or column left
// with no values is removed.
func (ds *DefaultCategoryDataset) RemoveValue(rowKey, colKey string) error {
	if ds.RowIndex(rowKey) < 0 || ds.ColumnIndex(colKey) < 0 {
		return fmt.Errorf("%w: cell ('%s', '%s')", ErrUnknownKey, rowKey, colKey)
	}
	delete(ds.values, cell{rowKey, colKey})
	if !ds.rowHasValues(rowKey) {
		ds.removeRow(rowKey)
	}
	if !ds.columnHasValues(colKey) {
		ds.removeColumn(colKey)
	}
	ds.Notify(ds)
	return nil
}

func (ds *DefaultCategoryDataset) rowHasValues(rowKey string) bool {
	for _, colKey := range ds.colKeys {
		if _, ok := ds.values[cell{rowKey, colKey}]; ok {
			return true
		}
	}
	return false
}

func (ds *DefaultCategoryDataset) columnHasValues(colKey string) bool {
	for _, rowKey := range ds.rowKeys {
		if _, ok := ds.values[cell{rowKey, colKey}]; ok {
			return true
		}
	}
	return false
}

// removeKey removes key from keys, reindexing idxs.
func removeKey(keys []string, idxs map[string]int, key string) []string {
	idx := idxs[key]
	keys = append(keys[:idx], keys[idx+1:]...)
	delete(idxs, key)
	for i := idx; i < len(keys); i++ {
		idxs[keys[i]] = i
	}
	return keys
}

func (ds *DefaultCategoryDataset) removeRow(rowKey string) {
	for _, colKey := range ds.colKeys {
		delete(ds.values, cell{rowKey, colKey})
	}
	ds.rowKeys = removeKey(ds.rowKeys, ds.rowIdx, rowKey)
}

func (ds *DefaultCategoryDataset) removeColumn(colKey string) {
	for _, rowKey := range ds.rowKeys {
		delete(ds.values, cell{rowKey, colKey})
	}
	ds.colKeys = removeKey(ds.colKeys, ds.colIdx, colKey)
}

// RemoveRow removes the specified row and its values.
func (ds *DefaultCategoryDataset) RemoveRow(rowKey string) error {
	if ds.RowIndex(rowKey) < 0 {
		return fmt.Errorf("%w: row '%s'", ErrUnknownKey, rowKey)
	}
	ds.removeRow(rowKey)
	ds.Notify(ds)
	return nil
}

// RemoveColumn removes the specified column and its values.
func (ds *DefaultCategoryDataset) RemoveColumn(colKey string) error {
	if ds.ColumnIndex(colKey) < 0 {
		return fmt.Errorf("%w: column '%s'", ErrUnknownKey, colKey)
	}
	ds.removeColumn(colKey)
	ds.Notify(ds)
	return nil
}

// Clear removes every row, column, and value.
func (ds *DefaultCategoryDataset) Clear() {
	ds.rowKeys, ds.colKeys = nil, nil
	ds.rowIdx = map[string]int{}
	ds.colIdx = map[string]int{}
	ds.values = map[cell]float64{}
	ds.Notify(ds)
}

// Equal returns true if other has the same keys, in the same order, and
// the same values as the receiver.
func (ds *DefaultCategoryDataset) Equal(other CategoryDataset) bool {
	return CategoryDatasetsEqual(ds, other)
}

func sameValue(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

func sameKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for idx := range a {
		if a[idx] != b[idx] {
			return false
		}
	}
	return true
}

// CategoryDatasetsEqual returns true if a and b have the same row and column
// keys, in the same order, and the same values.  Absent values are equal to
// each other.
func CategoryDatasetsEqual(a, b CategoryDataset) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !sameKeys(a.RowKeys(), b.RowKeys()) || !sameKeys(a.ColumnKeys(), b.ColumnKeys()) {
		return false
	}
	for row := 0; row < a.RowCount(); row++ {
		for col := 0; col < a.ColumnCount(); col++ {
			av, aErr := a.Value(row, col)
			bv, bErr := b.Value(row, col)
			if aErr != nil || bErr != nil || !sameValue(av, bv) {
				return false
			}
		}
	}
	return true
}
