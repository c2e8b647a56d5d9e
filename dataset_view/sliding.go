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

// Package datasetview provides views presenting a transformed dataset over
// an underlying mutable one.  Views hold no copy of the underlying data:
// counts and keys are recomputed from it on every call, and its change
// events are forwarded to the view's own listeners.
package datasetview

import (
	"errors"
	"fmt"

	"github.com/ilhamster/tickline/dataset"
)

var (
	// ErrInvalidWindow is returned when a sliding window's parameters are
	// out of range.
	ErrInvalidWindow = errors.New("invalid window")
	// ErrInvalidInterval is returned when an interval width or position
	// factor is out of range.
	ErrInvalidInterval = errors.New("invalid interval")
)

// SlidingCategoryDataset presents a window of at most maxCount columns of an
// underlying CategoryDataset, starting at column first.  Rows pass through
// unchanged.
type SlidingCategoryDataset struct {
	dataset.Notifier
	underlying dataset.CategoryDataset
	sub        dataset.Subscription
	first, max int
}

var _ dataset.CategoryDataset = &SlidingCategoryDataset{}

// NewSlidingCategoryDataset returns a new SlidingCategoryDataset over
// underlying.  Close should be called when the view is no longer needed.
func NewSlidingCategoryDataset(underlying dataset.CategoryDataset, first, maxCount int) (*SlidingCategoryDataset, error) {
	if first < 0 || maxCount < 0 {
		return nil, fmt.Errorf("%w: first %d, maximum count %d", ErrInvalidWindow, first, maxCount)
	}
	s := &SlidingCategoryDataset{
		underlying: underlying,
		first:      first,
		max:        maxCount,
	}
	s.sub = underlying.Subscribe(func(dataset.ChangeEvent) {
		s.Notify(s)
	})
	return s, nil
}

// Close stops forwarding the underlying dataset's changes.
func (s *SlidingCategoryDataset) Close() {
	s.underlying.Unsubscribe(s.sub)
}

// Underlying returns the dataset the receiver is a view of.
func (s *SlidingCategoryDataset) Underlying() dataset.CategoryDataset {
	return s.underlying
}

// FirstCategoryIndex returns the underlying index of the receiver's first
// column.
func (s *SlidingCategoryDataset) FirstCategoryIndex() int {
	return s.first
}

// SetFirstCategoryIndex moves the window to start at the specified
// underlying column.
func (s *SlidingCategoryDataset) SetFirstCategoryIndex(first int) error {
	if first < 0 || first >= s.underlying.ColumnCount() {
		return fmt.Errorf("%w: first index %d not in [0, %d)", ErrInvalidWindow, first, s.underlying.ColumnCount())
	}
	s.first = first
	s.Notify(s)
	return nil
}

// MaximumCategoryCount returns the maximum number of columns in the window.
func (s *SlidingCategoryDataset) MaximumCategoryCount() int {
	return s.max
}

// SetMaximumCategoryCount resizes the window.
func (s *SlidingCategoryDataset) SetMaximumCategoryCount(maxCount int) error {
	if maxCount < 0 {
		return fmt.Errorf("%w: maximum count %d", ErrInvalidWindow, maxCount)
	}
	s.max = maxCount
	s.Notify(s)
	return nil
}

// last returns the underlying index of the window's last column, or -1 if
// the window is empty.
func (s *SlidingCategoryDataset) last() int {
	if s.max == 0 {
		return -1
	}
	return min(s.first+s.max, s.underlying.ColumnCount()) - 1
}

// RowCount returns the number of rows in the underlying dataset.
func (s *SlidingCategoryDataset) RowCount() int {
	return s.underlying.RowCount()
}

// ColumnCount returns the number of columns currently in the window.
func (s *SlidingCategoryDataset) ColumnCount() int {
	return max(s.last()-s.first+1, 0)
}

// RowKey returns the key of the specified row.
func (s *SlidingCategoryDataset) RowKey(row int) (string, error) {
	return s.underlying.RowKey(row)
}

// RowIndex returns the index of the specified row key, or -1.
func (s *SlidingCategoryDataset) RowIndex(key string) int {
	return s.underlying.RowIndex(key)
}

// RowKeys returns the underlying dataset's row keys.
func (s *SlidingCategoryDataset) RowKeys() []string {
	return s.underlying.RowKeys()
}

// checkColumn reports a column outside the window both as an unknown key and
// as an index out of range.
func (s *SlidingCategoryDataset) checkColumn(col int) error {
	if count := s.ColumnCount(); col < 0 || col >= count {
		return fmt.Errorf("%w: %w: column %d not in window [0, %d)", dataset.ErrUnknownKey, dataset.ErrIndexOutOfRange, col, count)
	}
	return nil
}

// ColumnKey returns the key of the specified window column.
func (s *SlidingCategoryDataset) ColumnKey(col int) (string, error) {
	if err := s.checkColumn(col); err != nil {
		return "", err
	}
	return s.underlying.ColumnKey(col + s.first)
}

// ColumnIndex returns the window index of the specified column key, or -1
// if it is not in the window.
func (s *SlidingCategoryDataset) ColumnIndex(key string) int {
	idx := s.underlying.ColumnIndex(key)
	if idx >= s.first && idx <= s.last() {
		return idx - s.first
	}
	return -1
}

// ColumnKeys returns the keys of the columns in the window.
func (s *SlidingCategoryDataset) ColumnKeys() []string {
	ret := []string{}
	for idx := s.first; idx <= s.last(); idx++ {
		key, err := s.underlying.ColumnKey(idx)
		if err != nil {
			break
		}
		ret = append(ret, key)
	}
	return ret
}

// Value returns the value at the specified row and window column.
func (s *SlidingCategoryDataset) Value(row, col int) (float64, error) {
	if err := s.checkColumn(col); err != nil {
		return 0, err
	}
	return s.underlying.Value(row, col+s.first)
}

// ValueByKey returns the value at the specified keys.  Columns outside the
// window yield ErrUnknownKey.
func (s *SlidingCategoryDataset) ValueByKey(rowKey, colKey string) (float64, error) {
	row := s.RowIndex(rowKey)
	if row < 0 {
		return 0, fmt.Errorf("%w: row '%s'", dataset.ErrUnknownKey, rowKey)
	}
	col := s.ColumnIndex(colKey)
	if col < 0 {
		return 0, fmt.Errorf("%w: column '%s' not in window", dataset.ErrUnknownKey, colKey)
	}
	return s.Value(row, col)
}

// Equal returns true if other is a SlidingCategoryDataset with the same
// window over an equal underlying dataset.
func (s *SlidingCategoryDataset) Equal(other dataset.CategoryDataset) bool {
	o, ok := other.(*SlidingCategoryDataset)
	if !ok {
		return false
	}
	if s.first != o.first || s.max != o.max {
		return false
	}
	if eq, ok := s.underlying.(interface {
		Equal(dataset.CategoryDataset) bool
	}); ok {
		return eq.Equal(o.underlying)
	}
	return dataset.CategoryDatasetsEqual(s.underlying, o.underlying)
}
