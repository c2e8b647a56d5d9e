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

package util

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Datum is a node in a response data series: a set of properties keyed by
// string table index, and an ordered list of children.
type Datum struct {
	Properties map[int64]*V
	Children   []*Datum
}

func (d *Datum) sortedKeys(less func(a, b int64) bool) []int64 {
	keys := make([]int64, 0, len(d.Properties))
	for k := range d.Properties {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		return less(keys[a], keys[b])
	})
	return keys
}

// PrettyPrint returns the receiver deterministically printed, with
// properties in key order.  Only for use in tests.
func (d *Datum) PrettyPrint(indent string, st []string) string {
	lines := []string{}
	for _, k := range d.sortedKeys(func(a, b int64) bool { return st[a] < st[b] }) {
		lines = append(lines, fmt.Sprintf("%sProp '%s': %s", indent, st[k], d.Properties[k].PrettyPrint(st)))
	}
	for _, child := range d.Children {
		lines = append(lines, indent+"Child:", child.PrettyPrint(indent+"  ", st))
	}
	return strings.Join(lines, "\n")
}

// MarshalJSON encodes a Datum as [properties, children], where properties
// is an array of [key, V] pairs.
func (d *Datum) MarshalJSON() ([]byte, error) {
	keys := d.sortedKeys(func(a, b int64) bool { return a < b })
	props := make([]any, len(keys))
	for idx, k := range keys {
		props[idx] = []any{k, d.Properties[k]}
	}
	children := d.Children
	if children == nil {
		children = []*Datum{}
	}
	return json.Marshal([]any{props, children})
}

func (d *Datum) fromAny(sd []any) error {
	if len(sd) != 2 {
		return fmt.Errorf("datum must have two elements, got %d", len(sd))
	}
	props, ok := sd[0].([]any)
	if !ok {
		return fmt.Errorf("datum properties must be an array")
	}
	children, ok := sd[1].([]any)
	if !ok {
		return fmt.Errorf("datum children must be an array")
	}
	d.Properties = make(map[int64]*V, len(props))
	for _, prop := range props {
		kv, ok := prop.([]any)
		if !ok || len(kv) != 2 {
			return fmt.Errorf("datum property must be a [key, value] pair")
		}
		k, err := asInt(kv[0])
		if err != nil {
			return err
		}
		raw, ok := kv[1].([]any)
		if !ok {
			return fmt.Errorf("datum property value must be an array")
		}
		v := &V{}
		if err := v.fromAny(raw); err != nil {
			return err
		}
		d.Properties[k] = v
	}
	d.Children = make([]*Datum, len(children))
	for idx, c := range children {
		raw, ok := c.([]any)
		if !ok {
			return fmt.Errorf("datum child must be an array")
		}
		child := &Datum{}
		if err := child.fromAny(raw); err != nil {
			return err
		}
		d.Children[idx] = child
	}
	return nil
}

// UnmarshalJSON decodes a Datum from its compact JSON form.
func (d *Datum) UnmarshalJSON(data []byte) error {
	sd := []any{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&sd); err != nil {
		return err
	}
	return d.fromAny(sd)
}

// DataSeriesRequest is a client's request for a single data series.
type DataSeriesRequest struct {
	QueryName  string
	SeriesName string
	Options    map[string]*V
}

// DataSeries is a complete data series response.
type DataSeries struct {
	SeriesName string
	Root       *Datum
}

// PrettyPrint returns the receiver deterministically printed.  Only for use
// in tests.
func (ds *DataSeries) PrettyPrint(indent string, st []string) string {
	return strings.Join([]string{
		fmt.Sprintf("%sSeries %s", indent, ds.SeriesName),
		indent + "  Root:",
		ds.Root.PrettyPrint(indent+"    ", st),
	}, "\n")
}

// DataRequest is a client's request for one or more data series.
type DataRequest struct {
	GlobalFilters  map[string]*V
	SeriesRequests []*DataSeriesRequest
}

// DataRequestFromJSON decodes a DataRequest from JSON.
func DataRequestFromJSON(j []byte) (*DataRequest, error) {
	ret := &DataRequest{}
	if err := json.Unmarshal(j, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// Data is a complete data response.  String-valued properties and all
// property keys are interned in StringTable.
type Data struct {
	StringTable []string
	DataSeries  []*DataSeries
}

// PrettyPrint returns the receiver deterministically printed.  Only for use
// in tests.
func (d *Data) PrettyPrint() string {
	lines := []string{"Data:"}
	for _, series := range d.DataSeries {
		lines = append(lines, series.PrettyPrint("  ", d.StringTable))
	}
	return strings.Join(lines, "\n")
}

// stringTable interns strings.  It is safe for concurrent use.
type stringTable struct {
	mu      sync.Mutex
	indices map[string]int64
	strs    []string
}

func newStringTable() *stringTable {
	return &stringTable{
		indices: map[string]int64{},
		strs:    []string{},
	}
}

func (st *stringTable) index(str string) int64 {
	st.mu.Lock()
	defer st.mu.Unlock()
	if idx, ok := st.indices[str]; ok {
		return idx
	}
	idx := int64(len(st.strs))
	st.strs = append(st.strs, str)
	st.indices[str] = idx
	return idx
}

func (st *stringTable) snapshot() []string {
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]string{}, st.strs...)
}

// errorLog accumulates errors raised while building a response.  It is safe
// for concurrent use.
type errorLog struct {
	mu   sync.Mutex
	errs []error
}

func (el *errorLog) add(err error) {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.errs = append(el.errs, err)
}

func (el *errorLog) failed() bool {
	el.mu.Lock()
	defer el.mu.Unlock()
	return len(el.errs) > 0
}

func (el *errorLog) err() error {
	el.mu.Lock()
	defer el.mu.Unlock()
	return errors.Join(el.errs...)
}

// DataResponseBuilder assembles the response to a DataRequest.
type DataResponseBuilder struct {
	st     *stringTable
	errs   *errorLog
	mu     sync.Mutex
	series []*DataSeries
}

// NewDataResponseBuilder returns a new, empty DataResponseBuilder.
func NewDataResponseBuilder() *DataResponseBuilder {
	return &DataResponseBuilder{
		st:     newStringTable(),
		errs:   &errorLog{},
		series: []*DataSeries{},
	}
}

// DataBuilder is implemented by types that can assemble response Datums.
type DataBuilder interface {
	// With applies the provided PropertyUpdates, in order, to the Datum under
	// construction.
	With(updates ...PropertyUpdate) DataBuilder
	// Child appends a new child to the Datum under construction, returning a
	// DataBuilder for it.
	Child() DataBuilder
}

// DataSeries returns a DataBuilder for the root of the response to the
// provided DataSeriesRequest.  It is safe for concurrent use.
func (drb *DataResponseBuilder) DataSeries(req *DataSeriesRequest) DataBuilder {
	db := newDatumBuilder(drb.errs, drb.st)
	drb.mu.Lock()
	defer drb.mu.Unlock()
	drb.series = append(drb.series, &DataSeries{
		SeriesName: req.SeriesName,
		Root:       db.d,
	})
	return db
}

// Data completes and returns the response under construction, or the errors
// raised while building it.
func (drb *DataResponseBuilder) Data() (*Data, error) {
	if err := drb.errs.err(); err != nil {
		return nil, err
	}
	drb.mu.Lock()
	defer drb.mu.Unlock()
	return &Data{
		StringTable: drb.st.snapshot(),
		DataSeries:  drb.series,
	}, nil
}
