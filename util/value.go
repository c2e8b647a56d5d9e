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

// Package util holds the response model shared by tickline data sources:
//
// V, a typed value carried in requests and responses, with {type}Value
// constructors and Expect{type}Value accessors that fail on type mismatch;
//
// DataResponseBuilder and DataBuilder, for assembling response data as trees
// of Datums whose properties are set by PropertyUpdates.
package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type valueType int

// Enumerated value types.  The numbering is part of the wire format.
const (
	unsetValue valueType = iota
	StringValueType
	StringIndexValueType
	StringsValueType
	StringIndicesValueType
	IntegerValueType
	IntegersValueType
	DoubleValueType
	DurationValueType
	TimestampValueType
)

var valueTypeNames = map[valueType]string{
	unsetValue:             "unset",
	StringValueType:        "str",
	StringIndexValueType:   "str_idx",
	StringsValueType:       "strs",
	StringIndicesValueType: "str_idxs",
	IntegerValueType:       "int",
	IntegersValueType:      "ints",
	DoubleValueType:        "dbl",
	DurationValueType:      "dur",
	TimestampValueType:     "ts",
}

// V is a typed value in a request or response.
type V struct {
	V any
	T valueType
}

// timestamp is the wire form of a TimestampValueType V.
type timestamp struct {
	UnixSeconds int64
	UnixNanos   int64
}

func (ts timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int64{ts.UnixSeconds, ts.UnixNanos})
}

// MarshalJSON encodes a V compactly as the two-element array
// [type, value].  Timestamps are encoded as [seconds, nanoseconds] since the
// epoch, and durations as integral nanoseconds.
func (v *V) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{v.T, v.V})
}

func asInt(a any) (int64, error) {
	n, ok := a.(json.Number)
	if !ok {
		return 0, fmt.Errorf("expected a number, got %T", a)
	}
	return n.Int64()
}

func asInts(a any) ([]int64, error) {
	items, ok := a.([]any)
	if !ok {
		return nil, fmt.Errorf("expected an array, got %T", a)
	}
	ret := make([]int64, len(items))
	for idx, item := range items {
		i, err := asInt(item)
		if err != nil {
			return nil, err
		}
		ret[idx] = i
	}
	return ret, nil
}

func (v *V) fromAny(got []any) error {
	if len(got) != 2 {
		return fmt.Errorf("value must have two elements, got %d", len(got))
	}
	t, err := asInt(got[0])
	if err != nil {
		return err
	}
	v.T = valueType(t)
	raw := got[1]
	switch v.T {
	case StringIndexValueType, IntegerValueType:
		v.V, err = asInt(raw)
	case DurationValueType:
		var ns int64
		ns, err = asInt(raw)
		v.V = time.Duration(ns)
	case DoubleValueType:
		n, ok := raw.(json.Number)
		if !ok {
			return fmt.Errorf("expected a number, got %T", raw)
		}
		v.V, err = n.Float64()
	case StringIndicesValueType, IntegersValueType:
		v.V, err = asInts(raw)
	case StringsValueType:
		items, ok := raw.([]any)
		if !ok {
			return fmt.Errorf("expected an array, got %T", raw)
		}
		strs := make([]string, len(items))
		for idx, item := range items {
			str, ok := item.(string)
			if !ok {
				return fmt.Errorf("expected a string, got %T", item)
			}
			if strs[idx], err = url.QueryUnescape(str); err != nil {
				return err
			}
		}
		v.V = strs
	case TimestampValueType:
		var parts []int64
		if parts, err = asInts(raw); err != nil {
			return err
		}
		if len(parts) != 2 {
			return fmt.Errorf("timestamp value is improperly formed")
		}
		v.V = timestamp{UnixSeconds: parts[0], UnixNanos: parts[1]}
	default:
		v.V = raw
	}
	return err
}

// UnmarshalJSON decodes a V from its compact JSON form.
func (v *V) UnmarshalJSON(data []byte) error {
	var got []any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&got); err != nil {
		return err
	}
	return v.fromAny(got)
}

// PrettyPrint returns the receiver deterministically printed, resolving
// string indices through st.  Only for use in tests.
func (v *V) PrettyPrint(st []string) string {
	quote := func(strs ...string) string {
		return "'" + strings.Join(strs, "', '") + "'"
	}
	lookup := func(idxs ...int64) []string {
		ret := make([]string, len(idxs))
		for i, idx := range idxs {
			if idx >= 0 && int(idx) < len(st) {
				ret[i] = st[idx]
			}
		}
		return ret
	}
	switch val := v.V.(type) {
	case nil:
		return "unset"
	case string:
		return quote(val)
	case []string:
		return "[ " + quote(val...) + " ]"
	case int64:
		if v.T == StringIndexValueType {
			return quote(lookup(val)...)
		}
		return strconv.FormatInt(val, 10)
	case []int64:
		if v.T == StringIndicesValueType {
			return "[ " + quote(lookup(val...)...) + " ]"
		}
		strs := make([]string, len(val))
		for i, n := range val {
			strs[i] = strconv.FormatInt(n, 10)
		}
		return "[ " + strings.Join(strs, ", ") + " ]"
	case float64:
		return fmt.Sprintf("%.6f", val)
	case time.Duration:
		return val.String()
	case timestamp:
		return time.Unix(val.UnixSeconds, val.UnixNanos).UTC().String()
	}
	return fmt.Sprintf("%v", v.V)
}

// StringValue returns a new V wrapping the provided string.
func StringValue(str string) *V {
	return &V{V: str, T: StringValueType}
}

// StringIndexValue returns a new V wrapping the provided string table index.
func StringIndexValue(strIdx int64) *V {
	return &V{V: strIdx, T: StringIndexValueType}
}

// StringsValue returns a new V wrapping the provided strings.
func StringsValue(strs ...string) *V {
	return &V{V: strs, T: StringsValueType}
}

// StringIndicesValue returns a new V wrapping the provided string table
// indices.
func StringIndicesValue(strIdxs ...int64) *V {
	return &V{V: strIdxs, T: StringIndicesValueType}
}

// IntegerValue returns a new V wrapping the provided int64.
func IntegerValue(i int64) *V {
	return &V{V: i, T: IntegerValueType}
}

// IntegersValue returns a new V wrapping the provided int64s.
func IntegersValue(ints ...int64) *V {
	return &V{V: ints, T: IntegersValueType}
}

// DoubleValue returns a new V wrapping the provided float64.
func DoubleValue(f float64) *V {
	return &V{V: f, T: DoubleValueType}
}

// DurationValue returns a new V wrapping the provided Duration.
func DurationValue(dur time.Duration) *V {
	return &V{V: dur, T: DurationValueType}
}

// TimestampValue returns a new V wrapping the provided Time.
func TimestampValue(t time.Time) *V {
	return &V{
		V: timestamp{
			UnixSeconds: t.Unix(),
			UnixNanos:   int64(t.Nanosecond()),
		},
		T: TimestampValueType,
	}
}

func expect(val *V, want valueType) error {
	if val == nil {
		return fmt.Errorf("expected value type '%s', got no value", valueTypeNames[want])
	}
	if val.T != want {
		return fmt.Errorf("expected value type '%s', got '%s'", valueTypeNames[want], valueTypeNames[val.T])
	}
	return nil
}

// ExpectStringValue returns the string wrapped by val, or an error if val is
// not a string.
func ExpectStringValue(val *V) (string, error) {
	if err := expect(val, StringValueType); err != nil {
		return "", err
	}
	return url.QueryUnescape(val.V.(string))
}

// ExpectStringsValue returns the strings wrapped by val, or an error if val
// is not a string slice.
func ExpectStringsValue(val *V) ([]string, error) {
	if err := expect(val, StringsValueType); err != nil {
		return nil, err
	}
	return val.V.([]string), nil
}

// ExpectIntegerValue returns the integer wrapped by val, or an error if val
// is not an integer.
func ExpectIntegerValue(val *V) (int64, error) {
	if err := expect(val, IntegerValueType); err != nil {
		return 0, err
	}
	return val.V.(int64), nil
}

// ExpectIntegersValue returns the integers wrapped by val, or an error if
// val is not an integer slice.
func ExpectIntegersValue(val *V) ([]int64, error) {
	if err := expect(val, IntegersValueType); err != nil {
		return nil, err
	}
	return val.V.([]int64), nil
}

// ExpectDoubleValue returns the float64 wrapped by val, or an error if val
// is not a double.
func ExpectDoubleValue(val *V) (float64, error) {
	if err := expect(val, DoubleValueType); err != nil {
		return 0, err
	}
	return val.V.(float64), nil
}

// ExpectDurationValue returns the duration wrapped by val, or an error if
// val is not a duration.
func ExpectDurationValue(val *V) (time.Duration, error) {
	if err := expect(val, DurationValueType); err != nil {
		return 0, err
	}
	return val.V.(time.Duration), nil
}

// ExpectTimestampValue returns the time wrapped by val, or an error if val
// is not a timestamp.
func ExpectTimestampValue(val *V) (time.Time, error) {
	if err := expect(val, TimestampValueType); err != nil {
		return time.Time{}, err
	}
	ts := val.V.(timestamp)
	return time.Unix(ts.UnixSeconds, ts.UnixNanos), nil
}
