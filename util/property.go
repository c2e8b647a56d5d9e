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
	"time"
)

// PropertyUpdate updates the properties of a Datum under construction.  A
// nil PropertyUpdate does nothing.
type PropertyUpdate func(db *datumBuilder) error

// Value is a property value whose key is not yet known.
type Value func(key string) PropertyUpdate

// EmptyUpdate is a PropertyUpdate that does nothing.
var EmptyUpdate PropertyUpdate = nil

type datumBuilder struct {
	errs *errorLog
	st   *stringTable
	d    *Datum
}

func newDatumBuilder(errs *errorLog, st *stringTable) *datumBuilder {
	return &datumBuilder{
		errs: errs,
		st:   st,
		d: &Datum{
			Properties: map[int64]*V{},
			Children:   []*Datum{},
		},
	}
}

// With applies the provided PropertyUpdates in order.  Once any update has
// failed, further updates are ignored.
func (db *datumBuilder) With(updates ...PropertyUpdate) DataBuilder {
	if db.errs.failed() {
		return db
	}
	for _, update := range updates {
		if update == nil {
			continue
		}
		if err := update(db); err != nil {
			db.errs.add(err)
			break
		}
	}
	return db
}

func (db *datumBuilder) Child() DataBuilder {
	child := newDatumBuilder(db.errs, db.st)
	db.d.Children = append(db.d.Children, child.d)
	return child
}

func (db *datumBuilder) set(key string, v *V) {
	db.d.Properties[db.st.index(key)] = v
}

// setIndexed sets a property whose value refers to string table entries.
// The key is interned ahead of the values.
func (db *datumBuilder) setIndexed(key string, values []string, wrap func(idxs []int64) *V) {
	k := db.st.index(key)
	idxs := make([]int64, len(values))
	for i, value := range values {
		idxs[i] = db.st.index(value)
	}
	db.d.Properties[k] = wrap(idxs)
}

// ErrorProperty fails the response under construction with err.
func ErrorProperty(err error) PropertyUpdate {
	return func(*datumBuilder) error {
		return err
	}
}

// If applies update only if predicate is true.
func If(predicate bool, update PropertyUpdate) PropertyUpdate {
	if predicate {
		return update
	}
	return EmptyUpdate
}

// Chain applies the provided PropertyUpdates in order.
func Chain(updates ...PropertyUpdate) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.With(updates...)
		return nil
	}
}

// String produces a Value setting the specified string.
func String(value string) Value {
	return func(key string) PropertyUpdate {
		return StringProperty(key, value)
	}
}

// Integer produces a Value setting the specified int64.
func Integer(value int64) Value {
	return func(key string) PropertyUpdate {
		return IntegerProperty(key, value)
	}
}

// Double produces a Value setting the specified float64.
func Double(value float64) Value {
	return func(key string) PropertyUpdate {
		return DoubleProperty(key, value)
	}
}

// Timestamp produces a Value setting the specified time.
func Timestamp(value time.Time) Value {
	return func(key string) PropertyUpdate {
		return TimestampProperty(key, value)
	}
}

// StringProperty sets a string property.  The value is interned in the
// response's string table.
func StringProperty(key, value string) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.setIndexed(key, []string{value}, func(idxs []int64) *V {
			return StringIndexValue(idxs[0])
		})
		return nil
	}
}

// StringsProperty sets a string slice property.
func StringsProperty(key string, values ...string) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.setIndexed(key, values, func(idxs []int64) *V {
			return StringIndicesValue(idxs...)
		})
		return nil
	}
}

// IntegerProperty sets an integer property.
func IntegerProperty(key string, value int64) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.set(key, IntegerValue(value))
		return nil
	}
}

// IntegersProperty sets an integer slice property.
func IntegersProperty(key string, values ...int64) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.set(key, IntegersValue(values...))
		return nil
	}
}

// DoubleProperty sets a double property.
func DoubleProperty(key string, value float64) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.set(key, DoubleValue(value))
		return nil
	}
}

// DurationProperty sets a duration property.
func DurationProperty(key string, value time.Duration) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.set(key, DurationValue(value))
		return nil
	}
}

// TimestampProperty sets a timestamp property.
func TimestampProperty(key string, value time.Time) PropertyUpdate {
	return func(db *datumBuilder) error {
		db.set(key, TimestampValue(value))
		return nil
	}
}

// StringsPropertyExtended appends values to a string slice property,
// creating it if it is not yet set.
func StringsPropertyExtended(key string, values ...string) PropertyUpdate {
	return func(db *datumBuilder) error {
		k := db.st.index(key)
		var idxs []int64
		if existing, ok := db.d.Properties[k]; ok {
			if err := expect(existing, StringIndicesValueType); err != nil {
				return err
			}
			idxs = append(idxs, existing.V.([]int64)...)
		}
		for _, value := range values {
			idxs = append(idxs, db.st.index(value))
		}
		db.d.Properties[k] = StringIndicesValue(idxs...)
		return nil
	}
}
