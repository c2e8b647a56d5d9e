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

// Package testutil helps test code that builds tickline responses.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ilhamster/tickline/util"
)

// UpdateComparator checks that a set of PropertyUpdates under test has the
// same effect as an expected set.
type UpdateComparator struct {
	got, want []util.PropertyUpdate
}

// NewUpdateComparator returns a new, empty UpdateComparator.
func NewUpdateComparator() *UpdateComparator {
	return &UpdateComparator{}
}

// WithTestUpdates sets the PropertyUpdates under test.
func (uc *UpdateComparator) WithTestUpdates(got ...util.PropertyUpdate) *UpdateComparator {
	uc.got = got
	return uc
}

// WithWantUpdates sets the expected PropertyUpdates.
func (uc *UpdateComparator) WithWantUpdates(want ...util.PropertyUpdate) *UpdateComparator {
	uc.want = want
	return uc
}

// Compare applies both sets of updates to fresh Datums and compares the
// results, returning a diff message and true if they differ.  String table
// ordering is ignored.
func (uc *UpdateComparator) Compare(t *testing.T) (string, bool) {
	t.Helper()
	drb := util.NewDataResponseBuilder()
	root := drb.DataSeries(&util.DataSeriesRequest{})
	root.Child().With(uc.got...)
	root.Child().With(uc.want...)
	data, err := drb.Data()
	if err != nil {
		t.Fatalf("failed to build comparison data: %s", err)
	}
	children := data.DataSeries[0].Root.Children
	if diff := cmp.Diff(
		children[1].PrettyPrint("", data.StringTable),
		children[0].PrettyPrint("", data.StringTable)); diff != "" {
		return fmt.Sprintf("diff (-want +got):\n%s", diff), true
	}
	return "", false
}

// TestDataBuilder fluently assembles expected responses in tests.
type TestDataBuilder interface {
	With(updates ...util.PropertyUpdate) TestDataBuilder
	// Child adds a child to the receiver and returns it.
	Child() TestDataBuilder
	// AndChild adds a sibling to the receiver and returns it.
	AndChild() TestDataBuilder
	// Parent returns the receiver's parent, or the receiver at the root.
	Parent() TestDataBuilder
}

type testDataBuilder struct {
	db     util.DataBuilder
	parent *testDataBuilder
}

func (tdb *testDataBuilder) With(updates ...util.PropertyUpdate) TestDataBuilder {
	tdb.db.With(updates...)
	return tdb
}

func (tdb *testDataBuilder) Child() TestDataBuilder {
	return &testDataBuilder{
		db:     tdb.db.Child(),
		parent: tdb,
	}
}

func (tdb *testDataBuilder) AndChild() TestDataBuilder {
	if tdb.parent == nil {
		return tdb.Child()
	}
	return tdb.parent.Child()
}

func (tdb *testDataBuilder) Parent() TestDataBuilder {
	if tdb.parent == nil {
		return tdb
	}
	return tdb.parent
}

func dataOf(d any) (*util.Data, error) {
	switch v := d.(type) {
	case *util.DataResponseBuilder:
		return v.Data()
	case *util.Data:
		return v, nil
	}
	return nil, fmt.Errorf("expected *util.DataResponseBuilder or *util.Data, got %T", d)
}

// CompareDataResponses reports a test error if got and want, each either a
// *util.DataResponseBuilder or a *util.Data, differ.  It returns an error if
// either cannot be resolved to Data.
func CompareDataResponses(t *testing.T, got, want any) error {
	t.Helper()
	gotData, err := dataOf(got)
	if err != nil {
		return err
	}
	wantData, err := dataOf(want)
	if err != nil {
		return err
	}
	if diff := cmp.Diff(wantData.PrettyPrint(), gotData.PrettyPrint()); diff != "" {
		t.Errorf("got data %s, diff (-want +got):\n%s", gotData.PrettyPrint(), diff)
	}
	return nil
}

func build(t *testing.T, buildFn any) *util.DataResponseBuilder {
	t.Helper()
	drb := util.NewDataResponseBuilder()
	db := drb.DataSeries(&util.DataSeriesRequest{})
	switch fn := buildFn.(type) {
	case func(util.DataBuilder):
		fn(db)
	case func(TestDataBuilder):
		fn(&testDataBuilder{db: db})
	default:
		t.Fatalf("expected func(util.DataBuilder) or func(testutil.TestDataBuilder), got %T", buildFn)
	}
	return drb
}

// CompareResponses compares the responses assembled by two callbacks, each
// accepting either a util.DataBuilder or a TestDataBuilder.
func CompareResponses(t *testing.T, buildGot, buildWant any) error {
	t.Helper()
	return CompareDataResponses(t, build(t, buildGot), build(t, buildWant))
}
