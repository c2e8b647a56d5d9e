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

// Package querydispatcher provides QueryDispatcher, which routes the series
// requests of a DataRequest to the data sources able to answer them.
package querydispatcher

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ilhamster/tickline/util"
)

var (
	// ErrDuplicateQuery is returned when two data sources claim the same
	// query name.
	ErrDuplicateQuery = errors.New("query handled by multiple data sources")
	// ErrUnsupportedQuery is returned when no data source handles a requested
	// query.
	ErrUnsupportedQuery = errors.New("unsupported data query")
)

// DataSource answers data series queries.  Implementations must support
// concurrent HandleDataSeriesRequests calls.
type DataSource interface {
	// SupportedDataSeriesQueries returns the query names this DataSource
	// handles.  Query names should be unique across DataSources, for
	// example by sharing a DataSource-specific prefix.
	SupportedDataSeriesQueries() []string
	// HandleDataSeriesRequests adds one DataSeries to drb per provided
	// request.  Any returned error fails the entire DataRequest.
	HandleDataSeriesRequests(ctx context.Context, globalState map[string]*util.V, drb *util.DataResponseBuilder, reqs []*util.DataSeriesRequest) error
}

// QueryDispatcher multiplexes several DataSources.
type QueryDispatcher struct {
	dataSources []DataSource
	// Maps query names to indices in dataSources.
	handlers map[string]int
}

// New returns a QueryDispatcher wrapping the provided DataSources.
func New(dss ...DataSource) (*QueryDispatcher, error) {
	qd := &QueryDispatcher{
		handlers: map[string]int{},
	}
	for dsIdx, ds := range dss {
		qd.dataSources = append(qd.dataSources, ds)
		for _, queryName := range ds.SupportedDataSeriesQueries() {
			if _, ok := qd.handlers[queryName]; ok {
				return nil, fmt.Errorf("%w: '%s'", ErrDuplicateQuery, queryName)
			}
			qd.handlers[queryName] = dsIdx
		}
	}
	return qd, nil
}

// QueryNames returns every query name the receiver can dispatch, sorted.
func (qd *QueryDispatcher) QueryNames() []string {
	ret := make([]string, 0, len(qd.handlers))
	for name := range qd.handlers {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// HandleDataRequest dispatches the series requests of req, grouped by
// DataSource, concurrently.  Series in the returned Data follow the order of
// their requests.
func (qd *QueryDispatcher) HandleDataRequest(ctx context.Context, req *util.DataRequest) (*util.Data, error) {
	drb := util.NewDataResponseBuilder()
	grouped := map[int][]*util.DataSeriesRequest{}
	order := map[string]int{}
	for idx, seriesReq := range req.SeriesRequests {
		dsIdx, ok := qd.handlers[seriesReq.QueryName]
		if !ok {
			return nil, fmt.Errorf("%w: '%s'", ErrUnsupportedQuery, seriesReq.QueryName)
		}
		grouped[dsIdx] = append(grouped[dsIdx], seriesReq)
		if _, ok := order[seriesReq.SeriesName]; !ok {
			order[seriesReq.SeriesName] = idx
		}
	}
	errg, ctx := errgroup.WithContext(ctx)
	for dsIdx, seriesReqs := range grouped {
		ds := qd.dataSources[dsIdx]
		seriesReqs := seriesReqs
		errg.Go(func() error {
			return ds.HandleDataSeriesRequests(ctx, req.GlobalFilters, drb, seriesReqs)
		})
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}
	data, err := drb.Data()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(data.DataSeries, func(a, b int) bool {
		return order[data.DataSeries[a].SeriesName] < order[data.DataSeries[b].SeriesName]
	})
	return data, nil
}
