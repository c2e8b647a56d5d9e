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

// Package chartsource provides a tickline data source answering date axis,
// timeline, and dataset queries over named calendars and datasets.
package chartsource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/aclements/go-moremath/stats"
	"github.com/hashicorp/golang-lru/simplelru"

	"github.com/ilhamster/tickline/category"
	"github.com/ilhamster/tickline/color"
	"github.com/ilhamster/tickline/dataset"
	datasetview "github.com/ilhamster/tickline/dataset_view"
	dateaxis "github.com/ilhamster/tickline/date_axis"
	datetick "github.com/ilhamster/tickline/date_tick"
	"github.com/ilhamster/tickline/table"
	"github.com/ilhamster/tickline/timeline"
	"github.com/ilhamster/tickline/util"
	xychart "github.com/ilhamster/tickline/xy_chart"
)

const (
	ticksQuery          = "tickline.ticks"
	timelineValuesQuery = "tickline.timeline_values"
	slidingTableQuery   = "tickline.sliding_table"
	intervalSeriesQuery = "tickline.interval_series"

	calendarKey       = "calendar"
	startTimestampKey = "start_timestamp"
	endTimestampKey   = "end_timestamp"
	unitKey           = "unit"
	unitMultipleKey   = "unit_multiple"
	maxTicksKey       = "max_ticks"
	tickPositionKey   = "tick_position"
	minorTickCountKey = "minor_tick_count"

	timestampsMsKey   = "timestamps_ms"
	timestampKey      = "timestamp"
	timelineValueKey  = "timeline_value"
	includedKey       = "included"
	snappedKey        = "snapped_timestamp"
	segmentNumberKey  = "segment_number"
	segmentStartKey   = "segment_start"
	segmentEndKey     = "segment_end"
	exceptionCountKey = "exception_count"

	datasetKey          = "dataset"
	firstCategoryKey    = "first_category"
	categoryCountKey    = "category_count"
	heatMapKey          = "heat_map"
	intervalWidthKey    = "interval_width"
	intervalPositionKey = "interval_position"
)

var (
	// ErrUnknownCalendar is returned when a query names a calendar the
	// CalendarFetcher cannot supply.
	ErrUnknownCalendar = errors.New("unknown calendar")
	// ErrUnknownDataset is returned when a query names an unregistered
	// dataset.
	ErrUnknownDataset = errors.New("unknown dataset")
	// ErrMissingOption is returned when a query lacks a required option.
	ErrMissingOption = errors.New("missing required option")
)

// CalendarFetcher describes types capable of fetching calendars by name.
type CalendarFetcher interface {
	// Fetch returns the named calendar, or an error wrapping
	// ErrUnknownCalendar if there is no such calendar.
	Fetch(ctx context.Context, name string) (*timeline.SegmentedTimeline, error)
}

// Calendars is a CalendarFetcher over a fixed set of calendars.
type Calendars map[string]*timeline.SegmentedTimeline

// Fetch returns the named calendar.
func (c Calendars) Fetch(ctx context.Context, name string) (*timeline.SegmentedTimeline, error) {
	tl, ok := c[name]
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrUnknownCalendar, name)
	}
	return tl, nil
}

var (
	xAxisCategory    = category.New("x_axis", "Time", "Instants along the calendar")
	intervalCategory = category.New("x_interval", "X", "Item intervals")
	valueCategory    = category.New("y_axis", "Value", "Item values")

	includedColor = "steelblue"
	excludedColor = "lightgrey"
	heatSpace     = color.NewSpace("heat", "white", "tomato")

	renderSettings = &table.RenderSettings{
		RowHeightPx: 20,
		FontSizePx:  14,
	}
)

// DataSource implements querydispatcher.DataSource over calendars and
// registered datasets.  It caches the most recently used calendars.
type DataSource struct {
	// Guards lru, the registered datasets, and all calendar and dataset
	// reads, since timelines memoize their exception ranks.
	mu      sync.Mutex
	lru     *simplelru.LRU
	fetcher CalendarFetcher
	logger  *slog.Logger

	categoryDatasets map[string]dataset.CategoryDataset
	xyDatasets       map[string]dataset.XYDataset
}

// Option configures a DataSource.
type Option func(ds *DataSource)

// WithLogger sets the logger to which handled queries are reported at debug
// level.  It defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ds *DataSource) {
		ds.logger = logger
	}
}

// New returns a new DataSource with the specified calendar cache capacity,
// using the provided calendar fetcher.
func New(cap int, fetcher CalendarFetcher, opts ...Option) (*DataSource, error) {
	lru, err := simplelru.NewLRU(cap, nil /* no onEvict policy */)
	if err != nil {
		return nil, err
	}
	ds := &DataSource{
		lru:              lru,
		fetcher:          fetcher,
		logger:           slog.Default(),
		categoryDatasets: map[string]dataset.CategoryDataset{},
		xyDatasets:       map[string]dataset.XYDataset{},
	}
	for _, opt := range opts {
		opt(ds)
	}
	return ds, nil
}

// RegisterCategoryDataset makes cds available to sliding table queries under
// the provided name.
func (ds *DataSource) RegisterCategoryDataset(name string, cds dataset.CategoryDataset) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if _, ok := ds.categoryDatasets[name]; ok {
		return fmt.Errorf("%w: category dataset '%s'", dataset.ErrDuplicateKey, name)
	}
	ds.categoryDatasets[name] = cds
	return nil
}

// RegisterXYDataset makes xyds available to interval series queries under
// the provided name.
func (ds *DataSource) RegisterXYDataset(name string, xyds dataset.XYDataset) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if _, ok := ds.xyDatasets[name]; ok {
		return fmt.Errorf("%w: XY dataset '%s'", dataset.ErrDuplicateKey, name)
	}
	ds.xyDatasets[name] = xyds
	return nil
}

// SupportedDataSeriesQueries returns the DataSeriesRequest query names
// supported by DataSource.
func (ds *DataSource) SupportedDataSeriesQueries() []string {
	return []string{
		ticksQuery,
		timelineValuesQuery,
		slidingTableQuery,
		intervalSeriesQuery,
	}
}

// fetchCalendar returns the named calendar from the LRU if it's present
// there, and otherwise fetches it and adds it to the LRU.  An empty name
// yields a timeline including all time.  ds.mu must be held.
func (ds *DataSource) fetchCalendar(ctx context.Context, name string) (timeline.Timeline, *time.Location, error) {
	if name == "" {
		return timeline.DefaultTimeline{}, time.UTC, nil
	}
	if tlIf, ok := ds.lru.Get(name); ok {
		tl, ok := tlIf.(*timeline.SegmentedTimeline)
		if !ok {
			return nil, nil, fmt.Errorf("cached calendar '%s' wasn't a timeline", name)
		}
		return tl, tl.Location(), nil
	}
	tl, err := ds.fetcher.Fetch(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	ds.lru.Add(name, tl)
	return tl, tl.Location(), nil
}

// query holds the global filters and options of one DataSeriesRequest.
// Options take precedence over global filters of the same name.
type query struct {
	globalFilters, options map[string]*util.V
}

func (q *query) get(key string) (*util.V, bool) {
	if v, ok := q.options[key]; ok {
		return v, true
	}
	v, ok := q.globalFilters[key]
	return v, ok
}

func (q *query) str(key, def string) (string, error) {
	v, ok := q.get(key)
	if !ok {
		return def, nil
	}
	return util.ExpectStringValue(v)
}

func (q *query) integer(key string, def int64) (int64, error) {
	v, ok := q.get(key)
	if !ok {
		return def, nil
	}
	return util.ExpectIntegerValue(v)
}

func (q *query) double(key string) (float64, bool, error) {
	v, ok := q.get(key)
	if !ok {
		return 0, false, nil
	}
	d, err := util.ExpectDoubleValue(v)
	return d, true, err
}

func (q *query) timestamp(key string) (time.Time, error) {
	v, ok := q.get(key)
	if !ok {
		return time.Time{}, fmt.Errorf("%w '%s'", ErrMissingOption, key)
	}
	return util.ExpectTimestampValue(v)
}

// HandleDataSeriesRequests handles the provided set of DataSeriesRequests,
// with the provided global filters, assembling responses in drb.
func (ds *DataSource) HandleDataSeriesRequests(ctx context.Context, globalFilters map[string]*util.V, drb *util.DataResponseBuilder, reqs []*util.DataSeriesRequest) error {
	start := time.Now()
	queryNames := make([]string, 0, len(reqs))
	for _, req := range reqs {
		queryNames = append(queryNames, req.QueryName)
	}
	defer func() {
		ds.logger.Debug("handled queries", "queries", strings.Join(queryNames, ", "), "duration", time.Since(start))
	}()
	ds.mu.Lock()
	defer ds.mu.Unlock()
	for _, req := range reqs {
		q := &query{globalFilters: globalFilters, options: req.Options}
		series := drb.DataSeries(req)
		var err error
		switch req.QueryName {
		case ticksQuery:
			err = ds.handleTicksQuery(ctx, q, series)
		case timelineValuesQuery:
			err = ds.handleTimelineValuesQuery(ctx, q, series)
		case slidingTableQuery:
			err = ds.handleSlidingTableQuery(q, series)
		case intervalSeriesQuery:
			err = ds.handleIntervalSeriesQuery(q, series)
		default:
			err = fmt.Errorf("unsupported data query")
		}
		if err != nil {
			return fmt.Errorf("error handling data query %s: %w", req.QueryName, err)
		}
	}
	return nil
}

func (ds *DataSource) handleTicksQuery(ctx context.Context, q *query, series util.DataBuilder) error {
	calendarName, err := q.str(calendarKey, "")
	if err != nil {
		return err
	}
	tl, loc, err := ds.fetchCalendar(ctx, calendarName)
	if err != nil {
		return err
	}
	startTs, err := q.timestamp(startTimestampKey)
	if err != nil {
		return err
	}
	endTs, err := q.timestamp(endTimestampKey)
	if err != nil {
		return err
	}
	opts := []dateaxis.Option{
		dateaxis.WithTimeline(tl),
		dateaxis.WithLocation(loc),
	}
	unitName, err := q.str(unitKey, "")
	if err != nil {
		return err
	}
	if unitName != "" {
		ut, err := datetick.ParseUnitType(unitName)
		if err != nil {
			return err
		}
		multiple, err := q.integer(unitMultipleKey, 1)
		if err != nil {
			return err
		}
		opts = append(opts, dateaxis.WithUnit(datetick.NewUnit(ut, int(multiple))))
	}
	maxTicks, err := q.integer(maxTicksKey, dateaxis.DefaultMaxTicks)
	if err != nil {
		return err
	}
	posName, err := q.str(tickPositionKey, datetick.Start.String())
	if err != nil {
		return err
	}
	pos, err := datetick.ParseTickMarkPosition(posName)
	if err != nil {
		return err
	}
	minorTickCount, err := q.integer(minorTickCountKey, 0)
	if err != nil {
		return err
	}
	opts = append(opts,
		dateaxis.WithMaxTicks(int(maxTicks)),
		dateaxis.WithTickMarkPosition(pos),
		dateaxis.WithMinorTickCount(int(minorTickCount)),
	)
	axis, err := dateaxis.New(xAxisCategory, startTs, endTs, opts...)
	if err != nil {
		return err
	}
	series.With(axis.Define())
	return axis.WithTicks(series)
}

func (ds *DataSource) handleTimelineValuesQuery(ctx context.Context, q *query, series util.DataBuilder) error {
	calendarName, err := q.str(calendarKey, "")
	if err != nil {
		return err
	}
	tl, loc, err := ds.fetchCalendar(ctx, calendarName)
	if err != nil {
		return err
	}
	v, ok := q.get(timestampsMsKey)
	if !ok {
		return fmt.Errorf("%w '%s'", ErrMissingOption, timestampsMsKey)
	}
	timestampsMs, err := util.ExpectIntegersValue(v)
	if err != nil {
		return err
	}
	stl, segmented := tl.(*timeline.SegmentedTimeline)
	for _, ms := range timestampsMs {
		at := time.UnixMilli(ms).In(loc)
		value := tl.ToTimelineValue(at)
		included := tl.ContainsDomainValue(at)
		child := series.Child().With(
			util.TimestampProperty(timestampKey, at),
			util.IntegerProperty(timelineValueKey, value),
			util.IntegerProperty(includedKey, boolToInt(included)),
			util.TimestampProperty(snappedKey, tl.ToMillisecond(value)),
			util.If(included, color.Primary(includedColor)),
			util.If(!included, color.Primary(excludedColor)),
		)
		if segmented {
			seg := stl.Segment(at)
			child.With(
				util.IntegerProperty(segmentNumberKey, seg.Number),
				util.TimestampProperty(segmentStartKey, seg.Start),
				util.TimestampProperty(segmentEndKey, seg.End),
			)
		}
	}
	if segmented && len(timestampsMs) > 1 {
		from, to := time.UnixMilli(timestampsMs[0]), time.UnixMilli(timestampsMs[len(timestampsMs)-1])
		series.With(util.IntegerProperty(exceptionCountKey, stl.ExceptionSegmentCount(from, to)))
	}
	return nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func (ds *DataSource) handleSlidingTableQuery(q *query, series util.DataBuilder) error {
	name, err := q.str(datasetKey, "")
	if err != nil {
		return err
	}
	cds, ok := ds.categoryDatasets[name]
	if !ok {
		return fmt.Errorf("%w '%s'", ErrUnknownDataset, name)
	}
	first, err := q.integer(firstCategoryKey, 0)
	if err != nil {
		return err
	}
	count, err := q.integer(categoryCountKey, int64(cds.ColumnCount()))
	if err != nil {
		return err
	}
	view, err := datasetview.NewSlidingCategoryDataset(cds, int(first), int(count))
	if err != nil {
		return err
	}
	defer view.Close()
	heatMap, err := q.integer(heatMapKey, 0)
	if err != nil {
		return err
	}
	var decorators []table.CellDecorator
	if heatMap != 0 {
		series.With(heatSpace.Define())
		decorators = append(decorators, heatDecorator(view))
	}
	_, err = table.FromCategoryDataset(series, renderSettings, view, decorators...)
	return err
}

// heatDecorator shades each cell of cds along heatSpace by its position
// between the lowest and highest values of cds.
func heatDecorator(cds dataset.CategoryDataset) table.CellDecorator {
	values := []float64{}
	for row := 0; row < cds.RowCount(); row++ {
		for col := 0; col < cds.ColumnCount(); col++ {
			if v, err := cds.Value(row, col); err == nil && !math.IsNaN(v) {
				values = append(values, v)
			}
		}
	}
	var lo, hi float64
	if len(values) > 0 {
		lo, hi = stats.Bounds(values)
	}
	return func(rowKey, colKey string, v float64) []util.PropertyUpdate {
		position := 0.0
		if hi > lo {
			position = (v - lo) / (hi - lo)
		}
		return []util.PropertyUpdate{heatSpace.PrimaryColor(position)}
	}
}

func (ds *DataSource) handleIntervalSeriesQuery(q *query, series util.DataBuilder) error {
	name, err := q.str(datasetKey, "")
	if err != nil {
		return err
	}
	xyds, ok := ds.xyDatasets[name]
	if !ok {
		return fmt.Errorf("%w '%s'", ErrUnknownDataset, name)
	}
	view := datasetview.NewIntervalXYDataset(xyds)
	defer view.Close()
	if width, ok, err := q.double(intervalWidthKey); err != nil {
		return err
	} else if ok {
		if err := view.Delegate().SetFixedIntervalWidth(width); err != nil {
			return err
		}
	}
	if factor, ok, err := q.double(intervalPositionKey); err != nil {
		return err
	} else if ok {
		if err := view.Delegate().SetIntervalPositionFactor(factor); err != nil {
			return err
		}
	}
	_, err = xychart.FromIntervalDataset(series, intervalCategory, valueCategory, view)
	return err
}
