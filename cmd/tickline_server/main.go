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

// Binary tickline_server serves date axis ticks, timeline values, and
// dataset views over the calendars defined in a YAML file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	calendarconfig "github.com/ilhamster/tickline/calendar_config"
	chartsource "github.com/ilhamster/tickline/chart_source"
	"github.com/ilhamster/tickline/handlers"
	querydispatcher "github.com/ilhamster/tickline/query_dispatcher"
)

var (
	port         = flag.Int("port", 7410, "Port to serve tickline clients on")
	calendarPath = flag.String("calendars", "calendars.yaml", "Path to the calendar definition file")
	cacheSize    = flag.Int("cache_size", 10, "Number of calendars to keep cached")
	debug        = flag.Bool("debug", false, "Log at debug level")
)

func logRequests(logger *slog.Logger) handlers.WrapFunc {
	return func(next handlers.HandlerFunc) handlers.HandlerFunc {
		return func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			next(w, req)
			logger.Debug("served request", "path", req.URL.Path, "duration", time.Since(start))
		}
	}
}

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	cfg, err := calendarconfig.Load(*calendarPath)
	if err != nil {
		logger.Error("failed to load calendars", "path", *calendarPath, "error", err)
		os.Exit(1)
	}
	calendars, err := cfg.Build()
	if err != nil {
		logger.Error("failed to build calendars", "error", err)
		os.Exit(1)
	}
	logger.Info("calendars loaded", "path", *calendarPath, "calendars", cfg.Names())

	ds, err := chartsource.New(*cacheSize, chartsource.Calendars(calendars), chartsource.WithLogger(logger))
	if err != nil {
		logger.Error("failed to create data source", "error", err)
		os.Exit(1)
	}
	qd, err := querydispatcher.New(ds)
	if err != nil {
		logger.Error("failed to create query dispatcher", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	for _, h := range []handlers.Handler{
		handlers.NewQueryHandler(qd).Wrap(logRequests(logger)),
		handlers.NewIndexHandler(cfg.Names, qd),
	} {
		for path, handler := range h.HandlersByPath() {
			mux.HandleFunc(path, handler)
		}
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("serving tickline", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
