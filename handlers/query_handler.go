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

// Package handlers provides the HTTP handlers of a tickline server: the
// GetData query endpoint and an index page describing what it serves.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	querydispatcher "github.com/ilhamster/tickline/query_dispatcher"
	"github.com/ilhamster/tickline/util"
)

// HandlerFunc is a HTTP handler function.
type HandlerFunc func(http.ResponseWriter, *http.Request)

// WrapFunc is a function that rewrites a HandlerFunc.
type WrapFunc func(HandlerFunc) HandlerFunc

// Handler describes a set of HTTP handlers.
type Handler interface {
	HandlersByPath() map[string]func(http.ResponseWriter, *http.Request)
}

// QueryHandler is a Handler for data queries.  Its Wrap method wraps all
// its handlers, for example to add logging.
type QueryHandler interface {
	Handler
	Wrap(...WrapFunc) Handler
}

const (
	dataMethod = "/GetData"
	reqParam   = "req"
)

type contextKey string

var httpReqKey contextKey = "tickline_http_req"

// RequestOf returns the http Request attached to the provided Context, or
// nil if none is attached.
func RequestOf(ctx context.Context) *http.Request {
	req, _ := ctx.Value(httpReqKey).(*http.Request)
	return req
}

type queryHandler struct {
	qd       *querydispatcher.QueryDispatcher
	wrappers []WrapFunc
}

// NewQueryHandler returns a new QueryHandler serving requests with the
// provided QueryDispatcher.
func NewQueryHandler(qd *querydispatcher.QueryDispatcher) QueryHandler {
	return &queryHandler{
		qd: qd,
	}
}

func (qh *queryHandler) Wrap(wrappers ...WrapFunc) Handler {
	qh.wrappers = append(qh.wrappers, wrappers...)
	return qh
}

// HandlersByPath returns a mapping of HTTP request path to HTTP handler.
func (qh *queryHandler) HandlersByPath() map[string]func(http.ResponseWriter, *http.Request) {
	var dh HandlerFunc = qh.getData
	for _, wrapper := range qh.wrappers {
		dh = wrapper(dh)
	}
	return map[string]func(http.ResponseWriter, *http.Request){
		dataMethod: dh,
	}
}

func sendJSON(w http.ResponseWriter, resp *util.Data) {
	body, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "failed to marshal response: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

func (qh *queryHandler) getData(w http.ResponseWriter, req *http.Request) {
	if err := req.ParseForm(); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}
	dataReq, err := util.DataRequestFromJSON([]byte(req.Form.Get(reqParam)))
	if err != nil {
		http.Error(w, "failed to parse DataRequest: "+err.Error(), http.StatusBadRequest)
		return
	}
	resp, err := qh.qd.HandleDataRequest(context.WithValue(req.Context(), httpReqKey, req), dataReq)
	if err != nil {
		http.Error(w, "DataRequest failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	sendJSON(w, resp)
}
