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

package handlers

import (
	"net/http"

	"github.com/google/safehtml/template"

	querydispatcher "github.com/ilhamster/tickline/query_dispatcher"
)

const indexPath = "/"

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>tickline</title></head>
<body>
<h1>tickline</h1>
<h2>Calendars</h2>
<ul>
{{range .Calendars}}<li>{{.}}</li>
{{else}}<li>none configured</li>
{{end}}</ul>
<h2>Queries</h2>
<p>POST a DataRequest as the <code>req</code> form value to <a href="/GetData">/GetData</a>.</p>
<ul>
{{range .Queries}}<li><code>{{.}}</code></li>
{{end}}</ul>
</body>
</html>
`))

type indexData struct {
	Calendars []string
	Queries   []string
}

type indexHandler struct {
	calendars func() []string
	qd        *querydispatcher.QueryDispatcher
}

// NewIndexHandler returns a Handler serving an index page listing the
// calendars returned by calendars and the queries qd dispatches.
func NewIndexHandler(calendars func() []string, qd *querydispatcher.QueryDispatcher) Handler {
	return &indexHandler{
		calendars: calendars,
		qd:        qd,
	}
}

// HandlersByPath returns a mapping of HTTP request path to HTTP handler.
func (ih *indexHandler) HandlersByPath() map[string]func(http.ResponseWriter, *http.Request) {
	return map[string]func(http.ResponseWriter, *http.Request){
		indexPath: ih.index,
	}
}

func (ih *indexHandler) index(w http.ResponseWriter, req *http.Request) {
	if req.URL.Path != indexPath {
		http.NotFound(w, req)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, indexData{
		Calendars: ih.calendars(),
		Queries:   ih.qd.QueryNames(),
	}); err != nil {
		http.Error(w, "failed to render index: "+err.Error(), http.StatusInternalServerError)
	}
}
