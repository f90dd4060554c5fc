// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package router

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/absmach/mserve/pkg/content"
	"github.com/absmach/mserve/pkg/request"
	"github.com/absmach/mserve/pkg/response"
)

const (
	indexDoc    = "<p>{{method}} {{target}} {{protocol}}</p>{{headertable}}"
	templateDoc = "<p>Hello {{name}}, {{greeting}}</p>"
)

func newRequest(t *testing.T, raw string) *request.Request {
	t.Helper()
	h, err := request.ParseHead([]byte(raw))
	if err != nil {
		t.Fatalf("ParseHead(%q) error = %v", raw, err)
	}
	return h.Request([]byte(raw[h.Size():]))
}

func newRouter(files fstest.MapFS) *Router {
	return Default(content.NewFSStore(files), "index.html", "template.html")
}

func defaultFiles() fstest.MapFS {
	return fstest.MapFS{
		"index.html":    {Data: []byte(indexDoc)},
		"template.html": {Data: []byte(templateDoc)},
	}
}

func TestRouteOrder(t *testing.T) {
	got := newRouter(defaultFiles()).Names()
	want := []string{"index", "template", "upload", "not_found"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestDispatch(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		files      fstest.MapFS
		wantRoute  string
		wantResult Result
		wantStatus int
		wantType   string
		wantBody   string
		contains   []string
	}{
		{
			name:       "index",
			raw:        "GET / HTTP/1.1\r\nHost: localhost\r\nX-Test: <b>\r\n\r\n",
			wantRoute:  "index",
			wantResult: Handled,
			wantStatus: response.StatusOK,
			wantType:   response.ContentTypeHTML,
			contains: []string{
				"<p>GET / HTTP/1.1</p>",
				"<tr><td>Host</td><td>localhost</td></tr>",
				"<tr><td>X-Test</td><td>&lt;b&gt;</td></tr>",
			},
		},
		{
			name:       "index missing content",
			raw:        "GET / HTTP/1.1\r\n\r\n",
			files:      fstest.MapFS{"template.html": {Data: []byte(templateDoc)}},
			wantRoute:  "index",
			wantResult: HandledError,
			wantStatus: response.StatusInternalServerError,
			wantType:   response.ContentTypePlain,
			wantBody:   "Internal server error: No bytes in file 'index.html'",
		},
		{
			name:       "index empty content",
			raw:        "GET / HTTP/1.1\r\n\r\n",
			files:      fstest.MapFS{"index.html": {Data: []byte{}}},
			wantRoute:  "index",
			wantResult: HandledError,
			wantStatus: response.StatusInternalServerError,
			wantBody:   "Internal server error: No bytes in file 'index.html'",
		},
		{
			name:       "post to index is not found",
			raw:        "POST / HTTP/1.1\r\n\r\n",
			wantRoute:  "not_found",
			wantResult: Handled,
			wantStatus: response.StatusNotFound,
			wantBody:   "The requested endpoint '/' with method 'POST' could not be found.",
		},
		{
			name:       "template with query",
			raw:        "GET /template?name=world&greeting=hi HTTP/1.1\r\n\r\n",
			wantRoute:  "template",
			wantResult: Handled,
			wantStatus: response.StatusOK,
			wantType:   response.ContentTypeHTML,
			wantBody:   "<p>Hello world, hi</p>",
		},
		{
			name:       "template without query keeps placeholders",
			raw:        "GET /template HTTP/1.1\r\n\r\n",
			wantRoute:  "template",
			wantResult: Handled,
			wantStatus: response.StatusOK,
			wantBody:   templateDoc,
		},
		{
			name:       "template first key wins",
			raw:        "GET /template?name=a&name=b HTTP/1.1\r\n\r\n",
			wantRoute:  "template",
			wantResult: Handled,
			wantStatus: response.StatusOK,
			wantBody:   "<p>Hello a, {{greeting}}</p>",
		},
		{
			name:       "template value with slash",
			raw:        "GET /template?name=<i>x</i> HTTP/1.1\r\n\r\n",
			wantRoute:  "template",
			wantResult: HandledError,
			wantStatus: response.StatusBadRequest,
		},
		{
			name:       "template escapes markup",
			raw:        "GET /template?name=<i> HTTP/1.1\r\n\r\n",
			wantRoute:  "template",
			wantResult: Handled,
			wantStatus: response.StatusOK,
			wantBody:   "<p>Hello &lt;i&gt;, {{greeting}}</p>",
		},
		{
			name:       "template missing equals",
			raw:        "GET /template?a HTTP/1.1\r\n\r\n",
			wantRoute:  "template",
			wantResult: HandledError,
			wantStatus: response.StatusBadRequest,
			wantType:   response.ContentTypePlain,
			wantBody:   "The request is malformed: The query parameters are malformed",
		},
		{
			name:       "template empty query",
			raw:        "GET /template? HTTP/1.1\r\n\r\n",
			wantRoute:  "template",
			wantResult: HandledError,
			wantStatus: response.StatusBadRequest,
		},
		{
			name:       "template trailing ampersand",
			raw:        "GET /template?a=1& HTTP/1.1\r\n\r\n",
			wantRoute:  "template",
			wantResult: HandledError,
			wantStatus: response.StatusBadRequest,
		},
		{
			name:       "template empty value",
			raw:        "GET /template?a= HTTP/1.1\r\n\r\n",
			wantRoute:  "template",
			wantResult: HandledError,
			wantStatus: response.StatusBadRequest,
		},
		{
			name:       "template leftover path falls through",
			raw:        "GET /templates HTTP/1.1\r\n\r\n",
			wantRoute:  "not_found",
			wantResult: Handled,
			wantStatus: response.StatusNotFound,
		},
		{
			name:       "template missing content",
			raw:        "GET /template?name=x HTTP/1.1\r\n\r\n",
			files:      fstest.MapFS{"index.html": {Data: []byte(indexDoc)}},
			wantRoute:  "template",
			wantResult: HandledError,
			wantStatus: response.StatusInternalServerError,
			wantBody:   "Internal server error: No bytes in file 'template.html'",
		},
		{
			name:       "upload",
			raw:        "POST /upload HTTP/1.1\r\nContent-Length: 5\r\n\r\nhello",
			wantRoute:  "upload",
			wantResult: Handled,
			wantStatus: response.StatusOK,
			wantBody:   "Your payload has a size of 5 bytes.\n-- Copy of payload --\nhello",
		},
		{
			name:       "upload without body",
			raw:        "POST /upload HTTP/1.1\r\n\r\n",
			wantRoute:  "upload",
			wantResult: Handled,
			wantStatus: response.StatusOK,
			wantBody:   "Your payload has a size of 0 bytes.\n-- Copy of payload --\n",
		},
		{
			name:       "upload with get",
			raw:        "GET /upload HTTP/1.1\r\n\r\n",
			wantRoute:  "upload",
			wantResult: HandledError,
			wantStatus: response.StatusBadRequest,
			wantBody:   "The request is malformed: The '/upload' endpoint must be used with the POST method",
		},
		{
			name:       "upload with query falls through",
			raw:        "POST /upload?x=1 HTTP/1.1\r\n\r\n",
			wantRoute:  "not_found",
			wantResult: Handled,
			wantStatus: response.StatusNotFound,
		},
		{
			name:       "unknown target",
			raw:        "GET /does-not-exist HTTP/1.1\r\n\r\n",
			wantRoute:  "not_found",
			wantResult: Handled,
			wantStatus: response.StatusNotFound,
			wantType:   response.ContentTypePlain,
			wantBody:   "The requested endpoint '/does-not-exist' with method 'GET' could not be found.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := tt.files
			if files == nil {
				files = defaultFiles()
			}
			rt := newRouter(files)
			res := response.New()

			route, result := rt.Dispatch(newRequest(t, tt.raw), res)
			if route != tt.wantRoute {
				t.Errorf("route = %q, want %q", route, tt.wantRoute)
			}
			if result != tt.wantResult {
				t.Errorf("result = %v, want %v", result, tt.wantResult)
			}
			if res.Status() != tt.wantStatus {
				t.Errorf("status = %d, want %d", res.Status(), tt.wantStatus)
			}
			if tt.wantType != "" && res.ContentType() != tt.wantType {
				t.Errorf("content type = %q, want %q", res.ContentType(), tt.wantType)
			}
			body := string(res.Body())
			if tt.wantBody != "" && body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
			for _, s := range tt.contains {
				if !strings.Contains(body, s) {
					t.Errorf("body %q does not contain %q", body, s)
				}
			}
		})
	}
}

type catchAll struct{ calls int }

func (c *catchAll) Name() string { return "first" }

func (c *catchAll) Serve(target string, req *request.Request, res *response.Response) Result {
	c.calls++
	res.WriteString("first")
	return Handled
}

func TestEarlierRouteWins(t *testing.T) {
	first := &catchAll{}
	rt := New(first, Upload{})

	for _, raw := range []string{
		"GET / HTTP/1.1\r\n\r\n",
		"POST /upload HTTP/1.1\r\n\r\n",
		"GET /anything HTTP/1.1\r\n\r\n",
	} {
		res := response.New()
		if route, _ := rt.Dispatch(newRequest(t, raw), res); route != "first" {
			t.Errorf("Dispatch(%q) route = %q, want first", raw, route)
		}
	}
	if first.calls != 3 {
		t.Errorf("first route called %d times, want 3", first.calls)
	}
}

func TestNoMatchLeavesResponseUntouched(t *testing.T) {
	res := response.New()
	req := newRequest(t, "GET /other HTTP/1.1\r\n\r\n")

	routes := []Route{
		NewIndex(content.NewFSStore(defaultFiles()), "index.html"),
		NewTemplate(content.NewFSStore(defaultFiles()), "template.html"),
		Upload{},
	}
	for _, rt := range routes {
		if got := rt.Serve(req.Target(), req, res); got != NoMatch {
			t.Errorf("%s.Serve() = %v, want %v", rt.Name(), got, NoMatch)
		}
	}
	if len(res.Body()) != 0 || res.Status() != response.StatusOK {
		t.Errorf("response modified: status %d body %q", res.Status(), res.Body())
	}
}

type failingStore struct{}

func (failingStore) Load(string) (string, error) { return "", errors.New("disk on fire") }

func TestStoreFailure(t *testing.T) {
	rt := Default(failingStore{}, "index.html", "template.html")
	res := response.New()
	_, result := rt.Dispatch(newRequest(t, "GET / HTTP/1.1\r\n\r\n"), res)
	if result != HandledError || res.Status() != response.StatusInternalServerError {
		t.Fatalf("result %v status %d", result, res.Status())
	}
	if got := string(res.Body()); got != "Internal server error: Could not read file 'index.html'" {
		t.Errorf("body = %q", got)
	}
}

func TestResultString(t *testing.T) {
	if HandledError.String() != "handled_error" || Result(9).String() != "unknown" {
		t.Error("unexpected Result strings")
	}
}
