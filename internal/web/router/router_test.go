package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterResource(t *testing.T) {
	r := NewRouter("/api/")

	var gotID string
	err := r.RegisterResource("topics", "/topics", ResourceHandlers{
		List: func(w http.ResponseWriter, req *http.Request) { w.Write([]byte("list")) },
		Show: func(w http.ResponseWriter, req *http.Request) {
			gotID = PathParam(req, IDParam)
			w.Write([]byte("show"))
		},
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/topics", nil))
	assert.Equal(t, "list", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/topics/42", nil))
	assert.Equal(t, "show", w.Body.String())
	assert.Equal(t, "42", gotID)

	assert.Equal(t, []RouteInfo{
		{Method: http.MethodGet, Pattern: "/api/topics", Resource: "topics", Operation: OpList},
		{Method: http.MethodGet, Pattern: "/api/topics/{id}", Resource: "topics", Operation: OpShow},
	}, r.Routes())
}

func TestRegisterResource_Errors(t *testing.T) {
	r := NewRouter("")
	noop := func(w http.ResponseWriter, req *http.Request) {}

	assert.Error(t, r.RegisterResource("topics", "/", ResourceHandlers{List: noop, Show: noop}))
	assert.Error(t, r.RegisterResource("topics", "topics", ResourceHandlers{List: noop}))
}

func TestRouter_Fallbacks(t *testing.T) {
	r := NewRouter("")
	noop := func(w http.ResponseWriter, req *http.Request) {}
	require.NoError(t, r.RegisterResource("topics", "topics", ResourceHandlers{List: noop, Show: noop}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"errors"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/topics", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "GET, HEAD", w.Header().Get("Allow"))
}

func TestRouter_HeadUsesGetHandlers(t *testing.T) {
	r := NewRouter("/api")
	var served []string
	require.NoError(t, r.RegisterResource("topics", "topics", ResourceHandlers{
		List: func(w http.ResponseWriter, req *http.Request) { served = append(served, "list") },
		Show: func(w http.ResponseWriter, req *http.Request) { served = append(served, "show:"+PathParam(req, IDParam)) },
	}))

	for _, target := range []string{"/api/topics", "/api/topics/7"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodHead, target, nil))
		assert.Equal(t, http.StatusOK, w.Code, target)
	}
	assert.Equal(t, []string{"list", "show:7"}, served)
	assert.Len(t, r.Routes(), 2)
}

func TestOperationString(t *testing.T) {
	assert.Equal(t, "list", OpList.String())
	assert.Equal(t, "show", OpShow.String())
	assert.Equal(t, "unknown", Operation(7).String())
}
