// Package router registers the read-only document routes on a chi mux.
package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/conduit-lang/jsonapify/internal/web/middleware"
	"github.com/conduit-lang/jsonapify/internal/web/response"
)

// IDParam is the path parameter holding a record's primary key
const IDParam = "id"

// Operation represents a read route kind
type Operation int

const (
	// OpList represents the collection route (GET /{path})
	OpList Operation = iota
	// OpShow represents the single record route (GET /{path}/{id})
	OpShow
)

// String returns the string representation of Operation
func (o Operation) String() string {
	switch o {
	case OpList:
		return "list"
	case OpShow:
		return "show"
	default:
		return "unknown"
	}
}

// RouteInfo provides metadata about a registered route
type RouteInfo struct {
	Method    string
	Pattern   string
	Resource  string
	Operation Operation
}

// ResourceHandlers holds the handlers of one resource's routes
type ResourceHandlers struct {
	List http.HandlerFunc
	Show http.HandlerFunc
}

// Router manages HTTP routing using chi
type Router struct {
	mux    chi.Router
	prefix string
	routes []RouteInfo
}

// NewRouter creates a router whose resource routes live under prefix
func NewRouter(prefix string) *Router {
	mux := chi.NewRouter()
	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.RenderNotFound(w, fmt.Sprintf("no route for %s", r.URL.Path))
	})
	mux.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.RenderMethodNotAllowed(w, []string{http.MethodGet, http.MethodHead})
	})

	return &Router{
		mux:    mux,
		prefix: strings.TrimRight(prefix, "/"),
	}
}

// ServeHTTP implements http.Handler interface
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Use adds middleware; it must be called before routes are registered
func (r *Router) Use(middlewares ...middleware.Middleware) {
	for _, m := range middlewares {
		r.mux.Use(m)
	}
}

// RegisterResource registers the list and show routes for a resource path.
// HEAD requests are served by the same handlers; Routes reports the GET
// routes only.
func (r *Router) RegisterResource(resource, path string, handlers ResourceHandlers) error {
	path = strings.Trim(path, "/")
	if path == "" {
		return fmt.Errorf("resource %s: empty path", resource)
	}
	if handlers.List == nil || handlers.Show == nil {
		return fmt.Errorf("resource %s: list and show handlers are required", resource)
	}

	collection := r.prefix + "/" + path
	member := collection + "/{" + IDParam + "}"

	r.mux.Get(collection, handlers.List)
	r.mux.Get(member, handlers.Show)
	r.mux.Head(collection, handlers.List)
	r.mux.Head(member, handlers.Show)

	r.routes = append(r.routes,
		RouteInfo{Method: http.MethodGet, Pattern: collection, Resource: resource, Operation: OpList},
		RouteInfo{Method: http.MethodGet, Pattern: member, Resource: resource, Operation: OpShow},
	)
	return nil
}

// Routes returns the registered routes in registration order
func (r *Router) Routes() []RouteInfo {
	out := make([]RouteInfo, len(r.routes))
	copy(out, r.routes)
	return out
}

// PathParam returns a chi path parameter
func PathParam(req *http.Request, name string) string {
	return chi.URLParam(req, name)
}
