// Package handlers serves find and get documents for every registered
// resource: it reads the window, loads rows and their included associations,
// and hands the completed result to the document serializer.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/conduit-lang/jsonapify/internal/jsonapi"
	"github.com/conduit-lang/jsonapify/internal/orm/crud"
	"github.com/conduit-lang/jsonapify/internal/orm/relationships"
	"github.com/conduit-lang/jsonapify/internal/orm/schema"
	"github.com/conduit-lang/jsonapify/internal/web/query"
	"github.com/conduit-lang/jsonapify/internal/web/response"
	"github.com/conduit-lang/jsonapify/internal/web/router"
)

// Config controls how resources are exposed
type Config struct {
	// APIPrefix is prepended to every resource path ("" or "/api")
	APIPrefix string

	ServiceName   string
	IdentifierKey string
	TypeKey       string

	DefaultLimit int
	MaxLimit     int
}

// ResourceHandler serves the list and show routes of one resource
type ResourceHandler struct {
	resource   *schema.ResourceSchema
	ops        *crud.Operations
	loader     *relationships.Loader
	serializer *jsonapi.Serializer
	config     Config
	logger     *zap.Logger
}

// NewResourceHandler creates a handler reading resource rows from db
func NewResourceHandler(resource *schema.ResourceSchema, db crud.Querier, config Config, logger *zap.Logger) *ResourceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	serializer := jsonapi.NewSerializer(resource, jsonapi.Options{
		ServiceName:   config.ServiceName,
		Prefix:        config.APIPrefix,
		IdentifierKey: config.IdentifierKey,
		TypeKey:       config.TypeKey,
	}, logger)

	return &ResourceHandler{
		resource:   resource,
		ops:        crud.NewOperations(resource, db),
		loader:     relationships.NewLoader(db),
		serializer: serializer,
		config:     config,
		logger:     logger.With(zap.String("resource", resource.Name)),
	}
}

// Handlers returns the router bindings for this resource
func (h *ResourceHandler) Handlers() router.ResourceHandlers {
	return router.ResourceHandlers{List: h.List, Show: h.Show}
}

// List serves GET {prefix}/{path}
func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	include, err := schema.IncludesFor(h.resource, query.ParseInclude(r))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	skip, limit, err := query.ParseWindow(r, h.config.DefaultLimit, h.config.MaxLimit)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	rows, total, err := h.ops.FindWindow(r.Context(), skip, limit)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if err := h.loader.EagerLoad(r.Context(), rows, h.resource, include); err != nil {
		h.renderError(w, r, err)
		return
	}

	doc, err := h.serializer.Find(jsonapi.NewResult(toRecords(rows), skip, limit, total), jsonapi.IncludeContext{Include: include})
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	if err := response.RenderDocument(w, http.StatusOK, doc); err != nil {
		h.renderError(w, r, err)
	}
}

// Show serves GET {prefix}/{path}/{id}
func (h *ResourceHandler) Show(w http.ResponseWriter, r *http.Request) {
	include, err := schema.IncludesFor(h.resource, query.ParseInclude(r))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	id := router.PathParam(r, router.IDParam)
	row, err := h.ops.Find(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if err := h.loader.EagerLoad(r.Context(), []map[string]interface{}{row}, h.resource, include); err != nil {
		h.renderError(w, r, err)
		return
	}

	doc, err := h.serializer.Get(jsonapi.Record(row), jsonapi.IncludeContext{Include: include})
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	if err := response.RenderDocument(w, http.StatusOK, doc); err != nil {
		h.renderError(w, r, err)
	}
}

func (h *ResourceHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	var schemaErr *schema.SchemaError

	switch {
	case errors.Is(err, query.ErrInvalidWindow), errors.Is(err, schema.ErrUnknownAssociation):
		response.RenderBadRequest(w, err.Error())
	case crud.IsNotFound(err):
		response.RenderNotFound(w, err.Error())
	case errors.As(err, &schemaErr):
		h.logger.Warn("schema error",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		response.RenderInternalError(w, fmt.Errorf("resource %s is misconfigured", h.resource.Name))
	default:
		h.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		response.RenderInternalError(w, fmt.Errorf("an unexpected error occurred"))
	}
}

func toRecords(rows []map[string]interface{}) []jsonapi.Record {
	records := make([]jsonapi.Record, len(rows))
	for i, row := range rows {
		records[i] = jsonapi.Record(row)
	}
	return records
}

// Register binds every resource in the registry, in name order
func Register(rt *router.Router, registry *schema.Registry, db crud.Querier, config Config, logger *zap.Logger) error {
	config.APIPrefix = strings.TrimRight(config.APIPrefix, "/")

	for _, name := range registry.List() {
		resource, _ := registry.Get(name)
		h := NewResourceHandler(resource, db, config, logger)
		if err := rt.RegisterResource(resource.Name, resource.BasePath(), h.Handlers()); err != nil {
			return fmt.Errorf("failed to register %s: %w", name, err)
		}
	}
	return nil
}
