package jsonapi

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/conduit-lang/jsonapify/internal/orm/schema"
)

// Operation is the kind of completed operation a result came from
type Operation int

const (
	OpFind Operation = iota
	OpGet
	OpCreate
	OpUpdate
	OpPatch
	OpRemove
)

// String returns the string representation of the operation
func (o Operation) String() string {
	switch o {
	case OpFind:
		return "find"
	case OpGet:
		return "get"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpPatch:
		return "patch"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// ParseOperation converts a string to an Operation
func ParseOperation(s string) (Operation, error) {
	switch s {
	case "find":
		return OpFind, nil
	case "get":
		return OpGet, nil
	case "create":
		return OpCreate, nil
	case "update":
		return OpUpdate, nil
	case "patch":
		return OpPatch, nil
	case "remove":
		return OpRemove, nil
	default:
		return 0, fmt.Errorf("unknown operation: %s", s)
	}
}

// Options configures a Serializer
type Options struct {
	// ServiceName is the fallback resource type for plain records
	ServiceName string
	// Prefix is prepended to every generated path, primary and related
	// ("/api")
	Prefix string
	// Path is the service's collection path. Defaults to Prefix plus the
	// model path, then to Prefix plus ServiceName.
	Path string
	// IdentifierKey and TypeKey configure the plain fallback serializer
	IdentifierKey string
	TypeKey       string
}

// Serializer turns completed read results of one service into JSON:API
// documents. A nil model selects the plain fallback serializer.
type Serializer struct {
	model  *schema.ResourceSchema
	opts   Options
	logger *zap.Logger
}

// NewSerializer creates a serializer. A nil logger is replaced by a no-op.
func NewSerializer(model *schema.ResourceSchema, opts Options, logger *zap.Logger) *Serializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts.Prefix = strings.TrimRight(opts.Prefix, "/")
	if opts.Path == "" {
		if model != nil {
			opts.Path = opts.Prefix + model.BasePath()
		} else {
			opts.Path = opts.Prefix + "/" + opts.ServiceName
		}
	}
	return &Serializer{model: model, opts: opts, logger: logger}
}

// Model returns the model metadata, nil for plain services
func (s *Serializer) Model() *schema.ResourceSchema {
	return s.model
}

func (s *Serializer) basePath() string {
	if s.opts.Path != "" && s.opts.Path[0] == '/' {
		return s.opts.Path
	}
	return "/" + s.opts.Path
}

// includeContext resolves related paths under the serializer's prefix unless
// the caller supplied its own resolver
func (s *Serializer) includeContext(ic IncludeContext) IncludeContext {
	if ic.PathFor == nil && s.opts.Prefix != "" {
		prefix := s.opts.Prefix
		ic.PathFor = func(model *schema.ResourceSchema) string {
			return prefix + model.BasePath()
		}
	}
	return ic
}

func (s *Serializer) plainOptions() PlainOptions {
	return PlainOptions{
		ServiceName:   s.opts.ServiceName,
		Path:          s.basePath(),
		IdentifierKey: s.opts.IdentifierKey,
		TypeKey:       s.opts.TypeKey,
	}
}

// Find builds a collection document: resource objects in input order,
// pagination links when the window is complete, and the deduplicated
// included set. Non-reserved top-level fields move into meta only for
// paginated results; meta and links already on the result are carried over.
func (s *Serializer) Find(result *Result, ic IncludeContext) (*Document, error) {
	if result == nil {
		result = &Result{}
	}

	var (
		data    []*Resource
		related []*Resource
	)
	if s.model != nil {
		assembly, err := AssembleMany(result.Data, s.model, s.basePath(), s.includeContext(ic))
		if err != nil {
			return nil, err
		}
		data = assembly.Data.([]*Resource)
		related = assembly.Related
	} else {
		data = SerializePlainData(result.Data, s.plainOptions())
	}

	doc := &Document{Data: data}
	kept, moved := ExtractMeta(result.topLevel())
	if window := result.Window(); window.Any() {
		doc.Links = BuildPaginationLinks(s.opts.Path, window)
		doc.Meta = moved
	}
	doc.Meta = mergeMeta(kept["meta"], doc.Meta)
	doc.Links = mergeLinks(kept["links"], doc.Links)
	if len(related) > 0 {
		doc.Included = Dedupe(related)
	}

	s.logger.Debug("assembled document",
		zap.Stringer("operation", OpFind),
		zap.Int("records", len(data)),
		zap.Int("included", len(doc.Included)),
		zap.Bool("paginated", doc.Links != nil),
	)
	return doc, nil
}

// Get builds a single-record document with a parent link pointing at the
// collection path.
func (s *Serializer) Get(record Record, ic IncludeContext) (*Document, error) {
	var (
		data    *Resource
		related []*Resource
	)
	if s.model != nil {
		assembly, err := AssembleOne(record, s.model, s.basePath(), s.includeContext(ic))
		if err != nil {
			return nil, err
		}
		data = assembly.Data.(*Resource)
		related = assembly.Related
	} else {
		data = SerializePlain(record, s.plainOptions())
	}

	doc := &Document{
		Data:  data,
		Links: Links{"parent": s.basePath()},
	}
	if len(related) > 0 {
		doc.Included = Dedupe(related)
	}

	s.logger.Debug("assembled document",
		zap.Stringer("operation", OpGet),
		zap.String("id", data.ID),
		zap.Int("included", len(doc.Included)),
	)
	return doc, nil
}

// Dispatch routes a decoded result by operation kind. Find and get results
// become documents; every other operation's result is returned unchanged.
func (s *Serializer) Dispatch(op Operation, result interface{}, ic IncludeContext) (interface{}, error) {
	switch op {
	case OpFind:
		parsed, err := ParseResult(result)
		if err != nil {
			return nil, err
		}
		return s.Find(parsed, ic)
	case OpGet:
		record, err := ParseRecord(result)
		if err != nil {
			return nil, err
		}
		return s.Get(record, ic)
	default:
		s.logger.Debug("passing result through", zap.Stringer("operation", op))
		return result, nil
	}
}
