package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/jsonapify/internal/jsonapi"
	"github.com/conduit-lang/jsonapify/internal/logging"
	"github.com/conduit-lang/jsonapify/internal/orm/schema"
)

type renderOptions struct {
	op            string
	schemaPath    string
	resource      string
	path          string
	include       string
	serviceName   string
	identifierKey string
	typeKey       string
	verbose       bool
}

// NewRenderCommand creates the render command
func NewRenderCommand() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [result.json]",
		Short: "Render a read result file as a JSON:API document",
		Long: `Render a decoded read result as a JSON:API document.

The input is a JSON file, or standard input when omitted or "-". A find
result is a JSON array of records or an object {"data": [...], "skip",
"limit", "total", ...}. A get result is a single record object. Without
--schema, records are serialized with the plain fallback.`,
		Example: `  jsonapify render --op find --schema schema.yaml --resource topics --include parentTopic topics.json
  jsonapify render --op get --service-name messages --identifier-key uid message.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "-"
			if len(args) == 1 {
				input = args[0]
			}
			return runRender(cmd, opts, input)
		},
	}

	cmd.Flags().StringVar(&opts.op, "op", "find", "operation that produced the result (find, get, create, update, patch, remove)")
	cmd.Flags().StringVar(&opts.schemaPath, "schema", "", "YAML model metadata file")
	cmd.Flags().StringVar(&opts.resource, "resource", "", "resource name in the schema file")
	cmd.Flags().StringVar(&opts.path, "path", "", "collection path used in links (default: resource path)")
	cmd.Flags().StringVar(&opts.include, "include", "", "comma-separated associations to include")
	cmd.Flags().StringVar(&opts.serviceName, "service-name", "records", "resource type for plain records")
	cmd.Flags().StringVar(&opts.identifierKey, "identifier-key", "", "plain record field holding the id")
	cmd.Flags().StringVar(&opts.typeKey, "type-key", "", "plain record field holding the type")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log assembly details to stderr")

	return cmd
}

func runRender(cmd *cobra.Command, opts *renderOptions, input string) error {
	op, err := jsonapi.ParseOperation(opts.op)
	if err != nil {
		return err
	}

	logger := zap.NewNop()
	if opts.verbose {
		if logger, err = logging.New("debug", true); err != nil {
			return err
		}
		defer logger.Sync()
	}

	model, include, err := renderModel(opts)
	if err != nil {
		return err
	}

	result, err := readResult(cmd.InOrStdin(), input)
	if err != nil {
		return err
	}

	serializer := jsonapi.NewSerializer(model, jsonapi.Options{
		ServiceName:   opts.serviceName,
		Path:          opts.path,
		IdentifierKey: opts.identifierKey,
		TypeKey:       opts.typeKey,
	}, logger)

	out, err := serializer.Dispatch(op, result, jsonapi.IncludeContext{Include: include})
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(out)
}

// renderModel resolves the model and include list; both are nil without a
// schema file
func renderModel(opts *renderOptions) (*schema.ResourceSchema, []*schema.Association, error) {
	names := splitList(opts.include)

	if opts.schemaPath == "" {
		if len(names) > 0 {
			return nil, nil, fmt.Errorf("--include requires --schema")
		}
		return nil, nil, nil
	}

	registry, err := schema.LoadFile(opts.schemaPath)
	if err != nil {
		return nil, nil, err
	}

	name := opts.resource
	if name == "" {
		name = strings.Trim(opts.path, "/")
	}
	model, ok := registry.Get(name)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q (known: %s)", schema.ErrUnknownResource, name, strings.Join(registry.List(), ", "))
	}

	include, err := schema.IncludesFor(model, names)
	if err != nil {
		return nil, nil, err
	}
	return model, include, nil
}

func readResult(stdin io.Reader, input string) (interface{}, error) {
	r := stdin
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return nil, fmt.Errorf("failed to open result: %w", err)
		}
		defer f.Close()
		r = f
	}

	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var result interface{}
	if err := decoder.Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	return result, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
