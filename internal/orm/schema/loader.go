package schema

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type fileSpec struct {
	Resources []resourceSpec `yaml:"resources"`
}

type resourceSpec struct {
	Name         string            `yaml:"name"`
	Path         string            `yaml:"path"`
	Table        string            `yaml:"table"`
	Underscored  bool              `yaml:"underscored"`
	Fields       []fieldSpec       `yaml:"fields"`
	Associations []associationSpec `yaml:"associations"`
}

type fieldSpec struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Primary bool   `yaml:"primary"`
}

type associationSpec struct {
	As          string `yaml:"as"`
	Target      string `yaml:"target"`
	Kind        string `yaml:"kind"`
	ForeignKey  string `yaml:"foreign_key"`
	TargetKey   string `yaml:"target_key"`
	Underscored *bool  `yaml:"underscored"`
}

// LoadFile reads resource schemas from a YAML file into a resolved registry
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open schema file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load reads resource schemas from YAML into a resolved registry
func Load(r io.Reader) (*Registry, error) {
	var doc fileSpec
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse schema file: %w", err)
	}

	registry := NewRegistry()
	for _, rs := range doc.Resources {
		schema, err := rs.build()
		if err != nil {
			return nil, err
		}
		if err := registry.Register(schema); err != nil {
			return nil, err
		}
	}

	if err := registry.Resolve(); err != nil {
		return nil, err
	}
	return registry, nil
}

func (rs resourceSpec) build() (*ResourceSchema, error) {
	schema := NewResourceSchema(rs.Name)
	schema.Underscored = rs.Underscored
	if rs.Path != "" {
		schema.Path = rs.Path
	}
	if rs.Table != "" {
		schema.TableName = rs.Table
	}

	for _, fs := range rs.Fields {
		typ, err := ParsePrimitiveType(fs.Type)
		if err != nil {
			return nil, fmt.Errorf("resource %s field %s: %w", rs.Name, fs.Name, err)
		}
		schema.AddField(&Field{Name: fs.Name, Type: typ, PrimaryKey: fs.Primary})
	}

	for _, as := range rs.Associations {
		kind, err := ParseAssociationKind(as.Kind)
		if err != nil {
			return nil, fmt.Errorf("resource %s association %s: %w", rs.Name, as.As, err)
		}

		// Associations inherit the owning resource's convention unless set
		underscored := rs.Underscored
		if as.Underscored != nil {
			underscored = *as.Underscored
		}

		schema.AddAssociation(&Association{
			As:          as.As,
			Kind:        kind,
			TargetName:  as.Target,
			ForeignKey:  as.ForeignKey,
			TargetKey:   as.TargetKey,
			Underscored: underscored,
		})
	}

	return schema, nil
}
