package jsonapi

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/conduit-lang/jsonapify/internal/orm/schema"
	strutil "github.com/conduit-lang/jsonapify/internal/util/strings"
)

// PrimaryKeyOf returns the attribute flagged as primary key in the model
func PrimaryKeyOf(model *schema.ResourceSchema) (string, error) {
	if model == nil {
		return "", &SchemaError{Reason: "no model metadata", Err: ErrNoPrimaryKey}
	}
	field, err := model.GetPrimaryKey()
	if err != nil {
		return "", err
	}
	return field.Name, nil
}

// DerivedIdentity returns a stable hex digest of the record's content.
// Encoding goes through encoding/json, which orders map keys, so equal
// records hash equally. The digest is a synthetic key, not a security
// boundary.
func DerivedIdentity(record Record) string {
	canonical, err := json.Marshal(map[string]interface{}(record))
	if err != nil {
		canonical = []byte(fmt.Sprint(map[string]interface{}(record)))
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(canonical))
}

// ToDashCase converts camelCase names to dash-case
func ToDashCase(name string) string {
	return strutil.ToDashCase(name)
}

// formatID renders an identifier value as a JSON:API id string
func formatID(v interface{}) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case []byte:
		return string(id)
	case json.Number:
		return id.String()
	case int:
		return strconv.Itoa(id)
	case int32:
		return strconv.FormatInt(int64(id), 10)
	case int64:
		return strconv.FormatInt(id, 10)
	case uint:
		return strconv.FormatUint(uint64(id), 10)
	case uint32:
		return strconv.FormatUint(uint64(id), 10)
	case uint64:
		return strconv.FormatUint(id, 10)
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(id), 'f', -1, 32)
	case fmt.Stringer:
		return id.String()
	default:
		return fmt.Sprintf("%v", id)
	}
}

func joinPath(base, id string) string {
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	return base + "/" + id
}
