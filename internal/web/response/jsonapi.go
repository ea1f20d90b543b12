package response

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"
)

const (
	// JSONAPIMediaType is the official JSON:API media type
	JSONAPIMediaType = "application/vnd.api+json"
)

// IsJSONAPI checks if the request accepts JSON:API format
func IsJSONAPI(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if accept == "" {
		return false
	}

	for _, part := range strings.Split(accept, ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if mediaType == JSONAPIMediaType {
			return true
		}
	}

	// Fall back to simple check if parsing fails
	return strings.Contains(accept, JSONAPIMediaType)
}

// Marshal encodes a document for the wire
func Marshal(doc interface{}) ([]byte, error) {
	return json.Marshal(doc)
}

// RenderDocument marshals a document and writes it with the JSON:API media type
func RenderDocument(w http.ResponseWriter, status int, doc interface{}) error {
	// Marshal FIRST, before touching the response
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	return Write(w, status, data)
}

// Write writes an already encoded document
func Write(w http.ResponseWriter, status int, body []byte) error {
	w.Header().Set("Content-Type", JSONAPIMediaType)
	w.WriteHeader(status)
	_, err := w.Write(body)
	return err
}
