package jsonapi

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Result is a completed collection read: the records plus optional
// pagination counts and any other top-level fields the read produced.
type Result struct {
	Data  []Record
	Skip  *int
	Limit *int
	Total *int

	// Extra holds top-level fields other than data and the window counts
	Extra map[string]interface{}
}

// NewResult wraps records with the given window. Negative counts are
// treated as undefined.
func NewResult(records []Record, skip, limit, total int) *Result {
	return &Result{
		Data:  records,
		Skip:  defined(skip),
		Limit: defined(limit),
		Total: defined(total),
	}
}

func defined(n int) *int {
	if n < 0 {
		return nil
	}
	return &n
}

// Window returns the pagination counts of the result
func (r *Result) Window() Window {
	return Window{Skip: r.Skip, Limit: r.Limit, Total: r.Total}
}

// topLevel returns the non-data members as they appear on the wire
func (r *Result) topLevel() map[string]interface{} {
	top := make(map[string]interface{}, len(r.Extra)+3)
	for k, v := range r.Extra {
		top[k] = v
	}
	if r.Skip != nil {
		top["skip"] = *r.Skip
	}
	if r.Limit != nil {
		top["limit"] = *r.Limit
	}
	if r.Total != nil {
		top["total"] = *r.Total
	}
	return top
}

// ParseResult converts a decoded read result into a Result. It accepts a
// bare sequence of records or a mapping with a data member; a mapping
// without data is a single record and yields a one-element result.
func ParseResult(v interface{}) (*Result, error) {
	switch value := v.(type) {
	case *Result:
		return value, nil
	case []Record:
		return &Result{Data: value}, nil
	case []interface{}:
		records, err := toRecords(value)
		if err != nil {
			return nil, err
		}
		return &Result{Data: records}, nil
	case Record:
		return parseEnvelope(value)
	case map[string]interface{}:
		return parseEnvelope(Record(value))
	case nil:
		return &Result{Data: []Record{}}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedResult, v)
	}
}

// ParseRecord converts a decoded single-record result into a Record
func ParseRecord(v interface{}) (Record, error) {
	if rec, ok := asRecord(v); ok {
		return rec, nil
	}
	return nil, fmt.Errorf("%w: expected a record, got %T", ErrUnsupportedResult, v)
}

func parseEnvelope(m Record) (*Result, error) {
	raw, ok := m["data"]
	if !ok {
		return &Result{Data: []Record{m}}, nil
	}

	result := &Result{}
	switch data := raw.(type) {
	case nil:
		result.Data = []Record{}
	case []Record:
		result.Data = data
	case []interface{}:
		records, err := toRecords(data)
		if err != nil {
			return nil, err
		}
		result.Data = records
	default:
		if rec, ok := asRecord(data); ok {
			result.Data = []Record{rec}
		} else {
			return nil, fmt.Errorf("%w: data is %T", ErrUnsupportedResult, raw)
		}
	}

	for key, value := range m {
		var (
			target **int
			err    error
		)
		switch key {
		case "data":
			continue
		case "skip":
			target = &result.Skip
		case "limit":
			target = &result.Limit
		case "total":
			target = &result.Total
		default:
			if result.Extra == nil {
				result.Extra = make(map[string]interface{})
			}
			result.Extra[key] = value
			continue
		}
		if *target, err = toCount(value); err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
	}
	return result, nil
}

func toRecords(items []interface{}) ([]Record, error) {
	records := make([]Record, 0, len(items))
	for i, item := range items {
		rec, ok := asRecord(item)
		if !ok {
			return nil, fmt.Errorf("%w: element %d is %T", ErrUnsupportedResult, i, item)
		}
		records = append(records, rec)
	}
	return records, nil
}

// toCount converts a decoded count. nil is undefined.
func toCount(v interface{}) (*int, error) {
	var n int
	switch value := v.(type) {
	case nil:
		return nil, nil
	case int:
		n = value
	case int64:
		n = int(value)
	case float64:
		if value != math.Trunc(value) {
			return nil, fmt.Errorf("%w: non-integral count %v", ErrUnsupportedResult, value)
		}
		n = int(value)
	case json.Number:
		parsed, err := strconv.Atoi(value.String())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedResult, err)
		}
		n = parsed
	default:
		return nil, fmt.Errorf("%w: count is %T", ErrUnsupportedResult, v)
	}
	return &n, nil
}
