// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package common

import (
	"errors"
	"fmt"
	"strings"
)

// ErrKeyNotFound indicates that the given key was not found in the document.
var ErrKeyNotFound = errors.New("key not found")

// MapStr wraps a document decoded from JSON, as found in log event payloads.
// Values are read with dotted paths ("attributes.session.id"), documents are
// never modified.
type MapStr map[string]interface{}

// GetValue returns the value stored under the given key. The key can address
// nested documents in dot-notation. A key whose literal name contains dots
// takes precedence over the nested interpretation.
func (m MapStr) GetValue(key string) (interface{}, error) {
	for {
		if v, exists := m[key]; exists {
			return v, nil
		}

		idx := strings.IndexRune(key, '.')
		if idx < 0 {
			return nil, ErrKeyNotFound
		}

		sub, exists := m[key[:idx]]
		if !exists {
			return nil, ErrKeyNotFound
		}
		subMap, err := ToMapStr(sub)
		if err != nil {
			return nil, err
		}

		key = key[idx+1:]
		m = subMap
	}
}

// ToMapStr performs a type assertion on v and returns a MapStr. v can be
// either a MapStr or a map[string]interface{}. For any other type, nil
// included, an error is returned.
func ToMapStr(v interface{}) (MapStr, error) {
	switch m := v.(type) {
	case MapStr:
		return m, nil
	case map[string]interface{}:
		return MapStr(m), nil
	default:
		return nil, fmt.Errorf("expected map but type is %T", v)
	}
}

// ToMapStrSlice converts a decoded JSON list into a slice of MapStrs. It
// fails when the value is no list, or when any element is no document.
func ToMapStrSlice(slice interface{}) ([]MapStr, error) {
	elements, ok := slice.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected slice of interfaces but type is %T", slice)
	}

	var mapStrs []MapStr
	for i, v := range elements {
		m, err := ToMapStr(v)
		if err != nil {
			return nil, fmt.Errorf("can't convert element %d to MapStr: %w", i, err)
		}
		mapStrs = append(mapStrs, m)
	}
	return mapStrs, nil
}
