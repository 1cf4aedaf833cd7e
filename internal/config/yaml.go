package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	yaml "go.yaml.in/yaml/v3"
)

// toStrictJSON prepares raw config bytes for the strict JSON decoder.
// YAML files (.yaml/.yml) are converted first; anything else passes through
// as-is, so both formats share the one DisallowUnknownFields code path.
func toStrictJSON(path string, data []byte) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
	default:
		return data, nil
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	out, err := json.Marshal(stringifyKeys(doc))
	if err != nil {
		return nil, fmt.Errorf("convert yaml: %w", err)
	}
	return out, nil
}

// stringifyKeys rewrites map keys to strings. The yaml decoder produces
// map[any]any for mappings with non-string keys, which json.Marshal rejects.
func stringifyKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = stringifyKeys(e)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = stringifyKeys(e)
		}
		return out
	case []any:
		for i, e := range t {
			t[i] = stringifyKeys(e)
		}
		return t
	}
	return v
}
