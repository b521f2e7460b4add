package domain

import "encoding/json"

// MergeWithDefaults deep-merges a stored override (as JSON) over the
// compiled-in defaults. Merging is shape-generic: both sides are treated as
// JSON object trees and merged key-by-key, so a partial override never
// removes a default field and unknown keys in an old override are ignored by
// the final decode.
func MergeWithDefaults(override []byte) (Configuration, error) {
	var overrideTree map[string]any
	if err := json.Unmarshal(override, &overrideTree); err != nil {
		return Configuration{}, err
	}

	defaultsJSON, err := json.Marshal(Defaults())
	if err != nil {
		return Configuration{}, err
	}
	var defaultsTree map[string]any
	if err := json.Unmarshal(defaultsJSON, &defaultsTree); err != nil {
		return Configuration{}, err
	}

	merged := mergeTrees(defaultsTree, overrideTree)

	mergedJSON, err := json.Marshal(merged)
	if err != nil {
		return Configuration{}, err
	}

	var cfg Configuration
	if err := json.Unmarshal(mergedJSON, &cfg); err != nil {
		return Configuration{}, err
	}
	return cfg, nil
}

// mergeTrees overlays src onto dst recursively. Nested objects merge
// key-by-key; any other value (including arrays) replaces wholesale.
func mergeTrees(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, sv := range src {
		if sm, ok := sv.(map[string]any); ok {
			if dm, ok := out[k].(map[string]any); ok {
				out[k] = mergeTrees(dm, sm)
				continue
			}
		}
		out[k] = sv
	}
	return out
}
