package npmpkg

import (
	"encoding/json"
	"strings"

	"github.com/ghostdevv/npm-alt/pkg/integrations/npm"
)

// TypesIncluded reports whether a manifest ships its own type definitions:
// either a top-level types/typings field, or an export target (including
// nested conditional-export arrays) that ends in a TypeScript source
// extension or carries a types condition.
func TypesIncluded(m *npm.Manifest) bool {
	if m.Types != "" || m.Typings != "" {
		return true
	}
	return ExportsHaveTypes(m.Exports)
}

// ExportsHaveTypes recursively checks the polymorphic exports shape
// (string | object | array of either) for type definitions. This is the
// only place the exports shape is interpreted.
func ExportsHaveTypes(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	return exportsValueHasTypes(v)
}

func exportsValueHasTypes(v any) bool {
	switch val := v.(type) {
	case string:
		// "exports": "./index.ts"
		return strings.HasSuffix(val, "ts")

	case []any:
		// "exports": { ".": ["./index.ts", { "types": "./index.d.ts" }] }
		for _, item := range val {
			if exportsValueHasTypes(item) {
				return true
			}
		}

	case map[string]any:
		// "exports": { ".": { "types": "./index.d.ts" } }
		if types, ok := val["types"].(string); ok && strings.HasSuffix(types, "ts") {
			return true
		}
		// "exports": { ".": ... }
		if dot, ok := val["."]; ok {
			return exportsValueHasTypes(dot)
		}
	}

	return false
}
