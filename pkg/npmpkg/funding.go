package npmpkg

import (
	"encoding/json"

	"github.com/ghostdevv/npm-alt/pkg/integrations"
)

// ParseFunding normalizes the polymorphic upstream funding field
// (string | {type, url} | array of either, possibly nested) into a flat
// list. Non-HTTP(S) URLs are dropped; unknown funding types lose the type
// but keep the URL. This is the only place the funding shape is interpreted.
func ParseFunding(raw json.RawMessage) []Funding {
	if len(raw) == 0 {
		return []Funding{}
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return []Funding{}
	}
	return parseFundingValue(v)
}

func parseFundingValue(v any) []Funding {
	switch val := v.(type) {
	case string:
		if url := integrations.CheckURL(val); url != "" {
			return []Funding{{URL: url}}
		}

	case []any:
		out := []Funding{}
		for _, item := range val {
			out = append(out, parseFundingValue(item)...)
		}
		return out

	case map[string]any:
		rawURL, _ := val["url"].(string)
		url := integrations.CheckURL(rawURL)
		if url == "" {
			break
		}

		if typ, _ := val["type"].(string); isFundingType(typ) {
			return []Funding{{Type: FundingType(typ), URL: url}}
		}
		return []Funding{{URL: url}}
	}

	return []Funding{}
}

func isFundingType(s string) bool {
	switch FundingType(s) {
	case FundingPatreon, FundingIndividual:
		return true
	}
	return false
}
