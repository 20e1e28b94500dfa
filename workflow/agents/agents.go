// Package agents implements the specialized stage agents of the migration
// planning workflow. Each agent combines a completion call with deterministic
// post-processing, and degrades to a usable fallback result when the
// completion service fails or returns unparseable output.
package agents

import (
	"encoding/json"
)

// indentJSON serializes v for inclusion in a prompt. Marshal failures fall
// back to an empty object so a bad sample never blocks a stage.
func indentJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}

// sampleRecords returns at most n leading records for prompt inclusion.
func sampleRecords(records []map[string]any, n int) []map[string]any {
	if len(records) <= n {
		return records
	}
	return records[:n]
}
