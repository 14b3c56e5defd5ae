// Package interpolate replaces {{name}} placeholders in template strings
// (and in recursively-structured template bodies) with dynamic values at
// request time, so that no LLM call sits on the request path.
package interpolate

import (
	"encoding/hex"
	"math/rand"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var variablePattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// hexID mints a fresh 128-bit id as 32 plain hex characters. Ids embedded
// in responses carry no dashes, so they read like raw tokens rather than
// canonical UUIDs.
func hexID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// Builtins returns the set of variables available to every interpolation
// call unless overridden by a caller-supplied context.
func Builtins() map[string]string {
	return map[string]string{
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
		"request_id":       hexID(),
		"random_id":        hexID(),
		"random_int":       strconv.Itoa(1000 + rand.Intn(999000)),
		"response_time_ms": strconv.Itoa(1 + rand.Intn(50)),
	}
}

// String replaces every {{name}} placeholder in template with either the
// context's value for name, or a built-in value. Unknown placeholders are
// left literal.
func String(template string, context map[string]string) string {
	merged := Builtins()
	for k, v := range context {
		merged[k] = v
	}
	return variablePattern.ReplaceAllStringFunc(template, func(match string) string {
		name := variablePattern.FindStringSubmatch(match)[1]
		if v, ok := merged[name]; ok {
			return v
		}
		return match
	})
}

// Value recursively interpolates {{name}} placeholders across a structured
// template body: strings are substituted, maps and slices are rebuilt with
// interpolated contents (the input is never mutated), and any other value
// is returned unchanged. Used to render ResponseTemplate bodies and MCP
// tool-call response fixtures alike.
func Value(template any, context map[string]string) any {
	merged := Builtins()
	for k, v := range context {
		merged[k] = v
	}
	return interpolateValue(template, merged)
}

func interpolateValue(template any, merged map[string]string) any {
	switch t := template.(type) {
	case string:
		return variablePattern.ReplaceAllStringFunc(t, func(match string) string {
			name := variablePattern.FindStringSubmatch(match)[1]
			if v, ok := merged[name]; ok {
				return v
			}
			return match
		})
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = interpolateValue(v, merged)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = interpolateValue(v, merged)
		}
		return out
	default:
		return template
	}
}
