package automation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/DRYTRIX/TimeTracker-sub005/internal/automation/models"
	strutil "github.com/DRYTRIX/TimeTracker-sub005/pkg/platform/strings"
)

// ResolveParams returns a copy of params with template placeholders expanded.
// Only top-level string values are scanned; everything else passes through
// unchanged. Resolution is pure: same rule, event, and params always produce
// the same output.
//
// Placeholders use a fixed {{path}} syntax where path is a dot-separated
// lookup into the event payload, with event.type, event.id, rule.id, and
// rule.name available as builtins when the payload has no such key. An
// unresolvable path expands to the empty string and adds a warning; it never
// fails the action.
func ResolveParams(rule models.WorkflowRule, event models.Event, params map[string]any) (map[string]any, []string) {
	resolved := make(map[string]any, len(params))
	var warnings []string
	for key, value := range params {
		s, ok := value.(string)
		if !ok {
			resolved[key] = value
			continue
		}
		out, w := ResolveString(s, rule, event)
		resolved[key] = out
		warnings = append(warnings, w...)
	}
	return resolved, strutil.DedupeAndTrim(warnings)
}

// ResolveString expands {{path}} placeholders in a single template string.
// A {{ without a matching }} is kept literally to the end of the string.
func ResolveString(s string, rule models.WorkflowRule, event models.Event) (string, []string) {
	if !strings.Contains(s, "{{") {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	var warnings []string
	rest := s
	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:start])
		end := strings.Index(rest[start+2:], "}}")
		if end < 0 {
			b.WriteString(rest[start:])
			break
		}
		path := strings.TrimSpace(rest[start+2 : start+2+end])
		value, ok := lookupPlaceholder(path, rule, event)
		if !ok {
			warnings = append(warnings, "unresolved placeholder {{"+path+"}}")
		}
		b.WriteString(value)
		rest = rest[start+2+end+2:]
	}
	return b.String(), warnings
}

// lookupPlaceholder resolves a placeholder path, payload first so producers
// can override the builtins.
func lookupPlaceholder(path string, rule models.WorkflowRule, event models.Event) (string, bool) {
	if path == "" {
		return "", false
	}
	if v, ok := models.LookupPath(event.Payload, path); ok && v != nil {
		return formatValue(v), true
	}
	switch path {
	case "event.type":
		return string(event.Type), true
	case "event.id":
		return event.ID.String(), true
	case "rule.id":
		return rule.ID.String(), true
	case "rule.name":
		return rule.Name, true
	}
	return "", false
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
