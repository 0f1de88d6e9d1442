package actions

import (
	"strconv"
	"strings"
	"time"

	dErrors "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain-errors"
)

// requireString extracts a mandatory string parameter. Template resolution
// has already run, so an unresolved placeholder shows up here as empty and
// is rejected the same way as a missing key.
func requireString(params map[string]any, key string) (string, error) {
	v, ok := params[key]
	if !ok {
		return "", dErrors.New(dErrors.CodeInvalidInput, "missing required parameter: "+key)
	}
	s, isString := v.(string)
	if !isString {
		return "", dErrors.New(dErrors.CodeInvalidInput, "parameter "+key+" must be a string")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "parameter "+key+" must not be empty")
	}
	return s, nil
}

func optionalString(params map[string]any, key string) string {
	s, _ := params[key].(string)
	return strings.TrimSpace(s)
}

// requireNumber extracts a mandatory numeric parameter. Numeric strings are
// accepted because a templated value like "{{time_entry.hours}}" resolves
// to a string.
func requireNumber(params map[string]any, key string) (float64, error) {
	v, ok := params[key]
	if !ok {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "missing required parameter: "+key)
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, dErrors.New(dErrors.CodeInvalidInput, "parameter "+key+" is not a number: "+n)
		}
		return parsed, nil
	default:
		return 0, dErrors.New(dErrors.CodeInvalidInput, "parameter "+key+" must be a number")
	}
}

// optionalTime parses an optional RFC3339 parameter. Absent or empty means
// the zero time; a present but malformed value is an error.
func optionalTime(params map[string]any, key string) (time.Time, error) {
	s := optionalString(params, key)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeInvalidInput, "parameter "+key+" is not an RFC3339 timestamp: "+s)
	}
	return t, nil
}
