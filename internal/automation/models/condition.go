package models

import (
	"encoding/json"
	"reflect"
	"strings"

	dErrors "github.com/DRYTRIX/TimeTracker-sub005/pkg/domain-errors"
)

// CompareOp is a comparison operator on a payload field.
type CompareOp string

const (
	OpEq       CompareOp = "eq"
	OpNeq      CompareOp = "neq"
	OpGt       CompareOp = "gt"
	OpLt       CompareOp = "lt"
	OpGte      CompareOp = "gte"
	OpLte      CompareOp = "lte"
	OpContains CompareOp = "contains"
)

var compareOps = map[CompareOp]struct{}{
	OpEq: {}, OpNeq: {}, OpGt: {}, OpLt: {}, OpGte: {}, OpLte: {}, OpContains: {},
}

// LogicOp combines child conditions.
type LogicOp string

const (
	LogicAnd LogicOp = "and"
	LogicOr  LogicOp = "or"
	LogicNot LogicOp = "not"
)

// Condition is a node in a rule's predicate tree. A node is either a
// comparison (Field, Op, Value set) or a combinator (Logic, Children set),
// never both. A nil condition matches every event.
//
// Evaluation invariants:
//   - A field missing from the payload makes the comparison false, never an error
//   - A type-mismatched comparison is false, never an error
//   - Evaluation is pure: no I/O, no payload mutation
//
// The grammar is closed. There is no scripting escape hatch, so a rule's
// matching behavior is fully determined by this tree.
type Condition struct {
	Field string    `json:"field,omitempty"`
	Op    CompareOp `json:"op,omitempty"`
	Value any       `json:"value,omitempty"`

	Logic    LogicOp      `json:"logic,omitempty"`
	Children []*Condition `json:"children,omitempty"`
}

// Validate checks the structural invariants of the tree. Called when rules
// enter the system (seed load, store writes), not on every evaluation.
func (c *Condition) Validate() error {
	if c == nil {
		return nil
	}
	if c.Logic != "" {
		if c.Field != "" || c.Op != "" {
			return dErrors.New(dErrors.CodeInvalidInput, "condition node mixes comparison and combinator")
		}
		switch c.Logic {
		case LogicAnd, LogicOr:
			if len(c.Children) == 0 {
				return dErrors.New(dErrors.CodeInvalidInput, string(c.Logic)+" requires at least one child")
			}
		case LogicNot:
			if len(c.Children) != 1 {
				return dErrors.New(dErrors.CodeInvalidInput, "not requires exactly one child")
			}
		default:
			return dErrors.New(dErrors.CodeInvalidInput, "unsupported logic operator: "+string(c.Logic))
		}
		for _, child := range c.Children {
			if child == nil {
				return dErrors.New(dErrors.CodeInvalidInput, "condition child must not be null")
			}
			if err := child.Validate(); err != nil {
				return err
			}
		}
		return nil
	}

	if strings.TrimSpace(c.Field) == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "comparison requires a field path")
	}
	if _, ok := compareOps[c.Op]; !ok {
		return dErrors.New(dErrors.CodeInvalidInput, "unsupported comparison operator: "+string(c.Op))
	}
	if len(c.Children) > 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "comparison node must not have children")
	}
	return nil
}

// Evaluate walks the tree against an event payload. The payload is treated
// as read-only.
func (c *Condition) Evaluate(payload map[string]any) bool {
	if c == nil {
		return true
	}
	if c.Logic != "" {
		switch c.Logic {
		case LogicAnd:
			for _, child := range c.Children {
				if !child.Evaluate(payload) {
					return false
				}
			}
			return true
		case LogicOr:
			for _, child := range c.Children {
				if child.Evaluate(payload) {
					return true
				}
			}
			return false
		case LogicNot:
			if len(c.Children) != 1 {
				return false
			}
			return !c.Children[0].Evaluate(payload)
		default:
			return false
		}
	}

	got, ok := LookupPath(payload, c.Field)
	if !ok {
		return false
	}
	return compareValues(c.Op, got, c.Value)
}

// LookupPath resolves a dot-separated path against nested string-keyed maps.
// "task.name" looks up payload["task"]["name"]. Array indexing is not part
// of the path grammar.
func LookupPath(payload map[string]any, path string) (any, bool) {
	if payload == nil || path == "" {
		return nil, false
	}

	segments := strings.Split(path, ".")
	var current any = payload
	for _, segment := range segments {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = node[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func compareValues(op CompareOp, got, want any) bool {
	switch op {
	case OpEq:
		return valuesEqual(got, want)
	case OpNeq:
		return !valuesEqual(got, want)
	case OpGt, OpLt, OpGte, OpLte:
		gf, okGot := toFloat(got)
		wf, okWant := toFloat(want)
		if !okGot || !okWant {
			return false
		}
		switch op {
		case OpGt:
			return gf > wf
		case OpLt:
			return gf < wf
		case OpGte:
			return gf >= wf
		default:
			return gf <= wf
		}
	case OpContains:
		return containsValue(got, want)
	default:
		return false
	}
}

// valuesEqual compares with numeric coercion so a rule authored with 8
// matches a payload decoded to 8.0, and vice versa.
func valuesEqual(got, want any) bool {
	if gf, ok := toFloat(got); ok {
		wf, okWant := toFloat(want)
		return okWant && gf == wf
	}
	switch g := got.(type) {
	case string:
		w, ok := want.(string)
		return ok && g == w
	case bool:
		w, ok := want.(bool)
		return ok && g == w
	default:
		return reflect.DeepEqual(got, want)
	}
}

// toFloat coerces any Go or JSON-decoded numeric representation to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// containsValue implements the contains operator: substring on strings,
// membership on lists.
func containsValue(got, want any) bool {
	switch g := got.(type) {
	case string:
		w, ok := want.(string)
		return ok && strings.Contains(g, w)
	case []any:
		for _, elem := range g {
			if valuesEqual(elem, want) {
				return true
			}
		}
		return false
	case []string:
		w, ok := want.(string)
		if !ok {
			return false
		}
		for _, elem := range g {
			if elem == w {
				return true
			}
		}
		return false
	default:
		return false
	}
}
