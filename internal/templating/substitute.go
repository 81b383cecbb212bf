package templating

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/slidesmith/slidesmith-mcp/internal/tools"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

// Substitute replaces every {{ dotted.path }} in s with the value resolved
// from data. Missing paths leave the placeholder literal. The result is not
// re-scanned, so substituted values cannot introduce new placeholders.
func Substitute(s string, data map[string]interface{}) string {
	if !strings.Contains(s, "{{") {
		return s
	}
	return placeholderRe.ReplaceAllStringFunc(s, func(m string) string {
		path := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(m, "{{"), "}}"))
		v, ok := Resolve(data, path)
		if !ok || v == nil {
			return m
		}
		return formatValue(v)
	})
}

// Resolve walks a dot-separated path through nested maps and sequences.
// Integer components index sequences 0-based.
func Resolve(data map[string]interface{}, path string) (interface{}, bool) {
	var current interface{} = data
	for _, component := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]interface{}:
			v, ok := node[component]
			if !ok {
				return nil, false
			}
			current = v
		case []interface{}:
			idx, err := strconv.Atoi(component)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// Evaluate resolves the predicate's field against data and applies the
// operator. A missing field satisfies only not_equals; exists is true iff
// the path resolves to a non-null value.
func (p *Predicate) Evaluate(data map[string]interface{}) (bool, error) {
	v, ok := Resolve(data, p.Field)
	switch p.Operator {
	case "exists":
		return ok && v != nil, nil
	case "equals":
		return ok && valuesEqual(v, p.Value), nil
	case "not_equals":
		return !ok || !valuesEqual(v, p.Value), nil
	case "greater_than":
		a, aok := asFloat(v)
		b, bok := asFloat(p.Value)
		return ok && aok && bok && a > b, nil
	case "less_than":
		a, aok := asFloat(v)
		b, bok := asFloat(p.Value)
		return ok && aok && bok && a < b, nil
	case "contains":
		if !ok {
			return false, nil
		}
		switch hay := v.(type) {
		case string:
			return strings.Contains(hay, formatValue(p.Value)), nil
		case []interface{}:
			for _, item := range hay {
				if valuesEqual(item, p.Value) {
					return true, nil
				}
			}
			return false, nil
		}
		return false, nil
	default:
		return false, tools.NewBadArgument("unknown condition operator %q", p.Operator)
	}
}

func valuesEqual(a, b interface{}) bool {
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			return af == bf
		}
	}
	return formatValue(a) == formatValue(b)
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
