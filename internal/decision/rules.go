package decision

import (
	"strconv"
	"strings"

	"ad-decision-engine/internal/signals"
)

// Evaluate tests one rule against the signal mapping. Rules never match on
// missing data, never error on malformed numerics, and unrecognized
// operators simply do not match.
func Evaluate(r Rule, sig signals.Map) bool {
	actual, ok := sig[r.Signal]
	if !ok {
		return false
	}

	actualStr := strings.ToLower(stringify(actual))
	ruleStr := strings.ToLower(r.Value)

	switch strings.ToLower(r.Operator) {
	case "eq", "equals":
		return actualStr == ruleStr
	case "ne", "not_equals":
		return actualStr != ruleStr
	case "contains":
		return strings.Contains(actualStr, ruleStr)
	case "in":
		for _, opt := range strings.Split(ruleStr, ",") {
			if strings.TrimSpace(opt) == actualStr {
				return true
			}
		}
		return false
	case "gt", "greater_than":
		a, b, ok := numericOperands(actual, r.Value)
		return ok && a > b
	case "lt", "less_than":
		a, b, ok := numericOperands(actual, r.Value)
		return ok && a < b
	case "gte", "greater_equal":
		a, b, ok := numericOperands(actual, r.Value)
		return ok && a >= b
	case "lte", "less_equal":
		a, b, ok := numericOperands(actual, r.Value)
		return ok && a <= b
	}
	return false
}

func numericOperands(actual any, ruleValue string) (float64, float64, bool) {
	a, ok := toFloat(actual)
	if !ok {
		return 0, 0, false
	}
	b, err := strconv.ParseFloat(strings.TrimSpace(ruleValue), 64)
	if err != nil {
		return 0, 0, false
	}
	return a, b, true
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// stringify renders a signal value in its canonical string form for
// case-insensitive comparison. Floats drop insignificant zeros so 14.0
// compares equal to "14".
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return ""
	}
}
