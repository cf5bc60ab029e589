package service

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"lms_backend/internal/model"
)

// FormatProfileContext renders profile fields as a plain-text bullet
// list suitable for embedding in an AI prompt. Fields with no value
// (nil pointers, empty slices or maps) are skipped entirely, floats
// print with one decimal, string lists join with commas and nested
// maps render as an indented sublist. Field names turn from
// snake_case into capitalized labels.
func FormatProfileContext(fields []model.ProfileField) string {
	var b strings.Builder
	for _, f := range fields {
		line, ok := renderField(f)
		if !ok {
			continue
		}
		b.WriteString(line)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderField(f model.ProfileField) (string, bool) {
	label := fieldLabel(f.Name)

	switch v := f.Value.(type) {
	case nil:
		return "", false
	case *float64:
		if v == nil {
			return "", false
		}
		return fmt.Sprintf("- %s: %.1f\n", label, *v), true
	case float64:
		return fmt.Sprintf("- %s: %.1f\n", label, v), true
	case []string:
		if len(v) == 0 {
			return "", false
		}
		return fmt.Sprintf("- %s: %s\n", label, strings.Join(v, ", ")), true
	case map[string]interface{}:
		if len(v) == 0 {
			return "", false
		}
		var b strings.Builder
		fmt.Fprintf(&b, "- %s:\n", label)
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "  • %s: %s\n", k, renderScalar(v[k]))
		}
		return b.String(), true
	default:
		return fmt.Sprintf("- %s: %s\n", label, renderScalar(v)), true
	}
}

func renderScalar(v interface{}) string {
	switch x := v.(type) {
	case float64:
		return fmt.Sprintf("%.1f", x)
	case *float64:
		if x == nil {
			return ""
		}
		return fmt.Sprintf("%.1f", *x)
	default:
		return fmt.Sprint(x)
	}
}

// fieldLabel turns "login_count" into "Login count".
func fieldLabel(name string) string {
	label := strings.ReplaceAll(name, "_", " ")
	runes := []rune(label)
	if len(runes) > 0 {
		runes[0] = unicode.ToUpper(runes[0])
	}
	return string(runes)
}
