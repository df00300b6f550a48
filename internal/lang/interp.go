package lang

import (
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/farukkavlak/miniform/internal/tfdiags"
)

// scanInterpolations walks s once, invoking emit for every "${...}"
// occurrence's trimmed inner text, and lit for the literal text between (or
// surrounding) them. It is the single scanner both the resolver's string
// substitution and the dependency graph builder's reference extraction are
// built on, so the two never disagree about what counts as an
// interpolation.
func scanInterpolations(s string, lit func(string), emit func(expr string) error) error {
	i := 0
	for i < len(s) {
		idx := strings.Index(s[i:], "${")
		if idx < 0 {
			lit(s[i:])
			return nil
		}
		lit(s[i : i+idx])
		start := i + idx + 2
		end := strings.Index(s[start:], "}")
		if end < 0 {
			return tfdiags.Resolvef("unterminated interpolation in %q", s)
		}
		expr := strings.TrimSpace(s[start : start+end])
		if err := emit(expr); err != nil {
			return err
		}
		i = start + end + 1
	}
	return nil
}

// interpolate replaces every "${...}" occurrence in s with the stringified
// result of resolving its dotted path. Non-reference (literal) text
// passes through unchanged; a value that resolves to null stringifies to
// the empty string.
func interpolate(s string, resolve func(parts []string) (cty.Value, error)) (string, error) {
	var out strings.Builder
	err := scanInterpolations(s,
		func(text string) { out.WriteString(text) },
		func(expr string) error {
			parts := strings.Split(expr, ".")
			v, err := resolve(parts)
			if err != nil {
				return err
			}
			out.WriteString(stringify(v))
			return nil
		},
	)
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

// stringify renders a resolved value the way an interpolation splices it
// back into its enclosing string: nullish becomes empty, scalars render in
// the obvious way, and anything else falls back to its canonical JSON
// encoding.
func stringify(v cty.Value) string {
	if v == cty.NilVal || !v.IsKnown() || v.IsNull() {
		return ""
	}
	switch {
	case v.Type() == cty.String:
		return v.AsString()
	case v.Type() == cty.Number:
		bf := v.AsBigFloat()
		if i, acc := bf.Int64(); acc == 0 || bf.IsInt() {
			return strconv.FormatInt(i, 10)
		}
		return bf.Text('f', -1)
	case v.Type() == cty.Bool:
		if v.True() {
			return "true"
		}
		return "false"
	default:
		data, err := ctyjson.Marshal(v, v.Type())
		if err != nil {
			return ""
		}
		return string(data)
	}
}
