package command

import (
	"strconv"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// formatValue renders a resolved value for human-readable CLI output:
// scalars in their obvious textual form, composites as their canonical
// JSON encoding. It intentionally mirrors internal/lang's interpolation
// stringifier rather than importing it, since that one is deliberately
// unexported -- an interpolation result and a top-level CLI value answer
// slightly different questions (empty string for null vs. an explicit
// "null").
func formatValue(v cty.Value) string {
	if v == cty.NilVal || !v.IsKnown() {
		return "(unknown)"
	}
	if v.IsNull() {
		return "null"
	}
	switch {
	case v.Type() == cty.String:
		return strconv.Quote(v.AsString())
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
			return "(error)"
		}
		return string(data)
	}
}
