package states

import (
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/farukkavlak/miniform/internal/tfdiags"
)

// AttrValue is a resolved attribute value as stored on disk: a
// self-describing {"type":...,"value":...} wrapper around a cty.Value,
// produced by ctyjson's dynamic encoding. This is the same wrapper shape
// the reference resolver's unwrap-once rule expects to find on a stored
// attribute, and it is what lets the planner compare two attribute
// values byte for byte after canonicalisation (encode each side the
// same way, then compare the bytes).
type AttrValue struct {
	cty.Value
}

// NewAttrValue wraps a cty.Value for storage.
func NewAttrValue(v cty.Value) AttrValue { return AttrValue{v} }

// MarshalJSON encodes the value using go-cty's dynamic (self-describing)
// JSON codec, so that a cty.Value of any type can round-trip without the
// reader needing to know its type ahead of time.
func (a AttrValue) MarshalJSON() ([]byte, error) {
	v := a.Value
	if v == cty.NilVal {
		v = cty.NullVal(cty.DynamicPseudoType)
	}
	return ctyjson.Marshal(v, cty.DynamicPseudoType)
}

// UnmarshalJSON decodes a value previously written by MarshalJSON.
func (a *AttrValue) UnmarshalJSON(data []byte) error {
	v, err := ctyjson.Unmarshal(data, cty.DynamicPseudoType)
	if err != nil {
		return tfdiags.Statef(err, "decoding attribute value")
	}
	a.Value = v
	return nil
}

// Equal reports structural equality after canonicalisation: two values
// are equal exactly when their dynamic-encoded JSON bytes match, which is
// the planner's diffing rule.
func (a AttrValue) Equal(b AttrValue) bool {
	aBytes, aErr := a.MarshalJSON()
	bBytes, bErr := b.MarshalJSON()
	if aErr != nil || bErr != nil {
		return false
	}
	return string(aBytes) == string(bBytes)
}
