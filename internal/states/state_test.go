package states

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/farukkavlak/miniform/internal/addrs"
)

func TestAttrValueRoundTrip(t *testing.T) {
	in := NewAttrValue(cty.ObjectVal(map[string]cty.Value{
		"id":   cty.StringVal("abc123"),
		"size": cty.NumberIntVal(3),
		"tags": cty.ListVal([]cty.Value{cty.StringVal("a"), cty.StringVal("b")}),
	}))

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out AttrValue
	require.NoError(t, json.Unmarshal(data, &out))

	assert.True(t, in.Equal(out))
	assert.True(t, out.Value.GetAttr("id").RawEquals(cty.StringVal("abc123")))
}

func TestAttrValueEqualDetectsDifference(t *testing.T) {
	a := NewAttrValue(cty.StringVal("x"))
	b := NewAttrValue(cty.StringVal("y"))
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(a))
}

func TestStatePutGetDelete(t *testing.T) {
	s := New()
	addr := addrs.Root("instance", "web")
	s.Put(addr, Resource{
		ID: "i-1",
		Attributes: map[string]AttrValue{
			"id": NewAttrValue(cty.StringVal("i-1")),
		},
	})

	r, ok := s.Get(addr)
	require.True(t, ok)
	assert.Equal(t, "i-1", r.ID)
	assert.Equal(t, "instance", r.ResourceType)
	assert.Equal(t, addr, r.Address())

	s.Delete(addr)
	_, ok = s.Get(addr)
	assert.False(t, ok)
}

func TestStateDeepCopyIsIndependent(t *testing.T) {
	s := New()
	addr := addrs.Root("instance", "web")
	s.Put(addr, Resource{
		ID:         "i-1",
		Attributes: map[string]AttrValue{"id": NewAttrValue(cty.StringVal("i-1"))},
	})
	s.Variables["mod"] = map[string]AttrValue{"x": NewAttrValue(cty.NumberIntVal(1))}

	cp := s.DeepCopy()
	cp.Resources[addr.String()].Attributes["id"] = NewAttrValue(cty.StringVal("changed"))
	cp.Variables["mod"]["x"] = NewAttrValue(cty.NumberIntVal(2))

	orig, _ := s.Get(addr)
	assert.True(t, orig.Attributes["id"].RawEquals(cty.StringVal("i-1")))
	assert.True(t, s.Variables["mod"]["x"].RawEquals(cty.NumberIntVal(1)))
}

func TestStateJSONRoundTrip(t *testing.T) {
	s := New()
	addr := addrs.Root("instance", "web")
	s.Put(addr, Resource{
		ID:         "i-1",
		Attributes: map[string]AttrValue{"id": NewAttrValue(cty.StringVal("i-1"))},
	})

	data, err := json.MarshalIndent(s, "", "  ")
	require.NoError(t, err)

	out := New()
	require.NoError(t, json.Unmarshal(data, out))

	r, ok := out.Get(addr)
	require.True(t, ok)
	assert.True(t, r.Attributes["id"].RawEquals(cty.StringVal("i-1")))
}
