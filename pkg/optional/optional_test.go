package optional

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	A Value[string] `json:"a"`
	B Value[string] `json:"b"`
	C Value[string] `json:"c"`
	N Value[int]    `json:"n"`
}

func TestValue_Unmarshal(t *testing.T) {
	var p payload
	err := json.Unmarshal([]byte(`{"a": "x", "b": null, "n": 7}`), &p)
	require.NoError(t, err)

	assert.True(t, p.A.Set)
	assert.True(t, p.A.Valid)
	assert.Equal(t, "x", p.A.V)

	assert.True(t, p.B.Set, "null field is present")
	assert.False(t, p.B.Valid, "null field has no value")

	assert.False(t, p.C.Set, "omitted field is absent")
	assert.False(t, p.C.Valid)

	assert.True(t, p.N.Set)
	assert.True(t, p.N.Valid)
	assert.Equal(t, 7, p.N.V)
}

func TestValue_UnmarshalTypeMismatch(t *testing.T) {
	var p payload
	err := json.Unmarshal([]byte(`{"n": "seven"}`), &p)
	assert.Error(t, err)
}

func TestValue_Marshal(t *testing.T) {
	b, err := json.Marshal(map[string]interface{}{
		"set":    Of("x"),
		"null":   Null[string](),
		"absent": Value[string]{},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"set": "x", "null": null, "absent": null}`, string(b))
}
