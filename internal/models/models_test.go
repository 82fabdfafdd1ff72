package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatRecord_SetLastWriteWins(t *testing.T) {
	r := NewFlatRecord()
	r.Set("name", StringValue("John"))
	r.Set("age", NumberValue("30"))
	r.Set("name", StringValue("Doe"))

	assert.Equal(t, []string{"name", "age"}, r.Keys())
	assert.Equal(t, 2, r.Len())

	v, ok := r.Get("name")
	require.True(t, ok)
	assert.Equal(t, StringValue("Doe"), v)

	_, ok = r.Get("city")
	assert.False(t, ok)
}

func TestFlatRecord_KeysIsACopy(t *testing.T) {
	r := NewFlatRecord()
	r.Set("a", BoolValue(true))

	keys := r.Keys()
	keys[0] = "changed"
	assert.Equal(t, []string{"a"}, r.Keys())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "null", Null.String())
	assert.Equal(t, "boolean", Bool.String())
	assert.Equal(t, "number", Number.String())
	assert.Equal(t, "string", String.String())
	assert.Equal(t, "array", Array.String())
	assert.Equal(t, "object", Object.String())
}
