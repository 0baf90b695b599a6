package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Code  string `bson:"code" validate:"required,alphanum"`
	Count int    `bson:"used_count" validate:"gte=0"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(&sample{Code: "abc123"}))

	err := Struct(&sample{Code: "", Count: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code required")
	assert.Contains(t, err.Error(), "used_count gte")

	assert.EqualError(t, Struct(nil), "is nil")
	assert.EqualError(t, Struct("text"), "not a struct")
}
