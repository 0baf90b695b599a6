package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientByToken(t *testing.T) {
	a := New("s3cret")

	client, err := a.ClientByToken("s3cret")
	require.NoError(t, err)
	assert.Equal(t, "operator", client.Name)

	_, err = a.ClientByToken("guess")
	assert.Error(t, err)

	_, err = New("").ClientByToken("")
	assert.Error(t, err)
}
