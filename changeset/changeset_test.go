package changeset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateJSONShape(t *testing.T) {
	c := NewCreate(8, 1)
	b, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "Create", decoded["Operation type"])
	assert.EqualValues(t, 8, decoded["Key"])
	assert.EqualValues(t, 1, decoded["Value"])
	assert.NotContains(t, decoded, "Source value")
}

func TestUpdateJSONShape(t *testing.T) {
	c := NewUpdate(15, 4, 2)
	b, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "Update", decoded["Operation type"])
	assert.EqualValues(t, 4, decoded["Source value"])
	assert.EqualValues(t, 2, decoded["Destination value"])
	assert.NotContains(t, decoded, "Value")
}

func TestEqualComparesOperationKeyAndValues(t *testing.T) {
	a := NewDelete(2, 1)
	b := NewDelete(2, 1)
	c := NewDelete(2, 2)
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "Create", Create.String())
	assert.Equal(t, "Delete", Delete.String())
	assert.Equal(t, "Update", Update.String())
}
