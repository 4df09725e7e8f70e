package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnownSchemasEmbedded(t *testing.T) {
	for name, path := range Known {
		data, ok := GetSchema(path)
		require.True(t, ok, "schema %s missing at %s", name, path)
		assert.NotEmpty(t, data)
	}
}

func TestGetSchemaNames(t *testing.T) {
	infos := GetSchemaNames()
	require.Len(t, infos, len(Known))
	assert.Equal(t, "config-v1", infos[0].Name)
	for _, info := range infos {
		assert.Equal(t, "Draft-07", info.Draft)
	}
}

func TestGetSchema_Missing(t *testing.T) {
	_, ok := GetSchema("embedded_schemas/v9/nope.yaml")
	assert.False(t, ok)
}
