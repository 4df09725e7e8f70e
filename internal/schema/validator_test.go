package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodHash = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"

func TestValidateManifest(t *testing.T) {
	res, err := ValidateJSON([]byte(`{"version":"1.2.0","hashes":{"commands/build.md":"`+goodHash+`"}}`), "manifest-v1")
	require.NoError(t, err)
	assert.True(t, res.Valid, res.Summary())

	res, err = ValidateJSON([]byte(`{"version":"1.2.0","hashes":{"commands/build.md":"XYZ"}}`), "manifest-v1")
	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.NotEmpty(t, res.Errors)
	assert.True(t, strings.Contains(res.Summary(), "hashes"), res.Summary())

	res, err = ValidateJSON([]byte(`{"hashes":{}}`), "manifest-v1")
	require.NoError(t, err)
	assert.False(t, res.Valid, "version is required")
}

func TestValidateDescriptor(t *testing.T) {
	res, err := ValidateYAML([]byte("name: unity-starter\nmin_cli_version: 1.3.0\nexclude:\n  - \"**/*.tmp\"\n"), "template-descriptor-v1")
	require.NoError(t, err)
	assert.True(t, res.Valid, res.Summary())

	res, err = ValidateYAML([]byte("name: x\nunknown_key: true\n"), "template-descriptor-v1")
	require.NoError(t, err)
	assert.False(t, res.Valid)

	res, err = ValidateYAML([]byte(""), "template-descriptor-v1")
	require.NoError(t, err)
	assert.True(t, res.Valid)
}

func TestValidateUnknownSchema(t *testing.T) {
	_, err := Validate(map[string]interface{}{}, "nonexistent")
	require.Error(t, err)
}

func TestValidateJSON_Malformed(t *testing.T) {
	_, err := ValidateJSON([]byte("{"), "manifest-v1")
	require.Error(t, err)
}
