package schemas

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinitions_ValidJSONSchema(t *testing.T) {
	entries, err := definitions.ReadDir("definitions")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, entry := range entries {
		t.Run(entry.Name(), func(t *testing.T) {
			data, err := definitions.ReadFile("definitions/" + entry.Name())
			require.NoError(t, err)

			var schemaObj map[string]interface{}
			require.NoError(t, json.Unmarshal(data, &schemaObj), "schema file should be valid JSON")

			_, hasType := schemaObj["type"]
			_, hasSchema := schemaObj["$schema"]
			assert.True(t, hasType && hasSchema, "schema should declare $schema and type")

			name := strings.TrimSuffix(entry.Name(), ".schema.json")
			_, err = schema(name)
			assert.NoError(t, err, "schema should compile")
		})
	}
}

func TestDefinitions_NamedConstantsExist(t *testing.T) {
	for _, name := range []string{ClassificationResponse, JobContext} {
		_, err := definitions.ReadFile("definitions/" + name + ".schema.json")
		assert.NoError(t, err, name)
	}
}
