package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaIsEmbedded(t *testing.T) {
	schema, err := postgresFS.ReadFile(schemaFile)
	require.NoError(t, err)

	for _, table := range []string{"advisory_runs", "property_writes", "validation_findings", "audit_log"} {
		assert.Contains(t, string(schema), "CREATE TABLE IF NOT EXISTS "+table)
	}
}

func TestNonNil(t *testing.T) {
	assert.Equal(t, []string{}, nonNil(nil))
	assert.Equal(t, []string{"a"}, nonNil([]string{"a"}))
}

func TestPostgresStoreImplementsStore(t *testing.T) {
	var _ Store = (*PostgresStore)(nil)
}
