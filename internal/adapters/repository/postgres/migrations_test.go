package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFileContent(t *testing.T) {
	up, err := MigrationFileContent("create_questions", Up)
	require.NoError(t, err)
	assert.Contains(t, string(up), "CREATE TABLE")

	down, err := MigrationFileContent("000001_create_questions", Down)
	require.NoError(t, err)
	assert.Contains(t, string(down), "DROP TABLE")

	_, err = MigrationFileContent("create_users", Up)
	assert.Error(t, err)
}
