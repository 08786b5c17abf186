package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsAreOrderedAndNonEmpty(t *testing.T) {
	migrations, err := Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	for i, m := range migrations {
		assert.NotEmpty(t, strings.TrimSpace(m.SQL), "migration %s is empty", m.Version)
		if i > 0 {
			assert.Less(t, migrations[i-1].Version, m.Version)
		}
	}
	assert.Equal(t, "0001_catalog", migrations[0].Version)
}

func TestMigrationsDeclareConstraintsUsedByRepositories(t *testing.T) {
	migrations, err := Migrations()
	require.NoError(t, err)

	var all strings.Builder
	for _, m := range migrations {
		all.WriteString(m.SQL)
	}
	schema := all.String()

	for _, constraint := range []string{
		"universities_name_key",
		"profiles_handle_key",
		"problems_contest_id_label_key",
	} {
		assert.Contains(t, schema, constraint)
	}
}
