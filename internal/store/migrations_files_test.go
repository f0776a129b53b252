package store

import (
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsHaveUpAndDownSections(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, migrationsDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	pattern := regexp.MustCompile(`^(\d{5})_[a-z_]+\.sql$`)
	seen := map[string]bool{}
	for _, entry := range entries {
		name := entry.Name()
		match := pattern.FindStringSubmatch(name)
		require.NotNil(t, match, "unexpected migration file name %s", name)
		assert.False(t, seen[match[1]], "duplicate migration version %s", match[1])
		seen[match[1]] = true

		body, err := fs.ReadFile(migrationsFS, migrationsDir+"/"+name)
		require.NoError(t, err)
		text := string(body)
		up := strings.Index(text, "-- +goose Up")
		down := strings.Index(text, "-- +goose Down")
		assert.GreaterOrEqual(t, up, 0, "%s has no Up section", name)
		assert.Greater(t, down, up, "%s must list Down after Up", name)
	}
}
