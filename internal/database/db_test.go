package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	assert.Equal(t,
		"app:secret@tcp(db:3306)/techno?charset=utf8mb4&parseTime=true&loc=UTC&multiStatements=true&clientFoundRows=true",
		DSN("app", "secret", "db", "3306", "techno"))
	assert.Equal(t,
		"app@tcp(db:3306)/techno?charset=utf8mb4&parseTime=true&loc=UTC&multiStatements=true&clientFoundRows=true",
		DSN("app", "", "db", "3306", "techno"))
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := migrationFS.ReadDir("migrations")
	require.NoError(t, err)

	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case len(e.Name()) > 7 && e.Name()[len(e.Name())-7:] == ".up.sql":
			ups++
		case len(e.Name()) > 9 && e.Name()[len(e.Name())-9:] == ".down.sql":
			downs++
		}
	}
	assert.Equal(t, 3, ups)
	assert.Equal(t, ups, downs)
}
