package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	t.Run("supabase", func(t *testing.T) {
		dsn, err := DSN(map[string]string{
			"DB_TYPE":              "supa",
			"SUPABASE_DB_HOST":     "db.example.co",
			"SUPABASE_DB_USER":     "postgres",
			"SUPABASE_DB_PASSWORD": "secret",
			"SUPABASE_DB_NAME":     "closet",
		})
		require.NoError(t, err)
		assert.Equal(t, "host=db.example.co user=postgres password=secret dbname=closet port=5432 sslmode=require", dsn)
	})

	t.Run("postgres url", func(t *testing.T) {
		dsn, err := DSN(map[string]string{
			"DB_TYPE":      "postgres",
			"DATABASE_URL": "postgres://u:p@localhost:5432/closet",
		})
		require.NoError(t, err)
		assert.Equal(t, "postgres://u:p@localhost:5432/closet", dsn)
	})

	t.Run("postgres without url", func(t *testing.T) {
		_, err := DSN(map[string]string{"DB_TYPE": "postgres"})
		assert.Error(t, err)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := DSN(map[string]string{"DB_TYPE": "mysql"})
		assert.ErrorContains(t, err, "unsupported DB_TYPE")
	})
}
