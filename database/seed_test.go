package database_test

import (
	"os"
	"path/filepath"
	"testing"

	"nopo_backend/database"
	"nopo_backend/internal/models"
	"nopo_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedYAML = `
- name: Nopo Pasta
  address: Seoul, Mapo-gu
  category: italian
  location_x: 126.9236
  location_y: 37.5502
  metadata:
    open: "11:00"
- name: Sushi Haru
  address: Seoul, Gangnam-gu
  category: japanese
- name: ""
  address: skipped
`

func TestSeedRestaurants_Idempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	path := filepath.Join(t.TempDir(), "restaurants.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o644))

	require.NoError(t, database.SeedRestaurants(db, path))
	require.NoError(t, database.SeedRestaurants(db, path))

	assert.Equal(t, int64(2), testutil.Count(t, db, &models.Restaurant{}, ""))

	var pasta models.Restaurant
	require.NoError(t, db.First(&pasta, "name = ?", "Nopo Pasta").Error)
	assert.JSONEq(t, `{"open":"11:00"}`, string(pasta.Metadata))
	assert.Equal(t, 126.9236, pasta.LocationX)
	assert.Equal(t, 37.5502, pasta.LocationY)
}

func TestSeedRestaurants_MissingOrEmptyPath(t *testing.T) {
	db := testutil.NewTestDB(t)

	assert.NoError(t, database.SeedRestaurants(db, ""))
	assert.NoError(t, database.SeedRestaurants(db, filepath.Join(t.TempDir(), "nope.yaml")))
	assert.Equal(t, int64(0), testutil.Count(t, db, &models.Restaurant{}, ""))
}

func TestSeedRestaurants_BadYAML(t *testing.T) {
	db := testutil.NewTestDB(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: [unterminated"), 0o644))

	assert.Error(t, database.SeedRestaurants(db, path))
}

func TestDialector(t *testing.T) {
	for _, driver := range []string{"postgres", "mysql", "sqlite"} {
		d, err := database.Dialector(driver, "dsn")
		require.NoError(t, err, driver)
		assert.NotNil(t, d)
	}
	_, err := database.Dialector("oracle", "dsn")
	assert.Error(t, err)
}
