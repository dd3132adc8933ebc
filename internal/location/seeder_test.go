// File: internal/location/seeder_test.go
package location

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// Plain DDL instead of AutoMigrate: the model's server-side uuid default
	// does not exist on sqlite.
	err = db.Exec(`CREATE TABLE locations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		latitude REAL NOT NULL,
		longitude REAL NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	)`).Error
	require.NoError(t, err)
	return db
}

func TestSeed_InstallsAllRegions(t *testing.T) {
	db := newTestDB(t)
	seeder := NewSeeder(db, zap.NewNop())

	result, err := seeder.Seed(context.Background())
	require.NoError(t, err)

	assert.Len(t, result.Added, 31)
	assert.Empty(t, result.Updated)
	assert.Empty(t, result.Failed)

	var count int64
	require.NoError(t, db.Model(&Location{}).Count(&count).Error)
	assert.Equal(t, int64(31), count)

	var arusha Location
	require.NoError(t, db.Where("name = ?", "Arusha").First(&arusha).Error)
	assert.InDelta(t, -3.37, arusha.Latitude, 0.001)
	assert.InDelta(t, 36.68, arusha.Longitude, 0.001)
}

func TestSeed_SecondRunIsNoOp(t *testing.T) {
	db := newTestDB(t)
	seeder := NewSeeder(db, zap.NewNop())

	_, err := seeder.Seed(context.Background())
	require.NoError(t, err)

	result, err := seeder.Seed(context.Background())
	require.NoError(t, err)

	assert.Empty(t, result.Added)
	assert.Empty(t, result.Updated)
	assert.Empty(t, result.Failed)

	var count int64
	require.NoError(t, db.Model(&Location{}).Count(&count).Error)
	assert.Equal(t, int64(31), count)
}

func TestSeed_CorrectsDriftedCoordinates(t *testing.T) {
	db := newTestDB(t)
	seeder := NewSeeder(db, zap.NewNop())

	_, err := seeder.Seed(context.Background())
	require.NoError(t, err)

	// Drift one region's coordinates out from under the seeder.
	err = db.Model(&Location{}).
		Where("name = ?", "Dodoma").
		Updates(map[string]interface{}{"latitude": 0.0, "longitude": 0.0}).Error
	require.NoError(t, err)

	result, err := seeder.Seed(context.Background())
	require.NoError(t, err)

	assert.Empty(t, result.Added)
	assert.Equal(t, []string{"Dodoma"}, result.Updated)

	var dodoma Location
	require.NoError(t, db.Where("name = ?", "Dodoma").First(&dodoma).Error)
	assert.InDelta(t, -6.16, dodoma.Latitude, 0.001)
	assert.InDelta(t, 35.75, dodoma.Longitude, 0.001)
}
