package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arosaje/backend/internal/db"
	"github.com/arosaje/backend/internal/models"
)

// setupTestDB opens an isolated in-memory SQLite database. The DSN is keyed
// by test name so parallel tests never share state.
func setupTestDB(t *testing.T) *db.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, gdb.AutoMigrate(
		&models.User{},
		&models.Plant{},
		&models.PlantCare{},
		&models.Advice{},
	))

	// AutoMigrate cannot express a partial index
	require.NoError(t, gdb.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_advices_current_per_care
		 ON advices(plant_care_id) WHERE is_current_version = 1`,
	).Error)

	database := &db.DB{DB: gdb}
	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return database
}

func seedUser(t *testing.T, database *db.DB, role models.UserRole, name string) *models.User {
	t.Helper()
	user := &models.User{
		FirstName: name,
		LastName:  "Test",
		Email:     fmt.Sprintf("%s-%s@example.com", name, t.Name()),
		Role:      role,
	}
	require.NoError(t, database.Create(user).Error)
	return user
}

func seedPlant(t *testing.T, database *db.DB, owner *models.User, name string) *models.Plant {
	t.Helper()
	species := "Monstera deliciosa"
	plant := &models.Plant{
		OwnerID: owner.ID,
		Name:    name,
		Species: &species,
	}
	require.NoError(t, database.Create(plant).Error)
	return plant
}

func seedPlantCare(t *testing.T, database *db.DB, plant *models.Plant, owner *models.User, status models.CareStatus) *models.PlantCare {
	t.Helper()
	care := &models.PlantCare{
		PlantID:   plant.ID,
		OwnerID:   owner.ID,
		StartDate: time.Now(),
		EndDate:   time.Now().Add(7 * 24 * time.Hour),
		Status:    status,
	}
	require.NoError(t, database.Create(care).Error)
	return care
}

// seedCareWithOwner creates the owner, plant and session in one call
func seedCareWithOwner(t *testing.T, database *db.DB, status models.CareStatus) *models.PlantCare {
	t.Helper()
	owner := seedUser(t, database, models.RoleOwner, fmt.Sprintf("owner%d", time.Now().UnixNano()))
	plant := seedPlant(t, database, owner, "Ficus")
	return seedPlantCare(t, database, plant, owner, status)
}
