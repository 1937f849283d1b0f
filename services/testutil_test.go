package services

import (
	"testing"

	"github.com/GrainArc/MarkMap/models"
	"github.com/GrainArc/MarkMap/storage"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库每个连接各自独立，限制为单连接
	sqlDB.SetMaxOpenConns(1)
	db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, models.Migrate(db))
	return db
}

func newTestMapService(t *testing.T, db *gorm.DB) *MapService {
	t.Helper()
	return NewMapService(db, storage.NewBlobStore(t.TempDir()))
}

func createUser(t *testing.T, db *gorm.DB, username string, super bool) *models.User {
	t.Helper()
	user := models.User{Username: username, Email: username + "@test.local", IsSuperuser: super}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createMap(t *testing.T, db *gorm.DB, owner *models.User, name string, public bool) *models.Map {
	t.Helper()
	m := models.Map{
		Name:     name,
		FilePath: "maps/user_1/" + name + ".png",
		FileType: models.FileTypeImage,
		OwnerID:  owner.ID,
		IsPublic: public,
	}
	require.NoError(t, db.Create(&m).Error)
	return &m
}

func createShare(t *testing.T, db *gorm.DB, m *models.Map, with, by *models.User, perm string) *models.SharedMap {
	t.Helper()
	share := models.SharedMap{MapID: m.ID, SharedWithID: with.ID, SharedByID: by.ID, Permission: perm}
	require.NoError(t, db.Create(&share).Error)
	return &share
}

func createLayer(t *testing.T, db *gorm.DB, m *models.Map, name string) *models.MapLayer {
	t.Helper()
	layer := models.MapLayer{Name: name, MapID: m.ID, IsVisible: true}
	require.NoError(t, db.Create(&layer).Error)
	return &layer
}

func createPOI(t *testing.T, db *gorm.DB, m *models.Map, by *models.User, name string, layerID *uint) *models.PointOfInterest {
	t.Helper()
	poi := models.PointOfInterest{
		Name: name, MapID: m.ID, LayerID: layerID,
		XPosition: 50, YPosition: 50, CreatedByID: by.ID,
	}
	require.NoError(t, db.Create(&poi).Error)
	return &poi
}
