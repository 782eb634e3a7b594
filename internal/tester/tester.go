package tester

import (
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/emrgen/linkset/internal/model"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqliteParams makes concurrent transactions wait for the write lock instead of
// failing with "database is locked".
const sqliteParams = "?_busy_timeout=5000&_txlock=immediate"

// NewTestDB opens a migrated sqlite database that lives in a temporary
// directory owned by t.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "linkset.db")
	db, err := gorm.Open(sqlite.Open(path+sqliteParams), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("test db handle: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := model.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

// Redis returns a client connected to an in-process redis server.
func Redis(t testing.TB) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr:     server.Addr(),
		Protocol: 2,
	})
	t.Cleanup(func() {
		_ = client.Close()
	})

	return client, server
}
