package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// sqliteParams makes concurrent transactions queue for the write lock.
const sqliteParams = "_busy_timeout=5000&_txlock=immediate"

// OpenDb opens the configured database. Driver errors are translated so that
// unique violations surface as gorm.ErrDuplicatedKey.
func OpenDb(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.Database.DSN)
	case "sqlite", "":
		if dir := filepath.Dir(cfg.Database.DSN); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		dialector = sqlite.Open(sqliteDSN(cfg.Database.DSN))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(),
	})
}

// GetDb is OpenDb for commands, it exits when the database cannot be opened.
func GetDb(cfg *Config) *gorm.DB {
	db, err := OpenDb(cfg)
	if err != nil {
		logrus.Fatalf("failed to open %s database: %v", cfg.Database.Driver, err)
	}

	return db
}

func sqliteDSN(dsn string) string {
	if strings.Contains(dsn, "_txlock") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqliteParams
	}
	return dsn + "?" + sqliteParams
}
