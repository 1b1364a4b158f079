package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func getLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true, // Don't include params in the SQL log
			Colorful:                  false,
		},
	)
}

func configureConnectionPool(db *gorm.DB, maxOpen int) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxIdleConns(min(10, maxOpen))
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return nil
}

// NewGormDB opens the archive database. driver is "postgres" or "sqlite";
// for sqlite dsn is a file path or "file::memory:".
func NewGormDB(driver, dsn string) (*gorm.DB, error) {
	var (
		dialector gorm.Dialector
		maxOpen   int
	)
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
		maxOpen = 100
	case "sqlite", "":
		dialector = sqlite.Open(dsn)
		// sqlite allows a single writer
		maxOpen = 1
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: getLogger(),
	})
	if err != nil {
		return nil, err
	}

	if err := configureConnectionPool(db, maxOpen); err != nil {
		return nil, err
	}

	return db, nil
}
