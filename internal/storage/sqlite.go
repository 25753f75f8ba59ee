package storage

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// stateRow holds the entire document as one blob row. Replacing it wholesale
// in a transaction gives the same atomic-document semantics as the file
// backend, with sqlite's durability.
type stateRow struct {
	ID        uint   `gorm:"primaryKey"`
	Data      []byte `gorm:"not null"`
	UpdatedAt time.Time
}

func (stateRow) TableName() string { return "app_state" }

const stateRowID = 1

type SQLiteStorage struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the sqlite database at dsn and migrates the
// single-row state table.
func OpenSQLite(dsn string) (*SQLiteStorage, error) {
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logLevel)})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.AutoMigrate(&stateRow{}); err != nil {
		return nil, fmt.Errorf("migrate state table: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) Load() ([]byte, error) {
	var row stateRow
	err := s.db.First(&row, stateRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("load state row: %w", err)
	}
	return row.Data, nil
}

func (s *SQLiteStorage) Save(data []byte) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Save(&stateRow{ID: stateRowID, Data: data}).Error
	})
	if err != nil {
		return fmt.Errorf("save state row: %w", err)
	}
	return nil
}
