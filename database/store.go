package database

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"git.sr.ht/~nullevoid/gridpoints/roster"
)

// Store wraps your GORM DB instance.
type Store struct {
	DB *gorm.DB
}

// NewStore opens (or creates) the SQLite file at path, applies
// connection settings, and runs migrations.
func NewStore(path string) (*Store, error) {
	gormDB, err := gorm.Open(
		sqlite.Open(path+"?_foreign_keys=on"),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm sqlite: %w", err)
	}

	// Grab the underlying *sql.DB to set connection limits.
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Minute)

	store := &Store{DB: gormDB}
	if err := store.Migrate(); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	return store, nil
}

// Migrate runs AutoMigrate on all your models.
func (s *Store) Migrate() error {
	if err := s.DB.AutoMigrate(
		&Driver{},
		&Constructor{},
		&Race{},
		&Submission{},
		&OfficialResult{},
		&ChampionshipResult{},
		&RankingEntry{},
		&Snapshot{},
		&SnapshotEntry{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}

// Close cleanly shuts down the database connection.
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SeedRoster reads a JSON roster file and seeds the drivers and
// constructors tables if they are empty. The JSON structure matches the
// Driver and Constructor models.
func (s *Store) SeedRoster(path string) error {
	var count int64
	if err := s.DB.Model(&Driver{}).Count(&count).Error; err != nil {
		return fmt.Errorf("counting drivers: %w", err)
	}
	if count > 0 {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var wrapper struct {
		Drivers      []Driver      `json:"drivers"`
		Constructors []Constructor `json:"constructors"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return err
	}
	if len(wrapper.Drivers) == 0 {
		return nil
	}

	// slugify names and ensure they are present
	for i := range wrapper.Drivers {
		if wrapper.Drivers[i].Slug == "" {
			wrapper.Drivers[i].Slug = roster.Slugify(wrapper.Drivers[i].Name)
		}
		if wrapper.Drivers[i].Slug == "" {
			return fmt.Errorf("driver slug is empty for driver: %s", wrapper.Drivers[i].Name)
		}
	}
	for i := range wrapper.Constructors {
		if wrapper.Constructors[i].Slug == "" {
			wrapper.Constructors[i].Slug = roster.Slugify(wrapper.Constructors[i].Name)
		}
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).Create(&wrapper.Drivers).Error; err != nil {
			return err
		}

		if len(wrapper.Constructors) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "slug"}},
				DoNothing: true,
			}).Create(&wrapper.Constructors).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
