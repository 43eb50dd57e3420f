package db

import (
	"fmt"
	"time"

	"blogicum/internal/models"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured database and migrates the schema.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", driver, err)
	}

	if driver == "sqlite" {
		// a single connection keeps in-memory databases alive and serializes writers
		sqlDB, err := conn.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

func Migrate(conn *gorm.DB) error {
	err := conn.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Location{},
		&models.Post{},
		&models.Comment{},
	)
	if err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// Seed creates the initial categories and locations on an empty database.
func Seed(conn *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := conn.Model(&models.Category{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		log.Debug("categories already seeded, skipping")
		return nil
	}

	categories := []models.Category{
		{Title: "Travel", Slug: "travel", Description: "Notes from the road", IsPublished: true},
		{Title: "Cooking", Slug: "cooking", Description: "Recipes and food stories", IsPublished: true},
		{Title: "Misc", Slug: "misc", Description: "Everything else", IsPublished: true},
	}
	locations := []models.Location{
		{Name: "Moscow", IsPublished: true},
		{Name: "Saint Petersburg", IsPublished: true},
		{Name: "Island of Despair", IsPublished: true},
	}

	return conn.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&categories).Error; err != nil {
			return fmt.Errorf("seed categories: %w", err)
		}
		if err := tx.Create(&locations).Error; err != nil {
			return fmt.Errorf("seed locations: %w", err)
		}
		log.Info("initial categories and locations created",
			zap.Int("categories", len(categories)),
			zap.Int("locations", len(locations)))
		return nil
	})
}
