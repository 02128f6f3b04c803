package config

import (
	lists "movienest/src/modules/lists/models"
	movies "movienest/src/modules/movies/models"
	recommendations "movienest/src/modules/recommendations/models"
	trending "movienest/src/modules/trending/models"
	upcoming "movienest/src/modules/upcoming/models"
	users "movienest/src/modules/users/models"

	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDatabase initializes and migrates the database.
func ConnectDatabase(cfg DatabaseConfig) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		TranslateError: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := database.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get underlying SQL DB")
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	log.Info().Str("host", cfg.Host).Str("db", cfg.Name).Msg("Connected to PostgreSQL database")

	if err := RunMigrations(database); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}

	return database
}

// CheckConnection pings db and runs a trivial query.
func CheckConnection(db *gorm.DB) bool {
	if db == nil {
		return false
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Error().Err(err).Msg("Failed to get generic database object")
		return false
	}

	if err := sqlDB.Ping(); err != nil {
		log.Error().Err(err).Msg("Database ping failed")
		return false
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		log.Error().Err(err).Msg("Test query failed")
		return false
	}
	return result == 1
}

// RunMigrations migrates every entity table. Parents come before the
// association tables that reference them.
func RunMigrations(db *gorm.DB) error {
	migrations := []func(*gorm.DB) error{
		movies.MigrateMovies,
		users.MigrateUsers,
		lists.MigrateLists,
		recommendations.MigrateRecommendations,
		trending.MigrateTrending,
		upcoming.MigrateUpcoming,
	}

	for _, migrate := range migrations {
		if err := migrate(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	log.Info().Msg("All migrations completed successfully")
	return nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
