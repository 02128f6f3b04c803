// Package testutil opens throwaway SQLite databases for package tests.
package testutil

import (
	"fmt"
	"movienest/src/config"
	movies "movienest/src/modules/movies/models"
	users "movienest/src/modules/users/models"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewDB returns a migrated in-memory database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.RunMigrations(db))
	return db
}

func IntPtr(v int) *int { return &v }

// SeedMovie inserts a movie with the given title, genre and year.
func SeedMovie(t *testing.T, db *gorm.DB, title, genre string, year int) movies.Movie {
	t.Helper()
	m := movies.Movie{Title: title, Genre: genre, ReleaseYear: IntPtr(year), Version: 1}
	require.NoError(t, db.Create(&m).Error)
	return m
}

// SeedUser inserts a user with an unusable password hash.
func SeedUser(t *testing.T, db *gorm.DB, username, role string) users.User {
	t.Helper()
	u := users.User{Username: username, PasswordHash: "x", Role: role, Version: 1}
	require.NoError(t, db.Create(&u).Error)
	return u
}
