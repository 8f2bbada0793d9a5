// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barber-booking/internal/db"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// New returns a migrated sqlite database private to the calling test.
// A single connection serialises transactions the way row locks would.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func CreateUser(t *testing.T, gdb *gorm.DB, name, role string) *models.User {
	t.Helper()

	u := &models.User{
		Name:         name,
		Email:        fmt.Sprintf("%s-%s@barber.test", name, uuid.NewString()[:8]),
		PasswordHash: "x",
		Role:         role,
		Active:       true,
	}
	require.NoError(t, gdb.Create(u).Error)
	return u
}

func CreateService(t *testing.T, gdb *gorm.DB, name string, price float64) *models.Service {
	t.Helper()

	s := &models.Service{Name: name, Price: price, DurationMin: 30}
	require.NoError(t, gdb.Create(s).Error)
	return s
}
