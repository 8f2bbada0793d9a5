package db

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barber-booking/internal/auth"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	"github.com/BruksfildServices01/barber-booking/internal/domain/roles"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// activeSlotIndex keeps a (worker, day, time) slot held by at most one live booking.
const activeSlotIndex = `
	CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_active_slot
	ON bookings (worker_id, date, time)
	WHERE status <> 'CANCELLED'
`

// Soft-deleted accounts release their email and Google id.
var liveUserIndexes = []string{
	`DROP INDEX IF EXISTS idx_users_email`,
	`DROP INDEX IF EXISTS idx_users_google_id`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_live_email
	ON users (email)
	WHERE deleted_at IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_live_google_id
	ON users (google_id)
	WHERE deleted_at IS NULL AND google_id IS NOT NULL`,
}

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	const op = "db.NewDB"

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.Booking{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	if err := db.Exec(activeSlotIndex).Error; err != nil {
		return fmt.Errorf("failed to create slot index: %w", err)
	}

	for _, stmt := range liveUserIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create user indexes: %w", err)
		}
	}
	return nil
}

// SeedAdmin creates the configured administrator when no user owns that email yet.
func SeedAdmin(db *gorm.DB, cfg config.AdminConfig, log *slog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(cfg.Email))
	if email == "" || cfg.Password == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return err
	}

	admin := models.User{
		Name:         cfg.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         roles.Admin.String(),
		Active:       true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Info("seeded admin user", slog.String("email", email))
	return nil
}
