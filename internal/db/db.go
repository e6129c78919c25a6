package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/config"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

// Impede duas reservas horárias ativas no mesmo início, mesmo se a checagem
// de sobreposição perder a corrida. Postgres e SQLite aceitam a mesma sintaxe.
const activeSlotIndex = `
	CREATE UNIQUE INDEX IF NOT EXISTS ux_bookings_active_slot
	ON bookings (tenant_id, COALESCE(branch_id, 0), date, start_time)
	WHERE check_out_date IS NULL AND status IN ('PENDING', 'CONFIRMED')
`

// Um expediente por dia em cada escopo. COALESCE porque NULLs são distintos
// em índice único e o expediente do estabelecimento tem branch_id nulo.
const scheduleDayIndex = `
	CREATE UNIQUE INDEX IF NOT EXISTS ux_schedules_scope_day
	ON schedules (tenant_id, COALESCE(branch_id, 0), day_of_week)
`

// índice antigo, criado pela tag do gorm sem COALESCE
const legacyScheduleIndex = `DROP INDEX IF EXISTS ux_schedule_day`

func NewDB(cfg *config.Config, logger *zerolog.Logger) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to get sql.DB")
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate")
	}

	return db
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Tenant{},
		&models.Branch{},
		&models.User{},
		&models.Service{},
		&models.Schedule{},
		&models.BlockedDate{},
		&models.Customer{},
		&models.Booking{},
		&models.AuditLog{},
	); err != nil {
		return err
	}

	if err := db.Exec(activeSlotIndex).Error; err != nil {
		return fmt.Errorf("active slot index: %w", err)
	}

	if err := db.Exec(legacyScheduleIndex).Error; err != nil {
		return fmt.Errorf("drop legacy schedule index: %w", err)
	}
	if err := db.Exec(scheduleDayIndex).Error; err != nil {
		return fmt.Errorf("schedule day index: %w", err)
	}

	return nil
}
