package audit

import (
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

func newAuditDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.AuditLog{}))
	return db
}

func TestDispatcherPersistsBookingEvents(t *testing.T) {
	db := newAuditDB(t)
	log := zerolog.New(io.Discard)
	d := NewDispatcher(New(db), &log)

	userID := uint(3)
	require.NoError(t, d.HandleEvent(context.Background(), domain.Event{
		ID: "evt-1", Type: domain.EventCancelled, TenantID: 1, BookingID: 9, Status: domain.StatusCancelled, UserID: &userID,
	}))
	require.NoError(t, d.HandleEvent(context.Background(), domain.Event{
		ID: "evt-2", Type: domain.EventNoShow, TenantID: 1, BookingID: 10, Status: domain.StatusNoShow,
	}))
	d.Close()

	var logs []models.AuditLog
	require.NoError(t, db.Order("id").Find(&logs).Error)
	require.Len(t, logs, 2)

	assert.Equal(t, "booking_cancelled", logs[0].Action)
	assert.Equal(t, "booking", logs[0].Entity)
	require.NotNil(t, logs[0].EntityID)
	assert.Equal(t, uint(9), *logs[0].EntityID)
	require.NotNil(t, logs[0].UserID)
	assert.JSONEq(t, `{"event_id":"evt-1","status":"CANCELLED"}`, logs[0].Metadata)

	assert.Equal(t, "booking_no_show", logs[1].Action)
	assert.Nil(t, logs[1].UserID)
}
