package audit

import (
	"context"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cardioai/cardioai-backend/internal/domain"
)

func newAuditDB(t *testing.T, migrate bool) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:audit_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if migrate {
		if err := db.AutoMigrate(&domain.AuditLog{}); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestRecord_WritesRow(t *testing.T) {
	db := newAuditDB(t, true)
	r := NewRecorder(db)

	entityID := uint(7)
	r.Record(context.Background(), 1, ActionRunAssessment, EntityRecords, &entityID, map[string]any{
		"risk_level": "High",
	})

	var got domain.AuditLog
	if err := db.First(&got).Error; err != nil {
		t.Fatalf("load audit row: %v", err)
	}
	if got.DoctorID != 1 || got.Action != ActionRunAssessment || got.Entity != EntityRecords {
		t.Fatalf("unexpected row: %+v", got)
	}
	if got.EntityID == nil || *got.EntityID != 7 {
		t.Fatalf("entity id not stored: %+v", got.EntityID)
	}
	if got.Details == "" || got.Details[0] != '{' {
		t.Fatalf("details not JSON: %q", got.Details)
	}
}

func TestRecord_NilDetailsAndEntityID(t *testing.T) {
	db := newAuditDB(t, true)
	r := NewRecorder(db)

	r.Record(context.Background(), 1, ActionResetSystem, EntitySystem, nil, nil)

	var n int64
	db.Model(&domain.AuditLog{}).Count(&n)
	if n != 1 {
		t.Fatalf("expected one row, got %d", n)
	}
}

func TestRecord_SwallowsWriteFailure(t *testing.T) {
	// No table migrated: the insert must fail, but Record must not panic or
	// propagate the error.
	db := newAuditDB(t, false)
	r := NewRecorder(db)

	r.Record(context.Background(), 1, ActionCreatePatient, EntityPatients, nil, nil)
}
