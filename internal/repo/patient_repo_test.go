package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/cardioai/cardioai-backend/internal/domain"
)

func newRepoDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestUpsertPatientByName_CreatesThenUpdates(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	first, err := UpsertPatientByName(ctx, db, PatientUpsert{
		Name: "John Doe", Age: 55, Sex: 1, RiskLevel: "High", SystemNotes: "first",
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if first.ID == 0 || first.Status != domain.StatusActive {
		t.Fatalf("unexpected created patient: %+v", first)
	}

	second, err := UpsertPatientByName(ctx, db, PatientUpsert{
		Name: "John Doe", Age: 56, Sex: 1, RiskLevel: "Medium", SystemNotes: "second",
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("same name created a second row: %d != %d", second.ID, first.ID)
	}
	if second.Age != 56 || second.RiskLevel != "Medium" || second.SystemNotes != "second" {
		t.Fatalf("fields not overwritten: %+v", second)
	}

	n, err := CountPatients(ctx, db, nil)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected exactly one patient, got %d", n)
	}
}

func TestUpsertPatientByName_KeepsContactWhenBlank(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	if _, err := UpsertPatientByName(ctx, db, PatientUpsert{Name: "P", Contact: "p@x.org", RiskLevel: "Low"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	p, err := UpsertPatientByName(ctx, db, PatientUpsert{Name: "P", RiskLevel: "Low"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if p.Contact != "p@x.org" {
		t.Fatalf("blank contact overwrote stored value: %q", p.Contact)
	}
}

func TestUpsertPatientByName_RevivesSoftDeleted(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	first, err := UpsertPatientByName(ctx, db, PatientUpsert{
		Name: "Ghost", Age: 61, Sex: 1, RiskLevel: "High", SystemNotes: "first",
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := SoftDeletePatient(ctx, db, first.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	// Same name again: the deleted row still holds the unique name, so the
	// upsert must revive it rather than fail on the constraint.
	second, err := UpsertPatientByName(ctx, db, PatientUpsert{
		Name: "Ghost", Age: 62, Sex: 1, RiskLevel: "Low", SystemNotes: "second",
	})
	if err != nil {
		t.Fatalf("upsert after delete: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("revival created a second row: %d != %d", second.ID, first.ID)
	}

	got, err := GetPatient(ctx, db, first.ID)
	if err != nil {
		t.Fatalf("revived patient not readable: %v", err)
	}
	if got.Status != domain.StatusActive || got.RiskLevel != "Low" || got.Age != 62 {
		t.Fatalf("revived row not updated: %+v", got)
	}

	n, err := CountPatients(ctx, db, nil)
	if err != nil || n != 1 {
		t.Fatalf("want one visible patient, got %d (%v)", n, err)
	}
}

func TestInsertPatient_ConflictKeepsTransactionUsable(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	if err := CreatePatient(ctx, db, &domain.Patient{Name: "Taken"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// A name conflict must not raise an error, so a surrounding transaction
	// is not aborted and later statements in it still run.
	err := db.Transaction(func(tx *gorm.DB) error {
		_, inserted, err := insertPatient(ctx, tx, PatientUpsert{Name: "Taken", RiskLevel: "Low"})
		if err != nil {
			t.Fatalf("conflicting insert errored: %v", err)
		}
		if inserted {
			t.Fatalf("conflicting insert reported as inserted")
		}

		var n int64
		if err := tx.Model(&domain.Patient{}).Count(&n).Error; err != nil {
			t.Fatalf("transaction unusable after conflict: %v", err)
		}
		return CreatePatient(ctx, tx, &domain.Patient{Name: "After"})
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}

	n, err := CountPatients(ctx, db, nil)
	if err != nil || n != 2 {
		t.Fatalf("want 2 patients after commit, got %d (%v)", n, err)
	}
}

func TestCreatePatient_DuplicateNameErrors(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	if err := CreatePatient(ctx, db, &domain.Patient{Name: "Dup"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if err := CreatePatient(ctx, db, &domain.Patient{Name: "Dup"}); err == nil {
		t.Fatalf("expected unique-constraint error for duplicate name")
	}
}

func TestSoftDeletePatient_FiltersReads(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	p := &domain.Patient{Name: "Gone"}
	if err := CreatePatient(ctx, db, p); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := SoftDeletePatient(ctx, db, p.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	if _, err := GetPatient(ctx, db, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted patient still readable, err=%v", err)
	}
	n, err := CountPatients(ctx, db, nil)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("deleted patient still counted: %d", n)
	}

	// Row is retained, only flagged.
	var raw int64
	if err := db.Unscoped().Model(&domain.Patient{}).Count(&raw).Error; err != nil {
		t.Fatalf("unscoped count: %v", err)
	}
	if raw != 1 {
		t.Fatalf("soft delete removed the row entirely")
	}

	// Second delete: nothing visible left.
	if err := SoftDeletePatient(ctx, db, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on re-delete, got %v", err)
	}
}

func TestUpdatePatientNotes_Missing(t *testing.T) {
	db := newRepoDB(t)
	if err := UpdatePatientNotes(context.Background(), db, 999, "n"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListPatientsPage_DoctorFilter(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	d1 := uint(1)
	for i, doc := range []*uint{&d1, &d1, nil} {
		p := &domain.Patient{Name: fmt.Sprintf("p%d", i), DoctorID: doc}
		if err := CreatePatient(ctx, db, p); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	all, err := ListPatientsPage(ctx, db, nil, 0, 10)
	if err != nil || len(all) != 3 {
		t.Fatalf("unfiltered list: %v (%d rows)", err, len(all))
	}
	mine, err := ListPatientsPage(ctx, db, &d1, 0, 10)
	if err != nil || len(mine) != 2 {
		t.Fatalf("filtered list: %v (%d rows)", err, len(mine))
	}
}
