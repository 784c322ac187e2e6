package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/eleven-am/voice-recorder/internal/shared"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return db
}

func setupTestStore(t *testing.T) *Store {
	store := NewStore(setupTestDB(t))
	if err := store.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return store
}

func TestStore_Migrate(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	if err := store.Migrate(); err != nil {
		t.Errorf("Migrate() error = %v", err)
	}
	if !db.Migrator().HasTable(&Profile{}) {
		t.Error("expected Profile table to exist")
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	p := &Profile{
		Name:        DefaultName,
		PhoneNumber: "+254700000000",
		ProfileData: shared.JSONMap{"job_title": "Driver", "start_year": 2020},
	}
	if err := store.Create(ctx, p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.ID == 0 {
		t.Fatal("expected ID to be assigned")
	}

	got, err := store.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != DefaultName || got.PhoneNumber != "+254700000000" {
		t.Errorf("unexpected profile %+v", got)
	}
	if got.ProfileData["job_title"] != "Driver" {
		t.Errorf("job_title = %v", got.ProfileData["job_title"])
	}
	if got.ProfileData["start_year"] != float64(2020) {
		t.Errorf("start_year = %v", got.ProfileData["start_year"])
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetByID(context.Background(), 42)
	if !errors.Is(err, shared.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestStore_List(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		if err := store.Create(ctx, &Profile{Name: name}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	profiles, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(profiles) != 3 {
		t.Fatalf("expected 3 profiles, got %d", len(profiles))
	}
	if profiles[0].Name != "a" || profiles[2].Name != "c" {
		t.Errorf("expected insertion order, got %s..%s", profiles[0].Name, profiles[2].Name)
	}
}
