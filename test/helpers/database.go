package helpers

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/andrescamacho/cargoplanner-go/internal/adapters/persistence"
	"github.com/andrescamacho/cargoplanner-go/internal/domain/catalog"
	"github.com/andrescamacho/cargoplanner-go/internal/infrastructure/database"
)

// NewTestDB opens a migrated in-memory SQLite database closed at test end
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewTestConnection()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// SeedCatalogCache stores c as the cached catalog snapshot
func SeedCatalogCache(t *testing.T, db *gorm.DB, c *catalog.Catalog) {
	t.Helper()
	if err := persistence.NewGormCatalogCache(db, nil).SaveCatalog(context.Background(), c); err != nil {
		t.Fatalf("failed to seed catalog cache: %v", err)
	}
}
