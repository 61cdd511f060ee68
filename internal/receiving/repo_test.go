package receiving

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rahulverma-dev/medstock-backend/pkg/db/models"
	"github.com/rahulverma-dev/medstock-backend/pkg/enums"
)

func setupInventoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	batches := `
CREATE TABLE IF NOT EXISTS inventory_batches (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  drug_id TEXT NOT NULL,
  batch_number TEXT NOT NULL,
  expiry_date DATETIME NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 0,
  mrp NUMERIC NOT NULL DEFAULT 0,
  purchase_price NUMERIC NOT NULL DEFAULT 0,
  location TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (store_id, drug_id, batch_number)
);`
	movements := `
CREATE TABLE IF NOT EXISTS stock_movements (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  drug_id TEXT NOT NULL,
  batch_id TEXT NOT NULL,
  movement_type TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  reference TEXT NOT NULL,
  actor_user_id TEXT,
  created_at DATETIME
);`

	for _, ddl := range []string{batches, movements} {
		require.NoError(t, db.Exec(ddl).Error)
	}

	t.Cleanup(func() {
		db.Exec("DELETE FROM stock_movements")
		db.Exec("DELETE FROM inventory_batches")
	})
	return db
}

func TestInventoryRepository_CreateAndFindBatch(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewInventoryRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	drugID := uuid.New()

	created, err := repo.CreateBatch(ctx, &models.InventoryBatch{
		StoreID:       storeID,
		DrugID:        drugID,
		BatchNumber:   "LOT-44",
		ExpiryDate:    time.Now().AddDate(1, 6, 0),
		Quantity:      30,
		MRP:           decimal.NewFromFloat(22.50),
		PurchasePrice: decimal.NewFromFloat(18.00),
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	found, err := repo.FindBatch(ctx, storeID, drugID, "LOT-44")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, 30, found.Quantity)

	missing, err := repo.FindBatch(ctx, storeID, drugID, "LOT-45")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInventoryRepository_IncrementBatchRefreshesPricing(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewInventoryRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	drugID := uuid.New()

	batch, err := repo.CreateBatch(ctx, &models.InventoryBatch{
		StoreID:       storeID,
		DrugID:        drugID,
		BatchNumber:   "LOT-1",
		ExpiryDate:    time.Now().AddDate(1, 0, 0),
		Quantity:      10,
		MRP:           decimal.NewFromInt(20),
		PurchasePrice: decimal.NewFromInt(15),
	})
	require.NoError(t, err)

	location := "Rack B3"
	newExpiry := time.Now().AddDate(2, 0, 0).Truncate(time.Second)
	err = repo.IncrementBatch(ctx, batch.ID, 25, BatchRefresh{
		MRP:           decimal.NewFromInt(21),
		PurchasePrice: decimal.NewFromInt(16),
		ExpiryDate:    newExpiry,
		Location:      &location,
	})
	require.NoError(t, err)

	found, err := repo.FindBatch(ctx, storeID, drugID, "LOT-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 35, found.Quantity)
	assert.True(t, found.MRP.Equal(decimal.NewFromInt(21)))
	assert.True(t, found.PurchasePrice.Equal(decimal.NewFromInt(16)))
	require.NotNil(t, found.Location)
	assert.Equal(t, "Rack B3", *found.Location)
}

func TestInventoryRepository_UniqueBatchPerStoreDrug(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewInventoryRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	drugID := uuid.New()

	_, err := repo.CreateBatch(ctx, &models.InventoryBatch{
		StoreID:     storeID,
		DrugID:      drugID,
		BatchNumber: "LOT-77",
		ExpiryDate:  time.Now().AddDate(1, 0, 0),
		Quantity:    5,
	})
	require.NoError(t, err)

	_, err = repo.CreateBatch(ctx, &models.InventoryBatch{
		StoreID:     storeID,
		DrugID:      drugID,
		BatchNumber: "LOT-77",
		ExpiryDate:  time.Now().AddDate(1, 0, 0),
		Quantity:    5,
	})
	require.Error(t, err, "duplicate (store, drug, batch) must be rejected")

	// same batch number under another store is a different lot
	_, err = repo.CreateBatch(ctx, &models.InventoryBatch{
		StoreID:     uuid.New(),
		DrugID:      drugID,
		BatchNumber: "LOT-77",
		ExpiryDate:  time.Now().AddDate(1, 0, 0),
		Quantity:    5,
	})
	require.NoError(t, err)
}

func TestInventoryRepository_CreateMovement(t *testing.T) {
	db := setupInventoryTestDB(t)
	repo := NewInventoryRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	drugID := uuid.New()
	batchID := uuid.New()
	actor := uuid.New()

	err := repo.CreateMovement(ctx, &models.StockMovement{
		StoreID:      storeID,
		DrugID:       drugID,
		BatchID:      batchID,
		MovementType: enums.StockMovementTypeIn,
		Quantity:     40,
		Reference:    "GRN2026080007",
		ActorUserID:  &actor,
	})
	require.NoError(t, err)

	var stored models.StockMovement
	require.NoError(t, db.Where("batch_id = ?", batchID).First(&stored).Error)
	assert.Equal(t, enums.StockMovementTypeIn, stored.MovementType)
	assert.Equal(t, 40, stored.Quantity)
	assert.Equal(t, "GRN2026080007", stored.Reference)
}
