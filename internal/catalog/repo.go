package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rahulverma-dev/medstock-backend/pkg/db/models"
)

// Repository defines persistence operations for the store-scoped drug catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindDrug(ctx context.Context, id uuid.UUID) (*models.Drug, error)
	FindStoreEquivalent(ctx context.Context, storeID uuid.UUID, name string, strength, form *string) (*models.Drug, error)
	CreateDrug(ctx context.Context, drug *models.Drug) (*models.Drug, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindDrug(ctx context.Context, id uuid.UUID) (*models.Drug, error) {
	var drug models.Drug
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&drug).Error
	if err != nil {
		return nil, err
	}
	return &drug, nil
}

// FindStoreEquivalent locates the store-local copy of a drug by its identity
// triple (name, strength, form). Nil strength/form match only rows where the
// column is null.
func (r *repository) FindStoreEquivalent(ctx context.Context, storeID uuid.UUID, name string, strength, form *string) (*models.Drug, error) {
	query := r.db.WithContext(ctx).
		Where("store_id = ? AND name = ?", storeID, name)
	if strength != nil {
		query = query.Where("strength = ?", *strength)
	} else {
		query = query.Where("strength IS NULL")
	}
	if form != nil {
		query = query.Where("form = ?", *form)
	} else {
		query = query.Where("form IS NULL")
	}

	var drug models.Drug
	if err := query.First(&drug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &drug, nil
}

func (r *repository) CreateDrug(ctx context.Context, drug *models.Drug) (*models.Drug, error) {
	if drug.ID == uuid.Nil {
		drug.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(drug).Error; err != nil {
		return nil, err
	}
	return drug, nil
}
