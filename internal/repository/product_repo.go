package repository

import (
	"go-invoicehub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAllByOwner(ownerID uuid.UUID) ([]model.Product, error)
	FindByIDAndOwner(id, ownerID uuid.UUID) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id, ownerID uuid.UUID) error
	UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int) error
	CountByOwner(ownerID uuid.UUID) (int64, error)
	LowStockByOwner(ownerID uuid.UUID, threshold, limit int) ([]model.Product, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAllByOwner(ownerID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&products).Error
	return products, err
}

// FindByIDAndOwner scopes the lookup to one owner. A record owned by someone
// else is indistinguishable from a missing one.
func (r *productRepo) FindByIDAndOwner(id, ownerID uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "id = ? AND owner_id = ?", id, ownerID).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) Delete(id, ownerID uuid.UUID) error {
	res := r.db.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&model.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateStock takes the caller's *gorm.DB so stock writes participate in the
// caller's transaction.
func (r *productRepo) UpdateStock(tx *gorm.DB, id uuid.UUID, newStock int) error {
	return tx.Model(&model.Product{}).
		Where("id = ?", id).
		Update("stock", newStock).Error
}

func (r *productRepo) CountByOwner(ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}

func (r *productRepo) LowStockByOwner(ownerID uuid.UUID, threshold, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("owner_id = ? AND stock <= ?", ownerID, threshold).
		Order("stock ASC").
		Limit(limit).
		Find(&products).Error
	return products, err
}
