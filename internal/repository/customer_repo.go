package repository

import (
	"go-invoicehub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(customer *model.Customer) error
	FindAllByOwner(ownerID uuid.UUID) ([]model.Customer, error)
	FindByIDAndOwner(id, ownerID uuid.UUID) (*model.Customer, error)
	FindByPhoneAndOwner(phone string, ownerID uuid.UUID) (*model.Customer, error)
	Update(customer *model.Customer) error
	Delete(id, ownerID uuid.UUID) error
	CountByOwner(ownerID uuid.UUID) (int64, error)
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) Create(customer *model.Customer) error {
	return r.db.Create(customer).Error
}

func (r *customerRepo) FindAllByOwner(ownerID uuid.UUID) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) FindByIDAndOwner(id, ownerID uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.First(&customer, "id = ? AND owner_id = ?", id, ownerID).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindByPhoneAndOwner backs the per-owner phone uniqueness check. The same
// phone number may exist under different owners.
func (r *customerRepo) FindByPhoneAndOwner(phone string, ownerID uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.First(&customer, "phone = ? AND owner_id = ?", phone, ownerID).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) Update(customer *model.Customer) error {
	return r.db.Save(customer).Error
}

func (r *customerRepo) Delete(id, ownerID uuid.UUID) error {
	res := r.db.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&model.Customer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *customerRepo) CountByOwner(ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Customer{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}
