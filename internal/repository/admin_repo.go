package repository

import (
	"go-invoicehub/internal/model"

	"gorm.io/gorm"
)

type AdminRepository interface {
	Create(admin *model.Admin) error
	FindByEmail(email string) (*model.Admin, error)
}

type adminRepo struct {
	db *gorm.DB
}

func NewAdminRepo(db *gorm.DB) AdminRepository {
	return &adminRepo{db}
}

func (r *adminRepo) Create(admin *model.Admin) error {
	return r.db.Create(admin).Error
}

func (r *adminRepo) FindByEmail(email string) (*model.Admin, error) {
	var admin model.Admin
	if err := r.db.Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}
