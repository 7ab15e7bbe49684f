package repository

import (
	"go-invoicehub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uuid.UUID) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	FindByUsernameOrEmail(username, email string) (*model.User, error)
	FindAll() ([]model.User, error)
	Update(user *model.User) error
	UpdateRefreshToken(userID uuid.UUID, token string) error
	HardDelete(id uuid.UUID) error
	DeleteCascade(id uuid.UUID) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepo) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindByUsernameOrEmail(username, email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ? OR email = ?", username, email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) FindAll() ([]model.User, error) {
	var users []model.User
	if err := r.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) Update(user *model.User) error {
	return r.db.Save(user).Error
}

func (r *userRepo) UpdateRefreshToken(userID uuid.UUID, token string) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Update("refresh_token", token).Error
}

// HardDelete removes an unverified stale account so registration can proceed
// with the same username/email.
func (r *userRepo) HardDelete(id uuid.UUID) error {
	return r.db.Unscoped().Delete(&model.User{}, "id = ?", id).Error
}

// DeleteCascade removes the user and everything they own in one transaction,
// so a failure partway leaves no orphaned records.
func (r *userRepo) DeleteCascade(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var invoiceIDs []uuid.UUID
		if err := tx.Model(&model.Invoice{}).Where("owner_id = ?", id).Pluck("id", &invoiceIDs).Error; err != nil {
			return err
		}
		if len(invoiceIDs) > 0 {
			if err := tx.Where("invoice_id IN ?", invoiceIDs).Delete(&model.InvoiceItem{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("owner_id = ?", id).Delete(&model.Invoice{}).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", id).Delete(&model.Product{}).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", id).Delete(&model.Customer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", id).Delete(&model.Complaint{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, "id = ?", id).Error
	})
}
