package repository

import (
	"go-invoicehub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ComplaintRepository interface {
	Create(complaint *model.Complaint) error
	FindAllByOwner(ownerID uuid.UUID) ([]model.Complaint, error)
	FindByID(id uuid.UUID) (*model.Complaint, error)
	FindAll() ([]model.Complaint, error)
	Update(complaint *model.Complaint) error
}

type complaintRepo struct {
	db *gorm.DB
}

func NewComplaintRepo(db *gorm.DB) ComplaintRepository {
	return &complaintRepo{db}
}

func (r *complaintRepo) Create(complaint *model.Complaint) error {
	return r.db.Create(complaint).Error
}

func (r *complaintRepo) FindAllByOwner(ownerID uuid.UUID) ([]model.Complaint, error) {
	var complaints []model.Complaint
	err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&complaints).Error
	return complaints, err
}

func (r *complaintRepo) FindByID(id uuid.UUID) (*model.Complaint, error) {
	var complaint model.Complaint
	if err := r.db.First(&complaint, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &complaint, nil
}

// FindAll is the admin view; it preloads owners so support staff see who filed.
func (r *complaintRepo) FindAll() ([]model.Complaint, error) {
	var complaints []model.Complaint
	err := r.db.Preload("Owner").Order("created_at DESC").Find(&complaints).Error
	return complaints, err
}

func (r *complaintRepo) Update(complaint *model.Complaint) error {
	return r.db.Save(complaint).Error
}
