package service

import (
	"go-invoicehub/internal/apperr"
	"go-invoicehub/internal/model"
	"go-invoicehub/internal/repository"
	"go-invoicehub/internal/storage"
	"go-invoicehub/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ComplaintService interface {
	Submit(ownerID uuid.UUID, req *ComplaintRequest, image []byte, imageExt string) (*model.Complaint, error)
	GetMine(ownerID uuid.UUID) ([]model.Complaint, error)
}

type ComplaintRequest struct {
	Subject     string `json:"subject" validate:"required"`
	Description string `json:"description" validate:"required"`
}

type complaintService struct {
	complaintRepo repository.ComplaintRepository
	store         storage.ObjectStore
	log           *zap.Logger
}

func NewComplaintService(complaintRepo repository.ComplaintRepository, store storage.ObjectStore, log *zap.Logger) ComplaintService {
	return &complaintService{
		complaintRepo: complaintRepo,
		store:         store,
		log:           log,
	}
}

func (s *complaintService) Submit(ownerID uuid.UUID, req *ComplaintRequest, image []byte, imageExt string) (*model.Complaint, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, apperr.InvalidInput("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	complaint := &model.Complaint{
		OwnerID:     ownerID,
		Subject:     req.Subject,
		Description: req.Description,
		Status:      model.ComplaintPending,
	}

	if len(image) > 0 {
		ref, err := s.store.Put(image, imageExt)
		if err != nil {
			return nil, apperr.Upstream("failed to store attachment")
		}
		complaint.Image = ref
	}

	if err := s.complaintRepo.Create(complaint); err != nil {
		return nil, err
	}
	return complaint, nil
}

func (s *complaintService) GetMine(ownerID uuid.UUID) ([]model.Complaint, error) {
	return s.complaintRepo.FindAllByOwner(ownerID)
}
