package service

import (
	"go-invoicehub/internal/apperr"
	"go-invoicehub/internal/model"
	"go-invoicehub/internal/repository"
	"go-invoicehub/pkg/validator"

	"github.com/google/uuid"
)

type CustomerService interface {
	Add(ownerID uuid.UUID, req *CustomerRequest) (*model.Customer, error)
	GetAll(ownerID uuid.UUID) ([]model.Customer, error)
	GetByID(id, ownerID uuid.UUID) (*model.Customer, error)
	Update(id, ownerID uuid.UUID, req *CustomerRequest) (*model.Customer, error)
	Delete(id, ownerID uuid.UUID) error
}

type CustomerRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address"`
}

type customerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo}
}

func (s *customerService) Add(ownerID uuid.UUID, req *CustomerRequest) (*model.Customer, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, apperr.InvalidInput("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// Phone uniqueness is per owner: two different owners may both know
	// the customer behind one phone number.
	if existing, _ := s.customerRepo.FindByPhoneAndOwner(req.Phone, ownerID); existing != nil {
		return nil, apperr.AlreadyExists("customer with this phone number already exists in your list")
	}

	customer := &model.Customer{
		OwnerID: ownerID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := s.customerRepo.Create(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) GetAll(ownerID uuid.UUID) ([]model.Customer, error) {
	return s.customerRepo.FindAllByOwner(ownerID)
}

func (s *customerService) GetByID(id, ownerID uuid.UUID) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByIDAndOwner(id, ownerID)
	if err != nil {
		return nil, apperr.NotFound("customer not found")
	}
	return customer, nil
}

func (s *customerService) Update(id, ownerID uuid.UUID, req *CustomerRequest) (*model.Customer, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, apperr.InvalidInput("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	customer, err := s.customerRepo.FindByIDAndOwner(id, ownerID)
	if err != nil {
		return nil, apperr.NotFound("customer not found")
	}

	if req.Phone != customer.Phone {
		if existing, _ := s.customerRepo.FindByPhoneAndOwner(req.Phone, ownerID); existing != nil {
			return nil, apperr.AlreadyExists("customer with this phone number already exists in your list")
		}
	}

	customer.Name = req.Name
	customer.Email = req.Email
	customer.Phone = req.Phone
	if req.Address != "" {
		customer.Address = req.Address
	}

	if err := s.customerRepo.Update(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) Delete(id, ownerID uuid.UUID) error {
	if err := s.customerRepo.Delete(id, ownerID); err != nil {
		return apperr.NotFound("customer not found")
	}
	return nil
}
