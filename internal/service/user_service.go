package service

import (
	"strings"

	"go-invoicehub/internal/apperr"
	"go-invoicehub/internal/model"
	"go-invoicehub/internal/repository"

	"github.com/google/uuid"
)

type UserService interface {
	GetProfile(userID uuid.UUID) (*model.UserResponse, error)
	UpdateAccount(userID uuid.UUID, req *UpdateAccountRequest) (*model.UserResponse, error)
	IsUsernameAvailable(username string) (bool, error)
	DeleteAccount(userID uuid.UUID) error
}

type UpdateAccountRequest struct {
	Username            string `json:"username"`
	BusinessName        string `json:"business_name"`
	BusinessCategory    string `json:"business_category"`
	BusinessDescription string `json:"business_description"`
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetProfile(userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperr.NotFound("user not found")
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) UpdateAccount(userID uuid.UUID, req *UpdateAccountRequest) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperr.NotFound("user not found")
	}

	if req.Username != "" {
		username := strings.ToLower(strings.TrimSpace(req.Username))
		if username != user.Username {
			if existing, _ := s.userRepo.FindByUsername(username); existing != nil {
				return nil, apperr.AlreadyExists("username is already taken")
			}
			user.Username = username
		}
	}
	if req.BusinessName != "" {
		user.BusinessName = req.BusinessName
	}
	if req.BusinessCategory != "" {
		user.BusinessCategory = req.BusinessCategory
	}
	if req.BusinessDescription != "" {
		user.BusinessDescription = req.BusinessDescription
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) IsUsernameAvailable(username string) (bool, error) {
	if username == "" {
		return false, apperr.InvalidInput("username is required")
	}
	existing, _ := s.userRepo.FindByUsername(strings.ToLower(username))
	return existing == nil, nil
}

// DeleteAccount removes the user and every record they own in one unit.
func (s *userService) DeleteAccount(userID uuid.UUID) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return apperr.NotFound("user not found")
	}
	return s.userRepo.DeleteCascade(userID)
}
